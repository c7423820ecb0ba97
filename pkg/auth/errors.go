package auth

import "errors"

// Protocol and key-material errors. All of them are fatal to the current
// handshake; the connection layer decides whether to retry the whole
// connection attempt.
var (
	// ErrSignatureMismatch - inbound message does not start with "NTLMSSP\0".
	ErrSignatureMismatch = errors.New("invalid NTLMSSP signature")

	// ErrUnexpectedMessageType - inbound message type does not match the
	// handshake state.
	ErrUnexpectedMessageType = errors.New("unexpected NTLM message type")

	// ErrMissingTargetInfo - CHALLENGE carries no target info even though
	// the client always requests it.
	ErrMissingTargetInfo = errors.New("challenge message has no target info")

	// ErrUnknownAvPair - target info contains an AV pair type outside the
	// set defined by MS-NLMP.
	ErrUnknownAvPair = errors.New("unknown av pair type in target info")

	// ErrKeyInit - key material could not be initialized (for example the
	// client nonce could not be drawn from the system CSPRNG). There is no
	// fallback to an unauthenticated path.
	ErrKeyInit = errors.New("NTLM key material initialization failed")
)
