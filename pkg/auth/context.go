package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/mssqlkit/ntlmauth/internal/encoding"
)

type handshakeState int

const (
	stateStart handshakeState = iota
	stateAwaitingChallenge
	stateComplete
)

// ClientContext holds the per-connection NTLM handshake state. A context is
// single-use: one handshake, not reusable across connections, and must not
// be shared between goroutines. The handshake is strictly sequential so no
// locking is provided.
type ClientContext struct {
	domainName    string // uppercased
	domainBytes   []byte // UTF-16LE
	upperUserName string
	userNameBytes []byte // UTF-16LE
	passwordHash  []byte
	workstation   string

	spnBytes       []byte // UTF-16LE
	channelBinding []byte

	serverChallenge [8]byte
	targetInfo      []byte
	timestamp       []byte // 8 bytes when the server sent one

	// raw copies of the first two messages, kept only for the MIC
	negotiateMsg []byte
	challengeMsg []byte

	sessionBaseKey []byte

	state handshakeState
}

// NewClientContext creates the context for one NTLM authentication
// attempt. The plaintext password does not persist beyond derivation of
// its MD4 hash.
func NewClientContext(cfg Config) (*ClientContext, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	passwordHash := cfg.PasswordHash
	if len(passwordHash) == 0 {
		passwordHash = NTHash(cfg.Password)
	}

	domain := strings.ToUpper(cfg.Domain)

	return &ClientContext{
		domainName:    domain,
		domainBytes:   encoding.ToUTF16LE(domain),
		upperUserName: strings.ToUpper(cfg.Username),
		userNameBytes: encoding.ToUTF16LE(cfg.Username),
		passwordHash:  passwordHash,
		workstation:   cfg.Workstation,

		spnBytes:       encoding.ToUTF16LE(cfg.ServerSPN),
		channelBinding: cfg.ChannelBinding,

		state: stateStart,
	}, nil
}

// InitialToken generates the NEGOTIATE message that opens the handshake.
// Equivalent to calling ProcessToken with an empty inbound token.
func (c *ClientContext) InitialToken() ([]byte, error) {
	tok, _, err := c.ProcessToken(nil)
	return tok, err
}

// ProcessToken advances the handshake with the inbound security token.
// An empty token means the handshake is starting: the NEGOTIATE message is
// returned with done=false. A non-empty token is parsed as the server's
// CHALLENGE and the AUTHENTICATE message is returned with done=true.
// Any error is fatal to this handshake; the context must be discarded.
func (c *ClientContext) ProcessToken(inToken []byte) (outToken []byte, done bool, err error) {
	if len(inToken) == 0 {
		if c.state != stateStart {
			return nil, false, fmt.Errorf("%w: empty token after handshake started", ErrUnexpectedMessageType)
		}
		tok := c.generateNegotiate()
		c.state = stateAwaitingChallenge
		return tok, false, nil
	}

	if c.state != stateAwaitingChallenge {
		return nil, false, fmt.Errorf("%w: challenge token in state %d", ErrUnexpectedMessageType, c.state)
	}

	tok, err := c.processChallenge(inToken)
	if err != nil {
		return nil, false, err
	}
	c.state = stateComplete
	return tok, true, nil
}

// Release discards the context and zeroes the derived key material.
func (c *ClientContext) Release() {
	zero(c.passwordHash)
	zero(c.sessionBaseKey)
	c.passwordHash = nil
	c.sessionBaseKey = nil
	c.negotiateMsg = nil
	c.challengeMsg = nil
	c.targetInfo = nil
	c.timestamp = nil
	c.state = stateComplete
}

// SessionBaseKey returns the session base key derived during the
// handshake. Nil before the AUTHENTICATE message has been built.
func (c *ClientContext) SessionBaseKey() []byte {
	return c.sessionBaseKey
}

func (c *ClientContext) generateNegotiate() []byte {
	msg := NewNegotiateMessage(c.domainBytes, []byte(c.workstation)).Marshal()

	// keep a copy for the MIC in the AUTHENTICATE message
	c.negotiateMsg = make([]byte, len(msg))
	copy(c.negotiateMsg, msg)

	return msg
}

func (c *ClientContext) processChallenge(inToken []byte) ([]byte, error) {
	challenge, err := ParseChallengeMessage(inToken)
	if err != nil {
		return nil, err
	}

	c.serverChallenge = challenge.ServerChallenge
	c.targetInfo = challenge.TargetInfo
	c.timestamp = challenge.Timestamp

	if challenge.HasTimestamp() {
		// keep a copy for the MIC in the AUTHENTICATE message
		c.challengeMsg = make([]byte, len(inToken))
		copy(c.challengeMsg, inToken)
	}

	return c.generateAuthenticate()
}

func (c *ClientContext) generateAuthenticate() ([]byte, error) {
	clientNonce, err := generateClientNonce()
	if err != nil {
		return nil, err
	}

	responseKeyNT := NTOWFv2(c.passwordHash, c.upperUserName, c.domainName)

	blob := BuildClientChallengeBlob(clientNonce, FileTime(time.Now()), c.targetInfo,
		len(c.timestamp) > 0, c.spnBytes, c.channelBinding)

	ntChallengeResponse, sessionBaseKey := ComputeResponse(responseKeyNT, c.serverChallenge[:], blob)
	c.sessionBaseKey = sessionBaseKey

	msg := NewAuthenticateMessage(ntChallengeResponse, c.domainBytes, c.userNameBytes,
		encoding.ToUTF16LE(c.workstation)).Marshal()

	// The MIC binds all three messages and is only verified by the server
	// when it sent a timestamp.
	if len(c.timestamp) > 0 {
		SetMIC(msg, ComputeMIC(sessionBaseKey, c.negotiateMsg, c.challengeMsg, msg))
	}

	return msg, nil
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
