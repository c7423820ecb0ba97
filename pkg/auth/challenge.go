package auth

import (
	"bytes"
	"fmt"

	"github.com/mssqlkit/ntlmauth/internal/encoding"
	"github.com/mssqlkit/ntlmauth/pkg/debug"
)

// Fixed header size of the CHALLENGE message: 8 (signature) + 4 (message
// type) + 8 (target name fields) + 4 (negotiate flags) + 8 (server
// challenge) + 8 (reserved) + 8 (target info fields) + 8 (version).
const challengeHeaderLen = 56

const timestampLen = 8

// ChallengeMessage represents the NTLMSSP Type 2 message (CHALLENGE_MESSAGE)
type ChallengeMessage struct {
	Signature        [8]byte
	MessageType      uint32 // Always 2
	TargetNameFields SecurityBuffer
	NegotiateFlags   uint32
	ServerChallenge  [8]byte
	Reserved         [8]byte
	TargetInfoFields SecurityBuffer
	Version          [8]byte

	TargetName []byte // From payload
	TargetInfo []byte // From payload, raw AV pair sequence

	// Timestamp is the 8-byte FILETIME from the MsvAvTimestamp pair, nil
	// when the server did not send one (pre-Vista servers).
	Timestamp []byte
}

// ParseChallengeMessage parses a Type 2 message. Target info must be
// present; its AV pairs are validated strictly and the server timestamp is
// extracted when the server sent one.
func ParseChallengeMessage(data []byte) (*ChallengeMessage, error) {
	if len(data) < challengeHeaderLen {
		return nil, fmt.Errorf("challenge message too short: %d bytes", len(data))
	}

	m := &ChallengeMessage{}

	copy(m.Signature[:], data[0:8])
	if !bytes.Equal(m.Signature[:], ntlmSignature[:]) {
		return nil, fmt.Errorf("%w: % x", ErrSignatureMismatch, m.Signature)
	}

	m.MessageType = encoding.Uint32LE(data[8:12])
	if m.MessageType != NtLmChallenge {
		return nil, fmt.Errorf("%w: got type %d, want CHALLENGE", ErrUnexpectedMessageType, m.MessageType)
	}

	m.TargetNameFields = readSecurityBuffer(data[12:20])
	m.NegotiateFlags = encoding.Uint32LE(data[20:24])
	copy(m.ServerChallenge[:], data[24:32])
	copy(m.Reserved[:], data[32:40])
	m.TargetInfoFields = readSecurityBuffer(data[40:48])
	copy(m.Version[:], data[48:56])

	var err error
	if m.TargetName, err = extractPayload(data, m.TargetNameFields, "target name"); err != nil {
		return nil, err
	}
	if m.TargetInfo, err = extractPayload(data, m.TargetInfoFields, "target info"); err != nil {
		return nil, err
	}

	// Target info was requested so the server must always send it.
	if len(m.TargetInfo) == 0 {
		return nil, ErrMissingTargetInfo
	}

	pairs, err := ParseAvPairs(m.TargetInfo)
	if err != nil {
		return nil, err
	}
	for _, p := range pairs {
		debug.Printf("challenge av pair 0x%04x (%d bytes)\n", p.AvID, len(p.Value))
	}

	if ts := FindAvPair(pairs, MsvAvTimestamp); ts != nil && len(ts.Value) > 0 {
		m.Timestamp = make([]byte, timestampLen)
		copy(m.Timestamp, ts.Value)
	} else {
		// MS-NLMP says the timestamp is always sent, but servers older
		// than Windows Server 2008 omit it. Not fatal: the handshake
		// continues without MIC and channel-binding enrichment.
		debug.Println("challenge target info has no timestamp av pair")
	}

	return m, nil
}

func extractPayload(data []byte, sb SecurityBuffer, name string) ([]byte, error) {
	if sb.Len == 0 {
		return nil, nil
	}

	start := int(sb.Offset)
	end := start + int(sb.Len)
	if start < challengeHeaderLen || end > len(data) {
		return nil, fmt.Errorf("challenge %s field [%d:%d] outside message of %d bytes", name, start, end, len(data))
	}

	out := make([]byte, sb.Len)
	copy(out, data[start:end])
	return out, nil
}

// HasTimestamp reports whether the server sent an MsvAvTimestamp pair.
// MIC computation and channel-binding enrichment only happen when it did.
func (m *ChallengeMessage) HasTimestamp() bool {
	return len(m.Timestamp) > 0
}

// TargetNameString returns the requested target name as a string.
func (m *ChallengeMessage) TargetNameString() string {
	return encoding.FromUTF16LE(m.TargetName)
}
