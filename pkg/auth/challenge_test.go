package auth

import (
	"bytes"
	"errors"
	"testing"

	"github.com/mssqlkit/ntlmauth/internal/encoding"
)

var testServerChallenge = [8]byte{0x11, 0x22, 0x33, 0x44, 0x55, 0x66, 0x77, 0x88}

// buildChallenge assembles a CHALLENGE message the way a server would.
func buildChallenge(targetName string, targetInfo []byte, serverChallenge [8]byte) []byte {
	nameBytes := encoding.ToUTF16LE(targetName)

	buf := make([]byte, challengeHeaderLen+len(nameBytes)+len(targetInfo))

	copy(buf[0:8], ntlmSignature[:])
	encoding.PutUint32LE(buf[8:12], NtLmChallenge)

	nameOffset := uint32(challengeHeaderLen)
	putSecurityBuffer(buf[12:20], SecurityBuffer{
		Len:    uint16(len(nameBytes)),
		MaxLen: uint16(len(nameBytes)),
		Offset: nameOffset,
	})

	encoding.PutUint32LE(buf[20:24], DefaultNegotiateFlags)
	copy(buf[24:32], serverChallenge[:])
	// 8 reserved bytes stay zero

	infoOffset := nameOffset + uint32(len(nameBytes))
	putSecurityBuffer(buf[40:48], SecurityBuffer{
		Len:    uint16(len(targetInfo)),
		MaxLen: uint16(len(targetInfo)),
		Offset: infoOffset,
	})
	// 8 version bytes stay zero

	copy(buf[nameOffset:], nameBytes)
	copy(buf[infoOffset:], targetInfo)

	return buf
}

func TestParseChallengeMessage(t *testing.T) {
	targetInfo := testTargetInfo()
	raw := buildChallenge("CONTOSO", targetInfo, testServerChallenge)

	m, err := ParseChallengeMessage(raw)
	if err != nil {
		t.Fatalf("ParseChallengeMessage: %v", err)
	}

	if m.ServerChallenge != testServerChallenge {
		t.Errorf("server challenge = % x", m.ServerChallenge)
	}
	if m.TargetNameString() != "CONTOSO" {
		t.Errorf("target name = %q, want CONTOSO", m.TargetNameString())
	}
	if !bytes.Equal(m.TargetInfo, targetInfo) {
		t.Errorf("target info = % x, want % x (len %d vs %d)", m.TargetInfo, targetInfo, len(m.TargetInfo), len(targetInfo))
	}
	if !m.HasTimestamp() {
		t.Fatal("timestamp not extracted")
	}
	if !bytes.Equal(m.Timestamp, []byte{1, 2, 3, 4, 5, 6, 7, 8}) {
		t.Errorf("timestamp = % x", m.Timestamp)
	}
}

func TestParseChallengeMessageNoTimestamp(t *testing.T) {
	targetInfo := MarshalAvPairs([]AvPair{
		{AvID: MsvAvNbDomainName, Value: encoding.ToUTF16LE("CONTOSO")},
	})
	raw := buildChallenge("CONTOSO", targetInfo, testServerChallenge)

	m, err := ParseChallengeMessage(raw)
	if err != nil {
		t.Fatalf("ParseChallengeMessage: %v", err)
	}
	if m.HasTimestamp() {
		t.Error("timestamp reported present for a challenge without one")
	}
}

func TestParseChallengeMessageBadSignature(t *testing.T) {
	raw := buildChallenge("CONTOSO", testTargetInfo(), testServerChallenge)
	raw[0] = 'X'

	_, err := ParseChallengeMessage(raw)
	if !errors.Is(err, ErrSignatureMismatch) {
		t.Errorf("err = %v, want ErrSignatureMismatch", err)
	}
}

func TestParseChallengeMessageWrongType(t *testing.T) {
	raw := buildChallenge("CONTOSO", testTargetInfo(), testServerChallenge)
	encoding.PutUint32LE(raw[8:12], NtLmNegotiate)

	_, err := ParseChallengeMessage(raw)
	if !errors.Is(err, ErrUnexpectedMessageType) {
		t.Errorf("err = %v, want ErrUnexpectedMessageType", err)
	}
}

func TestParseChallengeMessageMissingTargetInfo(t *testing.T) {
	raw := buildChallenge("CONTOSO", nil, testServerChallenge)

	_, err := ParseChallengeMessage(raw)
	if !errors.Is(err, ErrMissingTargetInfo) {
		t.Errorf("err = %v, want ErrMissingTargetInfo", err)
	}
}

func TestParseChallengeMessageUnknownAvPair(t *testing.T) {
	targetInfo := MarshalAvPairs([]AvPair{
		{AvID: 0x00ff, Value: []byte{1, 2}},
	})
	raw := buildChallenge("CONTOSO", targetInfo, testServerChallenge)

	_, err := ParseChallengeMessage(raw)
	if !errors.Is(err, ErrUnknownAvPair) {
		t.Errorf("err = %v, want ErrUnknownAvPair", err)
	}
}

func TestParseChallengeMessageTruncated(t *testing.T) {
	raw := buildChallenge("CONTOSO", testTargetInfo(), testServerChallenge)

	if _, err := ParseChallengeMessage(raw[:40]); err == nil {
		t.Error("expected error for truncated header")
	}

	// descriptor points past the end
	short := make([]byte, challengeHeaderLen)
	copy(short, raw[:challengeHeaderLen])
	if _, err := ParseChallengeMessage(short); err == nil {
		t.Error("expected error for payload outside message")
	}
}
