package auth

import (
	"github.com/mssqlkit/ntlmauth/internal/encoding"
)

// Offset to payload in the NEGOTIATE message: 8 (signature) + 4 (message
// type) + 4 (negotiate flags) + 8 (domain name fields) + 8 (workstation
// fields). The version field is omitted.
const negotiatePayloadOffset = 32

// NegotiateMessage represents the NTLMSSP Type 1 message (NEGOTIATE_MESSAGE)
type NegotiateMessage struct {
	Signature      [8]byte
	MessageType    uint32 // Always 1
	NegotiateFlags uint32
	DomainName     []byte // UTF-16LE
	Workstation    []byte // OEM bytes
}

// NewNegotiateMessage creates a Type 1 message carrying the client's fixed
// capability flags plus the domain and workstation payload.
func NewNegotiateMessage(domainName, workstation []byte) *NegotiateMessage {
	return &NegotiateMessage{
		Signature:      ntlmSignature,
		MessageType:    NtLmNegotiate,
		NegotiateFlags: DefaultNegotiateFlags,
		DomainName:     domainName,
		Workstation:    workstation,
	}
}

// Marshal serializes the Type 1 message
func (m *NegotiateMessage) Marshal() []byte {
	domainLen := len(m.DomainName)
	workstationLen := len(m.Workstation)

	buf := make([]byte, negotiatePayloadOffset+domainLen+workstationLen)

	copy(buf[0:8], m.Signature[:])
	encoding.PutUint32LE(buf[8:12], m.MessageType)
	encoding.PutUint32LE(buf[12:16], m.NegotiateFlags)

	offset := uint32(negotiatePayloadOffset)

	putSecurityBuffer(buf[16:24], SecurityBuffer{
		Len:    uint16(domainLen),
		MaxLen: uint16(domainLen),
		Offset: offset,
	})
	offset += uint32(domainLen)

	putSecurityBuffer(buf[24:32], SecurityBuffer{
		Len:    uint16(workstationLen),
		MaxLen: uint16(workstationLen),
		Offset: offset,
	})

	copy(buf[negotiatePayloadOffset:], m.DomainName)
	copy(buf[negotiatePayloadOffset+domainLen:], m.Workstation)

	return buf
}
