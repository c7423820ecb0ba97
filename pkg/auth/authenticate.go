package auth

import (
	"github.com/mssqlkit/ntlmauth/internal/crypto"
	"github.com/mssqlkit/ntlmauth/internal/encoding"
)

// Offset to payload in the AUTHENTICATE message: 8 (signature) + 4 (message
// type) + 8 (lm response fields) + 8 (nt response fields) + 8 (domain
// fields) + 8 (user fields) + 8 (workstation fields) + 8 (session key
// fields) + 4 (negotiate flags) + 8 (version) + 16 (MIC).
const authenticatePayloadOffset = 88

const micLen = 16

// micOffset is where the MIC field sits in the fixed header.
const micOffset = authenticatePayloadOffset - micLen

// lmChallengeResponseLen - with NTLMv2 no real LM response is sent, only
// Z(24). The LM response field descriptor stays zero-length; only the
// payload bytes are reserved.
const lmChallengeResponseLen = 24

// AuthenticateMessage represents the NTLMSSP Type 3 message
// (AUTHENTICATE_MESSAGE). The MIC field marshals as zero; when the server
// sent a timestamp the caller overwrites it in place via SetMIC.
type AuthenticateMessage struct {
	Signature      [8]byte
	MessageType    uint32 // Always 3
	NegotiateFlags uint32

	NtChallengeResponse []byte
	DomainName          []byte // UTF-16LE
	UserName            []byte // UTF-16LE
	Workstation         []byte // UTF-16LE
}

// NewAuthenticateMessage creates a Type 3 message echoing the client's
// fixed negotiate flags.
func NewAuthenticateMessage(ntChallengeResponse, domainName, userName, workstation []byte) *AuthenticateMessage {
	return &AuthenticateMessage{
		Signature:           ntlmSignature,
		MessageType:         NtLmAuthenticate,
		NegotiateFlags:      DefaultNegotiateFlags,
		NtChallengeResponse: ntChallengeResponse,
		DomainName:          domainName,
		UserName:            userName,
		Workstation:         workstation,
	}
}

// Marshal serializes the Type 3 message with an all-zero MIC field.
func (m *AuthenticateMessage) Marshal() []byte {
	ntLen := len(m.NtChallengeResponse)
	domainLen := len(m.DomainName)
	userLen := len(m.UserName)
	workstationLen := len(m.Workstation)

	buf := make([]byte, authenticatePayloadOffset+lmChallengeResponseLen+ntLen+domainLen+userLen+workstationLen)

	copy(buf[0:8], m.Signature[:])
	encoding.PutUint32LE(buf[8:12], m.MessageType)

	offset := uint32(authenticatePayloadOffset)

	// LM challenge response: Z(24) in the payload, zero-length descriptor
	putSecurityBuffer(buf[12:20], SecurityBuffer{Offset: offset})
	offset += lmChallengeResponseLen

	putSecurityBuffer(buf[20:28], SecurityBuffer{
		Len:    uint16(ntLen),
		MaxLen: uint16(ntLen),
		Offset: offset,
	})
	ntOffset := offset
	offset += uint32(ntLen)

	putSecurityBuffer(buf[28:36], SecurityBuffer{
		Len:    uint16(domainLen),
		MaxLen: uint16(domainLen),
		Offset: offset,
	})
	domainOffset := offset
	offset += uint32(domainLen)

	putSecurityBuffer(buf[36:44], SecurityBuffer{
		Len:    uint16(userLen),
		MaxLen: uint16(userLen),
		Offset: offset,
	})
	userOffset := offset
	offset += uint32(userLen)

	putSecurityBuffer(buf[44:52], SecurityBuffer{
		Len:    uint16(workstationLen),
		MaxLen: uint16(workstationLen),
		Offset: offset,
	})
	workstationOffset := offset
	offset += uint32(workstationLen)

	// encrypted random session key - unused, zero-length
	putSecurityBuffer(buf[52:60], SecurityBuffer{Offset: offset})

	encoding.PutUint32LE(buf[60:64], m.NegotiateFlags)

	// version (8 bytes) and MIC (16 bytes) stay zero; the version must be
	// written as a blank block or the server misreads the MIC position

	copy(buf[ntOffset:], m.NtChallengeResponse)
	copy(buf[domainOffset:], m.DomainName)
	copy(buf[userOffset:], m.UserName)
	copy(buf[workstationOffset:], m.Workstation)

	return buf
}

// ComputeMIC computes the message integrity code binding all three
// handshake messages (MS-NLMP section 3.1.5.1.2):
//
//	MIC = HMAC-MD5(SessionBaseKey, NEGOTIATE + CHALLENGE + AUTHENTICATE)
//
// authMsg must have its MIC field zeroed.
func ComputeMIC(sessionBaseKey, negotiateMsg, challengeMsg, authMsg []byte) []byte {
	data := make([]byte, 0, len(negotiateMsg)+len(challengeMsg)+len(authMsg))
	data = append(data, negotiateMsg...)
	data = append(data, challengeMsg...)
	data = append(data, authMsg...)
	return crypto.HMACMD5(sessionBaseKey, data)
}

// SetMIC overwrites the MIC placeholder of a marshaled AUTHENTICATE
// message in place.
func SetMIC(authMsg, mic []byte) {
	copy(authMsg[micOffset:micOffset+micLen], mic)
}
