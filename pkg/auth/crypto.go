package auth

import (
	"crypto/rand"
	"fmt"
	"strings"
	"time"

	"github.com/mssqlkit/ntlmauth/internal/crypto"
	"github.com/mssqlkit/ntlmauth/internal/encoding"
)

const clientNonceLen = 8

// Seconds between the Windows epoch (1601-01-01) and the Unix epoch.
const windowsEpochDiff = 11644473600

// NTHash computes the NT hash from a password
// NT Hash = MD4(UTF-16LE(password))
func NTHash(password string) []byte {
	return crypto.MD4Hash(encoding.ToUTF16LE(password))
}

// NTOWFv2 computes the NTLMv2 response key (MS-NLMP section 3.3.2)
// NTOWFv2 = HMAC-MD5(NT Hash, UTF-16LE(UPPERCASE(username) + domain))
func NTOWFv2(ntHash []byte, username, domain string) []byte {
	userDomain := encoding.ToUTF16LE(strings.ToUpper(username) + domain)
	return crypto.HMACMD5(ntHash, userDomain)
}

// FileTime converts t to an 8-byte Windows FILETIME: 100-nanosecond ticks
// since 1601-01-01, little-endian.
func FileTime(t time.Time) []byte {
	ticks := uint64(t.Unix()+windowsEpochDiff) * uint64(time.Second/100)
	buf := make([]byte, 8)
	encoding.PutUint64LE(buf, ticks)
	return buf
}

// generateClientNonce draws the 8-byte client challenge from the system
// CSPRNG. Nonce reuse across handshakes is a security defect, so a failed
// read is fatal rather than substituted.
func generateClientNonce() ([]byte, error) {
	nonce := make([]byte, clientNonceLen)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyInit, err)
	}
	return nonce, nil
}

// BuildClientChallengeBlob builds the NTLMv2_CLIENT_CHALLENGE structure
// ("temp", MS-NLMP section 2.2.2.7):
//
//	RespType (1) + HiRespType (1) + Reserved1 (2) + Reserved2 (4) +
//	Time (8) + ClientChallenge (8) + Reserved3 (4) + ServerName
//
// ServerName is the server's target info. When the server sent a timestamp
// the client must provide a MIC, so the trailing EOL pair is replaced with
// MsvAvFlags (MIC + SPN provided), MsvAvTargetName carrying the SPN,
// MsvAvChannelBindings when a TLS channel binding is available, and a
// fresh EOL. Without a timestamp the target info is copied verbatim.
func BuildClientChallengeBlob(clientNonce, currentTime, targetInfo []byte, timestampPresent bool, spn, channelBinding []byte) []byte {
	blob := make([]byte, 0, 28+len(targetInfo)+2*avPairHeaderLen+len(spn)+avPairHeaderLen+len(channelBinding))

	blob = append(blob, 0x01, 0x01)         // RespType, HiRespType
	blob = append(blob, 0, 0)               // Reserved1
	blob = append(blob, 0, 0, 0, 0)         // Reserved2
	blob = append(blob, currentTime[:8]...) // Timestamp
	blob = append(blob, clientNonce[:8]...) // ClientChallenge
	blob = append(blob, 0, 0, 0, 0)         // Reserved3

	if !timestampPresent {
		return append(blob, targetInfo...)
	}

	// copy target info up to the trailing MsvAvEOL pair
	blob = append(blob, targetInfo[:len(targetInfo)-avPairHeaderLen]...)

	blob = encoding.AppendUint16LE(blob, MsvAvFlags)
	blob = encoding.AppendUint16LE(blob, 4)
	blob = encoding.AppendUint32LE(blob, avFlagMICProvided|avFlagSPNProvided)

	blob = encoding.AppendUint16LE(blob, MsvAvTargetName)
	blob = encoding.AppendUint16LE(blob, uint16(len(spn)))
	blob = append(blob, spn...)

	if len(channelBinding) > 0 {
		blob = encoding.AppendUint16LE(blob, MsvAvChannelBindings)
		blob = encoding.AppendUint16LE(blob, uint16(len(channelBinding)))
		blob = append(blob, channelBinding...)
	}

	// EOL
	return append(blob, 0, 0, 0, 0)
}

// ComputeResponse computes the NT challenge response and session base key
// from the NTLMv2 response key and the client challenge blob
// (MS-NLMP section 3.3.2):
//
//	NTProofStr     = HMAC-MD5(ResponseKeyNT, ServerChallenge + temp)
//	NtChallengeResponse = NTProofStr + temp
//	SessionBaseKey = HMAC-MD5(ResponseKeyNT, NTProofStr)
func ComputeResponse(responseKeyNT, serverChallenge, blob []byte) (ntChallengeResponse, sessionBaseKey []byte) {
	data := make([]byte, 0, len(serverChallenge)+len(blob))
	data = append(data, serverChallenge...)
	data = append(data, blob...)

	ntProofStr := crypto.HMACMD5(responseKeyNT, data)
	sessionBaseKey = crypto.HMACMD5(responseKeyNT, ntProofStr)

	return append(ntProofStr, blob...), sessionBaseKey
}
