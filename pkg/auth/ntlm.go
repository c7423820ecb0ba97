// Package auth implements client-side NTLMv2 authentication (MS-NLMP) for
// TDS connection establishment. The engine only transforms byte buffers;
// the surrounding connection layer performs the actual send/receive.
package auth

import (
	"fmt"

	"github.com/mssqlkit/ntlmauth/internal/encoding"
)

// NTLM message signature - "NTLMSSP\0", common to all 3 messages
var ntlmSignature = [8]byte{'N', 'T', 'L', 'M', 'S', 'S', 'P', 0}

const (
	NtLmNegotiate    = 0x00000001 // Type 1
	NtLmChallenge    = 0x00000002 // Type 2
	NtLmAuthenticate = 0x00000003 // Type 3
)

// NTLMSSP negotiate flags
const (
	NtlmsspNegotiateUnicode                uint32 = 0x00000001
	NtlmsspRequestTarget                   uint32 = 0x00000004
	NtlmsspNegotiateOEMDomainSupplied      uint32 = 0x00001000
	NtlmsspNegotiateOEMWorkstationSupplied uint32 = 0x00002000
	NtlmsspNegotiateAlwaysSign             uint32 = 0x00008000
	NtlmsspNegotiateTargetInfo             uint32 = 0x00800000
)

// DefaultNegotiateFlags is the fixed capability set this client advertises.
// ALWAYS_SIGN is required or the server skips MIC verification even when
// MsvAvFlags says one is provided.
var DefaultNegotiateFlags = NtlmsspNegotiateUnicode |
	NtlmsspRequestTarget |
	NtlmsspNegotiateOEMDomainSupplied |
	NtlmsspNegotiateOEMWorkstationSupplied |
	NtlmsspNegotiateTargetInfo |
	NtlmsspNegotiateAlwaysSign

// SecurityBuffer represents the Len/MaxLen/Offset field descriptor used to
// address variable-length payload sections.
type SecurityBuffer struct {
	Len    uint16
	MaxLen uint16
	Offset uint32
}

func putSecurityBuffer(b []byte, sb SecurityBuffer) {
	encoding.PutUint16LE(b[0:2], sb.Len)
	encoding.PutUint16LE(b[2:4], sb.MaxLen)
	encoding.PutUint32LE(b[4:8], sb.Offset)
}

func readSecurityBuffer(b []byte) SecurityBuffer {
	return SecurityBuffer{
		Len:    encoding.Uint16LE(b[0:2]),
		MaxLen: encoding.Uint16LE(b[2:4]),
		Offset: encoding.Uint32LE(b[4:8]),
	}
}

// AvPair represents an AV_PAIR structure in TargetInfo
type AvPair struct {
	AvID  uint16
	Value []byte
}

// AV_PAIR IDs
const (
	MsvAvEOL             uint16 = 0x0000 // End of list
	MsvAvNbComputerName  uint16 = 0x0001 // NetBIOS computer name
	MsvAvNbDomainName    uint16 = 0x0002 // NetBIOS domain name
	MsvAvDnsComputerName uint16 = 0x0003 // DNS computer name
	MsvAvDnsDomainName   uint16 = 0x0004 // DNS domain name
	MsvAvDnsTreeName     uint16 = 0x0005 // DNS tree name
	MsvAvFlags           uint16 = 0x0006 // Flags
	MsvAvTimestamp       uint16 = 0x0007 // Timestamp (FILETIME)
	MsvAvSingleHost      uint16 = 0x0008 // Single Host Data
	MsvAvTargetName      uint16 = 0x0009 // Target name (SPN)
	MsvAvChannelBindings uint16 = 0x000A // Channel Bindings
)

// MsvAvFlags bits
const (
	avFlagMICProvided uint32 = 0x00000002
	avFlagSPNProvided uint32 = 0x00000004
)

const avPairHeaderLen = 4 // AvID + AvLen

// ParseAvPairs parses an AV_PAIR list from a TargetInfo buffer. The list
// terminates at an MsvAvEOL pair or at buffer exhaustion. An AvID outside
// the set defined by MS-NLMP is a protocol error.
func ParseAvPairs(data []byte) ([]AvPair, error) {
	var pairs []AvPair
	offset := 0

	for offset+avPairHeaderLen <= len(data) {
		avID := encoding.Uint16LE(data[offset : offset+2])
		avLen := encoding.Uint16LE(data[offset+2 : offset+4])
		offset += avPairHeaderLen

		if avID == MsvAvEOL {
			return pairs, nil
		}

		if avID > MsvAvChannelBindings {
			return nil, fmt.Errorf("%w: 0x%04x", ErrUnknownAvPair, avID)
		}

		if offset+int(avLen) > len(data) {
			return nil, fmt.Errorf("av pair 0x%04x value extends past end of target info", avID)
		}

		pairs = append(pairs, AvPair{
			AvID:  avID,
			Value: data[offset : offset+int(avLen)],
		})
		offset += int(avLen)
	}

	return pairs, nil
}

// MarshalAvPairs serializes an AV_PAIR list, appending the MsvAvEOL pair.
func MarshalAvPairs(pairs []AvPair) []byte {
	var buf []byte

	for _, p := range pairs {
		buf = encoding.AppendUint16LE(buf, p.AvID)
		buf = encoding.AppendUint16LE(buf, uint16(len(p.Value)))
		buf = append(buf, p.Value...)
	}

	// MsvAvEOL
	return append(buf, 0, 0, 0, 0)
}

// FindAvPair finds an AV_PAIR by ID
func FindAvPair(pairs []AvPair, id uint16) *AvPair {
	for i := range pairs {
		if pairs[i].AvID == id {
			return &pairs[i]
		}
	}
	return nil
}
