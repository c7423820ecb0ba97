package encoding

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// GUIDLength is the wire size of a GUID.
const GUIDLength = 16

// SwapGUID converts a 16-byte GUID between RFC 4122 network byte order and
// the on-wire layout, which stores the first three fields in little-endian
// order. The conversion is its own inverse. The input slice is never
// modified; a fresh buffer is returned.
func SwapGUID(g []byte) ([]byte, error) {
	if len(g) != GUIDLength {
		return nil, fmt.Errorf("guid must be %d bytes, got %d", GUIDLength, len(g))
	}

	out := make([]byte, GUIDLength)
	PutUint32BE(out[0:4], Uint32LE(g[0:4]))
	PutUint16BE(out[4:6], Uint16LE(g[4:6]))
	PutUint16BE(out[6:8], Uint16LE(g[6:8]))
	copy(out[8:], g[8:])
	return out, nil
}

// FormatGUID formats a wire-order GUID as the usual dashed string.
func FormatGUID(g []byte) (string, error) {
	if len(g) != GUIDLength {
		return "", fmt.Errorf("guid must be %d bytes, got %d", GUIDLength, len(g))
	}

	return fmt.Sprintf("%08x-%04x-%04x-%04x-%012x",
		Uint32LE(g[0:4]),
		Uint16LE(g[4:6]),
		Uint16LE(g[6:8]),
		g[8:10],
		g[10:16]), nil
}

// ParseGUID parses a GUID string (with or without dashes) into wire order.
func ParseGUID(s string) ([]byte, error) {
	s = strings.ReplaceAll(s, "-", "")
	if len(s) != 32 {
		return nil, fmt.Errorf("invalid guid length: %d", len(s))
	}

	raw, err := hex.DecodeString(s)
	if err != nil {
		return nil, err
	}

	// The string representation is network order; the wire wants the first
	// three fields little-endian.
	return SwapGUID(raw)
}
