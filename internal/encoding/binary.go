// Package encoding provides binary encoding utilities for TDS and NTLM
// protocol messages. NTLM messages are little-endian throughout; a few TDS
// fields use network byte order, so explicit big-endian forms are provided
// as well.
package encoding

import "encoding/binary"

// PutUint16LE writes a uint16 in little-endian format to the buffer.
func PutUint16LE(b []byte, v uint16) {
	binary.LittleEndian.PutUint16(b, v)
}

// PutUint32LE writes a uint32 in little-endian format to the buffer.
func PutUint32LE(b []byte, v uint32) {
	binary.LittleEndian.PutUint32(b, v)
}

// PutUint64LE writes a uint64 in little-endian format to the buffer.
func PutUint64LE(b []byte, v uint64) {
	binary.LittleEndian.PutUint64(b, v)
}

// Uint16LE reads a uint16 in little-endian format from the buffer.
func Uint16LE(b []byte) uint16 {
	return binary.LittleEndian.Uint16(b)
}

// Uint32LE reads a uint32 in little-endian format from the buffer.
func Uint32LE(b []byte) uint32 {
	return binary.LittleEndian.Uint32(b)
}

// Uint64LE reads a uint64 in little-endian format from the buffer.
func Uint64LE(b []byte) uint64 {
	return binary.LittleEndian.Uint64(b)
}

// AppendUint16LE appends a uint16 in little-endian format to the buffer.
func AppendUint16LE(b []byte, v uint16) []byte {
	return binary.LittleEndian.AppendUint16(b, v)
}

// AppendUint32LE appends a uint32 in little-endian format to the buffer.
func AppendUint32LE(b []byte, v uint32) []byte {
	return binary.LittleEndian.AppendUint32(b, v)
}

// AppendUint64LE appends a uint64 in little-endian format to the buffer.
func AppendUint64LE(b []byte, v uint64) []byte {
	return binary.LittleEndian.AppendUint64(b, v)
}

// PutUint16BE writes a uint16 in big-endian format to the buffer.
func PutUint16BE(b []byte, v uint16) {
	binary.BigEndian.PutUint16(b, v)
}

// PutUint32BE writes a uint32 in big-endian format to the buffer.
func PutUint32BE(b []byte, v uint32) {
	binary.BigEndian.PutUint32(b, v)
}

// PutUint64BE writes a uint64 in big-endian format to the buffer.
func PutUint64BE(b []byte, v uint64) {
	binary.BigEndian.PutUint64(b, v)
}

// Uint16BE reads a uint16 in big-endian format from the buffer.
func Uint16BE(b []byte) uint16 {
	return binary.BigEndian.Uint16(b)
}

// Uint32BE reads a uint32 in big-endian format from the buffer.
func Uint32BE(b []byte) uint32 {
	return binary.BigEndian.Uint32(b)
}

// Uint64BE reads a uint64 in big-endian format from the buffer.
func Uint64BE(b []byte) uint64 {
	return binary.BigEndian.Uint64(b)
}
