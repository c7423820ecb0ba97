// Package crypto provides the cryptographic primitives used by NTLMv2
// authentication.
package crypto

import (
	"crypto/hmac"
	"crypto/md5"
	"crypto/sha256"

	"golang.org/x/crypto/md4"
)

// MD4Hash computes the MD4 hash of data. NTLM uses MD4 only for the
// password hash (NT hash).
func MD4Hash(data []byte) []byte {
	h := md4.New()
	h.Write(data)
	return h.Sum(nil)
}

// HMACMD5 computes HMAC-MD5
func HMACMD5(key, data []byte) []byte {
	h := hmac.New(md5.New, key)
	h.Write(data)
	return h.Sum(nil)
}

// MD5Hash computes the MD5 hash of data
func MD5Hash(data []byte) []byte {
	sum := md5.Sum(data)
	return sum[:]
}

// SHA256Hash computes the SHA-256 hash of data
func SHA256Hash(data []byte) []byte {
	sum := sha256.Sum256(data)
	return sum[:]
}
