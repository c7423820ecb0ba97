package auth

import (
	"github.com/mssqlkit/ntlmauth/internal/crypto"
	"github.com/mssqlkit/ntlmauth/internal/encoding"
)

// tls-server-end-point channel binding prefix (RFC 5929)
var tlsServerEndPoint = []byte("tls-server-end-point:")

// gssChannelBindingHeaderLen covers initiator_addrtype, initiator_address
// length, acceptor_addrtype, acceptor_address length and the application
// data length of the GSS-API channel binding structure.
const gssChannelBindingHeaderLen = 20

// ChannelBindingFromCertificate derives the 16-byte channel-binding hash
// for the MsvAvChannelBindings pair from the DER encoding of the TLS peer
// certificate: the certificate's SHA-256 hash is prefixed with the
// tls-server-end-point binding type, wrapped in a GSS-API channel-binding
// structure with zero addresses, and the whole structure is MD5 hashed.
func ChannelBindingFromCertificate(certDER []byte) []byte {
	certHash := crypto.SHA256Hash(certDER)

	appDataLen := len(tlsServerEndPoint) + len(certHash)
	cb := make([]byte, gssChannelBindingHeaderLen+appDataLen)

	// initiator and acceptor address type/length stay zero
	encoding.PutUint32LE(cb[16:20], uint32(appDataLen))
	copy(cb[20:], tlsServerEndPoint)
	copy(cb[20+len(tlsServerEndPoint):], certHash)

	return crypto.MD5Hash(cb)
}
