package auth

import "errors"

// Config carries the identity and peer inputs the connection layer supplies
// for one NTLM authentication attempt.
type Config struct {
	// Domain is the Windows domain to authenticate against. Uppercased by
	// convention before use.
	Domain string

	// Username for the connection.
	Username string

	// Password for the connection. Only its MD4 hash is retained by the
	// context.
	Password string

	// PasswordHash is the 16-byte NT hash, an alternative to Password.
	// When set, Password is ignored.
	PasswordHash []byte

	// Workstation is the client machine name sent in the NEGOTIATE and
	// AUTHENTICATE messages.
	Workstation string

	// ServerSPN is the service principal name of the target server, e.g.
	// "MSSQLSvc/sql01.contoso.com:1433". See MakeSPN to derive one.
	ServerSPN string

	// ChannelBinding is the 16-byte channel-binding hash derived from the
	// active TLS session's peer certificate. Nil when the connection is
	// not TLS protected. See ChannelBindingFromCertificate.
	ChannelBinding []byte
}

func (c *Config) validate() error {
	if c.Username == "" {
		return errors.New("ntlm authentication requires a username")
	}
	if c.Password == "" && len(c.PasswordHash) == 0 {
		return errors.New("ntlm authentication requires a password or NT hash")
	}
	if len(c.PasswordHash) != 0 && len(c.PasswordHash) != 16 {
		return errors.New("NT hash must be 16 bytes")
	}
	return nil
}
