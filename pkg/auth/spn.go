package auth

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/net/idna"
)

const spnServiceClass = "MSSQLSvc"

var spnPattern = regexp.MustCompile(`(?i)^MSSQLSvc/(.*):([^:@]+)(@.+)?$`)

// RealmResolver decides whether a Kerberos realm exists for a DNS suffix.
// Implementations typically query DNS for the realm's KDC records. It is
// supplied by the caller; the package keeps no resolver state of its own.
type RealmResolver interface {
	IsRealmValid(realm string) bool
}

// SPNOptions configures SPN construction and realm enrichment.
type SPNOptions struct {
	// Resolver validates candidate realms during enrichment. Nil disables
	// realm enrichment.
	Resolver RealmResolver

	// CanonicalHost resolves a host name to its canonical form (for
	// instance when the configured server name is an IP address). Nil
	// disables the canonicalization fallback.
	CanonicalHost func(host string) (string, error)

	// ServerNameAsACE translates the host to its ASCII compatible
	// encoding (punycode) before use, matching the serverNameAsACE
	// connection property.
	ServerNameAsACE bool
}

// MakeSPN builds the generic service principal name for a server,
// "MSSQLSvc/host:port". The FQDN must be provided by the caller.
func MakeSPN(host string, port int, opts SPNOptions) (string, error) {
	if opts.ServerNameAsACE {
		ace, err := idna.ToASCII(host)
		if err != nil {
			return "", fmt.Errorf("cannot translate server name %q to ASCII: %w", host, err)
		}
		host = ace
	}
	return fmt.Sprintf("%s/%s:%d", spnServiceClass, host, port), nil
}

// TranslateSPNHost applies ACE translation to the host part of a
// user-supplied SPN, leaving the service class untouched.
func TranslateSPNHost(spn string) (string, error) {
	slash := strings.Index(spn, "/")
	if slash < 0 {
		return spn, nil
	}
	ace, err := idna.ToASCII(spn[slash+1:])
	if err != nil {
		return "", fmt.Errorf("cannot translate spn %q to ASCII: %w", spn, err)
	}
	return spn[:slash+1] + ace, nil
}

// EnrichSPNWithRealm appends "@REALM" to an SPN of the form
// "MSSQLSvc/host:port". The realm is found by walking the dot-suffixes of
// the host through the resolver; when none validates and a CanonicalHost
// function is configured, the canonicalized host is tried and, on a match,
// also replaces the host in the SPN. The SPN is returned unchanged when it
// does not match the expected shape, already carries a realm, or no realm
// validates.
func EnrichSPNWithRealm(spn string, opts SPNOptions) string {
	if opts.Resolver == nil {
		return spn
	}

	m := spnPattern.FindStringSubmatch(spn)
	if m == nil {
		return spn
	}
	if m[3] != "" {
		// realm already present
		return spn
	}

	host := m[1]
	portOrInstance := m[2]

	realm := findRealmFromHostname(opts.Resolver, host)
	if realm == "" && opts.CanonicalHost != nil {
		canonical, err := opts.CanonicalHost(host)
		if err == nil {
			realm = findRealmFromHostname(opts.Resolver, canonical)
			if realm != "" {
				// the canonical name produced the match, so it is the
				// correct host for the SPN as well
				host = canonical
			}
		}
	}

	if realm == "" {
		return spn
	}
	return fmt.Sprintf("%s/%s:%s@%s", spnServiceClass, host, portOrInstance, realm)
}

// findRealmFromHostname tries each dot-suffix of hostname as a realm and
// returns the first one the resolver validates, uppercased.
func findRealmFromHostname(resolver RealmResolver, hostname string) string {
	if hostname == "" {
		return ""
	}

	index := 0
	for index < len(hostname)-2 {
		if realm := hostname[index:]; resolver.IsRealmValid(realm) {
			return strings.ToUpper(realm)
		}
		dot := strings.Index(hostname[index+1:], ".")
		if dot == -1 {
			break
		}
		index += dot + 2 // position after the next dot
	}
	return ""
}
