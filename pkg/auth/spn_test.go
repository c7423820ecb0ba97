package auth

import (
	"errors"
	"testing"
)

// stubResolver validates exactly one realm
type stubResolver struct {
	valid string
}

func (r stubResolver) IsRealmValid(realm string) bool {
	return realm == r.valid
}

func TestMakeSPN(t *testing.T) {
	spn, err := MakeSPN("sql01.contoso.com", 1433, SPNOptions{})
	if err != nil {
		t.Fatalf("MakeSPN: %v", err)
	}
	if spn != "MSSQLSvc/sql01.contoso.com:1433" {
		t.Errorf("MakeSPN = %q", spn)
	}
}

func TestMakeSPNServerNameAsACE(t *testing.T) {
	spn, err := MakeSPN("bücher.example", 1433, SPNOptions{ServerNameAsACE: true})
	if err != nil {
		t.Fatalf("MakeSPN: %v", err)
	}
	if spn != "MSSQLSvc/xn--bcher-kva.example:1433" {
		t.Errorf("MakeSPN with ACE = %q", spn)
	}
}

func TestTranslateSPNHost(t *testing.T) {
	spn, err := TranslateSPNHost("MSSQLSvc/bücher.example:1433")
	if err != nil {
		t.Fatalf("TranslateSPNHost: %v", err)
	}
	if spn != "MSSQLSvc/xn--bcher-kva.example:1433" {
		t.Errorf("TranslateSPNHost = %q", spn)
	}

	// no slash: returned untouched
	if spn, _ := TranslateSPNHost("plainhost"); spn != "plainhost" {
		t.Errorf("TranslateSPNHost without slash = %q", spn)
	}
}

func TestEnrichSPNWithRealm(t *testing.T) {
	opts := SPNOptions{Resolver: stubResolver{valid: "contoso.com"}}

	got := EnrichSPNWithRealm("MSSQLSvc/sql01.contoso.com:1433", opts)
	want := "MSSQLSvc/sql01.contoso.com:1433@CONTOSO.COM"
	if got != want {
		t.Errorf("EnrichSPNWithRealm = %q, want %q", got, want)
	}
}

func TestEnrichSPNWithRealmPassthrough(t *testing.T) {
	opts := SPNOptions{Resolver: stubResolver{valid: "contoso.com"}}

	tests := []struct {
		name string
		spn  string
	}{
		{"realm already present", "MSSQLSvc/sql01.contoso.com:1433@CONTOSO.COM"},
		{"unexpected shape", "HTTP/web01.contoso.com:80"},
		{"no valid realm", "MSSQLSvc/sql01.fabrikam.com:1433"},
	}

	for _, tt := range tests {
		if got := EnrichSPNWithRealm(tt.spn, opts); got != tt.spn {
			t.Errorf("%s: EnrichSPNWithRealm = %q, want unchanged", tt.name, got)
		}
	}

	// nil resolver disables enrichment entirely
	spn := "MSSQLSvc/sql01.contoso.com:1433"
	if got := EnrichSPNWithRealm(spn, SPNOptions{}); got != spn {
		t.Errorf("nil resolver: EnrichSPNWithRealm = %q, want unchanged", got)
	}
}

func TestEnrichSPNWithRealmCanonicalFallback(t *testing.T) {
	opts := SPNOptions{
		Resolver: stubResolver{valid: "contoso.com"},
		CanonicalHost: func(host string) (string, error) {
			if host == "10.1.2.3" {
				return "sql01.contoso.com", nil
			}
			return "", errors.New("unknown host")
		},
	}

	got := EnrichSPNWithRealm("MSSQLSvc/10.1.2.3:1433", opts)
	want := "MSSQLSvc/sql01.contoso.com:1433@CONTOSO.COM"
	if got != want {
		t.Errorf("canonical fallback = %q, want %q", got, want)
	}

	// lookup failure leaves the spn unchanged
	if got := EnrichSPNWithRealm("MSSQLSvc/10.9.9.9:1433", opts); got != "MSSQLSvc/10.9.9.9:1433" {
		t.Errorf("failed lookup = %q, want unchanged", got)
	}
}

func TestEnrichSPNWithInstanceName(t *testing.T) {
	// named instances carry a name instead of a port
	opts := SPNOptions{Resolver: stubResolver{valid: "contoso.com"}}

	got := EnrichSPNWithRealm("MSSQLSvc/sql01.contoso.com:INST01", opts)
	want := "MSSQLSvc/sql01.contoso.com:INST01@CONTOSO.COM"
	if got != want {
		t.Errorf("EnrichSPNWithRealm = %q, want %q", got, want)
	}
}
