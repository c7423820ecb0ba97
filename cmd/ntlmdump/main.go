// ntlmdump is an offline NTLM token inspector. It decodes a CHALLENGE
// token captured from a server, dumps its fields and AV pairs, and - when
// credentials are supplied - runs the full client handshake against it and
// dumps the NEGOTIATE and AUTHENTICATE messages it would send.
package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/mjwhitta/cli"
	"golang.org/x/term"

	"github.com/mssqlkit/ntlmauth/internal/encoding"
	"github.com/mssqlkit/ntlmauth/pkg/auth"
	"github.com/mssqlkit/ntlmauth/pkg/debug"
)

func main() {
	var (
		token       string
		username    string
		domain      string
		password    string
		ntHash      string
		workstation string
		spn         string
		certPath    string
		verbose     bool
	)

	cli.Align = true
	cli.Banner = "ntlmdump [OPTIONS]"
	cli.Info("Offline NTLM CHALLENGE inspector and handshake tracer")

	cli.Flag(&token, "t", "token", "", "CHALLENGE token, hex string or @file with raw bytes")
	cli.Flag(&username, "u", "user", "", "Username (enables handshake trace)")
	cli.Flag(&domain, "d", "domain", "", "Domain name")
	cli.Flag(&password, "p", "password", "", "Password (prompted if -u given without -p/-H)")
	cli.Flag(&ntHash, "H", "hash", "", "NT hash (32 hex chars)")
	cli.Flag(&workstation, "w", "workstation", "", "Workstation name")
	cli.Flag(&spn, "s", "spn", "", "Target SPN (e.g. MSSQLSvc/sql01.contoso.com:1433)")
	cli.Flag(&certPath, "c", "cert", "", "DER certificate file for channel binding")
	cli.Flag(&verbose, "v", "verbose", false, "Verbose output")

	cli.Parse()

	debug.Verbose = verbose

	if token == "" {
		fmt.Fprintln(os.Stderr, "Missing challenge token (-t)")
		cli.Usage(1)
	}

	raw, err := readToken(token)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cannot read token: %v\n", err)
		os.Exit(1)
	}

	challenge, err := auth.ParseChallengeMessage(raw)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Parse error: %v\n", err)
		os.Exit(1)
	}

	dumpChallenge(challenge)

	if username == "" {
		return
	}

	if password == "" && ntHash == "" {
		password = promptPassword()
	}

	cfg := auth.Config{
		Domain:      domain,
		Username:    username,
		Password:    password,
		Workstation: workstation,
		ServerSPN:   spn,
	}

	if ntHash != "" {
		h, err := hex.DecodeString(ntHash)
		if err != nil || len(h) != 16 {
			fmt.Fprintln(os.Stderr, "NT hash must be 32 hex chars")
			os.Exit(1)
		}
		cfg.PasswordHash = h
	}

	if certPath != "" {
		der, err := os.ReadFile(certPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Cannot read certificate: %v\n", err)
			os.Exit(1)
		}
		cfg.ChannelBinding = auth.ChannelBindingFromCertificate(der)
		fmt.Printf("Channel binding:  %x\n", cfg.ChannelBinding)
	}

	trace(cfg, raw)
}

func readToken(token string) ([]byte, error) {
	if strings.HasPrefix(token, "@") {
		return os.ReadFile(token[1:])
	}
	cleaned := strings.Map(func(r rune) rune {
		if r == ' ' || r == '\n' || r == '\t' || r == ':' {
			return -1
		}
		return r
	}, token)
	return hex.DecodeString(cleaned)
}

func promptPassword() string {
	fmt.Fprint(os.Stderr, "Password: ")
	pw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return ""
	}
	return string(pw)
}

func dumpChallenge(m *auth.ChallengeMessage) {
	fmt.Printf("=== CHALLENGE ===\n")
	fmt.Printf("Target name:      %q\n", m.TargetNameString())
	fmt.Printf("Negotiate flags:  0x%08x\n", m.NegotiateFlags)
	fmt.Printf("Server challenge: %x\n", m.ServerChallenge)
	if m.HasTimestamp() {
		fmt.Printf("Timestamp:        %x (FILETIME %d)\n", m.Timestamp, encoding.Uint64LE(m.Timestamp))
	} else {
		fmt.Printf("Timestamp:        absent (no MIC will be sent)\n")
	}

	pairs, err := auth.ParseAvPairs(m.TargetInfo)
	if err != nil {
		fmt.Printf("Target info:      %v\n", err)
		return
	}
	fmt.Printf("Target info:      %d bytes, %d av pairs\n", len(m.TargetInfo), len(pairs))
	for _, p := range pairs {
		switch p.AvID {
		case auth.MsvAvNbComputerName, auth.MsvAvNbDomainName, auth.MsvAvDnsComputerName,
			auth.MsvAvDnsDomainName, auth.MsvAvDnsTreeName, auth.MsvAvTargetName:
			fmt.Printf("  [0x%04x] %q\n", p.AvID, encoding.FromUTF16LE(p.Value))
		default:
			fmt.Printf("  [0x%04x] %x\n", p.AvID, p.Value)
		}
	}
	fmt.Println()
}

func trace(cfg auth.Config, challengeToken []byte) {
	ctx, err := auth.NewClientContext(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Context error: %v\n", err)
		os.Exit(1)
	}
	defer ctx.Release()

	negotiate, err := ctx.InitialToken()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Negotiate error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("=== NEGOTIATE (%d bytes) ===\n%s\n", len(negotiate), hex.Dump(negotiate))

	authenticate, done, err := ctx.ProcessToken(challengeToken)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Authenticate error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("=== AUTHENTICATE (%d bytes, done=%v) ===\n%s\n", len(authenticate), done, hex.Dump(authenticate))
	fmt.Printf("Session base key: %x\n", ctx.SessionBaseKey())
}
