package crypto

import (
	"encoding/hex"
	"testing"
)

func fromHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("bad hex %q: %v", s, err)
	}
	return b
}

func TestMD4Hash(t *testing.T) {
	// RFC 1320 test vectors
	tests := []struct {
		in   string
		want string
	}{
		{"", "31d6cfe0d16ae931b73c59d7e0c089c0"},
		{"abc", "a448017aaf21d8525fc10ae87aa6729d"},
		{"message digest", "d9130a8164549fe818874806e1c7014b"},
	}

	for _, tt := range tests {
		got := MD4Hash([]byte(tt.in))
		if hex.EncodeToString(got) != tt.want {
			t.Errorf("MD4Hash(%q) = %x, want %s", tt.in, got, tt.want)
		}
	}
}

func TestHMACMD5(t *testing.T) {
	// RFC 2104 test vector 2
	got := HMACMD5([]byte("Jefe"), []byte("what do ya want for nothing?"))
	want := "750c783e6ab0b503eaa86e310a5db738"
	if hex.EncodeToString(got) != want {
		t.Errorf("HMACMD5 = %x, want %s", got, want)
	}

	if len(got) != 16 {
		t.Errorf("HMACMD5 returned %d bytes, want 16", len(got))
	}
}

func TestMD5Hash(t *testing.T) {
	got := MD5Hash([]byte("abc"))
	want := fromHex(t, "900150983cd24fb0d6963f7d28e17f72")
	if hex.EncodeToString(got) != hex.EncodeToString(want) {
		t.Errorf("MD5Hash(\"abc\") = %x, want %x", got, want)
	}
}

func TestSHA256Hash(t *testing.T) {
	got := SHA256Hash([]byte("abc"))
	want := "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	if hex.EncodeToString(got) != want {
		t.Errorf("SHA256Hash(\"abc\") = %x, want %s", got, want)
	}
}
