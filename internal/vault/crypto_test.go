package vault

import (
	"encoding/base64"
	"errors"
	"testing"
)

func TestDeriveKeyDeterministic(t *testing.T) {
	key1 := DeriveKey("session-abc")
	key2 := DeriveKey("session-abc")
	if key1 != key2 {
		t.Fatal("expected same key for same session identifier")
	}

	other := DeriveKey("session-xyz")
	if key1 == other {
		t.Fatal("expected different keys for different session identifiers")
	}
}

func TestSealOpenStringRoundTrip(t *testing.T) {
	ciphertext, err := SealString("1234567890", "session-abc")
	if err != nil {
		t.Fatalf("seal: %v", err)
	}
	if ciphertext == "1234567890" {
		t.Fatal("ciphertext must not equal plaintext")
	}

	value, err := OpenString(ciphertext, "session-abc")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if value != "1234567890" {
		t.Fatalf("expected round-trip value, got %q", value)
	}
}

func TestOpenRejectsTamperedCiphertext(t *testing.T) {
	ciphertext, err := SealString("secret", "session-abc")
	if err != nil {
		t.Fatalf("seal: %v", err)
	}

	raw, err := base64.RawURLEncoding.DecodeString(ciphertext)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	for i := range raw {
		mutated := make([]byte, len(raw))
		copy(mutated, raw)
		mutated[i] ^= 0x01

		if _, err := OpenString(base64.RawURLEncoding.EncodeToString(mutated), "session-abc"); !errors.Is(err, ErrDecryptFailed) {
			t.Fatalf("byte %d: expected ErrDecryptFailed, got %v", i, err)
		}
	}
}

func TestOpenRejectsWrongSession(t *testing.T) {
	ciphertext, err := SealString("secret", "session-abc")
	if err != nil {
		t.Fatalf("seal: %v", err)
	}

	if _, err := OpenString(ciphertext, "session-xyz"); !errors.Is(err, ErrDecryptFailed) {
		t.Fatalf("expected ErrDecryptFailed, got %v", err)
	}
}

func TestOpenRejectsMalformedInput(t *testing.T) {
	for _, input := range []string{"", "not base64!!!", base64.RawURLEncoding.EncodeToString([]byte("short"))} {
		if _, err := OpenString(input, "session-abc"); !errors.Is(err, ErrDecryptFailed) {
			t.Fatalf("input %q: expected ErrDecryptFailed, got %v", input, err)
		}
	}
}

func TestHashIdentifier(t *testing.T) {
	h1 := HashIdentifier("session-abc", "salt")
	h2 := HashIdentifier("session-abc", "salt")
	if h1 != h2 {
		t.Fatal("expected deterministic hash")
	}
	if len(h1) != 64 {
		t.Fatalf("expected 64 hex characters, got %d", len(h1))
	}
	if HashIdentifier("session-abc", "other-salt") == h1 {
		t.Fatal("expected salt to change the hash")
	}
}
