package jwt

import (
	"crypto/ed25519"
	"crypto/rand"
	"strings"
	"testing"
	"time"
)

func newHS256Manager(t *testing.T) *Manager {
	t.Helper()

	m, err := NewManager(Config{
		SigningMethod: MethodHS256,
		PrivateKey:    []byte("0123456789abcdef0123456789abcdef"),
		Issuer:        "authkit-test",
		TTL:           time.Hour,
	})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	return m
}

func TestSignParseRoundTrip(t *testing.T) {
	m := newHS256Manager(t)

	token, err := m.Sign("user-1", "sess-1", 3)
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	claims, err := m.Parse(token)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if claims.Subject != "user-1" || claims.ID != "sess-1" {
		t.Fatalf("unexpected claims: sub=%q jti=%q", claims.Subject, claims.ID)
	}
	if claims.CredentialsVersion != 3 {
		t.Fatalf("cv = %d, want 3", claims.CredentialsVersion)
	}
}

func TestParseRejectsTamperedToken(t *testing.T) {
	m := newHS256Manager(t)

	token, err := m.Sign("user-1", "sess-1", 0)
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token shape: %q", token)
	}
	tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))

	if _, err := m.Parse(tampered); err == nil {
		t.Fatal("tampered token parsed successfully")
	}
}

func TestParseRejectsWrongKey(t *testing.T) {
	m := newHS256Manager(t)
	other, err := NewManager(Config{
		SigningMethod: MethodHS256,
		PrivateKey:    []byte("ffffffffffffffffffffffffffffffff"),
		TTL:           time.Hour,
	})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	token, err := other.Sign("user-1", "sess-1", 0)
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}
	if _, err := m.Parse(token); err == nil {
		t.Fatal("token signed with a different key parsed successfully")
	}
}

func TestParseRejectsExpiredToken(t *testing.T) {
	m, err := NewManager(Config{
		SigningMethod: MethodHS256,
		PrivateKey:    []byte("0123456789abcdef0123456789abcdef"),
		TTL:           time.Nanosecond,
	})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	token, err := m.Sign("user-1", "sess-1", 0)
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}
	time.Sleep(10 * time.Millisecond)

	if _, err := m.Parse(token); err == nil {
		t.Fatal("expired token parsed successfully")
	}
}

func TestEd25519RoundTrip(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("GenerateKey failed: %v", err)
	}

	signer, err := NewManager(Config{
		SigningMethod: MethodEd25519,
		PrivateKey:    priv,
		TTL:           time.Hour,
	})
	if err != nil {
		t.Fatalf("NewManager (signer) failed: %v", err)
	}
	verifier, err := NewManager(Config{
		SigningMethod: MethodEd25519,
		PublicKey:     pub,
		TTL:           time.Hour,
	})
	if err != nil {
		t.Fatalf("NewManager (verifier) failed: %v", err)
	}

	token, err := signer.Sign("user-2", "sess-2", 1)
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	claims, err := verifier.Parse(token)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if claims.CredentialsVersion != 1 {
		t.Fatalf("cv = %d, want 1", claims.CredentialsVersion)
	}

	if _, err := verifier.Sign("user-2", "sess-3", 1); err == nil {
		t.Fatal("verify-only manager should not sign")
	}
}

func TestNewManagerValidation(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
	}{
		{"zero ttl", Config{SigningMethod: MethodHS256, PrivateKey: []byte("k"), TTL: 0}},
		{"no secret", Config{SigningMethod: MethodHS256, TTL: time.Hour}},
		{"unknown method", Config{SigningMethod: "rs256", PrivateKey: []byte("k"), TTL: time.Hour}},
		{"ed25519 no keys", Config{SigningMethod: MethodEd25519, TTL: time.Hour}},
		{"bad ed25519 key", Config{SigningMethod: MethodEd25519, PrivateKey: []byte("short"), TTL: time.Hour}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewManager(tc.cfg); err == nil {
				t.Fatalf("expected error for %s", tc.name)
			}
		})
	}
}
