// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewID(t *testing.T) {
	id := NewID()
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("NewID() = %q, not a UUID: %v", id, err)
	}

	// Test randomness - two IDs should be different
	if NewID() == NewID() {
		t.Error("NewID() produced duplicate IDs (extremely unlikely)")
	}
}

func TestAnonymousEmail(t *testing.T) {
	email := AnonymousEmail()

	if !strings.HasSuffix(email, "@"+AnonymousEmailDomain) {
		t.Errorf("AnonymousEmail() = %q, want domain %s", email, AnonymousEmailDomain)
	}
	if !IsAnonymousEmail(email) {
		t.Errorf("IsAnonymousEmail(%q) = false", email)
	}
	if IsAnonymousEmail("alice@example.com") {
		t.Error("IsAnonymousEmail() accepted a regular address")
	}
	if AnonymousEmail() == AnonymousEmail() {
		t.Error("AnonymousEmail() produced duplicate addresses")
	}
}

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"alice@example.com", "alice@example.com"},
		{"  Alice@Example.COM ", "alice@example.com"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizeEmail(tt.in); got != tt.want {
			t.Errorf("NormalizeEmail(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCallerToken(t *testing.T) {
	const secret = "jwt-secret"

	token, err := IssueCallerToken("Voter@Example.com", secret, time.Hour)
	if err != nil {
		t.Fatalf("IssueCallerToken() error = %v", err)
	}

	email, err := ParseCallerToken(token, secret)
	if err != nil {
		t.Fatalf("ParseCallerToken() error = %v", err)
	}
	if email != "voter@example.com" {
		t.Errorf("ParseCallerToken() email = %q, want voter@example.com", email)
	}
}

func TestParseCallerToken_Invalid(t *testing.T) {
	const secret = "jwt-secret"

	expired, err := IssueCallerToken("voter@example.com", secret, -time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	wrongKey, err := IssueCallerToken("voter@example.com", "other-secret", time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-jwt"},
		{"wrong key", wrongKey},
		{"expired", expired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCallerToken(tt.token, secret)
			if !errors.Is(err, ErrInvalidToken) {
				t.Errorf("ParseCallerToken() error = %v, want ErrInvalidToken", err)
			}
		})
	}
}

func TestIsBareEmail(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"bob@example.com", true},
		{"Bob <bob@example.com>", false},
		{"<bob@example.com>", false},
		{"bob", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsBareEmail(tt.in); got != tt.want {
			t.Errorf("IsBareEmail(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseCallerToken_DisplayNameEmail(t *testing.T) {
	token, err := IssueCallerToken("Bob <bob@example.com>", "secret", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ParseCallerToken(token, "secret"); !errors.Is(err, ErrInvalidEmail) {
		t.Errorf("ParseCallerToken() error = %v, want ErrInvalidEmail", err)
	}
}

func TestParseCallerToken_MissingEmail(t *testing.T) {
	token, err := IssueCallerToken("", "secret", 0)
	if err != nil {
		t.Fatal(err)
	}

	_, err = ParseCallerToken(token, "secret")
	if !errors.Is(err, ErrMissingEmail) {
		t.Errorf("ParseCallerToken() error = %v, want ErrMissingEmail", err)
	}
}

func TestHashIP(t *testing.T) {
	tests := []struct {
		name string
		ip   string
		salt string
	}{
		{"IPv4", "192.168.1.1", "ip-salt"},
		{"IPv6", "2001:0db8:85a3::8a2e:0370:7334", "ip-salt"},
		{"localhost", "127.0.0.1", "ip-salt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash := HashIP(tt.ip, tt.salt)

			// Should be 16 hex characters (8 bytes * 2)
			if len(hash) != 16 {
				t.Errorf("HashIP() length = %d, want 16", len(hash))
			}

			for _, c := range hash {
				if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')) {
					t.Errorf("HashIP() contains invalid hex char: %c", c)
				}
			}

			// Should be deterministic
			if hash != HashIP(tt.ip, tt.salt) {
				t.Error("HashIP() is not deterministic")
			}
		})
	}

	if HashIP("192.168.1.1", "salt") == HashIP("192.168.1.2", "salt") {
		t.Error("HashIP() produced same hash for different IPs")
	}
	if HashIP("192.168.1.1", "salt1") == HashIP("192.168.1.1", "salt2") {
		t.Error("HashIP() produced same hash for different salts")
	}
}

// Benchmark tests
func BenchmarkHashIP(b *testing.B) {
	for i := 0; i < b.N; i++ {
		HashIP("192.168.1.1", "salt")
	}
}
