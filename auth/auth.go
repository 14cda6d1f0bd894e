// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrMissingEmail = errors.New("token has no email claim")
	ErrInvalidEmail = errors.New("token email claim is not a valid address")
)

// AnonymousEmailDomain is the reserved domain used for generated voter emails.
const AnonymousEmailDomain = "voters.safeballot.invalid"

// NewID returns a random UUID string used as a row identifier
func NewID() string {
	return uuid.NewString()
}

// AnonymousEmail creates a unique placeholder address for a voter who
// supplied no identity
func AnonymousEmail() string {
	return "anonymous-" + uuid.NewString() + "@" + AnonymousEmailDomain
}

// IsAnonymousEmail reports whether email was produced by AnonymousEmail
func IsAnonymousEmail(email string) bool {
	return strings.HasPrefix(email, "anonymous-") && strings.HasSuffix(email, "@"+AnonymousEmailDomain)
}

// IsBareEmail reports whether email is a plain addr-spec. Display names and
// angle brackets ("Bob <bob@example.com>") are rejected.
func IsBareEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Name == "" && addr.Address == email
}

// NormalizeEmail lowercases and trims an email for lookups
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CallerClaims are the claims of a caller identity token
type CallerClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// IssueCallerToken signs an HS256 identity token for email.
// A zero ttl issues a token without expiry.
func IssueCallerToken(email, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := CallerClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  email,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if ttl != 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign caller token: %w", err)
	}
	return signed, nil
}

// ParseCallerToken validates an HS256 identity token and returns the
// normalized caller email
func ParseCallerToken(tokenString, secret string) (string, error) {
	var claims CallerClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid {
		return "", ErrInvalidToken
	}

	email := NormalizeEmail(claims.Email)
	if email == "" {
		return "", ErrMissingEmail
	}
	if !IsBareEmail(email) {
		return "", ErrInvalidEmail
	}
	return email, nil
}

// HashIP creates a one-way hash of an IP address for privacy
// Includes salt to prevent rainbow table attacks
func HashIP(ip, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(ip))
	sum := h.Sum(nil)
	// Return first 16 hex chars (64 bits) - enough for deduplication
	return hex.EncodeToString(sum[:8])
}
