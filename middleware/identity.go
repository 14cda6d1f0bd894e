// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/safeballot/safeballot/auth"
)

type ctxKey string

const callerEmailKey ctxKey = "safeballot.caller_email"

// WithCallerEmail stores a trusted caller email on the context
func WithCallerEmail(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, callerEmailKey, email)
}

// CallerEmail returns the authenticated caller email, or "" for anonymous callers
func CallerEmail(ctx context.Context) string {
	email, _ := ctx.Value(callerEmailKey).(string)
	return email
}

// Authenticate resolves an optional bearer token into a caller email.
// Requests without an Authorization header pass through anonymously.
// With an empty secret the header is ignored.
func Authenticate(secret string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if secret == "" || header == "" {
			next(w, r)
			return
		}

		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			ErrorResponse(w, http.StatusUnauthorized, "Authorization header must be a Bearer token")
			return
		}

		email, err := auth.ParseCallerToken(strings.TrimSpace(tokenString), secret)
		if err != nil {
			slog.Warn("rejected caller token", "error", err)
			ErrorResponse(w, http.StatusUnauthorized, "Invalid bearer token")
			return
		}

		next(w, r.WithContext(WithCallerEmail(r.Context(), email)))
	}
}
