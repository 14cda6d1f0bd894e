// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/safeballot/safeballot/auth"
)

func TestAuthenticate(t *testing.T) {
	const secret = "test-jwt-secret"

	valid, err := auth.IssueCallerToken("Caller@Example.com", secret, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	forged, err := auth.IssueCallerToken("caller@example.com", "not-the-secret", time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	testCases := []struct {
		name           string
		secret         string
		header         string
		expectedStatus int
		expectedEmail  string
	}{
		{"anonymous request", secret, "", http.StatusOK, ""},
		{"valid token", secret, "Bearer " + valid, http.StatusOK, "caller@example.com"},
		{"forged token", secret, "Bearer " + forged, http.StatusUnauthorized, ""},
		{"not a bearer token", secret, "Basic dXNlcjpwYXNz", http.StatusUnauthorized, ""},
		{"no secret configured ignores header", "", "Bearer " + forged, http.StatusOK, ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var gotEmail string
			called := false
			handler := Authenticate(tc.secret, func(w http.ResponseWriter, r *http.Request) {
				called = true
				gotEmail = CallerEmail(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest("POST", "/api/ballots/b1/vote", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()

			handler(w, req)

			if w.Code != tc.expectedStatus {
				t.Errorf("Expected status %d, got %d. Body: %s", tc.expectedStatus, w.Code, w.Body.String())
			}
			if tc.expectedStatus == http.StatusOK && !called {
				t.Error("Expected next handler to be called")
			}
			if tc.expectedStatus != http.StatusOK && called {
				t.Error("Expected next handler not to be called")
			}
			if gotEmail != tc.expectedEmail {
				t.Errorf("Expected caller email '%s', got '%s'", tc.expectedEmail, gotEmail)
			}
		})
	}
}

func TestCallerEmail_Anonymous(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	if email := CallerEmail(req.Context()); email != "" {
		t.Errorf("Expected empty caller email, got '%s'", email)
	}
}
