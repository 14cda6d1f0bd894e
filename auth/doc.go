// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides identifiers, caller identity tokens, and privacy hashing.

# Identifiers

	id := auth.NewID()               // UUID for voters, votes, receipts
	email := auth.AnonymousEmail()   // anonymous-<uuid>@voters.safeballot.invalid

# Caller Identity

An upstream identity provider issues HS256 JWTs carrying an email claim.
ParseCallerToken validates the signature and expiry and returns the
normalized email:

	email, err := auth.ParseCallerToken(bearer, cfg.JWTSecret)
	if errors.Is(err, auth.ErrInvalidToken) {
		// 401
	}

IssueCallerToken exists for tests and local tooling.

# IP Hashing

HashIP stores a salted HMAC of the client IP on vote receipts instead of the
address itself.
*/
package auth
