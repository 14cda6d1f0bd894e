// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs request start (method, path, remote) and completion (status, duration_ms).

# Caller Identity

Authenticate turns an optional "Authorization: Bearer <jwt>" header into a
trusted caller email:

	mux.HandleFunc("POST /api/ballots/{id}/vote",
		middleware.WithLogging(middleware.Authenticate(cfg.JWTSecret, h.SubmitVote)))

	email := middleware.CallerEmail(r.Context()) // "" when anonymous

An invalid token is rejected with 401; a missing header is anonymous.

# CORS Middleware

Enable cross-origin requests for frontend access:

	server := http.Server{
		Handler: middleware.CORS(mux),
	}

Allows methods GET, POST, PUT, DELETE, OPTIONS with headers
Content-Type and Authorization.

# JSON Helpers

Every response is an envelope with a status discriminator:

	middleware.SuccessResponse(w, http.StatusCreated, "Vote submitted successfully", data)
	middleware.ErrorResponse(w, http.StatusNotFound, "Ballot not found")
	middleware.ValidationErrorResponse(w, fieldErrors)

Parse JSON request bodies:

	var req models.SubmitVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

# Client IP Extraction

Get the original client IP (handles X-Forwarded-For, X-Real-IP):

	ip := middleware.GetClientIP(r)

Hashed with auth.HashIP before it is stored on vote receipts.
*/
package middleware
