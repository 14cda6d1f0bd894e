// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the SafeBallot API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux, err := router.NewRouter(db, cfg)

It fails only when cfg.DatabaseType is not a supported dialect.

# Endpoints

Operations:

	GET /health  - Liveness check
	GET /metrics - Prometheus metrics
	GET /        - Banner

Ballots:

	GET  /api/ballots/{id}      - Ballot, counters, questions and choices
	POST /api/ballots/{id}/vote - Submit a vote (optional Bearer token)

# Handler Initialization

The router builds one voting service and shares it between handlers:

	service := voting.NewService(store.New(db, dialect), opts)
	votingHandler := handlers.NewVotingHandler(service)
	ballotHandler := handlers.NewBallotHandler(service)

Service metrics are registered on a registry private to the router, so
several routers can coexist in one process.
*/
package router
