// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the SafeBallot API server.

SafeBallot accepts ballot submissions: every selection of a submission is
checked against the ballot's questions and choices, recorded, and the voter
is marked as having voted, all in one database transaction.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=file:safeballot.db IP_HASH_SALT=... go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..." -ip-salt ...

A .env file in the working directory is loaded first when present.

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite file URL or PostgreSQL connection string
  - IP_HASH_SALT (-ip-salt): Secret for hashing client IPs on receipts

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite (default) or postgres
  - JWT_SECRET (-jwt-secret): Enables bearer caller identities
  - CONFIG_FILE (-config): YAML file read before env and flags
  - DEMO_AUTO_VERIFY, DEMO_ALLOW_REVOTE: Demo-only voting overrides
  - REQUIRE_ACTIVE_BALLOT: Reject votes on draft or closed ballots
  - DEBUG, TRACING, TRACING_STDOUT: Observability

# Architecture

  - voting: Vote submission transaction, errors, metrics, spans
  - store: SQL access for ballots, catalog, voters and votes
  - handlers: HTTP request handlers
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, bearer identity, JSON helpers
  - models: Request/response and domain types
  - auth: IDs, caller tokens, IP hashing
  - db: Connections and schema creation
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
