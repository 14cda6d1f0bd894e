// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

Sources, lowest precedence first:

 1. Defaults (port 3318, sqlite, strict voting modes)
 2. YAML file given by -config or CONFIG_FILE
 3. Environment variables (a .env file is loaded by main beforehand)
 4. CLI flags

# CLI Flags and Environment Variables

	-p                  PORT                   Server port
	-d                  DATABASE_URL           Database URL (required)
	-t                  DATABASE_TYPE          sqlite (default) or postgres
	-config             CONFIG_FILE            YAML config file
	-ip-salt            IP_HASH_SALT           Secret for receipt IP hashes (required)
	-jwt-secret         JWT_SECRET             HMAC secret for caller tokens
	-demo-auto-verify   DEMO_AUTO_VERIFY       Auto-verify unverified voters
	-demo-allow-revote  DEMO_ALLOW_REVOTE      Let voters who already voted vote again
	-require-active     REQUIRE_ACTIVE_BALLOT  Reject votes on non-active ballots
	-debug              DEBUG                  Debug logging
	-tracing            TRACING                OTLP/HTTP trace export
	-tracing-stdout     TRACING_STDOUT         Trace export to stdout

# Voting Modes

The two demo overrides default to false. With both off, unverified voters on
ballots that require verification are rejected and a voter can submit a
ballot only once.

# Example

	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	dialect, _ := db.ParseDialect(cfg.DatabaseType)
	conn, err := db.Open(ctx, dialect, cfg.DatabaseURL)
	// ...
	mux := router.NewRouter(conn, cfg)
*/
package cliparse
