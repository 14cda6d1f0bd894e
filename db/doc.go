// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database connections and schema creation.

# Connections

Open selects the driver from the configured Dialect (Postgres via lib/pq,
SQLite via modernc.org/sqlite) and pings the server:

	dialect, _ := db.ParseDialect(cfg.DatabaseType)
	conn, err := db.Open(ctx, dialect, cfg.DatabaseURL)

SQLite connections are limited to one open connection so write transactions
never interleave.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - ballot: Ballot metadata, status and aggregate counters
  - question: Questions per ballot
  - choice: Choices per question
  - voter: Voters registered against one ballot
  - vote: One row per recorded selection (append-only)
  - vote_receipt: One row per committed submission

# Relationships

	ballot 1──* question 1──* choice
	ballot 1──* voter 1──* vote
	ballot 1──* vote_receipt

All foreign keys use ON DELETE CASCADE. Voter emails are unique per ballot.
*/
package db
