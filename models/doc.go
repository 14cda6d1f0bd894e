// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the SafeBallot API.

# Request Types

	SubmitVoteRequest    → POST /api/ballots/{id}/vote
	VoteSelectionRequest → one entry of SubmitVoteRequest.Votes

Rank is decoded as raw JSON so validation can report a non-numeric rank
against the offending selection.

# Response Types

Every response carries a status discriminator:

	{"status": "success", "message": "...", "data": {...}}
	{"status": "error", "message": "..."}
	{"status": "error", "errors": [{"field": "votes[0].choiceId", "message": "..."}]}

# Domain Types

  - Ballot: status, verification requirement, aggregate counters
  - Question, Choice: the ballot-scoped catalog
  - Voter: per-ballot voter with verification and has-voted state
  - Vote: immutable record of one selection
  - VoteReceipt: one committed submission

# Ballot Status

	StatusDraft  = "draft"
	StatusActive = "active"
	StatusClosed = "closed"

Status is informational unless the server runs with RequireActiveBallot.

# Sensitive Fields

Voter verification codes and receipt IP hashes/user agents use json:"-".
*/
package models
