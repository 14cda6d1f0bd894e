// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the SafeBallot API.

# Handler Types

Each handler is a struct wrapping the voting service:

  - VotingHandler: Vote submission
  - BallotHandler: Ballot and catalog retrieval

	service := voting.NewService(store.New(conn, dialect), opts)
	votingHandler := handlers.NewVotingHandler(service)

# Vote Submission

	POST /api/ballots/{id}/vote → SubmitVote

Request body:

	{"voterId": "...", "email": "...", "votes": [{"questionId": "...", "choiceId": "...", "rank": 1}]}

The voter is resolved by voterId, then the authenticated caller email, then
the request email; otherwise a new voter is registered. Responses:

	201  vote recorded
	400  malformed body or selection (errors[] lists each field)
	401  invalid bearer token
	403  voter not verified for a ballot that requires verification
	404  ballot not found
	409  voter already voted, or ballot not active
	500  transaction failure; nothing was recorded

# Ballot Retrieval

	GET /api/ballots/{id} → GetBallot

Returns the ballot with its counters, questions and choices.
*/
package handlers
