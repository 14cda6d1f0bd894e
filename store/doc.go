// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store is the data access layer behind vote submission.

# Stores

Queries groups the statements for the four persisted collections:

  - Ballot store (ballots.go): GetBallot, IncrementTotalVoters, IncrementBallotsReceived
  - Question/choice catalog (catalog.go): LoadCatalog, GetBallotWithQuestions
  - Voter registry (voters.go): GetVoterByID, GetVoterByEmail, InsertVoterIfAbsent,
    MarkVerified, ResetHasVoted, MarkHasVoted
  - Vote ledger (votes.go): InsertVote, InsertReceipt

# Transactions

Reader runs statements on the pool. WithTx runs a function inside one
transaction and commits only when it returns nil:

	err := st.WithTx(ctx, func(q *store.Queries) error {
		voter, err := q.GetVoterByID(ctx, ballotID, voterID, true)
		...
	})

Inside WithTx every statement must use the provided Queries; on SQLite the
pool holds a single connection and a stray pool query would wait forever.

# Concurrency

Counters are incremented in SQL (total_voters = total_voters + 1). Voter rows
read with lock=true use SELECT ... FOR UPDATE on Postgres. MarkHasVoted is a
compare-and-set on has_voted, so a voter can only be marked once.

Missing rows are reported as ErrNotFound (wrapped).
*/
package store
