// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package voting implements the vote submission transaction.

# Submitting a Vote

	svc := voting.NewService(store.New(conn, dialect), voting.Options{IPHashSalt: salt})
	res, err := svc.SubmitVote(ctx, voting.SubmitVoteInput{
		BallotID:   ballotID,
		Selections: selections,
	})

SubmitVote validates the input, pre-checks the ballot and its
question/choice catalog, then runs one transaction that:

 1. re-reads the ballot
 2. resolves or creates the voter (voter id, caller email, request email,
    else a new anonymous voter; total_voters is incremented on creation)
 3. applies the verification and duplicate-vote gates
 4. re-validates every selection against the catalog
 5. inserts one vote per selection
 6. flips has_voted false→true (compare-and-set)
 7. increments ballots_received and writes a receipt

Any failure rolls back the whole transaction, including voter creation.

# Errors

Check errors with errors.Is:

	ErrValidation           malformed input (*ValidationError)
	ErrInvalidSelection     question/choice not in the ballot (*SelectionError)
	ErrNotFound             ballot does not exist
	ErrVerificationRequired voter unverified on a ballot that requires it
	ErrAlreadyVoted         voter already submitted this ballot
	ErrBallotNotActive      ballot not active (RequireActiveBallot only)
	ErrTransaction          store failure; safe to retry

FieldErrors extracts per-field details for responses.

# Modes

Options.AutoVerifyVoters and Options.AllowRevote relax the verification and
duplicate gates for demonstrations. Both default to false.

# Observability

Submissions are counted by result in safeballot_vote_submissions_total and
timed in safeballot_vote_submission_duration_seconds. Each submission is an
OpenTelemetry span with precheck and transaction children.
*/
package voting
