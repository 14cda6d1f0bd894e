// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"fmt"

	"github.com/safeballot/safeballot/models"
)

// InsertVote appends one vote row. Votes are never updated or deleted here.
func (q *Queries) InsertVote(ctx context.Context, v models.Vote) error {
	_, err := q.q.ExecContext(ctx, `
		INSERT INTO vote (id, voter_id, ballot_id, question_id, choice_id, rank, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, v.ID, v.VoterID, v.BallotID, v.QuestionID, v.ChoiceID, v.Rank, v.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert vote: %w", err)
	}
	return nil
}

// InsertReceipt records one committed submission.
func (q *Queries) InsertReceipt(ctx context.Context, r models.VoteReceipt) error {
	_, err := q.q.ExecContext(ctx, `
		INSERT INTO vote_receipt (id, ballot_id, voter_id, votes_count, ip_hash, user_agent, submitted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, r.ID, r.BallotID, r.VoterID, r.VotesCount, r.IPHash, r.UserAgent, r.SubmittedAt)
	if err != nil {
		return fmt.Errorf("failed to insert vote receipt: %w", err)
	}
	return nil
}
