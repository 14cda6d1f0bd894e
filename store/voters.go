// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/safeballot/safeballot/models"
)

const voterColumns = `id, ballot_id, email, name, is_verified, has_voted, verification_code, created_at`

// GetVoterByID finds a voter registered against ballotID. With lock set the
// row stays locked until the surrounding transaction ends.
func (q *Queries) GetVoterByID(ctx context.Context, ballotID, voterID string, lock bool) (models.Voter, error) {
	query := `SELECT ` + voterColumns + ` FROM voter WHERE ballot_id = $1 AND id = $2`
	return q.getVoter(ctx, query, lock, "voter "+voterID, ballotID, voterID)
}

// GetVoterByEmail finds a voter of ballotID by email, ignoring case. Stored
// addresses keep the casing they were registered with.
func (q *Queries) GetVoterByEmail(ctx context.Context, ballotID, email string, lock bool) (models.Voter, error) {
	query := `SELECT ` + voterColumns + ` FROM voter WHERE ballot_id = $1 AND lower(email) = $2`
	return q.getVoter(ctx, query, lock, "voter "+email, ballotID, strings.ToLower(email))
}

func (q *Queries) getVoter(ctx context.Context, query string, lock bool, what string, args ...any) (models.Voter, error) {
	if lock {
		query += q.dialect.LockClause()
	}
	var v models.Voter
	err := q.q.QueryRowContext(ctx, query, args...).Scan(
		&v.ID, &v.BallotID, &v.Email, &v.Name, &v.IsVerified, &v.HasVoted,
		&v.VerificationCode, &v.CreatedAt,
	)
	if err != nil {
		return models.Voter{}, notFound(err, what)
	}
	return v, nil
}

// InsertVoterIfAbsent inserts v unless the ballot already has a voter with the
// same email, compared without case. It reports whether a row was inserted.
func (q *Queries) InsertVoterIfAbsent(ctx context.Context, v models.Voter) (bool, error) {
	res, err := q.q.ExecContext(ctx, `
		INSERT INTO voter (id, ballot_id, email, name, is_verified, has_voted, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT DO NOTHING
	`, v.ID, v.BallotID, v.Email, v.Name, v.IsVerified, v.HasVoted, v.CreatedAt)
	if err != nil {
		return false, fmt.Errorf("failed to insert voter: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to insert voter: %w", err)
	}
	return n == 1, nil
}

// MarkVerified sets is_verified on a voter.
func (q *Queries) MarkVerified(ctx context.Context, voterID string) error {
	_, err := q.q.ExecContext(ctx, `UPDATE voter SET is_verified = $1 WHERE id = $2`, true, voterID)
	if err != nil {
		return fmt.Errorf("failed to mark voter verified: %w", err)
	}
	return nil
}

// ResetHasVoted clears has_voted on a voter.
func (q *Queries) ResetHasVoted(ctx context.Context, voterID string) error {
	_, err := q.q.ExecContext(ctx, `UPDATE voter SET has_voted = $1 WHERE id = $2`, false, voterID)
	if err != nil {
		return fmt.Errorf("failed to reset has_voted: %w", err)
	}
	return nil
}

// MarkHasVoted flips has_voted from false to true. It returns false when the
// voter had already voted, so two submissions can never both flip it.
func (q *Queries) MarkHasVoted(ctx context.Context, voterID string) (bool, error) {
	res, err := q.q.ExecContext(ctx, `
		UPDATE voter SET has_voted = $1 WHERE id = $2 AND has_voted = $3
	`, true, voterID, false)
	if err != nil {
		return false, fmt.Errorf("failed to mark voter as voted: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to mark voter as voted: %w", err)
	}
	return n == 1, nil
}
