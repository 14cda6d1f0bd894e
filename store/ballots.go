// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"fmt"

	"github.com/safeballot/safeballot/models"
)

// GetBallot loads one ballot with its counters.
func (q *Queries) GetBallot(ctx context.Context, ballotID string) (models.Ballot, error) {
	var b models.Ballot
	err := q.q.QueryRowContext(ctx, `
		SELECT id, title, description, status, requires_verification,
		       total_voters, ballots_received, created_at
		FROM ballot
		WHERE id = $1
	`, ballotID).Scan(
		&b.ID, &b.Title, &b.Description, &b.Status, &b.RequiresVerification,
		&b.TotalVoters, &b.BallotsReceived, &b.CreatedAt,
	)
	if err != nil {
		return models.Ballot{}, notFound(err, "ballot "+ballotID)
	}
	return b, nil
}

// IncrementTotalVoters adds one to ballot.total_voters in the store.
func (q *Queries) IncrementTotalVoters(ctx context.Context, ballotID string) error {
	return q.incrementCounter(ctx, ballotID, `
		UPDATE ballot SET total_voters = total_voters + 1 WHERE id = $1
	`)
}

// IncrementBallotsReceived adds one to ballot.ballots_received in the store.
func (q *Queries) IncrementBallotsReceived(ctx context.Context, ballotID string) error {
	return q.incrementCounter(ctx, ballotID, `
		UPDATE ballot SET ballots_received = ballots_received + 1 WHERE id = $1
	`)
}

// Counters are never read-modify-written by the application.
func (q *Queries) incrementCounter(ctx context.Context, ballotID, stmt string) error {
	res, err := q.q.ExecContext(ctx, stmt, ballotID)
	if err != nil {
		return fmt.Errorf("failed to increment ballot counter: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to increment ballot counter: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("ballot %s: %w", ballotID, ErrNotFound)
	}
	return nil
}
