// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/safeballot/safeballot/auth"
	"github.com/safeballot/safeballot/models"
	"github.com/safeballot/safeballot/store"
)

// Resolution tells whether a submission matched a registered voter or
// created one.
type Resolution int

const (
	VoterExisting Resolution = iota
	VoterCreated
)

func (r Resolution) String() string {
	if r == VoterCreated {
		return "created"
	}
	return "existing"
}

type ResolvedVoter struct {
	Voter      models.Voter
	Resolution Resolution
}

const anonymousVoterName = "Anonymous Voter"

// resolveOrCreateVoter picks the voter for a submission, first match wins:
// explicit voter id, authenticated caller email, request email. Otherwise a
// new verified voter is created and the ballot's total_voters incremented.
// Matched rows are locked until the transaction ends.
func resolveOrCreateVoter(ctx context.Context, q *store.Queries, ballotID string, in SubmitVoteInput) (ResolvedVoter, error) {
	if in.VoterID != "" {
		v, err := q.GetVoterByID(ctx, ballotID, in.VoterID, true)
		if err == nil {
			return ResolvedVoter{Voter: v, Resolution: VoterExisting}, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return ResolvedVoter{}, err
		}
	}

	for _, email := range []string{in.CallerEmail, in.Email} {
		if email == "" {
			continue
		}
		v, err := q.GetVoterByEmail(ctx, ballotID, email, true)
		if err == nil {
			return ResolvedVoter{Voter: v, Resolution: VoterExisting}, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return ResolvedVoter{}, err
		}
	}

	v := models.Voter{
		ID:         auth.NewID(),
		BallotID:   ballotID,
		IsVerified: true,
		HasVoted:   false,
		CreatedAt:  time.Now().UTC(),
	}
	switch {
	case in.CallerEmail != "":
		v.Email = in.CallerEmail
	case in.Email != "":
		v.Email = in.Email
	default:
		v.Email = auth.AnonymousEmail()
		v.Name = anonymousVoterName
	}

	inserted, err := q.InsertVoterIfAbsent(ctx, v)
	if err != nil {
		return ResolvedVoter{}, err
	}
	if !inserted {
		// A concurrent submission registered the same email first.
		existing, err := q.GetVoterByEmail(ctx, ballotID, v.Email, true)
		if err != nil {
			return ResolvedVoter{}, fmt.Errorf("failed to load concurrently created voter: %w", err)
		}
		return ResolvedVoter{Voter: existing, Resolution: VoterExisting}, nil
	}

	if err := q.IncrementTotalVoters(ctx, ballotID); err != nil {
		return ResolvedVoter{}, err
	}
	return ResolvedVoter{Voter: v, Resolution: VoterCreated}, nil
}
