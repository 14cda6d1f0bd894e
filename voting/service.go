// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/safeballot/safeballot/auth"
	"github.com/safeballot/safeballot/models"
	"github.com/safeballot/safeballot/store"
)

const tracerName = "github.com/safeballot/safeballot/voting"

// Options configures a Service.
type Options struct {
	// AutoVerifyVoters marks unverified voters verified instead of rejecting
	// them on ballots that require verification. Demo only.
	AutoVerifyVoters bool
	// AllowRevote clears has_voted so a voter can submit again. Demo only.
	AllowRevote bool
	// RequireActiveBallot rejects submissions to draft or closed ballots.
	RequireActiveBallot bool
	// IPHashSalt keys the client IP hash stored on receipts.
	IPHashSalt string

	Registerer     prometheus.Registerer
	TracerProvider trace.TracerProvider
}

// SubmitVoteInput is one ballot submission. CallerEmail comes from an
// authenticated identity; VoterID and Email come from the request body.
type SubmitVoteInput struct {
	BallotID    string
	VoterID     string
	Email       string
	CallerEmail string
	Selections  []Selection
	ClientIP    string
	UserAgent   string
}

// SubmitVoteResult describes a committed submission.
type SubmitVoteResult struct {
	VoterID      string
	BallotID     string
	VotesCount   int
	ReceiptID    string
	VoterCreated bool
}

// Service runs vote submissions against a Store.
type Service struct {
	store   *store.Store
	opts    Options
	metrics *serviceMetrics
	tracer  trace.Tracer
}

// NewService creates a Service. Metrics stay unregistered when
// opts.Registerer is nil.
func NewService(st *store.Store, opts Options) *Service {
	tp := opts.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return &Service{
		store:   st,
		opts:    opts,
		metrics: newServiceMetrics(opts.Registerer),
		tracer:  tp.Tracer(tracerName),
	}
}

// SubmitVote records every selection of a submission, marks the voter as
// having voted and counts the ballot, all in one transaction. On error nothing
// from the submission is persisted.
func (s *Service) SubmitVote(ctx context.Context, in SubmitVoteInput) (SubmitVoteResult, error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "SubmitVote", trace.WithAttributes(
		attribute.String("ballot.id", in.BallotID),
		attribute.Int("votes.count", len(in.Selections)),
	))
	defer span.End()

	res, err := s.submitVote(ctx, in)
	s.metrics.observe(res, err, time.Since(start))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, resultLabel(err))
		return SubmitVoteResult{}, err
	}

	span.SetAttributes(
		attribute.String("voter.id", res.VoterID),
		attribute.Bool("voter.created", res.VoterCreated),
	)
	return res, nil
}

func (s *Service) submitVote(ctx context.Context, in SubmitVoteInput) (SubmitVoteResult, error) {
	in.Email = auth.NormalizeEmail(in.Email)
	in.CallerEmail = auth.NormalizeEmail(in.CallerEmail)

	if err := validateInput(in); err != nil {
		return SubmitVoteResult{}, err
	}

	// Fast-fail pre-check; repeated inside the transaction.
	if err := s.precheck(ctx, in); err != nil {
		return SubmitVoteResult{}, err
	}

	var res SubmitVoteResult
	err := s.store.WithTx(ctx, func(q *store.Queries) error {
		var err error
		res, err = s.castInTx(ctx, q, in)
		return err
	})
	if err != nil {
		return SubmitVoteResult{}, transactionError(err)
	}

	slog.Info("vote submitted",
		"ballot_id", res.BallotID,
		"voter_id", res.VoterID,
		"votes", res.VotesCount,
		"voter_created", res.VoterCreated,
	)
	return res, nil
}

func (s *Service) precheck(ctx context.Context, in SubmitVoteInput) error {
	ctx, span := s.tracer.Start(ctx, "SubmitVote.precheck")
	defer span.End()

	q := s.store.Reader()
	ballot, err := s.loadBallot(ctx, q, in.BallotID)
	if err != nil {
		return transactionError(err)
	}
	if err := s.checkStatus(ballot); err != nil {
		return err
	}

	cat, err := q.LoadCatalog(ctx, ballot.ID)
	if err != nil {
		return transactionError(err)
	}
	return checkSelections(cat, in.Selections)
}

func (s *Service) castInTx(ctx context.Context, q *store.Queries, in SubmitVoteInput) (SubmitVoteResult, error) {
	ctx, span := s.tracer.Start(ctx, "SubmitVote.transaction")
	defer span.End()

	ballot, err := s.loadBallot(ctx, q, in.BallotID)
	if err != nil {
		return SubmitVoteResult{}, err
	}
	if err := s.checkStatus(ballot); err != nil {
		return SubmitVoteResult{}, err
	}

	resolved, err := resolveOrCreateVoter(ctx, q, ballot.ID, in)
	if err != nil {
		return SubmitVoteResult{}, err
	}
	voter := resolved.Voter
	slog.Debug("voter resolved",
		"ballot_id", ballot.ID,
		"voter_id", voter.ID,
		"resolution", resolved.Resolution.String(),
		"anonymous", auth.IsAnonymousEmail(voter.Email),
	)

	if ballot.RequiresVerification && !voter.IsVerified {
		if !s.opts.AutoVerifyVoters {
			return SubmitVoteResult{}, fmt.Errorf("voter %s: %w", voter.ID, ErrVerificationRequired)
		}
		slog.Warn("auto-verifying unverified voter (demo mode)", "ballot_id", ballot.ID, "voter_id", voter.ID)
		if err := q.MarkVerified(ctx, voter.ID); err != nil {
			return SubmitVoteResult{}, err
		}
	}

	if voter.HasVoted {
		if !s.opts.AllowRevote {
			return SubmitVoteResult{}, fmt.Errorf("voter %s: %w", voter.ID, ErrAlreadyVoted)
		}
		slog.Warn("resetting has_voted for repeat submission (demo mode)", "ballot_id", ballot.ID, "voter_id", voter.ID)
		if err := q.ResetHasVoted(ctx, voter.ID); err != nil {
			return SubmitVoteResult{}, err
		}
	}

	// Authoritative ownership check under the transaction's isolation.
	cat, err := q.LoadCatalog(ctx, ballot.ID)
	if err != nil {
		return SubmitVoteResult{}, err
	}
	if err := checkSelections(cat, in.Selections); err != nil {
		return SubmitVoteResult{}, err
	}

	now := time.Now().UTC()
	for _, sel := range in.Selections {
		err := q.InsertVote(ctx, models.Vote{
			ID:         auth.NewID(),
			VoterID:    voter.ID,
			BallotID:   ballot.ID,
			QuestionID: sel.QuestionID,
			ChoiceID:   sel.ChoiceID,
			Rank:       sel.Rank,
			CreatedAt:  now,
		})
		if err != nil {
			return SubmitVoteResult{}, err
		}
	}

	marked, err := q.MarkHasVoted(ctx, voter.ID)
	if err != nil {
		return SubmitVoteResult{}, err
	}
	if !marked {
		return SubmitVoteResult{}, fmt.Errorf("voter %s: %w", voter.ID, ErrAlreadyVoted)
	}

	if err := q.IncrementBallotsReceived(ctx, ballot.ID); err != nil {
		return SubmitVoteResult{}, err
	}

	receipt := models.VoteReceipt{
		ID:          auth.NewID(),
		BallotID:    ballot.ID,
		VoterID:     voter.ID,
		VotesCount:  len(in.Selections),
		SubmittedAt: now,
	}
	if in.ClientIP != "" {
		ipHash := auth.HashIP(in.ClientIP, s.opts.IPHashSalt)
		receipt.IPHash = &ipHash
	}
	if in.UserAgent != "" {
		ua := in.UserAgent
		receipt.UserAgent = &ua
	}
	if err := q.InsertReceipt(ctx, receipt); err != nil {
		return SubmitVoteResult{}, err
	}

	return SubmitVoteResult{
		VoterID:      voter.ID,
		BallotID:     ballot.ID,
		VotesCount:   len(in.Selections),
		ReceiptID:    receipt.ID,
		VoterCreated: resolved.Resolution == VoterCreated,
	}, nil
}

func (s *Service) loadBallot(ctx context.Context, q *store.Queries, ballotID string) (models.Ballot, error) {
	ballot, err := q.GetBallot(ctx, ballotID)
	if errors.Is(err, store.ErrNotFound) {
		return models.Ballot{}, fmt.Errorf("ballot %s: %w", ballotID, ErrNotFound)
	}
	return ballot, err
}

func (s *Service) checkStatus(ballot models.Ballot) error {
	if s.opts.RequireActiveBallot && ballot.Status != models.StatusActive {
		return fmt.Errorf("ballot %s is %s: %w", ballot.ID, ballot.Status, ErrBallotNotActive)
	}
	return nil
}

// GetBallot returns a ballot with its question/choice catalog.
func (s *Service) GetBallot(ctx context.Context, ballotID string) (models.BallotWithQuestions, error) {
	ballot, err := s.store.Reader().GetBallotWithQuestions(ctx, ballotID)
	if errors.Is(err, store.ErrNotFound) {
		return models.BallotWithQuestions{}, fmt.Errorf("ballot %s: %w", ballotID, ErrNotFound)
	}
	if err != nil {
		return models.BallotWithQuestions{}, err
	}
	return ballot, nil
}
