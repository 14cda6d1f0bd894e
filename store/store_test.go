// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/safeballot/safeballot/auth"
	"github.com/safeballot/safeballot/models"
	"github.com/safeballot/safeballot/store"
	"github.com/safeballot/safeballot/testutil"
)

func TestGetBallot(t *testing.T) {
	conn, st := testutil.SetupTestStore(t)
	ballotID := testutil.CreateTestBallot(t, conn, models.StatusDraft, true)

	b, err := st.Reader().GetBallot(context.Background(), ballotID)
	if err != nil {
		t.Fatalf("GetBallot failed: %v", err)
	}
	if b.Status != models.StatusDraft || !b.RequiresVerification {
		t.Errorf("Unexpected ballot %+v", b)
	}

	_, err = st.Reader().GetBallot(context.Background(), "missing")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestIncrementCounters(t *testing.T) {
	conn, st := testutil.SetupTestStore(t)
	ballotID := testutil.CreateTestBallot(t, conn, models.StatusActive, false)
	q := st.Reader()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := q.IncrementBallotsReceived(ctx, ballotID); err != nil {
			t.Fatalf("IncrementBallotsReceived failed: %v", err)
		}
	}
	if err := q.IncrementTotalVoters(ctx, ballotID); err != nil {
		t.Fatalf("IncrementTotalVoters failed: %v", err)
	}

	total, received := testutil.BallotCounters(t, conn, ballotID)
	if total != 1 || received != 3 {
		t.Errorf("Expected counters 1/3, got %d/%d", total, received)
	}

	if err := q.IncrementBallotsReceived(ctx, "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for missing ballot, got %v", err)
	}
}

func TestCatalog(t *testing.T) {
	conn, st := testutil.SetupTestStore(t)
	ballotID := testutil.CreateTestBallot(t, conn, models.StatusActive, false)
	q1 := testutil.AddTestQuestion(t, conn, ballotID, "Q1", models.QuestionSingle)
	c1 := testutil.AddTestChoice(t, conn, q1, "C1")
	q2 := testutil.AddTestQuestion(t, conn, ballotID, "Q2", models.QuestionMultiple)
	c2 := testutil.AddTestChoice(t, conn, q2, "C2")

	otherBallot := testutil.CreateTestBallot(t, conn, models.StatusActive, false)
	otherQ := testutil.AddTestQuestion(t, conn, otherBallot, "Other", models.QuestionSingle)
	otherC := testutil.AddTestChoice(t, conn, otherQ, "Other choice")

	cat, err := st.Reader().LoadCatalog(context.Background(), ballotID)
	if err != nil {
		t.Fatalf("LoadCatalog failed: %v", err)
	}

	tests := []struct {
		name     string
		question string
		choice   string
		hasQ     bool
		belongs  bool
	}{
		{"matching pair", q1, c1, true, true},
		{"choice of sibling question", q1, c2, true, false},
		{"question of other ballot", otherQ, otherC, false, false},
		{"unknown ids", "nope", "nope", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cat.HasQuestion(tt.question); got != tt.hasQ {
				t.Errorf("HasQuestion = %v, want %v", got, tt.hasQ)
			}
			if got := cat.ChoiceBelongs(tt.question, tt.choice); got != tt.belongs {
				t.Errorf("ChoiceBelongs = %v, want %v", got, tt.belongs)
			}
		})
	}

	full, err := st.Reader().GetBallotWithQuestions(context.Background(), ballotID)
	if err != nil {
		t.Fatalf("GetBallotWithQuestions failed: %v", err)
	}
	if len(full.Questions) != 2 || full.Questions[0].ID != q1 || full.Questions[1].ID != q2 {
		t.Fatalf("Unexpected question order %+v", full.Questions)
	}
	if len(full.Questions[1].Choices) != 1 || full.Questions[1].Choices[0].ID != c2 {
		t.Errorf("Unexpected choices for Q2 %+v", full.Questions[1].Choices)
	}
}

func TestVoterRegistry(t *testing.T) {
	conn, st := testutil.SetupTestStore(t)
	ballotID := testutil.CreateTestBallot(t, conn, models.StatusActive, false)
	q := st.Reader()
	ctx := context.Background()

	v := models.Voter{
		ID:         auth.NewID(),
		BallotID:   ballotID,
		Email:      "reg@example.com",
		IsVerified: false,
		CreatedAt:  time.Now().UTC(),
	}

	inserted, err := q.InsertVoterIfAbsent(ctx, v)
	if err != nil || !inserted {
		t.Fatalf("Expected first insert to succeed, got inserted=%v err=%v", inserted, err)
	}

	dup := v
	dup.ID = auth.NewID()
	inserted, err = q.InsertVoterIfAbsent(ctx, dup)
	if err != nil {
		t.Fatalf("Duplicate insert failed: %v", err)
	}
	if inserted {
		t.Error("Expected duplicate (ballot, email) to be ignored")
	}

	got, err := q.GetVoterByEmail(ctx, ballotID, "reg@example.com", true)
	if err != nil {
		t.Fatalf("GetVoterByEmail failed: %v", err)
	}
	if got.ID != v.ID {
		t.Errorf("Expected original voter %s, got %s", v.ID, got.ID)
	}

	// Emails match without case on lookup and insert
	mixed := testutil.CreateTestVoter(t, conn, ballotID, "Alice@Example.com", true, false)
	for _, email := range []string{"Alice@Example.com", "alice@example.com", "ALICE@EXAMPLE.COM"} {
		got, err := q.GetVoterByEmail(ctx, ballotID, email, false)
		if err != nil {
			t.Fatalf("GetVoterByEmail(%q) failed: %v", email, err)
		}
		if got.ID != mixed || got.Email != "Alice@Example.com" {
			t.Errorf("GetVoterByEmail(%q) = %s/%s, want %s", email, got.ID, got.Email, mixed)
		}
	}
	lower := models.Voter{ID: auth.NewID(), BallotID: ballotID, Email: "alice@example.com", CreatedAt: time.Now().UTC()}
	if inserted, err := q.InsertVoterIfAbsent(ctx, lower); err != nil || inserted {
		t.Errorf("Expected case variant to be ignored, got inserted=%v err=%v", inserted, err)
	}

	if _, err := q.GetVoterByID(ctx, "other-ballot", v.ID, false); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Expected voter lookup to be ballot scoped, got %v", err)
	}

	if err := q.MarkVerified(ctx, v.ID); err != nil {
		t.Fatalf("MarkVerified failed: %v", err)
	}
	got, _ = q.GetVoterByID(ctx, ballotID, v.ID, false)
	if !got.IsVerified {
		t.Error("Expected voter to be verified")
	}
}

func TestMarkHasVoted_CompareAndSet(t *testing.T) {
	conn, st := testutil.SetupTestStore(t)
	ballotID := testutil.CreateTestBallot(t, conn, models.StatusActive, false)
	voterID := testutil.CreateTestVoter(t, conn, ballotID, "cas@example.com", true, false)
	q := st.Reader()
	ctx := context.Background()

	marked, err := q.MarkHasVoted(ctx, voterID)
	if err != nil || !marked {
		t.Fatalf("Expected first mark to succeed, got marked=%v err=%v", marked, err)
	}

	marked, err = q.MarkHasVoted(ctx, voterID)
	if err != nil {
		t.Fatalf("Second mark failed: %v", err)
	}
	if marked {
		t.Error("Expected second mark to report no change")
	}

	if err := q.ResetHasVoted(ctx, voterID); err != nil {
		t.Fatalf("ResetHasVoted failed: %v", err)
	}
	if marked, _ := q.MarkHasVoted(ctx, voterID); !marked {
		t.Error("Expected mark to succeed after reset")
	}
}

func TestWithTx(t *testing.T) {
	conn, st := testutil.SetupTestStore(t)
	ballotID := testutil.CreateTestBallot(t, conn, models.StatusActive, false)
	ctx := context.Background()

	t.Run("rollback on error", func(t *testing.T) {
		boom := errors.New("boom")
		err := st.WithTx(ctx, func(q *store.Queries) error {
			if err := q.IncrementBallotsReceived(ctx, ballotID); err != nil {
				return err
			}
			return boom
		})
		if !errors.Is(err, boom) {
			t.Fatalf("Expected boom, got %v", err)
		}
		if _, received := testutil.BallotCounters(t, conn, ballotID); received != 0 {
			t.Errorf("Expected rollback, ballots_received is %d", received)
		}
	})

	t.Run("commit on success", func(t *testing.T) {
		err := st.WithTx(ctx, func(q *store.Queries) error {
			return q.IncrementBallotsReceived(ctx, ballotID)
		})
		if err != nil {
			t.Fatalf("WithTx failed: %v", err)
		}
		if _, received := testutil.BallotCounters(t, conn, ballotID); received != 1 {
			t.Errorf("Expected commit, ballots_received is %d", received)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		err := st.WithTx(cctx, func(q *store.Queries) error { return nil })
		if err == nil {
			t.Error("Expected error for cancelled context")
		}
	})
}

func TestVotesAndReceipts(t *testing.T) {
	conn, st := testutil.SetupTestStore(t)
	ballotID := testutil.CreateTestBallot(t, conn, models.StatusActive, false)
	questionID := testutil.AddTestQuestion(t, conn, ballotID, "Q", models.QuestionRanked)
	choiceA := testutil.AddTestChoice(t, conn, questionID, "A")
	choiceB := testutil.AddTestChoice(t, conn, questionID, "B")
	voterID := testutil.CreateTestVoter(t, conn, ballotID, "votes@example.com", true, false)
	q := st.Reader()
	ctx := context.Background()
	now := time.Now().UTC()

	first := 1
	for _, v := range []models.Vote{
		{ID: auth.NewID(), VoterID: voterID, BallotID: ballotID, QuestionID: questionID, ChoiceID: choiceA, Rank: &first, CreatedAt: now},
		{ID: auth.NewID(), VoterID: voterID, BallotID: ballotID, QuestionID: questionID, ChoiceID: choiceB, CreatedAt: now},
	} {
		if err := q.InsertVote(ctx, v); err != nil {
			t.Fatalf("InsertVote failed: %v", err)
		}
	}

	votes := testutil.ListVotes(t, conn, ballotID, voterID)
	if len(votes) != 2 {
		t.Fatalf("Expected 2 votes, got %d", len(votes))
	}
	var ranked, unranked int
	for _, v := range votes {
		if v.Rank == nil {
			unranked++
		} else if *v.Rank == 1 {
			ranked++
		}
	}
	if ranked != 1 || unranked != 1 {
		t.Errorf("Expected one ranked and one unranked vote, got %+v", votes)
	}

	ipHash := auth.HashIP("203.0.113.7", "salt")
	err := q.InsertReceipt(ctx, models.VoteReceipt{
		ID:          auth.NewID(),
		BallotID:    ballotID,
		VoterID:     voterID,
		VotesCount:  2,
		IPHash:      &ipHash,
		SubmittedAt: now,
	})
	if err != nil {
		t.Fatalf("InsertReceipt failed: %v", err)
	}

	// Foreign keys are enforced
	err = q.InsertVote(ctx, models.Vote{
		ID: auth.NewID(), VoterID: voterID, BallotID: ballotID, QuestionID: questionID, ChoiceID: "missing", CreatedAt: now,
	})
	if err == nil {
		t.Error("Expected foreign key violation for unknown choice")
	}
}
