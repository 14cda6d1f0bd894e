// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/safeballot/safeballot/models"
	"github.com/safeballot/safeballot/testutil"
)

// TestConcurrentVotesDifferentVoters verifies that simultaneous submissions
// from different voters are all recorded and counted exactly once each.
func TestConcurrentVotesDifferentVoters(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewVotingHandler(newTestService(conn, cfg))

	b := createTestBallot(t, conn, models.StatusActive, false)

	numVoters := 10
	var successCount atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < numVoters; i++ {
		wg.Add(1)
		go func(voterIdx int) {
			defer wg.Done()

			body := models.SubmitVoteRequest{
				Email: fmt.Sprintf("voter%d@example.com", voterIdx),
				Votes: b.votes(),
			}
			w := submitVote(t, handler, b.ID, body, nil)
			if w.Code == http.StatusCreated {
				successCount.Add(1)
			}
		}(i)
	}

	wg.Wait()

	if int(successCount.Load()) != numVoters {
		t.Errorf("Expected %d successful submissions, got %d", numVoters, successCount.Load())
	}

	total, received := testutil.BallotCounters(t, conn, b.ID)
	if total != numVoters {
		t.Errorf("Expected total_voters %d, got %d", numVoters, total)
	}
	if received != numVoters {
		t.Errorf("Expected ballots_received %d, got %d", numVoters, received)
	}

	votes := testutil.CountRows(t, conn, `SELECT COUNT(*) FROM vote WHERE ballot_id = $1`, b.ID)
	if votes != numVoters*3 {
		t.Errorf("Expected %d votes, got %d", numVoters*3, votes)
	}
}

// TestConcurrentVotesSameVoter verifies that when one voter submits from many
// goroutines at once, exactly one submission is recorded.
func TestConcurrentVotesSameVoter(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewVotingHandler(newTestService(conn, cfg))

	b := createTestBallot(t, conn, models.StatusActive, false)
	voterID := testutil.CreateTestVoter(t, conn, b.ID, "racer@example.com", true, false)

	numAttempts := 8
	var successCount, conflictCount atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < numAttempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			w := submitVote(t, handler, b.ID, models.SubmitVoteRequest{VoterID: voterID, Votes: b.votes()}, nil)
			switch w.Code {
			case http.StatusCreated:
				successCount.Add(1)
			case http.StatusConflict:
				conflictCount.Add(1)
			}
		}()
	}

	wg.Wait()

	if successCount.Load() != 1 {
		t.Errorf("Expected exactly 1 successful submission, got %d", successCount.Load())
	}
	if int(conflictCount.Load()) != numAttempts-1 {
		t.Errorf("Expected %d conflicts, got %d", numAttempts-1, conflictCount.Load())
	}

	votes := testutil.CountRows(t, conn, `SELECT COUNT(*) FROM vote WHERE voter_id = $1`, voterID)
	if votes != 3 {
		t.Errorf("Expected 3 votes, got %d", votes)
	}
	_, received := testutil.BallotCounters(t, conn, b.ID)
	if received != 1 {
		t.Errorf("Expected ballots_received 1, got %d", received)
	}
}

// TestConcurrentNewVoterSameEmail verifies that concurrent first submissions
// for one email create a single voter.
func TestConcurrentNewVoterSameEmail(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewVotingHandler(newTestService(conn, cfg))

	b := createTestBallot(t, conn, models.StatusActive, false)

	numAttempts := 5
	var successCount atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < numAttempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			w := submitVote(t, handler, b.ID, models.SubmitVoteRequest{Email: "same@example.com", Votes: b.votes()}, nil)
			if w.Code == http.StatusCreated {
				successCount.Add(1)
			}
		}()
	}

	wg.Wait()

	if successCount.Load() != 1 {
		t.Errorf("Expected exactly 1 successful submission, got %d", successCount.Load())
	}

	voters := testutil.CountRows(t, conn, `SELECT COUNT(*) FROM voter WHERE ballot_id = $1`, b.ID)
	if voters != 1 {
		t.Errorf("Expected 1 voter, got %d", voters)
	}
	total, received := testutil.BallotCounters(t, conn, b.ID)
	if total != 1 || received != 1 {
		t.Errorf("Expected counters 1/1, got %d/%d", total, received)
	}
}
