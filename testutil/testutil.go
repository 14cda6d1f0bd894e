// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/safeballot/safeballot/auth"
	"github.com/safeballot/safeballot/cliparse"
	"github.com/safeballot/safeballot/db"
	"github.com/safeballot/safeballot/models"
	"github.com/safeballot/safeballot/store"
)

// TestJWTSecret signs caller tokens in tests
const TestJWTSecret = "test-jwt-secret"

// SetupTestDB creates a fresh on-disk SQLite database with the full schema.
// The database lives in t.TempDir() and is closed when the test ends.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	url := "file:" + filepath.Join(t.TempDir(), "safeballot.db")
	conn, err := sql.Open("sqlite", db.SQLiteDSN(url))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// SetupTestStore wraps SetupTestDB in a store.Store
func SetupTestStore(t *testing.T) (*sql.DB, *store.Store) {
	t.Helper()
	conn := SetupTestDB(t)
	return conn, store.New(conn, db.SQLite)
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         cliparse.DefaultPort,
		DatabaseURL:  "file::memory:",
		DatabaseType: string(db.SQLite),
		IPHashSalt:   "test-ip-salt",
		JWTSecret:    TestJWTSecret,
	}
}

// CreateTestBallot creates a ballot and returns its ID.
// status should be "draft", "active", or "closed"
func CreateTestBallot(t *testing.T, conn *sql.DB, status string, requiresVerification bool) string {
	t.Helper()

	ballotID := auth.NewID()
	_, err := conn.Exec(`
		INSERT INTO ballot (id, title, description, status, requires_verification, created_at)
		VALUES ($1, 'Test Ballot', 'A test ballot', $2, $3, $4)
	`, ballotID, status, requiresVerification, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test ballot: %v", err)
	}

	return ballotID
}

// AddTestQuestion adds a question to a ballot and returns the question ID
func AddTestQuestion(t *testing.T, conn *sql.DB, ballotID, text, qType string) string {
	t.Helper()

	var position int
	if err := conn.QueryRow(`SELECT COUNT(*) FROM question WHERE ballot_id = $1`, ballotID).Scan(&position); err != nil {
		t.Fatalf("Failed to count questions: %v", err)
	}

	questionID := auth.NewID()
	_, err := conn.Exec(`
		INSERT INTO question (id, ballot_id, text, type, position)
		VALUES ($1, $2, $3, $4, $5)
	`, questionID, ballotID, text, qType, position)
	if err != nil {
		t.Fatalf("Failed to create test question: %v", err)
	}

	return questionID
}

// AddTestChoice adds a choice to a question and returns the choice ID
func AddTestChoice(t *testing.T, conn *sql.DB, questionID, text string) string {
	t.Helper()

	var position int
	if err := conn.QueryRow(`SELECT COUNT(*) FROM choice WHERE question_id = $1`, questionID).Scan(&position); err != nil {
		t.Fatalf("Failed to count choices: %v", err)
	}

	choiceID := auth.NewID()
	_, err := conn.Exec(`
		INSERT INTO choice (id, question_id, text, position)
		VALUES ($1, $2, $3, $4)
	`, choiceID, questionID, text, position)
	if err != nil {
		t.Fatalf("Failed to create test choice: %v", err)
	}

	return choiceID
}

// CreateTestVoter registers a voter on a ballot and returns the voter ID.
// total_voters is incremented the way a created voter would be.
func CreateTestVoter(t *testing.T, conn *sql.DB, ballotID, email string, verified, hasVoted bool) string {
	t.Helper()

	voterID := auth.NewID()
	_, err := conn.Exec(`
		INSERT INTO voter (id, ballot_id, email, name, is_verified, has_voted, created_at)
		VALUES ($1, $2, $3, 'Test Voter', $4, $5, $6)
	`, voterID, ballotID, email, verified, hasVoted, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test voter: %v", err)
	}

	_, err = conn.Exec(`UPDATE ballot SET total_voters = total_voters + 1 WHERE id = $1`, ballotID)
	if err != nil {
		t.Fatalf("Failed to update total_voters: %v", err)
	}

	return voterID
}

// BallotCounters returns total_voters and ballots_received for a ballot
func BallotCounters(t *testing.T, conn *sql.DB, ballotID string) (totalVoters, ballotsReceived int) {
	t.Helper()

	err := conn.QueryRow(`
		SELECT total_voters, ballots_received FROM ballot WHERE id = $1
	`, ballotID).Scan(&totalVoters, &ballotsReceived)
	if err != nil {
		t.Fatalf("Failed to read ballot counters: %v", err)
	}
	return totalVoters, ballotsReceived
}

// CountRows runs a COUNT(*) query and returns the result
func CountRows(t *testing.T, conn *sql.DB, query string, args ...any) int {
	t.Helper()

	var n int
	if err := conn.QueryRow(query, args...).Scan(&n); err != nil {
		t.Fatalf("Failed to count rows: %v", err)
	}
	return n
}

// VoterHasVoted returns the has_voted flag of a voter
func VoterHasVoted(t *testing.T, conn *sql.DB, voterID string) bool {
	t.Helper()

	var hasVoted bool
	if err := conn.QueryRow(`SELECT has_voted FROM voter WHERE id = $1`, voterID).Scan(&hasVoted); err != nil {
		t.Fatalf("Failed to read has_voted: %v", err)
	}
	return hasVoted
}

// ListVotes returns the votes a voter cast on a ballot, oldest first
func ListVotes(t *testing.T, conn *sql.DB, ballotID, voterID string) []models.Vote {
	t.Helper()

	rows, err := conn.Query(`
		SELECT id, voter_id, ballot_id, question_id, choice_id, rank, created_at
		FROM vote
		WHERE ballot_id = $1 AND voter_id = $2
		ORDER BY created_at, question_id, rank
	`, ballotID, voterID)
	if err != nil {
		t.Fatalf("Failed to query votes: %v", err)
	}
	defer rows.Close()

	votes := []models.Vote{}
	for rows.Next() {
		var v models.Vote
		if err := rows.Scan(&v.ID, &v.VoterID, &v.BallotID, &v.QuestionID, &v.ChoiceID, &v.Rank, &v.CreatedAt); err != nil {
			t.Fatalf("Failed to scan vote: %v", err)
		}
		votes = append(votes, v)
	}
	if err := rows.Err(); err != nil {
		t.Fatalf("Failed to read votes: %v", err)
	}
	return votes
}

// CallerToken signs a caller token for email with TestJWTSecret
func CallerToken(t *testing.T, email string) string {
	t.Helper()

	token, err := auth.IssueCallerToken(email, TestJWTSecret, time.Hour)
	if err != nil {
		t.Fatalf("Failed to issue caller token: %v", err)
	}
	return token
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
