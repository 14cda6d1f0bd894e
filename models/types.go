// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"encoding/json"
	"time"
)

// Ballot status constants
const (
	StatusDraft  = "draft"
	StatusActive = "active"
	StatusClosed = "closed"
)

// Question type constants
const (
	QuestionSingle   = "single"
	QuestionMultiple = "multiple"
	QuestionRanked   = "ranked"
)

// Response status discriminators
const (
	ResponseSuccess = "success"
	ResponseError   = "error"
)

// Request types

// Rank is kept raw so that a non-numeric value is reported per field
// instead of failing the whole body.
type VoteSelectionRequest struct {
	QuestionID string          `json:"questionId"`
	ChoiceID   string          `json:"choiceId"`
	Rank       json.RawMessage `json:"rank,omitempty"`
}

type SubmitVoteRequest struct {
	VoterID string                 `json:"voterId,omitempty"`
	Email   string                 `json:"email,omitempty"`
	Votes   []VoteSelectionRequest `json:"votes"`
}

// Response types

type SubmitVoteData struct {
	VoterID    string `json:"voterId"`
	BallotID   string `json:"ballotId"`
	VotesCount int    `json:"votesCount"`
	ReceiptID  string `json:"receiptId"`
}

type SuccessResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// Domain types

type Ballot struct {
	ID                   string    `json:"id"`
	Title                string    `json:"title"`
	Description          string    `json:"description"`
	Status               string    `json:"status"`
	RequiresVerification bool      `json:"requiresVerification"`
	TotalVoters          int       `json:"totalVoters"`
	BallotsReceived      int       `json:"ballotsReceived"`
	CreatedAt            time.Time `json:"createdAt"`
}

type Question struct {
	ID       string   `json:"id"`
	BallotID string   `json:"ballotId"`
	Text     string   `json:"text"`
	Type     string   `json:"type"`
	Position int      `json:"position"`
	Choices  []Choice `json:"choices"`
}

type Choice struct {
	ID         string `json:"id"`
	QuestionID string `json:"questionId"`
	Text       string `json:"text"`
	Position   int    `json:"position"`
}

type BallotWithQuestions struct {
	Ballot    Ballot     `json:"ballot"`
	Questions []Question `json:"questions"`
}

type Voter struct {
	ID               string    `json:"id"`
	BallotID         string    `json:"ballotId"`
	Email            string    `json:"email"`
	Name             string    `json:"name"`
	IsVerified       bool      `json:"isVerified"`
	HasVoted         bool      `json:"hasVoted"`
	VerificationCode *string   `json:"-"` // Never expose in JSON
	CreatedAt        time.Time `json:"createdAt"`
}

type Vote struct {
	ID         string    `json:"id"`
	VoterID    string    `json:"voterId"`
	BallotID   string    `json:"ballotId"`
	QuestionID string    `json:"questionId"`
	ChoiceID   string    `json:"choiceId"`
	Rank       *int      `json:"rank,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

type VoteReceipt struct {
	ID          string    `json:"id"`
	BallotID    string    `json:"ballotId"`
	VoterID     string    `json:"voterId"`
	VotesCount  int       `json:"votesCount"`
	IPHash      *string   `json:"-"` // Never expose in JSON
	UserAgent   *string   `json:"-"` // Never expose in JSON
	SubmittedAt time.Time `json:"submittedAt"`
}

// Error responses

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Status  string       `json:"status"`
	Message string       `json:"message,omitempty"`
	Errors  []FieldError `json:"errors,omitempty"`
}
