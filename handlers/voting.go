// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/safeballot/safeballot/middleware"
	"github.com/safeballot/safeballot/models"
	"github.com/safeballot/safeballot/voting"
)

type VotingHandler struct {
	service *voting.Service
}

func NewVotingHandler(service *voting.Service) *VotingHandler {
	return &VotingHandler{service: service}
}

// SubmitVote handles POST /api/ballots/:id/vote
func (h *VotingHandler) SubmitVote(w http.ResponseWriter, r *http.Request) {
	ballotID := r.PathValue("id")

	// Parse request
	var req models.SubmitVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ValidationErrorResponse(w, []models.FieldError{
			{Field: "body", Message: "request body must be valid JSON"},
		})
		return
	}

	selections, err := voting.ParseSelections(req.Votes)
	if err != nil {
		middleware.ValidationErrorResponse(w, voting.FieldErrors(err))
		return
	}

	res, err := h.service.SubmitVote(r.Context(), voting.SubmitVoteInput{
		BallotID:    ballotID,
		VoterID:     req.VoterID,
		Email:       req.Email,
		CallerEmail: middleware.CallerEmail(r.Context()),
		Selections:  selections,
		ClientIP:    middleware.GetClientIP(r),
		UserAgent:   r.UserAgent(),
	})
	if err != nil {
		writeVoteError(w, ballotID, err)
		return
	}

	middleware.SuccessResponse(w, http.StatusCreated, "Vote submitted successfully", models.SubmitVoteData{
		VoterID:    res.VoterID,
		BallotID:   res.BallotID,
		VotesCount: res.VotesCount,
		ReceiptID:  res.ReceiptID,
	})
}

// writeVoteError maps submission errors to HTTP responses.
func writeVoteError(w http.ResponseWriter, ballotID string, err error) {
	switch {
	case errors.Is(err, voting.ErrValidation):
		middleware.ValidationErrorResponse(w, voting.FieldErrors(err))
	case errors.Is(err, voting.ErrNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "Ballot not found")
	case errors.Is(err, voting.ErrVerificationRequired):
		middleware.ErrorResponse(w, http.StatusForbidden, "Voter verification required")
	case errors.Is(err, voting.ErrAlreadyVoted):
		middleware.ErrorResponse(w, http.StatusConflict, "Voter has already voted on this ballot")
	case errors.Is(err, voting.ErrBallotNotActive):
		middleware.ErrorResponse(w, http.StatusConflict, "Ballot is not active")
	default:
		slog.Error("failed to submit vote", "error", err, "ballot_id", ballotID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to submit vote")
	}
}
