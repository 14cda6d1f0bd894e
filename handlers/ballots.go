// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/safeballot/safeballot/middleware"
	"github.com/safeballot/safeballot/voting"
)

type BallotHandler struct {
	service *voting.Service
}

func NewBallotHandler(service *voting.Service) *BallotHandler {
	return &BallotHandler{service: service}
}

// GetBallot handles GET /api/ballots/:id
// Returns the ballot, its counters and its question/choice catalog.
func (h *BallotHandler) GetBallot(w http.ResponseWriter, r *http.Request) {
	ballotID := r.PathValue("id")
	if ballotID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "id is required")
		return
	}

	ballot, err := h.service.GetBallot(r.Context(), ballotID)
	if errors.Is(err, voting.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Ballot not found")
		return
	}
	if err != nil {
		slog.Error("failed to load ballot", "error", err, "ballot_id", ballotID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.SuccessResponse(w, http.StatusOK, "", ballot)
}
