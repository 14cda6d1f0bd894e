// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"errors"
	"fmt"
	"strings"

	"github.com/safeballot/safeballot/models"
)

var (
	ErrNotFound             = errors.New("not found")
	ErrValidation           = errors.New("validation failed")
	ErrInvalidSelection     = fmt.Errorf("%w: invalid selection", ErrValidation)
	ErrVerificationRequired = errors.New("voter verification required")
	ErrAlreadyVoted         = errors.New("voter has already voted on this ballot")
	ErrBallotNotActive      = errors.New("ballot is not active")
	// ErrTransaction marks store failures; nothing from the submission persists.
	ErrTransaction = errors.New("vote transaction failed")
)

// ValidationError lists every malformed field of a submission.
type ValidationError struct {
	Fields []models.FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func (e *ValidationError) add(field, message string) {
	e.Fields = append(e.Fields, models.FieldError{Field: field, Message: message})
}

// SelectionError identifies a selection that does not match the ballot's
// question/choice catalog.
type SelectionError struct {
	Index  int
	Field  string // questionId or choiceId
	Reason string
}

func (e *SelectionError) Error() string {
	return fmt.Sprintf("votes[%d].%s: %s", e.Index, e.Field, e.Reason)
}

func (e *SelectionError) Unwrap() error {
	return ErrInvalidSelection
}

// FieldError renders the selection error for an error response.
func (e *SelectionError) FieldError() models.FieldError {
	return models.FieldError{
		Field:   fmt.Sprintf("votes[%d].%s", e.Index, e.Field),
		Message: e.Reason,
	}
}

// FieldErrors extracts per-field details from a validation failure.
func FieldErrors(err error) []models.FieldError {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Fields
	}
	var serr *SelectionError
	if errors.As(err, &serr) {
		return []models.FieldError{serr.FieldError()}
	}
	return nil
}

// isDomainError reports whether err is a rejection rather than a store failure.
func isDomainError(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrVerificationRequired) ||
		errors.Is(err, ErrAlreadyVoted) ||
		errors.Is(err, ErrBallotNotActive)
}

func transactionError(err error) error {
	if err == nil || isDomainError(err) || errors.Is(err, ErrTransaction) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrTransaction, err)
}
