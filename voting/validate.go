// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/safeballot/safeballot/auth"
	"github.com/safeballot/safeballot/models"
	"github.com/safeballot/safeballot/store"
)

// Selection is one (question, choice, rank) pick of a submission.
type Selection struct {
	QuestionID string
	ChoiceID   string
	Rank       *int
}

// ParseSelections converts the wire form of a submission's votes, reporting
// every malformed field at once.
func ParseSelections(votes []models.VoteSelectionRequest) ([]Selection, error) {
	verr := &ValidationError{}
	if len(votes) == 0 {
		verr.add("votes", "votes must be a non-empty array")
		return nil, verr
	}

	selections := make([]Selection, 0, len(votes))
	for i, v := range votes {
		sel := Selection{
			QuestionID: strings.TrimSpace(v.QuestionID),
			ChoiceID:   strings.TrimSpace(v.ChoiceID),
		}
		if sel.QuestionID == "" {
			verr.add(fmt.Sprintf("votes[%d].questionId", i), "questionId is required")
		}
		if sel.ChoiceID == "" {
			verr.add(fmt.Sprintf("votes[%d].choiceId", i), "choiceId is required")
		}
		rank, msg := parseRank(v.Rank)
		if msg != "" {
			verr.add(fmt.Sprintf("votes[%d].rank", i), msg)
		}
		sel.Rank = rank
		selections = append(selections, sel)
	}

	if len(verr.Fields) > 0 {
		return nil, verr
	}
	return selections, nil
}

// parseRank accepts a JSON number or a numeric string. A missing or null rank
// is nil. The message is empty when the rank is acceptable.
func parseRank(raw json.RawMessage) (*int, string) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return nil, ""
	}

	text := string(raw)
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, "rank must be numeric"
		}
		text = strings.TrimSpace(s)
	}

	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, "rank must be numeric"
	}
	if f != math.Trunc(f) || f < 1 || f > math.MaxInt32 {
		return nil, "rank must be a positive integer"
	}
	rank := int(f)
	return &rank, ""
}

// validateInput checks everything that needs no store access.
func validateInput(in SubmitVoteInput) error {
	verr := &ValidationError{}
	if strings.TrimSpace(in.BallotID) == "" {
		verr.add("id", "ballot id is required")
	}
	if in.Email != "" {
		if !auth.IsBareEmail(in.Email) {
			verr.add("email", "email must be a valid email address")
		}
	}
	if len(in.Selections) == 0 {
		verr.add("votes", "votes must be a non-empty array")
	}

	type pair struct{ question, choice string }
	seen := make(map[pair]int, len(in.Selections))
	for i, sel := range in.Selections {
		if sel.QuestionID == "" {
			verr.add(fmt.Sprintf("votes[%d].questionId", i), "questionId is required")
		}
		if sel.ChoiceID == "" {
			verr.add(fmt.Sprintf("votes[%d].choiceId", i), "choiceId is required")
		}
		if sel.Rank != nil && *sel.Rank < 1 {
			verr.add(fmt.Sprintf("votes[%d].rank", i), "rank must be a positive integer")
		}
		p := pair{sel.QuestionID, sel.ChoiceID}
		if first, dup := seen[p]; dup {
			verr.add(fmt.Sprintf("votes[%d].choiceId", i), fmt.Sprintf("duplicates votes[%d]", first))
			continue
		}
		seen[p] = i
	}

	if len(verr.Fields) > 0 {
		return verr
	}
	return nil
}

// checkSelections verifies that every question belongs to the catalog's
// ballot and every choice to its question.
func checkSelections(cat *store.Catalog, selections []Selection) error {
	for i, sel := range selections {
		if !cat.HasQuestion(sel.QuestionID) {
			return &SelectionError{Index: i, Field: "questionId", Reason: "question does not belong to this ballot"}
		}
		if !cat.ChoiceBelongs(sel.QuestionID, sel.ChoiceID) {
			return &SelectionError{Index: i, Field: "choiceId", Reason: "choice does not belong to this question"}
		}
	}
	return nil
}
