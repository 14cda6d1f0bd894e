// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"fmt"

	"github.com/safeballot/safeballot/models"
)

// Catalog is the question/choice schema of one ballot.
type Catalog struct {
	BallotID  string
	questions map[string]struct{}
	choices   map[string]string // choice_id -> question_id
}

// HasQuestion reports whether questionID belongs to the catalog's ballot.
func (c *Catalog) HasQuestion(questionID string) bool {
	_, ok := c.questions[questionID]
	return ok
}

// ChoiceBelongs reports whether choiceID is an option of questionID.
func (c *Catalog) ChoiceBelongs(questionID, choiceID string) bool {
	owner, ok := c.choices[choiceID]
	return ok && owner == questionID
}

// LoadCatalog reads every question and choice of a ballot.
func (q *Queries) LoadCatalog(ctx context.Context, ballotID string) (*Catalog, error) {
	cat := &Catalog{
		BallotID:  ballotID,
		questions: make(map[string]struct{}),
		choices:   make(map[string]string),
	}

	questions, err := q.listQuestions(ctx, ballotID)
	if err != nil {
		return nil, err
	}
	for _, qu := range questions {
		cat.questions[qu.ID] = struct{}{}
	}

	choices, err := q.listChoices(ctx, ballotID)
	if err != nil {
		return nil, err
	}
	for _, ch := range choices {
		cat.choices[ch.ID] = ch.QuestionID
	}

	return cat, nil
}

// GetBallotWithQuestions returns a ballot with its ordered questions and choices.
func (q *Queries) GetBallotWithQuestions(ctx context.Context, ballotID string) (models.BallotWithQuestions, error) {
	ballot, err := q.GetBallot(ctx, ballotID)
	if err != nil {
		return models.BallotWithQuestions{}, err
	}

	questions, err := q.listQuestions(ctx, ballotID)
	if err != nil {
		return models.BallotWithQuestions{}, err
	}
	choices, err := q.listChoices(ctx, ballotID)
	if err != nil {
		return models.BallotWithQuestions{}, err
	}

	index := make(map[string]int, len(questions))
	for i := range questions {
		index[questions[i].ID] = i
	}
	for _, ch := range choices {
		if i, ok := index[ch.QuestionID]; ok {
			questions[i].Choices = append(questions[i].Choices, ch)
		}
	}

	return models.BallotWithQuestions{Ballot: ballot, Questions: questions}, nil
}

func (q *Queries) listQuestions(ctx context.Context, ballotID string) ([]models.Question, error) {
	rows, err := q.q.QueryContext(ctx, `
		SELECT id, ballot_id, text, type, position
		FROM question
		WHERE ballot_id = $1
		ORDER BY position, id
	`, ballotID)
	if err != nil {
		return nil, fmt.Errorf("failed to query questions: %w", err)
	}
	defer rows.Close()

	questions := []models.Question{}
	for rows.Next() {
		qu := models.Question{Choices: []models.Choice{}}
		if err := rows.Scan(&qu.ID, &qu.BallotID, &qu.Text, &qu.Type, &qu.Position); err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		questions = append(questions, qu)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read questions: %w", err)
	}
	return questions, nil
}

func (q *Queries) listChoices(ctx context.Context, ballotID string) ([]models.Choice, error) {
	rows, err := q.q.QueryContext(ctx, `
		SELECT c.id, c.question_id, c.text, c.position
		FROM choice c
		JOIN question q ON q.id = c.question_id
		WHERE q.ballot_id = $1
		ORDER BY c.position, c.id
	`, ballotID)
	if err != nil {
		return nil, fmt.Errorf("failed to query choices: %w", err)
	}
	defer rows.Close()

	var choices []models.Choice
	for rows.Next() {
		var ch models.Choice
		if err := rows.Scan(&ch.ID, &ch.QuestionID, &ch.Text, &ch.Position); err != nil {
			return nil, fmt.Errorf("failed to scan choice: %w", err)
		}
		choices = append(choices, ch)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read choices: %w", err)
	}
	return choices, nil
}
