// Package quiz implements the quiz-taking state machine and the registry that
// keeps running quizzes on the server.
//
// An Engine moves through NotStarted -> InProgress -> Summarized. Restart
// goes from Summarized back to the first question; Exit returns to
// NotStarted from anywhere.
package quiz

import (
	"errors"
	"fmt"

	"flashcard_service/internal/models"
)

var (
	ErrEmptyDeck       = errors.New("deck has no cards")
	ErrInvalidState    = errors.New("invalid quiz state")
	ErrInvalidAnswer   = errors.New("invalid answer")
	ErrSessionNotFound = errors.New("quiz session not found")
)

type State int

const (
	StateNotStarted State = iota
	StateInProgress
	StateSummarized
)

func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not_started"
	case StateInProgress:
		return "in_progress"
	case StateSummarized:
		return "summarized"
	}

	return fmt.Sprintf("state(%d)", int(s))
}

type Entry struct {
	QuestionID     int64            `json:"question_id"`
	SelectedAnswer models.OptionKey `json:"selected_answer"`
	IsCorrect      bool             `json:"is_correct"`
	CorrectAnswer  models.OptionKey `json:"correct_answer"`
	Explanation    string           `json:"explanation"`
}

type Summary struct {
	Score          int     `json:"score"`
	Answered       int     `json:"answered"`
	TotalQuestions int     `json:"total_questions"`
	Entries        []Entry `json:"review"`
}

// Engine is not safe for concurrent use.
type Engine struct {
	state  State
	deckID int64
	cards  []models.Card
	index  int
	log    []Entry
}

func NewEngine() *Engine {
	return &Engine{}
}

func (e *Engine) State() State { return e.state }

func (e *Engine) DeckID() int64 { return e.deckID }

// Index is the position of the current question while InProgress.
func (e *Engine) Index() int { return e.index }

func (e *Engine) TotalQuestions() int { return len(e.cards) }

func (e *Engine) Start(deckID int64, cards []models.Card) error {
	const op = "quiz.Start"

	if e.state != StateNotStarted {
		return fmt.Errorf("%s: %w: %s", op, ErrInvalidState, e.state)
	}

	if len(cards) == 0 {
		return fmt.Errorf("%s: %w", op, ErrEmptyDeck)
	}

	e.deckID = deckID
	e.cards = append([]models.Card(nil), cards...)
	e.index = 0
	e.log = nil
	e.state = StateInProgress

	return nil
}

func (e *Engine) Current() (models.Card, error) {
	if e.state != StateInProgress {
		return models.Card{}, fmt.Errorf("quiz.Current: %w: %s", ErrInvalidState, e.state)
	}

	return e.cards[e.index], nil
}

func (e *Engine) SubmitAnswer(selected models.OptionKey) (Entry, error) {
	const op = "quiz.SubmitAnswer"

	if e.state != StateInProgress {
		return Entry{}, fmt.Errorf("%s: %w: %s", op, ErrInvalidState, e.state)
	}

	if !selected.Valid() {
		return Entry{}, fmt.Errorf("%s: %w: %q", op, ErrInvalidAnswer, selected)
	}

	card := e.cards[e.index]
	entry := Entry{
		QuestionID:     card.ID,
		SelectedAnswer: selected,
		IsCorrect:      selected == card.CorrectAnswer,
		CorrectAnswer:  card.CorrectAnswer,
		Explanation:    card.Explanation,
	}
	e.log = append(e.log, entry)

	if e.index == len(e.cards)-1 {
		e.state = StateSummarized
	} else {
		e.index++
	}

	return entry, nil
}

func (e *Engine) Restart() error {
	if e.state != StateSummarized {
		return fmt.Errorf("quiz.Restart: %w: %s", ErrInvalidState, e.state)
	}

	e.log = nil
	e.index = 0
	e.state = StateInProgress

	return nil
}

func (e *Engine) Exit() {
	*e = Engine{}
}

// Summary reports the answers given so far. Once Summarized it is the final
// result of the attempt.
func (e *Engine) Summary() Summary {
	s := Summary{
		Answered:       len(e.log),
		TotalQuestions: len(e.cards),
		Entries:        append([]Entry{}, e.log...),
	}

	for _, entry := range e.log {
		if entry.IsCorrect {
			s.Score++
		}
	}

	return s
}
