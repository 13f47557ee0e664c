package quiz

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"flashcard_service/internal/models"

	"github.com/gofrs/uuid"
	guuid "github.com/google/uuid"
)

var (
	ErrSubmitInProgress = errors.New("score submission already in progress")
	ErrTooManySessions  = errors.New("too many active quiz sessions")
)

type session struct {
	engine   *Engine
	userID   *uuid.UUID
	lastSeen time.Time

	// attempt counts Restarts; a score write carries the attempt it claimed.
	attempt    int
	submitting bool
	submitted  bool
}

type AnswerResult struct {
	Entry    Entry
	Finished bool
	Next     *models.Card
}

type Result struct {
	DeckID  int64
	UserID  *uuid.UUID
	Summary Summary
	Attempt int

	// Submitted is set once the attempt's score has been stored.
	Submitted bool
}

// Registry holds running quizzes keyed by session id. A session that sees no
// activity for ttl is dropped by Sweep.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*session
	ttl      time.Duration
	max      int
	now      func() time.Time
}

func NewRegistry(ttl time.Duration) *Registry {
	return &Registry{
		sessions: make(map[string]*session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// WithMaxSessions caps the number of live sessions. Zero means no cap.
func (r *Registry) WithMaxSessions(n int) *Registry {
	r.max = n
	return r
}

// WithClock replaces the time source, for tests.
func (r *Registry) WithClock(now func() time.Time) *Registry {
	r.now = now
	return r
}

func (r *Registry) Start(deckID int64, cards []models.Card, userID *uuid.UUID) (string, models.Card, error) {
	const op = "quiz.Registry.Start"

	engine := NewEngine()
	if err := engine.Start(deckID, cards); err != nil {
		return "", models.Card{}, fmt.Errorf("%s: %w", op, err)
	}

	first, err := engine.Current()
	if err != nil {
		return "", models.Card{}, fmt.Errorf("%s: %w", op, err)
	}

	id := guuid.NewString()

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.max > 0 && len(r.sessions) >= r.max && r.sweep() == 0 {
		return "", models.Card{}, fmt.Errorf("%s: %w", op, ErrTooManySessions)
	}

	r.sessions[id] = &session{
		engine:   engine,
		userID:   userID,
		lastSeen: r.now(),
	}

	return id, first, nil
}

// lookup returns a live session; callers hold r.mu.
func (r *Registry) lookup(id string) (*session, error) {
	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}

	now := r.now()
	if now.Sub(s.lastSeen) > r.ttl {
		delete(r.sessions, id)
		return nil, ErrSessionNotFound
	}

	s.lastSeen = now

	return s, nil
}

func (r *Registry) Answer(id string, selected models.OptionKey) (AnswerResult, error) {
	const op = "quiz.Registry.Answer"

	r.mu.Lock()
	defer r.mu.Unlock()

	s, err := r.lookup(id)
	if err != nil {
		return AnswerResult{}, fmt.Errorf("%s: %w", op, err)
	}

	entry, err := s.engine.SubmitAnswer(selected)
	if err != nil {
		return AnswerResult{}, fmt.Errorf("%s: %w", op, err)
	}

	res := AnswerResult{Entry: entry}
	if s.engine.State() == StateSummarized {
		res.Finished = true
		return res, nil
	}

	next, err := s.engine.Current()
	if err != nil {
		return AnswerResult{}, fmt.Errorf("%s: %w", op, err)
	}
	res.Next = &next

	return res, nil
}

// Restart begins a new attempt over the same cards and returns the first card
// and the number of questions.
func (r *Registry) Restart(id string) (models.Card, int, error) {
	const op = "quiz.Registry.Restart"

	r.mu.Lock()
	defer r.mu.Unlock()

	s, err := r.lookup(id)
	if err != nil {
		return models.Card{}, 0, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.engine.Restart(); err != nil {
		return models.Card{}, 0, fmt.Errorf("%s: %w", op, err)
	}
	s.attempt++
	s.submitting = false
	s.submitted = false

	first, err := s.engine.Current()
	if err != nil {
		return models.Card{}, 0, fmt.Errorf("%s: %w", op, err)
	}

	return first, s.engine.TotalQuestions(), nil
}

// Exit discards the session and everything recorded in it.
func (r *Registry) Exit(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, err := r.lookup(id)
	if err != nil {
		return fmt.Errorf("quiz.Registry.Exit: %w", err)
	}

	s.engine.Exit()
	delete(r.sessions, id)

	return nil
}

// BeginSubmit claims the summarized session's current attempt for a score
// write. A claimed attempt must be released with MarkSubmitted or AbortSubmit.
// When the attempt is already stored the result has Submitted set and nothing
// is claimed. The session stays available for Restart.
func (r *Registry) BeginSubmit(id string) (Result, error) {
	const op = "quiz.Registry.BeginSubmit"

	r.mu.Lock()
	defer r.mu.Unlock()

	s, err := r.lookup(id)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", op, err)
	}

	if s.engine.State() != StateSummarized {
		return Result{}, fmt.Errorf("%s: %w: %s", op, ErrInvalidState, s.engine.State())
	}

	if s.submitting {
		return Result{}, fmt.Errorf("%s: %w", op, ErrSubmitInProgress)
	}

	res := Result{
		DeckID:    s.engine.DeckID(),
		UserID:    s.userID,
		Summary:   s.engine.Summary(),
		Attempt:   s.attempt,
		Submitted: s.submitted,
	}

	if !s.submitted {
		s.submitting = true
	}

	return res, nil
}

// MarkSubmitted records that the given attempt's score has been stored. It is
// a no-op when the session has since been restarted.
func (r *Registry) MarkSubmitted(id string, attempt int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, err := r.lookup(id)
	if err != nil {
		return fmt.Errorf("quiz.Registry.MarkSubmitted: %w", err)
	}

	if s.attempt == attempt {
		s.submitting = false
		s.submitted = true
	}

	return nil
}

// AbortSubmit releases the claim taken by BeginSubmit without marking the
// attempt as stored.
func (r *Registry) AbortSubmit(id string, attempt int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if ok && s.attempt == attempt {
		s.submitting = false
	}
}

func (r *Registry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.sweep()
}

// sweep drops expired sessions; callers hold r.mu.
func (r *Registry) sweep() int {
	now := r.now()
	removed := 0

	for id, s := range r.sessions {
		if now.Sub(s.lastSeen) > r.ttl {
			delete(r.sessions, id)
			removed++
		}
	}

	return removed
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.sessions)
}

// Run sweeps expired sessions every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep()
		}
	}
}
