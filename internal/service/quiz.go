package service

import (
	"context"
	"fmt"
	"log/slog"

	"flashcard_service/internal/models"
	"flashcard_service/internal/quiz"
	"flashcard_service/internal/storage"

	"github.com/gofrs/uuid"
)

type QuizService struct {
	storage  storage.Storage
	registry *quiz.Registry
	log      *slog.Logger
}

func NewQuizService(st storage.Storage, registry *quiz.Registry, log *slog.Logger) *QuizService {
	return &QuizService{
		storage:  st,
		registry: registry,
		log:      log,
	}
}

func (s *QuizService) Start(ctx context.Context, deckID int64, userID *uuid.UUID) (StartResult, error) {
	const op = "service.QuizStart"

	cards, err := s.storage.ListCardsByDeck(ctx, deckID)
	if err != nil {
		return StartResult{}, fmt.Errorf("%s: %w", op, err)
	}

	id, first, err := s.registry.Start(deckID, cards, userID)
	if err != nil {
		return StartResult{}, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Debug("quiz started", slog.String("op", op), slog.String("session_id", id), slog.Int64("deck_id", deckID))

	return StartResult{
		SessionID:      id,
		DeckID:         deckID,
		TotalQuestions: len(cards),
		FirstCard:      first.ForQuiz(),
	}, nil
}

func (s *QuizService) Answer(_ context.Context, sessionID, selected string) (AnswerResult, error) {
	const op = "service.QuizAnswer"

	key, err := parseAnswer(selected)
	if err != nil {
		return AnswerResult{}, fmt.Errorf("%s: %w", op, err)
	}

	res, err := s.registry.Answer(sessionID, key)
	if err != nil {
		return AnswerResult{}, fmt.Errorf("%s: %w", op, err)
	}

	out := AnswerResult{
		IsCorrect:     res.Entry.IsCorrect,
		CorrectAnswer: res.Entry.CorrectAnswer,
		Explanation:   res.Entry.Explanation,
		Finished:      res.Finished,
	}
	if res.Next != nil {
		next := res.Next.ForQuiz()
		out.NextCard = &next
	}

	return out, nil
}

// CheckAnswer scores a single answer against a stored card without a session.
func (s *QuizService) CheckAnswer(ctx context.Context, cardID int64, selected string) (AnswerResult, error) {
	const op = "service.CheckAnswer"

	key, err := parseAnswer(selected)
	if err != nil {
		return AnswerResult{}, fmt.Errorf("%s: %w", op, err)
	}

	card, err := s.storage.GetCard(ctx, cardID)
	if err != nil {
		return AnswerResult{}, fmt.Errorf("%s: %w", op, mapStorageErr(err))
	}

	return AnswerResult{
		IsCorrect:     key == card.CorrectAnswer,
		CorrectAnswer: card.CorrectAnswer,
		Explanation:   card.Explanation,
		Finished:      true,
	}, nil
}

func (s *QuizService) Restart(_ context.Context, sessionID string) (StartResult, error) {
	const op = "service.QuizRestart"

	first, total, err := s.registry.Restart(sessionID)
	if err != nil {
		return StartResult{}, fmt.Errorf("%s: %w", op, err)
	}

	return StartResult{
		SessionID:      sessionID,
		DeckID:         first.DeckID,
		TotalQuestions: total,
		FirstCard:      first.ForQuiz(),
	}, nil
}

func (s *QuizService) Exit(_ context.Context, sessionID string) error {
	if err := s.registry.Exit(sessionID); err != nil {
		return fmt.Errorf("service.QuizExit: %w", err)
	}

	return nil
}

// Submit stores the score of a finished quiz once per attempt. A failed write
// is logged and reported through Saved; the summary is returned either way.
func (s *QuizService) Submit(ctx context.Context, sessionID string) (SubmitResult, error) {
	const op = "service.QuizSubmit"

	log := s.log.With(slog.String("op", op), slog.String("session_id", sessionID))

	res, err := s.registry.BeginSubmit(sessionID)
	if err != nil {
		return SubmitResult{}, fmt.Errorf("%s: %w", op, err)
	}

	if res.Submitted {
		return SubmitResult{Saved: true, Summary: res.Summary}, nil
	}

	_, err = s.storage.SaveScore(ctx, models.Score{
		UserID:         res.UserID,
		DeckID:         res.DeckID,
		Score:          res.Summary.Score,
		TotalQuestions: res.Summary.TotalQuestions,
	})
	if err != nil {
		log.Error("failed to save score", slog.Any("error", err))
		s.registry.AbortSubmit(sessionID, res.Attempt)

		return SubmitResult{Saved: false, Summary: res.Summary}, nil
	}

	if err := s.registry.MarkSubmitted(sessionID, res.Attempt); err != nil {
		log.Warn("session gone after saving score", slog.Any("error", err))
	}

	log.Info("score saved",
		slog.Int64("deck_id", res.DeckID),
		slog.Int("score", res.Summary.Score),
		slog.Int("total_questions", res.Summary.TotalQuestions),
	)

	return SubmitResult{Saved: true, Summary: res.Summary}, nil
}

func parseAnswer(selected string) (models.OptionKey, error) {
	key, err := models.ParseOptionKey(selected)
	if err != nil {
		return "", fmt.Errorf("%w: %w", quiz.ErrInvalidAnswer, err)
	}

	return key, nil
}
