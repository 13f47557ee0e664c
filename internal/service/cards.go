package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"flashcard_service/internal/models"
)

func (in CardInput) card(id, deckID int64) (models.Card, error) {
	fields := []string{in.Question, in.OptionA, in.OptionB, in.OptionC, in.OptionD, in.CorrectAnswer}
	for _, f := range fields {
		if strings.TrimSpace(f) == "" {
			return models.Card{}, fmt.Errorf("%w: question, options and correct_answer are required", ErrValidation)
		}
	}

	correct, err := models.ParseOptionKey(in.CorrectAnswer)
	if err != nil {
		return models.Card{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	return models.Card{
		ID:            id,
		DeckID:        deckID,
		Question:      in.Question,
		OptionA:       in.OptionA,
		OptionB:       in.OptionB,
		OptionC:       in.OptionC,
		OptionD:       in.OptionD,
		CorrectAnswer: correct,
		Explanation:   in.Explanation,
	}, nil
}

// ListCards returns ErrNotFound for a deck without cards.
func (s *DeckService) ListCards(ctx context.Context, deckID int64) ([]models.Card, error) {
	const op = "service.ListCards"

	cards, err := s.storage.ListCardsByDeck(ctx, deckID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if len(cards) == 0 {
		return nil, fmt.Errorf("%s: %w: no cards in deck %d", op, ErrNotFound, deckID)
	}

	return cards, nil
}

func (s *DeckService) GetCard(ctx context.Context, id int64) (models.Card, error) {
	const op = "service.GetCard"

	card, err := s.storage.GetCard(ctx, id)
	if err != nil {
		return models.Card{}, fmt.Errorf("%s: %w", op, mapStorageErr(err))
	}

	return card, nil
}

func (s *DeckService) CreateCard(ctx context.Context, deckID int64, in CardInput) (int64, error) {
	const op = "service.CreateCard"

	card, err := in.card(0, deckID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	id, err := s.storage.CreateCard(ctx, card)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, mapStorageErr(err))
	}

	s.log.Info("card created", slog.String("op", op), slog.Int64("deck_id", deckID), slog.Int64("card_id", id))

	return id, nil
}

func (s *DeckService) UpdateCard(ctx context.Context, id int64, in CardInput) error {
	const op = "service.UpdateCard"

	card, err := in.card(id, 0)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.storage.UpdateCard(ctx, card); err != nil {
		return fmt.Errorf("%s: %w", op, mapStorageErr(err))
	}

	return nil
}

func (s *DeckService) DeleteCard(ctx context.Context, id int64) error {
	const op = "service.DeleteCard"

	if err := s.storage.DeleteCard(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, mapStorageErr(err))
	}

	return nil
}
