package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"flashcard_service/internal/models"
	"flashcard_service/internal/storage"
)

type DeckService struct {
	storage storage.Storage
	log     *slog.Logger
}

func NewDeckService(st storage.Storage, log *slog.Logger) *DeckService {
	return &DeckService{
		storage: st,
		log:     log,
	}
}

func (in DeckInput) validate() error {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Category) == "" {
		return fmt.Errorf("%w: name and category are required", ErrValidation)
	}

	return nil
}

func (in DeckInput) deck(id int64) models.Deck {
	return models.Deck{
		ID:          id,
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Category:    strings.TrimSpace(in.Category),
	}
}

func (s *DeckService) ListDecks(ctx context.Context) ([]models.Deck, error) {
	const op = "service.ListDecks"

	decks, err := s.storage.ListDecks(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return decks, nil
}

func (s *DeckService) GetDeck(ctx context.Context, id int64) (models.Deck, error) {
	const op = "service.GetDeck"

	deck, err := s.storage.GetDeck(ctx, id)
	if err != nil {
		return models.Deck{}, fmt.Errorf("%s: %w", op, mapStorageErr(err))
	}

	return deck, nil
}

func (s *DeckService) CreateDeck(ctx context.Context, in DeckInput) (int64, error) {
	const op = "service.CreateDeck"

	if err := in.validate(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	id, err := s.storage.CreateDeck(ctx, in.deck(0))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("deck created", slog.String("op", op), slog.Int64("deck_id", id))

	return id, nil
}

func (s *DeckService) UpdateDeck(ctx context.Context, id int64, in DeckInput) error {
	const op = "service.UpdateDeck"

	if err := in.validate(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.storage.UpdateDeck(ctx, in.deck(id)); err != nil {
		return fmt.Errorf("%s: %w", op, mapStorageErr(err))
	}

	return nil
}

// DeleteDeck removes the deck together with its cards.
func (s *DeckService) DeleteDeck(ctx context.Context, id int64) error {
	const op = "service.DeleteDeck"

	if err := s.storage.DeleteDeck(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, mapStorageErr(err))
	}

	s.log.Info("deck deleted", slog.String("op", op), slog.Int64("deck_id", id))

	return nil
}
