// Package seed fills an empty database with decks and cards from a JSON file.
package seed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"flashcard_service/internal/models"
	"flashcard_service/internal/storage"
)

var ErrInvalidSeed = errors.New("invalid seed file")

type CardInput struct {
	Question      string `json:"question"`
	OptionA       string `json:"option_a"`
	OptionB       string `json:"option_b"`
	OptionC       string `json:"option_c"`
	OptionD       string `json:"option_d"`
	CorrectAnswer string `json:"correct_answer"`
	Explanation   string `json:"explanation"`
}

type DeckInput struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Category    string      `json:"category"`
	Cards       []CardInput `json:"cards"`
}

// LoadDecks reads either [ ... ] or { "decks": [ ... ] }.
func LoadDecks(path string) ([]DeckInput, error) {
	const op = "seed.LoadDecks"

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var wrapper struct {
		Decks *[]DeckInput `json:"decks"`
	}
	var decks []DeckInput

	if err := json.Unmarshal(raw, &wrapper); err == nil && wrapper.Decks != nil {
		decks = *wrapper.Decks
	} else if err := json.Unmarshal(raw, &decks); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, ErrInvalidSeed, err)
	}

	if err := validate(decks); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return decks, nil
}

func validate(decks []DeckInput) error {
	seen := make(map[string]bool, len(decks))
	var dups []string

	for _, d := range decks {
		name := strings.TrimSpace(d.Name)
		if name == "" || strings.TrimSpace(d.Category) == "" {
			return fmt.Errorf("%w: deck without name or category", ErrInvalidSeed)
		}

		if seen[name] {
			dups = append(dups, name)
		}
		seen[name] = true

		for i, c := range d.Cards {
			if strings.TrimSpace(c.Question) == "" {
				return fmt.Errorf("%w: deck %q card %d has no question", ErrInvalidSeed, name, i)
			}

			for k, opt := range []string{c.OptionA, c.OptionB, c.OptionC, c.OptionD} {
				if strings.TrimSpace(opt) == "" {
					return fmt.Errorf("%w: deck %q card %d has empty option_%c", ErrInvalidSeed, name, i, 'a'+k)
				}
			}

			if _, err := models.ParseOptionKey(c.CorrectAnswer); err != nil {
				return fmt.Errorf("%w: deck %q card %d: %v", ErrInvalidSeed, name, i, err)
			}
		}
	}

	if len(dups) > 0 {
		return fmt.Errorf("%w: duplicate deck names %v", ErrInvalidSeed, dups)
	}

	return nil
}

// Seed loads path into st when st has no decks yet. It returns the number of
// decks inserted.
func Seed(ctx context.Context, st storage.Storage, path string, log *slog.Logger) (int, error) {
	const op = "seed.Seed"

	log = log.With(slog.String("op", op))

	existing, err := st.ListDecks(ctx)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if len(existing) > 0 {
		log.Debug("decks already present, skipping seed", slog.Int("decks", len(existing)))

		return 0, nil
	}

	decks, err := LoadDecks(path)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if len(decks) == 0 {
		log.Warn("seed file has no decks", slog.String("path", path))

		return 0, nil
	}

	for _, d := range decks {
		deckID, err := st.CreateDeck(ctx, models.Deck{
			Name:        strings.TrimSpace(d.Name),
			Description: d.Description,
			Category:    strings.TrimSpace(d.Category),
		})
		if err != nil {
			return 0, fmt.Errorf("%s: %w", op, err)
		}

		for _, c := range d.Cards {
			_, err := st.CreateCard(ctx, models.Card{
				DeckID:        deckID,
				Question:      c.Question,
				OptionA:       c.OptionA,
				OptionB:       c.OptionB,
				OptionC:       c.OptionC,
				OptionD:       c.OptionD,
				CorrectAnswer: models.OptionKey(c.CorrectAnswer),
				Explanation:   c.Explanation,
			})
			if err != nil {
				return 0, fmt.Errorf("%s: %w", op, err)
			}
		}
	}

	log.Info("seeded decks", slog.String("path", path), slog.Int("decks", len(decks)))

	return len(decks), nil
}
