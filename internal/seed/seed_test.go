package seed

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"flashcard_service/internal/models"
	"flashcard_service/internal/storage/memstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const seedArray = `[
  {
    "name": "Geography",
    "description": "Capitals",
    "category": "general",
    "cards": [
      {"question": "Capital of France?", "option_a": "Paris", "option_b": "Rome", "option_c": "Oslo", "option_d": "Bern", "correct_answer": "a", "explanation": "Paris"},
      {"question": "Capital of Italy?", "option_a": "Paris", "option_b": "Rome", "option_c": "Oslo", "option_d": "Bern", "correct_answer": "b"}
    ]
  },
  {"name": "Empty", "category": "misc"}
]`

func writeFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "seed.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLoadDecks_Formats(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "array", content: seedArray},
		{name: "wrapped", content: `{"decks": ` + seedArray + `}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decks, err := LoadDecks(writeFile(t, tt.content))
			require.NoError(t, err)
			require.Len(t, decks, 2)
			assert.Len(t, decks[0].Cards, 2)
			assert.Equal(t, "Geography", decks[0].Name)
		})
	}
}

func TestLoadDecks_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "not json", content: `nope`},
		{name: "duplicate names", content: `[{"name":"A","category":"x"},{"name":"A","category":"y"}]`},
		{name: "missing category", content: `[{"name":"A"}]`},
		{name: "bad answer key", content: `[{"name":"A","category":"x","cards":[{"question":"q","option_a":"1","option_b":"2","option_c":"3","option_d":"4","correct_answer":"E"}]}]`},
		{name: "empty option", content: `[{"name":"A","category":"x","cards":[{"question":"q","option_a":"1","option_b":"","option_c":"3","option_d":"4","correct_answer":"a"}]}]`},
		{name: "blank option", content: `[{"name":"A","category":"x","cards":[{"question":"q","option_a":"1","option_b":"2","option_c":"3","option_d":"  ","correct_answer":"a"}]}]`},
		{name: "missing options", content: `[{"name":"A","category":"x","cards":[{"question":"q","correct_answer":"a"}]}]`},
		{name: "object without decks", content: `{"name":"A","category":"x"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadDecks(writeFile(t, tt.content))
			require.ErrorIs(t, err, ErrInvalidSeed)
		})
	}
}

func TestLoadDecks_EmptyWrapper(t *testing.T) {
	for _, content := range []string{`{"decks": []}`, `[]`} {
		decks, err := LoadDecks(writeFile(t, content))
		require.NoError(t, err, content)
		assert.Empty(t, decks, content)
	}
}

func TestSeed_EmptyFile(t *testing.T) {
	st := memstore.New()
	ctx := context.Background()

	n, err := Seed(ctx, st, writeFile(t, `{"decks": []}`), discard())
	require.NoError(t, err)
	assert.Zero(t, n)

	decks, err := st.ListDecks(ctx)
	require.NoError(t, err)
	assert.Empty(t, decks)
}

func TestLoadDecks_MissingFile(t *testing.T) {
	_, err := LoadDecks(filepath.Join(t.TempDir(), "absent.json"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestSeed(t *testing.T) {
	st := memstore.New()
	ctx := context.Background()
	path := writeFile(t, seedArray)

	n, err := Seed(ctx, st, path, discard())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	decks, err := st.ListDecks(ctx)
	require.NoError(t, err)
	require.Len(t, decks, 2)

	cards, err := st.ListCardsByDeck(ctx, decks[0].ID)
	require.NoError(t, err)
	require.Len(t, cards, 2)
	assert.Equal(t, models.OptionB, cards[1].CorrectAnswer)

	n, err = Seed(ctx, st, path, discard())
	require.NoError(t, err)
	assert.Zero(t, n, "non-empty database is left alone")
}
