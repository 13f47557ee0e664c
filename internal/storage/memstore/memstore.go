// Package memstore is an in-memory storage.Storage used as a test double
// for the service and handler layers.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"flashcard_service/internal/models"
	"flashcard_service/internal/storage"

	"github.com/gofrs/uuid"
)

type Store struct {
	mu sync.Mutex

	users  map[uuid.UUID]models.User
	decks  map[int64]models.Deck
	cards  map[int64]models.Card
	scores []models.Score

	nextDeckID  int64
	nextCardID  int64
	nextScoreID int64

	// SaveScoreErr, when set, is returned by SaveScore.
	SaveScoreErr error
}

var _ storage.Storage = (*Store)(nil)

func New() *Store {
	return &Store{
		users: make(map[uuid.UUID]models.User),
		decks: make(map[int64]models.Deck),
		cards: make(map[int64]models.Card),
	}
}

func (s *Store) CreateUser(_ context.Context, name, email, passwordHash string, role models.Role) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email {
			return uuid.Nil, fmt.Errorf("memstore.CreateUser: %w", storage.ErrAlreadyExists)
		}
	}

	id, err := uuid.NewV4()
	if err != nil {
		return uuid.Nil, err
	}

	s.users[id] = models.User{
		ID:           id,
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}

	return id, nil
}

func (s *Store) GetUserByID(_ context.Context, userID uuid.UUID) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return models.User{}, fmt.Errorf("memstore.GetUserByID: %w", storage.ErrNotFound)
	}

	u.PasswordHash = ""

	return u, nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}

	return models.User{}, fmt.Errorf("memstore.GetUserByEmail: %w", storage.ErrNotFound)
}

func (s *Store) ListUsers(_ context.Context) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		u.PasswordHash = ""
		users = append(users, u)
	}

	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.Before(users[j].CreatedAt) })

	return users, nil
}

func (s *Store) DeleteUserByEmail(_ context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, u := range s.users {
		if u.Email == email {
			delete(s.users, id)
			return nil
		}
	}

	return fmt.Errorf("memstore.DeleteUserByEmail: %w", storage.ErrNotFound)
}

func (s *Store) ListDecks(_ context.Context) ([]models.Deck, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	decks := make([]models.Deck, 0, len(s.decks))
	for _, d := range s.decks {
		decks = append(decks, d)
	}

	sort.Slice(decks, func(i, j int) bool { return decks[i].ID < decks[j].ID })

	return decks, nil
}

func (s *Store) GetDeck(_ context.Context, id int64) (models.Deck, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.decks[id]
	if !ok {
		return models.Deck{}, fmt.Errorf("memstore.GetDeck: %w", storage.ErrNotFound)
	}

	return d, nil
}

func (s *Store) CreateDeck(_ context.Context, deck models.Deck) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextDeckID++
	deck.ID = s.nextDeckID
	deck.CreatedAt = time.Now().UTC()
	s.decks[deck.ID] = deck

	return deck.ID, nil
}

func (s *Store) UpdateDeck(_ context.Context, deck models.Deck) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.decks[deck.ID]
	if !ok {
		return fmt.Errorf("memstore.UpdateDeck: %w", storage.ErrNotFound)
	}

	deck.CreatedAt = old.CreatedAt
	s.decks[deck.ID] = deck

	return nil
}

func (s *Store) DeleteDeck(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.decks[id]; !ok {
		return fmt.Errorf("memstore.DeleteDeck: %w", storage.ErrNotFound)
	}

	delete(s.decks, id)

	for cid, c := range s.cards {
		if c.DeckID == id {
			delete(s.cards, cid)
		}
	}

	return nil
}

func (s *Store) ListCardsByDeck(_ context.Context, deckID int64) ([]models.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cards := []models.Card{}
	for _, c := range s.cards {
		if c.DeckID == deckID {
			cards = append(cards, c)
		}
	}

	sort.Slice(cards, func(i, j int) bool { return cards[i].ID < cards[j].ID })

	return cards, nil
}

func (s *Store) GetCard(_ context.Context, id int64) (models.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.cards[id]
	if !ok {
		return models.Card{}, fmt.Errorf("memstore.GetCard: %w", storage.ErrNotFound)
	}

	return c, nil
}

func (s *Store) CreateCard(_ context.Context, card models.Card) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.decks[card.DeckID]; !ok {
		return 0, fmt.Errorf("memstore.CreateCard: %w", storage.ErrNotFound)
	}

	s.nextCardID++
	card.ID = s.nextCardID
	s.cards[card.ID] = card

	return card.ID, nil
}

func (s *Store) UpdateCard(_ context.Context, card models.Card) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.cards[card.ID]
	if !ok {
		return fmt.Errorf("memstore.UpdateCard: %w", storage.ErrNotFound)
	}

	card.DeckID = old.DeckID
	s.cards[card.ID] = card

	return nil
}

func (s *Store) DeleteCard(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.cards[id]; !ok {
		return fmt.Errorf("memstore.DeleteCard: %w", storage.ErrNotFound)
	}

	delete(s.cards, id)

	return nil
}

func (s *Store) SaveScore(_ context.Context, score models.Score) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.SaveScoreErr != nil {
		return 0, s.SaveScoreErr
	}

	s.nextScoreID++
	score.ID = s.nextScoreID
	score.CreatedAt = time.Now().UTC()
	s.scores = append(s.scores, score)

	return score.ID, nil
}

// Scores returns a copy of every saved score.
func (s *Store) Scores() []models.Score {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]models.Score(nil), s.scores...)
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Close() {}
