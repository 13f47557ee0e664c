package service

import (
	"context"
	"errors"
	"log/slog"

	"flashcard_service/internal/auth"
	"flashcard_service/internal/models"
	"flashcard_service/internal/quiz"
	"flashcard_service/internal/storage"

	"github.com/gofrs/uuid"
)

var (
	ErrValidation         = errors.New("validation error")
	ErrNotFound           = errors.New("not found")
	ErrDuplicateEmail     = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type Auth interface {
	Register(ctx context.Context, name, email, password string) (AuthResult, error)
	Login(ctx context.Context, email, password, userType string) (AuthResult, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (models.PublicUser, error)
	ListUsers(ctx context.Context) ([]models.PublicUser, error)
	CreateAdmin(ctx context.Context, name, email, password string, recreate bool) (models.PublicUser, error)
}

type Decks interface {
	ListDecks(ctx context.Context) ([]models.Deck, error)
	GetDeck(ctx context.Context, id int64) (models.Deck, error)
	CreateDeck(ctx context.Context, in DeckInput) (int64, error)
	UpdateDeck(ctx context.Context, id int64, in DeckInput) error
	DeleteDeck(ctx context.Context, id int64) error

	ListCards(ctx context.Context, deckID int64) ([]models.Card, error)
	GetCard(ctx context.Context, id int64) (models.Card, error)
	CreateCard(ctx context.Context, deckID int64, in CardInput) (int64, error)
	UpdateCard(ctx context.Context, id int64, in CardInput) error
	DeleteCard(ctx context.Context, id int64) error
}

type Quiz interface {
	Start(ctx context.Context, deckID int64, userID *uuid.UUID) (StartResult, error)
	Answer(ctx context.Context, sessionID, selected string) (AnswerResult, error)
	CheckAnswer(ctx context.Context, cardID int64, selected string) (AnswerResult, error)
	Restart(ctx context.Context, sessionID string) (StartResult, error)
	Exit(ctx context.Context, sessionID string) error
	Submit(ctx context.Context, sessionID string) (SubmitResult, error)
}

type Services struct {
	Auth  Auth
	Decks Decks
	Quiz  Quiz
}

func NewServices(st storage.Storage, tokens *auth.TokenService, registry *quiz.Registry, log *slog.Logger) *Services {
	return &Services{
		Auth:  NewAuthService(st, tokens, log),
		Decks: NewDeckService(st, log),
		Quiz:  NewQuizService(st, registry, log),
	}
}

type AuthResult struct {
	Token string            `json:"token"`
	User  models.PublicUser `json:"user"`
}

type DeckInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

type CardInput struct {
	Question      string `json:"question"`
	OptionA       string `json:"option_a"`
	OptionB       string `json:"option_b"`
	OptionC       string `json:"option_c"`
	OptionD       string `json:"option_d"`
	CorrectAnswer string `json:"correct_answer"`
	Explanation   string `json:"explanation"`
}

type StartResult struct {
	SessionID      string          `json:"session_id"`
	DeckID         int64           `json:"deck_id"`
	TotalQuestions int             `json:"total_questions"`
	FirstCard      models.QuizCard `json:"first_card"`
}

type AnswerResult struct {
	IsCorrect     bool             `json:"is_correct"`
	CorrectAnswer models.OptionKey `json:"correct_answer"`
	Explanation   string           `json:"explanation"`
	Finished      bool             `json:"finished"`
	NextCard      *models.QuizCard `json:"next_card,omitempty"`
}

type SubmitResult struct {
	Saved bool `json:"saved"`
	quiz.Summary
}
