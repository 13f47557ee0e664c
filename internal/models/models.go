package models

import (
	"time"

	"github.com/gofrs/uuid"
)

type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// PublicUser is the only user shape that leaves the service.
type PublicUser struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Role  Role      `json:"role"`
}

func (u User) Public() PublicUser {
	return PublicUser{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	}
}

type Deck struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	CreatedAt   time.Time `json:"created_at"`
}

type Card struct {
	ID            int64     `json:"id"`
	DeckID        int64     `json:"deck_id"`
	Question      string    `json:"question"`
	OptionA       string    `json:"option_a"`
	OptionB       string    `json:"option_b"`
	OptionC       string    `json:"option_c"`
	OptionD       string    `json:"option_d"`
	CorrectAnswer OptionKey `json:"correct_answer"`
	Explanation   string    `json:"explanation"`
}

// QuizCard is a card as shown to a quiz taker: no answer, no explanation.
type QuizCard struct {
	ID       int64  `json:"id"`
	DeckID   int64  `json:"deck_id"`
	Question string `json:"question"`
	OptionA  string `json:"option_a"`
	OptionB  string `json:"option_b"`
	OptionC  string `json:"option_c"`
	OptionD  string `json:"option_d"`
}

func (c Card) ForQuiz() QuizCard {
	return QuizCard{
		ID:       c.ID,
		DeckID:   c.DeckID,
		Question: c.Question,
		OptionA:  c.OptionA,
		OptionB:  c.OptionB,
		OptionC:  c.OptionC,
		OptionD:  c.OptionD,
	}
}

// Score is the aggregate result of one finished quiz, stored in game_sessions.
type Score struct {
	ID             int64      `json:"id"`
	UserID         *uuid.UUID `json:"user_id,omitempty"`
	DeckID         int64      `json:"deck_id"`
	Score          int        `json:"score"`
	TotalQuestions int        `json:"total_questions"`
	CreatedAt      time.Time  `json:"created_at"`
}
