package storage

import (
	"context"
	"fmt"

	"flashcard_service/internal/models"
)

func (p *PostgresStorage) SaveScore(ctx context.Context, score models.Score) (int64, error) {
	const op = "storage.SaveScore"

	var id int64
	query := fmt.Sprintf("INSERT INTO %s(user_id, deck_id, score, total_questions) VALUES ($1, $2, $3, $4) RETURNING id;", gameSessionsTable)

	var userID any
	if score.UserID != nil {
		userID = *score.UserID
	}

	err := p.db.QueryRowContext(ctx, query, userID, score.DeckID, score.Score, score.TotalQuestions).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, classify(err))
	}

	return id, nil
}
