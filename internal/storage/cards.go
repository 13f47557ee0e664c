package storage

import (
	"context"
	"fmt"

	"flashcard_service/internal/models"
)

const cardColumns = "id, deck_id, question, option_a, option_b, option_c, option_d, correct_answer, explanation"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCard(row rowScanner, card *models.Card) error {
	return row.Scan(
		&card.ID,
		&card.DeckID,
		&card.Question,
		&card.OptionA,
		&card.OptionB,
		&card.OptionC,
		&card.OptionD,
		&card.CorrectAnswer,
		&card.Explanation,
	)
}

// ListCardsByDeck returns the cards of a deck in creation order, which is
// also the order questions are asked in.
func (p *PostgresStorage) ListCardsByDeck(ctx context.Context, deckID int64) ([]models.Card, error) {
	const op = "storage.ListCardsByDeck"

	cards := []models.Card{}
	query := fmt.Sprintf("SELECT %s FROM %s WHERE deck_id=$1 ORDER BY id;", cardColumns, cardsTable)

	rows, err := p.db.QueryContext(ctx, query, deckID)
	if err != nil {
		return cards, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	for rows.Next() {
		var card models.Card

		if err := scanCard(rows, &card); err != nil {
			return cards, fmt.Errorf("%s: %w", op, err)
		}

		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s (rows): %w", op, err)
	}

	return cards, nil
}

func (p *PostgresStorage) GetCard(ctx context.Context, id int64) (models.Card, error) {
	const op = "storage.GetCard"

	var card models.Card
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id=$1;", cardColumns, cardsTable)

	if err := scanCard(p.db.QueryRowContext(ctx, query, id), &card); err != nil {
		return card, fmt.Errorf("%s: %w", op, classify(err))
	}

	return card, nil
}

func (p *PostgresStorage) CreateCard(ctx context.Context, card models.Card) (int64, error) {
	const op = "storage.CreateCard"

	var id int64
	query := fmt.Sprintf(`INSERT INTO %s(deck_id, question, option_a, option_b, option_c, option_d, correct_answer, explanation)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id;`, cardsTable)

	err := p.db.QueryRowContext(ctx, query,
		card.DeckID,
		card.Question,
		card.OptionA,
		card.OptionB,
		card.OptionC,
		card.OptionD,
		string(card.CorrectAnswer),
		card.Explanation,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, classify(err))
	}

	return id, nil
}

func (p *PostgresStorage) UpdateCard(ctx context.Context, card models.Card) error {
	const op = "storage.UpdateCard"

	query := fmt.Sprintf(`UPDATE %s
	SET question=$1, option_a=$2, option_b=$3, option_c=$4, option_d=$5, correct_answer=$6, explanation=$7
	WHERE id=$8;`, cardsTable)

	res, err := p.db.ExecContext(ctx, query,
		card.Question,
		card.OptionA,
		card.OptionB,
		card.OptionC,
		card.OptionD,
		string(card.CorrectAnswer),
		card.Explanation,
		card.ID,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, classify(err))
	}

	if err := requireAffected(res); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (p *PostgresStorage) DeleteCard(ctx context.Context, id int64) error {
	const op = "storage.DeleteCard"

	query := fmt.Sprintf("DELETE FROM %s WHERE id=$1;", cardsTable)

	res, err := p.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := requireAffected(res); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
