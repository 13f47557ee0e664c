package storage

import (
	"context"
	"fmt"

	"flashcard_service/internal/models"
)

func (p *PostgresStorage) ListDecks(ctx context.Context) ([]models.Deck, error) {
	const op = "storage.ListDecks"

	decks := []models.Deck{}
	query := fmt.Sprintf("SELECT id, name, description, category, created_at FROM %s ORDER BY id;", decksTable)

	rows, err := p.db.QueryContext(ctx, query)
	if err != nil {
		return decks, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	for rows.Next() {
		var deck models.Deck

		if err := rows.Scan(&deck.ID, &deck.Name, &deck.Description, &deck.Category, &deck.CreatedAt); err != nil {
			return decks, fmt.Errorf("%s: %w", op, err)
		}

		decks = append(decks, deck)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s (rows): %w", op, err)
	}

	return decks, nil
}

func (p *PostgresStorage) GetDeck(ctx context.Context, id int64) (models.Deck, error) {
	const op = "storage.GetDeck"

	var deck models.Deck
	query := fmt.Sprintf("SELECT id, name, description, category, created_at FROM %s WHERE id=$1;", decksTable)

	err := p.db.QueryRowContext(ctx, query, id).Scan(&deck.ID, &deck.Name, &deck.Description, &deck.Category, &deck.CreatedAt)
	if err != nil {
		return deck, fmt.Errorf("%s: %w", op, classify(err))
	}

	return deck, nil
}

func (p *PostgresStorage) CreateDeck(ctx context.Context, deck models.Deck) (int64, error) {
	const op = "storage.CreateDeck"

	var id int64
	query := fmt.Sprintf("INSERT INTO %s(name, description, category) VALUES ($1, $2, $3) RETURNING id;", decksTable)

	if err := p.db.QueryRowContext(ctx, query, deck.Name, deck.Description, deck.Category).Scan(&id); err != nil {
		return 0, fmt.Errorf("%s: %w", op, classify(err))
	}

	return id, nil
}

func (p *PostgresStorage) UpdateDeck(ctx context.Context, deck models.Deck) error {
	const op = "storage.UpdateDeck"

	query := fmt.Sprintf("UPDATE %s SET name=$1, description=$2, category=$3 WHERE id=$4;", decksTable)

	res, err := p.db.ExecContext(ctx, query, deck.Name, deck.Description, deck.Category, deck.ID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, classify(err))
	}

	if err := requireAffected(res); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// DeleteDeck removes the deck; its cards and scores go with it.
func (p *PostgresStorage) DeleteDeck(ctx context.Context, id int64) error {
	const op = "storage.DeleteDeck"

	query := fmt.Sprintf("DELETE FROM %s WHERE id=$1;", decksTable)

	res, err := p.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := requireAffected(res); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
