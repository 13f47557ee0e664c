package storage

import (
	"context"
	"fmt"

	"flashcard_service/internal/models"

	"github.com/gofrs/uuid"
)

func (p *PostgresStorage) CreateUser(ctx context.Context, name, email, passwordHash string, role models.Role) (uuid.UUID, error) {
	const op = "storage.CreateUser"

	var userID uuid.UUID
	query := fmt.Sprintf("INSERT INTO %s(name, email, password_hash, user_role) VALUES ($1, $2, $3, $4) RETURNING id;", usersTable)

	err := p.db.QueryRowContext(ctx, query, name, email, passwordHash, string(role)).Scan(&userID)
	if err != nil {
		return userID, fmt.Errorf("%s: %w", op, classify(err))
	}

	return userID, nil
}

func (p *PostgresStorage) GetUserByID(ctx context.Context, userID uuid.UUID) (models.User, error) {
	const op = "storage.GetUserByID"

	var user models.User
	query := fmt.Sprintf("SELECT id, name, email, user_role, created_at FROM %s WHERE id=$1;", usersTable)

	err := p.db.QueryRowContext(ctx, query, userID).Scan(&user.ID, &user.Name, &user.Email, &user.Role, &user.CreatedAt)
	if err != nil {
		return user, fmt.Errorf("%s: %w", op, classify(err))
	}

	return user, nil
}

// GetUserByEmail is the only read that returns the password hash.
func (p *PostgresStorage) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	const op = "storage.GetUserByEmail"

	var user models.User
	query := fmt.Sprintf("SELECT id, name, email, password_hash, user_role, created_at FROM %s WHERE email=$1;", usersTable)

	err := p.db.QueryRowContext(ctx, query, email).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.CreatedAt,
	)
	if err != nil {
		return user, fmt.Errorf("%s: %w", op, classify(err))
	}

	return user, nil
}

func (p *PostgresStorage) ListUsers(ctx context.Context) ([]models.User, error) {
	const op = "storage.ListUsers"

	users := []models.User{}
	query := fmt.Sprintf("SELECT id, name, email, user_role, created_at FROM %s ORDER BY created_at;", usersTable)

	rows, err := p.db.QueryContext(ctx, query)
	if err != nil {
		return users, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	for rows.Next() {
		var user models.User

		err := rows.Scan(&user.ID, &user.Name, &user.Email, &user.Role, &user.CreatedAt)
		if err != nil {
			return users, fmt.Errorf("%s: %w", op, err)
		}

		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s (rows): %w", op, err)
	}

	return users, nil
}

func (p *PostgresStorage) DeleteUserByEmail(ctx context.Context, email string) error {
	const op = "storage.DeleteUserByEmail"

	query := fmt.Sprintf("DELETE FROM %s WHERE email=$1;", usersTable)

	res, err := p.db.ExecContext(ctx, query, email)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := requireAffected(res); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
