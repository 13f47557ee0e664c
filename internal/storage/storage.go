package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"flashcard_service/internal/models"
	"flashcard_service/internal/storage/migrations"

	"github.com/gofrs/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

const (
	usersTable        = "users"
	decksTable        = "decks"
	cardsTable        = "cards"
	gameSessionsTable = "game_sessions"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
)

type Storage interface {

	// users and credentials
	CreateUser(ctx context.Context, name, email, passwordHash string, role models.Role) (uuid.UUID, error)
	GetUserByID(ctx context.Context, userID uuid.UUID) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	DeleteUserByEmail(ctx context.Context, email string) error

	// decks
	ListDecks(ctx context.Context) ([]models.Deck, error)
	GetDeck(ctx context.Context, id int64) (models.Deck, error)
	CreateDeck(ctx context.Context, deck models.Deck) (int64, error)
	UpdateDeck(ctx context.Context, deck models.Deck) error
	DeleteDeck(ctx context.Context, id int64) error

	// cards
	ListCardsByDeck(ctx context.Context, deckID int64) ([]models.Card, error)
	GetCard(ctx context.Context, id int64) (models.Card, error)
	CreateCard(ctx context.Context, card models.Card) (int64, error)
	UpdateCard(ctx context.Context, card models.Card) error
	DeleteCard(ctx context.Context, id int64) error

	// quiz results
	SaveScore(ctx context.Context, score models.Score) (int64, error)

	Ping(ctx context.Context) error
	Close()
}

type PostgresStorage struct {
	db   *sql.DB
	pool *pgxpool.Pool
}

// NewPostgresStorage opens a pgx pool and exposes it through database/sql so
// the same connections serve both queries and migrations.
func NewPostgresStorage(ctx context.Context, dbURL string, maxConns int32) (*PostgresStorage, error) {
	const op = "storage.NewPostgresStorage"

	poolCfg, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if maxConns > 0 {
		poolCfg.MaxConns = maxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &PostgresStorage{
		db:   stdlib.OpenDBFromPool(pool),
		pool: pool,
	}, nil
}

// NewWithDB wraps an already opened database handle.
func NewWithDB(db *sql.DB) *PostgresStorage {
	return &PostgresStorage{db: db}
}

func (p *PostgresStorage) RunMigrations(ctx context.Context) error {
	const op = "storage.RunMigrations"

	goose.SetBaseFS(migrations.FS)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := goose.UpContext(ctx, p.db, "."); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (p *PostgresStorage) Ping(ctx context.Context) error {
	const op = "storage.Ping"

	if err := p.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (p *PostgresStorage) Close() {
	_ = p.db.Close()

	if p.pool != nil {
		p.pool.Close()
	}
}

// classify maps driver errors onto the package sentinels.
func classify(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%w: %s", ErrAlreadyExists, pgErr.ConstraintName)
		case pgForeignKeyViolation:
			return fmt.Errorf("%w: %s", ErrNotFound, pgErr.ConstraintName)
		}
	}

	return err
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if n == 0 {
		return ErrNotFound
	}

	return nil
}
