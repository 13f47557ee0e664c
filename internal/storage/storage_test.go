package storage

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"flashcard_service/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofrs/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStorageWithMock(t *testing.T) (*PostgresStorage, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})

	return NewWithDB(db), mock
}

func q(s string) string { return regexp.QuoteMeta(s) }

func TestCreateUser_Success(t *testing.T) {
	st, mock := newStorageWithMock(t)
	id := uuid.Must(uuid.NewV4())

	mock.ExpectQuery(q("INSERT INTO users(name, email, password_hash, user_role) VALUES ($1, $2, $3, $4) RETURNING id;")).
		WithArgs("Ann", "ann@example.com", "hash", "client").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(id.String()))

	got, err := st.CreateUser(context.Background(), "Ann", "ann@example.com", "hash", models.RoleClient)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	st, mock := newStorageWithMock(t)

	mock.ExpectQuery(q("INSERT INTO users")).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	_, err := st.CreateUser(context.Background(), "Ann", "ann@example.com", "hash", models.RoleClient)
	require.ErrorIs(t, err, ErrAlreadyExists)
	assert.Contains(t, err.Error(), "storage.CreateUser")
}

func TestGetUserByEmail_Found(t *testing.T) {
	st, mock := newStorageWithMock(t)
	id := uuid.Must(uuid.NewV4())
	created := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(q("SELECT id, name, email, password_hash, user_role, created_at FROM users WHERE email=$1;")).
		WithArgs("ann@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "password_hash", "user_role", "created_at"}).
			AddRow(id.String(), "Ann", "ann@example.com", "hash", "admin", created))

	user, err := st.GetUserByEmail(context.Background(), "ann@example.com")
	require.NoError(t, err)
	assert.Equal(t, id, user.ID)
	assert.Equal(t, "hash", user.PasswordHash)
	assert.Equal(t, models.RoleAdmin, user.Role)
	assert.Equal(t, created, user.CreatedAt)
}

func TestGetUserByEmail_NotFound(t *testing.T) {
	st, mock := newStorageWithMock(t)

	mock.ExpectQuery(q("FROM users WHERE email=$1")).
		WithArgs("nobody@example.com").
		WillReturnError(sql.ErrNoRows)

	_, err := st.GetUserByEmail(context.Background(), "nobody@example.com")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestGetUserByID_DoesNotSelectPasswordHash(t *testing.T) {
	st, mock := newStorageWithMock(t)
	id := uuid.Must(uuid.NewV4())

	mock.ExpectQuery(q("SELECT id, name, email, user_role, created_at FROM users WHERE id=$1;")).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "user_role", "created_at"}).
			AddRow(id.String(), "Ann", "ann@example.com", "client", time.Now()))

	user, err := st.GetUserByID(context.Background(), id)
	require.NoError(t, err)
	assert.Empty(t, user.PasswordHash)
	assert.Equal(t, "Ann", user.Name)
}

func TestListUsers(t *testing.T) {
	st, mock := newStorageWithMock(t)

	mock.ExpectQuery(q("SELECT id, name, email, user_role, created_at FROM users ORDER BY created_at;")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "user_role", "created_at"}).
			AddRow(uuid.Must(uuid.NewV4()).String(), "Admin", "admin@example.com", "admin", time.Now()).
			AddRow(uuid.Must(uuid.NewV4()).String(), "Ann", "ann@example.com", "client", time.Now()))

	users, err := st.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, models.RoleAdmin, users[0].Role)
}

func TestDeleteUserByEmail_NotFound(t *testing.T) {
	st, mock := newStorageWithMock(t)

	mock.ExpectExec(q("DELETE FROM users WHERE email=$1;")).
		WithArgs("admin@example.com").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := st.DeleteUserByEmail(context.Background(), "admin@example.com")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestListDecks(t *testing.T) {
	st, mock := newStorageWithMock(t)

	mock.ExpectQuery(q("SELECT id, name, description, category, created_at FROM decks ORDER BY id;")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "category", "created_at"}).
			AddRow(int64(1), "Go", "basics", "programming", time.Now()).
			AddRow(int64(2), "SQL", "", "databases", time.Now()))

	decks, err := st.ListDecks(context.Background())
	require.NoError(t, err)
	require.Len(t, decks, 2)
	assert.Equal(t, "SQL", decks[1].Name)
}

func TestListDecks_Empty(t *testing.T) {
	st, mock := newStorageWithMock(t)

	mock.ExpectQuery(q("FROM decks ORDER BY id")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "category", "created_at"}))

	decks, err := st.ListDecks(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, decks)
	assert.Empty(t, decks)
}

func TestCreateDeck(t *testing.T) {
	st, mock := newStorageWithMock(t)

	mock.ExpectQuery(q("INSERT INTO decks(name, description, category) VALUES ($1, $2, $3) RETURNING id;")).
		WithArgs("Go", "basics", "programming").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

	id, err := st.CreateDeck(context.Background(), models.Deck{Name: "Go", Description: "basics", Category: "programming"})
	require.NoError(t, err)
	assert.EqualValues(t, 7, id)
}

func TestUpdateDeck_NotFound(t *testing.T) {
	st, mock := newStorageWithMock(t)

	mock.ExpectExec(q("UPDATE decks SET name=$1, description=$2, category=$3 WHERE id=$4;")).
		WithArgs("Go", "", "programming", int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := st.UpdateDeck(context.Background(), models.Deck{ID: 99, Name: "Go", Category: "programming"})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteDeck(t *testing.T) {
	st, mock := newStorageWithMock(t)

	mock.ExpectExec(q("DELETE FROM decks WHERE id=$1;")).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, st.DeleteDeck(context.Background(), 3))
}

func cardRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "deck_id", "question", "option_a", "option_b", "option_c", "option_d", "correct_answer", "explanation",
	})
}

func TestListCardsByDeck(t *testing.T) {
	st, mock := newStorageWithMock(t)

	mock.ExpectQuery(q("SELECT " + cardColumns + " FROM cards WHERE deck_id=$1 ORDER BY id;")).
		WithArgs(int64(1)).
		WillReturnRows(cardRows().
			AddRow(int64(10), int64(1), "2+2?", "3", "4", "5", "6", "b", "basic math").
			AddRow(int64(11), int64(1), "3+3?", "6", "7", "8", "9", "a", ""))

	cards, err := st.ListCardsByDeck(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, cards, 2)
	assert.Equal(t, models.OptionB, cards[0].CorrectAnswer)
	assert.Equal(t, "basic math", cards[0].Explanation)
}

func TestGetCard_NotFound(t *testing.T) {
	st, mock := newStorageWithMock(t)

	mock.ExpectQuery(q("FROM cards WHERE id=$1;")).
		WithArgs(int64(5)).
		WillReturnError(sql.ErrNoRows)

	_, err := st.GetCard(context.Background(), 5)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCreateCard_UnknownDeck(t *testing.T) {
	st, mock := newStorageWithMock(t)

	mock.ExpectQuery(q("INSERT INTO cards")).
		WithArgs(int64(42), "Q", "a1", "b1", "c1", "d1", "c", "").
		WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "cards_deck_id_fkey"})

	_, err := st.CreateCard(context.Background(), models.Card{
		DeckID: 42, Question: "Q", OptionA: "a1", OptionB: "b1", OptionC: "c1", OptionD: "d1", CorrectAnswer: models.OptionC,
	})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateCard(t *testing.T) {
	st, mock := newStorageWithMock(t)

	mock.ExpectExec(q("UPDATE cards")).
		WithArgs("Q", "a1", "b1", "c1", "d1", "d", "why", int64(8)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := st.UpdateCard(context.Background(), models.Card{
		ID: 8, Question: "Q", OptionA: "a1", OptionB: "b1", OptionC: "c1", OptionD: "d1", CorrectAnswer: models.OptionD, Explanation: "why",
	})
	require.NoError(t, err)
}

func TestDeleteCard_DBError(t *testing.T) {
	st, mock := newStorageWithMock(t)

	mock.ExpectExec(q("DELETE FROM cards WHERE id=$1;")).
		WithArgs(int64(8)).
		WillReturnError(errors.New("db down"))

	err := st.DeleteCard(context.Background(), 8)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "db down")
}

func TestSaveScore_Anonymous(t *testing.T) {
	st, mock := newStorageWithMock(t)

	mock.ExpectQuery(q("INSERT INTO game_sessions(user_id, deck_id, score, total_questions) VALUES ($1, $2, $3, $4) RETURNING id;")).
		WithArgs(nil, int64(1), 2, 3).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))

	id, err := st.SaveScore(context.Background(), models.Score{DeckID: 1, Score: 2, TotalQuestions: 3})
	require.NoError(t, err)
	assert.EqualValues(t, 1, id)
}

func TestSaveScore_WithUser(t *testing.T) {
	st, mock := newStorageWithMock(t)
	userID := uuid.Must(uuid.NewV4())

	mock.ExpectQuery(q("INSERT INTO game_sessions")).
		WithArgs(userID, int64(1), 3, 3).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(2)))

	_, err := st.SaveScore(context.Background(), models.Score{UserID: &userID, DeckID: 1, Score: 3, TotalQuestions: 3})
	require.NoError(t, err)
}
