package main

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"flashcard_service/internal/auth"
	"flashcard_service/internal/models"
	"flashcard_service/internal/service"
	"flashcard_service/internal/storage/memstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuth(t *testing.T) (*service.AuthService, *memstore.Store) {
	t.Helper()

	tokens, err := auth.NewTokenService("admin-cli-secret", auth.DefaultTokenTTL)
	require.NoError(t, err)

	st := memstore.New()

	return service.NewAuthService(st, tokens, slog.New(slog.NewTextHandler(io.Discard, nil))), st
}

func TestRun_CreateRecreateList(t *testing.T) {
	svc, st := newAuth(t)
	ctx := context.Background()

	require.NoError(t, run(ctx, svc, "create", []string{"-email", "root@example.com", "-password", "pw"}))

	err := run(ctx, svc, "create", []string{"-email", "root@example.com", "-password", "pw"})
	require.ErrorIs(t, err, service.ErrDuplicateEmail)

	require.NoError(t, run(ctx, svc, "recreate", []string{"-email", "root@example.com", "-password", "pw2", "-name", "Root"}))

	user, err := st.GetUserByEmail(ctx, "root@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, user.Role)
	assert.Equal(t, "Root", user.Name)
	assert.True(t, auth.CheckPasswordHash(user.PasswordHash, "pw2"))

	require.NoError(t, run(ctx, svc, "list", nil))
}

func TestRun_Errors(t *testing.T) {
	svc, _ := newAuth(t)
	ctx := context.Background()

	require.ErrorIs(t, run(ctx, svc, "create", []string{"-email", "a@b.co"}), service.ErrValidation)
	require.Error(t, run(ctx, svc, "drop", nil))
}
