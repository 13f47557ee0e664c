package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"flashcard_service/internal/auth"
	"flashcard_service/internal/models"
	"flashcard_service/internal/quiz"
	"flashcard_service/internal/service"
	"flashcard_service/internal/storage/memstore"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	router *gin.Engine
	store  *memstore.Store
	tokens *auth.TokenService
	svc    *service.Services
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	return newTestServerWith(t, quiz.NewRegistry(time.Hour))
}

func newTestServerWith(t *testing.T, registry *quiz.Registry) *testServer {
	t.Helper()

	gin.SetMode(gin.TestMode)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	tokens, err := auth.NewTokenService("handler-test-secret", auth.DefaultTokenTTL)
	require.NoError(t, err)

	st := memstore.New()
	svc := service.NewServices(st, tokens, registry, log)
	h := NewHandler(svc, tokens, st, log)

	return &testServer{
		router: h.InitRoutes([]string{"http://localhost:5173"}),
		store:  st,
		tokens: tokens,
		svc:    svc,
	}
}

func (s *testServer) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}

	req := newRequest(t, method, path, r)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return serve(s, req)
}

func newRequest(t *testing.T, method, path string, body io.Reader) *http.Request {
	t.Helper()

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")

	return req
}

func serve(s *testServer, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())

	return v
}

func message(t *testing.T, w *httptest.ResponseRecorder) string {
	return decode[errorResponse](t, w).Message
}

func (s *testServer) clientToken(t *testing.T) string {
	t.Helper()

	res, err := s.svc.Auth.Register(context.Background(), "Student", "student@example.com", "pw")
	require.NoError(t, err)

	return res.Token
}

func (s *testServer) adminToken(t *testing.T) string {
	t.Helper()

	ctx := context.Background()

	_, err := s.svc.Auth.CreateAdmin(ctx, "Admin", "admin@example.com", "pw", false)
	require.NoError(t, err)

	res, err := s.svc.Auth.Login(ctx, "admin@example.com", "pw", "admin")
	require.NoError(t, err)

	return res.Token
}

// seedDeck creates a deck with one card per answer key.
func (s *testServer) seedDeck(t *testing.T, answers ...models.OptionKey) int64 {
	t.Helper()

	ctx := context.Background()

	deckID, err := s.store.CreateDeck(ctx, models.Deck{Name: "Deck", Category: "general"})
	require.NoError(t, err)

	for _, a := range answers {
		_, err := s.store.CreateCard(ctx, models.Card{
			DeckID:        deckID,
			Question:      "q",
			OptionA:       "a",
			OptionB:       "b",
			OptionC:       "c",
			OptionD:       "d",
			CorrectAnswer: a,
			Explanation:   "why",
		})
		require.NoError(t, err)
	}

	return deckID
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/healthz", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/decks", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Authorization")

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{err: service.ErrValidation, want: http.StatusBadRequest},
		{err: service.ErrDuplicateEmail, want: http.StatusBadRequest},
		{err: service.ErrInvalidCredentials, want: http.StatusUnauthorized},
		{err: service.ErrNotFound, want: http.StatusNotFound},
		{err: quiz.ErrEmptyDeck, want: http.StatusNotFound},
		{err: quiz.ErrSessionNotFound, want: http.StatusNotFound},
		{err: quiz.ErrInvalidState, want: http.StatusBadRequest},
		{err: errors.New("boom"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(errors.Join(errors.New("wrapped"), tt.err)))
		})
	}
}
