package auth

import (
	"errors"
	"fmt"
	"time"

	"flashcard_service/internal/models"

	"github.com/gofrs/uuid"
	"github.com/golang-jwt/jwt/v5"
)

const DefaultTokenTTL = 24 * time.Hour

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrEmptySecret  = errors.New("empty signing secret")
)

type Claims struct {
	UserID uuid.UUID   `json:"user_id"`
	Role   models.Role `json:"role"`
	Email  string      `json:"email"`
	jwt.RegisteredClaims
}

// Identity is what a token says about its bearer.
type Identity struct {
	UserID uuid.UUID
	Email  string
	Role   models.Role
}

type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(secret string, ttl time.Duration) (*TokenService, error) {
	const op = "auth.NewTokenService"

	if secret == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrEmptySecret)
	}

	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	return &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// WithClock replaces the time source, for tests.
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	s.now = now
	return s
}

func (s *TokenService) Issue(id Identity) (string, error) {
	const op = "auth.Issue"

	issuedAt := s.now()
	claims := &Claims{
		UserID: id.UserID,
		Role:   id.Role,
		Email:  id.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return signed, nil
}

// Verify checks the signature, algorithm and claims of tokenStr. A token is
// accepted up to and including its exp instant and rejected once the clock
// is past it.
func (s *TokenService) Verify(tokenStr string) (*Claims, error) {
	const op = "auth.Verify"

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.verifyTime),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, ErrInvalidToken, err)
	}

	if !token.Valid || claims.UserID == uuid.Nil || !claims.Role.Valid() {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	return claims, nil
}

// verifyTime is the clock handed to the jwt parser, which rejects a token when
// now >= exp.
func (s *TokenService) verifyTime() time.Time {
	return s.now().Add(-time.Nanosecond)
}

func (c *Claims) Identity() Identity {
	return Identity{
		UserID: c.UserID,
		Email:  c.Email,
		Role:   c.Role,
	}
}
