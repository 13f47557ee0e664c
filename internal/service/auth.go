package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"flashcard_service/internal/auth"
	"flashcard_service/internal/models"
	"flashcard_service/internal/storage"

	"github.com/gofrs/uuid"
)

type AuthService struct {
	storage storage.Storage
	tokens  *auth.TokenService
	log     *slog.Logger
}

func NewAuthService(st storage.Storage, tokens *auth.TokenService, log *slog.Logger) *AuthService {
	return &AuthService{
		storage: st,
		tokens:  tokens,
		log:     log,
	}
}

// Register creates a client account and logs it in.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (AuthResult, error) {
	const op = "service.Register"

	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)

	if name == "" || email == "" || password == "" {
		return AuthResult{}, fmt.Errorf("%s: %w: name, email and password are required", op, ErrValidation)
	}

	passwordHash, err := hashPassword(password)
	if err != nil {
		return AuthResult{}, fmt.Errorf("%s: %w", op, err)
	}

	user, err := s.createUser(ctx, name, email, passwordHash, models.RoleClient)
	if err != nil {
		return AuthResult{}, fmt.Errorf("%s: %w", op, err)
	}

	token, err := s.issue(user)
	if err != nil {
		return AuthResult{}, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("user registered", slog.String("op", op), slog.Any("user_id", user.ID))

	return AuthResult{Token: token, User: user.Public()}, nil
}

// Login checks the credentials and issues a token carrying the stored role.
// Unknown email, role mismatch and wrong password are indistinguishable to
// the caller.
func (s *AuthService) Login(ctx context.Context, email, password, userType string) (AuthResult, error) {
	const op = "service.Login"

	log := s.log.With(slog.String("op", op))

	user, err := s.storage.GetUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			auth.BurnPasswordCheck(password)
			log.Debug("login for unknown email")

			return AuthResult{}, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}

		return AuthResult{}, fmt.Errorf("%s: %w", op, err)
	}

	if ok := auth.CheckPasswordHash(user.PasswordHash, password); !ok {
		log.Debug("wrong password", slog.Any("user_id", user.ID))

		return AuthResult{}, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	if userType != "" && models.Role(userType) != user.Role {
		log.Debug("role mismatch", slog.Any("user_id", user.ID), slog.String("user_type", userType))

		return AuthResult{}, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	token, err := s.issue(user)
	if err != nil {
		return AuthResult{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("user logged in", slog.Any("user_id", user.ID))

	return AuthResult{Token: token, User: user.Public()}, nil
}

func (s *AuthService) GetProfile(ctx context.Context, userID uuid.UUID) (models.PublicUser, error) {
	const op = "service.GetProfile"

	user, err := s.storage.GetUserByID(ctx, userID)
	if err != nil {
		return models.PublicUser{}, fmt.Errorf("%s: %w", op, mapStorageErr(err))
	}

	return user.Public(), nil
}

func (s *AuthService) ListUsers(ctx context.Context) ([]models.PublicUser, error) {
	const op = "service.ListUsers"

	users, err := s.storage.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make([]models.PublicUser, 0, len(users))
	for _, u := range users {
		out = append(out, u.Public())
	}

	return out, nil
}

// CreateAdmin is the only path that produces admin accounts. With recreate
// an existing account under the same email is removed first.
func (s *AuthService) CreateAdmin(ctx context.Context, name, email, password string, recreate bool) (models.PublicUser, error) {
	const op = "service.CreateAdmin"

	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)

	if name == "" || email == "" || password == "" {
		return models.PublicUser{}, fmt.Errorf("%s: %w: name, email and password are required", op, ErrValidation)
	}

	// A rejected password must leave the existing account in place.
	passwordHash, err := hashPassword(password)
	if err != nil {
		return models.PublicUser{}, fmt.Errorf("%s: %w", op, err)
	}

	if recreate {
		err := s.storage.DeleteUserByEmail(ctx, email)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			return models.PublicUser{}, fmt.Errorf("%s: %w", op, err)
		}
	}

	user, err := s.createUser(ctx, name, email, passwordHash, models.RoleAdmin)
	if err != nil {
		return models.PublicUser{}, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("admin created", slog.String("op", op), slog.Any("user_id", user.ID))

	return user.Public(), nil
}

func hashPassword(password string) (string, error) {
	hash, err := auth.HashPassword(password)
	if errors.Is(err, auth.ErrPasswordTooLong) {
		return "", fmt.Errorf("%w: password must be at most 72 bytes", ErrValidation)
	}

	return hash, err
}

func (s *AuthService) createUser(ctx context.Context, name, email, passwordHash string, role models.Role) (models.User, error) {
	id, err := s.storage.CreateUser(ctx, name, email, passwordHash, role)
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return models.User{}, ErrDuplicateEmail
		}

		return models.User{}, err
	}

	return s.storage.GetUserByID(ctx, id)
}

func (s *AuthService) issue(user models.User) (string, error) {
	return s.tokens.Issue(auth.Identity{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	})
}

func mapStorageErr(err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return ErrNotFound
	}

	return err
}
