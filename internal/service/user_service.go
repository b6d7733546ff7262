package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/quizpal/quizpal-api/internal/domain"
	"github.com/quizpal/quizpal-api/internal/platform/logger"
	"github.com/quizpal/quizpal-api/internal/service/auth"
	"github.com/quizpal/quizpal-api/internal/store"
)

// UserService handles user registration and authentication.
type UserService struct {
	users  store.UserStore
	hasher auth.PasswordHasher
	jwt    auth.JWTService
	logger *slog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(
	users store.UserStore,
	hasher auth.PasswordHasher,
	jwt auth.JWTService,
	logger *slog.Logger,
) *UserService {
	if users == nil {
		panic("users store cannot be nil")
	}
	if hasher == nil {
		panic("hasher cannot be nil")
	}
	if jwt == nil {
		panic("jwt service cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &UserService{
		users:  users,
		hasher: hasher,
		jwt:    jwt,
		logger: logger.With(slog.String("component", "user_service")),
	}
}

// Register creates a new user with a hashed password.
// Returns store.ErrUsernameExists if the username is already taken.
func (s *UserService) Register(ctx context.Context, username, password string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := domain.NewUser(username, password)
	if err != nil {
		log.Warn("user validation failed during registration",
			slog.String("error", err.Error()),
			slog.String("username", username))
		return nil, err
	}

	hashed, err := s.hasher.Hash(user.Password)
	if err != nil {
		log.Error("failed to hash password",
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user.HashedPassword = hashed
	user.Password = "" // Never keep plaintext beyond hashing

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	log.Info("user registered",
		slog.String("user_id", user.ID.String()),
		slog.String("username", user.Username))
	return user, nil
}

// Login verifies the credentials and returns a signed access token.
// Returns auth.ErrInvalidCredentials on any mismatch, without revealing
// whether the username exists.
func (s *UserService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			log.Debug("login attempt for unknown username",
				slog.String("username", username))
			return "", nil, auth.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := s.hasher.Compare(user.HashedPassword, password); err != nil {
		log.Debug("login attempt with wrong password",
			slog.String("user_id", user.ID.String()))
		return "", nil, auth.ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateToken(ctx, user.ID)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return token, user, nil
}
