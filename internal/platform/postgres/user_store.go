package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/quizpal/quizpal-api/internal/domain"
	"github.com/quizpal/quizpal-api/internal/platform/logger"
	"github.com/quizpal/quizpal-api/internal/store"
)

// PostgresUserStore implements the store.UserStore interface
// using a PostgreSQL database as the storage backend.
type PostgresUserStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresUserStore creates a new PostgreSQL implementation of the UserStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresUserStore(db store.DBTX, logger *slog.Logger) *PostgresUserStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresUserStore{
		db:     db,
		logger: logger.With(slog.String("component", "user_store")),
	}
}

// Ensure PostgresUserStore implements store.UserStore interface
var _ store.UserStore = (*PostgresUserStore)(nil)

// Create implements store.UserStore.Create
// It saves a new user to the database, handling domain validation.
// Returns store.ErrUsernameExists if the username is already taken.
func (s *PostgresUserStore) Create(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := user.Validate(); err != nil {
		log.Warn("user validation failed during create",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return err
	}

	if user.HashedPassword == "" {
		return domain.ErrEmptyHashedPasswd
	}

	query := `
		INSERT INTO users (id, username, hashed_password, joined_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		user.ID,
		user.Username,
		user.HashedPassword,
		user.JoinedAt,
	)

	if err != nil {
		if IsUniqueViolation(err) {
			log.Warn("username already taken",
				slog.String("user_id", user.ID.String()),
				slog.String("username", user.Username))
			return fmt.Errorf("%w: %v", store.ErrUsernameExists, err)
		}

		log.Error("failed to create user",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return MapError(err)
	}

	log.Info("user created successfully",
		slog.String("user_id", user.ID.String()),
		slog.String("username", user.Username))
	return nil
}

// GetByID implements store.UserStore.GetByID
// It retrieves a user by their unique ID.
// Returns store.ErrUserNotFound if the user does not exist.
func (s *PostgresUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, username, hashed_password, joined_at
		FROM users
		WHERE id = $1
	`

	var user domain.User
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID,
		&user.Username,
		&user.HashedPassword,
		&user.JoinedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("user not found", slog.String("user_id", id.String()))
			return nil, store.ErrUserNotFound
		}
		log.Error("failed to get user by ID",
			slog.String("error", err.Error()),
			slog.String("user_id", id.String()))
		return nil, err
	}

	return &user, nil
}

// GetByUsername implements store.UserStore.GetByUsername
// It retrieves a user by their username.
// Returns store.ErrUserNotFound if the user does not exist.
func (s *PostgresUserStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, username, hashed_password, joined_at
		FROM users
		WHERE username = $1
	`

	var user domain.User
	err := s.db.QueryRowContext(ctx, query, username).Scan(
		&user.ID,
		&user.Username,
		&user.HashedPassword,
		&user.JoinedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("user not found", slog.String("username", username))
			return nil, store.ErrUserNotFound
		}
		log.Error("failed to get user by username",
			slog.String("error", err.Error()),
			slog.String("username", username))
		return nil, err
	}

	return &user, nil
}
