package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/quizpal/quizpal-api/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user to the store.
	// The user must be valid according to domain validation rules and must
	// carry a hashed password; plaintext passwords are never persisted.
	// Returns ErrUsernameExists if the username is already taken.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByUsername retrieves a user by their username.
	// Returns ErrUserNotFound if the user does not exist.
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}
