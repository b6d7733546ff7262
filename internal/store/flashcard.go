package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/quizpal/quizpal-api/internal/domain"
)

// FlashcardStore defines the interface for flashcard data persistence.
type FlashcardStore interface {
	// Create saves a new flashcard to the store with its default scheduling
	// state (one-day interval, due immediately, never reviewed).
	// The owning user must already exist: a missing owner fails with
	// ErrUserNotFound rather than silently inserting an orphan row.
	Create(ctx context.Context, card *domain.Flashcard) error

	// GetByID retrieves a flashcard by its unique ID.
	// Returns ErrCardNotFound if the card does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Flashcard, error)

	// ListByTopic returns the cards owned by userID whose topic matches
	// exactly (case-sensitive), ordered ascending by difficulty with ties
	// broken by creation order for determinism. No matches yields an empty
	// slice, not an error.
	ListByTopic(ctx context.Context, userID uuid.UUID, topic string) ([]*domain.Flashcard, error)

	// RecordReview atomically applies a completed review to the card:
	// times_reviewed increments by exactly one, last_reviewed is set to
	// reviewedAt, and the interval and next review date are replaced with the
	// scheduler's output. Returns ErrCardNotFound if the id is stale.
	RecordReview(
		ctx context.Context,
		cardID uuid.UUID,
		newIntervalDays int,
		newNextReviewAt time.Time,
		reviewedAt time.Time,
	) error

	// WithTx returns a FlashcardStore bound to the provided transaction so
	// multi-statement mutations (schedule update plus review log) commit or
	// roll back as one unit. The transaction is created and managed by the
	// caller, typically via RunInTransaction.
	WithTx(tx *sql.Tx) FlashcardStore
}
