package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/quizpal/quizpal-api/internal/domain"
)

// QuizReportStore defines the interface for quiz report persistence.
// Reports are append-only: there is no update or delete operation.
type QuizReportStore interface {
	// Append inserts a report row. Storage I/O failures are returned to the
	// caller, never swallowed; the caller decides whether to retry.
	Append(ctx context.Context, report *domain.QuizReport) error

	// ListByUser returns a user's reports, most recent first.
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.QuizReport, error)
}

// ReviewLogStore defines the interface for review log persistence.
// Log rows are append-only audit records of individual card reviews.
type ReviewLogStore interface {
	// Append inserts a review log row.
	Append(ctx context.Context, entry *domain.ReviewLog) error

	// WithTx returns a ReviewLogStore bound to the provided transaction.
	WithTx(tx *sql.Tx) ReviewLogStore
}
