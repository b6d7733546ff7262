package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/quizpal/quizpal-api/internal/domain"
	"github.com/quizpal/quizpal-api/internal/platform/logger"
	"github.com/quizpal/quizpal-api/internal/store"
)

// PostgresQuizReportStore implements the store.QuizReportStore interface
// using a PostgreSQL database as the storage backend.
type PostgresQuizReportStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresQuizReportStore creates a new PostgreSQL implementation of the QuizReportStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresQuizReportStore(db store.DBTX, logger *slog.Logger) *PostgresQuizReportStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresQuizReportStore{
		db:     db,
		logger: logger.With(slog.String("component", "quiz_report_store")),
	}
}

// Ensure PostgresQuizReportStore implements store.QuizReportStore interface
var _ store.QuizReportStore = (*PostgresQuizReportStore)(nil)

// Append implements store.QuizReportStore.Append
// It inserts one report row. Reports are append-only; there is no update path.
// I/O failures are returned to the caller so the closure can be retried.
func (s *PostgresQuizReportStore) Append(ctx context.Context, report *domain.QuizReport) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := report.Validate(); err != nil {
		log.Warn("quiz report validation failed during append",
			slog.String("error", err.Error()),
			slog.String("report_id", report.ID.String()))
		return err
	}

	query := `
		INSERT INTO quiz_reports (
			id, user_id, topic, score, total_questions,
			answered_questions, completed, taken_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		report.ID,
		report.UserID,
		report.Topic,
		report.Score,
		report.TotalQuestions,
		report.AnsweredQuestions,
		report.Completed,
		report.TakenAt,
	)

	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("owner not registered during report append",
				slog.String("report_id", report.ID.String()),
				slog.String("user_id", report.UserID.String()))
			return fmt.Errorf("%w: owner %s is not registered",
				store.ErrUserNotFound, report.UserID)
		}

		log.Error("failed to append quiz report",
			slog.String("error", err.Error()),
			slog.String("report_id", report.ID.String()),
			slog.String("user_id", report.UserID.String()))
		return MapError(err)
	}

	log.Info("quiz report appended",
		slog.String("report_id", report.ID.String()),
		slog.String("user_id", report.UserID.String()),
		slog.String("topic", report.Topic),
		slog.Int("score", report.Score),
		slog.Int("total_questions", report.TotalQuestions),
		slog.Bool("completed", report.Completed))
	return nil
}

// ListByUser implements store.QuizReportStore.ListByUser
// It retrieves a user's reports, most recent first.
// Returns an empty slice if the user has no reports.
func (s *PostgresQuizReportStore) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	limit int,
) ([]*domain.QuizReport, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if limit <= 0 {
		limit = 20 // Default limit
	}

	query := `
		SELECT id, user_id, topic, score, total_questions,
		       answered_questions, completed, taken_at
		FROM quiz_reports
		WHERE user_id = $1
		ORDER BY taken_at DESC
		LIMIT $2
	`

	rows, err := s.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		log.Error("failed to query quiz reports",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	var reports []*domain.QuizReport
	for rows.Next() {
		var report domain.QuizReport
		err := rows.Scan(
			&report.ID,
			&report.UserID,
			&report.Topic,
			&report.Score,
			&report.TotalQuestions,
			&report.AnsweredQuestions,
			&report.Completed,
			&report.TakenAt,
		)
		if err != nil {
			log.Error("failed to scan quiz report row",
				slog.String("error", err.Error()))
			return nil, err
		}
		reports = append(reports, &report)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows",
			slog.String("error", err.Error()))
		return nil, err
	}

	if reports == nil {
		reports = []*domain.QuizReport{}
	}

	return reports, nil
}

// PostgresReviewLogStore implements the store.ReviewLogStore interface
// using a PostgreSQL database as the storage backend.
type PostgresReviewLogStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresReviewLogStore creates a new PostgreSQL implementation of the ReviewLogStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresReviewLogStore(db store.DBTX, logger *slog.Logger) *PostgresReviewLogStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresReviewLogStore{
		db:     db,
		logger: logger.With(slog.String("component", "review_log_store")),
	}
}

// Ensure PostgresReviewLogStore implements store.ReviewLogStore interface
var _ store.ReviewLogStore = (*PostgresReviewLogStore)(nil)

// WithTx implements store.ReviewLogStore.WithTx
// It returns a ReviewLogStore bound to the given transaction.
func (s *PostgresReviewLogStore) WithTx(tx *sql.Tx) store.ReviewLogStore {
	return &PostgresReviewLogStore{
		db:     tx,
		logger: s.logger,
	}
}

// Append implements store.ReviewLogStore.Append
// It inserts one review log row.
func (s *PostgresReviewLogStore) Append(ctx context.Context, entry *domain.ReviewLog) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := entry.Validate(); err != nil {
		log.Warn("review log validation failed during append",
			slog.String("error", err.Error()),
			slog.String("log_id", entry.ID.String()))
		return err
	}

	query := `
		INSERT INTO review_logs (id, user_id, card_id, was_correct, reviewed_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		entry.ID,
		entry.UserID,
		entry.CardID,
		entry.WasCorrect,
		entry.ReviewedAt,
	)

	if err != nil {
		log.Error("failed to append review log",
			slog.String("error", err.Error()),
			slog.String("log_id", entry.ID.String()),
			slog.String("card_id", entry.CardID.String()))
		return MapError(err)
	}

	log.Debug("review log appended",
		slog.String("card_id", entry.CardID.String()),
		slog.Bool("was_correct", entry.WasCorrect))
	return nil
}
