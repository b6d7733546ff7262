package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/quizpal/quizpal-api/internal/domain"
	"github.com/quizpal/quizpal-api/internal/platform/logger"
	"github.com/quizpal/quizpal-api/internal/store"
)

// PostgresFlashcardStore implements the store.FlashcardStore interface
// using a PostgreSQL database as the storage backend.
type PostgresFlashcardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresFlashcardStore creates a new PostgreSQL implementation of the FlashcardStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresFlashcardStore(db store.DBTX, logger *slog.Logger) *PostgresFlashcardStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresFlashcardStore{
		db:     db,
		logger: logger.With(slog.String("component", "flashcard_store")),
	}
}

// Ensure PostgresFlashcardStore implements store.FlashcardStore interface
var _ store.FlashcardStore = (*PostgresFlashcardStore)(nil)

// WithTx implements store.FlashcardStore.WithTx
// It returns a FlashcardStore bound to the given transaction.
func (s *PostgresFlashcardStore) WithTx(tx *sql.Tx) store.FlashcardStore {
	return &PostgresFlashcardStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.FlashcardStore.Create
// It saves a new flashcard to the database, handling domain validation.
// Returns store.ErrUserNotFound if the owning user doesn't exist (foreign key violation),
// so a card is never silently inserted for an unregistered owner.
func (s *PostgresFlashcardStore) Create(ctx context.Context, card *domain.Flashcard) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := card.Validate(); err != nil {
		log.Warn("flashcard validation failed during create",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()))
		return err
	}

	query := `
		INSERT INTO flashcards (
			id, user_id, question, answer, topic, difficulty,
			interval_days, next_review_at, times_reviewed, last_reviewed, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		card.ID,
		card.UserID,
		card.Question,
		card.Answer,
		card.Topic,
		card.Difficulty,
		card.IntervalDays,
		card.NextReviewAt,
		card.TimesReviewed,
		card.LastReviewed,
		card.CreatedAt,
	)

	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("owner not registered during flashcard creation",
				slog.String("card_id", card.ID.String()),
				slog.String("user_id", card.UserID.String()))
			return fmt.Errorf("%w: owner %s is not registered",
				store.ErrUserNotFound, card.UserID)
		}

		log.Error("failed to create flashcard",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()),
			slog.String("user_id", card.UserID.String()))
		return MapError(err)
	}

	log.Info("flashcard created successfully",
		slog.String("card_id", card.ID.String()),
		slog.String("user_id", card.UserID.String()),
		slog.String("topic", card.Topic))
	return nil
}

// GetByID implements store.FlashcardStore.GetByID
// It retrieves a flashcard by its unique ID.
// Returns store.ErrCardNotFound if the card does not exist.
func (s *PostgresFlashcardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Flashcard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, question, answer, topic, difficulty,
		       interval_days, next_review_at, times_reviewed, last_reviewed, created_at
		FROM flashcards
		WHERE id = $1
	`

	card, err := scanFlashcard(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("flashcard not found", slog.String("card_id", id.String()))
			return nil, store.ErrCardNotFound
		}
		log.Error("failed to get flashcard by ID",
			slog.String("error", err.Error()),
			slog.String("card_id", id.String()))
		return nil, err
	}

	return card, nil
}

// ListByTopic implements store.FlashcardStore.ListByTopic
// It returns the owner's cards for an exact topic match, ordered ascending by
// difficulty with creation order breaking ties so quiz snapshots are
// deterministic. Returns an empty slice when nothing matches.
func (s *PostgresFlashcardStore) ListByTopic(
	ctx context.Context,
	userID uuid.UUID,
	topic string,
) ([]*domain.Flashcard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	log.Debug("listing flashcards by topic",
		slog.String("user_id", userID.String()),
		slog.String("topic", topic))

	query := `
		SELECT id, user_id, question, answer, topic, difficulty,
		       interval_days, next_review_at, times_reviewed, last_reviewed, created_at
		FROM flashcards
		WHERE user_id = $1 AND topic = $2
		ORDER BY difficulty ASC, created_at ASC
	`

	rows, err := s.db.QueryContext(ctx, query, userID, topic)
	if err != nil {
		log.Error("failed to query flashcards by topic",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("topic", topic))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	var cards []*domain.Flashcard
	for rows.Next() {
		card, err := scanFlashcard(rows)
		if err != nil {
			log.Error("failed to scan flashcard row",
				slog.String("error", err.Error()))
			return nil, err
		}
		cards = append(cards, card)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows",
			slog.String("error", err.Error()))
		return nil, err
	}

	// Return empty slice instead of nil if no cards found
	if cards == nil {
		cards = []*domain.Flashcard{}
	}

	log.Debug("found flashcards by topic",
		slog.String("user_id", userID.String()),
		slog.String("topic", topic),
		slog.Int("count", len(cards)))
	return cards, nil
}

// RecordReview implements store.FlashcardStore.RecordReview
// It applies a completed review in a single UPDATE: the review counter
// increments by exactly one and the scheduling columns are replaced.
// Returns store.ErrCardNotFound if the id is stale.
func (s *PostgresFlashcardStore) RecordReview(
	ctx context.Context,
	cardID uuid.UUID,
	newIntervalDays int,
	newNextReviewAt time.Time,
	reviewedAt time.Time,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE flashcards
		SET times_reviewed = times_reviewed + 1,
		    last_reviewed = $1,
		    interval_days = $2,
		    next_review_at = $3
		WHERE id = $4
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		reviewedAt,
		newIntervalDays,
		newNextReviewAt,
		cardID,
	)

	if err != nil {
		log.Error("failed to record review",
			slog.String("error", err.Error()),
			slog.String("card_id", cardID.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "flashcard"); err != nil {
		log.Debug("flashcard not found for review update",
			slog.String("card_id", cardID.String()))
		return store.ErrCardNotFound
	}

	log.Debug("review recorded",
		slog.String("card_id", cardID.String()),
		slog.Int("interval_days", newIntervalDays),
		slog.Time("next_review_at", newNextReviewAt))
	return nil
}

// rowScanner abstracts *sql.Row and *sql.Rows for shared scanning.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanFlashcard(row rowScanner) (*domain.Flashcard, error) {
	var card domain.Flashcard
	var lastReviewed sql.NullTime

	err := row.Scan(
		&card.ID,
		&card.UserID,
		&card.Question,
		&card.Answer,
		&card.Topic,
		&card.Difficulty,
		&card.IntervalDays,
		&card.NextReviewAt,
		&card.TimesReviewed,
		&lastReviewed,
		&card.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if lastReviewed.Valid {
		card.LastReviewed = &lastReviewed.Time
	}

	return &card, nil
}
