package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/quizpal/quizpal-api/internal/domain"
	"github.com/quizpal/quizpal-api/internal/platform/logger"
	"github.com/quizpal/quizpal-api/internal/store"
)

// FlashcardService handles flashcard authoring and read access to a user's
// cards and quiz history. Scheduling state is owned by the quiz engine and is
// never mutated here.
type FlashcardService struct {
	cards   store.FlashcardStore
	reports store.QuizReportStore
	logger  *slog.Logger
}

// NewFlashcardService creates a new FlashcardService.
func NewFlashcardService(
	cards store.FlashcardStore,
	reports store.QuizReportStore,
	logger *slog.Logger,
) *FlashcardService {
	if cards == nil {
		panic("cards store cannot be nil")
	}
	if reports == nil {
		panic("reports store cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &FlashcardService{
		cards:   cards,
		reports: reports,
		logger:  logger.With(slog.String("component", "flashcard_service")),
	}
}

// CreateFlashcard authors a new card for the given owner with default
// scheduling state. Returns store.ErrUserNotFound when the owner is not
// registered; nothing is inserted in that case.
func (s *FlashcardService) CreateFlashcard(
	ctx context.Context,
	ownerID uuid.UUID,
	question, answer, topic string,
	difficulty int,
) (*domain.Flashcard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	card, err := domain.NewFlashcard(ownerID, question, answer, topic, difficulty)
	if err != nil {
		log.Warn("flashcard validation failed",
			slog.String("error", err.Error()),
			slog.String("user_id", ownerID.String()))
		return nil, err
	}

	if err := s.cards.Create(ctx, card); err != nil {
		return nil, err
	}

	return card, nil
}

// ListFlashcards returns the owner's cards for a topic, in quiz order.
func (s *FlashcardService) ListFlashcards(
	ctx context.Context,
	ownerID uuid.UUID,
	topic string,
) ([]*domain.Flashcard, error) {
	return s.cards.ListByTopic(ctx, ownerID, topic)
}

// ListReports returns the user's quiz history, most recent first.
func (s *FlashcardService) ListReports(
	ctx context.Context,
	userID uuid.UUID,
	limit int,
) ([]*domain.QuizReport, error) {
	return s.reports.ListByUser(ctx, userID, limit)
}
