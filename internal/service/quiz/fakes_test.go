package quiz

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/quizpal/quizpal-api/internal/domain"
	"github.com/quizpal/quizpal-api/internal/store"
)

// fakeFlashcardStore is an in-memory FlashcardStore for engine tests.
type fakeFlashcardStore struct {
	mu    sync.Mutex
	cards []*domain.Flashcard

	listErr         error
	recordReviewErr error
	reviewCalls     []reviewCall
}

type reviewCall struct {
	cardID       uuid.UUID
	intervalDays int
	nextReviewAt time.Time
	reviewedAt   time.Time
}

func (f *fakeFlashcardStore) Create(ctx context.Context, card *domain.Flashcard) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cards = append(f.cards, card)
	return nil
}

func (f *fakeFlashcardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Flashcard, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, card := range f.cards {
		if card.ID == id {
			return card, nil
		}
	}
	return nil, store.ErrCardNotFound
}

func (f *fakeFlashcardStore) ListByTopic(
	ctx context.Context,
	userID uuid.UUID,
	topic string,
) ([]*domain.Flashcard, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	matched := []*domain.Flashcard{}
	for _, card := range f.cards {
		if card.UserID == userID && card.Topic == topic {
			matched = append(matched, card)
		}
	}
	return matched, nil
}

func (f *fakeFlashcardStore) RecordReview(
	ctx context.Context,
	cardID uuid.UUID,
	newIntervalDays int,
	newNextReviewAt time.Time,
	reviewedAt time.Time,
) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.recordReviewErr != nil {
		return f.recordReviewErr
	}
	f.reviewCalls = append(f.reviewCalls, reviewCall{
		cardID:       cardID,
		intervalDays: newIntervalDays,
		nextReviewAt: newNextReviewAt,
		reviewedAt:   reviewedAt,
	})
	return nil
}

func (f *fakeFlashcardStore) WithTx(tx *sql.Tx) store.FlashcardStore { return f }

// fakeReportStore is an in-memory QuizReportStore with injectable failures.
type fakeReportStore struct {
	mu       sync.Mutex
	appended []*domain.QuizReport

	// failNext makes the next failNext Append calls fail with failErr.
	failNext int
	failErr  error
}

func (f *fakeReportStore) Append(ctx context.Context, report *domain.QuizReport) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failNext > 0 {
		f.failNext--
		return f.failErr
	}
	f.appended = append(f.appended, report)
	return nil
}

func (f *fakeReportStore) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	limit int,
) ([]*domain.QuizReport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	reports := []*domain.QuizReport{}
	for _, report := range f.appended {
		if report.UserID == userID {
			reports = append(reports, report)
		}
	}
	return reports, nil
}

func (f *fakeReportStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.appended)
}

// fakeReviewLogStore is an in-memory ReviewLogStore.
type fakeReviewLogStore struct {
	mu      sync.Mutex
	entries []*domain.ReviewLog
}

func (f *fakeReviewLogStore) Append(ctx context.Context, entry *domain.ReviewLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeReviewLogStore) WithTx(tx *sql.Tx) store.ReviewLogStore { return f }

func (f *fakeReviewLogStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.entries)
}

// fakeTxRunner invokes the transaction function directly with a nil
// transaction handle; the fakes above ignore WithTx.
type fakeTxRunner struct{}

func (fakeTxRunner) RunInTransaction(ctx context.Context, fn store.TxFn) error {
	return fn(ctx, nil)
}
