package quiz

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizpal/quizpal-api/internal/domain"
	"github.com/quizpal/quizpal-api/internal/domain/srs"
	"github.com/quizpal/quizpal-api/internal/store"
)

type registryFixture struct {
	registry *Registry
	cards    *fakeFlashcardStore
	reports  *fakeReportStore
	logs     *fakeReviewLogStore
}

func newRegistryFixture(t *testing.T, policy RestartPolicy) *registryFixture {
	t.Helper()

	cards := &fakeFlashcardStore{}
	reports := &fakeReportStore{}
	logs := &fakeReviewLogStore{}

	registry := NewRegistry(
		cards,
		reports,
		logs,
		fakeTxRunner{},
		srs.NewDefaultService(),
		policy,
		nil,
	)

	return &registryFixture{
		registry: registry,
		cards:    cards,
		reports:  reports,
		logs:     logs,
	}
}

func (f *registryFixture) seedCards(userID uuid.UUID, topic string, answers ...string) []*domain.Flashcard {
	cards := makeCards(userID, topic, answers...)
	f.cards.mu.Lock()
	f.cards.cards = append(f.cards.cards, cards...)
	f.cards.mu.Unlock()
	return cards
}

func TestRegistryStart(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("returns first question and snapshot size", func(t *testing.T) {
		t.Parallel()
		f := newRegistryFixture(t, RestartDiscard)
		userID := uuid.New()
		f.seedCards(userID, "bio", "A1", "A2", "A3")

		result, err := f.registry.Start(ctx, userID, "bio")
		require.NoError(t, err)

		assert.Equal(t, "QA1", result.Question.Question)
		assert.Equal(t, 3, result.TotalQuestions)
		assert.Equal(t, 1, f.registry.ActiveSessionCount())
	})

	t.Run("no cards for topic leaves no session or report", func(t *testing.T) {
		t.Parallel()
		f := newRegistryFixture(t, RestartDiscard)
		userID := uuid.New()
		f.seedCards(userID, "bio", "A1")

		_, err := f.registry.Start(ctx, userID, "chemistry")
		assert.ErrorIs(t, err, ErrNoCardsForTopic)
		assert.Equal(t, 0, f.registry.ActiveSessionCount())
		assert.Equal(t, 0, f.reports.count())
	})

	t.Run("store failure surfaces as start error", func(t *testing.T) {
		t.Parallel()
		f := newRegistryFixture(t, RestartDiscard)
		f.cards.listErr = errors.New("connection refused")

		_, err := f.registry.Start(ctx, uuid.New(), "bio")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrNoCardsForTopic)
	})

	t.Run("mid-session card additions do not touch the snapshot", func(t *testing.T) {
		t.Parallel()
		f := newRegistryFixture(t, RestartDiscard)
		userID := uuid.New()
		f.seedCards(userID, "bio", "A1", "A2")

		result, err := f.registry.Start(ctx, userID, "bio")
		require.NoError(t, err)
		require.Equal(t, 2, result.TotalQuestions)

		f.seedCards(userID, "bio", "A3")

		outcome, err := f.registry.SubmitAnswer(ctx, userID, "A1")
		require.NoError(t, err)
		assert.Equal(t, 2, outcome.Total)
	})
}

func TestRegistrySubmitAnswer(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("full session over two cards", func(t *testing.T) {
		t.Parallel()
		f := newRegistryFixture(t, RestartDiscard)
		userID := uuid.New()
		cards := f.seedCards(userID, "bio", "A1", "A2")

		_, err := f.registry.Start(ctx, userID, "bio")
		require.NoError(t, err)

		// Correct answer, normalized: whitespace and case are ignored
		outcome, err := f.registry.SubmitAnswer(ctx, userID, "  a1 ")
		require.NoError(t, err)
		assert.True(t, outcome.Correct)
		assert.True(t, outcome.ScheduleSaved)
		assert.False(t, outcome.Finished)
		assert.Equal(t, 1, outcome.Score)
		assert.Equal(t, 1, outcome.Answered)
		assert.Equal(t, 2, outcome.Total)
		require.NotNil(t, outcome.NextQuestion)
		assert.Equal(t, "QA2", outcome.NextQuestion.Question)

		// Wrong final answer finishes the quiz
		outcome, err = f.registry.SubmitAnswer(ctx, userID, "wrong")
		require.NoError(t, err)
		assert.False(t, outcome.Correct)
		assert.True(t, outcome.Finished)
		assert.Equal(t, 1, outcome.Score)
		assert.Equal(t, 2, outcome.Answered)
		assert.Nil(t, outcome.NextQuestion)

		// Session gone, report recorded exactly once
		assert.Equal(t, 0, f.registry.ActiveSessionCount())
		require.Equal(t, 1, f.reports.count())
		report := f.reports.appended[0]
		assert.Equal(t, 1, report.Score)
		assert.Equal(t, 2, report.TotalQuestions)
		assert.Equal(t, 2, report.AnsweredQuestions)
		assert.True(t, report.Completed)

		// Both reviews were persisted with a review log entry each
		assert.Equal(t, 2, f.logs.count())
		require.Len(t, f.cards.reviewCalls, 2)
		// Correct answer doubled the one-day interval; wrong answer reset it
		assert.Equal(t, cards[0].ID, f.cards.reviewCalls[0].cardID)
		assert.Equal(t, 2, f.cards.reviewCalls[0].intervalDays)
		assert.Equal(t, cards[1].ID, f.cards.reviewCalls[1].cardID)
		assert.Equal(t, 1, f.cards.reviewCalls[1].intervalDays)
	})

	t.Run("no active session", func(t *testing.T) {
		t.Parallel()
		f := newRegistryFixture(t, RestartDiscard)

		_, err := f.registry.SubmitAnswer(ctx, uuid.New(), "anything")
		assert.ErrorIs(t, err, ErrNoActiveSession)
		assert.Equal(t, 0, f.reports.count())
		assert.Equal(t, 0, f.logs.count())
	})

	t.Run("schedule write failure does not interrupt the quiz", func(t *testing.T) {
		t.Parallel()
		f := newRegistryFixture(t, RestartDiscard)
		userID := uuid.New()
		f.seedCards(userID, "bio", "A1", "A2")
		f.cards.recordReviewErr = errors.New("disk full")

		_, err := f.registry.Start(ctx, userID, "bio")
		require.NoError(t, err)

		outcome, err := f.registry.SubmitAnswer(ctx, userID, "A1")
		require.NoError(t, err)
		assert.True(t, outcome.Correct)
		assert.False(t, outcome.ScheduleSaved)
		assert.Equal(t, 1, f.registry.ActiveSessionCount())
	})

	t.Run("stale card is skipped without failing the answer", func(t *testing.T) {
		t.Parallel()
		f := newRegistryFixture(t, RestartDiscard)
		userID := uuid.New()
		f.seedCards(userID, "bio", "A1")
		f.cards.recordReviewErr = store.ErrCardNotFound

		_, err := f.registry.Start(ctx, userID, "bio")
		require.NoError(t, err)

		outcome, err := f.registry.SubmitAnswer(ctx, userID, "A1")
		require.NoError(t, err)
		assert.True(t, outcome.Correct)
		assert.False(t, outcome.ScheduleSaved)
		assert.True(t, outcome.Finished)
	})
}

func TestRegistryStop(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("mid-session stop records a partial report", func(t *testing.T) {
		t.Parallel()
		f := newRegistryFixture(t, RestartDiscard)
		userID := uuid.New()
		f.seedCards(userID, "bio", "A1", "A2", "A3", "A4", "A5")

		_, err := f.registry.Start(ctx, userID, "bio")
		require.NoError(t, err)

		_, err = f.registry.SubmitAnswer(ctx, userID, "A1")
		require.NoError(t, err)
		_, err = f.registry.SubmitAnswer(ctx, userID, "wrong")
		require.NoError(t, err)

		result, err := f.registry.Stop(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, 1, result.Score)
		assert.Equal(t, 2, result.Answered)
		assert.Equal(t, 5, result.Total)

		assert.Equal(t, 0, f.registry.ActiveSessionCount())
		require.Equal(t, 1, f.reports.count())
		report := f.reports.appended[0]
		assert.Equal(t, 1, report.Score)
		assert.Equal(t, 5, report.TotalQuestions)
		assert.Equal(t, 2, report.AnsweredQuestions)
		assert.False(t, report.Completed)
	})

	t.Run("stop without a session", func(t *testing.T) {
		t.Parallel()
		f := newRegistryFixture(t, RestartDiscard)

		_, err := f.registry.Stop(ctx, uuid.New())
		assert.ErrorIs(t, err, ErrNoActiveSession)
		assert.Equal(t, 0, f.reports.count())
	})
}

func TestRegistryRestartPolicy(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("discard drops the live session without a report", func(t *testing.T) {
		t.Parallel()
		f := newRegistryFixture(t, RestartDiscard)
		userID := uuid.New()
		f.seedCards(userID, "bio", "A1", "A2")
		f.seedCards(userID, "chemistry", "B1")

		_, err := f.registry.Start(ctx, userID, "bio")
		require.NoError(t, err)
		_, err = f.registry.SubmitAnswer(ctx, userID, "A1")
		require.NoError(t, err)

		result, err := f.registry.Start(ctx, userID, "chemistry")
		require.NoError(t, err)
		assert.Equal(t, 1, result.TotalQuestions)

		assert.Equal(t, 1, f.registry.ActiveSessionCount())
		assert.Equal(t, 0, f.reports.count(), "discarded session must leave no report")
	})

	t.Run("cancel closes the live session with a report first", func(t *testing.T) {
		t.Parallel()
		f := newRegistryFixture(t, RestartCancel)
		userID := uuid.New()
		f.seedCards(userID, "bio", "A1", "A2")
		f.seedCards(userID, "chemistry", "B1")

		_, err := f.registry.Start(ctx, userID, "bio")
		require.NoError(t, err)
		_, err = f.registry.SubmitAnswer(ctx, userID, "A1")
		require.NoError(t, err)

		_, err = f.registry.Start(ctx, userID, "chemistry")
		require.NoError(t, err)

		require.Equal(t, 1, f.reports.count())
		report := f.reports.appended[0]
		assert.Equal(t, "bio", report.Topic)
		assert.Equal(t, 1, report.Score)
		assert.Equal(t, 2, report.TotalQuestions)
		assert.Equal(t, 1, report.AnsweredQuestions)
		assert.False(t, report.Completed)
	})
}

func TestRegistryReportRetry(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("failed final write parks the session and a retry flushes once", func(t *testing.T) {
		t.Parallel()
		f := newRegistryFixture(t, RestartDiscard)
		userID := uuid.New()
		f.seedCards(userID, "bio", "A1")
		f.reports.failNext = 1
		f.reports.failErr = errors.New("connection reset")

		_, err := f.registry.Start(ctx, userID, "bio")
		require.NoError(t, err)

		_, err = f.registry.SubmitAnswer(ctx, userID, "A1")
		require.ErrorIs(t, err, ErrReportWriteFailed)

		// Session retained for retry
		assert.Equal(t, 1, f.registry.ActiveSessionCount())
		assert.Equal(t, 0, f.reports.count())

		// The retry flushes the same report and evicts the session
		outcome, err := f.registry.SubmitAnswer(ctx, userID, "ignored")
		require.NoError(t, err)
		assert.True(t, outcome.Finished)
		assert.Equal(t, 1, outcome.Score)
		assert.Equal(t, 1, outcome.Answered)

		assert.Equal(t, 0, f.registry.ActiveSessionCount())
		require.Equal(t, 1, f.reports.count())
		assert.True(t, f.reports.appended[0].Completed)
	})

	t.Run("stop retries a parked report without duplicating it", func(t *testing.T) {
		t.Parallel()
		f := newRegistryFixture(t, RestartDiscard)
		userID := uuid.New()
		f.seedCards(userID, "bio", "A1", "A2")
		f.reports.failNext = 1
		f.reports.failErr = errors.New("connection reset")

		_, err := f.registry.Start(ctx, userID, "bio")
		require.NoError(t, err)
		_, err = f.registry.SubmitAnswer(ctx, userID, "A1")
		require.NoError(t, err)

		_, err = f.registry.Stop(ctx, userID)
		require.ErrorIs(t, err, ErrReportWriteFailed)
		assert.Equal(t, 1, f.registry.ActiveSessionCount())

		result, err := f.registry.Stop(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, 1, result.Score)
		assert.Equal(t, 1, result.Answered)

		assert.Equal(t, 0, f.registry.ActiveSessionCount())
		assert.Equal(t, 1, f.reports.count())
	})

	t.Run("start flushes a parked report before the new session", func(t *testing.T) {
		t.Parallel()
		f := newRegistryFixture(t, RestartDiscard)
		userID := uuid.New()
		f.seedCards(userID, "bio", "A1")
		f.reports.failNext = 1
		f.reports.failErr = errors.New("connection reset")

		_, err := f.registry.Start(ctx, userID, "bio")
		require.NoError(t, err)
		_, err = f.registry.SubmitAnswer(ctx, userID, "A1")
		require.ErrorIs(t, err, ErrReportWriteFailed)

		_, err = f.registry.Start(ctx, userID, "bio")
		require.NoError(t, err)

		// The owed report landed and the new session is live
		assert.Equal(t, 1, f.reports.count())
		assert.Equal(t, 1, f.registry.ActiveSessionCount())
	})
}

func TestRegistryConcurrentAnswers(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	const total = 8

	f := newRegistryFixture(t, RestartDiscard)
	userID := uuid.New()

	answers := make([]string, total)
	for i := range answers {
		answers[i] = "same"
	}
	f.seedCards(userID, "bio", answers...)

	_, err := f.registry.Start(ctx, userID, "bio")
	require.NoError(t, err)

	// Every card shares one answer, so each applied answer is correct no
	// matter which card the cursor is on. Per-user serialization must yield
	// exactly one cursor advance per call and no double-credit.
	var wg sync.WaitGroup
	for i := 0; i < total; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.registry.SubmitAnswer(ctx, userID, "same")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 0, f.registry.ActiveSessionCount())
	require.Equal(t, 1, f.reports.count())
	report := f.reports.appended[0]
	assert.Equal(t, total, report.Score)
	assert.Equal(t, total, report.TotalQuestions)
	assert.Equal(t, total, report.AnsweredQuestions)
	assert.True(t, report.Completed)
	assert.Equal(t, total, f.logs.count())
}

func TestRegistryIndependentUsers(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newRegistryFixture(t, RestartDiscard)
	users := make([]uuid.UUID, 4)
	for i := range users {
		users[i] = uuid.New()
		f.seedCards(users[i], "bio", "A1", "A2")
	}

	var wg sync.WaitGroup
	for _, userID := range users {
		wg.Add(1)
		go func(id uuid.UUID) {
			defer wg.Done()
			_, err := f.registry.Start(ctx, id, "bio")
			assert.NoError(t, err)
			_, err = f.registry.SubmitAnswer(ctx, id, "A1")
			assert.NoError(t, err)
			_, err = f.registry.SubmitAnswer(ctx, id, "A2")
			assert.NoError(t, err)
		}(userID)
	}
	wg.Wait()

	assert.Equal(t, 0, f.registry.ActiveSessionCount())
	assert.Equal(t, len(users), f.reports.count())
	for _, report := range f.reports.appended {
		assert.Equal(t, 2, report.Score)
		assert.True(t, report.Completed)
	}
}

func TestParseRestartPolicy(t *testing.T) {
	t.Parallel()

	policy, err := ParseRestartPolicy("discard")
	require.NoError(t, err)
	assert.Equal(t, RestartDiscard, policy)

	policy, err = ParseRestartPolicy("cancel")
	require.NoError(t, err)
	assert.Equal(t, RestartCancel, policy)

	_, err = ParseRestartPolicy("explode")
	assert.Error(t, err)
}

func TestRegistryScheduleTimes(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newRegistryFixture(t, RestartDiscard)
	now := time.Date(2025, 4, 15, 10, 0, 0, 0, time.UTC)
	f.registry.now = func() time.Time { return now }

	userID := uuid.New()
	f.seedCards(userID, "bio", "A1")

	_, err := f.registry.Start(ctx, userID, "bio")
	require.NoError(t, err)

	_, err = f.registry.SubmitAnswer(ctx, userID, "A1")
	require.NoError(t, err)

	require.Len(t, f.cards.reviewCalls, 1)
	call := f.cards.reviewCalls[0]
	assert.Equal(t, now, call.reviewedAt)
	assert.Equal(t, 2, call.intervalDays)
	assert.Equal(t, now.AddDate(0, 0, 2), call.nextReviewAt)
}
