package quiz

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizpal/quizpal-api/internal/domain"
)

func makeCards(userID uuid.UUID, topic string, answers ...string) []*domain.Flashcard {
	cards := make([]*domain.Flashcard, 0, len(answers))
	for i, answer := range answers {
		cards = append(cards, &domain.Flashcard{
			ID:           uuid.New(),
			UserID:       userID,
			Question:     "Q" + answer,
			Answer:       answer,
			Topic:        topic,
			Difficulty:   i + 1,
			IntervalDays: 1,
			NextReviewAt: time.Now().UTC(),
			CreatedAt:    time.Now().UTC(),
		})
	}
	return cards
}

func TestSessionLifecycle(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	cards := makeCards(userID, "bio", "A1", "A2")
	session := newSession(userID, "bio", cards, time.Now().UTC())

	require.Equal(t, StateInProgress, session.State())
	require.Equal(t, 2, session.Total())
	require.Equal(t, "QA1", session.CurrentCard().Question)

	// Correct answer on the first card
	card, correct, err := session.applyAnswer("a1")
	require.NoError(t, err)
	assert.True(t, correct)
	assert.Equal(t, cards[0].ID, card.ID)
	assert.Equal(t, 1, session.Score())
	assert.Equal(t, 1, session.Answered())
	assert.Equal(t, StateInProgress, session.State())
	assert.Equal(t, "QA2", session.CurrentCard().Question)

	// Wrong answer on the last card completes the session
	card, correct, err = session.applyAnswer("nope")
	require.NoError(t, err)
	assert.False(t, correct)
	assert.Equal(t, cards[1].ID, card.ID)
	assert.Equal(t, 1, session.Score())
	assert.Equal(t, 2, session.Answered())
	assert.Equal(t, StateCompleted, session.State())
	assert.Nil(t, session.CurrentCard())
	assert.Nil(t, session.nextCardView())

	// Terminal sessions accept no further answers
	_, _, err = session.applyAnswer("A1")
	assert.ErrorIs(t, err, ErrSessionClosed)
	assert.Equal(t, 2, session.Answered(), "counters must not move after completion")
}

func TestSessionCancel(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	session := newSession(userID, "bio", makeCards(userID, "bio", "A1", "A2", "A3"), time.Now().UTC())

	_, _, err := session.applyAnswer("A1")
	require.NoError(t, err)

	require.NoError(t, session.cancel())
	assert.Equal(t, StateCancelled, session.State())

	// Cancel is not re-enterable
	assert.ErrorIs(t, session.cancel(), ErrSessionClosed)

	_, _, err = session.applyAnswer("A2")
	assert.ErrorIs(t, err, ErrSessionClosed)
}

func TestSessionBuildReport(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("completed session", func(t *testing.T) {
		t.Parallel()
		session := newSession(userID, "bio", makeCards(userID, "bio", "A1"), time.Now().UTC())
		_, _, err := session.applyAnswer("A1")
		require.NoError(t, err)

		report, err := session.buildReport()
		require.NoError(t, err)
		assert.Equal(t, userID, report.UserID)
		assert.Equal(t, "bio", report.Topic)
		assert.Equal(t, 1, report.Score)
		assert.Equal(t, 1, report.TotalQuestions)
		assert.Equal(t, 1, report.AnsweredQuestions)
		assert.True(t, report.Completed)
	})

	t.Run("cancelled session keeps partial counters", func(t *testing.T) {
		t.Parallel()
		session := newSession(userID, "bio", makeCards(userID, "bio", "A1", "A2", "A3", "A4", "A5"), time.Now().UTC())
		_, _, err := session.applyAnswer("A1")
		require.NoError(t, err)
		_, _, err = session.applyAnswer("wrong")
		require.NoError(t, err)
		require.NoError(t, session.cancel())

		report, err := session.buildReport()
		require.NoError(t, err)
		assert.Equal(t, 1, report.Score)
		assert.Equal(t, 5, report.TotalQuestions)
		assert.Equal(t, 2, report.AnsweredQuestions)
		assert.False(t, report.Completed)
	})
}
