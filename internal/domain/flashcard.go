package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Flashcard-specific validation errors
var (
	// ErrCardIDEmpty is returned when a card ID is empty or nil.
	ErrCardIDEmpty = errors.New("card ID cannot be empty")

	// ErrCardUserIDEmpty is returned when a card's owner user ID is empty or nil.
	ErrCardUserIDEmpty = errors.New("card user ID cannot be empty")

	// ErrCardQuestionEmpty is returned when a card's question is empty.
	ErrCardQuestionEmpty = errors.New("card question cannot be empty")

	// ErrCardAnswerEmpty is returned when a card's answer is empty.
	ErrCardAnswerEmpty = errors.New("card answer cannot be empty")

	// ErrCardTopicEmpty is returned when a card's topic is empty.
	ErrCardTopicEmpty = errors.New("card topic cannot be empty")

	// ErrCardInvalidInterval is returned when a card's review interval is below one day.
	ErrCardInvalidInterval = errors.New("card interval must be at least 1 day")

	// ErrCardInvalidDifficulty is returned when a card's difficulty is outside 1-10.
	ErrCardInvalidDifficulty = errors.New("card difficulty must be between 1 and 10")
)

// Flashcard represents a user-authored question/answer pair grouped by topic,
// together with its spaced-repetition scheduling state. Scheduling fields are
// mutated only through recorded reviews; cards are never deleted by the quiz
// engine.
type Flashcard struct {
	ID            uuid.UUID  `json:"id"`
	UserID        uuid.UUID  `json:"user_id"`
	Question      string     `json:"question"`
	Answer        string     `json:"answer"`
	Topic         string     `json:"topic"`
	Difficulty    int        `json:"difficulty"`
	IntervalDays  int        `json:"interval_days"`
	NextReviewAt  time.Time  `json:"next_review_at"`
	TimesReviewed int        `json:"times_reviewed"`
	LastReviewed  *time.Time `json:"last_reviewed,omitempty"` // nil until first review
	CreatedAt     time.Time  `json:"created_at"`
}

// NewFlashcard creates a new Flashcard owned by the given user with default
// scheduling state: a one-day interval, due immediately, never reviewed.
// Returns an error if validation fails.
func NewFlashcard(userID uuid.UUID, question, answer, topic string, difficulty int) (*Flashcard, error) {
	now := time.Now().UTC()
	card := &Flashcard{
		ID:            uuid.New(),
		UserID:        userID,
		Question:      question,
		Answer:        answer,
		Topic:         topic,
		Difficulty:    difficulty,
		IntervalDays:  1,
		NextReviewAt:  now,
		TimesReviewed: 0,
		LastReviewed:  nil,
		CreatedAt:     now,
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return card, nil
}

// Validate checks if the Flashcard has valid data.
// Returns an error if any field fails validation.
func (c *Flashcard) Validate() error {
	if c.ID == uuid.Nil {
		return ErrCardIDEmpty
	}

	if c.UserID == uuid.Nil {
		return ErrCardUserIDEmpty
	}

	if strings.TrimSpace(c.Question) == "" {
		return ErrCardQuestionEmpty
	}

	if strings.TrimSpace(c.Answer) == "" {
		return ErrCardAnswerEmpty
	}

	if strings.TrimSpace(c.Topic) == "" {
		return ErrCardTopicEmpty
	}

	if c.Difficulty < 1 || c.Difficulty > 10 {
		return ErrCardInvalidDifficulty
	}

	if c.IntervalDays < 1 {
		return ErrCardInvalidInterval
	}

	return nil
}

// MatchesAnswer reports whether the submitted text matches the card's answer.
// Comparison trims surrounding whitespace and ignores case; no other
// normalization is applied.
func (c *Flashcard) MatchesAnswer(submitted string) bool {
	return strings.EqualFold(strings.TrimSpace(submitted), strings.TrimSpace(c.Answer))
}
