package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ReviewLog validation errors
var (
	ErrLogIDEmpty     = errors.New("review log ID cannot be empty")
	ErrLogUserIDEmpty = errors.New("review log user ID cannot be empty")
	ErrLogCardIDEmpty = errors.New("review log card ID cannot be empty")
)

// ReviewLog is an append-only audit row recording a single review of a card
// during a quiz session. One row is written per submitted answer, in the same
// transaction as the card's schedule update.
type ReviewLog struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"user_id"`
	CardID     uuid.UUID `json:"card_id"`
	WasCorrect bool      `json:"was_correct"`
	ReviewedAt time.Time `json:"reviewed_at"`
}

// NewReviewLog creates a review log entry for the given user and card.
func NewReviewLog(userID, cardID uuid.UUID, wasCorrect bool) (*ReviewLog, error) {
	entry := &ReviewLog{
		ID:         uuid.New(),
		UserID:     userID,
		CardID:     cardID,
		WasCorrect: wasCorrect,
		ReviewedAt: time.Now().UTC(),
	}

	if err := entry.Validate(); err != nil {
		return nil, err
	}

	return entry, nil
}

// Validate checks if the ReviewLog has valid data.
func (l *ReviewLog) Validate() error {
	if l.ID == uuid.Nil {
		return ErrLogIDEmpty
	}

	if l.UserID == uuid.Nil {
		return ErrLogUserIDEmpty
	}

	if l.CardID == uuid.Nil {
		return ErrLogCardIDEmpty
	}

	return nil
}
