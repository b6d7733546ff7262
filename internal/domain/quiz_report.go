package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// QuizReport validation errors
var (
	ErrReportIDEmpty          = errors.New("report ID cannot be empty")
	ErrReportUserIDEmpty      = errors.New("report user ID cannot be empty")
	ErrReportTopicEmpty       = errors.New("report topic cannot be empty")
	ErrReportInvalidTotals    = errors.New("report totals must be non-negative")
	ErrReportScoreOutOfRange  = errors.New("report score cannot exceed answered questions")
	ErrReportAnsweredTooLarge = errors.New("report answered questions cannot exceed total questions")
)

// QuizReport is the durable, append-only record of a closed quiz session.
// It is written exactly once per session lifecycle, at natural completion or
// cancellation, and never updated afterward.
type QuizReport struct {
	ID                uuid.UUID `json:"id"`
	UserID            uuid.UUID `json:"user_id"`
	Topic             string    `json:"topic"`
	Score             int       `json:"score"`
	TotalQuestions    int       `json:"total_questions"`
	AnsweredQuestions int       `json:"answered_questions"`
	Completed         bool      `json:"completed"` // true when the snapshot was exhausted, false when stopped early
	TakenAt           time.Time `json:"taken_at"`
}

// NewQuizReport creates a report for a closed session.
// Returns an error if the counters violate score <= answered <= total.
func NewQuizReport(
	userID uuid.UUID,
	topic string,
	score, total, answered int,
	completed bool,
) (*QuizReport, error) {
	report := &QuizReport{
		ID:                uuid.New(),
		UserID:            userID,
		Topic:             topic,
		Score:             score,
		TotalQuestions:    total,
		AnsweredQuestions: answered,
		Completed:         completed,
		TakenAt:           time.Now().UTC(),
	}

	if err := report.Validate(); err != nil {
		return nil, err
	}

	return report, nil
}

// Validate checks if the QuizReport has valid data.
// Returns an error if any field fails validation.
func (r *QuizReport) Validate() error {
	if r.ID == uuid.Nil {
		return ErrReportIDEmpty
	}

	if r.UserID == uuid.Nil {
		return ErrReportUserIDEmpty
	}

	if r.Topic == "" {
		return ErrReportTopicEmpty
	}

	if r.Score < 0 || r.TotalQuestions < 0 || r.AnsweredQuestions < 0 {
		return ErrReportInvalidTotals
	}

	if r.Score > r.AnsweredQuestions {
		return ErrReportScoreOutOfRange
	}

	if r.AnsweredQuestions > r.TotalQuestions {
		return ErrReportAnsweredTooLarge
	}

	return nil
}
