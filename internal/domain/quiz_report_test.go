package domain

import (
	"testing"

	"github.com/google/uuid"
)

func TestNewQuizReport(t *testing.T) {
	userID := uuid.New()

	report, err := NewQuizReport(userID, "bio", 1, 5, 2, false)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if report.ID == uuid.Nil {
		t.Error("Expected non-nil UUID, got nil UUID")
	}
	if report.Score != 1 || report.TotalQuestions != 5 || report.AnsweredQuestions != 2 {
		t.Errorf("Unexpected counters: score=%d total=%d answered=%d",
			report.Score, report.TotalQuestions, report.AnsweredQuestions)
	}
	if report.Completed {
		t.Error("Expected report to be marked not completed")
	}
	if report.TakenAt.IsZero() {
		t.Error("Expected non-zero TakenAt time")
	}

	testCases := []struct {
		name     string
		userID   uuid.UUID
		topic    string
		score    int
		total    int
		answered int
		expected error
	}{
		{"missing user", uuid.Nil, "bio", 0, 1, 0, ErrReportUserIDEmpty},
		{"missing topic", userID, "", 0, 1, 0, ErrReportTopicEmpty},
		{"negative score", userID, "bio", -1, 1, 0, ErrReportInvalidTotals},
		{"score above answered", userID, "bio", 2, 5, 1, ErrReportScoreOutOfRange},
		{"answered above total", userID, "bio", 0, 2, 3, ErrReportAnsweredTooLarge},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewQuizReport(tc.userID, tc.topic, tc.score, tc.total, tc.answered, false)
			if err != tc.expected {
				t.Errorf("Expected error %v, got %v", tc.expected, err)
			}
		})
	}
}

func TestNewReviewLog(t *testing.T) {
	userID := uuid.New()
	cardID := uuid.New()

	entry, err := NewReviewLog(userID, cardID, true)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if entry.ID == uuid.Nil {
		t.Error("Expected non-nil UUID, got nil UUID")
	}
	if entry.UserID != userID || entry.CardID != cardID {
		t.Error("Expected log to carry the given user and card IDs")
	}
	if !entry.WasCorrect {
		t.Error("Expected WasCorrect to be true")
	}
	if entry.ReviewedAt.IsZero() {
		t.Error("Expected non-zero ReviewedAt time")
	}
}
