package domain

import (
	"testing"

	"github.com/google/uuid"
)

func TestNewFlashcard(t *testing.T) {
	ownerID := uuid.New()

	card, err := NewFlashcard(ownerID, "What is the capital of France?", "Paris", "geography", 3)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if card.ID == uuid.Nil {
		t.Error("Expected non-nil UUID, got nil UUID")
	}

	if card.UserID != ownerID {
		t.Errorf("Expected user ID %s, got %s", ownerID, card.UserID)
	}

	// New cards start with the default schedule: due now, one-day interval.
	if card.IntervalDays != 1 {
		t.Errorf("Expected interval 1, got %d", card.IntervalDays)
	}
	if card.TimesReviewed != 0 {
		t.Errorf("Expected zero reviews, got %d", card.TimesReviewed)
	}
	if card.LastReviewed != nil {
		t.Error("Expected nil LastReviewed for a new card")
	}
	if card.NextReviewAt.IsZero() {
		t.Error("Expected non-zero NextReviewAt time")
	}

	// Validation failures
	testCases := []struct {
		name       string
		userID     uuid.UUID
		question   string
		answer     string
		topic      string
		difficulty int
		expected   error
	}{
		{"missing owner", uuid.Nil, "q", "a", "t", 1, ErrCardUserIDEmpty},
		{"blank question", ownerID, "   ", "a", "t", 1, ErrCardQuestionEmpty},
		{"blank answer", ownerID, "q", "", "t", 1, ErrCardAnswerEmpty},
		{"blank topic", ownerID, "q", "a", " ", 1, ErrCardTopicEmpty},
		{"difficulty too low", ownerID, "q", "a", "t", 0, ErrCardInvalidDifficulty},
		{"difficulty too high", ownerID, "q", "a", "t", 11, ErrCardInvalidDifficulty},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewFlashcard(tc.userID, tc.question, tc.answer, tc.topic, tc.difficulty)
			if err != tc.expected {
				t.Errorf("Expected error %v, got %v", tc.expected, err)
			}
		})
	}
}

func TestMatchesAnswer(t *testing.T) {
	card := Flashcard{
		ID:         uuid.New(),
		UserID:     uuid.New(),
		Question:   "What is the powerhouse of the cell?",
		Answer:     "Mitochondria",
		Topic:      "bio",
		Difficulty: 2,
	}

	testCases := []struct {
		name      string
		submitted string
		expected  bool
	}{
		{"exact match", "Mitochondria", true},
		{"case-insensitive match", "mitochondria", true},
		{"surrounding whitespace ignored", "  mitochondria \n", true},
		{"wrong answer", "Ribosome", false},
		{"empty submission", "", false},
		{"interior whitespace is significant", "Mito chondria", false},
		{"prefix only", "Mito", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := card.MatchesAnswer(tc.submitted); got != tc.expected {
				t.Errorf("MatchesAnswer(%q) = %v, expected %v", tc.submitted, got, tc.expected)
			}
		})
	}
}

func TestMatchesAnswerTrimsStoredAnswer(t *testing.T) {
	card := Flashcard{Answer: "  42 "}

	if !card.MatchesAnswer("42") {
		t.Error("Expected submission to match answer with surrounding whitespace")
	}
}
