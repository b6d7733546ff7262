package srs

import (
	"errors"
	"testing"
	"time"
)

func TestNextSchedule(t *testing.T) {
	t.Parallel()
	service := NewDefaultService()
	today := time.Date(2025, 4, 15, 12, 0, 0, 0, time.UTC)

	t.Run("Returns computed schedule for valid input", func(t *testing.T) {
		current := Schedule{IntervalDays: 2, NextReviewAt: today, TimesReviewed: 1}

		next, err := service.NextSchedule(current, true, today)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}

		if next.IntervalDays != 4 {
			t.Errorf("Expected interval 4, got %d", next.IntervalDays)
		}
		if next.TimesReviewed != 2 {
			t.Errorf("Expected times reviewed 2, got %d", next.TimesReviewed)
		}
	})

	t.Run("Rejects interval below one day", func(t *testing.T) {
		current := Schedule{IntervalDays: 0, NextReviewAt: today}

		_, err := service.NextSchedule(current, true, today)
		if !errors.Is(err, ErrInvalidInterval) {
			t.Errorf("Expected ErrInvalidInterval, got %v", err)
		}
	})

	t.Run("Rejects zero review time", func(t *testing.T) {
		current := Schedule{IntervalDays: 1, NextReviewAt: today}

		_, err := service.NextSchedule(current, true, time.Time{})
		if !errors.Is(err, ErrZeroTime) {
			t.Errorf("Expected ErrZeroTime, got %v", err)
		}
	})

	t.Run("Custom parameters are honored", func(t *testing.T) {
		service := NewServiceWithParams(NewParams(ParamsConfig{
			GrowthFactor:    3.0,
			MaxIntervalDays: 30,
		}))
		current := Schedule{IntervalDays: 20, NextReviewAt: today}

		next, err := service.NextSchedule(current, true, today)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}

		if next.IntervalDays != 30 {
			t.Errorf("Expected interval capped at 30, got %d", next.IntervalDays)
		}
	})
}
