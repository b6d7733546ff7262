package srs

import (
	"math"
	"time"
)

// Schedule is the scheduling state the algorithm reads and produces.
// It is a plain value so callers can compute a candidate schedule without
// touching storage.
type Schedule struct {
	IntervalDays  int
	NextReviewAt  time.Time
	TimesReviewed int
}

// calculateNewInterval determines the new interval in days for a card after a
// review.
//
// A correct answer multiplies the current interval by the growth factor,
// rounded to the nearest day, floored at MinIntervalDays and capped at
// MaxIntervalDays. An incorrect answer demotes the card to the minimum
// interval regardless of any prior streak.
func calculateNewInterval(currentInterval int, wasCorrect bool, params *Params) int {
	if !wasCorrect {
		return params.MinIntervalDays
	}

	next := int(math.Round(float64(currentInterval) * params.GrowthFactor))

	if next < params.MinIntervalDays {
		next = params.MinIntervalDays
	}
	if next > params.MaxIntervalDays {
		next = params.MaxIntervalDays
	}

	return next
}

// calculateNextSchedule produces the card's schedule after a review.
//
// The function is pure: "today" is a parameter rather than read from the
// system clock, so scheduling is deterministic under test. The returned
// schedule carries the new interval, a next review date of today plus the new
// interval, and a review count incremented by exactly one.
func calculateNextSchedule(current Schedule, wasCorrect bool, today time.Time, params *Params) Schedule {
	interval := calculateNewInterval(current.IntervalDays, wasCorrect, params)

	return Schedule{
		IntervalDays:  interval,
		NextReviewAt:  today.AddDate(0, 0, interval),
		TimesReviewed: current.TimesReviewed + 1,
	}
}
