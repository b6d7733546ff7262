package srs

import (
	"errors"
	"time"
)

// Common errors
var (
	ErrInvalidInterval = errors.New("current interval must be at least 1 day")
	ErrZeroTime        = errors.New("review time cannot be zero")
)

// Service defines the interface for review scheduling operations.
type Service interface {
	// NextSchedule computes the schedule a card should carry after a review
	// with the given correctness, evaluated as of "today".
	NextSchedule(current Schedule, wasCorrect bool, today time.Time) (Schedule, error)
}

// defaultService is the standard implementation of the Service interface.
type defaultService struct {
	params *Params
}

// NewDefaultService creates a new scheduling service with default parameters.
func NewDefaultService() Service {
	return &defaultService{
		params: NewDefaultParams(),
	}
}

// NewServiceWithParams creates a new scheduling service with custom parameters.
func NewServiceWithParams(params *Params) Service {
	return &defaultService{
		params: params,
	}
}

// NextSchedule implements the Service interface.
func (s *defaultService) NextSchedule(current Schedule, wasCorrect bool, today time.Time) (Schedule, error) {
	if current.IntervalDays < 1 {
		return Schedule{}, ErrInvalidInterval
	}

	if today.IsZero() {
		return Schedule{}, ErrZeroTime
	}

	return calculateNextSchedule(current, wasCorrect, today, s.params), nil
}
