package quiz

import (
	"errors"
	"fmt"
)

// Common error types for the quiz engine
var (
	// ErrNoCardsForTopic indicates that the user has no flashcards for the
	// requested topic, so no session was created. This is an empty result,
	// not a defect.
	ErrNoCardsForTopic = errors.New("no flashcards for topic")

	// ErrNoActiveSession indicates that the user has no quiz in progress.
	ErrNoActiveSession = errors.New("no active quiz session")

	// ErrSessionClosed indicates a call against a session that has already
	// reached a terminal state. The caller must start a new session.
	ErrSessionClosed = errors.New("quiz session is closed")

	// ErrReportWriteFailed indicates the durable report write failed at
	// session closure. The session is retained so the write can be retried;
	// it is removed only once the report is recorded.
	ErrReportWriteFailed = errors.New("failed to record quiz report")
)

// ServiceError wraps errors from the quiz engine with additional context.
// This allows consumers to differentiate between different types of service
// errors using errors.Is/errors.As instead of string matching.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "start", "submit_answer")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewStartError returns a new ServiceError for the start operation.
func NewStartError(message string, err error) *ServiceError {
	return &ServiceError{
		Operation: "start",
		Message:   message,
		Err:       err,
	}
}

// NewSubmitAnswerError returns a new ServiceError for the submit_answer operation.
func NewSubmitAnswerError(message string, err error) *ServiceError {
	return &ServiceError{
		Operation: "submit_answer",
		Message:   message,
		Err:       err,
	}
}

// NewStopError returns a new ServiceError for the stop operation.
func NewStopError(message string, err error) *ServiceError {
	return &ServiceError{
		Operation: "stop",
		Message:   message,
		Err:       err,
	}
}
