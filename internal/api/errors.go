package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/quizpal/quizpal-api/internal/api/shared"
	"github.com/quizpal/quizpal-api/internal/service/auth"
	"github.com/quizpal/quizpal-api/internal/service/quiz"
	"github.com/quizpal/quizpal-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized

	// Not found errors
	case errors.Is(err, store.ErrUserNotFound),
		errors.Is(err, store.ErrCardNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrUsernameExists):
		return http.StatusConflict

	// Quiz session state errors
	case errors.Is(err, quiz.ErrNoCardsForTopic),
		errors.Is(err, quiz.ErrNoActiveSession),
		errors.Is(err, quiz.ErrSessionClosed):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	// Handle nil error
	if err == nil {
		return "An unexpected error occurred"
	}

	// Map specific error types to user-friendly messages
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken):
		return "Invalid token"

	case errors.Is(err, auth.ErrInvalidCredentials):
		return "Invalid username or password"

	// Not found errors
	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"

	case errors.Is(err, store.ErrCardNotFound):
		return "Card not found"

	// Conflict errors
	case errors.Is(err, store.ErrUsernameExists):
		return "Username already taken"

	// Quiz session state errors
	case errors.Is(err, quiz.ErrNoCardsForTopic):
		return "No flashcards found for that topic"

	case errors.Is(err, quiz.ErrNoActiveSession):
		return "No quiz in progress"

	case errors.Is(err, quiz.ErrSessionClosed):
		return "This quiz has already finished"

	case errors.Is(err, quiz.ErrReportWriteFailed):
		return "Failed to save quiz results, please try again"

	// Bad request errors
	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	// Default case for unknown errors
	default:
		if strings.Contains(err.Error(), "submit answer") {
			return "Failed to submit answer"
		} else if strings.Contains(err.Error(), "start quiz") {
			return "Failed to start quiz"
		}
		return "An unexpected error occurred"
	}
}

// HandleAPIError maps an internal error to a status code and safe message,
// logs the full error, and writes the sanitized response. If defaultMsg is
// non-empty it overrides the mapped message for unexpected errors.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, defaultMsg string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if defaultMsg != "" && status == http.StatusInternalServerError {
		message = defaultMsg
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err)
}

// SanitizeValidationError removes sensitive details from validation errors
// and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	// Check if this is likely a validation error message
	if strings.Contains(errMsg, "Field validation") {
		// Extract the field name and validation tag
		// Example format: "Key: 'LoginRequest.Username' Error:Field validation for 'Username' failed on the 'required' tag"
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			// Further split to get just the field validation part
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}

				// Create a cleaner error message
				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	// Fall back to a generic validation error message
	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}
