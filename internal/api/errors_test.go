package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

	"github.com/quizpal/quizpal-api/internal/service/auth"
	"github.com/quizpal/quizpal-api/internal/service/quiz"
	"github.com/quizpal/quizpal-api/internal/store"
)

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		err      error
		expected int
	}{
		{"invalid token", auth.ErrInvalidToken, http.StatusUnauthorized},
		{"expired token", auth.ErrExpiredToken, http.StatusUnauthorized},
		{"invalid credentials", auth.ErrInvalidCredentials, http.StatusUnauthorized},
		{"user not found", store.ErrUserNotFound, http.StatusNotFound},
		{"card not found", store.ErrCardNotFound, http.StatusNotFound},
		{"username taken", store.ErrUsernameExists, http.StatusConflict},
		{"no cards for topic", quiz.ErrNoCardsForTopic, http.StatusConflict},
		{"no active session", quiz.ErrNoActiveSession, http.StatusConflict},
		{"session closed", quiz.ErrSessionClosed, http.StatusConflict},
		{"invalid entity", store.ErrInvalidEntity, http.StatusBadRequest},
		{"wrapped sentinel", fmt.Errorf("context: %w", store.ErrCardNotFound), http.StatusNotFound},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
		{"report write failure", quiz.ErrReportWriteFailed, http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, MapErrorToStatusCode(tc.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		err      error
		expected string
	}{
		{"nil error", nil, "An unexpected error occurred"},
		{"invalid credentials", auth.ErrInvalidCredentials, "Invalid username or password"},
		{"no quiz", quiz.ErrNoActiveSession, "No quiz in progress"},
		{"no cards", quiz.ErrNoCardsForTopic, "No flashcards found for that topic"},
		{
			"internal details never leak",
			errors.New("pq: connection to 10.0.0.5:5432 refused"),
			"An unexpected error occurred",
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			message := GetSafeErrorMessage(tc.err)
			assert.Equal(t, tc.expected, message)
			if tc.err != nil {
				assert.NotContains(t, message, "10.0.0.5")
			}
		})
	}
}

func TestSanitizeValidationError(t *testing.T) {
	t.Parallel()

	validate := validator.New()

	type loginForm struct {
		Username string `validate:"required"`
		Password string `validate:"required,min=12"`
	}

	t.Run("missing field", func(t *testing.T) {
		t.Parallel()
		err := validate.Struct(loginForm{Password: "longenoughpassword"})
		message := SanitizeValidationError(err)
		assert.Contains(t, message, "Username")
		assert.Contains(t, message, "required")
	})

	t.Run("too short field", func(t *testing.T) {
		t.Parallel()
		err := validate.Struct(loginForm{Username: "sam", Password: "short"})
		message := SanitizeValidationError(err)
		assert.Contains(t, message, "Password")
		assert.Contains(t, message, "too short")
	})

	t.Run("non-validation error falls back to generic message", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "Validation error", SanitizeValidationError(errors.New("boom")))
	})
}
