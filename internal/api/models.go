package api

import (
	"github.com/google/uuid"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=1,max=64"`
	Password string `json:"password" validate:"required,min=12,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Username string `json:"username" validate:"required,min=1,max=64"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	// UserID is the unique identifier for the authenticated user
	UserID uuid.UUID `json:"user_id"`

	// Token is the JWT access token used for API authorization
	Token string `json:"token"`
}

// CreateFlashcardRequest defines the payload for authoring a new flashcard.
type CreateFlashcardRequest struct {
	Question   string `json:"question"   validate:"required,min=1"`
	Answer     string `json:"answer"     validate:"required,min=1"`
	Topic      string `json:"topic"      validate:"required,min=1,max=128"`
	Difficulty int    `json:"difficulty" validate:"required,min=1,max=10"`
}

// StartQuizRequest defines the payload for starting a quiz session.
type StartQuizRequest struct {
	Topic string `json:"topic" validate:"required,min=1,max=128"`
}

// SubmitAnswerRequest defines the payload for answering the current question.
type SubmitAnswerRequest struct {
	Answer string `json:"answer" validate:"required"`
}
