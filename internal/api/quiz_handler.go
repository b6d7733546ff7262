package api

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/quizpal/quizpal-api/internal/api/shared"
	"github.com/quizpal/quizpal-api/internal/service/quiz"
)

// QuizHandler handles quiz session HTTP requests. All endpoints operate on
// the caller's own session; there is at most one per user.
type QuizHandler struct {
	registry  *quiz.Registry
	validator *validator.Validate
}

// NewQuizHandler creates a new QuizHandler.
func NewQuizHandler(registry *quiz.Registry) *QuizHandler {
	return &QuizHandler{
		registry:  registry,
		validator: validator.New(),
	}
}

// StartQuiz handles POST /api/quiz/start requests.
func (h *QuizHandler) StartQuiz(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	var req StartQuizRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	result, err := h.registry.Start(r.Context(), userID, req.Topic)
	if err != nil {
		if errors.Is(err, quiz.ErrNoCardsForTopic) {
			shared.RespondWithError(w, r, http.StatusNotFound, "No flashcards found for that topic")
			return
		}
		HandleAPIError(w, r, err, "Failed to start quiz")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, result)
}

// SubmitAnswer handles POST /api/quiz/answer requests.
func (h *QuizHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	var req SubmitAnswerRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	outcome, err := h.registry.SubmitAnswer(r.Context(), userID, req.Answer)
	if err != nil {
		if errors.Is(err, quiz.ErrNoActiveSession) {
			shared.RespondWithError(w, r, http.StatusConflict, "No quiz in progress")
			return
		}
		HandleAPIError(w, r, err, "Failed to submit answer")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, outcome)
}

// StopQuiz handles POST /api/quiz/stop requests.
func (h *QuizHandler) StopQuiz(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	result, err := h.registry.Stop(r.Context(), userID)
	if err != nil {
		if errors.Is(err, quiz.ErrNoActiveSession) {
			shared.RespondWithError(w, r, http.StatusConflict, "No quiz in progress")
			return
		}
		HandleAPIError(w, r, err, "Failed to stop quiz")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, result)
}
