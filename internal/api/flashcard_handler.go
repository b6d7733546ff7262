package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/quizpal/quizpal-api/internal/api/shared"
	"github.com/quizpal/quizpal-api/internal/domain"
	"github.com/quizpal/quizpal-api/internal/service"
)

// FlashcardResponse represents the response data for a flashcard.
// Scheduling state is included so clients can show when a card is next due.
type FlashcardResponse struct {
	ID            string     `json:"id"`
	Question      string     `json:"question"`
	Answer        string     `json:"answer"`
	Topic         string     `json:"topic"`
	Difficulty    int        `json:"difficulty"`
	IntervalDays  int        `json:"interval_days"`
	NextReviewAt  time.Time  `json:"next_review_at"`
	TimesReviewed int        `json:"times_reviewed"`
	LastReviewed  *time.Time `json:"last_reviewed,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// QuizReportResponse represents the response data for a past quiz.
type QuizReportResponse struct {
	ID                string    `json:"id"`
	Topic             string    `json:"topic"`
	Score             int       `json:"score"`
	TotalQuestions    int       `json:"total_questions"`
	AnsweredQuestions int       `json:"answered_questions"`
	Completed         bool      `json:"completed"`
	TakenAt           time.Time `json:"taken_at"`
}

// FlashcardHandler handles flashcard-related HTTP requests.
type FlashcardHandler struct {
	flashcardService *service.FlashcardService
	validator        *validator.Validate
}

// NewFlashcardHandler creates a new FlashcardHandler.
func NewFlashcardHandler(flashcardService *service.FlashcardService) *FlashcardHandler {
	return &FlashcardHandler{
		flashcardService: flashcardService,
		validator:        validator.New(),
	}
}

// CreateFlashcard handles POST /api/flashcards requests.
func (h *FlashcardHandler) CreateFlashcard(w http.ResponseWriter, r *http.Request) {
	// Extract user ID from context (set by auth middleware)
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	// Parse request body
	var req CreateFlashcardRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	// Validate request
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	card, err := h.flashcardService.CreateFlashcard(
		r.Context(),
		userID,
		req.Question,
		req.Answer,
		req.Topic,
		req.Difficulty,
	)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create flashcard")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, flashcardToResponse(card))
}

// ListFlashcards handles GET /api/flashcards?topic=... requests.
// Cards are returned in quiz order (easiest first).
func (h *FlashcardHandler) ListFlashcards(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	topic := r.URL.Query().Get("topic")
	if topic == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Query parameter 'topic' is required")
		return
	}

	cards, err := h.flashcardService.ListFlashcards(r.Context(), userID, topic)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list flashcards")
		return
	}

	responses := make([]FlashcardResponse, 0, len(cards))
	for _, card := range cards {
		responses = append(responses, flashcardToResponse(card))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, responses)
}

// ListReports handles GET /api/reports requests, returning the user's quiz
// history, most recent first.
func (h *FlashcardHandler) ListReports(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	limit := 0
	if rawLimit := r.URL.Query().Get("limit"); rawLimit != "" {
		parsed, err := strconv.Atoi(rawLimit)
		if err != nil || parsed < 1 {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Query parameter 'limit' must be a positive integer")
			return
		}
		limit = parsed
	}

	reports, err := h.flashcardService.ListReports(r.Context(), userID, limit)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list quiz reports")
		return
	}

	responses := make([]QuizReportResponse, 0, len(reports))
	for _, report := range reports {
		responses = append(responses, reportToResponse(report))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, responses)
}

// flashcardToResponse converts a domain.Flashcard to a FlashcardResponse.
func flashcardToResponse(card *domain.Flashcard) FlashcardResponse {
	return FlashcardResponse{
		ID:            card.ID.String(),
		Question:      card.Question,
		Answer:        card.Answer,
		Topic:         card.Topic,
		Difficulty:    card.Difficulty,
		IntervalDays:  card.IntervalDays,
		NextReviewAt:  card.NextReviewAt,
		TimesReviewed: card.TimesReviewed,
		LastReviewed:  card.LastReviewed,
		CreatedAt:     card.CreatedAt,
	}
}

// reportToResponse converts a domain.QuizReport to a QuizReportResponse.
func reportToResponse(report *domain.QuizReport) QuizReportResponse {
	return QuizReportResponse{
		ID:                report.ID.String(),
		Topic:             report.Topic,
		Score:             report.Score,
		TotalQuestions:    report.TotalQuestions,
		AnsweredQuestions: report.AnsweredQuestions,
		Completed:         report.Completed,
		TakenAt:           report.TakenAt,
	}
}
