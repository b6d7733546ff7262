package api

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/quizpal/quizpal-api/internal/api/shared"
	"github.com/quizpal/quizpal-api/internal/service"
	"github.com/quizpal/quizpal-api/internal/service/auth"
	"github.com/quizpal/quizpal-api/internal/store"
)

// AuthHandler handles authentication-related API requests.
type AuthHandler struct {
	userService *service.UserService
	jwtService  auth.JWTService
	validator   *validator.Validate
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(
	userService *service.UserService,
	jwtService auth.JWTService,
) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		jwtService:  jwtService,
		validator:   validator.New(),
	}
}

// Register handles the /auth/register endpoint.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest

	// Parse request
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	// Validate request
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	// Create user
	user, err := h.userService.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, store.ErrUsernameExists) {
			shared.RespondWithError(w, r, http.StatusConflict, "Username already taken")
			return
		}
		HandleAPIError(w, r, err, "Failed to create user")
		return
	}

	// Generate token so registration immediately yields a usable session
	token, err := h.jwtService.GenerateToken(r.Context(), user.ID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to generate authentication token")
		return
	}

	// Return success response
	shared.RespondWithJSON(w, r, http.StatusCreated, AuthResponse{
		UserID: user.ID,
		Token:  token,
	})
}

// Login handles the /auth/login endpoint.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest

	// Parse request
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	// Validate request
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	token, user, err := h.userService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		HandleAPIError(w, r, err, "Failed to authenticate user")
		return
	}

	// Return success response
	shared.RespondWithJSON(w, r, http.StatusOK, AuthResponse{
		UserID: user.ID,
		Token:  token,
	})
}
