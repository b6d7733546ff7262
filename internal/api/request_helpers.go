package api

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/quizpal/quizpal-api/internal/api/shared"
)

// getUserIDFromContext extracts the authenticated user's UUID from the request context.
// The user ID is expected to be placed in the context by the authentication middleware.
//
// Returns:
//   - (uuid.UUID, true): The user's UUID if successfully extracted
//   - (uuid.UUID{}, false): A zero UUID and false if user ID not found or invalid
func getUserIDFromContext(r *http.Request) (uuid.UUID, bool) {
	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return uuid.Nil, false
	}
	return userID, true
}
