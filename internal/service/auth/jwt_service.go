package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Claims holds the validated claims extracted from a token.
type Claims struct {
	UserID    uuid.UUID `json:"user_id"`
	Subject   string    `json:"sub,omitempty"`
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}

// JWTService defines the interface for access-token operations.
// This service issues short-lived access tokens only; there is no refresh
// flow, clients re-authenticate when a token expires.
type JWTService interface {
	// GenerateToken creates a signed access token carrying the user's ID.
	GenerateToken(ctx context.Context, userID uuid.UUID) (string, error)

	// ValidateToken validates an access token and returns its claims,
	// or an error if validation fails (expired, invalid signature, etc.).
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}
