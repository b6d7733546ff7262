package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors
var (
	ErrEmptyUserID       = errors.New("user ID cannot be empty")
	ErrEmptyUsername     = errors.New("username cannot be empty")
	ErrUsernameTooLong   = errors.New("username must be at most 64 characters long")
	ErrEmptyPassword     = errors.New("password cannot be empty")
	ErrPasswordTooShort  = errors.New("password must be at least 12 characters long")
	ErrPasswordTooLong   = errors.New("password must be at most 72 characters long")
	ErrEmptyHashedPasswd = errors.New("hashed password cannot be empty")
)

// User represents a registered user of the study assistant.
// Registration is a precondition for every flashcard and quiz operation;
// operations against an unregistered user fail rather than auto-registering.
type User struct {
	ID             uuid.UUID `json:"id"`
	Username       string    `json:"username"`
	Password       string    `json:"-"` // Plaintext password, used only during registration
	HashedPassword string    `json:"-"` // Never expose password hash in JSON
	JoinedAt       time.Time `json:"joined_at"`
}

// NewUser creates a new User with the given username and password.
// It generates a new UUID for the user ID and sets the registration timestamp.
// Returns an error if validation fails.
//
// NOTE: This function only sets up the user structure with the plaintext
// password. The caller is responsible for hashing the password before storage.
func NewUser(username, password string) (*User, error) {
	user := &User{
		ID:       uuid.New(),
		Username: username,
		Password: password,
		JoinedAt: time.Now().UTC(),
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
// Returns an error if any field fails validation.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}

	if u.Username == "" {
		return ErrEmptyUsername
	}

	if len(u.Username) > 64 {
		return ErrUsernameTooLong
	}

	if u.Password != "" {
		if len(u.Password) < 12 {
			return ErrPasswordTooShort
		}
		// bcrypt's practical input limit
		if len(u.Password) > 72 {
			return ErrPasswordTooLong
		}
	} else if u.HashedPassword == "" {
		// Users loaded from the database carry only the hash.
		return ErrEmptyPassword
	}

	return nil
}
