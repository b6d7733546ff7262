package auth

import "errors"

// Common authentication errors
var (
	// ErrInvalidToken indicates the token is malformed, has an invalid
	// signature, or otherwise failed validation.
	ErrInvalidToken = errors.New("invalid token")

	// ErrExpiredToken indicates the token's expiry time has passed.
	ErrExpiredToken = errors.New("token expired")

	// ErrInvalidCredentials indicates the username/password pair did not match
	// a registered user. Deliberately indistinguishable between "no such user"
	// and "wrong password".
	ErrInvalidCredentials = errors.New("invalid credentials")
)
