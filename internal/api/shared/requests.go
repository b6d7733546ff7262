package shared

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// maxRequestBodyBytes bounds request bodies; quiz answers and flashcards are
// small, so 1 MiB is generous.
const maxRequestBodyBytes = 1 << 20

// ErrEmptyRequestBody is returned when a request body is required but missing.
var ErrEmptyRequestBody = errors.New("request body cannot be empty")

// DecodeJSON decodes a JSON request body into the given destination,
// rejecting unknown fields and oversized bodies.
func DecodeJSON(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return ErrEmptyRequestBody
	}

	r.Body = http.MaxBytesReader(nil, r.Body, maxRequestBodyBytes)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("failed to decode request body: %w", err)
	}

	return nil
}
