package usecase

import (
	"errors"
	"fmt"
)

// Error taxonomy for the chat engine. Only validation and not-found abort a
// post before persistence; everything after the durable write is best-effort
// and logged instead of surfaced.
var (
	// ErrValidation marks malformed or missing envelope fields.
	ErrValidation = errors.New("live chat validation error")
	// ErrNotFound marks references to unknown or out-of-scope entities.
	ErrNotFound = errors.New("live chat entity not found")
	// ErrConflict marks a lost concurrent-create race. Resolved internally by
	// retrying as a lookup; callers should never observe it.
	ErrConflict = errors.New("live chat conflict")
	// ErrPersistence marks an infrastructure/repository failure.
	ErrPersistence = fmt.Errorf("live chat persistence error")
)

// CodeOf maps an error to the wire-format code sent back over the socket.
func CodeOf(err error) string {
	switch {
	case errors.Is(err, ErrValidation):
		return "VALIDATION_ERROR"
	case errors.Is(err, ErrNotFound):
		return "NOT_FOUND"
	case errors.Is(err, ErrConflict):
		return "CONFLICT"
	default:
		return "INTERNAL"
	}
}
