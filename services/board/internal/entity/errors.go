package entity

import (
	"errors"
	"fmt"
)

var (
	// ErrPostNotFound means the referenced post id does not resolve. Terminal.
	ErrPostNotFound = errors.New("post not found")

	// ErrConflict is returned by the store when a compare-and-swap lost a race.
	// The mutation use case retries on it and never returns it to callers.
	ErrConflict = errors.New("concurrent update conflict")
)

// ValidationError rejects a field before anything is persisted.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
