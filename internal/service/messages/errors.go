package messages

import (
	"errors"
	"strings"
)

// Common errors for message operations.
var (
	// ErrUnauthorized is returned when an operation that needs a principal gets none.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrMessageNotFound is returned when a message lookup matches nothing.
	ErrMessageNotFound = errors.New("message not found")
	// ErrNotFoundOrForbidden is returned when a delete matched no message owned by the requester.
	// Absent and not-owned messages are deliberately indistinguishable.
	ErrNotFoundOrForbidden = errors.New("message does not exist")
	// ErrAlreadyLiked is returned when a user likes the same message twice.
	ErrAlreadyLiked = errors.New("message already liked")
	// ErrLikeNotFound is returned when a user removes a like they never made.
	ErrLikeNotFound = errors.New("like not found")
)

// FieldError describes one failed validation rule.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is returned when a payload violates the message schema.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// IsValidation reports whether err carries field-level validation details.
func IsValidation(err error) (*ValidationError, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}
