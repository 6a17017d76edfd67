package utils

import "github.com/google/uuid"

// NewID returns a random opaque identifier for messages and likes.
func NewID() string {
	return uuid.NewString()
}
