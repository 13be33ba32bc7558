package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrInvalidID indicates the string is not a valid UUID
var ErrInvalidID = errors.New("invalid UUID format")

// FormCodeLength is the length of a public form code
const FormCodeLength = 8

const formCodeAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// NewID returns a time-ordered UUIDv7 string, falling back to a random
// UUID if the clock sequence cannot be read.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// ValidateID checks that id is a well-formed UUID of any version
func ValidateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidID, err)
	}
	return nil
}

// GenerateFormCode returns a random lowercase alphanumeric share code
func GenerateFormCode() string {
	random := uuid.New()
	code := make([]byte, FormCodeLength)
	for i := range code {
		code[i] = formCodeAlphabet[int(random[i])%len(formCodeAlphabet)]
	}
	return string(code)
}
