package service

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the resource does not exist or is not visible to the caller
	ErrNotFound = errors.New("not found")
	// ErrForbidden indicates the resource belongs to another user
	ErrForbidden = errors.New("forbidden")
	// ErrConflict indicates a uniqueness conflict such as a registered email
	ErrConflict = errors.New("conflict")
	// ErrFormClosed indicates the form's close date has passed
	ErrFormClosed = errors.New("form is closed")
	// ErrResponseLimit indicates the form has collected its maximum number of responses
	ErrResponseLimit = errors.New("form response limit reached")
	// ErrInvalidCredentials indicates an unknown email or wrong password
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError reports a single invalid input field
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
