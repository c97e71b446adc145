package models

import (
	"errors"
	"fmt"
)

// Sentinel errors inspected by the HTTP boundary. Controllers map these to
// status codes with errors.Is; no caller matches on message text.
var (
	// ErrNotFound means the entity does not exist for the resolved tenant.
	// It is only returned after tenant scoping is applied, so it never
	// reveals cross-tenant existence.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized covers missing or invalid credentials, including
	// missing, expired, or inactive API keys. Expired and unknown keys are
	// deliberately indistinguishable to the caller.
	ErrUnauthorized = errors.New("unauthorized")
)

// ValidationError rejects a request before any persistence, naming the
// offending field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError builds a ValidationError for the given field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IllegalTransitionError names the current appointment state and the
// operation that is not allowed from it.
type IllegalTransitionError struct {
	Current   AppointmentStatus
	Operation string
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("cannot %s appointment in status %q", e.Operation, e.Current)
}
