// Package domain defines the core business entities and errors.
package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidTaskStatus is returned when a task status is outside the
	// todo/inprogress/completed set.
	ErrInvalidTaskStatus = errors.New("invalid task status")

	// ErrForbidden is returned when an authenticated principal attempts an
	// operation on a resource it does not own.
	ErrForbidden = errors.New("operation not permitted for this principal")
)
