package services

import (
	"errors"
	"fmt"
)

// Common service errors
var (
	ErrNotFound        = errors.New("record not found")
	ErrInvalidPassword = errors.New("invalid password")
	ErrDuplicate       = errors.New("duplicate record")
)

// The failure taxonomy below keeps three corrective actions distinct for
// the caller: "fix your input" (ValidationError), "the system rejected this
// action" (ConflictError / PreconditionError) and "try again"
// (TransientError). AuthError is its own lane so re-authentication is never
// folded into a generic failure.

// ValidationError reports malformed or out-of-range input caught before any
// state is touched
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// NewValidationError creates a ValidationError with a formatted reason
func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// Precondition codes routed back to the caller so it can enter the right
// corrective sub-flow instead of showing a raw error.
const (
	PreconditionEndTripKMRequired = "end_trip_km_required"
)

// PreconditionError reports a rejected action whose precondition the caller
// can still satisfy. Code identifies the corrective sub-flow.
type PreconditionError struct {
	Code   string
	Reason string
}

func (e *PreconditionError) Error() string {
	return e.Reason
}

// ConflictError reports an action that is illegal from the current state
// and stays illegal until the state itself changes
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string {
	return e.Reason
}

// NewConflictError creates a ConflictError with a formatted reason
func NewConflictError(format string, args ...any) *ConflictError {
	return &ConflictError{Reason: fmt.Sprintf(format, args...)}
}

// TransientError reports a failure worth retrying: network, timeout,
// infrastructure. Services never retry internally; that policy belongs to
// the caller.
type TransientError struct {
	Reason string
	Err    error
}

func (e *TransientError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	return e.Reason
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// AuthError reports a missing or insufficient credential
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string {
	return e.Reason
}
