package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrValidation marks a local precondition violation; nothing was sent to the remote service.
	ErrValidation = errors.New("validation failed")
	// ErrAuthFailure indicates the remote service rejected the supplied credentials.
	ErrAuthFailure = errors.New("authentication failed")
	// ErrUnauthenticated is returned when an operation needs a session and none is active.
	ErrUnauthenticated = errors.New("not authenticated")
	// ErrForbidden is returned when the current user lacks the role an operation needs.
	ErrForbidden = errors.New("forbidden")
	// ErrRemoteUnavailable covers transport failures talking to the remote service.
	ErrRemoteUnavailable = errors.New("remote service unavailable")
	// ErrCheckoutFailed wraps every failed order submission.
	ErrCheckoutFailed = errors.New("checkout failed")
)

// ValidationError describes which input was rejected and why.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation: " + e.Reason
	}
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// NewValidationError builds a ValidationError for field.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// AuthError carries the reason the remote service gave for rejecting credentials.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string {
	if e.Reason == "" {
		return ErrAuthFailure.Error()
	}
	return "authentication failed: " + e.Reason
}

func (e *AuthError) Is(target error) bool { return target == ErrAuthFailure }

// CheckoutError is returned by checkout when the order could not be recorded remotely.
// The cart is untouched whenever a CheckoutError is returned.
type CheckoutError struct {
	Reason string
	Err    error
}

func (e *CheckoutError) Error() string {
	return "checkout failed: " + e.Reason
}

func (e *CheckoutError) Is(target error) bool { return target == ErrCheckoutFailed }

func (e *CheckoutError) Unwrap() error { return e.Err }
