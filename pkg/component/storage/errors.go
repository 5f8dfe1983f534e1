package storage

import (
	"errors"
	"fmt"
)

// Common storage error types. These can be used directly or enriched
// with WithMessage / WithCause.
var (
	// ErrNotConnected indicates that the storage client is not connected
	// to the backend.
	ErrNotConnected = &Error{
		Code:    "NOT_CONNECTED",
		Message: "storage client is not connected",
	}

	// ErrConnectionFailed indicates that an attempt to connect to the
	// storage backend failed.
	ErrConnectionFailed = &Error{
		Code:    "CONNECTION_FAILED",
		Message: "failed to connect to storage backend",
	}

	// ErrTimeout indicates that a storage operation exceeded its deadline.
	ErrTimeout = &Error{
		Code:    "TIMEOUT",
		Message: "storage operation timed out",
	}

	// ErrInvalidConfig indicates that the storage configuration is invalid.
	// Detected during validation, before any connection attempt.
	ErrInvalidConfig = &Error{
		Code:    "INVALID_CONFIG",
		Message: "invalid storage configuration",
	}

	// ErrClientNotFound indicates that a requested client is not
	// registered in the manager.
	ErrClientNotFound = &Error{
		Code:    "CLIENT_NOT_FOUND",
		Message: "storage client not found",
	}

	// ErrClientAlreadyExists indicates that a client with the same name
	// is already registered in the manager.
	ErrClientAlreadyExists = &Error{
		Code:    "CLIENT_ALREADY_EXISTS",
		Message: "storage client already exists",
	}
)

// Error represents a storage-related error with a machine-readable code.
// It supports errors.Is matching by code and errors.As extraction.
type Error struct {
	// Code is a machine-readable error code (e.g. "NOT_CONNECTED").
	Code string

	// Message is a human-readable error message.
	Message string

	// Cause is the underlying error, if any.
	Cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches errors by code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithMessage returns a copy of the error with an updated message.
func (e *Error) WithMessage(msg string) *Error {
	clone := *e
	clone.Message = msg
	return &clone
}

// WithCause returns a copy of the error wrapping an underlying cause.
func (e *Error) WithCause(cause error) *Error {
	clone := *e
	clone.Cause = cause
	return &clone
}

// GetError extracts an *Error from an error chain.
func GetError(err error) (*Error, bool) {
	var serr *Error
	if errors.As(err, &serr) {
		return serr, true
	}
	return nil, false
}
