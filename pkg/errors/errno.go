// Package errors provides the structured error code system used by
// mongo-tenant.
//
// Error Code Format: AABBCCC (7 digits)
//
//	AA  (00-99): Service/Module code - identifies the source module
//	BB  (00-99): Category code - identifies the error category
//	CCC (000-999): Sequence number - specific error within the category
//
// Category Codes (BB):
//
//	00: Success
//	01: Request/Validation errors (400)
//	04: Resource not found errors (404)
//	07: Internal errors (500)
//	08: Database errors (500)
//	11: Timeout errors (504)
//
// Usage:
//
//	// Using predefined errors
//	return errors.ErrInvalidDocument.WithMessagef("cannot insert %T", doc)
//
//	// Wrapping underlying errors
//	return errors.ErrDatabase.WithCause(err)
package errors

import (
	"fmt"
	"net/http"
	"sync"

	"google.golang.org/grpc/codes"
)

// Service codes (AA).
const (
	ServiceCommon  = 0  // shared errors
	ServiceStorage = 10 // storage/driver layer errors
)

// Category codes (BB).
const (
	CategorySuccess  = 0
	CategoryRequest  = 1
	CategoryResource = 4
	CategoryInternal = 7
	CategoryDatabase = 8
	CategoryTimeout  = 11
)

// MakeCode builds an error code from service, category and sequence parts.
func MakeCode(service, category, sequence int) int {
	return service*100000 + category*1000 + sequence
}

// Errno represents a structured error with code and messages.
type Errno struct {
	// Code is the unique error code
	Code int `json:"code"`

	// HTTP is the HTTP status code to return
	HTTP int `json:"-"`

	// GRPCCode is the gRPC status code
	GRPCCode codes.Code `json:"-"`

	// MessageEN is the English error message
	MessageEN string `json:"message"`

	// MessageZH is the Chinese error message
	MessageZH string `json:"message_zh,omitempty"`

	// cause is the underlying error
	cause error
}

// Error implements the error interface.
func (e *Errno) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("errno %d: %s: %v", e.Code, e.MessageEN, e.cause)
	}
	return fmt.Sprintf("errno %d: %s", e.Code, e.MessageEN)
}

// Unwrap returns the underlying cause.
func (e *Errno) Unwrap() error {
	return e.cause
}

// WithCause creates a new Errno with the given cause.
func (e *Errno) WithCause(cause error) *Errno {
	clone := *e
	clone.cause = cause
	return &clone
}

// WithMessage creates a new Errno with a custom English message.
func (e *Errno) WithMessage(msg string) *Errno {
	clone := *e
	clone.MessageEN = msg
	return &clone
}

// WithMessagef creates a new Errno with a formatted English message.
func (e *Errno) WithMessagef(format string, args ...interface{}) *Errno {
	return e.WithMessage(fmt.Sprintf(format, args...))
}

// Message returns the message based on language.
func (e *Errno) Message(lang string) string {
	if lang == "zh" || lang == "zh-CN" || lang == "zh_CN" {
		if e.MessageZH != "" {
			return e.MessageZH
		}
	}
	return e.MessageEN
}

// HTTPStatus returns the HTTP status code.
func (e *Errno) HTTPStatus() int {
	if e.HTTP != 0 {
		return e.HTTP
	}
	return http.StatusInternalServerError
}

// GRPCStatus returns the gRPC status code.
func (e *Errno) GRPCStatus() codes.Code {
	if e.GRPCCode != codes.OK {
		return e.GRPCCode
	}
	return codes.Internal
}

// Is checks if this error matches the target error code.
// Two Errnos match when their codes are equal, regardless of message
// overrides or attached causes.
func (e *Errno) Is(target error) bool {
	if t, ok := target.(*Errno); ok {
		return e.Code == t.Code
	}
	return false
}

// errnoRegistry stores all registered error codes for uniqueness validation.
var (
	errnoRegistry = make(map[int]*Errno)
	registryMu    sync.RWMutex
)

// Register registers an Errno and validates uniqueness.
// Panics if the code is already registered.
func Register(e *Errno) *Errno {
	registryMu.Lock()
	defer registryMu.Unlock()

	if existing, ok := errnoRegistry[e.Code]; ok {
		panic(fmt.Sprintf("errno code %d already registered: %s", e.Code, existing.MessageEN))
	}
	errnoRegistry[e.Code] = e
	return e
}

// Lookup returns the registered Errno for the given code.
func Lookup(code int) (*Errno, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	e, ok := errnoRegistry[code]
	return e, ok
}

// FromError converts any error to Errno.
// If err is already an Errno, returns it directly.
// Otherwise, wraps it as ErrInternal.
func FromError(err error) *Errno {
	if err == nil {
		return nil
	}
	if e, ok := err.(*Errno); ok {
		return e
	}
	return ErrInternal.WithCause(err)
}

// IsCode checks if the error has the given error code.
func IsCode(err error, code int) bool {
	if e, ok := err.(*Errno); ok {
		return e.Code == code
	}
	return false
}

// GetCode returns the error code from an error.
// Returns -1 if the error is not an Errno.
func GetCode(err error) int {
	if e, ok := err.(*Errno); ok {
		return e.Code
	}
	return -1
}
