// Package response provides the unified JSON response envelope and writer
// helpers used by handlers built on transport.Context.
package response

import (
	"net/http"

	"github.com/kart-io/mongo-tenant/pkg/errors"
)

// Response is the unified response envelope.
type Response struct {
	// Code is the business error code (0 for success).
	Code int `json:"code"`

	// Message is the human-readable message.
	Message string `json:"message"`

	// Data is the response payload, omitted when empty.
	Data interface{} `json:"data,omitempty"`

	// Timestamp is the response time in Unix milliseconds, omitted unless enabled.
	Timestamp int64 `json:"timestamp,omitempty"`

	// RequestID correlates the response with a request, omitted when unset.
	RequestID string `json:"request_id,omitempty"`

	// HTTPCode is the HTTP status to send. Not serialized.
	HTTPCode int `json:"-"`
}

// HTTPStatus returns the HTTP status for the response,
// defaulting to 200 OK when unset.
func (r *Response) HTTPStatus() int {
	if r.HTTPCode != 0 {
		return r.HTTPCode
	}
	return http.StatusOK
}

// Success builds a successful response with data.
func Success(data interface{}) *Response {
	return &Response{
		Code:     errors.OK.Code,
		Message:  errors.OK.MessageEN,
		Data:     data,
		HTTPCode: http.StatusOK,
	}
}

// SuccessWithMessage builds a successful response with a custom message.
func SuccessWithMessage(message string, data interface{}) *Response {
	r := Success(data)
	r.Message = message
	return r
}

// Err builds an error response from an Errno.
func Err(e *errors.Errno) *Response {
	return &Response{
		Code:     e.Code,
		Message:  e.MessageEN,
		HTTPCode: e.HTTPStatus(),
	}
}

// ErrWithLang builds an error response with a language-specific message.
func ErrWithLang(e *errors.Errno, lang string) *Response {
	r := Err(e)
	r.Message = e.Message(lang)
	return r
}

// ErrorWithCode builds an error response from a raw code and message.
// The HTTP status is resolved from the errno registry when the code is
// known, and falls back to 500 otherwise.
func ErrorWithCode(code int, message string) *Response {
	httpCode := http.StatusInternalServerError
	if e, ok := errors.Lookup(code); ok {
		httpCode = e.HTTPStatus()
	}
	return &Response{
		Code:     code,
		Message:  message,
		HTTPCode: httpCode,
	}
}
