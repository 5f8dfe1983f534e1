// Package transport provides the framework-agnostic HTTP request context
// consumed by mongo-tenant helpers that need to answer the current request,
// such as Collection.FindOneOr404.
//
// Concrete web frameworks plug in through bridges (see pkg/bridge/gin).
package transport

import (
	"context"
	"net/http"
)

// HandlerFunc is the HTTP handler function signature.
type HandlerFunc func(Context)

// Context represents the HTTP request context.
// This interface is framework-agnostic and can be implemented by any HTTP framework.
type Context interface {
	// Request returns the underlying request context.
	Request() context.Context

	// HTTPRequest returns the underlying *http.Request.
	HTTPRequest() *http.Request

	// Param returns the URL path parameter value.
	Param(key string) string
	// Query returns the query parameter value.
	Query(key string) string
	// Header returns the request header value.
	Header(key string) string
	// SetHeader sets a response header.
	SetHeader(key, value string)

	// Bind binds the request body to the given struct.
	Bind(v interface{}) error
	// JSON sends a JSON response.
	JSON(code int, v interface{})
	// String sends a string response.
	String(code int, s string)

	// GetRawContext returns the underlying framework context (gin.Context, etc).
	// This should only be used when framework-specific features are needed.
	GetRawContext() interface{}
}
