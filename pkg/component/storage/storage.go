// Package storage defines the abstractions shared by storage backend
// components in mongo-tenant.
//
// It provides the Client interface every backend implements, a Factory
// interface for dependency injection, standardized error types, and a
// Manager for registering and health-checking multiple clients.
package storage

import (
	"context"
	"time"
)

// HealthChecker is a function that verifies a client's connectivity.
type HealthChecker func() error

// HealthStatus describes the outcome of a health check.
type HealthStatus struct {
	// Name is the registered client name.
	Name string

	// Healthy reports whether the check succeeded.
	Healthy bool

	// Latency is the duration the check took.
	Latency time.Duration

	// Error is the failure cause, nil when healthy.
	Error error
}

// Client is the base interface implemented by all storage clients.
type Client interface {
	// Name returns the storage type identifier (e.g. "mongodb").
	Name() string

	// Ping checks if the connection to the backend is alive.
	Ping(ctx context.Context) error

	// Close closes the connection gracefully. Idempotent.
	Close() error

	// Health returns a HealthChecker bound to this client.
	Health() HealthChecker
}

// Factory creates storage clients from encapsulated configuration.
type Factory interface {
	// Create creates and initializes a new client.
	Create(ctx context.Context) (Client, error)
}
