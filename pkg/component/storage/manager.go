package storage

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Manager is a registry for storage clients with centralized health
// checking and lifecycle management. It is safe for concurrent use.
//
// Example usage:
//
//	mgr := storage.NewManager()
//	mgr.MustRegister("mongo-primary", mongoClient)
//
//	statuses := mgr.HealthCheckAll(ctx)
//
//	defer mgr.CloseAll()
type Manager struct {
	mu      sync.RWMutex
	clients map[string]Client
}

// NewManager creates a new storage manager.
func NewManager() *Manager {
	return &Manager{
		clients: make(map[string]Client),
	}
}

// Register registers a client under a unique name.
func (m *Manager) Register(name string, client Client) error {
	if name == "" {
		return ErrInvalidConfig.WithMessage("client name cannot be empty")
	}
	if client == nil {
		return ErrInvalidConfig.WithMessage("client cannot be nil")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.clients[name]; exists {
		return ErrClientAlreadyExists.WithMessage(fmt.Sprintf("client %q is already registered", name))
	}
	m.clients[name] = client
	return nil
}

// MustRegister registers a client and panics on failure. Intended for
// initialization code where failure is fatal.
func (m *Manager) MustRegister(name string, client Client) {
	if err := m.Register(name, client); err != nil {
		panic(fmt.Sprintf("failed to register storage client: %v", err))
	}
}

// Unregister removes a client from the manager without closing it.
func (m *Manager) Unregister(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.clients[name]; !exists {
		return ErrClientNotFound.WithMessage(fmt.Sprintf("client %q not found", name))
	}
	delete(m.clients, name)
	return nil
}

// Get retrieves a client by name.
func (m *Manager) Get(name string) (Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	client, exists := m.clients[name]
	if !exists {
		return nil, ErrClientNotFound.WithMessage(fmt.Sprintf("client %q not found", name))
	}
	return client, nil
}

// Has reports whether a client with the given name is registered.
func (m *Manager) Has(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, exists := m.clients[name]
	return exists
}

// List returns the names of all registered clients.
func (m *Manager) List() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.clients))
	for name := range m.clients {
		names = append(names, name)
	}
	return names
}

// Count returns the number of registered clients.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients)
}

// HealthCheck pings a single client and reports its status with latency.
func (m *Manager) HealthCheck(ctx context.Context, name string) HealthStatus {
	client, err := m.Get(name)
	if err != nil {
		return HealthStatus{Name: name, Healthy: false, Error: err}
	}
	return check(ctx, name, client)
}

// HealthCheckAll pings every registered client concurrently and returns
// a map of client names to their status.
func (m *Manager) HealthCheckAll(ctx context.Context) map[string]HealthStatus {
	m.mu.RLock()
	clients := make(map[string]Client, len(m.clients))
	for name, client := range m.clients {
		clients[name] = client
	}
	m.mu.RUnlock()

	var (
		statusMu sync.Mutex
		wg       sync.WaitGroup
	)
	statuses := make(map[string]HealthStatus, len(clients))

	for name, client := range clients {
		wg.Add(1)
		go func(name string, client Client) {
			defer wg.Done()
			status := check(ctx, name, client)

			statusMu.Lock()
			statuses[name] = status
			statusMu.Unlock()
		}(name, client)
	}

	wg.Wait()
	return statuses
}

// AllHealthy reports whether every registered client passes its check.
func (m *Manager) AllHealthy(ctx context.Context) bool {
	for _, status := range m.HealthCheckAll(ctx) {
		if !status.Healthy {
			return false
		}
	}
	return true
}

// Close closes a specific client and removes it from the manager.
func (m *Manager) Close(name string) error {
	client, err := m.Get(name)
	if err != nil {
		return err
	}
	if err := client.Close(); err != nil {
		return err
	}
	return m.Unregister(name)
}

// CloseAll closes every registered client, continuing past failures,
// and returns the first error encountered. Call during shutdown.
func (m *Manager) CloseAll() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var firstErr error
	for name, client := range m.clients {
		if err := client.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to close client %q: %w", name, err)
		}
		delete(m.clients, name)
	}
	return firstErr
}

func check(ctx context.Context, name string, client Client) HealthStatus {
	start := time.Now()
	err := client.Ping(ctx)

	return HealthStatus{
		Name:    name,
		Healthy: err == nil,
		Latency: time.Since(start),
		Error:   err,
	}
}
