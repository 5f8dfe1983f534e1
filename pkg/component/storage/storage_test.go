package storage_test

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/kart-io/mongo-tenant/pkg/component/storage"
)

// fakeClient is a func-field test double for storage.Client.
type fakeClient struct {
	name      string
	pingFunc  func(ctx context.Context) error
	closeFunc func() error
}

func (f *fakeClient) Name() string {
	return f.name
}

func (f *fakeClient) Ping(ctx context.Context) error {
	if f.pingFunc != nil {
		return f.pingFunc(ctx)
	}
	return nil
}

func (f *fakeClient) Close() error {
	if f.closeFunc != nil {
		return f.closeFunc()
	}
	return nil
}

func (f *fakeClient) Health() storage.HealthChecker {
	return func() error {
		return f.Ping(context.Background())
	}
}

func TestManagerRegisterAndGet(t *testing.T) {
	mgr := storage.NewManager()
	client := &fakeClient{name: "fake"}

	if err := mgr.Register("mongo-primary", client); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	got, err := mgr.Get("mongo-primary")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != client {
		t.Error("Get returned a different client")
	}

	if !mgr.Has("mongo-primary") {
		t.Error("Has should report registered clients")
	}
	if mgr.Count() != 1 {
		t.Errorf("Count = %d, want 1", mgr.Count())
	}
}

func TestManagerRegisterValidation(t *testing.T) {
	mgr := storage.NewManager()

	if err := mgr.Register("", &fakeClient{}); !stderrors.Is(err, storage.ErrInvalidConfig) {
		t.Errorf("empty name should fail with ErrInvalidConfig, got %v", err)
	}
	if err := mgr.Register("x", nil); !stderrors.Is(err, storage.ErrInvalidConfig) {
		t.Errorf("nil client should fail with ErrInvalidConfig, got %v", err)
	}

	if err := mgr.Register("dup", &fakeClient{}); err != nil {
		t.Fatalf("first Register failed: %v", err)
	}
	if err := mgr.Register("dup", &fakeClient{}); !stderrors.Is(err, storage.ErrClientAlreadyExists) {
		t.Errorf("duplicate name should fail with ErrClientAlreadyExists, got %v", err)
	}
}

func TestManagerGetUnknown(t *testing.T) {
	mgr := storage.NewManager()

	_, err := mgr.Get("nope")
	if !stderrors.Is(err, storage.ErrClientNotFound) {
		t.Errorf("expected ErrClientNotFound, got %v", err)
	}
}

func TestManagerHealthCheckAll(t *testing.T) {
	mgr := storage.NewManager()
	mgr.MustRegister("healthy", &fakeClient{name: "a"})
	mgr.MustRegister("broken", &fakeClient{
		name: "b",
		pingFunc: func(ctx context.Context) error {
			return fmt.Errorf("connection refused")
		},
	})

	statuses := mgr.HealthCheckAll(context.Background())
	if len(statuses) != 2 {
		t.Fatalf("expected 2 statuses, got %d", len(statuses))
	}
	if !statuses["healthy"].Healthy {
		t.Error("healthy client reported unhealthy")
	}
	if statuses["broken"].Healthy {
		t.Error("broken client reported healthy")
	}
	if statuses["broken"].Error == nil {
		t.Error("broken client status should carry the ping error")
	}

	if mgr.AllHealthy(context.Background()) {
		t.Error("AllHealthy should be false with a broken client")
	}
}

func TestManagerCloseAll(t *testing.T) {
	mgr := storage.NewManager()

	closed := 0
	for i := 0; i < 3; i++ {
		mgr.MustRegister(fmt.Sprintf("client-%d", i), &fakeClient{
			closeFunc: func() error {
				closed++
				return nil
			},
		})
	}

	if err := mgr.CloseAll(); err != nil {
		t.Fatalf("CloseAll failed: %v", err)
	}
	if closed != 3 {
		t.Errorf("closed %d clients, want 3", closed)
	}
	if mgr.Count() != 0 {
		t.Errorf("manager should be empty after CloseAll, has %d", mgr.Count())
	}
}

func TestManagerCloseAllReturnsFirstError(t *testing.T) {
	mgr := storage.NewManager()
	mgr.MustRegister("bad", &fakeClient{
		closeFunc: func() error { return fmt.Errorf("flush failed") },
	})
	mgr.MustRegister("good", &fakeClient{})

	if err := mgr.CloseAll(); err == nil {
		t.Error("CloseAll should surface the close failure")
	}
	if mgr.Count() != 0 {
		t.Error("CloseAll should clear the registry even on failure")
	}
}

func TestErrorMatching(t *testing.T) {
	err := storage.ErrConnectionFailed.
		WithMessage("failed to connect to MongoDB at localhost:27017").
		WithCause(fmt.Errorf("dial tcp: connection refused"))

	if !stderrors.Is(err, storage.ErrConnectionFailed) {
		t.Error("enriched errors must keep matching their base code")
	}

	serr, ok := storage.GetError(fmt.Errorf("wrapped: %w", err))
	if !ok {
		t.Fatal("GetError should find the storage error in the chain")
	}
	if serr.Code != "CONNECTION_FAILED" {
		t.Errorf("unexpected code: %s", serr.Code)
	}
}
