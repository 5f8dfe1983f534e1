package mongodb

import (
	"context"

	"github.com/kart-io/mongo-tenant/pkg/component/storage"
)

// Factory creates MongoDB clients from encapsulated options. It
// implements storage.Factory.
type Factory struct {
	opts *Options
}

// NewFactory creates a MongoDB client factory. A nil opts falls back to
// defaults.
func NewFactory(opts *Options) *Factory {
	if opts == nil {
		opts = NewOptions()
	}
	return &Factory{opts: opts}
}

// Create creates and connects a new MongoDB client.
func (f *Factory) Create(ctx context.Context) (storage.Client, error) {
	return NewWithContext(ctx, f.opts)
}

// Options returns the factory's options.
func (f *Factory) Options() *Options {
	return f.opts
}

// Clone returns a factory with a copy of the options, so callers can
// tweak a variant without affecting the original.
func (f *Factory) Clone() *Factory {
	opts := *f.opts
	return &Factory{opts: &opts}
}
