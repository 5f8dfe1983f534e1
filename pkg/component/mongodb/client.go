// Package mongodb provides a MongoDB storage component built around
// tenant-aware handles.
//
// The component owns connection configuration, pooling, health checks
// and lifecycle, and hands out tenant.Database / tenant.Collection
// handles for data access.
//
// Example usage:
//
//	opts := mongodb.NewOptions()
//	opts.Host = "127.0.0.1"
//	opts.Database = "app"
//	opts.TenantField = "tenant_id"
//
//	client, err := mongodb.New(opts)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close()
//
//	users := client.Collection("users")
package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	mongoopts "go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/kart-io/mongo-tenant/pkg/component/storage"
	"github.com/kart-io/mongo-tenant/pkg/tenant"
)

// Client is a MongoDB storage client. It implements storage.Client and
// exposes tenant-aware database and collection handles.
type Client struct {
	client   *mongo.Client
	handle   *tenant.Client
	database *tenant.Database
	opts     *Options
	log      *zap.Logger
}

// New creates a MongoDB client with the given options and a background
// context. See NewWithContext.
func New(opts *Options) (*Client, error) {
	return NewWithContext(context.Background(), opts)
}

// NewWithContext creates a MongoDB client, connects, and verifies
// connectivity with a ping bounded by opts.ConnectTimeout.
func NewWithContext(ctx context.Context, opts *Options) (*Client, error) {
	if err := validateOptions(opts); err != nil {
		return nil, err
	}

	log := zap.L().Named("mongodb")

	clientOpts := mongoopts.Client().ApplyURI(BuildURI(opts))
	if opts.MaxPoolSize > 0 {
		clientOpts.SetMaxPoolSize(opts.MaxPoolSize)
	}
	if opts.MinPoolSize > 0 {
		clientOpts.SetMinPoolSize(opts.MinPoolSize)
	}
	if opts.MaxConnIdleTime > 0 {
		clientOpts.SetMaxConnIdleTime(opts.MaxConnIdleTime)
	}
	if opts.ConnectTimeout > 0 {
		clientOpts.SetConnectTimeout(opts.ConnectTimeout)
	}
	if opts.SocketTimeout > 0 {
		clientOpts.SetSocketTimeout(opts.SocketTimeout)
	}
	if opts.ServerSelectionTimeout > 0 {
		clientOpts.SetServerSelectionTimeout(opts.ServerSelectionTimeout)
	}
	if opts.LogCommands {
		clientOpts.SetMonitor(CommandLogger(log))
	}

	mc, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, storage.ErrConnectionFailed.
			WithMessage(fmt.Sprintf("failed to connect to MongoDB at %s:%d", opts.Host, opts.Port)).
			WithCause(err)
	}

	pingCtx := ctx
	if opts.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, opts.ConnectTimeout)
		defer cancel()
	}
	if err := mc.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = mc.Disconnect(context.Background())
		return nil, storage.ErrConnectionFailed.
			WithMessage(fmt.Sprintf("failed to ping MongoDB at %s:%d", opts.Host, opts.Port)).
			WithCause(err)
	}

	handle := tenant.NewClient(mc)

	c := &Client{
		client: mc,
		handle: handle,
		opts:   opts,
		log:    log,
	}
	if opts.Database != "" {
		c.database = handle.Database(opts.Database)
	}

	log.Info("connected to MongoDB",
		zap.String("host", opts.Host),
		zap.Int("port", opts.Port),
		zap.String("database", opts.Database),
	)

	return c, nil
}

func validateOptions(opts *Options) error {
	if opts == nil {
		return storage.ErrInvalidConfig.WithMessage("mongodb options cannot be nil")
	}
	if err := opts.Validate(); err != nil {
		return storage.ErrInvalidConfig.WithCause(err)
	}
	return nil
}

// Name returns the storage type identifier.
func (c *Client) Name() string {
	return "mongodb"
}

// Ping checks the connection to MongoDB.
func (c *Client) Ping(ctx context.Context) error {
	if c.client == nil {
		return storage.ErrNotConnected
	}
	return c.client.Ping(ctx, readpref.Primary())
}

// Close disconnects from MongoDB. Idempotent.
func (c *Client) Close() error {
	if c.client == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := c.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect from MongoDB: %w", err)
	}
	c.client = nil
	c.database = nil
	return nil
}

// Health returns a HealthChecker bound to this client with a 3 second
// deadline per check.
func (c *Client) Health() storage.HealthChecker {
	return func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		return c.Ping(ctx)
	}
}

// Database returns the tenant-aware handle for the configured default
// database, or nil when Options.Database was empty.
func (c *Client) Database() *tenant.Database {
	return c.database
}

// DatabaseByName returns a tenant-aware handle for the named database.
// The handle starts unscoped.
func (c *Client) DatabaseByName(name string) *tenant.Database {
	return c.handle.Database(name)
}

// DatabaseForTenant returns a handle for the default database scoped to
// the given tenant predicate. The default database handle itself stays
// unscoped.
func (c *Client) DatabaseForTenant(p tenant.Predicate) *tenant.Database {
	if c.database == nil {
		return nil
	}
	return c.database.WithTenant(p)
}

// Collection returns a tenant-aware handle for a collection in the
// default database, or nil when no default database is configured.
func (c *Client) Collection(name string) *tenant.Collection {
	if c.database == nil {
		return nil
	}
	return c.database.Collection(name)
}

// TenantClient returns the tenant-aware wrapper around the driver
// client.
func (c *Client) TenantClient() *tenant.Client {
	return c.handle
}

// Raw returns the underlying mongo.Client. Handles obtained through it
// bypass tenant scoping.
func (c *Client) Raw() *mongo.Client {
	return c.client
}
