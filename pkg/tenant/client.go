package tenant

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Client wraps mongo.Client so that database navigation yields
// tenant-aware Database handles. Everything else delegates to the
// underlying driver client, which stays reachable through Raw.
type Client struct {
	mc *mongo.Client
}

// Connect establishes a connection and returns a tenant-aware client.
// It mirrors mongo.Connect; the driver dials lazily, so reachability
// problems surface on the first operation or an explicit Ping.
func Connect(ctx context.Context, opts ...*options.ClientOptions) (*Client, error) {
	mc, err := mongo.Connect(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	return NewClient(mc), nil
}

// NewClient wraps an existing driver client.
func NewClient(mc *mongo.Client) *Client {
	return &Client{mc: mc}
}

// Database returns a tenant-aware handle for the named database.
// The handle starts unscoped; see Database.SetTenant and
// Database.WithTenant.
func (c *Client) Database(name string, opts ...*options.DatabaseOptions) *Database {
	return newDatabase(c.mc.Database(name, opts...))
}

// Ping verifies connectivity to the deployment.
func (c *Client) Ping(ctx context.Context, rp *readpref.ReadPref) error {
	return c.mc.Ping(ctx, rp)
}

// Disconnect closes the underlying driver client.
func (c *Client) Disconnect(ctx context.Context) error {
	return c.mc.Disconnect(ctx)
}

// Raw returns the underlying mongo.Client for operations this wrapper
// does not expose. Databases obtained through it are not tenant-aware.
func (c *Client) Raw() *mongo.Client {
	return c.mc
}
