package tenant

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/kart-io/mongo-tenant/pkg/errors"
)

// ReplicaSetClient is the replica-set variant of Client. It carries the
// same navigation behavior: databases obtained through it are
// tenant-aware handles.
type ReplicaSetClient struct {
	mc *mongo.Client
}

// ConnectReplicaSet establishes a connection against a named replica set
// and returns a tenant-aware client. The replica set name is required;
// any further client options are passed through to the driver.
func ConnectReplicaSet(ctx context.Context, replicaSet string, opts ...*options.ClientOptions) (*ReplicaSetClient, error) {
	if replicaSet == "" {
		return nil, errors.ErrInvalidParam.WithMessage("replica set name is required")
	}
	opts = append(opts, options.Client().SetReplicaSet(replicaSet))
	mc, err := mongo.Connect(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb replica set %q: %w", replicaSet, err)
	}
	return NewReplicaSetClient(mc), nil
}

// NewReplicaSetClient wraps an existing driver client that was
// configured for a replica set.
func NewReplicaSetClient(mc *mongo.Client) *ReplicaSetClient {
	return &ReplicaSetClient{mc: mc}
}

// Database returns a tenant-aware handle for the named database.
func (c *ReplicaSetClient) Database(name string, opts ...*options.DatabaseOptions) *Database {
	return newDatabase(c.mc.Database(name, opts...))
}

// Ping verifies connectivity to the replica set.
func (c *ReplicaSetClient) Ping(ctx context.Context, rp *readpref.ReadPref) error {
	return c.mc.Ping(ctx, rp)
}

// Disconnect closes the underlying driver client.
func (c *ReplicaSetClient) Disconnect(ctx context.Context) error {
	return c.mc.Disconnect(ctx)
}

// Raw returns the underlying mongo.Client.
func (c *ReplicaSetClient) Raw() *mongo.Client {
	return c.mc
}
