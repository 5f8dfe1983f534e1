package tenant

import (
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kart-io/mongo-tenant/pkg/errors"
)

// Database wraps mongo.Database and owns the tenant predicate applied to
// every collection reached through it. A handle starts unscoped; once a
// predicate is set it should be treated as immutable, so that in-flight
// requests never observe a partially written predicate.
type Database struct {
	db        *mongo.Database
	predicate Predicate
}

func newDatabase(db *mongo.Database) *Database {
	return &Database{db: db}
}

// Name returns the database name.
func (d *Database) Name() string {
	return d.db.Name()
}

// SetTenant sets the tenant predicate for this handle. The predicate
// must be non-empty; passing nil clears the scoping. Set it once during
// setup and do not mutate it while operations are in flight.
func (d *Database) SetTenant(p Predicate) error {
	if p != nil && len(p) == 0 {
		return errors.ErrInvalidParam.WithMessage("tenant predicate must not be empty")
	}
	d.predicate = p.Clone()
	return nil
}

// Tenant returns a copy of the current tenant predicate, or nil when the
// handle is unscoped.
func (d *Database) Tenant() Predicate {
	return d.predicate.Clone()
}

// WithTenant returns a new handle over the same database scoped to the
// given predicate. The receiver is left untouched, which makes this the
// right tool for per-request scoping of a shared handle.
func (d *Database) WithTenant(p Predicate) *Database {
	return &Database{db: d.db, predicate: p.Clone()}
}

// Collection returns a tenant-aware handle for the named collection,
// bound to this database and its predicate.
func (d *Database) Collection(name string, opts ...*options.CollectionOptions) *Collection {
	return &Collection{coll: d.db.Collection(name, opts...), db: d}
}

// Raw returns the underlying mongo.Database. Collections obtained
// through it are not tenant-aware.
func (d *Database) Raw() *mongo.Database {
	return d.db
}
