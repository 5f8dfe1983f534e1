// Package tenant provides tenant-scoped wrappers around the MongoDB
// driver's client, database and collection handles.
//
// The wrappers are drop-in shaped: every navigation step returns another
// tenant-aware handle, and every data operation transparently merges the
// owning database's tenant predicate into its query filters, update
// documents and inserted documents before delegating to the driver. The
// package performs no I/O of its own; connection pooling, BSON encoding
// and server selection all remain the driver's concern.
//
// # Quick Start
//
//	client, err := tenant.Connect(ctx, options.Client().ApplyURI("mongodb://localhost:27017"))
//	if err != nil {
//	    log.Fatalf("failed to connect: %v", err)
//	}
//	defer client.Disconnect(ctx)
//
//	db := client.Database("app")
//	if err := db.SetTenant(tenant.Predicate{"tenant_id": "acme"}); err != nil {
//	    log.Fatal(err)
//	}
//
//	users := db.Collection("users")
//
//	// Stored as {"name": "alice", "tenant_id": "acme"}.
//	_, err = users.InsertOne(ctx, bson.M{"name": "alice"})
//
//	// Queries as {"name": "alice", "tenant_id": "acme"}.
//	res := users.FindOne(ctx, bson.M{"name": "alice"})
//
// # Per-request scoping
//
// A predicate is set once per database handle and read afterwards. For
// web applications where the tenant varies per request, derive a scoped
// copy from a shared unscoped handle instead of mutating it:
//
//	scoped := db.WithTenant(tenant.Predicate{"tenant_id": tenantID})
//	scoped.Collection("users").Find(ctx, bson.M{"active": true})
package tenant
