package tenant

import (
	"context"
	stderrors "errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kart-io/mongo-tenant/pkg/errors"
	"github.com/kart-io/mongo-tenant/pkg/response"
	"github.com/kart-io/mongo-tenant/pkg/transport"
)

// Collection wraps mongo.Collection and rewrites operation arguments so
// that the owning database's tenant predicate is part of every filter,
// update and inserted document. It holds no state of its own beyond the
// back-reference to its database; results and errors from the driver
// pass through unchanged.
//
// On an unscoped database the wrapper is transparent: arguments are
// delegated exactly as supplied, except that the single-document
// operations still normalize nil filters to fresh empty documents and
// bare identifiers to {_id: value}; the driver accepts neither form.
type Collection struct {
	coll *mongo.Collection
	db   *Database
}

// Name returns the collection name.
func (c *Collection) Name() string {
	return c.coll.Name()
}

// Database returns the owning database handle.
func (c *Collection) Database() *Database {
	return c.db
}

// Namespace returns a handle for the dotted sub-collection
// "<this>.<name>", bound to the same owning database so the tenant
// predicate propagates into it.
func (c *Collection) Namespace(name string) *Collection {
	return c.db.Collection(c.coll.Name() + "." + name)
}

// Raw returns the underlying mongo.Collection. Operations issued
// through it bypass tenant scoping.
func (c *Collection) Raw() *mongo.Collection {
	return c.coll
}

// Save stores a single document and returns its identifier. A document
// that carries an _id is replaced (with upsert) under the tenant scope;
// a document without one is inserted. The document must be a mapping.
func (c *Collection) Save(ctx context.Context, document interface{}) (interface{}, error) {
	doc, err := asRequiredDocument(document, "document")
	if err != nil {
		return nil, err
	}
	p := c.db.predicate
	doc = scopeDocument(doc, p)

	if filter, id, replace := saveTarget(doc, p); replace {
		if _, err := c.coll.ReplaceOne(ctx, filter, doc, options.Replace().SetUpsert(true)); err != nil {
			return nil, err
		}
		return id, nil
	}

	res, err := c.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, err
	}
	return res.InsertedID, nil
}

// saveTarget decides how Save stores a scoped document: one carrying an
// _id is replaced by identifier within the tenant scope, anything else
// is inserted.
func saveTarget(doc bson.M, p Predicate) (filter bson.M, id interface{}, replace bool) {
	id, ok := doc["_id"]
	if !ok {
		return nil, nil, false
	}
	return scopeFilter(bson.M{"_id": id}, p), id, true
}

// InsertOne inserts a single document with the tenant predicate merged
// in. Unscoped handles delegate the document as supplied, so non-mapping
// documents (structs) remain usable without tenant scoping.
func (c *Collection) InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error) {
	p := c.db.predicate
	if p.IsZero() {
		return c.coll.InsertOne(ctx, document, opts...)
	}
	doc, err := asRequiredDocument(document, "document")
	if err != nil {
		return nil, err
	}
	return c.coll.InsertOne(ctx, scopeDocument(doc, p), opts...)
}

// InsertMany inserts a batch of documents, merging the tenant predicate
// into every one of them. The driver result is returned whether or not
// the handle is scoped.
func (c *Collection) InsertMany(ctx context.Context, documents []interface{}, opts ...*options.InsertManyOptions) (*mongo.InsertManyResult, error) {
	p := c.db.predicate
	if p.IsZero() {
		return c.coll.InsertMany(ctx, documents, opts...)
	}
	scoped := make([]interface{}, len(documents))
	for i, document := range documents {
		doc, err := asRequiredDocument(document, "document")
		if err != nil {
			return nil, err
		}
		scoped[i] = scopeDocument(doc, p)
	}
	return c.coll.InsertMany(ctx, scoped, opts...)
}

// UpdateOne updates a single document. Both the filter and the update
// must be mappings; the tenant predicate is merged into both, so a
// scoped update can neither match nor produce a foreign tenant's
// document. Operator updates receive the predicate under $set.
func (c *Collection) UpdateOne(ctx context.Context, filter, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	f, u, err := c.scopeUpdateArgs(filter, update)
	if err != nil {
		return nil, err
	}
	return c.coll.UpdateOne(ctx, f, u, opts...)
}

// UpdateMany is UpdateOne over all matching documents.
func (c *Collection) UpdateMany(ctx context.Context, filter, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	f, u, err := c.scopeUpdateArgs(filter, update)
	if err != nil {
		return nil, err
	}
	return c.coll.UpdateMany(ctx, f, u, opts...)
}

// scopeUpdateArgs validates and rewrites an update's filter and update
// document. Validation happens regardless of scoping; rewriting only
// touches copies.
func (c *Collection) scopeUpdateArgs(filter, update interface{}) (interface{}, interface{}, error) {
	f, err := asRequiredDocument(filter, "update filter")
	if err != nil {
		return nil, nil, err
	}
	u, err := asRequiredDocument(update, "update document")
	if err != nil {
		return nil, nil, err
	}
	p := c.db.predicate
	if p.IsZero() {
		return filter, update, nil
	}
	su, err := scopeUpdate(u, p)
	if err != nil {
		return nil, nil, err
	}
	return scopeDocument(f, p), su, nil
}

// ReplaceOne replaces a single document. The filter and the replacement
// must be mappings; the tenant predicate is merged into both.
func (c *Collection) ReplaceOne(ctx context.Context, filter, replacement interface{}, opts ...*options.ReplaceOptions) (*mongo.UpdateResult, error) {
	f, err := asRequiredDocument(filter, "replace filter")
	if err != nil {
		return nil, err
	}
	r, err := asRequiredDocument(replacement, "replacement document")
	if err != nil {
		return nil, err
	}
	p := c.db.predicate
	if p.IsZero() {
		return c.coll.ReplaceOne(ctx, filter, replacement, opts...)
	}
	return c.coll.ReplaceOne(ctx, scopeDocument(f, p), scopeDocument(r, p), opts...)
}

// DeleteOne removes a single document matching the filter within the
// tenant scope. A nil filter matches nothing in particular (a fresh
// empty document is passed to the driver); a bare identifier is
// normalized to {_id: value} whether or not the handle is scoped.
func (c *Collection) DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error) {
	p := c.db.predicate
	if p.IsZero() {
		return c.coll.DeleteOne(ctx, normalizeFilter(filter), opts...)
	}
	return c.coll.DeleteOne(ctx, scopeFilter(filter, p), opts...)
}

// DeleteMany is DeleteOne over all matching documents.
func (c *Collection) DeleteMany(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error) {
	p := c.db.predicate
	if p.IsZero() {
		return c.coll.DeleteMany(ctx, normalizeFilter(filter), opts...)
	}
	return c.coll.DeleteMany(ctx, scopeFilter(filter, p), opts...)
}

// FindOne returns a single document matching the filter within the
// tenant scope, with the same filter normalization as DeleteOne. The
// result reports mongo.ErrNoDocuments when nothing matches.
func (c *Collection) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) *mongo.SingleResult {
	p := c.db.predicate
	if p.IsZero() {
		return c.coll.FindOne(ctx, normalizeFilter(filter), opts...)
	}
	return c.coll.FindOne(ctx, scopeFilter(filter, p), opts...)
}

// Find returns a cursor over all documents matching the filter within
// the tenant scope. Cursor semantics (batching, timeouts) are the
// driver's. The filter must be a mapping when the handle is scoped.
func (c *Collection) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (*mongo.Cursor, error) {
	if filter == nil {
		filter = bson.M{}
	}
	p := c.db.predicate
	if p.IsZero() {
		return c.coll.Find(ctx, filter, opts...)
	}
	q, err := asRequiredDocument(filter, "query")
	if err != nil {
		return nil, err
	}
	return c.coll.Find(ctx, scopeDocument(q, p), opts...)
}

// CountDocuments counts the documents matching the filter within the
// tenant scope, with the same filter handling as Find.
func (c *Collection) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	if filter == nil {
		filter = bson.M{}
	}
	p := c.db.predicate
	if p.IsZero() {
		return c.coll.CountDocuments(ctx, filter, opts...)
	}
	q, err := asRequiredDocument(filter, "query")
	if err != nil {
		return 0, err
	}
	return c.coll.CountDocuments(ctx, scopeDocument(q, p), opts...)
}

// FindOneAndUpdate atomically finds and mutates a single document within
// the tenant scope. The predicate is merged into both the query and the
// update document; an absent or non-mapping update is normalized to a
// fresh mapping first. Atomicity is entirely the driver's concern.
func (c *Collection) FindOneAndUpdate(ctx context.Context, filter, update interface{}, opts ...*options.FindOneAndUpdateOptions) *mongo.SingleResult {
	if filter == nil {
		filter = bson.M{}
	}
	p := c.db.predicate
	if p.IsZero() {
		return c.coll.FindOneAndUpdate(ctx, filter, update, opts...)
	}

	q, err := asRequiredDocument(filter, "query")
	if err != nil {
		return mongo.NewSingleResultFromDocument(bson.D{}, err, nil)
	}

	u, ok := asDocument(update)
	if !ok {
		u = bson.M{}
	}
	su, err := scopeUpdate(u, p)
	if err != nil {
		return mongo.NewSingleResultFromDocument(bson.D{}, err, nil)
	}

	return c.coll.FindOneAndUpdate(ctx, scopeDocument(q, p), su, opts...)
}

// FindOneOr404 finds a single document within the tenant scope and
// decodes it into out. When no document matches, the framework's
// standard not-found response is written to the request exactly once
// and ErrDocumentNotFound is returned, so handlers can simply stop:
//
//	func userProfile(ctx transport.Context) {
//	    var user bson.M
//	    if err := users.FindOneOr404(ctx, bson.M{"_id": ctx.Param("id")}, &user); err != nil {
//	        return
//	    }
//	    response.OK(ctx, user)
//	}
//
// Any other driver error is returned untouched without writing a
// response; surfacing those is the caller's decision.
func (c *Collection) FindOneOr404(tc transport.Context, filter interface{}, out interface{}) error {
	return or404(tc, c.FindOne(tc.Request(), filter).Decode(out))
}

// or404 translates a missing-document error into the standard not-found
// response. Every other error, including nil, passes through.
func or404(tc transport.Context, err error) error {
	switch {
	case err == nil:
		return nil
	case stderrors.Is(err, mongo.ErrNoDocuments):
		response.Fail(tc, errors.ErrDocumentNotFound)
		return errors.ErrDocumentNotFound
	default:
		return err
	}
}
