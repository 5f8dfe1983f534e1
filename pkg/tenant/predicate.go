package tenant

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/kart-io/mongo-tenant/pkg/errors"
)

// Predicate is a fixed set of field/value pairs identifying the owning
// tenant. When set on a Database, it is merged into every query filter,
// update document and inserted document issued through collections of
// that database, enforcing data isolation between tenants sharing one
// physical database.
type Predicate map[string]interface{}

// IsZero reports whether the predicate carries no scoping at all.
func (p Predicate) IsZero() bool {
	return len(p) == 0
}

// Clone returns an independent copy of the predicate.
func (p Predicate) Clone() Predicate {
	if p == nil {
		return nil
	}
	clone := make(Predicate, len(p))
	for k, v := range p {
		clone[k] = v
	}
	return clone
}

// asDocument converts a caller-supplied value into a fresh bson.M copy.
// Accepted shapes are bson.M, bson.D, plain maps and Predicate itself.
// The copy guarantees that caller arguments are never mutated.
func asDocument(v interface{}) (bson.M, bool) {
	switch d := v.(type) {
	case bson.M:
		out := make(bson.M, len(d))
		for k, val := range d {
			out[k] = val
		}
		return out, true
	case map[string]interface{}:
		out := make(bson.M, len(d))
		for k, val := range d {
			out[k] = val
		}
		return out, true
	case Predicate:
		out := make(bson.M, len(d))
		for k, val := range d {
			out[k] = val
		}
		return out, true
	case bson.D:
		out := make(bson.M, len(d))
		for _, e := range d {
			out[e.Key] = e.Value
		}
		return out, true
	default:
		return nil, false
	}
}

// asRequiredDocument is asDocument with an ErrInvalidDocument failure
// for values that are not documents. what names the argument in the
// error message.
func asRequiredDocument(v interface{}, what string) (bson.M, error) {
	if v == nil {
		return nil, errors.ErrInvalidDocument.WithMessagef("%s must be a document, got nil", what)
	}
	m, ok := asDocument(v)
	if !ok {
		return nil, errors.ErrInvalidDocument.WithMessagef("%s must be a document, got %T", what, v)
	}
	return m, nil
}

// scopeDocument merges the predicate into a copy of the document.
// The predicate always wins on key conflicts.
func scopeDocument(doc bson.M, p Predicate) bson.M {
	for k, v := range p {
		doc[k] = v
	}
	return doc
}

// normalizeFilter applies the bare-identifier convention without any
// tenant scoping: a nil filter becomes a fresh empty document and a
// value that is not a document is treated as an identifier matched on
// _id. Document filters pass through untouched.
func normalizeFilter(filter interface{}) interface{} {
	if filter == nil {
		return bson.M{}
	}
	if _, ok := asDocument(filter); ok {
		return filter
	}
	return bson.M{"_id": filter}
}

// scopeFilter merges the predicate into a query filter, with the same
// normalization as normalizeFilter applied first.
func scopeFilter(filter interface{}, p Predicate) bson.M {
	var out bson.M
	if filter == nil {
		out = bson.M{}
	} else if m, ok := asDocument(filter); ok {
		out = m
	} else {
		out = bson.M{"_id": filter}
	}
	return scopeDocument(out, p)
}

// scopeUpdate merges the predicate into an update document. Operator
// updates ({$set: ...}) receive the predicate under $set so the stored
// document carries the tenant fields; replacement documents receive it
// at the top level. An existing $set whose value is not a document is
// an error rather than being silently replaced.
func scopeUpdate(update bson.M, p Predicate) (bson.M, error) {
	if p.IsZero() {
		return update, nil
	}

	hasOperator := false
	for k := range update {
		if strings.HasPrefix(k, "$") {
			hasOperator = true
			break
		}
	}

	if !hasOperator {
		return scopeDocument(update, p), nil
	}

	set := bson.M{}
	if cur, ok := update["$set"]; ok {
		m, err := asRequiredDocument(cur, "$set value")
		if err != nil {
			return nil, err
		}
		set = m
	}
	update["$set"] = scopeDocument(set, p)
	return update, nil
}
