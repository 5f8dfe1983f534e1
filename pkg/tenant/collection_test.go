package tenant

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	ginbridge "github.com/kart-io/mongo-tenant/pkg/bridge/gin"
	"github.com/kart-io/mongo-tenant/pkg/errors"
	"github.com/kart-io/mongo-tenant/pkg/transport"
)

func newScopedCollection(t *testing.T) *Collection {
	t.Helper()
	db := newTestDatabase(t)
	require.NoError(t, db.SetTenant(Predicate{"tenant_id": "acme"}))
	return db.Collection("users")
}

// Argument-shape errors must surface before any delegation to the
// driver; all of these run without a reachable server.

func TestSaveRejectsNonDocument(t *testing.T) {
	users := newTestDatabase(t).Collection("users")

	_, err := users.Save(context.Background(), "just a string")
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrInvalidDocument)

	_, err = users.Save(context.Background(), nil)
	assert.ErrorIs(t, err, errors.ErrInvalidDocument)
}

func TestInsertOneScopedRejectsNonDocument(t *testing.T) {
	users := newScopedCollection(t)

	_, err := users.InsertOne(context.Background(), 42)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrInvalidDocument)
}

func TestInsertManyScopedRejectsNonDocument(t *testing.T) {
	users := newScopedCollection(t)

	_, err := users.InsertMany(context.Background(), []interface{}{
		bson.M{"name": "a"},
		"not a document",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrInvalidDocument)
}

func TestUpdateOneValidatesBothArguments(t *testing.T) {
	// Validation applies to scoped and unscoped handles alike.
	users := newTestDatabase(t).Collection("users")

	_, err := users.UpdateOne(context.Background(), "bare-id", bson.M{"$set": bson.M{"a": 1}})
	assert.ErrorIs(t, err, errors.ErrInvalidDocument)

	_, err = users.UpdateOne(context.Background(), bson.M{"a": 1}, 42)
	assert.ErrorIs(t, err, errors.ErrInvalidDocument)

	_, err = users.UpdateMany(context.Background(), nil, bson.M{})
	assert.ErrorIs(t, err, errors.ErrInvalidDocument)
}

func TestReplaceOneValidatesBothArguments(t *testing.T) {
	users := newTestDatabase(t).Collection("users")

	_, err := users.ReplaceOne(context.Background(), "bare-id", bson.M{})
	assert.ErrorIs(t, err, errors.ErrInvalidDocument)

	_, err = users.ReplaceOne(context.Background(), bson.M{}, "replacement")
	assert.ErrorIs(t, err, errors.ErrInvalidDocument)
}

func TestFindScopedRejectsNonDocumentFilter(t *testing.T) {
	users := newScopedCollection(t)

	_, err := users.Find(context.Background(), "bare-value")
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrInvalidDocument)
}

func TestCountDocumentsScopedRejectsNonDocumentFilter(t *testing.T) {
	users := newScopedCollection(t)

	_, err := users.CountDocuments(context.Background(), 42)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrInvalidDocument)
}

func TestFindOneAndUpdateScopedRejectsNonDocumentFilter(t *testing.T) {
	users := newScopedCollection(t)

	res := users.FindOneAndUpdate(context.Background(), 42, bson.M{"$set": bson.M{"a": 1}})
	require.NotNil(t, res)
	assert.ErrorIs(t, res.Err(), errors.ErrInvalidDocument)
}

// scopeUpdateArgs carries the per-operation merge policy for updates.

func TestScopeUpdateArgsScoped(t *testing.T) {
	users := newScopedCollection(t)

	f, u, err := users.scopeUpdateArgs(bson.M{"name": "a"}, bson.M{"$inc": bson.M{"count": 1}})
	require.NoError(t, err)

	assert.Equal(t, bson.M{"name": "a", "tenant_id": "acme"}, f)
	assert.Equal(t, bson.M{
		"$inc": bson.M{"count": 1},
		"$set": bson.M{"tenant_id": "acme"},
	}, u)
}

func TestScopeUpdateArgsScopedReplacement(t *testing.T) {
	users := newScopedCollection(t)

	f, u, err := users.scopeUpdateArgs(bson.M{"name": "a"}, bson.M{"name": "b"})
	require.NoError(t, err)

	assert.Equal(t, bson.M{"name": "a", "tenant_id": "acme"}, f)
	assert.Equal(t, bson.M{"name": "b", "tenant_id": "acme"}, u)
}

func TestScopeUpdateArgsUnscopedPassesOriginals(t *testing.T) {
	users := newTestDatabase(t).Collection("users")

	filter := bson.M{"name": "a"}
	update := bson.M{"$set": bson.M{"name": "b"}}

	f, u, err := users.scopeUpdateArgs(filter, update)
	require.NoError(t, err)

	// Unscoped handles must delegate the caller's arguments untouched.
	f.(bson.M)["marker"] = true
	u.(bson.M)["marker"] = true
	assert.Contains(t, filter, "marker")
	assert.Contains(t, update, "marker")
}

func TestUpdateOneScopedRejectsNonDocumentSet(t *testing.T) {
	users := newScopedCollection(t)

	_, err := users.UpdateOne(context.Background(), bson.M{"name": "a"}, bson.M{"$set": "broken"})
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrInvalidDocument)
}

func TestFindOneAndUpdateScopedRejectsNonDocumentSet(t *testing.T) {
	users := newScopedCollection(t)

	res := users.FindOneAndUpdate(context.Background(), bson.M{"name": "a"}, bson.M{"$set": 42})
	require.NotNil(t, res)
	assert.ErrorIs(t, res.Err(), errors.ErrInvalidDocument)
}

func TestScopedArgumentsNeverAliasCallerMaps(t *testing.T) {
	users := newScopedCollection(t)

	filter := bson.M{"name": "a"}
	update := bson.M{"name": "b"}
	f, u, err := users.scopeUpdateArgs(filter, update)
	require.NoError(t, err)

	f.(bson.M)["marker"] = true
	u.(bson.M)["marker"] = true
	assert.NotContains(t, filter, "marker")
	assert.NotContains(t, update, "marker")
}

// saveTarget picks between the replace-upsert and insert paths of Save.

func TestSaveTargetWithID(t *testing.T) {
	p := Predicate{"tenant_id": "acme"}
	doc := scopeDocument(bson.M{"_id": "u-1", "name": "a"}, p)

	filter, id, replace := saveTarget(doc, p)
	require.True(t, replace, "documents carrying an _id must be replaced, not inserted")
	assert.Equal(t, "u-1", id)
	assert.Equal(t, bson.M{"_id": "u-1", "tenant_id": "acme"}, filter,
		"the replace filter must pin both the identifier and the tenant")
}

func TestSaveTargetWithoutID(t *testing.T) {
	_, _, replace := saveTarget(bson.M{"name": "a"}, Predicate{"tenant_id": "acme"})
	assert.False(t, replace, "documents without an _id must take the insert path")
}

func TestSaveTargetUnscoped(t *testing.T) {
	filter, id, replace := saveTarget(bson.M{"_id": 7}, nil)
	require.True(t, replace)
	assert.Equal(t, 7, id)
	assert.Equal(t, bson.M{"_id": 7}, filter)
}

// Not-found translation for FindOneOr404.

func newRecordedContext(t *testing.T) (transport.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/users/missing", nil)
	return ginbridge.NewContext(c), rec
}

func TestOr404NilError(t *testing.T) {
	tc, rec := newRecordedContext(t)

	require.NoError(t, or404(tc, nil))
	assert.Empty(t, rec.Body.String(), "no response may be written on success")
}

func TestOr404TranslatesMissingDocument(t *testing.T) {
	tc, rec := newRecordedContext(t)

	err := or404(tc, mongo.ErrNoDocuments)
	assert.ErrorIs(t, err, errors.ErrDocumentNotFound)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// The not-found signal fires exactly once, as a single envelope.
	var body struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, errors.ErrDocumentNotFound.Code, body.Code)
}

func TestOr404PassesThroughOtherErrors(t *testing.T) {
	tc, rec := newRecordedContext(t)

	driverErr := fmt.Errorf("connection reset")
	err := or404(tc, driverErr)
	assert.Equal(t, driverErr, err)
	assert.Empty(t, rec.Body.String(), "driver errors must not write a response")
}
