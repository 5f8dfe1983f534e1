package mongodb_test

import (
	"context"
	"log"

	"github.com/kart-io/mongo-tenant/pkg/component/mongodb"
	"github.com/kart-io/mongo-tenant/pkg/component/storage"
	"github.com/kart-io/mongo-tenant/pkg/tenant"
)

// Compile-time interface checks.
var (
	_ storage.Client  = (*mongodb.Client)(nil)
	_ storage.Factory = (*mongodb.Factory)(nil)
)

func Example() {
	opts := mongodb.NewOptions()
	opts.Host = "127.0.0.1"
	opts.Database = "app"

	client, err := mongodb.New(opts)
	if err != nil {
		log.Fatal(err)
	}
	defer client.Close()

	users := client.Collection("users")
	_ = users
}

func Example_tenantScoped() {
	opts := mongodb.NewOptions()
	opts.Database = "app"

	client, err := mongodb.New(opts)
	if err != nil {
		log.Fatal(err)
	}
	defer client.Close()

	// Scope a per-request handle; the shared default handle stays
	// unscoped.
	db := client.DatabaseForTenant(tenant.Predicate{"tenant_id": "acme"})

	var doc map[string]interface{}
	err = db.Collection("users").FindOne(context.Background(), "user-1").Decode(&doc)
	if err != nil {
		log.Println(err)
	}
}

func ExampleFactory() {
	factory := mongodb.NewFactory(mongodb.NewOptions())

	client, err := factory.Create(context.Background())
	if err != nil {
		log.Fatal(err)
	}
	defer client.Close()

	mgr := storage.NewManager()
	mgr.MustRegister("mongo-primary", client)
	defer mgr.CloseAll()
}
