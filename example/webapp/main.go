// Package main is a small web service showing tenant-scoped MongoDB
// access behind a gin router.
//
// Each request is scoped to the tenant named by the X-Tenant-ID header;
// documents from other tenants are invisible to it.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	ginbridge "github.com/kart-io/mongo-tenant/pkg/bridge/gin"
	"github.com/kart-io/mongo-tenant/pkg/component/mongodb"
	"github.com/kart-io/mongo-tenant/pkg/component/storage"
	"github.com/kart-io/mongo-tenant/pkg/errors"
	"github.com/kart-io/mongo-tenant/pkg/response"
	"github.com/kart-io/mongo-tenant/pkg/tenant"
	"github.com/kart-io/mongo-tenant/pkg/transport"
)

const tenantHeader = "X-Tenant-ID"

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	opts := mongodb.NewOptions()
	opts.Database = "webapp"
	addr := pflag.String("addr", ":8080", "HTTP listen address")
	opts.AddFlags(pflag.CommandLine, "mongodb.")
	pflag.Parse()

	client, err := mongodb.New(opts)
	if err != nil {
		logger.Fatal("mongodb init failed", zap.Error(err))
	}

	mgr := storage.NewManager()
	mgr.MustRegister("mongo-primary", client)
	defer mgr.CloseAll()

	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/healthz", ginbridge.Handle(func(tc transport.Context) {
		if mgr.AllHealthy(tc.Request()) {
			response.OK(tc, gin.H{"status": "ok"})
			return
		}
		response.Fail(tc, errors.ErrDatabase)
	}))

	api := router.Group("/api", requireTenant())
	{
		api.GET("/users/:id", ginbridge.Handle(getUser(client, opts.TenantField)))
		api.POST("/users", ginbridge.Handle(createUser(client, opts.TenantField)))
	}

	srv := &http.Server{Addr: *addr, Handler: router}
	go func() {
		logger.Info("listening", zap.String("addr", *addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown failed", zap.Error(err))
	}
}

// requireTenant rejects requests without a tenant header.
func requireTenant() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader(tenantHeader) == "" {
			tc := ginbridge.NewContext(c)
			response.Fail(tc, errors.ErrBadRequest.WithMessage("missing "+tenantHeader+" header"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// scopedDB returns the default database scoped to the request's tenant.
func scopedDB(client *mongodb.Client, tenantField string, tc transport.Context) *tenant.Database {
	return client.DatabaseForTenant(tenant.Predicate{
		tenantField: tc.Header(tenantHeader),
	})
}

func getUser(client *mongodb.Client, tenantField string) transport.HandlerFunc {
	return func(tc transport.Context) {
		db := scopedDB(client, tenantField, tc)

		var user map[string]interface{}
		// Bare identifiers are normalized to {_id: ...} before scoping.
		if err := db.Collection("users").FindOneOr404(tc, tc.Param("id"), &user); err != nil {
			if !errors.IsCode(err, errors.ErrDocumentNotFound.Code) {
				response.FailWithError(tc, err)
			}
			return
		}
		response.OK(tc, user)
	}
}

func createUser(client *mongodb.Client, tenantField string) transport.HandlerFunc {
	return func(tc transport.Context) {
		var user map[string]interface{}
		if err := tc.Bind(&user); err != nil {
			response.Fail(tc, errors.ErrInvalidParam.WithCause(err))
			return
		}

		db := scopedDB(client, tenantField, tc)
		id, err := db.Collection("users").Save(tc.Request(), user)
		if err != nil {
			response.FailWithError(tc, err)
			return
		}
		response.OK(tc, gin.H{"id": id})
	}
}
