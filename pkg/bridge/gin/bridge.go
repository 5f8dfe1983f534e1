// Package gin provides the Gin HTTP framework bridge implementation.
// This package isolates all Gin-specific code, making framework upgrades easier.
package gin

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kart-io/mongo-tenant/pkg/transport"
)

// Handle converts a transport.HandlerFunc to a gin.HandlerFunc.
//
// Example:
//
//	r := gin.New()
//	r.GET("/users/:id", ginbridge.Handle(func(ctx transport.Context) {
//	    // framework-agnostic handler code
//	}))
func Handle(h transport.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		h(NewContext(c))
	}
}

// NewContext wraps a gin.Context as a transport.Context.
func NewContext(c *gin.Context) transport.Context {
	return &ginContext{c: c}
}

// ginContext adapts gin.Context to the transport.Context interface.
type ginContext struct {
	c *gin.Context
}

func (g *ginContext) Request() context.Context {
	return g.c.Request.Context()
}

func (g *ginContext) HTTPRequest() *http.Request {
	return g.c.Request
}

func (g *ginContext) Param(key string) string {
	return g.c.Param(key)
}

func (g *ginContext) Query(key string) string {
	return g.c.Query(key)
}

func (g *ginContext) Header(key string) string {
	return g.c.GetHeader(key)
}

func (g *ginContext) SetHeader(key, value string) {
	g.c.Header(key, value)
}

func (g *ginContext) Bind(v interface{}) error {
	return g.c.ShouldBind(v)
}

func (g *ginContext) JSON(code int, v interface{}) {
	g.c.JSON(code, v)
}

func (g *ginContext) String(code int, s string) {
	g.c.String(code, s)
}

func (g *ginContext) GetRawContext() interface{} {
	return g.c
}
