// Package router mounts the resource handlers under the versioned API prefix.
package router

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RouteRegistrar is implemented by every resource handler
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router collects registrars and mounts them on a single /api/<version>
// group. Middleware given through WithGroupMiddleware runs only for that
// group; probes and swagger stay outside it.
type Router struct {
	engine     *gin.Engine
	version    string
	groupMW    []gin.HandlerFunc
	registrars []RouteRegistrar
	logger     *zap.Logger
}

type RouterOption func(*Router)

// WithAPIVersion overrides the default "v1" prefix
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) { r.version = version }
}

func WithGroupMiddleware(mw ...gin.HandlerFunc) RouterOption {
	return func(r *Router) { r.groupMW = append(r.groupMW, mw...) }
}

// WithLogger makes Setup log every mounted API route at debug level
func WithLogger(logger *zap.Logger) RouterOption {
	return func(r *Router) { r.logger = logger }
}

func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{engine: engine, version: "v1", logger: zap.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register queues registrars; nothing is mounted until Setup
func (r *Router) Register(registrars ...RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrars...)
	return r
}

// Setup mounts the queued registrars and returns the API group
func (r *Router) Setup() *gin.RouterGroup {
	api := r.engine.Group(r.BasePath(), r.groupMW...)
	for _, reg := range r.registrars {
		reg.RegisterRoutes(api)
	}

	routes := r.Routes()
	for _, rt := range routes {
		r.logger.Debug("route mounted", zap.String("method", rt.Method), zap.String("path", rt.Path))
	}
	r.logger.Info("API routes mounted", zap.String("base_path", r.BasePath()), zap.Int("routes", len(routes)))
	return api
}

// Routes lists the engine routes that live under the API prefix
func (r *Router) Routes() gin.RoutesInfo {
	prefix := r.BasePath() + "/"
	var api gin.RoutesInfo
	for _, rt := range r.engine.Routes() {
		if strings.HasPrefix(rt.Path, prefix) {
			api = append(api, rt)
		}
	}
	return api
}

// BasePath returns the prefix every API route is mounted under
func (r *Router) BasePath() string {
	return "/api/" + r.version
}
