package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/interfaces/http/dto"
)

// RouteRegistrar defines the interface for registering routes
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// RegistrarFunc adapts a function to the RouteRegistrar interface
type RegistrarFunc func(rg *gin.RouterGroup)

// RegisterRoutes implements RouteRegistrar
func (f RegistrarFunc) RegisterRoutes(rg *gin.RouterGroup) {
	f(rg)
}

// Router manages HTTP route registration. The storefront surface is mounted
// at the root so browser clients hit short paths, while the admin surface
// lives under a versioned /api prefix with its own auth middleware.
type Router struct {
	engine     *gin.Engine
	apiVersion string

	storefront []RouteRegistrar
	admin      []adminRegistrar
	public     []RouteRegistrar
}

type adminRegistrar struct {
	registrar  RouteRegistrar
	middleware []gin.HandlerFunc
}

// RouterOption is a functional option for Router configuration
type RouterOption func(*Router)

// WithAPIVersion sets the API version prefix (e.g., "v1", "v2")
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) {
		r.apiVersion = version
	}
}

// NewRouter creates a new Router instance
func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{
		engine:     engine,
		apiVersion: "v1",
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Storefront mounts a registrar on the public storefront surface
func (r *Router) Storefront(registrar RouteRegistrar) *Router {
	r.storefront = append(r.storefront, registrar)
	return r
}

// Admin mounts a registrar under the versioned API prefix. The given
// middleware runs before every route the registrar adds.
func (r *Router) Admin(registrar RouteRegistrar, middleware ...gin.HandlerFunc) *Router {
	r.admin = append(r.admin, adminRegistrar{registrar: registrar, middleware: middleware})
	return r
}

// Public mounts a registrar under the versioned API prefix without auth
func (r *Router) Public(registrar RouteRegistrar) *Router {
	r.public = append(r.public, registrar)
	return r
}

// Setup registers all routes with the engine
func (r *Router) Setup() {
	root := r.engine.Group("/")
	for _, registrar := range r.storefront {
		registrar.RegisterRoutes(root)
	}

	api := r.engine.Group("/api/" + r.apiVersion)
	for _, registrar := range r.public {
		registrar.RegisterRoutes(api)
	}
	for _, ar := range r.admin {
		group := api.Group("/")
		if len(ar.middleware) > 0 {
			group.Use(ar.middleware...)
		}
		ar.registrar.RegisterRoutes(group)
	}

	r.engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.NewErrorResponse(dto.ErrCodeNotFound, "Route not found"))
	})
}
