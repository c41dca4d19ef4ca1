package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Router mounts domain groups under /api/<version>.
type Router struct {
	engine     *gin.Engine
	apiVersion string
	middleware []gin.HandlerFunc
	groups     []*DomainGroup
}

// RouterOption configures a Router.
type RouterOption func(*Router)

// WithAPIVersion sets the version segment of the API prefix. Default "v1".
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) {
		r.apiVersion = version
	}
}

func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{engine: engine, apiVersion: "v1"}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Use adds middleware to the versioned API group only. Engine level routes
// such as /health are not affected.
func (r *Router) Use(middleware ...gin.HandlerFunc) *Router {
	r.middleware = append(r.middleware, middleware...)
	return r
}

// Register queues groups for Setup.
func (r *Router) Register(groups ...*DomainGroup) *Router {
	r.groups = append(r.groups, groups...)
	return r
}

// BasePath returns the versioned API prefix.
func (r *Router) BasePath() string {
	return "/api/" + r.apiVersion
}

// Setup mounts the registered groups on the engine.
func (r *Router) Setup() {
	api := r.engine.Group(r.BasePath(), r.middleware...)
	for _, g := range r.groups {
		g.mount(api)
	}
}

// DomainGroup collects the routes of one bounded context, or of a resource
// inside it, before they are mounted.
type DomainGroup struct {
	prefix     string
	middleware []gin.HandlerFunc
	routes     []route
	subgroups  []*DomainGroup
}

type route struct {
	method   string
	path     string
	handlers []gin.HandlerFunc
}

func NewDomainGroup(prefix string) *DomainGroup {
	return &DomainGroup{prefix: prefix}
}

// Use adds middleware run before every route of the group and its subgroups.
func (g *DomainGroup) Use(middleware ...gin.HandlerFunc) *DomainGroup {
	g.middleware = append(g.middleware, middleware...)
	return g
}

// Group creates a nested group under prefix.
func (g *DomainGroup) Group(prefix string) *DomainGroup {
	sub := NewDomainGroup(prefix)
	g.subgroups = append(g.subgroups, sub)
	return sub
}

func (g *DomainGroup) handle(method, path string, handlers []gin.HandlerFunc) *DomainGroup {
	g.routes = append(g.routes, route{method: method, path: path, handlers: handlers})
	return g
}

func (g *DomainGroup) GET(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return g.handle(http.MethodGet, path, handlers)
}

func (g *DomainGroup) POST(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return g.handle(http.MethodPost, path, handlers)
}

func (g *DomainGroup) PUT(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return g.handle(http.MethodPut, path, handlers)
}

func (g *DomainGroup) PATCH(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return g.handle(http.MethodPatch, path, handlers)
}

func (g *DomainGroup) DELETE(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return g.handle(http.MethodDelete, path, handlers)
}

func (g *DomainGroup) mount(parent *gin.RouterGroup) {
	rg := parent.Group(g.prefix, g.middleware...)
	for _, rt := range g.routes {
		rg.Handle(rt.method, rt.path, rt.handlers...)
	}
	for _, sub := range g.subgroups {
		sub.mount(rg)
	}
}
