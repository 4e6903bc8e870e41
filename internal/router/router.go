package router

import (
	"fmt"
	"strings"
	"uniquehttpd/internal/http/header"
	"uniquehttpd/internal/http/response"

	"go.uber.org/atomic"
)

var (
	ErrTableFull    = fmt.Errorf("table full")
	ErrFrozen       = fmt.Errorf("router is serving, registration closed")
	ErrInvalidRoute = fmt.Errorf("invalid route")
)

type Handler interface {
	Handle(req *header.Request, w response.Writer)
}

type HandlerFunc func(req *header.Request, w response.Writer)

func (f HandlerFunc) Handle(req *header.Request, w response.Writer) {
	f(req, w)
}

type Disposition int

const (
	NotFound Disposition = iota
	Handled
	ServeFile
)

func (d Disposition) String() string {
	switch d {
	case Handled:
		return "handled"
	case ServeFile:
		return "serve-file"
	default:
		return "not-found"
	}
}

type Result struct {
	Disposition Disposition
	File        string
}

type Router interface {
	Handle(method, path string, handler Handler) error
	HandleFunc(method, path string, fn HandlerFunc) error
	Folder(prefix string) error
	Freeze()
	Frozen() bool
	Dispatch(req *header.Request, w response.Writer) Result
}

type route struct {
	method  string
	path    string
	handler Handler
}

// router holds the route and folder tables. Registration happens before
// serving; once frozen the tables are read-only and safe to share between
// sessions without locking.
type router struct {
	routes     []route
	folders    []string
	maxRoutes  int
	maxFolders int
	frozen     atomic.Bool
}

// New builds an empty router. A zero limit leaves that table unbounded.
func New(maxRoutes, maxFolders int) Router {
	return &router{
		maxRoutes:  maxRoutes,
		maxFolders: maxFolders,
	}
}

func (r *router) Handle(method, path string, handler Handler) error {
	if r.frozen.Load() {
		return ErrFrozen
	}
	if method == "" || path == "" || handler == nil {
		return fmt.Errorf("%w: method=%q path=%q", ErrInvalidRoute, method, path)
	}
	if r.maxRoutes > 0 && len(r.routes) >= r.maxRoutes {
		return fmt.Errorf("%w: %d routes", ErrTableFull, r.maxRoutes)
	}
	r.routes = append(r.routes, route{method: method, path: path, handler: handler})
	return nil
}

func (r *router) HandleFunc(method, path string, fn HandlerFunc) error {
	if fn == nil {
		return r.Handle(method, path, nil)
	}
	return r.Handle(method, path, fn)
}

func (r *router) Folder(prefix string) error {
	if r.frozen.Load() {
		return ErrFrozen
	}
	if prefix == "" {
		return fmt.Errorf("%w: empty folder", ErrInvalidRoute)
	}
	if r.maxFolders > 0 && len(r.folders) >= r.maxFolders {
		return fmt.Errorf("%w: %d folders", ErrTableFull, r.maxFolders)
	}
	r.folders = append(r.folders, prefix)
	return nil
}

func (r *router) Freeze() {
	r.frozen.Store(true)
}

func (r *router) Frozen() bool {
	return r.frozen.Load()
}

// Dispatch picks exactly one outcome for the request. Routes are scanned
// first, in registration order, and the first match runs synchronously.
// HEAD matches a route registered under any method. Folders are matched by
// substring and never serve POST.
func (r *router) Dispatch(req *header.Request, w response.Writer) Result {
	path, _, _ := strings.Cut(req.Path(), "?")
	method := req.Method()

	for _, rt := range r.routes {
		if rt.path == path && (rt.method == method || method == "HEAD") {
			rt.handler.Handle(req, w)
			return Result{Disposition: Handled}
		}
	}

	if method == "POST" {
		return Result{Disposition: NotFound}
	}
	for _, folder := range r.folders {
		if strings.Contains(path, folder) {
			if escapesRoot(path) {
				return Result{Disposition: NotFound}
			}
			return Result{Disposition: ServeFile, File: "." + path}
		}
	}

	return Result{Disposition: NotFound}
}

func escapesRoot(path string) bool {
	for _, segment := range strings.Split(path, "/") {
		if segment == ".." {
			return true
		}
	}
	return false
}
