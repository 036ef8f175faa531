package router

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/corvid-web/corvid/http/method"
	"github.com/corvid-web/corvid/internal/logging"
)

var ErrRouteExists = errors.New("route is already registered")

// Table maps exact (method, path) pairs to handlers. It is safe for concurrent use:
// lookups run in parallel and never block each other, registrations are exclusive.
type Table struct {
	logger *slog.Logger
	mu     sync.RWMutex
	routes [method.Count]map[string]Handler
}

func NewTable(logger *slog.Logger) *Table {
	t := &Table{
		logger: logging.OrDiscard(logger),
	}

	for i := range t.routes {
		t.routes[i] = make(map[string]Handler)
	}

	return t
}

// SetLogger replaces the logger. Must not be called concurrently with registrations.
func (t *Table) SetLogger(logger *slog.Logger) {
	t.logger = logging.OrDiscard(logger)
}

// Register binds the handler to the method and path, replacing the previous one, if any.
// Paths without the leading slash get it prepended.
func (t *Table) Register(m method.Method, path string, handler Handler) {
	t.add(m, path, handler, true)
}

// add registers the route. If override is not set and the route already exists, the
// table stays untouched and false is returned.
func (t *Table) add(m method.Method, path string, handler Handler, override bool) bool {
	if !validMethod(m) {
		t.logger.Error("refusing to register a route with unsupported method", "method", int(m), "path", path)
		return false
	}

	path = normalizePath(path)

	t.mu.Lock()
	if _, found := t.routes[m][path]; found && !override {
		t.mu.Unlock()
		return false
	}

	t.routes[m][path] = handler
	t.mu.Unlock()

	t.logger.Info(fmt.Sprintf("Add '%s %s' to route table", m, path))

	return true
}

// Lookup returns a handler registered exactly for the method and path.
func (t *Table) Lookup(m method.Method, path string) (Handler, bool) {
	if !validMethod(m) {
		return nil, false
	}

	t.mu.RLock()
	handler, found := t.routes[m][path]
	t.mu.RUnlock()

	return handler, found
}

// Has reports whether the route exists.
func (t *Table) Has(m method.Method, path string) bool {
	_, found := t.Lookup(m, normalizePath(path))
	return found
}

// Get is a shortcut for Register(method.GET, ...)
func (t *Table) Get(path string, handler HandlerFunc) {
	t.Register(method.GET, path, handler)
}

// Post is a shortcut for Register(method.POST, ...)
func (t *Table) Post(path string, handler HandlerFunc) {
	t.Register(method.POST, path, handler)
}

// Routes returns registered paths for the method in lexicographical order.
func (t *Table) Routes(m method.Method) []string {
	if !validMethod(m) {
		return nil
	}

	t.mu.RLock()
	paths := make([]string, 0, len(t.routes[m]))
	for path := range t.routes[m] {
		paths = append(paths, path)
	}
	t.mu.RUnlock()

	slices.Sort(paths)

	return paths
}

// Len returns the total number of routes across all the methods.
func (t *Table) Len() (n int) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	for _, routes := range t.routes {
		n += len(routes)
	}

	return n
}

func validMethod(m method.Method) bool {
	return int(m) < method.Count
}

func normalizePath(path string) string {
	if !strings.HasPrefix(path, "/") {
		return "/" + path
	}

	return path
}
