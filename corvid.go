package corvid

import (
	"errors"
	"log/slog"
	"net"
	"os"
	"sync"

	"github.com/corvid-web/corvid/config"
	"github.com/corvid-web/corvid/http/method"
	"github.com/corvid-web/corvid/internal/logging"
	httpserver "github.com/corvid-web/corvid/internal/server/http"
	"github.com/corvid-web/corvid/internal/server/tcp"
	"github.com/corvid-web/corvid/internal/strutil"
	"github.com/corvid-web/corvid/internal/transport/http1"
	"github.com/corvid-web/corvid/internal/workerpool"
	"github.com/corvid-web/corvid/router"
)

var ErrStopped = errors.New("server is already stopped")

type hooks struct {
	OnStart, OnStop func()
}

// App is the server itself: the routing table, the worker pool and the accept loop
// bound to the address.
type App struct {
	addr   string
	cfg    *config.Config
	logger *slog.Logger
	table  *router.Table
	hooks  hooks

	mu      sync.Mutex
	server  *tcp.Server
	stopped bool
	done    chan struct{}
}

// New returns a new App instance. Address consisting only of a port (":7878") listens on
// all the interfaces.
func New(addr string) *App {
	cfg := config.Default()
	logger := logging.New(os.Stderr, logging.LevelFromString(cfg.Log.Level))

	return &App{
		addr:   strutil.NormalizeAddress(addr),
		cfg:    cfg,
		logger: logger,
		table:  router.NewTable(logger),
		done:   make(chan struct{}),
	}
}

// Tune replaces default settings.
func (a *App) Tune(cfg *config.Config) *App {
	a.cfg = cfg
	return a
}

// Logger replaces the default logger. Nil disables logging at all.
func (a *App) Logger(logger *slog.Logger) *App {
	a.logger = logging.OrDiscard(logger)
	a.table.SetLogger(a.logger)
	return a
}

// NotifyOnStart calls the callback at the moment the listener is bound, right before
// the first connection is accepted
func (a *App) NotifyOnStart(cb func()) *App {
	a.hooks.OnStart = cb
	return a
}

// NotifyOnStop calls the callback once the server is down: nothing is accepted anymore
// and every accepted connection is served
func (a *App) NotifyOnStop(cb func()) *App {
	a.hooks.OnStop = cb
	return a
}

// Route registers the handler for the method and path. Registering the same route twice
// replaces the previous handler.
func (a *App) Route(m method.Method, path string, handler router.Handler) *App {
	a.table.Register(m, path, handler)
	return a
}

// Get is a shortcut for Route(method.GET, ...)
func (a *App) Get(path string, handler router.HandlerFunc) *App {
	a.table.Get(path, handler)
	return a
}

// Post is a shortcut for Route(method.POST, ...)
func (a *App) Post(path string, handler router.HandlerFunc) *App {
	a.table.Post(path, handler)
	return a
}

// Redirect makes GET requests to origin redirect to the target. Origins that are already
// registered are left untouched, the error is logged.
func (a *App) Redirect(origin, target string, permanent bool) *App {
	_ = a.table.Redirect(method.GET, origin, target, permanent)
	return a
}

// Mount serves the directory under the mount point. Unreadable directories are logged
// and skipped.
func (a *App) Mount(dir, mountPoint string) *App {
	_ = a.table.Mount(dir, mountPoint)
	return a
}

// Table exposes the routing table.
func (a *App) Table() *router.Table {
	return a.table
}

// Serve binds the address and serves until Stop is called. An App can be served only once.
func (a *App) Serve() error {
	if err := a.cfg.Validate(); err != nil {
		return err
	}

	a.logger.Info("Simple HTTP Server start running")

	sock, err := net.Listen("tcp", a.addr)
	if err != nil {
		return err
	}

	pool := workerpool.New(a.cfg.Pool.Workers, a.cfg.Pool.QueueSize, a.logger)
	dispatcher := httpserver.NewServer(a.table, http1.NewParser(a.logger), a.cfg, a.logger)
	server := tcp.NewServer(sock, pool, dispatcher.Serve, dispatcher.Reject, a.cfg, a.logger)

	a.mu.Lock()
	if a.stopped || a.server != nil {
		a.mu.Unlock()
		_ = sock.Close()
		pool.Close()
		return ErrStopped
	}
	a.server = server
	a.mu.Unlock()

	defer close(a.done)

	a.logger.Info("Start listening on " + sock.Addr().String())
	callIfNotNil(a.hooks.OnStart)

	err = server.Start()
	pool.Close()
	a.logger.Info("Server stopped")
	callIfNotNil(a.hooks.OnStop)

	return err
}

// Stop stops accepting new connections, waits until every accepted one is served and
// all the workers exit. It is safe to call Stop multiple times.
func (a *App) Stop() {
	a.mu.Lock()
	a.stopped = true
	server := a.server
	a.mu.Unlock()

	if server == nil {
		return
	}

	server.Stop()
	<-a.done
}

// Addr returns the address the server is bound to or nil, if it isn't serving yet.
func (a *App) Addr() net.Addr {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.server == nil {
		return nil
	}

	return a.server.Addr()
}

func callIfNotNil(f func()) {
	if f != nil {
		f()
	}
}
