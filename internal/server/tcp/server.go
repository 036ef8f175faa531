package tcp

import (
	"errors"
	"log/slog"
	"net"
	"os"
	"sync/atomic"
	"time"

	"github.com/corvid-web/corvid/config"
	"github.com/corvid-web/corvid/internal/logging"
	"github.com/corvid-web/corvid/internal/workerpool"
)

// Executor runs jobs asynchronously. *workerpool.Pool is the one used in production.
type Executor interface {
	Execute(job workerpool.Job) error
}

// OnConn takes the ownership of the connection, including closing it.
type OnConn func(net.Conn)

type deadliner interface {
	SetDeadline(t time.Time) error
}

const maxAcceptDelay = time.Second

// Server accepts connections and submits each of them as a single job to the executor.
type Server struct {
	sock     net.Listener
	pool     Executor
	onConn   OnConn
	onReject OnConn
	cfg      *config.Config
	logger   *slog.Logger
	stop     atomic.Bool
	done     chan struct{}
}

// NewServer returns a new acceptor. Connections that the executor refuses to take because
// its queue is full are passed to onReject on the accepting goroutine.
func NewServer(
	sock net.Listener, pool Executor, onConn, onReject OnConn, cfg *config.Config, logger *slog.Logger,
) *Server {
	return &Server{
		sock:     sock,
		pool:     pool,
		onConn:   onConn,
		onReject: onReject,
		cfg:      cfg,
		logger:   logging.OrDiscard(logger),
		done:     make(chan struct{}),
	}
}

// Start runs the accept loop. It blocks until Stop is called or the listener fails. The
// listener is always closed on return.
func (s *Server) Start() error {
	defer close(s.done)
	defer func() {
		_ = s.sock.Close()
	}()

	dl, canInterrupt := s.sock.(deadliner)
	var delay time.Duration

	for !s.stop.Load() {
		if canInterrupt {
			if err := dl.SetDeadline(time.Now().Add(s.cfg.NET.AcceptLoopInterruptPeriod)); err != nil {
				return err
			}
		}

		conn, err := s.sock.Accept()
		if err != nil {
			switch {
			case s.stop.Load():
				return nil
			case errors.Is(err, os.ErrDeadlineExceeded):
				continue
			case errors.Is(err, net.ErrClosed):
				return err
			}

			// most likely running out of file descriptors, give it time to recover
			delay = min(max(delay*2, 5*time.Millisecond), maxAcceptDelay)
			s.logger.Error("accept failed, retrying", "error", err, "delay", delay)
			time.Sleep(delay)
			continue
		}

		delay = 0
		s.dispatch(conn)
	}

	return nil
}

func (s *Server) dispatch(conn net.Conn) {
	err := s.pool.Execute(func() {
		s.onConn(conn)
	})

	switch {
	case err == nil:
	case errors.Is(err, workerpool.ErrQueueFull):
		s.logger.Warn("queue is full, rejecting connection", "remote", conn.RemoteAddr())
		s.onReject(conn)
	default:
		s.logger.Debug("connection dropped", "remote", conn.RemoteAddr(), "error", err)
		_ = conn.Close()
	}
}

// Stop makes the accept loop exit. It doesn't wait for it, use Wait for that. Connections
// that are already accepted are left untouched.
func (s *Server) Stop() {
	s.stop.Store(true)

	if _, ok := s.sock.(deadliner); !ok {
		_ = s.sock.Close()
	}
}

// Wait blocks until Start returns.
func (s *Server) Wait() {
	<-s.done
}

// Addr returns the address the server is listening on.
func (s *Server) Addr() net.Addr {
	return s.sock.Addr()
}
