package http

import (
	"fmt"
	"io"
	"log/slog"
	"net"
	"runtime/debug"
	"time"

	"github.com/corvid-web/corvid/config"
	"github.com/corvid-web/corvid/http"
	"github.com/corvid-web/corvid/http/method"
	"github.com/corvid-web/corvid/http/status"
	"github.com/corvid-web/corvid/internal/logging"
	"github.com/corvid-web/corvid/internal/pool"
	"github.com/corvid-web/corvid/internal/transport/http1"
	"github.com/corvid-web/corvid/router"
	"github.com/google/uuid"
)

// Router resolves the handler for the request. *router.Table is the one used in production.
type Router interface {
	Lookup(m method.Method, path string) (router.Handler, bool)
}

// Server serves one request per connection: read, parse, dispatch, respond and close.
// No state is kept between connections, so Serve may be called from any number of
// goroutines simultaneously.
type Server struct {
	router      Router
	parser      *http1.Parser
	cfg         *config.Config
	logger      *slog.Logger
	serializers *pool.ObjectPool[*http1.Serializer]
}

func NewServer(r Router, parser *http1.Parser, cfg *config.Config, logger *slog.Logger) *Server {
	return &Server{
		router: r,
		parser: parser,
		cfg:    cfg,
		logger: logging.OrDiscard(logger),
		serializers: pool.NewObjectPool(func() *http1.Serializer {
			return http1.NewSerializer(make([]byte, 0, cfg.NET.ReadBufferSize))
		}),
	}
}

// Serve handles the connection from the beginning till the end. The connection is always
// closed on return.
func (s *Server) Serve(conn net.Conn) {
	defer func() {
		_ = conn.Close()
	}()

	id := uuid.NewString()
	logger := s.logger.With("conn", id, "remote", remoteString(conn))

	data, err := http1.ReadRequest(conn, s.cfg)
	if err != nil {
		logger.Debug("failed to read the request", "error", err)
		return
	}

	var response *http.Response

	request, err := s.parser.Parse(data)
	if err != nil {
		logger.Warn("malformed request", "error", err)
		response = http.NewResponse().Error(err)
	} else {
		request.Remote = conn.RemoteAddr()
		request.ID = id
		logger.Debug("received request", "dump", request.String())
		response = s.dispatch(logger, request)
	}

	s.write(logger, conn, response)
}

// rejectLinger bounds how long Reject waits for the pending request to be drained.
const rejectLinger = 100 * time.Millisecond

type closeWriter interface {
	CloseWrite() error
}

// Reject answers 503 Service Unavailable without parsing the request. Whatever the
// client has already sent is drained before closing, otherwise closing a TCP socket
// with unread data resets the connection and the response may never reach the client.
func (s *Server) Reject(conn net.Conn) {
	defer func() {
		_ = conn.Close()
	}()

	logger := s.logger.With("remote", remoteString(conn))
	s.write(logger, conn, http.Unavailable())

	if cw, ok := conn.(closeWriter); ok {
		_ = cw.CloseWrite()
	}

	if err := conn.SetReadDeadline(time.Now().Add(rejectLinger)); err != nil {
		logger.Debug("failed to set read deadline", "error", err)
		return
	}

	_, _ = io.Copy(io.Discard, io.LimitReader(conn, int64(s.cfg.NET.MaxRequestSize)))
}

func (s *Server) dispatch(logger *slog.Logger, request *http.Request) *http.Response {
	handler, found := s.router.Lookup(request.Method, request.Path)
	if !found {
		logger.Warn(fmt.Sprintf("%s %s 404 Not Found", request.Method, request.Path))
		return http.NotFound()
	}

	response := s.invoke(logger, handler, request)
	code := response.Reveal().Code
	logger.Info(fmt.Sprintf("%s %s %d %s", request.Method, request.Path, code, status.Text(code)))

	return response
}

func (s *Server) invoke(logger *slog.Logger, handler router.Handler, request *http.Request) (response *http.Response) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error(
				"handler panicked",
				"method", request.Method.String(),
				"path", request.Path,
				"panic", r,
				"stack", string(debug.Stack()),
			)
			response = http.InternalError()
		}
	}()

	return notNil(request, handler.Serve(request))
}

func (s *Server) write(logger *slog.Logger, conn net.Conn, response *http.Response) {
	if s.cfg.NET.WriteTimeout > 0 {
		if err := conn.SetWriteDeadline(time.Now().Add(s.cfg.NET.WriteTimeout)); err != nil {
			logger.Debug("failed to set write deadline", "error", err)
			return
		}
	}

	// connections are never reused
	response.Header("Connection", "close")

	serializer := s.serializers.Acquire()
	defer s.serializers.Release(serializer)

	if err := serializer.Write(response, conn); err != nil {
		logger.Debug("failed to write the response", "error", err)
	}
}

func notNil(req *http.Request, resp *http.Response) *http.Response {
	if resp != nil {
		return resp
	}

	return http.Respond(req)
}

func remoteString(conn net.Conn) string {
	if addr := conn.RemoteAddr(); addr != nil {
		return addr.String()
	}

	return ""
}
