package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"runtime/debug"
	"sync"
	"time"

	"github.com/dmitrymomot/wirekit/handler"
	"github.com/dmitrymomot/wirekit/pkg/clientip"
	"github.com/dmitrymomot/wirekit/pkg/header"
	"github.com/dmitrymomot/wirekit/pkg/logger"
	"github.com/dmitrymomot/wirekit/pkg/requestid"
	"github.com/dmitrymomot/wirekit/router"
	"github.com/dmitrymomot/wirekit/wire"
)

// Authenticator resolves the caller of a request and checks route policies.
type Authenticator interface {
	Authenticate(ctx *handler.Context, req *wire.Request)
	Enforce(ctx *handler.Context, policy router.Policy) error
}

// Server dispatches requests read from connections to endpoints.
type Server struct {
	routes    *router.Tree[handler.Endpoint]
	resources *handler.Resources

	addr            string
	readTimeout     time.Duration
	writeTimeout    time.Duration
	shutdownTimeout time.Duration
	maxBodyBytes    int64
	maxLineBytes    int
	maxHeaders      int
	trustProxy      bool

	auth         Authenticator
	cors         *CORS
	errorHandler handler.ErrorHandler
	log          *slog.Logger

	mu    sync.Mutex
	conns map[net.Conn]struct{}
	wg    sync.WaitGroup
}

// New returns a Server for routes. res is shared by all requests and may be nil.
func New(routes *router.Tree[handler.Endpoint], res *handler.Resources, opts ...Option) (*Server, error) {
	if routes == nil {
		return nil, ErrNoRoutes
	}
	if res == nil {
		res = &handler.Resources{}
	}
	s := &Server{
		routes:          routes,
		resources:       res,
		addr:            ":8080",
		shutdownTimeout: 10 * time.Second,
		cors:            NewCORS(),
		log:             logger.Discard(),
		conns:           make(map[net.Conn]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(logger.Component("server"))
	if s.errorHandler == nil {
		s.errorHandler = handler.NewErrorHandler(s.log)
	}
	if s.resources.Logger == nil {
		s.resources.Logger = s.log
	}
	return s, nil
}

// NewFromConfig is New with options taken from cfg. Extra opts are applied last.
func NewFromConfig(cfg Config, routes *router.Tree[handler.Endpoint], res *handler.Resources, opts ...Option) (*Server, error) {
	return New(routes, res, append(cfg.Options(), opts...)...)
}

// ListenAndServe listens on the configured TCP address and calls Serve.
func (s *Server) ListenAndServe(ctx context.Context) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.addr)
	if err != nil {
		return errors.Join(ErrListen, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections from ln until ctx ends, then closes ln, lets the
// open connections finish their current request and returns. Connections still
// open after the shutdown timeout are closed and ErrShutdown is returned.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.log.InfoContext(ctx, "server listening", slog.String("addr", ln.Addr().String()))

	stop := context.AfterFunc(ctx, func() { _ = ln.Close() })
	defer stop()

	var backoff time.Duration
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				break
			}
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				backoff = min(max(2*backoff, 5*time.Millisecond), time.Second)
				s.log.WarnContext(ctx, "accept failed, retrying",
					logger.Error(err), logger.Duration(backoff))
				time.Sleep(backoff)
				continue
			}
			return errors.Join(ErrAccept, err)
		}
		backoff = 0

		s.track(conn, true)
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer s.track(conn, false)
			s.ServeConn(ctx, conn)
		}()
	}

	return s.shutdown(ctx)
}

func (s *Server) shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.log.InfoContext(ctx, "server stopped")
		return nil
	case <-time.After(s.shutdownTimeout):
	}

	s.mu.Lock()
	open := len(s.conns)
	for c := range s.conns {
		_ = c.Close()
	}
	s.mu.Unlock()
	<-done
	return fmt.Errorf("%w: %d closed", ErrShutdown, open)
}

func (s *Server) track(c net.Conn, add bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if add {
		s.conns[c] = struct{}{}
	} else {
		delete(s.conns, c)
	}
}

// ServeConn serves requests from conn in order until the peer closes it, a
// request cannot be parsed or ctx ends. conn is closed on return.
func (s *Server) ServeConn(ctx context.Context, conn net.Conn) {
	ctx = requestid.WithConn(ctx, requestid.New())
	ctx = clientip.WithPeer(ctx, remoteAddr(conn))
	defer func() {
		if rec := recover(); rec != nil {
			s.log.ErrorContext(ctx, "connection goroutine panicked",
				slog.Any("panic", rec), slog.String("stack", string(debug.Stack())))
		}
		_ = conn.Close()
	}()
	s.log.DebugContext(ctx, "connection opened", logger.Remote(remoteAddr(conn)))

	// wakes an idle reader once ctx ends; a request already read still gets
	// its answer because handlers run on a context detached from ctx
	stop := context.AfterFunc(ctx, func() { _ = conn.SetReadDeadline(time.Now()) })
	defer stop()
	reqCtx := context.WithoutCancel(ctx)

	reader := wire.NewReader(conn,
		wire.WithMaxBodyBytes(s.maxBodyBytes),
		wire.WithMaxLineBytes(s.maxLineBytes),
		wire.WithMaxHeaders(s.maxHeaders),
	)

	for {
		if s.readTimeout > 0 {
			_ = conn.SetReadDeadline(time.Now().Add(s.readTimeout))
		}
		if ctx.Err() != nil {
			return
		}
		req, err := reader.ReadRequest()
		if err != nil {
			s.readFailed(ctx, conn, err)
			return
		}
		resp := s.Handle(reqCtx, req)
		if !s.write(ctx, conn, resp) {
			return
		}
	}
}

// readFailed answers malformed and oversized requests. Closed or timed-out
// streams end the connection silently.
func (s *Server) readFailed(ctx context.Context, conn net.Conn, err error) {
	if !errors.Is(err, wire.ErrBadRequest) && !errors.Is(err, wire.ErrBodyTooLarge) {
		if !errors.Is(err, io.EOF) {
			s.log.DebugContext(ctx, "connection closed", logger.Error(err))
		}
		return
	}

	info := handler.Classify(err)
	s.log.Log(ctx, info.LogLevel, "request rejected by reader",
		logger.Status(info.Status), logger.Error(err), logger.Remote(remoteAddr(conn)))
	resp := handler.ErrorResponse(info)
	resp.Header.Set("Connection", "close")
	s.cors.Apply(nil, resp)
	s.write(ctx, conn, resp)
}

func (s *Server) write(ctx context.Context, conn net.Conn, resp *wire.Response) bool {
	if s.writeTimeout > 0 {
		_ = conn.SetWriteDeadline(time.Now().Add(s.writeTimeout))
	}
	if _, err := resp.WriteTo(conn); err != nil {
		s.log.DebugContext(ctx, "write failed", logger.Error(err))
		return false
	}
	return true
}

// Handle runs one request through authentication, routing, policy
// enforcement and the endpoint. It always returns a response.
func (s *Server) Handle(ctx context.Context, req *wire.Request) *wire.Response {
	start := time.Now()
	rid := requestid.FromHeader(req.Header)
	var forwarded header.Header
	if s.trustProxy {
		forwarded = req.Header
	}
	ip := clientip.Resolve(forwarded, clientip.PeerFromContext(ctx))
	ctx = clientip.WithContext(requestid.WithContext(ctx, rid), ip)
	hctx := handler.NewContext(ctx, s.resources)

	resp := s.dispatch(hctx, req)
	if resp.Header == nil {
		resp.Header = header.New()
	}
	s.cors.Apply(req, resp)
	resp.Header.Set(requestid.Header, rid)

	s.log.Log(hctx, levelFor(resp.Status), "request served",
		logger.Method(req.Method),
		logger.Path(req.Path),
		logger.Status(resp.Status),
		logger.Remote(ip),
		logger.Bytes(len(resp.Body)),
		logger.Duration(time.Since(start)),
	)
	return resp
}

func (s *Server) dispatch(ctx *handler.Context, req *wire.Request) (resp *wire.Response) {
	defer func() {
		if rec := recover(); rec != nil {
			s.log.ErrorContext(ctx, "request panicked",
				slog.Any("panic", rec), slog.String("stack", string(debug.Stack())))
			resp = s.errorHandler(ctx, fmt.Errorf("%w: %v", handler.ErrPanic, rec))
		}
	}()

	if s.auth != nil {
		s.auth.Authenticate(ctx, req)
	}

	if req.Method == wire.MethodOptions {
		if _, ok := s.routes.Lookup(req.Method, req.Path); !ok {
			if methods := s.routes.Methods(req.Path); len(methods) > 0 {
				return s.cors.Preflight(methods)
			}
		}
	}

	entry, ok := s.routes.Lookup(req.Method, req.Path)
	if !ok {
		return wire.Empty(http.StatusNotFound)
	}

	if err := s.enforce(ctx, entry.Policy); err != nil {
		return s.errorHandler(ctx, err)
	}

	resp = entry.Handler(ctx, req)
	if resp == nil {
		return s.errorHandler(ctx, handler.ErrNilResponse)
	}
	return resp
}

func (s *Server) enforce(ctx *handler.Context, policy router.Policy) error {
	if s.auth != nil {
		return s.auth.Enforce(ctx, policy)
	}
	if policy.NeedsSession() {
		if _, ok := ctx.Session(); !ok {
			return handler.ErrUnauthorized
		}
	}
	return nil
}

func levelFor(status int) slog.Level {
	switch {
	case status >= 500:
		return slog.LevelError
	case status >= 400:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

func remoteAddr(conn net.Conn) string {
	if a := conn.RemoteAddr(); a != nil {
		return a.String()
	}
	return ""
}
