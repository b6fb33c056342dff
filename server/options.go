package server

import (
	"log/slog"
	"time"

	"github.com/dmitrymomot/wirekit/handler"
)

// Option configures a Server.
type Option func(*Server)

func WithAddr(addr string) Option {
	return func(s *Server) {
		if addr != "" {
			s.addr = addr
		}
	}
}

// WithReadTimeout bounds the wait for each request, including the idle time
// between requests on one connection.
func WithReadTimeout(d time.Duration) Option {
	return func(s *Server) {
		s.readTimeout = d
	}
}

func WithWriteTimeout(d time.Duration) Option {
	return func(s *Server) {
		s.writeTimeout = d
	}
}

// WithShutdownTimeout bounds how long Serve waits for open connections after
// its context ends.
func WithShutdownTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.shutdownTimeout = d
		}
	}
}

func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) {
		s.maxBodyBytes = n
	}
}

// WithMaxHeaderBytes limits the request line and every header line.
func WithMaxHeaderBytes(n int) Option {
	return func(s *Server) {
		s.maxLineBytes = n
	}
}

func WithMaxHeaders(n int) Option {
	return func(s *Server) {
		s.maxHeaders = n
	}
}

// WithTrustProxyHeaders makes the client address follow the forwarding
// headers set by a reverse proxy. Leave it off when clients connect directly.
func WithTrustProxyHeaders(trust bool) Option {
	return func(s *Server) {
		s.trustProxy = trust
	}
}

// WithAuthenticator installs the gateway. Without one every request is
// anonymous and policies that need a session reject it.
func WithAuthenticator(a Authenticator) Option {
	return func(s *Server) {
		s.auth = a
	}
}

func WithCORS(c *CORS) Option {
	return func(s *Server) {
		if c != nil {
			s.cors = c
		}
	}
}

// WithErrorHandler renders policy and parse failures.
func WithErrorHandler(h handler.ErrorHandler) Option {
	return func(s *Server) {
		if h != nil {
			s.errorHandler = h
		}
	}
}

func WithLogger(log *slog.Logger) Option {
	return func(s *Server) {
		if log != nil {
			s.log = log
		}
	}
}
