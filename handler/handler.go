package handler

import (
	"fmt"

	"github.com/dmitrymomot/wirekit/wire"
)

// Endpoint is the uniform callable bound to a route. Every Wrap* builder
// produces one; the dispatcher only ever calls Endpoints.
type Endpoint func(ctx *Context, req *wire.Request) *wire.Response

// Decorator wraps an Endpoint. The first decorator given is the outermost.
type Decorator func(next Endpoint) Endpoint

// Option configures a Wrap* builder.
type Option func(*wrapConfig)

type wrapConfig struct {
	errorHandler ErrorHandler
	decorators   []Decorator
}

// WithErrorHandler replaces DefaultErrorHandler.
func WithErrorHandler(h ErrorHandler) Option {
	return func(c *wrapConfig) {
		if h != nil {
			c.errorHandler = h
		}
	}
}

// WithDecorators adds decorators around the endpoint.
func WithDecorators(decorators ...Decorator) Option {
	return func(c *wrapConfig) {
		c.decorators = append(c.decorators, decorators...)
	}
}

// Wrap binds a handler that needs nothing but the Context.
//
//	handler.Wrap(func(ctx *handler.Context) handler.Response {
//		return handler.Text("pong")
//	})
func Wrap(fn func(ctx *Context) Response, opts ...Option) Endpoint {
	return bind(func(ctx *Context, _ *wire.Request) (Response, error) {
		return fn(ctx), nil
	}, opts)
}

// WrapRequest binds a handler taking one request-extracted argument.
//
//	handler.WrapRequest(handler.JSON[LoginInput](), svc.Login)
func WrapRequest[R any](x FromRequest[R], fn func(ctx *Context, req R) Response, opts ...Option) Endpoint {
	return bind(func(ctx *Context, req *wire.Request) (Response, error) {
		r, err := x(req)
		if err != nil {
			return nil, err
		}
		return fn(ctx, r), nil
	}, opts)
}

// WrapDeps binds a handler taking context-extracted values. Combine several
// with Both.
func WrapDeps[D any](x FromContext[D], fn func(ctx *Context, deps D) Response, opts ...Option) Endpoint {
	return bind(func(ctx *Context, _ *wire.Request) (Response, error) {
		d, err := x(ctx)
		if err != nil {
			return nil, err
		}
		return fn(ctx, d), nil
	}, opts)
}

// WrapRequestDeps binds a handler taking a request-extracted argument followed
// by context-extracted values. The request is extracted first.
func WrapRequestDeps[R, D any](xr FromRequest[R], xd FromContext[D], fn func(ctx *Context, req R, deps D) Response, opts ...Option) Endpoint {
	return bind(func(ctx *Context, req *wire.Request) (Response, error) {
		r, err := xr(req)
		if err != nil {
			return nil, err
		}
		d, err := xd(ctx)
		if err != nil {
			return nil, err
		}
		return fn(ctx, r, d), nil
	}, opts)
}

type call func(ctx *Context, req *wire.Request) (Response, error)

// bind adapts a handler shape into an Endpoint. Extraction errors, render
// errors and panics all end in the error handler, so an Endpoint always
// returns a response.
func bind(c call, opts []Option) Endpoint {
	cfg := &wrapConfig{errorHandler: DefaultErrorHandler}
	for _, opt := range opts {
		opt(cfg)
	}

	ep := func(ctx *Context, req *wire.Request) (resp *wire.Response) {
		defer func() {
			if rec := recover(); rec != nil {
				resp = cfg.errorHandler(ctx, fmt.Errorf("%w: %v", ErrPanic, rec))
			}
		}()

		r, err := c(ctx, req)
		if err != nil {
			return cfg.errorHandler(ctx, err)
		}
		if r == nil {
			return cfg.errorHandler(ctx, ErrNilResponse)
		}
		out, err := r.Render(ctx)
		if err != nil {
			return cfg.errorHandler(ctx, err)
		}
		if out == nil {
			return cfg.errorHandler(ctx, ErrNilResponse)
		}
		return out
	}

	final := Endpoint(ep)
	for i := len(cfg.decorators) - 1; i >= 0; i-- {
		final = cfg.decorators[i](final)
	}
	return final
}
