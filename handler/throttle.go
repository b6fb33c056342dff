package handler

import (
	"strconv"
	"time"

	"github.com/dmitrymomot/wirekit/pkg/clientip"
	"github.com/dmitrymomot/wirekit/pkg/header"
	"github.com/dmitrymomot/wirekit/pkg/ratelimiter"
	"github.com/dmitrymomot/wirekit/wire"
)

// KeyFunc derives the rate limit key of a request. An empty key bypasses the
// limiter.
type KeyFunc func(ctx *Context, req *wire.Request) string

// ByClientIP keys requests by route path and client address.
func ByClientIP(ctx *Context, req *wire.Request) string {
	ip := clientip.FromContext(ctx)
	if ip == "" {
		return ""
	}
	return req.Path + "|" + ip
}

// Throttle rejects requests over the limit with 429 and a Retry-After header.
// Every limited response carries the X-RateLimit-* headers. A limiter failure
// goes to the error handler (WithErrorHandler, DefaultErrorHandler otherwise).
func Throttle(l ratelimiter.Limiter, key KeyFunc, opts ...Option) Decorator {
	cfg := &wrapConfig{errorHandler: DefaultErrorHandler}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next Endpoint) Endpoint {
		return func(ctx *Context, req *wire.Request) *wire.Response {
			k := key(ctx, req)
			if k == "" {
				return next(ctx, req)
			}
			res, err := l.Allow(ctx, k)
			if err != nil {
				return cfg.errorHandler(ctx, err)
			}

			var resp *wire.Response
			if res.Allowed() {
				resp = next(ctx, req)
			} else {
				resp = cfg.errorHandler(ctx, ErrTooManyRequests)
				if secs := int(res.RetryAfter(time.Now()).Round(time.Second).Seconds()); secs > 0 {
					resp.Header.Set("Retry-After", strconv.Itoa(secs))
				}
			}
			if resp == nil {
				return nil
			}
			if resp.Header == nil {
				resp.Header = header.New()
			}
			resp.Header.Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
			resp.Header.Set("X-RateLimit-Remaining", strconv.Itoa(max(res.Remaining, 0)))
			resp.Header.Set("X-RateLimit-Reset", strconv.FormatInt(res.ResetAt.Unix(), 10))
			return resp
		}
	}
}
