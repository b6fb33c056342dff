package server

import (
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrymomot/wirekit/pkg/header"
	"github.com/dmitrymomot/wirekit/wire"
)

// DefaultAllowedHeaders is the header allow-list used when none is configured.
var DefaultAllowedHeaders = []string{"Authorization", "Content-Type", "Cookie", "X-Request-Id"}

// CORS decorates responses with cross-origin headers. The request Origin is
// reflected and credentials are always allowed, so cookies travel with
// cross-origin requests.
type CORS struct {
	allowHeaders string
	methods      []string
	maxAge       time.Duration
}

// CORSOption configures CORS.
type CORSOption func(*CORS)

// WithAllowedHeaders replaces the header allow-list. Blank entries are ignored.
func WithAllowedHeaders(names ...string) CORSOption {
	return func(c *CORS) {
		var list []string
		for _, n := range names {
			if n = strings.TrimSpace(n); n != "" {
				list = append(list, header.CanonicalKey(n))
			}
		}
		if len(list) > 0 {
			c.allowHeaders = strings.Join(list, ", ")
		}
	}
}

// WithAllowedMethods restricts the methods advertised in preflight answers.
// Without it the methods registered for the path are advertised.
func WithAllowedMethods(methods ...string) CORSOption {
	return func(c *CORS) {
		for _, m := range methods {
			if m = strings.ToUpper(strings.TrimSpace(m)); m != "" {
				c.methods = append(c.methods, m)
			}
		}
	}
}

// WithMaxAge sets Access-Control-Max-Age on preflight answers. Zero omits it.
func WithMaxAge(d time.Duration) CORSOption {
	return func(c *CORS) {
		c.maxAge = d
	}
}

// NewCORS returns a CORS decorator.
func NewCORS(opts ...CORSOption) *CORS {
	c := &CORS{allowHeaders: strings.Join(DefaultAllowedHeaders, ", ")}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Apply adds the CORS headers to resp. Requests without Origin get only
// Vary: Origin.
func (c *CORS) Apply(req *wire.Request, resp *wire.Response) {
	resp.Header.Set("Vary", "Origin")
	origin := ""
	if req != nil {
		origin = req.Header.Get("origin")
	}
	if origin == "" {
		return
	}
	resp.Header.Set("Access-Control-Allow-Origin", origin)
	resp.Header.Set("Access-Control-Allow-Credentials", "true")
	resp.Header.Set("Access-Control-Allow-Headers", c.allowHeaders)
}

// Preflight answers an OPTIONS request for a path that serves methods.
func (c *CORS) Preflight(methods []string) *wire.Response {
	allowed := methods
	if len(c.methods) > 0 {
		allowed = slices.DeleteFunc(slices.Clone(methods), func(m string) bool {
			return !slices.Contains(c.methods, m)
		})
	}
	if !slices.Contains(allowed, wire.MethodOptions) {
		allowed = append(allowed, wire.MethodOptions)
	}

	resp := wire.Empty(http.StatusNoContent)
	resp.Header.Set("Allow", strings.Join(allowed, ", "))
	resp.Header.Set("Access-Control-Allow-Methods", strings.Join(allowed, ", "))
	if c.maxAge > 0 {
		resp.Header.Set("Access-Control-Max-Age", strconv.Itoa(int(c.maxAge/time.Second)))
	}
	return resp
}
