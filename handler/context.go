package handler

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/wirekit/file"
	"github.com/dmitrymomot/wirekit/pkg/account"
	"github.com/dmitrymomot/wirekit/pkg/logger"
	"github.com/dmitrymomot/wirekit/pkg/queue"
	"github.com/dmitrymomot/wirekit/pkg/session"
	"github.com/dmitrymomot/wirekit/store"
)

// Enqueuer schedules deferred work. *queue.Enqueuer implements it.
type Enqueuer interface {
	Enqueue(ctx context.Context, event any, opts ...queue.EnqueueOption) (queue.Ticket, error)
}

// Resources are the collaborators shared by every connection. Each field must
// be safe for concurrent use; nil fields are reported as unavailable when a
// handler asks for them.
type Resources struct {
	Accounts store.Repository[account.Account]
	Sessions store.Repository[session.Session]
	Tasks    Enqueuer
	Files    file.Storage
	Logger   *slog.Logger
}

// Context is the per-request handle passed to endpoints. It embeds the
// request context, which doubles as the request-scoped value bag, and points
// at the shared Resources.
//
// A Context is owned by one connection goroutine. Use Clone to hand it to
// another goroutine.
type Context struct {
	context.Context
	res *Resources
}

// NewContext returns a Context over parent. A nil res is treated as empty.
func NewContext(parent context.Context, res *Resources) *Context {
	if res == nil {
		res = &Resources{}
	}
	return &Context{Context: parent, res: res}
}

// Resources returns the shared collaborators.
func (c *Context) Resources() *Resources {
	return c.res
}

// Clone returns a copy that shares the resources and the current values.
func (c *Context) Clone() *Context {
	return &Context{Context: c.Context, res: c.res}
}

// Set stores a request-scoped value under key.
func (c *Context) Set(key, value any) {
	c.Context = context.WithValue(c.Context, key, value)
}

// AttachSession makes s the current session of the request.
func (c *Context) AttachSession(s session.Session) {
	c.Context = session.WithSession(c.Context, s)
}

// Session returns the current session, if the gateway attached one.
func (c *Context) Session() (session.Session, bool) {
	return session.FromContext(c.Context)
}

// Logger returns the resource logger or a discarding one.
func (c *Context) Logger() *slog.Logger {
	if c.res.Logger != nil {
		return c.res.Logger
	}
	return logger.Discard()
}

// ContextKey is a typed key for request-scoped values.
type ContextKey struct{ name string }

func (k *ContextKey) String() string {
	return k.name
}

// NewContextKey returns a new unique key.
//
//	var traceKey = handler.NewContextKey("trace")
func NewContextKey(name string) *ContextKey {
	return &ContextKey{name}
}

// ContextValue returns the value under key, or the zero T.
func ContextValue[T any](ctx context.Context, key any) T {
	v, _ := ctx.Value(key).(T)
	return v
}

// ContextValueOK distinguishes a missing key from a zero value.
func ContextValueOK[T any](ctx context.Context, key any) (T, bool) {
	v, ok := ctx.Value(key).(T)
	return v, ok
}
