package account

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrymomot/wirekit/handler"
	"github.com/dmitrymomot/wirekit/pkg/account"
	"github.com/dmitrymomot/wirekit/pkg/ratelimiter"
	"github.com/dmitrymomot/wirekit/pkg/session"
	"github.com/dmitrymomot/wirekit/router"
	"github.com/dmitrymomot/wirekit/svc/auth"
)

// MinPasswordLength is enforced on registration.
const MinPasswordLength = 8

// Module serves the account endpoints.
type Module struct {
	auth         *auth.Service
	maxFileBytes int64
	allowedTypes []string
	fileQueue    string
	errorHandler handler.ErrorHandler
	limiter      ratelimiter.Limiter
}

// Option configures a Module.
type Option func(*Module)

// WithMaxFileBytes caps the size of each uploaded file.
func WithMaxFileBytes(n int64) Option {
	return func(m *Module) {
		if n > 0 {
			m.maxFileBytes = n
		}
	}
}

// WithAllowedTypes restricts uploads to the given sniffed content types.
func WithAllowedTypes(types ...string) Option {
	return func(m *Module) {
		m.allowedTypes = types
	}
}

// WithFileQueue sets the queue FileUploaded tasks are sent to.
func WithFileQueue(name string) Option {
	return func(m *Module) {
		if name != "" {
			m.fileQueue = name
		}
	}
}

// WithErrorHandler overrides the error handler of every endpoint.
func WithErrorHandler(h handler.ErrorHandler) Option {
	return func(m *Module) {
		m.errorHandler = h
	}
}

// WithLimiter throttles /register and /login per client address.
func WithLimiter(l ratelimiter.Limiter) Option {
	return func(m *Module) {
		m.limiter = l
	}
}

// New returns a Module backed by svc.
func New(svc *auth.Service, opts ...Option) *Module {
	m := &Module{
		auth:         svc,
		maxFileBytes: 5 << 20,
		fileQueue:    FileQueue,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Register adds the module routes to b.
func (m *Module) Register(b *router.Builder[handler.Endpoint]) {
	var opts []handler.Option
	if m.errorHandler != nil {
		opts = append(opts, handler.WithErrorHandler(m.errorHandler))
	}

	credOpts := opts
	if m.limiter != nil {
		credOpts = append(credOpts[:len(credOpts):len(credOpts)],
			handler.WithDecorators(handler.Throttle(m.limiter, handler.ByClientIP, opts...)))
	}

	b.Post("/register", handler.WrapRequest(handler.JSON[Credentials](), m.register, credOpts...), router.Public())
	b.Post("/login", handler.WrapRequest(handler.JSON[Credentials](), m.login, credOpts...), router.Public())
	b.Post("/logout", handler.WrapDeps(handler.CurrentSession(), m.logout, opts...), router.Protected())
	b.Get("/me", handler.WrapDeps(handler.CurrentAccount(), m.me, opts...), router.Protected())
	b.Get("/admin/ping", handler.Wrap(m.ping, opts...), router.RequireRole(account.RoleAdmin))
	b.Post("/files", handler.WrapRequestDeps(handler.Multipart(), uploadDeps(), m.upload, opts...), router.Protected())
}

// Credentials is the body of /register and /login.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks the shape of the credentials.
func (c Credentials) Validate() error {
	verr := handler.NewValidationError()
	email := strings.TrimSpace(c.Email)
	switch at := strings.IndexByte(email, '@'); {
	case email == "":
		verr.Add("email", "is required")
	case at <= 0 || at == len(email)-1:
		verr.Add("email", "must be a valid email address")
	}
	switch {
	case c.Password == "":
		verr.Add("password", "is required")
	case len(c.Password) < MinPasswordLength:
		verr.Add("password", "must be at least 8 characters")
	}
	return verr.Err()
}

// TokenView is the body of a successful login.
type TokenView struct {
	Token     string    `json:"token"`
	SessionID string    `json:"session_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (m *Module) register(ctx *handler.Context, req Credentials) handler.Response {
	a, err := m.auth.Register(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrEmailTaken) {
			return handler.Error(handler.ErrConflict.WithMessage("email already registered"))
		}
		return handler.Error(err)
	}
	return handler.JSON(a.View(), handler.WithJSONStatus(http.StatusCreated))
}

func (m *Module) login(ctx *handler.Context, req Credentials) handler.Response {
	grant, err := m.auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return handler.Error(handler.ErrUnauthorized.WithMessage("invalid email or password"))
		}
		return handler.Error(err)
	}
	c, err := m.auth.SessionCookie(grant.Token)
	if err != nil {
		return handler.Error(err)
	}
	return handler.WithCookie(handler.JSON(TokenView{
		Token:     grant.Token,
		SessionID: grant.Session.ID.String(),
		ExpiresAt: grant.ExpiresAt,
	}), c)
}

func (m *Module) logout(ctx *handler.Context, s session.Session) handler.Response {
	if err := m.auth.Logout(ctx, s); err != nil {
		return handler.Error(err)
	}
	return handler.WithCookie(handler.Empty(), m.auth.ClearCookie())
}

func (m *Module) me(_ *handler.Context, a account.Account) handler.Response {
	return handler.JSON(a.View())
}

func (m *Module) ping(*handler.Context) handler.Response {
	return handler.JSON(map[string]string{"status": "pong"})
}
