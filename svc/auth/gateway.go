package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/dmitrymomot/wirekit/handler"
	"github.com/dmitrymomot/wirekit/pkg/account"
	"github.com/dmitrymomot/wirekit/pkg/cookie"
	"github.com/dmitrymomot/wirekit/pkg/jwt"
	"github.com/dmitrymomot/wirekit/pkg/logger"
	"github.com/dmitrymomot/wirekit/pkg/session"
	"github.com/dmitrymomot/wirekit/router"
	"github.com/dmitrymomot/wirekit/store"
	"github.com/dmitrymomot/wirekit/wire"
)

// Gateway resolves request tokens into sessions and enforces route policies.
type Gateway struct {
	tokens        *jwt.Service
	sessions      store.Repository[session.Session]
	accounts      store.Repository[account.Account]
	cookiePrefix  string
	enforceExpiry bool
	log           *slog.Logger
}

// GatewayOption configures a Gateway.
type GatewayOption func(*Gateway)

// WithCookiePrefix sets the prefix a session cookie name must start with.
func WithCookiePrefix(prefix string) GatewayOption {
	return func(g *Gateway) {
		if prefix != "" {
			g.cookiePrefix = prefix
		}
	}
}

// WithExpiryEnforcement treats sessions past their expiry as anonymous.
func WithExpiryEnforcement(enforce bool) GatewayOption {
	return func(g *Gateway) {
		g.enforceExpiry = enforce
	}
}

// WithGatewayLogger sets the logger used for debug traces of rejected tokens.
func WithGatewayLogger(log *slog.Logger) GatewayOption {
	return func(g *Gateway) {
		if log != nil {
			g.log = log
		}
	}
}

// NewGateway returns a Gateway. accounts may be nil when no route uses
// RequireRole.
func NewGateway(
	tokens *jwt.Service,
	sessions store.Repository[session.Session],
	accounts store.Repository[account.Account],
	opts ...GatewayOption,
) *Gateway {
	g := &Gateway{
		tokens:       tokens,
		sessions:     sessions,
		accounts:     accounts,
		cookiePrefix: DefaultCookieName,
		log:          logger.Discard(),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.log = g.log.With(logger.Component("auth"))
	return g
}

// NewGatewayFromConfig builds the token service from cfg.
func NewGatewayFromConfig(
	cfg Config,
	sessions store.Repository[session.Session],
	accounts store.Repository[account.Account],
	log *slog.Logger,
) (*Gateway, error) {
	tokens, err := newTokens(cfg)
	if err != nil {
		return nil, err
	}
	return NewGateway(tokens, sessions, accounts,
		WithCookiePrefix(cfg.cookieName()),
		WithExpiryEnforcement(cfg.EnforceExpiry),
		WithGatewayLogger(log),
	), nil
}

func newTokens(cfg Config) (*jwt.Service, error) {
	if cfg.TokenSecret == "" {
		return nil, ErrMissingSecret
	}
	return jwt.NewFromString(cfg.TokenSecret)
}

// Token returns the request token. The Authorization header wins over cookies.
func (g *Gateway) Token(req *wire.Request) (string, bool) {
	if raw := req.Header.Get("authorization"); raw != "" {
		scheme, token, ok := strings.Cut(strings.TrimSpace(raw), " ")
		if ok && strings.EqualFold(scheme, "bearer") {
			if token = strings.TrimSpace(token); token != "" {
				return token, true
			}
		}
	}
	if raw := req.Header.Get("cookie"); raw != "" {
		if c, ok := cookie.FindPrefix(cookie.Parse(raw), g.cookiePrefix); ok && c.Value != "" {
			return c.Value, true
		}
	}
	return "", false
}

// Authenticate attaches the session referenced by the request token to ctx.
// It never fails: every problem leaves the request anonymous.
func (g *Gateway) Authenticate(ctx *handler.Context, req *wire.Request) {
	token, ok := g.Token(req)
	if !ok {
		return
	}
	s, err := g.resolve(ctx, token)
	if err != nil {
		g.log.DebugContext(ctx, "request continues anonymously", logger.Error(err))
		return
	}
	ctx.AttachSession(s)
}

// Resolve validates token and loads its session.
func (g *Gateway) Resolve(ctx context.Context, token string) (session.Session, error) {
	return g.resolve(ctx, token)
}

func (g *Gateway) resolve(ctx context.Context, token string) (session.Session, error) {
	claims, err := g.tokens.ParseSession(token)
	if err != nil {
		return session.Session{}, err
	}
	if _, err := uuid.Parse(claims.SessionID); err != nil {
		return session.Session{}, errors.Join(jwt.ErrInvalidClaims, err)
	}
	if g.sessions == nil {
		return session.Session{}, ErrNoSession
	}
	s, err := g.sessions.Get(ctx, store.By("id", claims.SessionID))
	if err != nil {
		return session.Session{}, err
	}
	if g.enforceExpiry && s.IsExpired() {
		return session.Session{}, jwt.ErrExpiredToken
	}
	return s, nil
}

// Enforce checks policy against the session attached to ctx. It returns
// handler.ErrUnauthorized when a session is required but missing and
// handler.ErrForbidden when the account lacks the required role.
func (g *Gateway) Enforce(ctx *handler.Context, policy router.Policy) error {
	if !policy.NeedsSession() {
		return nil
	}
	s, ok := ctx.Session()
	if !ok {
		return handler.ErrUnauthorized
	}
	if policy.Kind != router.KindRole {
		return nil
	}
	if g.accounts == nil {
		return handler.ErrForbidden
	}
	a, err := g.accounts.Get(ctx, store.By("id", s.AccountID.String()))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return handler.ErrUnauthorized
		}
		return err
	}
	if !a.HasRole(policy.Role) {
		return handler.ErrForbidden.WithMessage("role " + policy.Role + " required")
	}
	return nil
}
