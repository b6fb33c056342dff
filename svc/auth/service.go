package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dmitrymomot/wirekit/pkg/account"
	"github.com/dmitrymomot/wirekit/pkg/cookie"
	"github.com/dmitrymomot/wirekit/pkg/jwt"
	"github.com/dmitrymomot/wirekit/pkg/logger"
	"github.com/dmitrymomot/wirekit/pkg/session"
	"github.com/dmitrymomot/wirekit/store"
)

// Grant is the outcome of a successful login.
type Grant struct {
	Token     string
	Session   session.Session
	ExpiresAt time.Time
}

// Service handles registration, login and logout.
type Service struct {
	cfg      Config
	tokens   *jwt.Service
	accounts store.Repository[account.Account]
	sessions store.Repository[session.Session]
	params   HashParams
	log      *slog.Logger

	afterRegister func(ctx context.Context, a account.Account)
	afterLogin    func(ctx context.Context, a account.Account, s session.Session)
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithServiceLogger sets the logger.
func WithServiceLogger(log *slog.Logger) ServiceOption {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithHashParams overrides the argon2id cost parameters.
func WithHashParams(p HashParams) ServiceOption {
	return func(s *Service) {
		s.params = p
	}
}

// WithAfterRegister runs fn after an account has been stored.
func WithAfterRegister(fn func(context.Context, account.Account)) ServiceOption {
	return func(s *Service) {
		s.afterRegister = fn
	}
}

// WithAfterLogin runs fn after a session has been created.
func WithAfterLogin(fn func(context.Context, account.Account, session.Session)) ServiceOption {
	return func(s *Service) {
		s.afterLogin = fn
	}
}

// NewService returns a Service. The token secret must be at least
// jwt.MinKeyLength bytes long.
func NewService(
	cfg Config,
	accounts store.Repository[account.Account],
	sessions store.Repository[session.Session],
	opts ...ServiceOption,
) (*Service, error) {
	tokens, err := newTokens(cfg)
	if err != nil {
		return nil, err
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 24 * time.Hour
	}
	s := &Service{
		cfg:      cfg,
		tokens:   tokens,
		accounts: accounts,
		sessions: sessions,
		params:   DefaultHashParams,
		log:      logger.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(logger.Component("auth"))
	return s, nil
}

// Register stores a new account. The email is normalized first.
func (s *Service) Register(ctx context.Context, email, password string, roles ...string) (account.Account, error) {
	hash, err := HashPassword(password, s.params)
	if err != nil {
		return account.Account{}, err
	}
	a := account.New(email, hash)
	if len(roles) > 0 {
		a.Roles = roles
	}
	if err := s.accounts.Create(ctx, a); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return account.Account{}, errors.Join(ErrEmailTaken, err)
		}
		return account.Account{}, fmt.Errorf("auth: create account: %w", err)
	}
	s.log.InfoContext(ctx, "account registered", logger.AccountID(a.ID.String()))
	if s.afterRegister != nil {
		s.afterRegister(ctx, a)
	}
	return a, nil
}

// Login verifies the credentials, starts a session and signs its token.
// Unknown emails and wrong passwords both yield ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (Grant, error) {
	a, err := s.accounts.Get(ctx, store.By("email", account.NormalizeEmail(email)))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Grant{}, ErrInvalidCredentials
		}
		return Grant{}, fmt.Errorf("auth: load account: %w", err)
	}

	ok, err := VerifyPassword(password, a.PasswordHash)
	if err != nil {
		s.log.WarnContext(ctx, "stored password hash is unusable",
			logger.AccountID(a.ID.String()), logger.Error(err))
		return Grant{}, ErrInvalidCredentials
	}
	if !ok {
		return Grant{}, ErrInvalidCredentials
	}

	sess := session.New(a.ID, s.cfg.SessionTTL)
	if err := s.sessions.Create(ctx, sess); err != nil {
		return Grant{}, fmt.Errorf("auth: create session: %w", err)
	}
	token, err := s.tokens.SignSession(sess.ID.String(), sess.ExpiresAt)
	if err != nil {
		return Grant{}, fmt.Errorf("auth: sign token: %w", err)
	}

	s.log.InfoContext(ctx, "session started",
		logger.AccountID(a.ID.String()), logger.SessionID(sess.ID.String()))
	if s.afterLogin != nil {
		s.afterLogin(ctx, a, sess)
	}
	return Grant{Token: token, Session: sess, ExpiresAt: sess.ExpiresAt}, nil
}

// Logout deletes the session. A session that is already gone is not an error.
func (s *Service) Logout(ctx context.Context, sess session.Session) error {
	if err := s.sessions.Delete(ctx, sess); err != nil && !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("auth: delete session: %w", err)
	}
	s.log.InfoContext(ctx, "session ended", logger.SessionID(sess.ID.String()))
	return nil
}

// SessionCookie returns the Set-Cookie value carrying token.
func (s *Service) SessionCookie(token string) (cookie.Cookie, error) {
	return cookie.New(s.cfg.cookieName(), token, s.cookieOptions()...)
}

// ClearCookie returns a cookie that removes the session cookie.
func (s *Service) ClearCookie() cookie.Cookie {
	return cookie.Expired(s.cfg.cookieName(), s.cookieOptions()...)
}

func (s *Service) cookieOptions() []cookie.Option {
	cfg := s.cfg.Cookie
	if cfg == (cookie.Config{}) {
		cfg = cookie.DefaultConfig()
	}
	return cfg.Options()
}
