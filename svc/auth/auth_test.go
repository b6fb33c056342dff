package auth_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/wirekit/handler"
	"github.com/dmitrymomot/wirekit/pkg/account"
	"github.com/dmitrymomot/wirekit/pkg/header"
	"github.com/dmitrymomot/wirekit/pkg/jwt"
	"github.com/dmitrymomot/wirekit/pkg/session"
	"github.com/dmitrymomot/wirekit/router"
	"github.com/dmitrymomot/wirekit/store"
	"github.com/dmitrymomot/wirekit/svc/auth"
	"github.com/dmitrymomot/wirekit/wire"
)

const secret = "0123456789abcdef0123456789abcdef"

type fixture struct {
	accounts *store.Memory[account.Account]
	sessions *store.Memory[session.Session]
	svc      *auth.Service
	gw       *auth.Gateway
}

func newFixture(t *testing.T, mutate ...func(*auth.Config)) fixture {
	t.Helper()
	cfg := auth.DefaultConfig(secret)
	for _, m := range mutate {
		m(&cfg)
	}
	f := fixture{
		accounts: store.NewMemory[account.Account](store.WithUnique("email")),
		sessions: store.NewMemory[session.Session](),
	}
	svc, err := auth.NewService(cfg, f.accounts, f.sessions, auth.WithHashParams(fastHash))
	require.NoError(t, err)
	gw, err := auth.NewGatewayFromConfig(cfg, f.sessions, f.accounts, nil)
	require.NoError(t, err)
	f.svc, f.gw = svc, gw
	return f
}

func requestWith(headers map[string]string) *wire.Request {
	h := header.New()
	for k, v := range headers {
		h.Set(k, v)
	}
	return wire.NewRequest(wire.MethodGet, "/me", h, wire.NoBody())
}

func TestNewService_Secret(t *testing.T) {
	t.Parallel()

	_, err := auth.NewService(auth.Config{}, nil, nil)
	require.ErrorIs(t, err, auth.ErrMissingSecret)

	_, err = auth.NewService(auth.Config{TokenSecret: "short"}, nil, nil)
	require.ErrorIs(t, err, jwt.ErrInvalidSigningKey)
}

func TestService_RegisterLoginLogout(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t)

	registered, err := f.svc.Register(ctx, "  Ada@Example.com ", "s3cret-pass")
	require.NoError(t, err)
	a := registered
	assert.Equal(t, "ada@example.com", a.Email)
	assert.NotContains(t, a.PasswordHash, "s3cret-pass")

	_, err = f.svc.Register(ctx, "ada@example.com", "other-pass")
	require.ErrorIs(t, err, auth.ErrEmailTaken)
	require.ErrorIs(t, err, store.ErrConflict)

	_, err = f.svc.Login(ctx, "ada@example.com", "wrong-pass")
	require.ErrorIs(t, err, auth.ErrInvalidCredentials)
	_, err = f.svc.Login(ctx, "nobody@example.com", "s3cret-pass")
	require.ErrorIs(t, err, auth.ErrInvalidCredentials)

	grant, err := f.svc.Login(ctx, "ADA@example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.NotEmpty(t, grant.Token)
	assert.Equal(t, registered.ID, grant.Session.AccountID)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), grant.ExpiresAt, time.Minute)

	stored, err := f.sessions.Get(ctx, store.By("id", grant.Session.ID.String()))
	require.NoError(t, err)
	assert.Equal(t, registered.ID, stored.AccountID)

	resolved, err := f.gw.Resolve(ctx, grant.Token)
	require.NoError(t, err)
	assert.Equal(t, grant.Session.ID, resolved.ID)

	require.NoError(t, f.svc.Logout(ctx, grant.Session))
	_, err = f.sessions.Get(ctx, store.By("id", grant.Session.ID.String()))
	require.ErrorIs(t, err, store.ErrNotFound)
	require.NoError(t, f.svc.Logout(ctx, grant.Session), "second logout is a no-op")
}

func TestService_Hooks(t *testing.T) {
	t.Parallel()

	var events []string
	accounts := store.NewMemory[account.Account](store.WithUnique("email"))
	svc, err := auth.NewService(auth.DefaultConfig(secret), accounts, store.NewMemory[session.Session](),
		auth.WithHashParams(fastHash),
		auth.WithAfterRegister(func(_ context.Context, a account.Account) { events = append(events, "register:"+a.Email) }),
		auth.WithAfterLogin(func(_ context.Context, a account.Account, _ session.Session) {
			events = append(events, "login:"+a.Email)
		}),
	)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), "a@b.io", "password1", account.RoleAdmin)
	require.NoError(t, err)
	_, err = svc.Login(context.Background(), "a@b.io", "password1")
	require.NoError(t, err)
	assert.Equal(t, []string{"register:a@b.io", "login:a@b.io"}, events)

	a, err := accounts.Get(context.Background(), store.By("email", "a@b.io"))
	require.NoError(t, err)
	assert.True(t, a.HasRole(account.RoleAdmin))
}

func TestService_Cookies(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	c, err := f.svc.SessionCookie("tok.en.sig")
	require.NoError(t, err)
	assert.Equal(t, "_id=tok.en.sig; Path=/; HttpOnly; SameSite=None", c.String())

	cleared := f.svc.ClearCookie().String()
	assert.Contains(t, cleared, "_id=;")
	assert.Contains(t, cleared, "Max-Age=0")
}

func TestGateway_Token(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	tests := []struct {
		name    string
		headers map[string]string
		want    string
		ok      bool
	}{
		{"none", nil, "", false},
		{"bearer", map[string]string{"Authorization": "Bearer abc"}, "abc", true},
		{"bearer case", map[string]string{"Authorization": "bearer  abc "}, "abc", true},
		{"basic ignored", map[string]string{"Authorization": "Basic abc"}, "", false},
		{"cookie", map[string]string{"Cookie": "theme=dark; _id=xyz"}, "xyz", true},
		{"prefixed cookie", map[string]string{"Cookie": "_id_v2=xyz"}, "xyz", true},
		{"header wins", map[string]string{"Authorization": "Bearer abc", "Cookie": "_id=xyz"}, "abc", true},
		{"basic falls back to cookie", map[string]string{"Authorization": "Basic abc", "Cookie": "_id=xyz"}, "xyz", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := f.gw.Token(requestWith(tt.headers))
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGateway_Authenticate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t)
	_, err := f.svc.Register(ctx, "ada@example.com", "password1")
	require.NoError(t, err)
	grant, err := f.svc.Login(ctx, "ada@example.com", "password1")
	require.NoError(t, err)

	foreign, err := jwt.NewFromString("another-secret-another-secret-xx")
	require.NoError(t, err)
	forged, err := foreign.SignSession(grant.Session.ID.String(), grant.ExpiresAt)
	require.NoError(t, err)

	own, err := jwt.NewFromString(secret)
	require.NoError(t, err)
	unknown, err := own.SignSession(uuid.NewString(), grant.ExpiresAt)
	require.NoError(t, err)
	expired, err := own.SignSession(grant.Session.ID.String(), time.Now().Add(-time.Minute))
	require.NoError(t, err)
	notUUID, err := own.SignSession("not-a-uuid", grant.ExpiresAt)
	require.NoError(t, err)

	tests := []struct {
		name    string
		headers map[string]string
		attach  bool
	}{
		{"bearer", map[string]string{"Authorization": "Bearer " + grant.Token}, true},
		{"cookie", map[string]string{"Cookie": "_id=" + grant.Token}, true},
		{"anonymous", nil, false},
		{"garbage", map[string]string{"Authorization": "Bearer garbage"}, false},
		{"other secret", map[string]string{"Authorization": "Bearer " + forged}, false},
		{"unknown session", map[string]string{"Authorization": "Bearer " + unknown}, false},
		{"expired token", map[string]string{"Authorization": "Bearer " + expired}, false},
		{"invalid session id", map[string]string{"Cookie": "_id=" + notUUID}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			hctx := handler.NewContext(ctx, nil)
			f.gw.Authenticate(hctx, requestWith(tt.headers))
			s, ok := hctx.Session()
			require.Equal(t, tt.attach, ok)
			if tt.attach {
				assert.Equal(t, grant.Session.ID, s.ID)
			}
		})
	}
}

func TestGateway_ExpiryEnforcement(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	sessions := store.NewMemory[session.Session]()
	tokens, err := jwt.NewFromString(secret)
	require.NoError(t, err)

	stale := session.New(uuid.New(), time.Hour)
	stale.ExpiresAt = time.Now().Add(-time.Hour)
	require.NoError(t, sessions.Create(ctx, stale))
	// the token outlives the stored session
	token, err := tokens.SignSession(stale.ID.String(), time.Now().Add(time.Hour))
	require.NoError(t, err)

	lenient := auth.NewGateway(tokens, sessions, nil)
	_, err = lenient.Resolve(ctx, token)
	require.NoError(t, err, "expiry is ignored unless enforced")

	strict := auth.NewGateway(tokens, sessions, nil, auth.WithExpiryEnforcement(true))
	_, err = strict.Resolve(ctx, token)
	require.ErrorIs(t, err, jwt.ErrExpiredToken)
}

func TestGateway_Enforce(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t)
	user, err := f.svc.Register(ctx, "user@example.com", "password1")
	require.NoError(t, err)
	admin, err := f.svc.Register(ctx, "admin@example.com", "password1", account.RoleUser, account.RoleAdmin)
	require.NoError(t, err)

	withSession := func(accountID uuid.UUID) *handler.Context {
		hctx := handler.NewContext(ctx, nil)
		hctx.AttachSession(session.New(accountID, time.Hour))
		return hctx
	}
	status := func(err error) int {
		var httpErr handler.HTTPError
		if errors.As(err, &httpErr) {
			return httpErr.Code
		}
		if err == nil {
			return http.StatusOK
		}
		return http.StatusInternalServerError
	}

	tests := []struct {
		name   string
		ctx    *handler.Context
		policy router.Policy
		want   int
	}{
		{"public anonymous", handler.NewContext(ctx, nil), router.Public(), http.StatusOK},
		{"protected anonymous", handler.NewContext(ctx, nil), router.Protected(), http.StatusUnauthorized},
		{"protected with session", withSession(user.ID), router.Protected(), http.StatusOK},
		{"role anonymous", handler.NewContext(ctx, nil), router.RequireRole(account.RoleAdmin), http.StatusUnauthorized},
		{"role missing", withSession(user.ID), router.RequireRole(account.RoleAdmin), http.StatusForbidden},
		{"role present", withSession(admin.ID), router.RequireRole(account.RoleAdmin), http.StatusOK},
		{"account gone", withSession(uuid.New()), router.RequireRole(account.RoleAdmin), http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, status(f.gw.Enforce(tt.ctx, tt.policy)))
		})
	}
}
