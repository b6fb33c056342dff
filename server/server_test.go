package server_test

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/wirekit/handler"
	"github.com/dmitrymomot/wirekit/pkg/account"
	"github.com/dmitrymomot/wirekit/pkg/clientip"
	"github.com/dmitrymomot/wirekit/pkg/jwt"
	"github.com/dmitrymomot/wirekit/pkg/multipart"
	"github.com/dmitrymomot/wirekit/pkg/session"
	"github.com/dmitrymomot/wirekit/router"
	"github.com/dmitrymomot/wirekit/server"
	"github.com/dmitrymomot/wirekit/store"
	"github.com/dmitrymomot/wirekit/svc/auth"
	"github.com/dmitrymomot/wirekit/wire"
)

const secret = "0123456789abcdef0123456789abcdef"

type partView struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

type env struct {
	privateCalls atomic.Int32
	accounts     *store.Memory[account.Account]
	sessions     *store.Memory[session.Session]
	tokens       *jwt.Service
}

func newServer(t *testing.T, opts ...server.Option) (*server.Server, *env) {
	t.Helper()

	e := &env{
		accounts: store.NewMemory[account.Account](),
		sessions: store.NewMemory[session.Session](),
	}
	tokens, err := jwt.NewFromString(secret)
	require.NoError(t, err)
	e.tokens = tokens

	b := router.NewBuilder[handler.Endpoint]()
	b.Get("/hello", handler.Wrap(func(*handler.Context) handler.Response {
		return handler.Text("hi")
	}), router.Public())
	b.Post("/echo", handler.WrapRequest(handler.Multipart(), func(_ *handler.Context, form multipart.Form) handler.Response {
		out := make([]partView, 0, len(form.Parts))
		for _, p := range form.Parts {
			out = append(out, partView{Name: p.FormName(), Content: string(p.Content)})
		}
		return handler.JSON(out)
	}), router.Public())
	b.Get("/private", handler.Wrap(func(*handler.Context) handler.Response {
		e.privateCalls.Add(1)
		return handler.Text("secret")
	}), router.Protected())
	b.Get("/admin", handler.Wrap(func(*handler.Context) handler.Response {
		return handler.Text("admin")
	}), router.RequireRole(account.RoleAdmin))
	b.Get("/ip", handler.Wrap(func(ctx *handler.Context) handler.Response {
		return handler.Text(clientip.FromContext(ctx))
	}), router.Public())
	b.Get("/panic", handler.Wrap(func(*handler.Context) handler.Response {
		panic("boom")
	}), router.Public())
	b.Get("/raw-panic", func(*handler.Context, *wire.Request) *wire.Response {
		panic("unguarded")
	}, router.Public())
	tree, err := b.Build()
	require.NoError(t, err)

	gw := auth.NewGateway(tokens, e.sessions, e.accounts)
	srv, err := server.New(tree, &handler.Resources{Accounts: e.accounts, Sessions: e.sessions},
		append([]server.Option{server.WithAuthenticator(gw)}, opts...)...)
	require.NoError(t, err)
	return srv, e
}

// login stores an account and a session for it and returns the signed token.
func (e *env) login(t *testing.T, roles ...string) string {
	t.Helper()
	a := account.New(fmt.Sprintf("user-%d@example.com", time.Now().UnixNano()), "x")
	if len(roles) > 0 {
		a.Roles = roles
	}
	require.NoError(t, e.accounts.Create(context.Background(), a))
	s := session.New(a.ID, time.Hour)
	require.NoError(t, e.sessions.Create(context.Background(), s))
	token, err := e.tokens.SignSession(s.ID.String(), s.ExpiresAt)
	require.NoError(t, err)
	return token
}

type client struct {
	t    *testing.T
	conn net.Conn
	br   *bufio.Reader
}

func dial(t *testing.T, srv *server.Server) *client {
	t.Helper()
	serverSide, clientSide := net.Pipe()
	done := make(chan struct{})
	go func() {
		defer close(done)
		srv.ServeConn(context.Background(), serverSide)
	}()
	t.Cleanup(func() {
		_ = clientSide.Close()
		<-done
	})
	require.NoError(t, clientSide.SetDeadline(time.Now().Add(5*time.Second)))
	return &client{t: t, conn: clientSide, br: bufio.NewReader(clientSide)}
}

func (c *client) do(raw string) *wire.Response {
	c.t.Helper()
	_, err := io.WriteString(c.conn, raw)
	require.NoError(c.t, err)
	resp, err := wire.ReadResponse(c.br)
	require.NoError(c.t, err)
	return resp
}

func rawRequest(method, path string, headers map[string]string, body string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s HTTP/1.1\r\n", method, path)
	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, "%s: %s\r\n", k, headers[k])
	}
	if body != "" {
		fmt.Fprintf(&b, "Content-Length: %d\r\n", len(body))
	}
	b.WriteString("\r\n")
	b.WriteString(body)
	return b.String()
}

func errorCode(t *testing.T, resp *wire.Response) string {
	t.Helper()
	var out handler.JSONResponse
	require.NoError(t, json.Unmarshal(resp.Body, &out))
	require.NotNil(t, out.Error)
	return out.Error.Code
}

func TestServer_UnknownPathIsEmpty404(t *testing.T) {
	t.Parallel()

	srv, _ := newServer(t)
	c := dial(t, srv)

	for _, req := range []string{
		rawRequest("GET", "/missing", nil, ""),
		rawRequest("DELETE", "/hello", nil, ""),
		rawRequest("GET", "/hello/deeper", nil, ""),
	} {
		resp := c.do(req)
		assert.Equal(t, http.StatusNotFound, resp.Status)
		assert.Empty(t, resp.Body)
		assert.Equal(t, "0", resp.Header.Get("content-length"))
	}
}

func TestServer_ProtectedRejectsAnonymousBeforeHandler(t *testing.T) {
	t.Parallel()

	srv, e := newServer(t)
	c := dial(t, srv)

	resp := c.do(rawRequest("GET", "/private", nil, ""))
	assert.Equal(t, http.StatusUnauthorized, resp.Status)
	assert.Equal(t, "unauthorized", errorCode(t, resp))

	resp = c.do(rawRequest("GET", "/private", map[string]string{"Cookie": "_id=forged.token.value"}, ""))
	assert.Equal(t, http.StatusUnauthorized, resp.Status)
	assert.Zero(t, e.privateCalls.Load())
}

func TestServer_TokenSources(t *testing.T) {
	t.Parallel()

	srv, e := newServer(t)
	token := e.login(t)
	c := dial(t, srv)

	resp := c.do(rawRequest("GET", "/private", map[string]string{"Authorization": "Bearer " + token}, ""))
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, "secret", string(resp.Body))

	resp = c.do(rawRequest("GET", "/private", map[string]string{"Cookie": "theme=dark; _id=" + token}, ""))
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.EqualValues(t, 2, e.privateCalls.Load())
}

func TestServer_RequireRole(t *testing.T) {
	t.Parallel()

	srv, e := newServer(t)
	user := e.login(t, account.RoleUser)
	admin := e.login(t, account.RoleAdmin)
	c := dial(t, srv)

	resp := c.do(rawRequest("GET", "/admin", nil, ""))
	assert.Equal(t, http.StatusUnauthorized, resp.Status)

	resp = c.do(rawRequest("GET", "/admin", map[string]string{"Authorization": "Bearer " + user}, ""))
	assert.Equal(t, http.StatusForbidden, resp.Status)
	assert.Equal(t, "forbidden", errorCode(t, resp))

	resp = c.do(rawRequest("GET", "/admin", map[string]string{"Authorization": "Bearer " + admin}, ""))
	assert.Equal(t, http.StatusOK, resp.Status)
}

func TestServer_MultipartBody(t *testing.T) {
	t.Parallel()

	srv, _ := newServer(t)
	c := dial(t, srv)

	body := "--XYZ\r\nContent-Disposition: form-data; name=\"f\"\r\n\r\nhello\r\n--XYZ--\r\n"
	resp := c.do(rawRequest("POST", "/echo", map[string]string{
		"Content-Type": "multipart/form-data; boundary=XYZ",
	}, body))
	require.Equal(t, http.StatusOK, resp.Status, string(resp.Body))

	var out struct {
		Data []partView `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body, &out))
	assert.Equal(t, []partView{{Name: "f", Content: "hello"}}, out.Data)
}

func TestServer_SequentialRequestsOnOneConnection(t *testing.T) {
	t.Parallel()

	srv, _ := newServer(t)
	c := dial(t, srv)

	for i := range 3 {
		resp := c.do(rawRequest("GET", "/hello", nil, ""))
		assert.Equal(t, http.StatusOK, resp.Status, "request %d", i)
		assert.Equal(t, "hi", string(resp.Body))
	}
}

func TestServer_MalformedRequestClosesConnection(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		raw    string
		status int
	}{
		{"request line", "NONSENSE\r\n\r\n", http.StatusBadRequest},
		{"header line", "GET /hello HTTP/1.1\r\nbroken header\r\n\r\n", http.StatusBadRequest},
		{"missing boundary", rawRequest("POST", "/echo", map[string]string{"Content-Type": "multipart/form-data"}, "x"), http.StatusBadRequest},
		{"unsupported type", rawRequest("POST", "/echo", map[string]string{"Content-Type": "application/xml"}, "<a/>"), http.StatusBadRequest},
		{"too large", "POST /echo HTTP/1.1\r\nContent-Length: 4096\r\n\r\n", http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			srv, _ := newServer(t, server.WithMaxBodyBytes(1024))
			c := dial(t, srv)

			resp := c.do(tt.raw)
			assert.Equal(t, tt.status, resp.Status)
			assert.Equal(t, "close", resp.Header.Get("connection"))
			assert.NotEmpty(t, errorCode(t, resp))

			_, err := c.br.ReadByte()
			assert.ErrorIs(t, err, io.EOF, "connection must be closed after a parse error")
		})
	}
}

func TestServer_PanicIsContained(t *testing.T) {
	t.Parallel()

	srv, _ := newServer(t)
	c := dial(t, srv)

	for _, path := range []string{"/panic", "/raw-panic"} {
		resp := c.do(rawRequest("GET", path, nil, ""))
		assert.Equal(t, http.StatusInternalServerError, resp.Status)
		assert.Equal(t, "internal_server_error", errorCode(t, resp))
	}

	resp := c.do(rawRequest("GET", "/hello", nil, ""))
	assert.Equal(t, http.StatusOK, resp.Status, "connection keeps serving after a panic")
}

func TestServer_CORS(t *testing.T) {
	t.Parallel()

	srv, _ := newServer(t, server.WithCORS(server.NewCORS(
		server.WithAllowedHeaders("authorization", "content-type"),
		server.WithMaxAge(time.Minute),
	)))
	c := dial(t, srv)
	origin := map[string]string{"Origin": "https://app.example.com"}

	for _, path := range []string{"/hello", "/missing", "/private"} {
		resp := c.do(rawRequest("GET", path, origin, ""))
		assert.Equal(t, "https://app.example.com", resp.Header.Get("access-control-allow-origin"), path)
		assert.Equal(t, "true", resp.Header.Get("access-control-allow-credentials"), path)
		assert.Equal(t, "Authorization, Content-Type", resp.Header.Get("access-control-allow-headers"), path)
		assert.Equal(t, "Origin", resp.Header.Get("vary"), path)
	}

	resp := c.do(rawRequest("GET", "/hello", nil, ""))
	assert.Empty(t, resp.Header.Get("access-control-allow-origin"))

	resp = c.do(rawRequest("OPTIONS", "/hello", origin, ""))
	assert.Equal(t, http.StatusNoContent, resp.Status)
	assert.Equal(t, "GET, OPTIONS", resp.Header.Get("access-control-allow-methods"))
	assert.Equal(t, "60", resp.Header.Get("access-control-max-age"))
	assert.Equal(t, "https://app.example.com", resp.Header.Get("access-control-allow-origin"))

	resp = c.do(rawRequest("OPTIONS", "/private", nil, ""))
	assert.Equal(t, http.StatusNoContent, resp.Status, "preflight does not need a session")

	resp = c.do(rawRequest("OPTIONS", "/missing", origin, ""))
	assert.Equal(t, http.StatusNotFound, resp.Status)
}

func TestServer_RequestID(t *testing.T) {
	t.Parallel()

	srv, _ := newServer(t)
	c := dial(t, srv)

	resp := c.do(rawRequest("GET", "/hello", map[string]string{"X-Request-Id": "abc-123"}, ""))
	assert.Equal(t, "abc-123", resp.Header.Get("x-request-id"))

	resp = c.do(rawRequest("GET", "/hello", nil, ""))
	assert.NotEmpty(t, resp.Header.Get("x-request-id"))
}

func TestServer_ClientAddress(t *testing.T) {
	t.Parallel()

	fwd := map[string]string{"X-Forwarded-For": "198.51.100.9, 10.0.0.1"}

	srv, _ := newServer(t)
	resp := dial(t, srv).do(rawRequest("GET", "/ip", fwd, ""))
	require.Equal(t, http.StatusOK, resp.Status)
	assert.Empty(t, string(resp.Body), "forwarding headers are ignored unless trusted")

	srv, _ = newServer(t, server.WithTrustProxyHeaders(true))
	resp = dial(t, srv).do(rawRequest("GET", "/ip", fwd, ""))
	require.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, "198.51.100.9", string(resp.Body))
}

func TestServer_ServeAndShutdown(t *testing.T) {
	t.Parallel()

	srv, _ := newServer(t, server.WithShutdownTimeout(2*time.Second))
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	served := make(chan error, 1)
	go func() { served <- srv.Serve(ctx, ln) }()

	var wg sync.WaitGroup
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			conn, err := net.Dial("tcp", ln.Addr().String())
			if !assert.NoError(t, err) {
				return
			}
			defer conn.Close()
			_ = conn.SetDeadline(time.Now().Add(5 * time.Second))
			if _, err := io.WriteString(conn, rawRequest("GET", "/hello", nil, "")); !assert.NoError(t, err) {
				return
			}
			resp, err := wire.ReadResponse(bufio.NewReader(conn))
			if assert.NoError(t, err) {
				assert.Equal(t, http.StatusOK, resp.Status)
			}
		}()
	}
	wg.Wait()

	// an idle connection must not block shutdown
	idle, err := net.Dial("tcp", ln.Addr().String())
	require.NoError(t, err)
	defer idle.Close()

	cancel()
	select {
	case err := <-served:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestNew_RequiresRoutes(t *testing.T) {
	t.Parallel()

	_, err := server.New(nil, nil)
	require.ErrorIs(t, err, server.ErrNoRoutes)
}
