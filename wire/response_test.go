package wire_test

import (
	"bufio"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/wirekit/wire"
)

func TestResponse_Bytes(t *testing.T) {
	t.Parallel()

	resp := wire.NewResponse(200, "application/json", []byte(`{"ok":true}`))
	resp.Header.Set("x-request-id", "abc")
	resp.Header.Set("Content-Length", "999")

	expected := "HTTP/1.1 200 OK\r\n" +
		"Content-Length: 11\r\n" +
		"Content-Type: application/json\r\n" +
		"X-Request-Id: abc\r\n" +
		"\r\n" +
		`{"ok":true}`
	assert.Equal(t, expected, string(resp.Bytes()))
	assert.Equal(t, "999", resp.Header.Get("content-length"), "serialization does not mutate the response")
}

func TestResponse_EmptyBody(t *testing.T) {
	t.Parallel()

	resp := wire.Empty(404)
	assert.Equal(t, "HTTP/1.1 404 Not Found\r\nContent-Length: 0\r\n\r\n", string(resp.Bytes()))
}

func TestResponse_HeaderInjection(t *testing.T) {
	t.Parallel()

	resp := wire.Empty(204)
	resp.Header.Set("X-Note", "a\r\nSet-Cookie: evil=1")
	assert.NotContains(t, string(resp.Bytes()), "\r\nSet-Cookie")
}

func TestReadResponse_RoundTrip(t *testing.T) {
	t.Parallel()

	resp := wire.NewResponse(201, "text/plain", []byte("created"))
	var buf bytes.Buffer
	n, err := resp.WriteTo(&buf)
	require.NoError(t, err)
	assert.EqualValues(t, buf.Len(), n)

	got, err := wire.ReadResponse(bufio.NewReader(&buf))
	require.NoError(t, err)
	assert.Equal(t, 201, got.Status)
	assert.Equal(t, wire.HTTP11, got.Version)
	assert.Equal(t, "text/plain", got.Header.Get("content-type"))
	assert.Equal(t, "7", got.Header.Get("content-length"))
	assert.Equal(t, []byte("created"), got.Body)
}

func TestStatusText(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Unauthorized", wire.StatusText(401))
	assert.Equal(t, "Status 599", wire.StatusText(599))
}
