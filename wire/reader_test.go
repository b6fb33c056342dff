package wire_test

import (
	"bufio"
	"errors"
	"io"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/wirekit/pkg/multipart"
	"github.com/dmitrymomot/wirekit/wire"
)

func TestParse_JSONRequest(t *testing.T) {
	t.Parallel()

	raw := "POST /login?next=/me HTTP/1.1\r\n" +
		"Host: example.com\r\n" +
		"Content-Type: application/json; charset=utf-8\r\n" +
		"Content-Length: 16\r\n" +
		"\r\n" +
		`{"email":"a@b"}` + "\n"

	req, err := wire.Parse([]byte(raw))
	require.NoError(t, err)

	assert.Equal(t, wire.MethodPost, req.Method)
	assert.Equal(t, "/login", req.Path)
	assert.Equal(t, "next=/me", req.RawQuery)
	assert.Equal(t, "/me", req.Query().Get("next"))
	assert.Equal(t, wire.HTTP11, req.Version)
	assert.Equal(t, "example.com", req.Header.Get("HOST"))
	assert.Equal(t, wire.MediaJSON, req.ContentType())
	assert.Equal(t, wire.BodyJSON, req.Body.Kind)
	assert.Equal(t, `{"email":"a@b"}`+"\n", req.Body.Text)
}

func TestParse_DefaultsToJSONAndNone(t *testing.T) {
	t.Parallel()

	req, err := wire.Parse([]byte("GET / HTTP/1.0\r\n\r\n"))
	require.NoError(t, err)
	assert.Equal(t, wire.BodyNone, req.Body.Kind)
	assert.True(t, req.Body.IsEmpty())
	assert.Equal(t, wire.MediaJSON, req.ContentType())

	req, err = wire.Parse([]byte("PUT /x HTTP/1.1\nContent-Length: 2\n\n{}"))
	require.NoError(t, err, "bare LF line endings are accepted")
	assert.Equal(t, wire.BodyJSON, req.Body.Kind)
	assert.Equal(t, "{}", req.Body.Text)
}

func TestParse_Multipart(t *testing.T) {
	t.Parallel()

	body := "--XYZ\r\nContent-Disposition: form-data; name=\"f\"\r\n\r\nhello\r\n--XYZ--\r\n"
	raw := "POST /files HTTP/1.1\r\n" +
		"Content-Type: multipart/form-data; boundary=XYZ\r\n" +
		"Content-Length: " + strconv.Itoa(len(body)) + "\r\n\r\n" + body

	req, err := wire.Parse([]byte(raw))
	require.NoError(t, err)
	require.Equal(t, wire.BodyMultipart, req.Body.Kind)
	require.Len(t, req.Body.Parts, 1)
	assert.Equal(t, "f", req.Body.Parts[0].FormName())
	assert.Equal(t, []byte("hello"), req.Body.Parts[0].Content)
}

func TestParse_OtherMediaTypes(t *testing.T) {
	t.Parallel()

	req, err := wire.Parse([]byte("POST /raw HTTP/1.1\r\nContent-Type: application/octet-stream\r\nContent-Length: 3\r\n\r\n\x00\x01\x02"))
	require.NoError(t, err)
	assert.Equal(t, wire.BodyBytes, req.Body.Kind)
	assert.Equal(t, []byte{0, 1, 2}, req.Body.Bytes)

	req, err = wire.Parse([]byte("POST /page HTTP/1.1\r\nContent-Type: text/html\r\nContent-Length: 4\r\n\r\n<p/>"))
	require.NoError(t, err)
	assert.Equal(t, wire.BodyHTML, req.Body.Kind)
	assert.Equal(t, "<p/>", req.Body.Text)
}

func TestParse_BadRequests(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
	}{
		{"missing version", "GET /\r\n\r\n"},
		{"unknown method", "BREW /pot HTTP/1.1\r\n\r\n"},
		{"unknown version", "GET / HTTP/2.0\r\n\r\n"},
		{"relative target", "GET index HTTP/1.1\r\n\r\n"},
		{"extra token", "GET / HTTP/1.1 extra\r\n\r\n"},
		{"header without colon", "GET / HTTP/1.1\r\nbroken\r\n\r\n"},
		{"header name with space", "GET / HTTP/1.1\r\nBad Name: x\r\n\r\n"},
		{"empty header name", "GET / HTTP/1.1\r\n: x\r\n\r\n"},
		{"headers never terminated", "GET / HTTP/1.1\r\nHost: x\r\n"},
		{"non-numeric length", "POST / HTTP/1.1\r\nContent-Length: ten\r\n\r\n"},
		{"negative length", "POST / HTTP/1.1\r\nContent-Length: -1\r\n\r\n"},
		{"truncated body", "POST / HTTP/1.1\r\nContent-Length: 10\r\n\r\n{}"},
		{"chunked", "POST / HTTP/1.1\r\nTransfer-Encoding: chunked\r\n\r\n0\r\n\r\n"},
		{"unsupported type", "POST / HTTP/1.1\r\nContent-Type: text/csv\r\nContent-Length: 3\r\n\r\na,b"},
		{"multipart without boundary", "POST / HTTP/1.1\r\nContent-Type: multipart/form-data\r\nContent-Length: 2\r\n\r\n--"},
		{"malformed multipart", "POST / HTTP/1.1\r\nContent-Type: multipart/form-data; boundary=b\r\nContent-Length: 5\r\n\r\nhello"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := wire.Parse([]byte(tt.raw))
			require.ErrorIs(t, err, wire.ErrBadRequest)
		})
	}
}

func TestParse_MultipartErrorKeepsCause(t *testing.T) {
	t.Parallel()

	_, err := wire.Parse([]byte("POST / HTTP/1.1\r\nContent-Type: multipart/form-data; boundary=b\r\nContent-Length: 5\r\n\r\nhello"))
	require.ErrorIs(t, err, wire.ErrBadRequest)
	require.ErrorIs(t, err, multipart.ErrMalformedStart)
}

func TestReader_Limits(t *testing.T) {
	t.Parallel()

	t.Run("line too long", func(t *testing.T) {
		t.Parallel()
		raw := "GET /" + strings.Repeat("a", 64) + " HTTP/1.1\r\n\r\n"
		_, err := wire.Parse([]byte(raw), wire.WithMaxLineBytes(32))
		require.ErrorIs(t, err, wire.ErrBadRequest)
	})

	t.Run("too many headers", func(t *testing.T) {
		t.Parallel()
		raw := "GET / HTTP/1.1\r\nA: 1\r\nB: 2\r\nC: 3\r\n\r\n"
		_, err := wire.Parse([]byte(raw), wire.WithMaxHeaders(2))
		require.ErrorIs(t, err, wire.ErrBadRequest)
	})

	t.Run("body too large", func(t *testing.T) {
		t.Parallel()
		raw := "POST / HTTP/1.1\r\nContent-Length: 100\r\n\r\n"
		_, err := wire.Parse([]byte(raw), wire.WithMaxBodyBytes(10))
		require.ErrorIs(t, err, wire.ErrBodyTooLarge)
	})
}

func TestReader_ConsumesExactlyContentLength(t *testing.T) {
	t.Parallel()

	stream := "POST /a HTTP/1.1\r\nContent-Length: 2\r\n\r\n{}" +
		"GET /b HTTP/1.1\r\n\r\n"
	r := wire.NewReader(strings.NewReader(stream))

	first, err := r.ReadRequest()
	require.NoError(t, err)
	assert.Equal(t, "/a", first.Path)
	assert.Equal(t, "{}", first.Body.Text)

	second, err := r.ReadRequest()
	require.NoError(t, err)
	assert.Equal(t, "/b", second.Path)
	assert.Equal(t, wire.BodyNone, second.Body.Kind)

	_, err = r.ReadRequest()
	assert.True(t, errors.Is(err, io.EOF), "clean end of stream")
}

func TestReader_LeavesExtraBytesUnread(t *testing.T) {
	t.Parallel()

	br := bufio.NewReader(strings.NewReader("POST / HTTP/1.1\r\nContent-Length: 3\r\n\r\nabcTAIL"))
	req, err := wire.NewReader(br).ReadRequest()
	require.NoError(t, err)
	assert.Equal(t, "abc", req.Body.Text)

	rest, err := io.ReadAll(br)
	require.NoError(t, err)
	assert.Equal(t, "TAIL", string(rest))
}

func TestParse_Deterministic(t *testing.T) {
	t.Parallel()

	body := "--q\r\nContent-Disposition: form-data; name=\"a\"\r\n\r\n1\r\n--q--"
	raw := []byte("POST /files HTTP/1.1\r\nX-A: 1\r\nContent-Type: multipart/form-data; boundary=q\r\n" +
		"Content-Length: " + strconv.Itoa(len(body)) + "\r\n\r\n" + body)
	a, errA := wire.Parse(raw)
	b, errB := wire.Parse(raw)
	require.NoError(t, errA)
	require.NoError(t, errB)
	assert.Equal(t, a, b)
}
