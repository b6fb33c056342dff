package wire

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/dmitrymomot/wirekit/pkg/header"
)

// Response is a fully buffered response.
type Response struct {
	Version string
	Status  int
	Header  header.Header
	Body    []byte
}

// NewResponse returns a response with the given status, content type and body.
// An empty contentType leaves the header unset.
func NewResponse(status int, contentType string, body []byte) *Response {
	h := header.New()
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	return &Response{
		Version: HTTP11,
		Status:  status,
		Header:  h,
		Body:    body,
	}
}

// Empty returns a response with no body.
func Empty(status int) *Response {
	return NewResponse(status, "", nil)
}

// StatusText returns the reason phrase for code.
func StatusText(code int) string {
	if t := http.StatusText(code); t != "" {
		return t
	}
	return "Status " + strconv.Itoa(code)
}

// Bytes serializes the response. Content-Length always matches the body.
func (r *Response) Bytes() []byte {
	version := r.Version
	if version == "" {
		version = HTTP11
	}
	h := r.Header.Clone()
	h.Set("Content-Length", strconv.Itoa(len(r.Body)))

	var b bytes.Buffer
	b.Grow(128 + len(r.Body))
	fmt.Fprintf(&b, "%s %d %s\r\n", version, r.Status, StatusText(r.Status))
	for _, k := range h.Keys() {
		fmt.Fprintf(&b, "%s: %s\r\n", header.CanonicalKey(k), sanitizeValue(h[k]))
	}
	b.WriteString("\r\n")
	b.Write(r.Body)
	return b.Bytes()
}

// WriteTo writes the serialized response to w in a single call.
func (r *Response) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(r.Bytes())
	return int64(n), err
}

// sanitizeValue drops line breaks so a value cannot inject extra header lines.
func sanitizeValue(v string) string {
	if !strings.ContainsAny(v, "\r\n") {
		return v
	}
	return strings.NewReplacer("\r", "", "\n", "").Replace(v)
}

// ReadResponse parses a response written by Response.WriteTo.
func ReadResponse(br *bufio.Reader) (*Response, error) {
	r := NewReader(br)
	line, err := r.readLine()
	if err != nil {
		return nil, err
	}
	version, rest, ok := strings.Cut(line, " ")
	if !ok {
		return nil, fmt.Errorf("%w: status line %q", ErrMalformedResponse, line)
	}
	code, _, _ := strings.Cut(rest, " ")
	status, err := strconv.Atoi(code)
	if err != nil {
		return nil, fmt.Errorf("%w: status code %q", ErrMalformedResponse, code)
	}

	h, err := r.readHeaders()
	if err != nil {
		return nil, errors.Join(ErrMalformedResponse, err)
	}

	resp := &Response{Version: version, Status: status, Header: h}
	if v, ok := h.Lookup("content-length"); ok {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%w: content-length %q", ErrMalformedResponse, v)
		}
		resp.Body = make([]byte, n)
		if _, err := io.ReadFull(br, resp.Body); err != nil {
			return nil, errors.Join(ErrMalformedResponse, err)
		}
	}
	return resp, nil
}
