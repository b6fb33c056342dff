package multipart

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrymomot/wirekit/pkg/header"
)

// Writer encodes parts into a multipart body that Decode reads back unchanged.
type Writer struct {
	w        io.Writer
	boundary string
	count    int
	closed   bool
}

// NewWriter returns a Writer that emits parts delimited by boundary.
func NewWriter(w io.Writer, boundary string) (*Writer, error) {
	if err := ValidateBoundary(boundary); err != nil {
		return nil, err
	}
	return &Writer{w: w, boundary: boundary}, nil
}

// Boundary returns the delimiter in use.
func (w *Writer) Boundary() string {
	return w.boundary
}

// ContentType returns the Content-Type header value for the encoded body.
func (w *Writer) ContentType() string {
	return "multipart/form-data; boundary=" + w.boundary
}

// WritePart writes one part. Headers are emitted in sorted canonical order.
func (w *Writer) WritePart(p Part) error {
	if w.closed {
		return errors.New("multipart: write after close")
	}
	if bytes.Contains(p.Content, []byte("--"+w.boundary)) {
		return ErrBoundaryInContent
	}

	var b bytes.Buffer
	if w.count > 0 {
		b.WriteString("\r\n")
	}
	fmt.Fprintf(&b, "--%s\r\n", w.boundary)
	for _, k := range p.Header.Keys() {
		fmt.Fprintf(&b, "%s: %s\r\n", header.CanonicalKey(k), p.Header[k])
	}
	b.WriteString("\r\n")
	b.Write(p.Content)

	if _, err := w.w.Write(b.Bytes()); err != nil {
		return err
	}
	w.count++
	return nil
}

// Close writes the closing boundary.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	if w.count == 0 {
		return ErrNoParts
	}
	_, err := fmt.Fprintf(w.w, "\r\n--%s--\r\n", w.boundary)
	return err
}

// Encode writes parts into a new body delimited by boundary.
func Encode(boundary string, parts []Part) ([]byte, error) {
	if len(parts) == 0 {
		return nil, ErrNoParts
	}
	var buf bytes.Buffer
	w, err := NewWriter(&buf, boundary)
	if err != nil {
		return nil, err
	}
	for _, p := range parts {
		if err := w.WritePart(p); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RandomBoundary returns a 32 character hex boundary.
func RandomBoundary() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic(fmt.Sprintf("multipart: crypto/rand failed: %v", err))
	}
	return hex.EncodeToString(b[:])
}

// FieldPart builds a plain form field.
func FieldPart(name, value string) Part {
	h := header.New()
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"`, quoteEscape(name)))
	return Part{Header: h, Content: []byte(value)}
}

// FilePart builds a file field. An empty contentType defaults to
// application/octet-stream.
func FilePart(name, filename, contentType string, content []byte) Part {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h := header.New()
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscape(name), quoteEscape(filename)))
	h.Set("Content-Type", contentType)
	return Part{Header: h, Content: content}
}

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func quoteEscape(s string) string {
	return quoteEscaper.Replace(s)
}
