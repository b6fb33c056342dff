package wire

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dmitrymomot/wirekit/pkg/header"
	"github.com/dmitrymomot/wirekit/pkg/multipart"
)

// Default reader limits.
const (
	DefaultMaxLineBytes = 8 << 10
	DefaultMaxHeaders   = 100
	DefaultMaxBodyBytes = 10 << 20
)

var errLineTooLong = errors.New("line too long")

// Reader parses requests from a byte stream. It reads exactly the bytes a
// request declares, so consecutive requests on one stream are parsed in turn.
type Reader struct {
	br           *bufio.Reader
	maxLineBytes int
	maxHeaders   int
	maxBodyBytes int64
}

// ReaderOption configures a Reader.
type ReaderOption func(*Reader)

// WithMaxLineBytes limits the request line and each header line.
func WithMaxLineBytes(n int) ReaderOption {
	return func(r *Reader) {
		if n > 0 {
			r.maxLineBytes = n
		}
	}
}

// WithMaxHeaders limits the number of header lines.
func WithMaxHeaders(n int) ReaderOption {
	return func(r *Reader) {
		if n > 0 {
			r.maxHeaders = n
		}
	}
}

// WithMaxBodyBytes limits the declared Content-Length.
func WithMaxBodyBytes(n int64) ReaderOption {
	return func(r *Reader) {
		if n > 0 {
			r.maxBodyBytes = n
		}
	}
}

// NewReader wraps src. A *bufio.Reader is used as is.
func NewReader(src io.Reader, opts ...ReaderOption) *Reader {
	br, ok := src.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(src)
	}
	r := &Reader{
		br:           br,
		maxLineBytes: DefaultMaxLineBytes,
		maxHeaders:   DefaultMaxHeaders,
		maxBodyBytes: DefaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Parse reads a single request from data.
func Parse(data []byte, opts ...ReaderOption) (*Request, error) {
	return NewReader(bytes.NewReader(data), opts...).ReadRequest()
}

// ReadRequest reads the next request. It returns io.EOF when the stream ends
// cleanly before a request line, ErrBodyTooLarge when the declared length is
// over the limit and an ErrBadRequest wrapped error for anything malformed.
func (r *Reader) ReadRequest() (*Request, error) {
	line, err := r.readLine()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, r.lineError("request line", err)
	}

	req, err := parseRequestLine(line)
	if err != nil {
		return nil, err
	}

	req.Header, err = r.readHeaders()
	if err != nil {
		return nil, err
	}

	req.Body, err = r.readBody(req.Header)
	if err != nil {
		return nil, err
	}
	return req, nil
}

func parseRequestLine(line string) (*Request, error) {
	fields := strings.Split(line, " ")
	if len(fields) != 3 {
		return nil, badRequest("malformed request line %q", line)
	}
	method, target, version := fields[0], fields[1], fields[2]
	if !ValidMethod(method) {
		return nil, badRequest("unsupported method %q", method)
	}
	if target == "" || target[0] != '/' {
		return nil, badRequest("invalid request target %q", target)
	}
	if version != HTTP10 && version != HTTP11 {
		return nil, badRequest("unsupported version %q", version)
	}

	path, query, _ := strings.Cut(target, "?")
	return &Request{
		Method:   method,
		Path:     path,
		RawQuery: query,
		Version:  version,
	}, nil
}

func (r *Reader) readHeaders() (header.Header, error) {
	h := header.New()
	for n := 0; ; n++ {
		line, err := r.readLine()
		if err != nil {
			return nil, r.lineError("header", err)
		}
		if line == "" {
			return h, nil
		}
		if n >= r.maxHeaders {
			return nil, badRequest("more than %d headers", r.maxHeaders)
		}
		name, value, ok := strings.Cut(line, ":")
		if !ok || !header.ValidName(name) {
			return nil, badRequest("malformed header line %q", line)
		}
		h.Set(name, strings.TrimSpace(value))
	}
}

func (r *Reader) readBody(h header.Header) (Body, error) {
	if te, ok := h.Lookup("transfer-encoding"); ok && !strings.EqualFold(strings.TrimSpace(te), "identity") {
		return Body{}, badRequest("transfer-encoding %q is not supported", te)
	}

	var length int64
	if v, ok := h.Lookup("content-length"); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n < 0 {
			return Body{}, badRequest("invalid content-length %q", v)
		}
		length = n
	}
	if length > r.maxBodyBytes {
		return Body{}, fmt.Errorf("%w: %d bytes declared, limit %d", ErrBodyTooLarge, length, r.maxBodyBytes)
	}
	if length == 0 {
		return NoBody(), nil
	}

	raw := make([]byte, length)
	if _, err := io.ReadFull(r.br, raw); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return Body{}, badRequest("truncated body")
		}
		return Body{}, err
	}

	mediaType := MediaJSON
	var params header.Params
	if ct, ok := h.Lookup("content-type"); ok {
		mediaType, params = header.ParseValue(ct)
	}

	switch mediaType {
	case MediaJSON:
		return JSONBody(string(raw)), nil
	case MediaHTML:
		return HTMLBody(string(raw)), nil
	case MediaOctetStream:
		return BytesBody(raw), nil
	case MediaMultipart:
		boundary := params.Get("boundary")
		if boundary == "" {
			return Body{}, badRequest("multipart body without boundary")
		}
		parts, err := multipart.Decode(boundary, raw)
		if err != nil {
			return Body{}, errors.Join(ErrBadRequest, err)
		}
		return MultipartBody(parts), nil
	default:
		return Body{}, badRequest("unsupported content type %q", mediaType)
	}
}

// readLine returns one line without its CRLF or LF terminator.
func (r *Reader) readLine() (string, error) {
	var sb strings.Builder
	for {
		b, err := r.br.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) && sb.Len() > 0 {
				return "", io.ErrUnexpectedEOF
			}
			return "", err
		}
		if b == '\n' {
			break
		}
		if sb.Len() >= r.maxLineBytes {
			return "", errLineTooLong
		}
		sb.WriteByte(b)
	}
	return strings.TrimSuffix(sb.String(), "\r"), nil
}

func (r *Reader) lineError(what string, err error) error {
	switch {
	case errors.Is(err, errLineTooLong):
		return badRequest("%s longer than %d bytes", what, r.maxLineBytes)
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return badRequest("%s truncated", what)
	default:
		return err
	}
}
