package wire

import (
	"net/url"
	"strings"

	"github.com/dmitrymomot/wirekit/pkg/header"
)

// Supported methods.
const (
	MethodGet     = "GET"
	MethodHead    = "HEAD"
	MethodPost    = "POST"
	MethodPut     = "PUT"
	MethodPatch   = "PATCH"
	MethodDelete  = "DELETE"
	MethodOptions = "OPTIONS"
	MethodConnect = "CONNECT"
	MethodTrace   = "TRACE"
)

// Supported protocol versions.
const (
	HTTP10 = "HTTP/1.0"
	HTTP11 = "HTTP/1.1"
)

// Media types routed by the reader.
const (
	MediaJSON        = "application/json"
	MediaMultipart   = "multipart/form-data"
	MediaHTML        = "text/html"
	MediaOctetStream = "application/octet-stream"
)

var methods = map[string]struct{}{
	MethodGet: {}, MethodHead: {}, MethodPost: {}, MethodPut: {}, MethodPatch: {},
	MethodDelete: {}, MethodOptions: {}, MethodConnect: {}, MethodTrace: {},
}

// ValidMethod reports whether m is one of the supported methods.
func ValidMethod(m string) bool {
	_, ok := methods[m]
	return ok
}

// Request is a parsed request. It is not modified after construction.
type Request struct {
	Method   string
	Path     string
	RawQuery string
	Version  string
	Header   header.Header
	Body     Body
}

// NewRequest builds a request in code. target may carry a query string.
func NewRequest(method, target string, h header.Header, body Body) *Request {
	path, query, _ := strings.Cut(target, "?")
	if h == nil {
		h = header.New()
	}
	return &Request{
		Method:   method,
		Path:     path,
		RawQuery: query,
		Version:  HTTP11,
		Header:   h,
		Body:     body,
	}
}

// ContentType returns the bare media type, defaulting to application/json.
func (r *Request) ContentType() string {
	if v := r.Header.Value("content-type"); v != "" {
		return v
	}
	return MediaJSON
}

// Query parses RawQuery. Malformed pairs are dropped.
func (r *Request) Query() url.Values {
	v, _ := url.ParseQuery(r.RawQuery)
	return v
}

// Target returns the path with its query string.
func (r *Request) Target() string {
	if r.RawQuery == "" {
		return r.Path
	}
	return r.Path + "?" + r.RawQuery
}
