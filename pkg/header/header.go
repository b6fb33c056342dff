package header

import (
	"slices"
	"strings"
)

// Header is a case-insensitive header store. Keys are kept lower-cased,
// so every name maps to exactly one value.
type Header map[string]string

// New returns an empty Header.
func New() Header {
	return make(Header)
}

// Set stores value under name, replacing any previous value.
func (h Header) Set(name, value string) {
	h[strings.ToLower(name)] = value
}

// Get returns the value for name or an empty string.
func (h Header) Get(name string) string {
	return h[strings.ToLower(name)]
}

// Lookup returns the value for name and whether it was present.
func (h Header) Lookup(name string) (string, bool) {
	v, ok := h[strings.ToLower(name)]
	return v, ok
}

// Has reports whether name is present.
func (h Header) Has(name string) bool {
	_, ok := h[strings.ToLower(name)]
	return ok
}

// Del removes name.
func (h Header) Del(name string) {
	delete(h, strings.ToLower(name))
}

// Clone returns a copy of h. A nil Header clones to an empty one.
func (h Header) Clone() Header {
	c := make(Header, len(h))
	for k, v := range h {
		c[k] = v
	}
	return c
}

// Keys returns the stored (lower-cased) names in sorted order.
func (h Header) Keys() []string {
	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Value returns the bare value of name with any ";"-separated parameters removed.
// For "Content-Type: multipart/form-data; boundary=x" it returns "multipart/form-data".
func (h Header) Value(name string) string {
	v, _ := ParseValue(h.Get(name))
	return v
}

// Param returns the parameter key of header name.
func (h Header) Param(name, key string) string {
	_, params := ParseValue(h.Get(name))
	return params.Get(key)
}

// CanonicalKey converts a lower-cased name into its conventional wire form,
// e.g. "content-length" becomes "Content-Length".
func CanonicalKey(name string) string {
	b := []byte(strings.ToLower(name))
	upper := true
	for i, c := range b {
		if upper && c >= 'a' && c <= 'z' {
			b[i] = c - ('a' - 'A')
		}
		upper = c == '-'
	}
	return string(b)
}

// ValidName reports whether name is a non-empty RFC 7230 token.
func ValidName(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		if !isTokenChar(name[i]) {
			return false
		}
	}
	return true
}

func isTokenChar(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	}
	return strings.IndexByte("!#$%&'*+-.^_`|~", c) >= 0
}
