package cookie

import (
	"fmt"
	"strconv"
	"strings"
)

// Cookie is a single name/value pair with the attributes used when it is set.
type Cookie struct {
	Name  string
	Value string
	Options
}

// New validates name and value and applies opts.
func New(name, value string, opts ...Option) (Cookie, error) {
	if !validName(name) {
		return Cookie{}, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if !validValue(value) {
		return Cookie{}, fmt.Errorf("%w: for %s", ErrInvalidValue, name)
	}
	return Cookie{Name: name, Value: value, Options: applyOptions(Options{}, opts)}, nil
}

// Expired returns a cookie that tells the client to drop name.
func Expired(name string, opts ...Option) Cookie {
	c := Cookie{Name: name, Options: applyOptions(Options{}, opts)}
	c.MaxAge = -1
	return c
}

// String renders the Set-Cookie header value.
func (c Cookie) String() string {
	var b strings.Builder
	b.WriteString(c.Name)
	b.WriteByte('=')
	b.WriteString(c.Value)
	if c.Path != "" {
		b.WriteString("; Path=")
		b.WriteString(c.Path)
	}
	if c.Domain != "" {
		b.WriteString("; Domain=")
		b.WriteString(c.Domain)
	}
	switch {
	case c.MaxAge > 0:
		b.WriteString("; Max-Age=")
		b.WriteString(strconv.Itoa(c.MaxAge))
	case c.MaxAge < 0:
		b.WriteString("; Max-Age=0; Expires=Thu, 01 Jan 1970 00:00:00 GMT")
	}
	if c.HttpOnly {
		b.WriteString("; HttpOnly")
	}
	if c.Secure {
		b.WriteString("; Secure")
	}
	if c.SameSite != SameSiteDefault {
		b.WriteString("; SameSite=")
		b.WriteString(string(c.SameSite))
	}
	return b.String()
}

// Parse reads a request Cookie header ("a=1; b=2"). Malformed pairs are
// skipped and surrounding quotes are removed from values.
func Parse(raw string) []Cookie {
	var out []Cookie
	for _, pair := range strings.Split(raw, ";") {
		name, value, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok {
			continue
		}
		name = strings.TrimSpace(name)
		if !validName(name) {
			continue
		}
		value = strings.TrimSpace(value)
		if len(value) >= 2 && value[0] == '"' && value[len(value)-1] == '"' {
			value = value[1 : len(value)-1]
		}
		out = append(out, Cookie{Name: name, Value: value})
	}
	return out
}

// Get returns the value of the first cookie named name.
func Get(cookies []Cookie, name string) (string, error) {
	for _, c := range cookies {
		if c.Name == name {
			return c.Value, nil
		}
	}
	return "", ErrCookieNotFound
}

// FindPrefix returns the first cookie whose name starts with prefix.
func FindPrefix(cookies []Cookie, prefix string) (Cookie, bool) {
	for _, c := range cookies {
		if strings.HasPrefix(c.Name, prefix) {
			return c, true
		}
	}
	return Cookie{}, false
}

func validName(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c <= ' ' || c >= 0x7f || strings.IndexByte(`()<>@,;:\"/[]?={}`, c) >= 0 {
			return false
		}
	}
	return true
}

func validValue(v string) bool {
	for i := 0; i < len(v); i++ {
		c := v[i]
		if c <= ' ' || c >= 0x7f || c == '"' || c == ',' || c == ';' || c == '\\' {
			return false
		}
	}
	return true
}
