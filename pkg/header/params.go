package header

import "strings"

// Params holds ";"-separated key=value parameters of a header value.
// Keys are lower-cased.
type Params map[string]string

// Get returns the parameter value for key (case-insensitive).
func (p Params) Get(key string) string {
	return p[strings.ToLower(key)]
}

// ParseValue splits a header value such as `multipart/form-data; boundary="xyz"`
// into its lower-cased bare value and its parameters. Quoted parameter values are
// unquoted; segments without "=" are ignored.
func ParseValue(raw string) (string, Params) {
	value, rest, _ := strings.Cut(raw, ";")
	value = strings.ToLower(strings.TrimSpace(value))

	params := make(Params)
	for rest != "" {
		var seg string
		seg, rest = splitParam(rest)
		key, val, ok := strings.Cut(seg, "=")
		if !ok {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		if key == "" {
			continue
		}
		params[key] = unquote(strings.TrimSpace(val))
	}
	return value, params
}

// splitParam returns the next ";"-separated segment, honouring quoted strings
// so that a ";" inside quotes does not end the segment.
func splitParam(s string) (string, string) {
	quoted := false
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			if quoted {
				i++
			}
		case '"':
			quoted = !quoted
		case ';':
			if !quoted {
				return s[:i], s[i+1:]
			}
		}
	}
	return s, ""
}

func unquote(s string) string {
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return s
	}
	s = s[1 : len(s)-1]
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
