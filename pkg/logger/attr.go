package logger

import (
	"log/slog"
	"strconv"
	"time"
)

// Group creates a slog group attribute from the provided attributes.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Errors groups non-nil errors under "errors". All nil yields an empty Attr.
func Errors(errs ...error) slog.Attr {
	as := make([]slog.Attr, 0, len(errs))
	for i, err := range errs {
		if err != nil {
			as = append(as, slog.Any(strconv.Itoa(i), err))
		}
	}
	if len(as) == 0 {
		return slog.Attr{}
	}
	return slog.Attr{Key: "errors", Value: slog.GroupValue(as...)}
}

// Error records err under "error". A nil error yields an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Event records the event name under the key "event".
func Event(name string) slog.Attr {
	return slog.String("event", name)
}

// RequestID records the request identifier.
func RequestID(id string) slog.Attr {
	return slog.String("request_id", id)
}

// ConnID records the connection identifier.
func ConnID(id string) slog.Attr {
	return slog.String("conn_id", id)
}

// SessionID records the session identifier. Empty ids yield an empty Attr.
func SessionID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("session_id", id)
}

// AccountID records the account identifier. Empty ids yield an empty Attr.
func AccountID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("account_id", id)
}

func Method(m string) slog.Attr { return slog.String("method", m) }

func Path(p string) slog.Attr { return slog.String("path", p) }

func Status(code int) slog.Attr { return slog.Int("status", code) }

func Remote(addr string) slog.Attr { return slog.String("remote", addr) }

func Policy(p string) slog.Attr { return slog.String("policy", p) }

// Duration records d under "duration".
func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

// Bytes records a byte count under "bytes".
func Bytes(n int) slog.Attr {
	return slog.Int("bytes", n)
}
