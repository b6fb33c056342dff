package requestid

import (
	"context"
	"log/slog"
)

// LoggerExtractor adds request_id to records logged with a request context.
func LoggerExtractor() func(ctx context.Context) (slog.Attr, bool) {
	return func(ctx context.Context) (slog.Attr, bool) {
		if id := FromContext(ctx); id != "" {
			return slog.String("request_id", id), true
		}
		return slog.Attr{}, false
	}
}

// ConnExtractor adds conn_id to records logged with a connection context.
func ConnExtractor() func(ctx context.Context) (slog.Attr, bool) {
	return func(ctx context.Context) (slog.Attr, bool) {
		if id := ConnFromContext(ctx); id != "" {
			return slog.String("conn_id", id), true
		}
		return slog.Attr{}, false
	}
}
