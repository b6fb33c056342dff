package requestid

import "context"

type (
	requestKey struct{}
	connKey    struct{}
)

func WithContext(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestKey{}, requestID)
}

func FromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	requestID, _ := ctx.Value(requestKey{}).(string)
	return requestID
}

// WithConn stores the connection id.
func WithConn(ctx context.Context, connID string) context.Context {
	return context.WithValue(ctx, connKey{}, connID)
}

// ConnFromContext returns the connection id, if any.
func ConnFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	connID, _ := ctx.Value(connKey{}).(string)
	return connID
}
