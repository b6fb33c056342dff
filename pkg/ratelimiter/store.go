package ratelimiter

import (
	"context"
	"time"
)

// Store keeps bucket state. ConsumeTokens takes n tokens from key and reports
// what is left, which is negative when the bucket was already empty.
type Store interface {
	ConsumeTokens(ctx context.Context, key string, n int, cfg Config) (remaining int, resetAt time.Time, err error)
	Reset(ctx context.Context, key string) error
}
