package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/wirekit/pkg/redis"
)

func TestConnect_Validation(t *testing.T) {
	t.Parallel()

	t.Run("empty url", func(t *testing.T) {
		t.Parallel()
		_, err := redis.Connect(context.Background(), redis.Config{})
		require.ErrorIs(t, err, redis.ErrEmptyConnectionURL)
	})

	t.Run("bad scheme", func(t *testing.T) {
		t.Parallel()
		_, err := redis.Connect(context.Background(), redis.Config{ConnectionURL: "http://localhost"})
		require.ErrorIs(t, err, redis.ErrParseURL)
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := redis.Connect(ctx, redis.Config{
			ConnectionURL: "redis://127.0.0.1:1/0",
			RetryAttempts: 3,
			RetryInterval: time.Second,
		})
		require.ErrorIs(t, err, redis.ErrNotReady)
	})
}
