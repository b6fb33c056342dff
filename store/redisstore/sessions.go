package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/wirekit/pkg/session"
	"github.com/dmitrymomot/wirekit/store"
)

// Client is the subset of redis.UniversalClient the repository uses.
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	SetNX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd
	SetXX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// Option configures Sessions.
type Option func(*Sessions)

// WithPrefix sets the key prefix. Keys look like "<prefix>session:<id>".
func WithPrefix(prefix string) Option {
	return func(s *Sessions) {
		s.prefix = prefix
	}
}

// WithRetention keeps records for d past their expiry time. Expiry is not
// enforced by every caller, so a short grace period lets an expired session
// still resolve.
func WithRetention(d time.Duration) Option {
	return func(s *Sessions) {
		s.retention = d
	}
}

// Sessions is a store.Repository for session.Session kept as JSON values.
// Only lookups by "id" are supported.
type Sessions struct {
	client    Client
	prefix    string
	retention time.Duration
}

func NewSessions(client Client, opts ...Option) *Sessions {
	s := &Sessions{client: client}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (r *Sessions) key(id uuid.UUID) string {
	return r.prefix + "session:" + id.String()
}

// expiration returns 0 (no expiry) for sessions without an expiry time.
func (r *Sessions) expiration(s session.Session) time.Duration {
	if s.ExpiresAt.IsZero() {
		return 0
	}
	return max(time.Until(s.ExpiresAt)+r.retention, time.Second)
}

func (r *Sessions) Get(ctx context.Context, filter store.Filter) (session.Session, error) {
	if err := filter.Only("id"); err != nil {
		return session.Session{}, err
	}
	id, err := uuid.Parse(fmt.Sprint(filter["id"]))
	if err != nil {
		return session.Session{}, fmt.Errorf("redisstore: get session: %w", store.ErrNotFound)
	}

	raw, err := r.client.Get(ctx, r.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return session.Session{}, fmt.Errorf("redisstore: get session: %w", store.ErrNotFound)
	}
	if err != nil {
		return session.Session{}, fmt.Errorf("redisstore: get session: %w", err)
	}

	var s session.Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return session.Session{}, fmt.Errorf("redisstore: decode session: %w", err)
	}
	return s, nil
}

func (r *Sessions) Create(ctx context.Context, s session.Session) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("redisstore: encode session: %w", err)
	}
	ok, err := r.client.SetNX(ctx, r.key(s.ID), raw, r.expiration(s)).Result()
	if err != nil {
		return fmt.Errorf("redisstore: create session: %w", err)
	}
	if !ok {
		return fmt.Errorf("redisstore: create session: %w", store.ErrConflict)
	}
	return nil
}

func (r *Sessions) Update(ctx context.Context, s session.Session) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("redisstore: encode session: %w", err)
	}
	ok, err := r.client.SetXX(ctx, r.key(s.ID), raw, r.expiration(s)).Result()
	if err != nil {
		return fmt.Errorf("redisstore: update session: %w", err)
	}
	if !ok {
		return fmt.Errorf("redisstore: update session: %w", store.ErrNotFound)
	}
	return nil
}

func (r *Sessions) Delete(ctx context.Context, s session.Session) error {
	n, err := r.client.Del(ctx, r.key(s.ID)).Result()
	if err != nil {
		return fmt.Errorf("redisstore: delete session: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("redisstore: delete session: %w", store.ErrNotFound)
	}
	return nil
}
