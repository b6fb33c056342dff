package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/wirekit/pkg/session"
)

func TestNew(t *testing.T) {
	t.Parallel()

	accountID := uuid.New()
	s := session.New(accountID, time.Hour)

	assert.NotEqual(t, uuid.Nil, s.ID)
	assert.Equal(t, accountID, s.AccountID)
	assert.Equal(t, time.Hour, s.ExpiresAt.Sub(s.StartedAt))
	assert.False(t, s.IsExpired())
	assert.Greater(t, s.TTL(), 59*time.Minute)
}

func TestIsExpired(t *testing.T) {
	t.Parallel()

	s := session.New(uuid.New(), -time.Minute)
	assert.True(t, s.IsExpired())
	assert.Zero(t, s.TTL())

	assert.False(t, session.Session{}.IsExpired(), "zero expiry never expires")
}

func TestFields(t *testing.T) {
	t.Parallel()

	s := session.New(uuid.New(), time.Hour)
	id, ok := s.Field("id")
	require.True(t, ok)
	assert.Equal(t, s.Key(), id)

	acc, ok := s.Field("account_id")
	require.True(t, ok)
	assert.Equal(t, s.AccountID.String(), acc)

	_, ok = s.Field("expires_at")
	assert.False(t, ok)
}

func TestContext(t *testing.T) {
	t.Parallel()

	_, ok := session.FromContext(context.Background())
	assert.False(t, ok)

	s := session.New(uuid.New(), time.Hour)
	ctx := session.WithSession(context.Background(), s)

	got, ok := session.FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, s, got)

	accountID, ok := session.AccountIDFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, s.AccountID.String(), accountID)
}
