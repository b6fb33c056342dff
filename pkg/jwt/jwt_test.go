package jwt_test

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/wirekit/pkg/jwt"
)

const secret = "0123456789abcdef0123456789abcdef"

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("valid key", func(t *testing.T) {
		t.Parallel()
		svc, err := jwt.NewFromString(secret)
		require.NoError(t, err)
		require.NotNil(t, svc)
	})

	t.Run("empty key", func(t *testing.T) {
		t.Parallel()
		_, err := jwt.New(nil)
		require.ErrorIs(t, err, jwt.ErrMissingSigningKey)
	})

	t.Run("short key", func(t *testing.T) {
		t.Parallel()
		_, err := jwt.NewFromString("short")
		require.ErrorIs(t, err, jwt.ErrInvalidSigningKey)
	})
}

func TestSessionToken_RoundTrip(t *testing.T) {
	t.Parallel()

	svc, err := jwt.NewFromString(secret)
	require.NoError(t, err)

	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	token, err := svc.SignSession("sess-1", exp)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(token, "."))

	claims, err := svc.ParseSession(token)
	require.NoError(t, err)
	assert.Equal(t, "sess-1", claims.SessionID)
	assert.Equal(t, exp.Unix(), claims.ExpiresAt)
	assert.True(t, exp.Equal(claims.Expiry()))
}

func TestParse_Failures(t *testing.T) {
	t.Parallel()

	svc, err := jwt.NewFromString(secret)
	require.NoError(t, err)
	other, err := jwt.NewFromString(strings.Repeat("x", 32))
	require.NoError(t, err)

	valid, err := svc.SignSession("s", time.Now().Add(time.Hour))
	require.NoError(t, err)

	t.Run("different secret", func(t *testing.T) {
		t.Parallel()
		_, err := other.ParseSession(valid)
		require.ErrorIs(t, err, jwt.ErrInvalidSignature)
	})

	t.Run("malformed", func(t *testing.T) {
		t.Parallel()
		_, err := svc.ParseSession("not-a-token")
		require.ErrorIs(t, err, jwt.ErrInvalidToken)
	})

	t.Run("tampered claims", func(t *testing.T) {
		t.Parallel()
		parts := strings.Split(valid, ".")
		parts[1] = base64.RawURLEncoding.EncodeToString([]byte(`{"session_id":"other","exp":9999999999}`))
		_, err := svc.ParseSession(strings.Join(parts, "."))
		require.ErrorIs(t, err, jwt.ErrInvalidSignature)
	})

	t.Run("expired", func(t *testing.T) {
		t.Parallel()
		token, err := svc.SignSession("s", time.Now().Add(-time.Minute))
		require.NoError(t, err)
		_, err = svc.ParseSession(token)
		require.ErrorIs(t, err, jwt.ErrExpiredToken)
	})

	t.Run("missing session id", func(t *testing.T) {
		t.Parallel()
		token, err := svc.Generate(map[string]any{"exp": time.Now().Add(time.Hour).Unix()})
		require.NoError(t, err)
		_, err = svc.ParseSession(token)
		require.ErrorIs(t, err, jwt.ErrInvalidClaims)
	})
}

func TestGenerate_ArbitraryClaims(t *testing.T) {
	t.Parallel()

	svc, err := jwt.NewFromString(secret)
	require.NoError(t, err)

	_, err = svc.Generate(nil)
	require.ErrorIs(t, err, jwt.ErrMissingClaims)

	token, err := svc.Generate(map[string]string{"sub": "42"})
	require.NoError(t, err)

	var out map[string]string
	require.NoError(t, svc.Parse(token, &out))
	assert.Equal(t, "42", out["sub"])
}
