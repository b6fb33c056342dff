package auth_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/wirekit/svc/auth"
)

var fastHash = auth.HashParams{Memory: 64, Time: 1, Threads: 1, SaltLen: 16, KeyLen: 32}

func TestHashPassword(t *testing.T) {
	t.Parallel()

	encoded, err := auth.HashPassword("correct horse", fastHash)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(encoded, "$argon2id$v=19$m=64,t=1,p=1$"), encoded)
	assert.Len(t, strings.Split(encoded, "$"), 6)

	ok, err := auth.VerifyPassword("correct horse", encoded)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = auth.VerifyPassword("battery staple", encoded)
	require.NoError(t, err)
	assert.False(t, ok)

	again, err := auth.HashPassword("correct horse", fastHash)
	require.NoError(t, err)
	assert.NotEqual(t, encoded, again, "salts must differ")
}

func TestVerifyPassword_InvalidHash(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		encoded string
		want    error
	}{
		{"empty", "", auth.ErrInvalidHash},
		{"bcrypt", "$2a$10$abcdefghijklmnopqrstuv", auth.ErrInvalidHash},
		{"wrong version", "$argon2id$v=16$m=64,t=1,p=1$c2FsdHNhbHRzYWx0$a2V5", auth.ErrIncompatibleHash},
		{"bad params", "$argon2id$v=19$m=x,t=1,p=1$c2FsdHNhbHRzYWx0$a2V5", auth.ErrInvalidHash},
		{"bad salt", "$argon2id$v=19$m=64,t=1,p=1$!!!$a2V5", auth.ErrInvalidHash},
		{"empty key", "$argon2id$v=19$m=64,t=1,p=1$c2FsdHNhbHRzYWx0$", auth.ErrInvalidHash},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ok, err := auth.VerifyPassword("x", tt.encoded)
			require.ErrorIs(t, err, tt.want)
			assert.False(t, ok)
		})
	}
}
