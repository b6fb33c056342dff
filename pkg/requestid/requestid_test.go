package requestid_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/wirekit/pkg/header"
	"github.com/dmitrymomot/wirekit/pkg/requestid"
)

func TestFromHeader(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value string
		keep  bool
	}{
		{"valid id is kept", "abc-123_X", true},
		{"missing id is generated", "", false},
		{"invalid characters", "abc 123", false},
		{"header injection", "abc\r\nx: y", false},
		{"too long", strings.Repeat("a", 129), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h := header.New()
			if tt.value != "" {
				h.Set(requestid.Header, tt.value)
			}
			id := requestid.FromHeader(h)
			if tt.keep {
				assert.Equal(t, tt.value, id)
				return
			}
			_, err := uuid.Parse(id)
			assert.NoError(t, err)
		})
	}
}

func TestContext(t *testing.T) {
	t.Parallel()

	ctx := requestid.WithConn(requestid.WithContext(context.Background(), "r1"), "c1")
	assert.Equal(t, "r1", requestid.FromContext(ctx))
	assert.Equal(t, "c1", requestid.ConnFromContext(ctx))
	assert.Empty(t, requestid.FromContext(context.Background()))

	attr, ok := requestid.LoggerExtractor()(ctx)
	assert.True(t, ok)
	assert.Equal(t, "request_id", attr.Key)

	attr, ok = requestid.ConnExtractor()(ctx)
	assert.True(t, ok)
	assert.Equal(t, "c1", attr.Value.String())

	_, ok = requestid.ConnExtractor()(context.Background())
	assert.False(t, ok)
}
