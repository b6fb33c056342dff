package header_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/wirekit/pkg/header"
)

func TestHeader_CaseInsensitive(t *testing.T) {
	t.Parallel()

	h := header.New()
	h.Set("Content-Type", "application/json")
	h.Set("CONTENT-TYPE", "text/html")

	assert.Len(t, h, 1, "keys differing only in case must collapse")
	assert.Equal(t, "text/html", h.Get("content-type"))
	assert.True(t, h.Has("Content-type"))

	v, ok := h.Lookup("x-missing")
	assert.False(t, ok)
	assert.Empty(t, v)

	h.Del("content-TYPE")
	assert.False(t, h.Has("content-type"))
}

func TestHeader_CloneIsIndependent(t *testing.T) {
	t.Parallel()

	h := header.New()
	h.Set("A", "1")
	c := h.Clone()
	c.Set("A", "2")

	assert.Equal(t, "1", h.Get("a"))
	assert.Equal(t, "2", c.Get("a"))

	var nilHeader header.Header
	assert.NotNil(t, nilHeader.Clone())
}

func TestHeader_Keys(t *testing.T) {
	t.Parallel()

	h := header.New()
	h.Set("Zeta", "z")
	h.Set("Alpha", "a")
	h.Set("Content-Length", "0")

	assert.Equal(t, []string{"alpha", "content-length", "zeta"}, h.Keys())
}

func TestParseValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		raw    string
		value  string
		params map[string]string
	}{
		{
			name:   "bare value",
			raw:    "application/json",
			value:  "application/json",
			params: map[string]string{},
		},
		{
			name:   "boundary parameter",
			raw:    "multipart/form-data; boundary=XYZ",
			value:  "multipart/form-data",
			params: map[string]string{"boundary": "XYZ"},
		},
		{
			name:   "case-insensitive keys and value",
			raw:    "Multipart/Form-Data; BOUNDARY=abc; Charset=utf-8",
			value:  "multipart/form-data",
			params: map[string]string{"boundary": "abc", "charset": "utf-8"},
		},
		{
			name:   "quoted value with semicolon",
			raw:    `form-data; name="a;b"; filename="x \"y\".txt"`,
			value:  "form-data",
			params: map[string]string{"name": "a;b", "filename": `x "y".txt`},
		},
		{
			name:   "segments without equals are skipped",
			raw:    "text/plain; flag; q=1",
			value:  "text/plain",
			params: map[string]string{"q": "1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			value, params := header.ParseValue(tt.raw)
			assert.Equal(t, tt.value, value)
			require.Len(t, params, len(tt.params))
			for k, v := range tt.params {
				assert.Equal(t, v, params.Get(k))
			}
		})
	}
}

func TestHeader_ValueAndParam(t *testing.T) {
	t.Parallel()

	h := header.New()
	h.Set("Content-Type", "multipart/form-data; boundary=XYZ")

	assert.Equal(t, "multipart/form-data", h.Value("content-type"))
	assert.Equal(t, "XYZ", h.Param("Content-Type", "Boundary"))
	assert.Empty(t, h.Param("Content-Type", "charset"))
}

func TestCanonicalKey(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Content-Length", header.CanonicalKey("content-length"))
	assert.Equal(t, "Access-Control-Allow-Origin", header.CanonicalKey("access-control-allow-origin"))
	assert.Equal(t, "X-Request-Id", header.CanonicalKey("X-REQUEST-ID"))
}

func TestValidName(t *testing.T) {
	t.Parallel()

	assert.True(t, header.ValidName("Content-Type"))
	assert.True(t, header.ValidName("x_custom.1"))
	assert.False(t, header.ValidName(""))
	assert.False(t, header.ValidName("Bad Name"))
	assert.False(t, header.ValidName("colon:"))
}
