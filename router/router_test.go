package router_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/wirekit/router"
)

func TestTree_Lookup(t *testing.T) {
	t.Parallel()

	b := router.NewBuilder[string]()
	b.Get("/a/b", "ab", router.Public())
	b.Get("/a/c", "ac", router.Protected())
	b.Post("/a/c", "ac-post", router.RequireRole("admin"))
	b.Get("/", "root", router.Public())
	tree, err := b.Build()
	require.NoError(t, err)

	tests := []struct {
		name    string
		method  string
		path    string
		found   bool
		handler string
	}{
		{"exact", "GET", "/a/b", true, "ab"},
		{"sibling", "GET", "/a/c", true, "ac"},
		{"other method", "POST", "/a/c", true, "ac-post"},
		{"root", "GET", "/", true, "root"},
		{"empty segments", "GET", "//a///b/", true, "ab"},
		{"prefix only", "GET", "/a", false, ""},
		{"too deep", "GET", "/a/b/c", false, ""},
		{"missing method", "DELETE", "/a/b", false, ""},
		{"unknown", "GET", "/nope", false, ""},
		{"case sensitive", "GET", "/A/B", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			e, ok := tree.Lookup(tt.method, tt.path)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.handler, e.Handler)
		})
	}
}

func TestTree_PoliciesAndMethods(t *testing.T) {
	t.Parallel()

	b := router.NewBuilder[int]()
	b.Get("/x", 1, router.Protected())
	b.Delete("/x", 2, router.RequireRole("admin"))
	b.Put("/x", 3, router.Protected())
	b.Patch("/x", 4, router.Protected())
	tree, err := b.Build()
	require.NoError(t, err)

	e, ok := tree.Lookup("DELETE", "/x")
	require.True(t, ok)
	assert.Equal(t, router.KindRole, e.Policy.Kind)
	assert.Equal(t, "admin", e.Policy.Role)
	assert.True(t, e.Policy.NeedsSession())
	assert.Equal(t, "/x", e.Path)

	assert.Equal(t, []string{"DELETE", "GET", "PATCH", "PUT"}, tree.Methods("/x/"))
	assert.Nil(t, tree.Methods("/y"))
	assert.Equal(t, 4, tree.Len())
}

func TestBuilder_Group(t *testing.T) {
	t.Parallel()

	b := router.NewBuilder[string]()
	admin := b.Group("/admin/")
	admin.Get("ping", "ping", router.RequireRole("admin"))
	admin.Group("users").Get("/list", "list", router.RequireRole("admin"))
	tree, err := b.Build()
	require.NoError(t, err)

	_, ok := tree.Lookup("GET", "/admin/ping")
	assert.True(t, ok)
	e, ok := tree.Lookup("GET", "/admin/users/list")
	require.True(t, ok)
	assert.Equal(t, "/admin/users/list", e.Path)

	routes := tree.Routes()
	require.Len(t, routes, 2)
	assert.Equal(t, "/admin/ping", routes[0].Path)
}

func TestBuilder_RejectsDuplicates(t *testing.T) {
	t.Parallel()

	b := router.NewBuilder[string]()
	b.Get("/a/b", "first", router.Public())
	b.Get("a//b/", "second", router.Public())
	_, err := b.Build()
	require.ErrorIs(t, err, router.ErrDuplicateRoute)
}

func TestBuilder_Errors(t *testing.T) {
	t.Parallel()

	b := router.NewBuilder[string]()
	b.Handle("", "/a", "x", router.Public())
	b.Get("/a?b", "x", router.Public())
	b.Get("/r", "x", router.RequireRole(""))
	_, err := b.Build()
	require.ErrorIs(t, err, router.ErrInvalidRoute)

	ok := router.NewBuilder[string]()
	ok.Get("/a", "x", router.Public())
	_, err = ok.Build()
	require.NoError(t, err)
	_, err = ok.Build()
	require.ErrorIs(t, err, router.ErrBuilt)
}

func TestPolicy_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "public", router.Public().String())
	assert.Equal(t, "protected", router.Protected().String())
	assert.Equal(t, "role:admin", router.RequireRole("admin").String())
	assert.False(t, router.Public().NeedsSession())
}
