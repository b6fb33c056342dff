// Package router maps request paths to handlers through a segment tree.
//
// Routes are registered on a Builder and frozen with Build:
//
//	b := router.NewBuilder[handler.Endpoint]()
//	b.Post("/login", login, router.Public())
//	b.Get("/me", me, router.Protected())
//	b.Group("/admin").Get("/ping", ping, router.RequireRole("admin"))
//	tree, err := b.Build()
//
// Registering the same method and path twice is an error reported by Build.
// Lookups split the path on "/" and skip empty segments; there are no path
// parameters or wildcards.
package router
