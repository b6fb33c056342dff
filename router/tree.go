package router

import (
	"sort"
	"strings"
)

// Entry is the handler and policy registered for one (path, method) pair.
type Entry[H any] struct {
	Method  string
	Path    string
	Handler H
	Policy  Policy
}

type node[H any] struct {
	handlers map[string]Entry[H]
	children map[string]*node[H]
}

func newNode[H any]() *node[H] {
	return &node[H]{
		handlers: make(map[string]Entry[H]),
		children: make(map[string]*node[H]),
	}
}

// Tree is a read-only route tree. It is safe for concurrent lookups.
type Tree[H any] struct {
	root  *node[H]
	count int
}

// Lookup resolves method and path. Empty segments are skipped, so "/a//b/"
// matches "/a/b". Paths are matched segment by segment with no parameters.
func (t *Tree[H]) Lookup(method, path string) (Entry[H], bool) {
	n := t.find(path)
	if n == nil {
		return Entry[H]{}, false
	}
	e, ok := n.handlers[method]
	return e, ok
}

// Methods returns the sorted methods registered at path, or nil when the path
// has no handlers.
func (t *Tree[H]) Methods(path string) []string {
	n := t.find(path)
	if n == nil || len(n.handlers) == 0 {
		return nil
	}
	out := make([]string, 0, len(n.handlers))
	for m := range n.handlers {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of registered (path, method) pairs.
func (t *Tree[H]) Len() int {
	return t.count
}

// Routes returns every entry sorted by path, then method.
func (t *Tree[H]) Routes() []Entry[H] {
	out := make([]Entry[H], 0, t.count)
	var walk func(n *node[H])
	walk = func(n *node[H]) {
		for _, e := range n.handlers {
			out = append(out, e)
		}
		for _, c := range n.children {
			walk(c)
		}
	}
	walk(t.root)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Path != out[j].Path {
			return out[i].Path < out[j].Path
		}
		return out[i].Method < out[j].Method
	})
	return out
}

func (t *Tree[H]) find(path string) *node[H] {
	n := t.root
	for _, seg := range segments(path) {
		next, ok := n.children[seg]
		if !ok {
			return nil
		}
		n = next
	}
	return n
}

func segments(path string) []string {
	return strings.FieldsFunc(path, func(r rune) bool { return r == '/' })
}

// cleanPath joins segments back into "/a/b" form.
func cleanPath(path string) string {
	return "/" + strings.Join(segments(path), "/")
}
