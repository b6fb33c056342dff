package router

import (
	"errors"
	"fmt"
	"strings"
)

// Builder collects routes and produces a Tree. It is meant for single
// goroutine use at startup.
type Builder[H any] struct {
	prefix string
	state  *buildState[H]
}

type buildState[H any] struct {
	root  *node[H]
	count int
	errs  []error
	built bool
}

// NewBuilder returns an empty Builder.
func NewBuilder[H any]() *Builder[H] {
	return &Builder[H]{state: &buildState[H]{root: newNode[H]()}}
}

// Group returns a Builder that prefixes every path with prefix. Routes added
// through the group land in the same tree.
func (b *Builder[H]) Group(prefix string) *Builder[H] {
	return &Builder[H]{prefix: b.prefix + "/" + strings.Trim(prefix, "/"), state: b.state}
}

// Handle registers h for method and path. Problems are collected and
// reported by Build.
func (b *Builder[H]) Handle(method, path string, h H, policy Policy) *Builder[H] {
	s := b.state
	if s.built {
		s.errs = append(s.errs, fmt.Errorf("%w: %s %s", ErrBuilt, method, path))
		return b
	}

	full := b.prefix + "/" + path
	if method == "" || strings.ContainsAny(method, " \t") || strings.ContainsAny(full, "?# ") {
		s.errs = append(s.errs, fmt.Errorf("%w: %q %q", ErrInvalidRoute, method, full))
		return b
	}
	if policy.Kind == KindRole && policy.Role == "" {
		s.errs = append(s.errs, fmt.Errorf("%w: %s %s: empty role", ErrInvalidRoute, method, full))
		return b
	}

	n := s.root
	for _, seg := range segments(full) {
		next, ok := n.children[seg]
		if !ok {
			next = newNode[H]()
			n.children[seg] = next
		}
		n = next
	}

	clean := cleanPath(full)
	if _, exists := n.handlers[method]; exists {
		s.errs = append(s.errs, fmt.Errorf("%w: %s %s", ErrDuplicateRoute, method, clean))
		return b
	}
	n.handlers[method] = Entry[H]{Method: method, Path: clean, Handler: h, Policy: policy}
	s.count++
	return b
}

func (b *Builder[H]) Get(path string, h H, p Policy) *Builder[H] {
	return b.Handle("GET", path, h, p)
}

func (b *Builder[H]) Post(path string, h H, p Policy) *Builder[H] {
	return b.Handle("POST", path, h, p)
}

func (b *Builder[H]) Put(path string, h H, p Policy) *Builder[H] {
	return b.Handle("PUT", path, h, p)
}

func (b *Builder[H]) Patch(path string, h H, p Policy) *Builder[H] {
	return b.Handle("PATCH", path, h, p)
}

func (b *Builder[H]) Delete(path string, h H, p Policy) *Builder[H] {
	return b.Handle("DELETE", path, h, p)
}

// Build freezes the routes. Every registration problem is returned joined;
// no tree is produced when there is any.
func (b *Builder[H]) Build() (*Tree[H], error) {
	s := b.state
	if s.built {
		return nil, ErrBuilt
	}
	if len(s.errs) > 0 {
		return nil, errors.Join(s.errs...)
	}
	s.built = true
	return &Tree[H]{root: s.root, count: s.count}, nil
}
