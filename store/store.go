package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrNotFound          = errors.New("store: not found")
	ErrConflict          = errors.New("store: conflict")
	ErrUnsupportedFilter = errors.New("store: unsupported filter")
)

// Filter selects records by field equality. All entries must match.
type Filter map[string]any

// By returns a single-field filter.
func By(field string, value any) Filter {
	return Filter{field: value}
}

// Fields returns the filter keys in sorted order.
func (f Filter) Fields() []string {
	out := make([]string, 0, len(f))
	for k := range f {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (f Filter) String() string {
	parts := make([]string, 0, len(f))
	for _, k := range f.Fields() {
		parts = append(parts, fmt.Sprintf("%s=%v", k, f[k]))
	}
	return strings.Join(parts, ",")
}

// Only returns ErrUnsupportedFilter when f is empty or names a field outside
// allowed.
func (f Filter) Only(allowed ...string) error {
	if len(f) == 0 {
		return fmt.Errorf("%w: empty filter", ErrUnsupportedFilter)
	}
	for k := range f {
		ok := false
		for _, a := range allowed {
			if k == a {
				ok = true
				break
			}
		}
		if !ok {
			return fmt.Errorf("%w: field %q", ErrUnsupportedFilter, k)
		}
	}
	return nil
}

// Repository is the data-access contract handlers consume. Implementations
// must be safe for concurrent use.
type Repository[T any] interface {
	Get(ctx context.Context, filter Filter) (T, error)
	Create(ctx context.Context, value T) error
	Update(ctx context.Context, value T) error
	Delete(ctx context.Context, value T) error
}

// Entity is implemented by values kept in a Memory repository.
type Entity interface {
	// Key is the primary key.
	Key() string
	// Field returns a filterable field by name.
	Field(name string) (any, bool)
}
