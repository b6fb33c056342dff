package store

import (
	"context"
	"fmt"
	"sync"
)

// Memory is a mutex-guarded Repository kept in process memory.
type Memory[T Entity] struct {
	mu     sync.RWMutex
	items  map[string]T
	order  []string
	unique []string
}

// MemoryOption configures a Memory repository.
type MemoryOption func(*memoryConfig)

type memoryConfig struct {
	unique []string
}

// WithUnique declares fields that must not repeat across records.
func WithUnique(fields ...string) MemoryOption {
	return func(c *memoryConfig) {
		c.unique = append(c.unique, fields...)
	}
}

// NewMemory returns an empty repository.
func NewMemory[T Entity](opts ...MemoryOption) *Memory[T] {
	cfg := &memoryConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	return &Memory[T]{
		items:  make(map[string]T),
		unique: cfg.unique,
	}
}

// Get returns the first record, in insertion order, matching every filter field.
func (m *Memory[T]) Get(ctx context.Context, filter Filter) (T, error) {
	var zero T
	if len(filter) == 0 {
		return zero, fmt.Errorf("%w: empty filter", ErrUnsupportedFilter)
	}
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, key := range m.order {
		item := m.items[key]
		if matches(item, filter) {
			return item, nil
		}
	}
	return zero, fmt.Errorf("%w: %s", ErrNotFound, filter)
}

// Create inserts value. It fails with ErrConflict on a repeated key or unique field.
func (m *Memory[T]) Create(ctx context.Context, value T) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	key := value.Key()
	if _, exists := m.items[key]; exists {
		return fmt.Errorf("%w: key %s", ErrConflict, key)
	}
	if err := m.checkUnique(value, key); err != nil {
		return err
	}
	m.items[key] = value
	m.order = append(m.order, key)
	return nil
}

// Update replaces the record with the same key.
func (m *Memory[T]) Update(ctx context.Context, value T) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	key := value.Key()
	if _, exists := m.items[key]; !exists {
		return fmt.Errorf("%w: key %s", ErrNotFound, key)
	}
	if err := m.checkUnique(value, key); err != nil {
		return err
	}
	m.items[key] = value
	return nil
}

// Delete removes the record with the same key.
func (m *Memory[T]) Delete(ctx context.Context, value T) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	key := value.Key()
	if _, exists := m.items[key]; !exists {
		return fmt.Errorf("%w: key %s", ErrNotFound, key)
	}
	delete(m.items, key)
	for i, k := range m.order {
		if k == key {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

// Len returns the number of records.
func (m *Memory[T]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

func (m *Memory[T]) checkUnique(value T, key string) error {
	for _, field := range m.unique {
		v, ok := value.Field(field)
		if !ok {
			continue
		}
		for k, other := range m.items {
			if k == key {
				continue
			}
			if ov, ok := other.Field(field); ok && ov == v {
				return fmt.Errorf("%w: %s already exists", ErrConflict, field)
			}
		}
	}
	return nil
}

func matches[T Entity](item T, filter Filter) bool {
	for name, want := range filter {
		got, ok := item.Field(name)
		if !ok || got != want {
			return false
		}
	}
	return true
}
