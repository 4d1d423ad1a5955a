package repo

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore keeps encoded records in a map. Values are serialized on Put
// so callers never share state with the store.
type MemoryStore[V any] struct {
	mu    sync.RWMutex
	items map[string][]byte
}

// NewMemoryStore creates an empty in-process store.
func NewMemoryStore[V any]() *MemoryStore[V] {
	return &MemoryStore[V]{items: make(map[string][]byte)}
}

var _ Store[any] = (*MemoryStore[any])(nil)

func (s *MemoryStore[V]) Put(ctx context.Context, key string, v V) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b, err := encodeRecord(key, v)
	if err != nil {
		return fmt.Errorf("memory: encode %s: %w", key, err)
	}
	s.mu.Lock()
	s.items[key] = b
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore[V]) Get(ctx context.Context, key string) (V, error) {
	var zero V
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	s.mu.RLock()
	b, ok := s.items[key]
	s.mu.RUnlock()
	if !ok {
		return zero, ErrNotFound
	}
	return decodeRecord[V](b)
}

func (s *MemoryStore[V]) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.items, key)
	s.mu.Unlock()
	return nil
}

// Len returns the number of stored keys.
func (s *MemoryStore[V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
