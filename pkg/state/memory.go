package state

import (
	"context"
	"sync"
)

// MemoryBackend keeps documents in process memory. Stored and returned
// documents are copies.
type MemoryBackend struct {
	mu     sync.RWMutex
	docs   map[string]*State
	closed bool
}

// NewMemoryBackend creates an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{docs: make(map[string]*State)}
}

// Name implements Backend.
func (b *MemoryBackend) Name() string { return "memory" }

// Load implements Backend.
func (b *MemoryBackend) Load(ctx context.Context, key string) (*State, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return nil, ErrClosed
	}
	if s, ok := b.docs[key]; ok {
		return s.Clone(), nil
	}
	return &State{}, nil
}

// Save implements Backend.
func (b *MemoryBackend) Save(ctx context.Context, key string, s *State) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrClosed
	}
	if s == nil {
		s = &State{}
	}
	b.docs[key] = s.Clone()
	return nil
}

// Delete implements Backend.
func (b *MemoryBackend) Delete(ctx context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrClosed
	}
	delete(b.docs, key)
	return nil
}

// Keys returns the stored keys in no particular order.
func (b *MemoryBackend) Keys() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]string, 0, len(b.docs))
	for k := range b.docs {
		out = append(out, k)
	}
	return out
}

// Close implements Backend.
func (b *MemoryBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	return nil
}

var _ Backend = (*MemoryBackend)(nil)
