package state

import "context"

// NullBackend is a no-op backend that never stores anything.
// It is used when persistence is disabled.
type NullBackend struct{}

// NewNullBackend creates a null backend.
func NewNullBackend() Backend {
	return &NullBackend{}
}

// Name implements Backend.
func (b *NullBackend) Name() string { return "null" }

// Load always returns an empty state.
func (b *NullBackend) Load(ctx context.Context, key string) (*State, error) {
	return &State{}, nil
}

// Save does nothing.
func (b *NullBackend) Save(ctx context.Context, key string, s *State) error {
	return nil
}

// Delete does nothing.
func (b *NullBackend) Delete(ctx context.Context, key string) error {
	return nil
}

// Close does nothing.
func (b *NullBackend) Close() error {
	return nil
}

// Ensure NullBackend implements Backend.
var _ Backend = (*NullBackend)(nil)
