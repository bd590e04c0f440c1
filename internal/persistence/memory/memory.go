// Package memory provides a process-local Backend, used by tests and by the
// server when durable storage is disabled.
package memory

import (
	"context"
	"sync"

	"github.com/example/petpal/internal/persistence"
)

// Backend keeps values in a map.
type Backend struct {
	mu     sync.RWMutex
	values map[persistence.Key][]byte
}

// New returns an empty Backend.
func New() *Backend {
	return &Backend{values: make(map[persistence.Key][]byte)}
}

func (b *Backend) Get(_ context.Context, key persistence.Key) ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	value, ok := b.values[key]
	if !ok {
		return nil, persistence.ErrNotFound
	}
	return cloneBytes(value), nil
}

func (b *Backend) Set(_ context.Context, key persistence.Key, value []byte) error {
	b.mu.Lock()
	b.values[key] = cloneBytes(value)
	b.mu.Unlock()
	return nil
}

func (b *Backend) Remove(_ context.Context, key persistence.Key) error {
	b.mu.Lock()
	delete(b.values, key)
	b.mu.Unlock()
	return nil
}

func (b *Backend) Clear(context.Context) error {
	b.mu.Lock()
	b.values = make(map[persistence.Key][]byte)
	b.mu.Unlock()
	return nil
}

// Has reports whether a value is stored under key.
func (b *Backend) Has(key persistence.Key) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.values[key]
	return ok
}

// Raw stores value under key without encoding, for seeding corrupt data.
func (b *Backend) Raw(key persistence.Key, value string) {
	b.mu.Lock()
	b.values[key] = []byte(value)
	b.mu.Unlock()
}

func cloneBytes(in []byte) []byte {
	if in == nil {
		return nil
	}
	out := make([]byte, len(in))
	copy(out, in)
	return out
}
