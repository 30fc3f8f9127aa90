package bookmarks

import (
	"context"
	"slices"
	"sync"
)

// MemoryBackend keeps bookmarks in process memory. Used by tests and
// ephemeral runs.
type MemoryBackend struct {
	mu     sync.Mutex
	cities []string
	saves  int
}

// NewMemoryBackend creates a backend preloaded with cities
func NewMemoryBackend(cities ...string) *MemoryBackend {
	return &MemoryBackend{cities: slices.Clone(cities)}
}

// Load implements Backend
func (m *MemoryBackend) Load(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.cities), nil
}

// Save implements Backend
func (m *MemoryBackend) Save(ctx context.Context, cities []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cities = slices.Clone(cities)
	m.saves++
	return nil
}

// Saves returns how many times Save succeeded
func (m *MemoryBackend) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}
