package store

import (
	"context"
	"fmt"
	"maps"
	"sync"
)

// MemoryStore keeps entries in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

var _ TemplateStore = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: map[string]Entry{}}
}

func (m *MemoryStore) Get(_ context.Context, name string) (Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[name]
	if !ok {
		return Entry{}, fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	return e, nil
}

func (m *MemoryStore) Put(_ context.Context, name string, entry Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[name] = entry
	return nil
}

func (m *MemoryStore) List(_ context.Context) (map[string]Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return maps.Clone(m.entries), nil
}
