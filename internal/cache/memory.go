package cache

import (
	"context"
	"sync"

	"github.com/Veraticus/fanplan/internal/common"
	"github.com/Veraticus/fanplan/internal/service"
)

var _ service.KeyValueStore = (*MemoryStore)(nil)

// MemoryStore is an in-process KeyValueStore.
type MemoryStore struct {
	entries map[string][]byte
	mu      sync.RWMutex
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string][]byte)}
}

// Get returns a copy of the value stored at key.
func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.entries[key]
	if !ok {
		return nil, common.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

// Put stores a copy of value at key.
func (m *MemoryStore) Put(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = append([]byte(nil), value...)
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}
