package inkwell

import (
	"context"
	"sync"
)

// KVStore is the durable storage a Service snapshots its posts into.
type KVStore interface {
	// Init initializes the store, such as creating the necessary tables or buckets.
	Init() error
	// Get returns the value stored under key, or ErrKeyNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores value under key, replacing any existing value.
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close closes the store.
	Close() error
}

// MemoryKVStore implements KVStore using in-memory storage
type MemoryKVStore struct {
	values map[string][]byte
	mu     sync.RWMutex
}

// NewMemoryKVStore creates a new MemoryKVStore
func NewMemoryKVStore() *MemoryKVStore {
	return &MemoryKVStore{
		values: make(map[string][]byte),
	}
}

// Init initializes the store
func (m *MemoryKVStore) Init() error {
	return nil
}

// Get retrieves a value from the store
func (m *MemoryKVStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, exists := m.values[key]
	if !exists {
		return nil, ErrKeyNotFound
	}

	return append([]byte(nil), value...), nil
}

// Set stores a value in the store
func (m *MemoryKVStore) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[key] = append([]byte(nil), value...)
	return nil
}

// Delete removes a value from the store
func (m *MemoryKVStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.values, key)
	return nil
}

// Close closes the store
func (m *MemoryKVStore) Close() error {
	return nil
}
