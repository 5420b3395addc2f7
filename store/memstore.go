package store

import (
	"sync"

	"github.com/erigontech/polyepoxide/key"
)

// MemStore is an in-memory Store backed by a map, guarded by an
// RWMutex. Useful for testing and as the reference implementation every
// other Store is checked against.
type MemStore struct {
	mu   sync.RWMutex
	data map[key.Key][]byte
}

// NewMemStore returns an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{data: make(map[key.Key][]byte)}
}

func (m *MemStore) Get(k key.Key) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[k]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

func (m *MemStore) Put(k key.Key, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]byte, len(value))
	copy(cp, value)
	m.data[k] = cp
	return nil
}

func (m *MemStore) Has(k key.Key) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.data[k]
	return ok, nil
}

// GetMany reads a whole batch under a single read lock. It is a method of
// the synchronous MemStore only: a store built by Lift does not call it,
// and its GetMany goes through SequentialBatcher one key at a time.
func (m *MemStore) GetMany(keys []key.Key) ([][]byte, []bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	values := make([][]byte, len(keys))
	present := make([]bool, len(keys))
	for i, k := range keys {
		if v, ok := m.data[k]; ok {
			out := make([]byte, len(v))
			copy(out, v)
			values[i], present[i] = out, true
		}
	}
	return values, present, nil
}

// Len reports the number of entries currently stored.
func (m *MemStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}
