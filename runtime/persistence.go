package runtime

import (
	"sync"

	"github.com/BoonLang/boon-sub002/types"
	"github.com/BoonLang/boon-sub002/value"
)

// MemoryStore is a process-local types.PersistenceStore backed by a map.
// It is not installed by default (Config.Store defaults to nil); with it,
// HOLDs restore within a single process run but not across restarts.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]value.Value
}

// NewMemoryStore returns an empty in-memory persistence store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]value.Value)}
}

func (m *MemoryStore) Load(key string) (value.Value, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *MemoryStore) Save(key string, v value.Value) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = v
	return nil
}

func (m *MemoryStore) Close() error { return nil }

var _ types.PersistenceStore = (*MemoryStore)(nil)
