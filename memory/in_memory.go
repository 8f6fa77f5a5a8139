package memory

import (
	"sync"

	"github.com/hupe1980/agentbus/core"
)

// InMemoryStore is a process-local MemoryStore keeping one append-only entry
// sequence per trace id.
//
// Concurrency: protected by RWMutex. Recall returns a copy so callers can not
// mutate recorded history.
type InMemoryStore struct {
	mu      sync.RWMutex
	entries map[string][]core.MemoryEntry // traceID -> entries in recording order
}

// NewInMemoryStore creates a new in-memory memory store
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{entries: make(map[string][]core.MemoryEntry)}
}

// Record appends an entry to the trace's history.
func (m *InMemoryStore) Record(traceID string, entry core.MemoryEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[traceID] = append(m.entries[traceID], entry)
	return nil
}

// Recall returns a copy of all entries recorded for the trace.
func (m *InMemoryStore) Recall(traceID string) ([]core.MemoryEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entries := m.entries[traceID]
	result := make([]core.MemoryEntry, len(entries))
	copy(result, entries)
	return result, nil
}

// Traces lists the trace ids with at least one recorded entry.
func (m *InMemoryStore) Traces() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.entries))
	for id := range m.entries {
		ids = append(ids, id)
	}
	return ids
}
