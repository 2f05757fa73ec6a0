package content

import (
	"context"
	"slices"
	"sync"

	"github.com/goliatone/go-llms/pkg/interfaces"
)

// MemoryStore holds a corpus snapshot in memory.
type MemoryStore struct {
	mu      sync.RWMutex
	entries []interfaces.DocumentEntry
}

var _ interfaces.WritableContentStore = (*MemoryStore)(nil)

// NewMemoryStore returns a store seeded with entries.
func NewMemoryStore(entries ...interfaces.DocumentEntry) *MemoryStore {
	return &MemoryStore{entries: slices.Clone(entries)}
}

// GetAll returns a copy of the current snapshot.
func (m *MemoryStore) GetAll(ctx context.Context) ([]interfaces.DocumentEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := slices.Clone(m.entries)
	if out == nil {
		out = []interfaces.DocumentEntry{}
	}
	return out, nil
}

// Replace swaps the snapshot.
func (m *MemoryStore) Replace(entries []interfaces.DocumentEntry) {
	m.mu.Lock()
	m.entries = slices.Clone(entries)
	m.mu.Unlock()
}

// Save implements interfaces.WritableContentStore.
func (m *MemoryStore) Save(ctx context.Context, entries []interfaces.DocumentEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.Replace(entries)
	return nil
}
