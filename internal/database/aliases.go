package database

import (
	"context"
	"maps"
	"sync"
)

// MemoryAliases is an in-process alias store. The zero value is ready to use.
type MemoryAliases struct {
	mu      sync.RWMutex
	aliases map[string]string
}

// NewMemoryAliases returns a store seeded with initial.
func NewMemoryAliases(initial map[string]string) *MemoryAliases {
	return &MemoryAliases{aliases: maps.Clone(initial)}
}

// Read returns a copy of the current aliases.
func (m *MemoryAliases) Read(ctx context.Context) (map[string]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]string, len(m.aliases))
	maps.Copy(out, m.aliases)
	return out, nil
}

// Write merges aliases into the store. Existing entries with the same name
// are replaced.
func (m *MemoryAliases) Write(ctx context.Context, aliases map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.aliases == nil {
		m.aliases = make(map[string]string, len(aliases))
	}
	maps.Copy(m.aliases, aliases)
	return nil
}
