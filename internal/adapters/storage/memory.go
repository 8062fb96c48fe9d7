package storage

import (
	"context"
	"sync"

	"github.com/jsamuelsen/quote-sync/internal/domain"
)

// MemorySlots is a process-local slot store.
type MemorySlots struct {
	mu    sync.RWMutex
	slots map[string][]byte
}

// NewMemorySlots returns an empty store.
func NewMemorySlots() *MemorySlots {
	return &MemorySlots{slots: make(map[string][]byte)}
}

// Read implements ports.SlotStore.
func (m *MemorySlots) Read(_ context.Context, slot string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.slots[slot]
	if !ok {
		return nil, domain.NewNotFoundError("slot", slot)
	}

	out := make([]byte, len(data))
	copy(out, data)

	return out, nil
}

// Write implements ports.SlotStore.
func (m *MemorySlots) Write(_ context.Context, slot string, data []byte) error {
	stored := make([]byte, len(data))
	copy(stored, data)

	m.mu.Lock()
	m.slots[slot] = stored
	m.mu.Unlock()

	return nil
}

// Close implements ports.SlotStore.
func (m *MemorySlots) Close() error {
	return nil
}

// Name implements ports.HealthChecker.
func (m *MemorySlots) Name() string {
	return "storage"
}

// Check implements ports.HealthChecker. Memory is always available.
func (m *MemorySlots) Check(context.Context) error {
	return nil
}
