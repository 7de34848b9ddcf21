package storage

import (
	"context"
	"sync"

	"github.com/niksmo/storefront/internal/core/port"
)

var _ port.CartSlot = (*MemorySlots)(nil)

// MemorySlots keeps slots in process memory. It backs the service when
// no database is configured and substitutes the durable store in tests.
type MemorySlots struct {
	mu   sync.RWMutex
	data map[string][]byte
	hub  *updateHub
}

func NewMemorySlots() *MemorySlots {
	return &MemorySlots{
		data: make(map[string][]byte),
		hub:  newUpdateHub(),
	}
}

func (m *MemorySlots) Load(
	ctx context.Context, sessionID string,
) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	payload, ok := m.data[sessionID]
	if !ok {
		return nil, false, nil
	}
	cp := make([]byte, len(payload))
	copy(cp, payload)
	return cp, true, nil
}

func (m *MemorySlots) Store(
	ctx context.Context, sessionID string, payload []byte,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	cp := make([]byte, len(payload))
	copy(cp, payload)

	m.mu.Lock()
	m.data[sessionID] = cp
	m.mu.Unlock()

	m.hub.broadcast(sessionID)
	return nil
}

func (m *MemorySlots) Clear(ctx context.Context, sessionID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	delete(m.data, sessionID)
	m.mu.Unlock()

	m.hub.broadcast(sessionID)
	return nil
}

func (m *MemorySlots) Updates(
	ctx context.Context, sessionID string,
) <-chan struct{} {
	return m.hub.subscribe(ctx, sessionID)
}
