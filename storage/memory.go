package storage

import (
	"context"
	"sync"
)

// MemoryBackend is an in-process [Backend] used for tests and ephemeral
// sessions that should not survive the process.
type MemoryBackend struct {
	mu      sync.Mutex
	data    []byte
	present bool
}

// NewMemoryBackend creates an empty [MemoryBackend].
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{}
}

// Load describes the load operation and its observable behavior.
func (m *MemoryBackend) Load(_ context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.present {
		return nil, ErrNotFound
	}
	out := make([]byte, len(m.data))
	copy(out, m.data)
	return out, nil
}

// Save describes the save operation and its observable behavior.
func (m *MemoryBackend) Save(_ context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data = make([]byte, len(data))
	copy(m.data, data)
	m.present = true
	return nil
}

// Clear describes the clear operation and its observable behavior.
func (m *MemoryBackend) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data = nil
	m.present = false
	return nil
}
