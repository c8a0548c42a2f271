package securestore

import (
	"context"
	"sync"

	"github.com/vetsoap/vetsoap-go/internal/common"
)

// MemoryKeystore keeps values in process memory. Intended for tests and
// development builds only: nothing survives a restart.
type MemoryKeystore struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryKeystore() *MemoryKeystore {
	return &MemoryKeystore{values: make(map[string]string)}
}

func (m *MemoryKeystore) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.values[key]
	if !ok {
		return "", common.ErrNoCredential
	}
	return v, nil
}

func (m *MemoryKeystore) Set(_ context.Context, key string, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MemoryKeystore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}
