package tenancy

import (
	"context"
	"sync"
)

// MemoryTokenStorage is a process-local TokenStorage. It satisfies the
// interface for tests and for hosts that do not want durable sessions.
type MemoryTokenStorage struct {
	mu          sync.RWMutex
	token       string
	selected    int64
	hasSelected bool
}

// Verify interface compliance
var _ TokenStorage = (*MemoryTokenStorage)(nil)

func NewMemoryTokenStorage() *MemoryTokenStorage {
	return &MemoryTokenStorage{}
}

func (m *MemoryTokenStorage) GetToken(_ context.Context) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token, nil
}

func (m *MemoryTokenStorage) SetToken(_ context.Context, raw string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = raw
	return nil
}

func (m *MemoryTokenStorage) GetSelectedTenant(_ context.Context) (int64, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.selected, m.hasSelected, nil
}

func (m *MemoryTokenStorage) SetSelectedTenant(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.selected = id
	m.hasSelected = true
	return nil
}

func (m *MemoryTokenStorage) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	m.selected = 0
	m.hasSelected = false
	return nil
}
