package storage

import (
	"fmt"
	"sync"
)

var _ Store = (*Memory)(nil)

// Memory is an in-process implementation of Store. Used when no
// storage file is configured; data does not survive a restart.
type Memory struct {
	quota int64
	mu    sync.RWMutex
	data  map[string][]byte
}

func NewMemory(quota int64) *Memory {
	return &Memory{
		quota: quota,
		data:  make(map[string][]byte),
	}
}

func (m *Memory) Get(key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}

	cp := make([]byte, len(value))
	copy(cp, value)
	return cp, true, nil
}

func (m *Memory) Set(key string, value []byte) error {
	if m.quota > 0 && int64(len(value)) > m.quota {
		return fmt.Errorf("cannot store %d bytes under %q: %w", len(value), key, ErrQuotaExceeded)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	cp := make([]byte, len(value))
	copy(cp, value)
	m.data[key] = cp
	return nil
}

func (m *Memory) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.data, key)
	return nil
}

func (m *Memory) Stats() (int, int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var bytes int64
	for _, value := range m.data {
		bytes += int64(len(value))
	}
	return len(m.data), bytes, nil
}
