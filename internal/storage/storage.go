// Package storage provides the durable key/value store the session lives in.
// Reads and writes are synchronous; there is no expiry.
package storage

import "sync"

// KV is origin-scoped durable storage: string keys, string values.
type KV interface {
	Get(key string) (string, bool, error)
	// SetMany writes all pairs atomically.
	SetMany(pairs map[string]string) error
	Delete(keys ...string) error
}

// Memory is a KV that lives only as long as the process. Used by tests and
// by commands run with a throwaway session.
type Memory struct {
	mu   sync.Mutex
	data map[string]string
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

func (m *Memory) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *Memory) SetMany(pairs map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range pairs {
		m.data[k] = v
	}
	return nil
}

func (m *Memory) Delete(keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

// Len reports how many keys are stored.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data)
}
