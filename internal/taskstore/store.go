package taskstore

import (
	"context"
	"sync"
	"time"
)

// KV is the minimal key-value surface the progress tracker persists task
// identity through. A missing key yields an empty value, not an error.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Memory is an in-process KV used in tests and for runs that should not
// leave task ids behind.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]string
}

func NewMemory() *Memory {
	return &Memory{entries: make(map[string]string)}
}

func (m *Memory) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.entries[key], nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = value
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

// Purger removes entries that have not been touched within the given age.
// Implemented by stores that track modification time.
type Purger interface {
	PurgeOlderThan(ctx context.Context, age time.Duration) (int64, error)
}
