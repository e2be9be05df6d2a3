package store

import (
	"context"
	"sync"
)

// NewMemory returns a Backend that keeps everything in process. Useful for
// tests and throwaway sessions.
func NewMemory() Backend {
	return &memoryBackend{buckets: make(map[string]map[string][]byte)}
}

type memoryBackend struct {
	mu      sync.RWMutex
	buckets map[string]map[string][]byte
}

func (m *memoryBackend) All(_ context.Context, bucket string) (map[string][]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string][]byte, len(m.buckets[bucket]))
	for k, v := range m.buckets[bucket] {
		out[k] = append([]byte(nil), v...)
	}
	return out, nil
}

func (m *memoryBackend) Read(_ context.Context, bucket, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.buckets[bucket][key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *memoryBackend) Write(_ context.Context, bucket, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.buckets[bucket] == nil {
		m.buckets[bucket] = make(map[string][]byte)
	}
	m.buckets[bucket][key] = append([]byte(nil), data...)
	return nil
}

func (m *memoryBackend) Erase(_ context.Context, bucket, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.buckets[bucket][key]; !ok {
		return ErrNotFound
	}
	delete(m.buckets[bucket], key)
	return nil
}

func (m *memoryBackend) Close() error { return nil }
