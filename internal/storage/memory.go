package storage

import (
	"bytes"
	"context"
	"io"
	"sort"
	"sync"
)

// MemoryStore is an in-process FileStore for tests and throwaway runs.
// PutErr and DeleteErr, when set, are returned instead of touching the map.
type MemoryStore struct {
	mu      sync.Mutex
	files   map[string][]byte
	types   map[string]string
	deletes []string

	PutErr    error
	DeleteErr error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{files: map[string][]byte{}, types: map[string]string{}}
}

func (m *MemoryStore) Driver() string { return "memory" }

func (m *MemoryStore) Put(_ context.Context, key string, r io.Reader, _ int64, contentType string) error {
	if m.PutErr != nil {
		return m.PutErr
	}
	key, err := CleanKey(key)
	if err != nil {
		return err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[key] = data
	m.types[key] = contentType
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletes = append(m.deletes, key)
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	delete(m.files, key)
	delete(m.types, key)
	return nil
}

func (m *MemoryStore) Exists(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.files[key]
	return ok, nil
}

func (m *MemoryStore) URL(key string) string { return "/storage/" + key }

// Keys lists the stored keys in order.
func (m *MemoryStore) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.files))
	for k := range m.files {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Open returns a reader over a stored file, or false when missing.
func (m *MemoryStore) Open(key string) (io.Reader, string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[key]
	if !ok {
		return nil, "", false
	}
	return bytes.NewReader(data), m.types[key], true
}

// Deletes returns every key Delete was called with, including misses.
func (m *MemoryStore) Deletes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.deletes...)
}
