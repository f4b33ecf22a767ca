package storage

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// StoredObject is a document body held by MemoryStore.
type StoredObject struct {
	ContentType string
	Body        []byte
}

// MemoryStore keeps documents in process memory. Used when no bucket is configured.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string]StoredObject
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string]StoredObject)}
}

func (m *MemoryStore) Put(ctx context.Context, key, contentType string, body io.Reader, size int64) error {
	b, err := io.ReadAll(io.LimitReader(body, size+1))
	if err != nil {
		return fmt.Errorf("read document body: %w", err)
	}
	if int64(len(b)) != size {
		return fmt.Errorf("document body is %d bytes, expected %d", len(b), size)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = StoredObject{ContentType: contentType, Body: b}
	return nil
}

// Get returns the object stored under key.
func (m *MemoryStore) Get(key string) (StoredObject, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.objects[key]
	return o, ok
}
