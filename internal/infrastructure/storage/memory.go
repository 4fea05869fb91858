package storage

import (
	"context"
	"strings"
	"sync"
)

// MemoryObjectStorage is an in-memory ObjectStorage for tests and
// development setups without an S3 endpoint.
type MemoryObjectStorage struct {
	mu      sync.RWMutex
	objects map[string][]byte
	baseURL string
}

// NewMemoryObjectStorage creates an in-memory object storage
func NewMemoryObjectStorage(baseURL string) *MemoryObjectStorage {
	if baseURL == "" {
		baseURL = "memory://avatars"
	}
	return &MemoryObjectStorage{
		objects: make(map[string][]byte),
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

// Upload stores data under storageKey
func (s *MemoryObjectStorage) Upload(_ context.Context, storageKey string, data []byte, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	buf := make([]byte, len(data))
	copy(buf, data)
	s.objects[storageKey] = buf
	return nil
}

// Delete removes an object
func (s *MemoryObjectStorage) Delete(_ context.Context, storageKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, storageKey)
	return nil
}

// PublicURL returns the URL under which the object is served
func (s *MemoryObjectStorage) PublicURL(storageKey string) string {
	return s.baseURL + "/" + strings.TrimPrefix(storageKey, "/")
}

// Get returns a stored object, for test assertions
func (s *MemoryObjectStorage) Get(storageKey string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.objects[storageKey]
	return data, ok
}

var _ ObjectStorage = (*MemoryObjectStorage)(nil)
