package objectstore

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
)

// MemoryStore is an in-process Store for tests and local development.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string][]byte
	baseURL string

	// FailKeys forces Upload errors for matching keys so tests can exercise
	// partial-upload handling.
	FailKeys map[string]bool
}

func NewMemory(baseURL string) *MemoryStore {
	if baseURL == "" {
		baseURL = "https://objects.local"
	}
	return &MemoryStore{
		objects: make(map[string][]byte),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (s *MemoryStore) Upload(ctx context.Context, key, contentType string, body io.Reader) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if key == "" {
		return fmt.Errorf("object key is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailKeys[key] {
		return fmt.Errorf("upload %s: simulated storage failure", key)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf("read object body: %w", err)
	}
	s.objects[key] = data
	return nil
}

func (s *MemoryStore) PublicURL(key string) string {
	return s.baseURL + "/" + strings.TrimLeft(key, "/")
}

// Has reports whether an object exists; used by tests asserting that failed
// submissions leave no stored objects behind.
func (s *MemoryStore) Has(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.objects[key]
	return ok
}

// Len returns the number of stored objects.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
