package store

import (
	"context"
	"sync"

	"safetrail/internal/location/models"
	id "safetrail/pkg/domain"
)

// MemoryStore is an in-memory Store for tests.
type MemoryStore struct {
	mu   sync.RWMutex
	logs []*models.Log
}

func NewMemory() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Create(_ context.Context, log *models.Log) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *log
	s.logs = append(s.logs, &clone)
	return nil
}

func (s *MemoryStore) ListByUser(_ context.Context, userID id.UserID, limit int) ([]*models.Log, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Log, 0)
	// Insertion order is creation order; walk backwards for newest-first.
	for i := len(s.logs) - 1; i >= 0; i-- {
		if s.logs[i].UserID != userID {
			continue
		}
		clone := *s.logs[i]
		out = append(out, &clone)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}
