package store

import (
	"context"
	"sync"

	"safetrail/internal/profile/models"
	id "safetrail/pkg/domain"
	"safetrail/pkg/platform/sentinel"
)

// MemoryStore is an in-memory Store for tests.
type MemoryStore struct {
	mu       sync.RWMutex
	profiles map[id.UserID]*models.Profile
}

func NewMemory() *MemoryStore {
	return &MemoryStore{profiles: make(map[id.UserID]*models.Profile)}
}

func (s *MemoryStore) Get(_ context.Context, userID id.UserID) (*models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	profile, ok := s.profiles[userID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	clone := *profile
	return &clone, nil
}

func (s *MemoryStore) Upsert(_ context.Context, profile *models.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *profile
	if existing, ok := s.profiles[profile.UserID]; ok {
		clone.CreatedAt = existing.CreatedAt
	}
	s.profiles[profile.UserID] = &clone
	return nil
}
