package store

import (
	"context"
	"sync"

	"safetrail/internal/settings/models"
	id "safetrail/pkg/domain"
	"safetrail/pkg/platform/sentinel"
)

// MemoryStore is an in-memory Store for tests.
type MemoryStore struct {
	mu       sync.RWMutex
	settings map[id.UserID]*models.Settings
}

func NewMemory() *MemoryStore {
	return &MemoryStore{settings: make(map[id.UserID]*models.Settings)}
}

func (s *MemoryStore) Get(_ context.Context, userID id.UserID) (*models.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	saved, ok := s.settings[userID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	clone := *saved
	clone.EmergencyContacts = append([]models.EmergencyContact(nil), saved.EmergencyContacts...)
	return &clone, nil
}

func (s *MemoryStore) Save(_ context.Context, userID id.UserID, settings *models.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *settings
	clone.EmergencyContacts = append([]models.EmergencyContact(nil), settings.EmergencyContacts...)
	s.settings[userID] = &clone
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, userID id.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.settings, userID)
	return nil
}
