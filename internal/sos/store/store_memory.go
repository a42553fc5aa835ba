package store

import (
	"context"
	"sync"
	"time"

	"safetrail/internal/sos/models"
	id "safetrail/pkg/domain"
	"safetrail/pkg/platform/sentinel"
)

// MemoryStore is an in-memory Store for tests.
type MemoryStore struct {
	mu     sync.RWMutex
	alerts map[id.AlertID]*models.Alert
	order  []id.AlertID
}

func NewMemory() *MemoryStore {
	return &MemoryStore{alerts: make(map[id.AlertID]*models.Alert)}
}

func (s *MemoryStore) Create(_ context.Context, alert *models.Alert) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.alerts[alert.ID]; exists {
		return sentinel.ErrConflict
	}
	clone := *alert
	s.alerts[alert.ID] = &clone
	s.order = append(s.order, alert.ID)
	return nil
}

func (s *MemoryStore) GetByID(_ context.Context, alertID id.AlertID) (*models.Alert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	alert, ok := s.alerts[alertID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	clone := *alert
	return &clone, nil
}

func (s *MemoryStore) ListByUser(_ context.Context, userID id.UserID) ([]*models.Alert, error) {
	return s.list(userID, false), nil
}

func (s *MemoryStore) ListActive(_ context.Context, userID id.UserID) ([]*models.Alert, error) {
	return s.list(userID, true), nil
}

func (s *MemoryStore) list(userID id.UserID, activeOnly bool) []*models.Alert {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Alert, 0)
	// Insertion order is creation order; walk backwards for newest-first.
	for i := len(s.order) - 1; i >= 0; i-- {
		alert := s.alerts[s.order[i]]
		if alert.UserID != userID {
			continue
		}
		if activeOnly && alert.Status != models.StatusActive {
			continue
		}
		clone := *alert
		out = append(out, &clone)
	}
	return out
}

func (s *MemoryStore) Resolve(_ context.Context, alertID id.AlertID, outcome models.Status, resolvedBy id.UserID, resolvedAt time.Time) (*models.Alert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	alert, ok := s.alerts[alertID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if alert.Status != models.StatusActive {
		return nil, sentinel.ErrInvalidState
	}
	alert.Status = outcome
	alert.ResolvedAt = &resolvedAt
	alert.ResolvedBy = &resolvedBy

	clone := *alert
	return &clone, nil
}
