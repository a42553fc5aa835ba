package store

import (
	"context"
	"sort"
	"sync"

	tripmodel "safetrail/internal/trip/models"
	id "safetrail/pkg/domain"
	"safetrail/pkg/platform/sentinel"
)

// MemoryStore is an in-memory trip store for unit tests and local development.
type MemoryStore struct {
	mu         sync.RWMutex
	trips      map[id.TripID]*tripmodel.Trip
	activities map[id.ActivityID]*tripmodel.Activity
	seq        int64
	tripSeq    map[id.TripID]int64
}

func NewMemory() *MemoryStore {
	return &MemoryStore{
		trips:      make(map[id.TripID]*tripmodel.Trip),
		activities: make(map[id.ActivityID]*tripmodel.Activity),
		tripSeq:    make(map[id.TripID]int64),
	}
}

func (s *MemoryStore) CreateTrip(ctx context.Context, trip *tripmodel.Trip) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.trips[trip.ID]; exists {
		return sentinel.ErrConflict
	}
	clone := *trip
	s.seq++
	s.tripSeq[trip.ID] = s.seq
	s.trips[trip.ID] = &clone
	return nil
}

func (s *MemoryStore) GetTrip(ctx context.Context, tripID id.TripID) (*tripmodel.Trip, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	trip, ok := s.trips[tripID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	clone := *trip
	return &clone, nil
}

func (s *MemoryStore) ListTrips(ctx context.Context, userID id.UserID) ([]*tripmodel.Trip, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*tripmodel.Trip
	for _, trip := range s.trips {
		if trip.UserID == userID {
			clone := *trip
			out = append(out, &clone)
		}
	}
	// Newest-created first; insertion sequence breaks CreatedAt ties so tests
	// with a frozen clock stay deterministic.
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return s.tripSeq[out[i].ID] > s.tripSeq[out[j].ID]
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *MemoryStore) UpdateTrip(ctx context.Context, trip *tripmodel.Trip) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.trips[trip.ID]; !ok {
		return sentinel.ErrNotFound
	}
	clone := *trip
	s.trips[trip.ID] = &clone
	return nil
}

func (s *MemoryStore) CreateActivity(ctx context.Context, activity *tripmodel.Activity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.activities[activity.ID]; exists {
		return sentinel.ErrConflict
	}
	clone := *activity
	s.activities[activity.ID] = &clone
	return nil
}

func (s *MemoryStore) ListActivities(ctx context.Context, tripID id.TripID) ([]*tripmodel.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*tripmodel.Activity
	for _, activity := range s.activities {
		if activity.TripID == tripID {
			clone := *activity
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].ScheduledTime, out[j].ScheduledTime
		switch {
		case a == nil && b == nil:
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.Before(*b)
		}
	})
	return out, nil
}
