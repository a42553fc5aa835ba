package cache

import (
	"context"
	"sync"
	"time"

	"safetrail/internal/location/models"
	id "safetrail/pkg/domain"
)

// Memory is an in-process Cache for tests and single-node deployments
// without redis.
type Memory struct {
	mu        sync.RWMutex
	samples   map[id.UserID]models.Sample
	freshness time.Duration
	now       func() time.Time
}

func NewMemory(freshness time.Duration) *Memory {
	if freshness <= 0 {
		freshness = DefaultFreshness
	}
	return &Memory{
		samples:   make(map[id.UserID]models.Sample),
		freshness: freshness,
		now:       time.Now,
	}
}

// WithClock overrides the freshness clock. Test hook.
func (m *Memory) WithClock(now func() time.Time) *Memory {
	m.now = now
	return m
}

func (m *Memory) Put(_ context.Context, userID id.UserID, sample models.Sample) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.samples[userID] = sample
	return nil
}

func (m *Memory) Latest(_ context.Context, userID id.UserID) (*models.Sample, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sample, ok := m.samples[userID]
	if !ok {
		return nil, nil
	}
	if m.now().Sub(sample.ObservedAt) > m.freshness {
		return nil, nil
	}
	out := sample
	return &out, nil
}
