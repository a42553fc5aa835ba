package sampler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"safetrail/internal/location/cache"
	"safetrail/internal/location/models"
	id "safetrail/pkg/domain"
)

func TestObserveThrottlesStream(t *testing.T) {
	// 35 positions one second apart against a 30 second window: the first
	// tick and the tick at t=30s are accepted, everything else is discarded.
	base := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := base
	store := cache.NewMemory(time.Hour)
	s := New(store, 30*time.Second, nil, nil).WithClock(func() time.Time { return clock })

	userID := id.NewUserID()
	var acceptedTicks []int
	for tick := 0; tick < 35; tick++ {
		clock = base.Add(time.Duration(tick) * time.Second)
		if s.observe(context.Background(), userID, models.Position{Latitude: float64(tick)}) {
			acceptedTicks = append(acceptedTicks, tick)
		}
	}

	assert.Equal(t, []int{0, 30}, acceptedTicks, "at most one sample per 30s window")

	latest, err := store.Latest(context.Background(), userID)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, float64(30), latest.Latitude)
	assert.Equal(t, base.Add(30*time.Second), latest.ObservedAt)
}

func TestObserveCacheFailureDoesNotCountAsAccepted(t *testing.T) {
	s := New(failingCache{}, 30*time.Second, nil, nil)
	ok := s.observe(context.Background(), id.NewUserID(), models.Position{Latitude: 1})
	assert.False(t, ok)
}

func TestRunStopsOnCancel(t *testing.T) {
	s := New(cache.NewMemory(time.Hour), 30*time.Second, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	positions := make(chan models.Position)
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.Run(ctx, id.NewUserID(), positions)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("sampler did not stop on context cancel")
	}
}

func TestRunStopsWhenStreamCloses(t *testing.T) {
	store := cache.NewMemory(time.Hour)
	s := New(store, 30*time.Second, nil, nil)

	userID := id.NewUserID()
	positions := make(chan models.Position, 1)
	positions <- models.Position{Latitude: 1}
	close(positions)

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.Run(context.Background(), userID, positions)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("sampler did not stop when the stream closed")
	}

	latest, err := store.Latest(context.Background(), userID)
	require.NoError(t, err)
	require.NotNil(t, latest, "the buffered position was consumed before the close")
}

type failingCache struct{}

func (failingCache) Put(context.Context, id.UserID, models.Sample) error {
	return context.DeadlineExceeded
}

func (failingCache) Latest(context.Context, id.UserID) (*models.Sample, error) {
	return nil, nil
}
