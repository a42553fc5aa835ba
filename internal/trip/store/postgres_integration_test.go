//go:build integration

package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tripmodel "safetrail/internal/trip/models"
	id "safetrail/pkg/domain"
	"safetrail/pkg/platform/sentinel"
	"safetrail/pkg/testutil/containers"
)

func TestPostgresStore_Trips(t *testing.T) {
	pg := containers.NewPostgresContainer(t, "../../../migrations/001_init.sql")
	t.Cleanup(func() { pg.Close(t) })

	store := NewPostgres(pg.DB)
	ctx := context.Background()
	userID := id.NewUserID()

	trip := &tripmodel.Trip{
		ID:          id.NewTripID(),
		UserID:      userID,
		Title:       "Harbor cities",
		Destination: "Rotterdam",
		StartDate:   "2026-10-01",
		EndDate:     "2026-10-12",
		Status:      tripmodel.TripStatusPlanned,
		CreatedAt:   time.Now().UTC().Truncate(time.Millisecond),
		UpdatedAt:   time.Now().UTC().Truncate(time.Millisecond),
	}
	require.NoError(t, store.CreateTrip(ctx, trip))

	t.Run("round trips date strings through the date columns", func(t *testing.T) {
		got, err := store.GetTrip(ctx, trip.ID)
		require.NoError(t, err)
		assert.Equal(t, "2026-10-01", got.StartDate)
		assert.Equal(t, "2026-10-12", got.EndDate)
		assert.Equal(t, trip.Title, got.Title)
		assert.Equal(t, trip.UserID, got.UserID)
	})

	t.Run("lists newest first", func(t *testing.T) {
		second := *trip
		second.ID = id.NewTripID()
		second.Title = "Later trip"
		second.CreatedAt = trip.CreatedAt.Add(time.Second)
		require.NoError(t, store.CreateTrip(ctx, &second))

		trips, err := store.ListTrips(ctx, userID)
		require.NoError(t, err)
		require.Len(t, trips, 2)
		assert.Equal(t, "Later trip", trips[0].Title)
	})

	t.Run("get of unknown trip yields not found", func(t *testing.T) {
		_, err := store.GetTrip(ctx, id.NewTripID())
		assert.True(t, errors.Is(err, sentinel.ErrNotFound))
	})

	t.Run("update persists new status", func(t *testing.T) {
		trip.Status = tripmodel.TripStatusActive
		trip.UpdatedAt = time.Now().UTC()
		require.NoError(t, store.UpdateTrip(ctx, trip))

		got, err := store.GetTrip(ctx, trip.ID)
		require.NoError(t, err)
		assert.Equal(t, tripmodel.TripStatusActive, got.Status)
	})

	t.Run("activities order by schedule with unscheduled last", func(t *testing.T) {
		at := time.Date(2026, 10, 2, 9, 0, 0, 0, time.UTC)
		scheduled := &tripmodel.Activity{
			ID:            id.NewActivityID(),
			TripID:        trip.ID,
			Title:         "Museum morning",
			ScheduledTime: &at,
			ActivityType:  tripmodel.ActivityTypeSightseeing,
			CreatedAt:     time.Now().UTC(),
			UpdatedAt:     time.Now().UTC(),
		}
		unscheduled := &tripmodel.Activity{
			ID:           id.NewActivityID(),
			TripID:       trip.ID,
			Title:        "Buy tram pass",
			ActivityType: tripmodel.ActivityTypeGeneral,
			CreatedAt:    time.Now().UTC(),
			UpdatedAt:    time.Now().UTC(),
		}
		require.NoError(t, store.CreateActivity(ctx, unscheduled))
		require.NoError(t, store.CreateActivity(ctx, scheduled))

		activities, err := store.ListActivities(ctx, trip.ID)
		require.NoError(t, err)
		require.Len(t, activities, 2)
		assert.Equal(t, "Museum morning", activities[0].Title)
		assert.Equal(t, "Buy tram pass", activities[1].Title)
	})
}
