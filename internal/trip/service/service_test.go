package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tripmodel "safetrail/internal/trip/models"
	tripstore "safetrail/internal/trip/store"
	id "safetrail/pkg/domain"
	dErrors "safetrail/pkg/domain-errors"
	"safetrail/pkg/requestcontext"
)

func newService(t *testing.T) *Service {
	t.Helper()
	svc, err := New(tripstore.NewMemory(), nil, nil)
	require.NoError(t, err)
	return svc
}

func create(t *testing.T, svc *Service, userID id.UserID, in CreateTripInput) *tripmodel.Trip {
	t.Helper()
	trip, err := svc.Create(context.Background(), userID, in)
	require.NoError(t, err)
	return trip
}

func validInput() CreateTripInput {
	return CreateTripInput{
		Title:       "Winter in Kyoto",
		Destination: "Kyoto",
		StartDate:   "2026-12-01",
		EndDate:     "2026-12-14",
	}
}

func TestCreate(t *testing.T) {
	t.Run("defaults to planned", func(t *testing.T) {
		svc := newService(t)
		trip := create(t, svc, id.NewUserID(), validInput())
		assert.Equal(t, tripmodel.TripStatusPlanned, trip.Status)
	})

	t.Run("keeps dates exactly as supplied", func(t *testing.T) {
		svc := newService(t)
		trip := create(t, svc, id.NewUserID(), validInput())
		assert.Equal(t, "2026-12-01", trip.StartDate)
		assert.Equal(t, "2026-12-14", trip.EndDate)
	})

	t.Run("single-day trips are valid", func(t *testing.T) {
		svc := newService(t)
		in := validInput()
		in.EndDate = in.StartDate
		trip := create(t, svc, id.NewUserID(), in)
		assert.Equal(t, trip.StartDate, trip.EndDate)
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		svc := newService(t)
		for name, mutate := range map[string]func(*CreateTripInput){
			"missing title":          func(in *CreateTripInput) { in.Title = "  " },
			"missing destination":    func(in *CreateTripInput) { in.Destination = "" },
			"malformed start date":   func(in *CreateTripInput) { in.StartDate = "01/12/2026" },
			"malformed end date":     func(in *CreateTripInput) { in.EndDate = "soon" },
			"end precedes start":     func(in *CreateTripInput) { in.EndDate = "2026-11-30" },
			"unknown status":         func(in *CreateTripInput) { in.Status = tripmodel.TripStatus("archived") },
		} {
			t.Run(name, func(t *testing.T) {
				in := validInput()
				mutate(&in)
				_, err := svc.Create(context.Background(), id.NewUserID(), in)
				require.Error(t, err)
				assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
			})
		}
	})
}

func TestTimestampsUseRequestClock(t *testing.T) {
	svc := newService(t)
	userID := id.NewUserID()
	at := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(context.Background(), at)

	trip, err := svc.Create(ctx, userID, validInput())
	require.NoError(t, err)
	assert.Equal(t, at, trip.CreatedAt)
	assert.Equal(t, at, trip.UpdatedAt)

	later := at.Add(time.Hour)
	status := tripmodel.TripStatusActive
	updated, err := svc.Update(requestcontext.WithTime(context.Background(), later), userID, trip.ID, UpdateTripInput{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, later, updated.UpdatedAt)

	activity, err := svc.CreateActivity(requestcontext.WithTime(context.Background(), later), userID, trip.ID, CreateActivityInput{Title: "Tea ceremony"})
	require.NoError(t, err)
	assert.Equal(t, later, activity.CreatedAt)
}

func TestListOrdersNewestFirst(t *testing.T) {
	svc := newService(t)
	userID := id.NewUserID()

	first := create(t, svc, userID, validInput())
	in := validInput()
	in.Title = "Goa beaches"
	in.Destination = "Goa"
	second := create(t, svc, userID, in)

	trips, err := svc.List(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, trips, 2)
	assert.Equal(t, second.ID, trips[0].ID)
	assert.Equal(t, first.ID, trips[1].ID)
}

func TestListEligible(t *testing.T) {
	svc := newService(t)
	userID := id.NewUserID()

	planned := create(t, svc, userID, validInput())

	in := validInput()
	in.Status = tripmodel.TripStatusActive
	active := create(t, svc, userID, in)

	in = validInput()
	in.Status = tripmodel.TripStatusCompleted
	create(t, svc, userID, in)

	in = validInput()
	in.Status = tripmodel.TripStatusCancelled
	create(t, svc, userID, in)

	eligible, err := svc.ListEligible(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, eligible, 2, "only planned and active trips back credentials")
	ids := []id.TripID{eligible[0].ID, eligible[1].ID}
	assert.Contains(t, ids, planned.ID)
	assert.Contains(t, ids, active.ID)
}

func TestGet(t *testing.T) {
	svc := newService(t)
	userID := id.NewUserID()
	trip := create(t, svc, userID, validInput())

	t.Run("returns an owned trip", func(t *testing.T) {
		got, err := svc.Get(context.Background(), userID, trip.ID)
		require.NoError(t, err)
		assert.Equal(t, trip.ID, got.ID)
	})

	t.Run("foreign trip surfaces as not found", func(t *testing.T) {
		_, err := svc.Get(context.Background(), id.NewUserID(), trip.ID)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func TestUpdate(t *testing.T) {
	svc := newService(t)
	userID := id.NewUserID()

	t.Run("applies partial fields", func(t *testing.T) {
		trip := create(t, svc, userID, validInput())

		title := "Kyoto and Osaka"
		status := tripmodel.TripStatusActive
		updated, err := svc.Update(context.Background(), userID, trip.ID, UpdateTripInput{
			Title:  &title,
			Status: &status,
		})
		require.NoError(t, err)
		assert.Equal(t, "Kyoto and Osaka", updated.Title)
		assert.Equal(t, tripmodel.TripStatusActive, updated.Status)
		assert.Equal(t, trip.Destination, updated.Destination, "untouched fields survive")
	})

	t.Run("re-validates date ordering against stored dates", func(t *testing.T) {
		trip := create(t, svc, userID, validInput())

		badEnd := "2026-11-01"
		_, err := svc.Update(context.Background(), userID, trip.ID, UpdateTripInput{EndDate: &badEnd})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func TestActivities(t *testing.T) {
	svc := newService(t)
	userID := id.NewUserID()
	trip := create(t, svc, userID, validInput())

	t.Run("creates and lists in schedule order", func(t *testing.T) {
		evening := time.Date(2026, 12, 2, 19, 0, 0, 0, time.UTC)
		morning := time.Date(2026, 12, 2, 9, 0, 0, 0, time.UTC)

		_, err := svc.CreateActivity(context.Background(), userID, trip.ID, CreateActivityInput{
			Title:         "Gion dinner",
			ScheduledTime: &evening,
			ActivityType:  tripmodel.ActivityTypeDining,
		})
		require.NoError(t, err)
		_, err = svc.CreateActivity(context.Background(), userID, trip.ID, CreateActivityInput{
			Title:         "Fushimi Inari hike",
			ScheduledTime: &morning,
			ActivityType:  tripmodel.ActivityTypeSightseeing,
		})
		require.NoError(t, err)
		_, err = svc.CreateActivity(context.Background(), userID, trip.ID, CreateActivityInput{
			Title:        "Buy rail pass",
			ActivityType: tripmodel.ActivityTypeGeneral,
		})
		require.NoError(t, err)

		activities, err := svc.ListActivities(context.Background(), userID, trip.ID)
		require.NoError(t, err)
		require.Len(t, activities, 3)
		assert.Equal(t, "Fushimi Inari hike", activities[0].Title)
		assert.Equal(t, "Gion dinner", activities[1].Title)
		assert.Equal(t, "Buy rail pass", activities[2].Title, "unscheduled entries sort last")
	})

	t.Run("foreign trip cannot gain activities", func(t *testing.T) {
		_, err := svc.CreateActivity(context.Background(), id.NewUserID(), trip.ID, CreateActivityInput{
			Title:        "Sneaky",
			ActivityType: tripmodel.ActivityTypeGeneral,
		})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}
