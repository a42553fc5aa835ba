package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"safetrail/internal/platform/metrics"
	tripmodel "safetrail/internal/trip/models"
	id "safetrail/pkg/domain"
	dErrors "safetrail/pkg/domain-errors"
	"safetrail/pkg/platform/sentinel"
	"safetrail/pkg/requestcontext"
)

// Store is the persistence port for trips and activities.
type Store interface {
	CreateTrip(ctx context.Context, trip *tripmodel.Trip) error
	GetTrip(ctx context.Context, tripID id.TripID) (*tripmodel.Trip, error)
	// ListTrips returns the user's trips newest-created first.
	ListTrips(ctx context.Context, userID id.UserID) ([]*tripmodel.Trip, error)
	UpdateTrip(ctx context.Context, trip *tripmodel.Trip) error

	CreateActivity(ctx context.Context, activity *tripmodel.Activity) error
	// ListActivities returns activities ordered by scheduled time ascending,
	// unscheduled entries last.
	ListActivities(ctx context.Context, tripID id.TripID) ([]*tripmodel.Activity, error)
}

// Service owns trip and itinerary rules: date ordering at the input boundary,
// per-user scoping, and the credential eligibility read used by issuance.
type Service struct {
	store   Store
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func New(store Store, logger *slog.Logger, m *metrics.Metrics) (*Service, error) {
	if store == nil {
		return nil, errors.New("trip store is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, logger: logger, metrics: m}, nil
}

// CreateTripInput carries the caller-supplied trip fields.
type CreateTripInput struct {
	Title       string
	Destination string
	StartDate   string
	EndDate     string
	Description *string
	Status      tripmodel.TripStatus
}

// Create validates and persists a new trip for the user.
func (s *Service) Create(ctx context.Context, userID id.UserID, in CreateTripInput) (*tripmodel.Trip, error) {
	if userID.IsNil() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "user is required")
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "title is required")
	}
	if strings.TrimSpace(in.Destination) == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "destination is required")
	}
	start, err := tripmodel.ValidateDate(in.StartDate, "start_date")
	if err != nil {
		return nil, err
	}
	end, err := tripmodel.ValidateDate(in.EndDate, "end_date")
	if err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, dErrors.New(dErrors.CodeValidation, "end_date must not precede start_date")
	}
	status := in.Status
	if status == "" {
		status = tripmodel.TripStatusPlanned
	}
	if !status.IsValid() {
		return nil, dErrors.New(dErrors.CodeValidation, "invalid trip status")
	}

	now := requestcontext.Now(ctx).UTC()
	trip := &tripmodel.Trip{
		ID:          id.NewTripID(),
		UserID:      userID,
		Title:       strings.TrimSpace(in.Title),
		Destination: strings.TrimSpace(in.Destination),
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		Description: in.Description,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.CreateTrip(ctx, trip); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create trip")
	}
	if s.metrics != nil {
		s.metrics.TripsCreated.Inc()
	}
	return trip, nil
}

// List returns the user's trips newest-created first.
func (s *Service) List(ctx context.Context, userID id.UserID) ([]*tripmodel.Trip, error) {
	trips, err := s.store.ListTrips(ctx, userID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list trips")
	}
	return trips, nil
}

// ListEligible returns only trips usable for credential issuance.
func (s *Service) ListEligible(ctx context.Context, userID id.UserID) ([]*tripmodel.Trip, error) {
	trips, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	return tripmodel.EligibleForCredential(trips), nil
}

// Get fetches one trip, enforcing ownership.
func (s *Service) Get(ctx context.Context, userID id.UserID, tripID id.TripID) (*tripmodel.Trip, error) {
	trip, err := s.store.GetTrip(ctx, tripID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "trip not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to get trip")
	}
	if trip.UserID != userID {
		// Foreign trips are reported as absent, not forbidden.
		return nil, dErrors.New(dErrors.CodeNotFound, "trip not found")
	}
	return trip, nil
}

// UpdateTripInput carries partial trip updates; nil fields are left unchanged.
type UpdateTripInput struct {
	Title       *string
	Destination *string
	StartDate   *string
	EndDate     *string
	Description *string
	Status      *tripmodel.TripStatus
}

// Update applies partial fields to an owned trip.
func (s *Service) Update(ctx context.Context, userID id.UserID, tripID id.TripID, in UpdateTripInput) (*tripmodel.Trip, error) {
	trip, err := s.Get(ctx, userID, tripID)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			return nil, dErrors.New(dErrors.CodeValidation, "title is required")
		}
		trip.Title = strings.TrimSpace(*in.Title)
	}
	if in.Destination != nil {
		if strings.TrimSpace(*in.Destination) == "" {
			return nil, dErrors.New(dErrors.CodeValidation, "destination is required")
		}
		trip.Destination = strings.TrimSpace(*in.Destination)
	}
	if in.StartDate != nil {
		if _, err := tripmodel.ValidateDate(*in.StartDate, "start_date"); err != nil {
			return nil, err
		}
		trip.StartDate = *in.StartDate
	}
	if in.EndDate != nil {
		if _, err := tripmodel.ValidateDate(*in.EndDate, "end_date"); err != nil {
			return nil, err
		}
		trip.EndDate = *in.EndDate
	}
	start, _ := time.Parse(tripmodel.DateLayout, trip.StartDate)
	end, _ := time.Parse(tripmodel.DateLayout, trip.EndDate)
	if end.Before(start) {
		return nil, dErrors.New(dErrors.CodeValidation, "end_date must not precede start_date")
	}
	if in.Description != nil {
		trip.Description = in.Description
	}
	if in.Status != nil {
		if !in.Status.IsValid() {
			return nil, dErrors.New(dErrors.CodeValidation, "invalid trip status")
		}
		trip.Status = *in.Status
	}
	trip.UpdatedAt = requestcontext.Now(ctx).UTC()

	if err := s.store.UpdateTrip(ctx, trip); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "trip not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update trip")
	}
	return trip, nil
}

// CreateActivityInput carries the caller-supplied activity fields.
type CreateActivityInput struct {
	Title           string
	Description     *string
	Location        *string
	ScheduledTime   *time.Time
	DurationMinutes *int
	ActivityType    tripmodel.ActivityType
}

// CreateActivity adds an itinerary entry to an owned trip.
func (s *Service) CreateActivity(ctx context.Context, userID id.UserID, tripID id.TripID, in CreateActivityInput) (*tripmodel.Activity, error) {
	if _, err := s.Get(ctx, userID, tripID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "title is required")
	}
	activityType := in.ActivityType
	if activityType == "" {
		activityType = tripmodel.ActivityTypeGeneral
	}
	if in.DurationMinutes != nil && *in.DurationMinutes <= 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "duration_minutes must be positive")
	}

	now := requestcontext.Now(ctx).UTC()
	activity := &tripmodel.Activity{
		ID:              id.NewActivityID(),
		TripID:          tripID,
		Title:           strings.TrimSpace(in.Title),
		Description:     in.Description,
		Location:        in.Location,
		ScheduledTime:   in.ScheduledTime,
		DurationMinutes: in.DurationMinutes,
		ActivityType:    activityType,
		IsCompleted:     false,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.store.CreateActivity(ctx, activity); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create activity")
	}
	return activity, nil
}

// ListActivities returns an owned trip's itinerary ordered by scheduled time
// ascending, unscheduled entries last.
func (s *Service) ListActivities(ctx context.Context, userID id.UserID, tripID id.TripID) ([]*tripmodel.Activity, error) {
	if _, err := s.Get(ctx, userID, tripID); err != nil {
		return nil, err
	}
	activities, err := s.store.ListActivities(ctx, tripID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list activities")
	}
	return activities, nil
}
