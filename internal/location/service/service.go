// Package service exposes location logging on top of the sample cache and
// the append-only log store.
package service

import (
	"context"
	"errors"
	"log/slog"

	"safetrail/internal/location/cache"
	"safetrail/internal/location/models"
	"safetrail/internal/location/sampler"
	"safetrail/internal/location/store"
	id "safetrail/pkg/domain"
	dErrors "safetrail/pkg/domain-errors"
	"safetrail/pkg/requestcontext"
)

// DefaultListLimit caps history reads when the caller does not say otherwise.
const DefaultListLimit = 100

// LogInput is a caller-supplied location record.
type LogInput struct {
	Position models.Position
	TripID   *id.TripID
	Address  *string
	Notes    *string
}

type Service struct {
	store   store.Store
	cache   cache.Cache
	samples *sampler.Registry
	logger  *slog.Logger
}

func New(s store.Store, c cache.Cache, samples *sampler.Registry, logger *slog.Logger) (*Service, error) {
	if s == nil {
		return nil, errors.New("location store is required")
	}
	if c == nil {
		return nil, errors.New("location cache is required")
	}
	if samples == nil {
		return nil, errors.New("sampler registry is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: s, cache: c, samples: samples, logger: logger}, nil
}

// Log appends a caller-supplied position to the user's location history.
func (s *Service) Log(ctx context.Context, userID id.UserID, input LogInput) (*models.Log, error) {
	if err := validatePosition(input.Position); err != nil {
		return nil, err
	}
	return s.append(ctx, userID, input, false)
}

// Ingest feeds a batch of streamed device positions through the user's
// throttled sampler. Acceptance is asynchronous: the return value is how many
// positions were queued, not how many survived the throttle.
func (s *Service) Ingest(_ context.Context, userID id.UserID, positions []models.Position) (int, error) {
	if len(positions) == 0 {
		return 0, dErrors.New(dErrors.CodeValidation, "at least one position is required")
	}
	for _, pos := range positions {
		if err := validatePosition(pos); err != nil {
			return 0, err
		}
	}
	return s.samples.Offer(userID, positions...), nil
}

// SafeCheckIn logs the user's current cached position as a safe check-in. It
// requires a fresh sample: checking in from an unknown position would defeat
// the point.
func (s *Service) SafeCheckIn(ctx context.Context, userID id.UserID, notes *string) (*models.Log, error) {
	sample, err := s.cache.Latest(ctx, userID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read location sample")
	}
	if sample == nil {
		return nil, dErrors.New(dErrors.CodeValidation, "no recent location sample; enable location tracking to check in")
	}
	return s.append(ctx, userID, LogInput{Position: sample.Position, Notes: notes}, true)
}

// History returns the user's recent location logs, newest first.
func (s *Service) History(ctx context.Context, userID id.UserID, limit int) ([]*models.Log, error) {
	if limit <= 0 || limit > DefaultListLimit {
		limit = DefaultListLimit
	}
	logs, err := s.store.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list location logs")
	}
	return logs, nil
}

// Latest exposes the cached sample, nil when absent or stale.
func (s *Service) Latest(ctx context.Context, userID id.UserID) (*models.Sample, error) {
	sample, err := s.cache.Latest(ctx, userID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read location sample")
	}
	return sample, nil
}

func validatePosition(pos models.Position) error {
	if pos.Latitude < -90 || pos.Latitude > 90 {
		return dErrors.New(dErrors.CodeValidation, "latitude out of range")
	}
	if pos.Longitude < -180 || pos.Longitude > 180 {
		return dErrors.New(dErrors.CodeValidation, "longitude out of range")
	}
	return nil
}

func (s *Service) append(ctx context.Context, userID id.UserID, input LogInput, safeCheckIn bool) (*models.Log, error) {
	log := &models.Log{
		ID:            id.NewLogID(),
		UserID:        userID,
		TripID:        input.TripID,
		Latitude:      input.Position.Latitude,
		Longitude:     input.Position.Longitude,
		Accuracy:      input.Position.Accuracy,
		Altitude:      input.Position.Altitude,
		Address:       input.Address,
		IsSafeCheckIn: safeCheckIn,
		Notes:         input.Notes,
		CreatedAt:     requestcontext.Now(ctx).UTC(),
	}
	if err := s.store.Create(ctx, log); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save location log")
	}
	// A manually logged position is as fresh as a streamed sample, so refresh
	// the cache best-effort. A cache failure must not fail the log itself.
	if err := s.cache.Put(ctx, userID, models.Sample{Position: input.Position, ObservedAt: log.CreatedAt}); err != nil {
		s.logger.WarnContext(ctx, "location cache refresh failed", "error", err.Error())
	}
	return log, nil
}
