// Package service implements the emergency alert lifecycle: send, list,
// resolve.
package service

import (
	"context"
	"errors"
	"log/slog"

	"safetrail/internal/audit"
	"safetrail/internal/location/cache"
	"safetrail/internal/platform/metrics"
	"safetrail/internal/sos/models"
	"safetrail/internal/sos/store"
	id "safetrail/pkg/domain"
	dErrors "safetrail/pkg/domain-errors"
	"safetrail/pkg/platform/sentinel"
	"safetrail/pkg/requestcontext"
)

// SendInput carries the caller-supplied alert fields. Coordinates are never
// caller-supplied; they come from the location cache.
type SendInput struct {
	AlertType id.AlertType
	Message   *string
	TripID    *id.TripID
}

type Service struct {
	alerts    store.Store
	locations cache.Cache
	auditor   *audit.Publisher
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

func New(alerts store.Store, locations cache.Cache, auditor *audit.Publisher, logger *slog.Logger, m *metrics.Metrics) (*Service, error) {
	if alerts == nil {
		return nil, errors.New("alert store is required")
	}
	if locations == nil {
		return nil, errors.New("location cache is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		alerts:    alerts,
		locations: locations,
		auditor:   auditor,
		logger:    logger,
		metrics:   m,
	}, nil
}

// Send dispatches a new alert. The most recent cached location sample is
// attached when one is fresh; an empty or stale cache (or a cache read
// failure) leaves the coordinates nil and never delays the alert, because
// getting it out matters more than knowing where from.
func (s *Service) Send(ctx context.Context, userID id.UserID, input SendInput) (*models.Alert, error) {
	if !input.AlertType.IsValid() {
		return nil, dErrors.New(dErrors.CodeValidation, "invalid alert type")
	}

	alert := &models.Alert{
		ID:        id.NewAlertID(),
		UserID:    userID,
		TripID:    input.TripID,
		AlertType: input.AlertType,
		Message:   input.Message,
		Status:    models.StatusActive,
		CreatedAt: requestcontext.Now(ctx).UTC(),
	}

	sample, err := s.locations.Latest(ctx, userID)
	switch {
	case err != nil:
		s.logger.WarnContext(ctx, "location cache read failed, sending alert without coordinates",
			"user_id", userID.String(), "error", err)
	case sample != nil:
		lat, lng := sample.Latitude, sample.Longitude
		alert.Latitude = &lat
		alert.Longitude = &lng
	}

	if err := s.alerts.Create(ctx, alert); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save alert")
	}

	if s.metrics != nil {
		s.metrics.AlertsSent.WithLabelValues(string(alert.AlertType)).Inc()
	}
	s.emitAudit(ctx, userID, "sos_sent", alert.ID.String())
	return alert, nil
}

// Resolve closes an active alert with a terminal outcome. Alerts belonging
// to other users surface as not found.
func (s *Service) Resolve(ctx context.Context, resolverID id.UserID, alertID id.AlertID, outcome models.Status) (*models.Alert, error) {
	if !outcome.Terminal() {
		return nil, dErrors.New(dErrors.CodeValidation, "outcome must be resolved or false_alarm")
	}

	alert, err := s.alerts.GetByID(ctx, alertID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "alert not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load alert")
	}
	if alert.UserID != resolverID {
		return nil, dErrors.New(dErrors.CodeNotFound, "alert not found")
	}

	resolved, err := s.alerts.Resolve(ctx, alertID, outcome, resolverID, requestcontext.Now(ctx).UTC())
	if err != nil {
		switch {
		case errors.Is(err, sentinel.ErrNotFound):
			return nil, dErrors.New(dErrors.CodeNotFound, "alert not found")
		case errors.Is(err, sentinel.ErrInvalidState):
			return nil, dErrors.New(dErrors.CodeConflict, "alert is already resolved")
		default:
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve alert")
		}
	}

	if s.metrics != nil {
		s.metrics.AlertsResolved.Inc()
	}
	s.emitAudit(ctx, resolverID, "sos_resolved", alertID.String())
	return resolved, nil
}

// ListActive returns the user's open alerts, most recent first.
func (s *Service) ListActive(ctx context.Context, userID id.UserID) ([]*models.Alert, error) {
	alerts, err := s.alerts.ListActive(ctx, userID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list alerts")
	}
	return alerts, nil
}

// List returns the user's full alert history, most recent first.
func (s *Service) List(ctx context.Context, userID id.UserID) ([]*models.Alert, error) {
	alerts, err := s.alerts.ListByUser(ctx, userID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list alerts")
	}
	return alerts, nil
}

func (s *Service) emitAudit(ctx context.Context, userID id.UserID, action, subject string) {
	if s.auditor == nil {
		return
	}
	if err := s.auditor.Emit(ctx, audit.Event{
		UserID:  userID.String(),
		Action:  action,
		Subject: subject,
	}); err != nil {
		s.logger.WarnContext(ctx, "audit emit failed", "action", action, "error", err)
	}
}
