package store

import (
	"context"
	"time"

	"safetrail/internal/sos/models"
	id "safetrail/pkg/domain"
)

// Store persists emergency alerts.
//
// Resolve is conditional on the alert still being active, mirroring the
// verification store's pending-only update: resolution happens exactly once,
// and a second attempt surfaces sentinel.ErrInvalidState rather than
// silently rewriting the outcome.
type Store interface {
	Create(ctx context.Context, alert *models.Alert) error
	GetByID(ctx context.Context, alertID id.AlertID) (*models.Alert, error)
	// ListByUser returns the user's alerts, most recent first.
	ListByUser(ctx context.Context, userID id.UserID) ([]*models.Alert, error)
	// ListActive returns the user's open alerts, most recent first.
	ListActive(ctx context.Context, userID id.UserID) ([]*models.Alert, error)
	// Resolve closes an active alert. Returns sentinel.ErrNotFound when the
	// alert does not exist and sentinel.ErrInvalidState when it is already
	// terminal.
	Resolve(ctx context.Context, alertID id.AlertID, outcome models.Status, resolvedBy id.UserID, resolvedAt time.Time) (*models.Alert, error)
}
