package store

import (
	"context"

	"safetrail/internal/location/models"
	id "safetrail/pkg/domain"
)

// Store persists location logs. Logs are append-only; there is no update or
// delete path.
type Store interface {
	Create(ctx context.Context, log *models.Log) error
	// ListByUser returns the user's logs, most recent first, capped at limit.
	ListByUser(ctx context.Context, userID id.UserID, limit int) ([]*models.Log, error)
}
