package store

import (
	"context"

	"safetrail/internal/settings/models"
	id "safetrail/pkg/domain"
)

// Store persists user settings, one row per user.
type Store interface {
	// Get returns the user's saved settings. Returns sentinel.ErrNotFound
	// when the user never saved any.
	Get(ctx context.Context, userID id.UserID) (*models.Settings, error)
	// Save inserts or fully replaces the user's settings.
	Save(ctx context.Context, userID id.UserID, settings *models.Settings) error
	// Delete removes the user's saved settings, reverting them to defaults.
	// Deleting absent settings is not an error.
	Delete(ctx context.Context, userID id.UserID) error
}
