package store

import (
	"context"

	"safetrail/internal/profile/models"
	id "safetrail/pkg/domain"
)

// Store persists traveler profiles, one row per user.
type Store interface {
	// Get returns the user's profile. Returns sentinel.ErrNotFound when the
	// user never saved one.
	Get(ctx context.Context, userID id.UserID) (*models.Profile, error)
	// Upsert inserts or fully replaces the user's profile.
	Upsert(ctx context.Context, profile *models.Profile) error
}
