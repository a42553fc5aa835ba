// Package cache holds each user's most recent accepted location sample.
//
// Readers only ever want a fresh fix: a sample older than the freshness
// window is reported as absent, not returned stale. Alert dispatch reads the
// cache and must never block on one, so implementations keep lookups cheap.
package cache

import (
	"context"
	"time"

	"safetrail/internal/location/models"
	id "safetrail/pkg/domain"
)

// Cache stores the latest sample per user with a freshness window.
type Cache interface {
	// Put replaces the user's cached sample.
	Put(ctx context.Context, userID id.UserID, sample models.Sample) error
	// Latest returns the user's cached sample, or (nil, nil) when no sample
	// exists or the cached one has aged past the freshness window.
	Latest(ctx context.Context, userID id.UserID) (*models.Sample, error)
}

// DefaultFreshness matches the device-side position cache horizon.
const DefaultFreshness = 5 * time.Minute
