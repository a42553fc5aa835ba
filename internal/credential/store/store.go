package store

import (
	"context"

	credmodel "safetrail/internal/credential/models"
	id "safetrail/pkg/domain"
)

// Store is the persistence port for issued credentials.
type Store interface {
	// Create inserts a credential. At most one credential may exist per
	// (user, trip) pair; implementations return sentinel.ErrConflict when
	// the pair is already taken.
	Create(ctx context.Context, credential *credmodel.Credential) error
	// ListByUser returns credentials most-recent first.
	ListByUser(ctx context.Context, userID id.UserID) ([]*credmodel.Credential, error)
	// GetByUserAndTrip returns the credential for a (user, trip) pair, or
	// sentinel.ErrNotFound.
	GetByUserAndTrip(ctx context.Context, userID id.UserID, tripID id.TripID) (*credmodel.Credential, error)
}
