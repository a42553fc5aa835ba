package store

import (
	"context"

	kycmodel "safetrail/internal/kyc/models"
	id "safetrail/pkg/domain"
)

// Store is the persistence port for identity verification records.
// Implementations return sentinel errors for infrastructure facts; services
// translate them into domain errors.
type Store interface {
	Create(ctx context.Context, record *kycmodel.Record) error
	GetByID(ctx context.Context, kycID id.KYCID) (*kycmodel.Record, error)
	// Latest returns the user's newest record, or sentinel.ErrNotFound.
	Latest(ctx context.Context, userID id.UserID) (*kycmodel.Record, error)
	// HasPending reports whether the user has a non-terminal record.
	HasPending(ctx context.Context, userID id.UserID) (bool, error)
	// MarkVerified transitions a record to verified and attaches the
	// notarization tokens. The update is conditional on the current status
	// being pending; implementations return sentinel.ErrInvalidState when
	// zero rows match, so concurrent verifications cannot both win.
	MarkVerified(ctx context.Context, kycID id.KYCID, hash, ledgerTxRef string) (*kycmodel.Record, error)
	// MarkRejected transitions a pending record to rejected with a reason.
	// Same conditional-update contract as MarkVerified.
	MarkRejected(ctx context.Context, kycID id.KYCID, reason string) (*kycmodel.Record, error)
}
