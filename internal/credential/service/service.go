package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"safetrail/internal/audit"
	credmodel "safetrail/internal/credential/models"
	kycmodel "safetrail/internal/kyc/models"
	"safetrail/internal/notary"
	"safetrail/internal/platform/metrics"
	tripmodel "safetrail/internal/trip/models"
	id "safetrail/pkg/domain"
	dErrors "safetrail/pkg/domain-errors"
	"safetrail/pkg/platform/sentinel"
	"safetrail/pkg/requestcontext"
)

// KYCStore is the slice of the verification store issuance needs.
type KYCStore interface {
	GetByID(ctx context.Context, kycID id.KYCID) (*kycmodel.Record, error)
	MarkVerified(ctx context.Context, kycID id.KYCID, hash, ledgerTxRef string) (*kycmodel.Record, error)
}

// TripReader is the slice of the trip store issuance needs. Trips are
// referenced, never mutated, by this workflow.
type TripReader interface {
	GetTrip(ctx context.Context, tripID id.TripID) (*tripmodel.Trip, error)
}

// Store is the credential persistence port.
type Store interface {
	Create(ctx context.Context, credential *credmodel.Credential) error
	ListByUser(ctx context.Context, userID id.UserID) ([]*credmodel.Credential, error)
	GetByUserAndTrip(ctx context.Context, userID id.UserID, tripID id.TripID) (*credmodel.Credential, error)
}

// IssueResult bundles the two records a successful verification produces.
type IssueResult struct {
	KYC        *kycmodel.Record      `json:"kyc"`
	Credential *credmodel.Credential `json:"credential"`
}

// Service orchestrates the verification-and-issuance workflow: it turns a
// pending verification record plus an eligible trip into a verified record
// and a minted credential.
//
// The two writes are not wrapped in a transaction; if the credential insert
// fails after the verification update, the caller receives
// CodePartialIssuance and must use Repair rather than re-running the full
// operation (which would fail the must-be-pending precondition).
type Service struct {
	kyc         KYCStore
	trips       TripReader
	credentials Store
	notary      notary.Notarizer
	auditor     *audit.Publisher
	logger      *slog.Logger
	metrics     *metrics.Metrics
	verifyBase  string
}

func New(kyc KYCStore, trips TripReader, credentials Store, n notary.Notarizer, auditor *audit.Publisher, logger *slog.Logger, m *metrics.Metrics, verifyBaseURL string) (*Service, error) {
	if kyc == nil {
		return nil, errors.New("kyc store is required")
	}
	if trips == nil {
		return nil, errors.New("trip reader is required")
	}
	if credentials == nil {
		return nil, errors.New("credential store is required")
	}
	if n == nil {
		return nil, errors.New("notarizer is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		kyc:         kyc,
		trips:       trips,
		credentials: credentials,
		notary:      n,
		auditor:     auditor,
		logger:      logger,
		metrics:     m,
		verifyBase:  strings.TrimRight(verifyBaseURL, "/"),
	}, nil
}

// VerifyAndIssue runs the full workflow for the calling user.
//
/// Preconditions: the verification record belongs to the caller and is
// pending; the trip belongs to the caller and is eligible (planned or
// active). The verification update is conditional on the pending status, so
// of two concurrent invocations only one can issue.
func (s *Service) VerifyAndIssue(ctx context.Context, userID id.UserID, kycID id.KYCID, tripID id.TripID) (*IssueResult, error) {
	record, err := s.loadOwnedKYC(ctx, userID, kycID)
	if err != nil {
		return nil, err
	}
	if record.Status != kycmodel.StatusPending {
		return nil, dErrors.New(dErrors.CodeConflict, "verification record is not pending")
	}

	trip, err := s.loadOwnedTrip(ctx, userID, tripID)
	if err != nil {
		return nil, err
	}
	if !trip.Eligible() {
		return nil, dErrors.New(dErrors.CodeValidation, "trip is not eligible for credential issuance")
	}

	receipt, err := s.notary.Notarize(ctx, notaryPayload(kycID, tripID))
	if err != nil {
		s.countFailure("notarize")
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "notarization failed")
	}

	verified, err := s.kyc.MarkVerified(ctx, kycID, receipt.Hash, receipt.TxRef)
	if err != nil {
		s.countFailure("verify_write")
		switch {
		case errors.Is(err, sentinel.ErrNotFound):
			return nil, dErrors.New(dErrors.CodeNotFound, "verification record not found")
		case errors.Is(err, sentinel.ErrInvalidState):
			// Lost the optimistic-concurrency race or the record turned
			// terminal between the read and the write.
			return nil, dErrors.New(dErrors.CodeConflict, "verification update did not apply")
		default:
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update verification record")
		}
	}

	credential, err := s.mint(ctx, verified.UserID, trip, receipt.TxRef)
	if err != nil {
		s.countFailure("credential_insert")
		// The verification already committed: surface the partial state and
		// point callers at the repair path instead of a full retry.
		return nil, dErrors.Wrap(err, dErrors.CodePartialIssuance,
			"identity verified but credential creation failed; retry credential issuance only")
	}

	if s.metrics != nil {
		s.metrics.CredentialsIssued.Inc()
	}
	s.emitAudit(ctx, userID, "credential_issued", credential.Number)
	return &IssueResult{KYC: verified, Credential: credential}, nil
}

// Repair re-attempts only the credential insert for a verification record
/// that is already verified but lacks its credential. It is idempotent: when
// the credential already exists it is returned as-is.
func (s *Service) Repair(ctx context.Context, userID id.UserID, kycID id.KYCID, tripID id.TripID) (*IssueResult, error) {
	record, err := s.loadOwnedKYC(ctx, userID, kycID)
	if err != nil {
		return nil, err
	}
	if record.Status != kycmodel.StatusVerified {
		return nil, dErrors.New(dErrors.CodeConflict, "verification record is not verified; nothing to repair")
	}
	if record.LedgerTxRef == nil {
		return nil, dErrors.New(dErrors.CodeConflict, "verification record has no ledger reference")
	}

	trip, err := s.loadOwnedTrip(ctx, userID, tripID)
	if err != nil {
		return nil, err
	}

	if existing, err := s.credentials.GetByUserAndTrip(ctx, userID, tripID); err == nil {
		return &IssueResult{KYC: record, Credential: existing}, nil
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check existing credential")
	}

	credential, err := s.mint(ctx, userID, trip, *record.LedgerTxRef)
	if err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			// Raced with another repair; the winner's credential stands.
			if existing, getErr := s.credentials.GetByUserAndTrip(ctx, userID, tripID); getErr == nil {
				return &IssueResult{KYC: record, Credential: existing}, nil
			}
		}
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "credential creation failed")
	}

	if s.metrics != nil {
		s.metrics.CredentialsIssued.Inc()
	}
	s.emitAudit(ctx, userID, "credential_issued", credential.Number)
	return &IssueResult{KYC: record, Credential: credential}, nil
}

// List returns the user's credentials, most-recent first.
func (s *Service) List(ctx context.Context, userID id.UserID) ([]*credmodel.Credential, error) {
	credentials, err := s.credentials.ListByUser(ctx, userID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list credentials")
	}
	return credentials, nil
}

// mint derives the credential fields from the trip and inserts the record.
// Issued and expiry dates copy the trip dates string for string.
func (s *Service) mint(ctx context.Context, userID id.UserID, trip *tripmodel.Trip, ledgerTxRef string) (*credmodel.Credential, error) {
	now := requestcontext.Now(ctx)
	number := DeriveNumber(trip.Destination, now.UnixMilli())

	credential := &credmodel.Credential{
		ID:              id.NewCredentialID(),
		UserID:          userID,
		TripID:          trip.ID,
		Number:          number,
		IssuedDate:      trip.StartDate,
		ExpiryDate:      trip.EndDate,
		TripHash:        fmt.Sprintf("trip_%s_%d", trip.ID.String(), now.UnixMilli()),
		LedgerTxRef:     ledgerTxRef,
		VerificationURL: s.verifyBase + "/" + number,
		CreatedAt:       now.UTC(),
	}
	if err := s.credentials.Create(ctx, credential); err != nil {
		return nil, err
	}
	return credential, nil
}

func (s *Service) loadOwnedKYC(ctx context.Context, userID id.UserID, kycID id.KYCID) (*kycmodel.Record, error) {
	record, err := s.kyc.GetByID(ctx, kycID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "verification record not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load verification record")
	}
	if record.UserID != userID {
		return nil, dErrors.New(dErrors.CodeNotFound, "verification record not found")
	}
	return record, nil
}

func (s *Service) loadOwnedTrip(ctx context.Context, userID id.UserID, tripID id.TripID) (*tripmodel.Trip, error) {
	trip, err := s.trips.GetTrip(ctx, tripID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "trip not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load trip")
	}
	if trip.UserID != userID {
		return nil, dErrors.New(dErrors.CodeNotFound, "trip not found")
	}
	return trip, nil
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

func (s *Service) countFailure(stage string) {
	if s.metrics != nil {
		s.metrics.IssuanceFailures.WithLabelValues(stage).Inc()
	}
}

// DeriveNumber builds the credential number from the trip destination and the
// issuance instant: DID-<first 3 letters of destination, uppercased>-<last 6
// digits of the epoch-millisecond timestamp>.
func DeriveNumber(destination string, epochMillis int64) string {
	// Slice by runes so a multi-byte destination cannot split mid-character.
	prefix := []rune(strings.ToUpper(destination))
	if len(prefix) > 3 {
		prefix = prefix[:3]
	}
	millis := fmt.Sprintf("%d", epochMillis)
	if len(millis) > 6 {
		millis = millis[len(millis)-6:]
	}
	return fmt.Sprintf("DID-%s-%s", string(prefix), millis)
}

func notaryPayload(kycID id.KYCID, tripID id.TripID) string {
	return "kyc:" + kycID.String() + ":trip:" + tripID.String()
}
