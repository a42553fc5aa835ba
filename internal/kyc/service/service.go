package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"safetrail/internal/audit"
	kycmodel "safetrail/internal/kyc/models"
	kycstore "safetrail/internal/kyc/store"
	"safetrail/internal/objectstore"
	"safetrail/internal/platform/metrics"
	id "safetrail/pkg/domain"
	dErrors "safetrail/pkg/domain-errors"
	"safetrail/pkg/platform/sentinel"
	"safetrail/pkg/requestcontext"
)

// Upload is one caller-supplied file.
type Upload struct {
	Filename    string
	ContentType string
	Data        io.Reader
}

// acceptedImageTypes is the allowlist for uploaded document captures.
var acceptedImageTypes = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
}

// Service owns the document-submission half of the verification workflow:
// file validation, parallel object uploads, and the single-pending invariant.
type Service struct {
	store   kycstore.Store
	objects objectstore.Store
	auditor *audit.Publisher
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func New(store kycstore.Store, objects objectstore.Store, auditor *audit.Publisher, logger *slog.Logger, m *metrics.Metrics) (*Service, error) {
	if store == nil {
		return nil, errors.New("kyc store is required")
	}
	if objects == nil {
		return nil, errors.New("object store is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, objects: objects, auditor: auditor, logger: logger, metrics: m}, nil
}

// Submit validates and persists a new identity verification submission.
//
// Both files upload before any record is written, so an upload failure leaves
// no partial record behind. A user with a pending record cannot submit again:
// superseding a pending submission would orphan its uploaded objects and break
// the append-only audit trail, so the second attempt is rejected outright.
func (s *Service) Submit(ctx context.Context, userID id.UserID, documentType id.DocumentType, documentNumber string, document, selfie *Upload) (*kycmodel.Record, error) {
	if userID.IsNil() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "user is required")
	}
	if !documentType.IsValid() {
		return nil, dErrors.New(dErrors.CodeValidation, "invalid document type")
	}
	if strings.TrimSpace(documentNumber) == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "document number is required")
	}
	if err := validateUpload(document, "document image"); err != nil {
		return nil, err
	}
	if err := validateUpload(selfie, "selfie photo"); err != nil {
		return nil, err
	}

	pending, err := s.store.HasPending(ctx, userID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check pending submissions")
	}
	if pending {
		return nil, dErrors.New(dErrors.CodeConflict, "a verification is already pending for this user")
	}

	now := requestcontext.Now(ctx)
	documentKey := objectKey(userID, "id-document", document.ContentType, now.UnixMilli())
	selfieKey := objectKey(userID, "selfie", selfie.ContentType, now.UnixMilli())

	// Both captures upload in parallel; the first failure cancels the other
	// and the whole submission fails with no record created.
	g, uploadCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := s.objects.Upload(uploadCtx, documentKey, document.ContentType, document.Data); err != nil {
			return fmt.Errorf("upload document image: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := s.objects.Upload(uploadCtx, selfieKey, selfie.ContentType, selfie.Data); err != nil {
			return fmt.Errorf("upload selfie photo: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "document upload failed")
	}

	record := &kycmodel.Record{
		ID:             id.NewKYCID(),
		UserID:         userID,
		DocumentType:   documentType,
		DocumentNumber: strings.TrimSpace(documentNumber),
		DocumentURL:    s.objects.PublicURL(documentKey),
		SelfieURL:      s.objects.PublicURL(selfieKey),
		Status:         kycmodel.StatusPending,
		CreatedAt:      now.UTC(),
		UpdatedAt:      now.UTC(),
	}
	if err := s.store.Create(ctx, record); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create verification record")
	}

	if s.metrics != nil {
		s.metrics.KYCSubmissions.Inc()
	}
	s.emitAudit(ctx, userID, "kyc_submitted", record.ID.String())
	return record, nil
}

// Current returns the user's newest verification record, or nil when the user
// has never submitted.
func (s *Service) Current(ctx context.Context, userID id.UserID) (*kycmodel.Record, error) {
	record, err := s.store.Latest(ctx, userID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, nil
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load verification record")
	}
	return record, nil
}

// Reject moves a pending record to the terminal rejected state, for example
// when the user abandons a submission they no longer stand behind. Only the
// record's owner may reject it; a foreign record reads as not found so the
// endpoint leaks nothing about other users' submissions.
func (s *Service) Reject(ctx context.Context, userID id.UserID, kycID id.KYCID, reason string) (*kycmodel.Record, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "rejection reason is required")
	}
	existing, err := s.store.GetByID(ctx, kycID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "verification record not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load verification record")
	}
	if existing.UserID != userID {
		return nil, dErrors.New(dErrors.CodeNotFound, "verification record not found")
	}
	record, err := s.store.MarkRejected(ctx, kycID, strings.TrimSpace(reason))
	if err != nil {
		switch {
		case errors.Is(err, sentinel.ErrNotFound):
			return nil, dErrors.New(dErrors.CodeNotFound, "verification record not found")
		case errors.Is(err, sentinel.ErrInvalidState):
			return nil, dErrors.New(dErrors.CodeConflict, "verification record is no longer pending")
		default:
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to reject verification record")
		}
	}
	s.emitAudit(ctx, record.UserID, "kyc_rejected", record.ID.String())
	return record, nil
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

func validateUpload(u *Upload, field string) error {
	if u == nil || u.Data == nil {
		return dErrors.Newf(dErrors.CodeValidation, "%s is required", field)
	}
	if _, ok := acceptedImageTypes[u.ContentType]; !ok {
		return dErrors.Newf(dErrors.CodeValidation, "%s must be a JPEG, PNG, or WebP image", field)
	}
	return nil
}

func objectKey(userID id.UserID, name, contentType string, millis int64) string {
	return fmt.Sprintf("kyc/%s/%s-%d.%s", userID.String(), name, millis, acceptedImageTypes[contentType])
}
