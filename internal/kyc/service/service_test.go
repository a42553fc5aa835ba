package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	kycmodel "safetrail/internal/kyc/models"
	kycstore "safetrail/internal/kyc/store"
	"safetrail/internal/objectstore"
	id "safetrail/pkg/domain"
	dErrors "safetrail/pkg/domain-errors"
	"safetrail/pkg/requestcontext"
)

const objectBaseURL = "https://files.safetrail.app"

type fixture struct {
	svc     *Service
	records *kycstore.MemoryStore
	objects *objectstore.MemoryStore
	userID  id.UserID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	records := kycstore.NewMemory()
	objects := objectstore.NewMemory(objectBaseURL)
	svc, err := New(records, objects, nil, nil, nil)
	require.NoError(t, err)
	return &fixture{svc: svc, records: records, objects: objects, userID: id.NewUserID()}
}

func upload(contentType string) *Upload {
	return &Upload{
		Filename:    "capture",
		ContentType: contentType,
		Data:        strings.NewReader("not really an image"),
	}
}

// ctxAt pins the request time so object keys are deterministic.
func ctxAt(millis int64) context.Context {
	return requestcontext.WithTime(context.Background(), time.UnixMilli(millis))
}

func TestSubmit(t *testing.T) {
	t.Run("uploads both captures and creates a pending record", func(t *testing.T) {
		f := newFixture(t)

		record, err := f.svc.Submit(ctxAt(1748771200123), f.userID, id.DocumentTypePassport, "P1234567", upload("image/jpeg"), upload("image/png"))
		require.NoError(t, err)

		assert.Equal(t, kycmodel.StatusPending, record.Status)
		assert.Equal(t, "P1234567", record.DocumentNumber)
		assert.Equal(t, 2, f.objects.Len())

		documentKey := fmt.Sprintf("kyc/%s/id-document-1748771200123.jpg", f.userID.String())
		selfieKey := fmt.Sprintf("kyc/%s/selfie-1748771200123.png", f.userID.String())
		assert.True(t, f.objects.Has(documentKey))
		assert.True(t, f.objects.Has(selfieKey))
		assert.Equal(t, objectBaseURL+"/"+documentKey, record.DocumentURL)
		assert.Equal(t, objectBaseURL+"/"+selfieKey, record.SelfieURL)
	})

	t.Run("upload failure leaves no record", func(t *testing.T) {
		f := newFixture(t)
		selfieKey := fmt.Sprintf("kyc/%s/selfie-1748771200123.jpg", f.userID.String())
		f.objects.FailKeys = map[string]bool{selfieKey: true}

		_, err := f.svc.Submit(ctxAt(1748771200123), f.userID, id.DocumentTypePassport, "P1234567", upload("image/jpeg"), upload("image/jpeg"))
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnavailable))

		record, getErr := f.svc.Current(context.Background(), f.userID)
		require.NoError(t, getErr)
		assert.Nil(t, record, "no verification record after a failed upload")
	})

	t.Run("second submission while one is pending is a conflict", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.Submit(ctxAt(1748771200123), f.userID, id.DocumentTypePassport, "P1234567", upload("image/jpeg"), upload("image/jpeg"))
		require.NoError(t, err)

		_, err = f.svc.Submit(ctxAt(1748771300456), f.userID, id.DocumentTypeNationalID, "N7654321", upload("image/jpeg"), upload("image/jpeg"))
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
		assert.Equal(t, 2, f.objects.Len(), "the rejected submission uploads nothing")
	})

	t.Run("submission is allowed again after rejection", func(t *testing.T) {
		f := newFixture(t)

		first, err := f.svc.Submit(ctxAt(1748771200123), f.userID, id.DocumentTypePassport, "P1234567", upload("image/jpeg"), upload("image/jpeg"))
		require.NoError(t, err)
		_, err = f.svc.Reject(context.Background(), f.userID, first.ID, "document unreadable")
		require.NoError(t, err)

		second, err := f.svc.Submit(ctxAt(1748771300456), f.userID, id.DocumentTypePassport, "P1234567", upload("image/jpeg"), upload("image/jpeg"))
		require.NoError(t, err)
		assert.Equal(t, kycmodel.StatusPending, second.Status)
	})

	t.Run("validates inputs before touching storage", func(t *testing.T) {
		f := newFixture(t)

		cases := []struct {
			name string
			run  func() error
		}{
			{"invalid document type", func() error {
				_, err := f.svc.Submit(context.Background(), f.userID, id.DocumentType("library_card"), "X1", upload("image/jpeg"), upload("image/jpeg"))
				return err
			}},
			{"missing document number", func() error {
				_, err := f.svc.Submit(context.Background(), f.userID, id.DocumentTypePassport, "  ", upload("image/jpeg"), upload("image/jpeg"))
				return err
			}},
			{"missing document image", func() error {
				_, err := f.svc.Submit(context.Background(), f.userID, id.DocumentTypePassport, "P1", nil, upload("image/jpeg"))
				return err
			}},
			{"unsupported content type", func() error {
				_, err := f.svc.Submit(context.Background(), f.userID, id.DocumentTypePassport, "P1", upload("application/pdf"), upload("image/jpeg"))
				return err
			}},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				err := tc.run()
				require.Error(t, err)
				assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
			})
		}
		assert.Equal(t, 0, f.objects.Len())
	})
}

func TestCurrent(t *testing.T) {
	t.Run("nil when never submitted", func(t *testing.T) {
		f := newFixture(t)
		record, err := f.svc.Current(context.Background(), f.userID)
		require.NoError(t, err)
		assert.Nil(t, record)
	})

	t.Run("returns the newest record", func(t *testing.T) {
		f := newFixture(t)

		first, err := f.svc.Submit(ctxAt(1748771200123), f.userID, id.DocumentTypePassport, "P1234567", upload("image/jpeg"), upload("image/jpeg"))
		require.NoError(t, err)
		_, err = f.svc.Reject(context.Background(), f.userID, first.ID, "blurry")
		require.NoError(t, err)

		second, err := f.svc.Submit(ctxAt(1748771300456), f.userID, id.DocumentTypePassport, "P1234567", upload("image/jpeg"), upload("image/jpeg"))
		require.NoError(t, err)

		current, err := f.svc.Current(context.Background(), f.userID)
		require.NoError(t, err)
		require.NotNil(t, current)
		assert.Equal(t, second.ID, current.ID)
	})
}

func TestReject(t *testing.T) {
	t.Run("moves a pending record to rejected", func(t *testing.T) {
		f := newFixture(t)
		record, err := f.svc.Submit(ctxAt(1748771200123), f.userID, id.DocumentTypePassport, "P1234567", upload("image/jpeg"), upload("image/jpeg"))
		require.NoError(t, err)

		rejected, err := f.svc.Reject(context.Background(), f.userID, record.ID, "document unreadable")
		require.NoError(t, err)
		assert.Equal(t, kycmodel.StatusRejected, rejected.Status)
		require.NotNil(t, rejected.RejectionReason)
		assert.Equal(t, "document unreadable", *rejected.RejectionReason)
	})

	t.Run("requires a reason", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.Reject(context.Background(), f.userID, id.NewKYCID(), " ")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("terminal records cannot be rejected again", func(t *testing.T) {
		f := newFixture(t)
		record, err := f.svc.Submit(ctxAt(1748771200123), f.userID, id.DocumentTypePassport, "P1234567", upload("image/jpeg"), upload("image/jpeg"))
		require.NoError(t, err)

		_, err = f.svc.Reject(context.Background(), f.userID, record.ID, "first")
		require.NoError(t, err)
		_, err = f.svc.Reject(context.Background(), f.userID, record.ID, "second")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
	})

	t.Run("another user's record reads as not found and stays pending", func(t *testing.T) {
		f := newFixture(t)
		record, err := f.svc.Submit(ctxAt(1748771200123), f.userID, id.DocumentTypePassport, "P1234567", upload("image/jpeg"), upload("image/jpeg"))
		require.NoError(t, err)

		_, err = f.svc.Reject(context.Background(), id.NewUserID(), record.ID, "not mine to reject")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))

		current, err := f.svc.Current(context.Background(), f.userID)
		require.NoError(t, err)
		require.NotNil(t, current)
		assert.Equal(t, kycmodel.StatusPending, current.Status)
	})

	t.Run("unknown record is not found", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.Reject(context.Background(), f.userID, id.NewKYCID(), "whatever")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}
