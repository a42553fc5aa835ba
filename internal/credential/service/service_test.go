package service

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	credstore "safetrail/internal/credential/store"
	kycmodel "safetrail/internal/kyc/models"
	kycstore "safetrail/internal/kyc/store"
	"safetrail/internal/notary"
	tripmodel "safetrail/internal/trip/models"
	tripstore "safetrail/internal/trip/store"
	id "safetrail/pkg/domain"
	dErrors "safetrail/pkg/domain-errors"
	"safetrail/pkg/requestcontext"
)

const verifyBase = "https://verify.safetrail.app/credential"

type fixture struct {
	svc         *Service
	kyc         *kycstore.MemoryStore
	trips       *tripstore.MemoryStore
	credentials *credstore.MemoryStore
	userID      id.UserID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	kyc := kycstore.NewMemory()
	trips := tripstore.NewMemory()
	credentials := credstore.NewMemory()
	ledger := notary.NewSimulatedLedger(func() time.Time {
		return time.UnixMilli(1748771200123)
	})
	svc, err := New(kyc, trips, credentials, ledger, nil, slog.Default(), nil, verifyBase)
	require.NoError(t, err)
	return &fixture{
		svc:         svc,
		kyc:         kyc,
		trips:       trips,
		credentials: credentials,
		userID:      id.NewUserID(),
	}
}

func (f *fixture) seedPendingKYC(t *testing.T) *kycmodel.Record {
	t.Helper()
	record := &kycmodel.Record{
		ID:           id.NewKYCID(),
		UserID:       f.userID,
		DocumentType: id.DocumentTypePassport,
		Status:       kycmodel.StatusPending,
		CreatedAt:    time.Now().UTC(),
	}
	require.NoError(t, f.kyc.Create(context.Background(), record))
	return record
}

func (f *fixture) seedTrip(t *testing.T, destination, start, end string, status tripmodel.TripStatus) *tripmodel.Trip {
	t.Helper()
	trip := &tripmodel.Trip{
		ID:          id.NewTripID(),
		UserID:      f.userID,
		Title:       "Trip to " + destination,
		Destination: destination,
		StartDate:   start,
		EndDate:     end,
		Status:      status,
		CreatedAt:   time.Now().UTC(),
	}
	require.NoError(t, f.trips.CreateTrip(context.Background(), trip))
	return trip
}

// ctxAt pins the request time so credential numbers and trip hashes are
// deterministic.
func ctxAt(millis int64) context.Context {
	return requestcontext.WithTime(context.Background(), time.UnixMilli(millis))
}

func TestVerifyAndIssue(t *testing.T) {
	t.Run("happy path verifies record and mints credential", func(t *testing.T) {
		f := newFixture(t)
		record := f.seedPendingKYC(t)
		trip := f.seedTrip(t, "Goa", "2026-01-10", "2026-01-20", tripmodel.TripStatusPlanned)

		result, err := f.svc.VerifyAndIssue(ctxAt(1748771200123), f.userID, record.ID, trip.ID)
		require.NoError(t, err)

		assert.Equal(t, kycmodel.StatusVerified, result.KYC.Status)
		require.NotNil(t, result.KYC.Hash)
		assert.True(t, strings.HasPrefix(*result.KYC.Hash, "kyc_"))
		require.NotNil(t, result.KYC.LedgerTxRef)

		cred := result.Credential
		assert.Equal(t, "DID-GOA-200123", cred.Number)
		assert.Equal(t, trip.ID, cred.TripID)
		assert.Equal(t, *result.KYC.LedgerTxRef, cred.LedgerTxRef)
		assert.Equal(t, "trip_"+trip.ID.String()+"_1748771200123", cred.TripHash)
		assert.Equal(t, verifyBase+"/DID-GOA-200123", cred.VerificationURL)
	})

	t.Run("issued and expiry dates copy the trip dates verbatim", func(t *testing.T) {
		f := newFixture(t)
		record := f.seedPendingKYC(t)
		trip := f.seedTrip(t, "Kyoto", "2026-03-01", "2026-03-09", tripmodel.TripStatusActive)

		result, err := f.svc.VerifyAndIssue(ctxAt(1748771200123), f.userID, record.ID, trip.ID)
		require.NoError(t, err)

		assert.Equal(t, trip.StartDate, result.Credential.IssuedDate)
		assert.Equal(t, trip.EndDate, result.Credential.ExpiryDate)
	})

	t.Run("short destination keeps its full name in the number", func(t *testing.T) {
		f := newFixture(t)
		record := f.seedPendingKYC(t)
		trip := f.seedTrip(t, "Fo", "2026-01-10", "2026-01-20", tripmodel.TripStatusPlanned)

		result, err := f.svc.VerifyAndIssue(ctxAt(1748771200123), f.userID, record.ID, trip.ID)
		require.NoError(t, err)
		assert.Equal(t, "DID-FO-200123", result.Credential.Number)
	})

	t.Run("foreign kyc record surfaces as not found", func(t *testing.T) {
		f := newFixture(t)
		record := f.seedPendingKYC(t)
		trip := f.seedTrip(t, "Goa", "2026-01-10", "2026-01-20", tripmodel.TripStatusPlanned)

		_, err := f.svc.VerifyAndIssue(ctxAt(1748771200123), id.NewUserID(), record.ID, trip.ID)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	t.Run("foreign trip surfaces as not found", func(t *testing.T) {
		f := newFixture(t)
		record := f.seedPendingKYC(t)
		other := &fixture{trips: f.trips, userID: id.NewUserID()}
		trip := other.seedTrip(t, "Goa", "2026-01-10", "2026-01-20", tripmodel.TripStatusPlanned)

		_, err := f.svc.VerifyAndIssue(ctxAt(1748771200123), f.userID, record.ID, trip.ID)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	t.Run("non-pending record is a conflict", func(t *testing.T) {
		f := newFixture(t)
		record := f.seedPendingKYC(t)
		trip := f.seedTrip(t, "Goa", "2026-01-10", "2026-01-20", tripmodel.TripStatusPlanned)

		_, err := f.kyc.MarkRejected(context.Background(), record.ID, "blurry document")
		require.NoError(t, err)

		_, err = f.svc.VerifyAndIssue(ctxAt(1748771200123), f.userID, record.ID, trip.ID)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
	})

	t.Run("completed trip is not eligible", func(t *testing.T) {
		f := newFixture(t)
		record := f.seedPendingKYC(t)
		trip := f.seedTrip(t, "Goa", "2026-01-10", "2026-01-20", tripmodel.TripStatusCompleted)

		_, err := f.svc.VerifyAndIssue(ctxAt(1748771200123), f.userID, record.ID, trip.ID)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))

		got, getErr := f.kyc.GetByID(context.Background(), record.ID)
		require.NoError(t, getErr)
		assert.Equal(t, kycmodel.StatusPending, got.Status, "record must stay pending when the trip check fails")
	})

	t.Run("only one of two concurrent verifications issues", func(t *testing.T) {
		f := newFixture(t)
		record := f.seedPendingKYC(t)
		trip := f.seedTrip(t, "Goa", "2026-01-10", "2026-01-20", tripmodel.TripStatusPlanned)

		var wg sync.WaitGroup
		errs := make([]error, 2)
		for i := range errs {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = f.svc.VerifyAndIssue(ctxAt(1748771200123), f.userID, record.ID, trip.ID)
			}(i)
		}
		wg.Wait()

		var ok, conflict int
		for _, err := range errs {
			switch {
			case err == nil:
				ok++
			case dErrors.HasCode(err, dErrors.CodeConflict):
				conflict++
			default:
				t.Fatalf("unexpected error: %v", err)
			}
		}
		assert.Equal(t, 1, ok)
		assert.Equal(t, 1, conflict)

		credentials, err := f.credentials.ListByUser(context.Background(), f.userID)
		require.NoError(t, err)
		assert.Len(t, credentials, 1)
	})

	t.Run("credential insert failure reports partial issuance", func(t *testing.T) {
		f := newFixture(t)
		record := f.seedPendingKYC(t)
		trip := f.seedTrip(t, "Goa", "2026-01-10", "2026-01-20", tripmodel.TripStatusPlanned)
		f.credentials.FailNextCreate = true

		_, err := f.svc.VerifyAndIssue(ctxAt(1748771200123), f.userID, record.ID, trip.ID)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodePartialIssuance))

		got, getErr := f.kyc.GetByID(context.Background(), record.ID)
		require.NoError(t, getErr)
		assert.Equal(t, kycmodel.StatusVerified, got.Status, "verification must survive the failed insert")
	})
}

func TestRepair(t *testing.T) {
	t.Run("mints the missing credential after partial issuance", func(t *testing.T) {
		f := newFixture(t)
		record := f.seedPendingKYC(t)
		trip := f.seedTrip(t, "Goa", "2026-01-10", "2026-01-20", tripmodel.TripStatusPlanned)

		f.credentials.FailNextCreate = true
		_, err := f.svc.VerifyAndIssue(ctxAt(1748771200123), f.userID, record.ID, trip.ID)
		require.True(t, dErrors.HasCode(err, dErrors.CodePartialIssuance))

		result, err := f.svc.Repair(ctxAt(1748771300456), f.userID, record.ID, trip.ID)
		require.NoError(t, err)
		assert.Equal(t, kycmodel.StatusVerified, result.KYC.Status)
		assert.Equal(t, "DID-GOA-300456", result.Credential.Number)
		require.NotNil(t, result.KYC.LedgerTxRef)
		assert.Equal(t, *result.KYC.LedgerTxRef, result.Credential.LedgerTxRef,
			"repair reuses the ledger reference from the original verification")
	})

	t.Run("is idempotent when the credential already exists", func(t *testing.T) {
		f := newFixture(t)
		record := f.seedPendingKYC(t)
		trip := f.seedTrip(t, "Goa", "2026-01-10", "2026-01-20", tripmodel.TripStatusPlanned)

		issued, err := f.svc.VerifyAndIssue(ctxAt(1748771200123), f.userID, record.ID, trip.ID)
		require.NoError(t, err)

		repaired, err := f.svc.Repair(ctxAt(1748771300456), f.userID, record.ID, trip.ID)
		require.NoError(t, err)
		assert.Equal(t, issued.Credential.ID, repaired.Credential.ID)
		assert.Equal(t, issued.Credential.Number, repaired.Credential.Number)

		credentials, err := f.credentials.ListByUser(context.Background(), f.userID)
		require.NoError(t, err)
		assert.Len(t, credentials, 1)
	})

	t.Run("rejects records that were never verified", func(t *testing.T) {
		f := newFixture(t)
		record := f.seedPendingKYC(t)
		trip := f.seedTrip(t, "Goa", "2026-01-10", "2026-01-20", tripmodel.TripStatusPlanned)

		_, err := f.svc.Repair(ctxAt(1748771200123), f.userID, record.ID, trip.ID)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
	})
}

func TestList(t *testing.T) {
	f := newFixture(t)

	first := f.seedPendingKYC(t)
	tripA := f.seedTrip(t, "Goa", "2026-01-10", "2026-01-20", tripmodel.TripStatusPlanned)
	_, err := f.svc.VerifyAndIssue(ctxAt(1748771200123), f.userID, first.ID, tripA.ID)
	require.NoError(t, err)

	second := f.seedPendingKYC(t)
	tripB := f.seedTrip(t, "Lima", "2026-05-01", "2026-05-09", tripmodel.TripStatusPlanned)
	_, err = f.svc.VerifyAndIssue(ctxAt(1748771999888), f.userID, second.ID, tripB.ID)
	require.NoError(t, err)

	credentials, err := f.svc.List(context.Background(), f.userID)
	require.NoError(t, err)
	require.Len(t, credentials, 2)
	assert.Equal(t, tripB.ID, credentials[0].TripID, "newest credential comes first")
	assert.Equal(t, tripA.ID, credentials[1].TripID)
}

func TestDeriveNumber(t *testing.T) {
	assert.Equal(t, "DID-TOK-200123", DeriveNumber("Tokyo", 1748771200123))
	assert.Equal(t, "DID-FO-200123", DeriveNumber("Fo", 1748771200123))
	assert.Equal(t, "DID--200123", DeriveNumber("", 1748771200123))
}

func TestDeriveNumber_MultiByteDestination(t *testing.T) {
	// The prefix must cut on rune boundaries, not bytes.
	assert.Equal(t, "DID-MÜN-200123", DeriveNumber("München", 1748771200123))
	assert.Equal(t, "DID-ÅRE-200123", DeriveNumber("Åre", 1748771200123))
	assert.True(t, utf8.ValidString(DeriveNumber("東京都", 1748771200123)))
}
