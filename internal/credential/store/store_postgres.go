package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	credmodel "safetrail/internal/credential/models"
	id "safetrail/pkg/domain"
	"safetrail/pkg/platform/sentinel"
)

// PostgresStore persists issued credentials in PostgreSQL. The unique index
// on (user_id, trip_id) backs the one-credential-per-trip invariant, so a
// repair retry cannot create duplicates.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed credential store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const credentialColumns = `id, user_id, trip_id, credential_number, issued_date::text, expiry_date::text, trip_hash, ledger_tx_ref, verification_url, created_at`

func (s *PostgresStore) Create(ctx context.Context, credential *credmodel.Credential) error {
	query := `
		INSERT INTO digital_trip_ids (id, user_id, trip_id, credential_number, issued_date, expiry_date, trip_hash, ledger_tx_ref, verification_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(credential.ID),
		uuid.UUID(credential.UserID),
		uuid.UUID(credential.TripID),
		credential.Number,
		credential.IssuedDate,
		credential.ExpiryDate,
		credential.TripHash,
		credential.LedgerTxRef,
		credential.VerificationURL,
		credential.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("create credential: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByUser(ctx context.Context, userID id.UserID) ([]*credmodel.Credential, error) {
	query := `SELECT ` + credentialColumns + ` FROM digital_trip_ids WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := s.db.QueryContext(ctx, query, uuid.UUID(userID))
	if err != nil {
		return nil, fmt.Errorf("list credentials: %w", err)
	}
	defer rows.Close()

	var out []*credmodel.Credential
	for rows.Next() {
		credential, err := scanCredential(rows)
		if err != nil {
			return nil, fmt.Errorf("scan credential: %w", err)
		}
		out = append(out, credential)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate credentials: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) GetByUserAndTrip(ctx context.Context, userID id.UserID, tripID id.TripID) (*credmodel.Credential, error) {
	query := `SELECT ` + credentialColumns + ` FROM digital_trip_ids WHERE user_id = $1 AND trip_id = $2`
	credential, err := scanCredential(s.db.QueryRowContext(ctx, query, uuid.UUID(userID), uuid.UUID(tripID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get credential by user and trip: %w", err)
	}
	return credential, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCredential(row rowScanner) (*credmodel.Credential, error) {
	var credential credmodel.Credential
	var credID, userID, tripID uuid.UUID
	if err := row.Scan(&credID, &userID, &tripID, &credential.Number, &credential.IssuedDate, &credential.ExpiryDate, &credential.TripHash, &credential.LedgerTxRef, &credential.VerificationURL, &credential.CreatedAt); err != nil {
		return nil, err
	}
	credential.ID = id.CredentialID(credID)
	credential.UserID = id.UserID(userID)
	credential.TripID = id.TripID(tripID)
	return &credential, nil
}
