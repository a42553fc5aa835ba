package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	kycmodel "safetrail/internal/kyc/models"
	id "safetrail/pkg/domain"
	"safetrail/pkg/platform/sentinel"
)

// PostgresStore persists identity verification records in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed verification store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const kycColumns = `id, user_id, document_type, document_number, document_url, selfie_url, status, kyc_hash, ledger_tx_ref, rejection_reason, created_at, updated_at`

func (s *PostgresStore) Create(ctx context.Context, record *kycmodel.Record) error {
	query := `
		INSERT INTO kyc (id, user_id, document_type, document_number, document_url, selfie_url, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(record.ID),
		uuid.UUID(record.UserID),
		string(record.DocumentType),
		record.DocumentNumber,
		record.DocumentURL,
		record.SelfieURL,
		string(record.Status),
		record.CreatedAt,
		record.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create kyc record: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetByID(ctx context.Context, kycID id.KYCID) (*kycmodel.Record, error) {
	query := `SELECT ` + kycColumns + ` FROM kyc WHERE id = $1`
	record, err := scanRecord(s.db.QueryRowContext(ctx, query, uuid.UUID(kycID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get kyc record: %w", err)
	}
	return record, nil
}

func (s *PostgresStore) Latest(ctx context.Context, userID id.UserID) (*kycmodel.Record, error) {
	query := `SELECT ` + kycColumns + ` FROM kyc WHERE user_id = $1 ORDER BY created_at DESC LIMIT 1`
	record, err := scanRecord(s.db.QueryRowContext(ctx, query, uuid.UUID(userID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("latest kyc record: %w", err)
	}
	return record, nil
}

func (s *PostgresStore) HasPending(ctx context.Context, userID id.UserID) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM kyc WHERE user_id = $1 AND status = 'pending')`
	if err := s.db.QueryRowContext(ctx, query, uuid.UUID(userID)).Scan(&exists); err != nil {
		return false, fmt.Errorf("check pending kyc: %w", err)
	}
	return exists, nil
}

// MarkVerified applies an optimistic-concurrency status transition: the row
// only updates while still pending, so a concurrent verification observes
// ErrInvalidState instead of silently double-issuing.
func (s *PostgresStore) MarkVerified(ctx context.Context, kycID id.KYCID, hash, ledgerTxRef string) (*kycmodel.Record, error) {
	query := `
		UPDATE kyc
		SET status = 'verified', kyc_hash = $2, ledger_tx_ref = $3, updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
		RETURNING ` + kycColumns
	record, err := scanRecord(s.db.QueryRowContext(ctx, query, uuid.UUID(kycID), hash, ledgerTxRef))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, s.classifyMissedUpdate(ctx, kycID)
		}
		return nil, fmt.Errorf("mark kyc verified: %w", err)
	}
	return record, nil
}

func (s *PostgresStore) MarkRejected(ctx context.Context, kycID id.KYCID, reason string) (*kycmodel.Record, error) {
	query := `
		UPDATE kyc
		SET status = 'rejected', rejection_reason = $2, updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
		RETURNING ` + kycColumns
	record, err := scanRecord(s.db.QueryRowContext(ctx, query, uuid.UUID(kycID), reason))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, s.classifyMissedUpdate(ctx, kycID)
		}
		return nil, fmt.Errorf("mark kyc rejected: %w", err)
	}
	return record, nil
}

// classifyMissedUpdate distinguishes "no such record" from "record exists but
// is no longer pending" after a conditional update matched zero rows.
func (s *PostgresStore) classifyMissedUpdate(ctx context.Context, kycID id.KYCID) error {
	var exists bool
	if err := s.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM kyc WHERE id = $1)`, uuid.UUID(kycID)).Scan(&exists); err != nil {
		return fmt.Errorf("classify missed kyc update: %w", err)
	}
	if !exists {
		return sentinel.ErrNotFound
	}
	return sentinel.ErrInvalidState
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*kycmodel.Record, error) {
	var record kycmodel.Record
	var kycID, userID uuid.UUID
	var docType, status string
	var hash, txRef, reason sql.NullString
	if err := row.Scan(&kycID, &userID, &docType, &record.DocumentNumber, &record.DocumentURL, &record.SelfieURL, &status, &hash, &txRef, &reason, &record.CreatedAt, &record.UpdatedAt); err != nil {
		return nil, err
	}
	record.ID = id.KYCID(kycID)
	record.UserID = id.UserID(userID)
	record.DocumentType = id.DocumentType(docType)
	record.Status = kycmodel.Status(status)
	if hash.Valid {
		record.Hash = &hash.String
	}
	if txRef.Valid {
		record.LedgerTxRef = &txRef.String
	}
	if reason.Valid {
		record.RejectionReason = &reason.String
	}
	return &record, nil
}
