package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"safetrail/internal/location/models"
	id "safetrail/pkg/domain"
)

// PostgresStore persists location logs in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const logColumns = `id, user_id, trip_id, latitude, longitude, accuracy, altitude, address, is_safe_checkin, notes, created_at`

func (s *PostgresStore) Create(ctx context.Context, log *models.Log) error {
	query := `
		INSERT INTO location_logs (id, user_id, trip_id, latitude, longitude, accuracy, altitude, address, is_safe_checkin, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	var tripID any
	if log.TripID != nil {
		tripID = uuid.UUID(*log.TripID)
	}
	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(log.ID),
		uuid.UUID(log.UserID),
		tripID,
		log.Latitude,
		log.Longitude,
		log.Accuracy,
		log.Altitude,
		log.Address,
		log.IsSafeCheckIn,
		log.Notes,
		log.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create location log: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByUser(ctx context.Context, userID id.UserID, limit int) ([]*models.Log, error) {
	query := `SELECT ` + logColumns + ` FROM location_logs WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`
	rows, err := s.db.QueryContext(ctx, query, uuid.UUID(userID), limit)
	if err != nil {
		return nil, fmt.Errorf("list location logs: %w", err)
	}
	defer rows.Close()

	var out []*models.Log
	for rows.Next() {
		log, err := scanLog(rows)
		if err != nil {
			return nil, fmt.Errorf("scan location log: %w", err)
		}
		out = append(out, log)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate location logs: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLog(row rowScanner) (*models.Log, error) {
	var log models.Log
	var logID, userID uuid.UUID
	var tripID uuid.NullUUID
	if err := row.Scan(&logID, &userID, &tripID, &log.Latitude, &log.Longitude, &log.Accuracy, &log.Altitude, &log.Address, &log.IsSafeCheckIn, &log.Notes, &log.CreatedAt); err != nil {
		return nil, err
	}
	log.ID = id.LogID(logID)
	log.UserID = id.UserID(userID)
	if tripID.Valid {
		t := id.TripID(tripID.UUID)
		log.TripID = &t
	}
	return &log, nil
}
