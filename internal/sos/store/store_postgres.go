package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"safetrail/internal/sos/models"
	id "safetrail/pkg/domain"
	"safetrail/pkg/platform/sentinel"
)

// PostgresStore persists emergency alerts in PostgreSQL. Resolution is a
// conditional update guarded on status = 'active', so of two concurrent
// resolvers only one wins.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const alertColumns = `id, user_id, trip_id, latitude, longitude, location_address, alert_type, message, status, resolved_at, resolved_by, created_at`

func (s *PostgresStore) Create(ctx context.Context, alert *models.Alert) error {
	query := `
		INSERT INTO sos_alerts (id, user_id, trip_id, latitude, longitude, location_address, alert_type, message, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	var tripID any
	if alert.TripID != nil {
		tripID = uuid.UUID(*alert.TripID)
	}
	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(alert.ID),
		uuid.UUID(alert.UserID),
		tripID,
		alert.Latitude,
		alert.Longitude,
		alert.Address,
		string(alert.AlertType),
		alert.Message,
		string(alert.Status),
		alert.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create alert: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetByID(ctx context.Context, alertID id.AlertID) (*models.Alert, error) {
	query := `SELECT ` + alertColumns + ` FROM sos_alerts WHERE id = $1`
	alert, err := scanAlert(s.db.QueryRowContext(ctx, query, uuid.UUID(alertID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get alert: %w", err)
	}
	return alert, nil
}

func (s *PostgresStore) ListByUser(ctx context.Context, userID id.UserID) ([]*models.Alert, error) {
	query := `SELECT ` + alertColumns + ` FROM sos_alerts WHERE user_id = $1 ORDER BY created_at DESC`
	return s.queryAlerts(ctx, query, uuid.UUID(userID))
}

func (s *PostgresStore) ListActive(ctx context.Context, userID id.UserID) ([]*models.Alert, error) {
	query := `SELECT ` + alertColumns + ` FROM sos_alerts WHERE user_id = $1 AND status = 'active' ORDER BY created_at DESC`
	return s.queryAlerts(ctx, query, uuid.UUID(userID))
}

func (s *PostgresStore) Resolve(ctx context.Context, alertID id.AlertID, outcome models.Status, resolvedBy id.UserID, resolvedAt time.Time) (*models.Alert, error) {
	query := `
		UPDATE sos_alerts
		SET status = $2, resolved_at = $3, resolved_by = $4
		WHERE id = $1 AND status = 'active'
		RETURNING ` + alertColumns
	alert, err := scanAlert(s.db.QueryRowContext(ctx, query,
		uuid.UUID(alertID), string(outcome), resolvedAt, uuid.UUID(resolvedBy)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, s.classifyMissedUpdate(ctx, alertID)
		}
		return nil, fmt.Errorf("resolve alert: %w", err)
	}
	return alert, nil
}

// classifyMissedUpdate distinguishes an absent alert from one that is
// already terminal after a conditional update matched no rows.
func (s *PostgresStore) classifyMissedUpdate(ctx context.Context, alertID id.AlertID) error {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM sos_alerts WHERE id = $1)`, uuid.UUID(alertID)).Scan(&exists)
	if err != nil {
		return fmt.Errorf("classify missed alert update: %w", err)
	}
	if !exists {
		return sentinel.ErrNotFound
	}
	return sentinel.ErrInvalidState
}

func (s *PostgresStore) queryAlerts(ctx context.Context, query string, args ...any) ([]*models.Alert, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	defer rows.Close()

	var out []*models.Alert
	for rows.Next() {
		alert, err := scanAlert(rows)
		if err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		out = append(out, alert)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate alerts: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAlert(row rowScanner) (*models.Alert, error) {
	var alert models.Alert
	var alertID, userID uuid.UUID
	var tripID, resolvedBy uuid.NullUUID
	var alertType, status string
	if err := row.Scan(&alertID, &userID, &tripID, &alert.Latitude, &alert.Longitude, &alert.Address, &alertType, &alert.Message, &status, &alert.ResolvedAt, &resolvedBy, &alert.CreatedAt); err != nil {
		return nil, err
	}
	alert.ID = id.AlertID(alertID)
	alert.UserID = id.UserID(userID)
	alert.AlertType = id.AlertType(alertType)
	alert.Status = models.Status(status)
	if tripID.Valid {
		t := id.TripID(tripID.UUID)
		alert.TripID = &t
	}
	if resolvedBy.Valid {
		r := id.UserID(resolvedBy.UUID)
		alert.ResolvedBy = &r
	}
	return &alert, nil
}
