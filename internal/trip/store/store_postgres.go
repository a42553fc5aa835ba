package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	tripmodel "safetrail/internal/trip/models"
	id "safetrail/pkg/domain"
	"safetrail/pkg/platform/sentinel"
)

// PostgresStore persists trips and activities in PostgreSQL.
// This store is pure I/O—ownership checks and date rules belong in the service.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed trip store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) CreateTrip(ctx context.Context, trip *tripmodel.Trip) error {
	query := `
		INSERT INTO trips (id, user_id, title, destination, start_date, end_date, description, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(trip.ID),
		uuid.UUID(trip.UserID),
		trip.Title,
		trip.Destination,
		trip.StartDate,
		trip.EndDate,
		trip.Description,
		string(trip.Status),
		trip.CreatedAt,
		trip.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create trip: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetTrip(ctx context.Context, tripID id.TripID) (*tripmodel.Trip, error) {
	query := `
		SELECT id, user_id, title, destination, start_date::text, end_date::text, description, status, created_at, updated_at
		FROM trips
		WHERE id = $1
	`
	trip, err := scanTrip(s.db.QueryRowContext(ctx, query, uuid.UUID(tripID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get trip: %w", err)
	}
	return trip, nil
}

func (s *PostgresStore) ListTrips(ctx context.Context, userID id.UserID) ([]*tripmodel.Trip, error) {
	query := `
		SELECT id, user_id, title, destination, start_date::text, end_date::text, description, status, created_at, updated_at
		FROM trips
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := s.db.QueryContext(ctx, query, uuid.UUID(userID))
	if err != nil {
		return nil, fmt.Errorf("list trips: %w", err)
	}
	defer rows.Close()

	var out []*tripmodel.Trip
	for rows.Next() {
		trip, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("scan trip: %w", err)
		}
		out = append(out, trip)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trips: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) UpdateTrip(ctx context.Context, trip *tripmodel.Trip) error {
	query := `
		UPDATE trips
		SET title = $2, destination = $3, start_date = $4, end_date = $5, description = $6, status = $7, updated_at = $8
		WHERE id = $1
	`
	result, err := s.db.ExecContext(ctx, query,
		uuid.UUID(trip.ID),
		trip.Title,
		trip.Destination,
		trip.StartDate,
		trip.EndDate,
		trip.Description,
		string(trip.Status),
		trip.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update trip: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update trip rows affected: %w", err)
	}
	if rows == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) CreateActivity(ctx context.Context, activity *tripmodel.Activity) error {
	query := `
		INSERT INTO trip_activities (id, trip_id, title, description, location, scheduled_time, duration_minutes, activity_type, is_completed, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(activity.ID),
		uuid.UUID(activity.TripID),
		activity.Title,
		activity.Description,
		activity.Location,
		activity.ScheduledTime,
		activity.DurationMinutes,
		string(activity.ActivityType),
		activity.IsCompleted,
		activity.CreatedAt,
		activity.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create activity: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListActivities(ctx context.Context, tripID id.TripID) ([]*tripmodel.Activity, error) {
	query := `
		SELECT id, trip_id, title, description, location, scheduled_time, duration_minutes, activity_type, is_completed, created_at, updated_at
		FROM trip_activities
		WHERE trip_id = $1
		ORDER BY scheduled_time ASC NULLS LAST, created_at ASC
	`
	rows, err := s.db.QueryContext(ctx, query, uuid.UUID(tripID))
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	defer rows.Close()

	var out []*tripmodel.Activity
	for rows.Next() {
		activity, err := scanActivity(rows)
		if err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		out = append(out, activity)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate activities: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrip(row rowScanner) (*tripmodel.Trip, error) {
	var trip tripmodel.Trip
	var tripID, userID uuid.UUID
	var description sql.NullString
	var status string
	if err := row.Scan(&tripID, &userID, &trip.Title, &trip.Destination, &trip.StartDate, &trip.EndDate, &description, &status, &trip.CreatedAt, &trip.UpdatedAt); err != nil {
		return nil, err
	}
	trip.ID = id.TripID(tripID)
	trip.UserID = id.UserID(userID)
	trip.Status = tripmodel.TripStatus(status)
	if description.Valid {
		trip.Description = &description.String
	}
	return &trip, nil
}

func scanActivity(row rowScanner) (*tripmodel.Activity, error) {
	var activity tripmodel.Activity
	var activityID, tripID uuid.UUID
	var description, location sql.NullString
	var scheduled sql.NullTime
	var duration sql.NullInt64
	var activityType string
	if err := row.Scan(&activityID, &tripID, &activity.Title, &description, &location, &scheduled, &duration, &activityType, &activity.IsCompleted, &activity.CreatedAt, &activity.UpdatedAt); err != nil {
		return nil, err
	}
	activity.ID = id.ActivityID(activityID)
	activity.TripID = id.TripID(tripID)
	activity.ActivityType = tripmodel.ActivityType(activityType)
	if description.Valid {
		activity.Description = &description.String
	}
	if location.Valid {
		activity.Location = &location.String
	}
	if scheduled.Valid {
		t := scheduled.Time
		activity.ScheduledTime = &t
	}
	if duration.Valid {
		d := int(duration.Int64)
		activity.DurationMinutes = &d
	}
	return &activity, nil
}
