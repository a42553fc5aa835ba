package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"safetrail/internal/profile/models"
	id "safetrail/pkg/domain"
	"safetrail/pkg/platform/sentinel"
)

// PostgresStore persists traveler profiles in PostgreSQL, keyed by user.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const profileColumns = `user_id, full_name, phone_number, nationality, passport_number, date_of_birth::text, emergency_contact_name, emergency_contact_phone, medical_conditions, blood_type, avatar_url, created_at, updated_at`

func (s *PostgresStore) Get(ctx context.Context, userID id.UserID) (*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE user_id = $1`
	row := s.db.QueryRowContext(ctx, query, uuid.UUID(userID))

	var profile models.Profile
	var uid uuid.UUID
	err := row.Scan(&uid, &profile.FullName, &profile.PhoneNumber, &profile.Nationality, &profile.PassportNumber, &profile.DateOfBirth, &profile.EmergencyContactName, &profile.EmergencyContactPhone, &profile.MedicalConditions, &profile.BloodType, &profile.AvatarURL, &profile.CreatedAt, &profile.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	profile.UserID = id.UserID(uid)
	return &profile, nil
}

func (s *PostgresStore) Upsert(ctx context.Context, profile *models.Profile) error {
	query := `
		INSERT INTO profiles (user_id, full_name, phone_number, nationality, passport_number, date_of_birth, emergency_contact_name, emergency_contact_phone, medical_conditions, blood_type, avatar_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6::date, $7, $8, $9, $10, $11, $12, $12)
		ON CONFLICT (user_id) DO UPDATE SET
			full_name = EXCLUDED.full_name,
			phone_number = EXCLUDED.phone_number,
			nationality = EXCLUDED.nationality,
			passport_number = EXCLUDED.passport_number,
			date_of_birth = EXCLUDED.date_of_birth,
			emergency_contact_name = EXCLUDED.emergency_contact_name,
			emergency_contact_phone = EXCLUDED.emergency_contact_phone,
			medical_conditions = EXCLUDED.medical_conditions,
			blood_type = EXCLUDED.blood_type,
			avatar_url = EXCLUDED.avatar_url,
			updated_at = EXCLUDED.updated_at
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(profile.UserID),
		profile.FullName,
		profile.PhoneNumber,
		profile.Nationality,
		profile.PassportNumber,
		profile.DateOfBirth,
		profile.EmergencyContactName,
		profile.EmergencyContactPhone,
		profile.MedicalConditions,
		profile.BloodType,
		profile.AvatarURL,
		profile.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}
