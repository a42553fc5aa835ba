package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"safetrail/internal/settings/models"
	id "safetrail/pkg/domain"
	"safetrail/pkg/platform/sentinel"
)

// PostgresStore persists user settings in PostgreSQL. The contact list is a
// jsonb column: it is always read and written whole, so relational
// decomposition buys nothing.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Get(ctx context.Context, userID id.UserID) (*models.Settings, error) {
	query := `
		SELECT language, notifications_enabled, location_sharing_enabled, emergency_contacts, updated_at
		FROM user_settings WHERE user_id = $1
	`
	var settings models.Settings
	var contacts []byte
	err := s.db.QueryRowContext(ctx, query, uuid.UUID(userID)).Scan(
		&settings.Language,
		&settings.NotificationsEnabled,
		&settings.LocationSharingEnabled,
		&contacts,
		&settings.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get settings: %w", err)
	}
	if err := json.Unmarshal(contacts, &settings.EmergencyContacts); err != nil {
		return nil, fmt.Errorf("decode emergency contacts: %w", err)
	}
	return &settings, nil
}

func (s *PostgresStore) Save(ctx context.Context, userID id.UserID, settings *models.Settings) error {
	contacts, err := json.Marshal(settings.EmergencyContacts)
	if err != nil {
		return fmt.Errorf("encode emergency contacts: %w", err)
	}
	query := `
		INSERT INTO user_settings (user_id, language, notifications_enabled, location_sharing_enabled, emergency_contacts, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id) DO UPDATE SET
			language = EXCLUDED.language,
			notifications_enabled = EXCLUDED.notifications_enabled,
			location_sharing_enabled = EXCLUDED.location_sharing_enabled,
			emergency_contacts = EXCLUDED.emergency_contacts,
			updated_at = EXCLUDED.updated_at
	`
	_, err = s.db.ExecContext(ctx, query,
		uuid.UUID(userID),
		settings.Language,
		settings.NotificationsEnabled,
		settings.LocationSharingEnabled,
		contacts,
		settings.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, userID id.UserID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM user_settings WHERE user_id = $1`, uuid.UUID(userID))
	if err != nil {
		return fmt.Errorf("delete settings: %w", err)
	}
	return nil
}
