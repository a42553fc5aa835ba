package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"safetrail/internal/settings/models"
	"safetrail/internal/settings/store"
	id "safetrail/pkg/domain"
	dErrors "safetrail/pkg/domain-errors"
	"safetrail/pkg/platform/sentinel"
	platformstrings "safetrail/pkg/platform/strings"
	"safetrail/pkg/requestcontext"
)

type Service struct {
	store  store.Store
	logger *slog.Logger
}

func New(s store.Store, logger *slog.Logger) (*Service, error) {
	if s == nil {
		return nil, errors.New("settings store is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: s, logger: logger}, nil
}

// Get returns the user's settings, falling back to defaults when nothing was
// ever saved.
func (s *Service) Get(ctx context.Context, userID id.UserID) (*models.Settings, error) {
	saved, err := s.store.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return models.Defaults(), nil
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load settings")
	}
	return saved, nil
}

// Save replaces the user's settings wholesale.
func (s *Service) Save(ctx context.Context, userID id.UserID, settings models.Settings) (*models.Settings, error) {
	if !models.LanguageSupported(settings.Language) {
		return nil, dErrors.Newf(dErrors.CodeValidation, "unsupported language %q", settings.Language)
	}
	if err := validateContacts(settings.EmergencyContacts); err != nil {
		return nil, err
	}
	if settings.EmergencyContacts == nil {
		settings.EmergencyContacts = []models.EmergencyContact{}
	}

	settings.UpdatedAt = requestcontext.Now(ctx).UTC()
	if err := s.store.Save(ctx, userID, &settings); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save settings")
	}
	return &settings, nil
}

// Reset discards the user's saved settings and returns the defaults.
func (s *Service) Reset(ctx context.Context, userID id.UserID) (*models.Settings, error) {
	if err := s.store.Delete(ctx, userID); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to reset settings")
	}
	return models.Defaults(), nil
}

func validateContacts(contacts []models.EmergencyContact) error {
	seen := make(map[string]bool, len(contacts))
	for _, c := range contacts {
		cid := strings.TrimSpace(c.ID)
		if cid == "" {
			return dErrors.New(dErrors.CodeValidation, "emergency contact id is required")
		}
		if seen[cid] {
			return dErrors.Newf(dErrors.CodeValidation, "duplicate emergency contact id %q", cid)
		}
		seen[cid] = true
		if strings.TrimSpace(c.Name) == "" {
			return dErrors.New(dErrors.CodeValidation, "emergency contact name is required")
		}
		if strings.TrimSpace(c.Phone) == "" {
			return dErrors.New(dErrors.CodeValidation, "emergency contact phone is required")
		}
	}
	phones := make([]string, len(contacts))
	for i, c := range contacts {
		phones[i] = c.Phone
	}
	if len(platformstrings.DedupeAndTrim(phones)) != len(contacts) {
		return dErrors.New(dErrors.CodeValidation, "emergency contact phone numbers must be unique")
	}
	return nil
}
