package service

import (
	"context"
	"errors"
	"log/slog"

	"safetrail/internal/profile/models"
	"safetrail/internal/profile/store"
	tripmodel "safetrail/internal/trip/models"
	id "safetrail/pkg/domain"
	dErrors "safetrail/pkg/domain-errors"
	"safetrail/pkg/platform/sentinel"
	"safetrail/pkg/requestcontext"
)

// UpsertInput carries the editable profile fields. Nil fields clear the
// stored value; a save is a full replacement, not a merge.
type UpsertInput struct {
	FullName              *string
	PhoneNumber           *string
	Nationality           *string
	PassportNumber        *string
	DateOfBirth           *string
	EmergencyContactName  *string
	EmergencyContactPhone *string
	MedicalConditions     *string
	BloodType             *string
	AvatarURL             *string
}

type Service struct {
	store  store.Store
	logger *slog.Logger
}

func New(s store.Store, logger *slog.Logger) (*Service, error) {
	if s == nil {
		return nil, errors.New("profile store is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: s, logger: logger}, nil
}

// Get returns the user's profile, or (nil, nil) when none was ever saved.
// An absent profile is a normal state for a fresh account, not an error.
func (s *Service) Get(ctx context.Context, userID id.UserID) (*models.Profile, error) {
	profile, err := s.store.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, nil
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load profile")
	}
	return profile, nil
}

// Upsert saves the user's profile, creating it on first save.
func (s *Service) Upsert(ctx context.Context, userID id.UserID, input UpsertInput) (*models.Profile, error) {
	if input.DateOfBirth != nil {
		if _, err := tripmodel.ValidateDate(*input.DateOfBirth, "date_of_birth"); err != nil {
			return nil, err
		}
	}

	now := requestcontext.Now(ctx).UTC()
	profile := &models.Profile{
		UserID:                userID,
		FullName:              input.FullName,
		PhoneNumber:           input.PhoneNumber,
		Nationality:           input.Nationality,
		PassportNumber:        input.PassportNumber,
		DateOfBirth:           input.DateOfBirth,
		EmergencyContactName:  input.EmergencyContactName,
		EmergencyContactPhone: input.EmergencyContactPhone,
		MedicalConditions:     input.MedicalConditions,
		BloodType:             input.BloodType,
		AvatarURL:             input.AvatarURL,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	if err := s.store.Upsert(ctx, profile); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save profile")
	}
	return profile, nil
}
