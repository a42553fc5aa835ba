package domain

import (
	"github.com/google/uuid"

	dErrors "safetrail/pkg/domain-errors"
)

// Typed IDs prevent cross-entity assignment at compile time. Construct via the
// Parse functions at trust boundaries; direct casting bypasses validation.
type (
	UserID       uuid.UUID
	TripID       uuid.UUID
	ActivityID   uuid.UUID
	KYCID        uuid.UUID
	CredentialID uuid.UUID
	AlertID      uuid.UUID
	LogID        uuid.UUID
)

func parseUUID(raw, kind string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s is required", kind)
	}
	parsed, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "invalid %s", kind)
	}
	if parsed == uuid.Nil {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s must not be nil", kind)
	}
	return parsed, nil
}

// ParseUserID validates a user ID string. IDs must be valid, non-empty,
// non-nil UUIDs.
func ParseUserID(raw string) (UserID, error) {
	parsed, err := parseUUID(raw, "user id")
	return UserID(parsed), err
}

func ParseTripID(raw string) (TripID, error) {
	parsed, err := parseUUID(raw, "trip id")
	return TripID(parsed), err
}

func ParseActivityID(raw string) (ActivityID, error) {
	parsed, err := parseUUID(raw, "activity id")
	return ActivityID(parsed), err
}

func ParseKYCID(raw string) (KYCID, error) {
	parsed, err := parseUUID(raw, "kyc id")
	return KYCID(parsed), err
}

func ParseCredentialID(raw string) (CredentialID, error) {
	parsed, err := parseUUID(raw, "credential id")
	return CredentialID(parsed), err
}

func ParseAlertID(raw string) (AlertID, error) {
	parsed, err := parseUUID(raw, "alert id")
	return AlertID(parsed), err
}

func (i UserID) String() string       { return uuid.UUID(i).String() }
func (i TripID) String() string       { return uuid.UUID(i).String() }
func (i ActivityID) String() string   { return uuid.UUID(i).String() }
func (i KYCID) String() string        { return uuid.UUID(i).String() }
func (i CredentialID) String() string { return uuid.UUID(i).String() }
func (i AlertID) String() string      { return uuid.UUID(i).String() }
func (i LogID) String() string        { return uuid.UUID(i).String() }

// MarshalText renders IDs as canonical UUID strings in JSON payloads. The
// defined-type conversion from uuid.UUID drops its method set, so these are
// restated here.
func (i UserID) MarshalText() ([]byte, error)       { return []byte(i.String()), nil }
func (i TripID) MarshalText() ([]byte, error)       { return []byte(i.String()), nil }
func (i ActivityID) MarshalText() ([]byte, error)   { return []byte(i.String()), nil }
func (i KYCID) MarshalText() ([]byte, error)        { return []byte(i.String()), nil }
func (i CredentialID) MarshalText() ([]byte, error) { return []byte(i.String()), nil }
func (i AlertID) MarshalText() ([]byte, error)      { return []byte(i.String()), nil }
func (i LogID) MarshalText() ([]byte, error)        { return []byte(i.String()), nil }

func (i UserID) IsNil() bool { return uuid.UUID(i) == uuid.Nil }
func (i TripID) IsNil() bool { return uuid.UUID(i) == uuid.Nil }
func (i KYCID) IsNil() bool  { return uuid.UUID(i) == uuid.Nil }

// NewUserID generates a fresh user ID. Intended for tests and seeds; real user
// IDs come from the external identity provider.
func NewUserID() UserID { return UserID(uuid.New()) }

func NewTripID() TripID             { return TripID(uuid.New()) }
func NewActivityID() ActivityID     { return ActivityID(uuid.New()) }
func NewKYCID() KYCID               { return KYCID(uuid.New()) }
func NewCredentialID() CredentialID { return CredentialID(uuid.New()) }
func NewAlertID() AlertID           { return AlertID(uuid.New()) }
func NewLogID() LogID               { return LogID(uuid.New()) }
