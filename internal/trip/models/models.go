package models

import (
	"time"

	id "safetrail/pkg/domain"
	dErrors "safetrail/pkg/domain-errors"
)

// TripStatus is the lifecycle state of a trip. Status transitions are driven
// by the trip owner; the credential workflow only reads them.
type TripStatus string

const (
	TripStatusPlanned   TripStatus = "planned"
	TripStatusActive    TripStatus = "active"
	TripStatusCompleted TripStatus = "completed"
	TripStatusCancelled TripStatus = "cancelled"
)

var validTripStatuses = map[TripStatus]bool{
	TripStatusPlanned:   true,
	TripStatusActive:    true,
	TripStatusCompleted: true,
	TripStatusCancelled: true,
}

// ParseTripStatus constructs a TripStatus from external input.
func ParseTripStatus(s string) (TripStatus, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "trip status cannot be empty")
	}
	st := TripStatus(s)
	if !validTripStatuses[st] {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid trip status")
	}
	return st, nil
}

func (s TripStatus) IsValid() bool { return validTripStatuses[s] }

// EligibleForCredential reports whether a trip in this status can back a
// digital travel credential.
func (s TripStatus) EligibleForCredential() bool {
	return s == TripStatusPlanned || s == TripStatusActive
}

func (s TripStatus) String() string { return string(s) }

// DateLayout is the wire format for trip dates. Dates stay strings end to end
// so credential issued/expiry values copy the trip dates byte for byte.
const DateLayout = "2006-01-02"

// ValidateDate checks a trip date string against DateLayout.
func ValidateDate(raw, field string) (time.Time, error) {
	parsed, err := time.Parse(DateLayout, raw)
	if err != nil {
		return time.Time{}, dErrors.Newf(dErrors.CodeValidation, "%s must be a %s date", field, DateLayout)
	}
	return parsed, nil
}

// Trip is a user-owned journey record.
type Trip struct {
	ID          id.TripID  `json:"id"`
	UserID      id.UserID  `json:"user_id"`
	Title       string     `json:"title"`
	Destination string     `json:"destination"`
	StartDate   string     `json:"start_date"`
	EndDate     string     `json:"end_date"`
	Description *string    `json:"description,omitempty"`
	Status      TripStatus `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Eligible reports whether this trip can back credential issuance.
func (t *Trip) Eligible() bool {
	return t.Status.EligibleForCredential()
}

// ActivityType categorizes an itinerary entry.
type ActivityType string

const (
	ActivityTypeGeneral       ActivityType = "general"
	ActivityTypeTransport     ActivityType = "transport"
	ActivityTypeAccommodation ActivityType = "accommodation"
	ActivityTypeDining        ActivityType = "dining"
	ActivityTypeSightseeing   ActivityType = "sightseeing"
	ActivityTypeMeeting       ActivityType = "meeting"
)

var validActivityTypes = map[ActivityType]bool{
	ActivityTypeGeneral:       true,
	ActivityTypeTransport:     true,
	ActivityTypeAccommodation: true,
	ActivityTypeDining:        true,
	ActivityTypeSightseeing:   true,
	ActivityTypeMeeting:       true,
}

// ParseActivityType constructs an ActivityType from external input.
func ParseActivityType(s string) (ActivityType, error) {
	if s == "" {
		return ActivityTypeGeneral, nil
	}
	t := ActivityType(s)
	if !validActivityTypes[t] {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid activity type")
	}
	return t, nil
}

// Activity is one itinerary entry on a trip.
type Activity struct {
	ID              id.ActivityID `json:"id"`
	TripID          id.TripID     `json:"trip_id"`
	Title           string        `json:"title"`
	Description     *string       `json:"description,omitempty"`
	Location        *string       `json:"location,omitempty"`
	ScheduledTime   *time.Time    `json:"scheduled_time,omitempty"`
	DurationMinutes *int          `json:"duration_minutes,omitempty"`
	ActivityType    ActivityType  `json:"activity_type"`
	IsCompleted     bool          `json:"is_completed"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// EligibleForCredential filters trips down to those usable for issuance.
func EligibleForCredential(trips []*Trip) []*Trip {
	eligible := make([]*Trip, 0, len(trips))
	for _, t := range trips {
		if t.Eligible() {
			eligible = append(eligible, t)
		}
	}
	return eligible
}
