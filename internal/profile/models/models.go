package models

import (
	"time"

	id "safetrail/pkg/domain"
)

// Profile is the traveler's own record: contact details, nationality, and
// the medical fields responders may need. All fields besides the owning user
// are optional.
type Profile struct {
	UserID                id.UserID `json:"user_id"`
	FullName              *string   `json:"full_name,omitempty"`
	PhoneNumber           *string   `json:"phone_number,omitempty"`
	Nationality           *string   `json:"nationality,omitempty"`
	PassportNumber        *string   `json:"passport_number,omitempty"`
	DateOfBirth           *string   `json:"date_of_birth,omitempty"`
	EmergencyContactName  *string   `json:"emergency_contact_name,omitempty"`
	EmergencyContactPhone *string   `json:"emergency_contact_phone,omitempty"`
	MedicalConditions     *string   `json:"medical_conditions,omitempty"`
	BloodType             *string   `json:"blood_type,omitempty"`
	AvatarURL             *string   `json:"avatar_url,omitempty"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}
