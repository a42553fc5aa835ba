package models

import "time"

// SupportedLanguages are the locales the client ships translations for.
var SupportedLanguages = []string{"en", "es", "fr", "de", "hi"}

// LanguageSupported reports whether lang has a locale table.
func LanguageSupported(lang string) bool {
	for _, l := range SupportedLanguages {
		if l == lang {
			return true
		}
	}
	return false
}

// EmergencyContact is one entry in the user's contact list. IDs are caller
// chosen and unique within the list.
type EmergencyContact struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Relationship string `json:"relationship,omitempty"`
}

// Settings is the user's persisted preference blob. Saves replace the whole
// blob; there is no per-field patch.
type Settings struct {
	Language               string             `json:"language"`
	NotificationsEnabled   bool               `json:"notifications_enabled"`
	LocationSharingEnabled bool               `json:"location_sharing_enabled"`
	EmergencyContacts      []EmergencyContact `json:"emergency_contacts"`
	UpdatedAt              time.Time          `json:"updated_at"`
}

// Defaults are the settings a user has before their first save.
func Defaults() *Settings {
	return &Settings{
		Language:               "en",
		NotificationsEnabled:   true,
		LocationSharingEnabled: true,
		EmergencyContacts:      []EmergencyContact{},
	}
}
