package domain

import dErrors "safetrail/pkg/domain-errors"

// AlertType categorizes an emergency alert so responders can triage before
// reading the free-text message.
type AlertType string

const (
	AlertTypeEmergency  AlertType = "emergency"
	AlertTypeMedical    AlertType = "medical"
	AlertTypeSecurity   AlertType = "security"
	AlertTypeAssistance AlertType = "assistance"
)

var validAlertTypes = map[AlertType]bool{
	AlertTypeEmergency:  true,
	AlertTypeMedical:    true,
	AlertTypeSecurity:   true,
	AlertTypeAssistance: true,
}

// ParseAlertType constructs an AlertType from external input.
func ParseAlertType(s string) (AlertType, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "alert type cannot be empty")
	}
	t := AlertType(s)
	if !t.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid alert type")
	}
	return t, nil
}

func (t AlertType) IsValid() bool {
	return validAlertTypes[t]
}

func (t AlertType) String() string {
	return string(t)
}
