package audit

import "time"

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	UserID    string    `json:"user_id"`
	// Action names what happened: kyc_submitted, kyc_rejected,
	// credential_issued, alert_sent, alert_resolved.
	Action string `json:"action"`
	// Subject is the ID of the entity acted on.
	Subject string `json:"subject"`
	Detail  string `json:"detail,omitempty"`
}
