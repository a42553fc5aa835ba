package models

import (
	"time"

	id "safetrail/pkg/domain"
)

// Status is the lifecycle state of an alert. Alerts start active and move
// exactly once to a terminal state.
type Status string

const (
	StatusActive     Status = "active"
	StatusResolved   Status = "resolved"
	StatusFalseAlarm Status = "false_alarm"
)

// Terminal reports whether the alert has been closed out.
func (s Status) Terminal() bool {
	return s == StatusResolved || s == StatusFalseAlarm
}

// ParseOutcome validates a resolution outcome. Only the two terminal states
// are valid outcomes.
func ParseOutcome(raw string) (Status, bool) {
	switch Status(raw) {
	case StatusResolved, StatusFalseAlarm:
		return Status(raw), true
	default:
		return "", false
	}
}

// Alert is an emergency broadcast. Coordinates are nil when no fresh
// location sample was available at send time; an alert without a position is
// still a valid alert.
type Alert struct {
	ID         id.AlertID   `json:"id"`
	UserID     id.UserID    `json:"user_id"`
	TripID     *id.TripID   `json:"trip_id,omitempty"`
	Latitude   *float64     `json:"latitude"`
	Longitude  *float64     `json:"longitude"`
	Address    *string      `json:"location_address,omitempty"`
	AlertType  id.AlertType `json:"alert_type"`
	Message    *string      `json:"message,omitempty"`
	Status     Status       `json:"status"`
	ResolvedAt *time.Time   `json:"resolved_at,omitempty"`
	ResolvedBy *id.UserID   `json:"resolved_by,omitempty"`
	CreatedAt  time.Time    `json:"created_at"`
}
