package models

import (
	"time"

	id "safetrail/pkg/domain"
)

// Position is a single geolocation fix from the device stream.
type Position struct {
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Accuracy  *float64 `json:"accuracy,omitempty"`
	Altitude  *float64 `json:"altitude,omitempty"`
}

// Sample is a position accepted by the throttle, stamped with the instant it
// was observed. Cached samples older than the freshness window are treated as
// absent.
type Sample struct {
	Position
	ObservedAt time.Time `json:"observed_at"`
}

// Log is a persisted location record. Logs are append-only.
type Log struct {
	ID            id.LogID   `json:"id"`
	UserID        id.UserID  `json:"user_id"`
	TripID        *id.TripID `json:"trip_id,omitempty"`
	Latitude      float64    `json:"latitude"`
	Longitude     float64    `json:"longitude"`
	Accuracy      *float64   `json:"accuracy,omitempty"`
	Altitude      *float64   `json:"altitude,omitempty"`
	Address       *string    `json:"address,omitempty"`
	IsSafeCheckIn bool       `json:"is_safe_checkin"`
	Notes         *string    `json:"notes,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}
