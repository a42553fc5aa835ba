package models

import (
	"time"

	id "safetrail/pkg/domain"
)

// Credential is an issued digital travel credential. It is created exactly
// once by the verification operation and is immutable thereafter.
type Credential struct {
	ID     id.CredentialID `json:"id"`
	UserID id.UserID       `json:"user_id"`
	TripID id.TripID       `json:"trip_id"`
	// Number is the human-readable credential number, derived from the trip
	// destination and the issuance instant.
	Number string `json:"credential_number"`
	// IssuedDate and ExpiryDate copy the trip's start and end dates byte for
	// byte, so they stay strings rather than parsed times.
	IssuedDate string `json:"issued_date"`
	ExpiryDate string `json:"expiry_date"`
	// TripHash is the trip-integrity token bound into the credential.
	TripHash string `json:"trip_hash"`
	// LedgerTxRef is shared with the verification record that authorized
	// this credential.
	LedgerTxRef     string    `json:"ledger_tx_ref"`
	VerificationURL string    `json:"verification_url"`
	CreatedAt       time.Time `json:"created_at"`
}
