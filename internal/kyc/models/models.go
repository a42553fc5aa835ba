package models

import (
	"time"

	id "safetrail/pkg/domain"
)

// Status is the lifecycle state of an identity verification record.
// pending is the only non-terminal state; verified and rejected are terminal.
type Status string

const (
	StatusPending  Status = "pending"
	StatusVerified Status = "verified"
	StatusRejected Status = "rejected"
)

// Terminal reports whether no further transition is allowed.
func (s Status) Terminal() bool {
	return s == StatusVerified || s == StatusRejected
}

// Record is one identity verification submission. Records are never deleted;
// they form the audit trail of verification attempts.
type Record struct {
	ID             id.KYCID        `json:"id"`
	UserID         id.UserID       `json:"user_id"`
	DocumentType   id.DocumentType `json:"document_type"`
	DocumentNumber string          `json:"document_number"`
	DocumentURL    string          `json:"document_url"`
	SelfieURL      string          `json:"selfie_url"`
	Status         Status          `json:"status"`
	// Hash and LedgerTxRef are attached by the verification operation.
	Hash            *string    `json:"kyc_hash,omitempty"`
	LedgerTxRef     *string    `json:"ledger_tx_ref,omitempty"`
	RejectionReason *string    `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}
