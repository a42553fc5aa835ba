package domain

import dErrors "safetrail/pkg/domain-errors"

// DocumentType is the declared kind of identity document on a verification
// submission. Invariant: the value must be one of the supported types.
//
// Usage: construct via ParseDocumentType at trust boundaries to enforce the
// allowlist; direct casting bypasses validation.
type DocumentType string

// Supported identity document types.
const (
	DocumentTypePassport       DocumentType = "passport"
	DocumentTypeNationalID     DocumentType = "national_id"
	DocumentTypeDriversLicense DocumentType = "drivers_license"
	DocumentTypeVoterID        DocumentType = "voter_id"
)

// validDocumentTypes is the single source of truth for valid document types.
var validDocumentTypes = map[DocumentType]bool{
	DocumentTypePassport:       true,
	DocumentTypeNationalID:     true,
	DocumentTypeDriversLicense: true,
	DocumentTypeVoterID:        true,
}

// ParseDocumentType constructs a DocumentType from external input.
//
// Errors: returns CodeInvalidInput when the value is empty or unsupported; no
// other errors are expected.
func ParseDocumentType(s string) (DocumentType, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "document type cannot be empty")
	}
	t := DocumentType(s)
	if !t.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid document type")
	}
	return t, nil
}

// IsValid checks if the document type is one of the supported enum values.
func (t DocumentType) IsValid() bool {
	return validDocumentTypes[t]
}

// String returns the string representation of the document type.
func (t DocumentType) String() string {
	return string(t)
}
