package domain

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "safetrail/pkg/domain-errors"
)

func TestParseUserID(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseUserID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParseUserID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects nil UUID", func(t *testing.T) {
		_, err := ParseUserID(uuid.Nil.String())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("accepts valid UUID", func(t *testing.T) {
		validUUID := uuid.New()
		id, err := ParseUserID(validUUID.String())
		require.NoError(t, err)
		assert.Equal(t, UserID(validUUID), id)
	})
}

// TestTypeDistinction verifies the compiler enforces type safety between
// resource IDs. If this compiles, the invariant holds.
func TestTypeDistinction(t *testing.T) {
	userID := UserID(uuid.New())
	tripID := TripID(uuid.New())

	// These would fail to compile if types were interchangeable:
	// var _ UserID = tripID   // compile error
	// var _ TripID = userID   // compile error

	assert.NotEqual(t, uuid.UUID(userID), uuid.UUID(tripID))
}

// TestParseID_SecurityInvariants validates trust boundary parsing rules.
// Every ID arriving over HTTP goes through one of the Parse functions, so
// this is where attack vectors must die.
func TestParseID_SecurityInvariants(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		// Attack vectors
		{"SQL injection attempt", "'; DROP TABLE trips;--", true},
		{"Path traversal", "../../../etc/passwd", true},
		{"Null byte injection", "550e8400\x00-e29b-41d4-a716-446655440000", true},
		{"Oversized input", strings.Repeat("a", 1000), true},
		{"Unicode zero-width space", "550e8400​-e29b-41d4-a716-446655440000", true},

		// Edge cases
		{"Empty string", "", true},
		{"Nil UUID", uuid.Nil.String(), true},
		{"Whitespace only", "   ", true},
		{"Uppercase valid UUID", "550E8400-E29B-41D4-A716-446655440000", false},
		// Note: uuid.Parse trims whitespace, so " uuid " is accepted as valid

		// Valid
		{"Valid UUID lowercase", "550e8400-e29b-41d4-a716-446655440000", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTripID(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
			} else {
				require.NoError(t, err)
			}
		})
	}
}

// TestAllIDTypes_ConsistentBehavior ensures all ID types share parsing
// behavior. Inconsistent validation across ID types could create holes.
func TestAllIDTypes_ConsistentBehavior(t *testing.T) {
	validUUID := uuid.New().String()
	invalidInputs := []string{"", "invalid", uuid.Nil.String()}

	t.Run("all accept valid UUID", func(t *testing.T) {
		_, errUser := ParseUserID(validUUID)
		_, errTrip := ParseTripID(validUUID)
		_, errActivity := ParseActivityID(validUUID)
		_, errKYC := ParseKYCID(validUUID)
		_, errCredential := ParseCredentialID(validUUID)
		_, errAlert := ParseAlertID(validUUID)

		require.NoError(t, errUser)
		require.NoError(t, errTrip)
		require.NoError(t, errActivity)
		require.NoError(t, errKYC)
		require.NoError(t, errCredential)
		require.NoError(t, errAlert)
	})

	for _, input := range invalidInputs {
		t.Run("all reject: "+input, func(t *testing.T) {
			_, errUser := ParseUserID(input)
			_, errTrip := ParseTripID(input)
			_, errActivity := ParseActivityID(input)
			_, errKYC := ParseKYCID(input)
			_, errCredential := ParseCredentialID(input)
			_, errAlert := ParseAlertID(input)

			require.Error(t, errUser)
			require.Error(t, errTrip)
			require.Error(t, errActivity)
			require.Error(t, errKYC)
			require.Error(t, errCredential)
			require.Error(t, errAlert)
		})
	}
}
