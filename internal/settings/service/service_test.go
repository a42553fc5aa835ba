package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"safetrail/internal/settings/models"
	"safetrail/internal/settings/store"
	id "safetrail/pkg/domain"
	dErrors "safetrail/pkg/domain-errors"
)

func newService(t *testing.T) *Service {
	t.Helper()
	svc, err := New(store.NewMemory(), nil)
	require.NoError(t, err)
	return svc
}

func TestGetFallsBackToDefaults(t *testing.T) {
	svc := newService(t)

	settings, err := svc.Get(context.Background(), id.NewUserID())
	require.NoError(t, err)
	assert.Equal(t, "en", settings.Language)
	assert.True(t, settings.NotificationsEnabled)
	assert.Empty(t, settings.EmergencyContacts)
}

func TestSave(t *testing.T) {
	t.Run("replaces the whole blob", func(t *testing.T) {
		svc := newService(t)
		userID := id.NewUserID()

		_, err := svc.Save(context.Background(), userID, models.Settings{
			Language:             "hi",
			NotificationsEnabled: true,
			EmergencyContacts: []models.EmergencyContact{
				{ID: "c1", Name: "Ravi", Phone: "+91 90000 00001"},
			},
		})
		require.NoError(t, err)

		_, err = svc.Save(context.Background(), userID, models.Settings{Language: "fr"})
		require.NoError(t, err)

		got, err := svc.Get(context.Background(), userID)
		require.NoError(t, err)
		assert.Equal(t, "fr", got.Language)
		assert.Empty(t, got.EmergencyContacts, "save overwrites, it does not merge")
	})

	t.Run("rejects unsupported languages", func(t *testing.T) {
		svc := newService(t)

		_, err := svc.Save(context.Background(), id.NewUserID(), models.Settings{Language: "ar"})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("rejects duplicate contact ids", func(t *testing.T) {
		svc := newService(t)

		_, err := svc.Save(context.Background(), id.NewUserID(), models.Settings{
			Language: "en",
			EmergencyContacts: []models.EmergencyContact{
				{ID: "c1", Name: "Ravi", Phone: "+91 90000 00001"},
				{ID: "c1", Name: "Meera", Phone: "+91 90000 00002"},
			},
		})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("rejects duplicate contact phones", func(t *testing.T) {
		svc := newService(t)

		_, err := svc.Save(context.Background(), id.NewUserID(), models.Settings{
			Language: "en",
			EmergencyContacts: []models.EmergencyContact{
				{ID: "c1", Name: "Ravi", Phone: "+91 90000 00001"},
				{ID: "c2", Name: "Meera", Phone: " +91 90000 00001 "},
			},
		})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("rejects contacts without id, name, or phone", func(t *testing.T) {
		svc := newService(t)

		for _, contact := range []models.EmergencyContact{
			{Name: "Ravi", Phone: "+91 90000 00001"},
			{ID: "c1", Phone: "+91 90000 00001"},
			{ID: "c1", Name: "Ravi"},
		} {
			_, err := svc.Save(context.Background(), id.NewUserID(), models.Settings{
				Language:          "en",
				EmergencyContacts: []models.EmergencyContact{contact},
			})
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
		}
	})
}

func TestReset(t *testing.T) {
	svc := newService(t)
	userID := id.NewUserID()

	_, err := svc.Save(context.Background(), userID, models.Settings{Language: "de"})
	require.NoError(t, err)

	reset, err := svc.Reset(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, "en", reset.Language)

	got, err := svc.Get(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, "en", got.Language)
}
