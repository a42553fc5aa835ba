package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslate(t *testing.T) {
	assert.Equal(t, "Dashboard", Translate("en", "dashboard"))
	assert.Equal(t, "Panel", Translate("es", "dashboard"))
	assert.Equal(t, "डैशबोर्ड", Translate("hi", "dashboard"))
}

func TestTranslateFallsBackToKey(t *testing.T) {
	assert.Equal(t, "nonexistent.key", Translate("en", "nonexistent.key"))
	assert.Equal(t, "nonexistent.key", Translate("fr", "nonexistent.key"))
}

func TestTranslateUnknownLanguageUsesDefault(t *testing.T) {
	assert.Equal(t, "Dashboard", Translate("pt", "dashboard"))
	assert.Equal(t, "Dashboard", Translate("", "dashboard"))
}

func TestEveryLanguageCoversTheDefaultKeySet(t *testing.T) {
	base := tables[DefaultLanguage]
	require.NotEmpty(t, base)
	for _, lang := range Languages() {
		table := tables[lang]
		require.NotNil(t, table, lang)
		for key := range base {
			_, ok := table[key]
			assert.True(t, ok, "language %s missing key %s", lang, key)
		}
	}
}

func TestTableReturnsACopy(t *testing.T) {
	table := Table("en")
	table["dashboard"] = "mutated"
	assert.Equal(t, "Dashboard", Translate("en", "dashboard"))
}

func TestSupported(t *testing.T) {
	for _, lang := range Languages() {
		assert.True(t, Supported(lang), lang)
	}
	assert.False(t, Supported("ar"))
}
