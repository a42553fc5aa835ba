// Package i18n serves the client-facing translation tables. Lookups never
// fail: an unknown key (or unknown language) falls back to returning the key
// itself, so a missing string degrades to its identifier instead of an
// error.
package i18n

// DefaultLanguage is used when the caller's language is unknown.
const DefaultLanguage = "en"

// Languages returns the supported language codes in display order.
func Languages() []string {
	return []string{"en", "es", "fr", "de", "hi"}
}

// Supported reports whether lang has a locale table.
func Supported(lang string) bool {
	_, ok := tables[lang]
	return ok
}

// Translate looks key up in lang's table. Unknown languages fall back to the
// default table; unknown keys fall back to the key itself.
func Translate(lang, key string) string {
	table, ok := tables[lang]
	if !ok {
		table = tables[DefaultLanguage]
	}
	if value, ok := table[key]; ok {
		return value
	}
	return key
}

// Table returns a copy of lang's full translation table, falling back to the
// default language. Clients fetch the whole table once per language switch.
func Table(lang string) map[string]string {
	table, ok := tables[lang]
	if !ok {
		table = tables[DefaultLanguage]
	}
	out := make(map[string]string, len(table))
	for k, v := range table {
		out[k] = v
	}
	return out
}
