package output

// Translator exposes the lookup contract consumed by user-facing surfaces.
type Translator interface {
	// Lookup returns the text for key in context for locale. It never fails:
	// missing translations fall back to the default locale, then to key.
	Lookup(locale, context, key string) string
	AvailableLocales() []string
}
