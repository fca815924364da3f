package ports

// Localizer translates user-facing strings. Keys are the English source
// strings; Replace substitutes {placeholder} occurrences.
type Localizer interface {
	L(key string) string
	Replace(key string, replacements map[string]string) string
}
