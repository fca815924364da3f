// Package lang loads translation files and resolves user-facing strings.
// Keys are the English source strings; a missing key falls through to the
// key itself so an incomplete translation degrades to English.
package lang

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/sirupsen/logrus"
)

type Localizer struct {
	strings map[string]string
	log     *logrus.Entry
}

// Load reads <locale>.toml from dir. An unknown locale is reported together
// with the locales the directory actually offers.
func Load(dir, locale string, log *logrus.Entry) (*Localizer, error) {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}

	path := filepath.Join(dir, locale+".toml")
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("unknown locale %q, valid options: %s", locale, strings.Join(availableLocales(dir), ", "))
		}
		return nil, fmt.Errorf("read translation file: %w", err)
	}

	parsed := map[string]string{}
	if err := toml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("parse translation file %s: %w", path, err)
	}
	for key, value := range parsed {
		if value == "" {
			return nil, fmt.Errorf("empty translation for %q in %s", key, path)
		}
	}

	return &Localizer{strings: parsed, log: log}, nil
}

// NewPassthrough returns a localizer that resolves every key to itself.
// Used when no translation directory is configured, and in tests.
func NewPassthrough() *Localizer {
	return &Localizer{strings: map[string]string{}, log: logrus.NewEntry(logrus.StandardLogger())}
}

// L returns the translation for key, falling back to the key.
func (l *Localizer) L(key string) string {
	translated, ok := l.strings[key]
	if !ok {
		if len(l.strings) > 0 {
			l.log.WithField("key", key).Warn("missing translation")
		}
		return key
	}
	return translated
}

// Replace translates key and substitutes {placeholder} occurrences.
func (l *Localizer) Replace(key string, replacements map[string]string) string {
	translated := l.L(key)
	for placeholder, value := range replacements {
		translated = strings.ReplaceAll(translated, "{"+placeholder+"}", value)
	}
	return translated
}

func availableLocales(dir string) []string {
	locales := []string{"en"}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return locales
	}

	for _, entry := range entries {
		name := entry.Name()
		if ext := filepath.Ext(name); ext == ".toml" {
			locale := strings.TrimSuffix(name, ext)
			if locale != "en" {
				locales = append(locales, locale)
			}
		}
	}
	return locales
}
