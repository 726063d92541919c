// Package i18n holds the two UI locales, their message catalog and the
// broadcaster that keeps independently rendered views in the same locale.
package i18n

import (
	"strings"

	"golang.org/x/text/language"
)

// Locale is one of the two supported UI languages.
type Locale string

const (
	English    Locale = "en"
	Indonesian Locale = "id"
)

// Default is used when nothing is stored.
const Default = English

// Parse maps a stored or configured value to a Locale. Anything that is not
// "id" falls back to English.
func Parse(s string) Locale {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(Indonesian):
		return Indonesian
	default:
		return English
	}
}

// Toggle returns the other locale.
func (l Locale) Toggle() Locale {
	if l == Indonesian {
		return English
	}
	return Indonesian
}

// Tag returns the BCP 47 tag used for message formatting.
func (l Locale) Tag() language.Tag {
	if l == Indonesian {
		return language.Indonesian
	}
	return language.English
}

// Label is the human-readable language name shown on the toggle.
func (l Locale) Label() string {
	if l == Indonesian {
		return "Bahasa Indonesia"
	}
	return "English"
}

func (l Locale) String() string { return string(l) }
