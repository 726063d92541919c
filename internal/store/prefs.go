package store

import (
	"context"
	"errors"

	"github.com/nemukerja/nemukerja-tui/internal/i18n"
)

// Theme values stored under PrefTheme.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// PreferenceOr returns the stored value for key, or def when it was never
// set. Other errors are returned together with def.
func PreferenceOr(ctx context.Context, s Store, key, def string) (string, error) {
	v, err := s.GetPreference(ctx, key)
	if errors.Is(err, ErrNoPreference) {
		return def, nil
	}
	if err != nil {
		return def, err
	}
	return v, nil
}

// LoadLocale returns the stored locale, defaulting to English.
func LoadLocale(ctx context.Context, s Store) (i18n.Locale, error) {
	v, err := PreferenceOr(ctx, s, PrefLanguage, string(i18n.Default))
	return i18n.Parse(v), err
}

// SaveLocale stores l.
func SaveLocale(ctx context.Context, s Store, l i18n.Locale) error {
	return s.SetPreference(ctx, PrefLanguage, string(l))
}

// LoadTheme returns the stored theme, defaulting to light. Unknown values
// read back as light.
func LoadTheme(ctx context.Context, s Store) (string, error) {
	v, err := PreferenceOr(ctx, s, PrefTheme, ThemeLight)
	if v != ThemeDark {
		v = ThemeLight
	}
	return v, err
}

// SaveTheme stores theme.
func SaveTheme(ctx context.Context, s Store, theme string) error {
	if theme != ThemeDark {
		theme = ThemeLight
	}
	return s.SetPreference(ctx, PrefTheme, theme)
}
