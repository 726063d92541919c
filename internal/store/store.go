package store

import (
	"context"
	"errors"
)

// Preference keys.
const (
	PrefLanguage = "nk_lang"
	PrefTheme    = "nk_theme"
)

// ErrNoPreference is returned when a key has never been set.
var ErrNoPreference = errors.New("preference not set")

// Store persists client-local preferences. Notifications are never cached
// here; the backend is the only source of truth for them.
type Store interface {
	GetPreference(ctx context.Context, key string) (string, error)
	SetPreference(ctx context.Context, key, value string) error
	Preferences(ctx context.Context) (map[string]string, error)
	Close() error
}
