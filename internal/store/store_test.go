package store_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nemukerja/nemukerja-tui/internal/i18n"
	"github.com/nemukerja/nemukerja-tui/internal/store"
	"github.com/nemukerja/nemukerja-tui/tests/testutil"
)

func TestPreferencesDefaultWhenUnset(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	_, err := s.GetPreference(ctx, store.PrefLanguage)
	assert.ErrorIs(t, err, store.ErrNoPreference)

	l, err := store.LoadLocale(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, i18n.English, l)

	theme, err := store.LoadTheme(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, store.ThemeLight, theme)
}

func TestPreferencesRoundTrip(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveLocale(ctx, s, i18n.Indonesian))
	require.NoError(t, store.SaveTheme(ctx, s, store.ThemeDark))

	l, err := store.LoadLocale(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, i18n.Indonesian, l)

	theme, err := store.LoadTheme(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, store.ThemeDark, theme)

	// Overwrite keeps a single row per key.
	require.NoError(t, store.SaveLocale(ctx, s, i18n.English))
	all, err := s.Preferences(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		store.PrefLanguage: "en",
		store.PrefTheme:    "dark",
	}, all)
}

func TestUnknownThemeReadsAsLight(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetPreference(ctx, store.PrefTheme, "solarized"))
	theme, err := store.LoadTheme(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, store.ThemeLight, theme)
}

func TestReopenKeepsPreferences(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "prefs.db")
	ctx := context.Background()

	s, err := store.NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, store.SaveLocale(ctx, s, i18n.Indonesian))
	require.NoError(t, s.Close())

	s, err = store.NewSQLiteStore(path)
	require.NoError(t, err)
	defer s.Close()

	v, err := s.SchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	l, err := store.LoadLocale(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, i18n.Indonesian, l)
}
