package app

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nemukerja/nemukerja-tui/internal/i18n"
	"github.com/nemukerja/nemukerja-tui/internal/store"
)

// prefSavedMsg reports the outcome of persisting a preference.
type prefSavedMsg struct {
	key string
	err error
}

// setLocale broadcasts l, re-renders the list and persists the choice.
func (m Model) setLocale(l i18n.Locale) (tea.Model, tea.Cmd, bool) {
	m.deps.Locales.Set(l)
	refresh := m.list.Refresh()
	note := m.setFlash(i18n.T(l, i18n.LanguageSet, l.Label()), false)

	s := m.deps.Store
	save := func() tea.Msg {
		return prefSavedMsg{key: store.PrefLanguage, err: store.SaveLocale(context.Background(), s, l)}
	}
	return m, tea.Batch(refresh, note, save), true
}

// themeChanged persists a theme that was already applied.
func (m Model) themeChanged(name string) (tea.Model, tea.Cmd, bool) {
	note := m.setFlash(i18n.T(m.locale(), i18n.ThemeSet, name), false)

	s := m.deps.Store
	save := func() tea.Msg {
		return prefSavedMsg{key: store.PrefTheme, err: store.SaveTheme(context.Background(), s, name)}
	}
	return m, tea.Batch(note, save), true
}
