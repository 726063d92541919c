// Package notiflist is the notification dropdown rendered as a list.
package notiflist

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nemukerja/nemukerja-tui/internal/i18n"
	"github.com/nemukerja/nemukerja-tui/internal/keys"
	"github.com/nemukerja/nemukerja-tui/internal/model"
	"github.com/nemukerja/nemukerja-tui/internal/notify"
	"github.com/nemukerja/nemukerja-tui/internal/theme"
)

// SelectedMsg is sent when the user opens a notification.
type SelectedMsg struct {
	Notification model.Notification
}

// MarkReadMsg is sent when the user marks the focused notification read.
type MarkReadMsg struct {
	ID model.ID
}

// Model is the notification list view component.
type Model struct {
	list   list.Model
	keys   *keys.KeyMap
	locale *i18n.Broadcaster
	now    func() time.Time
	items  []model.Notification
	width  int
	height int
}

// New creates a new notification list model.
func New(k *keys.KeyMap, locale *i18n.Broadcaster, width, height int) Model {
	delegate := ItemDelegate{locale: locale}
	l := list.New([]list.Item{}, delegate, width, height)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)

	return Model{
		list:   l,
		keys:   k,
		locale: locale,
		now:    time.Now,
		width:  width,
		height: height,
	}
}

// SetClock replaces time.Now for relative timestamps.
func (m *Model) SetClock(now func() time.Time) {
	m.now = now
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// SetNotifications replaces the rows. The cursor stays on the same
// notification when it is still present.
func (m *Model) SetNotifications(list []model.Notification) tea.Cmd {
	m.items = list
	return m.Refresh()
}

// Refresh rebuilds the rows from the current list, e.g. after a language
// switch or to age the timestamps.
func (m *Model) Refresh() tea.Cmd {
	var focused model.ID
	if it, ok := m.list.SelectedItem().(Item); ok {
		focused = it.Notification.ID
	}

	entries := notify.Entries(m.items, m.now(), m.locale.Current())
	items := make([]list.Item, len(entries))
	index := 0
	for i, e := range entries {
		items[i] = Item{Entry: e}
		if e.Notification.ID == focused {
			index = i
		}
	}
	cmd := m.list.SetItems(items)
	if len(items) > 0 {
		m.list.Select(index)
	}
	return cmd
}

// Selected returns the focused notification.
func (m Model) Selected() (model.Notification, bool) {
	it, ok := m.list.SelectedItem().(Item)
	if !ok {
		return model.Notification{}, false
	}
	return it.Notification, true
}

// Len returns the number of rows.
func (m Model) Len() int {
	return len(m.items)
}

// Update handles messages for the list view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Select):
			n, ok := m.Selected()
			if !ok {
				return m, nil
			}
			return m, func() tea.Msg { return SelectedMsg{Notification: n} }

		case key.Matches(msg, m.keys.MarkRead):
			n, ok := m.Selected()
			if !ok || n.IsRead {
				return m, nil
			}
			return m, func() tea.Msg { return MarkReadMsg{ID: n.ID} }
		}
	}

	// Delegate to the list for navigation keys (up/down/pgup/pgdn)
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the list, or the empty state.
func (m Model) View() string {
	if len(m.items) == 0 {
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray).
			Render(notify.EmptyText(m.locale.Current()))
	}
	return m.list.View()
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height)
}
