package notiflist

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nemukerja/nemukerja-tui/internal/i18n"
	"github.com/nemukerja/nemukerja-tui/internal/notify"
	"github.com/nemukerja/nemukerja-tui/internal/theme"
)

// Item wraps a rendered notification so it can be used in a bubbles/list.
type Item struct {
	notify.Entry
}

// FilterValue returns the string used for fuzzy filtering.
func (i Item) FilterValue() string { return i.Title }

// ItemDelegate draws a notification as two lines: the title with its
// marker and age, then the message.
type ItemDelegate struct {
	// locale is shared with the list Model so a language switch is
	// visible without rebuilding the delegate.
	locale *i18n.Broadcaster
}

// Height returns the number of lines each item takes.
func (d ItemDelegate) Height() int { return 2 }

// Spacing returns the number of blank lines between items.
func (d ItemDelegate) Spacing() int { return 1 }

// Update handles per-item messages (unused).
func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single notification.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(Item)
	if !ok {
		return
	}
	fmt.Fprint(w, renderEntry(it.Entry, d.locale.Current(), index == m.Index(), m.Width()))
}

func renderEntry(e notify.Entry, l i18n.Locale, selected bool, width int) string {
	title := e.Title
	if e.Unread {
		title = theme.UnreadMarkerStyle.Render(i18n.T(l, i18n.UnreadMarker)) + " " + lipgloss.NewStyle().Bold(true).Render(title)
	}
	age := theme.MutedStyle.Render(e.Age)

	message := e.Message
	if limit := width - 6; limit > 0 && lipgloss.Width(message) > limit {
		message = truncate(message, limit)
	}
	if !e.Unread {
		message = theme.ReadStyle.Render(message)
	}

	block := lipgloss.JoinVertical(lipgloss.Left, title+"  "+age, message)
	if selected {
		return theme.SelectedItemStyle.Render(block)
	}
	return theme.ListItemStyle.Render(block)
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	if limit <= 1 {
		return string(runes[:limit])
	}
	return string(runes[:limit-1]) + "…"
}
