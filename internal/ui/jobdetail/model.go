// Package jobdetail is the job modal opened from a notification.
package jobdetail

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nemukerja/nemukerja-tui/internal/i18n"
	"github.com/nemukerja/nemukerja-tui/internal/jobs"
	"github.com/nemukerja/nemukerja-tui/internal/keys"
	"github.com/nemukerja/nemukerja-tui/internal/model"
	"github.com/nemukerja/nemukerja-tui/internal/theme"
)

// CloseMsg signals the parent to close the modal.
type CloseMsg struct{}

// ApplyMsg asks the parent to open the apply form for Job.
type ApplyMsg struct {
	Job model.Job
}

// NavigateMsg asks the parent to send the user to a page of the site.
type NavigateMsg struct {
	Path string
}

// modalState lives on the heap so the locale subscription can re-render
// the modal that is actually on screen, not a stale copy.
type modalState struct {
	detail      *jobs.Detail
	locale      i18n.Locale
	viewport    viewport.Model
	width       int
	unsubscribe func()
}

func (s *modalState) render() {
	s.viewport.SetContent(renderContent(s.detail, s.locale, s.width))
}

// Model is the job modal component.
type Model struct {
	st      *modalState
	keys    *keys.KeyMap
	locales *i18n.Broadcaster
	width   int
	height  int
	loading bool
}

// New creates a closed modal.
func New(k *keys.KeyMap, locales *i18n.Broadcaster, width, height int) Model {
	return Model{
		keys:    k,
		locales: locales,
		width:   width,
		height:  height,
	}
}

// SetLoading shows the loading placeholder until Show is called.
func (m *Model) SetLoading(loading bool) {
	m.loading = loading
}

// Show opens the modal on d and subscribes to locale changes.
func (m *Model) Show(d *jobs.Detail) {
	m.Close()
	vp := viewport.New(max(m.width-8, 1), max(m.height-6, 1))
	st := &modalState{
		detail:   d,
		locale:   m.locales.Current(),
		viewport: vp,
		width:    m.width,
	}
	st.unsubscribe = m.locales.Subscribe(func(l i18n.Locale) {
		st.locale = l
		st.render()
	})
	st.render()
	m.st = st
	m.loading = false
}

// Close tears the modal down and drops its locale subscription.
func (m *Model) Close() {
	if m.st != nil && m.st.unsubscribe != nil {
		m.st.unsubscribe()
	}
	m.st = nil
	m.loading = false
}

// IsOpen reports whether a job is shown.
func (m Model) IsOpen() bool {
	return m.st != nil
}

// Detail returns the job on screen.
func (m Model) Detail() *jobs.Detail {
	if m.st == nil {
		return nil
	}
	return m.st.detail
}

// Init returns the initial command for the modal.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the modal.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Back):
			return m, func() tea.Msg { return CloseMsg{} }

		case key.Matches(msg, m.keys.Apply, m.keys.Select):
			if m.st == nil {
				return m, nil
			}
			cta := m.st.detail.CTA
			if !cta.Enabled {
				return m, nil
			}
			switch cta.Kind {
			case jobs.CTAApply:
				job := m.st.detail.Job
				return m, func() tea.Msg { return ApplyMsg{Job: job} }
			case jobs.CTALogin:
				path := cta.Path
				return m, func() tea.Msg { return NavigateMsg{Path: path} }
			}
			return m, nil
		}
	}

	if m.st == nil {
		return m, nil
	}
	// Delegate to viewport for scrolling (j/k, up/down, pgup/pgdn)
	var cmd tea.Cmd
	m.st.viewport, cmd = m.st.viewport.Update(msg)
	return m, cmd
}

// View renders the modal.
func (m Model) View() string {
	if m.loading || m.st == nil {
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray).
			Render(i18n.T(m.locales.Current(), i18n.Loading))
	}
	return theme.ModalStyle.
		Width(m.width - 4).
		Render(m.st.viewport.View())
}

// SetSize updates the modal dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	if m.st != nil {
		m.st.width = width
		m.st.viewport.Width = max(width-8, 1)
		m.st.viewport.Height = max(height-6, 1)
		m.st.render()
	}
}

// renderContent builds the modal body for the viewport.
func renderContent(d *jobs.Detail, l i18n.Locale, width int) string {
	if d == nil {
		return ""
	}

	var sections []string
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
	sections = append(sections, titleStyle.Render(d.Job.Title), "")

	labelStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)
	valStyle := lipgloss.NewStyle().Foreground(theme.ColorWhite)
	fields := d.Fields(l)
	labelWidth := 0
	for _, f := range fields {
		if w := lipgloss.Width(f.Label); w > labelWidth {
			labelWidth = w
		}
	}
	for _, f := range fields {
		sections = append(sections, fmt.Sprintf(
			"%s  %s",
			labelStyle.Width(labelWidth).Render(f.Label),
			valStyle.Render(f.Value),
		))
	}

	sepStyle := lipgloss.NewStyle().Foreground(theme.ColorSubtle)
	separator := sepStyle.Render(strings.Repeat("─", max(min(width-8, 80), 1)))
	headStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)

	sections = append(sections, "", separator, "")
	sections = append(sections, headStyle.Render(i18n.T(l, i18n.ModalQualifications)))
	sections = append(sections, orDash(d.Job.Qualifications))

	sections = append(sections, "", headStyle.Render(i18n.T(l, i18n.ModalJobDescription)))
	sections = append(sections, orDash(d.Job.Description))

	if label := d.ActionLabel(l); label != "" {
		sections = append(sections, "", theme.CTAStyle(d.CTA.Kind).Render(label))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
