// Package confirm is a yes/no dialog for destructive actions.
package confirm

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/nemukerja/nemukerja-tui/internal/theme"
)

// ResultMsg carries the answer. Tag identifies which question was asked.
type ResultMsg struct {
	Tag string
	Yes bool
}

type bindings struct {
	yes bool
}

// Model wraps a single huh.Confirm.
type Model struct {
	form   *huh.Form
	b      *bindings
	tag    string
	width  int
	height int
}

// New creates an idle dialog.
func New(width, height int) Model {
	return Model{b: &bindings{}, width: width, height: height}
}

// Ask shows question. The default answer is no.
func (m *Model) Ask(tag, question string) tea.Cmd {
	m.tag = tag
	m.b.yes = false
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(question).
				Value(&m.b.yes),
		),
	).WithWidth(m.formWidth()).WithShowHelp(false)
	return m.form.Init()
}

// Update handles messages for the dialog.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	tag := m.tag
	switch m.form.State {
	case huh.StateCompleted:
		yes := m.b.yes
		m.form = nil
		return m, func() tea.Msg { return ResultMsg{Tag: tag, Yes: yes} }
	case huh.StateAborted:
		m.form = nil
		return m, func() tea.Msg { return ResultMsg{Tag: tag} }
	}
	return m, cmd
}

// View renders the dialog.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}
	return theme.ModalStyle.Width(m.formWidth() + 4).Render(m.form.View())
}

// SetSize updates the dialog dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m Model) formWidth() int {
	w := m.width - 8
	if w < 30 {
		w = 30
	}
	if w > 80 {
		w = 80
	}
	return w
}
