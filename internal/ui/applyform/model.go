// Package applyform is the job application form: a cover letter, a CV
// file path and a confirmation.
package applyform

import (
	"strings"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nemukerja/nemukerja-tui/internal/i18n"
	"github.com/nemukerja/nemukerja-tui/internal/model"
	"github.com/nemukerja/nemukerja-tui/internal/theme"
	"github.com/nemukerja/nemukerja-tui/internal/validate"
)

// SubmitMsg is dispatched when the form passed validation and the user
// confirmed.
type SubmitMsg struct {
	JobID       int64
	Application validate.Application
}

// CancelMsg is dispatched when the user cancels or declines.
type CancelMsg struct{}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	coverLetter string
	cvPath      string
	cv          *validate.CVFile
	confirm     bool
}

// Model is the Bubble Tea model for the apply form.
type Model struct {
	form    *huh.Form
	fb      *formBindings
	job     model.Job
	locales *i18n.Broadcaster
	err     string
	width   int
	height  int
}

// New creates an idle apply form.
func New(locales *i18n.Broadcaster, width, height int) Model {
	return Model{
		fb:      &formBindings{},
		locales: locales,
		width:   width,
		height:  height,
	}
}

// Start resets the form for job.
func (m *Model) Start(job model.Job) tea.Cmd {
	m.job = job
	m.err = ""
	m.fb.coverLetter = ""
	m.fb.cvPath = ""
	m.fb.cv = nil
	m.fb.confirm = false
	m.form = m.buildForm()
	return m.form.Init()
}

// Err returns the last validation message.
func (m Model) Err() string {
	return m.err
}

// Update handles messages for the form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m.handleSubmit()
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return CancelMsg{} }
	}

	return m, cmd
}

// View renders the form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	l := m.locales.Current()
	content := theme.TitleStyle.Render(i18n.T(l, i18n.ApplyTitle, m.job.Title)) + "\n"
	if m.err != "" {
		content += theme.ErrorStyle.Render(m.err) + "\n\n"
	}
	content += m.form.View()

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm() *huh.Form {
	l := m.locales.Current()
	fb := m.fb

	return huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title(i18n.T(l, i18n.CoverLetterLabel)).
				CharLimit(5000).
				Lines(8).
				Value(&fb.coverLetter).
				DescriptionFunc(func() string {
					n := utf8.RuneCountInString(fb.coverLetter)
					band := validate.CoverLetterBand(fb.coverLetter)
					return theme.BandStyle(band).Render(i18n.T(l, i18n.CharCount, n))
				}, &fb.coverLetter),
			huh.NewInput().
				Title(i18n.T(l, i18n.CVLabel)).
				Placeholder("~/Documents/cv.pdf").
				Value(&fb.cvPath).
				Validate(fb.checkCV),
			huh.NewConfirm().
				Title(validate.MsgApplyConfirm).
				Value(&fb.confirm),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

// checkCV inspects the chosen file as soon as it is entered. An empty
// path is left for the submit check.
func (fb *formBindings) checkCV(path string) error {
	path = strings.TrimSpace(path)
	fb.cv = nil
	if path == "" {
		return nil
	}
	cv, err := validate.InspectCV(expandHome(path))
	if err != nil {
		return err
	}
	if err := validate.CheckCV(cv); err != nil {
		return err
	}
	fb.cv = cv
	return nil
}

func (m Model) handleSubmit() (Model, tea.Cmd) {
	if !m.fb.confirm {
		return m, func() tea.Msg { return CancelMsg{} }
	}

	app := validate.Application{CoverLetter: m.fb.coverLetter, CV: m.fb.cv}
	if err := validate.Apply(app); err != nil {
		m.err = err.Error()
		m.fb.confirm = false
		m.form = m.buildForm()
		return m, m.form.Init()
	}

	jobID := m.job.ID
	return m, func() tea.Msg { return SubmitMsg{JobID: jobID, Application: app} }
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

func (m Model) formHeight() int {
	h := m.height - 6
	if h < 12 {
		h = 12
	}
	return h
}
