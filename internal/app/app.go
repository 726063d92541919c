package app

import (
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/nemukerja/nemukerja-tui/internal/i18n"
	"github.com/nemukerja/nemukerja-tui/internal/jobs"
	"github.com/nemukerja/nemukerja-tui/internal/model"
	"github.com/nemukerja/nemukerja-tui/internal/notify"
	"github.com/nemukerja/nemukerja-tui/internal/store"
	appsync "github.com/nemukerja/nemukerja-tui/internal/sync"
	"github.com/nemukerja/nemukerja-tui/internal/theme"
	"github.com/nemukerja/nemukerja-tui/internal/ui"
	"github.com/nemukerja/nemukerja-tui/internal/ui/applyform"
	"github.com/nemukerja/nemukerja-tui/internal/ui/command"
	"github.com/nemukerja/nemukerja-tui/internal/ui/confirm"
	helpview "github.com/nemukerja/nemukerja-tui/internal/ui/help"
	"github.com/nemukerja/nemukerja-tui/internal/ui/jobdetail"
	"github.com/nemukerja/nemukerja-tui/internal/ui/notiflist"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewList ViewState = iota
	ViewJob
	ViewApply
	ViewHelp
	ViewCommand
	ViewConfirm
)

// confirmClear tags the clear-all confirmation.
const confirmClear = "clear-all"

// defaultFlashTTL is how long a status-bar message stays up.
const defaultFlashTTL = 3 * time.Second

// Deps are the collaborators the root model drives.
type Deps struct {
	Page      model.PageContext
	Center    *notify.Center
	Jobs      *jobs.Service
	Submitter Submitter
	Poller    *appsync.Poller
	Store     store.Store
	Locales   *i18n.Broadcaster
	Log       zerolog.Logger

	// Clipboard defaults to the system clipboard.
	Clipboard func(string) error
	// FlashTTL defaults to three seconds.
	FlashTTL time.Duration
}

// flash is a transient status-bar message.
type flash struct {
	text  string
	isErr bool
	id    int
}

// Model is the root Bubble Tea model that manages view routing and
// layout.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	keys         *KeyMap
	deps         Deps

	list     notiflist.Model
	job      jobdetail.Model
	apply    applyform.Model
	helpView helpview.Model
	command  command.Model
	confirm  confirm.Model
	flash    flash
	expired  bool
	ready    bool
}

// New creates the root model.
func New(d Deps) Model {
	if d.Clipboard == nil {
		d.Clipboard = clipboard.WriteAll
	}
	if d.FlashTTL <= 0 {
		d.FlashTTL = defaultFlashTTL
	}
	k := DefaultKeyMap()

	return Model{
		currentView: ViewList,
		keys:        k,
		deps:        d,
		list:        notiflist.New(k, d.Locales, 80, 22),
		job:         jobdetail.New(k, d.Locales, 80, 22),
		apply:       applyform.New(d.Locales, 80, 22),
		helpView:    helpview.New(k, d.Locales, 80, 22),
		command:     command.New(d.Locales, 80, 22),
		confirm:     confirm.New(80, 22),
	}
}

// Init starts polling.
func (m Model) Init() tea.Cmd {
	return m.deps.Poller.Start()
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		w, h := m.layout.ContentWidth(), m.layout.ContentHeight()
		m.list.SetSize(w, h)
		m.job.SetSize(w, h)
		m.apply.SetSize(w, h)
		m.helpView.SetSize(w, h)
		m.command.SetSize(w, h)
		m.confirm.SetSize(w, h)
		// Forward to active view so huh forms can calculate their layout.
		return m.updateActiveView(msg)

	case appsync.SyncResultMsg:
		return m.handleSync(msg)

	case flashClearMsg:
		if msg.id == m.flash.id {
			m.flash = flash{id: m.flash.id}
		}
		return m, nil

	case notiflist.SelectedMsg:
		return m, m.selectNotification(msg.Notification)

	case notiflist.MarkReadMsg:
		return m, m.markRead(msg.ID)

	case selectedMsg:
		return m.handleAction(msg)

	case mutationDoneMsg:
		cmd := m.list.SetNotifications(m.deps.Center.Snapshot().Items)
		if authFailure(msg.err) {
			return m.sessionExpired()
		}
		return m, cmd

	case clearDoneMsg:
		return m.handleClear(msg)

	case jobLoadedMsg:
		if m.currentView != ViewJob {
			return m, nil
		}
		if msg.err != nil {
			m.job.Close()
			m.currentView = ViewList
			cmd := m.setFlash(i18n.T(m.locale(), jobs.NoticeFor(msg.err)), true)
			return m, cmd
		}
		m.job.Show(msg.detail)
		return m, nil

	case jobdetail.CloseMsg:
		m.job.Close()
		m.currentView = ViewList
		return m, nil

	case jobdetail.ApplyMsg:
		m.currentView = ViewApply
		cmd := m.apply.Start(msg.Job)
		return m, cmd

	case jobdetail.NavigateMsg:
		cmd := m.navigate(msg.Path)
		return m, cmd

	case applyform.CancelMsg:
		m.currentView = ViewJob
		return m, nil

	case applyform.SubmitMsg:
		m.currentView = ViewJob
		return m, m.submitApplication(msg)

	case applicationDoneMsg:
		if msg.err != nil {
			if authFailure(msg.err) {
				return m.sessionExpired()
			}
			cmd := m.setFlash(i18n.T(m.locale(), i18n.ApplicationFailed), true)
			return m, cmd
		}
		m.job.Close()
		m.currentView = ViewList
		cmd := m.setFlash(i18n.T(m.locale(), i18n.ApplicationSubmitted), false)
		return m, tea.Batch(cmd, m.deps.Poller.Refresh())

	case confirm.ResultMsg:
		m.currentView = m.previousView
		if msg.Tag == confirmClear && msg.Yes {
			return m, m.clearAll()
		}
		return m, nil

	case prefSavedMsg:
		if msg.err != nil {
			m.deps.Log.Warn().Err(msg.err).Str("key", msg.key).Msg("saving preference")
		}
		return m, nil

	case command.CommandMsg:
		m.currentView = m.previousView
		return m.executeCommand(string(msg))

	case tea.KeyMsg:
		if next, cmd, handled := m.handleGlobalKey(msg); handled {
			return next, cmd
		}
	}

	// Delegate to active sub-view
	return m.updateActiveView(msg)
}

// handleGlobalKey handles keys that work outside forms.
func (m Model) handleGlobalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	if msg.String() == "ctrl+c" {
		m.deps.Poller.Stop()
		return m, tea.Quit, true
	}

	// Text entry owns the keyboard.
	if m.currentView == ViewApply || m.currentView == ViewConfirm {
		return m, nil, false
	}
	if m.currentView == ViewCommand {
		if key.Matches(msg, m.keys.Back) {
			m.currentView = m.previousView
			return m, nil, true
		}
		return m, nil, false
	}

	switch {
	case key.Matches(msg, m.keys.Help):
		if m.currentView == ViewHelp {
			m.currentView = m.previousView
			return m, nil, true
		}
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return m, nil, true

	case key.Matches(msg, m.keys.Command):
		m.previousView = m.currentView
		m.currentView = ViewCommand
		cmd := m.command.Focus()
		return m, cmd, true

	case key.Matches(msg, m.keys.ToggleLanguage):
		return m.setLocale(m.locale().Toggle())

	case key.Matches(msg, m.keys.ToggleTheme):
		next := theme.Toggle()
		return m.themeChanged(next)
	}

	if m.currentView == ViewHelp && key.Matches(msg, m.keys.Back) {
		m.currentView = m.previousView
		return m, nil, true
	}

	if m.currentView != ViewList {
		return m, nil, false
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.deps.Poller.Stop()
		return m, tea.Quit, true

	case key.Matches(msg, m.keys.Refresh):
		return m, m.deps.Poller.Refresh(), true

	case key.Matches(msg, m.keys.MarkAllRead):
		return m, m.markAllRead(), true

	case key.Matches(msg, m.keys.ClearAll):
		next, cmd := m.askClear()
		return next, cmd, true
	}
	return m, nil, false
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewList:
		m.list, cmd = m.list.Update(msg)
	case ViewJob:
		m.job, cmd = m.job.Update(msg)
	case ViewApply:
		m.apply, cmd = m.apply.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	case ViewCommand:
		m.command, cmd = m.command.Update(msg)
	case ViewConfirm:
		m.confirm, cmd = m.confirm.Update(msg)
	}

	return m, cmd
}

// handleSync applies a poll result and keeps listening.
func (m Model) handleSync(msg appsync.SyncResultMsg) (tea.Model, tea.Cmd) {
	if msg.AuthError {
		return m.sessionExpired()
	}
	wait := m.deps.Poller.WaitForNextResult()
	if msg.Error != nil {
		// The list stays as it was; only the header shows the failure.
		return m, wait
	}
	cmd := m.list.SetNotifications(m.deps.Center.Snapshot().Items)
	return m, tea.Batch(cmd, wait)
}

// sessionExpired stops polling and keeps the notice on screen.
func (m Model) sessionExpired() (tea.Model, tea.Cmd) {
	if !m.expired {
		m.deps.Log.Warn().Msg("session expired")
	}
	m.expired = true
	m.deps.Poller.Stop()
	return m, nil
}

// handleAction routes the dispatch decision for a selected notification.
func (m Model) handleAction(msg selectedMsg) (tea.Model, tea.Cmd) {
	wait := waitMarkRead(msg.markRead)

	switch msg.action.Kind {
	case notify.ActionShowJob:
		m.previousView = ViewList
		m.currentView = ViewJob
		m.job.Close()
		m.job.SetLoading(true)
		return m, tea.Batch(wait, m.openJob(msg.action.JobID))

	case notify.ActionNavigate:
		cmd := m.navigate(msg.action.Path)
		return m, tea.Batch(wait, cmd)

	case notify.ActionNotice:
		cmd := m.setFlash(i18n.T(m.locale(), msg.action.Notice), true)
		return m, tea.Batch(wait, cmd)
	}
	return m, wait
}

// navigate shows where the web application would go and copies the URL.
func (m *Model) navigate(path string) tea.Cmd {
	url := m.deps.Page.URL(path)
	l := m.locale()
	if err := m.deps.Clipboard(url); err != nil {
		m.deps.Log.Debug().Err(err).Msg("clipboard unavailable")
		return m.setFlash(i18n.T(l, i18n.NavigatedNoCB, url), false)
	}
	return m.setFlash(i18n.T(l, i18n.Navigated, url), false)
}

// askClear opens the clear-all confirmation.
func (m Model) askClear() (tea.Model, tea.Cmd) {
	if m.list.Len() == 0 {
		return m, nil
	}
	m.previousView = m.currentView
	m.currentView = ViewConfirm
	cmd := m.confirm.Ask(confirmClear, i18n.T(m.locale(), i18n.ClearConfirm))
	return m, cmd
}

// handleClear reports the clear-all outcome.
func (m Model) handleClear(msg clearDoneMsg) (tea.Model, tea.Cmd) {
	l := m.locale()
	refresh := m.list.SetNotifications(m.deps.Center.Snapshot().Items)

	switch msg.outcome {
	case notify.ClearSucceeded:
		cmd := m.setFlash(i18n.T(l, i18n.ClearDone), false)
		return m, tea.Batch(refresh, cmd)
	case notify.ClearFailed:
		cmd := m.setFlash(i18n.T(l, i18n.ClearFailed), true)
		return m, tea.Batch(refresh, cmd)
	}
	if authFailure(msg.err) {
		return m.sessionExpired()
	}
	return m, refresh
}

// executeCommand handles a command string from the command palette.
func (m Model) executeCommand(cmd string) (tea.Model, tea.Cmd) {
	switch cmd {
	case "refresh", "sync", "r":
		return m, m.deps.Poller.Refresh()
	case "read all", "mark all":
		return m, m.markAllRead()
	case "clear all", "clear":
		return m.askClear()
	case "lang en", "lang id":
		next, c, _ := m.setLocale(i18n.Parse(cmd[len("lang "):]))
		return next, c
	case "lang", "language":
		next, c, _ := m.setLocale(m.locale().Toggle())
		return next, c
	case "theme light", "theme dark":
		name := cmd[len("theme "):]
		theme.Apply(name)
		next, c, _ := m.themeChanged(name)
		return next, c
	case "theme":
		next, c, _ := m.themeChanged(theme.Toggle())
		return next, c
	case "help":
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return m, nil
	case "quit", "q":
		m.deps.Poller.Stop()
		return m, tea.Quit
	default:
		return m, nil
	}
}

// setFlash shows text in the status bar and schedules its removal.
func (m *Model) setFlash(text string, isErr bool) tea.Cmd {
	m.flash = flash{text: text, isErr: isErr, id: m.flash.id + 1}
	id := m.flash.id
	return tea.Tick(m.deps.FlashTTL, func(time.Time) tea.Msg {
		return flashClearMsg{id: id}
	})
}

func (m Model) locale() i18n.Locale {
	return m.deps.Locales.Current()
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return i18n.T(m.locale(), i18n.Loading)
	}
	l := m.locale()

	header := m.layout.RenderHeader(
		"nemukerja · "+i18n.T(l, i18n.NotificationsTitle),
		notify.Badge(m.deps.Center.Unread(), l),
		m.syncStatus(),
	)
	return m.layout.RenderWithFrame(header, m.renderContent(), m.layout.RenderStatusBar(m.statusText()))
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewJob:
		return m.job.View()
	case ViewApply:
		return m.apply.View()
	case ViewHelp:
		return m.helpView.View()
	case ViewCommand:
		return lipgloss.JoinVertical(lipgloss.Left, m.command.View(), m.list.View())
	case ViewConfirm:
		return m.confirm.View()
	default:
		return m.list.View()
	}
}

// syncStatus returns a short string describing the poll state.
func (m Model) syncStatus() string {
	l := m.locale()
	switch m.deps.Poller.Status().State {
	case appsync.SyncRunning:
		return i18n.T(l, i18n.SyncRunning)
	case appsync.SyncError:
		return i18n.T(l, i18n.SyncOffline)
	default:
		return i18n.T(l, i18n.SyncIdle)
	}
}

// statusText returns the status bar content: the session notice, a flash
// message, or key hints.
func (m Model) statusText() string {
	l := m.locale()
	if m.expired {
		return theme.ErrorStyle.Render(i18n.T(l, i18n.SessionExpired))
	}
	if m.flash.text != "" {
		if m.flash.isErr {
			return theme.ErrorStyle.Render(m.flash.text)
		}
		return theme.SuccessStyle.Render(m.flash.text)
	}

	switch m.currentView {
	case ViewJob:
		return i18n.T(l, i18n.HintsModal)
	case ViewApply, ViewConfirm:
		return i18n.T(l, i18n.HintsForm)
	case ViewHelp, ViewCommand:
		return i18n.T(l, i18n.HintsOverlay)
	default:
		return i18n.T(l, i18n.HintsList)
	}
}
