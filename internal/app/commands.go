package app

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nemukerja/nemukerja-tui/internal/api"
	"github.com/nemukerja/nemukerja-tui/internal/jobs"
	"github.com/nemukerja/nemukerja-tui/internal/model"
	"github.com/nemukerja/nemukerja-tui/internal/notify"
	"github.com/nemukerja/nemukerja-tui/internal/ui/applyform"
)

// Submitter sends a filled-in apply form.
type Submitter interface {
	SubmitApplication(ctx context.Context, jobID int64, app api.Application) error
}

// selectedMsg carries the dispatch decision for a selected notification.
// markRead yields the outcome of the mark-read request issued with it.
type selectedMsg struct {
	action   notify.Action
	markRead <-chan error
}

// mutationDoneMsg is sent after a mark-read or mark-all-read finished and
// the list was re-fetched.
type mutationDoneMsg struct {
	err error
}

type clearDoneMsg struct {
	outcome notify.ClearOutcome
	err     error
}

type jobLoadedMsg struct {
	detail *jobs.Detail
	err    error
}

type applicationDoneMsg struct {
	err error
}

type flashClearMsg struct {
	id int
}

func authFailure(err error) bool {
	return err != nil && api.IsAuthError(err)
}

// selectNotification marks n read and dispatches without waiting for the
// mark-read response.
func (m Model) selectNotification(n model.Notification) tea.Cmd {
	center, page := m.deps.Center, m.deps.Page
	return func() tea.Msg {
		action, done := center.Select(context.Background(), n, page)
		return selectedMsg{action: action, markRead: done}
	}
}

// waitMarkRead turns the pending mark-read outcome into a message.
func waitMarkRead(done <-chan error) tea.Cmd {
	if done == nil {
		return nil
	}
	return func() tea.Msg {
		return mutationDoneMsg{err: <-done}
	}
}

func (m Model) markRead(id model.ID) tea.Cmd {
	center := m.deps.Center
	return func() tea.Msg {
		return mutationDoneMsg{err: center.MarkRead(context.Background(), id)}
	}
}

func (m Model) markAllRead() tea.Cmd {
	center := m.deps.Center
	return func() tea.Msg {
		return mutationDoneMsg{err: center.MarkAllRead(context.Background())}
	}
}

// clearAll runs after the user confirmed in the dialog.
func (m Model) clearAll() tea.Cmd {
	center := m.deps.Center
	return func() tea.Msg {
		outcome, err := center.ClearAll(context.Background(), notify.Confirmed)
		return clearDoneMsg{outcome: outcome, err: err}
	}
}

func (m Model) openJob(id int64) tea.Cmd {
	svc, page := m.deps.Jobs, m.deps.Page
	return func() tea.Msg {
		d, err := svc.Open(context.Background(), id, page)
		return jobLoadedMsg{detail: d, err: err}
	}
}

// submitApplication uploads the CV chosen in the form.
func (m Model) submitApplication(msg applyform.SubmitMsg) tea.Cmd {
	sub, log := m.deps.Submitter, m.deps.Log
	return func() tea.Msg {
		cv := msg.Application.CV
		f, err := os.Open(cv.Path)
		if err != nil {
			return applicationDoneMsg{err: fmt.Errorf("opening cv: %w", err)}
		}
		defer f.Close()

		err = sub.SubmitApplication(context.Background(), msg.JobID, api.Application{
			CoverLetter: msg.Application.CoverLetter,
			CVName:      cv.Name(),
			CVType:      cv.MIME,
			CV:          f,
		})
		if err != nil {
			log.Error().Err(err).Int64("job_id", msg.JobID).Msg("submitting application")
		} else {
			log.Info().Int64("job_id", msg.JobID).Msg("application submitted")
		}
		return applicationDoneMsg{err: err}
	}
}
