package app

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nemukerja/nemukerja-tui/internal/api"
	"github.com/nemukerja/nemukerja-tui/internal/devserver"
	"github.com/nemukerja/nemukerja-tui/internal/i18n"
	"github.com/nemukerja/nemukerja-tui/internal/jobs"
	"github.com/nemukerja/nemukerja-tui/internal/model"
	"github.com/nemukerja/nemukerja-tui/internal/notify"
	"github.com/nemukerja/nemukerja-tui/internal/store"
	appsync "github.com/nemukerja/nemukerja-tui/internal/sync"
	"github.com/nemukerja/nemukerja-tui/internal/theme"
	"github.com/nemukerja/nemukerja-tui/internal/ui/command"
	"github.com/nemukerja/nemukerja-tui/internal/ui/confirm"
	"github.com/nemukerja/nemukerja-tui/internal/ui/jobdetail"
	"github.com/nemukerja/nemukerja-tui/internal/ui/notiflist"
	"github.com/nemukerja/nemukerja-tui/tests/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type harness struct {
	server  *devserver.Server
	url     string
	center  *notify.Center
	store   store.Store
	locales *i18n.Broadcaster
	copied  []string
	clipErr error
}

func newHarness(t *testing.T, role model.Role) (*harness, Model) {
	t.Helper()

	s := devserver.New()
	demo, err := s.Seed()
	require.NoError(t, err)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)

	session := demo.ApplicantSession
	if role == model.RoleCompany {
		session = demo.CompanySession
	}
	client := api.NewClient(ts.URL, session, api.WithTimeout(5*time.Second))
	center := notify.NewCenter(client, notify.WithLogger(zerolog.Nop()))

	h := &harness{
		server:  s,
		url:     ts.URL,
		center:  center,
		store:   testutil.NewTestStore(t),
		locales: i18n.NewBroadcaster(i18n.English),
	}

	m := New(Deps{
		Page:      model.NewPageContext(ts.URL, role, true),
		Center:    center,
		Jobs:      jobs.NewService(client, zerolog.Nop()),
		Submitter: client,
		Poller:    appsync.New(center, time.Hour, zerolog.Nop()),
		Store:     h.store,
		Locales:   h.locales,
		Log:       zerolog.Nop(),
		Clipboard: func(s string) error {
			if h.clipErr != nil {
				return h.clipErr
			}
			h.copied = append(h.copied, s)
			return nil
		},
		FlashTTL: time.Millisecond,
	})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})

	require.NoError(t, center.Load(context.Background()))
	m, _ = update(t, m, appsync.SyncResultMsg{At: time.Now()})
	return h, m
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out, cmd
}

// run executes cmd and everything it batches, skipping commands that do
// not finish quickly (cursor blinks, pollers).
func run(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()

	select {
	case msg := <-ch:
		if batch, ok := msg.(tea.BatchMsg); ok {
			var out []tea.Msg
			for _, c := range batch {
				out = append(out, run(c)...)
			}
			return out
		}
		if msg == nil {
			return nil
		}
		return []tea.Msg{msg}
	case <-time.After(300 * time.Millisecond):
		return nil
	}
}

func find[T any](t *testing.T, msgs []tea.Msg) T {
	t.Helper()
	for _, msg := range msgs {
		if v, ok := msg.(T); ok {
			return v
		}
	}
	var zero T
	t.Fatalf("no %T among %d messages", zero, len(msgs))
	return zero
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func pick(t *testing.T, c *notify.Center, match func(model.Notification) bool) model.Notification {
	t.Helper()
	for _, n := range c.Snapshot().Items {
		if match(n) {
			return n
		}
	}
	t.Fatal("no matching notification")
	return model.Notification{}
}

func TestSelectJobPostedOpensModal(t *testing.T) {
	h, m := newHarness(t, model.RoleApplicant)
	require.Equal(t, 5, h.center.Unread())

	n := pick(t, h.center, func(n model.Notification) bool {
		return n.Type == model.NotificationJobPosted && n.RelatedID.Navigable()
	})

	m, cmd := update(t, m, notiflist.SelectedMsg{Notification: n})
	sel := find[selectedMsg](t, run(cmd))
	assert.Equal(t, notify.ActionShowJob, sel.action.Kind)

	m, cmd = update(t, m, sel)
	assert.Equal(t, ViewJob, m.currentView)
	msgs := run(cmd)

	m, _ = update(t, m, find[jobLoadedMsg](t, msgs))
	require.True(t, m.job.IsOpen())
	assert.Equal(t, n.RelatedID.Value, m.job.Detail().Job.ID)
	assert.Equal(t, 1, h.locales.Subscribers())

	m, _ = update(t, m, find[mutationDoneMsg](t, msgs))
	assert.Equal(t, 4, h.center.Unread())

	// Switching language re-renders the open modal and is persisted.
	m, cmd = update(t, m, keyMsg("L"))
	assert.Equal(t, i18n.Indonesian, h.locales.Current())
	assert.Contains(t, m.job.View(), "Perusahaan:")
	find[prefSavedMsg](t, run(cmd))
	saved, err := h.store.GetPreference(context.Background(), store.PrefLanguage)
	require.NoError(t, err)
	assert.Equal(t, "id", saved)

	m, _ = update(t, m, jobdetail.CloseMsg{})
	assert.Equal(t, ViewList, m.currentView)
	assert.Zero(t, h.locales.Subscribers())
}

func TestSelectStatusOfDeletedJobShowsNotice(t *testing.T) {
	h, m := newHarness(t, model.RoleApplicant)

	n := pick(t, h.center, func(n model.Notification) bool {
		return n.Type == model.NotificationApplicationStatus && strings.Contains(n.Message, devserver.StatusRejected)
	})

	m, cmd := update(t, m, notiflist.SelectedMsg{Notification: n})
	sel := find[selectedMsg](t, run(cmd))
	m, _ = update(t, m, sel)

	assert.Equal(t, ViewList, m.currentView)
	assert.Equal(t, i18n.T(i18n.English, i18n.JobRemoved), m.flash.text)
	assert.True(t, m.flash.isErr)
}

func TestOpenDeletedJobShowsNotice(t *testing.T) {
	h, m := newHarness(t, model.RoleApplicant)

	n := pick(t, h.center, func(n model.Notification) bool {
		return n.Type == model.NotificationJobPosted && n.RelatedID.Navigable()
	})
	require.NoError(t, h.server.DeleteJob(n.RelatedID.Value))

	m, cmd := update(t, m, notiflist.SelectedMsg{Notification: n})
	m, cmd = update(t, m, find[selectedMsg](t, run(cmd)))
	m, _ = update(t, m, find[jobLoadedMsg](t, run(cmd)))

	assert.Equal(t, ViewList, m.currentView)
	assert.False(t, m.job.IsOpen())
	assert.Equal(t, i18n.T(i18n.English, i18n.JobDeleted), m.flash.text)
}

func TestCompanyNavigationCopiesURL(t *testing.T) {
	h, m := newHarness(t, model.RoleCompany)

	n := pick(t, h.center, func(n model.Notification) bool {
		return n.Type == model.NotificationApplicationReceived
	})

	m, cmd := update(t, m, notiflist.SelectedMsg{Notification: n})
	m, _ = update(t, m, find[selectedMsg](t, run(cmd)))

	want := h.url + "/company/application/" + n.RelatedID.String()
	require.Equal(t, []string{want}, h.copied)
	assert.Equal(t, i18n.T(i18n.English, i18n.Navigated, want), m.flash.text)

	h.clipErr = errors.New("no clipboard")
	m, cmd = update(t, m, notiflist.SelectedMsg{Notification: n})
	m, _ = update(t, m, find[selectedMsg](t, run(cmd)))
	assert.Equal(t, i18n.T(i18n.English, i18n.NavigatedNoCB, want), m.flash.text)
}

func TestClearAllAsksFirst(t *testing.T) {
	h, m := newHarness(t, model.RoleApplicant)

	m, _ = update(t, m, keyMsg("X"))
	assert.Equal(t, ViewConfirm, m.currentView)

	m, cmd := update(t, m, confirm.ResultMsg{Tag: confirmClear, Yes: false})
	assert.Nil(t, cmd)
	assert.Equal(t, ViewList, m.currentView)
	assert.Len(t, h.center.Snapshot().Items, 5)

	m, _ = update(t, m, keyMsg("X"))
	m, cmd = update(t, m, confirm.ResultMsg{Tag: confirmClear, Yes: true})
	m, _ = update(t, m, find[clearDoneMsg](t, run(cmd)))

	assert.Equal(t, 0, m.list.Len())
	assert.Equal(t, i18n.T(i18n.English, i18n.ClearDone), m.flash.text)
	assert.False(t, m.flash.isErr)
}

func TestMarkAllReadKey(t *testing.T) {
	h, m := newHarness(t, model.RoleApplicant)

	m, cmd := update(t, m, keyMsg("M"))
	m, _ = update(t, m, find[mutationDoneMsg](t, run(cmd)))

	assert.Zero(t, h.center.Unread())
	assert.NotContains(t, m.View(), "unread")
}

func TestThemeToggleIsPersisted(t *testing.T) {
	theme.Apply(theme.Light)
	t.Cleanup(func() { theme.Apply(theme.Light) })
	h, m := newHarness(t, model.RoleApplicant)

	_, cmd := update(t, m, keyMsg("T"))
	assert.Equal(t, theme.Dark, theme.Current())
	find[prefSavedMsg](t, run(cmd))

	got, err := store.LoadTheme(context.Background(), h.store)
	require.NoError(t, err)
	assert.Equal(t, store.ThemeDark, got)
}

func TestCommandPalette(t *testing.T) {
	h, m := newHarness(t, model.RoleApplicant)

	m, _ = update(t, m, keyMsg(":"))
	assert.Equal(t, ViewCommand, m.currentView)

	m, cmd := update(t, m, command.CommandMsg("lang id"))
	assert.Equal(t, ViewList, m.currentView)
	assert.Equal(t, i18n.Indonesian, h.locales.Current())
	find[prefSavedMsg](t, run(cmd))

	m, cmd = update(t, m, command.CommandMsg("read all"))
	m, _ = update(t, m, find[mutationDoneMsg](t, run(cmd)))
	assert.Zero(t, h.center.Unread())

	_, cmd = update(t, m, command.CommandMsg("nonsense"))
	assert.Nil(t, cmd)
}

func TestSessionExpiredStopsPolling(t *testing.T) {
	_, m := newHarness(t, model.RoleApplicant)

	m, cmd := update(t, m, appsync.SyncResultMsg{
		Error:     &api.AuthError{Status: 401, Message: "session rejected"},
		AuthError: true,
	})
	assert.Nil(t, cmd)
	assert.True(t, m.expired)
	assert.Contains(t, m.statusText(), "Session expired")
	assert.False(t, m.deps.Poller.Running())
}

func TestFailedPollKeepsList(t *testing.T) {
	h, m := newHarness(t, model.RoleApplicant)
	before := m.list.Len()

	m, _ = update(t, m, appsync.SyncResultMsg{Error: errors.New("connection refused")})
	assert.Equal(t, before, m.list.Len())
	assert.Equal(t, 5, h.center.Unread())
	assert.False(t, m.expired)
}

func TestStaleFlashIsNotCleared(t *testing.T) {
	_, m := newHarness(t, model.RoleApplicant)

	m.setFlash("first", false)
	m.setFlash("second", false)
	m, _ = update(t, m, flashClearMsg{id: m.flash.id - 1})
	assert.Equal(t, "second", m.flash.text)

	m, _ = update(t, m, flashClearMsg{id: m.flash.id})
	assert.Empty(t, m.flash.text)
}
