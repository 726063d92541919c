package devserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nemukerja/nemukerja-tui/internal/api"
	"github.com/nemukerja/nemukerja-tui/internal/i18n"
	"github.com/nemukerja/nemukerja-tui/internal/jobs"
	"github.com/nemukerja/nemukerja-tui/internal/model"
	"github.com/nemukerja/nemukerja-tui/internal/notify"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupTestServer(t *testing.T) (*Server, Demo, *httptest.Server) {
	t.Helper()
	s := New()
	demo, err := s.Seed()
	require.NoError(t, err)

	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, demo, ts
}

func doRequest(t *testing.T, s *Server, method, path, session string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if session != "" {
		req.AddCookie(&http.Cookie{Name: api.SessionCookie, Value: session})
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestRequireLoginRedirects(t *testing.T) {
	s := New()
	w := doRequest(t, s, http.MethodGet, "/notifications", "", nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Location"), "/login"))

	w = doRequest(t, s, http.MethodGet, "/notifications", "bogus", nil)
	assert.Equal(t, http.StatusFound, w.Code)
}

func TestListNotificationsShape(t *testing.T) {
	s := New(WithClock(func() time.Time { return time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC) }))
	uid, session := s.AddUser(model.RoleApplicant, "a")
	s.Notify(uid, model.NotificationJobPosted, model.RelatedID{}, "t", "m")

	w := doRequest(t, s, http.MethodGet, "/notifications", session, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var raw []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	require.Len(t, raw, 1)
	assert.Nil(t, raw[0]["related_id"])
	assert.Equal(t, "2024-05-01T10:00:00", raw[0]["created_at"])
	assert.Equal(t, false, raw[0]["is_read"])
}

func TestJobDetailNotFound(t *testing.T) {
	s := New()
	w := doRequest(t, s, http.MethodGet, "/job/99", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDevPostJobValidates(t *testing.T) {
	s := New()
	_, company := s.AddUser(model.RoleCompany, "Acme")
	_, applicant := s.AddUser(model.RoleApplicant, "Budi")

	w := doRequest(t, s, http.MethodPost, "/dev/jobs", company,
		[]byte(`{"title":"Go","location":"Jakarta","description":"short"}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "at least 20 characters")

	w = doRequest(t, s, http.MethodPost, "/dev/jobs", applicant,
		[]byte(`{"title":"Go","location":"Jakarta","description":"a long enough description"}`))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(t, s, http.MethodPost, "/dev/jobs", company,
		[]byte(`{"title":"Go","location":"Jakarta","description":"a long enough description","slots":2}`))
	assert.Equal(t, http.StatusCreated, w.Code)

	w = doRequest(t, s, http.MethodGet, "/notifications", applicant, nil)
	assert.Contains(t, w.Body.String(), `"type":"job_posted"`)
}

func TestApplicationStatusRoute(t *testing.T) {
	s, demo, _ := setupTestServer(t)

	appID, err := s.Apply(demo.ApplicantID, demo.JobIDs[1], "", "cv.pdf")
	require.NoError(t, err)

	path := "/dev/applications/" + strconv.FormatInt(appID, 10) + "/status"
	w := doRequest(t, s, http.MethodPost, path, demo.ApplicantSession, []byte(`{"status":"Diterima"}`))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(t, s, http.MethodPost, path, demo.CompanySession, []byte(`{"status":"Maybe"}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, s, http.MethodPost, path, demo.CompanySession, []byte(`{"status":"Ditolak"}`))
	assert.Equal(t, http.StatusOK, w.Code)
}

// The tests below drive the real client stack against the dev server.

func newStack(t *testing.T, ts *httptest.Server, session string) (*api.Client, *notify.Center) {
	t.Helper()
	client := api.NewClient(ts.URL, session, api.WithTimeout(5*time.Second))
	return client, notify.NewCenter(client, notify.WithLogger(zerolog.Nop()))
}

func TestCenterAgainstServer(t *testing.T) {
	_, demo, ts := setupTestServer(t)
	_, center := newStack(t, ts, demo.ApplicantSession)
	ctx := context.Background()

	require.NoError(t, center.Load(ctx))
	first := center.Snapshot()
	// Three job_posted plus two application_status.
	require.Len(t, first.Items, 5)
	assert.Equal(t, 5, first.Unread)

	// Loading again with nothing changed renders the same rows.
	now := time.Now()
	require.NoError(t, center.Load(ctx))
	assert.Equal(t,
		notify.Entries(first.Items, now, i18n.English),
		notify.Entries(center.Snapshot().Items, now, i18n.English))

	require.NoError(t, center.MarkRead(ctx, first.Items[0].ID))
	assert.Equal(t, 4, center.Unread())

	require.NoError(t, center.MarkAllRead(ctx))
	assert.Zero(t, center.Unread())

	out, err := center.ClearAll(ctx, func() bool { return false })
	require.NoError(t, err)
	assert.Equal(t, notify.ClearDeclined, out)
	assert.Len(t, center.Snapshot().Items, 5)

	out, err = center.ClearAll(ctx, notify.Confirmed)
	require.NoError(t, err)
	assert.Equal(t, notify.ClearSucceeded, out)
	assert.Empty(t, center.Snapshot().Items)
}

func TestLoadFailureKeepsBadge(t *testing.T) {
	_, demo, ts := setupTestServer(t)
	_, center := newStack(t, ts, demo.ApplicantSession)
	ctx := context.Background()

	require.NoError(t, center.Load(ctx))
	before := center.Unread()

	ts.Close()
	require.Error(t, center.Load(ctx))
	assert.Equal(t, before, center.Unread())
}

func TestExpiredSessionIsAuthError(t *testing.T) {
	_, _, ts := setupTestServer(t)
	_, center := newStack(t, ts, "expired")

	err := center.Load(context.Background())
	assert.True(t, api.IsAuthError(err))
}

func TestDispatchAgainstServer(t *testing.T) {
	_, demo, ts := setupTestServer(t)
	client, center := newStack(t, ts, demo.ApplicantSession)
	ctx := context.Background()
	page := model.NewPageContext(ts.URL, model.RoleApplicant, true)
	require.NoError(t, center.Load(ctx))

	var shown, removed, dead int
	for _, n := range center.Snapshot().Items {
		a := notify.Dispatch(ctx, n, page, client)
		switch a.Kind {
		case notify.ActionShowJob:
			shown++
			_, err := client.GetJob(ctx, a.JobID)
			assert.NoError(t, err)
		case notify.ActionNotice:
			removed++
			assert.Equal(t, i18n.JobRemoved, a.Notice)
		case notify.ActionNone:
			dead++
		default:
			t.Fatalf("unexpected action %v", a)
		}
	}
	// Two live job_posted, one accepted application, one deleted job's
	// job_posted and one application whose job is gone.
	assert.Equal(t, 3, shown)
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, dead)
}

func TestCompanyDispatchAgainstServer(t *testing.T) {
	_, demo, ts := setupTestServer(t)
	client, center := newStack(t, ts, demo.CompanySession)
	ctx := context.Background()
	page := model.NewPageContext(ts.URL, model.RoleCompany, true)
	require.NoError(t, center.Load(ctx))

	items := center.Snapshot().Items
	require.Len(t, items, 2)
	for _, n := range items {
		a := notify.Dispatch(ctx, n, page, client)
		assert.Equal(t, notify.ActionNavigate, a.Kind)
		assert.Contains(t, a.URL(page), ts.URL+"/company/application/")
	}
}

func TestSelectDoesNotWaitForSlowMarkRead(t *testing.T) {
	s, demo, ts := setupTestServer(t)
	s.SetDelay("/notifications/read/:id", 500*time.Millisecond)
	_, center := newStack(t, ts, demo.ApplicantSession)
	ctx := context.Background()
	page := model.NewPageContext(ts.URL, model.RoleApplicant, true)
	require.NoError(t, center.Load(ctx))

	var target model.Notification
	for _, n := range center.Snapshot().Items {
		if n.Type == model.NotificationJobPosted && n.RelatedID.Navigable() {
			target = n
			break
		}
	}

	started := time.Now()
	action, done := center.Select(ctx, target, page)
	elapsed := time.Since(started)

	assert.Equal(t, notify.ActionShowJob, action.Kind)
	assert.Less(t, elapsed, 400*time.Millisecond)

	require.NoError(t, <-done)
	assert.Equal(t, 4, center.Unread())
}

func TestJobServiceAgainstServer(t *testing.T) {
	s, demo, ts := setupTestServer(t)
	client, _ := newStack(t, ts, demo.ApplicantSession)
	svc := jobs.NewService(client, zerolog.Nop())
	ctx := context.Background()
	page := model.NewPageContext(ts.URL, model.RoleApplicant, true)

	d, err := svc.Open(ctx, demo.JobIDs[0], page)
	require.NoError(t, err)
	assert.Equal(t, "Rp5.000.000 - Rp8.000.000", d.Salary(i18n.English))
	// The applicant already applied once; two slots remain.
	assert.Equal(t, jobs.CTAApply, d.CTA.Kind)

	require.NoError(t, s.DeleteJob(demo.JobIDs[1]))
	_, err = svc.Open(ctx, demo.JobIDs[1], page)
	assert.ErrorIs(t, err, jobs.ErrJobDeleted)
}

func TestSubmitApplicationAgainstServer(t *testing.T) {
	s, demo, ts := setupTestServer(t)
	client, _ := newStack(t, ts, demo.ApplicantSession)
	ctx := context.Background()

	err := client.SubmitApplication(ctx, demo.JobIDs[1], api.Application{
		CoverLetter: strings.Repeat("I would love to join the support team. ", 4),
		CVName:      "cv.pdf",
		CVType:      "application/pdf",
		CV:          strings.NewReader("%PDF-1.4\n1 0 obj\n"),
	})
	require.NoError(t, err)

	// The company hears about it.
	company := s.NotificationsFor(demo.CompanyID)
	require.NotEmpty(t, company)
	assert.Equal(t, model.NotificationApplicationReceived, company[0].Type)

	// Server-side validation rejects a non-PDF upload.
	err = client.SubmitApplication(ctx, demo.JobIDs[0], api.Application{
		CoverLetter: strings.Repeat("x", 120),
		CVName:      "cv.pdf",
		CVType:      "application/pdf",
		CV:          strings.NewReader("plain text"),
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, api.StatusCode(err))
}
