package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nemukerja/nemukerja-tui/internal/model"
)

const testBase = "http://backend.test"

func newMockClient(t *testing.T, session string) (*Client, *httpmock.MockTransport) {
	t.Helper()
	transport := httpmock.NewMockTransport()
	c := NewClient(testBase+"/", session, WithHTTPClient(&http.Client{Transport: transport}))
	return c, transport
}

func TestListNotifications(t *testing.T) {
	c, transport := newMockClient(t, "abc")

	transport.RegisterResponder(http.MethodGet, testBase+"/notifications",
		func(req *http.Request) (*http.Response, error) {
			cookie, err := req.Cookie(SessionCookie)
			require.NoError(t, err)
			assert.Equal(t, "abc", cookie.Value)
			assert.NotEmpty(t, req.Header.Get("X-Request-ID"))
			return httpmock.NewStringResponse(http.StatusOK, `[
				{"id": 7, "type": "job_posted", "related_id": 3, "title": "t", "message": "m",
				 "is_read": false, "created_at": "2024-05-01T10:00:00"},
				{"id": "8", "type": "other", "related_id": null, "title": "u", "message": "n",
				 "is_read": true, "created_at": "Wed, 01 May 2024 10:00:00 GMT"}
			]`), nil
		})

	list, err := c.ListNotifications(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.Equal(t, model.ID("7"), list[0].ID)
	assert.True(t, list[0].RelatedID.Navigable())
	assert.Equal(t, int64(3), list[0].RelatedID.Value)
	assert.Equal(t, model.ID("8"), list[1].ID)
	assert.False(t, list[1].RelatedID.Navigable())
	assert.Equal(t, 1, model.CountUnread(list))
}

func TestListNotificationsEmptyBody(t *testing.T) {
	c, transport := newMockClient(t, "")
	transport.RegisterResponder(http.MethodGet, testBase+"/notifications",
		httpmock.NewStringResponder(http.StatusOK, `null`))

	list, err := c.ListNotifications(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestMutations(t *testing.T) {
	c, transport := newMockClient(t, "abc")
	ok := httpmock.NewStringResponder(http.StatusOK, `{"success": true}`)
	transport.RegisterResponder(http.MethodPost, testBase+"/notifications/read/7", ok)
	transport.RegisterResponder(http.MethodPost, testBase+"/notifications/read-all", ok)
	transport.RegisterResponder(http.MethodPost, testBase+"/notifications/clear-all",
		httpmock.NewStringResponder(http.StatusOK, `{"success": false, "message": "nope"}`))

	ctx := context.Background()

	res, err := c.MarkNotificationRead(ctx, "7")
	require.NoError(t, err)
	assert.True(t, res.Success)

	res, err = c.MarkAllNotificationsRead(ctx)
	require.NoError(t, err)
	assert.True(t, res.Success)

	res, err = c.ClearAllNotifications(ctx)
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, "nope", res.Message)

	info := transport.GetCallCountInfo()
	assert.Equal(t, 1, info["POST "+testBase+"/notifications/read/7"])
}

func TestStatusClassification(t *testing.T) {
	c, transport := newMockClient(t, "abc")

	transport.RegisterResponder(http.MethodGet, testBase+"/job/1",
		httpmock.NewStringResponder(http.StatusNotFound, `{"error":"gone"}`))
	transport.RegisterResponder(http.MethodGet, testBase+"/job/2",
		httpmock.NewStringResponder(http.StatusInternalServerError, `boom`))
	transport.RegisterResponder(http.MethodGet, testBase+"/job/3",
		httpmock.NewStringResponder(http.StatusUnauthorized, ``))
	transport.RegisterResponder(http.MethodGet, testBase+"/job/4",
		func(*http.Request) (*http.Response, error) {
			resp := httpmock.NewStringResponse(http.StatusFound, "")
			resp.Header.Set("Location", "/login?next=%2Fjob%2F4")
			return resp, nil
		})

	ctx := context.Background()

	_, err := c.GetJob(ctx, 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, http.StatusNotFound, StatusCode(err))

	_, err = c.GetJob(ctx, 2)
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusInternalServerError, se.Code)
	assert.Equal(t, "boom", se.Body)

	_, err = c.GetJob(ctx, 3)
	assert.True(t, IsAuthError(err))

	_, err = c.GetJob(ctx, 4)
	assert.True(t, IsAuthError(err))
	assert.Equal(t, http.StatusFound, StatusCode(err))
}

func TestRetryOnTooManyRequests(t *testing.T) {
	c, transport := newMockClient(t, "")

	calls := 0
	var ids []string
	transport.RegisterResponder(http.MethodGet, testBase+"/job/9",
		func(req *http.Request) (*http.Response, error) {
			calls++
			ids = append(ids, req.Header.Get("X-Request-ID"))
			if calls < 3 {
				resp := httpmock.NewStringResponse(http.StatusTooManyRequests, "")
				resp.Header.Set("Retry-After", "0")
				return resp, nil
			}
			return httpmock.NewStringResponse(http.StatusOK,
				`{"id": 9, "title": "Backend Engineer", "slots": 2, "applied_count": 1, "is_open": true}`), nil
		})

	job, err := c.GetJob(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, "Backend Engineer", job.Title)
	assert.False(t, job.IsFull())

	// A retried request keeps its id.
	require.Len(t, ids, 3)
	assert.Equal(t, ids[0], ids[2])
}

func TestRetryGivesUp(t *testing.T) {
	c, transport := newMockClient(t, "")
	c.maxRetries = 1
	transport.RegisterResponder(http.MethodGet, testBase+"/notifications",
		func(*http.Request) (*http.Response, error) {
			resp := httpmock.NewStringResponse(http.StatusTooManyRequests, "")
			resp.Header.Set("Retry-After", "0")
			return resp, nil
		})

	_, err := c.ListNotifications(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max retries (1) exceeded")
	assert.Equal(t, 2, transport.GetTotalCallCount())
}

func TestLookupJobForApplication(t *testing.T) {
	c, transport := newMockClient(t, "abc")
	transport.RegisterResponder(http.MethodGet, testBase+"/api/get_job_id/42",
		httpmock.NewStringResponder(http.StatusOK, `{"job_id": null}`))
	transport.RegisterResponder(http.MethodGet, testBase+"/api/get_job_id/43",
		httpmock.NewStringResponder(http.StatusOK, `{"job_id": 5}`))

	res, err := c.LookupJobForApplication(context.Background(), 42)
	require.NoError(t, err)
	assert.Nil(t, res.JobID)

	res, err = c.LookupJobForApplication(context.Background(), 43)
	require.NoError(t, err)
	require.NotNil(t, res.JobID)
	assert.Equal(t, int64(5), *res.JobID)
}

func TestSubmitApplication(t *testing.T) {
	c, transport := newMockClient(t, "abc")
	transport.RegisterResponder(http.MethodPost, testBase+"/apply/5",
		func(req *http.Request) (*http.Response, error) {
			require.NoError(t, req.ParseMultipartForm(1<<20))
			assert.Equal(t, "hello", req.FormValue("cover_letter"))

			f, hdr, err := req.FormFile("cv_file")
			require.NoError(t, err)
			defer f.Close()
			data, _ := io.ReadAll(f)
			assert.Equal(t, "cv.pdf", hdr.Filename)
			assert.Equal(t, "%PDF-1.4", string(data))

			resp := httpmock.NewStringResponse(http.StatusFound, "")
			resp.Header.Set("Location", "/dashboard")
			return resp, nil
		})

	err := c.SubmitApplication(context.Background(), 5, Application{
		CoverLetter: "hello",
		CVName:      "/tmp/cv.pdf",
		CVType:      "application/pdf",
		CV:          strings.NewReader("%PDF-1.4"),
	})
	require.NoError(t, err)
}

func TestSubmitApplicationLoginRedirect(t *testing.T) {
	c, transport := newMockClient(t, "")
	transport.RegisterResponder(http.MethodPost, testBase+"/apply/5",
		func(*http.Request) (*http.Response, error) {
			resp := httpmock.NewStringResponse(http.StatusFound, "")
			resp.Header.Set("Location", "/login")
			return resp, nil
		})

	err := c.SubmitApplication(context.Background(), 5, Application{
		CoverLetter: "x",
		CVName:      "cv.pdf",
		CVType:      "application/pdf",
		CV:          strings.NewReader("%PDF"),
	})
	assert.True(t, IsAuthError(err))
}
