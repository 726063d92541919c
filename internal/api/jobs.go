package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path/filepath"

	"github.com/nemukerja/nemukerja-tui/internal/model"
)

// GetJob fetches the job-detail record. A deleted job yields ErrNotFound.
func (c *Client) GetJob(ctx context.Context, jobID int64) (*model.Job, error) {
	var job model.Job
	if err := c.getJSON(ctx, fmt.Sprintf("/job/%d", jobID), &job); err != nil {
		return nil, fmt.Errorf("fetching job %d: %w", jobID, err)
	}
	return &job, nil
}

// LookupJobForApplication resolves the job an application belongs to.
// The returned JobLookup has a nil JobID when the backend reports none.
func (c *Client) LookupJobForApplication(ctx context.Context, applicationID int64) (model.JobLookup, error) {
	var res model.JobLookup
	path := fmt.Sprintf("/api/get_job_id/%d", applicationID)
	if err := c.getJSON(ctx, path, &res); err != nil {
		return res, fmt.Errorf("looking up job of application %d: %w", applicationID, err)
	}
	return res, nil
}

// Application is the payload of the apply form.
type Application struct {
	CoverLetter string
	CVName      string
	CVType      string
	CV          io.Reader
}

// SubmitApplication posts the apply form for jobID as multipart data.
// The backend answers with a redirect back to the dashboard on success.
func (c *Client) SubmitApplication(ctx context.Context, jobID int64, app Application) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := w.WriteField("cover_letter", app.CoverLetter); err != nil {
		return fmt.Errorf("writing cover letter: %w", err)
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(
		`form-data; name="cv_file"; filename=%q`, filepath.Base(app.CVName),
	))
	h.Set("Content-Type", app.CVType)
	part, err := w.CreatePart(h)
	if err != nil {
		return fmt.Errorf("creating cv part: %w", err)
	}
	if _, err := io.Copy(part, app.CV); err != nil {
		return fmt.Errorf("copying cv: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("closing multipart body: %w", err)
	}

	r := request{
		method:      http.MethodPost,
		path:        fmt.Sprintf("/apply/%d", jobID),
		body:        buf.Bytes(),
		contentType: w.FormDataContentType(),
	}
	err = c.send(ctx, r, nil)
	if err == nil {
		return nil
	}

	// A redirect that is not to /login is the success path of a form post.
	if code := StatusCode(err); code == http.StatusFound || code == http.StatusSeeOther {
		if !IsAuthError(err) {
			return nil
		}
	}
	return fmt.Errorf("submitting application for job %d: %w", jobID, err)
}
