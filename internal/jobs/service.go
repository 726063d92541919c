package jobs

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/nemukerja/nemukerja-tui/internal/api"
	"github.com/nemukerja/nemukerja-tui/internal/i18n"
	"github.com/nemukerja/nemukerja-tui/internal/model"
)

// ErrJobDeleted is returned by Open when the backend no longer has the job.
var ErrJobDeleted = errors.New("job deleted")

// Fetcher loads a job record.
type Fetcher interface {
	GetJob(ctx context.Context, jobID int64) (*model.Job, error)
}

// Service opens job details for the modal.
type Service struct {
	fetcher Fetcher
	log     zerolog.Logger
}

// NewService creates a Service.
func NewService(fetcher Fetcher, log zerolog.Logger) *Service {
	return &Service{fetcher: fetcher, log: log}
}

// Detail is a job ready to be rendered, independent of locale.
type Detail struct {
	Job model.Job
	CTA CallToAction
}

// Field is one labelled line of the detail header.
type Field struct {
	Label string
	Value string
}

// Open fetches job id and decides the call to action for page. A 404
// yields ErrJobDeleted; any other failure is returned wrapped.
func (s *Service) Open(ctx context.Context, id int64, page model.PageContext) (*Detail, error) {
	job, err := s.fetcher.GetJob(ctx, id)
	if err != nil {
		if errors.Is(err, api.ErrNotFound) {
			s.log.Info().Int64("job_id", id).Msg("job no longer exists")
			return nil, fmt.Errorf("opening job %d: %w", id, ErrJobDeleted)
		}
		s.log.Error().Err(err).Int64("job_id", id).Msg("loading job details")
		return nil, fmt.Errorf("opening job %d: %w", id, err)
	}

	return &Detail{
		Job: *job,
		CTA: CallToActionFor(*job, page),
	}, nil
}

// NoticeFor maps an Open error to the i18n key shown to the user.
func NoticeFor(err error) string {
	if errors.Is(err, ErrJobDeleted) {
		return i18n.JobDeleted
	}
	return i18n.JobLoadError
}

// Salary renders the salary range in l.
func (d *Detail) Salary(l i18n.Locale) string {
	lo, hi := d.Job.Salary()
	return FormatSalary(lo, hi, l)
}

// Fields returns the labelled header lines in display order.
func (d *Detail) Fields(l i18n.Locale) []Field {
	return []Field{
		{Label: i18n.T(l, i18n.ModalCompany), Value: d.Job.Company},
		{Label: i18n.T(l, i18n.ModalLocation), Value: d.Job.Location},
		{Label: i18n.T(l, i18n.ModalSalary), Value: d.Salary(l)},
		{Label: i18n.T(l, i18n.ModalAvailableSlots), Value: strconv.Itoa(d.Job.Slots)},
		{Label: i18n.T(l, i18n.ModalCurrentApplicants), Value: strconv.Itoa(d.Job.AppliedCount)},
	}
}

// ActionLabel renders the call to action, or "" when there is none.
func (d *Detail) ActionLabel(l i18n.Locale) string {
	if d.CTA.Label == "" {
		return ""
	}
	return i18n.T(l, d.CTA.Label)
}
