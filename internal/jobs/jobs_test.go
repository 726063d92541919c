package jobs

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nemukerja/nemukerja-tui/internal/api"
	"github.com/nemukerja/nemukerja-tui/internal/i18n"
	"github.com/nemukerja/nemukerja-tui/internal/model"
)

func TestFormatSalary(t *testing.T) {
	tests := []struct {
		lo, hi int64
		en, id string
	}{
		{5_000_000, 8_000_000, "Rp5.000.000 - Rp8.000.000", "Rp5.000.000 - Rp8.000.000"},
		{5_000_000, 0, "Min. Rp5.000.000", "Min. Rp5.000.000"},
		{0, 8_000_000, "Max. Rp8.000.000", "Maks. Rp8.000.000"},
		{5_000_000, 5_000_000, "Min. Rp5.000.000", "Min. Rp5.000.000"},
		{0, 0, "N/A", "T/A"},
		{-1, 0, "N/A", "T/A"},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d-%d", tt.lo, tt.hi), func(t *testing.T) {
			assert.Equal(t, tt.en, FormatSalary(tt.lo, tt.hi, i18n.English))
			assert.Equal(t, tt.id, FormatSalary(tt.lo, tt.hi, i18n.Indonesian))
		})
	}
}

func TestCallToAction(t *testing.T) {
	open := model.Job{ID: 4, IsOpen: true, Slots: 3, AppliedCount: 1}
	full := model.Job{ID: 4, IsOpen: true, Slots: 3, AppliedCount: 3}
	closed := model.Job{ID: 4, IsOpen: false, Slots: 3, AppliedCount: 3}

	applicant := model.NewPageContext("http://x", model.RoleApplicant, true)
	company := model.NewPageContext("http://x", model.RoleCompany, true)
	anonymous := model.NewPageContext("http://x", model.RoleApplicant, false)

	assert.Equal(t, CTAClosed, CallToActionFor(closed, applicant).Kind)
	assert.False(t, CallToActionFor(closed, applicant).Enabled)
	assert.Equal(t, CTAFull, CallToActionFor(full, anonymous).Kind)

	apply := CallToActionFor(open, applicant)
	assert.Equal(t, CTAApply, apply.Kind)
	assert.Equal(t, "/apply/4", apply.Path)
	assert.True(t, apply.Enabled)

	login := CallToActionFor(open, anonymous)
	assert.Equal(t, CTALogin, login.Kind)
	assert.Equal(t, "/login", login.Path)

	assert.Equal(t, CTANone, CallToActionFor(open, company).Kind)
}

type fakeFetcher struct {
	job *model.Job
	err error
}

func (f fakeFetcher) GetJob(context.Context, int64) (*model.Job, error) {
	return f.job, f.err
}

func TestOpen(t *testing.T) {
	page := model.NewPageContext("http://x", model.RoleApplicant, true)
	ctx := context.Background()

	t.Run("deleted", func(t *testing.T) {
		s := NewService(fakeFetcher{err: fmt.Errorf("fetching job 1: %w", api.ErrNotFound)}, zerolog.Nop())
		d, err := s.Open(ctx, 1, page)
		assert.Nil(t, d)
		assert.ErrorIs(t, err, ErrJobDeleted)
		assert.Equal(t, i18n.JobDeleted, NoticeFor(err))
		assert.Equal(t, "Pekerjaan terkait telah dihapus oleh perusahaan.", i18n.T(i18n.Indonesian, NoticeFor(err)))
	})

	t.Run("other failure", func(t *testing.T) {
		s := NewService(fakeFetcher{err: errors.New("boom")}, zerolog.Nop())
		_, err := s.Open(ctx, 1, page)
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrJobDeleted)
		assert.Equal(t, "Error loading job details", i18n.T(i18n.English, NoticeFor(err)))
	})

	t.Run("success", func(t *testing.T) {
		lo, hi := int64(5_000_000), int64(8_000_000)
		job := &model.Job{
			ID: 7, Title: "Go Engineer", Company: "Acme", Location: "Jakarta",
			SalaryMin: &lo, SalaryMax: &hi, Slots: 2, AppliedCount: 0, IsOpen: true,
		}
		s := NewService(fakeFetcher{job: job}, zerolog.Nop())
		d, err := s.Open(ctx, 7, page)
		require.NoError(t, err)

		assert.Equal(t, CTAApply, d.CTA.Kind)
		assert.Equal(t, "Apply Now", d.ActionLabel(i18n.English))
		assert.Equal(t, "Lamar Sekarang", d.ActionLabel(i18n.Indonesian))

		fields := d.Fields(i18n.Indonesian)
		require.Len(t, fields, 5)
		assert.Equal(t, Field{Label: "Perusahaan:", Value: "Acme"}, fields[0])
		assert.Equal(t, Field{Label: "Gaji:", Value: "Rp5.000.000 - Rp8.000.000"}, fields[2])
		assert.Equal(t, "2", fields[3].Value)
	})
}
