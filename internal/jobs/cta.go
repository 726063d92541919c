package jobs

import (
	"fmt"

	"github.com/nemukerja/nemukerja-tui/internal/i18n"
	"github.com/nemukerja/nemukerja-tui/internal/model"
)

// CTAKind is the call to action shown under a job.
type CTAKind int

const (
	CTANone CTAKind = iota
	CTAClosed
	CTAFull
	CTAApply
	CTALogin
)

// CallToAction describes the button at the bottom of the job modal.
type CallToAction struct {
	Kind CTAKind

	// Label is an i18n key; empty for CTANone.
	Label string

	// Path is where an enabled action leads.
	Path string

	// Enabled is false for the closed and full indicators.
	Enabled bool
}

// CallToActionFor picks the action for job as seen by page. The checks run
// in order: closed, full, applicant, unauthenticated.
func CallToActionFor(job model.Job, page model.PageContext) CallToAction {
	switch {
	case !job.IsOpen:
		return CallToAction{Kind: CTAClosed, Label: i18n.ModalJobClosed}
	case job.IsFull():
		return CallToAction{Kind: CTAFull, Label: i18n.ModalSlotsFull}
	case page.Authenticated && page.Role == model.RoleApplicant:
		return CallToAction{
			Kind:    CTAApply,
			Label:   i18n.ModalApplyNow,
			Path:    fmt.Sprintf("/apply/%d", job.ID),
			Enabled: true,
		}
	case !page.Authenticated:
		return CallToAction{
			Kind:    CTALogin,
			Label:   i18n.ModalLoginToApply,
			Path:    "/login",
			Enabled: true,
		}
	default:
		return CallToAction{Kind: CTANone}
	}
}
