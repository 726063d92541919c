package notify

import (
	"context"
	"fmt"

	"github.com/nemukerja/nemukerja-tui/internal/i18n"
	"github.com/nemukerja/nemukerja-tui/internal/model"
)

// DashboardPath is the fallback destination for every notification the
// viewer's role has no dedicated view for.
const DashboardPath = "/dashboard"

// ActionKind says what selecting a notification should do.
type ActionKind int

const (
	// ActionNone means the notification points at a deleted entity.
	ActionNone ActionKind = iota
	// ActionShowJob opens the in-app job-detail modal.
	ActionShowJob
	// ActionNavigate leaves for a page of the web application.
	ActionNavigate
	// ActionNotice shows a message and goes nowhere.
	ActionNotice
)

func (k ActionKind) String() string {
	switch k {
	case ActionShowJob:
		return "show_job"
	case ActionNavigate:
		return "navigate"
	case ActionNotice:
		return "notice"
	default:
		return "none"
	}
}

// Action is the outcome of Dispatch. Only the field matching Kind is set.
type Action struct {
	Kind ActionKind

	// JobID is the job to show for ActionShowJob.
	JobID int64

	// Path is the web path for ActionNavigate.
	Path string

	// Notice is an i18n message key for ActionNotice.
	Notice string
}

// URL returns the absolute navigation target, or "" for non-navigation
// actions.
func (a Action) URL(page model.PageContext) string {
	if a.Kind != ActionNavigate {
		return ""
	}
	return page.URL(a.Path)
}

// JobResolver finds the job an application belongs to.
type JobResolver interface {
	LookupJobForApplication(ctx context.Context, applicationID int64) (model.JobLookup, error)
}

func navigate(path string) Action {
	return Action{Kind: ActionNavigate, Path: path}
}

// Dispatch decides what selecting n does for the viewer described by page.
// Rules are checked top to bottom and the first match wins. Only
// application_status for an applicant calls the resolver; any lookup
// failure is treated as the job being gone.
func Dispatch(ctx context.Context, n model.Notification, page model.PageContext, resolver JobResolver) Action {
	if !n.RelatedID.Navigable() {
		return Action{Kind: ActionNone}
	}
	id := n.RelatedID.Value

	switch n.Type {
	case model.NotificationJobPosted:
		if page.Role == model.RoleApplicant {
			return Action{Kind: ActionShowJob, JobID: id}
		}
		return navigate(DashboardPath)

	case model.NotificationApplicationReceived:
		if page.Role == model.RoleCompany {
			return navigate(fmt.Sprintf("/company/application/%d", id))
		}
		return navigate(DashboardPath)

	case model.NotificationApplicationStatus:
		if page.Role != model.RoleApplicant {
			return navigate(DashboardPath)
		}
		if resolver == nil {
			return Action{Kind: ActionNotice, Notice: i18n.JobRemoved}
		}
		res, err := resolver.LookupJobForApplication(ctx, id)
		if err != nil || res.JobID == nil || *res.JobID == 0 {
			return Action{Kind: ActionNotice, Notice: i18n.JobRemoved}
		}
		return Action{Kind: ActionShowJob, JobID: *res.JobID}
	}

	return navigate(DashboardPath)
}
