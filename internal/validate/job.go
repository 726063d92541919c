package validate

import (
	"github.com/nemukerja/nemukerja-tui/internal/i18n"
)

// JobPosting is the add-job form of a company account.
type JobPosting struct {
	Title       string `form:"title" validate:"trimmed_required"`
	Location    string `form:"location" validate:"trimmed_required"`
	Description string `form:"description" validate:"trimmed_required,trimmed_min=20"`
}

// Job checks a posting and returns a message in locale l.
func Job(p JobPosting, l i18n.Locale) error {
	failed, err := failures(p)
	if err != nil {
		return err
	}
	for _, field := range []string{"title", "location", "description"} {
		if failed[field] == "trimmed_required" {
			return &Error{Field: field, Message: i18n.T(l, i18n.JobFillFields)}
		}
	}
	if failed["description"] == "trimmed_min" {
		return &Error{Field: "description", Message: i18n.T(l, i18n.JobDescriptionShort)}
	}
	return nil
}
