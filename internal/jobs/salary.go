// Package jobs builds the job-detail view: salary text, the call to action
// for the viewer, and the not-found handling of deleted jobs.
package jobs

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/nemukerja/nemukerja-tui/internal/i18n"
)

var rupiahLocale = language.Indonesian

// FormatRupiah renders v as Indonesian rupiah without decimals,
// e.g. Rp5.000.000.
func FormatRupiah(v int64) string {
	return "Rp" + message.NewPrinter(rupiahLocale).Sprintf("%d", v)
}

// FormatSalary renders a salary range. Non-positive bounds count as absent.
// Equal bounds render as a minimum.
func FormatSalary(lo, hi int64, l i18n.Locale) string {
	switch {
	case lo > 0 && hi > 0 && lo != hi:
		return FormatRupiah(lo) + " - " + FormatRupiah(hi)
	case lo > 0:
		return i18n.T(l, i18n.SalaryMin, FormatRupiah(lo))
	case hi > 0:
		return i18n.T(l, i18n.SalaryMax, FormatRupiah(hi))
	default:
		return i18n.T(l, i18n.SalaryNotAvailable)
	}
}
