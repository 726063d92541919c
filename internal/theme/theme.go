package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nemukerja/nemukerja-tui/internal/jobs"
	"github.com/nemukerja/nemukerja-tui/internal/validate"
)

// Names accepted by Apply.
const (
	Light = "light"
	Dark  = "dark"
)

// Apply switches every adaptive color to the light or dark variant.
// Unknown names mean light.
func Apply(name string) {
	lipgloss.SetHasDarkBackground(name == Dark)
}

// Current reports the active theme name.
func Current() string {
	if lipgloss.HasDarkBackground() {
		return Dark
	}
	return Light
}

// Toggle flips the theme and returns the new name.
func Toggle() string {
	next := Dark
	if Current() == Dark {
		next = Light
	}
	Apply(next)
	return next
}

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue   = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen  = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed    = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorGray   = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite  = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorSubtle = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
	ColorBorder = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// HeaderStyle is used for the application title bar.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorBlue).
	Padding(0, 1)

// StatusBarStyle is used for the bottom status bar.
var StatusBarStyle = lipgloss.NewStyle().
	Foreground(ColorWhite).
	Background(ColorSubtle).
	Padding(0, 1)

// ModalStyle wraps the job modal and overlays.
var ModalStyle = lipgloss.NewStyle().
	Padding(1, 2).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// ListItemStyle is the base style for notification rows.
var ListItemStyle = lipgloss.NewStyle().
	PaddingLeft(2)

// SelectedItemStyle highlights the focused notification.
var SelectedItemStyle = lipgloss.NewStyle().
	PaddingLeft(1).
	Bold(true).
	Foreground(ColorBlue).
	Border(lipgloss.NormalBorder(), false, false, false, true).
	BorderForeground(ColorBlue)

// ReadStyle dims notifications that were already read.
var ReadStyle = lipgloss.NewStyle().
	Foreground(ColorGray)

// UnreadMarkerStyle renders the "New" marker.
var UnreadMarkerStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorRed).
	Padding(0, 1)

// BadgeStyle renders the unread counter in the header.
var BadgeStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("#FFFFFF")).
	Background(ColorRed).
	Padding(0, 1)

// MutedStyle is for timestamps and secondary text.
var MutedStyle = lipgloss.NewStyle().
	Foreground(ColorGray)

// HelpStyle is used for keyboard shortcut hints and help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true)

// TitleStyle is a bold heading inside a panel.
var TitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	MarginBottom(1)

// ErrorStyle and SuccessStyle color flash messages.
var (
	ErrorStyle   = lipgloss.NewStyle().Bold(true).Foreground(ColorRed)
	SuccessStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorGreen)
)

// BandStyle colors the cover-letter counter.
func BandStyle(b validate.Band) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)

	switch b {
	case validate.BandDanger:
		return base.Foreground(ColorRed)
	case validate.BandWarning:
		return base.Foreground(ColorYellow)
	default:
		return base.Foreground(ColorGreen)
	}
}

// CTAStyle renders the job modal's call to action as a button.
func CTAStyle(kind jobs.CTAKind) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true).Padding(0, 2)

	switch kind {
	case jobs.CTAApply:
		return base.Foreground(lipgloss.Color("#FFFFFF")).Background(ColorGreen)
	case jobs.CTALogin:
		return base.Foreground(lipgloss.Color("#FFFFFF")).Background(ColorBlue)
	case jobs.CTAClosed, jobs.CTAFull:
		return base.Foreground(ColorGray).Background(ColorSubtle)
	default:
		return base
	}
}
