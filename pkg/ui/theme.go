package ui

import (
	"os"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/gantry/pkg/model"
)

// TermProfile holds the detected terminal color profile. Computed once at
// package init so every style helper can branch without re-detecting.
var TermProfile colorprofile.Profile

func init() {
	TermProfile = colorprofile.Detect(os.Stdout, os.Environ())
}

// ThemeBg returns the given hex color for TrueColor terminals and
// lipgloss.NoColor{} otherwise, so 16/256-color terminals keep their own
// background instead of a down-converted approximation.
func ThemeBg(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.TrueColor {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(hex)
}

// ThemeFg returns the given hex color for ANSI256+ terminals and a safe
// ANSI white (color 7) for 16-color or lower terminals.
func ThemeFg(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.ANSI256 {
		return lipgloss.ANSIColor(7)
	}
	return lipgloss.Color(hex)
}

type Theme struct {
	Renderer *lipgloss.Renderer

	// Colors
	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Subtext   lipgloss.AdaptiveColor

	// Status
	Pending     lipgloss.AdaptiveColor
	Ready       lipgloss.AdaptiveColor
	InProgress  lipgloss.AdaptiveColor
	Completed   lipgloss.AdaptiveColor
	Blocked     lipgloss.AdaptiveColor
	NeedsReview lipgloss.AdaptiveColor

	// Kinds
	Milestone lipgloss.AdaptiveColor
	Critical  lipgloss.AdaptiveColor

	// UI Elements
	Border    lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor
	Muted     lipgloss.AdaptiveColor
	Today     lipgloss.AdaptiveColor

	// Styles
	Base     lipgloss.Style
	Selected lipgloss.Style
	Header   lipgloss.Style

	// Pre-computed styles, created once instead of per cell.
	MutedText     lipgloss.Style
	SecondaryText lipgloss.Style
	GroupText     lipgloss.Style
	TodayText     lipgloss.Style
	WeekendText   lipgloss.Style
	MonthText     lipgloss.Style
	StatusBar     lipgloss.Style
	ErrorText     lipgloss.Style
}

// DefaultTheme returns the standard Dracula-inspired theme (adaptive)
func DefaultTheme(r *lipgloss.Renderer) Theme {
	t := Theme{
		Renderer: r,

		Primary:   lipgloss.AdaptiveColor{Light: "#6B47D9", Dark: "#BD93F9"}, // Purple
		Secondary: lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"}, // Gray
		Subtext:   lipgloss.AdaptiveColor{Light: "#666666", Dark: "#BFBFBF"}, // Dim

		Pending:     lipgloss.AdaptiveColor{Light: "#6B778C", Dark: "#9CA3AF"},
		Ready:       lipgloss.AdaptiveColor{Light: "#0066CC", Dark: "#6699FF"},
		InProgress:  lipgloss.AdaptiveColor{Light: "#B06800", Dark: "#FFB86C"},
		Completed:   lipgloss.AdaptiveColor{Light: "#007700", Dark: "#50FA7B"},
		Blocked:     lipgloss.AdaptiveColor{Light: "#CC0000", Dark: "#FF5555"},
		NeedsReview: lipgloss.AdaptiveColor{Light: "#6B47D9", Dark: "#BD93F9"},

		Milestone: lipgloss.AdaptiveColor{Light: "#6B47D9", Dark: "#FF79C6"},
		Critical:  lipgloss.AdaptiveColor{Light: "#CC0000", Dark: "#FF5555"},

		Border:    lipgloss.AdaptiveColor{Light: "#AAAAAA", Dark: "#44475A"},
		Highlight: lipgloss.AdaptiveColor{Light: "#E0E0E0", Dark: "#44475A"},
		Muted:     lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"},
		Today:     lipgloss.AdaptiveColor{Light: "#CC0000", Dark: "#FF5555"},
	}

	t.Base = r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#F8F8F2"})

	t.Selected = r.NewStyle().
		Background(t.Highlight).
		Bold(true)

	t.Header = r.NewStyle().
		Background(t.Primary).
		Foreground(lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#282A36"}).
		Bold(true).
		Padding(0, 1)

	t.MutedText = r.NewStyle().Foreground(t.Muted)
	t.SecondaryText = r.NewStyle().Foreground(t.Secondary)
	t.GroupText = r.NewStyle().Foreground(t.Primary).Bold(true)
	t.TodayText = r.NewStyle().Foreground(ThemeFg("#FF5555")).Bold(true)
	t.WeekendText = r.NewStyle().Foreground(t.Border)
	t.MonthText = r.NewStyle().Foreground(t.Subtext).Bold(true)
	t.StatusBar = r.NewStyle().Foreground(t.Subtext).Background(ThemeBg("#21222C"))
	t.ErrorText = r.NewStyle().Foreground(t.Blocked).Bold(true)

	return t
}

// GetStatusColor returns the bar color of a task status.
func (t Theme) GetStatusColor(s string) lipgloss.AdaptiveColor {
	switch s {
	case model.StatusReady:
		return t.Ready
	case model.StatusInProgress:
		return t.InProgress
	case model.StatusCompleted:
		return t.Completed
	case model.StatusBlocked:
		return t.Blocked
	case model.StatusNeedsReview:
		return t.NeedsReview
	default:
		return t.Pending
	}
}

// GetKindIcon returns the left-pane glyph of a task kind.
func (t Theme) GetKindIcon(k model.TaskKind) (string, lipgloss.AdaptiveColor) {
	switch k {
	case model.KindMilestone:
		return "◆", t.Milestone
	case model.KindSubtask:
		return "·", t.Subtext
	default:
		return "■", t.Secondary
	}
}
