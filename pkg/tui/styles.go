package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/planedeck/planedeck/pkg/api"
)

var (
	// Slate palette
	colorAccent   = lipgloss.Color("#6366F1") // Indigo: headers, active tab
	colorOK       = lipgloss.Color("#10B981") // Emerald: success states
	colorTextMain = lipgloss.Color("#E2E8F0") // Main text
	colorTextSub  = lipgloss.Color("#64748B") // Subtext
	colorDanger   = lipgloss.Color("#F43F5E") // Failures
	colorWarning  = lipgloss.Color("#F59E0B") // Warnings, stale

	// Shared styles
	subtle    = lipgloss.NewStyle().Foreground(colorTextSub)
	dimStyle  = lipgloss.NewStyle().Foreground(colorTextSub)
	highlight = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	special   = lipgloss.NewStyle().Foreground(colorOK).Bold(true)
	danger    = lipgloss.NewStyle().Foreground(colorDanger).Bold(true)
	warning   = lipgloss.NewStyle().Foreground(colorWarning)

	titleStyle = lipgloss.NewStyle().
			Foreground(colorAccent).
			Bold(true).
			Padding(0, 1)

	// Header bar
	hudStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorAccent).
			Padding(0, 1).
			Foreground(colorTextMain)

	tabActiveStyle = lipgloss.NewStyle().
			Foreground(colorTextMain).
			Background(lipgloss.Color("#312E81")).
			Bold(true).
			Padding(0, 1)

	tabInactiveStyle = lipgloss.NewStyle().
				Foreground(colorTextSub).
				Padding(0, 1)

	// List styles
	listSelectedStyle = lipgloss.NewStyle().
				Foreground(colorTextMain).
				Bold(true)

	listNormalStyle = lipgloss.NewStyle().
			Foreground(colorTextSub)

	// Text-based status icons
	iconFail    = lipgloss.NewStyle().Foreground(colorDanger).SetString("[FAIL]")
	iconWarn    = lipgloss.NewStyle().Foreground(colorWarning).SetString("[WARN]")
	iconOK      = lipgloss.NewStyle().Foreground(colorOK).SetString("[OK]")
	iconPending = lipgloss.NewStyle().Foreground(colorTextSub).SetString("[....]")

	// Inline error box: failed fetches render here, never crash the page
	errorBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDanger).
			Padding(0, 2).
			MarginTop(1)

	// Details pane
	detailsBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(colorOK).
			Padding(1, 2).
			MarginTop(1)

	detailsHeaderStyle = lipgloss.NewStyle().
				Foreground(colorAccent).
				Bold(true).
				Underline(true).
				MarginBottom(1)
)

func helpStyle(s string) string {
	return subtle.Render(s)
}

// statusIcon maps a workflow status onto its text icon. Unknown statuses
// fall back to the pending marker.
func statusIcon(status string) lipgloss.Style {
	switch status {
	case api.WorkflowRunning:
		return iconWarn
	case api.WorkflowSucceeded:
		return iconOK
	case api.WorkflowFailed:
		return iconFail
	}
	return iconPending
}
