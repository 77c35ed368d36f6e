package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/planedeck/planedeck/pkg/api"
	"github.com/planedeck/planedeck/pkg/binder"
)

func (m Model) viewList() string {
	p := m.panes[m.page]
	state := p.binder.State()

	switch state.Phase {
	case binder.Loading:
		return fmt.Sprintf("\n   %s Fetching %s...", m.spinner.View(), strings.ToLower(m.page.String()))
	case binder.Error:
		return m.viewError(state.Err)
	case binder.Empty:
		msg := "No " + strings.ToLower(m.page.String()) + " found."
		if m.tenantFilter != "" {
			msg += " (filter: " + m.tenantFilter + ")"
		}
		return "\n   " + iconOK.Render() + " " + subtle.Render(msg)
	}

	s := strings.Builder{}

	header := formatRow(headersFor(m.page))
	s.WriteString("  " + dimStyle.Render(header) + "\n")
	if m.tenantFilter != "" && m.page != PageTenants {
		s.WriteString(warning.Render("  [FILTER: "+m.tenantFilter+"]") + "\n")
	} else {
		s.WriteString(dimStyle.Render("  "+strings.Repeat("─", 70)) + "\n")
	}

	start, end := m.calculateWindow(len(p.rows))
	for i := start; i < end; i++ {
		r := p.rows[i]
		cursor := "  "
		if i == p.cursor {
			cursor = "> "
		}

		line := formatRow(r.cells)
		switch r.status {
		case api.WorkflowFailed, "FAIL", "ABORT", "suspended":
			line = danger.Render(line)
		case api.WorkflowRunning, "START", "RUNNING":
			line = warning.Render(line)
		default:
			if i == p.cursor {
				line = listSelectedStyle.Render(line)
			} else {
				line = listNormalStyle.Render(line)
			}
		}
		s.WriteString(cursor + line + "\n")
	}
	if end < len(p.rows) {
		s.WriteString(dimStyle.Render("   ...") + "\n")
	}

	if p.showingDetails {
		s.WriteString(m.viewDetails())
	}
	return s.String()
}

// viewError renders a failed fetch inline. The page survives; retry is a
// keypress away.
func (m Model) viewError(err error) string {
	kind := "request failed"
	var status *api.StatusError
	switch {
	case errors.Is(err, api.ErrUnauthorized):
		kind = "unauthorized — check your token"
	case errors.Is(err, api.ErrNotFound):
		kind = "not found"
	case errors.Is(err, api.ErrNetwork):
		kind = "network failure — is the API reachable?"
	case errors.As(err, &status):
		kind = fmt.Sprintf("server error (HTTP %d)", status.Code)
	}

	content := iconFail.Render() + " " + danger.Render(kind) + "\n" +
		dimStyle.Render(err.Error()) + "\n\n" +
		helpStyle("r: retry • tab: switch page")
	return errorBoxStyle.Render(content)
}

func (m Model) calculateWindow(total int) (int, int) {
	p := m.panes[m.page]

	windowSize := m.height - 10 // header + footer allowance
	if windowSize < 5 {
		windowSize = 5
	}

	start := p.cursor - (windowSize / 2)
	if start < 0 {
		start = 0
	}

	end := start + windowSize
	if end > total {
		end = total
		start = end - windowSize
		if start < 0 {
			start = 0
		}
	}
	return start, end
}
