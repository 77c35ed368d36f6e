package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/planedeck/planedeck/pkg/binder"
)

func (m Model) viewDashboard() string {
	state := m.panes[PageDashboard].binder.State()

	switch state.Phase {
	case binder.Loading:
		return fmt.Sprintf("\n   %s Contacting control plane...", m.spinner.View())
	case binder.Error:
		return m.viewError(state.Err)
	}

	ov, ok := state.Value.(overview)
	if !ok {
		return ""
	}

	health := iconOK.Render() + " " + special.Render("API healthy")
	if ov.healthErr != nil {
		health = iconFail.Render() + " " + danger.Render("API unreachable: "+ov.healthErr.Error())
	}

	card := func(label string, n int, style lipgloss.Style) string {
		return fmt.Sprintf("  %s %s", style.Render(fmt.Sprintf("%4d", n)), subtle.Render(label))
	}

	counts := lipgloss.JoinVertical(lipgloss.Left,
		card("tenants", ov.tenants, highlight),
		card("policies", ov.policies, highlight),
		card("workflows", ov.workflows, highlight),
		card("lineage events", ov.lineage, highlight),
	)

	activity := lipgloss.JoinVertical(lipgloss.Left,
		card("running", ov.running, warning),
		card("failed", ov.failed, danger),
	)

	s := strings.Builder{}
	s.WriteString("\n " + health + "\n\n")
	s.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, counts, "      ", activity))
	s.WriteString("\n\n")
	s.WriteString(helpStyle(" 2-5: open a page • r: refresh • q: quit"))
	return s.String()
}
