package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/planedeck/planedeck/pkg/api"
)

func (m Model) viewDetails() string {
	p := m.panes[m.page]
	if p.cursor < 0 || p.cursor >= len(p.rows) {
		return ""
	}
	r := p.rows[p.cursor]

	var lines []string
	switch e := r.entity.(type) {
	case api.Tenant:
		lines = []string{
			fmt.Sprintf("%-12s: %s", "Name", e.Name),
			fmt.Sprintf("%-12s: %s", "Display", e.DisplayName),
			fmt.Sprintf("%-12s: %s", "Status", e.Status),
			fmt.Sprintf("%-12s: %s (%s ago)", "Created", e.CreatedAt.UTC().Format(rowStamp), age(e.CreatedAt)),
		}

	case api.Policy:
		lines = []string{
			fmt.Sprintf("%-12s: %s", "Tenant", e.TenantID),
			fmt.Sprintf("%-12s: %s", "Mode", e.Mode),
			fmt.Sprintf("%-12s: %v", "Enabled", e.Enabled),
			fmt.Sprintf("%-12s: %s", "Rule", e.Rule),
		}
		lines = append(lines, m.policyPreview(e)...)

	case api.Workflow:
		finished := "-"
		if e.FinishedAt != nil {
			finished = e.FinishedAt.UTC().Format(rowStamp)
		}
		lines = []string{
			fmt.Sprintf("%-12s: %s", "Tenant", e.TenantID),
			fmt.Sprintf("%-12s: %s %s", "Status", statusIcon(e.Status).Render(), e.Status),
			fmt.Sprintf("%-12s: %s", "Started", e.StartedAt.UTC().Format(rowStamp)),
			fmt.Sprintf("%-12s: %s", "Finished", finished),
		}
		if e.Error != "" {
			lines = append(lines, danger.Render(fmt.Sprintf("%-12s: %s", "Error", e.Error)))
		}

	case api.LineageEvent:
		lines = []string{
			fmt.Sprintf("%-12s: %s", "Run", e.Run.RunID),
			fmt.Sprintf("%-12s: %s/%s", "Job", e.Job.Namespace, e.Job.Name),
			fmt.Sprintf("%-12s: %s", "Type", e.EventType),
			fmt.Sprintf("%-12s: %s", "Time", e.EventTime.UTC().Format(rowStamp)),
		}
		for _, d := range e.Inputs {
			lines = append(lines, dimStyle.Render(fmt.Sprintf("%-12s: %s/%s", "Input", d.Namespace, d.Name)))
		}
		for _, d := range e.Outputs {
			lines = append(lines, dimStyle.Render(fmt.Sprintf("%-12s: %s/%s", "Output", d.Namespace, d.Name)))
		}
		if e.Producer != "" {
			lines = append(lines, subtle.Render(fmt.Sprintf("%-12s: %s", "Producer", e.Producer)))
		}

	default:
		return ""
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		detailsHeaderStyle.Render(fmt.Sprintf("%s : %s", m.page, r.id)),
		strings.Join(lines, "\n"),
		"",
		helpStyle("enter: close • esc: back"),
	)
	return "\n" + detailsBoxStyle.Render(content)
}

// policyPreview evaluates the selected policy's rule against the cached
// workflows. Compile errors render inline next to the rule.
func (m Model) policyPreview(pol api.Policy) []string {
	if m.policyEng == nil {
		return nil
	}
	if err := m.policyEng.CompileErr(pol.ID); err != nil {
		return []string{danger.Render(fmt.Sprintf("%-12s: %s", "Rule error", err))}
	}

	data, ok := m.panes[PagePolicies].binder.State().Value.(policiesData)
	if !ok {
		return nil
	}
	matched := m.policyEng.Matches(pol.ID, data.Workflows)

	line := fmt.Sprintf("%-12s: %d of %d cached workflows", "Matches", len(matched), len(data.Workflows))
	out := []string{special.Render(line)}
	for _, id := range matched {
		out = append(out, dimStyle.Render(fmt.Sprintf("%-12s: %s", "", id)))
	}
	return out
}
