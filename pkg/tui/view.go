package tui

import (
	"fmt"
	"strings"
	"time"
)

const statusTTL = 4 * time.Second

func (m Model) View() string {
	if m.quitting {
		return subtle.Render("planedeck out.\n")
	}

	var b strings.Builder

	b.WriteString(m.viewHeader())
	b.WriteString("\n")

	switch m.page {
	case PageDashboard:
		b.WriteString(m.viewDashboard())
	default:
		b.WriteString(m.viewList())
	}

	b.WriteString("\n")
	b.WriteString(m.viewFooter())
	return b.String()
}

func (m Model) viewHeader() string {
	tabs := make([]string, 0, int(pageCount))
	for p := PageDashboard; p < pageCount; p++ {
		label := fmt.Sprintf("%d %s", int(p)+1, p.String())
		if p == m.page {
			tabs = append(tabs, tabActiveStyle.Render(label))
		} else {
			tabs = append(tabs, tabInactiveStyle.Render(label))
		}
	}

	line := titleStyle.Render("PLANEDECK") + " " + strings.Join(tabs, "")
	if m.tenantFilter != "" {
		line += "  " + warning.Render("tenant="+m.tenantFilter)
	}
	return hudStyle.Render(line)
}

func (m Model) viewFooter() string {
	if m.statusMsg != "" && time.Since(m.statusTime) < statusTTL {
		return helpStyle(" " + m.statusMsg)
	}

	keys := "1-5/tab: pages • ↑/↓: move • enter: details • r: refresh • q: quit"
	switch m.page {
	case PageTenants:
		keys = "t: filter pages to tenant • " + keys
	case PagePolicies, PageWorkflows, PageLineage:
		if m.tenantFilter != "" {
			keys = "esc: clear filter • " + keys
		}
	}
	return helpStyle(" " + keys)
}
