package tui

import (
	"fmt"
	"time"

	"github.com/planedeck/planedeck/pkg/api"
)

const rowStamp = "2006-01-02 15:04"

// rowsFor flattens a page payload into list rows.
func rowsFor(page Page, value any) []row {
	switch page {
	case PageTenants:
		pg, ok := value.(api.Page[api.Tenant])
		if !ok {
			return nil
		}
		rows := make([]row, 0, len(pg.Items))
		for _, t := range pg.Items {
			name := t.DisplayName
			if name == "" {
				name = t.Name
			}
			rows = append(rows, row{
				id:     t.ID,
				cells:  []string{t.ID, name, t.Status, t.CreatedAt.UTC().Format(rowStamp)},
				status: t.Status,
				entity: t,
			})
		}
		return rows

	case PagePolicies:
		data, ok := value.(policiesData)
		if !ok {
			return nil
		}
		rows := make([]row, 0, len(data.Policies.Items))
		for _, p := range data.Policies.Items {
			enabled := "disabled"
			if p.Enabled {
				enabled = "enabled"
			}
			rows = append(rows, row{
				id:     p.ID,
				cells:  []string{p.ID, p.TenantID, p.Name, p.Mode, enabled},
				status: enabled,
				entity: p,
			})
		}
		return rows

	case PageWorkflows:
		pg, ok := value.(api.Page[api.Workflow])
		if !ok {
			return nil
		}
		rows := make([]row, 0, len(pg.Items))
		for _, w := range pg.Items {
			rows = append(rows, row{
				id:     w.ID,
				cells:  []string{w.ID, w.TenantID, w.Name, w.Status, w.StartedAt.UTC().Format(rowStamp)},
				status: w.Status,
				entity: w,
			})
		}
		return rows

	case PageLineage:
		pg, ok := value.(api.Page[api.LineageEvent])
		if !ok {
			return nil
		}
		rows := make([]row, 0, len(pg.Items))
		for _, e := range pg.Items {
			rows = append(rows, row{
				id:     e.ID(),
				cells:  []string{e.EventTime.UTC().Format(rowStamp), e.EventType, e.Run.RunID, e.Job.Namespace + "/" + e.Job.Name},
				status: e.EventType,
				entity: e,
			})
		}
		return rows
	}
	return nil
}

// headersFor returns column headers per page.
func headersFor(page Page) []string {
	switch page {
	case PageTenants:
		return []string{"ID", "NAME", "STATUS", "CREATED"}
	case PagePolicies:
		return []string{"ID", "TENANT", "NAME", "MODE", "STATE"}
	case PageWorkflows:
		return []string{"ID", "TENANT", "NAME", "STATUS", "STARTED"}
	case PageLineage:
		return []string{"TIME", "TYPE", "RUN", "JOB"}
	}
	return nil
}

var colWidths = []int{20, 12, 22, 11, 16}

// formatRow pads cells to the shared column widths.
func formatRow(cells []string) string {
	out := ""
	for i, c := range cells {
		w := 16
		if i < len(colWidths) {
			w = colWidths[i]
		}
		if len(c) > w {
			c = c[:w-3] + "..."
		}
		out += fmt.Sprintf("%-*s ", w, c)
	}
	return out
}

// age renders a compact relative duration for the details pane.
func age(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	}
}
