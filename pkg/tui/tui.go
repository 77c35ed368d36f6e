package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/planedeck/planedeck/pkg/api"
	"github.com/planedeck/planedeck/pkg/store"
)

type initMsg struct{}

// pageDataMsg carries one resolved fetch back into the UI loop.
type pageDataMsg struct {
	page  Page
	seq   int
	value any
	count int
	err   error
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case initMsg:
		return m.navigate(m.page)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case pageDataMsg:
		if msg.seq != m.seq {
			// Response to a superseded request: navigation moved on
			// before it returned. Discard, never merge.
			return m, nil
		}
		p := &m.panes[msg.page]
		p.binder.Resolve(msg.value, msg.count, msg.err)
		p.rows = rowsFor(msg.page, msg.value)
		if p.cursor >= len(p.rows) {
			p.cursor = len(p.rows) - 1
		}
		if p.cursor < 0 {
			p.cursor = 0
		}
		if msg.page == PagePolicies && msg.err == nil && m.policyEng != nil {
			if data, ok := msg.value.(policiesData); ok {
				m.policyEng.Compile(data.Policies.Items)
			}
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p := &m.panes[m.page]

	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		if m.cancel != nil {
			m.cancel()
		}
		return m, tea.Quit

	case "1":
		return m.navigate(PageDashboard)
	case "2":
		return m.navigate(PageTenants)
	case "3":
		return m.navigate(PagePolicies)
	case "4":
		return m.navigate(PageWorkflows)
	case "5":
		return m.navigate(PageLineage)
	case "tab":
		return m.navigate((m.page + 1) % pageCount)
	case "shift+tab":
		return m.navigate((m.page + pageCount - 1) % pageCount)

	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "j":
		if p.cursor < len(p.rows)-1 {
			p.cursor++
		}

	case "enter", " ":
		if len(p.rows) > 0 {
			p.showingDetails = !p.showingDetails
		}

	case "r":
		// Explicit refresh: Ready -> Loading, cache dropped, fresh request.
		if kind := m.page.kind(); kind != "" {
			m.store.Invalidate(kind)
		}
		return m.reload()

	case "t":
		// Adopt the selected tenant as filter and jump to its workflows.
		if m.page == PageTenants && p.cursor < len(p.rows) {
			m.tenantFilter = p.rows[p.cursor].id
			m.statusMsg = "filtering by " + m.tenantFilter
			m.statusTime = time.Now()
			return m.navigate(PageWorkflows)
		}

	case "esc":
		if m.tenantFilter != "" {
			m.tenantFilter = ""
			m.statusMsg = "filter cleared"
			m.statusTime = time.Now()
			return m.reload()
		}
		if p.showingDetails {
			p.showingDetails = false
		}
	}
	return m, nil
}

// navigate switches pages. The old page's in-flight fetch is cancelled and
// its eventual response discarded by the sequence check.
func (m Model) navigate(page Page) (Model, tea.Cmd) {
	m.page = page
	m.panes[page].binder.Reset()
	m.panes[page].showingDetails = false
	return m.reload()
}

// reload restarts the current page's fetch under a fresh sequence number.
func (m Model) reload() (Model, tea.Cmd) {
	if m.cancel != nil {
		m.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel

	m.seq++
	m.panes[m.page].binder.Refresh()

	return m, m.loadCmd(ctx, m.page, m.seq, m.tenantFilter)
}

// loadCmd issues the fetch for one page. It captures everything it needs
// by value so the returned closure never touches the model.
func (m Model) loadCmd(ctx context.Context, page Page, seq int, filter string) tea.Cmd {
	st := m.store
	client := m.client

	return func() tea.Msg {
		switch page {
		case PageDashboard:
			ov, err := loadOverview(ctx, st, client)
			return pageDataMsg{page: page, seq: seq, value: ov, count: 1, err: err}

		case PageTenants:
			pg, err := store.ListAs[api.Tenant](ctx, st, api.KindTenant, api.Params{})
			return pageDataMsg{page: page, seq: seq, value: pg, count: len(pg.Items), err: err}

		case PagePolicies:
			params := api.Params{TenantID: filter}
			pols, err := store.ListAs[api.Policy](ctx, st, api.KindPolicy, params)
			if err != nil {
				return pageDataMsg{page: page, seq: seq, err: err}
			}
			wfs, err := store.ListAs[api.Workflow](ctx, st, api.KindWorkflow, params)
			if err != nil {
				return pageDataMsg{page: page, seq: seq, err: err}
			}
			data := policiesData{Policies: pols, Workflows: wfs.Items}
			return pageDataMsg{page: page, seq: seq, value: data, count: len(pols.Items), err: nil}

		case PageWorkflows:
			pg, err := store.ListAs[api.Workflow](ctx, st, api.KindWorkflow, api.Params{TenantID: filter})
			return pageDataMsg{page: page, seq: seq, value: pg, count: len(pg.Items), err: err}

		case PageLineage:
			pg, err := store.ListAs[api.LineageEvent](ctx, st, api.KindLineageEvent, api.Params{TenantID: filter})
			return pageDataMsg{page: page, seq: seq, value: pg, count: len(pg.Items), err: err}
		}
		return nil
	}
}

// loadOverview aggregates counts for the dashboard page. A health probe
// failure is part of the payload, not a page error: the counts that did
// resolve still render.
func loadOverview(ctx context.Context, st *store.Store, client api.Client) (overview, error) {
	ov := overview{healthErr: client.Health(ctx)}

	tenants, err := store.ListAs[api.Tenant](ctx, st, api.KindTenant, api.Params{})
	if err != nil {
		return ov, err
	}
	ov.tenants = tenants.Total

	policies, err := store.ListAs[api.Policy](ctx, st, api.KindPolicy, api.Params{})
	if err != nil {
		return ov, err
	}
	ov.policies = policies.Total

	workflows, err := store.ListAs[api.Workflow](ctx, st, api.KindWorkflow, api.Params{})
	if err != nil {
		return ov, err
	}
	ov.workflows = workflows.Total
	for _, w := range workflows.Items {
		switch w.Status {
		case api.WorkflowRunning:
			ov.running++
		case api.WorkflowFailed:
			ov.failed++
		}
	}

	lineage, err := store.ListAs[api.LineageEvent](ctx, st, api.KindLineageEvent, api.Params{})
	if err != nil {
		return ov, err
	}
	ov.lineage = lineage.Total

	return ov, nil
}
