// Package tui renders the control-plane dashboard.
//
// One page per route (dashboard, tenants, policies, workflows, lineage).
// The bubbletea loop is the single UI thread: fetches run as commands and
// come back as messages, each stamped with the navigation sequence it was
// issued under so a superseded response is dropped instead of applied.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/planedeck/planedeck/pkg/api"
	"github.com/planedeck/planedeck/pkg/binder"
	"github.com/planedeck/planedeck/pkg/policy"
	"github.com/planedeck/planedeck/pkg/store"
)

// Page is one dashboard route.
type Page int

const (
	PageDashboard Page = iota
	PageTenants
	PagePolicies
	PageWorkflows
	PageLineage
	pageCount
)

func (p Page) String() string {
	switch p {
	case PageDashboard:
		return "Dashboard"
	case PageTenants:
		return "Tenants"
	case PagePolicies:
		return "Policies"
	case PageWorkflows:
		return "Workflows"
	case PageLineage:
		return "Lineage"
	}
	return "?"
}

func (p Page) kind() api.ResourceKind {
	switch p {
	case PageTenants:
		return api.KindTenant
	case PagePolicies:
		return api.KindPolicy
	case PageWorkflows:
		return api.KindWorkflow
	case PageLineage:
		return api.KindLineageEvent
	}
	return ""
}

// row is one rendered list line plus the entity behind it.
type row struct {
	id     string
	cells  []string
	status string
	entity any
}

// pane is the per-page view state: its binder, flattened rows, cursor.
type pane struct {
	binder         *binder.Binder
	rows           []row
	cursor         int
	showingDetails bool
}

// overview is the dashboard page payload.
type overview struct {
	healthErr error
	tenants   int
	policies  int
	workflows int
	lineage   int
	running   int
	failed    int
}

// policiesData is the policies page payload. Workflows ride along so the
// details pane can preview rule matches without a second navigation.
type policiesData struct {
	Policies  api.Page[api.Policy]
	Workflows []api.Workflow
}

type Model struct {
	store     *store.Store
	client    api.Client
	policyEng *policy.Engine

	spinner spinner.Model
	page    Page
	panes   [pageCount]pane

	// tenantFilter narrows policies/workflows/lineage to one tenant.
	// Changing it is a navigation-parameter change: back to Loading.
	tenantFilter string

	width  int
	height int

	// seq stamps every issued fetch; a message with an older seq is a
	// response to a superseded request and is discarded.
	seq    int
	cancel func()

	statusMsg  string
	statusTime time.Time
	quitting   bool
}

// NewModel builds the dashboard over a store and client.
func NewModel(st *store.Store, client api.Client, eng *policy.Engine) Model {
	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = special

	m := Model{
		store:     st,
		client:    client,
		policyEng: eng,
		spinner:   s,
		page:      PageDashboard,
	}
	for i := range m.panes {
		m.panes[i] = pane{binder: binder.New()}
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		func() tea.Msg { return initMsg{} },
	)
}

// Filter returns the active tenant filter ("" when unfiltered).
func (m Model) Filter() string {
	return m.tenantFilter
}
