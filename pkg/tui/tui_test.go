package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/planedeck/planedeck/pkg/api"
	"github.com/planedeck/planedeck/pkg/binder"
	"github.com/planedeck/planedeck/pkg/policy"
	"github.com/planedeck/planedeck/pkg/store"
)

func newTestModel(t *testing.T) (Model, *api.Mock) {
	t.Helper()
	mock := api.NewMock()
	st := store.New(mock)
	t.Cleanup(st.Close)

	eng, err := policy.NewEngine(nil)
	if err != nil {
		t.Fatalf("policy engine: %v", err)
	}

	m := NewModel(st, mock, eng)
	m.width = 120
	m.height = 40
	return m, mock
}

// drive feeds one message through Update and unwraps the model.
func drive(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return out, cmd
}

// open navigates to a page and resolves its fetch synchronously.
func open(t *testing.T, m Model, key string) Model {
	t.Helper()
	m, cmd := drive(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)})
	if cmd == nil {
		t.Fatal("navigation issued no fetch command")
	}
	m, _ = drive(t, m, cmd())
	return m
}

func TestPageRenderStates(t *testing.T) {
	tests := []struct {
		name     string
		msg      func(m Model) tea.Msg
		want     []string
		dontWant []string
	}{
		{
			name: "ready page lists rows",
			msg: func(m Model) tea.Msg {
				pg := api.Page[api.Tenant]{Items: api.NewMock().Tenants, Total: 3}
				return pageDataMsg{page: PageTenants, seq: m.seq, value: pg, count: 3}
			},
			want: []string{"t-acme", "Acme Corp", "t-initech", "suspended"},
		},
		{
			name: "empty page says so",
			msg: func(m Model) tea.Msg {
				return pageDataMsg{page: PageTenants, seq: m.seq, value: api.Page[api.Tenant]{}, count: 0}
			},
			want:     []string{"No tenants found"},
			dontWant: []string{"t-acme"},
		},
		{
			name: "server error renders inline",
			msg: func(m Model) tea.Msg {
				err := &api.StatusError{Code: 503, Reason: "upstream timeout"}
				return pageDataMsg{page: PageTenants, seq: m.seq, err: err}
			},
			want:     []string{"server error (HTTP 503)", "upstream timeout", "r: retry"},
			dontWant: []string{"panic"},
		},
		{
			name: "unauthorized names the fix",
			msg: func(m Model) tea.Msg {
				return pageDataMsg{page: PageTenants, seq: m.seq, err: api.ErrUnauthorized}
			},
			want: []string{"unauthorized", "check your token"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := newTestModel(t)
			m, cmd := drive(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("2")})
			_ = cmd // the canned message below stands in for the fetch

			m, _ = drive(t, m, tt.msg(m))
			view := m.View()

			for _, want := range tt.want {
				if !strings.Contains(view, want) {
					t.Errorf("view missing %q\n%s", want, view)
				}
			}
			for _, dont := range tt.dontWant {
				if strings.Contains(view, dont) {
					t.Errorf("view unexpectedly contains %q", dont)
				}
			}
		})
	}
}

func TestLoadingStateShowsSpinner(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = drive(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("2")})

	// Fetch not resolved yet: the page must announce itself as loading.
	if view := m.View(); !strings.Contains(view, "Fetching tenants") {
		t.Errorf("loading view missing fetch notice:\n%s", view)
	}
}

func TestNavigationDiscardsSupersededResponse(t *testing.T) {
	m, _ := newTestModel(t)

	// Open tenants; keep its fetch unresolved.
	m, cmd := drive(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("2")})
	staleSeq := m.seq
	stale := cmd() // response computed now, delivered late

	// Navigate away before the response lands.
	m, _ = drive(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("4")})
	if m.seq == staleSeq {
		t.Fatal("navigation did not advance the sequence")
	}

	m, _ = drive(t, m, stale)

	// The late response must not leak into any pane.
	if st := m.panes[PageTenants].binder.State(); st.Phase != binder.Loading {
		t.Errorf("stale response was applied: tenants pane is %s", st.Phase)
	}
	if rows := m.panes[PageTenants].rows; len(rows) != 0 {
		t.Errorf("stale response populated %d rows", len(rows))
	}
}

func TestRefreshDropsCacheAndRefetches(t *testing.T) {
	m, mock := newTestModel(t)
	m = open(t, m, "2")
	calls := mock.Calls

	// A repeat navigation inside the TTL is served from cache.
	m = open(t, m, "2")
	if mock.Calls != calls {
		t.Fatalf("fresh cache hit still called the backend (%d -> %d)", calls, mock.Calls)
	}

	// Explicit refresh must bypass it.
	m, cmd := drive(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	m, _ = drive(t, m, cmd())
	if mock.Calls != calls+1 {
		t.Errorf("refresh did not refetch: %d calls, want %d", mock.Calls, calls+1)
	}
	if st := m.panes[PageTenants].binder.State(); st.Phase != binder.Ready {
		t.Errorf("refreshed page is %s, want ready", st.Phase)
	}
}

func TestTenantFilterJumpsToWorkflows(t *testing.T) {
	m, _ := newTestModel(t)
	m = open(t, m, "2")

	// Cursor starts on t-acme; adopt it as filter.
	m, cmd := drive(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("t")})
	if m.page != PageWorkflows {
		t.Fatalf("t key landed on %s, want workflows", m.page)
	}
	if m.Filter() != "t-acme" {
		t.Fatalf("filter is %q, want t-acme", m.Filter())
	}
	m, _ = drive(t, m, cmd())

	rows := m.panes[PageWorkflows].rows
	if len(rows) != 2 {
		t.Fatalf("filtered workflows: got %d rows, want 2", len(rows))
	}
	for _, r := range rows {
		wf := r.entity.(api.Workflow)
		if wf.TenantID != "t-acme" {
			t.Errorf("row %s leaked tenant %s through the filter", wf.ID, wf.TenantID)
		}
	}

	// esc clears the filter and reloads unfiltered.
	m, cmd = drive(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.Filter() != "" {
		t.Fatalf("filter not cleared: %q", m.Filter())
	}
	m, _ = drive(t, m, cmd())
	if got := len(m.panes[PageWorkflows].rows); got != 4 {
		t.Errorf("unfiltered workflows: got %d rows, want 4", got)
	}
}

func TestDetailsPane(t *testing.T) {
	m, _ := newTestModel(t)
	m = open(t, m, "4")

	// Move to the failed workflow and open details.
	for m.panes[PageWorkflows].rows[m.panes[PageWorkflows].cursor].id != "wf-sync-209" {
		m, _ = drive(t, m, tea.KeyMsg{Type: tea.KeyDown})
	}
	m, _ = drive(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	view := m.View()
	for _, want := range []string{"wf-sync-209", "upstream timeout after 3 attempts", "t-globex", "[FAIL]"} {
		if !strings.Contains(view, want) {
			t.Errorf("details missing %q", want)
		}
	}

	// esc closes details without touching the filter.
	m, _ = drive(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.panes[PageWorkflows].showingDetails {
		t.Error("details still open after esc")
	}
}

func TestWorkflowStatusIcons(t *testing.T) {
	tests := []struct {
		id   string
		icon string
	}{
		{"wf-ingest-001", "[WARN]"},
		{"wf-etl-114", "[OK]"},
		{"wf-sync-209", "[FAIL]"},
		{"wf-bkp-017", "[....]"},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			m, _ := newTestModel(t)
			m = open(t, m, "4")
			for m.panes[PageWorkflows].rows[m.panes[PageWorkflows].cursor].id != tt.id {
				m, _ = drive(t, m, tea.KeyMsg{Type: tea.KeyDown})
			}
			m, _ = drive(t, m, tea.KeyMsg{Type: tea.KeyEnter})

			if view := m.View(); !strings.Contains(view, tt.icon) {
				t.Errorf("details for %s missing status icon %q", tt.id, tt.icon)
			}
		})
	}
}

func TestPolicyPreviewCountsMatches(t *testing.T) {
	m, _ := newTestModel(t)
	m = open(t, m, "3")
	m, _ = drive(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	// p-retention (`status == "failed"`) matches wf-sync-209 of the four
	// cached workflows.
	view := m.View()
	if !strings.Contains(view, "1 of 4 cached workflows") {
		t.Errorf("policy preview missing match count:\n%s", view)
	}
	if !strings.Contains(view, "wf-sync-209") {
		t.Error("policy preview missing matched workflow id")
	}
}

func TestDashboardOverview(t *testing.T) {
	m, _ := newTestModel(t)
	m, cmd := drive(t, m, initMsg{})
	m, _ = drive(t, m, cmd())

	view := m.View()
	for _, want := range []string{"API healthy", "tenants", "workflows", "running", "failed"} {
		if !strings.Contains(view, want) {
			t.Errorf("dashboard missing %q\n%s", want, view)
		}
	}
}

func TestQuitCancelsInFlight(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = drive(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("2")})

	m, cmd := drive(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("quit returned no command")
	}
	if !strings.Contains(m.View(), "planedeck out") {
		t.Error("quit view missing sign-off")
	}
}
