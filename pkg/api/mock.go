package api

import (
	"context"
	"encoding/json"
	"time"
)

// Mock is an in-memory Client used by mock mode and tests. Fixture data is
// deterministic so rendered output is stable across runs.
type Mock struct {
	Tenants   []Tenant
	Policies  []Policy
	Workflows []Workflow
	Lineage   []LineageEvent

	// Down makes every call fail with the given error when non-nil.
	Down error

	// Calls counts issued requests (all methods).
	Calls int
}

var _ Client = (*Mock)(nil)

// NewMock returns a Mock pre-loaded with demo fixtures.
func NewMock() *Mock {
	base := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	done := base.Add(42 * time.Minute)
	return &Mock{
		Tenants: []Tenant{
			{ID: "t-acme", Name: "acme", DisplayName: "Acme Corp", Status: "active", CreatedAt: base.AddDate(-1, 0, 0)},
			{ID: "t-globex", Name: "globex", DisplayName: "Globex", Status: "active", CreatedAt: base.AddDate(0, -4, 0)},
			{ID: "t-initech", Name: "initech", DisplayName: "Initech", Status: "suspended", CreatedAt: base.AddDate(0, -1, -3)},
		},
		Policies: []Policy{
			{ID: "p-retention", TenantID: "t-acme", Name: "retention-90d", Rule: `status == "failed"`, Mode: "warn", Enabled: true, UpdatedAt: base},
			{ID: "p-pii-scan", TenantID: "t-acme", Name: "pii-scan-required", Rule: `tenant == "t-acme" && status != "succeeded"`, Mode: "enforce", Enabled: true, UpdatedAt: base},
			{ID: "p-freeze", TenantID: "t-globex", Name: "deploy-freeze", Rule: `status == "running"`, Mode: "enforce", Enabled: false, UpdatedAt: base.AddDate(0, 0, -7)},
		},
		Workflows: []Workflow{
			{ID: "wf-ingest-001", TenantID: "t-acme", Name: "orders-ingest", Status: WorkflowRunning, StartedAt: base},
			{ID: "wf-etl-114", TenantID: "t-acme", Name: "nightly-etl", Status: WorkflowSucceeded, StartedAt: base.Add(-2 * time.Hour), FinishedAt: &done},
			{ID: "wf-sync-209", TenantID: "t-globex", Name: "crm-sync", Status: WorkflowFailed, StartedAt: base.Add(-30 * time.Minute), Error: "upstream timeout after 3 attempts"},
			{ID: "wf-bkp-017", TenantID: "t-initech", Name: "vault-backup", Status: WorkflowPending, StartedAt: base.Add(5 * time.Minute)},
		},
		Lineage: []LineageEvent{
			{
				EventType: "START",
				EventTime: base,
				Run:       LineageRun{RunID: "run-7f3a"},
				Job:       LineageJob{Namespace: "acme", Name: "orders-ingest"},
				Inputs:    []Dataset{{Namespace: "s3://acme-raw", Name: "orders/2026-03-14"}},
				Producer:  "https://github.com/OpenLineage/OpenLineage/tree/1.9.1/integration/airflow",
			},
			{
				EventType: "COMPLETE",
				EventTime: done,
				Run:       LineageRun{RunID: "run-66b1"},
				Job:       LineageJob{Namespace: "acme", Name: "nightly-etl"},
				Inputs:    []Dataset{{Namespace: "warehouse", Name: "staging.orders"}},
				Outputs:   []Dataset{{Namespace: "warehouse", Name: "marts.orders_daily", Facets: json.RawMessage(`{"schema":{"fields":[{"name":"order_id","type":"string"}]}}`)}},
				Producer:  "https://github.com/OpenLineage/OpenLineage/tree/1.9.1/integration/dbt",
			},
			{
				EventType: "FAIL",
				EventTime: base.Add(-10 * time.Minute),
				Run:       LineageRun{RunID: "run-c2d9"},
				Job:       LineageJob{Namespace: "globex", Name: "crm-sync"},
				Inputs:    []Dataset{{Namespace: "salesforce", Name: "contacts"}},
			},
		},
	}
}

func (m *Mock) call(ctx context.Context) error {
	m.Calls++
	if err := ctx.Err(); err != nil {
		return joinNetwork(err)
	}
	return m.Down
}

func page[T any](items []T, total int) Page[T] {
	return Page[T]{Items: items, Total: total}
}

func (m *Mock) ListTenants(ctx context.Context, p Params) (Page[Tenant], error) {
	if err := m.call(ctx); err != nil {
		return Page[Tenant]{}, err
	}
	var out []Tenant
	for _, t := range m.Tenants {
		if p.TenantID != "" && t.ID != p.TenantID {
			continue
		}
		if p.Status != "" && t.Status != p.Status {
			continue
		}
		out = append(out, t)
	}
	return page(clip(out, p.Limit), len(out)), nil
}

func (m *Mock) GetTenant(ctx context.Context, id string) (Tenant, error) {
	if err := m.call(ctx); err != nil {
		return Tenant{}, err
	}
	for _, t := range m.Tenants {
		if t.ID == id {
			return t, nil
		}
	}
	return Tenant{}, ErrNotFound
}

func (m *Mock) ListPolicies(ctx context.Context, p Params) (Page[Policy], error) {
	if err := m.call(ctx); err != nil {
		return Page[Policy]{}, err
	}
	var out []Policy
	for _, pol := range m.Policies {
		if p.TenantID != "" && pol.TenantID != p.TenantID {
			continue
		}
		out = append(out, pol)
	}
	return page(clip(out, p.Limit), len(out)), nil
}

func (m *Mock) GetPolicy(ctx context.Context, id string) (Policy, error) {
	if err := m.call(ctx); err != nil {
		return Policy{}, err
	}
	for _, pol := range m.Policies {
		if pol.ID == id {
			return pol, nil
		}
	}
	return Policy{}, ErrNotFound
}

func (m *Mock) ListWorkflows(ctx context.Context, p Params) (Page[Workflow], error) {
	if err := m.call(ctx); err != nil {
		return Page[Workflow]{}, err
	}
	var out []Workflow
	for _, w := range m.Workflows {
		if p.TenantID != "" && w.TenantID != p.TenantID {
			continue
		}
		if p.Status != "" && w.Status != p.Status {
			continue
		}
		out = append(out, w)
	}
	return page(clip(out, p.Limit), len(out)), nil
}

func (m *Mock) GetWorkflow(ctx context.Context, id string) (Workflow, error) {
	if err := m.call(ctx); err != nil {
		return Workflow{}, err
	}
	for _, w := range m.Workflows {
		if w.ID == id {
			return w, nil
		}
	}
	return Workflow{}, ErrNotFound
}

func (m *Mock) ListLineageEvents(ctx context.Context, p Params) (Page[LineageEvent], error) {
	if err := m.call(ctx); err != nil {
		return Page[LineageEvent]{}, err
	}
	var out []LineageEvent
	for _, e := range m.Lineage {
		if p.TenantID != "" && "t-"+e.Job.Namespace != p.TenantID {
			continue
		}
		out = append(out, e)
	}
	return page(clip(out, p.Limit), len(out)), nil
}

func (m *Mock) Health(ctx context.Context) error {
	return m.call(ctx)
}

func clip[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}
