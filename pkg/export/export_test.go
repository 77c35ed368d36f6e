package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/planedeck/planedeck/pkg/api"
)

func fixtureTenants() api.Page[api.Tenant] {
	return api.Page[api.Tenant]{
		Items: []api.Tenant{
			{ID: "t-acme", Name: "acme", DisplayName: "Acme Corp", Status: "active", CreatedAt: time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)},
			{ID: "t-initech", Name: "initech", Status: "suspended", CreatedAt: time.Date(2026, 2, 11, 9, 30, 0, 0, time.UTC)},
		},
		Total: 2,
	}
}

func fixtureWorkflows() api.Page[api.Workflow] {
	started := time.Date(2026, 3, 14, 7, 30, 0, 0, time.UTC)
	done := time.Date(2026, 3, 14, 8, 12, 0, 0, time.UTC)
	return api.Page[api.Workflow]{
		Items: []api.Workflow{
			{ID: "wf-etl-114", TenantID: "t-acme", Name: "nightly-etl", Status: api.WorkflowSucceeded, StartedAt: started, FinishedAt: &done},
			{ID: "wf-sync-209", TenantID: "t-globex", Name: "crm-sync", Status: api.WorkflowFailed, StartedAt: started, Error: "upstream timeout"},
		},
		Total: 2,
	}
}

func TestParseFormat(t *testing.T) {
	for _, ok := range []string{"json", "csv", "yaml"} {
		f, err := ParseFormat(ok)
		require.NoError(t, err)
		require.Equal(t, Format(ok), f)
	}
	_, err := ParseFormat("xml")
	require.Error(t, err)
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatJSON, api.KindTenant, fixtureTenants()))

	g := goldie.New(t)
	g.Assert(t, "tenants_json", buf.Bytes())
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatCSV, api.KindWorkflow, fixtureWorkflows()))

	g := goldie.New(t)
	g.Assert(t, "workflows_csv", buf.Bytes())
}

func TestWriteLineageCSV(t *testing.T) {
	page := api.Page[api.LineageEvent]{
		Items: []api.LineageEvent{
			{
				EventType: "COMPLETE",
				EventTime: time.Date(2026, 3, 14, 10, 12, 0, 0, time.UTC),
				Run:       api.LineageRun{RunID: "run-66b1"},
				Job:       api.LineageJob{Namespace: "acme", Name: "nightly-etl"},
				Inputs:    []api.Dataset{{Namespace: "warehouse", Name: "staging.orders"}},
				Outputs:   []api.Dataset{{Namespace: "warehouse", Name: "marts.orders_daily"}},
			},
		},
		Total: 1,
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatCSV, api.KindLineageEvent, page))

	g := goldie.New(t)
	g.Assert(t, "lineage_csv", buf.Bytes())
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatTable, api.KindTenant, fixtureTenants()))

	g := goldie.New(t)
	g.Assert(t, "tenants_table", buf.Bytes())
}

func TestWriteYAMLRoundTrips(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatYAML, api.KindPolicy, api.Page[api.Policy]{
		Items: []api.Policy{{ID: "p-retention", TenantID: "t-acme", Name: "retention-90d", Rule: `status == "failed"`, Mode: "warn", Enabled: true}},
		Total: 1,
	}))

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	require.EqualValues(t, 1, decoded["total"])
	items, ok := decoded["items"].([]any)
	require.True(t, ok)
	require.Len(t, items, 1)
}

func TestWriteWrongPageType(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, FormatCSV, api.KindTenant, fixtureWorkflows())
	require.Error(t, err)
}
