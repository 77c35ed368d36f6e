// Package api is the typed HTTP contract with the control-plane backend.
//
// All entities are owned by the backend system of record; values returned
// here are read-only snapshots.
package api

import (
	"encoding/json"
	"net/url"
	"strconv"
	"time"
)

// ResourceKind names one of the resource collections exposed by the API.
type ResourceKind string

const (
	KindTenant       ResourceKind = "tenants"
	KindPolicy       ResourceKind = "policies"
	KindWorkflow     ResourceKind = "workflows"
	KindLineageEvent ResourceKind = "lineage"
)

// Kinds lists every resource kind in display order.
func Kinds() []ResourceKind {
	return []ResourceKind{KindTenant, KindPolicy, KindWorkflow, KindLineageEvent}
}

// Tenant is a multi-tenant organization unit.
type Tenant struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	DisplayName string    `json:"display_name,omitempty"`
	Status      string    `json:"status"` // "active", "suspended", "deleting"
	CreatedAt   time.Time `json:"created_at"`
}

// Policy is a governance rule scoped to a tenant. Rule holds a CEL
// expression evaluated by the backend; the client only previews it.
type Policy struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenant_id"`
	Name      string    `json:"name"`
	Rule      string    `json:"rule"`
	Mode      string    `json:"mode"` // "enforce" or "warn"
	Enabled   bool      `json:"enabled"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Workflow statuses as reported by the backend.
const (
	WorkflowPending   = "pending"
	WorkflowRunning   = "running"
	WorkflowSucceeded = "succeeded"
	WorkflowFailed    = "failed"
)

// Workflow is a monitored stateful process instance.
type Workflow struct {
	ID         string     `json:"id"`
	TenantID   string     `json:"tenant_id"`
	Name       string     `json:"name"`
	Status     string     `json:"status"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	Error      string     `json:"error,omitempty"`
}

// Dataset is an OpenLineage dataset reference.
type Dataset struct {
	Namespace string          `json:"namespace"`
	Name      string          `json:"name"`
	Facets    json.RawMessage `json:"facets,omitempty"`
}

// LineageRun identifies the run a lineage event belongs to.
type LineageRun struct {
	RunID  string          `json:"runId"`
	Facets json.RawMessage `json:"facets,omitempty"`
}

// LineageJob identifies the job a lineage event belongs to.
type LineageJob struct {
	Namespace string          `json:"namespace"`
	Name      string          `json:"name"`
	Facets    json.RawMessage `json:"facets,omitempty"`
}

// LineageEvent is an immutable OpenLineage RunEvent. Facets are kept raw;
// the dashboard renders them opaquely and never interprets producer schemas.
type LineageEvent struct {
	EventType string     `json:"eventType"` // START, RUNNING, COMPLETE, ABORT, FAIL
	EventTime time.Time  `json:"eventTime"`
	Run       LineageRun `json:"run"`
	Job       LineageJob `json:"job"`
	Inputs    []Dataset  `json:"inputs,omitempty"`
	Outputs   []Dataset  `json:"outputs,omitempty"`
	Producer  string     `json:"producer,omitempty"`
	SchemaURL string     `json:"schemaURL,omitempty"`
}

// ID returns a stable identity for an event. Lineage events carry no
// top-level id field; run id plus event type plus time is unique enough
// for cache keys and cursor display.
func (e LineageEvent) ID() string {
	return e.Run.RunID + "/" + e.EventType + "/" + e.EventTime.UTC().Format(time.RFC3339Nano)
}

// Page is one page of a listed collection.
type Page[T any] struct {
	Items      []T    `json:"items"`
	Total      int    `json:"total"`
	NextCursor string `json:"next_cursor,omitempty"`
}

// Params filters a list request. The zero value lists everything.
type Params struct {
	TenantID string
	Status   string
	Cursor   string
	Limit    int
}

// Encode renders params as a canonical query string. url.Values sorts
// keys, so equal params always encode identically; the store relies on
// that for cache keys.
func (p Params) Encode() string {
	q := url.Values{}
	if p.TenantID != "" {
		q.Set("tenant", p.TenantID)
	}
	if p.Status != "" {
		q.Set("status", p.Status)
	}
	if p.Cursor != "" {
		q.Set("cursor", p.Cursor)
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	return q.Encode()
}

// DecodeParams is the inverse of Params.Encode.
func DecodeParams(s string) Params {
	q, err := url.ParseQuery(s)
	if err != nil {
		return Params{}
	}
	limit, _ := strconv.Atoi(q.Get("limit"))
	return Params{
		TenantID: q.Get("tenant"),
		Status:   q.Get("status"),
		Cursor:   q.Get("cursor"),
		Limit:    limit,
	}
}
