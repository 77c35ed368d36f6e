// Package export serializes cached resource pages for downstream tooling.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/planedeck/planedeck/pkg/api"
)

// Format is an output encoding.
type Format string

const (
	FormatJSON  Format = "json"
	FormatCSV   Format = "csv"
	FormatYAML  Format = "yaml"
	FormatTable Format = "table"
)

// ParseFormat validates a user-supplied format string.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatJSON, FormatCSV, FormatYAML, FormatTable:
		return Format(s), nil
	}
	return "", fmt.Errorf("unknown format %q (json, csv, yaml, table)", s)
}

// Write serializes one page of kind to w. The page value is the same `any`
// the store caches: api.Page[T] with T matching the kind.
func Write(w io.Writer, format Format, kind api.ResourceKind, page any) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(page)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(page)
	case FormatCSV:
		header, records, err := tabulate(kind, page)
		if err != nil {
			return err
		}
		cw := csv.NewWriter(w)
		if err := cw.Write(header); err != nil {
			return err
		}
		for _, rec := range records {
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	case FormatTable:
		header, records, err := tabulate(kind, page)
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, strings.Join(header, "\t"))
		for _, rec := range records {
			fmt.Fprintln(tw, strings.Join(rec, "\t"))
		}
		return tw.Flush()
	}
	return fmt.Errorf("unknown format %q", format)
}

func tabulate(kind api.ResourceKind, page any) ([]string, [][]string, error) {
	switch kind {
	case api.KindTenant:
		p, ok := page.(api.Page[api.Tenant])
		if !ok {
			return nil, nil, fmt.Errorf("page is not %s", kind)
		}
		header := []string{"ID", "Name", "DisplayName", "Status", "CreatedAt"}
		var recs [][]string
		for _, t := range p.Items {
			recs = append(recs, []string{t.ID, t.Name, t.DisplayName, t.Status, stamp(t.CreatedAt)})
		}
		return header, recs, nil

	case api.KindPolicy:
		p, ok := page.(api.Page[api.Policy])
		if !ok {
			return nil, nil, fmt.Errorf("page is not %s", kind)
		}
		header := []string{"ID", "TenantID", "Name", "Mode", "Enabled", "Rule"}
		var recs [][]string
		for _, pol := range p.Items {
			recs = append(recs, []string{pol.ID, pol.TenantID, pol.Name, pol.Mode, strconv.FormatBool(pol.Enabled), pol.Rule})
		}
		return header, recs, nil

	case api.KindWorkflow:
		p, ok := page.(api.Page[api.Workflow])
		if !ok {
			return nil, nil, fmt.Errorf("page is not %s", kind)
		}
		header := []string{"ID", "TenantID", "Name", "Status", "StartedAt", "FinishedAt", "Error"}
		var recs [][]string
		for _, wf := range p.Items {
			finished := ""
			if wf.FinishedAt != nil {
				finished = stamp(*wf.FinishedAt)
			}
			recs = append(recs, []string{wf.ID, wf.TenantID, wf.Name, wf.Status, stamp(wf.StartedAt), finished, wf.Error})
		}
		return header, recs, nil

	case api.KindLineageEvent:
		p, ok := page.(api.Page[api.LineageEvent])
		if !ok {
			return nil, nil, fmt.Errorf("page is not %s", kind)
		}
		header := []string{"EventTime", "EventType", "RunID", "Job", "Inputs", "Outputs"}
		var recs [][]string
		for _, e := range p.Items {
			recs = append(recs, []string{
				stamp(e.EventTime),
				e.EventType,
				e.Run.RunID,
				e.Job.Namespace + "/" + e.Job.Name,
				strconv.Itoa(len(e.Inputs)),
				strconv.Itoa(len(e.Outputs)),
			})
		}
		return header, recs, nil
	}
	return nil, nil, fmt.Errorf("unknown kind %q", kind)
}

func stamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
