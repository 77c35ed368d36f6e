package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/planedeck/planedeck/pkg/api"
	"github.com/planedeck/planedeck/pkg/config"
	"github.com/planedeck/planedeck/pkg/export"
)

var (
	getFormat string
	getTenant string
	getStatus string
	getLimit  int
)

var GetCmd = &cobra.Command{
	Use:   "get <tenants|policies|workflows|lineage>",
	Short: "List a resource collection",
	Long: `Fetch one resource collection and print it.

Formats: table, json, csv, yaml.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := parseKind(args[0])
		if err != nil {
			return err
		}
		format, err := export.ParseFormat(getFormat)
		if err != nil {
			return err
		}

		cfg := config.Load()
		client := newAPIClient(cfg, newLogger(cfg))

		ctx := cmd.Context()
		p := api.Params{TenantID: getTenant, Status: getStatus, Limit: getLimit}

		var page any
		switch kind {
		case api.KindTenant:
			page, err = client.ListTenants(ctx, p)
		case api.KindPolicy:
			page, err = client.ListPolicies(ctx, p)
		case api.KindWorkflow:
			page, err = client.ListWorkflows(ctx, p)
		case api.KindLineageEvent:
			page, err = client.ListLineageEvents(ctx, p)
		}
		if err != nil {
			return err
		}

		return export.Write(os.Stdout, format, kind, page)
	},
}

func init() {
	GetCmd.Flags().StringVarP(&getFormat, "output", "o", "table", "Output format (table, json, csv, yaml)")
	GetCmd.Flags().StringVar(&getTenant, "tenant", "", "Filter by tenant ID")
	GetCmd.Flags().StringVar(&getStatus, "status", "", "Filter by status")
	GetCmd.Flags().IntVar(&getLimit, "limit", 0, "Cap the number of items (0 = server default)")
}

func parseKind(s string) (api.ResourceKind, error) {
	for _, k := range api.Kinds() {
		if s == string(k) {
			return k, nil
		}
	}
	names := make([]string, 0, len(api.Kinds()))
	for _, k := range api.Kinds() {
		names = append(names, string(k))
	}
	return "", fmt.Errorf("unknown resource %q (one of %s)", s, strings.Join(names, ", "))
}
