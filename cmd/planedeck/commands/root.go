package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/planedeck/planedeck/pkg/api"
	"github.com/planedeck/planedeck/pkg/config"
	"github.com/planedeck/planedeck/pkg/policy"
	"github.com/planedeck/planedeck/pkg/store"
	"github.com/planedeck/planedeck/pkg/telemetry"
	"github.com/planedeck/planedeck/pkg/tui"
	"github.com/planedeck/planedeck/pkg/version"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "planedeck",
	Short: "Control-plane dashboard",
	Long: `PlaneDeck - Terminal dashboard for the control plane

Tenants. Policies. Workflows. Lineage.`,
	Version: version.Current,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()

		logger := newLogger(cfg)
		ctx := cmd.Context()

		shutdown, err := telemetry.Init(ctx, version.AppName, version.Current, cfg.OTLPEndpoint)
		if err != nil {
			return fmt.Errorf("telemetry: %w", err)
		}
		defer shutdown(context.Background())

		client := newAPIClient(cfg, logger)
		st := store.New(client, store.WithTTL(cfg.CacheTTL), store.WithLogger(logger))
		defer st.Close()

		eng, err := policy.NewEngine(logger)
		if err != nil {
			return fmt.Errorf("policy engine: %w", err)
		}

		p := tea.NewProgram(tui.NewModel(st, client, eng), tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("tui: %w", err)
		}
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(func() { config.Init(cfgFile) })

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default ~/.planedeck.yaml)")
	rootCmd.PersistentFlags().String("api-url", config.DefaultAPIURL, "Control-plane API base URL")
	rootCmd.PersistentFlags().String("token", "", "Bearer token")
	rootCmd.PersistentFlags().Duration("cache-ttl", config.DefaultCacheTTL, "Resource cache freshness window")
	rootCmd.PersistentFlags().String("webhook-url", "", "Webhook URL for failure digests")
	rootCmd.PersistentFlags().String("otlp-endpoint", "", "OTLP trace endpoint")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log to stderr")

	// Hidden: canned fixtures instead of a live API
	rootCmd.PersistentFlags().Bool("mock", false, "Run against canned data")
	rootCmd.PersistentFlags().MarkHidden("mock")

	viper.BindPFlag("api_url", rootCmd.PersistentFlags().Lookup("api-url"))
	viper.BindPFlag("token", rootCmd.PersistentFlags().Lookup("token"))
	viper.BindPFlag("cache_ttl", rootCmd.PersistentFlags().Lookup("cache-ttl"))
	viper.BindPFlag("webhook_url", rootCmd.PersistentFlags().Lookup("webhook-url"))
	viper.BindPFlag("otlp_endpoint", rootCmd.PersistentFlags().Lookup("otlp-endpoint"))
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("mock", rootCmd.PersistentFlags().Lookup("mock"))

	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		renderStyledHelp(cmd)
	})

	rootCmd.AddCommand(GetCmd)
	rootCmd.AddCommand(ExportCmd)
	rootCmd.AddCommand(StatusCmd)
}

// newLogger routes logs to stderr only when asked. The TUI owns the
// terminal, so the quiet default discards everything.
func newLogger(cfg config.Config) *slog.Logger {
	if cfg.Verbose {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newAPIClient(cfg config.Config, logger *slog.Logger) api.Client {
	if cfg.MockMode {
		return api.NewMock()
	}
	return api.NewClient(cfg.APIURL, api.WithToken(cfg.Token), api.WithLogger(logger))
}

func renderStyledHelp(cmd *cobra.Command) {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#6366F1")).
		MarginBottom(1)

	flagStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#AAAAAA"))

	fmt.Println(titleStyle.Render(fmt.Sprintf("PLANEDECK %s", version.Current)))
	fmt.Println("Terminal dashboard for the control plane.")

	fmt.Println(titleStyle.Render("USAGE"))
	fmt.Printf("  %s\n\n", cmd.UseLine())

	fmt.Println(titleStyle.Render("COMMANDS"))
	for _, c := range cmd.Commands() {
		if c.IsAvailableCommand() {
			fmt.Printf("  %-12s %s\n", c.Name(), c.Short)
		}
	}
	fmt.Println("")

	fmt.Println(titleStyle.Render("FLAGS"))
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		output := fmt.Sprintf("  --%-15s %s", f.Name, f.Usage)
		if f.DefValue != "" && f.DefValue != "false" && f.DefValue != "0" {
			output += fmt.Sprintf(" (default %s)", f.DefValue)
		}
		fmt.Println(flagStyle.Render(output))
	})
	fmt.Println("")
}
