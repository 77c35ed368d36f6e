package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/planedeck/planedeck/pkg/config"
)

var StatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Probe the control-plane API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		client := newAPIClient(cfg, newLogger(cfg))

		ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
		defer cancel()

		start := time.Now()
		if err := client.Health(ctx); err != nil {
			return fmt.Errorf("%s is unhealthy: %w", cfg.APIURL, err)
		}
		fmt.Printf("%s is healthy (%s)\n", cfg.APIURL, time.Since(start).Round(time.Millisecond))
		return nil
	},
}
