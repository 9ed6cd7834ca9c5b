package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newHealthCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the configured OpenRouter key and model respond",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := ctx.newClient()
			if err != nil {
				return err
			}
			started := time.Now()
			if err := client.HealthCheck(cmd.Context()); err != nil {
				return fmt.Errorf("health check failed: %w", err)
			}
			elapsed := time.Since(started).Round(time.Millisecond)
			if ctx.jsonOutput() {
				return writeJSON(cmd, map[string]any{
					"ok":         true,
					"model":      client.Model(),
					"elapsed_ms": elapsed.Milliseconds(),
				})
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "OpenRouter OK (model %s, %s)\n", client.Model(), elapsed)
			return nil
		},
	}
}
