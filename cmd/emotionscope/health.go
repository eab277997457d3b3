package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/csheth/emotionscope/internal/analyzer"
	"github.com/csheth/emotionscope/internal/config"
)

const healthTimeout = 10 * time.Second

func newHealthCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the analysis backend is up",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath, cmd.Flags())
			if err != nil {
				return err
			}
			client, err := analyzer.New(analyzer.Config{BaseURL: cfg.Backend.URL, Timeout: cfg.Backend.Timeout})
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), healthTimeout)
			defer cancel()
			h, err := client.Health(ctx)
			if err != nil {
				return fmt.Errorf("backend %s unreachable: %w", client.BaseURL(), err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "backend: %s\nstatus: %s\nsentiment_model_loaded: %t\n", client.BaseURL(), h.Status, h.SentimentModelLoaded)
			return nil
		},
	}
}
