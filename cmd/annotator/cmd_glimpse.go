package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/layered-annotator/internal/codec"
	"github.com/danielpatrickdp/layered-annotator/internal/orchestrator"
	"github.com/danielpatrickdp/layered-annotator/internal/report"
)

func newGlimpseCmd(g *globalOpts) *cobra.Command {
	var jsonOut bool
	var remote string
	cmd := &cobra.Command{
		Use:   "glimpse",
		Short: "Print the fixed glimpse result",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := g.setup()
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			var res report.GlimpseResult
			if remote != "" {
				client, err := codec.NewClient(remote)
				if err != nil {
					return err
				}
				defer client.Close()
				ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
				defer cancel()
				if res, err = client.Glimpse(ctx); err != nil {
					return err
				}
			} else {
				res = orchestrator.NewWithConfig(cfg.Orchestrator(), logger).Glimpse()
			}

			if jsonOut {
				return printJSON(cmd.OutOrStdout(), res)
			}
			renderGlimpse(cmd.OutOrStdout(), res)
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "output as JSON")
	cmd.Flags().StringVar(&remote, "remote", "", "ask an annotator server instead of running locally")
	return cmd
}
