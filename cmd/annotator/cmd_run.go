package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/danielpatrickdp/layered-annotator/internal/codec"
	"github.com/danielpatrickdp/layered-annotator/internal/orchestrator"
	"github.com/danielpatrickdp/layered-annotator/internal/report"
	"github.com/danielpatrickdp/layered-annotator/internal/state"
)

type runOpts struct {
	level   float64
	seed    uint64
	dbPath  string
	jsonOut bool
	remote  string
}

func newRunCmd(g *globalOpts) *cobra.Command {
	opts := &runOpts{}
	cmd := &cobra.Command{
		Use:   "run [tokens...]",
		Short: "Process one batch of tokens and print the unified report",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cmd, g, opts, args)
		},
	}
	cmd.Flags().Float64Var(&opts.level, "level", orchestrator.DefaultIntegration, "integration level in [0,1]")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "random seed (0 = from config, else clock)")
	cmd.Flags().StringVar(&opts.dbPath, "db", "", "persist the session and report to this SQLite file")
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "output as JSON")
	cmd.Flags().StringVar(&opts.remote, "remote", "", "send the batch to an annotator server instead of running locally")
	return cmd
}

func runRun(cmd *cobra.Command, g *globalOpts, opts *runOpts, args []string) error {
	cfg, logger, err := g.setup()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	level := cfg.IntegrationLevel
	if cmd.Flags().Changed("level") {
		level = opts.level
	}
	batch := report.Batch(args)
	if batch == nil {
		batch = report.Batch{}
	}

	if opts.remote != "" {
		return runRemote(cmd, opts, batch, level)
	}

	oc := cfg.Orchestrator()
	if opts.seed != 0 {
		oc.Seed = opts.seed
	}
	o := orchestrator.NewWithConfig(oc, logger)

	dbPath := cfg.DBPath
	if opts.dbPath != "" {
		dbPath = opts.dbPath
	}
	var rec *state.Recorder
	if dbPath != "" {
		store, err := state.NewStore(dbPath)
		if err != nil {
			return err
		}
		defer store.Close()
		if rec, err = state.NewRecorder(store, o.Session().Snapshot()); err != nil {
			return err
		}
	}

	var (
		rep      report.UnifiedReport
		reportID string
	)
	if rec == nil {
		if rep, err = o.ProcessReality(batch, level); err != nil {
			return err
		}
	} else {
		var saved state.ReportRecord
		if rep, saved, err = rec.RecordProcess(o, batch, level); err != nil {
			return err
		}
		reportID = saved.ReportID
		logger.Info("report saved",
			zap.String("report_id", saved.ReportID),
			zap.String("session_id", rec.SessionID()),
		)
	}

	if opts.jsonOut {
		return printJSON(cmd.OutOrStdout(), rep)
	}
	renderReport(cmd.OutOrStdout(), reportID, batch, rep)
	return nil
}

func runRemote(cmd *cobra.Command, opts *runOpts, batch report.Batch, level float64) error {
	client, err := codec.NewClient(opts.remote)
	if err != nil {
		return err
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()
	res, err := client.ProcessReality(ctx, batch, level)
	if err != nil {
		return err
	}
	if opts.jsonOut {
		return printJSON(cmd.OutOrStdout(), res.Report)
	}
	renderReport(cmd.OutOrStdout(), res.ReportID, batch, res.Report)
	return nil
}
