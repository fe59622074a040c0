// replay runs YAML fixtures through fresh orchestrators, or re-validates the
// reports stored in an annotator database.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/danielpatrickdp/layered-annotator/internal/eval"
	"github.com/danielpatrickdp/layered-annotator/internal/logging"
	"github.com/danielpatrickdp/layered-annotator/internal/replay"
	"github.com/danielpatrickdp/layered-annotator/internal/state"
)

// errDiverged marks a run that completed but had failing steps or reports.
var errDiverged = errors.New("replay diverged")

// #region main

type replayOpts struct {
	dbPath   string
	parallel int
	jsonOut  bool
	verbose  bool
}

func main() {
	err := newReplayCmd().Execute()
	switch {
	case err == nil:
	case errors.Is(err, errDiverged):
		os.Exit(1)
	default:
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}
}

func newReplayCmd() *cobra.Command {
	opts := &replayOpts{}
	cmd := &cobra.Command{
		Use:   "replay [fixture.yaml...] | --db path",
		Short: "Replay fixtures or re-validate stored reports",
		Long: `With fixture paths, each fixture runs on its own orchestrator and every
step is checked against the eval harness and its expectations.

With --db, every stored report is re-validated against the eval harness.

Exit status is 1 when any step or report fails, 2 on usage or I/O errors.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if (opts.dbPath == "") == (len(args) == 0) {
				return errors.New("give either fixture paths or --db, not both")
			}
			if opts.dbPath != "" {
				return runDBMode(cmd.OutOrStdout(), opts)
			}
			return runFixtureMode(cmd, opts, args)
		},
	}
	cmd.Flags().StringVar(&opts.dbPath, "db", "", "re-validate reports stored in this annotator database")
	cmd.Flags().IntVar(&opts.parallel, "parallel", 4, "fixtures replayed concurrently (0 = unbounded)")
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "output as JSON instead of table")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "log each step")
	return cmd
}

// #endregion main

// #region fixture-mode

func runFixtureMode(cmd *cobra.Command, opts *replayOpts, paths []string) error {
	fixtures := make([]*replay.Fixture, 0, len(paths))
	for _, p := range paths {
		f, err := replay.LoadFixture(p)
		if err != nil {
			return err
		}
		fixtures = append(fixtures, f)
	}

	logCfg := logging.DefaultConfig()
	logCfg.Level = "warn"
	if opts.verbose {
		logCfg.Level = "debug"
	}
	logger, err := logging.NewLogger(logCfg)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	runs, err := replay.RunAll(cmd.Context(), fixtures, opts.parallel, logger)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if opts.jsonOut {
		if err := printJSON(w, runs); err != nil {
			return err
		}
	} else {
		printRuns(w, runs)
	}

	for _, r := range runs {
		if !r.Summary.Passed() {
			logger.Warn("fixture failed", zap.String("fixture", r.Summary.Name))
			return errDiverged
		}
	}
	return nil
}

func printRuns(w io.Writer, runs []replay.Run) {
	fmt.Fprintf(w, "%-20s| %-5s| %-15s| %-12s| %s\n", "Fixture", "Step", "Op", "Action", "Reason")
	fmt.Fprintf(w, "%-20s+%-6s+%-16s+%-13s+%s\n",
		"--------------------", "------", "----------------", "-------------", "------")

	var total, ok int
	for _, r := range runs {
		for _, s := range r.Steps {
			fmt.Fprintf(w, "%-20s| %-5d| %-15s| %-12s| %s\n", r.Summary.Name, s.Index, s.Op, s.Action, s.Reason)
		}
		total += r.Summary.TotalSteps
		ok += r.Summary.OK
	}
	fmt.Fprintf(w, "\nSummary: %d fixtures, %d steps, %d ok, %d diverge\n", len(runs), total, ok, total-ok)
}

// #endregion fixture-mode

// #region db-mode

type dbRow struct {
	ReportID string `json:"report_id"`
	State    string `json:"state"`
	Passed   bool   `json:"passed"`
	Reason   string `json:"reason"`
}

// runDBMode re-validates every stored report, oldest first.
func runDBMode(w io.Writer, opts *replayOpts) error {
	store, err := state.NewStore(opts.dbPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer store.Close()

	var count int
	if err := store.DB().QueryRow(`SELECT COUNT(*) FROM reports`).Scan(&count); err != nil {
		return fmt.Errorf("count reports: %w", err)
	}
	if count == 0 {
		return errors.New("no reports found")
	}
	reports, err := store.ListReports(count)
	if err != nil {
		return err
	}

	harness := eval.NewEvalHarness(eval.DefaultEvalConfig())
	rows := make([]dbRow, len(reports))
	failed := 0
	for i, r := range reports {
		ev := harness.Run(r.Batch, r.Report)
		rows[len(reports)-1-i] = dbRow{ReportID: r.ReportID, State: r.State, Passed: ev.Passed, Reason: ev.Reason}
		if !ev.Passed {
			failed++
		}
	}

	if opts.jsonOut {
		if err := printJSON(w, rows); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(w, "%-36s| %-10s| %-6s| %s\n", "Report", "State", "Eval", "Reason")
		fmt.Fprintf(w, "%-36s+%-11s+%-7s+%s\n",
			"------------------------------------", "-----------", "-------", "------")
		for _, r := range rows {
			mark := "OK"
			if !r.Passed {
				mark = "DIFF"
			}
			fmt.Fprintf(w, "%-36s| %-10s| %-6s| %s\n", r.ReportID, r.State, mark, r.Reason)
		}
		fmt.Fprintf(w, "\nSummary: %d total, %d pass, %d diverge\n", len(rows), len(rows)-failed, failed)
	}

	if failed > 0 {
		return errDiverged
	}
	return nil
}

// #endregion db-mode

// #region output

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}

// #endregion output
