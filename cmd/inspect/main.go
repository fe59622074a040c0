// inspect prints persisted sessions and reports from an annotator database.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/layered-annotator/internal/eval"
	"github.com/danielpatrickdp/layered-annotator/internal/logging"
	"github.com/danielpatrickdp/layered-annotator/internal/state"
)

// #region main

type inspectOpts struct {
	dbPath    string
	last      int
	reportID  string
	sessionID string
	jsonOut   bool
}

func main() {
	if err := newInspectCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newInspectCmd() *cobra.Command {
	opts := &inspectOpts{}
	cmd := &cobra.Command{
		Use:          "inspect --db path [--last N | --report id | --session id] [--json]",
		Short:        "Inspect persisted annotator sessions and reports",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.reportID != "" && opts.sessionID != "" {
				return errors.New("--report and --session are mutually exclusive")
			}
			store, err := state.NewStore(opts.dbPath)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			defer store.Close()

			w := cmd.OutOrStdout()
			switch {
			case opts.reportID != "":
				return runReportMode(w, store, opts.reportID, opts.jsonOut)
			case opts.sessionID != "":
				return runSessionMode(w, store, opts.sessionID, opts.jsonOut)
			default:
				return runListMode(w, cmd.ErrOrStderr(), store, opts.last, opts.jsonOut)
			}
		},
	}
	cmd.Flags().StringVar(&opts.dbPath, "db", "", "path to the annotator SQLite database")
	cmd.Flags().IntVar(&opts.last, "last", 20, "show N most recent reports")
	cmd.Flags().StringVar(&opts.reportID, "report", "", "show single report detail")
	cmd.Flags().StringVar(&opts.sessionID, "session", "", "show a session and its event log")
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "output as JSON instead of table")
	_ = cmd.MarkFlagRequired("db")
	return cmd
}

// #endregion main

// #region list-mode

type listRow struct {
	ReportID  string  `json:"report_id"`
	SessionID string  `json:"session_id"`
	Elements  int     `json:"elements"`
	Level     float64 `json:"integration_level"`
	State     string  `json:"state"`
	Detected  bool    `json:"detected"`
	Insights  int     `json:"insights"`
	Tier      string  `json:"tier"`
	Eval      bool    `json:"eval_passed"`
	CreatedAt string  `json:"created_at"`
}

func runListMode(w, errw io.Writer, store *state.Store, last int, jsonOut bool) error {
	reports, err := store.ListReports(last)
	if err != nil {
		return err
	}
	if len(reports) == 0 {
		fmt.Fprintln(errw, "no reports found")
		return nil
	}

	harness := eval.NewEvalHarness(eval.DefaultEvalConfig())
	// store returns DESC, reverse for chronological
	rows := make([]listRow, len(reports))
	for i, r := range reports {
		rows[len(reports)-1-i] = listRow{
			ReportID:  r.ReportID,
			SessionID: r.SessionID,
			Elements:  len(r.Batch),
			Level:     r.IntegrationLevel,
			State:     r.State,
			Detected:  r.Detected,
			Insights:  r.InsightCount,
			Tier:      r.Report.Metaphysical.Entropy.Tier,
			Eval:      harness.Run(r.Batch, r.Report).Passed,
			CreatedAt: r.CreatedAt.Format("2006-01-02T15:04:05Z"),
		}
	}

	if jsonOut {
		return printJSON(w, rows)
	}

	fmt.Fprintf(w, "%-10s  %-10s  %5s  %5s  %-10s  %-8s  %-4s  %s\n",
		"Report", "Session", "Elems", "Level", "State", "Detected", "Eval", "Time")
	fmt.Fprintf(w, "%-10s+-%-10s+-%5s+-%5s+-%-10s+-%-8s+-%-4s+-%s\n",
		"----------", "----------", "-----", "-----", "----------", "--------", "----", "--------------------")
	for _, r := range rows {
		fmt.Fprintf(w, "%-10s  %-10s  %5d  %5.2f  %-10s  %-8v  %-4s  %s\n",
			shortID(r.ReportID), shortID(r.SessionID), r.Elements, r.Level, r.State, r.Detected, passMark(r.Eval), r.CreatedAt)
	}
	return nil
}

// #endregion list-mode

// #region report-mode

type reportOutput struct {
	state.ReportRecord
	Eval eval.EvalResult `json:"eval"`
}

func runReportMode(w io.Writer, store *state.Store, reportID string, jsonOut bool) error {
	r, err := store.GetReport(reportID)
	if err != nil {
		return err
	}
	ev := eval.NewEvalHarness(eval.DefaultEvalConfig()).Run(r.Batch, r.Report)

	if jsonOut {
		return printJSON(w, reportOutput{ReportRecord: r, Eval: ev})
	}

	meta := r.Report.Metaphysical
	fmt.Fprintf(w, "Report:     %s\n", r.ReportID)
	fmt.Fprintf(w, "Session:    %s\n", r.SessionID)
	fmt.Fprintf(w, "Created:    %s\n", r.CreatedAt.Format("2006-01-02T15:04:05Z"))
	fmt.Fprintf(w, "Batch:      %s\n", strings.Join(r.Batch, " "))
	fmt.Fprintf(w, "Level:      %.2f\n", r.IntegrationLevel)
	fmt.Fprintf(w, "State:      %s\n", r.State)
	fmt.Fprintf(w, "Tier:       %s (%d organized)\n", meta.Entropy.Tier, meta.Entropy.Detected)
	fmt.Fprintf(w, "Detected:   %v\n", r.Detected)

	fmt.Fprintf(w, "\nInsights:\n")
	for _, f := range meta.Insights {
		fmt.Fprintf(w, "  %-12s %-48s %.2f\n", f.Source, f.Label, f.Score)
	}

	fmt.Fprintf(w, "\nEval: %s\n", ev.Reason)
	for _, m := range ev.Metrics {
		fmt.Fprintf(w, "  %-24s %8.2f  %s\n", m.Name, m.Value, passMark(m.Pass))
	}
	return nil
}

// #endregion report-mode

// #region session-mode

type sessionOutput struct {
	state.SessionRecord
	Events []logging.Event `json:"events"`
}

func runSessionMode(w io.Writer, store *state.Store, sessionID string, jsonOut bool) error {
	sess, err := store.GetSession(sessionID)
	if err != nil {
		return err
	}
	events, err := logging.ListEvents(store.DB(), sessionID)
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(w, sessionOutput{SessionRecord: sess, Events: events})
	}

	snap := sess.Snapshot
	fmt.Fprintf(w, "Session:     %s\n", sess.SessionID)
	fmt.Fprintf(w, "Mode:        %s\n", snap.Mode)
	fmt.Fprintf(w, "Pathways:    %v\n", snap.PathwaysOpened)
	fmt.Fprintf(w, "Constraints: %s\n", strings.Join(snap.Constraints, ", "))
	fmt.Fprintf(w, "Updated:     %s\n", sess.UpdatedAt.Format("2006-01-02T15:04:05Z"))

	fmt.Fprintf(w, "\nAxioms:\n")
	for _, name := range snap.AxiomNames() {
		fmt.Fprintf(w, "  %-32s %v\n", name, snap.Axioms[name])
	}

	fmt.Fprintf(w, "\nEvents:\n")
	for _, ev := range events {
		fmt.Fprintf(w, "  %-16s %-10s -> %-10s %-10s %s\n",
			ev.Type, ev.ModeBefore, ev.ModeAfter, shortID(ev.ReportID), ev.CreatedAt.Format("2006-01-02T15:04:05Z"))
	}
	return nil
}

// #endregion session-mode

// #region output

func passMark(ok bool) string {
	if ok {
		return "pass"
	}
	return "FAIL"
}

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// #endregion output
