package replay

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/danielpatrickdp/layered-annotator/internal/eval"
	"github.com/danielpatrickdp/layered-annotator/internal/orchestrator"
	"github.com/danielpatrickdp/layered-annotator/internal/report"
	"github.com/danielpatrickdp/layered-annotator/internal/session"
)

// #region types

// Step outcomes.
const (
	ActionOK         = "ok"
	ActionEvalFail   = "eval_fail"
	ActionExpectFail = "expect_fail"
	ActionError      = "error"
)

// StepResult captures the outcome of replaying one fixture step.
type StepResult struct {
	Index      int                   `json:"index"`
	Op         Op                    `json:"op"`
	Action     string                `json:"action"` // "ok" | "eval_fail" | "expect_fail" | "error"
	Reason     string                `json:"reason,omitempty"`
	ModeBefore session.Mode          `json:"mode_before"`
	ModeAfter  session.Mode          `json:"mode_after"`
	Report     *report.UnifiedReport `json:"report,omitempty"` // process only
	EvalResult *eval.EvalResult      `json:"eval,omitempty"`   // process only
}

// ReplaySummary provides aggregate stats from a replay run.
type ReplaySummary struct {
	Name           string       `json:"name"`
	TotalSteps     int          `json:"total_steps"`
	OK             int          `json:"ok"`
	EvalFailures   int          `json:"eval_failures"`
	ExpectFailures int          `json:"expect_failures"`
	Errors         int          `json:"errors"`
	FinalMode      session.Mode `json:"final_mode"`
}

// Passed reports whether every step succeeded.
func (s ReplaySummary) Passed() bool {
	return s.OK == s.TotalSteps
}

// Run is one replayed fixture.
type Run struct {
	Steps   []StepResult  `json:"steps"`
	Summary ReplaySummary `json:"summary"`
}

// #endregion types

// #region replay

// Replay runs every step of f on a single fresh orchestrator, validating
// each report with the eval harness. logger may be nil.
func Replay(f *Fixture, logger *zap.Logger) Run {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("replay").With(zap.String("fixture", f.Name))

	o := orchestrator.NewWithConfig(f.OrchestratorConfig(), logger)
	evalInst := eval.NewEvalHarness(eval.DefaultEvalConfig())
	results := make([]StepResult, 0, len(f.Steps))

	for i := range f.Steps {
		step := &f.Steps[i]
		res := StepResult{Index: i, Op: step.Op, Action: ActionOK, ModeBefore: o.Session().Mode()}

		var rep *report.UnifiedReport
		var stepErr error
		switch step.Op {
		case OpInitialize:
			o.Initialize()
		case OpGlimpse:
			o.Glimpse()
		case OpSetAxiom:
			o.Engine().SetAxiom(step.Axiom, step.Value)
		case OpAddConstraint:
			o.Engine().AddConstraint(step.Constraint)
		case OpProcess:
			var batch report.Batch
			batch, stepErr = step.batch()
			if stepErr == nil {
				var r report.UnifiedReport
				r, stepErr = o.ProcessReality(batch, step.level())
				if stepErr == nil {
					rep = &r
					ev := evalInst.Run(batch, r)
					res.Report = rep
					res.EvalResult = &ev
					if !ev.Passed {
						res.Action = ActionEvalFail
						res.Reason = ev.Reason
					}
				}
			}
		default:
			stepErr = fmt.Errorf("unknown op %q", step.Op)
		}
		res.ModeAfter = o.Session().Mode()

		// 1. Errors: expected or not
		wantErr := ""
		if step.Expect != nil {
			wantErr = step.Expect.Error
		}
		switch {
		case stepErr != nil && wantErr != "" && strings.Contains(stepErr.Error(), wantErr):
			res.Reason = stepErr.Error()
		case stepErr != nil:
			res.Action = ActionError
			res.Reason = stepErr.Error()
		case wantErr != "":
			res.Action = ActionExpectFail
			res.Reason = fmt.Sprintf("expected error containing %q", wantErr)
		}

		// 2. Expectations, once the step itself succeeded
		if res.Action == ActionOK && step.Expect != nil {
			if reason := checkExpect(step.Expect, res.ModeAfter, rep); reason != "" {
				res.Action = ActionExpectFail
				res.Reason = reason
			}
		}

		logger.Debug("step replayed",
			zap.Int("index", i),
			zap.String("op", string(step.Op)),
			zap.String("action", res.Action),
			zap.Stringer("mode", res.ModeAfter),
		)
		results = append(results, res)
	}

	summary := Summarize(f.Name, results, o.Session().Mode())
	logger.Info("fixture replayed",
		zap.Int("steps", summary.TotalSteps),
		zap.Int("ok", summary.OK),
		zap.Bool("passed", summary.Passed()),
	)
	return Run{Steps: results, Summary: summary}
}

func checkExpect(exp *FixtureExpect, mode session.Mode, rep *report.UnifiedReport) string {
	if exp.Mode != "" && exp.Mode != mode.String() {
		return fmt.Sprintf("mode %s, want %s", mode, exp.Mode)
	}
	if rep == nil {
		if exp.Insights != nil || exp.Detected != nil || exp.Tier != "" {
			return "report expectations on a step without a report"
		}
		return ""
	}
	if exp.Insights != nil && len(rep.Metaphysical.Insights) != *exp.Insights {
		return fmt.Sprintf("insights %d, want %d", len(rep.Metaphysical.Insights), *exp.Insights)
	}
	if exp.Detected != nil && rep.Coordination.Detected != *exp.Detected {
		return fmt.Sprintf("detected %v, want %v", rep.Coordination.Detected, *exp.Detected)
	}
	if exp.Tier != "" && rep.Metaphysical.Entropy.Tier != exp.Tier {
		return fmt.Sprintf("tier %q, want %q", rep.Metaphysical.Entropy.Tier, exp.Tier)
	}
	return ""
}

// Summarize computes aggregate stats from replay results.
func Summarize(name string, results []StepResult, finalMode session.Mode) ReplaySummary {
	s := ReplaySummary{
		Name:       name,
		TotalSteps: len(results),
		FinalMode:  finalMode,
	}
	for _, r := range results {
		switch r.Action {
		case ActionOK:
			s.OK++
		case ActionEvalFail:
			s.EvalFailures++
		case ActionExpectFail:
			s.ExpectFailures++
		case ActionError:
			s.Errors++
		}
	}
	return s
}

// #endregion replay

// #region run-all

// RunAll replays fixtures concurrently, at most parallel at a time
// (parallel <= 0 means unbounded). Each fixture gets its own orchestrator.
// Runs are returned in input order.
func RunAll(ctx context.Context, fixtures []*Fixture, parallel int, logger *zap.Logger) ([]Run, error) {
	runs := make([]Run, len(fixtures))
	g, ctx := errgroup.WithContext(ctx)
	if parallel > 0 {
		g.SetLimit(parallel)
	}
	for i, f := range fixtures {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			runs[i] = Replay(f, logger)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("replay: %w", err)
	}
	return runs, nil
}

// #endregion run-all
