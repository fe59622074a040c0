package eval

import (
	"fmt"

	"github.com/danielpatrickdp/layered-annotator/internal/analyzer"
	"github.com/danielpatrickdp/layered-annotator/internal/report"
	"github.com/danielpatrickdp/layered-annotator/internal/session"
)

// #region eval-harness
// EvalHarness checks the structural invariants of a unified report.
type EvalHarness struct {
	config EvalConfig
}

// NewEvalHarness creates an eval harness with the given configuration.
func NewEvalHarness(config EvalConfig) *EvalHarness {
	return &EvalHarness{config: config}
}

// Run validates rep as the output of ProcessReality over batch.
// Every check is recorded as a metric; any failing check fails the run.
func (h *EvalHarness) Run(batch report.Batch, rep report.UnifiedReport) EvalResult {
	var metrics []EvalMetric
	var failReasons []string

	check := func(name string, value float64, pass bool, reason string) {
		metrics = append(metrics, EvalMetric{Name: name, Value: value, Pass: pass})
		if !pass {
			failReasons = append(failReasons, reason)
		}
	}

	// 1. Score bounds across every finding in the report
	outOfRange := 0
	for _, f := range allFindings(rep) {
		if f.Score < h.config.MinScore || f.Score > h.config.MaxScore {
			outOfRange++
		}
	}
	check("scores_out_of_range", float64(outOfRange), outOfRange == 0,
		fmt.Sprintf("%d scores outside [%.2f, %.2f]", outOfRange, h.config.MinScore, h.config.MaxScore))

	// 2. One entropy aggregate plus one observer finding per element
	meta := rep.Metaphysical
	wantInsights := 1 + len(batch)
	check("insight_count", float64(len(meta.Insights)), len(meta.Insights) == wantInsights,
		fmt.Sprintf("insight count %d, want %d", len(meta.Insights), wantInsights))

	// 3. Entropy summary agrees with its principles
	tierOK := meta.Entropy.Detected == len(meta.Entropy.Principles) &&
		meta.Entropy.Tier == string(analyzer.ClassifyTier(meta.Entropy.Detected))
	check("entropy_tier", float64(meta.Entropy.Detected), tierOK,
		fmt.Sprintf("tier %q inconsistent with %d principles", meta.Entropy.Tier, len(meta.Entropy.Principles)))

	// 4. Fixed coordination detector count
	coord := rep.Coordination
	check("pattern_count", float64(len(coord.Patterns)), len(coord.Patterns) == h.config.PatternCount,
		fmt.Sprintf("pattern count %d, want %d", len(coord.Patterns), h.config.PatternCount))

	// 5. Detected follows the positive count threshold
	wantDetected := len(coord.Patterns) > h.config.MinDetected
	check("detected_consistent", boolValue(coord.Detected), coord.Detected == wantDetected,
		fmt.Sprintf("detected=%v with %d patterns", coord.Detected, len(coord.Patterns)))

	// 6. Processing never leaves the session below expanded
	mode, err := session.ParseMode(meta.State)
	modeOK := err == nil && mode.AtLeast(session.ModeExpanded)
	check("state_at_least_expanded", float64(mode), modeOK,
		fmt.Sprintf("state %q below expanded", meta.State))

	passed := len(failReasons) == 0
	reason := "all checks passed"
	if !passed {
		reason = fmt.Sprintf("eval failed: %s", failReasons[0])
		if len(failReasons) > 1 {
			reason = fmt.Sprintf("eval failed: %d checks: %s", len(failReasons), failReasons[0])
		}
	}

	return EvalResult{
		Passed:  passed,
		Metrics: metrics,
		Reason:  reason,
	}
}

// #endregion eval-harness

// #region helpers
func allFindings(rep report.UnifiedReport) []report.Finding {
	meta := rep.Metaphysical
	out := make([]report.Finding, 0, len(meta.Insights)+len(meta.Entropy.Principles)+len(rep.Coordination.Patterns)+3)
	out = append(out, meta.Insights...)
	out = append(out, meta.Entropy.Principles...)
	out = append(out, meta.Summary)
	out = append(out, rep.Coordination.Patterns...)
	out = append(out, rep.Coordination.Purpose, rep.Synthesis)
	return out
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// #endregion helpers
