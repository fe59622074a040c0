package reasoning

// #region imports
import (
	"fmt"

	"go.uber.org/zap"

	"github.com/danielpatrickdp/layered-annotator/internal/analyzer"
	"github.com/danielpatrickdp/layered-annotator/internal/report"
	"github.com/danielpatrickdp/layered-annotator/internal/session"
)

// #endregion

// #region constants

// DefaultIntegration is the integration level used when a caller has none.
const DefaultIntegration = 0.8

// interfaceThreshold: levels strictly above this promote the session to ModeInterface.
const interfaceThreshold = 0.7

const processingMode = "Beyond Physics"

// RemovedConstraints is the fixed list reported by ResetConstraints.
var RemovedConstraints = []string{
	"materialism_bias",
	"reductionist_assumptions",
	"linear_causality_only",
	"consciousness_emergent_only",
	"entropy_destructive_only",
	"time_absolute_flow",
	"space_empty_container",
}

// #endregion

// #region config

// Config holds the engine's analyzer settings.
type Config struct {
	Entropy         analyzer.EntropyConfig
	HistoryCapacity int
	Source          analyzer.Source // nil = time-seeded
}

// DefaultConfig returns reference analyzer settings with a time-seeded source.
func DefaultConfig() Config {
	return Config{
		Entropy:         analyzer.DefaultEntropyConfig(),
		HistoryCapacity: analyzer.DefaultHistoryCapacity,
	}
}

// #endregion

// #region engine-struct

// Engine runs the pattern analyzers over a batch and gates them on the
// session mode it shares with the orchestrator.
type Engine struct {
	sess     *session.Session
	entropy  *analyzer.Entropy
	observer *analyzer.Observer
	logger   *zap.Logger
}

// NewEngine wires an engine to sess. logger may be nil.
func NewEngine(sess *session.Session, cfg Config, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	src := cfg.Source
	if src == nil {
		src = analyzer.NewTimeSource()
	}
	return &Engine{
		sess:     sess,
		entropy:  analyzer.NewEntropy(src, cfg.Entropy),
		observer: analyzer.NewObserver(cfg.HistoryCapacity),
		logger:   logger.Named("engine"),
	}
}

// #endregion

// #region reset-constraints

// ResetConstraints clears active constraints and promotes the session to
// ModeExpanded. A session already past ModeExpanded keeps its mode.
func (e *Engine) ResetConstraints() report.ResetResult {
	cleared := len(e.sess.Constraints())
	e.sess.ClearConstraints()
	e.sess.Promote(session.ModeExpanded)

	e.logger.Debug("constraints reset",
		zap.Int("cleared", cleared),
		zap.Stringer("mode", e.sess.Mode()),
	)

	removed := make([]string, len(RemovedConstraints))
	copy(removed, RemovedConstraints)
	return report.ResetResult{
		Status:         "Physics constraints removed",
		Removed:        removed,
		NewState:       e.sess.Mode().String(),
		ProcessingMode: "Consciousness-responsive reality framework",
	}
}

// #endregion

// #region process

// Process runs the entropy analyzer once over batch, then the intuitive
// observer once per element. level must lie in [0,1]; an invalid level
// leaves the session untouched.
func (e *Engine) Process(batch report.Batch, level float64) (report.ProcessResult, error) {
	if err := report.ValidateIntegrationLevel(level); err != nil {
		return report.ProcessResult{}, fmt.Errorf("process: %w", err)
	}

	if level > interfaceThreshold {
		e.sess.Promote(session.ModeInterface)
	}

	ent := e.entropy.Analyze(batch)

	insights := make([]report.Finding, 0, len(batch)+1)
	insights = append(insights, ent.Aggregate)
	for range batch {
		insights = append(insights, e.observer.Observe(analyzer.ObserveIntuitive, level))
	}

	e.logger.Debug("batch processed",
		zap.Int("elements", len(batch)),
		zap.Int("organized", ent.Summary.Detected),
		zap.String("tier", ent.Summary.Tier),
		zap.Stringer("mode", e.sess.Mode()),
	)

	return report.ProcessResult{
		ProcessingMode: processingMode,
		State:          e.sess.Mode().String(),
		Insights:       insights,
		Entropy:        ent.Summary,
		Summary:        framework(),
		ShiftAchieved:  true,
	}, nil
}

// framework is the fixed summary; it does not depend on the insights.
func framework() report.Finding {
	return report.Finding{
		Source:    "framework",
		Label:     "Universe as organized intelligent system",
		Mechanism: "Responsive to conscious observation and intention",
		Role:      "Fundamental creative force, not emergent accident",
		Score:     1,
	}
}

// #endregion

// #region accessors

// Session returns the session the engine mutates.
func (e *Engine) Session() *session.Session {
	return e.sess
}

// SetAxiom toggles a named axiom on the session.
func (e *Engine) SetAxiom(name string, value bool) {
	e.sess.SetAxiom(name, value)
}

// Axioms returns a copy of the session axioms.
func (e *Engine) Axioms() map[string]bool {
	return e.sess.Axioms()
}

// AddConstraint records an active constraint until the next reset.
func (e *Engine) AddConstraint(label string) {
	e.sess.AddConstraint(label)
}

// ObserverHistory returns the bounded history of observer findings.
func (e *Engine) ObserverHistory() *analyzer.History {
	return e.observer.History()
}

// #endregion
