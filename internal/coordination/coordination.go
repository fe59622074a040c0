package coordination

import (
	"go.uber.org/zap"

	"github.com/danielpatrickdp/layered-annotator/internal/report"
)

// #region detector
// Detector is one coordination sub-detector. Detect returns its finding and
// whether it classifies the batch positively.
type Detector struct {
	Name   string
	Detect func(batch report.Batch) (report.Finding, bool)
}

// #endregion detector

// #region analyzer
// detectionThreshold: more than this many positive detectors sets Detected.
const detectionThreshold = 2

const sourceName = "coordination"

// Analyzer runs the fixed sub-detector sequence and infers a purpose.
type Analyzer struct {
	detectors      []Detector
	agendaDetected bool
	logger         *zap.Logger
}

// NewAnalyzer creates an analyzer wired with the three reference detectors.
// logger may be nil.
func NewAnalyzer(logger *zap.Logger) *Analyzer {
	return newAnalyzer(DefaultDetectors(), logger)
}

func newAnalyzer(detectors []Detector, logger *zap.Logger) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{detectors: detectors, logger: logger.Named("coord")}
}

// Analyze runs every detector in order. Detected is set when the positive
// count exceeds the threshold; once set, AgendaDetected stays true for the
// analyzer's lifetime.
func (a *Analyzer) Analyze(batch report.Batch) report.CoordinationReport {
	patterns := make([]report.Finding, 0, len(a.detectors))
	positives := 0
	for _, d := range a.detectors {
		f, ok := d.Detect(batch)
		patterns = append(patterns, f)
		if ok {
			positives++
		}
	}

	detected := positives > detectionThreshold
	if detected {
		a.agendaDetected = true
	}

	a.logger.Debug("coordination analyzed",
		zap.Int("detectors", len(a.detectors)),
		zap.Int("positive", positives),
		zap.Bool("detected", detected),
	)

	return report.CoordinationReport{
		Detected: detected,
		Patterns: patterns,
		Purpose:  inferPurpose(),
	}
}

// AgendaDetected reports whether any Analyze call has crossed the threshold.
func (a *Analyzer) AgendaDetected() bool {
	return a.agendaDetected
}

// #endregion analyzer

// #region detectors
// DefaultDetectors returns the three reference detectors. Each one reports a
// fixed finding and a positive classification regardless of batch content.
func DefaultDetectors() []Detector {
	return []Detector{
		{Name: "galactic_nursing", Detect: staticDetector(report.Finding{
			Source:    sourceName,
			Label:     "Black hole galactic nursing",
			Mechanism: "Prevents stellar dispersion, regulates star formation",
			Role:      "Cosmic parental care",
			Score:     1,
		})},
		{Name: "merger_choreography", Detect: staticDetector(report.Finding{
			Source:    sourceName,
			Label:     "Orchestrated galactic mergers",
			Mechanism: "Black holes coordinate approach, plan stellar reorganization",
			Role:      "Inter-galactic communication and planning",
			Score:     1,
		})},
		{Name: "cosmic_web", Detect: staticDetector(report.Finding{
			Source:    sourceName,
			Label:     "Cosmic web as neural network",
			Mechanism: "Filament structure resembles neural connections",
			Role:      "Universe-scale information processing",
			Score:     1,
		})},
	}
}

func staticDetector(f report.Finding) func(report.Batch) (report.Finding, bool) {
	return func(report.Batch) (report.Finding, bool) {
		return f, true
	}
}

// inferPurpose is independent of detector output.
func inferPurpose() report.Finding {
	return report.Finding{
		Source:    sourceName,
		Label:     "Creating stable environments for consciousness emergence",
		Mechanism: "Enabling complexity and awareness to evolve",
		Role:      "Experiencing infinite creativity through all possible perspectives",
		Score:     1,
	}
}

// #endregion detectors
