package analyzer

import "github.com/danielpatrickdp/layered-annotator/internal/report"

// #region source-interface

// Source abstracts the random stream analyzers draw scores from, so tests
// can pin it. *rand.Rand from math/rand/v2 satisfies it.
type Source interface {
	Float64() float64
}

// #endregion source-interface

// #region entropy-config

// EntropyConfig holds tuning knobs for the entropy analyzer.
type EntropyConfig struct {
	GateThreshold float64 // element contributes when draw > this
	SignatureMin  float64 // lower bound of principle score
	SignatureMax  float64 // upper bound of principle score
}

// DefaultEntropyConfig returns the reference thresholds.
func DefaultEntropyConfig() EntropyConfig {
	return EntropyConfig{
		GateThreshold: 0.3,
		SignatureMin:  0.6,
		SignatureMax:  1.0,
	}
}

// #endregion entropy-config

// #region entropy-result

// EntropyResult is the whole-batch output of the entropy analyzer.
type EntropyResult struct {
	Aggregate report.Finding
	Summary   report.EntropySummary
}

// #endregion entropy-result

// #region tier

// Tier is the qualitative label assigned from the organized-pattern count.
type Tier string

const (
	TierUniverse Tier = "Universe-scale intelligent design"
	TierGalactic Tier = "Galactic-scale coordination"
	TierLocal    Tier = "Local organizing principle"
)

// #endregion tier

// #region observe-label

// ObserveLabel selects an observer response template.
type ObserveLabel string

const (
	ObserveTheoretical ObserveLabel = "theoretical_framework"
	ObserveDirect      ObserveLabel = "direct_awareness"
	ObserveIntuitive   ObserveLabel = "heart_knowing"
	ObserveCollective  ObserveLabel = "collective_resonance" // invented template, see Observe
	ObserveClassical   ObserveLabel = "classical"
)

// #endregion observe-label

// #region source-names

// Source names stamped on findings.
const (
	SourceEntropy  = "entropy"
	SourceObserver = "observer"
)

// #endregion source-names
