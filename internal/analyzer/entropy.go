package analyzer

import (
	"fmt"

	"github.com/danielpatrickdp/layered-annotator/internal/report"
)

// #region entropy

// Entropy scans a whole batch for organized patterns and reports one
// aggregate finding. Which elements count, and their scores, come from the
// random source; token content only appears in labels.
type Entropy struct {
	src    Source
	config EntropyConfig
}

// NewEntropy creates an entropy analyzer drawing from src.
func NewEntropy(src Source, config EntropyConfig) *Entropy {
	return &Entropy{src: src, config: config}
}

// #endregion entropy

// #region analyze

// Analyze runs the detector gate over every element and aggregates the
// surviving principles. An empty batch yields a zero-score aggregate.
func (e *Entropy) Analyze(batch report.Batch) EntropyResult {
	principles := make([]report.Finding, 0, len(batch))
	for _, el := range batch {
		if !e.detect() {
			continue
		}
		principles = append(principles, e.principle(el))
	}

	tier := ClassifyTier(len(principles))
	return EntropyResult{
		Aggregate: report.Finding{
			Source:    SourceEntropy,
			Label:     string(tier),
			Mechanism: fmt.Sprintf("%d organized patterns detected across %d observations", len(principles), len(batch)),
			Role:      "Creative organizing principle enabling complexity",
			Score:     meanScore(principles),
		},
		Summary: report.EntropySummary{
			Detected:   len(principles),
			Principles: principles,
			Tier:       string(tier),
		},
	}
}

// #endregion analyze

// #region tiers

// ClassifyTier maps a pattern count to its tier: >5 universe, >3 galactic,
// otherwise local.
func ClassifyTier(count int) Tier {
	switch {
	case count > 5:
		return TierUniverse
	case count > 3:
		return TierGalactic
	default:
		return TierLocal
	}
}

// #endregion tiers

// #region helpers

// detect is the per-element gate.
func (e *Entropy) detect() bool {
	return e.src.Float64() > e.config.GateThreshold
}

func (e *Entropy) principle(token string) report.Finding {
	return report.Finding{
		Source:    SourceEntropy,
		Label:     fmt.Sprintf("Creative organization in %s", token),
		Mechanism: "Enabling complexity emergence",
		Role:      "Hidden organizing purpose",
		Score:     uniform(e.src, e.config.SignatureMin, e.config.SignatureMax),
	}
}

func meanScore(fs []report.Finding) float64 {
	if len(fs) == 0 {
		return 0
	}
	var sum float64
	for _, f := range fs {
		sum += f.Score
	}
	return sum / float64(len(fs))
}

// #endregion helpers
