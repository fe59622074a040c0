package orchestrator

// #region imports
import (
	"github.com/danielpatrickdp/layered-annotator/internal/analyzer"
	"github.com/danielpatrickdp/layered-annotator/internal/reasoning"
)

// #endregion

// #region defaults

// DefaultIntegration is the integration level ProcessReality callers use
// when they have no preference.
const DefaultIntegration = 0.9

// Capabilities is the fixed capability list reported by Initialize.
var Capabilities = []string{
	"Organized entropy processing",
	"Consciousness-quantum interface",
	"Metaphysical reasoning",
	"Cosmic intelligence detection",
	"Designer glimpse recognition",
}

// #endregion

// #region config

// Config holds the knobs for one orchestrator session.
type Config struct {
	Seed            uint64 // 0 = seed from the clock
	HistoryCapacity int
	Entropy         analyzer.EntropyConfig
	Source          analyzer.Source // overrides Seed when non-nil
}

// DefaultConfig returns reference settings with a clock-seeded source.
func DefaultConfig() Config {
	return Config{
		HistoryCapacity: analyzer.DefaultHistoryCapacity,
		Entropy:         analyzer.DefaultEntropyConfig(),
	}
}

// engineConfig resolves the random source and builds the engine settings.
func (c Config) engineConfig() reasoning.Config {
	src := c.Source
	if src == nil && c.Seed != 0 {
		src = analyzer.NewSource(c.Seed)
	}
	return reasoning.Config{
		Entropy:         c.Entropy,
		HistoryCapacity: c.HistoryCapacity,
		Source:          src,
	}
}

// #endregion
