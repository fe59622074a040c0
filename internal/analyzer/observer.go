package analyzer

import (
	"strconv"
	"strings"

	"github.com/danielpatrickdp/layered-annotator/internal/report"
)

// #region observer

// Observer answers an observation request with one of five fixed templates
// and keeps a bounded history of what it produced.
type Observer struct {
	history *History
}

// NewObserver creates an observer retaining at most historyCap findings.
func NewObserver(historyCap int) *Observer {
	return &Observer{history: NewHistory(historyCap)}
}

// #endregion observer

// #region observe

// Observe selects a template by exact label match. Unknown labels fall back
// to the classical template. Scores are fixed per template.
func (o *Observer) Observe(label ObserveLabel, intent float64) report.Finding {
	var f report.Finding
	switch label {
	case ObserveTheoretical:
		f = report.Finding{
			Label:     "Reality crystallization through mathematical observation",
			Mechanism: "Framework " + formatIntent(intent) + " forces universe to choose specific state",
			Role:      "Creator of reality constraints",
			Score:     0.9,
		}
	case ObserveDirect:
		f = report.Finding{
			Label:     "Superposition collapse through conscious attention",
			Mechanism: "Observer-participatory universe activation",
			Role:      "Active reality co-creator",
			Score:     0.8,
		}
	case ObserveIntuitive:
		f = report.Finding{
			Label:     "Non-local information access through heart neural network",
			Mechanism: "Quantum entanglement with cosmic information fields",
			Role:      "Cosmic antenna and decoder",
			Score:     0.95,
		}
	case ObserveCollective:
		// Invented to round out four recognized labels; the text is illustrative.
		f = report.Finding{
			Label:     "Shared field coherence across many observers",
			Mechanism: "Synchronized attention stabilizing a common outcome",
			Role:      "Node in a collective observer network",
			Score:     0.85,
		}
	default:
		f = report.Finding{
			Label:     "Passive measurement of pre-existing reality",
			Mechanism: "Instruments detect objective properties",
			Role:      "Neutral observer",
			Score:     0.1,
		}
	}
	f.Source = SourceObserver

	o.history.Append(f)
	return f
}

// #endregion observe

// #region history-access

// History exposes the observer's retained findings.
func (o *Observer) History() *History {
	return o.history
}

// #endregion history-access

// formatIntent writes the shortest exact form of v, keeping a trailing ".0"
// on integral values.
func formatIntent(v float64) string {
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eEIN") {
		s += ".0"
	}
	return s
}
