package eval

// #region eval-config
// EvalConfig holds the bounds a unified report is checked against.
type EvalConfig struct {
	MinScore     float64 // every finding score must be >= MinScore
	MaxScore     float64 // and <= MaxScore
	PatternCount int     // expected coordination patterns per report
	MinDetected  int     // Detected must be set when more than this many patterns are present
}

// DefaultEvalConfig returns the bounds of the reference pipeline.
func DefaultEvalConfig() EvalConfig {
	return EvalConfig{
		MinScore:     0,
		MaxScore:     1,
		PatternCount: 3,
		MinDetected:  2,
	}
}

// #endregion eval-config

// #region eval-metric
// EvalMetric captures a single validation check result.
type EvalMetric struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Pass  bool    `json:"pass"`
}

// #endregion eval-metric

// #region eval-result
// EvalResult is the output of report validation.
type EvalResult struct {
	Passed  bool         `json:"passed"`
	Metrics []EvalMetric `json:"metrics"`
	Reason  string       `json:"reason"`
}

// Metric returns the named metric, if present.
func (r EvalResult) Metric(name string) (EvalMetric, bool) {
	for _, m := range r.Metrics {
		if m.Name == name {
			return m, true
		}
	}
	return EvalMetric{}, false
}

// #endregion eval-result
