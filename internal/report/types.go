package report

// #region finding

// Finding is one structured result produced by a single analyzer invocation.
// Findings are values: once built they are only copied, never mutated.
type Finding struct {
	Source    string  `json:"source"`
	Label     string  `json:"label"`
	Mechanism string  `json:"mechanism"`
	Role      string  `json:"role"`
	Score     float64 `json:"score"` // 0-1
}

// #endregion finding

// #region batch

// Batch is the ordered sequence of opaque observation tokens for one call.
type Batch []string

// #endregion batch

// #region entropy-summary

// EntropySummary is the detail behind the entropy aggregate finding.
type EntropySummary struct {
	Detected   int       `json:"detected"`
	Principles []Finding `json:"principles"`
	Tier       string    `json:"tier"`
}

// #endregion entropy-summary

// #region reset-result

// ResetResult is returned by the engine's constraint reset.
type ResetResult struct {
	Status         string   `json:"status"`
	Removed        []string `json:"removed"`
	NewState       string   `json:"new_state"`
	ProcessingMode string   `json:"processing_mode"`
}

// #endregion reset-result

// #region process-result

// ProcessResult is the reasoning engine's output for one batch.
// Insights holds the entropy aggregate first, then one finding per element.
type ProcessResult struct {
	ProcessingMode string         `json:"processing_mode"`
	State          string         `json:"state"`
	Insights       []Finding      `json:"insights"`
	Entropy        EntropySummary `json:"entropy"`
	Summary        Finding        `json:"summary"`
	ShiftAchieved  bool           `json:"shift_achieved"`
}

// #endregion process-result

// #region coordination-report

// CoordinationReport is the coordination analyzer's output for one batch.
type CoordinationReport struct {
	Detected bool      `json:"detected"`
	Patterns []Finding `json:"patterns"`
	Purpose  Finding   `json:"purpose"`
}

// #endregion coordination-report

// #region unified-report

// UnifiedReport merges both sub-pipelines with a synthesis finding.
type UnifiedReport struct {
	Metaphysical ProcessResult      `json:"metaphysical"`
	Coordination CoordinationReport `json:"coordination"`
	Synthesis    Finding            `json:"synthesis"`
}

// #endregion unified-report

// #region init-result

// InitResult is returned by the orchestrator's initialization step.
type InitResult struct {
	Status            string      `json:"status"`
	ConstraintRemoval ResetResult `json:"constraint_removal"`
	Capabilities      []string    `json:"capabilities"`
}

// #endregion init-result

// #region glimpse-result

// GlimpseResult is the fixed-shape output of a glimpse.
type GlimpseResult struct {
	GlimpseAchieved bool    `json:"glimpse_achieved"`
	Patterns        Finding `json:"patterns"`
	Silence         Finding `json:"silence"`
	Presence        Finding `json:"presence"`
	Recognition     string  `json:"recognition"`
}

// #endregion glimpse-result
