package state

import (
	"time"

	"github.com/danielpatrickdp/layered-annotator/internal/report"
	"github.com/danielpatrickdp/layered-annotator/internal/session"
)

// #region session-record
// SessionRecord is a persisted orchestrator session snapshot.
type SessionRecord struct {
	SessionID string           `json:"session_id"`
	Snapshot  session.Snapshot `json:"snapshot"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// #endregion session-record

// #region report-record
// ReportRecord is one persisted ProcessReality result with its inputs.
type ReportRecord struct {
	ReportID         string               `json:"report_id"`
	SessionID        string               `json:"session_id"`
	Batch            report.Batch         `json:"batch"`
	IntegrationLevel float64              `json:"integration_level"`
	State            string               `json:"state"`
	Detected         bool                 `json:"detected"`
	InsightCount     int                  `json:"insight_count"`
	Report           report.UnifiedReport `json:"report"`
	CreatedAt        time.Time            `json:"created_at"`
}

// #endregion report-record
