package state

import (
	"encoding/json"
	"fmt"

	"github.com/danielpatrickdp/layered-annotator/internal/logging"
	"github.com/danielpatrickdp/layered-annotator/internal/orchestrator"
	"github.com/danielpatrickdp/layered-annotator/internal/report"
	"github.com/danielpatrickdp/layered-annotator/internal/session"
)

// #region recorder
// Recorder binds one orchestrator session to the store. Each Record call
// refreshes the session row and appends a session_log event.
type Recorder struct {
	store     *Store
	sessionID string
}

// NewRecorder creates a session row for snap and returns a recorder for it.
func NewRecorder(store *Store, snap session.Snapshot) (*Recorder, error) {
	rec, err := store.CreateSession(snap)
	if err != nil {
		return nil, err
	}
	return &Recorder{store: store, sessionID: rec.SessionID}, nil
}

// SessionID returns the persisted session's ID.
func (r *Recorder) SessionID() string {
	return r.sessionID
}

// RecordInitialize logs an Initialize call.
func (r *Recorder) RecordInitialize(before session.Mode, after session.Snapshot, res report.InitResult) error {
	return r.record(logging.EventInitialize, before, after, "", res)
}

// RecordReport persists rep and logs the ProcessReality call that produced it.
func (r *Recorder) RecordReport(before session.Mode, after session.Snapshot, batch report.Batch, level float64, rep report.UnifiedReport) (ReportRecord, error) {
	saved, err := r.store.SaveReport(r.sessionID, batch, level, rep)
	if err != nil {
		return ReportRecord{}, err
	}
	detail := map[string]any{
		"elements":          len(batch),
		"integration_level": level,
		"organized":         rep.Metaphysical.Entropy.Detected,
		"detected":          rep.Coordination.Detected,
	}
	if err := r.record(logging.EventProcessReality, before, after, saved.ReportID, detail); err != nil {
		return ReportRecord{}, err
	}
	return saved, nil
}

// RecordProcess runs o.ProcessReality and records it. When the call would
// open pathways lazily, the initialize is run and logged as its own event
// first, so the session log matches o.InitCount. The level is checked
// before anything is written.
func (r *Recorder) RecordProcess(o *orchestrator.Orchestrator, batch report.Batch, level float64) (report.UnifiedReport, ReportRecord, error) {
	if err := report.ValidateIntegrationLevel(level); err != nil {
		return report.UnifiedReport{}, ReportRecord{}, fmt.Errorf("process reality: %w", err)
	}
	if !o.Session().PathwaysOpened() {
		before := o.Session().Mode()
		res := o.Initialize()
		if err := r.RecordInitialize(before, o.Session().Snapshot(), res); err != nil {
			return report.UnifiedReport{}, ReportRecord{}, err
		}
	}

	before := o.Session().Mode()
	rep, err := o.ProcessReality(batch, level)
	if err != nil {
		return report.UnifiedReport{}, ReportRecord{}, err
	}
	saved, err := r.RecordReport(before, o.Session().Snapshot(), batch, level, rep)
	if err != nil {
		return report.UnifiedReport{}, ReportRecord{}, err
	}
	return rep, saved, nil
}

// RecordGlimpse logs a Glimpse call.
func (r *Recorder) RecordGlimpse(before session.Mode, after session.Snapshot) error {
	return r.record(logging.EventGlimpse, before, after, "", nil)
}

func (r *Recorder) record(typ logging.EventType, before session.Mode, after session.Snapshot, reportID string, detail any) error {
	if err := r.store.UpdateSession(r.sessionID, after); err != nil {
		return err
	}
	var detailJSON string
	if detail != nil {
		b, err := json.Marshal(detail)
		if err != nil {
			return fmt.Errorf("marshal detail: %w", err)
		}
		detailJSON = string(b)
	}
	return logging.LogEvent(r.store.DB(), logging.Event{
		SessionID:  r.sessionID,
		Type:       typ,
		ModeBefore: before.String(),
		ModeAfter:  after.Mode.String(),
		ReportID:   reportID,
		DetailJSON: detailJSON,
	})
}

// #endregion recorder
