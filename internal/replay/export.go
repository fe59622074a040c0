package replay

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/danielpatrickdp/layered-annotator/internal/logging"
	"github.com/danielpatrickdp/layered-annotator/internal/state"
)

// #region export

// ExportSession rebuilds a fixture from a persisted session's event log.
// Each event becomes a step whose expectations are the seed-independent
// parts of what was recorded: the mode afterwards and, for process steps,
// the insight count and detection flag.
func ExportSession(store *state.Store, sessionID string, seed uint64) (*Fixture, error) {
	events, err := logging.ListEvents(store.DB(), sessionID)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, fmt.Errorf("session %s has no events", sessionID)
	}

	f := &Fixture{
		Name:        "session-" + shortID(sessionID),
		Description: fmt.Sprintf("Exported from session %s", sessionID),
		Seed:        seed,
	}
	for i, ev := range events {
		step := FixtureStep{Expect: &FixtureExpect{Mode: ev.ModeAfter}}
		switch ev.Type {
		case logging.EventInitialize:
			step.Op = OpInitialize
		case logging.EventGlimpse:
			step.Op = OpGlimpse
		case logging.EventProcessReality:
			rec, err := store.GetReport(ev.ReportID)
			if err != nil {
				return nil, fmt.Errorf("event %d: %w", i, err)
			}
			step.Op = OpProcess
			step.Batch = make([]any, len(rec.Batch))
			for j, el := range rec.Batch {
				step.Batch[j] = el
			}
			level := rec.IntegrationLevel
			step.IntegrationLevel = &level
			insights := rec.InsightCount
			detected := rec.Detected
			step.Expect.Insights = &insights
			step.Expect.Detected = &detected
		default:
			return nil, fmt.Errorf("event %d: unknown type %q", i, ev.Type)
		}
		f.Steps = append(f.Steps, step)
	}
	return f, nil
}

// Marshal encodes the fixture as YAML.
func (f *Fixture) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return nil, fmt.Errorf("encode fixture: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode fixture: %w", err)
	}
	return buf.Bytes(), nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// #endregion export
