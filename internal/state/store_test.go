package state

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielpatrickdp/layered-annotator/internal/logging"
	"github.com/danielpatrickdp/layered-annotator/internal/orchestrator"
	"github.com/danielpatrickdp/layered-annotator/internal/report"
	"github.com/danielpatrickdp/layered-annotator/internal/session"
)

func tempDB(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	s, err := NewStore(filepath.Join(dir, "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func seededOrchestrator(seed uint64) *orchestrator.Orchestrator {
	cfg := orchestrator.DefaultConfig()
	cfg.Seed = seed
	return orchestrator.NewWithConfig(cfg, nil)
}

func TestCreateAndGetSession(t *testing.T) {
	s := tempDB(t)
	sess := session.New()
	sess.AddConstraint("materialism_bias")

	rec, err := s.CreateSession(sess.Snapshot())
	require.NoError(t, err)
	require.NotEmpty(t, rec.SessionID)

	got, err := s.GetSession(rec.SessionID)
	require.NoError(t, err)
	assert.Equal(t, session.ModeBase, got.Snapshot.Mode)
	assert.False(t, got.Snapshot.PathwaysOpened)
	assert.Equal(t, []string{"materialism_bias"}, got.Snapshot.Constraints)
	assert.Equal(t, sess.Axioms(), got.Snapshot.Axioms)
}

func TestUpdateSession(t *testing.T) {
	s := tempDB(t)
	sess := session.New()
	rec, err := s.CreateSession(sess.Snapshot())
	require.NoError(t, err)

	sess.Promote(session.ModeInterface)
	sess.OpenPathways()
	require.NoError(t, s.UpdateSession(rec.SessionID, sess.Snapshot()))

	got, err := s.GetSession(rec.SessionID)
	require.NoError(t, err)
	assert.Equal(t, session.ModeInterface, got.Snapshot.Mode)
	assert.True(t, got.Snapshot.PathwaysOpened)
	assert.Empty(t, got.Snapshot.Constraints)
}

func TestUpdateSessionNotFound(t *testing.T) {
	s := tempDB(t)
	err := s.UpdateSession("nonexistent-id", session.New().Snapshot())
	assert.Error(t, err)
}

func TestGetSessionNotFound(t *testing.T) {
	s := tempDB(t)
	_, err := s.GetSession("nonexistent-id")
	assert.Error(t, err)
}

func TestSaveAndGetReport(t *testing.T) {
	s := tempDB(t)
	o := seededOrchestrator(7)
	sessRec, err := s.CreateSession(o.Session().Snapshot())
	require.NoError(t, err)

	batch := report.Batch{"a", "b", "c"}
	rep, err := o.ProcessReality(batch, 0.9)
	require.NoError(t, err)

	saved, err := s.SaveReport(sessRec.SessionID, batch, 0.9, rep)
	require.NoError(t, err)
	assert.Equal(t, "interface", saved.State)
	assert.True(t, saved.Detected)
	assert.Equal(t, 4, saved.InsightCount)

	got, err := s.GetReport(saved.ReportID)
	require.NoError(t, err)
	assert.Equal(t, batch, got.Batch)
	assert.Equal(t, 0.9, got.IntegrationLevel)
	if diff := cmp.Diff(rep, got.Report); diff != "" {
		t.Fatalf("report round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestSaveReportUnknownSession(t *testing.T) {
	s := tempDB(t)
	_, err := s.SaveReport("no-such-session", nil, 0.5, report.UnifiedReport{})
	assert.Error(t, err, "foreign key should reject unknown session")
}

func TestListReports(t *testing.T) {
	s := tempDB(t)
	o := seededOrchestrator(3)
	sessRec, err := s.CreateSession(o.Session().Snapshot())
	require.NoError(t, err)

	var ids []string
	for i := 0; i < 3; i++ {
		rep, err := o.ProcessReality(report.Batch{"x"}, 0.5)
		require.NoError(t, err)
		saved, err := s.SaveReport(sessRec.SessionID, report.Batch{"x"}, 0.5, rep)
		require.NoError(t, err)
		ids = append(ids, saved.ReportID)
	}

	all, err := s.ListReports(10)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, ids[2], all[0].ReportID, "newest first")

	limited, err := s.ListReports(2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestRecorder(t *testing.T) {
	s := tempDB(t)
	o := seededOrchestrator(5)
	r, err := NewRecorder(s, o.Session().Snapshot())
	require.NoError(t, err)

	before := o.Session().Mode()
	initRes := o.Initialize()
	require.NoError(t, r.RecordInitialize(before, o.Session().Snapshot(), initRes))

	batch := report.Batch{"a", "b"}
	before = o.Session().Mode()
	rep, err := o.ProcessReality(batch, 0.8)
	require.NoError(t, err)
	saved, err := r.RecordReport(before, o.Session().Snapshot(), batch, 0.8, rep)
	require.NoError(t, err)

	before = o.Session().Mode()
	o.Glimpse()
	require.NoError(t, r.RecordGlimpse(before, o.Session().Snapshot()))

	events, err := logging.ListEvents(s.DB(), r.SessionID())
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, logging.EventInitialize, events[0].Type)
	assert.Equal(t, "base", events[0].ModeBefore)
	assert.Equal(t, "interface", events[0].ModeAfter)
	assert.Equal(t, logging.EventProcessReality, events[1].Type)
	assert.Equal(t, saved.ReportID, events[1].ReportID)
	assert.Contains(t, events[1].DetailJSON, `"elements":2`)
	assert.Equal(t, logging.EventGlimpse, events[2].Type)

	sessRec, err := s.GetSession(r.SessionID())
	require.NoError(t, err)
	assert.True(t, sessRec.Snapshot.PathwaysOpened)
}

func TestRecordProcessLogsLazyInitialize(t *testing.T) {
	s := tempDB(t)
	o := seededOrchestrator(9)
	r, err := NewRecorder(s, o.Session().Snapshot())
	require.NoError(t, err)

	for _, batch := range []report.Batch{{"a"}, {"b", "c"}} {
		_, _, err := r.RecordProcess(o, batch, 0.5)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, o.InitCount())

	events, err := logging.ListEvents(s.DB(), r.SessionID())
	require.NoError(t, err)
	var types []logging.EventType
	for _, ev := range events {
		types = append(types, ev.Type)
	}
	assert.Equal(t, []logging.EventType{
		logging.EventInitialize, logging.EventProcessReality, logging.EventProcessReality,
	}, types)
	assert.Equal(t, "base", events[0].ModeBefore)
	assert.Equal(t, "interface", events[1].ModeBefore)
}

func TestRecordProcessRejectsLevelBeforeWriting(t *testing.T) {
	s := tempDB(t)
	o := seededOrchestrator(9)
	r, err := NewRecorder(s, o.Session().Snapshot())
	require.NoError(t, err)

	_, _, err = r.RecordProcess(o, report.Batch{"a"}, 1.5)
	assert.ErrorIs(t, err, report.ErrInvalidIntegrationLevel)
	assert.Equal(t, 0, o.InitCount())

	events, err := logging.ListEvents(s.DB(), r.SessionID())
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestNewStoreInvalidPath(t *testing.T) {
	_, err := NewStore(filepath.Join(string(os.PathSeparator), "nonexistent", "deep", "path", "test.db"))
	assert.Error(t, err)
}
