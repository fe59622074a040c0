package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielpatrickdp/layered-annotator/internal/logging"
	"github.com/danielpatrickdp/layered-annotator/internal/report"
	"github.com/danielpatrickdp/layered-annotator/internal/state"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("ANNOTATOR_LOG_LEVEL", "error")
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestRunJSON(t *testing.T) {
	out, err := execute(t, "run", "a", "b", "c", "--seed", "3", "--json")
	require.NoError(t, err)

	var rep report.UnifiedReport
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Len(t, rep.Metaphysical.Insights, 4)
	assert.Equal(t, "interface", rep.Metaphysical.State)
	assert.Len(t, rep.Coordination.Patterns, 3)
}

func TestRunDeterministicWithSeed(t *testing.T) {
	first, err := execute(t, "run", "x", "y", "--seed", "17", "--json")
	require.NoError(t, err)
	second, err := execute(t, "run", "x", "y", "--seed", "17", "--json")
	require.NoError(t, err)
	assert.JSONEq(t, first, second)
}

func TestRunRendered(t *testing.T) {
	out, err := execute(t, "run", "star", "--seed", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Unified report")
	assert.Contains(t, out, "Creative organizing principle enabling complexity")
	assert.Contains(t, out, "Living, responsive, intelligently organized universe")
}

func TestRunInvalidLevel(t *testing.T) {
	_, err := execute(t, "run", "a", "--level", "2")
	require.Error(t, err)
	assert.ErrorIs(t, err, report.ErrInvalidIntegrationLevel)
}

func TestRunPersists(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "run.db")
	_, err := execute(t, "run", "a", "b", "--seed", "2", "--db", dbPath, "--json")
	require.NoError(t, err)

	store, err := state.NewStore(dbPath)
	require.NoError(t, err)
	defer store.Close()
	reports, err := store.ListReports(5)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, report.Batch{"a", "b"}, reports[0].Batch)

	events, err := logging.ListEvents(store.DB(), reports[0].SessionID)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, logging.EventInitialize, events[0].Type)
	assert.Equal(t, logging.EventProcessReality, events[1].Type)
}

func TestGlimpse(t *testing.T) {
	out, err := execute(t, "glimpse", "--json")
	require.NoError(t, err)

	var res report.GlimpseResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.True(t, res.GlimpseAchieved)
	assert.Equal(t, "glimpse.presence", res.Presence.Source)

	out, err = execute(t, "glimpse")
	require.NoError(t, err)
	assert.Contains(t, out, "Awareness aware of being aware")
}
