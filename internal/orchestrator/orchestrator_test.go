package orchestrator

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/danielpatrickdp/layered-annotator/internal/report"
	"github.com/danielpatrickdp/layered-annotator/internal/session"
)

func seeded(seed uint64) *Orchestrator {
	cfg := DefaultConfig()
	cfg.Seed = seed
	return NewWithConfig(cfg, nil)
}

// #region initialize-tests

func TestInitializeAdvancesMode(t *testing.T) {
	o := New()
	require.Equal(t, session.ModeBase, o.Session().Mode())

	res := o.Initialize()

	assert.True(t, o.Session().Mode().AtLeast(session.ModeExpanded))
	assert.Equal(t, session.ModeInterface, o.Session().Mode())
	assert.True(t, o.Session().PathwaysOpened())
	assert.Equal(t, Capabilities, res.Capabilities)
	assert.Equal(t, "expanded", res.ConstraintRemoval.NewState)
	assert.Len(t, res.ConstraintRemoval.Removed, 7)
}

func TestInitializeTwice(t *testing.T) {
	o := New()
	o.Engine().AddConstraint("materialism_bias")

	first := o.Initialize()
	assert.True(t, o.Session().Mode().AtLeast(session.ModeExpanded))

	o.Engine().AddConstraint("space_empty_container")
	second := o.Initialize()
	assert.True(t, o.Session().Mode().AtLeast(session.ModeExpanded))

	assert.Equal(t, 2, o.InitCount(), "re-entry is not guarded")
	assert.Empty(t, o.Session().Constraints(), "second call re-ran the reset")
	assert.Equal(t, "expanded", first.ConstraintRemoval.NewState)
	assert.Equal(t, "interface", second.ConstraintRemoval.NewState, "reset never demotes")
}

// #endregion initialize-tests

// #region process-reality-tests

func TestProcessRealityEndToEnd(t *testing.T) {
	o := New()

	rep, err := o.ProcessReality(report.Batch{"a", "b", "c"}, DefaultIntegration)
	require.NoError(t, err)

	assert.Len(t, rep.Coordination.Patterns, 3)
	assert.True(t, rep.Coordination.Detected)
	assert.GreaterOrEqual(t, len(rep.Metaphysical.Insights), 1)
	assert.Len(t, rep.Metaphysical.Insights, 4)
	assert.Equal(t, "interface", rep.Metaphysical.State)
	assert.Equal(t, synthesize(), rep.Synthesis)
}

func TestProcessRealityLazyInit(t *testing.T) {
	o := New()
	_, err := o.ProcessReality(nil, 0.2)
	require.NoError(t, err)
	assert.Equal(t, 1, o.InitCount())

	_, err = o.ProcessReality(nil, 0.2)
	require.NoError(t, err)
	assert.Equal(t, 1, o.InitCount(), "lazy init runs only while pathways are closed")
}

func TestProcessRealityEmptyBatch(t *testing.T) {
	rep, err := New().ProcessReality(report.Batch{}, 0.9)
	require.NoError(t, err)
	assert.Len(t, rep.Metaphysical.Insights, 1)
	assert.True(t, rep.Coordination.Detected)
}

func TestProcessRealityInvalidLevel(t *testing.T) {
	o := New()
	_, err := o.ProcessReality(report.Batch{"a"}, 2)
	require.Error(t, err)
	assert.True(t, errors.Is(err, report.ErrInvalidIntegrationLevel))
	assert.Equal(t, 0, o.InitCount())
	assert.Equal(t, session.ModeBase, o.Session().Mode())
}

func TestProcessRealitySeededReportsMatch(t *testing.T) {
	batch := report.Batch{"black_hole_galaxy_coordination", "cold_organizing_life_gradients", "cosmic_web_intelligence"}
	a, err := seeded(1234).ProcessReality(batch, 0.95)
	require.NoError(t, err)
	b, err := seeded(1234).ProcessReality(batch, 0.95)
	require.NoError(t, err)

	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("seeded reports differ (-a +b):\n%s", diff)
	}
}

func TestProcessRealityLogsTransitions(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	o := NewWithConfig(DefaultConfig(), zap.New(core))

	_, err := o.ProcessReality(report.Batch{"a"}, 0.9)
	require.NoError(t, err)

	transitions := logs.FilterMessage("mode transition").All()
	require.Len(t, transitions, 2)
	assert.Equal(t, "base", transitions[0].ContextMap()["from"])
	assert.Equal(t, "expanded", transitions[0].ContextMap()["to"])
	assert.Equal(t, "interface", transitions[1].ContextMap()["to"])
	assert.Equal(t, 1, logs.FilterMessage("reality processed").Len())
}

// #endregion process-reality-tests

// #region glimpse-tests

func TestGlimpse(t *testing.T) {
	o := New()
	g := o.Glimpse()
	assert.True(t, g.GlimpseAchieved)

	for _, f := range []report.Finding{g.Patterns, g.Silence, g.Presence} {
		assert.NotEmpty(t, f.Label)
		assert.NotEmpty(t, f.Mechanism)
		assert.NotEmpty(t, f.Role)
	}

	// independent of prior calls
	_, err := o.ProcessReality(report.Batch{"a"}, 0.9)
	require.NoError(t, err)
	assert.Equal(t, g, o.Glimpse())
	assert.Equal(t, g, New().Glimpse())
}

// #endregion glimpse-tests
