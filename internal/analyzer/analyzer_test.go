package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielpatrickdp/layered-annotator/internal/report"
)

// #region helpers

// scripted replays a fixed sequence of draws, cycling when exhausted.
type scripted struct {
	vals []float64
	i    int
}

func (s *scripted) Float64() float64 {
	v := s.vals[s.i%len(s.vals)]
	s.i++
	return v
}

// #endregion helpers

// #region entropy-tests

func TestClassifyTier(t *testing.T) {
	tests := []struct {
		count int
		want  Tier
	}{
		{0, TierLocal},
		{3, TierLocal},
		{4, TierGalactic},
		{5, TierGalactic},
		{6, TierUniverse},
		{40, TierUniverse},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyTier(tt.count), "count=%d", tt.count)
	}
}

func TestEntropyGateSkipsElements(t *testing.T) {
	// gate draw, then signature draw for each passing element
	src := &scripted{vals: []float64{
		0.9, 0.5, // a passes, signature 0.6+0.4*0.5 = 0.8
		0.1,      // b fails gate
		0.3,      // c fails (gate is strict >)
		0.31, 1.0 - 1e-9, // d passes, signature ~1.0
	}}
	e := NewEntropy(src, DefaultEntropyConfig())

	res := e.Analyze(report.Batch{"a", "b", "c", "d"})

	require.Equal(t, 2, res.Summary.Detected)
	require.Len(t, res.Summary.Principles, 2)
	assert.Equal(t, "Creative organization in a", res.Summary.Principles[0].Label)
	assert.Equal(t, "Creative organization in d", res.Summary.Principles[1].Label)
	assert.InDelta(t, 0.8, res.Summary.Principles[0].Score, 1e-9)
	assert.Equal(t, string(TierLocal), res.Summary.Tier)
	assert.Equal(t, string(TierLocal), res.Aggregate.Label)
	assert.Equal(t, SourceEntropy, res.Aggregate.Source)
	assert.InDelta(t, (0.8+1.0)/2, res.Aggregate.Score, 1e-6)
}

func TestEntropyEmptyBatch(t *testing.T) {
	e := NewEntropy(NewSource(1), DefaultEntropyConfig())
	res := e.Analyze(nil)

	assert.Equal(t, 0, res.Summary.Detected)
	assert.Empty(t, res.Summary.Principles)
	assert.Equal(t, 0.0, res.Aggregate.Score)
	assert.Equal(t, string(TierLocal), res.Aggregate.Label)
}

func TestEntropyScoresInRange(t *testing.T) {
	e := NewEntropy(NewSource(7), DefaultEntropyConfig())
	batch := make(report.Batch, 200)
	for i := range batch {
		batch[i] = "x"
	}
	res := e.Analyze(batch)
	require.NotZero(t, res.Summary.Detected)
	for _, p := range res.Summary.Principles {
		assert.GreaterOrEqual(t, p.Score, 0.6)
		assert.Less(t, p.Score, 1.0)
	}
	assert.Equal(t, string(TierUniverse), res.Summary.Tier)
}

func TestEntropyIgnoresContent(t *testing.T) {
	a := NewEntropy(NewSource(99), DefaultEntropyConfig()).Analyze(report.Batch{"x", "y", "z"})
	b := NewEntropy(NewSource(99), DefaultEntropyConfig()).Analyze(report.Batch{"p", "q", "r"})

	assert.Equal(t, a.Summary.Detected, b.Summary.Detected)
	assert.Equal(t, a.Aggregate.Score, b.Aggregate.Score)
}

// #endregion entropy-tests

// #region observer-tests

func TestObserveTemplates(t *testing.T) {
	tests := []struct {
		label     ObserveLabel
		wantScore float64
		wantRole  string
	}{
		{ObserveTheoretical, 0.9, "Creator of reality constraints"},
		{ObserveDirect, 0.8, "Active reality co-creator"},
		{ObserveIntuitive, 0.95, "Cosmic antenna and decoder"},
		{ObserveCollective, 0.85, "Node in a collective observer network"},
		{ObserveClassical, 0.1, "Neutral observer"},
		{"Heart_Knowing", 0.1, "Neutral observer"}, // exact match only
		{"", 0.1, "Neutral observer"},
	}
	for _, tt := range tests {
		t.Run(string(tt.label), func(t *testing.T) {
			o := NewObserver(4)
			f := o.Observe(tt.label, 0.5)
			assert.Equal(t, tt.wantScore, f.Score)
			assert.Equal(t, tt.wantRole, f.Role)
			assert.Equal(t, SourceObserver, f.Source)
		})
	}
}

func TestObserveTheoreticalEmbedsIntent(t *testing.T) {
	tests := []struct {
		intent float64
		want   string
	}{
		{0.75, "Framework 0.75 forces"},
		{0.755, "Framework 0.755 forces"},
		{1, "Framework 1.0 forces"},
		{0, "Framework 0.0 forces"},
		{0.123456789, "Framework 0.123456789 forces"},
	}
	for _, tt := range tests {
		f := NewObserver(1).Observe(ObserveTheoretical, tt.intent)
		assert.Contains(t, f.Mechanism, tt.want)
	}
}

func TestObserverHistoryBounded(t *testing.T) {
	o := NewObserver(3)
	labels := []ObserveLabel{ObserveTheoretical, ObserveDirect, ObserveIntuitive, ObserveCollective, "other"}
	for _, l := range labels {
		o.Observe(l, 0.5)
	}

	h := o.History()
	assert.Equal(t, 3, h.Len())
	assert.Equal(t, 3, h.Cap())
	assert.Equal(t, 5, h.Total())

	snap := h.Snapshot()
	require.Len(t, snap, 3)
	assert.Equal(t, 0.95, snap[0].Score)
	assert.Equal(t, 0.85, snap[1].Score)
	assert.Equal(t, 0.1, snap[2].Score)
}

// #endregion observer-tests

// #region history-tests

func TestHistoryPartialFill(t *testing.T) {
	h := NewHistory(4)
	h.Append(report.Finding{Label: "one"})
	h.Append(report.Finding{Label: "two"})

	snap := h.Snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, "one", snap[0].Label)
	assert.Equal(t, "two", snap[1].Label)
}

func TestHistoryExactlyFull(t *testing.T) {
	h := NewHistory(2)
	h.Append(report.Finding{Label: "one"})
	h.Append(report.Finding{Label: "two"})

	snap := h.Snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, "one", snap[0].Label)
	assert.Equal(t, "two", snap[1].Label)
}

func TestHistoryZeroCapacity(t *testing.T) {
	h := NewHistory(0)
	h.Append(report.Finding{Label: "dropped"})
	assert.Equal(t, 0, h.Len())
	assert.Equal(t, 1, h.Total())
	assert.Empty(t, h.Snapshot())

	assert.Equal(t, 0, NewHistory(-5).Cap())
}

// #endregion history-tests

// #region source-tests

func TestNewSourceDeterministic(t *testing.T) {
	a, b := NewSource(42), NewSource(42)
	for i := 0; i < 10; i++ {
		assert.Equal(t, a.Float64(), b.Float64())
	}
}

// #endregion source-tests
