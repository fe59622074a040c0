package coordination

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielpatrickdp/layered-annotator/internal/report"
)

func TestAnalyzeAlwaysDetectsWithReferenceDetectors(t *testing.T) {
	batches := []report.Batch{
		nil,
		{},
		{"a"},
		{"a", "b", "c"},
		{"black_hole_galaxy_coordination", "cosmic_web_intelligence"},
	}
	for _, b := range batches {
		a := NewAnalyzer(nil)
		rep := a.Analyze(b)
		assert.True(t, rep.Detected, "batch %v", b)
		assert.Len(t, rep.Patterns, 3)
		assert.True(t, a.AgendaDetected())
	}
}

func TestAnalyzePatternOrder(t *testing.T) {
	rep := NewAnalyzer(nil).Analyze(report.Batch{"x"})
	require.Len(t, rep.Patterns, 3)
	assert.Equal(t, "Black hole galactic nursing", rep.Patterns[0].Label)
	assert.Equal(t, "Orchestrated galactic mergers", rep.Patterns[1].Label)
	assert.Equal(t, "Cosmic web as neural network", rep.Patterns[2].Label)
	assert.Equal(t, inferPurpose(), rep.Purpose)
}

func TestAnalyzeDeterministic(t *testing.T) {
	a := NewAnalyzer(nil).Analyze(report.Batch{"a", "b"})
	b := NewAnalyzer(nil).Analyze(report.Batch{"zzz"})
	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("reports differ across content (-a +b):\n%s", diff)
	}
}

func TestAnalyzeThreshold(t *testing.T) {
	neg := Detector{Name: "neg", Detect: func(report.Batch) (report.Finding, bool) {
		return report.Finding{Label: "none"}, false
	}}
	pos := DefaultDetectors()[0]

	tests := []struct {
		name      string
		detectors []Detector
		want      bool
	}{
		{"three-positive", []Detector{pos, pos, pos}, true},
		{"two-positive", []Detector{pos, pos, neg}, false},
		{"none", []Detector{neg, neg, neg}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newAnalyzer(tt.detectors, nil)
			rep := a.Analyze(report.Batch{"a"})
			assert.Equal(t, tt.want, rep.Detected)
			assert.Equal(t, tt.want, a.AgendaDetected())
			assert.Len(t, rep.Patterns, 3, "negative detectors still contribute a pattern")
		})
	}
}

func TestAgendaDetectedIsSticky(t *testing.T) {
	toggle := true
	flip := Detector{Name: "flip", Detect: func(report.Batch) (report.Finding, bool) {
		return report.Finding{}, toggle
	}}
	a := newAnalyzer([]Detector{flip, flip, flip}, nil)

	require.True(t, a.Analyze(nil).Detected)
	toggle = false
	assert.False(t, a.Analyze(nil).Detected)
	assert.True(t, a.AgendaDetected())
}
