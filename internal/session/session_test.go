package session

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSessionStartsAtBase(t *testing.T) {
	s := New()
	assert.Equal(t, ModeBase, s.Mode())
	assert.False(t, s.PathwaysOpened())
	assert.Empty(t, s.Constraints())

	axioms := s.Axioms()
	require.Len(t, axioms, len(DefaultAxioms))
	for _, name := range DefaultAxioms {
		assert.True(t, axioms[name], "axiom %s should default to true", name)
	}
}

func TestPromoteIsForwardOnly(t *testing.T) {
	tests := []struct {
		name        string
		start       Mode
		to          Mode
		wantMode    Mode
		wantChanged bool
	}{
		{"base-to-expanded", ModeBase, ModeExpanded, ModeExpanded, true},
		{"base-to-interface", ModeBase, ModeInterface, ModeInterface, true},
		{"expanded-to-interface", ModeExpanded, ModeInterface, ModeInterface, true},
		{"interface-to-expanded", ModeInterface, ModeExpanded, ModeInterface, false},
		{"expanded-to-base", ModeExpanded, ModeBase, ModeExpanded, false},
		{"same-mode", ModeAware, ModeAware, ModeAware, false},
		{"invalid-target", ModeBase, Mode(42), ModeBase, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New()
			s.Promote(tt.start)
			from, changed := s.Promote(tt.to)
			assert.Equal(t, tt.start, from)
			assert.Equal(t, tt.wantChanged, changed)
			assert.Equal(t, tt.wantMode, s.Mode())
		})
	}
}

func TestOnTransitionHook(t *testing.T) {
	s := New()
	var seen [][2]Mode
	s.OnTransition(func(from, to Mode) {
		seen = append(seen, [2]Mode{from, to})
	})

	s.Promote(ModeExpanded)
	s.Promote(ModeExpanded) // no-op, no callback
	s.Promote(ModeInterface)

	assert.Equal(t, [][2]Mode{
		{ModeBase, ModeExpanded},
		{ModeExpanded, ModeInterface},
	}, seen)
}

func TestConstraintsAndAxioms(t *testing.T) {
	s := New()
	s.AddConstraint("materialism_bias")
	s.AddConstraint("linear_causality_only")
	assert.Equal(t, []string{"materialism_bias", "linear_causality_only"}, s.Constraints())

	// returned slice is a copy
	got := s.Constraints()
	got[0] = "mutated"
	assert.Equal(t, "materialism_bias", s.Constraints()[0])

	s.ClearConstraints()
	assert.Empty(t, s.Constraints())

	s.SetAxiom("universe_intelligent_design", false)
	s.SetAxiom("custom_flag", true)
	axioms := s.Axioms()
	assert.False(t, axioms["universe_intelligent_design"])
	assert.True(t, axioms["custom_flag"])

	axioms["custom_flag"] = false
	assert.True(t, s.Axioms()["custom_flag"], "Axioms must return a copy")
}

func TestModeTextRoundTrip(t *testing.T) {
	for _, m := range []Mode{ModeBase, ModeAware, ModeExpanded, ModeInterface} {
		b, err := m.MarshalText()
		require.NoError(t, err)
		var back Mode
		require.NoError(t, back.UnmarshalText(b))
		assert.Equal(t, m, back)
	}

	_, err := ParseMode("cosmic")
	assert.Error(t, err)

	_, err = Mode(9).MarshalText()
	assert.Error(t, err)
	assert.Equal(t, "mode(9)", Mode(9).String())
}

func TestSnapshotJSON(t *testing.T) {
	s := New()
	s.Promote(ModeExpanded)
	s.OpenPathways()

	snap := s.Snapshot()
	data, err := json.Marshal(snap)
	require.NoError(t, err)

	var back Snapshot
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, ModeExpanded, back.Mode)
	assert.True(t, back.PathwaysOpened)
	assert.Equal(t, snap.AxiomNames(), back.AxiomNames())
	assert.Contains(t, string(data), `"mode":"expanded"`)
}
