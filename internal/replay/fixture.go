package replay

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/danielpatrickdp/layered-annotator/internal/analyzer"
	"github.com/danielpatrickdp/layered-annotator/internal/orchestrator"
	"github.com/danielpatrickdp/layered-annotator/internal/report"
	"github.com/danielpatrickdp/layered-annotator/internal/session"
)

// #region fixture-types

// Op names a fixture step.
type Op string

const (
	OpInitialize    Op = "initialize"
	OpProcess       Op = "process"
	OpGlimpse       Op = "glimpse"
	OpSetAxiom      Op = "set_axiom"
	OpAddConstraint Op = "add_constraint"
)

// Fixture is the top-level YAML structure for a replay fixture.
type Fixture struct {
	Name            string        `yaml:"name"`
	Description     string        `yaml:"description,omitempty"`
	Seed            uint64        `yaml:"seed"`
	HistoryCapacity *int          `yaml:"history_capacity,omitempty"` // nil = analyzer default
	Steps           []FixtureStep `yaml:"steps"`
}

// FixtureStep is one orchestrator call.
type FixtureStep struct {
	Op               Op             `yaml:"op"`
	Batch            []any          `yaml:"batch,omitempty"`
	IntegrationLevel *float64       `yaml:"integration_level,omitempty"` // nil = orchestrator default
	Axiom            string         `yaml:"axiom,omitempty"`
	Value            bool           `yaml:"value,omitempty"`
	Constraint       string         `yaml:"constraint,omitempty"`
	Expect           *FixtureExpect `yaml:"expect,omitempty"`
}

// FixtureExpect holds optional assertions on a step's outcome. Unset fields
// are not checked.
type FixtureExpect struct {
	Mode     string `yaml:"mode,omitempty"`     // session mode after the step
	Insights *int   `yaml:"insights,omitempty"` // process only
	Detected *bool  `yaml:"detected,omitempty"` // process only
	Tier     string `yaml:"tier,omitempty"`     // process only
	Error    string `yaml:"error,omitempty"`    // substring of the expected error
}

// #endregion fixture-types

// #region fixture-loader

// LoadFixture reads and parses a YAML fixture file. A fixture without a name
// is named after its file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	f, err := ParseFixture(data)
	if err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	if f.Name == "" {
		f.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return f, nil
}

// ParseFixture decodes a fixture document, rejecting unknown keys.
func ParseFixture(data []byte) (*Fixture, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var f Fixture
	if err := dec.Decode(&f); err != nil {
		return nil, err
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate checks step ops and per-op required fields.
func (f *Fixture) Validate() error {
	var errs []error
	for i, s := range f.Steps {
		switch s.Op {
		case OpInitialize, OpProcess, OpGlimpse:
		case OpSetAxiom:
			if s.Axiom == "" {
				errs = append(errs, fmt.Errorf("step %d: set_axiom needs axiom", i))
			}
		case OpAddConstraint:
			if s.Constraint == "" {
				errs = append(errs, fmt.Errorf("step %d: add_constraint needs constraint", i))
			}
		default:
			errs = append(errs, fmt.Errorf("step %d: unknown op %q", i, s.Op))
		}
		if s.Expect != nil && s.Expect.Mode != "" {
			if _, err := session.ParseMode(s.Expect.Mode); err != nil {
				errs = append(errs, fmt.Errorf("step %d: expect: %w", i, err))
			}
		}
	}
	return errors.Join(errs...)
}

// OrchestratorConfig converts the fixture header to orchestrator settings.
func (f *Fixture) OrchestratorConfig() orchestrator.Config {
	cfg := orchestrator.DefaultConfig()
	cfg.Seed = f.Seed
	cfg.HistoryCapacity = analyzer.DefaultHistoryCapacity
	if f.HistoryCapacity != nil {
		cfg.HistoryCapacity = *f.HistoryCapacity
	}
	return cfg
}

// batch converts the step's raw YAML list.
func (s *FixtureStep) batch() (report.Batch, error) {
	if s.Batch == nil {
		return report.Batch{}, nil
	}
	return report.ParseBatch(s.Batch)
}

// level returns the step's integration level or the orchestrator default.
func (s *FixtureStep) level() float64 {
	if s.IntegrationLevel == nil {
		return orchestrator.DefaultIntegration
	}
	return *s.IntegrationLevel
}

// #endregion fixture-loader
