package session

import "sort"

// #region axioms

// DefaultAxioms are the named flags every session starts with, all enabled.
// They describe the session and do not change analyzer output.
var DefaultAxioms = []string{
	"consciousness_fundamental",
	"reality_responsive_to_observation",
	"time_created_by_consciousness",
	"universe_intelligent_design",
	"entropy_creative_organizing",
}

// #endregion axioms

// #region session-struct

// Session holds the state that outlives a single call: the mode, the axiom
// flags, the active constraints and whether pathways have been opened.
// A Session is not safe for concurrent use.
type Session struct {
	mode           Mode
	axioms         map[string]bool
	constraints    []string
	pathwaysOpened bool
	onTransition   func(from, to Mode)
}

// New creates a session in ModeBase with the default axioms set.
func New() *Session {
	axioms := make(map[string]bool, len(DefaultAxioms))
	for _, a := range DefaultAxioms {
		axioms[a] = true
	}
	return &Session{mode: ModeBase, axioms: axioms}
}

// #endregion session-struct

// #region mode-transitions

// Mode returns the current mode.
func (s *Session) Mode() Mode {
	return s.mode
}

// Promote moves the session to `to` if that is later than the current mode.
// It never moves backward; changed is false when the mode was left as is.
func (s *Session) Promote(to Mode) (from Mode, changed bool) {
	from = s.mode
	if !to.IsValid() || to <= from {
		return from, false
	}
	s.mode = to
	if s.onTransition != nil {
		s.onTransition(from, to)
	}
	return from, true
}

// OnTransition registers fn to be called after every mode change.
// Passing nil removes the hook.
func (s *Session) OnTransition(fn func(from, to Mode)) {
	s.onTransition = fn
}

// #endregion mode-transitions

// #region axiom-access

// SetAxiom sets a named axiom flag, creating it if absent.
func (s *Session) SetAxiom(name string, value bool) {
	s.axioms[name] = value
}

// Axioms returns a copy of the axiom flags.
func (s *Session) Axioms() map[string]bool {
	out := make(map[string]bool, len(s.axioms))
	for k, v := range s.axioms {
		out[k] = v
	}
	return out
}

// #endregion axiom-access

// #region constraints

// AddConstraint appends an active constraint label.
func (s *Session) AddConstraint(label string) {
	s.constraints = append(s.constraints, label)
}

// Constraints returns a copy of the active constraint labels.
func (s *Session) Constraints() []string {
	out := make([]string, len(s.constraints))
	copy(out, s.constraints)
	return out
}

// ClearConstraints drops every active constraint.
func (s *Session) ClearConstraints() {
	s.constraints = nil
}

// #endregion constraints

// #region pathways

// PathwaysOpened reports whether the orchestrator has initialized this session.
func (s *Session) PathwaysOpened() bool {
	return s.pathwaysOpened
}

// OpenPathways marks the session as initialized.
func (s *Session) OpenPathways() {
	s.pathwaysOpened = true
}

// #endregion pathways

// #region snapshot

// Snapshot is a point-in-time copy of a session, safe to keep and serialize.
type Snapshot struct {
	Mode           Mode            `json:"mode"`
	Axioms         map[string]bool `json:"axioms"`
	Constraints    []string        `json:"constraints"`
	PathwaysOpened bool            `json:"pathways_opened"`
}

// Snapshot copies the current session state.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		Mode:           s.mode,
		Axioms:         s.Axioms(),
		Constraints:    s.Constraints(),
		PathwaysOpened: s.pathwaysOpened,
	}
}

// AxiomNames returns the axiom names in sorted order.
func (sn Snapshot) AxiomNames() []string {
	names := make([]string, 0, len(sn.Axioms))
	for k := range sn.Axioms {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// #endregion snapshot
