package session

import "fmt"

// #region mode

// Mode is the session's processing posture. Modes are ordered; a session
// only ever moves forward through them.
type Mode int

const (
	ModeBase Mode = iota
	ModeAware
	ModeExpanded
	ModeInterface
)

var modeNames = [...]string{
	ModeBase:      "base",
	ModeAware:     "aware",
	ModeExpanded:  "expanded",
	ModeInterface: "interface",
}

// String returns the lowercase mode name.
func (m Mode) String() string {
	if m < ModeBase || m > ModeInterface {
		return fmt.Sprintf("mode(%d)", int(m))
	}
	return modeNames[m]
}

// IsValid reports whether m is one of the four defined modes.
func (m Mode) IsValid() bool {
	return m >= ModeBase && m <= ModeInterface
}

// AtLeast reports whether m is o or later.
func (m Mode) AtLeast(o Mode) bool {
	return m >= o
}

// ParseMode parses a mode name as produced by String.
func ParseMode(s string) (Mode, error) {
	for i, name := range modeNames {
		if name == s {
			return Mode(i), nil
		}
	}
	return ModeBase, fmt.Errorf("unknown mode %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	if !m.IsValid() {
		return nil, fmt.Errorf("invalid mode %d", int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(b []byte) error {
	parsed, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// #endregion mode
