package logging

import "time"

// #region event-type
// EventType names the orchestrator operation an event records.
type EventType string

const (
	EventInitialize     EventType = "initialize"
	EventProcessReality EventType = "process_reality"
	EventGlimpse        EventType = "glimpse"
)

// #endregion event-type

// #region event
// Event is a single row in the session_log table.
type Event struct {
	SessionID  string    `json:"session_id"`
	Type       EventType `json:"type"`
	ModeBefore string    `json:"mode_before"`
	ModeAfter  string    `json:"mode_after"`
	ReportID   string    `json:"report_id,omitempty"` // empty unless Type is process_reality
	DetailJSON string    `json:"detail_json,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// #endregion event

// #region log-config
// Config controls the process-wide zap logger.
type Config struct {
	Level      string `mapstructure:"level"`  // debug, info, warn, error
	Format     string `mapstructure:"format"` // json | console
	File       string `mapstructure:"file"`   // optional rotating file, empty = stderr only
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// DefaultConfig logs info and above to stderr in console format.
func DefaultConfig() Config {
	return Config{
		Level:      "info",
		Format:     "console",
		MaxSizeMB:  100,
		MaxBackups: 5,
		MaxAgeDays: 30,
	}
}

// #endregion log-config
