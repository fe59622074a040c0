package logging

import (
	"database/sql"
	"fmt"
	"time"
)

// #region schema
// Schema creates the session_log table. state.NewStore applies it alongside
// its own tables; callers with a bare *sql.DB may exec it directly.
const Schema = `
CREATE TABLE IF NOT EXISTS session_log (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id   TEXT NOT NULL,
	event_type   TEXT NOT NULL,
	mode_before  TEXT NOT NULL,
	mode_after   TEXT NOT NULL,
	report_id    TEXT,
	detail_json  TEXT,
	created_at   TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_session_log_session ON session_log(session_id, id);
`

// #endregion schema

// #region log-event
// LogEvent writes an event to the session_log table.
func LogEvent(db *sql.DB, ev Event) error {
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = time.Now().UTC()
	}

	_, err := db.Exec(
		`INSERT INTO session_log (session_id, event_type, mode_before, mode_after, report_id, detail_json, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		ev.SessionID,
		string(ev.Type),
		ev.ModeBefore,
		ev.ModeAfter,
		nullIfEmpty(ev.ReportID),
		nullIfEmpty(ev.DetailJSON),
		ev.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("log event: %w", err)
	}
	return nil
}

// #endregion log-event

// #region list-events
// ListEvents returns a session's events in insertion order.
func ListEvents(db *sql.DB, sessionID string) ([]Event, error) {
	rows, err := db.Query(
		`SELECT session_id, event_type, mode_before, mode_after, report_id, detail_json, created_at
		 FROM session_log WHERE session_id = ? ORDER BY id`, sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var ev Event
		var evType, createdStr string
		var reportID, detail sql.NullString
		if err := rows.Scan(&ev.SessionID, &evType, &ev.ModeBefore, &ev.ModeAfter, &reportID, &detail, &createdStr); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		ev.Type = EventType(evType)
		ev.ReportID = reportID.String
		ev.DetailJSON = detail.String
		ev.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
		events = append(events, ev)
	}
	return events, rows.Err()
}

// #endregion list-events

// #region helpers
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// #endregion helpers
