package state

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/danielpatrickdp/layered-annotator/internal/logging"
	"github.com/danielpatrickdp/layered-annotator/internal/report"
	"github.com/danielpatrickdp/layered-annotator/internal/session"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	session_id       TEXT PRIMARY KEY,
	mode             TEXT NOT NULL,
	pathways_opened  INTEGER NOT NULL DEFAULT 0,
	axioms_json      TEXT NOT NULL,
	constraints_json TEXT NOT NULL,
	created_at       TEXT NOT NULL,
	updated_at       TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS reports (
	report_id         TEXT PRIMARY KEY,
	session_id        TEXT NOT NULL,
	batch_json        TEXT NOT NULL,
	integration_level REAL NOT NULL,
	state             TEXT NOT NULL,
	detected          INTEGER NOT NULL,
	insight_count     INTEGER NOT NULL,
	report_json       TEXT NOT NULL,
	created_at        TEXT NOT NULL,
	FOREIGN KEY (session_id) REFERENCES sessions(session_id)
);
`

// #endregion schema

// #region store-struct
// Store persists sessions and reports in SQLite.
type Store struct {
	db *sql.DB
}

// #endregion store-struct

// #region constructor
// NewStore opens a SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// single writer; concurrent gRPC handlers queue on the pool
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma fk: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	if _, err := db.Exec(logging.Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate session_log: %w", err)
	}
	return &Store{db: db}, nil
}

// #endregion constructor

// #region close
// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// #endregion close

// #region db-accessor
// DB returns the underlying *sql.DB for use by other packages (e.g. logging).
func (s *Store) DB() *sql.DB {
	return s.db
}

// #endregion db-accessor

// #region sessions
// CreateSession inserts a new session row under a fresh UUID.
func (s *Store) CreateSession(snap session.Snapshot) (SessionRecord, error) {
	axJSON, conJSON, err := encodeSnapshot(snap)
	if err != nil {
		return SessionRecord{}, err
	}

	now := time.Now().UTC()
	rec := SessionRecord{
		SessionID: uuid.New().String(),
		Snapshot:  snap,
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err = s.db.Exec(
		`INSERT INTO sessions (session_id, mode, pathways_opened, axioms_json, constraints_json, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.SessionID, snap.Mode.String(), boolInt(snap.PathwaysOpened), axJSON, conJSON,
		now.Format(time.RFC3339Nano), now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return SessionRecord{}, fmt.Errorf("insert session: %w", err)
	}
	return rec, nil
}

// UpdateSession overwrites the stored snapshot of an existing session.
func (s *Store) UpdateSession(id string, snap session.Snapshot) error {
	axJSON, conJSON, err := encodeSnapshot(snap)
	if err != nil {
		return err
	}
	res, err := s.db.Exec(
		`UPDATE sessions SET mode = ?, pathways_opened = ?, axioms_json = ?, constraints_json = ?, updated_at = ?
		 WHERE session_id = ?`,
		snap.Mode.String(), boolInt(snap.PathwaysOpened), axJSON, conJSON,
		time.Now().UTC().Format(time.RFC3339Nano), id,
	)
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("session %s not found", id)
	}
	return nil
}

// GetSession reads a session by ID.
func (s *Store) GetSession(id string) (SessionRecord, error) {
	var rec SessionRecord
	var mode, axJSON, conJSON, createdStr, updatedStr string
	var opened int

	err := s.db.QueryRow(
		`SELECT session_id, mode, pathways_opened, axioms_json, constraints_json, created_at, updated_at
		 FROM sessions WHERE session_id = ?`, id,
	).Scan(&rec.SessionID, &mode, &opened, &axJSON, &conJSON, &createdStr, &updatedStr)
	if err != nil {
		return SessionRecord{}, fmt.Errorf("get session %s: %w", id, err)
	}

	if rec.Snapshot.Mode, err = session.ParseMode(mode); err != nil {
		return SessionRecord{}, fmt.Errorf("get session %s: %w", id, err)
	}
	rec.Snapshot.PathwaysOpened = opened != 0
	if err := json.Unmarshal([]byte(axJSON), &rec.Snapshot.Axioms); err != nil {
		return SessionRecord{}, fmt.Errorf("unmarshal axioms: %w", err)
	}
	if err := json.Unmarshal([]byte(conJSON), &rec.Snapshot.Constraints); err != nil {
		return SessionRecord{}, fmt.Errorf("unmarshal constraints: %w", err)
	}
	rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
	rec.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedStr)
	return rec, nil
}

// #endregion sessions

// #region reports
// SaveReport persists a unified report under a fresh UUID.
func (s *Store) SaveReport(sessionID string, batch report.Batch, level float64, rep report.UnifiedReport) (ReportRecord, error) {
	if batch == nil {
		batch = report.Batch{}
	}
	batchJSON, err := json.Marshal(batch)
	if err != nil {
		return ReportRecord{}, fmt.Errorf("marshal batch: %w", err)
	}
	repJSON, err := json.Marshal(rep)
	if err != nil {
		return ReportRecord{}, fmt.Errorf("marshal report: %w", err)
	}

	rec := ReportRecord{
		ReportID:         uuid.New().String(),
		SessionID:        sessionID,
		Batch:            batch,
		IntegrationLevel: level,
		State:            rep.Metaphysical.State,
		Detected:         rep.Coordination.Detected,
		InsightCount:     len(rep.Metaphysical.Insights),
		Report:           rep,
		CreatedAt:        time.Now().UTC(),
	}

	_, err = s.db.Exec(
		`INSERT INTO reports (report_id, session_id, batch_json, integration_level, state, detected, insight_count, report_json, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ReportID, rec.SessionID, string(batchJSON), rec.IntegrationLevel, rec.State,
		boolInt(rec.Detected), rec.InsightCount, string(repJSON), rec.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return ReportRecord{}, fmt.Errorf("insert report: %w", err)
	}
	return rec, nil
}

// GetReport reads a report by ID.
func (s *Store) GetReport(id string) (ReportRecord, error) {
	row := s.db.QueryRow(
		`SELECT report_id, session_id, batch_json, integration_level, state, detected, insight_count, report_json, created_at
		 FROM reports WHERE report_id = ?`, id,
	)
	rec, err := scanReport(row)
	if err != nil {
		return ReportRecord{}, fmt.Errorf("get report %s: %w", id, err)
	}
	return rec, nil
}

// ListReports returns the most recent reports, newest first.
func (s *Store) ListReports(limit int) ([]ReportRecord, error) {
	rows, err := s.db.Query(
		`SELECT report_id, session_id, batch_json, integration_level, state, detected, insight_count, report_json, created_at
		 FROM reports ORDER BY rowid DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	var records []ReportRecord
	for rows.Next() {
		rec, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// #endregion reports

// #region helpers
type scanner interface {
	Scan(dest ...any) error
}

func scanReport(sc scanner) (ReportRecord, error) {
	var rec ReportRecord
	var batchJSON, repJSON, createdStr string
	var detected int

	if err := sc.Scan(&rec.ReportID, &rec.SessionID, &batchJSON, &rec.IntegrationLevel,
		&rec.State, &detected, &rec.InsightCount, &repJSON, &createdStr); err != nil {
		return ReportRecord{}, err
	}
	rec.Detected = detected != 0
	if err := json.Unmarshal([]byte(batchJSON), &rec.Batch); err != nil {
		return ReportRecord{}, fmt.Errorf("unmarshal batch: %w", err)
	}
	if err := json.Unmarshal([]byte(repJSON), &rec.Report); err != nil {
		return ReportRecord{}, fmt.Errorf("unmarshal report: %w", err)
	}
	rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
	return rec, nil
}

func encodeSnapshot(snap session.Snapshot) (axioms, constraints string, err error) {
	ax, err := json.Marshal(snap.Axioms)
	if err != nil {
		return "", "", fmt.Errorf("marshal axioms: %w", err)
	}
	cons := snap.Constraints
	if cons == nil {
		cons = []string{}
	}
	con, err := json.Marshal(cons)
	if err != nil {
		return "", "", fmt.Errorf("marshal constraints: %w", err)
	}
	return string(ax), string(con), nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// #endregion helpers
