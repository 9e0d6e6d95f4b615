// Package store keeps a run history in sqlite: one row per processing
// request with status transitions and any error that aborted it. Writes are
// best-effort; a failure here never fails the in-flight request.
package store

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Run statuses follow the orchestration state machine.
const (
	StatusReceived        = "received"
	StatusSchemaResolved  = "schema_resolved"
	StatusDataTransformed = "data_transformed"
	StatusRendered        = "rendered"
	StatusReviewed        = "reviewed"
	StatusStored          = "stored"
	StatusFailed          = "failed"
)

// RunStore records pipeline run history.
type RunStore struct {
	db *sql.DB
}

// OpenRunStore opens (and initializes) the run-history database.
func OpenRunStore(dbPath string) (*RunStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	runsTable := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		file_path TEXT,
		requirements TEXT,
		status TEXT,
		quality_score REAL,
		created_at DATETIME,
		updated_at DATETIME
	);
	`
	errorsTable := `
	CREATE TABLE IF NOT EXISTS run_errors (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT,
		error_message TEXT,
		created_at DATETIME
	);
	`
	if _, err := db.Exec(runsTable); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.Exec(errorsTable); err != nil {
		db.Close()
		return nil, err
	}
	return &RunStore{db: db}, nil
}

// Close releases the underlying database handle.
func (s *RunStore) Close() error {
	return s.db.Close()
}

// SaveRun records a freshly received request.
func (s *RunStore) SaveRun(runID, filePath, requirements string) error {
	now := time.Now().UTC()
	_, err := s.db.Exec(
		`INSERT INTO runs (id, file_path, requirements, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		runID, filePath, requirements, StatusReceived, now, now)
	return err
}

// UpdateStatus advances a run to the given stage.
func (s *RunStore) UpdateStatus(runID, status string) error {
	_, err := s.db.Exec(`UPDATE runs SET status = ?, updated_at = ? WHERE id = ?`,
		status, time.Now().UTC(), runID)
	return err
}

// SetScore stores the quality score of a completed run.
func (s *RunStore) SetScore(runID string, score float64) error {
	_, err := s.db.Exec(`UPDATE runs SET quality_score = ?, updated_at = ? WHERE id = ?`,
		score, time.Now().UTC(), runID)
	return err
}

// SaveError records the error that aborted a run.
func (s *RunStore) SaveError(runID string, runErr error) error {
	if runErr == nil {
		return nil
	}
	_, err := s.db.Exec(`INSERT INTO run_errors (run_id, error_message, created_at) VALUES (?, ?, ?)`,
		runID, runErr.Error(), time.Now().UTC())
	return err
}

// ListRuns returns all runs, newest first.
func (s *RunStore) ListRuns() ([]map[string]interface{}, error) {
	rows, err := s.db.Query(
		`SELECT id, file_path, status, quality_score, created_at, updated_at FROM runs ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []map[string]interface{}
	for rows.Next() {
		var id, filePath, status string
		var score sql.NullFloat64
		var createdAt, updatedAt time.Time
		if err := rows.Scan(&id, &filePath, &status, &score, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		run := map[string]interface{}{
			"id":        id,
			"filePath":  filePath,
			"status":    status,
			"createdAt": createdAt,
			"updatedAt": updatedAt,
		}
		if score.Valid {
			run["qualityScore"] = score.Float64
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// RunErrors returns the recorded errors for one run.
func (s *RunStore) RunErrors(runID string) ([]string, error) {
	rows, err := s.db.Query(
		`SELECT error_message FROM run_errors WHERE run_id = ? ORDER BY created_at`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []string
	for rows.Next() {
		var msg string
		if err := rows.Scan(&msg); err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}
