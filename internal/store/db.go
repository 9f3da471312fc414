// Package store persists refresh runs and their errors to SQLite.
package store

import (
	"database/sql"
	"encoding/json"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"covid-report/internal/model"
)

var db *sql.DB

// InitDB opens the database and creates the schema.
func InitDB(dbPath string) error {
	var err error
	db, err = sql.Open("sqlite3", dbPath)
	if err != nil {
		return err
	}

	runTable := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		status TEXT,
		cleaning TEXT,
		created_at DATETIME,
		updated_at DATETIME
	);
	`
	errorTable := `
	CREATE TABLE IF NOT EXISTS run_errors (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT,
		error_message TEXT,
		created_at DATETIME
	);
	`

	if _, err := db.Exec(runTable); err != nil {
		return err
	}
	if _, err := db.Exec(errorTable); err != nil {
		return err
	}
	return nil
}

// SaveRun stores a new refresh run in pending state.
func SaveRun(runID string) error {
	now := time.Now().UTC()
	_, err := db.Exec(`INSERT INTO runs (id, status, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		runID, model.RunPending, now, now)
	return err
}

// UpdateRunStatus updates a run's status.
func UpdateRunStatus(runID, status string) error {
	now := time.Now().UTC()
	_, err := db.Exec(`UPDATE runs SET status = ?, updated_at = ? WHERE id = ?`, status, now, runID)
	return err
}

// SaveRunCleaning attaches the cleaning report to a run.
func SaveRunCleaning(runID string, report model.CleaningReport) error {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	_, err = db.Exec(`UPDATE runs SET cleaning = ?, updated_at = ? WHERE id = ?`,
		string(reportJSON), now, runID)
	return err
}

// SaveRunError records an error for a run.
func SaveRunError(runID string, runErr error) error {
	if runErr == nil {
		return nil
	}
	now := time.Now().UTC()
	_, err := db.Exec(`INSERT INTO run_errors (run_id, error_message, created_at) VALUES (?, ?, ?)`,
		runID, runErr.Error(), now)
	return err
}

// ListRuns returns all refresh runs, newest first.
func ListRuns() ([]model.RefreshRun, error) {
	rows, err := db.Query(`SELECT id, status, created_at, updated_at FROM runs ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []model.RefreshRun
	for rows.Next() {
		var run model.RefreshRun
		if err := rows.Scan(&run.ID, &run.Status, &run.CreatedAt, &run.UpdatedAt); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// GetRun fetches one run, including its cleaning report when recorded.
func GetRun(runID string) (model.RefreshRun, error) {
	var run model.RefreshRun
	var cleaning sql.NullString

	err := db.QueryRow(`SELECT id, status, cleaning, created_at, updated_at FROM runs WHERE id = ?`, runID).
		Scan(&run.ID, &run.Status, &cleaning, &run.CreatedAt, &run.UpdatedAt)
	if err != nil {
		return model.RefreshRun{}, err
	}

	if cleaning.Valid && cleaning.String != "" {
		report := model.CleaningReport{}
		if err := json.Unmarshal([]byte(cleaning.String), &report); err != nil {
			return model.RefreshRun{}, err
		}
		run.Cleaning = &report
	}
	return run, nil
}

// GetRunErrors returns all errors recorded for a run.
func GetRunErrors(runID string) ([]model.RunError, error) {
	rows, err := db.Query(`SELECT run_id, error_message, created_at FROM run_errors WHERE run_id = ? ORDER BY created_at`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var errs []model.RunError
	for rows.Next() {
		var e model.RunError
		if err := rows.Scan(&e.RunID, &e.Message, &e.CreatedAt); err != nil {
			return nil, err
		}
		errs = append(errs, e)
	}
	return errs, rows.Err()
}
