package store

import (
	"database/sql"
	"errors"
	"time"
)

// Import history statuses.
const (
	ImportSubmitting = "submitting"
	ImportCompleted  = "completed"
	ImportFailed     = "failed"
)

// ImportEntry is one bulk user import as recorded locally.
type ImportEntry struct {
	BatchID      string    `json:"batchId"`
	SourceFile   string    `json:"sourceFile"`
	Total        int       `json:"total"`
	CountSuccess int       `json:"countSuccess"`
	CountFail    int       `json:"countFail"`
	Status       string    `json:"status"`
	ErrorMessage string    `json:"errorMessage,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// BeginImport records a batch about to be submitted.
func (db *DB) BeginImport(batchID, sourceFile string, total int) error {
	now := nowMillis()
	_, err := db.Exec(`
		INSERT INTO import_history (batch_id, source_file, total, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		batchID, sourceFile, total, ImportSubmitting, now, now)
	return err
}

// CompleteImport stores the backend's outcome for a batch.
func (db *DB) CompleteImport(batchID string, countSuccess, countFail int) error {
	_, err := db.Exec(`
		UPDATE import_history SET status = ?, count_success = ?, count_fail = ?, updated_at = ?
		WHERE batch_id = ?`,
		ImportCompleted, countSuccess, countFail, nowMillis(), batchID)
	return err
}

// FailImport marks a batch whose submission never got an outcome.
func (db *DB) FailImport(batchID, errMsg string) error {
	_, err := db.Exec(`
		UPDATE import_history SET status = ?, error_message = ?, updated_at = ?
		WHERE batch_id = ?`,
		ImportFailed, errMsg, nowMillis(), batchID)
	return err
}

// GetImport returns one batch by ID, or ErrNotFound.
func (db *DB) GetImport(batchID string) (*ImportEntry, error) {
	row := db.QueryRow(`
		SELECT batch_id, source_file, total, count_success, count_fail, status, error_message, created_at
		FROM import_history WHERE batch_id = ?`, batchID)
	e, err := scanImport(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return e, err
}

// ListImports returns the most recent batches first.
func (db *DB) ListImports(limit int) ([]ImportEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.Query(`
		SELECT batch_id, source_file, total, count_success, count_fail, status, error_message, created_at
		FROM import_history ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var entries []ImportEntry
	for rows.Next() {
		e, err := scanImport(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanImport(s scanner) (*ImportEntry, error) {
	var e ImportEntry
	var created int64
	if err := s.Scan(&e.BatchID, &e.SourceFile, &e.Total, &e.CountSuccess, &e.CountFail, &e.Status, &e.ErrorMessage, &created); err != nil {
		return nil, err
	}
	e.CreatedAt = time.UnixMilli(created)
	return &e, nil
}
