package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// Import log statuses.
const (
	ImportSuccess = "success"
	ImportPartial = "partial"
	ImportError   = "error"
)

// ImportLog represents a single import operation's outcome.
type ImportLog struct {
	ID               int64     `json:"id"`
	CreatedAt        time.Time `json:"created_at"`
	Source           string    `json:"source"`
	Status           string    `json:"status"`
	RowsProcessed    int       `json:"rows_processed"`
	RowsSkipped      int       `json:"rows_skipped"`
	SessionsInserted int       `json:"sessions_inserted"`
	SessionsMerged   int       `json:"sessions_merged"`
	SetsImported     int       `json:"sets_imported"`
	DurationMs       *int      `json:"duration_ms"`
	ErrorMessage     *string   `json:"error_message"`
	RowErrors        []string  `json:"row_errors,omitempty"`
}

// InsertImportLog creates a new import log entry and returns its ID.
// A zero CreatedAt is set to the current time.
func (db *DB) InsertImportLog(ctx context.Context, log ImportLog) (int64, error) {
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now()
	}
	var rowErrors *string
	if len(log.RowErrors) > 0 {
		b, err := json.Marshal(log.RowErrors)
		if err != nil {
			return 0, fmt.Errorf("encoding row errors: %w", err)
		}
		s := string(b)
		rowErrors = &s
	}

	res, err := db.db.ExecContext(ctx,
		`INSERT INTO import_logs (created_at, source, status, rows_processed, rows_skipped,
		 sessions_inserted, sessions_merged, sets_imported, duration_ms, error_message, row_errors)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		log.CreatedAt.UTC().Format(time.RFC3339Nano), log.Source, log.Status,
		log.RowsProcessed, log.RowsSkipped, log.SessionsInserted, log.SessionsMerged,
		log.SetsImported, log.DurationMs, log.ErrorMessage, rowErrors,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting import log: %w", err)
	}
	return res.LastInsertId()
}

// QueryImportLogs returns the most recent import logs, newest first.
func (db *DB) QueryImportLogs(ctx context.Context, limit int) ([]ImportLog, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.db.QueryContext(ctx,
		`SELECT id, created_at, source, status, rows_processed, rows_skipped,
		 sessions_inserted, sessions_merged, sets_imported, duration_ms, error_message, row_errors
		 FROM import_logs
		 ORDER BY id DESC
		 LIMIT ?`,
		limit)
	if err != nil {
		return nil, fmt.Errorf("querying import logs: %w", err)
	}
	defer rows.Close()

	var result []ImportLog
	for rows.Next() {
		var l ImportLog
		var createdAt string
		var durationMs sql.NullInt64
		var errMsg, rowErrors sql.NullString
		if err := rows.Scan(&l.ID, &createdAt, &l.Source, &l.Status,
			&l.RowsProcessed, &l.RowsSkipped, &l.SessionsInserted, &l.SessionsMerged,
			&l.SetsImported, &durationMs, &errMsg, &rowErrors); err != nil {
			return nil, fmt.Errorf("scanning import log: %w", err)
		}
		if l.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
			return nil, fmt.Errorf("parsing import log time %q: %w", createdAt, err)
		}
		if durationMs.Valid {
			d := int(durationMs.Int64)
			l.DurationMs = &d
		}
		if errMsg.Valid {
			l.ErrorMessage = &errMsg.String
		}
		if rowErrors.Valid {
			if err := json.Unmarshal([]byte(rowErrors.String), &l.RowErrors); err != nil {
				return nil, fmt.Errorf("decoding row errors of log %d: %w", l.ID, err)
			}
		}
		result = append(result, l)
	}
	return result, rows.Err()
}
