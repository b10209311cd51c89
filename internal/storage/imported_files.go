package storage

import (
	"context"
	"fmt"
	"time"
)

// IsFileImported reports whether a file with this content hash was imported before.
func (db *DB) IsFileImported(ctx context.Context, hash string) (bool, error) {
	var count int
	err := db.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM imported_files WHERE hash = ?`, hash,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking imported file: %w", err)
	}
	return count > 0, nil
}

// MarkFileImported records a successfully imported file. Re-marking the same
// content replaces the earlier name and time.
func (db *DB) MarkFileImported(ctx context.Context, name string, size int64, hash string) error {
	_, err := db.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO imported_files (hash, name, size, imported_at) VALUES (?, ?, ?, ?)`,
		hash, name, size, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("marking imported file: %w", err)
	}
	return nil
}
