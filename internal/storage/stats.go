package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/claude/musclememo/internal/models"
)

// DataStats holds aggregate statistics about all stored data.
type DataStats struct {
	TotalSessions  int64          `json:"total_sessions"`
	TotalExercises int64          `json:"total_exercises"`
	TotalSets      int64          `json:"total_sets"`
	TotalVolume    float64        `json:"total_volume_kg"`
	EarliestData   *time.Time     `json:"earliest_data"`
	LatestData     *time.Time     `json:"latest_data"`
	ByBodyPart     []BodyPartStat `json:"by_body_part"`
}

// BodyPartStat holds summary stats for a single body part.
type BodyPartStat struct {
	BodyPart  models.BodyPart `json:"body_part"`
	Exercises int64           `json:"exercises"`
	Sets      int64           `json:"sets"`
	Volume    float64         `json:"volume_kg"`
}

// GetDataStats returns aggregate statistics for the stored data.
func (db *DB) GetDataStats(ctx context.Context) (*DataStats, error) {
	stats := &DataStats{}

	err := db.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sessions`).Scan(&stats.TotalSessions)
	if err != nil {
		return nil, fmt.Errorf("counting sessions: %w", err)
	}

	err = db.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM exercises`).Scan(&stats.TotalExercises)
	if err != nil {
		return nil, fmt.Errorf("counting exercises: %w", err)
	}

	err = db.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(weight_kg * reps), 0) FROM exercise_sets`,
	).Scan(&stats.TotalSets, &stats.TotalVolume)
	if err != nil {
		return nil, fmt.Errorf("counting sets: %w", err)
	}

	// Date range
	var earliest, latest sql.NullInt64
	err = db.db.QueryRowContext(ctx,
		`SELECT MIN(date_unix), MAX(date_unix) FROM sessions`,
	).Scan(&earliest, &latest)
	if err != nil {
		return nil, fmt.Errorf("querying date range: %w", err)
	}
	if earliest.Valid {
		t := time.Unix(earliest.Int64, 0)
		stats.EarliestData = &t
	}
	if latest.Valid {
		t := time.Unix(latest.Int64, 0)
		stats.LatestData = &t
	}

	// By body part
	rows, err := db.db.QueryContext(ctx,
		`SELECT e.body_part, COUNT(DISTINCT e.id), COUNT(st.position),
		        COALESCE(SUM(st.weight_kg * st.reps), 0)
		 FROM exercises e
		 LEFT JOIN exercise_sets st ON st.exercise_id = e.id
		 GROUP BY e.body_part
		 ORDER BY COUNT(DISTINCT e.id) DESC, e.body_part`)
	if err != nil {
		return nil, fmt.Errorf("querying body part stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s BodyPartStat
		var key string
		if err := rows.Scan(&key, &s.Exercises, &s.Sets, &s.Volume); err != nil {
			return nil, fmt.Errorf("scanning body part stat: %w", err)
		}
		if err := s.BodyPart.UnmarshalText([]byte(key)); err != nil {
			return nil, fmt.Errorf("body part stat: %w", err)
		}
		stats.ByBodyPart = append(stats.ByBodyPart, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stats, nil
}
