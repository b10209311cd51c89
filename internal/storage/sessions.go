package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/claude/musclememo/internal/models"
)

// Changes is one atomic write to the session store.
type Changes struct {
	Insert []*models.WorkoutSession
	Update []*models.WorkoutSession
	Delete []uuid.UUID
}

// SessionQuery filters QuerySessions. Zero values mean unbounded.
type SessionQuery struct {
	From  time.Time
	To    time.Time
	Limit int
}

// ListSessions returns every session in stored (insertion) order.
func (db *DB) ListSessions(ctx context.Context) ([]*models.WorkoutSession, error) {
	return db.loadSessions(ctx, "", nil, "seq ASC", 0)
}

// QuerySessions returns sessions with From <= date < To, newest first.
func (db *DB) QuerySessions(ctx context.Context, q SessionQuery) ([]*models.WorkoutSession, error) {
	var conds []string
	var args []any
	if !q.From.IsZero() {
		conds = append(conds, "date_unix >= ?")
		args = append(args, q.From.Unix())
	}
	if !q.To.IsZero() {
		conds = append(conds, "date_unix < ?")
		args = append(args, q.To.Unix())
	}
	return db.loadSessions(ctx, strings.Join(conds, " AND "), args, "date_unix DESC, seq DESC", q.Limit)
}

// GetSession returns one session by ID, or ErrNotFound.
func (db *DB) GetSession(ctx context.Context, id uuid.UUID) (*models.WorkoutSession, error) {
	sessions, err := db.loadSessions(ctx, "id = ?", []any{id.String()}, "seq ASC", 1)
	if err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return nil, fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	return sessions[0], nil
}

// DeleteSession removes a session and everything it owns.
func (db *DB) DeleteSession(ctx context.Context, id uuid.UUID) error {
	return db.withTx(ctx, func(tx *sql.Tx) error {
		return deleteSession(ctx, tx, id)
	})
}

// Apply writes all changes in one transaction. Nothing is written if any
// part fails. Deletes run first: a merge moves exercises, IDs included, out
// of deleted sessions into updated ones.
func (db *DB) Apply(ctx context.Context, c Changes) error {
	return db.withTx(ctx, func(tx *sql.Tx) error {
		for _, id := range c.Delete {
			if err := deleteSession(ctx, tx, id); err != nil {
				return err
			}
		}
		for _, s := range c.Insert {
			if err := insertSession(ctx, tx, s); err != nil {
				return err
			}
		}
		for _, s := range c.Update {
			if err := updateSession(ctx, tx, s); err != nil {
				return err
			}
		}
		return nil
	})
}

func insertSession(ctx context.Context, tx *sql.Tx, s *models.WorkoutSession) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO sessions (id, date, date_unix, notes, duration_sec) VALUES (?, ?, ?, ?, ?)`,
		s.ID.String(), s.Date.Format(time.RFC3339Nano), s.Date.Unix(), s.Notes, s.DurationSec)
	if err != nil {
		return fmt.Errorf("inserting session %s: %w", s.ID, err)
	}
	return insertExercises(ctx, tx, s)
}

// updateSession rewrites the session row and replaces its exercises.
func updateSession(ctx context.Context, tx *sql.Tx, s *models.WorkoutSession) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE sessions SET date = ?, date_unix = ?, notes = ?, duration_sec = ? WHERE id = ?`,
		s.Date.Format(time.RFC3339Nano), s.Date.Unix(), s.Notes, s.DurationSec, s.ID.String())
	if err != nil {
		return fmt.Errorf("updating session %s: %w", s.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("updating session %s: %w", s.ID, ErrNotFound)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM exercises WHERE session_id = ?`, s.ID.String()); err != nil {
		return fmt.Errorf("clearing exercises of %s: %w", s.ID, err)
	}
	return insertExercises(ctx, tx, s)
}

func insertExercises(ctx context.Context, tx *sql.Tx, s *models.WorkoutSession) error {
	for i, e := range s.Exercises {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO exercises (id, session_id, position, name, body_part) VALUES (?, ?, ?, ?, ?)`,
			e.ID.String(), s.ID.String(), i, e.Name, e.BodyPart.Key())
		if err != nil {
			return fmt.Errorf("inserting exercise %q: %w", e.Name, err)
		}
		for j, set := range e.Sets {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO exercise_sets (exercise_id, position, weight_kg, reps, memo, created_at)
				 VALUES (?, ?, ?, ?, ?, ?)`,
				e.ID.String(), j, set.WeightKg, set.Reps, set.Memo, set.CreatedAt.Format(time.RFC3339Nano))
			if err != nil {
				return fmt.Errorf("inserting set %d of %q: %w", j+1, e.Name, err)
			}
		}
	}
	return nil
}

func deleteSession(ctx context.Context, tx *sql.Tx, id uuid.UUID) error {
	res, err := tx.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("deleting session %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("deleting session %s: %w", id, ErrNotFound)
	}
	return nil
}

// loadSessions reads matching session rows, then their exercises and sets.
// Each query is drained before the next starts since the pool holds a
// single connection.
func (db *DB) loadSessions(ctx context.Context, where string, args []any, order string, limit int) ([]*models.WorkoutSession, error) {
	filter := ""
	if where != "" {
		filter += " WHERE " + where
	}
	filter += " ORDER BY " + order
	if limit > 0 {
		filter += fmt.Sprintf(" LIMIT %d", limit)
	}

	sessions, err := scanSessions(ctx, db.db, `SELECT id, date, notes, duration_sec FROM sessions`+filter, args...)
	if err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return sessions, nil
	}

	byID := make(map[string]*models.WorkoutSession, len(sessions))
	for _, s := range sessions {
		byID[s.ID.String()] = s
	}

	// Children are selected with the same filter as a subquery, so the
	// number of bound parameters does not grow with the result.
	in := `SELECT id FROM sessions` + filter
	exercises, err := db.loadExercises(ctx, in, args, byID)
	if err != nil {
		return nil, err
	}
	if err := db.loadSets(ctx, in, args, exercises); err != nil {
		return nil, err
	}
	return sessions, nil
}

func scanSessions(ctx context.Context, db *sql.DB, query string, args ...any) ([]*models.WorkoutSession, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer rows.Close()

	var result []*models.WorkoutSession
	for rows.Next() {
		var id, date string
		s := &models.WorkoutSession{}
		if err := rows.Scan(&id, &date, &s.Notes, &s.DurationSec); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		if s.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("parsing session id %q: %w", id, err)
		}
		if s.Date, err = time.Parse(time.RFC3339Nano, date); err != nil {
			return nil, fmt.Errorf("parsing session date %q: %w", date, err)
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

func (db *DB) loadExercises(ctx context.Context, in string, args []any, sessions map[string]*models.WorkoutSession) (map[string]*models.Exercise, error) {
	rows, err := db.db.QueryContext(ctx,
		`SELECT id, session_id, name, body_part FROM exercises
		 WHERE session_id IN (`+in+`)
		 ORDER BY session_id, position`, args...)
	if err != nil {
		return nil, fmt.Errorf("querying exercises: %w", err)
	}
	defer rows.Close()

	result := make(map[string]*models.Exercise)
	for rows.Next() {
		var id, sessionID, name, bodyPart string
		if err := rows.Scan(&id, &sessionID, &name, &bodyPart); err != nil {
			return nil, fmt.Errorf("scanning exercise: %w", err)
		}
		e := &models.Exercise{Name: name}
		if e.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("parsing exercise id %q: %w", id, err)
		}
		if err := e.BodyPart.UnmarshalText([]byte(bodyPart)); err != nil {
			return nil, fmt.Errorf("exercise %s: %w", id, err)
		}
		sessions[sessionID].AddExercise(e)
		result[id] = e
	}
	return result, rows.Err()
}

func (db *DB) loadSets(ctx context.Context, in string, args []any, exercises map[string]*models.Exercise) error {
	rows, err := db.db.QueryContext(ctx,
		`SELECT st.exercise_id, st.weight_kg, st.reps, st.memo, st.created_at
		 FROM exercise_sets st
		 JOIN exercises e ON e.id = st.exercise_id
		 WHERE e.session_id IN (`+in+`)
		 ORDER BY st.exercise_id, st.position`, args...)
	if err != nil {
		return fmt.Errorf("querying sets: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var exerciseID, createdAt string
		var set models.ExerciseSet
		if err := rows.Scan(&exerciseID, &set.WeightKg, &set.Reps, &set.Memo, &createdAt); err != nil {
			return fmt.Errorf("scanning set: %w", err)
		}
		if set.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
			return fmt.Errorf("parsing set time %q: %w", createdAt, err)
		}
		e := exercises[exerciseID]
		e.Sets = append(e.Sets, set)
	}
	return rows.Err()
}
