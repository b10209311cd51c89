// Package journal is the application service over the session store. Every
// write goes through the reconciliation engine first, so same-day sessions
// are merged no matter how they arrive.
package journal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/claude/musclememo/internal/export"
	"github.com/claude/musclememo/internal/models"
	"github.com/claude/musclememo/internal/reconcile"
	"github.com/claude/musclememo/internal/stats"
	"github.com/claude/musclememo/internal/storage"
)

// ErrEmptySession rejects recording a session without exercises.
var ErrEmptySession = errors.New("session has no exercises")

// PersistError reports that reconciled data could not be saved. The store
// was left unchanged; in-memory sessions passed to the call may already hold
// merged data. Nothing is retried.
type PersistError struct {
	Op  string
	Err error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("persisting %s: %v", e.Op, e.Err)
}

func (e *PersistError) Unwrap() error {
	return e.Err
}

// Store is the persistence the service needs. *storage.DB implements it.
type Store interface {
	ListSessions(ctx context.Context) ([]*models.WorkoutSession, error)
	QuerySessions(ctx context.Context, q storage.SessionQuery) ([]*models.WorkoutSession, error)
	GetSession(ctx context.Context, id uuid.UUID) (*models.WorkoutSession, error)
	Apply(ctx context.Context, c storage.Changes) error
	DeleteSession(ctx context.Context, id uuid.UUID) error
	InsertImportLog(ctx context.Context, log storage.ImportLog) (int64, error)
	QueryImportLogs(ctx context.Context, limit int) ([]storage.ImportLog, error)
	GetDataStats(ctx context.Context) (*storage.DataStats, error)
}

// Service records, imports, exports and tidies workout sessions.
type Service struct {
	store  Store
	engine *reconcile.Engine
	log    *slog.Logger
}

// New creates a Service.
func New(store Store, engine *reconcile.Engine, log *slog.Logger) *Service {
	return &Service{store: store, engine: engine, log: log}
}

// Location is the zone used for calendar days and CSV timestamps.
func (s *Service) Location() *time.Location {
	return s.engine.Location()
}

// Record saves a manually entered session, merging it into an existing
// session on the same day if there is one.
func (s *Service) Record(ctx context.Context, session *models.WorkoutSession) (reconcile.Decision, error) {
	if len(session.Exercises) == 0 {
		return reconcile.Decision{}, ErrEmptySession
	}

	existing, err := s.store.ListSessions(ctx)
	if err != nil {
		return reconcile.Decision{}, fmt.Errorf("loading sessions: %w", err)
	}

	d := s.engine.Reconcile(session, existing)
	changes := storage.Changes{Insert: []*models.WorkoutSession{session}}
	if d.Action == reconcile.Merged {
		changes = storage.Changes{Update: []*models.WorkoutSession{d.Target}}
	}
	if err := s.store.Apply(ctx, changes); err != nil {
		s.log.Error("failed to save session", "session", session.ID, "action", d.Action, "error", err)
		return d, &PersistError{Op: "session", Err: err}
	}

	s.log.Info("session recorded", "session", d.Target.ID, "action", d.Action,
		"exercises", len(d.Target.Exercises), "sets", d.Target.TotalSets())
	return d, nil
}

// Delete removes one session.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.store.DeleteSession(ctx, id); err != nil {
		return err
	}
	s.log.Info("session deleted", "session", id)
	return nil
}

// MergeDuplicates collapses every day holding several sessions into its
// first session and saves the result.
func (s *Service) MergeDuplicates(ctx context.Context) (*reconcile.Batch, error) {
	sessions, err := s.store.ListSessions(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading sessions: %w", err)
	}

	b := s.engine.MergeDuplicates(sessions)
	if b.Empty() {
		return b, nil
	}
	if err := s.store.Apply(ctx, storage.Changes{Update: b.Update, Delete: b.Delete}); err != nil {
		s.log.Error("failed to save merged sessions", "updated", len(b.Update), "deleted", len(b.Delete), "error", err)
		return b, &PersistError{Op: "merged sessions", Err: err}
	}

	s.log.Info("duplicate sessions merged", "kept", len(b.Update), "removed", len(b.Delete))
	return b, nil
}

// Session returns one session by ID.
func (s *Service) Session(ctx context.Context, id uuid.UUID) (*models.WorkoutSession, error) {
	return s.store.GetSession(ctx, id)
}

// Sessions returns sessions matching q, newest first.
func (s *Service) Sessions(ctx context.Context, q storage.SessionQuery) ([]*models.WorkoutSession, error) {
	return s.store.QuerySessions(ctx, q)
}

// Export renders a report over every stored session.
func (s *Service) Export(ctx context.Context, kind export.Kind, now time.Time) (*export.File, error) {
	sessions, err := s.store.ListSessions(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading sessions: %w", err)
	}
	f, err := export.Render(kind, sessions, s.Location(), now)
	if err != nil {
		return nil, err
	}
	s.log.Info("export rendered", "kind", kind, "file", f.Name, "sessions", len(sessions))
	return f, nil
}

// DailyRollup returns per-day summaries over every stored session.
func (s *Service) DailyRollup(ctx context.Context) ([]export.DailySummary, error) {
	sessions, err := s.store.ListSessions(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading sessions: %w", err)
	}
	return export.Daily(sessions, s.Location()), nil
}

// BodyPartRollup returns per-body-part summaries over every stored session.
func (s *Service) BodyPartRollup(ctx context.Context) ([]export.BodyPartSummary, error) {
	sessions, err := s.store.ListSessions(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading sessions: %w", err)
	}
	return export.BodyParts(sessions), nil
}

// Stats computes training statistics as of now.
func (s *Service) Stats(ctx context.Context, now time.Time) (*stats.Overview, error) {
	sessions, err := s.store.ListSessions(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading sessions: %w", err)
	}
	return stats.Compute(sessions, now, s.Location()), nil
}

// DataStats returns store-level counts.
func (s *Service) DataStats(ctx context.Context) (*storage.DataStats, error) {
	return s.store.GetDataStats(ctx)
}

// ImportLogs returns the most recent import log entries.
func (s *Service) ImportLogs(ctx context.Context, limit int) ([]storage.ImportLog, error) {
	return s.store.QueryImportLogs(ctx, limit)
}
