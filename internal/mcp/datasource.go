package mcp

import (
	"context"
	"io"
	"time"

	"github.com/claude/musclememo/internal/export"
	"github.com/claude/musclememo/internal/journal"
	"github.com/claude/musclememo/internal/models"
	"github.com/claude/musclememo/internal/reconcile"
	"github.com/claude/musclememo/internal/stats"
	"github.com/claude/musclememo/internal/storage"
)

// Journal abstracts the journal service for MCP tools.
type Journal interface {
	Location() *time.Location
	Sessions(ctx context.Context, q storage.SessionQuery) ([]*models.WorkoutSession, error)
	Export(ctx context.Context, kind export.Kind, now time.Time) (*export.File, error)
	DailyRollup(ctx context.Context) ([]export.DailySummary, error)
	BodyPartRollup(ctx context.Context) ([]export.BodyPartSummary, error)
	Stats(ctx context.Context, now time.Time) (*stats.Overview, error)
	DataStats(ctx context.Context) (*storage.DataStats, error)
	Import(ctx context.Context, r io.Reader, opts journal.ImportOptions) (*journal.ImportOutcome, error)
	MergeDuplicates(ctx context.Context) (*reconcile.Batch, error)
}

// Compile-time check: *journal.Service satisfies Journal.
var _ Journal = (*journal.Service)(nil)

func sessionQuery(from, to time.Time, limit int) storage.SessionQuery {
	return storage.SessionQuery{From: from, To: to, Limit: limit}
}
