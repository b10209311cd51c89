package journal

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/claude/musclememo/internal/ingest"
	"github.com/claude/musclememo/internal/ingest/musclememo"
	"github.com/claude/musclememo/internal/reconcile"
	"github.com/claude/musclememo/internal/storage"
)

// ImportOptions controls Import.
type ImportOptions struct {
	// Source names the input in logs, usually the file name.
	Source string
	// DryRun parses and reconciles without saving or logging the import.
	DryRun bool
}

// ImportOutcome describes what an import did to the store.
type ImportOutcome struct {
	Source string         `json:"source"`
	Result *ingest.Result `json:"result"`
	// Inserted counts new sessions, Merged counts imported sessions folded
	// into a same-day session, Updated counts stored sessions that changed.
	Inserted int  `json:"inserted"`
	Merged   int  `json:"merged"`
	Updated  int  `json:"updated"`
	DryRun   bool `json:"dry_run"`
}

// Summary extends the import report with the reconciliation counts.
func (o *ImportOutcome) Summary() string {
	s := o.Result.Summary()
	s += fmt.Sprintf("New sessions: %d\nMerged into same-day sessions: %d\n", o.Inserted, o.Merged)
	if o.DryRun {
		s += "Dry run: nothing was saved.\n"
	}
	return s
}

// Import reads a workout log CSV, reconciles every session in it against
// the store and saves the whole batch in one transaction.
//
// A file-level failure returns an *ingest.ImportError and no outcome. A save
// failure returns the outcome together with a *PersistError.
func (s *Service) Import(ctx context.Context, r io.Reader, opts ImportOptions) (*ImportOutcome, error) {
	start := time.Now()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", opts.Source, err)
	}

	result, err := musclememo.Import(data, s.Location())
	if err != nil {
		s.log.Warn("import rejected", "source", opts.Source, "error", err)
		if !opts.DryRun {
			s.logImport(opts.Source, nil, nil, err, start)
		}
		return nil, err
	}

	existing, err := s.store.ListSessions(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading sessions: %w", err)
	}

	batch := s.engine.Apply(result.Sessions, existing)
	outcome := &ImportOutcome{
		Source:   opts.Source,
		Result:   result,
		Inserted: len(batch.Insert),
		Merged:   batch.Merged,
		Updated:  len(batch.Update),
		DryRun:   opts.DryRun,
	}
	if opts.DryRun {
		s.log.Info("dry run import", "source", opts.Source,
			"sessions", result.SuccessCount(), "processed", result.ProcessedCount, "skipped", result.SkippedCount)
		return outcome, nil
	}

	if err := s.store.Apply(ctx, storage.Changes{Insert: batch.Insert, Update: batch.Update}); err != nil {
		s.log.Error("failed to save imported sessions", "source", opts.Source, "error", err)
		perr := &PersistError{Op: "imported sessions", Err: err}
		s.logImport(opts.Source, result, batch, perr, start)
		return outcome, perr
	}

	s.logImport(opts.Source, result, batch, nil, start)
	s.log.Info("import complete", "source", opts.Source,
		"sessions", result.SuccessCount(), "processed", result.ProcessedCount, "skipped", result.SkippedCount,
		"inserted", outcome.Inserted, "merged", outcome.Merged)
	return outcome, nil
}

// logImport records an import operation's result to the import_logs table.
func (s *Service) logImport(source string, result *ingest.Result, batch *reconcile.Batch, importErr error, start time.Time) {
	durationMs := int(time.Since(start).Milliseconds())
	log := storage.ImportLog{
		Source:     source,
		Status:     storage.ImportSuccess,
		DurationMs: &durationMs,
	}
	if result != nil {
		log.RowsProcessed = result.ProcessedCount
		log.RowsSkipped = result.SkippedCount
		log.SetsImported = result.SetCount()
		log.RowErrors = result.Errors
		if result.HasErrors() {
			log.Status = storage.ImportPartial
		}
	}
	if batch != nil {
		log.SessionsInserted = len(batch.Insert)
		log.SessionsMerged = batch.Merged
	}
	if importErr != nil {
		log.Status = storage.ImportError
		msg := importErr.Error()
		log.ErrorMessage = &msg
	}

	ctx, cancel := contextWithTimeout()
	defer cancel()

	if _, err := s.store.InsertImportLog(ctx, log); err != nil {
		s.log.Error("failed to log import", "source", source, "error", err)
	}
}

// contextWithTimeout bounds import log writes independently of the caller's context.
func contextWithTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 5*time.Second) //nolint:mnd
}
