// Package importer imports workout log CSV files from disk, one file or a
// whole directory of exports at a time.
package importer

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/claude/musclememo/internal/ingest"
	"github.com/claude/musclememo/internal/journal"
)

// Stats tracks import progress.
type Stats struct {
	FilesProcessed int
	FilesSkipped   int
	FilesErrored   int

	// FilesAlreadyImported counts files whose content was imported before.
	FilesAlreadyImported int

	RowsProcessed    int
	RowsSkipped      int
	SessionsInserted int
	SessionsMerged   int
	SetsImported     int

	// FileErrors holds one line per rejected file; RowErrors one line per
	// rejected row, prefixed with the file name.
	FileErrors []string
	RowErrors  []string
}

// Service is the import side of journal.Service.
type Service interface {
	Import(ctx context.Context, r io.Reader, opts journal.ImportOptions) (*journal.ImportOutcome, error)
}

// Tracker remembers which file contents were already imported.
// *storage.DB implements it.
type Tracker interface {
	IsFileImported(ctx context.Context, hash string) (bool, error)
	MarkFileImported(ctx context.Context, name string, size int64, hash string) error
}

// Importer feeds CSV files to the journal.
type Importer struct {
	svc     Service
	log     *slog.Logger
	dryRun  bool
	tracker Tracker
	force   bool
	stats   Stats
}

// New creates a new Importer.
func New(svc Service, log *slog.Logger, dryRun bool) *Importer {
	return &Importer{svc: svc, log: log, dryRun: dryRun}
}

// TrackFiles skips files whose content t has seen and records newly imported
// ones. With force, known files are imported again and re-recorded.
func (imp *Importer) TrackFiles(t Tracker, force bool) *Importer {
	imp.tracker = t
	imp.force = force
	return imp
}

// Import processes path, either a single file or every *.csv file directly
// inside a directory, in name order. Files that fail to parse are counted
// and skipped; a save failure stops the run.
func (imp *Importer) Import(ctx context.Context, path string) (*Stats, error) {
	files, err := csvFiles(path)
	if err != nil {
		return &imp.stats, err
	}
	if len(files) == 0 {
		imp.log.Warn("no csv files found", "path", path)
	}

	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return &imp.stats, err
		}
		if err := imp.importFile(ctx, f); err != nil {
			return &imp.stats, fmt.Errorf("importing %s: %w", filepath.Base(f), err)
		}
	}
	return &imp.stats, nil
}

func (imp *Importer) importFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	name := filepath.Base(path)
	sum := sha256.Sum256(data)
	hash := hex.EncodeToString(sum[:])
	if imp.tracker != nil && !imp.force {
		done, err := imp.tracker.IsFileImported(ctx, hash)
		if err != nil {
			return err
		}
		if done {
			imp.log.Info("file already imported", "file", name)
			imp.stats.FilesAlreadyImported++
			return nil
		}
	}

	outcome, err := imp.svc.Import(ctx, bytes.NewReader(data), journal.ImportOptions{Source: name, DryRun: imp.dryRun})
	var ierr *ingest.ImportError
	if errors.As(err, &ierr) {
		imp.log.Warn("file rejected", "file", name, "error", err)
		imp.stats.FilesErrored++
		imp.stats.FileErrors = append(imp.stats.FileErrors, fmt.Sprintf("%s: %v", name, err))
		return nil
	}
	if err != nil {
		return err
	}

	r := outcome.Result
	if r.ProcessedCount == 0 && r.SkippedCount == 0 {
		imp.log.Info("file has no data rows", "file", name)
		imp.stats.FilesSkipped++
		return nil
	}

	imp.stats.FilesProcessed++
	imp.stats.RowsProcessed += r.ProcessedCount
	imp.stats.RowsSkipped += r.SkippedCount
	imp.stats.SessionsInserted += outcome.Inserted
	imp.stats.SessionsMerged += outcome.Merged
	imp.stats.SetsImported += r.SetCount()
	for _, e := range r.Errors {
		imp.stats.RowErrors = append(imp.stats.RowErrors, name+": "+e)
	}

	if imp.tracker != nil && !imp.dryRun {
		if err := imp.tracker.MarkFileImported(ctx, name, int64(len(data)), hash); err != nil {
			imp.log.Warn("failed to record imported file", "file", name, "error", err)
		}
	}
	return nil
}

// csvFiles resolves path to the list of files to import.
func csvFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".csv") {
			continue
		}
		files = append(files, filepath.Join(path, e.Name()))
	}
	return files, nil
}
