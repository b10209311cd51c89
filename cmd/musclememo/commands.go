package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/claude/musclememo/internal/csvcodec"
	"github.com/claude/musclememo/internal/export"
	"github.com/claude/musclememo/internal/importer"
	mcpserver "github.com/claude/musclememo/internal/mcp"
	"github.com/claude/musclememo/internal/reconcile"
	"github.com/claude/musclememo/internal/storage"
)

func newMigrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the database schema and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			if err := storage.RunMigrations(cfg.Storage.Path); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			log.Info("migrations applied", "path", cfg.Storage.Path)
			return nil
		},
	}
}

func newImportCmd(configPath *string) *cobra.Command {
	var dryRun, force bool

	cmd := &cobra.Command{
		Use:   "import <file-or-dir>",
		Short: "Import workout log CSV files, merging same-day sessions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx, *configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			if dryRun {
				a.log.Info("dry run: no data will be written")
			}

			stats, err := importer.New(a.journal, a.log, dryRun).TrackFiles(a.db, force).Import(ctx, args[0])
			if stats != nil {
				printImportStats(cmd.OutOrStdout(), stats)
			}
			if err != nil {
				return fmt.Errorf("import failed: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "parse and reconcile without saving")
	cmd.Flags().BoolVar(&force, "force", false, "import files even if the same content was imported before")
	return cmd
}

func printImportStats(w io.Writer, s *importer.Stats) {
	_, _ = fmt.Fprintf(w, "files: %d processed, %d skipped, %d already imported, %d errored\n",
		s.FilesProcessed, s.FilesSkipped, s.FilesAlreadyImported, s.FilesErrored)
	_, _ = fmt.Fprintf(w, "rows: %d processed, %d skipped\n", s.RowsProcessed, s.RowsSkipped)
	_, _ = fmt.Fprintf(w, "sessions: %d new, %d merged into same-day sessions\n", s.SessionsInserted, s.SessionsMerged)
	_, _ = fmt.Fprintf(w, "sets: %d\n", s.SetsImported)
	for _, e := range s.FileErrors {
		_, _ = fmt.Fprintf(w, "file error: %s\n", e)
	}
	for _, e := range s.RowErrors[:min(len(s.RowErrors), 20)] {
		_, _ = fmt.Fprintf(w, "row error: %s\n", e)
	}
	if extra := len(s.RowErrors) - 20; extra > 0 {
		_, _ = fmt.Fprintf(w, "... and %d more row errors\n", extra)
	}
}

func newExportCmd(configPath *string) *cobra.Command {
	var kinds []string
	var outDir string
	var toStdout bool

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write CSV reports (workouts, daily, body-parts)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx, *configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			if outDir == "" {
				outDir = a.cfg.Export.Dir
			}
			now := time.Now()
			for _, k := range kinds {
				kind, err := export.ParseKind(k)
				if err != nil {
					return err
				}
				f, err := a.journal.Export(ctx, kind, now)
				if err != nil {
					return err
				}
				if toStdout {
					_, _ = io.WriteString(cmd.OutOrStdout(), f.Content)
					continue
				}
				if err := writeExport(outDir, f); err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), filepath.Join(outDir, f.Name))
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&kinds, "kind", []string{string(export.KindWorkouts)}, "report kinds: workouts|daily|body-parts")
	cmd.Flags().StringVar(&outDir, "out", "", "output directory (default export.dir)")
	cmd.Flags().BoolVar(&toStdout, "stdout", false, "print reports instead of writing files")
	return cmd
}

func writeExport(dir string, f *export.File) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating export dir: %w", err)
	}
	path := filepath.Join(dir, f.Name)
	if err := os.WriteFile(path, []byte(f.Content), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func newSessionsCmd(configPath *string) *cobra.Command {
	var from, to string
	var limit int
	var verbose bool

	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List sessions newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx, *configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			loc := a.journal.Location()
			q := storage.SessionQuery{Limit: limit}
			if q.From, err = parseDay(from, loc); err != nil {
				return fmt.Errorf("--from: %w", err)
			}
			if q.To, err = parseDay(to, loc); err != nil {
				return fmt.Errorf("--to: %w", err)
			}
			if !q.To.IsZero() {
				q.To = q.To.AddDate(0, 0, 1)
			}

			sessions, err := a.journal.Sessions(ctx, q)
			if err != nil {
				return err
			}
			if len(sessions) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no sessions")
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(tw, "ID\tDATE\tEXERCISES\tSETS\tVOLUME(kg)\tNOTES")
			for _, s := range sessions {
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\t%s\n", s.ID, s.Date.In(loc).Format(csvcodec.DateTimeLayout),
					len(s.Exercises), s.TotalSets(), csvcodec.FormatDecimal(s.TotalVolume()), oneLine(s.Notes))
				if !verbose {
					continue
				}
				for _, e := range s.Exercises {
					var sets []string
					for _, set := range e.Sets {
						sets = append(sets, fmt.Sprintf("%sx%d", csvcodec.FormatDecimal(set.WeightKg), set.Reps))
					}
					_, _ = fmt.Fprintf(tw, "\t  %s %s\t\t%d\t%s\t%s\n", e.BodyPart.Label(), e.Name, len(e.Sets),
						csvcodec.FormatDecimal(e.TotalVolume()), strings.Join(sets, " "))
				}
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "first day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "last day, inclusive (YYYY-MM-DD)")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum sessions, 0 for all")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show exercises and sets")
	return cmd
}

func parseDay(s string, loc *time.Location) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.ParseInLocation("2006-01-02", s, loc)
}

func oneLine(s string) string {
	return strings.ReplaceAll(s, "\n", " ")
}

func newRecordCmd(configPath *string) *cobra.Command {
	var date, notes string
	var durationMin float64
	var sets []string

	cmd := &cobra.Command{
		Use:   "record --set <part:exercise[:WEIGHTxREPS[:memo]]>...",
		Short: "Record a session, merging it into the same day's session if one exists",
		Example: `  musclememo record --set "chest:ベンチプレス:60x10" --set "chest:ベンチプレス:70x8:last set hard"
  musclememo record --date "2025-07-16 18:30:00" --duration 45 --set "legs:スクワット:80x5"`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx, *configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			session, err := buildSession(date, notes, durationMin, sets, a.journal.Location(), time.Now())
			if err != nil {
				return err
			}

			d, err := a.journal.Record(ctx, session)
			if err != nil {
				return err
			}
			if d.Action == reconcile.Merged {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "merged into session %s (%s)\n", d.Target.ID,
					d.Target.Date.In(a.journal.Location()).Format(csvcodec.DateTimeLayout))
				return nil
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "recorded session %s\n", d.Target.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", `session start "YYYY-MM-DD HH:MM:SS" or "YYYY-MM-DD" (default now)`)
	cmd.Flags().StringVar(&notes, "notes", "", "session notes")
	cmd.Flags().Float64Var(&durationMin, "duration", 0, "workout duration in minutes")
	cmd.Flags().StringArrayVar(&sets, "set", nil, "exercise and optional set; repeat for more sets")
	return cmd
}

func newDeleteCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <session-id>",
		Short: "Delete a session with its exercises and sets",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid session id %q: %w", args[0], err)
			}

			ctx := cmd.Context()
			a, err := openApp(ctx, *configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.journal.Delete(ctx, id); err != nil {
				if errors.Is(err, storage.ErrNotFound) {
					return fmt.Errorf("session %s not found", id)
				}
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "deleted session %s\n", id)
			return nil
		},
	}
}

func newMergeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "merge",
		Short: "Merge sessions that share a calendar day",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx, *configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			b, err := a.journal.MergeDuplicates(ctx)
			if err != nil {
				return err
			}
			if b.Empty() {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no duplicate days")
				return nil
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "merged %d sessions into %d\n", len(b.Delete), len(b.Update))
			return nil
		},
	}
}

func newStatsCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show streak, personal records and the suggested next body part",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx, *configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			o, err := a.journal.Stats(ctx, time.Now())
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "sessions: %d\nsets: %d\nvolume: %s kg\nstreak: %d days\nnext: %s\n",
				o.TotalSessions, o.TotalSets, csvcodec.FormatDecimal(o.TotalVolume), o.CurrentStreak, o.NextBodyPart.Label())
			if len(o.PersonalRecords) > 0 {
				_, _ = fmt.Fprintln(w, "personal records:")
				for _, pr := range o.PersonalRecords {
					_, _ = fmt.Fprintf(w, "  %s %s kg\n", pr.Exercise, csvcodec.FormatDecimal(pr.WeightKg))
				}
			}

			parts, err := a.journal.BodyPartRollup(ctx)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(tw, "PART\tEXERCISES\tSETS\tVOLUME(kg)\tLAST")
			for _, p := range parts {
				last := export.NeverTrained
				if p.LastTrained != nil {
					last = csvcodec.FormatDate(p.LastTrained.In(a.journal.Location()))
				}
				_, _ = fmt.Fprintf(tw, "%s\t%d\t%d\t%s\t%s\n", p.BodyPart.Label(), p.Count, p.TotalSets,
					csvcodec.FormatDecimal(p.TotalVolume), last)
			}
			return tw.Flush()
		},
	}
}

func newLogsCmd(configPath *string) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show recent imports",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx, *configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			logs, err := a.journal.ImportLogs(ctx, limit)
			if err != nil {
				return err
			}
			if len(logs) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no imports")
				return nil
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(tw, "WHEN\tSOURCE\tSTATUS\tROWS\tSKIPPED\tNEW\tMERGED\tSETS\tERROR")
			for _, l := range logs {
				msg := ""
				if l.ErrorMessage != nil {
					msg = *l.ErrorMessage
				}
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\t%d\t%d\t%s\n",
					l.CreatedAt.In(a.journal.Location()).Format(csvcodec.DateTimeLayout), l.Source, l.Status,
					l.RowsProcessed, l.RowsSkipped, l.SessionsInserted, l.SessionsMerged, l.SetsImported, msg)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum entries")
	return cmd
}

func newMCPCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the journal to MCP clients over stdio",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			a.log.Info("mcp server starting", "version", Version, "storage", a.cfg.Storage.Path)
			return mcpserver.ServeStdio(mcpserver.New(a.journal, Version, a.log))
		},
	}
}
