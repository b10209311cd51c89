package journal

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/claude/musclememo/internal/models"
	"github.com/claude/musclememo/internal/reconcile"
	"github.com/claude/musclememo/internal/storage"
)

func openSQLiteService(t *testing.T) (*Service, *storage.DB) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "musclememo.db")
	if err := storage.RunMigrations(path); err != nil {
		t.Fatalf("RunMigrations: %v", err)
	}
	db, err := storage.Open(context.Background(), path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return New(db, reconcile.New(jst), slog.New(slog.NewTextHandler(io.Discard, nil))), db
}

func exerciseNames(s *models.WorkoutSession) []string {
	var names []string
	for _, e := range s.Exercises {
		names = append(names, e.Name)
	}
	return names
}

// TestMergeDuplicatesSQLite verifies same-day sessions with different
// exercises collapse into the first one in the real store.
func TestMergeDuplicatesSQLite(t *testing.T) {
	ctx := context.Background()
	svc, db := openSQLiteService(t)

	a := benchSession(16, 7, 60)
	b := models.NewSession(time.Date(2025, 7, 16, 19, 0, 0, 0, jst))
	squat := models.NewExercise("スクワット", models.Legs)
	squat.AddSet(100, 5, "")
	b.AddExercise(squat)
	c := benchSession(17, 7, 80)
	if err := db.Apply(ctx, storage.Changes{Insert: []*models.WorkoutSession{a, b, c}}); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	batch, err := svc.MergeDuplicates(ctx)
	if err != nil {
		t.Fatalf("MergeDuplicates: %v", err)
	}
	if len(batch.Update) != 1 || len(batch.Delete) != 1 {
		t.Errorf("batch update/delete = %d/%d, want 1/1", len(batch.Update), len(batch.Delete))
	}

	sessions, err := db.ListSessions(ctx)
	if err != nil {
		t.Fatalf("ListSessions: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("sessions after merge = %d, want 2", len(sessions))
	}
	merged := sessions[0]
	if merged.ID != a.ID {
		t.Errorf("kept session = %s, want %s", merged.ID, a.ID)
	}
	if got := strings.Join(exerciseNames(merged), ","); got != "ベンチプレス,スクワット" {
		t.Errorf("exercises = %s, want ベンチプレス,スクワット", got)
	}
	if merged.TotalSets() != 2 {
		t.Errorf("TotalSets = %d, want 2", merged.TotalSets())
	}

	batch, err = svc.MergeDuplicates(ctx)
	if err != nil || !batch.Empty() {
		t.Errorf("second MergeDuplicates = %+v, %v; want empty", batch, err)
	}
}

// TestImportMergesIntoStoredSQLite verifies an import folds same-day rows into
// a stored session and logs the import.
func TestImportMergesIntoStoredSQLite(t *testing.T) {
	ctx := context.Background()
	svc, db := openSQLiteService(t)

	stored := benchSession(16, 7, 60)
	if _, err := svc.Record(ctx, stored); err != nil {
		t.Fatalf("Record: %v", err)
	}

	csv := workoutLog(
		"2025-07-16,19:00:00,20.0,胸,ベンチプレス,1,70.0,8,,夜",
		"2025-07-16,19:00:00,20.0,脚,スクワット,1,100.0,5,,夜",
		"2025-07-17,19:00:00,20.0,背中,デッドリフト,1,120.0,3,,",
	)
	outcome, err := svc.Import(ctx, strings.NewReader(csv), ImportOptions{Source: "x.csv"})
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if outcome.Inserted != 1 || outcome.Merged != 1 {
		t.Errorf("inserted/merged = %d/%d, want 1/1", outcome.Inserted, outcome.Merged)
	}

	got, err := db.GetSession(ctx, stored.ID)
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if got.Notes != stored.Notes {
		t.Errorf("Notes = %q, want stored notes %q", got.Notes, stored.Notes)
	}
	if names := strings.Join(exerciseNames(got), ","); names != "ベンチプレス,スクワット" {
		t.Errorf("exercises = %s", names)
	}
	bench := got.FindExercise("ベンチプレス", models.Chest)
	if bench == nil || len(bench.Sets) != 2 || bench.Sets[1].WeightKg != 70 {
		t.Errorf("bench = %+v, want stored set then imported 70kg set", bench)
	}

	all, _ := db.ListSessions(ctx)
	if len(all) != 2 {
		t.Errorf("sessions = %d, want 2", len(all))
	}
	logs, err := db.QueryImportLogs(ctx, 10)
	if err != nil {
		t.Fatalf("QueryImportLogs: %v", err)
	}
	if len(logs) != 1 || logs[0].Status != storage.ImportSuccess || logs[0].SessionsMerged != 1 {
		t.Errorf("logs = %+v", logs)
	}
}
