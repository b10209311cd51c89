package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"github.com/claude/musclememo/internal/models"
)

var jst = time.FixedZone("JST", 9*3600)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "musclememo.db")
	if err := RunMigrations(path); err != nil {
		t.Fatalf("RunMigrations: %v", err)
	}
	db, err := Open(context.Background(), path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func newSession(day, hour int, notes string) *models.WorkoutSession {
	s := models.NewSession(time.Date(2025, 7, day, hour, 0, 0, 0, jst))
	s.Notes = notes
	s.DurationSec = 1800
	bench := models.NewExercise("ベンチプレス", models.Chest)
	bench.AddSet(60, 10, "")
	bench.AddSet(62.5, 8, `He said "go", hard`)
	s.AddExercise(bench)
	s.AddExercise(models.NewExercise("プランク", models.Abs))
	return s
}

// TestApplyAndList verifies inserted sessions load back whole, in insertion order.
func TestApplyAndList(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	later := newSession(17, 19, "evening")
	earlier := newSession(15, 7, "")
	empty := models.NewSession(time.Date(2025, 7, 16, 12, 0, 0, 0, jst))
	if err := db.Apply(ctx, Changes{Insert: []*models.WorkoutSession{later, earlier, empty}}); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	got, err := db.ListSessions(ctx)
	if err != nil {
		t.Fatalf("ListSessions: %v", err)
	}
	want := []*models.WorkoutSession{later, earlier, empty}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ListSessions mismatch (-want +got):\n%s", diff)
	}
}

// TestQuerySessions verifies date filtering, newest-first order and limit.
func TestQuerySessions(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	a, b, c := newSession(14, 7, "a"), newSession(15, 7, "b"), newSession(16, 7, "c")
	if err := db.Apply(ctx, Changes{Insert: []*models.WorkoutSession{b, a, c}}); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	got, err := db.QuerySessions(ctx, SessionQuery{
		From: time.Date(2025, 7, 15, 0, 0, 0, 0, jst),
	})
	if err != nil {
		t.Fatalf("QuerySessions: %v", err)
	}
	if len(got) != 2 || got[0].Notes != "c" || got[1].Notes != "b" {
		t.Errorf("QuerySessions(from 15th) = %d sessions", len(got))
	}

	got, err = db.QuerySessions(ctx, SessionQuery{Limit: 1, To: time.Date(2025, 7, 16, 0, 0, 0, 0, jst)})
	if err != nil {
		t.Fatalf("QuerySessions: %v", err)
	}
	if len(got) != 1 || got[0].Notes != "b" {
		t.Errorf("QuerySessions(to 16th, limit 1) = %v", got)
	}
}

// TestApplyUpdateAndDelete verifies an update replaces exercises and a delete
// cascades, both in one batch.
func TestApplyUpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	keep, drop := newSession(16, 7, ""), newSession(16, 19, "")
	if err := db.Apply(ctx, Changes{Insert: []*models.WorkoutSession{keep, drop}}); err != nil {
		t.Fatalf("Apply insert: %v", err)
	}

	keep.Exercises[0].Sets = append(keep.Exercises[0].Sets, drop.Exercises[0].Sets...)
	keep.Notes = "merged"
	if err := db.Apply(ctx, Changes{Update: []*models.WorkoutSession{keep}, Delete: []uuid.UUID{drop.ID}}); err != nil {
		t.Fatalf("Apply update: %v", err)
	}

	got, err := db.GetSession(ctx, keep.ID)
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if diff := cmp.Diff(keep, got); diff != "" {
		t.Errorf("updated session mismatch (-want +got):\n%s", diff)
	}
	if _, err := db.GetSession(ctx, drop.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetSession(deleted) error = %v, want ErrNotFound", err)
	}

	stats, err := db.GetDataStats(ctx)
	if err != nil {
		t.Fatalf("GetDataStats: %v", err)
	}
	if stats.TotalSessions != 1 || stats.TotalExercises != 2 || stats.TotalSets != 4 {
		t.Errorf("stats after delete = %+v, want 1 session, 2 exercises, 4 sets", stats)
	}
}

// TestApplyMovesExercises verifies an exercise can move, ID and all, from a
// deleted session into an updated one in the same batch.
func TestApplyMovesExercises(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	keep, drop := newSession(16, 7, ""), newSession(16, 19, "")
	squat := models.NewExercise("スクワット", models.Legs)
	squat.AddSet(100, 5, "")
	drop.Exercises = []*models.Exercise{squat}
	if err := db.Apply(ctx, Changes{Insert: []*models.WorkoutSession{keep, drop}}); err != nil {
		t.Fatalf("Apply insert: %v", err)
	}

	keep.AddExercise(squat)
	if err := db.Apply(ctx, Changes{Update: []*models.WorkoutSession{keep}, Delete: []uuid.UUID{drop.ID}}); err != nil {
		t.Fatalf("Apply move: %v", err)
	}

	got, err := db.ListSessions(ctx)
	if err != nil {
		t.Fatalf("ListSessions: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("sessions = %d, want 1", len(got))
	}
	if diff := cmp.Diff(keep, got[0]); diff != "" {
		t.Errorf("merged session mismatch (-want +got):\n%s", diff)
	}
}

// TestQuerySessionsLimitLoadsChildren verifies exercises and sets are loaded
// for exactly the sessions a limited query returns.
func TestQuerySessionsLimitLoadsChildren(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	var all []*models.WorkoutSession
	for day := 1; day <= 5; day++ {
		all = append(all, newSession(day, 7, ""))
	}
	if err := db.Apply(ctx, Changes{Insert: all}); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	got, err := db.QuerySessions(ctx, SessionQuery{From: time.Date(2025, 7, 2, 0, 0, 0, 0, jst), Limit: 2})
	if err != nil {
		t.Fatalf("QuerySessions: %v", err)
	}
	if diff := cmp.Diff([]*models.WorkoutSession{all[4], all[3]}, got); diff != "" {
		t.Errorf("QuerySessions mismatch (-want +got):\n%s", diff)
	}
}

// TestApplyIsAtomic verifies a failing batch leaves the store unchanged.
func TestApplyIsAtomic(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	err := db.Apply(ctx, Changes{
		Insert: []*models.WorkoutSession{newSession(16, 7, "")},
		Delete: []uuid.UUID{uuid.New()},
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Apply error = %v, want ErrNotFound", err)
	}
	got, err := db.ListSessions(ctx)
	if err != nil {
		t.Fatalf("ListSessions: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("sessions after failed batch = %d, want 0", len(got))
	}
}

// TestDeleteSession verifies deletion and ErrNotFound on a missing ID.
func TestDeleteSession(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	s := newSession(16, 7, "")
	if err := db.Apply(ctx, Changes{Insert: []*models.WorkoutSession{s}}); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if err := db.DeleteSession(ctx, s.ID); err != nil {
		t.Fatalf("DeleteSession: %v", err)
	}
	if err := db.DeleteSession(ctx, s.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second DeleteSession error = %v, want ErrNotFound", err)
	}
}

// TestImportLogs verifies logs round-trip with optional fields, newest first.
func TestImportLogs(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	ms := 42
	if _, err := db.InsertImportLog(ctx, ImportLog{
		Source: "a.csv", Status: ImportPartial, RowsProcessed: 4, RowsSkipped: 1,
		SessionsInserted: 1, SetsImported: 4, DurationMs: &ms,
		RowErrors: []string{"row 4: invalid date format (x)"},
	}); err != nil {
		t.Fatalf("InsertImportLog: %v", err)
	}
	msg := "invalid format: file is empty"
	if _, err := db.InsertImportLog(ctx, ImportLog{Source: "b.csv", Status: ImportError, ErrorMessage: &msg}); err != nil {
		t.Fatalf("InsertImportLog: %v", err)
	}

	logs, err := db.QueryImportLogs(ctx, 10)
	if err != nil {
		t.Fatalf("QueryImportLogs: %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("logs = %d, want 2", len(logs))
	}
	if logs[0].Source != "b.csv" || logs[0].ErrorMessage == nil || *logs[0].ErrorMessage != msg || logs[0].DurationMs != nil {
		t.Errorf("newest log = %+v", logs[0])
	}
	if diff := cmp.Diff([]string{"row 4: invalid date format (x)"}, logs[1].RowErrors); diff != "" {
		t.Errorf("row errors mismatch (-want +got):\n%s", diff)
	}
	if logs[1].DurationMs == nil || *logs[1].DurationMs != 42 {
		t.Errorf("DurationMs = %v, want 42", logs[1].DurationMs)
	}
}

// TestGetDataStats verifies totals, date range and the per-body-part breakdown.
func TestGetDataStats(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	empty, err := db.GetDataStats(ctx)
	if err != nil {
		t.Fatalf("GetDataStats on empty db: %v", err)
	}
	if empty.TotalSessions != 0 || empty.EarliestData != nil {
		t.Errorf("empty stats = %+v", empty)
	}

	a, b := newSession(15, 7, ""), newSession(16, 7, "")
	if err := db.Apply(ctx, Changes{Insert: []*models.WorkoutSession{a, b}}); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	stats, err := db.GetDataStats(ctx)
	if err != nil {
		t.Fatalf("GetDataStats: %v", err)
	}
	if stats.TotalVolume != 2*(600+500) {
		t.Errorf("TotalVolume = %v, want 2200", stats.TotalVolume)
	}
	if !stats.EarliestData.Equal(a.Date) || !stats.LatestData.Equal(b.Date) {
		t.Errorf("range = %v..%v", stats.EarliestData, stats.LatestData)
	}
	want := []BodyPartStat{
		{BodyPart: models.Abs, Exercises: 2, Sets: 0, Volume: 0},
		{BodyPart: models.Chest, Exercises: 2, Sets: 4, Volume: 2200},
	}
	if diff := cmp.Diff(want, stats.ByBodyPart); diff != "" {
		t.Errorf("ByBodyPart mismatch (-want +got):\n%s", diff)
	}
}

// TestImportedFiles verifies content hashes are remembered across calls.
func TestImportedFiles(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	done, err := db.IsFileImported(ctx, "abc")
	if err != nil {
		t.Fatalf("IsFileImported: %v", err)
	}
	if done {
		t.Error("fresh database reports file as imported")
	}

	if err := db.MarkFileImported(ctx, "a.csv", 120, "abc"); err != nil {
		t.Fatalf("MarkFileImported: %v", err)
	}
	if err := db.MarkFileImported(ctx, "renamed.csv", 120, "abc"); err != nil {
		t.Fatalf("MarkFileImported again: %v", err)
	}
	if done, _ := db.IsFileImported(ctx, "abc"); !done {
		t.Error("IsFileImported = false after MarkFileImported")
	}
	if done, _ := db.IsFileImported(ctx, "def"); done {
		t.Error("IsFileImported(def) = true, want false")
	}
}
