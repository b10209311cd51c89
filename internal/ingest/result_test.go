package ingest

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/claude/musclememo/internal/models"
)

// TestSummaryCleanImport verifies the report omits skipped and error lines
// when nothing was rejected.
func TestSummaryCleanImport(t *testing.T) {
	s := models.NewSession(time.Date(2025, 7, 16, 18, 0, 0, 0, time.UTC))
	r := &Result{Sessions: []*models.WorkoutSession{s}, ProcessedCount: 3}

	want := "Import complete.\nSessions: 1\nRows processed: 3\n"
	if got := r.Summary(); got != want {
		t.Errorf("Summary() = %q, want %q", got, want)
	}
	if r.HasErrors() {
		t.Error("HasErrors() = true, want false")
	}
}

// TestSummaryTruncatesErrors verifies at most five errors are listed,
// followed by a count of the rest.
func TestSummaryTruncatesErrors(t *testing.T) {
	r := &Result{ProcessedCount: 2, SkippedCount: 8}
	for i := range 8 {
		r.Errors = append(r.Errors, fmt.Sprintf("row %d: invalid date format (x)", i+2))
	}

	got := r.Summary()
	for _, want := range []string{
		"Rows skipped: 8\n",
		"- row 2: invalid date format (x)\n",
		"- row 6: invalid date format (x)\n",
		"... and 3 more\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Summary() missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "row 7:") {
		t.Errorf("Summary() lists more than %d errors:\n%s", MaxSummaryErrors, got)
	}
}

// TestSummaryExactlyFiveErrors verifies no overflow line when the cap is met exactly.
func TestSummaryExactlyFiveErrors(t *testing.T) {
	r := &Result{SkippedCount: 5, Errors: []string{"a", "b", "c", "d", "e"}}
	if got := r.Summary(); strings.Contains(got, "more") {
		t.Errorf("Summary() = %q, want no overflow line", got)
	}
}

// TestSetCount verifies sets are totaled across sessions.
func TestSetCount(t *testing.T) {
	s := models.NewSession(time.Now())
	e := models.NewExercise("スクワット", models.Legs)
	e.AddSet(100, 5, "")
	e.AddSet(100, 5, "")
	s.AddExercise(e)
	r := &Result{Sessions: []*models.WorkoutSession{s, models.NewSession(time.Now())}}
	if got := r.SetCount(); got != 2 {
		t.Errorf("SetCount() = %d, want 2", got)
	}
	if got := r.SuccessCount(); got != 2 {
		t.Errorf("SuccessCount() = %d, want 2", got)
	}
}
