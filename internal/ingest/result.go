package ingest

import (
	"fmt"
	"strings"

	"github.com/claude/musclememo/internal/models"
)

// MaxSummaryErrors caps how many row errors Summary prints.
const MaxSummaryErrors = 5

// Result holds the outcome of one CSV import. Row-level problems never abort
// an import; they are counted in SkippedCount and described in Errors.
type Result struct {
	Sessions       []*models.WorkoutSession `json:"sessions"`
	ProcessedCount int                      `json:"processed_count"`
	SkippedCount   int                      `json:"skipped_count"`
	Errors         []string                 `json:"errors,omitempty"`
}

// SuccessCount is the number of sessions reconstructed.
func (r *Result) SuccessCount() int {
	return len(r.Sessions)
}

// HasErrors reports whether any row was rejected.
func (r *Result) HasErrors() bool {
	return len(r.Errors) > 0
}

// SetCount totals the sets across all reconstructed sessions.
func (r *Result) SetCount() int {
	var n int
	for _, s := range r.Sessions {
		n += s.TotalSets()
	}
	return n
}

// Summary renders the user-facing import report.
func (r *Result) Summary() string {
	var b strings.Builder
	b.WriteString("Import complete.\n")
	fmt.Fprintf(&b, "Sessions: %d\n", r.SuccessCount())
	fmt.Fprintf(&b, "Rows processed: %d\n", r.ProcessedCount)
	if r.SkippedCount > 0 {
		fmt.Fprintf(&b, "Rows skipped: %d\n", r.SkippedCount)
	}
	if r.HasErrors() {
		b.WriteString("\nErrors:\n")
		for _, e := range r.Errors[:min(len(r.Errors), MaxSummaryErrors)] {
			fmt.Fprintf(&b, "- %s\n", e)
		}
		if extra := len(r.Errors) - MaxSummaryErrors; extra > 0 {
			fmt.Fprintf(&b, "... and %d more\n", extra)
		}
	}
	return b.String()
}
