package musclememo

import (
	"cmp"
	"slices"
	"time"

	"github.com/claude/musclememo/internal/ingest"
)

// Import decodes raw file bytes and reconstructs the sessions they contain.
// The error, when non-nil, is an *ingest.ImportError and no result is returned.
func Import(data []byte, loc *time.Location) (*ingest.Result, error) {
	text, err := DecodeText(data)
	if err != nil {
		return nil, err
	}
	return ImportText(text, loc)
}

// ImportText is Import for already decoded text.
func ImportText(text string, loc *time.Location) (*ingest.Result, error) {
	parsed, err := Parse(text)
	if err != nil {
		return nil, err
	}

	rec := Reconstruct(parsed.Rows, loc)

	lineErrs := slices.Concat(parsed.Rejected, rec.Errors)
	slices.SortStableFunc(lineErrs, func(a, b LineError) int {
		return cmp.Compare(a.Line, b.Line)
	})

	result := &ingest.Result{
		Sessions:       rec.Sessions,
		ProcessedCount: rec.Processed,
		SkippedCount:   len(parsed.Rejected) + rec.Skipped,
	}
	for _, e := range lineErrs {
		result.Errors = append(result.Errors, e.String())
	}
	return result, nil
}
