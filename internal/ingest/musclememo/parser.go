// Package musclememo reads the workout log CSV written by the exporter and
// rebuilds the session, exercise and set hierarchy from its flat rows.
package musclememo

import (
	"fmt"
	"strings"

	"github.com/claude/musclememo/internal/csvcodec"
	"github.com/claude/musclememo/internal/ingest"
)

// Row is one data row of the workout log, fields already unquoted.
type Row struct {
	Line        int
	Date        string
	Time        string
	Duration    string
	BodyPart    string
	Exercise    string
	SetNumber   string
	Weight      string
	Reps        string
	SetMemo     string
	SessionMemo string
}

// LineError describes a rejected row by its 1-based line number.
type LineError struct {
	Line    int
	Message string
}

func (e LineError) String() string {
	return fmt.Sprintf("row %d: %s", e.Line, e.Message)
}

// Parsed is the header-validated content of a workout log.
type Parsed struct {
	Rows     []Row
	Rejected []LineError
}

// Parse validates the header and splits every non-blank data row into its
// ten columns. Rows with too few fields are rejected and parsing continues;
// only an empty file or a bad header fails the whole parse.
func Parse(text string) (*Parsed, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ingest.InvalidFormat("file is empty")
	}

	records := csvcodec.Records(text)
	if !validHeader(records[0].Text) {
		return nil, ingest.InvalidFormat("header does not match the expected columns")
	}

	parsed := &Parsed{}
	for _, rec := range records[1:] {
		if strings.TrimSpace(rec.Text) == "" {
			continue
		}
		fields := csvcodec.SplitLine(rec.Text)
		if len(fields) < csvcodec.SessionLogColumns {
			parsed.Rejected = append(parsed.Rejected, LineError{
				Line:    rec.Line,
				Message: fmt.Sprintf("insufficient fields (got %d, want %d)", len(fields), csvcodec.SessionLogColumns),
			})
			continue
		}
		parsed.Rows = append(parsed.Rows, Row{
			Line:        rec.Line,
			Date:        fields[csvcodec.ColDate],
			Time:        fields[csvcodec.ColTime],
			Duration:    fields[csvcodec.ColDuration],
			BodyPart:    fields[csvcodec.ColBodyPart],
			Exercise:    fields[csvcodec.ColExercise],
			SetNumber:   fields[csvcodec.ColSetNumber],
			Weight:      fields[csvcodec.ColWeight],
			Reps:        fields[csvcodec.ColReps],
			SetMemo:     fields[csvcodec.ColSetMemo],
			SessionMemo: fields[csvcodec.ColSessionMemo],
		})
	}
	return parsed, nil
}

// validHeader compares the first ten columns, trimmed, against the expected
// labels in order. Trailing extra columns are tolerated.
func validHeader(line string) bool {
	fields := csvcodec.SplitLine(line)
	if len(fields) < len(csvcodec.SessionLogHeader) {
		return false
	}
	for i, want := range csvcodec.SessionLogHeader {
		if strings.TrimSpace(fields[i]) != want {
			return false
		}
	}
	return true
}
