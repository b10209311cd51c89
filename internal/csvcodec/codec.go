// Package csvcodec implements the comma-separated dialect used by the
// workout log export: trimmed fields, quoting only when a field contains a
// comma, a double quote or a newline, and doubled quotes inside quoted spans.
package csvcodec

import (
	"fmt"
	"strings"
	"time"
)

// Date and time layouts shared by every export and by import.
const (
	DateLayout     = "2006-01-02"
	TimeLayout     = "15:04:05"
	DateTimeLayout = DateLayout + " " + TimeLayout
)

// SessionLogHeader is the fixed header of the workout log, in column order:
// date, time, duration minutes, body part, exercise name, set number,
// weight kg, reps, set memo, session memo.
var SessionLogHeader = []string{
	"日付", "時刻", "ワークアウト時間(分)", "部位", "種目", "セット番号", "重量(kg)", "回数", "メモ", "セッションメモ",
}

// Column indexes into a session log row.
const (
	ColDate = iota
	ColTime
	ColDuration
	ColBodyPart
	ColExercise
	ColSetNumber
	ColWeight
	ColReps
	ColSetMemo
	ColSessionMemo

	SessionLogColumns
)

// EscapeField trims s and wraps it in double quotes, doubling any embedded
// quote, when it contains a comma, a double quote or a newline.
func EscapeField(s string) string {
	s = strings.TrimSpace(s)
	if strings.ContainsAny(s, ",\"\n") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}

// FormatDecimal renders a number with one decimal place.
func FormatDecimal(f float64) string {
	return fmt.Sprintf("%.1f", f)
}

// FormatDate renders the calendar date of t.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// FormatTime renders the wall-clock time of t to the second.
func FormatTime(t time.Time) string {
	return t.Format(TimeLayout)
}

// Writer accumulates CSV rows. Every field goes through EscapeField.
type Writer struct {
	b strings.Builder
}

// Row writes one newline-terminated row.
func (w *Writer) Row(fields ...string) {
	for i, f := range fields {
		if i > 0 {
			w.b.WriteByte(',')
		}
		w.b.WriteString(EscapeField(f))
	}
	w.b.WriteByte('\n')
}

// String returns everything written so far.
func (w *Writer) String() string {
	return w.b.String()
}
