// Package export renders the persisted session collection as CSV reports:
// the flat workout log that import reads back, a daily rollup and a
// body-part rollup.
package export

import (
	"slices"
	"strconv"
	"time"

	"github.com/claude/musclememo/internal/csvcodec"
	"github.com/claude/musclememo/internal/models"
)

// WorkoutLog serializes sessions newest first, one row per set. An exercise
// without sets gets one row with set number, weight and reps zero; a session
// without exercises gets one row with every exercise and set column empty.
// Dates and times are rendered in loc (time.Local when nil).
func WorkoutLog(sessions []*models.WorkoutSession, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}

	var w csvcodec.Writer
	w.Row(csvcodec.SessionLogHeader...)

	for _, s := range newestFirst(sessions) {
		local := s.Date.In(loc)
		date := csvcodec.FormatDate(local)
		clock := csvcodec.FormatTime(local)
		duration := csvcodec.FormatDecimal(s.DurationSec / 60)

		if len(s.Exercises) == 0 {
			w.Row(date, clock, duration, "", "", "", "", "", "", s.Notes)
			continue
		}
		for _, e := range s.Exercises {
			if len(e.Sets) == 0 {
				w.Row(date, clock, duration, e.BodyPart.Label(), e.Name, "0", csvcodec.FormatDecimal(0), "0", "", s.Notes)
				continue
			}
			for i, set := range e.Sets {
				w.Row(date, clock, duration, e.BodyPart.Label(), e.Name,
					strconv.Itoa(i+1), csvcodec.FormatDecimal(set.WeightKg), strconv.Itoa(set.Reps),
					set.Memo, s.Notes)
			}
		}
	}
	return w.String()
}

// newestFirst returns a copy of sessions sorted by date descending. Sessions
// with equal dates keep their relative order.
func newestFirst(sessions []*models.WorkoutSession) []*models.WorkoutSession {
	sorted := slices.Clone(sessions)
	slices.SortStableFunc(sorted, func(a, b *models.WorkoutSession) int {
		return b.Date.Compare(a.Date)
	})
	return sorted
}
