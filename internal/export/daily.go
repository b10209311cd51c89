package export

import (
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/claude/musclememo/internal/csvcodec"
	"github.com/claude/musclememo/internal/models"
)

// DailyHeader is the header of the daily rollup.
var DailyHeader = []string{
	"日付", "総ボリューム(kg)", "総セット数", "総エクササイズ数", "トレーニング部位数", "ワークアウト時間(分)", "セッションメモ",
}

// DailySummary aggregates every session on one calendar day.
type DailySummary struct {
	Day            time.Time `json:"day"`
	TotalVolume    float64   `json:"total_volume_kg"`
	TotalSets      int       `json:"total_sets"`
	TotalExercises int       `json:"total_exercises"`
	BodyPartCount  int       `json:"body_part_count"`
	DurationSec    float64   `json:"duration_sec"`
	Notes          string    `json:"notes,omitempty"`
}

// Daily groups sessions by calendar day in loc and returns one summary per
// day, newest day first. Notes of the day's sessions are joined with "; "
// in input order, skipping empty ones.
func Daily(sessions []*models.WorkoutSession, loc *time.Location) []DailySummary {
	if loc == nil {
		loc = time.Local
	}

	type day struct {
		summary DailySummary
		parts   map[models.BodyPart]bool
		notes   []string
	}
	byDay := make(map[time.Time]*day)
	var order []time.Time

	for _, s := range sessions {
		key := models.StartOfDay(s.Date, loc)
		d, ok := byDay[key]
		if !ok {
			d = &day{summary: DailySummary{Day: key}, parts: make(map[models.BodyPart]bool)}
			byDay[key] = d
			order = append(order, key)
		}
		d.summary.TotalVolume += s.TotalVolume()
		d.summary.TotalSets += s.TotalSets()
		d.summary.TotalExercises += len(s.Exercises)
		d.summary.DurationSec += s.DurationSec
		for _, bp := range s.TrainedBodyParts() {
			d.parts[bp] = true
		}
		if s.Notes != "" {
			d.notes = append(d.notes, s.Notes)
		}
	}

	out := make([]DailySummary, 0, len(order))
	for _, key := range order {
		d := byDay[key]
		d.summary.BodyPartCount = len(d.parts)
		d.summary.Notes = strings.Join(d.notes, "; ")
		out = append(out, d.summary)
	}
	slices.SortFunc(out, func(a, b DailySummary) int {
		return b.Day.Compare(a.Day)
	})
	return out
}

// DailyRollup renders Daily as CSV.
func DailyRollup(sessions []*models.WorkoutSession, loc *time.Location) string {
	var w csvcodec.Writer
	w.Row(DailyHeader...)
	for _, d := range Daily(sessions, loc) {
		w.Row(
			csvcodec.FormatDate(d.Day),
			csvcodec.FormatDecimal(d.TotalVolume),
			strconv.Itoa(d.TotalSets),
			strconv.Itoa(d.TotalExercises),
			strconv.Itoa(d.BodyPartCount),
			csvcodec.FormatDecimal(d.DurationSec/60),
			d.Notes,
		)
	}
	return w.String()
}
