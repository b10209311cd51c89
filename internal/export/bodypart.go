package export

import (
	"strconv"
	"time"

	"github.com/claude/musclememo/internal/csvcodec"
	"github.com/claude/musclememo/internal/models"
)

// BodyPartHeader is the header of the body-part rollup.
var BodyPartHeader = []string{
	"部位", "総トレーニング回数", "総ボリューム(kg)", "総セット数", "平均セット数", "最後のトレーニング日",
}

// NeverTrained is printed in place of a last-trained date.
const NeverTrained = "-"

// BodyPartSummary aggregates every exercise of one body part. Count is the
// number of exercises, not sessions.
type BodyPartSummary struct {
	BodyPart    models.BodyPart `json:"body_part"`
	Count       int             `json:"count"`
	TotalVolume float64         `json:"total_volume_kg"`
	TotalSets   int             `json:"total_sets"`
	LastTrained *time.Time      `json:"last_trained,omitempty"`
}

// AverageSets is sets per occurrence, 0 when never trained.
func (b BodyPartSummary) AverageSets() float64 {
	if b.Count == 0 {
		return 0
	}
	return float64(b.TotalSets) / float64(b.Count)
}

// BodyParts returns one summary per body part in declared order, including
// parts that were never trained.
func BodyParts(sessions []*models.WorkoutSession) []BodyPartSummary {
	all := models.AllBodyParts()
	out := make([]BodyPartSummary, len(all))
	index := make(map[models.BodyPart]int, len(all))
	for i, bp := range all {
		out[i].BodyPart = bp
		index[bp] = i
	}

	for _, s := range sessions {
		for _, e := range s.Exercises {
			i, ok := index[e.BodyPart]
			if !ok {
				continue
			}
			sum := &out[i]
			sum.Count++
			sum.TotalVolume += e.TotalVolume()
			sum.TotalSets += len(e.Sets)
			if sum.LastTrained == nil || s.Date.After(*sum.LastTrained) {
				d := s.Date
				sum.LastTrained = &d
			}
		}
	}
	return out
}

// BodyPartRollup renders BodyParts as CSV. Last-trained dates are rendered
// in loc (time.Local when nil).
func BodyPartRollup(sessions []*models.WorkoutSession, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}

	var w csvcodec.Writer
	w.Row(BodyPartHeader...)
	for _, b := range BodyParts(sessions) {
		last := NeverTrained
		if b.LastTrained != nil {
			last = csvcodec.FormatDate(b.LastTrained.In(loc))
		}
		w.Row(
			b.BodyPart.Label(),
			strconv.Itoa(b.Count),
			csvcodec.FormatDecimal(b.TotalVolume),
			strconv.Itoa(b.TotalSets),
			csvcodec.FormatDecimal(b.AverageSets()),
			last,
		)
	}
	return w.String()
}
