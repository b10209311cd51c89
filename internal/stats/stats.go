// Package stats derives training statistics from the session history.
package stats

import (
	"cmp"
	"slices"
	"time"

	"github.com/claude/musclememo/internal/models"
)

// MaxPersonalRecords is how many records PersonalRecords returns.
const MaxPersonalRecords = 5

// suggestionWindow is how many recent sessions NextBodyPart looks at.
const suggestionWindow = 10

// PersonalRecord is the heaviest set ever logged for an exercise name.
type PersonalRecord struct {
	Exercise string  `json:"exercise"`
	WeightKg float64 `json:"weight_kg"`
}

// Overview bundles the figures shown on the stats screen.
type Overview struct {
	TotalSessions   int              `json:"total_sessions"`
	TotalSets       int              `json:"total_sets"`
	TotalVolume     float64          `json:"total_volume_kg"`
	CurrentStreak   int              `json:"current_streak_days"`
	NextBodyPart    models.BodyPart  `json:"next_body_part"`
	PersonalRecords []PersonalRecord `json:"personal_records"`
}

// Compute builds the Overview as of now, with days counted in loc.
func Compute(sessions []*models.WorkoutSession, now time.Time, loc *time.Location) *Overview {
	o := &Overview{
		TotalSessions:   len(sessions),
		CurrentStreak:   Streak(sessions, now, loc),
		NextBodyPart:    NextBodyPart(sessions),
		PersonalRecords: PersonalRecords(sessions),
	}
	for _, s := range sessions {
		o.TotalSets += s.TotalSets()
		o.TotalVolume += s.TotalVolume()
	}
	return o
}

// Streak counts consecutive training days ending today or yesterday. A gap of
// two or more days since the last session means no streak.
func Streak(sessions []*models.WorkoutSession, now time.Time, loc *time.Location) int {
	if loc == nil {
		loc = time.Local
	}

	seen := make(map[time.Time]bool)
	var days []time.Time
	for _, s := range sessions {
		d := models.StartOfDay(s.Date, loc)
		if !seen[d] {
			seen[d] = true
			days = append(days, d)
		}
	}
	if len(days) == 0 {
		return 0
	}
	slices.SortFunc(days, func(a, b time.Time) int { return b.Compare(a) })

	if daysBetween(days[0], models.StartOfDay(now, loc)) > 1 {
		return 0
	}
	streak := 1
	for i := 1; i < len(days); i++ {
		if daysBetween(days[i], days[i-1]) != 1 {
			break
		}
		streak++
	}
	return streak
}

// daysBetween counts calendar days from a to b, both at midnight. Dates are
// compared by calendar fields so DST transitions do not skew the count.
func daysBetween(a, b time.Time) int {
	ya, ma, da := a.Date()
	yb, mb, db := b.Date()
	ua := time.Date(ya, ma, da, 0, 0, 0, 0, time.UTC)
	ub := time.Date(yb, mb, db, 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}

// PersonalRecords returns the heaviest set per exercise name, heaviest first,
// at most MaxPersonalRecords entries. Exercises never lifted above 0 kg are
// left out. Equal weights are ordered by name.
func PersonalRecords(sessions []*models.WorkoutSession) []PersonalRecord {
	best := make(map[string]float64)
	for _, s := range sessions {
		for _, e := range s.Exercises {
			if w := e.MaxWeight(); w > best[e.Name] {
				best[e.Name] = w
			}
		}
	}

	records := make([]PersonalRecord, 0, len(best))
	for name, w := range best {
		records = append(records, PersonalRecord{Exercise: name, WeightKg: w})
	}
	slices.SortFunc(records, func(a, b PersonalRecord) int {
		if c := cmp.Compare(b.WeightKg, a.WeightKg); c != 0 {
			return c
		}
		return cmp.Compare(a.Exercise, b.Exercise)
	})
	return records[:min(len(records), MaxPersonalRecords)]
}

// NextBodyPart suggests the required body part trained least often across
// the ten most recent sessions. Ties go to the earlier declared part; with no
// history the suggestion is chest.
func NextBodyPart(sessions []*models.WorkoutSession) models.BodyPart {
	if len(sessions) == 0 {
		return models.Chest
	}

	recent := slices.Clone(sessions)
	slices.SortStableFunc(recent, func(a, b *models.WorkoutSession) int {
		return b.Date.Compare(a.Date)
	})
	recent = recent[:min(len(recent), suggestionWindow)]

	counts := make(map[models.BodyPart]int)
	for _, s := range recent {
		for _, bp := range s.TrainedBodyParts() {
			counts[bp]++
		}
	}

	required := models.RequiredBodyParts()
	pick := required[0]
	for _, bp := range required[1:] {
		if counts[bp] < counts[pick] {
			pick = bp
		}
	}
	return pick
}
