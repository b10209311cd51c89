package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/claude/musclememo/internal/csvcodec"
	"github.com/claude/musclememo/internal/models"
)

// setFlag is one --set value: "part:exercise[:WEIGHTxREPS[:memo]]".
type setFlag struct {
	bodyPart models.BodyPart
	exercise string
	hasSet   bool
	weightKg float64
	reps     int
	memo     string
}

func parseSetFlag(s string) (setFlag, error) {
	parts := strings.SplitN(s, ":", 4)
	if len(parts) < 2 {
		return setFlag{}, fmt.Errorf("--set %q: want part:exercise[:WEIGHTxREPS[:memo]]", s)
	}

	bp, err := models.ParseBodyPart(parts[0])
	if err != nil {
		return setFlag{}, fmt.Errorf("--set %q: %w", s, err)
	}
	sf := setFlag{bodyPart: bp, exercise: strings.TrimSpace(parts[1])}
	if sf.exercise == "" {
		return setFlag{}, fmt.Errorf("--set %q: exercise name is empty", s)
	}
	if len(parts) < 3 {
		return sf, nil
	}

	weight, reps, ok := strings.Cut(strings.ToLower(strings.TrimSpace(parts[2])), "x")
	if !ok {
		return setFlag{}, fmt.Errorf("--set %q: set must be WEIGHTxREPS", s)
	}
	if sf.weightKg, err = strconv.ParseFloat(weight, 64); err != nil || sf.weightKg < 0 {
		return setFlag{}, fmt.Errorf("--set %q: invalid weight %q", s, weight)
	}
	if sf.reps, err = strconv.Atoi(reps); err != nil || sf.reps < 0 {
		return setFlag{}, fmt.Errorf("--set %q: invalid reps %q", s, reps)
	}
	sf.hasSet = true
	if len(parts) == 4 {
		sf.memo = strings.TrimSpace(parts[3])
	}
	return sf, nil
}

// buildSession assembles a session from record flags. Values naming the same
// exercise and body part add sets to one exercise, in flag order.
func buildSession(date, notes string, durationMin float64, setFlags []string, loc *time.Location, now time.Time) (*models.WorkoutSession, error) {
	start := now.Truncate(time.Second)
	if date != "" {
		var err error
		start, err = time.ParseInLocation(csvcodec.DateTimeLayout, date, loc)
		if err != nil {
			start, err = time.ParseInLocation(csvcodec.DateLayout, date, loc)
		}
		if err != nil {
			return nil, fmt.Errorf("--date %q: want \"YYYY-MM-DD HH:MM:SS\" or YYYY-MM-DD", date)
		}
	}
	if durationMin < 0 {
		return nil, fmt.Errorf("--duration must not be negative")
	}
	if len(setFlags) == 0 {
		return nil, fmt.Errorf("at least one --set is required")
	}

	s := models.NewSession(start)
	s.Notes = strings.TrimSpace(notes)
	s.DurationSec = durationMin * 60

	for _, raw := range setFlags {
		sf, err := parseSetFlag(raw)
		if err != nil {
			return nil, err
		}
		e := s.FindExercise(sf.exercise, sf.bodyPart)
		if e == nil {
			e = models.NewExercise(sf.exercise, sf.bodyPart)
			s.AddExercise(e)
		}
		if sf.hasSet {
			e.AddSet(sf.weightKg, sf.reps, sf.memo)
		}
	}
	return s, nil
}
