package musclememo

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/claude/musclememo/internal/csvcodec"
	"github.com/claude/musclememo/internal/models"
)

// sessionKey identifies a session within one import by its literal date and
// time fields. Two distinct sessions exported with the same to-the-second
// timestamp collapse into one.
type sessionKey struct {
	date, time string
}

// exerciseKey identifies an exercise within one session of one import.
type exerciseKey struct {
	session  sessionKey
	bodyPart models.BodyPart
	name     string
}

// Reconstruction is the hierarchy rebuilt from a batch of rows.
type Reconstruction struct {
	Sessions  []*models.WorkoutSession
	Processed int
	Skipped   int
	Errors    []LineError
}

// Reconstruct groups rows into sessions and exercises. Timestamps are parsed
// in loc (time.Local when nil). The lookup maps live for this call only.
func Reconstruct(rows []Row, loc *time.Location) *Reconstruction {
	if loc == nil {
		loc = time.Local
	}

	out := &Reconstruction{}
	sessions := make(map[sessionKey]*models.WorkoutSession)
	exercises := make(map[exerciseKey]*models.Exercise)

	reject := func(r Row, format string, args ...any) {
		out.Skipped++
		out.Errors = append(out.Errors, LineError{Line: r.Line, Message: fmt.Sprintf(format, args...)})
	}

	for _, r := range rows {
		key := sessionKey{date: strings.TrimSpace(r.Date), time: strings.TrimSpace(r.Time)}
		stamp := key.date + " " + key.time
		date, err := time.ParseInLocation(csvcodec.DateTimeLayout, stamp, loc)
		if err != nil {
			reject(r, "invalid date format (%s)", stamp)
			continue
		}

		session, ok := sessions[key]
		if !ok {
			session = models.NewSession(date)
			if minutes, err := strconv.ParseFloat(strings.TrimSpace(r.Duration), 64); err == nil && minutes > 0 {
				session.DurationSec = minutes * 60
			}
			if notes := strings.TrimSpace(r.SessionMemo); notes != "" {
				session.Notes = notes
			}
			sessions[key] = session
			out.Sessions = append(out.Sessions, session)
		}

		label := strings.TrimSpace(r.BodyPart)
		name := strings.TrimSpace(r.Exercise)
		if label != "" && name != "" {
			bodyPart, ok := models.BodyPartFromLabel(label)
			if !ok {
				reject(r, "unknown body part (%s)", label)
				continue
			}

			ek := exerciseKey{session: key, bodyPart: bodyPart, name: name}
			exercise, ok := exercises[ek]
			if !ok {
				exercise = models.NewExercise(name, bodyPart)
				exercises[ek] = exercise
				session.AddExercise(exercise)
			}

			if setNumber, err := strconv.Atoi(strings.TrimSpace(r.SetNumber)); err == nil && setNumber > 0 {
				weight, err := strconv.ParseFloat(strings.TrimSpace(r.Weight), 64)
				if err != nil {
					weight = 0
				}
				reps, err := strconv.Atoi(strings.TrimSpace(r.Reps))
				if err != nil {
					reps = 0
				}
				exercise.AddSet(weight, reps, strings.TrimSpace(r.SetMemo))
			}
		}

		out.Processed++
	}
	return out
}
