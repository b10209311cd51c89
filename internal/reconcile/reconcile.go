// Package reconcile folds incoming sessions into the persisted collection.
// A session that lands on the same calendar day as an existing one is merged
// into it instead of being stored separately.
package reconcile

import (
	"time"

	"github.com/claude/musclememo/internal/models"
)

// Action is the outcome of reconciling one candidate session.
type Action int

const (
	// Inserted: no same-day session existed; the candidate is stored as is.
	Inserted Action = iota
	// Merged: the candidate's exercises were folded into Target.
	Merged
)

func (a Action) String() string {
	if a == Merged {
		return "merged"
	}
	return "inserted"
}

// Decision records what happened to a candidate.
type Decision struct {
	Action Action
	// Target is the session that now holds the candidate's data: the
	// candidate itself when inserted, the existing session when merged.
	Target *models.WorkoutSession
}

// Engine compares calendar days in a fixed location.
type Engine struct {
	loc *time.Location
}

// New creates an Engine. A nil loc means time.Local.
func New(loc *time.Location) *Engine {
	if loc == nil {
		loc = time.Local
	}
	return &Engine{loc: loc}
}

// Location returns the zone used for calendar-day comparisons.
func (e *Engine) Location() *time.Location {
	return e.loc
}

// FindSameDay returns the first session in existing on the same calendar day
// as date, or nil.
func (e *Engine) FindSameDay(date time.Time, existing []*models.WorkoutSession) *models.WorkoutSession {
	for _, s := range existing {
		if models.SameDay(s.Date, date, e.loc) {
			return s
		}
	}
	return nil
}

// Reconcile merges candidate into the first same-day session of existing,
// or reports that it should be inserted. existing is not modified as a
// slice; a merge target is modified in place.
func (e *Engine) Reconcile(candidate *models.WorkoutSession, existing []*models.WorkoutSession) Decision {
	target := e.FindSameDay(candidate.Date, existing)
	if target == nil {
		return Decision{Action: Inserted, Target: candidate}
	}
	MergeInto(target, candidate)
	return Decision{Action: Merged, Target: target}
}

// MergeInto folds src's exercises into dst. An exercise matching on name and
// body part receives src's sets after its own; any other exercise is appended
// whole. dst keeps its date, notes and duration. No values are validated.
func MergeInto(dst, src *models.WorkoutSession) {
	for _, e := range src.Exercises {
		if existing := dst.FindExercise(e.Name, e.BodyPart); existing != nil {
			existing.Sets = append(existing.Sets, e.Sets...)
			continue
		}
		dst.AddExercise(e)
	}
}
