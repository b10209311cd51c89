package models

import (
	"time"

	"github.com/google/uuid"
)

// WorkoutSession is one training occasion. Exercises keep insertion order.
type WorkoutSession struct {
	ID          uuid.UUID   `json:"id"`
	Date        time.Time   `json:"date"`
	Notes       string      `json:"notes,omitempty"`
	DurationSec float64     `json:"duration_sec"`
	Exercises   []*Exercise `json:"exercises"`
}

// Exercise is one trained movement within a session. Two exercises are the
// same exercise when Name and BodyPart both match exactly.
type Exercise struct {
	ID       uuid.UUID     `json:"id"`
	Name     string        `json:"name"`
	BodyPart BodyPart      `json:"body_part"`
	Sets     []ExerciseSet `json:"sets"`
}

// ExerciseSet is one performed set. CreatedAt is informational only.
type ExerciseSet struct {
	WeightKg  float64   `json:"weight_kg"`
	Reps      int       `json:"reps"`
	Memo      string    `json:"memo,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewSession creates an empty session at the given time.
func NewSession(date time.Time) *WorkoutSession {
	return &WorkoutSession{ID: uuid.New(), Date: date}
}

// NewExercise creates an exercise with no sets.
func NewExercise(name string, bodyPart BodyPart) *Exercise {
	return &Exercise{ID: uuid.New(), Name: name, BodyPart: bodyPart}
}

// AddExercise appends e to the session.
func (s *WorkoutSession) AddExercise(e *Exercise) {
	s.Exercises = append(s.Exercises, e)
}

// RemoveExercise drops the exercise with the given ID. Returns false if the
// session does not own such an exercise.
func (s *WorkoutSession) RemoveExercise(id uuid.UUID) bool {
	for i, e := range s.Exercises {
		if e.ID == id {
			s.Exercises = append(s.Exercises[:i], s.Exercises[i+1:]...)
			return true
		}
	}
	return false
}

// FindExercise returns the exercise matching name and body part, or nil.
func (s *WorkoutSession) FindExercise(name string, bodyPart BodyPart) *Exercise {
	for _, e := range s.Exercises {
		if e.Name == name && e.BodyPart == bodyPart {
			return e
		}
	}
	return nil
}

// TotalVolume sums weight x reps over every set in the session.
func (s *WorkoutSession) TotalVolume() float64 {
	var v float64
	for _, e := range s.Exercises {
		v += e.TotalVolume()
	}
	return v
}

// TotalSets counts every set in the session.
func (s *WorkoutSession) TotalSets() int {
	var n int
	for _, e := range s.Exercises {
		n += len(e.Sets)
	}
	return n
}

// TrainedBodyParts returns the distinct body parts in declaration order.
func (s *WorkoutSession) TrainedBodyParts() []BodyPart {
	seen := make(map[BodyPart]bool, len(s.Exercises))
	for _, e := range s.Exercises {
		seen[e.BodyPart] = true
	}
	var parts []BodyPart
	for _, b := range AllBodyParts() {
		if seen[b] {
			parts = append(parts, b)
		}
	}
	return parts
}

// AddSet appends a set stamped with the current time.
func (e *Exercise) AddSet(weightKg float64, reps int, memo string) {
	e.Sets = append(e.Sets, ExerciseSet{
		WeightKg:  weightKg,
		Reps:      reps,
		Memo:      memo,
		CreatedAt: time.Now(),
	})
}

// TotalVolume sums weight x reps over the exercise's sets.
func (e *Exercise) TotalVolume() float64 {
	var v float64
	for _, set := range e.Sets {
		v += set.Volume()
	}
	return v
}

// MaxWeight is the heaviest set weight, 0 without sets.
func (e *Exercise) MaxWeight() float64 {
	var maxW float64
	for _, set := range e.Sets {
		maxW = max(maxW, set.WeightKg)
	}
	return maxW
}

// Volume is weight x reps.
func (s ExerciseSet) Volume() float64 {
	return s.WeightKg * float64(s.Reps)
}
