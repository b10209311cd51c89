package reconcile

import (
	"github.com/google/uuid"

	"github.com/claude/musclememo/internal/models"
)

// Batch is the set of store writes produced by reconciling many sessions.
type Batch struct {
	// Insert holds new sessions in encounter order.
	Insert []*models.WorkoutSession
	// Update holds previously persisted sessions that received merged data.
	Update []*models.WorkoutSession
	// Delete holds IDs of persisted sessions to remove.
	Delete []uuid.UUID
	// Merged counts candidates folded into another session.
	Merged int
}

// Empty reports whether the batch writes nothing.
func (b *Batch) Empty() bool {
	return len(b.Insert) == 0 && len(b.Update) == 0 && len(b.Delete) == 0
}

// Apply reconciles candidates one at a time in order. Sessions inserted by
// earlier candidates are merge targets for later ones, so two same-day
// candidates end up as one inserted session.
func (e *Engine) Apply(candidates, existing []*models.WorkoutSession) *Batch {
	b := &Batch{}
	persisted := make(map[uuid.UUID]bool, len(existing))
	for _, s := range existing {
		persisted[s.ID] = true
	}
	updated := make(map[uuid.UUID]bool)

	pool := append([]*models.WorkoutSession(nil), existing...)
	for _, c := range candidates {
		d := e.Reconcile(c, pool)
		switch {
		case d.Action == Inserted:
			b.Insert = append(b.Insert, c)
			pool = append(pool, c)
		case persisted[d.Target.ID] && !updated[d.Target.ID]:
			updated[d.Target.ID] = true
			b.Update = append(b.Update, d.Target)
			b.Merged++
		default:
			b.Merged++
		}
	}
	return b
}

// MergeDuplicates collapses every group of same-day sessions into the first
// of the group by stored order. The returned batch updates the survivors and
// deletes the rest; sessions alone on their day are untouched.
func (e *Engine) MergeDuplicates(sessions []*models.WorkoutSession) *Batch {
	b := &Batch{}
	var kept []*models.WorkoutSession
	updated := make(map[uuid.UUID]bool)

	for _, s := range sessions {
		first := e.FindSameDay(s.Date, kept)
		if first == nil {
			kept = append(kept, s)
			continue
		}
		MergeInto(first, s)
		b.Delete = append(b.Delete, s.ID)
		b.Merged++
		if !updated[first.ID] {
			updated[first.ID] = true
			b.Update = append(b.Update, first)
		}
	}
	return b
}
