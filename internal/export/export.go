package export

import (
	"fmt"
	"time"

	"github.com/claude/musclememo/internal/models"
)

// Kind selects one of the reports.
type Kind string

const (
	KindWorkouts  Kind = "workouts"
	KindDaily     Kind = "daily"
	KindBodyParts Kind = "body-parts"
)

// Kinds lists every report kind.
func Kinds() []Kind {
	return []Kind{KindWorkouts, KindDaily, KindBodyParts}
}

var prefixes = map[Kind]string{
	KindWorkouts:  "muscle_memo_workouts",
	KindDaily:     "muscle_memo_stats",
	KindBodyParts: "muscle_memo_bodypart_stats",
}

// ParseKind validates a report kind name.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if _, ok := prefixes[k]; !ok {
		return "", fmt.Errorf("unknown export kind %q (want workouts, daily or body-parts)", s)
	}
	return k, nil
}

// Prefix is the file name prefix for the report kind.
func (k Kind) Prefix() string {
	return prefixes[k]
}

// FileName builds "{prefix}_{yyyyMMdd_HHmmss}.csv" from the generation time.
func FileName(prefix string, now time.Time) string {
	return fmt.Sprintf("%s_%s.csv", prefix, now.Format("20060102_150405"))
}

// File is a rendered report ready to be written.
type File struct {
	Name    string
	Kind    Kind
	Content string
}

// Render produces the report of the given kind, named after now.
func Render(kind Kind, sessions []*models.WorkoutSession, loc *time.Location, now time.Time) (*File, error) {
	var content string
	switch kind {
	case KindWorkouts:
		content = WorkoutLog(sessions, loc)
	case KindDaily:
		content = DailyRollup(sessions, loc)
	case KindBodyParts:
		content = BodyPartRollup(sessions, loc)
	default:
		return nil, fmt.Errorf("unknown export kind %q", kind)
	}
	return &File{Name: FileName(kind.Prefix(), now), Kind: kind, Content: content}, nil
}
