package models

import (
	"fmt"
	"strings"
)

// BodyPart is the closed set of training categories an exercise belongs to.
// The declared order is stable and drives every per-body-part report.
type BodyPart int

const (
	Chest BodyPart = iota
	Arms
	Shoulders
	Back
	Legs
	Abs
	Glutes
	Cardio
)

type bodyPartInfo struct {
	key      string
	label    string
	required bool
}

var bodyParts = [...]bodyPartInfo{
	Chest:     {key: "chest", label: "胸", required: true},
	Arms:      {key: "arms", label: "腕", required: true},
	Shoulders: {key: "shoulders", label: "肩", required: true},
	Back:      {key: "back", label: "背中", required: true},
	Legs:      {key: "legs", label: "脚", required: true},
	Abs:       {key: "abs", label: "腹筋"},
	Glutes:    {key: "glutes", label: "お尻"},
	Cardio:    {key: "cardio", label: "有酸素"},
}

// AllBodyParts returns every body part in declaration order.
func AllBodyParts() []BodyPart {
	all := make([]BodyPart, len(bodyParts))
	for i := range bodyParts {
		all[i] = BodyPart(i)
	}
	return all
}

// RequiredBodyParts returns the main body parts, in declaration order.
func RequiredBodyParts() []BodyPart {
	var parts []BodyPart
	for i, info := range bodyParts {
		if info.required {
			parts = append(parts, BodyPart(i))
		}
	}
	return parts
}

// Valid reports whether b is one of the declared body parts.
func (b BodyPart) Valid() bool {
	return b >= 0 && int(b) < len(bodyParts)
}

// Label is the display label written to and read from CSV files.
func (b BodyPart) Label() string {
	if !b.Valid() {
		return ""
	}
	return bodyParts[b].label
}

// Key is the stable lower-case English identifier (e.g. "chest").
func (b BodyPart) Key() string {
	if !b.Valid() {
		return ""
	}
	return bodyParts[b].key
}

// IsRequired reports whether b is one of the main body parts.
func (b BodyPart) IsRequired() bool {
	return b.Valid() && bodyParts[b].required
}

func (b BodyPart) String() string {
	if !b.Valid() {
		return fmt.Sprintf("BodyPart(%d)", int(b))
	}
	return bodyParts[b].key
}

// BodyPartFromLabel resolves a CSV display label by exact match.
func BodyPartFromLabel(label string) (BodyPart, bool) {
	for i, info := range bodyParts {
		if info.label == label {
			return BodyPart(i), true
		}
	}
	return 0, false
}

// ParseBodyPart accepts either the English key (case-insensitive) or the
// exact display label. Used for CLI and tool input, never for CSV import.
func ParseBodyPart(s string) (BodyPart, error) {
	s = strings.TrimSpace(s)
	if b, ok := BodyPartFromLabel(s); ok {
		return b, nil
	}
	lower := strings.ToLower(s)
	for i, info := range bodyParts {
		if info.key == lower {
			return BodyPart(i), nil
		}
	}
	return 0, fmt.Errorf("unknown body part %q", s)
}

// MarshalText encodes the body part as its English key.
func (b BodyPart) MarshalText() ([]byte, error) {
	if !b.Valid() {
		return nil, fmt.Errorf("invalid body part %d", int(b))
	}
	return []byte(b.Key()), nil
}

// UnmarshalText accepts the same forms as ParseBodyPart.
func (b *BodyPart) UnmarshalText(text []byte) error {
	parsed, err := ParseBodyPart(string(text))
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}
