package models

import "testing"

// TestAllBodyPartsOrder verifies the declared order that reports rely on.
func TestAllBodyPartsOrder(t *testing.T) {
	want := []string{"chest", "arms", "shoulders", "back", "legs", "abs", "glutes", "cardio"}
	got := AllBodyParts()
	if len(got) != len(want) {
		t.Fatalf("AllBodyParts() len = %d, want %d", len(got), len(want))
	}
	for i, b := range got {
		if b.Key() != want[i] {
			t.Errorf("AllBodyParts()[%d] = %q, want %q", i, b.Key(), want[i])
		}
	}
}

// TestBodyPartFromLabel verifies exact display-label resolution used by CSV import.
func TestBodyPartFromLabel(t *testing.T) {
	for _, b := range AllBodyParts() {
		got, ok := BodyPartFromLabel(b.Label())
		if !ok || got != b {
			t.Errorf("BodyPartFromLabel(%q) = %v, %v; want %v", b.Label(), got, ok, b)
		}
	}
	// Keys and padded labels are not labels.
	for _, s := range []string{"chest", " 胸", "", "Chest"} {
		if _, ok := BodyPartFromLabel(s); ok {
			t.Errorf("BodyPartFromLabel(%q): expected no match", s)
		}
	}
}

// TestParseBodyPart verifies the lenient parser used for CLI and tool input.
func TestParseBodyPart(t *testing.T) {
	cases := []struct {
		input string
		want  BodyPart
	}{
		{"chest", Chest},
		{"LEGS", Legs},
		{" glutes ", Glutes},
		{"背中", Back},
		{"有酸素", Cardio},
	}
	for _, tc := range cases {
		got, err := ParseBodyPart(tc.input)
		if err != nil {
			t.Errorf("ParseBodyPart(%q): unexpected error %v", tc.input, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseBodyPart(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
	if _, err := ParseBodyPart("neck"); err == nil {
		t.Error("ParseBodyPart(neck): expected error")
	}
}

// TestRequiredBodyParts verifies the main/optional split.
func TestRequiredBodyParts(t *testing.T) {
	got := RequiredBodyParts()
	want := []BodyPart{Chest, Arms, Shoulders, Back, Legs}
	if len(got) != len(want) {
		t.Fatalf("RequiredBodyParts() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("RequiredBodyParts()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	if Cardio.IsRequired() {
		t.Error("cardio should not be required")
	}
}

// TestInvalidBodyPart verifies out-of-range values have no label and fail to marshal.
func TestInvalidBodyPart(t *testing.T) {
	b := BodyPart(42)
	if b.Valid() || b.Label() != "" {
		t.Errorf("BodyPart(42): Valid=%v Label=%q", b.Valid(), b.Label())
	}
	if _, err := b.MarshalText(); err == nil {
		t.Error("MarshalText on invalid body part: expected error")
	}
}
