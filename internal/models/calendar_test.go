package models

import (
	"testing"
	"time"
)

// TestSameDay verifies calendar-day comparison happens in the given zone,
// not on the raw instant.
func TestSameDay(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*3600)
	morning := time.Date(2025, 7, 16, 0, 30, 0, 0, tokyo)
	evening := time.Date(2025, 7, 16, 23, 59, 59, 0, tokyo)
	nextDay := time.Date(2025, 7, 17, 0, 0, 0, 0, tokyo)

	if !SameDay(morning, evening, tokyo) {
		t.Error("00:30 and 23:59 JST should be the same day in JST")
	}
	if SameDay(evening, nextDay, tokyo) {
		t.Error("23:59 and 00:00 next day should differ")
	}
	// 00:30 JST is 15:30 UTC the previous day.
	if SameDay(morning, evening, time.UTC) {
		t.Error("in UTC the two instants fall on different days")
	}
}

// TestStartOfDay verifies midnight is computed in the target zone.
func TestStartOfDay(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*3600)
	ts := time.Date(2025, 7, 16, 20, 0, 0, 0, time.UTC) // 05:00 JST on the 17th
	got := StartOfDay(ts, tokyo)
	want := time.Date(2025, 7, 17, 0, 0, 0, 0, tokyo)
	if !got.Equal(want) {
		t.Errorf("StartOfDay = %v, want %v", got, want)
	}
}
