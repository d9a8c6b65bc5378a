package testfixtures

import (
	"testing"
	"time"
)

func TestClockDefaultsToReferenceTime(t *testing.T) {
	clock := NewClock(time.Time{})
	if !clock.Now().Equal(ReferenceTime()) {
		t.Fatalf("expected ReferenceTime, got %v", clock.Now())
	}
	if !clock.Today().Equal(ReferenceDate()) {
		t.Fatalf("expected ReferenceDate, got %v", clock.Today())
	}
}

func TestClockAdvanceAndSet(t *testing.T) {
	start := time.Date(2024, time.March, 14, 23, 30, 0, 0, time.UTC)
	clock := NewClock(start)

	updated := clock.Advance(time.Hour)
	if !updated.Equal(start.Add(time.Hour)) {
		t.Fatalf("advance returned %v", updated)
	}
	if want := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC); !clock.Today().Equal(want) {
		t.Fatalf("expected the day to roll over, got %v", clock.Today())
	}

	clock.Set(start)
	nowFn := clock.NowFunc()
	if got := nowFn(); !got.Equal(start) {
		t.Fatalf("expected %v from NowFunc, got %v", start, got)
	}
}
