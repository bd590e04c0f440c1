package testfixtures

import (
	"errors"
	"testing"
	"time"
)

func TestClockDefaultsToReferenceTime(t *testing.T) {
	clock := NewClock(time.Time{})
	if !clock.Now().Equal(ReferenceTime()) {
		t.Fatalf("expected ReferenceTime, got %v", clock.Now())
	}
}

func TestClockAdvanceAndSet(t *testing.T) {
	start := time.Date(2025, time.March, 14, 9, 26, 0, 0, time.UTC)
	clock := NewClock(start)

	if updated := clock.Advance(90 * time.Minute); !updated.Equal(start.Add(90 * time.Minute)) {
		t.Fatalf("advance returned %v", updated)
	}

	clock.Set(start.Add(2 * time.Hour))
	if got := clock.Now(); !got.Equal(start.Add(2 * time.Hour)) {
		t.Fatalf("expected %v, got %v", start.Add(2*time.Hour), got)
	}
}

func TestIDGeneratorSequenceAndFailure(t *testing.T) {
	gen := NewIDGenerator("booking")

	first, _ := gen.Next()
	second, _ := gen.Next()
	if first != "booking-1" || second != "booking-2" {
		t.Fatalf("unexpected identifiers: %q, %q", first, second)
	}

	boom := errors.New("entropy exhausted")
	gen.FailWith(boom)
	if _, err := gen.Next(); !errors.Is(err, boom) {
		t.Fatalf("expected injected error, got %v", err)
	}

	gen.FailWith(nil)
	if next, _ := gen.Next(); next != "booking-3" {
		t.Fatalf("expected booking-3 after recovery, got %q", next)
	}
	if gen.Issued() != 3 {
		t.Fatalf("expected 3 issued ids, got %d", gen.Issued())
	}
}
