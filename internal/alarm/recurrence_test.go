package alarm

import (
	"testing"
	"time"
)

// tod builds a time-of-day value; the date portion is irrelevant.
func tod(hour, minute int) time.Time {
	return time.Date(2000, 1, 1, hour, minute, 0, 0, time.Local)
}

// Monday, January 1st 2024.
func monday(hour, minute int) time.Time {
	return time.Date(2024, 1, 1, hour, minute, 0, 0, time.Local)
}

func TestNextTriggerOneShotFuture(t *testing.T) {
	now := monday(10, 0)
	got := NextTrigger(tod(14, 0), nil, now)
	want := monday(14, 0)
	if !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestNextTriggerOneShotPast(t *testing.T) {
	now := monday(10, 0)
	got := NextTrigger(tod(8, 0), nil, now)
	want := time.Date(2024, 1, 2, 8, 0, 0, 0, time.Local)
	if !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestNextTriggerRepeatTodayStillAhead(t *testing.T) {
	now := monday(7, 0)
	got := NextTrigger(tod(9, 0), []time.Weekday{time.Monday, time.Wednesday}, now)
	want := monday(9, 0)
	if !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestNextTriggerRepeatTodayPassed(t *testing.T) {
	now := monday(10, 0)
	got := NextTrigger(tod(9, 0), []time.Weekday{time.Monday, time.Wednesday}, now)
	// Wednesday Jan 3rd
	want := time.Date(2024, 1, 3, 9, 0, 0, 0, time.Local)
	if !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestNextTriggerRepeatOnlyTodayPassed(t *testing.T) {
	now := monday(10, 0)
	got := NextTrigger(tod(9, 0), []time.Weekday{time.Monday}, now)
	// Following Monday, Jan 8th
	want := time.Date(2024, 1, 8, 9, 0, 0, 0, time.Local)
	if !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestNextTriggerExactNowRollsOver(t *testing.T) {
	// Candidate equal to now is not strictly after now.
	now := monday(9, 0)
	got := NextTrigger(tod(9, 0), nil, now)
	want := time.Date(2024, 1, 2, 9, 0, 0, 0, time.Local)
	if !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestNextTriggerWeekdayWrap(t *testing.T) {
	// Saturday Jan 6th at 12:00, alarm repeats Sundays.
	now := time.Date(2024, 1, 6, 12, 0, 0, 0, time.Local)
	got := NextTrigger(tod(8, 30), []time.Weekday{time.Sunday}, now)
	want := time.Date(2024, 1, 7, 8, 30, 0, 0, time.Local)
	if !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestNextTriggerAlwaysFuture(t *testing.T) {
	daySets := [][]time.Weekday{
		nil,
		{time.Sunday},
		{time.Monday, time.Friday},
		{time.Sunday, time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday},
	}
	for dayOffset := 0; dayOffset < 7; dayOffset++ {
		now := monday(13, 30).AddDate(0, 0, dayOffset)
		for _, days := range daySets {
			for _, at := range []time.Time{tod(0, 0), tod(13, 30), tod(23, 59)} {
				got := NextTrigger(at, days, now)
				if !got.After(now) {
					t.Fatalf("trigger %v not after now %v (days %v, at %v)", got, now, days, at)
				}
				if got.Hour() != at.Hour() || got.Minute() != at.Minute() {
					t.Fatalf("trigger %v lost the wall time %02d:%02d", got, at.Hour(), at.Minute())
				}
			}
		}
	}
}

func TestNextTriggerDeterministic(t *testing.T) {
	now := monday(10, 0)
	days := []time.Weekday{time.Tuesday, time.Thursday}
	first := NextTrigger(tod(6, 15), days, now)
	for i := 0; i < 5; i++ {
		if got := NextTrigger(tod(6, 15), days, now); !got.Equal(first) {
			t.Fatalf("non-deterministic result: %v vs %v", got, first)
		}
	}
}
