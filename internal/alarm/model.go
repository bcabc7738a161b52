package alarm

import (
	"sort"
	"time"
)

// DismissMethod selects how a ringing alarm is silenced.
type DismissMethod string

const (
	DismissButton DismissMethod = "button"
	DismissMath   DismissMethod = "math"
)

// Sounds is the fixed set of selectable alarm sounds.
var Sounds = []string{"Default", "Classic", "Gentle", "Loud", "Nature"}

// DefaultLabel is used when an alarm is saved with an empty label.
const DefaultLabel = "Alarm"

// Alarm is a single alarm record. Only the hour and minute of Time are
// meaningful for recurring alarms; the date portion is ignored.
type Alarm struct {
	ID            string
	Time          time.Time
	Label         string
	IsEnabled     bool
	RepeatDays    []time.Weekday // sorted ascending, no duplicates; empty = one-shot
	Sound         string
	DismissMethod DismissMethod
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// MinuteOfDay returns the alarm's wall-clock time as minutes past midnight.
// It is the list sort key.
func (a Alarm) MinuteOfDay() int {
	return a.Time.Hour()*60 + a.Time.Minute()
}

// Repeats reports whether the alarm has any recurrence days.
func (a Alarm) Repeats() bool {
	return len(a.RepeatDays) > 0
}

// RepeatsOn reports whether the alarm recurs on the given weekday.
func (a Alarm) RepeatsOn(d time.Weekday) bool {
	for _, rd := range a.RepeatDays {
		if rd == d {
			return true
		}
	}
	return false
}

// NormalizeDays returns the day set sorted ascending with duplicates removed.
func NormalizeDays(days []time.Weekday) []time.Weekday {
	if len(days) == 0 {
		return nil
	}
	seen := make(map[time.Weekday]bool, len(days))
	out := make([]time.Weekday, 0, len(days))
	for _, d := range days {
		if seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// DayLabels maps time.Weekday indices to short display names.
var DayLabels = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// SleepDuration returns the minutes slept between bed and wake time,
// rounded to the nearest minute.
func SleepDuration(bedTime, wakeTime time.Time) int {
	return int(wakeTime.Sub(bedTime).Round(time.Minute) / time.Minute)
}
