package alarm

import "time"

// NextTrigger computes the next instant the alarm is due to ring, strictly
// after now. Only the hour and minute of timeOfDay are used; repeatDays
// holds the weekdays the alarm recurs on, empty meaning one-shot.
//
// Calendar arithmetic is naive wall time: no special handling for DST
// transitions or leap seconds.
func NextTrigger(timeOfDay time.Time, repeatDays []time.Weekday, now time.Time) time.Time {
	candidate := time.Date(
		now.Year(), now.Month(), now.Day(),
		timeOfDay.Hour(), timeOfDay.Minute(), 0, 0,
		now.Location(),
	)

	if len(repeatDays) == 0 {
		if candidate.After(now) {
			return candidate
		}
		return candidate.AddDate(0, 0, 1)
	}

	today := now.Weekday()
	if containsDay(repeatDays, today) && candidate.After(now) {
		return candidate
	}

	// Scan forward one full week; a non-empty set always matches within
	// 7 days (offset 7 recovers today's weekday if it already passed).
	for offset := 1; offset <= 7; offset++ {
		day := time.Weekday((int(today) + offset) % 7)
		if containsDay(repeatDays, day) {
			return candidate.AddDate(0, 0, offset)
		}
	}
	return candidate // unreachable for a non-empty set
}

// NextTriggerFor is NextTrigger applied to an alarm record.
func NextTriggerFor(a Alarm, now time.Time) time.Time {
	return NextTrigger(a.Time, a.RepeatDays, now)
}

func containsDay(days []time.Weekday, d time.Weekday) bool {
	for _, rd := range days {
		if rd == d {
			return true
		}
	}
	return false
}
