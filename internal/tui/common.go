package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/sadopc/wakr/internal/alarm"
	"github.com/sadopc/wakr/internal/store"
)

// viewState represents the currently active view.
type viewState int

const (
	viewAlarms viewState = iota
	viewNap
	viewAnalytics
	viewSettings
)

var viewNames = []string{"Alarms", "Nap", "Analytics", "Settings"}

// --- Messages ---

type alarmsDataMsg struct {
	alarms []alarm.Alarm
}

type sleepDataMsg struct {
	records []store.SleepRecord
	average int
}

type settingsDataMsg struct {
	settings []store.Setting
}

type statusMsg struct {
	text    string
	isError bool
}

type tickMsg time.Time

// ringMsg opens the ringing overlay for an alarm (or a synthetic nap alarm).
type ringMsg struct {
	alarm alarm.Alarm
}

// dismissedMsg closes the ringing overlay after a successful dismissal.
type dismissedMsg struct{}

type napDoneMsg struct{}

type exportDoneMsg struct {
	path string
}

// --- Helpers ---

func formatClock(t time.Time) string {
	return t.Format("15:04")
}

// formatUntil renders the gap to the next trigger, e.g. "in 7h 12m".
func formatUntil(next, now time.Time) string {
	d := next.Sub(now)
	if d < 0 {
		d = 0
	}
	days := int(d.Hours()) / 24
	h := int(d.Hours()) % 24
	m := int(d.Minutes()) % 60
	switch {
	case days > 0:
		return fmt.Sprintf("in %dd %dh", days, h)
	case h > 0:
		return fmt.Sprintf("in %dh %dm", h, m)
	default:
		return fmt.Sprintf("in %dm", m)
	}
}

func formatMinutes(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	h := minutes / 60
	m := minutes % 60
	if m == 0 {
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dh %dm", h, m)
}

func formatCountdown(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d", m, s)
}

// repeatBadge renders the repeat set, e.g. "Mon Wed Fri", "Every day",
// or "Once" for one-shot alarms.
func repeatBadge(days []time.Weekday) string {
	if len(days) == 0 {
		return "Once"
	}
	if len(days) == 7 {
		return "Every day"
	}
	parts := make([]string, len(days))
	for i, d := range days {
		parts[i] = alarm.DayLabels[int(d)]
	}
	return strings.Join(parts, " ")
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
