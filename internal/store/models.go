package store

import "time"

// SleepRecord is one night of logged sleep. TotalSleep is derived from the
// bed/wake pair at insert time.
type SleepRecord struct {
	ID         int64
	Date       string // YYYY-MM-DD
	BedTime    time.Time
	WakeTime   time.Time
	TotalSleep int // minutes
	CreatedAt  time.Time
}

type Setting struct {
	Key   string
	Value string
}

// Setting keys seeded by the migration.
const (
	SettingDefaultSound   = "default_sound"
	SettingDefaultDismiss = "default_dismiss"
	SettingNapDuration    = "nap_duration" // seconds
	SettingVibration      = "vibration"    // "on" rings the terminal bell
)
