package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/wakr/internal/alarm"
	"github.com/sadopc/wakr/internal/store"
)

type jsonExport struct {
	ExportedAt string      `json:"exported_at"`
	AlarmCount int         `json:"alarm_count"`
	Alarms     []jsonAlarm `json:"alarms"`
	Sleep      []jsonSleep `json:"sleep_records,omitempty"`
}

type jsonAlarm struct {
	ID        string   `json:"id"`
	Time      string   `json:"time"`
	Label     string   `json:"label"`
	Enabled   bool     `json:"enabled"`
	Repeat    []string `json:"repeat,omitempty"`
	Sound     string   `json:"sound"`
	Dismiss   string   `json:"dismiss"`
	NextRing  string   `json:"next_ring,omitempty"`
	CreatedAt string   `json:"created_at"`
	UpdatedAt string   `json:"updated_at"`
}

type jsonSleep struct {
	Date    string `json:"date"`
	Bed     string `json:"bed_time"`
	Wake    string `json:"wake_time"`
	Minutes int    `json:"total_minutes"`
}

func ToJSON(alarms []alarm.Alarm, records []store.SleepRecord, path string) error {
	now := time.Now()
	out := jsonExport{
		ExportedAt: now.UTC().Format(time.RFC3339),
		AlarmCount: len(alarms),
	}

	for _, a := range alarms {
		var repeat []string
		for _, d := range a.RepeatDays {
			repeat = append(repeat, alarm.DayLabels[int(d)])
		}
		nextRing := ""
		if a.IsEnabled {
			nextRing = alarm.NextTriggerFor(a, now).Format(time.RFC3339)
		}
		out.Alarms = append(out.Alarms, jsonAlarm{
			ID:        a.ID,
			Time:      a.Time.Format("15:04"),
			Label:     a.Label,
			Enabled:   a.IsEnabled,
			Repeat:    repeat,
			Sound:     a.Sound,
			Dismiss:   string(a.DismissMethod),
			NextRing:  nextRing,
			CreatedAt: a.CreatedAt.Local().Format(time.RFC3339),
			UpdatedAt: a.UpdatedAt.Local().Format(time.RFC3339),
		})
	}

	for _, r := range records {
		out.Sleep = append(out.Sleep, jsonSleep{
			Date:    r.Date,
			Bed:     r.BedTime.Local().Format(time.RFC3339),
			Wake:    r.WakeTime.Local().Format(time.RFC3339),
			Minutes: r.TotalSleep,
		})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
