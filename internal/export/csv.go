package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sadopc/wakr/internal/alarm"
	"github.com/sadopc/wakr/internal/store"
)

func AlarmsToCSV(alarms []alarm.Alarm, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	// Header
	if err := w.Write([]string{"ID", "Time", "Label", "Enabled", "Repeat", "Sound", "Dismiss", "Created", "Updated"}); err != nil {
		return err
	}

	for _, a := range alarms {
		row := []string{
			a.ID,
			a.Time.Format("15:04"),
			a.Label,
			fmt.Sprintf("%t", a.IsEnabled),
			formatDays(a.RepeatDays),
			a.Sound,
			string(a.DismissMethod),
			a.CreatedAt.Local().Format(time.RFC3339),
			a.UpdatedAt.Local().Format(time.RFC3339),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

func SleepToCSV(records []store.SleepRecord, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"Date", "Bed", "Wake", "Minutes"}); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			r.Date,
			r.BedTime.Local().Format(time.RFC3339),
			r.WakeTime.Local().Format(time.RFC3339),
			fmt.Sprintf("%d", r.TotalSleep),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}

// formatDays renders a repeat set as "Mon/Wed/Fri"; empty means one-shot.
func formatDays(days []time.Weekday) string {
	if len(days) == 0 {
		return "once"
	}
	parts := make([]string, len(days))
	for i, d := range days {
		parts[i] = alarm.DayLabels[int(d)]
	}
	return strings.Join(parts, "/")
}
