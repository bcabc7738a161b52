package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sadopc/wakr/internal/alarm"
	"github.com/sadopc/wakr/internal/store"
)

func sampleAlarms() []alarm.Alarm {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	return []alarm.Alarm{
		{
			ID:            "a1",
			Time:          time.Date(2024, 1, 1, 6, 30, 0, 0, time.UTC),
			Label:         "Workout",
			IsEnabled:     true,
			RepeatDays:    []time.Weekday{time.Monday, time.Wednesday, time.Friday},
			Sound:         "Loud",
			DismissMethod: alarm.DismissMath,
			CreatedAt:     now,
			UpdatedAt:     now,
		},
		{
			ID:            "a2",
			Time:          time.Date(2024, 1, 1, 22, 15, 0, 0, time.UTC),
			Label:         "Bedtime",
			IsEnabled:     false,
			Sound:         "Gentle",
			DismissMethod: alarm.DismissButton,
			CreatedAt:     now,
			UpdatedAt:     now,
		},
	}
}

func sampleSleep() []store.SleepRecord {
	bed := time.Date(2024, 1, 1, 23, 0, 0, 0, time.UTC)
	return []store.SleepRecord{
		{ID: 1, Date: "2024-01-02", BedTime: bed, WakeTime: bed.Add(8 * time.Hour), TotalSleep: 480},
	}
}

// ============================================================
// CSV
// ============================================================

func TestAlarmsToCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "alarms.csv")
	if err := AlarmsToCSV(sampleAlarms(), path); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "ID" {
		t.Fatalf("unexpected header: %v", rows[0])
	}
	if rows[1][1] != "06:30" || rows[1][2] != "Workout" {
		t.Fatalf("unexpected first row: %v", rows[1])
	}
	if rows[1][4] != "Mon/Wed/Fri" {
		t.Fatalf("expected repeat days Mon/Wed/Fri, got %q", rows[1][4])
	}
	if rows[2][4] != "once" {
		t.Fatalf("one-shot should export as once, got %q", rows[2][4])
	}
}

func TestAlarmsToCSVEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	if err := AlarmsToCSV(nil, path); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(path)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected only header, got %d lines", len(lines))
	}
}

func TestAlarmsToCSVBadPath(t *testing.T) {
	if err := AlarmsToCSV(sampleAlarms(), "/nonexistent/dir/out.csv"); err == nil {
		t.Fatal("expected error for bad path")
	}
}

func TestSleepToCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sleep.csv")
	if err := SleepToCSV(sampleSleep(), path); err != nil {
		t.Fatal(err)
	}
	f, _ := os.Open(path)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected header + 1 row, got %d", len(rows))
	}
	if rows[1][0] != "2024-01-02" || rows[1][3] != "480" {
		t.Fatalf("unexpected row: %v", rows[1])
	}
}

// ============================================================
// JSON
// ============================================================

func TestToJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.json")
	if err := ToJSON(sampleAlarms(), sampleSleep(), path); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var out jsonExport
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if out.AlarmCount != 2 || len(out.Alarms) != 2 {
		t.Fatalf("expected 2 alarms, got %d/%d", out.AlarmCount, len(out.Alarms))
	}
	if out.Alarms[0].Time != "06:30" || out.Alarms[0].Dismiss != "math" {
		t.Fatalf("unexpected alarm: %+v", out.Alarms[0])
	}
	if len(out.Alarms[0].Repeat) != 3 {
		t.Fatalf("expected 3 repeat days, got %v", out.Alarms[0].Repeat)
	}
	if out.Alarms[0].NextRing == "" {
		t.Fatal("enabled alarm should carry next_ring")
	}
	if out.Alarms[1].NextRing != "" {
		t.Fatal("disabled alarm should not carry next_ring")
	}
	if len(out.Sleep) != 1 || out.Sleep[0].Minutes != 480 {
		t.Fatalf("unexpected sleep export: %+v", out.Sleep)
	}
}

func TestToJSONEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	if err := ToJSON(nil, nil, path); err != nil {
		t.Fatal(err)
	}
	var out jsonExport
	data, _ := os.ReadFile(path)
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	if out.AlarmCount != 0 {
		t.Fatalf("expected 0 alarms, got %d", out.AlarmCount)
	}
}
