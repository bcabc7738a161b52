package store

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sadopc/wakr/internal/alarm"
)

// LoadAlarms reads the full alarm collection in stored order.
func (s *Store) LoadAlarms() ([]alarm.Alarm, error) {
	rows, err := s.db.Query(
		`SELECT id, time, label, enabled, repeat_days, sound, dismiss_method, created_at, updated_at
		 FROM alarms ORDER BY position`,
	)
	if err != nil {
		return nil, fmt.Errorf("load alarms: %w", err)
	}
	defer rows.Close()

	var alarms []alarm.Alarm
	for rows.Next() {
		var a alarm.Alarm
		var timeStr, days, method, createdAt, updatedAt string
		var enabled int
		if err := rows.Scan(&a.ID, &timeStr, &a.Label, &enabled, &days, &a.Sound, &method, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		a.IsEnabled = enabled == 1
		a.DismissMethod = alarm.DismissMethod(method)
		a.RepeatDays = decodeDays(days)
		a.Time, _ = time.Parse(time.RFC3339, timeStr)
		a.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		a.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
		alarms = append(alarms, a)
	}
	return alarms, rows.Err()
}

// ReplaceAlarms overwrites the stored collection with the given one,
// atomically: either the whole new list lands or nothing changes.
func (s *Store) ReplaceAlarms(alarms []alarm.Alarm) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("replace alarms: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM alarms`); err != nil {
		return fmt.Errorf("clear alarms: %w", err)
	}

	for i, a := range alarms {
		enabled := 0
		if a.IsEnabled {
			enabled = 1
		}
		_, err := tx.Exec(
			`INSERT INTO alarms (id, position, time, label, enabled, repeat_days, sound, dismiss_method, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			a.ID, i,
			a.Time.Format(time.RFC3339),
			a.Label, enabled,
			encodeDays(a.RepeatDays),
			a.Sound, string(a.DismissMethod),
			a.CreatedAt.UTC().Format(time.RFC3339),
			a.UpdatedAt.UTC().Format(time.RFC3339),
		)
		if err != nil {
			return fmt.Errorf("insert alarm %s: %w", a.ID, err)
		}
	}

	return tx.Commit()
}

// encodeDays stores a weekday set as comma-separated indices ("1,3,5").
func encodeDays(days []time.Weekday) string {
	if len(days) == 0 {
		return ""
	}
	parts := make([]string, len(days))
	for i, d := range days {
		parts[i] = strconv.Itoa(int(d))
	}
	return strings.Join(parts, ",")
}

func decodeDays(s string) []time.Weekday {
	if s == "" {
		return nil
	}
	var days []time.Weekday
	for _, part := range strings.Split(s, ",") {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 || n > 6 {
			continue
		}
		days = append(days, time.Weekday(n))
	}
	return days
}
