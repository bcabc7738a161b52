package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/sadopc/wakr/internal/alarm"
)

// sleepRetention is how long sleep records are kept.
const sleepRetention = 30 * 24 * time.Hour

// AddSleepRecord logs one night of sleep and prunes records older than the
// retention window.
func (s *Store) AddSleepRecord(date string, bedTime, wakeTime time.Time) (*SleepRecord, error) {
	total := alarm.SleepDuration(bedTime, wakeTime)
	res, err := s.db.Exec(
		`INSERT INTO sleep_records (date, bed_time, wake_time, total_sleep) VALUES (?, ?, ?, ?)`,
		date,
		bedTime.UTC().Format(time.RFC3339),
		wakeTime.UTC().Format(time.RFC3339),
		total,
	)
	if err != nil {
		return nil, fmt.Errorf("insert sleep record: %w", err)
	}

	cutoff := time.Now().UTC().Add(-sleepRetention).Format("2006-01-02")
	if _, err := s.db.Exec(`DELETE FROM sleep_records WHERE date < ?`, cutoff); err != nil {
		return nil, fmt.Errorf("prune sleep records: %w", err)
	}

	id, _ := res.LastInsertId()
	return s.GetSleepRecord(id)
}

func (s *Store) GetSleepRecord(id int64) (*SleepRecord, error) {
	r := &SleepRecord{}
	var bed, wake, createdAt string
	err := s.db.QueryRow(
		`SELECT id, date, bed_time, wake_time, total_sleep, created_at FROM sleep_records WHERE id = ?`, id,
	).Scan(&r.ID, &r.Date, &bed, &wake, &r.TotalSleep, &createdAt)
	if err != nil {
		return nil, fmt.Errorf("get sleep record %d: %w", id, err)
	}
	r.BedTime, _ = time.Parse(time.RFC3339, bed)
	r.WakeTime, _ = time.Parse(time.RFC3339, wake)
	r.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return r, nil
}

// ListSleepRecords returns records with date in [from, to), oldest first.
func (s *Store) ListSleepRecords(from, to time.Time) ([]SleepRecord, error) {
	rows, err := s.db.Query(
		`SELECT id, date, bed_time, wake_time, total_sleep, created_at
		 FROM sleep_records WHERE date >= ? AND date < ? ORDER BY date`,
		from.Format("2006-01-02"), to.Format("2006-01-02"),
	)
	if err != nil {
		return nil, fmt.Errorf("list sleep records: %w", err)
	}
	defer rows.Close()

	var records []SleepRecord
	for rows.Next() {
		var r SleepRecord
		var bed, wake, createdAt string
		if err := rows.Scan(&r.ID, &r.Date, &bed, &wake, &r.TotalSleep, &createdAt); err != nil {
			return nil, err
		}
		r.BedTime, _ = time.Parse(time.RFC3339, bed)
		r.WakeTime, _ = time.Parse(time.RFC3339, wake)
		r.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		records = append(records, r)
	}
	return records, rows.Err()
}

// AverageSleep returns the mean nightly minutes over [from, to), 0 if no data.
func (s *Store) AverageSleep(from, to time.Time) (int, error) {
	var avg sql.NullFloat64
	err := s.db.QueryRow(
		`SELECT AVG(total_sleep) FROM sleep_records WHERE date >= ? AND date < ?`,
		from.Format("2006-01-02"), to.Format("2006-01-02"),
	).Scan(&avg)
	if err != nil {
		return 0, fmt.Errorf("average sleep: %w", err)
	}
	if !avg.Valid {
		return 0, nil
	}
	return int(avg.Float64 + 0.5), nil
}
