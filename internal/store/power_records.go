package store

import (
	"fmt"
	"time"
)

// BestPowerRecord is an all-time best for one duration category, joined
// with the activity it was set in.
type BestPowerRecord struct {
	Record       PowerRecord
	ActivityName string
	ActivityDate time.Time
}

// SavePowerRecords replaces the power records for an activity
func (db *DB) SavePowerRecords(activityID int64, records []PowerRecord) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM power_records WHERE activity_id = ?", activityID); err != nil {
		return fmt.Errorf("deleting existing power records: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO power_records (activity_id, category, watts, duration_seconds, achieved_at, avg_hr)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		_, err := stmt.Exec(
			activityID, r.Category, r.Watts, r.DurationSeconds,
			r.AchievedAt.Format(time.RFC3339), r.AvgHeartRate,
		)
		if err != nil {
			return fmt.Errorf("inserting power record: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

// GetPowerRecords retrieves the power records for one activity, shortest
// duration first
func (db *DB) GetPowerRecords(activityID int64) ([]PowerRecord, error) {
	rows, err := db.Query(`
		SELECT activity_id, category, watts, duration_seconds, achieved_at, avg_hr
		FROM power_records
		WHERE activity_id = ?
		ORDER BY duration_seconds ASC
	`, activityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []PowerRecord
	for rows.Next() {
		var r PowerRecord
		var achievedAt string
		if err := rows.Scan(&r.ActivityID, &r.Category, &r.Watts, &r.DurationSeconds, &achievedAt, &r.AvgHeartRate); err != nil {
			return nil, err
		}
		r.AchievedAt, err = parseTime(achievedAt)
		if err != nil {
			return nil, fmt.Errorf("parsing achieved_at %q: %w", achievedAt, err)
		}
		records = append(records, r)
	}

	return records, rows.Err()
}

// GetBestPowerRecords returns the all-time best watts per duration
// category across every activity, shortest duration first.
func (db *DB) GetBestPowerRecords() ([]BestPowerRecord, error) {
	rows, err := db.Query(`
		SELECT r.activity_id, r.category, r.watts, r.duration_seconds, r.achieved_at, r.avg_hr, a.name
		FROM power_records r
		JOIN activities a ON r.activity_id = a.activity_id
		WHERE r.watts = (
			SELECT MAX(watts) FROM power_records WHERE category = r.category
		)
		GROUP BY r.category
		ORDER BY r.duration_seconds ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var best []BestPowerRecord
	for rows.Next() {
		var b BestPowerRecord
		var achievedAt string
		err := rows.Scan(
			&b.Record.ActivityID, &b.Record.Category, &b.Record.Watts,
			&b.Record.DurationSeconds, &achievedAt, &b.Record.AvgHeartRate, &b.ActivityName,
		)
		if err != nil {
			return nil, err
		}
		b.Record.AchievedAt, err = parseTime(achievedAt)
		if err != nil {
			return nil, fmt.Errorf("parsing achieved_at %q: %w", achievedAt, err)
		}
		b.ActivityDate = b.Record.AchievedAt
		best = append(best, b)
	}

	return best, rows.Err()
}
