package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrActivityNotFound is returned when an activity doesn't exist
var ErrActivityNotFound = errors.New("activity not found")

const activityColumns = `activity_id, name, type, start_time_gmt, start_time_local,
	distance, duration, calories, avg_hr, max_hr, avg_power, max_power,
	fit_path, samples_synced`

// SaveActivity inserts an activity if its id is not already present.
// Returns false without touching the row when the activity exists.
func (db *DB) SaveActivity(a *Activity) (bool, error) {
	result, err := db.Exec(`
		INSERT INTO activities (
			activity_id, name, type, start_time_gmt, start_time_local,
			distance, duration, calories, avg_hr, max_hr, avg_power, max_power,
			fit_path, samples_synced, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(activity_id) DO NOTHING
	`,
		a.ActivityID, a.Name, a.Type,
		a.StartTimeGMT.Format(time.RFC3339), a.StartTimeLocal.Format(time.RFC3339),
		a.Distance, a.Duration, a.Calories, a.AvgHR, a.MaxHR, a.AvgPower, a.MaxPower,
		a.FITPath, boolToInt(a.SamplesSynced),
	)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

// UpsertActivity inserts or updates an activity
func (db *DB) UpsertActivity(a *Activity) error {
	_, err := db.Exec(`
		INSERT INTO activities (
			activity_id, name, type, start_time_gmt, start_time_local,
			distance, duration, calories, avg_hr, max_hr, avg_power, max_power,
			fit_path, samples_synced, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(activity_id) DO UPDATE SET
			name = excluded.name,
			type = excluded.type,
			start_time_gmt = excluded.start_time_gmt,
			start_time_local = excluded.start_time_local,
			distance = excluded.distance,
			duration = excluded.duration,
			calories = excluded.calories,
			avg_hr = excluded.avg_hr,
			max_hr = excluded.max_hr,
			avg_power = excluded.avg_power,
			max_power = excluded.max_power,
			fit_path = excluded.fit_path,
			samples_synced = excluded.samples_synced,
			updated_at = CURRENT_TIMESTAMP
	`,
		a.ActivityID, a.Name, a.Type,
		a.StartTimeGMT.Format(time.RFC3339), a.StartTimeLocal.Format(time.RFC3339),
		a.Distance, a.Duration, a.Calories, a.AvgHR, a.MaxHR, a.AvgPower, a.MaxPower,
		a.FITPath, boolToInt(a.SamplesSynced),
	)
	return err
}

// GetActivity retrieves an activity by ID
func (db *DB) GetActivity(id int64) (*Activity, error) {
	row := db.QueryRow(`
		SELECT `+activityColumns+`
		FROM activities
		WHERE activity_id = ?
	`, id)

	return scanActivity(row)
}

// ListActivities returns activities ordered by start time descending
func (db *DB) ListActivities(limit, offset int) ([]Activity, error) {
	rows, err := db.Query(`
		SELECT `+activityColumns+`
		FROM activities
		ORDER BY start_time_gmt DESC
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanActivities(rows)
}

// ListActivitiesSince returns activities starting at or after the given
// instant, oldest first.
func (db *DB) ListActivitiesSince(since time.Time) ([]Activity, error) {
	rows, err := db.Query(`
		SELECT `+activityColumns+`
		FROM activities
		WHERE start_time_gmt >= ?
		ORDER BY start_time_gmt ASC
	`, since.Format(time.RFC3339))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanActivities(rows)
}

// GetActivitiesNeedingSamples returns activities whose FIT series hasn't
// been decoded and stored yet
func (db *DB) GetActivitiesNeedingSamples(limit int) ([]Activity, error) {
	rows, err := db.Query(`
		SELECT `+activityColumns+`
		FROM activities
		WHERE samples_synced = 0
		ORDER BY start_time_gmt DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanActivities(rows)
}

// MarkSamplesSynced marks an activity's sample series as stored
func (db *DB) MarkSamplesSynced(id int64) error {
	result, err := db.Exec(`
		UPDATE activities
		SET samples_synced = 1, updated_at = CURRENT_TIMESTAMP
		WHERE activity_id = ?
	`, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrActivityNotFound
	}
	return nil
}

// CountActivities returns the total number of activities
func (db *DB) CountActivities() (int, error) {
	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM activities").Scan(&count)
	return count, err
}

// scanActivity scans a single activity from a row
func scanActivity(row *sql.Row) (*Activity, error) {
	var a Activity
	var startGMT, startLocal string
	var synced int

	err := row.Scan(
		&a.ActivityID, &a.Name, &a.Type, &startGMT, &startLocal,
		&a.Distance, &a.Duration, &a.Calories, &a.AvgHR, &a.MaxHR,
		&a.AvgPower, &a.MaxPower, &a.FITPath, &synced,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrActivityNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := fillActivityTimes(&a, startGMT, startLocal); err != nil {
		return nil, err
	}
	a.SamplesSynced = synced == 1

	return &a, nil
}

// scanActivities scans multiple activities from rows
func scanActivities(rows *sql.Rows) ([]Activity, error) {
	var activities []Activity

	for rows.Next() {
		var a Activity
		var startGMT, startLocal string
		var synced int

		err := rows.Scan(
			&a.ActivityID, &a.Name, &a.Type, &startGMT, &startLocal,
			&a.Distance, &a.Duration, &a.Calories, &a.AvgHR, &a.MaxHR,
			&a.AvgPower, &a.MaxPower, &a.FITPath, &synced,
		)
		if err != nil {
			return nil, err
		}

		if err := fillActivityTimes(&a, startGMT, startLocal); err != nil {
			return nil, err
		}
		a.SamplesSynced = synced == 1

		activities = append(activities, a)
	}

	return activities, rows.Err()
}

func fillActivityTimes(a *Activity, startGMT, startLocal string) error {
	var err error
	a.StartTimeGMT, err = time.Parse(time.RFC3339, startGMT)
	if err != nil {
		return fmt.Errorf("parsing start_time_gmt %q: %w", startGMT, err)
	}
	a.StartTimeLocal, err = time.Parse(time.RFC3339, startLocal)
	if err != nil {
		return fmt.Errorf("parsing start_time_local %q: %w", startLocal, err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
