package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
)

// SaveSamples stores the decoded sample series for an activity as a single
// JSON document, replacing any existing series.
func (db *DB) SaveSamples(activityID int64, points []SamplePoint) error {
	series, err := json.Marshal(points)
	if err != nil {
		return fmt.Errorf("encoding samples: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO samples (activity_id, series, sample_count)
		VALUES (?, ?, ?)
		ON CONFLICT(activity_id) DO UPDATE SET
			series = excluded.series,
			sample_count = excluded.sample_count
	`, activityID, string(series), len(points))
	if err != nil {
		return fmt.Errorf("saving samples: %w", err)
	}

	return nil
}

// GetSamples retrieves the sample series for an activity. Returns nil when
// no series is stored.
func (db *DB) GetSamples(activityID int64) ([]SamplePoint, error) {
	var series string
	err := db.QueryRow(`
		SELECT series FROM samples WHERE activity_id = ?
	`, activityID).Scan(&series)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var points []SamplePoint
	if err := json.Unmarshal([]byte(series), &points); err != nil {
		return nil, fmt.Errorf("decoding samples for activity %d: %w", activityID, err)
	}

	return points, nil
}

// DeleteSamples removes the sample series for an activity
func (db *DB) DeleteSamples(activityID int64) error {
	_, err := db.Exec("DELETE FROM samples WHERE activity_id = ?", activityID)
	return err
}

// GetActivitiesNeedingMetrics returns activities that have a stored sample
// series but no computed metrics
func (db *DB) GetActivitiesNeedingMetrics() ([]Activity, error) {
	rows, err := db.Query(`
		SELECT a.activity_id, a.name, a.type, a.start_time_gmt, a.start_time_local,
			a.distance, a.duration, a.calories, a.avg_hr, a.max_hr,
			a.avg_power, a.max_power, a.fit_path, a.samples_synced
		FROM activities a
		WHERE a.samples_synced = 1
		AND NOT EXISTS (SELECT 1 FROM activity_metrics m WHERE m.activity_id = a.activity_id)
		ORDER BY a.start_time_gmt DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanActivities(rows)
}
