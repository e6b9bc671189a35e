package store

import (
	"database/sql"
	"time"
)

// SaveActivityMetrics stores computed metrics for an activity
func (db *DB) SaveActivityMetrics(m *ActivityMetrics) error {
	_, err := db.Exec(`
		INSERT INTO activity_metrics (
			activity_id, normalized_power, intensity_factor, training_stress_score,
			avg_power, variability_index, efficiency_factor, decoupling, avg_hr,
			ftp, data_quality_score, computed_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(activity_id) DO UPDATE SET
			normalized_power = excluded.normalized_power,
			intensity_factor = excluded.intensity_factor,
			training_stress_score = excluded.training_stress_score,
			avg_power = excluded.avg_power,
			variability_index = excluded.variability_index,
			efficiency_factor = excluded.efficiency_factor,
			decoupling = excluded.decoupling,
			avg_hr = excluded.avg_hr,
			ftp = excluded.ftp,
			data_quality_score = excluded.data_quality_score,
			computed_at = CURRENT_TIMESTAMP
	`,
		m.ActivityID, m.NormalizedPower, m.IntensityFactor, m.TrainingStressScore,
		m.AvgPower, m.VariabilityIndex, m.EfficiencyFactor, m.Decoupling, m.AvgHR,
		m.FTP, m.DataQualityScore,
	)
	return err
}

// GetActivityMetrics retrieves computed metrics for an activity.
// Returns nil when none have been computed yet.
func (db *DB) GetActivityMetrics(activityID int64) (*ActivityMetrics, error) {
	row := db.QueryRow(`
		SELECT activity_id, normalized_power, intensity_factor, training_stress_score,
			avg_power, variability_index, efficiency_factor, decoupling, avg_hr,
			ftp, data_quality_score
		FROM activity_metrics
		WHERE activity_id = ?
	`, activityID)

	var m ActivityMetrics
	err := row.Scan(
		&m.ActivityID, &m.NormalizedPower, &m.IntensityFactor, &m.TrainingStressScore,
		&m.AvgPower, &m.VariabilityIndex, &m.EfficiencyFactor, &m.Decoupling, &m.AvgHR,
		&m.FTP, &m.DataQualityScore,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// CountMetrics returns the number of activities with computed metrics
func (db *DB) CountMetrics() (int, error) {
	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM activity_metrics").Scan(&count)
	return count, err
}

// GetActivitiesWithMetrics retrieves activities joined with their computed
// metrics, newest first
func (db *DB) GetActivitiesWithMetrics(limit, offset int) ([]Activity, []ActivityMetrics, error) {
	rows, err := db.Query(`
		SELECT a.activity_id, a.name, a.type, a.start_time_gmt, a.start_time_local,
			a.distance, a.duration, a.calories, a.avg_hr, a.max_hr,
			a.avg_power, a.max_power, a.fit_path, a.samples_synced,
			m.normalized_power, m.intensity_factor, m.training_stress_score,
			m.avg_power, m.variability_index, m.efficiency_factor, m.decoupling,
			m.avg_hr, m.ftp, m.data_quality_score
		FROM activities a
		JOIN activity_metrics m ON a.activity_id = m.activity_id
		ORDER BY a.start_time_gmt DESC
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var activities []Activity
	var metrics []ActivityMetrics

	for rows.Next() {
		var a Activity
		var m ActivityMetrics
		var startGMT, startLocal string
		var synced int

		err := rows.Scan(
			&a.ActivityID, &a.Name, &a.Type, &startGMT, &startLocal,
			&a.Distance, &a.Duration, &a.Calories, &a.AvgHR, &a.MaxHR,
			&a.AvgPower, &a.MaxPower, &a.FITPath, &synced,
			&m.NormalizedPower, &m.IntensityFactor, &m.TrainingStressScore,
			&m.AvgPower, &m.VariabilityIndex, &m.EfficiencyFactor, &m.Decoupling,
			&m.AvgHR, &m.FTP, &m.DataQualityScore,
		)
		if err != nil {
			return nil, nil, err
		}

		if err := fillActivityTimes(&a, startGMT, startLocal); err != nil {
			return nil, nil, err
		}
		a.SamplesSynced = synced == 1
		m.ActivityID = a.ActivityID

		activities = append(activities, a)
		metrics = append(metrics, m)
	}

	return activities, metrics, rows.Err()
}

// parseTime parses a time string in RFC3339 format
func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}
