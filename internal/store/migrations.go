package store

import "database/sql"

// migrate runs all database migrations
func migrate(db *sql.DB) error {
	migrations := []string{
		// OAuth tokens (singleton row)
		`CREATE TABLE IF NOT EXISTS auth_tokens (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			access_token TEXT NOT NULL,
			refresh_token TEXT NOT NULL,
			token_type TEXT NOT NULL DEFAULT 'Bearer',
			expires_at INTEGER NOT NULL,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,

		// Activity summaries from Garmin Connect (one row per activity)
		`CREATE TABLE IF NOT EXISTS activities (
			activity_id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			type TEXT NOT NULL,
			start_time_gmt TEXT NOT NULL,
			start_time_local TEXT,
			distance REAL NOT NULL DEFAULT 0,
			duration REAL NOT NULL DEFAULT 0,
			calories INTEGER,
			avg_hr REAL,
			max_hr REAL,
			avg_power REAL,
			max_power REAL,
			fit_path TEXT,
			samples_synced INTEGER DEFAULT 0,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_activities_start_time ON activities(start_time_gmt)`,
		`CREATE INDEX IF NOT EXISTS idx_activities_type ON activities(type)`,

		// Decoded HR/power series, one JSON document per activity, so
		// queries never re-decode FIT files
		`CREATE TABLE IF NOT EXISTS samples (
			activity_id INTEGER PRIMARY KEY,
			series TEXT NOT NULL,
			sample_count INTEGER NOT NULL,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (activity_id) REFERENCES activities(activity_id) ON DELETE CASCADE
		)`,

		// Computed metrics (per activity, cached against the FTP used)
		`CREATE TABLE IF NOT EXISTS activity_metrics (
			activity_id INTEGER PRIMARY KEY,
			normalized_power REAL,
			intensity_factor REAL,
			training_stress_score REAL,
			avg_power REAL,
			variability_index REAL,
			efficiency_factor REAL,
			decoupling REAL,
			avg_hr REAL,
			ftp REAL NOT NULL,
			data_quality_score REAL,
			computed_at TEXT DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (activity_id) REFERENCES activities(activity_id) ON DELETE CASCADE
		)`,

		// Best average power per standard duration, per activity
		`CREATE TABLE IF NOT EXISTS power_records (
			activity_id INTEGER NOT NULL,
			category TEXT NOT NULL,
			watts REAL NOT NULL,
			duration_seconds INTEGER NOT NULL,
			achieved_at TEXT NOT NULL,
			avg_hr REAL,
			PRIMARY KEY (activity_id, category),
			FOREIGN KEY (activity_id) REFERENCES activities(activity_id) ON DELETE CASCADE
		)`,

		`CREATE INDEX IF NOT EXISTS idx_power_records_category ON power_records(category)`,

		// FTP estimates over time
		`CREATE TABLE IF NOT EXISTS ftp_history (
			id INTEGER PRIMARY KEY,
			estimated_at TEXT NOT NULL,
			watts REAL NOT NULL,
			source TEXT NOT NULL,
			confidence TEXT,
			activity_id INTEGER
		)`,

		`CREATE INDEX IF NOT EXISTS idx_ftp_history_estimated_at ON ftp_history(estimated_at)`,

		// Sync State (key-value store for sync tracking)
		`CREATE TABLE IF NOT EXISTS sync_state (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return err
		}
	}

	return nil
}
