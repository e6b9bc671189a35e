package store

import "time"

// Auth represents OAuth tokens for Garmin Connect API access
type Auth struct {
	AccessToken  string    `db:"access_token"`
	RefreshToken string    `db:"refresh_token"`
	TokenType    string    `db:"token_type"`
	ExpiresAt    time.Time `db:"expires_at"`
}

// Activity represents a Garmin activity summary
type Activity struct {
	ActivityID     int64     `db:"activity_id"`
	Name           string    `db:"name"`
	Type           string    `db:"type"`
	StartTimeGMT   time.Time `db:"start_time_gmt"`
	StartTimeLocal time.Time `db:"start_time_local"`
	Distance       float64   `db:"distance"` // meters
	Duration       float64   `db:"duration"` // seconds
	Calories       *int      `db:"calories"` // nullable
	AvgHR          *float64  `db:"avg_hr"`   // nullable
	MaxHR          *float64  `db:"max_hr"`   // nullable
	AvgPower       *float64  `db:"avg_power"`
	MaxPower       *float64  `db:"max_power"`
	FITPath        string    `db:"fit_path"`
	SamplesSynced  bool      `db:"samples_synced"`
}

// SamplePoint is one decoded record from a FIT file. HR and power are
// independently optional; a nil pointer means the device did not report
// the field at that timestamp.
type SamplePoint struct {
	Time      time.Time `json:"t"`
	HeartRate *float64  `json:"hr,omitempty"`
	Power     *float64  `json:"power,omitempty"`
}

// ActivityMetrics represents computed cycling metrics for an activity,
// cached against the FTP they were computed with.
type ActivityMetrics struct {
	ActivityID          int64    `db:"activity_id"`
	NormalizedPower     *float64 `db:"normalized_power"`
	IntensityFactor     *float64 `db:"intensity_factor"`
	TrainingStressScore *float64 `db:"training_stress_score"`
	AvgPower            *float64 `db:"avg_power"`
	VariabilityIndex    *float64 `db:"variability_index"`
	EfficiencyFactor    *float64 `db:"efficiency_factor"`
	Decoupling          *float64 `db:"decoupling"`
	AvgHR               *float64 `db:"avg_hr"`
	FTP                 float64  `db:"ftp"`
	DataQualityScore    *float64 `db:"data_quality_score"`
}

// PowerRecord represents the best average power over a standard duration
// within a single activity.
type PowerRecord struct {
	ActivityID      int64     `db:"activity_id"`
	Category        string    `db:"category"` // e.g. "peak_5s", "peak_20m"
	Watts           float64   `db:"watts"`
	DurationSeconds int       `db:"duration_seconds"`
	AchievedAt      time.Time `db:"achieved_at"`
	AvgHeartRate    *float64  `db:"avg_hr"` // mean HR over the window, nullable
}

// FTPEstimate represents one entry in the FTP history
type FTPEstimate struct {
	ID          int64     `db:"id"`
	EstimatedAt time.Time `db:"estimated_at"`
	Watts       float64   `db:"watts"`
	Source      string    `db:"source"` // "configured", "20m_test", "5m_test"
	Confidence  string    `db:"confidence"`
	ActivityID  *int64    `db:"activity_id"` // nullable
}
