package service

import (
	"fmt"
	"time"

	"garmin-fitness/internal/analysis"
	"garmin-fitness/internal/config"
	"garmin-fitness/internal/store"
)

// QueryService provides the read side for the TUI, web API and CLI.
type QueryService struct {
	store    *store.DB
	ftp      float64
	weightKG float64
}

// NewQueryService creates a new query service
func NewQueryService(db *store.DB, athleteCfg config.AthleteConfig) *QueryService {
	return &QueryService{
		store:    db,
		ftp:      athleteCfg.FTP,
		weightKG: athleteCfg.WeightKG,
	}
}

// FTP returns the configured FTP the service computes against.
func (q *QueryService) FTP() float64 {
	return q.ftp
}

// ActivityWithMetrics combines activity and its metrics
type ActivityWithMetrics struct {
	Activity store.Activity
	Metrics  store.ActivityMetrics
}

// GetActivitiesList returns paginated activities with metrics, newest
// first.
func (q *QueryService) GetActivitiesList(limit, offset int) ([]ActivityWithMetrics, error) {
	activities, metrics, err := q.store.GetActivitiesWithMetrics(limit, offset)
	if err != nil {
		return nil, err
	}

	result := make([]ActivityWithMetrics, len(activities))
	for i := range activities {
		result[i] = ActivityWithMetrics{
			Activity: activities[i],
			Metrics:  metrics[i],
		}
	}
	return result, nil
}

// GetTotalActivityCount returns the total number of activities
func (q *QueryService) GetTotalActivityCount() (int, error) {
	return q.store.CountActivities()
}

// ActivityInventory is a plain listing of stored activities plus sync
// bookkeeping counts, independent of whether metrics were computed.
type ActivityInventory struct {
	Activities []store.Activity
	Total      int
	Analyzed   int
}

// GetActivityInventory lists stored activities newest first. When days > 0
// the listing is restricted to activities started in the last N days,
// otherwise the newest limit entries are returned.
func (q *QueryService) GetActivityInventory(days, limit int) (*ActivityInventory, error) {
	var (
		activities []store.Activity
		err        error
	)
	if days > 0 {
		activities, err = q.store.ListActivitiesSince(time.Now().AddDate(0, 0, -days))
		// ListActivitiesSince returns oldest first; flip for display.
		for i, j := 0, len(activities)-1; i < j; i, j = i+1, j-1 {
			activities[i], activities[j] = activities[j], activities[i]
		}
	} else {
		activities, err = q.store.ListActivities(limit, 0)
	}
	if err != nil {
		return nil, err
	}

	total, err := q.store.CountActivities()
	if err != nil {
		return nil, err
	}
	analyzed, err := q.store.CountMetrics()
	if err != nil {
		return nil, err
	}

	return &ActivityInventory{Activities: activities, Total: total, Analyzed: analyzed}, nil
}

// GetActivityMetrics returns the metric bundle for an activity computed
// against ftp. The cached row is reused when its FTP matches; otherwise
// the metrics are recomputed from the stored samples and the cache
// refreshed. Fails with analysis.ErrInvalidParameter when ftp <= 0, and
// store.ErrActivityNotFound when the activity does not exist.
func (q *QueryService) GetActivityMetrics(id int64, ftp float64) (*store.ActivityMetrics, error) {
	if ftp <= 0 {
		return nil, fmt.Errorf("ftp must be positive, got %v: %w", ftp, analysis.ErrInvalidParameter)
	}

	if _, err := q.store.GetActivity(id); err != nil {
		return nil, err
	}

	cached, err := q.store.GetActivityMetrics(id)
	if err != nil {
		return nil, err
	}
	if cached != nil && cached.FTP == ftp {
		return cached, nil
	}

	points, err := q.store.GetSamples(id)
	if err != nil {
		return nil, err
	}

	table := analysis.NewSeriesTable(toAnalysisSamples(points))
	computed, err := analysis.ComputeActivityMetrics(table, ftp)
	if err != nil {
		return nil, err
	}

	row := toStoreMetrics(id, computed)
	if err := q.store.SaveActivityMetrics(row); err != nil {
		return nil, fmt.Errorf("caching metrics for %d: %w", id, err)
	}
	return row, nil
}

// GetActivitySamples returns the decoded sample series for an activity.
func (q *QueryService) GetActivitySamples(id int64) ([]analysis.Sample, error) {
	points, err := q.store.GetSamples(id)
	if err != nil {
		return nil, err
	}
	return toAnalysisSamples(points), nil
}
