package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"garmin-fitness/internal/analysis"
	"garmin-fitness/internal/config"
	"garmin-fitness/internal/fitfile"
	"garmin-fitness/internal/garmin"
	"garmin-fitness/internal/store"
)

// downloadBatchSize caps how many FIT files one sync run downloads, to
// stay inside Garmin's rate limits. The next run picks up the rest.
const downloadBatchSize = 50

// firstSyncStart is the listing window start used when no sync has run
// before.
var firstSyncStart = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// ActivitySource is the slice of the Garmin client the sync needs.
type ActivitySource interface {
	GetActivitiesByDate(ctx context.Context, start, end time.Time, activityType string) ([]garmin.ActivitySummary, error)
	DownloadActivityFIT(ctx context.Context, activityID int64) ([]byte, error)
}

// ErrNoSource is returned by SyncAll when the service was built without
// a Garmin client.
var ErrNoSource = errors.New("no Garmin Connect client configured")

// SyncService orchestrates pulling activities from Garmin Connect into
// the local store and deriving metrics from them.
type SyncService struct {
	source  ActivitySource
	store   *store.DB
	dataDir string
	ftp     float64
}

// NewSyncService creates a sync service. source may be nil when only
// ImportFile is used.
func NewSyncService(source ActivitySource, db *store.DB, cfg *config.Config) *SyncService {
	return &SyncService{
		source:  source,
		store:   db,
		dataDir: cfg.Database.DataDir,
		ftp:     cfg.Athlete.FTP,
	}
}

// SyncOptions controls a sync run.
type SyncOptions struct {
	// Full ignores the stored last-sync time and lists everything.
	Full bool
	// ActivityType filters the Garmin listing, e.g. "cycling". Empty
	// means all types.
	ActivityType string
}

// SyncProgress reports progress during sync
type SyncProgress struct {
	Phase           string // "activities", "download", "metrics"
	Total           int
	Completed       int
	CurrentActivity string
	Error           error
}

// SyncResult contains the results of a sync operation
type SyncResult struct {
	ActivitiesFetched int
	ActivitiesStored  int
	FilesDownloaded   int
	MetricsComputed   int
	RecordsComputed   int
	FTPEstimates      int
	Errors            []error
}

// SyncAll performs a full sync: activity listing -> FIT downloads ->
// metric computation. Per-activity failures are accumulated in the
// result; only phase-level failures abort the run.
func (s *SyncService) SyncAll(ctx context.Context, opts SyncOptions, progress chan<- SyncProgress) (*SyncResult, error) {
	if progress != nil {
		defer close(progress)
	}

	result := &SyncResult{}

	if s.source == nil {
		return result, ErrNoSource
	}

	if err := s.syncActivities(ctx, opts, progress, result); err != nil {
		return result, fmt.Errorf("syncing activities: %w", err)
	}

	if err := s.downloadFITFiles(ctx, progress, result); err != nil {
		return result, fmt.Errorf("downloading FIT files: %w", err)
	}

	if err := s.computeMetrics(ctx, progress, result); err != nil {
		return result, fmt.Errorf("computing metrics: %w", err)
	}

	return result, nil
}

// syncActivities lists activities from Garmin since the last sync and
// stores the summaries of the ones we haven't seen.
func (s *SyncService) syncActivities(ctx context.Context, opts SyncOptions, progress chan<- SyncProgress, result *SyncResult) error {
	start := firstSyncStart
	if !opts.Full {
		if last, err := s.store.GetLastSyncTime(); err == nil && !last.IsZero() {
			// Back up a day so boundary activities are not missed;
			// SaveActivity skips the ones already stored.
			start = last.AddDate(0, 0, -1)
		}
	}
	end := time.Now()

	if progress != nil {
		progress <- SyncProgress{Phase: "activities"}
	}

	activities, err := s.source.GetActivitiesByDate(ctx, start, end, opts.ActivityType)
	if err != nil {
		return err
	}
	result.ActivitiesFetched = len(activities)

	for _, a := range activities {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		inserted, err := s.store.SaveActivity(convertSummary(a))
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("storing activity %d: %w", a.ActivityID, err))
			continue
		}
		if inserted {
			result.ActivitiesStored++
		}

		if progress != nil {
			progress <- SyncProgress{
				Phase:     "activities",
				Total:     result.ActivitiesFetched,
				Completed: result.ActivitiesStored,
			}
		}
	}

	if err := s.store.SetLastSyncTime(end); err != nil {
		return fmt.Errorf("recording sync time: %w", err)
	}
	return nil
}

// downloadFITFiles fetches the FIT file for every activity that has no
// samples yet, saves it under the data dir, and stores the decoded
// sample series.
func (s *SyncService) downloadFITFiles(ctx context.Context, progress chan<- SyncProgress, result *SyncResult) error {
	activities, err := s.store.GetActivitiesNeedingSamples(downloadBatchSize)
	if err != nil {
		return fmt.Errorf("listing activities needing samples: %w", err)
	}
	if len(activities) == 0 {
		return nil
	}

	if progress != nil {
		progress <- SyncProgress{Phase: "download", Total: len(activities)}
	}

	for i, activity := range activities {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if progress != nil {
			progress <- SyncProgress{
				Phase:           "download",
				Total:           len(activities),
				Completed:       i,
				CurrentActivity: activity.Name,
			}
		}

		data, err := s.source.DownloadActivityFIT(ctx, activity.ActivityID)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("downloading activity %d (%s): %w", activity.ActivityID, activity.Name, err))
			continue
		}

		path := s.fitPath(&activity)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return fmt.Errorf("creating data directory: %w", err)
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("writing %s: %w", path, err))
			continue
		}

		parsed, err := fitfile.Parse(bytes.NewReader(data))
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("decoding activity %d: %w", activity.ActivityID, err))
			continue
		}

		if err := s.store.SaveSamples(activity.ActivityID, toStorePoints(parsed.Samples)); err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("saving samples for %d: %w", activity.ActivityID, err))
			continue
		}

		// The FIT file is the richer source; fill anything the listing
		// left empty.
		enrichActivity(&activity, parsed, path)
		if err := s.store.UpsertActivity(&activity); err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("updating activity %d: %w", activity.ActivityID, err))
			continue
		}
		if err := s.store.MarkSamplesSynced(activity.ActivityID); err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("marking synced for %d: %w", activity.ActivityID, err))
			continue
		}

		result.FilesDownloaded++
	}

	if progress != nil {
		progress <- SyncProgress{
			Phase:     "download",
			Total:     len(activities),
			Completed: len(activities),
		}
	}
	return nil
}

// computeMetrics derives the metric bundle, power records and FTP
// estimate for every activity that has samples but no cached metrics.
func (s *SyncService) computeMetrics(ctx context.Context, progress chan<- SyncProgress, result *SyncResult) error {
	if s.ftp <= 0 {
		return fmt.Errorf("athlete FTP %v: %w", s.ftp, analysis.ErrInvalidParameter)
	}

	if err := s.seedConfiguredFTP(); err != nil {
		return err
	}

	activities, err := s.store.GetActivitiesNeedingMetrics()
	if err != nil {
		return fmt.Errorf("listing activities needing metrics: %w", err)
	}
	if len(activities) == 0 {
		return nil
	}

	if progress != nil {
		progress <- SyncProgress{Phase: "metrics", Total: len(activities)}
	}

	for i, activity := range activities {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if progress != nil {
			progress <- SyncProgress{
				Phase:           "metrics",
				Total:           len(activities),
				Completed:       i,
				CurrentActivity: activity.Name,
			}
		}

		points, err := s.store.GetSamples(activity.ActivityID)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("loading samples for %d: %w", activity.ActivityID, err))
			continue
		}

		if err := s.processSamples(&activity, toAnalysisSamples(points), result); err != nil {
			result.Errors = append(result.Errors, err)
		}
	}

	if progress != nil {
		progress <- SyncProgress{
			Phase:     "metrics",
			Total:     len(activities),
			Completed: len(activities),
		}
	}
	return nil
}

// processSamples computes and caches everything derived from one
// activity's sample series: the metric bundle, the peak power records,
// and an FTP history entry when the ride sets a new benchmark.
func (s *SyncService) processSamples(activity *store.Activity, samples []analysis.Sample, result *SyncResult) error {
	table := analysis.NewSeriesTable(samples)

	computed, err := analysis.ComputeActivityMetrics(table, s.ftp)
	if err != nil {
		return fmt.Errorf("computing metrics for %d: %w", activity.ActivityID, err)
	}
	if err := s.store.SaveActivityMetrics(toStoreMetrics(activity.ActivityID, computed)); err != nil {
		return fmt.Errorf("saving metrics for %d: %w", activity.ActivityID, err)
	}
	result.MetricsComputed++

	curve := analysis.PowerCurve(samples)
	if err := s.store.SavePowerRecords(activity.ActivityID, toStoreRecords(activity, curve)); err != nil {
		return fmt.Errorf("saving power records for %d: %w", activity.ActivityID, err)
	}
	result.RecordsComputed += len(curve)

	if est := analysis.EstimateFTP(samples); est != nil {
		saved, err := s.recordFTPEstimate(activity, est)
		if err != nil {
			return fmt.Errorf("saving FTP estimate for %d: %w", activity.ActivityID, err)
		}
		if saved {
			result.FTPEstimates++
		}
	}

	return nil
}

// recordFTPEstimate appends an FTP history entry when the estimate
// beats the current benchmark.
func (s *SyncService) recordFTPEstimate(activity *store.Activity, est *analysis.FTPEstimate) (bool, error) {
	latest, err := s.store.GetLatestFTPEstimate()
	if err != nil {
		return false, err
	}
	if latest != nil && est.Watts <= latest.Watts {
		return false, nil
	}

	id := activity.ActivityID
	return true, s.store.SaveFTPEstimate(&store.FTPEstimate{
		EstimatedAt: activity.StartTimeGMT,
		Watts:       est.Watts,
		Source:      ftpSourceName(est.SourceWindow),
		Confidence:  est.Confidence,
		ActivityID:  &id,
	})
}

// seedConfiguredFTP writes the configured FTP as the first history entry
// so estimates always have a baseline to beat.
func (s *SyncService) seedConfiguredFTP() error {
	latest, err := s.store.GetLatestFTPEstimate()
	if err != nil {
		return fmt.Errorf("reading FTP history: %w", err)
	}
	if latest != nil {
		return nil
	}
	return s.store.SaveFTPEstimate(&store.FTPEstimate{
		EstimatedAt: time.Now(),
		Watts:       s.ftp,
		Source:      "configured",
	})
}

// ImportFile decodes a local FIT file and stores it as an activity,
// complete with samples and computed metrics. The returned activity uses
// the ride's start time as a synthetic id, so re-importing the same file
// updates the existing row.
func (s *SyncService) ImportFile(path string) (*store.Activity, error) {
	parsed, err := fitfile.ParseFile(path)
	if err != nil {
		return nil, err
	}

	start := parsed.StartTime
	if start.IsZero() {
		start = time.Now().UTC()
	}

	activity := &store.Activity{
		ActivityID:     start.Unix(),
		Name:           strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		Type:           parsed.Sport,
		StartTimeGMT:   start,
		StartTimeLocal: start,
		Distance:       parsed.Distance,
		Duration:       parsed.Duration,
		Calories:       parsed.Calories,
		AvgHR:          parsed.AvgHR,
		MaxHR:          parsed.MaxHR,
		AvgPower:       parsed.AvgPower,
		MaxPower:       parsed.MaxPower,
		FITPath:        path,
	}

	if err := s.store.UpsertActivity(activity); err != nil {
		return nil, fmt.Errorf("storing imported activity: %w", err)
	}
	if err := s.store.SaveSamples(activity.ActivityID, toStorePoints(parsed.Samples)); err != nil {
		return nil, fmt.Errorf("saving samples: %w", err)
	}
	if err := s.store.MarkSamplesSynced(activity.ActivityID); err != nil {
		return nil, fmt.Errorf("marking samples synced: %w", err)
	}

	if s.ftp <= 0 {
		return nil, fmt.Errorf("athlete FTP %v: %w", s.ftp, analysis.ErrInvalidParameter)
	}
	var result SyncResult
	if err := s.processSamples(activity, parsed.Samples, &result); err != nil {
		return nil, err
	}

	activity.SamplesSynced = true
	return activity, nil
}

// fitPath builds the on-disk location for an activity's FIT file,
// <dataDir>/<id>_<local date>.fit.
func (s *SyncService) fitPath(a *store.Activity) string {
	date := a.StartTimeLocal
	if date.IsZero() {
		date = a.StartTimeGMT
	}
	return filepath.Join(s.dataDir, fmt.Sprintf("%d_%s.fit", a.ActivityID, date.Format("2006-01-02")))
}

// enrichActivity fills summary fields the listing left empty from the
// decoded FIT file.
func enrichActivity(a *store.Activity, parsed *fitfile.Activity, fitPath string) {
	a.FITPath = fitPath
	if a.Type == "" {
		a.Type = parsed.Sport
	}
	if a.Duration == 0 {
		a.Duration = parsed.Duration
	}
	if a.Distance == 0 {
		a.Distance = parsed.Distance
	}
	if a.Calories == nil {
		a.Calories = parsed.Calories
	}
	if a.AvgHR == nil {
		a.AvgHR = parsed.AvgHR
	}
	if a.MaxHR == nil {
		a.MaxHR = parsed.MaxHR
	}
	if a.AvgPower == nil {
		a.AvgPower = parsed.AvgPower
	}
	if a.MaxPower == nil {
		a.MaxPower = parsed.MaxPower
	}
}

// ftpSourceName maps an estimate's source window to its history label.
func ftpSourceName(windowSeconds int) string {
	switch windowSeconds {
	case analysis.Window20m:
		return "20m_test"
	case analysis.Window5m:
		return "5m_test"
	default:
		return "estimate"
	}
}

// convertSummary converts a Garmin API activity summary to a store activity
func convertSummary(a garmin.ActivitySummary) *store.Activity {
	return &store.Activity{
		ActivityID:     a.ActivityID,
		Name:           a.Name,
		Type:           a.Type,
		StartTimeGMT:   a.StartTimeGMT,
		StartTimeLocal: a.StartTimeLocal,
		Distance:       a.Distance,
		Duration:       a.Duration,
		Calories:       a.Calories,
		AvgHR:          a.AvgHR,
		MaxHR:          a.MaxHR,
		AvgPower:       a.AvgPower,
		MaxPower:       a.MaxPower,
	}
}
