package service

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tormoder/fit"

	"garmin-fitness/internal/analysis"
	"garmin-fitness/internal/config"
	"garmin-fitness/internal/garmin"
)

// fakeSource serves canned summaries and FIT payloads in place of the
// Garmin Connect API.
type fakeSource struct {
	summaries   []garmin.ActivitySummary
	fitData     map[int64][]byte
	downloadErr map[int64]error

	lastStart time.Time
	lastEnd   time.Time
	lastType  string
}

func (f *fakeSource) GetActivitiesByDate(ctx context.Context, start, end time.Time, activityType string) ([]garmin.ActivitySummary, error) {
	f.lastStart, f.lastEnd, f.lastType = start, end, activityType
	return f.summaries, nil
}

func (f *fakeSource) DownloadActivityFIT(ctx context.Context, activityID int64) ([]byte, error) {
	if err := f.downloadErr[activityID]; err != nil {
		return nil, err
	}
	data, ok := f.fitData[activityID]
	if !ok {
		return nil, fmt.Errorf("no FIT payload for %d", activityID)
	}
	return data, nil
}

// buildRideFIT encodes a steady-state cycling activity recorded at 1 Hz.
func buildRideFIT(t *testing.T, start time.Time, seconds int, watts uint16, hr uint8) []byte {
	t.Helper()

	header := fit.NewHeader(fit.V20, true)
	file, err := fit.NewFile(fit.FileTypeActivity, header)
	require.NoError(t, err)

	activity, err := file.Activity()
	require.NoError(t, err)

	for i := 0; i < seconds; i++ {
		rec := fit.NewRecordMsg()
		rec.Timestamp = start.Add(time.Duration(i) * time.Second)
		rec.Power = watts
		rec.HeartRate = hr
		activity.Records = append(activity.Records, rec)
	}

	sess := fit.NewSessionMsg()
	sess.Sport = fit.SportCycling
	sess.StartTime = start
	sess.Timestamp = start.Add(time.Duration(seconds) * time.Second)
	sess.TotalTimerTime = uint32(seconds) * 1000 // ms
	sess.TotalDistance = 3000000                 // cm
	sess.AvgPower = watts
	sess.MaxPower = watts
	sess.AvgHeartRate = hr
	activity.Sessions = append(activity.Sessions, sess)

	var buf bytes.Buffer
	require.NoError(t, fit.Encode(&buf, file, binary.LittleEndian))
	return buf.Bytes()
}

func testSyncConfig(t *testing.T, ftp float64) *config.Config {
	t.Helper()
	return &config.Config{
		Database: config.DatabaseConfig{
			DataDir: filepath.Join(t.TempDir(), "activities"),
		},
		Athlete: config.AthleteConfig{FTP: ftp, WeightKG: 70},
	}
}

func rideSummary(id int64, start time.Time) garmin.ActivitySummary {
	return garmin.ActivitySummary{
		ActivityID:   id,
		Name:         "Threshold Intervals",
		Type:         "cycling",
		StartTimeGMT: start, StartTimeLocal: start,
		Distance: 30000,
		Duration: 2400,
	}
}

func TestSyncAllPipeline(t *testing.T) {
	db := openServiceDB(t)
	cfg := testSyncConfig(t, 250)
	start := time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC)

	// A 40-minute effort at 280 W: hard enough that the 20-minute
	// estimate (266 W) beats the configured 250 W baseline.
	source := &fakeSource{
		summaries: []garmin.ActivitySummary{rideSummary(9001, start)},
		fitData:   map[int64][]byte{9001: buildRideFIT(t, start, 2400, 280, 150)},
	}
	svc := NewSyncService(source, db, cfg)

	result, err := svc.SyncAll(context.Background(), SyncOptions{}, nil)
	require.NoError(t, err)
	assert.Empty(t, result.Errors)

	assert.Equal(t, 1, result.ActivitiesFetched)
	assert.Equal(t, 1, result.ActivitiesStored)
	assert.Equal(t, 1, result.FilesDownloaded)
	assert.Equal(t, 1, result.MetricsComputed)
	assert.Equal(t, 4, result.RecordsComputed) // 5s, 1m, 5m, 20m
	assert.Equal(t, 1, result.FTPEstimates)

	activity, err := db.GetActivity(9001)
	require.NoError(t, err)
	assert.True(t, activity.SamplesSynced)
	require.NotEmpty(t, activity.FITPath)
	_, err = os.Stat(activity.FITPath)
	assert.NoError(t, err, "FIT file should exist on disk")

	points, err := db.GetSamples(9001)
	require.NoError(t, err)
	assert.Len(t, points, 2400)

	metrics, err := db.GetActivityMetrics(9001)
	require.NoError(t, err)
	require.NotNil(t, metrics)
	require.NotNil(t, metrics.NormalizedPower)
	assert.InDelta(t, 280, *metrics.NormalizedPower, 0.01)
	assert.Equal(t, 250.0, metrics.FTP)

	records, err := db.GetPowerRecords(9001)
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, "peak_5s", records[0].Category)
	require.NotNil(t, records[0].AvgHeartRate)
	assert.InDelta(t, 150, *records[0].AvgHeartRate, 0.01)

	latest, err := db.GetLatestFTPEstimate()
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, 266.0, latest.Watts)
	assert.Equal(t, "20m_test", latest.Source)
	assert.Equal(t, "high", latest.Confidence)

	// Configured baseline plus the new estimate.
	history, err := db.ListFTPHistory(10)
	require.NoError(t, err)
	assert.Len(t, history, 2)

	lastSync, err := db.GetLastSyncTime()
	require.NoError(t, err)
	assert.False(t, lastSync.IsZero())

	t.Run("second run is a no-op", func(t *testing.T) {
		result, err := svc.SyncAll(context.Background(), SyncOptions{}, nil)
		require.NoError(t, err)
		assert.Equal(t, 0, result.ActivitiesStored)
		assert.Equal(t, 0, result.FilesDownloaded)
		assert.Equal(t, 0, result.MetricsComputed)
	})
}

func TestSyncAllReportsProgress(t *testing.T) {
	db := openServiceDB(t)
	cfg := testSyncConfig(t, 250)
	start := time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC)

	source := &fakeSource{
		summaries: []garmin.ActivitySummary{rideSummary(9001, start)},
		fitData:   map[int64][]byte{9001: buildRideFIT(t, start, 600, 200, 140)},
	}
	svc := NewSyncService(source, db, cfg)

	progress := make(chan SyncProgress)
	phases := make(map[string]bool)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for p := range progress {
			phases[p.Phase] = true
		}
	}()

	_, err := svc.SyncAll(context.Background(), SyncOptions{}, progress)
	require.NoError(t, err)

	// SyncAll closes the channel when it returns.
	<-done
	assert.True(t, phases["activities"])
	assert.True(t, phases["download"])
	assert.True(t, phases["metrics"])
}

func TestSyncAccumulatesPerActivityErrors(t *testing.T) {
	db := openServiceDB(t)
	cfg := testSyncConfig(t, 250)
	start := time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC)

	source := &fakeSource{
		summaries: []garmin.ActivitySummary{
			rideSummary(1, start),
			rideSummary(2, start.Add(time.Hour)),
			rideSummary(3, start.Add(2*time.Hour)),
		},
		fitData: map[int64][]byte{
			1: buildRideFIT(t, start, 600, 200, 140),
			3: []byte("not a fit file"),
		},
		downloadErr: map[int64]error{2: fmt.Errorf("503 from garmin")},
	}
	svc := NewSyncService(source, db, cfg)

	result, err := svc.SyncAll(context.Background(), SyncOptions{}, nil)
	require.NoError(t, err, "per-activity failures must not abort the run")

	assert.Equal(t, 3, result.ActivitiesStored)
	assert.Equal(t, 1, result.FilesDownloaded)
	assert.Equal(t, 1, result.MetricsComputed)
	assert.Len(t, result.Errors, 2)

	// The healthy activity still made it all the way through.
	activity, err := db.GetActivity(1)
	require.NoError(t, err)
	assert.True(t, activity.SamplesSynced)

	// The failed ones stay pending for the next run.
	activity, err = db.GetActivity(2)
	require.NoError(t, err)
	assert.False(t, activity.SamplesSynced)
}

func TestSyncListingWindow(t *testing.T) {
	db := openServiceDB(t)
	cfg := testSyncConfig(t, 250)
	source := &fakeSource{}
	svc := NewSyncService(source, db, cfg)

	_, err := svc.SyncAll(context.Background(), SyncOptions{ActivityType: "cycling"}, nil)
	require.NoError(t, err)

	// First sync lists from the epoch-ish default.
	assert.Equal(t, 2000, source.lastStart.Year())
	assert.Equal(t, "cycling", source.lastType)

	// Incremental sync backs up one day from the stored sync time so
	// boundary activities are not missed.
	_, err = svc.SyncAll(context.Background(), SyncOptions{}, nil)
	require.NoError(t, err)
	wantStart := time.Now().AddDate(0, 0, -1)
	assert.WithinDuration(t, wantStart, source.lastStart, time.Minute)

	// Full resync ignores the stored sync time.
	_, err = svc.SyncAll(context.Background(), SyncOptions{Full: true}, nil)
	require.NoError(t, err)
	assert.Equal(t, 2000, source.lastStart.Year())
}

func TestSyncAllInvalidFTP(t *testing.T) {
	db := openServiceDB(t)
	cfg := testSyncConfig(t, 0)
	svc := NewSyncService(&fakeSource{}, db, cfg)

	_, err := svc.SyncAll(context.Background(), SyncOptions{}, nil)
	assert.ErrorIs(t, err, analysis.ErrInvalidParameter)
}

func TestSyncAllWithoutSource(t *testing.T) {
	db := openServiceDB(t)
	svc := NewSyncService(nil, db, testSyncConfig(t, 250))

	// The progress channel must still be closed on the early return, or
	// a consumer draining it would block forever.
	progress := make(chan SyncProgress)
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		for range progress {
		}
	}()

	_, err := svc.SyncAll(context.Background(), SyncOptions{}, progress)
	assert.ErrorIs(t, err, ErrNoSource)
	<-drained
}

func TestImportFile(t *testing.T) {
	db := openServiceDB(t)
	cfg := testSyncConfig(t, 250)
	svc := NewSyncService(nil, db, cfg)
	start := time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC)

	path := filepath.Join(t.TempDir(), "morning_ride.fit")
	require.NoError(t, os.WriteFile(path, buildRideFIT(t, start, 1800, 220, 145), 0644))

	activity, err := svc.ImportFile(path)
	require.NoError(t, err)

	// Imported rides get a synthetic id from their start time.
	assert.Equal(t, start.Unix(), activity.ActivityID)
	assert.Equal(t, "morning_ride", activity.Name)
	assert.Contains(t, activity.Type, "cycling")
	assert.Equal(t, path, activity.FITPath)
	assert.True(t, activity.SamplesSynced)
	assert.InDelta(t, 30000, activity.Distance, 0.01)

	points, err := db.GetSamples(activity.ActivityID)
	require.NoError(t, err)
	assert.Len(t, points, 1800)

	metrics, err := db.GetActivityMetrics(activity.ActivityID)
	require.NoError(t, err)
	require.NotNil(t, metrics)
	require.NotNil(t, metrics.NormalizedPower)
	assert.InDelta(t, 220, *metrics.NormalizedPower, 0.01)

	t.Run("re-import updates the same row", func(t *testing.T) {
		again, err := svc.ImportFile(path)
		require.NoError(t, err)
		assert.Equal(t, activity.ActivityID, again.ActivityID)

		count, err := db.CountActivities()
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})
}

func TestImportFileMissing(t *testing.T) {
	db := openServiceDB(t)
	svc := NewSyncService(nil, db, testSyncConfig(t, 250))

	_, err := svc.ImportFile(filepath.Join(t.TempDir(), "nope.fit"))
	assert.Error(t, err)
}
