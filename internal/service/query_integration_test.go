package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"garmin-fitness/internal/analysis"
	"garmin-fitness/internal/config"
	"garmin-fitness/internal/store"
)

func openServiceDB(t *testing.T) *store.DB {
	t.Helper()
	db, err := store.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func newTestQueryService(db *store.DB, ftp, weightKG float64) *QueryService {
	return NewQueryService(db, config.AthleteConfig{FTP: ftp, WeightKG: weightKG})
}

func floatPtr(f float64) *float64 { return &f }

// seedRide inserts an activity together with a constant-power,
// constant-HR sample series recorded at 1 Hz.
func seedRide(t *testing.T, db *store.DB, id int64, start time.Time, watts, hr float64, seconds int) {
	t.Helper()

	require.NoError(t, db.UpsertActivity(&store.Activity{
		ActivityID:   id,
		Name:         "Test Ride",
		Type:         "cycling",
		StartTimeGMT: start, StartTimeLocal: start,
		Distance: 30000,
		Duration: float64(seconds),
	}))

	points := make([]store.SamplePoint, seconds)
	for i := range points {
		points[i] = store.SamplePoint{
			Time:      start.Add(time.Duration(i) * time.Second),
			Power:     floatPtr(watts),
			HeartRate: floatPtr(hr),
		}
	}
	require.NoError(t, db.SaveSamples(id, points))
	require.NoError(t, db.MarkSamplesSynced(id))
}

// seedMetricsRow inserts an activity with a precomputed metrics row and
// no samples.
func seedMetricsRow(t *testing.T, db *store.DB, id int64, start time.Time, tss float64) {
	t.Helper()

	require.NoError(t, db.UpsertActivity(&store.Activity{
		ActivityID:   id,
		Name:         "Seeded Ride",
		Type:         "cycling",
		StartTimeGMT: start, StartTimeLocal: start,
		Distance: 25000,
		Duration: 3600,
	}))
	require.NoError(t, db.SaveActivityMetrics(&store.ActivityMetrics{
		ActivityID:          id,
		NormalizedPower:     floatPtr(210),
		IntensityFactor:     floatPtr(0.84),
		TrainingStressScore: floatPtr(tss),
		AvgPower:            floatPtr(195),
		AvgHR:               floatPtr(145),
		EfficiencyFactor:    floatPtr(1.45),
		FTP:                 250,
		DataQualityScore:    floatPtr(1),
	}))
}

func TestGetActivityMetricsComputesFromSamples(t *testing.T) {
	db := openServiceDB(t)
	svc := newTestQueryService(db, 250, 70)
	start := time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC)

	// 40 minutes at a steady 200 W against an FTP of 250.
	seedRide(t, db, 1, start, 200, 140, 2400)

	m, err := svc.GetActivityMetrics(1, 250)
	require.NoError(t, err)

	require.NotNil(t, m.NormalizedPower)
	assert.InDelta(t, 200, *m.NormalizedPower, 0.01)
	require.NotNil(t, m.IntensityFactor)
	assert.InDelta(t, 0.8, *m.IntensityFactor, 0.001)
	require.NotNil(t, m.TrainingStressScore)
	// (2399s * 200W * 0.8 * 100) / (250 * 3600)
	assert.InDelta(t, 42.65, *m.TrainingStressScore, 0.1)
	require.NotNil(t, m.AvgHR)
	assert.InDelta(t, 140, *m.AvgHR, 0.01)
	assert.Equal(t, 250.0, m.FTP)
}

func TestGetActivityMetricsRecomputesOnFTPChange(t *testing.T) {
	db := openServiceDB(t)
	svc := newTestQueryService(db, 250, 70)
	start := time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC)
	seedRide(t, db, 1, start, 200, 140, 2400)

	_, err := svc.GetActivityMetrics(1, 250)
	require.NoError(t, err)

	// A different FTP must recompute from the stored samples.
	m, err := svc.GetActivityMetrics(1, 200)
	require.NoError(t, err)
	require.NotNil(t, m.IntensityFactor)
	assert.InDelta(t, 1.0, *m.IntensityFactor, 0.001)
	assert.Equal(t, 200.0, m.FTP)

	// A matching FTP must serve the cached row: with the samples gone a
	// recompute would blank every metric.
	require.NoError(t, db.DeleteSamples(1))
	m, err = svc.GetActivityMetrics(1, 200)
	require.NoError(t, err)
	require.NotNil(t, m.IntensityFactor)
	assert.InDelta(t, 1.0, *m.IntensityFactor, 0.001)

	// Changing FTP now recomputes over no samples: all metrics missing,
	// no error.
	m, err = svc.GetActivityMetrics(1, 250)
	require.NoError(t, err)
	assert.Nil(t, m.NormalizedPower)
	assert.Nil(t, m.TrainingStressScore)
	assert.Equal(t, 250.0, m.FTP)
}

func TestGetActivityMetricsErrors(t *testing.T) {
	db := openServiceDB(t)
	svc := newTestQueryService(db, 250, 70)
	start := time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC)
	seedRide(t, db, 1, start, 200, 140, 600)

	_, err := svc.GetActivityMetrics(1, 0)
	assert.ErrorIs(t, err, analysis.ErrInvalidParameter)

	_, err = svc.GetActivityMetrics(1, -250)
	assert.ErrorIs(t, err, analysis.ErrInvalidParameter)

	_, err = svc.GetActivityMetrics(999, 250)
	assert.ErrorIs(t, err, store.ErrActivityNotFound)
}

func TestGetActivitiesList(t *testing.T) {
	db := openServiceDB(t)
	svc := newTestQueryService(db, 250, 70)
	base := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

	seedMetricsRow(t, db, 1, base.AddDate(0, 0, 2), 80)
	seedMetricsRow(t, db, 2, base.AddDate(0, 0, 1), 60)
	seedMetricsRow(t, db, 3, base, 40)

	list, err := svc.GetActivitiesList(10, 0)
	require.NoError(t, err)
	require.Len(t, list, 3)

	// Newest first, metrics attached.
	assert.Equal(t, int64(1), list[0].Activity.ActivityID)
	assert.Equal(t, int64(3), list[2].Activity.ActivityID)
	require.NotNil(t, list[0].Metrics.TrainingStressScore)
	assert.Equal(t, 80.0, *list[0].Metrics.TrainingStressScore)

	page, err := svc.GetActivitiesList(2, 2)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, int64(3), page[0].Activity.ActivityID)

	count, err := svc.GetTotalActivityCount()
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestGetActivityInventory(t *testing.T) {
	db := openServiceDB(t)
	svc := newTestQueryService(db, 250, 70)
	now := time.Now()

	seedRide(t, db, 1, now.AddDate(0, 0, -1), 200, 140, 60)
	seedRide(t, db, 2, now.AddDate(0, 0, -10), 210, 145, 60)
	seedMetricsRow(t, db, 3, now.AddDate(0, 0, -2), 80)

	inv, err := svc.GetActivityInventory(0, 10)
	require.NoError(t, err)
	require.Len(t, inv.Activities, 3)
	// Newest first, regardless of whether metrics exist.
	assert.Equal(t, int64(1), inv.Activities[0].ActivityID)
	assert.Equal(t, int64(3), inv.Activities[1].ActivityID)
	assert.Equal(t, int64(2), inv.Activities[2].ActivityID)
	assert.Equal(t, 3, inv.Total)
	assert.Equal(t, 1, inv.Analyzed)

	// A day window drops the old ride and keeps the ordering.
	inv, err = svc.GetActivityInventory(7, 10)
	require.NoError(t, err)
	require.Len(t, inv.Activities, 2)
	assert.Equal(t, int64(1), inv.Activities[0].ActivityID)
	assert.Equal(t, int64(3), inv.Activities[1].ActivityID)
	assert.Equal(t, 3, inv.Total)

	inv, err = svc.GetActivityInventory(0, 2)
	require.NoError(t, err)
	assert.Len(t, inv.Activities, 2)
}

func TestGetActivityDetail(t *testing.T) {
	db := openServiceDB(t)
	svc := newTestQueryService(db, 250, 70)
	start := time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC)
	seedRide(t, db, 1, start, 200, 140, 2400)

	require.NoError(t, db.SavePowerRecords(1, []store.PowerRecord{
		{ActivityID: 1, Category: "peak_20m", Watts: 200, DurationSeconds: 1200, AchievedAt: start},
		{ActivityID: 1, Category: "peak_5s", Watts: 200, DurationSeconds: 5, AchievedAt: start},
	}))

	detail, err := svc.GetActivityDetail(1)
	require.NoError(t, err)

	assert.Equal(t, int64(1), detail.Activity.Activity.ActivityID)
	assert.Equal(t, 2400, detail.SampleCount)
	assert.Equal(t, "Excellent", detail.DataQuality)
	assert.Len(t, detail.Records, 2)

	// 200 W at FTP 250 is Tempo; all zoned time lands there.
	require.Len(t, detail.Zones, 7)
	tempo := detail.Zones[2]
	assert.Equal(t, "Tempo", tempo.Name)
	assert.InDelta(t, 100, tempo.Pct, 0.01)

	require.NotNil(t, detail.Distribution)
	assert.InDelta(t, 200, detail.Distribution.Mean, 0.01)
	assert.InDelta(t, 200, detail.Distribution.Max, 0.01)

	assert.NotEmpty(t, detail.TimeOfDayMax)
	assert.InDelta(t, 200, detail.TimeOfDayMax[0].MaxPower, 0.01)

	// 2400 samples at 1 Hz span 40 minutes of chart buckets.
	assert.Len(t, detail.PowerData, 40)
	assert.Len(t, detail.HRData, 40)
	assert.Len(t, detail.TimeLabels, 40)
	assert.InDelta(t, 200, detail.PowerData[0], 0.01)
}

func TestGetActivityDetailWithoutSamples(t *testing.T) {
	db := openServiceDB(t)
	svc := newTestQueryService(db, 250, 70)

	seedMetricsRow(t, db, 1, time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC), 80)

	// Metrics row has a mismatched FTP, so the detail view recomputes
	// over the empty series: every metric missing, no error.
	svc2 := newTestQueryService(db, 300, 70)
	detail, err := svc2.GetActivityDetail(1)
	require.NoError(t, err)

	assert.Equal(t, 0, detail.SampleCount)
	assert.Empty(t, detail.Zones)
	assert.Nil(t, detail.Distribution)
	assert.Empty(t, detail.PowerData)
	assert.Nil(t, detail.Activity.Metrics.TrainingStressScore)

	_, err = svc.GetActivityDetail(404)
	assert.ErrorIs(t, err, store.ErrActivityNotFound)
}

func TestGetDashboardData(t *testing.T) {
	db := openServiceDB(t)
	svc := newTestQueryService(db, 250, 70)

	t.Run("empty database", func(t *testing.T) {
		data, err := svc.GetDashboardData()
		require.NoError(t, err)
		assert.Empty(t, data.RecentActivities)
		assert.Zero(t, data.CurrentFitness)
		assert.Zero(t, data.WeekRideCount)
		assert.Len(t, data.WeeklyTSS, ChartWeeks)
	})

	weekStart := getMonday(time.Now())
	seedMetricsRow(t, db, 1, weekStart.Add(6*time.Hour), 80)
	seedMetricsRow(t, db, 2, weekStart.Add(30*time.Hour), 60)
	seedMetricsRow(t, db, 3, weekStart.AddDate(0, 0, -3), 100) // last week

	t.Run("aggregates current week", func(t *testing.T) {
		data, err := svc.GetDashboardData()
		require.NoError(t, err)

		assert.Len(t, data.RecentActivities, 3)
		assert.Equal(t, 2, data.WeekRideCount)
		assert.InDelta(t, 50, data.WeekDistance, 0.01) // 2 x 25 km
		assert.InDelta(t, 140, data.WeekTSS, 0.01)
		assert.InDelta(t, 40, data.WeekTSSDelta, 0.01) // 140 vs 100

		assert.Greater(t, data.CurrentFitness, 0.0)
		assert.Greater(t, data.CurrentFatigue, 0.0)
		assert.NotEmpty(t, data.FormDescription)
		assert.NotEmpty(t, data.FitnessHistory)

		require.Len(t, data.WeeklyTSS, ChartWeeks)
		assert.InDelta(t, 140, data.WeeklyTSS[ChartWeeks-1], 0.01)
		assert.InDelta(t, 100, data.WeeklyTSS[ChartWeeks-2], 0.01)
	})
}

func TestCompareActivities(t *testing.T) {
	db := openServiceDB(t)
	svc := newTestQueryService(db, 250, 70)
	start := time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC)

	seedRide(t, db, 1, start, 200, 140, 2400)
	seedRide(t, db, 2, start.AddDate(0, 0, 1), 250, 150, 2400)

	cmp, err := svc.CompareActivities(1, 2)
	require.NoError(t, err)

	assert.Equal(t, int64(1), cmp.A.Activity.ActivityID)
	assert.Equal(t, int64(2), cmp.B.Activity.ActivityID)
	assert.InDelta(t, 50, cmp.DeltaAvgPower, 0.01)
	assert.InDelta(t, 50, cmp.DeltaNP, 0.01)
	assert.InDelta(t, 0.2, cmp.DeltaIF, 0.001)
	assert.InDelta(t, 23.99, cmp.DeltaTSS, 0.1)
	assert.InDelta(t, 10, cmp.DeltaAvgHR, 0.01)
	assert.Zero(t, cmp.DeltaDistance)
	assert.Zero(t, cmp.DeltaDuration)

	_, err = svc.CompareActivities(1, 404)
	assert.ErrorIs(t, err, store.ErrActivityNotFound)
}

func TestGetBestPowerRecords(t *testing.T) {
	db := openServiceDB(t)
	svc := newTestQueryService(db, 250, 70)
	start := time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC)

	seedMetricsRow(t, db, 1, start, 80)
	require.NoError(t, db.SavePowerRecords(1, []store.PowerRecord{
		{ActivityID: 1, Category: "peak_20m", Watts: 280, DurationSeconds: 1200, AchievedAt: start, AvgHeartRate: floatPtr(165)},
		{ActivityID: 1, Category: "peak_5s", Watts: 610, DurationSeconds: 5, AchievedAt: start},
	}))

	data, err := svc.GetBestPowerRecords()
	require.NoError(t, err)
	require.Len(t, data.AllTime, 2)

	// Shortest window first, formatted for display.
	first := data.AllTime[0]
	assert.Equal(t, "peak_5s", first.Category)
	assert.Equal(t, "5 sec", first.CategoryLabel)
	assert.Equal(t, "610W", first.Watts)
	assert.Equal(t, "8.7 W/kg", first.WKg)
	assert.Equal(t, "-", first.AvgHR)
	assert.Equal(t, "Seeded Ride", first.ActivityName)

	second := data.AllTime[1]
	assert.Equal(t, "peak_20m", second.Category)
	assert.Equal(t, "165", second.AvgHR)

	perActivity, err := svc.GetActivityPowerRecords(1)
	require.NoError(t, err)
	require.Len(t, perActivity, 2)
	assert.Equal(t, "peak_5s", perActivity[0].Category)
}

func TestGetFTPData(t *testing.T) {
	db := openServiceDB(t)
	svc := newTestQueryService(db, 250, 70)

	t.Run("falls back to configured FTP", func(t *testing.T) {
		data, err := svc.GetFTPData()
		require.NoError(t, err)
		assert.Equal(t, 250.0, data.Current)
		assert.Equal(t, 250.0, data.Configured)
		assert.Empty(t, data.History)
		assert.InDelta(t, 3.57, data.WKg, 0.01)
		assert.Equal(t, "Good", data.Classification)
	})

	t.Run("recent estimate wins when higher", func(t *testing.T) {
		require.NoError(t, db.SaveFTPEstimate(&store.FTPEstimate{
			EstimatedAt: time.Now().AddDate(0, 0, -14),
			Watts:       265,
			Source:      "20m_test",
			Confidence:  "high",
		}))

		data, err := svc.GetFTPData()
		require.NoError(t, err)
		assert.Equal(t, 265.0, data.Current)
		assert.Equal(t, 250.0, data.Configured)
		require.Len(t, data.History, 1)
		assert.Equal(t, "20m_test", data.History[0].Source)
	})

	t.Run("estimates older than a year are ignored", func(t *testing.T) {
		require.NoError(t, db.SaveFTPEstimate(&store.FTPEstimate{
			EstimatedAt: time.Now().AddDate(-2, 0, 0),
			Watts:       400,
			Source:      "20m_test",
			Confidence:  "high",
		}))

		data, err := svc.GetFTPData()
		require.NoError(t, err)
		assert.Equal(t, 265.0, data.Current, "a stale 400W effort must not define current FTP")
		assert.Len(t, data.History, 2)
	})
}

func TestGetFTPDataWithoutWeight(t *testing.T) {
	db := openServiceDB(t)
	svc := newTestQueryService(db, 250, 0)

	data, err := svc.GetFTPData()
	require.NoError(t, err)
	assert.Zero(t, data.WKg)
	assert.Empty(t, data.Classification)
}

func TestGetActivitySamples(t *testing.T) {
	db := openServiceDB(t)
	svc := newTestQueryService(db, 250, 70)
	start := time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC)
	seedRide(t, db, 1, start, 200, 140, 60)

	samples, err := svc.GetActivitySamples(1)
	require.NoError(t, err)
	require.Len(t, samples, 60)
	require.NotNil(t, samples[0].Power)
	assert.Equal(t, 200.0, *samples[0].Power)

	// Activities without stored samples yield an empty series.
	require.NoError(t, db.UpsertActivity(&store.Activity{
		ActivityID:   2,
		Name:         "No Samples",
		Type:         "cycling",
		StartTimeGMT: start, StartTimeLocal: start,
	}))
	samples, err = svc.GetActivitySamples(2)
	require.NoError(t, err)
	assert.Empty(t, samples)
}
