package service

import (
	"time"

	"garmin-fitness/internal/analysis"
	"garmin-fitness/internal/store"
)

// toStorePoints converts decoded samples into their persisted form. The
// nil pointers survive the round trip: a field the device never reported
// stays absent.
func toStorePoints(samples []analysis.Sample) []store.SamplePoint {
	points := make([]store.SamplePoint, len(samples))
	for i, s := range samples {
		points[i] = store.SamplePoint{
			Time:      s.Time,
			HeartRate: s.HeartRate,
			Power:     s.Power,
		}
	}
	return points
}

// toAnalysisSamples converts persisted sample points back into the form
// the analysis package consumes.
func toAnalysisSamples(points []store.SamplePoint) []analysis.Sample {
	samples := make([]analysis.Sample, len(points))
	for i, p := range points {
		samples[i] = analysis.Sample{
			Time:      p.Time,
			HeartRate: p.HeartRate,
			Power:     p.Power,
		}
	}
	return samples
}

// toStoreMetrics converts a computed metric bundle into its store row.
// Zero values mean the underlying data was missing, so they persist as
// NULL rather than 0.
func toStoreMetrics(activityID int64, m analysis.ActivityMetrics) *store.ActivityMetrics {
	return &store.ActivityMetrics{
		ActivityID:          activityID,
		NormalizedPower:     optMetric(m.NormalizedPower),
		IntensityFactor:     optMetric(m.IntensityFactor),
		TrainingStressScore: optMetric(m.TrainingStressScore),
		AvgPower:            optMetric(m.AveragePower),
		VariabilityIndex:    optMetric(m.VariabilityIndex),
		EfficiencyFactor:    optMetric(m.EfficiencyFactor),
		Decoupling:          optMetric(m.Decoupling),
		AvgHR:               optMetric(m.AverageHeartRate),
		FTP:                 m.FTP,
		DataQualityScore:    optMetric(m.DataQualityScore),
	}
}

// toStoreRecords converts a power curve into per-activity record rows.
func toStoreRecords(activity *store.Activity, curve []analysis.PeakPower) []store.PowerRecord {
	records := make([]store.PowerRecord, len(curve))
	for i, peak := range curve {
		records[i] = store.PowerRecord{
			ActivityID:      activity.ActivityID,
			Category:        analysis.PowerCurveCategories[peak.WindowSeconds],
			Watts:           peak.Watts,
			DurationSeconds: peak.WindowSeconds,
			AchievedAt:      activity.StartTimeGMT.Add(peak.StartOffset),
			AvgHeartRate:    optMetric(peak.AvgHeartRate),
		}
	}
	return records
}

func optMetric(v float64) *float64 {
	if v == 0 {
		return nil
	}
	return &v
}

// getMonday returns the Monday of the week containing t, at midnight
func getMonday(t time.Time) time.Time {
	daysFromMonday := (int(t.Weekday()) + 6) % 7 // Monday = 0
	monday := t.AddDate(0, 0, -daysFromMonday)
	return time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, monday.Location())
}
