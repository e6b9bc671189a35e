package service

import (
	"fmt"

	"garmin-fitness/internal/analysis"
	"garmin-fitness/internal/store"
)

// ActivityDetail contains everything the detail views show for one
// activity.
type ActivityDetail struct {
	Activity ActivityWithMetrics

	// Derived analysis
	Zones        []analysis.PowerZone
	TimeOfDayMax []analysis.TimeOfDayMax
	Distribution *analysis.PowerDistribution
	Records      []store.PowerRecord

	// Chart data (minute-by-minute aggregation)
	PowerData  []float64
	HRData     []float64
	TimeLabels []string

	SampleCount int
	DataQuality string
}

// GetActivityDetail returns detailed analysis for a single activity.
// Metrics are computed against the configured FTP, recomputing the
// cached row if it was built with a different one.
func (q *QueryService) GetActivityDetail(id int64) (*ActivityDetail, error) {
	activity, err := q.store.GetActivity(id)
	if err != nil {
		return nil, err
	}

	metrics, err := q.GetActivityMetrics(id, q.ftp)
	if err != nil {
		return nil, err
	}

	samples, err := q.GetActivitySamples(id)
	if err != nil {
		return nil, err
	}

	records, err := q.store.GetPowerRecords(id)
	if err != nil {
		return nil, err
	}

	detail := &ActivityDetail{
		Activity: ActivityWithMetrics{
			Activity: *activity,
			Metrics:  *metrics,
		},
		Records:     records,
		SampleCount: len(samples),
	}
	if metrics.DataQualityScore != nil {
		detail.DataQuality = analysis.DataQualityDescription(*metrics.DataQualityScore)
	}

	if len(samples) == 0 {
		return detail, nil
	}

	zones, err := analysis.TimeInPowerZones(samples, q.ftp)
	if err != nil {
		return nil, err
	}
	detail.Zones = zones
	detail.TimeOfDayMax = analysis.MaxPowerByTimeOfDay(samples)

	table := analysis.NewSeriesTable(samples)
	detail.Distribution = analysis.DistributePower(table.Power())

	detail.PowerData, detail.HRData, detail.TimeLabels = buildChartData(samples)

	return detail, nil
}

// buildChartData aggregates the sample series into minute-by-minute
// averages for plotting. Minutes without readings carry the previous
// value forward so recording gaps don't plot as zero effort.
func buildChartData(samples []analysis.Sample) (powerData, hrData []float64, labels []string) {
	if len(samples) == 0 {
		return nil, nil, nil
	}

	type bucket struct {
		powerSum float64
		powerN   int
		hrSum    float64
		hrN      int
	}

	start := samples[0].Time
	buckets := make(map[int]bucket)
	maxMinute := 0

	for _, s := range samples {
		minute := int(s.Time.Sub(start).Seconds()) / SecondsPerMinute
		if minute < 0 {
			continue
		}
		if minute > maxMinute {
			maxMinute = minute
		}

		b := buckets[minute]
		if s.Power != nil {
			b.powerSum += *s.Power
			b.powerN++
		}
		if s.HeartRate != nil {
			b.hrSum += *s.HeartRate
			b.hrN++
		}
		buckets[minute] = b
	}

	for m := 0; m <= maxMinute; m++ {
		b := buckets[m]

		if b.powerN > 0 {
			powerData = append(powerData, b.powerSum/float64(b.powerN))
		} else if len(powerData) > 0 {
			powerData = append(powerData, powerData[len(powerData)-1])
		} else {
			powerData = append(powerData, 0)
		}

		if b.hrN > 0 {
			hrData = append(hrData, b.hrSum/float64(b.hrN))
		} else if len(hrData) > 0 {
			hrData = append(hrData, hrData[len(hrData)-1])
		} else {
			hrData = append(hrData, 0)
		}

		labels = append(labels, formatMinutes(m))
	}
	return powerData, hrData, labels
}

func formatMinutes(m int) string {
	return fmt.Sprintf("%d:00", m)
}
