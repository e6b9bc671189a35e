package analysis

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// rollingWindow is the span of the Normalized Power smoothing window.
const rollingWindow = 30 * time.Second

// NormalizedPower calculates Normalized Power (NP) in watts.
//
// NP = (mean(rolling_avg(power^4, 30s)))^0.25
//
// The rolling window is time-based, not sample-count-based: the window at a
// sample's timestamp t covers (t-30s, t], so it behaves correctly when the
// device recorded at irregular intervals. Every sample produces a window
// value (a window always contains at least its own sample). Returns 0 when
// the table has no power data.
func (t *SeriesTable) NormalizedPower() float64 {
	power := t.Power()
	if len(power) == 0 {
		return 0.0
	}

	// Drop non-finite values the way the decoder tolerates sensor noise:
	// silently, keeping the rest of the series.
	clean := power[:0:0]
	for _, p := range power {
		if !math.IsNaN(p.Value) && !math.IsInf(p.Value, 0) {
			clean = append(clean, p)
		}
	}
	if len(clean) == 0 {
		return 0.0
	}

	fourth := make([]float64, len(clean))
	for i, p := range clean {
		fourth[i] = p.Value * p.Value * p.Value * p.Value
	}

	// Rolling mean over the trailing 30s window. start tracks the first
	// sample still inside (t_i - 30s, t_i]; a sample exactly 30s back falls
	// out of the window.
	var rollingSum float64
	start := 0
	for i := range clean {
		for start < i && clean[i].Time.Sub(clean[start].Time) >= rollingWindow {
			start++
		}
		var windowSum float64
		for j := start; j <= i; j++ {
			windowSum += fourth[j]
		}
		rollingSum += windowSum / float64(i-start+1)
	}

	rollingMean := rollingSum / float64(len(clean))
	return math.Pow(rollingMean, 0.25)
}

// IntensityFactor calculates Intensity Factor (IF), the ratio of Normalized
// Power to the rider's FTP. Fails with ErrInvalidParameter when ftp <= 0.
// A table with no power data yields 0 without dividing.
func (t *SeriesTable) IntensityFactor(ftp float64) (float64, error) {
	if ftp <= 0 {
		return 0, fmt.Errorf("ftp must be positive, got %v: %w", ftp, ErrInvalidParameter)
	}
	np := t.NormalizedPower()
	if np == 0.0 {
		return 0.0, nil
	}
	return np / ftp, nil
}

// TrainingStressScore calculates Training Stress Score (TSS), scaled so one
// hour ridden exactly at FTP scores 100.
//
// TSS = (duration_seconds * NP * IF * 100) / (ftp * 3600)
//
// duration_seconds spans the power series itself, first power sample to
// last, not the whole table. Fails with ErrInvalidParameter when ftp <= 0.
// Returns 0 when the power series is empty, and 0 when NP or IF is zero,
// without evaluating the formula. A single power sample spans zero seconds
// and therefore also scores 0.
func (t *SeriesTable) TrainingStressScore(ftp float64) (float64, error) {
	if ftp <= 0 {
		return 0, fmt.Errorf("ftp must be positive, got %v: %w", ftp, ErrInvalidParameter)
	}

	power := t.Power()
	if len(power) == 0 {
		return 0.0, nil
	}

	durationSeconds := power[len(power)-1].Time.Sub(power[0].Time).Seconds()
	intensity, err := t.IntensityFactor(ftp)
	if err != nil {
		return 0, err
	}
	np := t.NormalizedPower()

	if np == 0.0 || intensity == 0.0 {
		return 0.0, nil
	}

	return (durationSeconds * np * intensity * 100) / (ftp * 3600), nil
}

// TimeOfDayMax is the maximum power observed at one wall-clock time of day.
// TimeOfDay is the offset from midnight.
type TimeOfDayMax struct {
	TimeOfDay time.Duration
	MaxPower  float64
}

// MaxPowerByTimeOfDay groups samples by wall-clock time of day, discarding
// the date, and reports the maximum power seen at each distinct time of day
// across all dates. Samples without a power value are excluded before
// grouping. The result is ordered by time of day ascending.
func MaxPowerByTimeOfDay(samples []Sample) []TimeOfDayMax {
	byTime := make(map[time.Duration]float64)
	for _, s := range samples {
		if s.Power == nil {
			continue
		}
		tod := timeOfDay(s.Time)
		if max, ok := byTime[tod]; !ok || *s.Power > max {
			byTime[tod] = *s.Power
		}
	}

	out := make([]TimeOfDayMax, 0, len(byTime))
	for tod, max := range byTime {
		out = append(out, TimeOfDayMax{TimeOfDay: tod, MaxPower: max})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].TimeOfDay < out[j].TimeOfDay
	})
	return out
}

// timeOfDay extracts the wall-clock offset from midnight.
func timeOfDay(t time.Time) time.Duration {
	h, m, s := t.Clock()
	return time.Duration(h)*time.Hour +
		time.Duration(m)*time.Minute +
		time.Duration(s)*time.Second +
		time.Duration(t.Nanosecond())
}

// FormatTimeOfDay renders an offset from midnight as HH:MM:SS.
func FormatTimeOfDay(d time.Duration) string {
	h := int(d / time.Hour)
	m := int(d/time.Minute) % 60
	s := int(d/time.Second) % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
