package analysis

import "time"

// PeakPower represents the best average power held for a given window within
// an activity
type PeakPower struct {
	WindowSeconds int
	Watts         float64
	StartOffset   time.Duration // offset from the first sample where the effort starts
	AvgHeartRate  float64
}

// Standard power curve windows in seconds
const (
	Window5s  = 5
	Window1m  = 60
	Window5m  = 300
	Window20m = 1200

	// MinPointsForPeak is the minimum number of power samples needed before
	// a window is considered meaningful
	MinPointsForPeak = 3
)

// PowerCurveWindows defines the standard windows to track, shortest first
var PowerCurveWindows = []int{Window5s, Window1m, Window5m, Window20m}

// PowerCurveCategories maps windows to their storage category names
var PowerCurveCategories = map[int]string{
	Window5s:  "peak_5s",
	Window1m:  "peak_1m",
	Window5m:  "peak_5m",
	Window20m: "peak_20m",
}

// WindowLabel returns a human-readable label for a power curve window
func WindowLabel(windowSeconds int) string {
	switch windowSeconds {
	case Window5s:
		return "5 sec"
	case Window1m:
		return "1 min"
	case Window5m:
		return "5 min"
	case Window20m:
		return "20 min"
	default:
		return time.Duration(windowSeconds * int(time.Second)).String()
	}
}

// BestAveragePower finds the window of windowSeconds with the highest mean
// power. The window is time-based, so it holds up under irregular sampling.
// Returns nil when the activity's power data does not span the window.
func BestAveragePower(samples []Sample, windowSeconds int) *PeakPower {
	window := time.Duration(windowSeconds) * time.Second

	// Filter to samples carrying power, pairing HR where present
	var points []powerPoint
	for _, s := range samples {
		if s.Power != nil {
			points = append(points, powerPoint{
				time:      s.Time,
				watts:     *s.Power,
				heartRate: s.HeartRate,
			})
		}
	}

	if len(points) < MinPointsForPeak {
		return nil
	}
	if points[len(points)-1].time.Sub(points[0].time) < window-time.Second {
		return nil
	}

	// Inclusive endpoints at 1Hz span window-1s, hence the one second grace
	// on the coverage checks below.
	var best *PeakPower
	start := points[0].time
	lastTime := points[len(points)-1].time

	for left := 0; left < len(points); left++ {
		if lastTime.Sub(points[left].time) < window-time.Second {
			// No later start can fill the window either
			break
		}

		// Grow the window until it spans windowSeconds from the left edge
		right := left
		for right < len(points)-1 && points[right+1].time.Sub(points[left].time) < window {
			right++
		}
		if points[right].time.Sub(points[left].time) < window-time.Second {
			// A recording gap left this window underfilled
			continue
		}

		var sum float64
		for i := left; i <= right; i++ {
			sum += points[i].watts
		}
		mean := sum / float64(right-left+1)

		if best == nil || mean > best.Watts {
			best = &PeakPower{
				WindowSeconds: windowSeconds,
				Watts:         mean,
				StartOffset:   points[left].time.Sub(start),
				AvgHeartRate:  segmentAvgHR(points, left, right),
			}
		}
	}

	return best
}

// PowerCurve computes the best average power for every standard window.
// Windows the activity cannot fill are omitted.
func PowerCurve(samples []Sample) []PeakPower {
	var curve []PeakPower
	for _, w := range PowerCurveWindows {
		if peak := BestAveragePower(samples, w); peak != nil {
			curve = append(curve, *peak)
		}
	}
	return curve
}

// powerPoint is a helper struct for the sliding window
type powerPoint struct {
	time      time.Time
	watts     float64
	heartRate *float64
}

// segmentAvgHR calculates average HR across a window of points
func segmentAvgHR(points []powerPoint, left, right int) float64 {
	var hrSum float64
	var hrCount int

	for i := left; i <= right; i++ {
		if points[i].heartRate != nil && *points[i].heartRate > 0 {
			hrSum += *points[i].heartRate
			hrCount++
		}
	}

	if hrCount > 0 {
		return hrSum / float64(hrCount)
	}
	return 0
}
