package analysis

import (
	"math"
	"time"
)

// FTPEstimate represents an FTP value derived from an observed peak effort
type FTPEstimate struct {
	Watts           float64
	SourceWindow    int     // window seconds the estimate came from
	SourceWatts     float64 // the peak average power over that window
	Confidence      string  // "high", "medium", "low"
	ConfidenceScore float64 // 0.0 to 1.0
}

// Estimation coefficients per source window. The 20-minute test is the
// standard field protocol; shorter windows extrapolate more aggressively.
var ftpCoefficients = map[int]float64{
	Window20m: 0.95,
	Window5m:  0.79,
}

// ftpWindowPriority defines which source windows to prefer, best first
var ftpWindowPriority = []int{Window20m, Window5m}

// EstimateFTP derives an FTP estimate from an activity's peak sustained
// powers. Prefers the 20-minute window and falls back to the 5-minute
// window with reduced confidence. Returns nil when the activity holds no
// usable sustained effort.
func EstimateFTP(samples []Sample) *FTPEstimate {
	for _, window := range ftpWindowPriority {
		peak := BestAveragePower(samples, window)
		if peak == nil || peak.Watts <= 0 {
			continue
		}

		watts := peak.Watts * ftpCoefficients[window]
		score, label := ftpConfidence(window)

		return &FTPEstimate{
			Watts:           math.Round(watts),
			SourceWindow:    window,
			SourceWatts:     math.Round(peak.Watts),
			Confidence:      label,
			ConfidenceScore: score,
		}
	}
	return nil
}

// BestFTPEstimate picks the highest estimate across many activities'
// estimates, preferring recent evidence. Estimates older than a year are
// ignored.
func BestFTPEstimate(estimates []DatedFTPEstimate, now time.Time) *DatedFTPEstimate {
	cutoff := now.AddDate(-1, 0, 0)
	var best *DatedFTPEstimate

	for i := range estimates {
		e := &estimates[i]
		if e.Date.Before(cutoff) {
			continue
		}
		if best == nil || e.Watts > best.Watts {
			best = e
		}
	}
	return best
}

// DatedFTPEstimate is an FTPEstimate anchored to the activity date it came
// from
type DatedFTPEstimate struct {
	FTPEstimate
	Date       time.Time
	ActivityID int64
}

// ftpConfidence scores an estimate by how far its source window sits from
// the hour-long effort FTP describes
func ftpConfidence(window int) (float64, string) {
	switch window {
	case Window20m:
		return 0.9, "high"
	case Window5m:
		return 0.65, "medium"
	default:
		return 0.4, "low"
	}
}
