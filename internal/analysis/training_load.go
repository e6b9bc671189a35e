package analysis

import (
	"sort"
	"time"
)

// DailyLoad represents training load for a single day
type DailyLoad struct {
	Date time.Time
	TSS  float64
}

// FitnessMetrics represents CTL/ATL/TSB for a day
type FitnessMetrics struct {
	Date time.Time
	CTL  float64 // Chronic Training Load (42-day EMA) - "Fitness"
	ATL  float64 // Acute Training Load (7-day EMA) - "Fatigue"
	TSB  float64 // Training Stress Balance (CTL - ATL) - "Form"
}

// CalculateFitnessTrend computes CTL/ATL/TSB from daily TSS loads
func CalculateFitnessTrend(dailyLoads []DailyLoad) []FitnessMetrics {
	if len(dailyLoads) == 0 {
		return nil
	}

	// Sort by date
	sort.Slice(dailyLoads, func(i, j int) bool {
		return dailyLoads[i].Date.Before(dailyLoads[j].Date)
	})

	// EMA decay constants
	ctlDecay := 2.0 / (42.0 + 1.0) // 42-day time constant
	atlDecay := 2.0 / (7.0 + 1.0)  // 7-day time constant

	var metrics []FitnessMetrics
	var ctl, atl float64

	// Fill in missing days with zero load
	startDate := dailyLoads[0].Date.Truncate(24 * time.Hour)
	endDate := dailyLoads[len(dailyLoads)-1].Date.Truncate(24 * time.Hour)

	// Sum multiple activities on the same day
	loadMap := make(map[string]float64)
	for _, dl := range dailyLoads {
		key := dl.Date.Format("2006-01-02")
		loadMap[key] += dl.TSS
	}

	for d := startDate; !d.After(endDate); d = d.AddDate(0, 0, 1) {
		key := d.Format("2006-01-02")
		tss := loadMap[key] // 0 on rest days

		// Exponential moving average
		ctl = ctl + ctlDecay*(tss-ctl)
		atl = atl + atlDecay*(tss-atl)
		tsb := ctl - atl

		metrics = append(metrics, FitnessMetrics{
			Date: d,
			CTL:  ctl,
			ATL:  atl,
			TSB:  tsb,
		})
	}

	return metrics
}

// GetCurrentFitness returns the most recent CTL/ATL/TSB values
func GetCurrentFitness(dailyLoads []DailyLoad) FitnessMetrics {
	metrics := CalculateFitnessTrend(dailyLoads)
	if len(metrics) == 0 {
		return FitnessMetrics{}
	}
	return metrics[len(metrics)-1]
}

// FormDescription returns a human-readable description of TSB
func FormDescription(tsb float64) string {
	switch {
	case tsb > 25:
		return "Very fresh (possibly detrained)"
	case tsb > 10:
		return "Fresh and ready to race"
	case tsb > 0:
		return "Neutral - good for training"
	case tsb > -10:
		return "Slightly fatigued"
	case tsb > -25:
		return "Tired but building fitness"
	default:
		return "Very fatigued - rest needed"
	}
}

// WeeklyLoad aggregates TSS by ISO week
type WeeklyLoad struct {
	WeekStart time.Time
	TSS       float64
	Rides     int
}

// AggregateWeeklyLoad buckets daily loads into calendar weeks starting
// Monday
func AggregateWeeklyLoad(dailyLoads []DailyLoad) []WeeklyLoad {
	if len(dailyLoads) == 0 {
		return nil
	}

	byWeek := make(map[time.Time]*WeeklyLoad)
	for _, dl := range dailyLoads {
		ws := weekStart(dl.Date)
		wl, ok := byWeek[ws]
		if !ok {
			wl = &WeeklyLoad{WeekStart: ws}
			byWeek[ws] = wl
		}
		wl.TSS += dl.TSS
		wl.Rides++
	}

	out := make([]WeeklyLoad, 0, len(byWeek))
	for _, wl := range byWeek {
		out = append(out, *wl)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].WeekStart.Before(out[j].WeekStart)
	})
	return out
}

// weekStart truncates a date to the Monday that begins its week
func weekStart(t time.Time) time.Time {
	t = t.Truncate(24 * time.Hour)
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday closes the week
	}
	return t.AddDate(0, 0, 1-weekday)
}
