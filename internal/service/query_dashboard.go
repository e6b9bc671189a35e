package service

import (
	"time"

	"garmin-fitness/internal/analysis"
	"garmin-fitness/internal/store"
)

// DashboardData contains all data needed for the dashboard
type DashboardData struct {
	// Current fitness
	CurrentFitness  float64 // CTL
	CurrentFatigue  float64 // ATL
	CurrentForm     float64 // TSB
	FormDescription string

	// This week
	WeekRideCount int
	WeekDistance  float64 // km
	WeekTime      int     // seconds
	WeekTSS       float64
	WeekTSSDelta  float64 // vs last week

	// Recent activities
	RecentActivities []ActivityWithMetrics

	// For charts
	FitnessHistory []analysis.FitnessMetrics // CTL/ATL/TSB per day
	WeeklyTSS      []float64                 // last 12 weeks
	WeeklyLabels   []string                  // week labels (e.g. "Jan 06")
}

// GetDashboardData fetches all data needed for the dashboard
func (q *QueryService) GetDashboardData() (*DashboardData, error) {
	data := &DashboardData{}

	recent, err := q.GetActivitiesList(RecentActivitiesLimit, 0)
	if err != nil {
		return nil, err
	}
	data.RecentActivities = recent

	// Fitness metrics need more history than the recent list carries.
	activities, metrics, err := q.store.GetActivitiesWithMetrics(HistoricalActivitiesLimit, 0)
	if err != nil {
		return nil, err
	}

	dailyLoads := toDailyLoads(activities, metrics)
	if len(dailyLoads) > 0 {
		fitness := analysis.GetCurrentFitness(dailyLoads)
		data.CurrentFitness = fitness.CTL
		data.CurrentFatigue = fitness.ATL
		data.CurrentForm = fitness.TSB
		data.FormDescription = analysis.FormDescription(fitness.TSB)
		data.FitnessHistory = trimFitnessHistory(analysis.CalculateFitnessTrend(dailyLoads), FitnessTrendDays)
	}

	q.fillWeekStats(data, activities, metrics)
	data.WeeklyTSS, data.WeeklyLabels = buildWeeklyTSS(dailyLoads)

	return data, nil
}

// fillWeekStats computes this week's totals (Monday start) and the TSS
// delta against last week.
func (q *QueryService) fillWeekStats(data *DashboardData, activities []store.Activity, metrics []store.ActivityMetrics) {
	weekStart := getMonday(time.Now())
	lastWeekStart := weekStart.AddDate(0, 0, -7)

	var lastWeekTSS float64
	for i, a := range activities {
		tss := 0.0
		if metrics[i].TrainingStressScore != nil {
			tss = *metrics[i].TrainingStressScore
		}

		if !a.StartTimeGMT.Before(weekStart) {
			data.WeekRideCount++
			data.WeekDistance += a.Distance / MetersPerKilometer
			data.WeekTime += int(a.Duration)
			data.WeekTSS += tss
			continue
		}
		if !a.StartTimeGMT.Before(lastWeekStart) {
			lastWeekTSS += tss
		}
	}
	data.WeekTSSDelta = data.WeekTSS - lastWeekTSS
}

// buildWeeklyTSS buckets the load history into the last 12 calendar
// weeks for the dashboard chart. Weeks without rides chart as zero.
func buildWeeklyTSS(dailyLoads []analysis.DailyLoad) ([]float64, []string) {
	numWeeks := ChartWeeks
	currentWeekStart := getMonday(time.Now())

	tss := make([]float64, numWeeks)
	labels := make([]string, numWeeks)
	for i := 0; i < numWeeks; i++ {
		weekStart := currentWeekStart.AddDate(0, 0, -7*(numWeeks-1-i))
		labels[i] = weekStart.Format("Jan 02")
	}

	weekly := analysis.AggregateWeeklyLoad(dailyLoads)
	for _, wl := range weekly {
		idx := numWeeks - 1 - int(currentWeekStart.Sub(wl.WeekStart).Hours()/(24*7))
		if idx >= 0 && idx < numWeeks {
			tss[idx] += wl.TSS
		}
	}
	return tss, labels
}

// toDailyLoads converts stored activities with metrics into the daily
// TSS loads the fitness model consumes. Activities without a TSS (no
// power data) contribute nothing.
func toDailyLoads(activities []store.Activity, metrics []store.ActivityMetrics) []analysis.DailyLoad {
	var loads []analysis.DailyLoad
	for i, a := range activities {
		if metrics[i].TrainingStressScore == nil {
			continue
		}
		loads = append(loads, analysis.DailyLoad{
			Date: a.StartTimeGMT,
			TSS:  *metrics[i].TrainingStressScore,
		})
	}
	return loads
}

// trimFitnessHistory keeps the trailing days of a fitness trend so the
// chart stays readable.
func trimFitnessHistory(history []analysis.FitnessMetrics, days int) []analysis.FitnessMetrics {
	if len(history) <= days {
		return history
	}
	return history[len(history)-days:]
}
