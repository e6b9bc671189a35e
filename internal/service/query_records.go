package service

import (
	"fmt"
	"sort"

	"garmin-fitness/internal/analysis"
	"garmin-fitness/internal/store"
)

// PowerRecordDisplay represents a formatted power record for display
type PowerRecordDisplay struct {
	Category      string
	CategoryLabel string // e.g., "5 sec", "20 min"
	Watts         string // formatted watts
	WKg           string // watts per kilogram, "-" when weight unknown
	AvgHR         string // formatted HR or "-"
	Date          string // formatted date
	ActivityID    int64
	ActivityName  string
}

// RecordsData contains all data needed for the records screen
type RecordsData struct {
	AllTime []PowerRecordDisplay
}

// GetBestPowerRecords retrieves the all-time best power for each
// standard duration, formatted for display and ordered shortest
// window first.
func (q *QueryService) GetBestPowerRecords() (*RecordsData, error) {
	records, err := q.store.GetBestPowerRecords()
	if err != nil {
		return nil, err
	}

	data := &RecordsData{}
	for _, r := range records {
		data.AllTime = append(data.AllTime, q.formatRecord(r.Record, r.ActivityName))
	}
	sortRecordsByWindow(data.AllTime)
	return data, nil
}

// GetActivityPowerRecords retrieves the peak power records set within a
// single activity.
func (q *QueryService) GetActivityPowerRecords(activityID int64) ([]PowerRecordDisplay, error) {
	activity, err := q.store.GetActivity(activityID)
	if err != nil {
		return nil, err
	}
	records, err := q.store.GetPowerRecords(activityID)
	if err != nil {
		return nil, err
	}

	var displays []PowerRecordDisplay
	for _, r := range records {
		displays = append(displays, q.formatRecord(r, activity.Name))
	}
	sortRecordsByWindow(displays)
	return displays, nil
}

func (q *QueryService) formatRecord(r store.PowerRecord, activityName string) PowerRecordDisplay {
	display := PowerRecordDisplay{
		Category:      r.Category,
		CategoryLabel: analysis.WindowLabel(r.DurationSeconds),
		Watts:         fmt.Sprintf("%.0fW", r.Watts),
		Date:          r.AchievedAt.Format("Jan 02, 2006"),
		ActivityID:    r.ActivityID,
		ActivityName:  activityName,
	}

	if wkg := analysis.WattsPerKg(r.Watts, q.weightKG); wkg > 0 {
		display.WKg = fmt.Sprintf("%.1f W/kg", wkg)
	} else {
		display.WKg = "-"
	}

	if r.AvgHeartRate != nil {
		display.AvgHR = fmt.Sprintf("%.0f", *r.AvgHeartRate)
	} else {
		display.AvgHR = "-"
	}

	return display
}

// sortRecordsByWindow orders records shortest duration first.
func sortRecordsByWindow(records []PowerRecordDisplay) {
	order := map[string]int{
		"peak_5s":  1,
		"peak_1m":  2,
		"peak_5m":  3,
		"peak_20m": 4,
	}
	sort.SliceStable(records, func(i, j int) bool {
		return order[records[i].Category] < order[records[j].Category]
	})
}
