package garmin

import (
	"time"

	"github.com/tidwall/gjson"
)

// garminTimeLayout is the zone-less format Garmin uses for activity
// start times, e.g. "2024-05-10 13:00:00".
const garminTimeLayout = "2006-01-02 15:04:05"

// ActivitySummary is the flat view of one Garmin activity. Garmin's
// activity JSON is large and inconsistently populated, so optional
// measurements stay nil when the payload omits them.
type ActivitySummary struct {
	ActivityID     int64
	Name           string
	Type           string
	StartTimeGMT   time.Time
	StartTimeLocal time.Time
	Distance       float64 // meters
	Duration       float64 // seconds
	Calories       *int
	AvgHR          *float64
	MaxHR          *float64
	AvgPower       *float64
	MaxPower       *float64
}

// parseActivitySummary extracts the fields we keep from one activity
// object. Fields are probed at both the top level and under summaryDTO,
// where the single-activity endpoint nests them.
func parseActivitySummary(item gjson.Result) ActivitySummary {
	summary := ActivitySummary{
		ActivityID: item.Get("activityId").Int(),
		Name:       item.Get("activityName").String(),
		Type:       item.Get("activityType.typeKey").String(),
	}

	summary.StartTimeGMT = parseGarminTime(pick(item, "startTimeGMT", "summaryDTO.startTimeGMT"))
	summary.StartTimeLocal = parseGarminTime(pick(item, "startTimeLocal", "summaryDTO.startTimeLocal"))
	summary.Distance = pick(item, "distance", "summaryDTO.distance").Float()
	summary.Duration = pick(item, "duration", "summaryDTO.duration").Float()

	if v := pick(item, "calories", "summaryDTO.calories"); v.Exists() {
		calories := int(v.Float())
		summary.Calories = &calories
	}
	summary.AvgHR = optFloat(pick(item, "averageHR", "summaryDTO.averageHR"))
	summary.MaxHR = optFloat(pick(item, "maxHR", "summaryDTO.maxHR"))
	summary.AvgPower = optFloat(pick(item, "avgPower", "summaryDTO.averagePower"))
	summary.MaxPower = optFloat(pick(item, "maxPower", "summaryDTO.maxPower"))

	return summary
}

// pick returns the first existing path
func pick(item gjson.Result, paths ...string) gjson.Result {
	for _, p := range paths {
		if v := item.Get(p); v.Exists() {
			return v
		}
	}
	return gjson.Result{}
}

func optFloat(v gjson.Result) *float64 {
	if !v.Exists() || v.Type == gjson.Null {
		return nil
	}
	f := v.Float()
	return &f
}

// parseGarminTime parses Garmin's zone-less timestamps. GMT fields are
// UTC instants; local fields keep their wall-clock reading.
func parseGarminTime(v gjson.Result) time.Time {
	if !v.Exists() {
		return time.Time{}
	}
	// Some endpoints return RFC3339 with milliseconds.
	if t, err := time.Parse(time.RFC3339, v.String()); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02T15:04:05.0", v.String()); err == nil {
		return t.UTC()
	}
	t, err := time.Parse(garminTimeLayout, v.String())
	if err != nil {
		return time.Time{}
	}
	return t
}
