package garmin

import (
	"testing"
	"time"

	"github.com/tidwall/gjson"
)

const listItemJSON = `{
	"activityId": 123456789,
	"activityName": "Morning Ride",
	"startTimeLocal": "2024-05-10 08:00:00",
	"startTimeGMT": "2024-05-10 13:00:00",
	"activityType": {"typeId": 2, "typeKey": "cycling", "parentTypeId": 17},
	"distance": 40233.5,
	"duration": 5421.0,
	"calories": 950.0,
	"averageHR": 142.0,
	"maxHR": 171.0,
	"avgPower": 185.0,
	"maxPower": 640.0,
	"elevationGain": 420.0,
	"ownerId": 99
}`

func TestParseActivitySummary(t *testing.T) {
	summary := parseActivitySummary(gjson.Parse(listItemJSON))

	if summary.ActivityID != 123456789 {
		t.Errorf("ActivityID = %d, want 123456789", summary.ActivityID)
	}
	if summary.Name != "Morning Ride" {
		t.Errorf("Name = %q, want %q", summary.Name, "Morning Ride")
	}
	if summary.Type != "cycling" {
		t.Errorf("Type = %q, want %q", summary.Type, "cycling")
	}

	wantGMT := time.Date(2024, 5, 10, 13, 0, 0, 0, time.UTC)
	if !summary.StartTimeGMT.Equal(wantGMT) {
		t.Errorf("StartTimeGMT = %v, want %v", summary.StartTimeGMT, wantGMT)
	}
	if summary.Distance != 40233.5 {
		t.Errorf("Distance = %v, want 40233.5", summary.Distance)
	}
	if summary.Duration != 5421.0 {
		t.Errorf("Duration = %v, want 5421.0", summary.Duration)
	}
	if summary.Calories == nil || *summary.Calories != 950 {
		t.Errorf("Calories = %v, want 950", summary.Calories)
	}
	if summary.AvgHR == nil || *summary.AvgHR != 142 {
		t.Errorf("AvgHR = %v, want 142", summary.AvgHR)
	}
	if summary.MaxPower == nil || *summary.MaxPower != 640 {
		t.Errorf("MaxPower = %v, want 640", summary.MaxPower)
	}
}

func TestParseActivitySummaryMissingFields(t *testing.T) {
	// A trainer ride without a HR strap or power meter: the optional
	// measurements must come back nil, not zero.
	summary := parseActivitySummary(gjson.Parse(`{
		"activityId": 42,
		"activityName": "Recovery Spin",
		"activityType": {"typeKey": "indoor_cycling"},
		"startTimeGMT": "2024-05-11 09:30:00",
		"distance": 15000.0,
		"duration": 1800.0
	}`))

	if summary.ActivityID != 42 {
		t.Errorf("ActivityID = %d, want 42", summary.ActivityID)
	}
	if summary.AvgHR != nil {
		t.Errorf("AvgHR = %v, want nil", *summary.AvgHR)
	}
	if summary.MaxHR != nil {
		t.Errorf("MaxHR = %v, want nil", *summary.MaxHR)
	}
	if summary.AvgPower != nil {
		t.Errorf("AvgPower = %v, want nil", *summary.AvgPower)
	}
	if summary.Calories != nil {
		t.Errorf("Calories = %v, want nil", *summary.Calories)
	}
}

func TestParseActivitySummaryNestedSummaryDTO(t *testing.T) {
	// The single-activity endpoint nests measurements under summaryDTO.
	summary := parseActivitySummary(gjson.Parse(`{
		"activityId": 7,
		"activityName": "Threshold Intervals",
		"activityType": {"typeKey": "cycling"},
		"summaryDTO": {
			"startTimeGMT": "2024-05-12T13:00:00.0",
			"startTimeLocal": "2024-05-12T08:00:00.0",
			"distance": 30000.0,
			"duration": 3600.0,
			"averagePower": 240.0,
			"maxPower": 710.0,
			"averageHR": 155.0,
			"calories": 800.0
		}
	}`))

	wantGMT := time.Date(2024, 5, 12, 13, 0, 0, 0, time.UTC)
	if !summary.StartTimeGMT.Equal(wantGMT) {
		t.Errorf("StartTimeGMT = %v, want %v", summary.StartTimeGMT, wantGMT)
	}
	if summary.Duration != 3600 {
		t.Errorf("Duration = %v, want 3600", summary.Duration)
	}
	if summary.AvgPower == nil || *summary.AvgPower != 240 {
		t.Errorf("AvgPower = %v, want 240", summary.AvgPower)
	}
	if summary.AvgHR == nil || *summary.AvgHR != 155 {
		t.Errorf("AvgHR = %v, want 155", summary.AvgHR)
	}
}

func TestParseGarminTime(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{
			name:  "zone-less listing format",
			input: `{"ts": "2024-05-10 13:00:00"}`,
			want:  time.Date(2024, 5, 10, 13, 0, 0, 0, time.UTC),
		},
		{
			name:  "summaryDTO format with fraction",
			input: `{"ts": "2024-05-10T13:00:00.0"}`,
			want:  time.Date(2024, 5, 10, 13, 0, 0, 0, time.UTC),
		},
		{
			name:  "RFC3339",
			input: `{"ts": "2024-05-10T13:00:00Z"}`,
			want:  time.Date(2024, 5, 10, 13, 0, 0, 0, time.UTC),
		},
		{
			name:  "garbage yields zero time",
			input: `{"ts": "not-a-time"}`,
			want:  time.Time{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseGarminTime(gjson.Parse(tt.input).Get("ts"))
			if !got.Equal(tt.want) {
				t.Errorf("parseGarminTime() = %v, want %v", got, tt.want)
			}
		})
	}
}
