package service

import (
	"testing"
	"time"

	"garmin-fitness/internal/analysis"
	"garmin-fitness/internal/store"
)

func TestFormatMinutes(t *testing.T) {
	tests := []struct {
		minutes  int
		expected string
	}{
		{0, "0:00"},
		{1, "1:00"},
		{30, "30:00"},
		{90, "90:00"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			result := formatMinutes(tt.minutes)
			if result != tt.expected {
				t.Errorf("formatMinutes(%d) = %q, want %q", tt.minutes, result, tt.expected)
			}
		})
	}
}

func TestGetMonday(t *testing.T) {
	tests := []struct {
		name     string
		input    time.Time
		expected time.Time
	}{
		{
			name:     "wednesday maps to its monday",
			input:    time.Date(2026, 3, 18, 15, 30, 0, 0, time.UTC),
			expected: time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "monday maps to itself at midnight",
			input:    time.Date(2026, 3, 16, 9, 0, 0, 0, time.UTC),
			expected: time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "sunday maps back six days",
			input:    time.Date(2026, 3, 22, 23, 59, 0, 0, time.UTC),
			expected: time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := getMonday(tt.input)
			if !result.Equal(tt.expected) {
				t.Errorf("getMonday(%v) = %v, want %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestDeltaMetric(t *testing.T) {
	a, b := 150.0, 180.0

	if d := deltaMetric(&a, &b); d != 30 {
		t.Errorf("deltaMetric = %v, want 30", d)
	}
	if d := deltaMetric(&b, &a); d != -30 {
		t.Errorf("deltaMetric = %v, want -30", d)
	}
	if d := deltaMetric(nil, &b); d != 0 {
		t.Errorf("deltaMetric with missing side = %v, want 0", d)
	}
	if d := deltaMetric(&a, nil); d != 0 {
		t.Errorf("deltaMetric with missing side = %v, want 0", d)
	}
	if d := deltaMetric(nil, nil); d != 0 {
		t.Errorf("deltaMetric with both missing = %v, want 0", d)
	}
}

func TestOptMetric(t *testing.T) {
	if p := optMetric(0); p != nil {
		t.Errorf("optMetric(0) = %v, want nil", *p)
	}
	if p := optMetric(42.5); p == nil || *p != 42.5 {
		t.Errorf("optMetric(42.5) = %v, want 42.5", p)
	}
}

func TestBuildChartData(t *testing.T) {
	start := time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC)
	p := func(v float64) *float64 { return &v }

	// Minute 0 has power and HR, minute 1 is a recording gap, minute 2
	// has power only.
	samples := []analysis.Sample{
		{Time: start, Power: p(200), HeartRate: p(140)},
		{Time: start.Add(30 * time.Second), Power: p(220), HeartRate: p(144)},
		{Time: start.Add(125 * time.Second), Power: p(180)},
	}

	powerData, hrData, labels := buildChartData(samples)

	if len(powerData) != 3 || len(hrData) != 3 || len(labels) != 3 {
		t.Fatalf("expected 3 minute buckets, got %d/%d/%d", len(powerData), len(hrData), len(labels))
	}

	if powerData[0] != 210 {
		t.Errorf("minute 0 power = %v, want 210", powerData[0])
	}
	// Gap minute carries the previous value forward.
	if powerData[1] != 210 {
		t.Errorf("gap minute power = %v, want carried 210", powerData[1])
	}
	if powerData[2] != 180 {
		t.Errorf("minute 2 power = %v, want 180", powerData[2])
	}

	if hrData[0] != 142 {
		t.Errorf("minute 0 HR = %v, want 142", hrData[0])
	}
	// HR missing in minute 2: carried forward, never invented as zero.
	if hrData[2] != 142 {
		t.Errorf("minute 2 HR = %v, want carried 142", hrData[2])
	}

	if labels[0] != "0:00" || labels[2] != "2:00" {
		t.Errorf("labels = %v, want 0:00 .. 2:00", labels)
	}
}

func TestBuildChartDataEmpty(t *testing.T) {
	powerData, hrData, labels := buildChartData(nil)
	if powerData != nil || hrData != nil || labels != nil {
		t.Error("expected nil chart data for no samples")
	}
}

func TestToDailyLoads(t *testing.T) {
	day := time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC)
	tss := 85.0

	activities := []store.Activity{
		{ActivityID: 1, StartTimeGMT: day},
		{ActivityID: 2, StartTimeGMT: day.AddDate(0, 0, 1)},
	}
	metrics := []store.ActivityMetrics{
		{ActivityID: 1, TrainingStressScore: &tss},
		{ActivityID: 2}, // no power data, no TSS
	}

	loads := toDailyLoads(activities, metrics)
	if len(loads) != 1 {
		t.Fatalf("expected 1 load, got %d", len(loads))
	}
	if loads[0].TSS != 85 {
		t.Errorf("TSS = %v, want 85", loads[0].TSS)
	}
}

func TestTrimFitnessHistory(t *testing.T) {
	history := make([]analysis.FitnessMetrics, 120)
	for i := range history {
		history[i].CTL = float64(i)
	}

	trimmed := trimFitnessHistory(history, 90)
	if len(trimmed) != 90 {
		t.Fatalf("expected 90 entries, got %d", len(trimmed))
	}
	if trimmed[0].CTL != 30 {
		t.Errorf("expected trailing window to start at 30, got %v", trimmed[0].CTL)
	}

	short := trimFitnessHistory(history[:10], 90)
	if len(short) != 10 {
		t.Errorf("expected short history untouched, got %d", len(short))
	}
}
