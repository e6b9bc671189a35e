package analysis

import (
	"math"
	"testing"
	"time"
)

func TestEstimateFTP(t *testing.T) {
	tests := []struct {
		name    string
		samples []Sample
		checkFn func(t *testing.T, est *FTPEstimate)
	}{
		{
			name:    "no data",
			samples: nil,
			checkFn: func(t *testing.T, est *FTPEstimate) {
				if est != nil {
					t.Errorf("expected nil, got %+v", est)
				}
			},
		},
		{
			name:    "ride too short for any protocol",
			samples: steadySamples(testBase, 120, 300),
			checkFn: func(t *testing.T, est *FTPEstimate) {
				if est != nil {
					t.Errorf("expected nil for 2 minutes of data, got %+v", est)
				}
			},
		},
		{
			name:    "twenty minute effort uses the standard protocol",
			samples: steadySamples(testBase, 1500, 250),
			checkFn: func(t *testing.T, est *FTPEstimate) {
				if est == nil {
					t.Fatal("expected an estimate, got nil")
				}
				if est.SourceWindow != Window20m {
					t.Errorf("SourceWindow = %d, want %d", est.SourceWindow, Window20m)
				}
				// 95% of 250W
				if math.Abs(est.Watts-238) > 1 {
					t.Errorf("Watts = %v, want ~238", est.Watts)
				}
				if est.Confidence != "high" {
					t.Errorf("Confidence = %q, want high", est.Confidence)
				}
			},
		},
		{
			name:    "six minute effort falls back to the five minute window",
			samples: steadySamples(testBase, 360, 300),
			checkFn: func(t *testing.T, est *FTPEstimate) {
				if est == nil {
					t.Fatal("expected an estimate, got nil")
				}
				if est.SourceWindow != Window5m {
					t.Errorf("SourceWindow = %d, want %d", est.SourceWindow, Window5m)
				}
				// 79% of 300W
				if math.Abs(est.Watts-237) > 1 {
					t.Errorf("Watts = %v, want ~237", est.Watts)
				}
				if est.Confidence != "medium" {
					t.Errorf("Confidence = %q, want medium", est.Confidence)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.checkFn(t, EstimateFTP(tt.samples))
		})
	}
}

func TestBestFTPEstimate(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		estimates []DatedFTPEstimate
		checkFn   func(t *testing.T, best *DatedFTPEstimate)
	}{
		{
			name:      "no estimates",
			estimates: nil,
			checkFn: func(t *testing.T, best *DatedFTPEstimate) {
				if best != nil {
					t.Errorf("expected nil, got %+v", best)
				}
			},
		},
		{
			name: "picks the highest recent estimate",
			estimates: []DatedFTPEstimate{
				{FTPEstimate: FTPEstimate{Watts: 230}, Date: now.AddDate(0, -2, 0), ActivityID: 1},
				{FTPEstimate: FTPEstimate{Watts: 245}, Date: now.AddDate(0, -1, 0), ActivityID: 2},
				{FTPEstimate: FTPEstimate{Watts: 240}, Date: now.AddDate(0, 0, -7), ActivityID: 3},
			},
			checkFn: func(t *testing.T, best *DatedFTPEstimate) {
				if best == nil {
					t.Fatal("expected an estimate, got nil")
				}
				if best.Watts != 245 || best.ActivityID != 2 {
					t.Errorf("best = %v (activity %d), want 245 (activity 2)", best.Watts, best.ActivityID)
				}
			},
		},
		{
			name: "estimates older than a year are ignored",
			estimates: []DatedFTPEstimate{
				{FTPEstimate: FTPEstimate{Watts: 300}, Date: now.AddDate(-2, 0, 0), ActivityID: 1},
				{FTPEstimate: FTPEstimate{Watts: 220}, Date: now.AddDate(0, -3, 0), ActivityID: 2},
			},
			checkFn: func(t *testing.T, best *DatedFTPEstimate) {
				if best == nil {
					t.Fatal("expected an estimate, got nil")
				}
				if best.Watts != 220 {
					t.Errorf("best = %v, want 220 (the 300W effort is stale)", best.Watts)
				}
			},
		},
		{
			name: "all estimates stale",
			estimates: []DatedFTPEstimate{
				{FTPEstimate: FTPEstimate{Watts: 300}, Date: now.AddDate(-2, 0, 0)},
			},
			checkFn: func(t *testing.T, best *DatedFTPEstimate) {
				if best != nil {
					t.Errorf("expected nil, got %+v", best)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.checkFn(t, BestFTPEstimate(tt.estimates, now))
		})
	}
}
