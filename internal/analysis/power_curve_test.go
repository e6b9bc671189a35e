package analysis

import (
	"math"
	"testing"
	"time"
)

// steadySamples builds n power samples at 1Hz
func steadySamples(base time.Time, n int, watts float64) []Sample {
	samples := make([]Sample, n)
	for i := range samples {
		samples[i] = sampleAt(base, time.Duration(i)*time.Second, nil, floatPtr(watts))
	}
	return samples
}

func TestBestAveragePower(t *testing.T) {
	tests := []struct {
		name          string
		samples       []Sample
		windowSeconds int
		checkFn       func(t *testing.T, peak *PeakPower)
	}{
		{
			name:          "empty input",
			samples:       nil,
			windowSeconds: Window5s,
			checkFn: func(t *testing.T, peak *PeakPower) {
				if peak != nil {
					t.Errorf("expected nil, got %+v", peak)
				}
			},
		},
		{
			name:          "too few power samples",
			samples:       steadySamples(testBase, 2, 200),
			windowSeconds: Window5s,
			checkFn: func(t *testing.T, peak *PeakPower) {
				if peak != nil {
					t.Errorf("expected nil, got %+v", peak)
				}
			},
		},
		{
			name:          "activity shorter than window",
			samples:       steadySamples(testBase, 30, 200),
			windowSeconds: Window1m,
			checkFn: func(t *testing.T, peak *PeakPower) {
				if peak != nil {
					t.Errorf("expected nil for 30s of data in a 60s window, got %+v", peak)
				}
			},
		},
		{
			name:          "steady power returns that power",
			samples:       steadySamples(testBase, 120, 210),
			windowSeconds: Window1m,
			checkFn: func(t *testing.T, peak *PeakPower) {
				if peak == nil {
					t.Fatal("expected a peak, got nil")
				}
				if math.Abs(peak.Watts-210) > 0.001 {
					t.Errorf("Watts = %v, want 210", peak.Watts)
				}
			},
		},
		{
			name: "finds the surge in the middle",
			samples: func() []Sample {
				samples := steadySamples(testBase, 120, 150)
				// 10 seconds at 400W starting at t=60
				for i := 60; i < 70; i++ {
					samples[i].Power = floatPtr(400)
				}
				return samples
			}(),
			windowSeconds: Window5s,
			checkFn: func(t *testing.T, peak *PeakPower) {
				if peak == nil {
					t.Fatal("expected a peak, got nil")
				}
				if math.Abs(peak.Watts-400) > 0.001 {
					t.Errorf("Watts = %v, want 400", peak.Watts)
				}
				if peak.StartOffset < 55*time.Second || peak.StartOffset > 70*time.Second {
					t.Errorf("StartOffset = %v, want inside the surge", peak.StartOffset)
				}
			},
		},
		{
			name: "samples without power are ignored",
			samples: func() []Sample {
				samples := steadySamples(testBase, 30, 200)
				// HR-only samples interleaved should not change the mean
				for i := 0; i < 5; i++ {
					samples = append(samples, sampleAt(testBase,
						time.Duration(30+i)*time.Second, floatPtr(150), nil))
				}
				return samples
			}(),
			windowSeconds: Window5s,
			checkFn: func(t *testing.T, peak *PeakPower) {
				if peak == nil {
					t.Fatal("expected a peak, got nil")
				}
				if math.Abs(peak.Watts-200) > 0.001 {
					t.Errorf("Watts = %v, want 200", peak.Watts)
				}
			},
		},
		{
			name: "recording gap does not bridge a window",
			samples: func() []Sample {
				// 10s of 300W, a 5 minute pause, then 60s of 100W
				var samples []Sample
				for i := 0; i < 10; i++ {
					samples = append(samples, sampleAt(testBase,
						time.Duration(i)*time.Second, nil, floatPtr(300)))
				}
				resume := 5 * time.Minute
				for i := 0; i < 60; i++ {
					samples = append(samples, sampleAt(testBase,
						resume+time.Duration(i)*time.Second, nil, floatPtr(100)))
				}
				return samples
			}(),
			windowSeconds: Window1m,
			checkFn: func(t *testing.T, peak *PeakPower) {
				if peak == nil {
					t.Fatal("expected a peak, got nil")
				}
				// The only fillable 60s window is the 100W stretch; a naive
				// count-based window would have blended in the 300W burst
				if math.Abs(peak.Watts-100) > 0.001 {
					t.Errorf("Watts = %v, want 100", peak.Watts)
				}
			},
		},
		{
			name: "window average heart rate",
			samples: func() []Sample {
				samples := make([]Sample, 20)
				for i := range samples {
					samples[i] = sampleAt(testBase, time.Duration(i)*time.Second,
						floatPtr(140), floatPtr(250))
				}
				return samples
			}(),
			windowSeconds: Window5s,
			checkFn: func(t *testing.T, peak *PeakPower) {
				if peak == nil {
					t.Fatal("expected a peak, got nil")
				}
				if math.Abs(peak.AvgHeartRate-140) > 0.001 {
					t.Errorf("AvgHeartRate = %v, want 140", peak.AvgHeartRate)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.checkFn(t, BestAveragePower(tt.samples, tt.windowSeconds))
		})
	}
}

func TestPowerCurve(t *testing.T) {
	tests := []struct {
		name    string
		samples []Sample
		checkFn func(t *testing.T, curve []PeakPower)
	}{
		{
			name:    "no data",
			samples: nil,
			checkFn: func(t *testing.T, curve []PeakPower) {
				if len(curve) != 0 {
					t.Errorf("got %d entries, want 0", len(curve))
				}
			},
		},
		{
			name:    "short ride fills only short windows",
			samples: steadySamples(testBase, 90, 220),
			checkFn: func(t *testing.T, curve []PeakPower) {
				// 90s covers 5s and 1m windows only
				if len(curve) != 2 {
					t.Fatalf("got %d entries, want 2", len(curve))
				}
				if curve[0].WindowSeconds != Window5s || curve[1].WindowSeconds != Window1m {
					t.Errorf("windows = [%d %d], want [%d %d]",
						curve[0].WindowSeconds, curve[1].WindowSeconds, Window5s, Window1m)
				}
			},
		},
		{
			name:    "long ride fills every window",
			samples: steadySamples(testBase, 1500, 180),
			checkFn: func(t *testing.T, curve []PeakPower) {
				if len(curve) != len(PowerCurveWindows) {
					t.Fatalf("got %d entries, want %d", len(curve), len(PowerCurveWindows))
				}
				for _, peak := range curve {
					if math.Abs(peak.Watts-180) > 0.001 {
						t.Errorf("window %ds Watts = %v, want 180", peak.WindowSeconds, peak.Watts)
					}
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.checkFn(t, PowerCurve(tt.samples))
		})
	}
}

func TestWindowLabel(t *testing.T) {
	tests := []struct {
		window   int
		expected string
	}{
		{Window5s, "5 sec"},
		{Window1m, "1 min"},
		{Window5m, "5 min"},
		{Window20m, "20 min"},
		{90, "1m30s"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := WindowLabel(tt.window); got != tt.expected {
				t.Errorf("WindowLabel(%d) = %q, want %q", tt.window, got, tt.expected)
			}
		})
	}
}
