package analysis

import (
	"math"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// Histogram bounds in watts. Track sprints up to 3000W at 3 significant
// figures.
const (
	histogramMin     = 1
	histogramMax     = 3000
	histogramSigFigs = 3
)

// PowerDistribution summarizes how an activity's power was spread
type PowerDistribution struct {
	Mean float64
	P25  float64
	P50  float64
	P75  float64
	P95  float64
	Max  float64
}

// DistributePower builds wattage percentiles for a power series.
// Returns nil when the series is empty.
func DistributePower(power Series) *PowerDistribution {
	if len(power) == 0 {
		return nil
	}

	// Values are recorded shifted by one so zero-watt coasting still lands
	// inside the histogram's [1, max] domain; reads shift back.
	hist := hdrhistogram.New(histogramMin, histogramMax+1, histogramSigFigs)

	var sum float64
	var count int
	for _, p := range power {
		if math.IsNaN(p.Value) || math.IsInf(p.Value, 0) {
			continue
		}
		w := int64(math.Round(p.Value)) + 1
		if w < histogramMin {
			w = histogramMin
		}
		if w > histogramMax+1 {
			w = histogramMax + 1
		}
		if err := hist.RecordValue(w); err != nil {
			continue
		}
		sum += p.Value
		count++
	}

	if count == 0 {
		return nil
	}

	return &PowerDistribution{
		Mean: sum / float64(count),
		P25:  float64(hist.ValueAtQuantile(25) - 1),
		P50:  float64(hist.ValueAtQuantile(50) - 1),
		P75:  float64(hist.ValueAtQuantile(75) - 1),
		P95:  float64(hist.ValueAtQuantile(95) - 1),
		Max:  float64(hist.Max() - 1),
	}
}
