package analysis

import (
	"errors"
	"time"
)

// ErrInvalidParameter indicates a caller-supplied parameter violated a
// precondition (an FTP that is zero or negative).
var ErrInvalidParameter = errors.New("invalid parameter")

// Sample is a single decoded activity record. HeartRate and Power are
// independently optional; a nil pointer means the device did not report
// the field, which is distinct from a recorded zero.
type Sample struct {
	Time      time.Time
	HeartRate *float64
	Power     *float64
}

// Point is one value of a per-field series.
type Point struct {
	Time  time.Time
	Value float64
}

// Series is a timestamp-ordered projection of one Sample field.
type Series []Point

// Values returns just the numeric values, in series order.
func (s Series) Values() []float64 {
	if len(s) == 0 {
		return nil
	}
	out := make([]float64, len(s))
	for i, p := range s {
		out[i] = p.Value
	}
	return out
}

// Duration is the time between the first and last point of the series.
func (s Series) Duration() time.Duration {
	if len(s) < 2 {
		return 0
	}
	return s[len(s)-1].Time.Sub(s[0].Time)
}

// SeriesTable holds one activity's samples in source order and the per-field
// projections derived from them. Build it once per activity; it is never
// mutated afterwards, so reads are idempotent and safe to repeat.
type SeriesTable struct {
	samples   []Sample
	heartRate Series
	power     Series
}

// NewSeriesTable builds a table from a decoded record sequence. Samples are
// kept in the order supplied (duplicate timestamps included); computations
// assume the source delivered them chronologically. An empty or nil input
// yields a valid table whose queries all return empty series and zero
// metrics.
func NewSeriesTable(samples []Sample) *SeriesTable {
	t := &SeriesTable{
		samples: make([]Sample, len(samples)),
	}
	copy(t.samples, samples)

	for _, s := range t.samples {
		if s.HeartRate != nil {
			t.heartRate = append(t.heartRate, Point{Time: s.Time, Value: *s.HeartRate})
		}
		if s.Power != nil {
			t.power = append(t.power, Point{Time: s.Time, Value: *s.Power})
		}
	}
	return t
}

// Len returns the number of samples in the table.
func (t *SeriesTable) Len() int {
	return len(t.samples)
}

// Samples returns a copy of the underlying samples.
func (t *SeriesTable) Samples() []Sample {
	out := make([]Sample, len(t.samples))
	copy(out, t.samples)
	return out
}

// HeartRate returns the heart rate series in beats per minute. Samples
// without a heart rate value are skipped, so the series may be shorter than
// the table, or empty if no sample carried the field.
func (t *SeriesTable) HeartRate() Series {
	return t.heartRate
}

// Power returns the power series in watts. Samples without a power value
// are skipped, so the series may be shorter than the table, or empty if no
// sample carried the field.
func (t *SeriesTable) Power() Series {
	return t.power
}
