// Package fitfile decodes Garmin FIT activity files into the sample
// series and summary metadata the rest of the app works with.
package fitfile

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/tormoder/fit"

	"garmin-fitness/internal/analysis"
)

// ErrCorrupted indicates the input is not a decodable FIT file.
var ErrCorrupted = errors.New("corrupted FIT file")

// Activity is a decoded FIT activity: session-level summary fields plus
// the per-second record series. Summary fields the device did not
// report are nil, not zero.
type Activity struct {
	Sport     string
	StartTime time.Time
	EndTime   time.Time
	Duration  float64 // timer seconds
	Distance  float64 // meters
	Calories  *int
	AvgHR     *float64
	MaxHR     *float64
	AvgPower  *float64
	MaxPower  *float64
	Samples   []analysis.Sample
}

// ParseFile opens and decodes a FIT file from disk.
func ParseFile(path string) (*Activity, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening FIT file: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse decodes a FIT activity from r. Records become Samples sorted by
// timestamp (normalized to UTC); FIT invalid sentinels (0xFF heart rate,
// 0xFFFF power, base timestamps) become nil fields or skipped records.
// Files without a session message are still accepted: summary fields
// fall back to what the records show.
func Parse(r io.Reader) (*Activity, error) {
	decoded, err := fit.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupted, err)
	}

	activityFile, err := decoded.Activity()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupted, err)
	}

	act := &Activity{
		Samples: extractSamples(activityFile.Records),
	}

	if len(activityFile.Sessions) > 0 {
		fillFromSession(act, activityFile.Sessions[0])
	}
	fillFromSamples(act)

	return act, nil
}

func fillFromSession(act *Activity, sess *fit.SessionMsg) {
	act.Sport = strings.ToLower(fmt.Sprint(sess.Sport))
	act.StartTime = validTime(sess.StartTime)
	act.EndTime = validTime(sess.Timestamp)
	act.Duration = positive(sess.GetTotalTimerTimeScaled())
	if act.Duration == 0 {
		act.Duration = positive(sess.GetTotalElapsedTimeScaled())
	}
	act.Distance = positive(sess.GetTotalDistanceScaled())
	if sess.TotalCalories != math.MaxUint16 {
		cal := int(sess.TotalCalories)
		act.Calories = &cal
	}
	act.AvgHR = optUint8(sess.AvgHeartRate)
	act.MaxHR = optUint8(sess.MaxHeartRate)
	act.AvgPower = optUint16(sess.AvgPower)
	act.MaxPower = optUint16(sess.MaxPower)
}

// fillFromSamples backfills whatever the session message left empty.
func fillFromSamples(act *Activity) {
	if len(act.Samples) == 0 {
		return
	}
	first := act.Samples[0].Time
	last := act.Samples[len(act.Samples)-1].Time
	if act.StartTime.IsZero() {
		act.StartTime = first
	}
	if act.EndTime.IsZero() {
		act.EndTime = last
	}
	if act.Duration == 0 && last.After(first) {
		act.Duration = last.Sub(first).Seconds()
	}
}

func extractSamples(records []*fit.RecordMsg) []analysis.Sample {
	samples := make([]analysis.Sample, 0, len(records))
	for _, rec := range records {
		if rec == nil {
			continue
		}
		ts := validTime(rec.Timestamp)
		if ts.IsZero() {
			continue
		}
		samples = append(samples, analysis.Sample{
			Time:      ts,
			HeartRate: optUint8(rec.HeartRate),
			Power:     optUint16(rec.Power),
		})
	}
	sort.Slice(samples, func(i, j int) bool {
		return samples[i].Time.Before(samples[j].Time)
	})
	return samples
}

// validTime maps zero and FIT base timestamps to the zero time and
// normalizes everything else to UTC.
func validTime(t time.Time) time.Time {
	if t.IsZero() || fit.IsBaseTime(t) {
		return time.Time{}
	}
	return t.UTC()
}

func optUint8(v uint8) *float64 {
	if v == math.MaxUint8 {
		return nil
	}
	f := float64(v)
	return &f
}

func optUint16(v uint16) *float64 {
	if v == math.MaxUint16 {
		return nil
	}
	f := float64(v)
	return &f
}

func positive(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0
	}
	return v
}
