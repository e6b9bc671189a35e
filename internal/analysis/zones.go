package analysis

import (
	"fmt"
	"math"
	"time"
)

// PowerZone represents one band of the seven zone training model
type PowerZone struct {
	Zone     int
	Name     string
	MinWatts float64
	MaxWatts float64 // 0 means unbounded
	Time     time.Duration
	Pct      float64 // share of zoned time, 0-100
}

// zoneBand holds the FTP fractions bounding each zone
type zoneBand struct {
	name string
	low  float64
	high float64 // 0 means unbounded
}

// Seven zone model by fraction of FTP
var zoneBands = []zoneBand{
	{"Active Recovery", 0, 0.55},
	{"Endurance", 0.55, 0.75},
	{"Tempo", 0.75, 0.90},
	{"Threshold", 0.90, 1.05},
	{"VO2 Max", 1.05, 1.20},
	{"Anaerobic", 1.20, 1.50},
	{"Neuromuscular", 1.50, 0},
}

// maxZoneGap caps how much time one sample can contribute; longer gaps are
// treated as recording pauses
const maxZoneGap = 30 * time.Second

// PowerZoneBounds returns the seven zones for an FTP with watt boundaries
// filled in. Fails with ErrInvalidParameter when ftp <= 0.
func PowerZoneBounds(ftp float64) ([]PowerZone, error) {
	if ftp <= 0 {
		return nil, fmt.Errorf("ftp must be positive, got %v: %w", ftp, ErrInvalidParameter)
	}

	zones := make([]PowerZone, len(zoneBands))
	for i, b := range zoneBands {
		zones[i] = PowerZone{
			Zone:     i + 1,
			Name:     b.name,
			MinWatts: math.Round(ftp * b.low),
		}
		if b.high > 0 {
			zones[i].MaxWatts = math.Round(ftp * b.high)
		}
	}
	return zones, nil
}

// TimeInPowerZones accumulates riding time per zone. Each power-carrying
// sample contributes the gap to its successor, capped at maxZoneGap so
// recording pauses do not count as zone time. The final sample contributes
// nothing, matching how devices close a recording.
func TimeInPowerZones(samples []Sample, ftp float64) ([]PowerZone, error) {
	zones, err := PowerZoneBounds(ftp)
	if err != nil {
		return nil, err
	}

	var total time.Duration
	for i := 0; i < len(samples)-1; i++ {
		s := samples[i]
		if s.Power == nil {
			continue
		}

		gap := samples[i+1].Time.Sub(s.Time)
		if gap <= 0 {
			continue
		}
		if gap > maxZoneGap {
			gap = maxZoneGap
		}

		z := zoneForWatts(zones, *s.Power)
		if z >= 0 {
			zones[z].Time += gap
			total += gap
		}
	}

	if total > 0 {
		for i := range zones {
			zones[i].Pct = float64(zones[i].Time) / float64(total) * 100
		}
	}
	return zones, nil
}

// zoneForWatts finds the zone index containing a wattage
func zoneForWatts(zones []PowerZone, watts float64) int {
	if watts < 0 {
		return -1
	}
	for i := range zones {
		upper := zones[i].MaxWatts
		if upper == 0 || watts < upper {
			return i
		}
	}
	return len(zones) - 1
}
