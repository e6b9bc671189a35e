package analysis

// EfficiencyFactor calculates power:HR efficiency for a ride:
// Normalized Power divided by average heart rate.
// Higher is better - you're producing more power for the same HR.
// Typical trained values range from 1.0 to 2.0.
func EfficiencyFactor(table *SeriesTable) float64 {
	np := table.NormalizedPower()
	if np == 0 {
		return 0
	}

	avgHR := averageHR(table.HeartRate())
	if avgHR == 0 {
		return 0
	}

	return np / avgHR
}

// averageHR calculates the average heart rate of a series, ignoring
// obviously bad readings
func averageHR(hr Series) float64 {
	var total float64
	var count int
	for _, p := range hr {
		if p.Value > 30 && p.Value < 230 {
			total += p.Value
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return total / float64(count)
}

// AveragePower calculates the plain mean of the power series
func AveragePower(power Series) float64 {
	if len(power) == 0 {
		return 0
	}
	var total float64
	for _, p := range power {
		total += p.Value
	}
	return total / float64(len(power))
}

// VariabilityIndex is the ratio of Normalized Power to average power.
// A perfectly steady ride scores 1.0; surgy efforts score higher.
func VariabilityIndex(table *SeriesTable) float64 {
	avg := AveragePower(table.Power())
	if avg == 0 {
		return 0
	}
	np := table.NormalizedPower()
	if np == 0 {
		return 0
	}
	return np / avg
}
