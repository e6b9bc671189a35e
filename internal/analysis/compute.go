package analysis

// ActivityMetrics bundles every derived metric for a single activity.
// Zero values mean the underlying data was missing, except for the error
// preconditions ComputeActivityMetrics reports directly.
type ActivityMetrics struct {
	NormalizedPower     float64
	IntensityFactor     float64
	TrainingStressScore float64
	AveragePower        float64
	VariabilityIndex    float64
	EfficiencyFactor    float64
	Decoupling          float64
	AverageHeartRate    float64
	FTP                 float64 // the FTP the scores were computed against
	DataQualityScore    float64 // share of samples carrying power
}

// ComputeActivityMetrics calculates the full metric bundle for one
// activity. Fails with ErrInvalidParameter when ftp <= 0.
func ComputeActivityMetrics(table *SeriesTable, ftp float64) (ActivityMetrics, error) {
	metrics := ActivityMetrics{FTP: ftp}

	intensity, err := table.IntensityFactor(ftp)
	if err != nil {
		return ActivityMetrics{}, err
	}
	tss, err := table.TrainingStressScore(ftp)
	if err != nil {
		return ActivityMetrics{}, err
	}

	metrics.NormalizedPower = table.NormalizedPower()
	metrics.IntensityFactor = intensity
	metrics.TrainingStressScore = tss
	metrics.AveragePower = AveragePower(table.Power())
	metrics.VariabilityIndex = VariabilityIndex(table)
	metrics.EfficiencyFactor = EfficiencyFactor(table)
	metrics.Decoupling = PowerHRDecoupling(table.Samples())
	metrics.AverageHeartRate = averageHR(table.HeartRate())

	if table.Len() > 0 {
		metrics.DataQualityScore = float64(len(table.Power())) / float64(table.Len())
	}

	return metrics, nil
}

// DataQualityDescription returns a human-readable data quality assessment
func DataQualityDescription(score float64) string {
	switch {
	case score >= 0.95:
		return "Excellent"
	case score >= 0.85:
		return "Good"
	case score >= 0.70:
		return "Fair"
	case score >= 0.50:
		return "Poor"
	default:
		return "Very Poor"
	}
}
