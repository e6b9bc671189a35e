package service

// ActivityComparison holds two activities side by side with the deltas
// between them (B minus A).
type ActivityComparison struct {
	A ActivityWithMetrics
	B ActivityWithMetrics

	DeltaDistance float64 // km
	DeltaDuration float64 // seconds
	DeltaAvgPower float64
	DeltaNP       float64
	DeltaIF       float64
	DeltaTSS      float64
	DeltaAvgHR    float64
	DeltaEF       float64
}

// CompareActivities loads both activities with metrics computed against
// the configured FTP and returns their deltas. Metric deltas treat a
// missing value on either side as zero difference rather than inventing
// one.
func (q *QueryService) CompareActivities(idA, idB int64) (*ActivityComparison, error) {
	a, err := q.loadForComparison(idA)
	if err != nil {
		return nil, err
	}
	b, err := q.loadForComparison(idB)
	if err != nil {
		return nil, err
	}

	cmp := &ActivityComparison{
		A:             *a,
		B:             *b,
		DeltaDistance: (b.Activity.Distance - a.Activity.Distance) / MetersPerKilometer,
		DeltaDuration: b.Activity.Duration - a.Activity.Duration,
		DeltaAvgPower: deltaMetric(a.Metrics.AvgPower, b.Metrics.AvgPower),
		DeltaNP:       deltaMetric(a.Metrics.NormalizedPower, b.Metrics.NormalizedPower),
		DeltaIF:       deltaMetric(a.Metrics.IntensityFactor, b.Metrics.IntensityFactor),
		DeltaTSS:      deltaMetric(a.Metrics.TrainingStressScore, b.Metrics.TrainingStressScore),
		DeltaAvgHR:    deltaMetric(a.Metrics.AvgHR, b.Metrics.AvgHR),
		DeltaEF:       deltaMetric(a.Metrics.EfficiencyFactor, b.Metrics.EfficiencyFactor),
	}
	return cmp, nil
}

func (q *QueryService) loadForComparison(id int64) (*ActivityWithMetrics, error) {
	activity, err := q.store.GetActivity(id)
	if err != nil {
		return nil, err
	}
	metrics, err := q.GetActivityMetrics(id, q.ftp)
	if err != nil {
		return nil, err
	}
	return &ActivityWithMetrics{Activity: *activity, Metrics: *metrics}, nil
}

// deltaMetric subtracts two optional metrics. When either side is
// missing there is nothing meaningful to compare, so the delta is zero.
func deltaMetric(a, b *float64) float64 {
	if a == nil || b == nil {
		return 0
	}
	return *b - *a
}
