package analysis

// minPairedSamples is the least power+HR data needed before decoupling
// says anything meaningful
const minPairedSamples = 120

// PowerHRDecoupling calculates the power:HR drift between the first and
// second half of a ride. Returns a percentage - positive means the second
// half cost more heartbeats per watt. Under 5% on a long steady ride
// indicates solid aerobic endurance.
func PowerHRDecoupling(samples []Sample) float64 {
	// Only samples carrying both fields participate
	var paired []Sample
	for _, s := range samples {
		if s.Power != nil && s.HeartRate != nil {
			hr := *s.HeartRate
			if hr > 30 && hr < 230 {
				paired = append(paired, s)
			}
		}
	}

	if len(paired) < minPairedSamples {
		return 0
	}

	mid := len(paired) / 2
	firstRatio := powerHRRatio(paired[:mid])
	secondRatio := powerHRRatio(paired[mid:])

	if firstRatio == 0 || secondRatio == 0 {
		return 0
	}

	// Positive decoupling = second half less efficient
	return ((firstRatio / secondRatio) - 1) * 100
}

// powerHRRatio calculates mean watts per mean heartbeat for a stretch of
// paired samples
func powerHRRatio(samples []Sample) float64 {
	var totalPower, totalHR float64
	for _, s := range samples {
		totalPower += *s.Power
		totalHR += *s.HeartRate
	}
	if totalHR == 0 {
		return 0
	}
	return (totalPower / float64(len(samples))) / (totalHR / float64(len(samples)))
}

// DecouplingAssessment returns a human-readable decoupling assessment
func DecouplingAssessment(decoupling float64) string {
	switch {
	case decoupling < 3:
		return "Excellent aerobic endurance"
	case decoupling < 5:
		return "Good aerobic fitness"
	case decoupling < 8:
		return "Developing aerobic base"
	case decoupling < 12:
		return "Needs more steady endurance rides"
	default:
		return "Aerobic system needs work"
	}
}
