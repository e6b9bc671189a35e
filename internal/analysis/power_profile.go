package analysis

// ProfileEntry maps a minimum FTP in watts per kilogram to a rider category
type ProfileEntry struct {
	MinWkg float64
	Label  string
}

// ProfileTable ranks FTP relative to body weight, strongest first. The
// bands follow the conventional power profile used for road racing
// categories.
var ProfileTable = []ProfileEntry{
	{5.8, "World class"},
	{5.0, "Exceptional"},
	{4.5, "Excellent"},
	{3.9, "Very good"},
	{3.2, "Good"},
	{2.5, "Moderate"},
	{1.8, "Fair"},
	{0, "Untrained"},
}

// ClassifyFTP returns the rider category for an FTP and body weight.
// Returns an empty string when either input is non-positive.
func ClassifyFTP(ftpWatts, weightKg float64) string {
	if ftpWatts <= 0 || weightKg <= 0 {
		return ""
	}

	wkg := ftpWatts / weightKg
	for _, entry := range ProfileTable {
		if wkg >= entry.MinWkg {
			return entry.Label
		}
	}
	return ProfileTable[len(ProfileTable)-1].Label
}

// WattsPerKg computes relative power, or 0 when weight is unknown.
func WattsPerKg(watts, weightKg float64) float64 {
	if weightKg <= 0 {
		return 0
	}
	return watts / weightKg
}
