package cli

import "fmt"

// metric renders an optional metric with the given verb, or "-" when
// the value was never recorded.
func metric(v *float64, format string) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf(format, *v)
}

// formatDuration renders seconds as H:MM:SS, or M:SS under an hour.
func formatDuration(seconds float64) string {
	total := int(seconds)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// formatKM renders a distance in meters as kilometres.
func formatKM(meters float64) string {
	return fmt.Sprintf("%.1f km", meters/1000)
}

// formatDelta renders a signed delta, colored green for positive and
// red for negative. The format verb should carry an explicit sign,
// e.g. "%+.1f".
func formatDelta(delta float64, format string) string {
	s := fmt.Sprintf(format, delta)
	switch {
	case delta > 0:
		return colors.Positive.Sprint(s)
	case delta < 0:
		return colors.Negative.Sprint(s)
	default:
		return s
	}
}
