package tui

import "fmt"

// fmtOpt renders an optional metric with the given verb, or "-" when
// the value was never recorded.
func fmtOpt(v *float64, format string) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf(format, *v)
}

// formatDistance renders meters as kilometres.
func formatDistance(meters float64) string {
	return fmt.Sprintf("%.1f km", meters/1000)
}

// formatDuration renders whole seconds as "1h 23m", or "45m" under an
// hour.
func formatDuration(seconds int) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}

// truncateName shortens long activity names for table rows.
func truncateName(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
