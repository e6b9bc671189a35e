package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Palette. Amber accents for power, teal for positive trends; the muted
// gray doubles as the resting state everywhere.
var (
	accentColor   = lipgloss.Color("#D97706") // Amber
	positiveColor = lipgloss.Color("#14B8A6") // Teal
	warningColor  = lipgloss.Color("#EAB308") // Yellow
	errorColor    = lipgloss.Color("#DC2626") // Red
	mutedColor    = lipgloss.Color("#71717A") // Gray
	textColor     = lipgloss.Color("#FAFAF9") // Off-white
)

// App chrome
var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(textColor).
			Background(accentColor).
			Padding(0, 2)

	navStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			MarginTop(1).
			MarginBottom(1)

	navActiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accentColor).
			Underline(true)

	navInactiveStyle = lipgloss.NewStyle().
				Foreground(mutedColor)
)

// Content blocks
var (
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(mutedColor).
			Padding(0, 2)

	cardTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accentColor).
			MarginBottom(1)

	metricLabelStyle = lipgloss.NewStyle().
				Foreground(mutedColor).
				Width(18)

	metricValueStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(textColor)
)

// Trends and status lines
var (
	trendUpStyle   = lipgloss.NewStyle().Foreground(positiveColor)
	trendDownStyle = lipgloss.NewStyle().Foreground(errorColor)
	trendFlatStyle = lipgloss.NewStyle().Foreground(mutedColor)

	statusStyle  = lipgloss.NewStyle().Foreground(mutedColor).MarginTop(1)
	errorStyle   = lipgloss.NewStyle().Foreground(errorColor)
	successStyle = lipgloss.NewStyle().Foreground(positiveColor)
	warningStyle = lipgloss.NewStyle().Foreground(warningColor)
)

// Tables
var (
	tableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(accentColor).
				BorderBottom(true).
				BorderForeground(mutedColor).
				Padding(0, 1)

	tableRowStyle = lipgloss.NewStyle().
			Padding(0, 1)

	tableSelectedStyle = lipgloss.NewStyle().
				Bold(true).
				Background(accentColor).
				Foreground(textColor).
				Padding(0, 1)
)

// Help and progress
var (
	helpKeyStyle  = lipgloss.NewStyle().Foreground(accentColor).Bold(true)
	helpDescStyle = lipgloss.NewStyle().Foreground(mutedColor)

	progressFullStyle  = lipgloss.NewStyle().Foreground(positiveColor)
	progressEmptyStyle = lipgloss.NewStyle().Foreground(mutedColor)
)

// RenderMetric renders one label/value line with an optional trend
// suffix, colored by its leading sign or arrow.
func RenderMetric(label, value, trend string) string {
	line := metricLabelStyle.Render(label) + metricValueStyle.Render(value)
	if trend == "" {
		return line
	}

	style := trendFlatStyle
	switch trend[0] {
	case '+':
		style = trendUpStyle
	case '-':
		style = trendDownStyle
	default:
		if strings.HasPrefix(trend, "↑") {
			style = trendUpStyle
		} else if strings.HasPrefix(trend, "↓") {
			style = trendDownStyle
		}
	}
	return line + style.Render(" "+trend)
}

// RenderProgressBar renders a fixed-width bar filled to percent (0..1).
func RenderProgressBar(percent float64, width int) string {
	filled := int(percent * float64(width))
	switch {
	case filled < 0:
		filled = 0
	case filled > width:
		filled = width
	}
	return progressFullStyle.Render(strings.Repeat("█", filled)) +
		progressEmptyStyle.Render(strings.Repeat("░", width-filled))
}

// RenderKeyHelp renders one key binding line for help footers.
func RenderKeyHelp(key, desc string) string {
	return helpKeyStyle.Render(key) + " " + helpDescStyle.Render(desc)
}
