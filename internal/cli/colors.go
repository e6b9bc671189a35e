package cli

import "github.com/fatih/color"

// colorScheme groups the colors used by the terminal reports.
type colorScheme struct {
	Title     *color.Color
	Section   *color.Color
	Positive  *color.Color
	Negative  *color.Color
	Warning   *color.Color
	Highlight *color.Color
}

var colors = newColorScheme()

func newColorScheme() *colorScheme {
	return &colorScheme{
		Title:     color.New(color.FgCyan, color.Bold),
		Section:   color.New(color.FgMagenta, color.Bold),
		Positive:  color.New(color.FgGreen),
		Negative:  color.New(color.FgRed),
		Warning:   color.New(color.FgYellow),
		Highlight: color.New(color.FgHiWhite, color.Bold),
	}
}
