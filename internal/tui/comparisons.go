package tui

import (
	"fmt"

	"garmin-fitness/internal/service"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ComparisonModel shows two activities side by side with deltas
type ComparisonModel struct {
	queryService *service.QueryService
	idA          int64
	idB          int64
	comparison   *service.ActivityComparison
	loading      bool
	err          error
}

// NewComparisonModel creates a new comparison model
func NewComparisonModel(qs *service.QueryService, idA, idB int64) ComparisonModel {
	return ComparisonModel{
		queryService: qs,
		idA:          idA,
		idB:          idB,
		loading:      true,
	}
}

// Init initializes the comparison screen
func (m ComparisonModel) Init() tea.Cmd {
	return m.loadComparison
}

type comparisonLoadedMsg struct {
	comparison *service.ActivityComparison
	err        error
}

func (m ComparisonModel) loadComparison() tea.Msg {
	comp, err := m.queryService.CompareActivities(m.idA, m.idB)
	return comparisonLoadedMsg{comparison: comp, err: err}
}

// Update handles messages
func (m ComparisonModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case comparisonLoadedMsg:
		m.loading = false
		m.err = msg.err
		m.comparison = msg.comparison

	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			m.loading = true
			return m, m.loadComparison
		}
	}
	return m, nil
}

// View renders the comparison screen
func (m ComparisonModel) View() string {
	if m.loading {
		return "\n  Loading comparison..."
	}

	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err))
	}

	comp := m.comparison
	a, b := comp.A, comp.B

	var sections []string

	title := cardTitleStyle.Render("Activity Comparison")
	sections = append(sections, title)

	nameLine := fmt.Sprintf("  A: %s (%s)", truncateName(a.Activity.Name, 30), a.Activity.StartTimeLocal.Format("Jan 02, 2006"))
	sections = append(sections, lipgloss.NewStyle().Foreground(textColor).Render(nameLine))
	nameLine = fmt.Sprintf("  B: %s (%s)", truncateName(b.Activity.Name, 30), b.Activity.StartTimeLocal.Format("Jan 02, 2006"))
	sections = append(sections, lipgloss.NewStyle().Foreground(textColor).Render(nameLine))
	sections = append(sections, "")

	header := fmt.Sprintf("  %-12s  %-12s  %-12s  %s", "", "A", "B", "Delta (B-A)")
	sections = append(sections, tableHeaderStyle.Render(header))

	rows := []string{
		m.renderRow("Distance", formatDistance(a.Activity.Distance), formatDistance(b.Activity.Distance), comp.DeltaDistance, false),
		m.renderRow("Duration", formatDuration(int(a.Activity.Duration)), formatDuration(int(b.Activity.Duration)), comp.DeltaDuration/60, false),
		m.renderRow("Avg Power", fmtOpt(a.Metrics.AvgPower, "%.0f W"), fmtOpt(b.Metrics.AvgPower, "%.0f W"), comp.DeltaAvgPower, false),
		m.renderRow("Norm Power", fmtOpt(a.Metrics.NormalizedPower, "%.0f W"), fmtOpt(b.Metrics.NormalizedPower, "%.0f W"), comp.DeltaNP, false),
		m.renderRow("IF", fmtOpt(a.Metrics.IntensityFactor, "%.2f"), fmtOpt(b.Metrics.IntensityFactor, "%.2f"), comp.DeltaIF, false),
		m.renderRow("TSS", fmtOpt(a.Metrics.TrainingStressScore, "%.1f"), fmtOpt(b.Metrics.TrainingStressScore, "%.1f"), comp.DeltaTSS, false),
		// Lower HR for the same work is the good direction
		m.renderRow("Avg HR", fmtOpt(a.Metrics.AvgHR, "%.0f bpm"), fmtOpt(b.Metrics.AvgHR, "%.0f bpm"), comp.DeltaAvgHR, true),
		m.renderRow("EF", fmtOpt(a.Metrics.EfficiencyFactor, "%.2f"), fmtOpt(b.Metrics.EfficiencyFactor, "%.2f"), comp.DeltaEF, false),
	}
	sections = append(sections, lipgloss.JoinVertical(lipgloss.Left, rows...))

	help := statusStyle.Render("\n  esc: back to activities  r: reload")
	sections = append(sections, help)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m ComparisonModel) renderRow(label, valueA, valueB string, delta float64, invertColor bool) string {
	var deltaStr string
	var trend int // -1 = down, 0 = flat, 1 = up

	switch {
	case delta > 0.005:
		deltaStr = formatDeltaValue(delta)
		trend = 1
	case delta < -0.005:
		deltaStr = formatDeltaValue(delta)
		trend = -1
	default:
		deltaStr = "0"
	}

	if invertColor && trend != 0 {
		trend = -trend
	}

	var styledDelta string
	switch trend {
	case 1:
		styledDelta = trendUpStyle.Render(deltaStr + " ↑")
	case -1:
		styledDelta = trendDownStyle.Render(deltaStr + " ↓")
	default:
		styledDelta = trendFlatStyle.Render(deltaStr + " →")
	}

	row := fmt.Sprintf("  %-12s  %-12s  %-12s  %s", label, valueA, valueB, styledDelta)
	return tableRowStyle.Render(row)
}

// formatDeltaValue keeps two decimals for small deltas like IF and EF,
// one for everything else.
func formatDeltaValue(d float64) string {
	if d >= 1 || d <= -1 {
		return fmt.Sprintf("%+.1f", d)
	}
	return fmt.Sprintf("%+.2f", d)
}
