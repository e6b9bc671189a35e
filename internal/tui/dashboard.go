package tui

import (
	"fmt"

	"garmin-fitness/internal/service"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
)

// DashboardModel is the dashboard screen model
type DashboardModel struct {
	queryService *service.QueryService
	data         *service.DashboardData
	loading      bool
	err          error
}

// NewDashboardModel creates a new dashboard model
func NewDashboardModel(qs *service.QueryService) DashboardModel {
	return DashboardModel{
		queryService: qs,
		loading:      true,
	}
}

// Init initializes the dashboard
func (m DashboardModel) Init() tea.Cmd {
	return m.loadData
}

func (m DashboardModel) loadData() tea.Msg {
	data, err := m.queryService.GetDashboardData()
	if err != nil {
		return dashboardDataMsg{err: err}
	}
	return dashboardDataMsg{data: data}
}

type dashboardDataMsg struct {
	data *service.DashboardData
	err  error
}

// Update handles messages
func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardDataMsg:
		m.loading = false
		m.err = msg.err
		m.data = msg.data
	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			m.loading = true
			return m, m.loadData
		}
	}
	return m, nil
}

// View renders the dashboard
func (m DashboardModel) View() string {
	if m.loading {
		return "\n  Loading dashboard..."
	}

	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err))
	}

	if m.data == nil {
		return "\n  No data available. Press 's' to sync with Garmin Connect."
	}

	var sections []string

	// Top row: Training Load and This Week side by side
	loadCard := m.renderLoadCard()
	weekCard := m.renderWeekCard()
	topRow := lipgloss.JoinHorizontal(lipgloss.Top, loadCard, "  ", weekCard)
	sections = append(sections, topRow)

	if len(m.data.FitnessHistory) > 2 {
		sections = append(sections, m.renderFitnessChart())
	}

	if len(m.data.WeeklyTSS) > 2 {
		sections = append(sections, m.renderWeeklyChart())
	}

	sections = append(sections, m.renderRecentActivities())

	help := statusStyle.Render("Press 'r' to refresh, 's' to sync, '2' for activities list")
	sections = append(sections, help)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m DashboardModel) renderLoadCard() string {
	title := cardTitleStyle.Render("Training Load")

	formStyle := lipgloss.NewStyle().Foreground(mutedColor)

	lines := []string{
		RenderMetric("Fitness (CTL)", fmt.Sprintf("%.0f", m.data.CurrentFitness), ""),
		RenderMetric("Fatigue (ATL)", fmt.Sprintf("%.0f", m.data.CurrentFatigue), ""),
		RenderMetric("Form (TSB)", fmt.Sprintf("%.0f", m.data.CurrentForm), ""),
		"",
		formStyle.Render(m.data.FormDescription),
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return cardStyle.Width(38).Render(lipgloss.JoinVertical(lipgloss.Left, title, content))
}

func (m DashboardModel) renderWeekCard() string {
	title := cardTitleStyle.Render("This Week")

	tssTrend := ""
	if m.data.WeekTSSDelta != 0 {
		tssTrend = fmt.Sprintf("%+.0f vs last week", m.data.WeekTSSDelta)
	}

	lines := []string{
		RenderMetric("Rides", fmt.Sprintf("%d", m.data.WeekRideCount), ""),
		RenderMetric("Distance", fmt.Sprintf("%.1f km", m.data.WeekDistance), ""),
		RenderMetric("Time", formatDuration(m.data.WeekTime), ""),
		RenderMetric("TSS", fmt.Sprintf("%.0f", m.data.WeekTSS), tssTrend),
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return cardStyle.Width(46).Render(lipgloss.JoinVertical(lipgloss.Left, title, content))
}

func (m DashboardModel) renderFitnessChart() string {
	title := cardTitleStyle.Render("Fitness (CTL) - Last 90 Days")

	ctl := make([]float64, len(m.data.FitnessHistory))
	for i, f := range m.data.FitnessHistory {
		ctl[i] = f.CTL
	}

	graph := asciigraph.Plot(ctl,
		asciigraph.Height(8),
		asciigraph.Width(60),
		asciigraph.Precision(0),
	)

	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, graph))
}

func (m DashboardModel) renderWeeklyChart() string {
	title := cardTitleStyle.Render("Weekly TSS - Last 12 Weeks")

	graph := asciigraph.Plot(m.data.WeeklyTSS,
		asciigraph.Height(8),
		asciigraph.Width(60),
		asciigraph.Precision(0),
	)

	span := statusStyle.Render(fmt.Sprintf("%s  to  %s",
		m.data.WeeklyLabels[0], m.data.WeeklyLabels[len(m.data.WeeklyLabels)-1]))

	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, graph, span))
}

func (m DashboardModel) renderRecentActivities() string {
	title := cardTitleStyle.Render("Recent Activities")

	if len(m.data.RecentActivities) == 0 {
		return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, "No activities yet"))
	}

	// Header
	header := tableHeaderStyle.Render(fmt.Sprintf("%-10s  %-20s  %9s  %6s  %5s  %6s",
		"Date", "Name", "Distance", "NP", "IF", "TSS"))

	var rows []string
	rows = append(rows, header)

	for i, am := range m.data.RecentActivities {
		if i >= 5 {
			break
		}

		a := am.Activity
		met := am.Metrics

		row := tableRowStyle.Render(fmt.Sprintf("%-10s  %-20s  %7.1fkm  %6s  %5s  %6s",
			a.StartTimeLocal.Format("Jan 02"),
			truncateName(a.Name, 20),
			a.Distance/1000,
			fmtOpt(met.NormalizedPower, "%.0f"),
			fmtOpt(met.IntensityFactor, "%.2f"),
			fmtOpt(met.TrainingStressScore, "%.0f"),
		))
		rows = append(rows, row)
	}

	table := lipgloss.JoinVertical(lipgloss.Left, rows...)
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, table))
}
