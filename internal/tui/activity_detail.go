package tui

import (
	"fmt"
	"strings"
	"time"

	"garmin-fitness/internal/service"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
)

// Zone colors for the seven power zones
var zoneColors = []lipgloss.Color{
	lipgloss.Color("#6B7280"), // Z1 Active Recovery - gray
	lipgloss.Color("#3B82F6"), // Z2 Endurance - blue
	lipgloss.Color("#10B981"), // Z3 Tempo - green
	lipgloss.Color("#F59E0B"), // Z4 Threshold - amber
	lipgloss.Color("#F97316"), // Z5 VO2 Max - orange
	lipgloss.Color("#EF4444"), // Z6 Anaerobic - red
	lipgloss.Color("#9333EA"), // Z7 Neuromuscular - purple
}

// ActivityDetailModel is the activity detail screen model
type ActivityDetailModel struct {
	queryService *service.QueryService
	activityID   int64
	detail       *service.ActivityDetail
	records      []service.PowerRecordDisplay
	viewport     viewport.Model
	loading      bool
	err          error
	width        int
	height       int
	ready        bool
}

// NewActivityDetailModel creates a new activity detail model
func NewActivityDetailModel(qs *service.QueryService, activityID int64, width, height int) ActivityDetailModel {
	m := ActivityDetailModel{
		queryService: qs,
		activityID:   activityID,
		loading:      true,
		width:        width,
		height:       height,
	}

	if width > 0 && height > 0 {
		m.viewport = viewport.New(width, height-6) // Reserve space for header/footer
		m.ready = true
	}

	return m
}

// Init initializes the activity detail screen
func (m ActivityDetailModel) Init() tea.Cmd {
	return m.loadDetail
}

type activityDetailLoadedMsg struct {
	detail  *service.ActivityDetail
	records []service.PowerRecordDisplay
	err     error
}

func (m ActivityDetailModel) loadDetail() tea.Msg {
	detail, err := m.queryService.GetActivityDetail(m.activityID)
	if err != nil {
		return activityDetailLoadedMsg{err: err}
	}

	// Records are supplementary - show the detail even if they fail to load
	records, err := m.queryService.GetActivityPowerRecords(m.activityID)
	if err != nil {
		return activityDetailLoadedMsg{detail: detail}
	}
	return activityDetailLoadedMsg{detail: detail, records: records}
}

// Update handles messages
func (m ActivityDetailModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case activityDetailLoadedMsg:
		m.loading = false
		m.err = msg.err
		m.detail = msg.detail
		m.records = msg.records
		if m.ready {
			m.viewport.SetContent(m.renderContent())
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-6)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - 6
		}
		if m.detail != nil {
			m.viewport.SetContent(m.renderContent())
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			m.loading = true
			return m, m.loadDetail
		}
	}

	// Handle viewport scrolling
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the activity detail screen
func (m ActivityDetailModel) View() string {
	if m.loading {
		return "\n  Loading activity details..."
	}

	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err))
	}

	if !m.ready {
		return "\n  Initializing..."
	}

	footer := statusStyle.Render("  esc: back to list  j/k or arrows: scroll  r: refresh")

	return lipgloss.JoinVertical(lipgloss.Left, m.viewport.View(), footer)
}

func (m ActivityDetailModel) renderContent() string {
	if m.detail == nil {
		return "No data"
	}

	var sections []string

	sections = append(sections, m.renderHeader())
	sections = append(sections, m.renderSummary())

	if len(m.detail.Zones) > 0 {
		sections = append(sections, m.renderPowerZones())
	}

	if m.detail.Distribution != nil {
		sections = append(sections, m.renderDistribution())
	}

	if len(m.detail.PowerData) > 5 {
		sections = append(sections, m.renderPowerChart())
	}

	if len(m.detail.HRData) > 5 {
		sections = append(sections, m.renderHRChart())
	}

	if len(m.detail.TimeOfDayMax) > 5 {
		sections = append(sections, m.renderTimeOfDayChart())
	}

	if len(m.records) > 0 {
		sections = append(sections, m.renderRecords())
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m ActivityDetailModel) renderHeader() string {
	a := m.detail.Activity.Activity
	met := m.detail.Activity.Metrics
	title := cardTitleStyle.Render(a.Name)

	date := a.StartTimeLocal.Format("Monday, January 2, 2006 at 3:04 PM")
	subtitle := lipgloss.NewStyle().Foreground(mutedColor).Render(date)

	stats := fmt.Sprintf("%s  •  %s  •  %s avg",
		formatDistance(a.Distance),
		formatDuration(int(a.Duration)),
		fmtOpt(met.AvgPower, "%.0f W"))
	statsLine := lipgloss.NewStyle().Foreground(textColor).Bold(true).Render(stats)

	return lipgloss.JoinVertical(lipgloss.Left, "", title, subtitle, statsLine, "")
}

func (m ActivityDetailModel) renderSummary() string {
	var lines []string

	lines = append(lines, lipgloss.NewStyle().Bold(true).Foreground(positiveColor).Render("Summary"))

	met := m.detail.Activity.Metrics

	lines = append(lines, fmt.Sprintf("  Normalized Power:     %s", fmtOpt(met.NormalizedPower, "%.0f W")))
	lines = append(lines, fmt.Sprintf("  Intensity Factor:     %s", fmtOpt(met.IntensityFactor, "%.2f")))
	lines = append(lines, fmt.Sprintf("  Training Stress:      %s", fmtOpt(met.TrainingStressScore, "%.1f")))
	lines = append(lines, fmt.Sprintf("  Variability Index:    %s", fmtOpt(met.VariabilityIndex, "%.2f")))
	lines = append(lines, fmt.Sprintf("  Average HR:           %s", fmtOpt(met.AvgHR, "%.0f bpm")))
	lines = append(lines, fmt.Sprintf("  Efficiency Factor:    %s", fmtOpt(met.EfficiencyFactor, "%.2f")))
	lines = append(lines, fmt.Sprintf("  Decoupling:           %s", fmtOpt(met.Decoupling, "%.1f%%")))
	lines = append(lines, fmt.Sprintf("  Data Quality:         %s (%d samples)", m.detail.DataQuality, m.detail.SampleCount))

	lines = append(lines, "")
	return strings.Join(lines, "\n")
}

func (m ActivityDetailModel) renderPowerZones() string {
	var lines []string

	title := fmt.Sprintf("Power Zone Distribution (FTP %.0f W)", m.detail.Activity.Metrics.FTP)
	lines = append(lines, lipgloss.NewStyle().Bold(true).Foreground(positiveColor).Render(title))

	maxBarWidth := 30
	for i, z := range m.detail.Zones {
		barWidth := int(z.Pct / 100 * float64(maxBarWidth))
		if barWidth < 1 && z.Time > 0 {
			barWidth = 1
		}

		bar := strings.Repeat("█", barWidth)
		color := zoneColors[i%len(zoneColors)]

		bounds := fmt.Sprintf("%.0f-%.0fW", z.MinWatts, z.MaxWatts)
		if z.MaxWatts == 0 {
			bounds = fmt.Sprintf("%.0f+W", z.MinWatts)
		}

		timeStr := formatDuration(int(z.Time.Seconds()))
		label := fmt.Sprintf("  Z%d %-16s %-10s", z.Zone, z.Name, bounds)
		pct := fmt.Sprintf("%5.1f%%", z.Pct)

		line := label + lipgloss.NewStyle().Foreground(color).Render(bar) + " " + pct + " (" + timeStr + ")"
		lines = append(lines, line)
	}

	lines = append(lines, "")
	return strings.Join(lines, "\n")
}

func (m ActivityDetailModel) renderDistribution() string {
	var lines []string

	lines = append(lines, lipgloss.NewStyle().Bold(true).Foreground(positiveColor).Render("Power Distribution"))

	d := m.detail.Distribution
	lines = append(lines, fmt.Sprintf("  Mean: %.0f W   Max: %.0f W", d.Mean, d.Max))
	lines = append(lines, fmt.Sprintf("  p25: %.0f   p50: %.0f   p75: %.0f   p95: %.0f", d.P25, d.P50, d.P75, d.P95))

	lines = append(lines, "")
	return strings.Join(lines, "\n")
}

func (m ActivityDetailModel) renderPowerChart() string {
	var lines []string

	lines = append(lines, lipgloss.NewStyle().Bold(true).Foreground(positiveColor).Render("Power Over Time (W, per minute)"))

	data := m.detail.PowerData
	if len(data) > 60 {
		data = downsample(data, 60)
	}

	if len(data) > 2 {
		chart := asciigraph.Plot(data,
			asciigraph.Height(8),
			asciigraph.Width(50),
		)
		lines = append(lines, chart)
	}

	lines = append(lines, "")
	return strings.Join(lines, "\n")
}

func (m ActivityDetailModel) renderHRChart() string {
	var lines []string

	lines = append(lines, lipgloss.NewStyle().Bold(true).Foreground(positiveColor).Render("Heart Rate Over Time (bpm)"))

	data := m.detail.HRData
	if len(data) > 60 {
		data = downsample(data, 60)
	}

	if len(data) > 2 {
		chart := asciigraph.Plot(data,
			asciigraph.Height(8),
			asciigraph.Width(50),
		)
		lines = append(lines, chart)
	}

	lines = append(lines, "")
	return strings.Join(lines, "\n")
}

func (m ActivityDetailModel) renderTimeOfDayChart() string {
	var lines []string

	first := m.detail.TimeOfDayMax[0].TimeOfDay
	last := m.detail.TimeOfDayMax[len(m.detail.TimeOfDayMax)-1].TimeOfDay
	title := fmt.Sprintf("Max Power by Time of Day (%s - %s)", formatTimeOfDay(first), formatTimeOfDay(last))
	lines = append(lines, lipgloss.NewStyle().Bold(true).Foreground(positiveColor).Render(title))

	data := make([]float64, len(m.detail.TimeOfDayMax))
	for i, t := range m.detail.TimeOfDayMax {
		data[i] = t.MaxPower
	}
	if len(data) > 60 {
		data = downsample(data, 60)
	}

	if len(data) > 2 {
		chart := asciigraph.Plot(data,
			asciigraph.Height(8),
			asciigraph.Width(50),
		)
		lines = append(lines, chart)
	}

	lines = append(lines, "")
	return strings.Join(lines, "\n")
}

func (m ActivityDetailModel) renderRecords() string {
	var lines []string

	divider := strings.Repeat("─", 40)
	lines = append(lines, lipgloss.NewStyle().Bold(true).Foreground(positiveColor).Render(fmt.Sprintf("── Peak Powers This Ride %s", divider)))

	for _, r := range m.records {
		line := fmt.Sprintf("  %-8s %8s  %12s  HR %s", r.CategoryLabel, r.Watts, r.WKg, r.AvgHR)
		lines = append(lines, lipgloss.NewStyle().Foreground(accentColor).Render(line))
	}

	lines = append(lines, "")
	return strings.Join(lines, "\n")
}

// formatTimeOfDay renders a duration since midnight as a clock time.
func formatTimeOfDay(d time.Duration) string {
	return fmt.Sprintf("%02d:%02d", int(d.Hours()), int(d.Minutes())%60)
}

// downsample averages fixed-size buckets so long rides fit the chart
// width.
func downsample(data []float64, targetLen int) []float64 {
	if len(data) <= targetLen {
		return data
	}

	result := make([]float64, targetLen)
	ratio := float64(len(data)) / float64(targetLen)

	for i := 0; i < targetLen; i++ {
		start := int(float64(i) * ratio)
		end := int(float64(i+1) * ratio)
		if end > len(data) {
			end = len(data)
		}
		if end <= start {
			end = start + 1
		}

		sum := 0.0
		for j := start; j < end; j++ {
			sum += data[j]
		}
		result[i] = sum / float64(end-start)
	}

	return result
}
