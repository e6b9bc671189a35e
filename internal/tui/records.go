package tui

import (
	"fmt"
	"strings"

	"garmin-fitness/internal/service"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// RecordsModel is the power records screen model
type RecordsModel struct {
	queryService *service.QueryService
	data         *service.RecordsData
	viewport     viewport.Model
	loading      bool
	err          error
	width        int
	height       int
	ready        bool
}

// NewRecordsModel creates a new records model
func NewRecordsModel(qs *service.QueryService, width, height int) RecordsModel {
	m := RecordsModel{
		queryService: qs,
		loading:      true,
		width:        width,
		height:       height,
	}

	if width > 0 && height > 0 {
		m.viewport = viewport.New(width, height-6)
		m.ready = true
	}

	return m
}

// Init initializes the records screen
func (m RecordsModel) Init() tea.Cmd {
	return m.loadRecords
}

type recordsLoadedMsg struct {
	data *service.RecordsData
	err  error
}

func (m RecordsModel) loadRecords() tea.Msg {
	data, err := m.queryService.GetBestPowerRecords()
	return recordsLoadedMsg{data: data, err: err}
}

// Update handles messages
func (m RecordsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case recordsLoadedMsg:
		m.loading = false
		m.err = msg.err
		m.data = msg.data
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
		if m.data != nil {
			m.viewport.SetContent(m.renderContent())
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			m.loading = true
			return m, m.loadRecords
		}
	}

	// Handle viewport scrolling
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the records screen
func (m RecordsModel) View() string {
	if m.loading {
		return "\n  Loading power records..."
	}

	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err))
	}

	if !m.ready {
		return "\n  Initializing..."
	}

	footer := statusStyle.Render("  j/k or arrows: scroll  r: refresh")

	return lipgloss.JoinVertical(lipgloss.Left, m.viewport.View(), footer)
}

func (m RecordsModel) renderContent() string {
	var sections []string

	sections = append(sections, "")
	sections = append(sections, cardTitleStyle.Render("Power Records"))
	sections = append(sections, "")

	if m.data == nil || len(m.data.AllTime) == 0 {
		empty := lipgloss.NewStyle().Foreground(mutedColor)
		sections = append(sections, empty.Render("  No power records yet. Sync rides with power data first."))
		return lipgloss.JoinVertical(lipgloss.Left, sections...)
	}

	sections = append(sections, m.sectionHeader("All-Time Peaks"))
	sections = append(sections, m.tableHeader())

	for _, r := range m.data.AllTime {
		sections = append(sections, m.formatRecordRow(r))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m RecordsModel) sectionHeader(title string) string {
	titleLen := len([]rune(title))
	dividerLen := 60 - titleLen - 4
	if dividerLen < 0 {
		dividerLen = 0
	}
	divider := strings.Repeat("─", dividerLen)
	return lipgloss.NewStyle().Bold(true).Foreground(positiveColor).Render(fmt.Sprintf("── %s %s", title, divider))
}

func (m RecordsModel) tableHeader() string {
	header := fmt.Sprintf("  %-8s  %8s  %12s  %8s  %-14s  %s", "Window", "Power", "W/kg", "Avg HR", "Date", "Activity")
	return lipgloss.NewStyle().Foreground(accentColor).Render(header)
}

func (m RecordsModel) formatRecordRow(r service.PowerRecordDisplay) string {
	return fmt.Sprintf("  %-8s  %8s  %12s  %8s  %-14s  %s",
		r.CategoryLabel,
		r.Watts,
		r.WKg,
		r.AvgHR,
		r.Date,
		truncateName(r.ActivityName, 30),
	)
}
