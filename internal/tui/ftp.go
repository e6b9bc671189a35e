package tui

import (
	"fmt"
	"strings"

	"garmin-fitness/internal/service"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// FTPModel is the FTP history screen model
type FTPModel struct {
	queryService *service.QueryService
	data         *service.FTPData
	viewport     viewport.Model
	loading      bool
	err          error
	width        int
	height       int
	ready        bool
}

// NewFTPModel creates a new FTP model
func NewFTPModel(qs *service.QueryService, width, height int) FTPModel {
	m := FTPModel{
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

// Init initializes the FTP screen
func (m FTPModel) Init() tea.Cmd {
	return m.loadFTP
}

type ftpLoadedMsg struct {
	data *service.FTPData
	err  error
}

func (m FTPModel) loadFTP() tea.Msg {
	data, err := m.queryService.GetFTPData()
	return ftpLoadedMsg{data: data, err: err}
}

// Update handles messages
func (m FTPModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ftpLoadedMsg:
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
			return m, m.loadFTP
		}
	}

	// Handle viewport scrolling
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the FTP screen
func (m FTPModel) View() string {
	if m.loading {
		return "\n  Loading FTP data..."
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

func (m FTPModel) renderContent() string {
	var sections []string

	sections = append(sections, "")
	sections = append(sections, cardTitleStyle.Render("Functional Threshold Power"))
	sections = append(sections, "")

	if m.data == nil {
		return lipgloss.JoinVertical(lipgloss.Left, sections...)
	}

	sections = append(sections, m.renderCurrent())
	sections = append(sections, "")
	sections = append(sections, m.renderHistory())
	sections = append(sections, "")
	sections = append(sections, m.renderAbout())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m FTPModel) renderCurrent() string {
	var lines []string

	valueStyle := lipgloss.NewStyle().Bold(true).Foreground(accentColor)
	muted := lipgloss.NewStyle().Foreground(mutedColor)

	lines = append(lines, fmt.Sprintf("  Current FTP:  %s", valueStyle.Render(fmt.Sprintf("%.0f W", m.data.Current))))

	if m.data.WKg > 0 {
		lines = append(lines, fmt.Sprintf("  Power/weight: %.1f W/kg", m.data.WKg))
	}
	if m.data.Classification != "" {
		lines = append(lines, fmt.Sprintf("  Category:     %s", m.data.Classification))
	}
	if m.data.Configured != m.data.Current {
		lines = append(lines, muted.Render(fmt.Sprintf("  Configured value is %.0f W - a ride test estimated higher.", m.data.Configured)))
	}

	return strings.Join(lines, "\n")
}

func (m FTPModel) renderHistory() string {
	var lines []string

	header := lipgloss.NewStyle().Bold(true).Foreground(positiveColor)
	lines = append(lines, header.Render("── Estimate History ─────────────────────────────────"))

	if len(m.data.History) == 0 {
		muted := lipgloss.NewStyle().Foreground(mutedColor)
		lines = append(lines, muted.Render("  No estimates yet. FTP tests are detected during sync."))
		return strings.Join(lines, "\n")
	}

	colHeader := lipgloss.NewStyle().Foreground(accentColor)
	lines = append(lines, colHeader.Render(fmt.Sprintf("  %-14s  %8s  %-12s  %s", "Date", "Watts", "Source", "Confidence")))

	for _, e := range m.data.History {
		lines = append(lines, fmt.Sprintf("  %-14s  %7.0fW  %-12s  %s",
			e.EstimatedAt.Format("Jan 02, 2006"),
			e.Watts,
			sourceLabel(e.Source),
			m.renderConfidence(e.Confidence),
		))
	}

	return strings.Join(lines, "\n")
}

func (m FTPModel) renderConfidence(confidence string) string {
	switch confidence {
	case "high":
		return trendUpStyle.Render(confidence)
	case "medium":
		return warningStyle.Render(confidence)
	case "low":
		return trendDownStyle.Render(confidence)
	default:
		return confidence
	}
}

func sourceLabel(source string) string {
	switch source {
	case "20m_test":
		return "20 min test"
	case "5m_test":
		return "5 min test"
	case "configured":
		return "configured"
	default:
		return source
	}
}

func (m FTPModel) renderAbout() string {
	muted := lipgloss.NewStyle().Foreground(mutedColor)
	return muted.Render(strings.Join([]string{
		"  FTP is the highest power you can sustain for about an hour.",
		"  Estimates come from best 20-minute efforts (x0.95) and best",
		"  5-minute efforts (x0.79). Only new bests are recorded, so the",
		"  history tracks fitness gains rather than easy weeks.",
	}, "\n"))
}
