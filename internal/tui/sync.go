package tui

import (
	"context"
	"fmt"
	"strings"

	"garmin-fitness/internal/service"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// SyncModel is the sync screen model
type SyncModel struct {
	syncService *service.SyncService
	syncing     bool
	full        bool
	progress    service.SyncProgress
	progressCh  chan service.SyncProgress
	doneCh      chan syncDoneMsg
	result      *service.SyncResult
	err         error
	done        bool
}

// NewSyncModel creates a new sync model
func NewSyncModel(ss *service.SyncService) SyncModel {
	return SyncModel{
		syncService: ss,
	}
}

// Init initializes the sync screen
func (m SyncModel) Init() tea.Cmd {
	return nil
}

type syncProgressMsg service.SyncProgress

type syncDoneMsg struct {
	result *service.SyncResult
	err    error
}

// Update handles messages
func (m SyncModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case syncProgressMsg:
		m.progress = service.SyncProgress(msg)
		return m, waitForSync(m.progressCh, m.doneCh)

	case syncDoneMsg:
		m.syncing = false
		m.done = true
		m.result = msg.result
		m.err = msg.err
		return m, nil

	case tea.KeyMsg:
		if !m.syncing {
			switch msg.String() {
			case "enter", "s":
				return m.startSync()
			case "f":
				m.full = !m.full
			}
		}
	}
	return m, nil
}

// startSync runs SyncAll in its own goroutine and pumps its progress
// channel back into the update loop one message at a time.
func (m SyncModel) startSync() (tea.Model, tea.Cmd) {
	m.syncing = true
	m.done = false
	m.err = nil
	m.result = nil
	m.progress = service.SyncProgress{}
	m.progressCh = make(chan service.SyncProgress)
	m.doneCh = make(chan syncDoneMsg, 1)

	progressCh := m.progressCh
	doneCh := m.doneCh
	opts := service.SyncOptions{Full: m.full}

	go func() {
		result, err := m.syncService.SyncAll(context.Background(), opts, progressCh)
		doneCh <- syncDoneMsg{result: result, err: err}
	}()

	return m, waitForSync(progressCh, doneCh)
}

// waitForSync blocks on the next progress update. SyncAll closes the
// progress channel when it returns, which is the cue to collect the
// final result.
func waitForSync(progress <-chan service.SyncProgress, done <-chan syncDoneMsg) tea.Cmd {
	return func() tea.Msg {
		p, ok := <-progress
		if !ok {
			return <-done
		}
		return syncProgressMsg(p)
	}
}

// View renders the sync screen
func (m SyncModel) View() string {
	var sections []string

	title := cardTitleStyle.Render("Garmin Sync")
	sections = append(sections, title)

	if m.err != nil {
		sections = append(sections, errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err)))
		sections = append(sections, "\n"+statusStyle.Render("  Press 's' or Enter to retry"))
		return lipgloss.JoinVertical(lipgloss.Left, sections...)
	}

	if m.done && !m.syncing {
		sections = append(sections, successStyle.Render("\n  Sync complete!"))
		sections = append(sections, m.renderSummary())
		sections = append(sections, "\n"+statusStyle.Render("  Press '1' to go to dashboard"))
		return lipgloss.JoinVertical(lipgloss.Left, sections...)
	}

	if m.syncing {
		sections = append(sections, m.renderProgress())
	} else {
		sections = append(sections, m.renderStartPrompt())
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m SyncModel) renderStartPrompt() string {
	var lines []string

	lines = append(lines, "")
	lines = append(lines, "  This will sync your Garmin Connect activities:")
	lines = append(lines, "")
	lines = append(lines, "  1. List new activities")
	lines = append(lines, "  2. Download FIT files")
	lines = append(lines, "  3. Compute power metrics")
	lines = append(lines, "")

	mode := "incremental (since last sync)"
	if m.full {
		mode = "full (re-list everything)"
	}
	lines = append(lines, statusStyle.Render(fmt.Sprintf("  Mode: %s - press 'f' to toggle", mode)))
	lines = append(lines, "")
	lines = append(lines, statusStyle.Render("  Press 's' or Enter to start sync"))

	return strings.Join(lines, "\n")
}

func (m SyncModel) renderProgress() string {
	var lines []string

	lines = append(lines, "")
	lines = append(lines, fmt.Sprintf("  %s", phaseLabel(m.progress.Phase)))
	lines = append(lines, "")

	if m.progress.Total > 0 {
		percent := float64(m.progress.Completed) / float64(m.progress.Total)
		bar := RenderProgressBar(percent, 30)
		lines = append(lines, fmt.Sprintf("  %s  %d/%d", bar, m.progress.Completed, m.progress.Total))
	}

	if m.progress.CurrentActivity != "" {
		lines = append(lines, statusStyle.Render(fmt.Sprintf("  %s", truncateName(m.progress.CurrentActivity, 50))))
	}

	lines = append(lines, "")
	lines = append(lines, statusStyle.Render("  Keys are disabled until the sync finishes."))

	return strings.Join(lines, "\n")
}

func phaseLabel(phase string) string {
	switch phase {
	case "activities":
		return "Listing activities from Garmin Connect..."
	case "download":
		return "Downloading FIT files..."
	case "metrics":
		return "Computing power metrics..."
	default:
		return "Starting sync..."
	}
}

func (m SyncModel) renderSummary() string {
	var lines []string

	if m.result == nil {
		return ""
	}

	r := m.result
	lines = append(lines, "")

	if r.ActivitiesStored > 0 {
		lines = append(lines, successStyle.Render(fmt.Sprintf("  %d new activities", r.ActivitiesStored)))
	} else {
		lines = append(lines, statusStyle.Render("  No new activities"))
	}

	if r.FilesDownloaded > 0 {
		lines = append(lines, successStyle.Render(fmt.Sprintf("  %d FIT files downloaded", r.FilesDownloaded)))
	}

	if r.MetricsComputed > 0 {
		lines = append(lines, successStyle.Render(fmt.Sprintf("  %d metric sets computed", r.MetricsComputed)))
	}

	if r.RecordsComputed > 0 {
		lines = append(lines, successStyle.Render(fmt.Sprintf("  %d power records", r.RecordsComputed)))
	}

	if r.FTPEstimates > 0 {
		lines = append(lines, successStyle.Render(fmt.Sprintf("  %d new FTP estimates", r.FTPEstimates)))
	}

	if len(r.Errors) > 0 {
		lines = append(lines, "")
		lines = append(lines, warningStyle.Render(fmt.Sprintf("  %d errors occurred", len(r.Errors))))
		for i, err := range r.Errors {
			if i >= 3 {
				lines = append(lines, warningStyle.Render(fmt.Sprintf("  ... and %d more", len(r.Errors)-3)))
				break
			}
			lines = append(lines, warningStyle.Render(fmt.Sprintf("  - %v", err)))
		}
	}

	return strings.Join(lines, "\n")
}
