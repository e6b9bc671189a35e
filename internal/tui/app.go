// Package tui implements the interactive terminal UI built on Bubble
// Tea. Each screen is its own model; App routes messages to the one on
// display.
package tui

import (
	"garmin-fitness/internal/service"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Screen identifiers
type Screen int

const (
	ScreenDashboard Screen = iota
	ScreenActivities
	ScreenDetail
	ScreenCompare
	ScreenRecords
	ScreenFTP
	ScreenSync
	ScreenHelp
)

// OpenActivityDetailMsg asks the app to open the detail screen for an
// activity.
type OpenActivityDetailMsg struct {
	ActivityID int64
}

// OpenComparisonMsg asks the app to open the comparison screen for two
// activities.
type OpenComparisonMsg struct {
	IDA int64
	IDB int64
}

// App is the root Bubble Tea model
type App struct {
	screen     Screen
	prevScreen Screen

	// Screen models
	dashboard  DashboardModel
	activities ActivitiesModel
	detail     ActivityDetailModel
	compare    ComparisonModel
	records    RecordsModel
	ftp        FTPModel
	syncScreen SyncModel
	help       HelpModel

	// Services
	queryService *service.QueryService
	syncService  *service.SyncService

	// Window dimensions
	width  int
	height int
}

// NewApp creates the root model with all screens wired to the services.
func NewApp(syncService *service.SyncService, queryService *service.QueryService) *App {
	return &App{
		screen:       ScreenDashboard,
		queryService: queryService,
		syncService:  syncService,
		dashboard:    NewDashboardModel(queryService),
		activities:   NewActivitiesModel(queryService),
		records:      NewRecordsModel(queryService, 0, 0),
		ftp:          NewFTPModel(queryService, 0, 0),
		syncScreen:   NewSyncModel(syncService),
		help:         NewHelpModel(),
	}
}

// Init initializes the app
func (a *App) Init() tea.Cmd {
	return a.dashboard.Init()
}

// Update handles messages
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Global keybindings (unless a sync is running)
		if a.screen != ScreenSync || !a.syncScreen.syncing {
			switch msg.String() {
			case "q", "ctrl+c":
				return a, tea.Quit
			case "1":
				a.screen = ScreenDashboard
				a.dashboard = NewDashboardModel(a.queryService)
				return a, a.dashboard.Init()
			case "2":
				a.screen = ScreenActivities
				return a, a.activities.Init()
			case "3":
				a.screen = ScreenRecords
				a.records = NewRecordsModel(a.queryService, a.width, a.height)
				return a, a.records.Init()
			case "4":
				a.screen = ScreenFTP
				a.ftp = NewFTPModel(a.queryService, a.width, a.height)
				return a, a.ftp.Init()
			case "5", "s":
				if a.screen != ScreenSync {
					a.screen = ScreenSync
					return a, a.syncScreen.Init()
				}
				// Let 's' fall through to the sync screen when already there
			case "?":
				a.prevScreen = a.screen
				a.screen = ScreenHelp
				return a, nil
			case "esc":
				switch a.screen {
				case ScreenHelp:
					a.screen = a.prevScreen
					return a, nil
				case ScreenDetail, ScreenCompare:
					a.screen = ScreenActivities
					return a, nil
				}
			}
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height

	case OpenActivityDetailMsg:
		a.screen = ScreenDetail
		a.detail = NewActivityDetailModel(a.queryService, msg.ActivityID, a.width, a.height)
		return a, a.detail.Init()

	case OpenComparisonMsg:
		a.screen = ScreenCompare
		a.compare = NewComparisonModel(a.queryService, msg.IDA, msg.IDB)
		return a, a.compare.Init()
	}

	// Delegate to current screen
	var cmd tea.Cmd
	switch a.screen {
	case ScreenDashboard:
		var m tea.Model
		m, cmd = a.dashboard.Update(msg)
		a.dashboard = m.(DashboardModel)
	case ScreenActivities:
		var m tea.Model
		m, cmd = a.activities.Update(msg)
		a.activities = m.(ActivitiesModel)
	case ScreenDetail:
		var m tea.Model
		m, cmd = a.detail.Update(msg)
		a.detail = m.(ActivityDetailModel)
	case ScreenCompare:
		var m tea.Model
		m, cmd = a.compare.Update(msg)
		a.compare = m.(ComparisonModel)
	case ScreenRecords:
		var m tea.Model
		m, cmd = a.records.Update(msg)
		a.records = m.(RecordsModel)
	case ScreenFTP:
		var m tea.Model
		m, cmd = a.ftp.Update(msg)
		a.ftp = m.(FTPModel)
	case ScreenSync:
		var m tea.Model
		m, cmd = a.syncScreen.Update(msg)
		a.syncScreen = m.(SyncModel)
	case ScreenHelp:
		var m tea.Model
		m, cmd = a.help.Update(msg)
		a.help = m.(HelpModel)
	}

	return a, cmd
}

// View renders the app
func (a *App) View() string {
	header := a.renderHeader()
	nav := a.renderNav()

	var content string
	switch a.screen {
	case ScreenDashboard:
		content = a.dashboard.View()
	case ScreenActivities:
		content = a.activities.View()
	case ScreenDetail:
		content = a.detail.View()
	case ScreenCompare:
		content = a.compare.View()
	case ScreenRecords:
		content = a.records.View()
	case ScreenFTP:
		content = a.ftp.View()
	case ScreenSync:
		content = a.syncScreen.View()
	case ScreenHelp:
		content = a.help.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, nav, content)
}

func (a *App) renderHeader() string {
	return headerStyle.Render("Garmin Cycling Analyzer")
}

func (a *App) renderNav() string {
	items := []struct {
		key    string
		label  string
		screen Screen
	}{
		{"1", "Dashboard", ScreenDashboard},
		{"2", "Activities", ScreenActivities},
		{"3", "Records", ScreenRecords},
		{"4", "FTP", ScreenFTP},
		{"5", "Sync", ScreenSync},
		{"?", "Help", ScreenHelp},
	}

	// Detail and comparison are children of the activities screen
	current := a.screen
	if current == ScreenDetail || current == ScreenCompare {
		current = ScreenActivities
	}

	var nav string
	for i, item := range items {
		if i > 0 {
			nav += "  "
		}

		label := "[" + item.key + "] " + item.label
		if current == item.screen {
			nav += navActiveStyle.Render(label)
		} else {
			nav += navInactiveStyle.Render(label)
		}
	}

	nav += "  " + navInactiveStyle.Render("[q] Quit")

	return navStyle.Render(nav)
}
