package cli

import (
	"fmt"

	"garmin-fitness/internal/service"
	"garmin-fitness/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// runTUI starts the interactive terminal UI. It is the root command's
// action, so a bare `garmin-fitness` lands here.
func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil || cfg == nil {
		return err
	}

	db, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	// Garmin access is optional: without credentials the UI still
	// browses local data, and the sync screen reports what is missing.
	// Any OAuth prompt runs here, before the alt screen takes over.
	var source service.ActivitySource
	if cfg.ValidateGarmin() == nil {
		client, err := newGarminClient(cmd.Context(), db, cfg)
		if err != nil {
			return err
		}
		source = client
	}

	syncSvc := service.NewSyncService(source, db, cfg)
	querySvc := service.NewQueryService(db, cfg.Athlete)

	app := tui.NewApp(syncSvc, querySvc)
	if _, err := tea.NewProgram(app, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}
