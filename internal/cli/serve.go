package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"garmin-fitness/internal/config"
	"garmin-fitness/internal/garmin"
	"garmin-fitness/internal/service"
	"garmin-fitness/internal/store"
	"garmin-fitness/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Long: `Serves the FIT upload and activity read API over HTTP. When Garmin
credentials and stored tokens are available, activities are synced in
the background every hour.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	RootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil || cfg == nil {
		return err
	}

	db, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	querySvc := service.NewQueryService(db, cfg.Athlete)
	srv := web.NewServer(cfg.Web, querySvc)

	if c := scheduleSync(ctx, db, cfg); c != nil {
		c.Start()
		defer c.Stop()
	}

	fmt.Printf("Listening on http://%s:%d\n", cfg.Web.Host, cfg.Web.Port)
	return srv.Run(ctx)
}

// scheduleSync sets up the hourly background sync. Returns nil when
// Garmin credentials or stored tokens are missing; the server still
// serves local data without them.
func scheduleSync(ctx context.Context, db *store.DB, cfg *config.Config) *cron.Cron {
	if err := cfg.ValidateGarmin(); err != nil {
		log.Printf("background sync disabled: %v", err)
		return nil
	}
	ts, err := newTokenSource(db, cfg)
	if err != nil {
		log.Printf("background sync disabled: run 'garmin-fitness auth' first (%v)", err)
		return nil
	}

	client := garmin.NewClient(ts, rateLimitInterval(cfg))
	syncSvc := service.NewSyncService(client, db, cfg)

	c := cron.New()
	c.AddFunc("@hourly", func() {
		log.Println("starting scheduled sync")
		result, err := syncSvc.SyncAll(ctx, service.SyncOptions{}, nil)
		if err != nil {
			log.Printf("scheduled sync failed: %v", err)
			return
		}
		log.Printf("scheduled sync done: %d new activities, %d metrics computed, %d errors",
			result.ActivitiesStored, result.MetricsComputed, len(result.Errors))
	})
	return c
}
