package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"garmin-fitness/internal/service"
)

var (
	syncFull bool
	syncType string
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync activities from Garmin Connect",
	Long: `Fetches new activities from Garmin Connect, downloads their FIT files
and computes power metrics. By default only activities since the last
sync are listed; --full lists everything.`,
	Args: cobra.NoArgs,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().BoolVar(&syncFull, "full", false, "list all activities instead of only those since the last sync")
	syncCmd.Flags().StringVar(&syncType, "type", "", `only sync activities of the given type, e.g. "cycling"`)
	RootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
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

	client, err := newGarminClient(ctx, db, cfg)
	if err != nil {
		return err
	}

	syncSvc := service.NewSyncService(client, db, cfg)

	progress := make(chan service.SyncProgress)
	done := make(chan struct{})
	go func() {
		defer close(done)
		reportProgress(progress)
	}()

	result, err := syncSvc.SyncAll(ctx, service.SyncOptions{Full: syncFull, ActivityType: syncType}, progress)
	<-done
	if err != nil {
		return err
	}

	printSyncResult(result)
	return nil
}

// reportProgress prints a header per phase and a counter per activity.
func reportProgress(progress <-chan service.SyncProgress) {
	var phase string
	for p := range progress {
		if p.Phase != phase {
			phase = p.Phase
			switch phase {
			case "activities":
				fmt.Println("Listing activities...")
			case "download":
				fmt.Println("Downloading FIT files...")
			case "metrics":
				fmt.Println("Computing metrics...")
			}
		}
		if p.CurrentActivity != "" {
			fmt.Printf("  [%d/%d] %s\n", p.Completed+1, p.Total, p.CurrentActivity)
		}
	}
}

func printSyncResult(result *service.SyncResult) {
	fmt.Println()
	colors.Title.Println("Sync complete")
	fmt.Printf("  Activities fetched:  %d\n", result.ActivitiesFetched)
	fmt.Printf("  New activities:      %d\n", result.ActivitiesStored)
	fmt.Printf("  FIT files:           %d\n", result.FilesDownloaded)
	fmt.Printf("  Metrics computed:    %d\n", result.MetricsComputed)
	fmt.Printf("  Power records:       %d\n", result.RecordsComputed)
	fmt.Printf("  FTP estimates:       %d\n", result.FTPEstimates)

	if len(result.Errors) > 0 {
		colors.Negative.Printf("  Errors:              %d\n", len(result.Errors))
		for _, e := range result.Errors {
			colors.Negative.Printf("    %v\n", e)
		}
	}
}
