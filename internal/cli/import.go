package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"garmin-fitness/internal/service"
)

var importCmd = &cobra.Command{
	Use:   "import <file.fit>",
	Short: "Import a local FIT file",
	Long: `Parses a FIT file from disk, stores the activity and its samples, and
computes power metrics. Useful for activities recorded on head units
that never reached Garmin Connect.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	RootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil || cfg == nil {
		return err
	}

	db, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	syncSvc := service.NewSyncService(nil, db, cfg)
	activity, err := syncSvc.ImportFile(args[0])
	if err != nil {
		return err
	}

	colors.Positive.Printf("Imported %s\n", activity.Name)
	fmt.Printf("  ID:        %d\n", activity.ActivityID)
	fmt.Printf("  Date:      %s\n", activity.StartTimeLocal.Format("Jan 02, 2006 15:04"))
	fmt.Printf("  Type:      %s\n", activity.Type)
	fmt.Printf("  Distance:  %s\n", formatKM(activity.Distance))
	fmt.Printf("  Duration:  %s\n", formatDuration(activity.Duration))
	fmt.Printf("\nRun 'garmin-fitness report %d' for the full analysis.\n", activity.ActivityID)
	return nil
}
