package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"garmin-fitness/internal/service"
)

var (
	listDays  int
	listLimit int
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored activities",
	Long: `Prints the activities in the local database, newest first. The samples
column shows "-" for activities whose FIT file has not been processed
yet; running sync again fills them in.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	listCmd.Flags().IntVar(&listDays, "days", 0, "only show activities started in the last N days")
	listCmd.Flags().IntVarP(&listLimit, "limit", "n", 20, "maximum number of activities to print")
	RootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
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
	inv, err := querySvc.GetActivityInventory(listDays, listLimit)
	if err != nil {
		return err
	}

	if len(inv.Activities) == 0 {
		colors.Warning.Println("No activities stored yet. Run 'garmin-fitness sync' first.")
		return nil
	}

	colors.Section.Printf("%-12s  %-11s  %-9s  %9s  %8s  %-7s  %s\n",
		"Date", "ID", "Type", "Distance", "Duration", "Samples", "Name")
	for _, a := range inv.Activities {
		synced := "-"
		if a.SamplesSynced {
			synced = "yes"
		}
		fmt.Printf("%-12s  %-11d  %-9s  %9s  %8s  %-7s  %s\n",
			a.StartTimeLocal.Format("2006-01-02"), a.ActivityID, a.Type,
			formatKM(a.Distance), formatDuration(a.Duration), synced, a.Name)
	}
	fmt.Printf("\n%d activities stored, %d analyzed\n", inv.Total, inv.Analyzed)
	return nil
}
