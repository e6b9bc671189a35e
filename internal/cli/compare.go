package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"garmin-fitness/internal/service"
)

var compareCmd = &cobra.Command{
	Use:   "compare <activity-id> <activity-id>",
	Short: "Compare two activities side by side",
	Args:  cobra.ExactArgs(2),
	RunE:  runCompare,
}

func init() {
	RootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	idA, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid activity id %q", args[0])
	}
	idB, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid activity id %q", args[1])
	}

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
	comp, err := querySvc.CompareActivities(idA, idB)
	if err != nil {
		return err
	}

	printComparison(comp)
	return nil
}

func printComparison(comp *service.ActivityComparison) {
	a, b := comp.A, comp.B

	colors.Title.Printf("%s  vs  %s\n", a.Activity.Name, b.Activity.Name)
	fmt.Printf("%s  vs  %s\n\n",
		a.Activity.StartTimeLocal.Format("Jan 02, 2006"),
		b.Activity.StartTimeLocal.Format("Jan 02, 2006"))

	// The delta column goes last and unpadded: colored strings carry
	// escape codes that break width formatting.
	row := func(label, va, vb, delta string) {
		fmt.Printf("  %-12s %12s %12s   %s\n", label, va, vb, delta)
	}

	row("", "A", "B", "delta")
	row("Distance",
		formatKM(a.Activity.Distance),
		formatKM(b.Activity.Distance),
		formatDelta(comp.DeltaDistance, "%+.1f km"))
	row("Duration",
		formatDuration(a.Activity.Duration),
		formatDuration(b.Activity.Duration),
		formatDelta(comp.DeltaDuration/60, "%+.0f min"))
	row("Avg Power",
		metric(a.Metrics.AvgPower, "%.0f W"),
		metric(b.Metrics.AvgPower, "%.0f W"),
		formatDelta(comp.DeltaAvgPower, "%+.0f W"))
	row("Norm Power",
		metric(a.Metrics.NormalizedPower, "%.0f W"),
		metric(b.Metrics.NormalizedPower, "%.0f W"),
		formatDelta(comp.DeltaNP, "%+.0f W"))
	row("IF",
		metric(a.Metrics.IntensityFactor, "%.2f"),
		metric(b.Metrics.IntensityFactor, "%.2f"),
		formatDelta(comp.DeltaIF, "%+.2f"))
	row("TSS",
		metric(a.Metrics.TrainingStressScore, "%.1f"),
		metric(b.Metrics.TrainingStressScore, "%.1f"),
		formatDelta(comp.DeltaTSS, "%+.1f"))
	row("Avg HR",
		metric(a.Metrics.AvgHR, "%.0f bpm"),
		metric(b.Metrics.AvgHR, "%.0f bpm"),
		formatDelta(comp.DeltaAvgHR, "%+.0f bpm"))
	row("EF",
		metric(a.Metrics.EfficiencyFactor, "%.2f"),
		metric(b.Metrics.EfficiencyFactor, "%.2f"),
		formatDelta(comp.DeltaEF, "%+.2f"))
}
