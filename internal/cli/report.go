package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"garmin-fitness/internal/service"
)

var reportCmd = &cobra.Command{
	Use:   "report <activity-id>",
	Short: "Print the full analysis of one activity",
	Args:  cobra.ExactArgs(1),
	RunE:  runReport,
}

func init() {
	RootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid activity id %q", args[0])
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
	detail, err := querySvc.GetActivityDetail(id)
	if err != nil {
		return err
	}
	records, err := querySvc.GetActivityPowerRecords(id)
	if err != nil {
		return err
	}

	printReport(detail, records)
	return nil
}

func printReport(detail *service.ActivityDetail, records []service.PowerRecordDisplay) {
	a := detail.Activity.Activity
	m := detail.Activity.Metrics

	colors.Title.Println(a.Name)
	fmt.Printf("%s, %s\n\n", a.StartTimeLocal.Format("Mon Jan 02, 2006 15:04"), a.Type)

	fmt.Printf("  %-18s %s\n", "Distance", formatKM(a.Distance))
	fmt.Printf("  %-18s %s\n", "Duration", formatDuration(a.Duration))
	fmt.Printf("  %-18s %s\n", "Avg Power", metric(m.AvgPower, "%.0f W"))
	fmt.Printf("  %-18s %s\n", "Normalized Power", metric(m.NormalizedPower, "%.0f W"))
	fmt.Printf("  %-18s %s\n", "Intensity Factor", metric(m.IntensityFactor, "%.2f"))
	fmt.Printf("  %-18s %s\n", "TSS", metric(m.TrainingStressScore, "%.1f"))
	fmt.Printf("  %-18s %s\n", "Variability Index", metric(m.VariabilityIndex, "%.2f"))
	fmt.Printf("  %-18s %s\n", "Avg HR", metric(m.AvgHR, "%.0f bpm"))
	fmt.Printf("  %-18s %s\n", "Efficiency Factor", metric(m.EfficiencyFactor, "%.2f"))
	fmt.Printf("  %-18s %s\n", "Decoupling", metric(m.Decoupling, "%.1f%%"))
	fmt.Printf("  %-18s %s (%d samples)\n", "Data Quality", detail.DataQuality, detail.SampleCount)

	if len(detail.Zones) > 0 {
		fmt.Println()
		colors.Section.Println("Power zones")
		for _, z := range detail.Zones {
			bounds := fmt.Sprintf("%.0f-%.0f W", z.MinWatts, z.MaxWatts)
			if z.MaxWatts == 0 {
				bounds = fmt.Sprintf("%.0f+ W", z.MinWatts)
			}
			fmt.Printf("  Z%d %-16s %-12s %8s %6.1f%%\n",
				z.Zone, z.Name, bounds, formatDuration(z.Time.Seconds()), z.Pct)
		}
	}

	if d := detail.Distribution; d != nil {
		fmt.Println()
		colors.Section.Println("Power distribution")
		fmt.Printf("  mean %.0f W, p25 %.0f, p50 %.0f, p75 %.0f, p95 %.0f, max %.0f\n",
			d.Mean, d.P25, d.P50, d.P75, d.P95, d.Max)
	}

	if len(records) > 0 {
		fmt.Println()
		colors.Section.Println("Peak power")
		for _, r := range records {
			fmt.Printf("  %-8s %8s %12s   HR %s\n", r.CategoryLabel, r.Watts, r.WKg, r.AvgHR)
		}
	}
}
