package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"garmin-fitness/internal/export"
	"garmin-fitness/internal/service"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export <activity-id>",
	Short: "Export an activity's samples to a parquet file",
	Long: `Writes the second-by-second power and heart rate samples of an
activity to a parquet file. Samples that were never recorded are
written as nulls, not zeros.`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output path (default activity_<id>.parquet)")
	RootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
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
	samples, err := querySvc.GetActivitySamples(id)
	if err != nil {
		return err
	}

	path := exportOutput
	if path == "" {
		path = fmt.Sprintf("activity_%d.parquet", id)
	}

	if err := export.WriteActivityFile(path, id, samples); err != nil {
		return err
	}

	if len(samples) == 0 {
		colors.Warning.Printf("No samples stored for activity %d; the file is empty.\n", id)
	}
	fmt.Printf("Wrote %d samples to %s\n", len(samples), path)
	return nil
}
