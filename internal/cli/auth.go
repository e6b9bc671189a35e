package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var authLogout bool

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authenticate with Garmin Connect",
	Long: `Runs the OAuth authorization flow against Garmin Connect and stores
the resulting tokens in the local database. Requires garmin.client_id
and garmin.client_secret in the config file.`,
	Args: cobra.NoArgs,
	RunE: runAuth,
}

func init() {
	authCmd.Flags().BoolVar(&authLogout, "logout", false, "delete the stored tokens instead of signing in")
	RootCmd.AddCommand(authCmd)
}

func runAuth(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil || cfg == nil {
		return err
	}

	if authLogout {
		db, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := db.DeleteAuth(); err != nil {
			return fmt.Errorf("deleting stored tokens: %w", err)
		}
		fmt.Println("Stored Garmin Connect tokens deleted.")
		return nil
	}

	if err := cfg.ValidateGarmin(); err != nil {
		return err
	}

	db, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	return authenticate(cmd.Context(), db, cfg)
}
