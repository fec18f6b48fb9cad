package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Taichi-iskw/yt-harvest/internal/config"
)

// dbCmd represents the db command
var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the harvest run database",
}

// dbMigrateCmd applies the embedded schema migrations
var dbMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	Long:  `Create or upgrade the harvest_runs and harvest_records tables in the configured PostgreSQL database.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.NewConfig()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		version, err := cfg.MigrateDatabase()
		if err != nil {
			return err
		}

		logger.Debug().Uint("version", version).Msg("migrations applied")
		fmt.Fprintf(cmd.OutOrStdout(), "Database schema at version %d\n", version)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dbCmd)
	dbCmd.AddCommand(dbMigrateCmd)
}
