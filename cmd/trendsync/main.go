package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"trendsync/internal/config"
	"trendsync/internal/db"
)

var (
	cfg     *config.Config
	regions *config.RegionsConfig
)

// rootCmd is the trendsync maintenance CLI
var rootCmd = &cobra.Command{
	Use:   "trendsync",
	Short: "Trend keyword sync and maintenance",
	Long: `Sync per-region trend keywords from the public data APIs and maintain
the trend_keywords table.

Configuration is read from the environment (and .env when present).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg = config.Load()
		r, err := config.LoadRegions(cfg.RegionsFile)
		if err != nil {
			return err
		}
		regions = r
		return nil
	},
}

func init() {
	rootCmd.AddCommand(syncCmd, normalizeCmd, seedCmd, migrateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// openDB connects and migrates the database.
func openDB(ctx context.Context) (*db.DB, error) {
	database, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return database, nil
}
