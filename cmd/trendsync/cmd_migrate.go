package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// migrateCmd applies the embedded migrations
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		database, err := openDB(cmd.Context())
		if err != nil {
			return err
		}
		database.Close()
		fmt.Fprintln(cmd.OutOrStdout(), "Migrations completed successfully")
		return nil
	},
}
