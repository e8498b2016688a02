package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// seedCmd loads development trend keywords
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert development trend keywords (safe to re-run)",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		database, err := openDB(ctx)
		if err != nil {
			return err
		}
		defer database.Close()

		n, err := database.SeedDevTrendKeywords(ctx, regions.Seed)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d trend keyword rows\n", n)
		return nil
	},
}
