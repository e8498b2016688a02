package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	normalizeDryRun      bool
	normalizeCasefold    bool
	normalizeVerboseRows bool
)

// normalizeCmd folds alias region names into canonical ones
var normalizeCmd = &cobra.Command{
	Use:   "normalize",
	Short: "Rename alias regions to canonical names and merge duplicates",
	Long: `Rewrite trend_keywords.region from the aliases in the regions file to their
canonical names. Rows that would duplicate an existing (region, keyword) are
deleted. Safe to run repeatedly.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		database, err := openDB(ctx)
		if err != nil {
			return err
		}
		defer database.Close()

		res, err := database.NormalizeRegions(ctx, regions.Aliases, normalizeCasefold, normalizeDryRun)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if normalizeDryRun {
			fmt.Fprintln(out, "** dry run, nothing written **")
		}
		if normalizeVerboseRows {
			for _, u := range res.Plan.Updates {
				fmt.Fprintf(out, "UPDATE: [%s] '%s' -> [%s]\n", u.From, u.Keyword, u.To)
			}
			for _, m := range res.Plan.Merges {
				fmt.Fprintf(out, "MERGE: [%s] '%s' -> [%s] (duplicate deleted)\n", m.From, m.Keyword, m.To)
			}
		}

		fmt.Fprintf(out, "scanned: %d\n", res.Plan.Scanned)
		fmt.Fprintf(out, "to change: %d\n", len(res.Plan.Updates)+len(res.Plan.Merges))
		fmt.Fprintf(out, "updated: %d\n", res.Updated)
		fmt.Fprintf(out, "merged (deleted): %d\n", res.Deleted)
		fmt.Fprintf(out, "skipped: %d\n", res.Plan.Skipped)
		return nil
	},
}

func init() {
	normalizeCmd.Flags().BoolVar(&normalizeDryRun, "dry-run", false, "print planned changes without writing")
	normalizeCmd.Flags().BoolVar(&normalizeCasefold, "casefold", false, "compare regions ignoring case and surrounding spaces")
	normalizeCmd.Flags().BoolVar(&normalizeVerboseRows, "verbose-rows", false, "print every row change")
}
