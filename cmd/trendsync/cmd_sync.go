package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"trendsync/internal/publicdata"
	"trendsync/internal/trends"
)

var (
	syncRegion  string
	syncLimit   int
	syncReplace string
)

// syncCmd refreshes one region from the public data APIs
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Refresh a region's trend keywords from the public data APIs",
	Long: `Resolve the region's area codes, aggregate vendor category labels across
them and store the top keywords.

Examples:
  trendsync sync --region 강남구
  trendsync sync --region 강남구 --limit 30
  trendsync sync --region 강남구 --replace false`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		replace, err := parseReplace(syncReplace)
		if err != nil {
			return err
		}
		if err := cfg.ValidatePublicData(); err != nil {
			return err
		}

		ctx := cmd.Context()
		database, err := openDB(ctx)
		if err != nil {
			return err
		}
		defer database.Close()

		client, err := publicdata.NewFromConfig(cfg, regions)
		if err != nil {
			return err
		}

		res, err := trends.NewSyncer(client, database).Sync(ctx, trends.Request{
			Region:  syncRegion,
			Limit:   syncLimit,
			Replace: replace,
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(res.AreaCodes) == 0 {
			fmt.Fprintf(out, "[%s] no area codes resolved, nothing written\n", res.Region)
			return nil
		}
		fmt.Fprintf(out, "[%s] upserted=%d, keywords=%v\n", res.Region, res.Upserted, res.Keywords)
		return nil
	},
}

func init() {
	syncCmd.Flags().StringVar(&syncRegion, "region", "", "region name (e.g. 강남구)")
	syncCmd.Flags().IntVar(&syncLimit, "limit", trends.DefaultAreaCodeLimit, "maximum number of area codes")
	syncCmd.Flags().StringVar(&syncReplace, "replace", "true", "true replaces the region's rows, false accumulates")
	syncCmd.MarkFlagRequired("region")
}

// parseReplace reads the --replace value. It takes a separate argument
// ("--replace false") so cumulative mode is never silently ignored.
func parseReplace(v string) (bool, error) {
	replace, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return false, fmt.Errorf("invalid --replace value %q: want true or false", v)
	}
	return replace, nil
}
