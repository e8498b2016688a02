package db

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/text/cases"

	"trendsync/internal/models"
)

// RegionChange moves one row from an alias region to its canonical name.
type RegionChange struct {
	ID      uuid.UUID
	Keyword string
	From    string
	To      string
}

// NormalizationPlan lists what a region normalization would do.
type NormalizationPlan struct {
	Scanned int
	// Updates are rows renamed to the canonical region.
	Updates []RegionChange
	// Merges are rows deleted because the canonical (region, keyword) exists.
	Merges  []RegionChange
	Skipped int
}

// NormalizationResult reports what was applied.
type NormalizationResult struct {
	Plan    NormalizationPlan
	Updated int
	Deleted int
}

// PlanRegionNormalization works out how rows stored under alias region names
// move to their canonical names. With casefold, regions and keywords compare
// after trimming and Unicode case folding.
func PlanRegionNormalization(rows []models.TrendKeyword, aliases map[string]string, casefold bool) NormalizationPlan {
	norm := func(s string) string {
		s = strings.TrimSpace(s)
		if casefold {
			return cases.Fold().String(s)
		}
		return s
	}
	key := func(region, keyword string) string {
		return norm(region) + "\x00" + norm(keyword)
	}

	existing := make(map[string]bool, len(rows))
	for _, r := range rows {
		existing[key(r.Region, r.Keyword)] = true
	}

	aliasNames := make([]string, 0, len(aliases))
	for alias := range aliases {
		aliasNames = append(aliasNames, alias)
	}
	sort.Strings(aliasNames)

	plan := NormalizationPlan{Scanned: len(rows)}
	for _, alias := range aliasNames {
		canonical := aliases[alias]
		for _, r := range rows {
			if casefold {
				if norm(r.Region) != norm(alias) {
					continue
				}
			} else if r.Region != alias {
				continue
			}

			if norm(r.Region) == norm(canonical) {
				plan.Skipped++
				continue
			}

			change := RegionChange{ID: r.ID, Keyword: r.Keyword, From: r.Region, To: canonical}
			target := key(canonical, r.Keyword)
			if existing[target] {
				plan.Merges = append(plan.Merges, change)
				continue
			}
			plan.Updates = append(plan.Updates, change)
			existing[target] = true
		}
	}
	return plan
}

// NormalizeRegions renames alias regions to their canonical names and drops
// rows that would duplicate an existing (region, keyword). With dryRun the
// plan is returned without touching the table. Safe to run repeatedly.
func (d *DB) NormalizeRegions(ctx context.Context, aliases map[string]string, casefold, dryRun bool) (*NormalizationResult, error) {
	rows, err := d.GetAllTrendKeywords(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load trend keywords: %w", err)
	}

	res := &NormalizationResult{Plan: PlanRegionNormalization(rows, aliases, casefold)}
	if dryRun {
		return res, nil
	}

	err = pgx.BeginFunc(ctx, d.Pool, func(tx pgx.Tx) error {
		for _, m := range res.Plan.Merges {
			tag, err := tx.Exec(ctx, `DELETE FROM trend_keywords WHERE id = $1`, m.ID)
			if err != nil {
				return fmt.Errorf("failed to merge %s: %w", m.ID, err)
			}
			res.Deleted += int(tag.RowsAffected())
		}

		for _, u := range res.Plan.Updates {
			tag, err := tx.Exec(ctx, `
				UPDATE trend_keywords SET region = $2, updated_at = NOW()
				WHERE id = $1 AND NOT EXISTS (
					SELECT 1 FROM trend_keywords WHERE region = $2 AND keyword = $3
				)
			`, u.ID, u.To, u.Keyword)
			if err != nil {
				return fmt.Errorf("failed to update %s: %w", u.ID, err)
			}
			if tag.RowsAffected() == 1 {
				res.Updated++
				continue
			}

			// The canonical row appeared since planning.
			tag, err = tx.Exec(ctx, `DELETE FROM trend_keywords WHERE id = $1`, u.ID)
			if err != nil {
				return fmt.Errorf("failed to merge %s: %w", u.ID, err)
			}
			res.Deleted += int(tag.RowsAffected())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}
