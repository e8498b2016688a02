package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"trendsync/internal/models"
	"trendsync/internal/validation"
)

const trendKeywordColumns = `id, region, keyword, frequency, source, created_at, updated_at`

// ReplaceRegion deletes every stored row for region and inserts items, in
// one transaction. Returns the number of rows written.
func (d *DB) ReplaceRegion(ctx context.Context, region string, items []models.KeywordFrequency, source string) (int, error) {
	if err := checkTrendKeywords(region, items); err != nil {
		return 0, err
	}

	tx, err := d.Pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM trend_keywords WHERE region = $1`, region); err != nil {
		return 0, fmt.Errorf("failed to clear region: %w", err)
	}

	// Duplicate keywords in items collapse onto one row, last one wins.
	written := 0
	for _, it := range items {
		tag, err := tx.Exec(ctx, `
			INSERT INTO trend_keywords (region, keyword, frequency, source)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (region, keyword) DO UPDATE
			SET frequency = EXCLUDED.frequency, source = EXCLUDED.source, updated_at = NOW()
		`, region, strings.TrimSpace(it.Keyword), it.Frequency, source)
		if err != nil {
			return 0, fmt.Errorf("failed to insert %q: %w", it.Keyword, err)
		}
		written += int(tag.RowsAffected())
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit: %w", err)
	}
	return written, nil
}

// AccumulateKeywords adds each item's frequency to the stored row, creating
// rows that do not exist. The increment happens inside the upsert, so
// concurrent syncs of the same region do not lose updates.
func (d *DB) AccumulateKeywords(ctx context.Context, region string, items []models.KeywordFrequency, source string) (int, error) {
	if err := checkTrendKeywords(region, items); err != nil {
		return 0, err
	}

	batch := &pgx.Batch{}
	for _, it := range items {
		batch.Queue(`
			INSERT INTO trend_keywords (region, keyword, frequency, source)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (region, keyword) DO UPDATE
			SET frequency = trend_keywords.frequency + EXCLUDED.frequency,
			    source = EXCLUDED.source,
			    updated_at = NOW()
		`, region, strings.TrimSpace(it.Keyword), it.Frequency, source)
	}

	results := d.Pool.SendBatch(ctx, batch)
	defer results.Close()

	written := 0
	for _, it := range items {
		tag, err := results.Exec()
		if err != nil {
			return written, fmt.Errorf("failed to upsert %q: %w", it.Keyword, err)
		}
		written += int(tag.RowsAffected())
	}
	return written, nil
}

// ListTrendKeywords returns the stored rows for exactly region, highest
// frequency first.
func (d *DB) ListTrendKeywords(ctx context.Context, region string) ([]models.TrendKeyword, error) {
	rows, err := d.Pool.Query(ctx, `
		SELECT `+trendKeywordColumns+`
		FROM trend_keywords
		WHERE region = $1
		ORDER BY frequency DESC, created_at DESC, keyword
	`, region)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scanTrendKeyword)
}

// TopTrendKeywords returns up to limit distinct keywords whose region
// contains regionQuery (case-insensitive), by summed frequency then recency.
func (d *DB) TopTrendKeywords(ctx context.Context, regionQuery string, limit int) ([]string, error) {
	rows, err := d.Pool.Query(ctx, `
		SELECT keyword
		FROM trend_keywords
		WHERE region ILIKE '%' || $1 || '%' ESCAPE '\'
		GROUP BY keyword
		ORDER BY SUM(frequency) DESC, MAX(created_at) DESC, keyword
		LIMIT $2
	`, escapeLike(strings.TrimSpace(regionQuery)), limit)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

// GetAllTrendKeywords returns every stored row for metrics export.
func (d *DB) GetAllTrendKeywords(ctx context.Context) ([]models.TrendKeyword, error) {
	rows, err := d.Pool.Query(ctx, `SELECT `+trendKeywordColumns+` FROM trend_keywords ORDER BY region, keyword`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scanTrendKeyword)
}

func scanTrendKeyword(row pgx.CollectableRow) (models.TrendKeyword, error) {
	var k models.TrendKeyword
	err := row.Scan(&k.ID, &k.Region, &k.Keyword, &k.Frequency, &k.Source, &k.CreatedAt, &k.UpdatedAt)
	return k, err
}

func checkTrendKeywords(region string, items []models.KeywordFrequency) error {
	if ok, msg := validation.ValidateRegion(region); !ok {
		return fmt.Errorf("%w: %s", ErrInvalidRegion, msg)
	}
	for _, it := range items {
		if !validation.ValidateKeyword(it.Keyword) {
			return fmt.Errorf("%w: %q", ErrInvalidKeyword, it.Keyword)
		}
		if it.Frequency < 1 {
			return fmt.Errorf("%w: %q has %d", ErrInvalidFrequency, it.Keyword, it.Frequency)
		}
	}
	return nil
}

// escapeLike escapes LIKE wildcards so the query matches literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
