package db

import (
	"context"
	"fmt"
	"sort"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"

	"trendsync/internal/models"
	"trendsync/migrations"
)

// DB wraps a pgxpool connection pool.
type DB struct {
	Pool *pgxpool.Pool
}

// New creates a new database connection pool.
func New(ctx context.Context, connString string) (*DB, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{Pool: pool}, nil
}

// RunMigrations runs all embedded SQL migrations.
func (d *DB) RunMigrations(connString string) error {
	sourceDriver, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", sourceDriver, connString)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("migration failed: %w", err)
	}

	return nil
}

// Ping checks the database is reachable.
func (d *DB) Ping(ctx context.Context) error {
	return d.Pool.Ping(ctx)
}

// Close closes the connection pool.
func (d *DB) Close() {
	d.Pool.Close()
}

// SeedDevTrendKeywords inserts development trend keywords. Skips rows that
// already exist and returns how many were created.
func (d *DB) SeedDevTrendKeywords(ctx context.Context, seed map[string][]string) (int, error) {
	regions := make([]string, 0, len(seed))
	for region := range seed {
		regions = append(regions, region)
	}
	sort.Strings(regions)

	query := `
		INSERT INTO trend_keywords (region, keyword, frequency, source)
		VALUES ($1, $2, 1, $3)
		ON CONFLICT (region, keyword) DO NOTHING
	`

	created := 0
	for _, region := range regions {
		for _, keyword := range seed[region] {
			tag, err := d.Pool.Exec(ctx, query, region, keyword, models.SourceSeed)
			if err != nil {
				return created, fmt.Errorf("failed to seed %s/%s: %w", region, keyword, err)
			}
			created += int(tag.RowsAffected())
		}
	}

	return created, nil
}
