package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"trendsync/internal/config"
	"trendsync/internal/db"
	"trendsync/internal/handlers/api"
	"trendsync/internal/jobs"
	"trendsync/internal/metrics"
	"trendsync/internal/publicdata"
	"trendsync/internal/server"
	"trendsync/internal/trends"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()

	regions, err := config.LoadRegions(cfg.RegionsFile)
	if err != nil {
		log.Fatalf("Failed to load regions: %v", err)
	}

	// Initialize database
	database, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	// Run migrations
	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Migrations completed successfully")

	if cfg.IsDev() {
		n, err := database.SeedDevTrendKeywords(ctx, regions.Seed)
		if err != nil {
			log.Printf("Warning: failed to seed trend keywords: %v", err)
		} else if n > 0 {
			log.Printf("Seeded %d development trend keywords", n)
		}
	}

	metrics.Init(database)

	// The sync endpoint and the scheduled job both need the public data keys.
	var syncer *trends.Syncer
	if err := cfg.ValidatePublicData(); err != nil {
		log.Printf("Public data sync disabled: %v", err)
	} else {
		client, err := publicdata.NewFromConfig(cfg, regions)
		if err != nil {
			log.Fatalf("Failed to create public data client: %v", err)
		}
		syncer = trends.NewSyncer(client, database)
	}

	srv := server.New(cfg)
	var apiSyncer api.RegionSyncer
	if syncer != nil {
		apiSyncer = syncer
	}
	srv.RegisterRoutes(database, apiSyncer)

	if cfg.TrendSyncSchedule != "" {
		if syncer == nil {
			log.Fatal("TREND_SYNC_SCHEDULE is set but public data credentials are missing")
		}
		if len(cfg.TrendSyncRegions) == 0 {
			log.Fatal("TREND_SYNC_SCHEDULE is set but TREND_SYNC_REGIONS is empty")
		}
		job := jobs.NewTrendSyncer(syncer, cfg.TrendSyncSchedule, cfg.TrendSyncRegions, cfg.TrendSyncLimit, cfg.TrendSyncReplace)
		go func() {
			if err := job.Start(ctx); err != nil {
				log.Fatalf("Trend syncer error: %v", err)
			}
		}()
	}

	// Graceful shutdown
	go func() {
		if err := srv.Start(); err != nil {
			log.Printf("Server error: %v", err)
			stop()
		}
	}()

	log.Printf("Server started on %s", cfg.ServerAddr)

	<-ctx.Done()

	log.Println("Shutting down server...")
	if err := srv.Shutdown(); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exited")
}
