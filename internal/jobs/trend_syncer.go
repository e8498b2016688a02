package jobs

import (
	"context"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"
)

// RegionSyncer syncs one region.
type RegionSyncer interface {
	SyncRegion(ctx context.Context, region string, limit int, replace bool) (int, error)
}

// TrendSyncer periodically syncs trend keywords for a fixed region list.
type TrendSyncer struct {
	syncer   RegionSyncer
	schedule string
	regions  []string
	limit    int
	replace  bool
}

// NewTrendSyncer creates a new scheduled trend syncer.
func NewTrendSyncer(syncer RegionSyncer, schedule string, regions []string, limit int, replace bool) *TrendSyncer {
	return &TrendSyncer{
		syncer:   syncer,
		schedule: schedule,
		regions:  regions,
		limit:    limit,
		replace:  replace,
	}
}

// Start schedules the sync and blocks until ctx is done. A run still in
// progress when the next one is due causes that one to be skipped.
func (t *TrendSyncer) Start(ctx context.Context) error {
	c := cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger), cron.SkipIfStillRunning(cron.DefaultLogger)))
	if _, err := c.AddFunc(t.schedule, func() { t.syncAll(ctx) }); err != nil {
		return fmt.Errorf("invalid trend sync schedule %q: %w", t.schedule, err)
	}

	log.Printf("Trend syncer started (schedule: %s, regions: %v, replace: %v)", t.schedule, t.regions, t.replace)
	c.Start()

	<-ctx.Done()
	<-c.Stop().Done()
	log.Println("Trend syncer stopped")
	return nil
}

// syncAll syncs every configured region in order.
func (t *TrendSyncer) syncAll(ctx context.Context) {
	for _, region := range t.regions {
		// Check context before each region
		select {
		case <-ctx.Done():
			return
		default:
		}

		n, err := t.syncer.SyncRegion(ctx, region, t.limit, t.replace)
		if err != nil {
			log.Printf("Trend syncer: failed to sync %s: %v", region, err)
			continue
		}
		log.Printf("Trend syncer: [%s] upserted=%d", region, n)
	}
}
