// Package trends syncs per-region trend keywords from the public data APIs
// into storage.
package trends

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"trendsync/internal/metrics"
	"trendsync/internal/models"
	"trendsync/internal/publicdata"
	"trendsync/internal/validation"
)

// DefaultAreaCodeLimit bounds how many area codes one sync visits.
const DefaultAreaCodeLimit = 50

// ErrEmptyRegion is returned when a sync is requested without a region.
var ErrEmptyRegion = errors.New("region is required")

// Source resolves area codes and per-code keyword frequencies.
type Source interface {
	ResolveAreaCodes(ctx context.Context, region string, limit int) []string
	FetchKeywords(ctx context.Context, areaCode string, rows int) []models.KeywordFrequency
}

// Store persists a region's trend keywords.
type Store interface {
	// ReplaceRegion drops every stored row for region and writes items.
	ReplaceRegion(ctx context.Context, region string, items []models.KeywordFrequency, source string) (int, error)
	// AccumulateKeywords adds each frequency to the stored one, creating
	// rows that do not exist yet.
	AccumulateKeywords(ctx context.Context, region string, items []models.KeywordFrequency, source string) (int, error)
}

// Request describes one sync run.
type Request struct {
	Region  string
	Limit   int
	Replace bool
}

// Result reports what a sync run resolved and wrote.
type Result struct {
	Region    string
	Replace   bool
	AreaCodes []string
	Keywords  []models.KeywordFrequency
	Upserted  int
}

// Syncer runs region syncs.
type Syncer struct {
	source Source
	store  Store
	logger *slog.Logger
}

// NewSyncer creates a syncer.
func NewSyncer(source Source, store Store) *Syncer {
	return &Syncer{
		source: source,
		store:  store,
		logger: slog.Default().With("component", "trends"),
	}
}

// SyncRegion resolves the region, merges keyword frequencies across its area
// codes and persists the top keywords. It returns the number of rows
// created or updated. Upstream failures yield zero with nothing written; only
// storage errors are returned.
func (s *Syncer) SyncRegion(ctx context.Context, region string, limit int, replace bool) (int, error) {
	res, err := s.Sync(ctx, Request{Region: region, Limit: limit, Replace: replace})
	if err != nil {
		return 0, err
	}
	return res.Upserted, nil
}

// Sync is SyncRegion with the intermediate results kept.
func (s *Syncer) Sync(ctx context.Context, req Request) (*Result, error) {
	region := strings.TrimSpace(req.Region)
	if region == "" {
		return nil, ErrEmptyRegion
	}
	limit := req.Limit
	if limit <= 0 {
		limit = DefaultAreaCodeLimit
	}

	res := &Result{Region: region, Replace: req.Replace}

	res.AreaCodes = s.source.ResolveAreaCodes(ctx, region, limit)
	if len(res.AreaCodes) == 0 {
		s.logger.Warn("no area codes resolved, nothing written", "region", region)
		metrics.ObserveSync(req.Replace, metrics.OutcomeEmpty, 0)
		return res, nil
	}

	tally := publicdata.NewTally()
	for _, code := range res.AreaCodes {
		for _, kw := range s.source.FetchKeywords(ctx, code, 0) {
			// One unstorable label must not reject the whole batch.
			if !validation.ValidateKeyword(kw.Keyword) || kw.Frequency < 1 {
				s.logger.Debug("skipping unstorable keyword", "area_code", code, "keyword", kw.Keyword)
				continue
			}
			tally.Add(strings.TrimSpace(kw.Keyword), kw.Frequency)
		}
	}
	res.Keywords = tally.Top(publicdata.TopKeywords)

	// An upstream outage after resolution must not wipe the stored snapshot.
	if len(res.Keywords) == 0 {
		s.logger.Warn("no keywords collected, nothing written", "region", region, "area_codes", len(res.AreaCodes))
		metrics.ObserveSync(req.Replace, metrics.OutcomeEmpty, 0)
		return res, nil
	}

	var err error
	if req.Replace {
		res.Upserted, err = s.store.ReplaceRegion(ctx, region, res.Keywords, models.SourcePublic)
	} else {
		res.Upserted, err = s.store.AccumulateKeywords(ctx, region, res.Keywords, models.SourcePublic)
	}
	if err != nil {
		metrics.ObserveSync(req.Replace, metrics.OutcomeError, 0)
		return nil, fmt.Errorf("failed to store trend keywords for %s: %w", region, err)
	}

	metrics.ObserveSync(req.Replace, metrics.OutcomeOK, res.Upserted)
	s.logger.Info("region synced",
		"region", region,
		"replace", req.Replace,
		"area_codes", len(res.AreaCodes),
		"upserted", res.Upserted,
	)
	return res, nil
}
