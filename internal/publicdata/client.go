// Package publicdata talks to the government open-data APIs: the
// administrative-code lookup (area codes for a region) and the vendor listing
// directory (business category labels per area code).
//
// Every upstream failure degrades to an empty result at the most local point;
// nothing in this package returns an upstream error to its callers.
package publicdata

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/time/rate"

	"trendsync/internal/config"
)

// ClientConfig configures both upstream APIs.
type ClientConfig struct {
	LookupURL string // administrative-code lookup endpoint
	LookupKey string

	VendorURL     string // vendor listing endpoint
	VendorKey     string
	AreaCodeParam string // vendor parameter carrying the area code
	DivID         string // optional vendor divId parameter

	PageSize     int // lookup page size
	MaxScanPages int // page-scan bound for the fallback resolution
	VendorRows   int

	VendorBodyPaths   []string
	VendorLabelFields []string

	// RequestsPerSecond throttles upstream calls; zero disables throttling.
	RequestsPerSecond float64
}

// Client resolves area codes and aggregates vendor keywords.
type Client struct {
	getter  Getter
	cfg     ClientConfig
	regions *RegionNormalizer
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewClient creates a client over an arbitrary Getter.
func NewClient(getter Getter, cfg ClientConfig, regions *RegionNormalizer) *Client {
	if cfg.PageSize <= 0 {
		cfg.PageSize = 1000
	}
	if cfg.MaxScanPages <= 0 {
		cfg.MaxScanPages = 30
	}
	if cfg.VendorRows <= 0 {
		cfg.VendorRows = 1000
	}
	if cfg.AreaCodeParam == "" {
		cfg.AreaCodeParam = "key"
	}
	cfg.LookupKey = NormalizeCredential(cfg.LookupKey)
	cfg.VendorKey = NormalizeCredential(cfg.VendorKey)

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}

	return &Client{
		getter:  getter,
		cfg:     cfg,
		regions: regions,
		limiter: limiter,
		logger:  slog.Default().With("component", "publicdata"),
	}
}

// NewFromConfig wires the pinned-TLS transport, the curl fallback and the
// lookup tables from application configuration.
func NewFromConfig(cfg *config.Config, regions *config.RegionsConfig) (*Client, error) {
	version, err := cfg.TLSVersion()
	if err != nil {
		return nil, err
	}

	timeout := cfg.LawdAPITimeout
	if cfg.PublicAPITimeout > timeout {
		timeout = cfg.PublicAPITimeout
	}

	primary, err := NewHTTPGetter(TransportConfig{
		TLSVersion: version,
		CAFile:     cfg.PublicAPICAFile,
		Timeout:    timeout,
		MaxRetries: cfg.PublicAPIMaxRetries,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create transport: %w", err)
	}

	getter := &FallbackGetter{Primary: primary}
	if cfg.CurlPath != "" {
		getter.Fallback = NewCurlGetter(cfg.CurlPath, timeout, cfg.PublicAPIMaxRetries)
	}

	return NewClient(getter, ClientConfig{
		LookupURL:         cfg.LawdAPIURL,
		LookupKey:         cfg.LawdAPIKey,
		VendorURL:         strings.TrimRight(cfg.PublicAPIBase, "/") + "/storeListInDong",
		VendorKey:         cfg.PublicAPIKey,
		AreaCodeParam:     cfg.SDSCParamKeyName,
		DivID:             cfg.SDSCDivID,
		PageSize:          cfg.AreaCodePageSize,
		MaxScanPages:      cfg.AreaCodeMaxPages,
		VendorRows:        cfg.VendorRows,
		VendorBodyPaths:   regions.VendorBodyPaths,
		VendorLabelFields: regions.VendorLabelFields,
		RequestsPerSecond: cfg.PublicAPIRPS,
	}, NewRegionNormalizer(regions.Metro, regions.Districts)), nil
}

// wait blocks on the upstream throttle. It returns false if ctx ends first.
func (c *Client) wait(ctx context.Context) bool {
	if c.limiter == nil {
		return ctx.Err() == nil
	}
	return c.limiter.Wait(ctx) == nil
}
