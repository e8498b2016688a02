package metrics

import (
	"context"
	"log/slog"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"trendsync/internal/models"
)

// Transport and outcome label values
const (
	TransportPrimary  = "primary"
	TransportFallback = "fallback"

	OutcomeOK    = "ok"
	OutcomeError = "error"
	OutcomeEmpty = "empty"
)

var (
	publicDataRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trendsync_public_data_requests_total",
			Help: "Upstream public data requests by transport and outcome",
		},
		[]string{"transport", "outcome"},
	)

	syncRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trendsync_region_syncs_total",
			Help: "Region sync runs by mode and outcome",
		},
		[]string{"mode", "outcome"},
	)

	syncUpserts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "trendsync_keywords_upserted_total",
			Help: "Trend keyword rows created or updated by region syncs",
		},
	)

	trendKeywordDesc = prometheus.NewDesc(
		"trendsync_trend_keyword_frequency",
		"Stored trend keyword frequency",
		[]string{"region", "keyword", "source"},
		nil,
	)
)

// TrendKeywordLister is the storage read used by the collector.
type TrendKeywordLister interface {
	GetAllTrendKeywords(ctx context.Context) ([]models.TrendKeyword, error)
}

// TrendKeywordCollector is a custom Prometheus collector that reads stored
// trend keywords from the database on each scrape.
type TrendKeywordCollector struct {
	store TrendKeywordLister
}

// NewTrendKeywordCollector creates a collector over store.
func NewTrendKeywordCollector(store TrendKeywordLister) *TrendKeywordCollector {
	return &TrendKeywordCollector{store: store}
}

// Describe sends the metric descriptor to the channel.
func (c *TrendKeywordCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- trendKeywordDesc
}

// Collect queries the database for all trend keywords and emits them as gauges.
func (c *TrendKeywordCollector) Collect(ch chan<- prometheus.Metric) {
	keywords, err := c.store.GetAllTrendKeywords(context.Background())
	if err != nil {
		slog.Error("failed to collect trend keyword metrics", "error", err)
		return
	}
	for _, k := range keywords {
		ch <- prometheus.MustNewConstMetric(
			trendKeywordDesc,
			prometheus.GaugeValue,
			float64(k.Frequency),
			k.Region,
			k.Keyword,
			k.Source,
		)
	}
}

var initOnce sync.Once

// Init registers all collectors. Must be called once at startup.
func Init(store TrendKeywordLister) {
	initOnce.Do(func() {
		prometheus.MustRegister(publicDataRequests, syncRuns, syncUpserts)
		if store != nil {
			prometheus.MustRegister(NewTrendKeywordCollector(store))
		}
	})
}

// ObservePublicRequest counts one upstream request.
func ObservePublicRequest(transport, outcome string) {
	publicDataRequests.WithLabelValues(transport, outcome).Inc()
}

// ObserveSync counts one region sync run.
func ObserveSync(replace bool, outcome string, upserted int) {
	mode := "cumulative"
	if replace {
		mode = "replace"
	}
	syncRuns.WithLabelValues(mode, outcome).Inc()
	if upserted > 0 {
		syncUpserts.Add(float64(upserted))
	}
}
