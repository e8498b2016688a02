package metrics

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"trendsync/internal/models"
)

type fakeLister struct {
	keywords []models.TrendKeyword
	err      error
}

func (f *fakeLister) GetAllTrendKeywords(ctx context.Context) ([]models.TrendKeyword, error) {
	return f.keywords, f.err
}

func TestTrendKeywordCollector(t *testing.T) {
	lister := &fakeLister{keywords: []models.TrendKeyword{
		{Region: "강남구", Keyword: "카페", Frequency: 7, Source: models.SourcePublic},
		{Region: "강남구", Keyword: "한식", Frequency: 3, Source: models.SourcePublic},
	}}

	c := NewTrendKeywordCollector(lister)
	if n := testutil.CollectAndCount(c); n != 2 {
		t.Errorf("CollectAndCount() = %d, want 2", n)
	}

	expected := `
# HELP trendsync_trend_keyword_frequency Stored trend keyword frequency
# TYPE trendsync_trend_keyword_frequency gauge
trendsync_trend_keyword_frequency{keyword="카페",region="강남구",source="public"} 7
trendsync_trend_keyword_frequency{keyword="한식",region="강남구",source="public"} 3
`
	if err := testutil.CollectAndCompare(c, strings.NewReader(expected)); err != nil {
		t.Errorf("CollectAndCompare() error = %v", err)
	}
}

func TestTrendKeywordCollector_StoreError(t *testing.T) {
	c := NewTrendKeywordCollector(&fakeLister{err: errors.New("db down")})
	if n := testutil.CollectAndCount(c); n != 0 {
		t.Errorf("CollectAndCount() = %d, want 0 on store error", n)
	}
}

func TestObserveSync(t *testing.T) {
	before := testutil.ToFloat64(syncRuns.WithLabelValues("replace", OutcomeOK))
	upsertsBefore := testutil.ToFloat64(syncUpserts)

	ObserveSync(true, OutcomeOK, 5)

	if got := testutil.ToFloat64(syncRuns.WithLabelValues("replace", OutcomeOK)); got != before+1 {
		t.Errorf("sync runs = %v, want %v", got, before+1)
	}
	if got := testutil.ToFloat64(syncUpserts); got != upsertsBefore+5 {
		t.Errorf("upserts = %v, want %v", got, upsertsBefore+5)
	}
}

func TestObservePublicRequest(t *testing.T) {
	before := testutil.ToFloat64(publicDataRequests.WithLabelValues(TransportFallback, OutcomeError))
	ObservePublicRequest(TransportFallback, OutcomeError)
	if got := testutil.ToFloat64(publicDataRequests.WithLabelValues(TransportFallback, OutcomeError)); got != before+1 {
		t.Errorf("requests = %v, want %v", got, before+1)
	}
}
