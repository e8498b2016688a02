package trends_test

import (
	"context"
	"reflect"
	"testing"

	"trendsync/internal/models"
	"trendsync/internal/testutil"
	"trendsync/internal/trends"
)

type staticSource struct{}

func (staticSource) ResolveAreaCodes(ctx context.Context, region string, limit int) []string {
	return []string{"1168010100", "1168010300"}
}

func (staticSource) FetchKeywords(ctx context.Context, code string, rows int) []models.KeywordFrequency {
	return []models.KeywordFrequency{{Keyword: "카페", Frequency: 2}, {Keyword: "한식", Frequency: 1}}
}

func stored(t *testing.T, rows []models.TrendKeyword) map[string]int {
	t.Helper()
	out := make(map[string]int, len(rows))
	for _, r := range rows {
		if _, dup := out[r.Keyword]; dup {
			t.Errorf("duplicate row for %q", r.Keyword)
		}
		out[r.Keyword] = r.Frequency
	}
	return out
}

func TestSyncRegion_Postgres(t *testing.T) {
	database, cleanup := testutil.TestDB(t)
	defer cleanup()
	ctx := context.Background()

	testutil.CreateTestTrendKeyword(t, database, "강남구", "stale", 9)
	s := trends.NewSyncer(staticSource{}, database)

	for i := 0; i < 2; i++ {
		if _, err := s.SyncRegion(ctx, "강남구", 5, true); err != nil {
			t.Fatalf("SyncRegion(replace) error = %v", err)
		}
	}
	rows, err := database.ListTrendKeywords(ctx, "강남구")
	if err != nil {
		t.Fatal(err)
	}
	if got, want := stored(t, rows), map[string]int{"카페": 4, "한식": 2}; !reflect.DeepEqual(got, want) {
		t.Errorf("after replace = %v, want %v", got, want)
	}

	for i := 0; i < 2; i++ {
		if _, err := s.SyncRegion(ctx, "강남구", 5, false); err != nil {
			t.Fatalf("SyncRegion(cumulative) error = %v", err)
		}
	}
	rows, _ = database.ListTrendKeywords(ctx, "강남구")
	if got, want := stored(t, rows), map[string]int{"카페": 12, "한식": 6}; !reflect.DeepEqual(got, want) {
		t.Errorf("after cumulative = %v, want %v", got, want)
	}
}
