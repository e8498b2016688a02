package publicdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"testing"

	"trendsync/internal/models"
)

func formatTop(items []models.KeywordFrequency) string {
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = fmt.Sprintf("%s:%d", it.Keyword, it.Frequency)
	}
	return strings.Join(parts, ",")
}

func TestTally_TieBreakFirstOccurrence(t *testing.T) {
	tally := NewTally()
	for _, label := range []string{"A", "B", "A", "C", "B", "A"} {
		tally.Add(label, 1)
	}

	if got := formatTop(tally.Top(TopKeywords)); got != "A:3,B:2,C:1" {
		t.Errorf("Top() = %s, want A:3,B:2,C:1", got)
	}
}

func TestTally_EqualFrequencies(t *testing.T) {
	tally := NewTally()
	for _, label := range []string{"D", "C", "B", "A", "E", "F", "A"} {
		tally.Add(label, 1)
	}

	if got := formatTop(tally.Top(5)); got != "A:2,D:1,C:1,B:1,E:1" {
		t.Errorf("Top(5) = %s", got)
	}
	if tally.Len() != 6 {
		t.Errorf("Len() = %d, want 6", tally.Len())
	}
}

func TestTally_AddWeighted(t *testing.T) {
	tally := NewTally()
	tally.Add("카페", 2)
	tally.Add("한식", 5)
	tally.Add("카페", 4)

	if got := formatTop(tally.Top(1)); got != "카페:6" {
		t.Errorf("Top(1) = %s", got)
	}
}

func TestFetchKeywords(t *testing.T) {
	body := `{"header":{"resultCode":"00"},"body":{"items":[
		{"indsSclsNm":"카페","indsMclsNm":"비알코올"},
		{"indsSclsNm":"","indsMclsNm":"한식"},
		{"indsSclsNm":" 카페 "},
		{"category":"편의점"},
		{"indsSclsNm":"한식"},
		{"serviceName":"미용실"},
		{"other":"ignored"},
		{"indsSclsNm":"분식"},
		{"indsSclsNm":"카페"}
	]}}`

	g := &fakeGetter{handle: func(endpoint string, p url.Values) (json.RawMessage, error) {
		return json.RawMessage(body), nil
	}}

	c := newTestClient(g)
	got := c.FetchKeywords(context.Background(), "1168010100", 0)

	if s := formatTop(got); s != "카페:3,한식:2,편의점:1,미용실:1,분식:1" {
		t.Errorf("FetchKeywords() = %s", s)
	}

	p := g.calls[0]
	if p.Get("serviceKey") != "vendor-key" || p.Get("key") != "1168010100" {
		t.Errorf("params = %v", p)
	}
	if p.Get("numOfRows") != "1000" || p.Get("pageNo") != "1" || p.Get("type") != "json" {
		t.Errorf("params = %v", p)
	}
}

func TestFetchKeywords_AlternateBodies(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"body array", `{"body":[{"indsSclsNm":"A"}]}`, "A:1"},
		{"matchList", `{"matchList":[{"indsLclsNm":"B"},{"indsLclsNm":"B"}]}`, "B:2"},
		{"empty items falls through", `{"body":{"items":[]},"matchList":[{"category":"C"}]}`, "C:1"},
		{"unknown shape", `{"data":[{"indsSclsNm":"A"}]}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := &fakeGetter{handle: func(string, url.Values) (json.RawMessage, error) {
				return json.RawMessage(tt.body), nil
			}}
			got := newTestClient(g).FetchKeywords(context.Background(), "1168010100", 10)
			if s := formatTop(got); s != tt.want {
				t.Errorf("FetchKeywords() = %s, want %s", s, tt.want)
			}
		})
	}
}

func TestFetchKeywords_FailureIsEmpty(t *testing.T) {
	g := &fakeGetter{handle: func(string, url.Values) (json.RawMessage, error) {
		return nil, errors.New("timeout")
	}}

	if got := newTestClient(g).FetchKeywords(context.Background(), "1168010100", 10); len(got) != 0 {
		t.Errorf("FetchKeywords() = %v, want empty", got)
	}
}

func TestFetchKeywords_DivID(t *testing.T) {
	g := &fakeGetter{handle: func(string, url.Values) (json.RawMessage, error) {
		return json.RawMessage(`{}`), nil
	}}

	c := NewClient(g, ClientConfig{VendorURL: "https://vendor.test", AreaCodeParam: "key", DivID: "adongCd"}, nil)
	c.FetchKeywords(context.Background(), "1168010100", 5)

	if got := g.calls[0].Get("divId"); got != "adongCd" {
		t.Errorf("divId = %q", got)
	}
	if got := g.calls[0].Get("numOfRows"); got != "5" {
		t.Errorf("numOfRows = %q", got)
	}
}

func TestFetchKeywords_SkipsUnstorableLabels(t *testing.T) {
	long := strings.Repeat("가", 101)
	body := `{"body":{"items":[
		{"indsSclsNm":"` + long + `","indsMclsNm":"한식"},
		{"indsSclsNm":"카\u0001페"},
		{"indsSclsNm":"카페"},
		{"indsSclsNm":"` + strings.Repeat("나", 100) + `"}
	]}}`

	g := &fakeGetter{handle: func(string, url.Values) (json.RawMessage, error) {
		return json.RawMessage(body), nil
	}}
	got := newTestClient(g).FetchKeywords(context.Background(), "1168010100", 10)

	want := "한식:1,카페:1," + strings.Repeat("나", 100) + ":1"
	if s := formatTop(got); s != want {
		t.Errorf("FetchKeywords() = %s, want %s", s, want)
	}
}
