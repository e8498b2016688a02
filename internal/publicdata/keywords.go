package publicdata

import (
	"context"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"trendsync/internal/models"
	"trendsync/internal/validation"
)

// TopKeywords is how many keywords a summary keeps.
const TopKeywords = 5

// Tally counts keywords and remembers the order each was first seen, so
// ties rank by first occurrence.
type Tally struct {
	order  []string
	counts map[string]int
}

// NewTally creates an empty tally.
func NewTally() *Tally {
	return &Tally{counts: make(map[string]int)}
}

// Add increments keyword by n.
func (t *Tally) Add(keyword string, n int) {
	if _, ok := t.counts[keyword]; !ok {
		t.order = append(t.order, keyword)
	}
	t.counts[keyword] += n
}

// Len returns the number of distinct keywords.
func (t *Tally) Len() int {
	return len(t.order)
}

// Top returns the n most frequent keywords, ties in first-seen order.
func (t *Tally) Top(n int) []models.KeywordFrequency {
	items := make([]models.KeywordFrequency, 0, len(t.order))
	for _, k := range t.order {
		items = append(items, models.KeywordFrequency{Keyword: k, Frequency: t.counts[k]})
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Frequency > items[j].Frequency
	})
	if n >= 0 && len(items) > n {
		items = items[:n]
	}
	return items
}

// FetchKeywords lists vendors in one area code and returns the top category
// labels by frequency. rows <= 0 uses the configured page size. Any failure
// yields an empty result.
func (c *Client) FetchKeywords(ctx context.Context, areaCode string, rows int) []models.KeywordFrequency {
	if rows <= 0 {
		rows = c.cfg.VendorRows
	}
	if !c.wait(ctx) {
		return nil
	}

	params := url.Values{}
	params.Set("serviceKey", c.cfg.VendorKey)
	if c.cfg.DivID != "" {
		params.Set("divId", c.cfg.DivID)
	}
	params.Set(c.cfg.AreaCodeParam, areaCode)
	params.Set("numOfRows", strconv.Itoa(rows))
	params.Set("pageNo", "1")
	params.Set("type", "json")

	doc, err := c.getter.GetJSON(ctx, c.cfg.VendorURL, params)
	if err != nil {
		c.logger.Warn("vendor listing lookup failed", "area_code", areaCode, "error", err)
		return nil
	}

	tally := NewTally()
	for _, row := range vendorRows(doc, c.cfg.VendorBodyPaths) {
		if label := firstLabel(row, c.cfg.VendorLabelFields); label != "" {
			tally.Add(label, 1)
		}
	}
	c.logger.Debug("vendor labels tallied", "area_code", areaCode, "distinct", tally.Len())
	return tally.Top(TopKeywords)
}

// vendorRows returns the first non-empty row array among the candidate paths.
func vendorRows(raw []byte, paths []string) []gjson.Result {
	if !gjson.ValidBytes(raw) {
		return nil
	}
	doc := gjson.ParseBytes(raw)
	for _, path := range paths {
		if rows := itemsArray(doc.Get(path)); len(rows) > 0 {
			return rows
		}
	}
	return nil
}

// firstLabel returns the first candidate field of row that holds a storable
// keyword. Labels that are too long or carry control characters fall through
// to the next field.
func firstLabel(row gjson.Result, fields []string) string {
	for _, field := range fields {
		if v := strings.TrimSpace(row.Get(field).String()); validation.ValidateKeyword(v) {
			return v
		}
	}
	return ""
}
