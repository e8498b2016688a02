package publicdata

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// areaCodeLen is the length of a sub-district administrative code.
const areaCodeLen = 10

// ResolveAreaCodes returns up to limit area codes whose administrative name
// contains the (normalized) region. A direct filtered lookup is tried first;
// if it finds nothing the unfiltered listing is scanned page by page and
// filtered locally. Failures are logged and count as empty pages.
func (c *Client) ResolveAreaCodes(ctx context.Context, region string, limit int) []string {
	target := c.regions.Normalize(region)
	if target == "" || limit <= 0 {
		return nil
	}

	codes := newCodeSet(limit)

	params := c.lookupParams(1)
	params.Set("locatadd_nm", target)
	codes.addRows(ParseRows(c.lookup(ctx, params)), target)
	if codes.len() > 0 {
		return codes.list()
	}

	c.logger.Info("direct area code lookup empty, scanning pages",
		"region", region, "target", target, "max_pages", c.cfg.MaxScanPages)

	for page := 1; page <= c.cfg.MaxScanPages && !codes.full(); page++ {
		if ctx.Err() != nil {
			break
		}
		rows := ParseRows(c.lookup(ctx, c.lookupParams(page)))
		if len(rows) == 0 && page > 1 {
			break
		}
		codes.addRows(rows, target)
	}

	if codes.len() == 0 {
		c.logger.Warn("no area codes found", "region", region, "target", target)
	}
	return codes.list()
}

func (c *Client) lookupParams(page int) url.Values {
	params := url.Values{}
	params.Set("pageNo", strconv.Itoa(page))
	params.Set("numOfRows", strconv.Itoa(c.cfg.PageSize))
	params.Set("type", "json")
	return params
}

// lookup calls the administrative-code API with key-casing fallback.
func (c *Client) lookup(ctx context.Context, params url.Values) json.RawMessage {
	if !c.wait(ctx) {
		return nil
	}
	doc, casing := CallWithKeyFallback(ctx, c.getter, c.cfg.LookupURL, params, c.cfg.LookupKey)
	if doc == nil {
		c.logger.Warn("area code lookup failed", "page", params.Get("pageNo"), "filter", params.Get("locatadd_nm"))
		return nil
	}
	c.logger.Debug("area code lookup", "page", params.Get("pageNo"), "key_param", casing)
	return doc
}

// codeSet accumulates deduplicated codes in first-seen order up to a limit.
type codeSet struct {
	limit int
	seen  map[string]struct{}
	codes []string
}

func newCodeSet(limit int) *codeSet {
	return &codeSet{limit: limit, seen: make(map[string]struct{})}
}

func (s *codeSet) addRows(rows []gjson.Result, target string) {
	for _, row := range rows {
		if s.full() {
			return
		}
		name := row.Get("locatadd_nm").String()
		code := row.Get("region_cd").String()
		if len(code) < areaCodeLen || !strings.Contains(name, target) {
			continue
		}
		code = code[:areaCodeLen]
		if _, ok := s.seen[code]; ok {
			continue
		}
		s.seen[code] = struct{}{}
		s.codes = append(s.codes, code)
	}
}

func (s *codeSet) full() bool     { return len(s.codes) >= s.limit }
func (s *codeSet) len() int       { return len(s.codes) }
func (s *codeSet) list() []string { return s.codes }
