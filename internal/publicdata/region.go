package publicdata

import "strings"

// RegionNormalizer qualifies bare district names with their metropolitan
// area, e.g. "강남구" -> "서울특별시 강남구". It is a best-effort heuristic:
// unknown names pass through unchanged.
type RegionNormalizer struct {
	metro     string
	districts map[string]struct{}
}

// NewRegionNormalizer builds a normalizer for one metropolitan area.
func NewRegionNormalizer(metro string, districts []string) *RegionNormalizer {
	set := make(map[string]struct{}, len(districts))
	for _, d := range districts {
		set[d] = struct{}{}
	}
	return &RegionNormalizer{metro: metro, districts: set}
}

// Normalize returns the fully qualified form of region when it is a known
// bare district, and region (trimmed) otherwise.
func (n *RegionNormalizer) Normalize(region string) string {
	region = strings.TrimSpace(region)
	if n == nil || n.metro == "" || strings.Contains(region, " ") {
		return region
	}
	if _, ok := n.districts[region]; ok {
		return n.metro + " " + region
	}
	return region
}
