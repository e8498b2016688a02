package validation

import (
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Column limits of the trend_keywords table, in characters.
const (
	MaxRegionLength  = 50
	MaxKeywordLength = 100
)

// ValidateRegion checks a region query or stored region name.
func ValidateRegion(region string) (bool, string) {
	region = strings.TrimSpace(region)
	if region == "" {
		return false, "region is required"
	}
	if utf8.RuneCountInString(region) > MaxRegionLength {
		return false, "region must be at most 50 characters"
	}
	if hasControl(region) {
		return false, "region contains control characters"
	}
	return true, ""
}

// ValidateKeyword checks if a keyword can be stored.
func ValidateKeyword(keyword string) bool {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" || utf8.RuneCountInString(keyword) > MaxKeywordLength {
		return false
	}
	return !hasControl(keyword)
}

// ClampLimit returns fallback when limit is unset and caps it at max.
func ClampLimit(limit, fallback, max int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > max {
		return max
	}
	return limit
}

// ValidateURL checks if a URL is valid and uses an allowed scheme (http/https only).
func ValidateURL(urlStr string) (bool, string) {
	if urlStr == "" {
		return false, "URL is required"
	}

	u, err := url.Parse(urlStr)
	if err != nil {
		return false, "Invalid URL format"
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return false, "URL must use http:// or https:// scheme"
	}

	if u.Host == "" {
		return false, "URL must have a valid host"
	}

	return true, ""
}

func hasControl(s string) bool {
	return strings.IndexFunc(s, unicode.IsControl) >= 0
}
