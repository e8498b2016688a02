package publicdata

import (
	"net/url"
	"strings"
)

// NormalizeCredential turns an API key that may have been configured in its
// percent-encoded form into the decoded form. Keys containing '%' are
// unescaped exactly once; anything else is returned untouched so the HTTP
// client's own query encoding is the only encoding applied.
func NormalizeCredential(raw string) string {
	if raw == "" || !strings.Contains(raw, "%") {
		return raw
	}
	decoded, err := url.QueryUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}
