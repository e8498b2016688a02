package publicdata

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/url"

	"github.com/tidwall/gjson"
)

// KeyCasing is the spelling of the service key query parameter.
type KeyCasing string

// The lookup API routes on the exact parameter name; the wrong casing comes
// back as an application error rather than an HTTP error.
const (
	KeyCasingUpper KeyCasing = "ServiceKey"
	KeyCasingLower KeyCasing = "serviceKey"
)

var keyCasings = []KeyCasing{KeyCasingUpper, KeyCasingLower}

// successCodes are result codes that mean "no error" (INFO-200 is "no data").
var successCodes = map[string]bool{
	"INFO-0":   true,
	"INFO-000": true,
	"INFO-200": true,
	"00":       true,
	"0":        true,
	"000":      true,
}

// CallWithKeyFallback calls endpoint with the key under the capitalized
// parameter name and, if that fails or the body reports an application
// error, once more under the lowercase name. It returns the document and the
// casing that worked, or (nil, "") when both attempts fail.
func CallWithKeyFallback(ctx context.Context, g Getter, endpoint string, params url.Values, key string) (json.RawMessage, KeyCasing) {
	for _, casing := range keyCasings {
		q := make(url.Values, len(params)+1)
		for k, v := range params {
			q[k] = append([]string(nil), v...)
		}
		q.Del(string(KeyCasingUpper))
		q.Del(string(KeyCasingLower))
		q.Set(string(casing), key)

		doc, err := g.GetJSON(ctx, endpoint, q)
		if err != nil {
			slog.Warn("public data call failed", "endpoint", endpoint, "key_param", casing, "error", err)
			if ctx.Err() != nil {
				return nil, ""
			}
			continue
		}
		if code, msg, failed := ApplicationError(doc); failed {
			slog.Warn("public data call returned an application error",
				"endpoint", endpoint, "key_param", casing, "code", code, "message", msg)
			continue
		}
		return doc, casing
	}
	return nil, ""
}

// ApplicationError inspects the known result headers of a response and
// reports whether the upstream signalled an error inside a 2xx response.
func ApplicationError(raw []byte) (code, message string, failed bool) {
	if !gjson.ValidBytes(raw) {
		return "", "", false
	}
	doc := gjson.ParseBytes(raw)

	// Gateway-level errors (unregistered key, quota) use their own envelope.
	if r := doc.Get("OpenAPI_ServiceResponse.cmmMsgHeader"); r.Exists() {
		return r.Get("returnReasonCode").String(), r.Get("returnAuthMsg").String(), true
	}

	for _, header := range resultHeaders(doc) {
		code := header.Get("resultCode").String()
		if code == "" {
			continue
		}
		if !successCodes[code] {
			return code, header.Get("resultMsg").String(), true
		}
	}
	return "", "", false
}

// resultHeaders collects every result header object present in doc.
func resultHeaders(doc gjson.Result) []gjson.Result {
	var headers []gjson.Result
	for _, path := range []string{"RESULT", "response.header", "header"} {
		if r := doc.Get(path); r.IsObject() {
			headers = append(headers, r)
		}
	}
	if blocks, ok := blockArray(doc); ok {
		for _, block := range blocks.Array() {
			for _, h := range block.Get("head").Array() {
				if r := h.Get("RESULT"); r.IsObject() {
					headers = append(headers, r)
				}
			}
		}
	}
	return headers
}
