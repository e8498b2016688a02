package publicdata

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"testing"
)

// fakeGetter answers by endpoint with a handler function and records calls.
type fakeGetter struct {
	handle func(endpoint string, params url.Values) (json.RawMessage, error)
	calls  []url.Values
}

func (f *fakeGetter) GetJSON(ctx context.Context, endpoint string, params url.Values) (json.RawMessage, error) {
	f.calls = append(f.calls, params)
	return f.handle(endpoint, params)
}

func TestCallWithKeyFallback_UpperSucceeds(t *testing.T) {
	g := &fakeGetter{handle: func(_ string, p url.Values) (json.RawMessage, error) {
		return json.RawMessage(`{"response":{"body":{"items":[]}}}`), nil
	}}

	doc, casing := CallWithKeyFallback(context.Background(), g, "https://x", url.Values{"pageNo": {"1"}}, "k")
	if doc == nil || casing != KeyCasingUpper {
		t.Fatalf("CallWithKeyFallback() = %s, %q", doc, casing)
	}
	if len(g.calls) != 1 || g.calls[0].Get("ServiceKey") != "k" {
		t.Errorf("calls = %v", g.calls)
	}
}

func TestCallWithKeyFallback_ApplicationErrorRetriesLowercase(t *testing.T) {
	g := &fakeGetter{handle: func(_ string, p url.Values) (json.RawMessage, error) {
		if p.Get("ServiceKey") != "" {
			return json.RawMessage(`{"RESULT":{"resultCode":"INFO-100","resultMsg":"invalid key"}}`), nil
		}
		return json.RawMessage(`[{"row":[{"region_cd":"1168000000"}]}]`), nil
	}}

	params := url.Values{"pageNo": {"1"}}
	doc, casing := CallWithKeyFallback(context.Background(), g, "https://x", params, "k")
	if doc == nil || casing != KeyCasingLower {
		t.Fatalf("CallWithKeyFallback() = %s, %q", doc, casing)
	}
	if len(g.calls) != 2 {
		t.Fatalf("len(calls) = %d, want 2", len(g.calls))
	}
	second := g.calls[1]
	if second.Get("serviceKey") != "k" || second.Has("ServiceKey") {
		t.Errorf("second call params = %v", second)
	}
	if params.Has("ServiceKey") || params.Has("serviceKey") {
		t.Error("caller params were mutated")
	}
}

func TestCallWithKeyFallback_TransportErrorRetriesLowercase(t *testing.T) {
	g := &fakeGetter{handle: func(_ string, p url.Values) (json.RawMessage, error) {
		if p.Has("ServiceKey") {
			return nil, ErrFallbackFailed
		}
		return json.RawMessage(`{}`), nil
	}}

	doc, casing := CallWithKeyFallback(context.Background(), g, "https://x", url.Values{}, "k")
	if string(doc) != `{}` || casing != KeyCasingLower {
		t.Errorf("CallWithKeyFallback() = %s, %q", doc, casing)
	}
}

func TestCallWithKeyFallback_BothFail(t *testing.T) {
	g := &fakeGetter{handle: func(string, url.Values) (json.RawMessage, error) {
		return nil, errors.New("boom")
	}}

	doc, casing := CallWithKeyFallback(context.Background(), g, "https://x", url.Values{}, "k")
	if doc != nil || casing != "" {
		t.Errorf("CallWithKeyFallback() = %s, %q, want nil, \"\"", doc, casing)
	}
	if len(g.calls) != 2 {
		t.Errorf("len(calls) = %d, want 2", len(g.calls))
	}
}

func TestApplicationError(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantCode string
		failed   bool
	}{
		{"no header", `{"response":{"body":{"items":[]}}}`, "", false},
		{"shape A success", `{"StanReginCd":[{"head":[{"RESULT":{"resultCode":"INFO-0","resultMsg":"NORMAL SERVICE."}}]}]}`, "", false},
		{"no data is not an error", `{"RESULT":{"resultCode":"INFO-200"}}`, "", false},
		{"top level error", `{"RESULT":{"resultCode":"INFO-300","resultMsg":"limit"}}`, "INFO-300", true},
		{"shape B error", `{"response":{"header":{"resultCode":"30","resultMsg":"SERVICE KEY IS NOT REGISTERED ERROR."}}}`, "30", true},
		{"shape B success", `{"response":{"header":{"resultCode":"00"}}}`, "", false},
		{"gateway error", `{"OpenAPI_ServiceResponse":{"cmmMsgHeader":{"returnReasonCode":"30","returnAuthMsg":"SERVICE_KEY_IS_NOT_REGISTERED_ERROR"}}}`, "30", true},
		{"invalid json", `nope`, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, failed := ApplicationError([]byte(tt.raw))
			if failed != tt.failed || code != tt.wantCode {
				t.Errorf("ApplicationError() = %q, %v, want %q, %v", code, failed, tt.wantCode, tt.failed)
			}
		})
	}
}
