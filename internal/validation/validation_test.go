package validation

import (
	"strings"
	"testing"
)

func TestValidateRegion(t *testing.T) {
	tests := []struct {
		name   string
		region string
		valid  bool
	}{
		{"district", "강남구", true},
		{"qualified", "서울특별시 강남구", true},
		{"padded", "  홍대 ", true},
		{"empty", "", false},
		{"blank", "   ", false},
		{"max length", strings.Repeat("가", 50), true},
		{"too long", strings.Repeat("가", 51), false},
		{"newline", "강남\n구", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			valid, msg := ValidateRegion(tt.region)
			if valid != tt.valid {
				t.Errorf("ValidateRegion(%q) = %v (%s), want %v", tt.region, valid, msg, tt.valid)
			}
			if !valid && msg == "" {
				t.Error("expected a message for an invalid region")
			}
		})
	}
}

func TestValidateKeyword(t *testing.T) {
	tests := []struct {
		name    string
		keyword string
		want    bool
	}{
		{"korean label", "커피전문점/카페", true},
		{"with spaces", "혼밥 맛집", true},
		{"ascii", "Cafe", true},
		{"empty", "", false},
		{"blank", " \t", false},
		{"max length", strings.Repeat("a", 100), true},
		{"too long", strings.Repeat("한", 101), false},
		{"control char", "카페\x00", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateKeyword(tt.keyword); got != tt.want {
				t.Errorf("ValidateKeyword(%q) = %v, want %v", tt.keyword, got, tt.want)
			}
		})
	}
}

func TestClampLimit(t *testing.T) {
	tests := []struct {
		limit, fallback, max, want int
	}{
		{0, 5, 50, 5},
		{-3, 5, 50, 5},
		{7, 5, 50, 7},
		{50, 5, 50, 50},
		{51, 5, 50, 50},
	}

	for _, tt := range tests {
		if got := ClampLimit(tt.limit, tt.fallback, tt.max); got != tt.want {
			t.Errorf("ClampLimit(%d, %d, %d) = %d, want %d", tt.limit, tt.fallback, tt.max, got, tt.want)
		}
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		valid   bool
		wantMsg string
	}{
		{"valid https", "https://apis.data.go.kr/1741000/StanReginCd/getStanReginCdList", true, ""},
		{"valid http", "http://localhost:8080/mock", true, ""},
		{"empty string", "", false, "URL is required"},
		{"ftp scheme", "ftp://apis.data.go.kr", false, "URL must use http:// or https:// scheme"},
		{"missing scheme", "apis.data.go.kr/B553077", false, "URL must use http:// or https:// scheme"},
		{"missing host", "https:///path", false, "URL must have a valid host"},
		{"bad escape", "https://host/%zz", false, "Invalid URL format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			valid, msg := ValidateURL(tt.url)
			if valid != tt.valid || msg != tt.wantMsg {
				t.Errorf("ValidateURL(%q) = (%v, %q), want (%v, %q)", tt.url, valid, msg, tt.valid, tt.wantMsg)
			}
		})
	}
}
