package models

// DashboardResponse is the home dashboard trend keyword payload.
type DashboardResponse struct {
	TrendKeywords []string `json:"trend_keywords"`
}

// SyncRequest triggers a region sync through the API.
type SyncRequest struct {
	Region  string `json:"region"`
	Limit   int    `json:"limit"`
	Replace *bool  `json:"replace"`
}

// SyncResponse reports what a region sync persisted.
type SyncResponse struct {
	Region    string             `json:"region"`
	Replace   bool               `json:"replace"`
	AreaCodes []string           `json:"area_codes"`
	Keywords  []KeywordFrequency `json:"keywords"`
	Upserted  int                `json:"upserted"`
}
