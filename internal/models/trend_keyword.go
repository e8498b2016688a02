package models

import (
	"time"

	"github.com/google/uuid"
)

// Trend keyword source constants
const (
	SourcePublic = "public"
	SourceSeed   = "seed"
)

// TrendKeyword is one stored (region, keyword) snapshot row.
type TrendKeyword struct {
	ID        uuid.UUID `json:"id"`
	Region    string    `json:"region"`
	Keyword   string    `json:"keyword"`
	Frequency int       `json:"frequency"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// KeywordFrequency is how often a category label was observed.
type KeywordFrequency struct {
	Keyword   string `json:"keyword"`
	Frequency int    `json:"frequency"`
}
