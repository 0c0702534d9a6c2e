package models

import "time"

// SectorUnknown is the sector assigned when the market data provider has no
// classification for a ticker. Lookup misses are never errors.
const SectorUnknown = "Unknown"

// TickerOverview holds provider metadata for a single ticker.
type TickerOverview struct {
	Symbol      string  `json:"symbol"`
	Name        string  `json:"name"`
	Sector      string  `json:"sector"`
	Industry    string  `json:"industry"`
	MarketCap   float64 `json:"market_cap"`
	Description string  `json:"description"`
}

// TickerMatch is a single fuzzy search result.
type TickerMatch struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
	Type   string `json:"type"`
	Region string `json:"region"`
}

// UserKeyValue is a per-user (or system) configuration entry in the
// internal store.
type UserKeyValue struct {
	UserID     string    `json:"user_id" badgerhold:"index"`
	Key        string    `json:"key"`
	Value      string    `json:"value"`
	ModifiedAt time.Time `json:"modified_at"`
}
