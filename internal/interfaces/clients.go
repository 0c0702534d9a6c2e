// Package interfaces defines service contracts for Strata
package interfaces

import (
	"context"

	"github.com/bobmcallan/strata/internal/models"
)

// MarketDataClient provides ticker metadata and fuzzy symbol search.
type MarketDataClient interface {
	// GetOverview retrieves sector/industry/price metadata for a ticker.
	// Returns (nil, nil) when the provider has no record of the symbol;
	// unknown tickers are not errors.
	GetOverview(ctx context.Context, symbol string) (*models.TickerOverview, error)

	// Search returns fuzzy ticker matches for a query, capped at 10 results.
	Search(ctx context.Context, query string) ([]models.TickerMatch, error)
}

// GenerativeClient produces natural-language text from a prompt.
type GenerativeClient interface {
	// GenerateContent generates text bounded by maxOutputTokens.
	GenerateContent(ctx context.Context, prompt string, maxOutputTokens int) (string, error)
}
