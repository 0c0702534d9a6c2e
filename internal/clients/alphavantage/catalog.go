package alphavantage

import (
	"strings"

	"github.com/bobmcallan/strata/internal/models"
)

// offlineCatalog is the static ticker catalog used when no API key is
// configured or the API is unreachable. Covers the symbols exercised by
// development fixtures and tests.
var offlineCatalog = []models.TickerOverview{
	{
		Symbol:      "AAPL",
		Name:        "Apple Inc",
		Sector:      "Technology",
		Industry:    "Consumer Electronics",
		MarketCap:   2800000000000,
		Description: "Apple Inc. designs, manufactures, and markets smartphones, personal computers, tablets, wearables, and accessories worldwide.",
	},
	{
		Symbol:      "MSFT",
		Name:        "Microsoft Corporation",
		Sector:      "Technology",
		Industry:    "Software",
		MarketCap:   2500000000000,
		Description: "Microsoft Corporation develops, licenses, and supports software, services, devices, and solutions worldwide.",
	},
	{
		Symbol:      "NVDA",
		Name:        "NVIDIA Corporation",
		Sector:      "Technology",
		Industry:    "Semiconductors",
		MarketCap:   1800000000000,
		Description: "NVIDIA Corporation provides graphics and compute solutions.",
	},
	{
		Symbol:      "INTC",
		Name:        "Intel Corporation",
		Sector:      "Technology",
		Industry:    "Semiconductors",
		MarketCap:   180000000000,
		Description: "Intel Corporation designs and manufactures computing and communications products.",
	},
	{
		Symbol:      "LLY",
		Name:        "Eli Lilly and Company",
		Sector:      "Healthcare",
		Industry:    "Pharmaceuticals",
		MarketCap:   650000000000,
		Description: "Eli Lilly and Company discovers, develops, and markets pharmaceutical products.",
	},
	{
		Symbol:      "JPM",
		Name:        "JPMorgan Chase & Co",
		Sector:      "Financials",
		Industry:    "Banks",
		MarketCap:   500000000000,
		Description: "JPMorgan Chase & Co. operates as a financial services company worldwide.",
	},
	{
		Symbol:      "AMZN",
		Name:        "Amazon.com Inc",
		Sector:      "Consumer Discretionary",
		Industry:    "Internet Retail",
		MarketCap:   1500000000000,
		Description: "Amazon.com Inc. engages in the retail sale of consumer products and subscriptions.",
	},
	{
		Symbol:      "GOOGL",
		Name:        "Alphabet Inc",
		Sector:      "Communication Services",
		Industry:    "Internet Content & Information",
		MarketCap:   1700000000000,
		Description: "Alphabet Inc. provides various products and platforms worldwide.",
	},
	{
		Symbol:      "SPY",
		Name:        "SPDR S&P 500 ETF Trust",
		Sector:      "Index Fund",
		Industry:    "ETF",
		MarketCap:   400000000000,
		Description: "SPDR S&P 500 ETF Trust seeks to provide investment results that correspond to the price and yield performance of the S&P 500 Index.",
	},
	{
		Symbol:      "VTI",
		Name:        "Vanguard Total Stock Market ETF",
		Sector:      "Index Fund",
		Industry:    "ETF",
		MarketCap:   300000000000,
		Description: "Vanguard Total Stock Market ETF seeks to track the performance of the CRSP US Total Market Index.",
	},
}

// catalogOverview returns the catalog entry for a symbol, or nil when the
// catalog has no record of it.
func catalogOverview(symbol string) *models.TickerOverview {
	for i := range offlineCatalog {
		if offlineCatalog[i].Symbol == symbol {
			o := offlineCatalog[i]
			return &o
		}
	}
	return nil
}

// catalogSearch performs a case-insensitive partial match over symbol and
// name, capped at 10 results.
func catalogSearch(query string) []models.TickerMatch {
	q := strings.ToUpper(strings.TrimSpace(query))
	if q == "" {
		return nil
	}

	var results []models.TickerMatch
	for _, entry := range offlineCatalog {
		if !strings.Contains(entry.Symbol, q) && !strings.Contains(strings.ToUpper(entry.Name), q) {
			continue
		}
		matchType := "Equity"
		if entry.Industry == "ETF" {
			matchType = "ETF"
		}
		results = append(results, models.TickerMatch{
			Symbol: entry.Symbol,
			Name:   entry.Name,
			Type:   matchType,
			Region: "United States",
		})
		if len(results) == maxSearchResults {
			break
		}
	}

	return results
}
