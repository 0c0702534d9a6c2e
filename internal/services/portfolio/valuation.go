package portfolio

import (
	"context"

	"github.com/bobmcallan/strata/internal/models"
)

// PricingPolicy derives a holding's current price. The default markup policy
// is a development placeholder; a real pricing feed plugs in here without
// touching the valuation logic.
type PricingPolicy interface {
	PriceOf(h models.Holding) float64
}

// MarkupPricing prices a holding at purchase price times a fixed factor.
type MarkupPricing struct {
	Factor float64
}

func (p MarkupPricing) PriceOf(h models.Holding) float64 {
	return h.PurchasePrice * p.Factor
}

// valueHoldings computes the current value of each holding and the portfolio
// total. One provider lookup per holding; a missing or failed lookup resolves
// to sector "Unknown", never an error. Duplicate tickers overwrite earlier
// entries in the detail map.
func (s *Service) valueHoldings(ctx context.Context, holdings []models.Holding) (float64, map[string]models.TickerDetail) {
	totalValue := 0.0
	details := make(map[string]models.TickerDetail, len(holdings))

	for _, h := range holdings {
		sector := models.SectorUnknown
		overview, err := s.market.LookupOverview(ctx, h.Ticker)
		if err != nil {
			s.logger.Warn().Err(err).Str("ticker", h.Ticker).Msg("Sector lookup failed")
		} else if overview != nil && overview.Sector != "" {
			sector = overview.Sector
		}

		currentPrice := s.pricing.PriceOf(h)
		value := h.Shares * currentPrice
		costBasis := h.Shares * h.PurchasePrice

		details[h.Ticker] = models.TickerDetail{
			Shares:       h.Shares,
			CurrentPrice: currentPrice,
			Value:        value,
			CostBasis:    costBasis,
			GainLoss:     value - costBasis,
			Sector:       sector,
		}

		totalValue += value
	}

	return totalValue, details
}
