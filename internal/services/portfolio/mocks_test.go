package portfolio

import (
	"context"

	"github.com/bobmcallan/strata/internal/common"
	"github.com/bobmcallan/strata/internal/interfaces"
	"github.com/bobmcallan/strata/internal/models"
)

// mockMarketService is an in-memory MarketService backed by a fixed sector
// table. Tickers absent from the table resolve to a miss (nil, nil).
type mockMarketService struct {
	sectors     map[string]string
	lookupErr   error
	lookupCalls int
}

var _ interfaces.MarketService = (*mockMarketService)(nil)

func (m *mockMarketService) LookupOverview(_ context.Context, symbol string) (*models.TickerOverview, error) {
	m.lookupCalls++
	if m.lookupErr != nil {
		return nil, m.lookupErr
	}
	sector, ok := m.sectors[symbol]
	if !ok {
		return nil, nil
	}
	return &models.TickerOverview{Symbol: symbol, Name: symbol, Sector: sector}, nil
}

func (m *mockMarketService) Search(_ context.Context, _ string) ([]models.TickerMatch, error) {
	return nil, nil
}

func (m *mockMarketService) ResetCache() {}

// mockReasoningService records augmentation calls and returns a canned
// string or error.
type mockReasoningService struct {
	augmentFunc func(ctx context.Context, rec models.Recommendation, modelType string, pctx models.PortfolioContext) (string, error)
	calls       int
}

var _ interfaces.ReasoningService = (*mockReasoningService)(nil)

func (m *mockReasoningService) Augment(ctx context.Context, rec models.Recommendation, modelType string, pctx models.PortfolioContext) (string, error) {
	m.calls++
	if m.augmentFunc != nil {
		return m.augmentFunc(ctx, rec, modelType, pctx)
	}
	return "augmented reasoning for " + rec.Ticker, nil
}

func (m *mockReasoningService) Reset() {}

func newTestService(market interfaces.MarketService, reasoning interfaces.ReasoningService, opts ...ServiceOption) *Service {
	return NewService(market, reasoning, common.NewSilentLogger(), opts...)
}
