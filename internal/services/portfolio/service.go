package portfolio

import (
	"context"

	"github.com/bobmcallan/strata/internal/common"
	"github.com/bobmcallan/strata/internal/interfaces"
	"github.com/bobmcallan/strata/internal/models"
)

// Service implements PortfolioService
type Service struct {
	market    interfaces.MarketService
	reasoning interfaces.ReasoningService
	pricing   PricingPolicy
	logger    *common.Logger
}

// ServiceOption configures the service
type ServiceOption func(*Service)

// WithPricing sets the pricing policy
func WithPricing(policy PricingPolicy) ServiceOption {
	return func(s *Service) {
		s.pricing = policy
	}
}

// NewService creates a new portfolio service. The reasoning service may be
// nil, in which case recommendations keep their deterministic reasoning.
func NewService(
	market interfaces.MarketService,
	reasoning interfaces.ReasoningService,
	logger *common.Logger,
	opts ...ServiceOption,
) *Service {
	s := &Service{
		market:    market,
		reasoning: reasoning,
		pricing:   MarkupPricing{Factor: 1.1},
		logger:    logger,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Analyze values the holdings and computes the sector allocation breakdown,
// concentration risks, and diversification score.
func (s *Service) Analyze(ctx context.Context, holdings []models.Holding) (*models.PortfolioAnalysis, error) {
	totalValue, details := s.valueHoldings(ctx, holdings)
	sectors := AnalyzeSectorAllocation(details, totalValue)

	analysis := &models.PortfolioAnalysis{
		TotalValue:           round2(totalValue),
		Sectors:              sectors,
		ConcentratedSectors:  DetectConcentrationRisks(sectors),
		DiversificationScore: CalculateDiversificationScore(sectors),
	}

	s.logger.Info().
		Float64("total_value", analysis.TotalValue).
		Int("sectors", len(sectors)).
		Float64("diversification", analysis.DiversificationScore).
		Msg("Portfolio analyzed")

	return analysis, nil
}

// RenderAllocationChart renders the holdings' sector allocation as a PNG.
func (s *Service) RenderAllocationChart(ctx context.Context, holdings []models.Holding) ([]byte, error) {
	totalValue, details := s.valueHoldings(ctx, holdings)
	sectors := AnalyzeSectorAllocation(details, totalValue)
	return RenderAllocationChart(sectors)
}

// Ensure Service implements PortfolioService
var _ interfaces.PortfolioService = (*Service)(nil)
