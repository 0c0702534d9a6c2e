// Package interfaces defines service contracts for Strata
package interfaces

import (
	"context"
	"io"

	"github.com/bobmcallan/strata/internal/models"
)

// MarketService is the cached sector + price lookup provider consumed by the
// valuation engine and the market handlers.
type MarketService interface {
	// LookupOverview returns ticker metadata, served from the TTL cache when
	// fresh. Returns (nil, nil) for unknown tickers.
	LookupOverview(ctx context.Context, symbol string) (*models.TickerOverview, error)

	// Search returns fuzzy ticker matches, cached per lower-cased query.
	Search(ctx context.Context, query string) ([]models.TickerMatch, error)

	// ResetCache drops all cached entries.
	ResetCache()
}

// PortfolioService is the portfolio analytics and rebalancing engine.
type PortfolioService interface {
	// ParseCSV parses delimited holdings input. The whole input parses or the
	// call fails with a FormatError.
	ParseCSV(r io.Reader) ([]models.Holding, error)

	// Analyze values the holdings and computes sector allocation,
	// concentration risks, and the diversification score.
	Analyze(ctx context.Context, holdings []models.Holding) (*models.PortfolioAnalysis, error)

	// Rebalance diffs the current allocation against a named target model and
	// produces buy/sell recommendations with narrative reasoning.
	Rebalance(ctx context.Context, holdings []models.Holding, modelType string) (*models.RebalancePlan, error)

	// RenderAllocationChart renders the holdings' sector allocation as a PNG.
	RenderAllocationChart(ctx context.Context, holdings []models.Holding) ([]byte, error)
}

// ReasoningService augments recommendations with generated rationale.
type ReasoningService interface {
	// Augment returns a natural-language explanation for a recommendation,
	// memoized by recommendation fingerprint. An error means no augmentation
	// is available; callers keep their deterministic fallback text.
	Augment(ctx context.Context, rec models.Recommendation, modelType string, pctx models.PortfolioContext) (string, error)

	// Reset clears the response cache.
	Reset()
}

// OnboardingService serves the questionnaire and classifies users into
// risk personas.
type OnboardingService interface {
	// Questionnaire returns the full question list for delivery to a client.
	Questionnaire() []models.Question

	// Classify scores the answers, derives the persona, and stores the
	// resulting profile when userID is non-empty.
	Classify(ctx context.Context, userID string, answers []models.Answer) (*models.PersonaResult, error)
}
