// Package reasoning augments rebalancing recommendations with generated
// natural-language rationale, memoized by recommendation fingerprint.
package reasoning

import (
	"context"
	"fmt"
	"sync"

	"github.com/bobmcallan/strata/internal/common"
	"github.com/bobmcallan/strata/internal/interfaces"
	"github.com/bobmcallan/strata/internal/models"
)

// DefaultMaxOutputTokens bounds a single explanation.
const DefaultMaxOutputTokens = 500

// Service implements ReasoningService. Successful responses are cached for
// the process lifetime; only Reset clears them. The fingerprint deliberately
// excludes portfolio context, so identical (ticker, action, shares, model)
// requests reuse the cached text even when the portfolio state differs.
type Service struct {
	client          interfaces.GenerativeClient
	logger          *common.Logger
	maxOutputTokens int

	mu    sync.Mutex
	cache map[string]string
}

// ServiceOption configures the service
type ServiceOption func(*Service)

// WithMaxOutputTokens sets the output token budget per explanation
func WithMaxOutputTokens(n int) ServiceOption {
	return func(s *Service) {
		s.maxOutputTokens = n
	}
}

// NewService creates a new reasoning service
func NewService(client interfaces.GenerativeClient, logger *common.Logger, opts ...ServiceOption) *Service {
	s := &Service{
		client:          client,
		logger:          logger,
		maxOutputTokens: DefaultMaxOutputTokens,
		cache:           make(map[string]string),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// fingerprint derives the cache key from a subset of recommendation fields.
func fingerprint(rec models.Recommendation, modelType string) string {
	return fmt.Sprintf("%s_%s_%d_%s", rec.Ticker, rec.Action, rec.Shares, modelType)
}

// Augment returns a generated explanation for the recommendation. On a cache
// hit the cached string is returned with no external call. Any client failure
// is returned to the caller, which falls back to its deterministic text;
// augmentation errors never reach the end user.
func (s *Service) Augment(ctx context.Context, rec models.Recommendation, modelType string, pctx models.PortfolioContext) (string, error) {
	if s.client == nil {
		return "", fmt.Errorf("generative client not configured")
	}

	key := fingerprint(rec, modelType)

	s.mu.Lock()
	cached, ok := s.cache[key]
	s.mu.Unlock()

	if ok {
		s.logger.Debug().Str("fingerprint", key).Msg("Reasoning cache hit")
		return cached, nil
	}

	prompt := buildPrompt(rec, modelType, pctx)

	s.logger.Info().Str("ticker", rec.Ticker).Msg("Generating rebalancing reasoning")
	text, err := s.client.GenerateContent(ctx, prompt, s.maxOutputTokens)
	if err != nil {
		s.logger.Error().Err(err).Str("ticker", rec.Ticker).Msg("Reasoning generation failed")
		return "", fmt.Errorf("failed to generate reasoning: %w", err)
	}

	s.mu.Lock()
	s.cache[key] = text
	s.mu.Unlock()

	return text, nil
}

// Reset clears the response cache.
func (s *Service) Reset() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()

	s.logger.Info().Msg("Reasoning cache cleared")
}

// Ensure Service implements ReasoningService
var _ interfaces.ReasoningService = (*Service)(nil)
