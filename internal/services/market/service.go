// Package market provides the cached sector + price lookup provider.
package market

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/bobmcallan/strata/internal/common"
	"github.com/bobmcallan/strata/internal/interfaces"
	"github.com/bobmcallan/strata/internal/models"
)

// DefaultCacheTTL is how long ticker metadata stays fresh.
const DefaultCacheTTL = 24 * time.Hour

type overviewEntry struct {
	overview *models.TickerOverview // nil means a cached miss
	fetched  time.Time
}

type searchEntry struct {
	matches []models.TickerMatch
	fetched time.Time
}

// Service implements MarketService. It owns an explicit TTL cache over the
// market data client: entries are idempotent derived data, so a lost race is
// at most a duplicate provider call.
type Service struct {
	client interfaces.MarketDataClient
	logger *common.Logger
	ttl    time.Duration
	now    func() time.Time

	mu        sync.Mutex
	overviews map[string]overviewEntry
	searches  map[string]searchEntry
}

// ServiceOption configures the service
type ServiceOption func(*Service)

// WithTTL sets the cache TTL
func WithTTL(ttl time.Duration) ServiceOption {
	return func(s *Service) {
		s.ttl = ttl
	}
}

// WithClock sets the time source for cache expiry checks
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a new market data service
func NewService(client interfaces.MarketDataClient, logger *common.Logger, opts ...ServiceOption) *Service {
	s := &Service{
		client:    client,
		logger:    logger,
		ttl:       DefaultCacheTTL,
		now:       time.Now,
		overviews: make(map[string]overviewEntry),
		searches:  make(map[string]searchEntry),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// LookupOverview returns ticker metadata, served from the cache when fresh.
// Returns (nil, nil) for tickers the provider does not know; cached misses
// expire like any other entry.
func (s *Service) LookupOverview(ctx context.Context, symbol string) (*models.TickerOverview, error) {
	key := strings.ToUpper(strings.TrimSpace(symbol))

	s.mu.Lock()
	entry, ok := s.overviews[key]
	s.mu.Unlock()

	if ok && s.now().Sub(entry.fetched) < s.ttl {
		s.logger.Debug().Str("symbol", key).Msg("Overview cache hit")
		return entry.overview, nil
	}

	overview, err := s.client.GetOverview(ctx, key)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.overviews[key] = overviewEntry{overview: overview, fetched: s.now()}
	s.mu.Unlock()

	return overview, nil
}

// Search returns fuzzy ticker matches, cached per lower-cased query.
func (s *Service) Search(ctx context.Context, query string) ([]models.TickerMatch, error) {
	key := strings.ToLower(strings.TrimSpace(query))

	s.mu.Lock()
	entry, ok := s.searches[key]
	s.mu.Unlock()

	if ok && s.now().Sub(entry.fetched) < s.ttl {
		s.logger.Debug().Str("query", key).Msg("Search cache hit")
		return entry.matches, nil
	}

	matches, err := s.client.Search(ctx, query)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.searches[key] = searchEntry{matches: matches, fetched: s.now()}
	s.mu.Unlock()

	return matches, nil
}

// ResetCache drops all cached entries.
func (s *Service) ResetCache() {
	s.mu.Lock()
	s.overviews = make(map[string]overviewEntry)
	s.searches = make(map[string]searchEntry)
	s.mu.Unlock()

	s.logger.Info().Msg("Market data cache cleared")
}

// Ensure Service implements MarketService
var _ interfaces.MarketService = (*Service)(nil)
