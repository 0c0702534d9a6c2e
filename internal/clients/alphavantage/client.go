// Package alphavantage provides a client for the Alpha Vantage API
package alphavantage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/bobmcallan/strata/internal/common"
	"github.com/bobmcallan/strata/internal/interfaces"
	"github.com/bobmcallan/strata/internal/models"
)

const (
	DefaultBaseURL   = "https://www.alphavantage.co/query"
	DefaultTimeout   = 10 * time.Second
	DefaultRateLimit = 5 // requests per second

	maxSearchResults = 10
)

// Client implements the MarketDataClient interface.
// With no API key configured it answers from the built-in offline catalog so
// development and tests need no network access.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new Alpha Vantage client
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError represents an API error
type APIError struct {
	StatusCode int
	Message    string
	Function   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Alpha Vantage API error: %s (status: %d, function: %s)", e.Message, e.StatusCode, e.Function)
}

// get performs a rate-limited GET request
func (c *Client) get(ctx context.Context, function string, params url.Values, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("function", function)
	params.Set("apikey", c.apiKey)

	reqURL := fmt.Sprintf("%s?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	c.logger.Debug().Str("function", function).Msg("Alpha Vantage API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Function:   function,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// overviewResponse mirrors the OVERVIEW payload. The API returns an empty
// object for unknown symbols and a "Note"/"Error Message" field when rate
// limited or misconfigured.
type overviewResponse struct {
	Symbol       string `json:"Symbol"`
	Name         string `json:"Name"`
	Sector       string `json:"Sector"`
	Industry     string `json:"Industry"`
	MarketCap    string `json:"MarketCapitalization"`
	Description  string `json:"Description"`
	Note         string `json:"Note"`
	ErrorMessage string `json:"Error Message"`
}

// GetOverview retrieves sector/industry metadata for a ticker.
// Returns (nil, nil) when the symbol is unknown.
func (c *Client) GetOverview(ctx context.Context, symbol string) (*models.TickerOverview, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	if c.apiKey == "" {
		return catalogOverview(symbol), nil
	}

	params := url.Values{}
	params.Set("symbol", symbol)

	var resp overviewResponse
	if err := c.get(ctx, "OVERVIEW", params, &resp); err != nil {
		c.logger.Warn().Err(err).Str("symbol", symbol).Msg("Overview request failed, falling back to offline catalog")
		return catalogOverview(symbol), nil
	}

	// Empty payload, rate-limit note, or error message: treat like a miss
	// and let the offline catalog answer if it can.
	if resp.Symbol == "" || resp.Note != "" || resp.ErrorMessage != "" {
		c.logger.Debug().Str("symbol", symbol).Msg("Overview unavailable from API, using offline catalog")
		return catalogOverview(symbol), nil
	}

	marketCap, _ := strconv.ParseFloat(resp.MarketCap, 64)

	return &models.TickerOverview{
		Symbol:      resp.Symbol,
		Name:        resp.Name,
		Sector:      resp.Sector,
		Industry:    resp.Industry,
		MarketCap:   marketCap,
		Description: resp.Description,
	}, nil
}

// searchResponse mirrors the SYMBOL_SEARCH payload.
type searchResponse struct {
	BestMatches []struct {
		Symbol string `json:"1. symbol"`
		Name   string `json:"2. name"`
		Type   string `json:"3. type"`
		Region string `json:"4. region"`
	} `json:"bestMatches"`
}

// Search returns fuzzy ticker matches for a query, capped at 10 results.
func (c *Client) Search(ctx context.Context, query string) ([]models.TickerMatch, error) {
	if c.apiKey == "" {
		return catalogSearch(query), nil
	}

	params := url.Values{}
	params.Set("keywords", query)

	var resp searchResponse
	if err := c.get(ctx, "SYMBOL_SEARCH", params, &resp); err != nil {
		c.logger.Warn().Err(err).Str("query", query).Msg("Search request failed, falling back to offline catalog")
		return catalogSearch(query), nil
	}

	matches := resp.BestMatches
	if len(matches) > maxSearchResults {
		matches = matches[:maxSearchResults]
	}

	results := make([]models.TickerMatch, len(matches))
	for i, m := range matches {
		results[i] = models.TickerMatch{
			Symbol: m.Symbol,
			Name:   m.Name,
			Type:   m.Type,
			Region: m.Region,
		}
	}

	return results, nil
}

// Ensure Client implements MarketDataClient
var _ interfaces.MarketDataClient = (*Client)(nil)
