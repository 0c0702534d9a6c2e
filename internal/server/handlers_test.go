package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/strata/internal/app"
	"github.com/bobmcallan/strata/internal/common"
	"github.com/bobmcallan/strata/internal/interfaces"
	"github.com/bobmcallan/strata/internal/models"
	"github.com/bobmcallan/strata/internal/services/market"
	"github.com/bobmcallan/strata/internal/services/onboarding"
	"github.com/bobmcallan/strata/internal/services/portfolio"
)

// mockMarketClient serves a fixed ticker table directly to the market service.
type mockMarketClient struct {
	sectors map[string]string
}

var _ interfaces.MarketDataClient = (*mockMarketClient)(nil)

func (m *mockMarketClient) GetOverview(_ context.Context, symbol string) (*models.TickerOverview, error) {
	sector, ok := m.sectors[symbol]
	if !ok {
		return nil, nil
	}
	return &models.TickerOverview{Symbol: symbol, Name: symbol + " Inc", Sector: sector}, nil
}

func (m *mockMarketClient) Search(_ context.Context, query string) ([]models.TickerMatch, error) {
	if strings.EqualFold(query, "apple") {
		return []models.TickerMatch{{Symbol: "AAPL", Name: "Apple Inc"}}, nil
	}
	return nil, nil
}

// mockServerStore is an in-memory InternalStore for handler tests.
type mockServerStore struct {
	profiles map[string]*models.UserProfile
	analyses []models.SavedAnalysis
}

var _ interfaces.InternalStore = (*mockServerStore)(nil)

func newMockServerStore() *mockServerStore {
	return &mockServerStore{profiles: make(map[string]*models.UserProfile)}
}

func (m *mockServerStore) GetProfile(_ context.Context, userID string) (*models.UserProfile, error) {
	p, ok := m.profiles[userID]
	if !ok {
		return nil, errors.New("profile not found")
	}
	return p, nil
}
func (m *mockServerStore) SaveProfile(_ context.Context, p *models.UserProfile) error {
	m.profiles[p.UserID] = p
	return nil
}
func (m *mockServerStore) DeleteProfile(_ context.Context, userID string) error {
	delete(m.profiles, userID)
	return nil
}
func (m *mockServerStore) ListProfiles(_ context.Context) ([]string, error) { return nil, nil }
func (m *mockServerStore) SaveAnalysis(_ context.Context, a *models.SavedAnalysis) error {
	m.analyses = append(m.analyses, *a)
	return nil
}
func (m *mockServerStore) ListAnalyses(_ context.Context, userID string) ([]models.SavedAnalysis, error) {
	var out []models.SavedAnalysis
	for _, a := range m.analyses {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}
func (m *mockServerStore) GetSystemKV(_ context.Context, _ string) (string, error) {
	return "", errors.New("not found")
}
func (m *mockServerStore) SetSystemKV(_ context.Context, _, _ string) error { return nil }
func (m *mockServerStore) Close() error                                     { return nil }

// newTestServer wires real services over mock clients and storage.
func newTestServer(t *testing.T, store *mockServerStore) http.Handler {
	t.Helper()

	logger := common.NewSilentLogger()
	client := &mockMarketClient{sectors: map[string]string{
		"AAPL": "Technology",
		"MSFT": "Technology",
		"SPY":  "Index Fund",
	}}
	marketSvc := market.NewService(client, logger)
	portfolioSvc := portfolio.NewService(marketSvc, nil, logger)
	onboardingSvc := onboarding.NewService(store, logger)

	a := &app.App{
		Config:            common.NewDefaultConfig(),
		Logger:            logger,
		Store:             store,
		MarketClient:      client,
		MarketService:     marketSvc,
		PortfolioService:  portfolioSvc,
		OnboardingService: onboardingSvc,
		StartupTime:       time.Now(),
	}

	return NewServer(a).Handler()
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func samplePayload() map[string]interface{} {
	return map[string]interface{}{
		"holdings": []map[string]interface{}{
			{"ticker": "AAPL", "shares": 100, "purchase_price": 150.00},
			{"ticker": "MSFT", "shares": 50, "purchase_price": 280.00},
			{"ticker": "SPY", "shares": 20, "purchase_price": 400.00},
		},
	}
}

func TestHealthEndpoint(t *testing.T) {
	handler := newTestServer(t, newMockServerStore())

	rec := doJSON(t, handler, http.MethodGet, "/api/health", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestPortfolioAnalyze(t *testing.T) {
	handler := newTestServer(t, newMockServerStore())

	rec := doJSON(t, handler, http.MethodPost, "/api/portfolio/analyze", samplePayload(), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var analysis models.PortfolioAnalysis
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &analysis))

	assert.InDelta(t, 40700.0, analysis.TotalValue, 0.01)
	assert.Contains(t, analysis.ConcentratedSectors, "Technology")
}

func TestPortfolioAnalyze_EmptyHoldings(t *testing.T) {
	handler := newTestServer(t, newMockServerStore())

	rec := doJSON(t, handler, http.MethodPost, "/api/portfolio/analyze",
		map[string]interface{}{"holdings": []interface{}{}}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPortfolioAnalyze_SavesSnapshotForUser(t *testing.T) {
	store := newMockServerStore()
	store.profiles["user-1"] = &models.UserProfile{UserID: "user-1", Persona: models.PersonaRebalance}
	handler := newTestServer(t, store)

	rec := doJSON(t, handler, http.MethodPost, "/api/portfolio/analyze", samplePayload(),
		map[string]string{"X-Strata-User-ID": "user-1"})
	require.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, store.analyses, 1)
	assert.Equal(t, "user-1", store.analyses[0].UserID)
}

func TestPortfolioAnalyze_PersonaGate(t *testing.T) {
	store := newMockServerStore()
	store.profiles["starter"] = &models.UserProfile{UserID: "starter", Persona: models.PersonaStarter}
	handler := newTestServer(t, store)

	t.Run("wrong persona is rejected", func(t *testing.T) {
		rec := doJSON(t, handler, http.MethodPost, "/api/portfolio/analyze", samplePayload(),
			map[string]string{"X-Strata-User-ID": "starter"})
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("unknown user passes through", func(t *testing.T) {
		rec := doJSON(t, handler, http.MethodPost, "/api/portfolio/analyze", samplePayload(),
			map[string]string{"X-Strata-User-ID": "nobody"})
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("anonymous passes through", func(t *testing.T) {
		rec := doJSON(t, handler, http.MethodPost, "/api/portfolio/analyze", samplePayload(), nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestPortfolioUpload_CSVBody(t *testing.T) {
	handler := newTestServer(t, newMockServerStore())

	csv := "ticker,shares,purchase_price\nAAPL,100,150.00\nMSFT,50,280.00\nSPY,20,400.00\n"
	req := httptest.NewRequest(http.MethodPost, "/api/portfolio/upload", strings.NewReader(csv))
	req.Header.Set("Content-Type", "text/csv")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var analysis models.PortfolioAnalysis
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &analysis))
	assert.InDelta(t, 40700.0, analysis.TotalValue, 0.01)
}

func TestPortfolioUpload_MalformedCSV(t *testing.T) {
	handler := newTestServer(t, newMockServerStore())

	req := httptest.NewRequest(http.MethodPost, "/api/portfolio/upload", strings.NewReader("foo,bar\n1,2\n"))
	req.Header.Set("Content-Type", "text/csv")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var errResp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
	assert.Contains(t, errResp.Error, "invalid portfolio format")
}

func TestPortfolioRebalance(t *testing.T) {
	handler := newTestServer(t, newMockServerStore())

	rec := doJSON(t, handler, http.MethodPost, "/api/portfolio/rebalance?model_type=growth", samplePayload(), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var plan models.RebalancePlan
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &plan))
	assert.Equal(t, "growth", plan.ModelType)
	assert.NotEmpty(t, plan.TargetAllocation)
}

func TestPortfolioRebalance_InvalidModel(t *testing.T) {
	handler := newTestServer(t, newMockServerStore())

	rec := doJSON(t, handler, http.MethodPost, "/api/portfolio/rebalance?model_type=invalid", samplePayload(), nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var errResp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
	assert.Contains(t, errResp.Error, "model_type")
}

func TestPortfolioRebalance_DefaultsToBalanced(t *testing.T) {
	handler := newTestServer(t, newMockServerStore())

	rec := doJSON(t, handler, http.MethodPost, "/api/portfolio/rebalance", samplePayload(), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var plan models.RebalancePlan
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &plan))
	assert.Equal(t, "balanced", plan.ModelType)
}

func TestPortfolioChart_ReturnsPNG(t *testing.T) {
	handler := newTestServer(t, newMockServerStore())

	rec := doJSON(t, handler, http.MethodPost, "/api/portfolio/chart", samplePayload(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, []byte{0x89, 0x50, 0x4E, 0x47}, rec.Body.Bytes()[:4])
}

func TestPortfolioAnalyses_RequiresUser(t *testing.T) {
	handler := newTestServer(t, newMockServerStore())

	rec := doJSON(t, handler, http.MethodGet, "/api/portfolio/analyses", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMarketSearch(t *testing.T) {
	handler := newTestServer(t, newMockServerStore())

	rec := doJSON(t, handler, http.MethodGet, "/api/market/search?q=apple", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Query   string               `json:"query"`
		Matches []models.TickerMatch `json:"matches"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "apple", body.Query)
	require.Len(t, body.Matches, 1)
	assert.Equal(t, "AAPL", body.Matches[0].Symbol)
}

func TestMarketSearch_ShortQuery(t *testing.T) {
	handler := newTestServer(t, newMockServerStore())

	rec := doJSON(t, handler, http.MethodGet, "/api/market/search?q=a", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMarketTicker(t *testing.T) {
	handler := newTestServer(t, newMockServerStore())

	rec := doJSON(t, handler, http.MethodGet, "/api/market/tickers/aapl", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var overview models.TickerOverview
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &overview))
	assert.Equal(t, "AAPL", overview.Symbol)
	assert.Equal(t, "Technology", overview.Sector)
}

func TestMarketTicker_NotFound(t *testing.T) {
	handler := newTestServer(t, newMockServerStore())

	rec := doJSON(t, handler, http.MethodGet, "/api/market/tickers/ZZZZ", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOnboardingQuestionnaire(t *testing.T) {
	handler := newTestServer(t, newMockServerStore())

	rec := doJSON(t, handler, http.MethodGet, "/api/onboarding/questionnaire", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Questions []models.Question `json:"questions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Questions, 10)
}

func TestOnboardingSubmit(t *testing.T) {
	store := newMockServerStore()
	handler := newTestServer(t, store)

	answers := []map[string]interface{}{}
	for i := 1; i <= 10; i++ {
		answers = append(answers, map[string]interface{}{"question_id": i, "answer": "simple"})
	}

	rec := doJSON(t, handler, http.MethodPost, "/api/onboarding/submit", map[string]interface{}{
		"user_id": "user-1",
		"answers": answers,
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var result models.PersonaResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, models.PersonaStarter, result.Persona)

	// Classification is persisted for the submitting user
	assert.Contains(t, store.profiles, "user-1")
}

func TestOnboardingSubmit_EmptyAnswers(t *testing.T) {
	handler := newTestServer(t, newMockServerStore())

	rec := doJSON(t, handler, http.MethodPost, "/api/onboarding/submit", map[string]interface{}{
		"user_id": "user-1",
		"answers": []interface{}{},
	}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMethodNotAllowed(t *testing.T) {
	handler := newTestServer(t, newMockServerStore())

	rec := doJSON(t, handler, http.MethodGet, "/api/portfolio/analyze", nil, nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestCorrelationIDHeader(t *testing.T) {
	handler := newTestServer(t, newMockServerStore())

	rec := doJSON(t, handler, http.MethodGet, "/api/health", nil, nil)
	assert.NotEmpty(t, rec.Header().Get("X-Correlation-ID"))
}
