// Package app wires configuration, storage, clients, and services into the
// shared core used by cmd/strata-server.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bobmcallan/strata/internal/clients/alphavantage"
	"github.com/bobmcallan/strata/internal/clients/gemini"
	"github.com/bobmcallan/strata/internal/common"
	"github.com/bobmcallan/strata/internal/interfaces"
	"github.com/bobmcallan/strata/internal/services/market"
	"github.com/bobmcallan/strata/internal/services/onboarding"
	"github.com/bobmcallan/strata/internal/services/portfolio"
	"github.com/bobmcallan/strata/internal/services/reasoning"
	"github.com/bobmcallan/strata/internal/storage/internaldb"
)

// App holds all initialized services and clients.
type App struct {
	Config            *common.Config
	Logger            *common.Logger
	Store             interfaces.InternalStore
	MarketClient      interfaces.MarketDataClient
	GenerativeClient  interfaces.GenerativeClient
	MarketService     interfaces.MarketService
	PortfolioService  interfaces.PortfolioService
	ReasoningService  interfaces.ReasoningService
	OnboardingService interfaces.OnboardingService
	StartupTime       time.Time
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes all services, clients, and storage.
// configPath may be empty, in which case the default resolution logic is used.
func NewApp(configPath string) (*App, error) {
	startupStart := time.Now()

	common.LoadVersionFromFile()

	binDir := getBinaryDir()

	// Config path resolution: explicit arg, STRATA_CONFIG, binary dir, dev fallback
	if configPath == "" {
		configPath = os.Getenv("STRATA_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "strata.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/strata.toml"
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Resolve relative storage path to binary directory
	if config.Storage.Internal.Path != "" && !filepath.IsAbs(config.Storage.Internal.Path) {
		config.Storage.Internal.Path = filepath.Join(binDir, config.Storage.Internal.Path)
	}

	logger := common.NewLoggerFromConfig(config.Logging)

	store, err := internaldb.NewStore(logger, config.Storage.Internal.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	ctx := context.Background()

	avKey, err := common.ResolveAPIKey(ctx, store, "alphavantage_api_key", config.Clients.AlphaVantage.APIKey)
	if err != nil {
		logger.Warn().Msg("Alpha Vantage API key not configured - market data served from offline catalog")
	}

	geminiKey, err := common.ResolveAPIKey(ctx, store, "gemini_api_key", config.Clients.Gemini.APIKey)
	if err != nil {
		logger.Warn().Msg("Gemini API key not configured - recommendations use deterministic reasoning")
	}

	// The market client works keyless through its offline catalog.
	marketClient := alphavantage.NewClient(avKey,
		alphavantage.WithBaseURL(config.Clients.AlphaVantage.BaseURL),
		alphavantage.WithLogger(logger),
		alphavantage.WithRateLimit(config.Clients.AlphaVantage.RateLimit),
		alphavantage.WithTimeout(config.Clients.AlphaVantage.GetTimeout()),
	)

	var generativeClient interfaces.GenerativeClient
	if geminiKey != "" {
		client, err := gemini.NewClient(ctx, geminiKey,
			gemini.WithLogger(logger),
			gemini.WithModel(config.Clients.Gemini.Model),
		)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to initialize Gemini client")
		} else {
			generativeClient = client
		}
	}

	marketService := market.NewService(marketClient, logger,
		market.WithTTL(config.Clients.AlphaVantage.GetCacheTTL()),
	)

	var reasoningService interfaces.ReasoningService
	if generativeClient != nil {
		reasoningService = reasoning.NewService(generativeClient, logger,
			reasoning.WithMaxOutputTokens(config.Clients.Gemini.MaxOutputTokens),
		)
	}

	portfolioService := portfolio.NewService(marketService, reasoningService, logger,
		portfolio.WithPricing(portfolio.MarkupPricing{Factor: config.Advisory.PriceMarkup}),
	)

	onboardingService := onboarding.NewService(store, logger)

	a := &App{
		Config:            config,
		Logger:            logger,
		Store:             store,
		MarketClient:      marketClient,
		GenerativeClient:  generativeClient,
		MarketService:     marketService,
		PortfolioService:  portfolioService,
		ReasoningService:  reasoningService,
		OnboardingService: onboardingService,
		StartupTime:       startupStart,
	}

	logger.Info().Dur("startup", time.Since(startupStart)).Msg("App initialized")

	return a, nil
}

// Close releases app resources.
func (a *App) Close() {
	if a.Store != nil {
		if err := a.Store.Close(); err != nil {
			a.Logger.Error().Err(err).Msg("Failed to close internal store")
		}
	}
}
