// Package app wires configuration, storage, clients, and services together
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jmorrell/stockgraph/internal/cache"
	"github.com/jmorrell/stockgraph/internal/clients/gemini"
	"github.com/jmorrell/stockgraph/internal/clients/marketdata"
	"github.com/jmorrell/stockgraph/internal/common"
	"github.com/jmorrell/stockgraph/internal/corr"
	"github.com/jmorrell/stockgraph/internal/interfaces"
	"github.com/jmorrell/stockgraph/internal/services/correlation"
	"github.com/jmorrell/stockgraph/internal/services/sentiment"
	"github.com/jmorrell/stockgraph/internal/storage/badger"
	"github.com/jmorrell/stockgraph/internal/storage/blobfs"
)

// App holds all initialized services and clients. It is the shared core used
// by cmd/stockgraph-server.
type App struct {
	Config             *common.Config
	Logger             *common.Logger
	Store              interfaces.BlobStore
	PriceClient        interfaces.PriceHistoryClient
	SentimentClient    interfaces.SentimentClient
	CorrelationService interfaces.CorrelationService
	SentimentService   interfaces.SentimentService
	StartupTime        time.Time
}

// NewApp initializes all services, clients, and storage from config.
// configPath may be empty, in which case defaults plus env overrides apply.
func NewApp(configPath string) (*App, error) {
	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := common.NewLoggerFromConfig(config.Logging)

	store, err := newBlobStore(config, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	priceClient := marketdata.NewClient(
		config.Clients.MarketData.BaseURL,
		config.Clients.MarketData.APIKey,
		marketdata.WithLogger(logger),
		marketdata.WithRateLimit(config.Clients.MarketData.RateLimit),
		marketdata.WithTimeout(config.Clients.MarketData.GetTimeout()),
	)

	engine := corr.NewEngine(priceClient, logger, config.Correlation.LookbackDays, config.Correlation.Threshold)
	resultCache := cache.NewResultCache(store, logger)
	correlationService := correlation.NewService(resultCache, engine, logger, config.Correlation.GetMaxAge())

	a := &App{
		Config:             config,
		Logger:             logger,
		Store:              store,
		PriceClient:        priceClient,
		CorrelationService: correlationService,
		StartupTime:        time.Now(),
	}

	// Sentiment is optional: without an API key the endpoint reports unavailable
	if config.Clients.Gemini.APIKey != "" {
		geminiClient, err := gemini.NewClient(context.Background(), config.Clients.Gemini.APIKey,
			gemini.WithModel(config.Clients.Gemini.Model),
			gemini.WithLogger(logger),
		)
		if err != nil {
			logger.Warn().Err(err).Msg("Gemini client unavailable, sentiment disabled")
		} else {
			a.SentimentClient = geminiClient
			a.SentimentService = sentiment.NewService(geminiClient, store, logger)
		}
	} else {
		logger.Warn().Msg("Gemini API key not configured, sentiment disabled")
	}

	return a, nil
}

// newBlobStore selects the blob store implementation from config.
func newBlobStore(config *common.Config, logger *common.Logger) (interfaces.BlobStore, error) {
	switch config.Storage.Driver {
	case "badger":
		return badger.NewStore(logger, config.Storage.Path)
	default:
		return blobfs.NewStore(logger, config.Storage.Path)
	}
}

// Close releases all held resources.
func (a *App) Close() {
	if a.Store != nil {
		if err := a.Store.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close blob store")
		}
	}
}
