// Package app wires configuration, clients, and services into a running
// application.
package app

import (
	"context"
	"fmt"

	"github.com/bobmcallan/folio/internal/clients/gemini"
	"github.com/bobmcallan/folio/internal/clients/yahoo"
	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/services/market"
	"github.com/bobmcallan/folio/internal/services/narrative"
	"github.com/bobmcallan/folio/internal/services/portfolio"
	"github.com/bobmcallan/folio/internal/services/widgets"
	"github.com/bobmcallan/folio/internal/storage/cache"
)

// App holds the application's wired components.
type App struct {
	Config    *common.Config
	Logger    *common.Logger
	Cache     interfaces.Cache
	Market    interfaces.MarketGateway
	Portfolio interfaces.PortfolioService
	Widgets   interfaces.WidgetService
	Narrative interfaces.NarrativeService
}

// New builds the application from config files (later paths override
// earlier ones).
func New(ctx context.Context, configPaths ...string) (*App, error) {
	config, err := common.LoadConfig(configPaths...)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := common.NewLoggerFromConfig(config.Logging)

	store, err := cache.NewFromConfig(config, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}

	// The public quote endpoints work without a key; a key just raises the
	// rate limit, so a missing one is not an error.
	yahooKey, _ := common.ResolveAPIKey("yahoo_api_key", config.Clients.Yahoo.APIKey)

	yahooClient := yahoo.NewClient(
		yahooKey,
		yahoo.WithBaseURL(config.Clients.Yahoo.BaseURL),
		yahoo.WithLogger(logger),
		yahoo.WithRateLimit(config.Clients.Yahoo.RateLimit),
		yahoo.WithTimeout(config.Clients.Yahoo.GetTimeout()),
	)

	gateway := market.NewGateway(yahooClient, store, logger)

	// Commentary works without a key; the narrative service falls back to
	// rule-based text.
	var geminiClient interfaces.GeminiClient
	if apiKey, err := common.ResolveAPIKey("gemini_api_key", config.Clients.Gemini.APIKey); err == nil && apiKey != "" {
		client, err := gemini.NewClient(ctx, apiKey,
			gemini.WithModel(config.Clients.Gemini.Model),
			gemini.WithLogger(logger),
		)
		if err != nil {
			logger.Warn().Err(err).Msg("Gemini client unavailable, commentary falls back to rule-based text")
		} else {
			geminiClient = client
		}
	}

	app := &App{
		Config:    config,
		Logger:    logger,
		Cache:     store,
		Market:    gateway,
		Portfolio: portfolio.NewService(gateway, &config.Analysis, logger),
		Widgets:   widgets.NewService(gateway, store, logger),
		Narrative: narrative.NewService(geminiClient, logger),
	}
	return app, nil
}

// Close releases application resources.
func (a *App) Close() error {
	if a.Cache != nil {
		return a.Cache.Close()
	}
	return nil
}
