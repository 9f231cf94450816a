// Package interfaces defines the service and client contracts wired
// together in internal/app.
package interfaces

import (
	"context"

	"github.com/bobmcallan/folio/internal/models"
)

// MarketDataClient is the raw market data provider. Implementations talk to
// the provider directly; caching lives in the market gateway, not here.
type MarketDataClient interface {
	// GetSnapshot fetches the per-ticker summary record.
	GetSnapshot(ctx context.Context, symbol string) (*models.Snapshot, error)

	// GetFundSectorWeights fetches a fund's sector weightings as fractions
	// summing to roughly 1. Returns an empty map for non-funds.
	GetFundSectorWeights(ctx context.Context, symbol string) (map[string]float64, error)

	// GetPriceHistory fetches daily closes for the given range
	// ("1d", "5d", "1mo", "3mo", "6mo", "1y").
	GetPriceHistory(ctx context.Context, symbol, rng string) (*models.PriceSeries, error)

	// GetIndustryCompanies returns the ticker symbols of an industry's top
	// companies by market cap.
	GetIndustryCompanies(ctx context.Context, industryKey string, limit int) ([]string, error)

	// GetNews fetches recent headlines for a ticker.
	GetNews(ctx context.Context, symbol string, limit int) ([]models.NewsHeadline, error)

	// GetSustainability fetches a ticker's ESG scores, or a not-found error
	// when the provider has no coverage.
	GetSustainability(ctx context.Context, symbol string) (*models.Sustainability, error)

	// GetQuarterlyIncome fetches recent quarterly income statement rows,
	// newest first.
	GetQuarterlyIncome(ctx context.Context, symbol string, quarters int) ([]models.QuarterlyIncomeRow, error)
}

// GeminiClient generates narrative text from a prompt.
type GeminiClient interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
	IsConfigured() bool
}
