package interfaces

import (
	"context"
	"io"

	"github.com/bobmcallan/folio/internal/models"
)

// MarketGateway is the cached facade over the market data client. All
// service-layer market access goes through here so TTL policy lives in one
// place.
type MarketGateway interface {
	Snapshot(ctx context.Context, symbol string) (*models.Snapshot, error)
	FundSectorWeights(ctx context.Context, symbol string) (map[string]float64, error)
	PriceHistory(ctx context.Context, symbol, rng string) (*models.PriceSeries, error)
	IndustryCompanies(ctx context.Context, industryKey string, limit int) ([]string, error)
	News(ctx context.Context, symbol string, limit int) ([]models.NewsHeadline, error)
	Sustainability(ctx context.Context, symbol string) (*models.Sustainability, error)
	Quote(ctx context.Context, symbol string) (*models.Quote, error)
	QuarterlyIncome(ctx context.Context, symbol string, quarters int) ([]models.QuarterlyIncomeRow, error)
}

// PortfolioService ingests portfolios and produces the full analysis.
type PortfolioService interface {
	// AnalyzeCSV normalizes a brokerage CSV export, enriches the holdings,
	// and runs the analytics engine.
	AnalyzeCSV(ctx context.Context, r io.Reader) (*models.PortfolioAnalysis, error)

	// AnalyzeManual builds a portfolio from manual entries, enriches it, and
	// runs the analytics engine.
	AnalyzeManual(ctx context.Context, entries []models.ManualEntry) (*models.PortfolioAnalysis, error)
}

// WidgetService computes the asynchronous dashboard widgets. Each method
// takes the trimmed holding projection the client posts back.
type WidgetService interface {
	SectorMomentum(ctx context.Context, portfolioSectors map[string]float64) ([]models.SectorMomentum, error)
	NewsDigest(ctx context.Context, holdings []models.WidgetHolding) ([]models.NewsHeadline, error)
	PeerComparison(ctx context.Context, holdings []models.WidgetHolding) ([]models.PeerComparison, error)
	Performance(ctx context.Context, holdings []models.WidgetHolding, period string) (*models.PerformanceResult, error)
	Correlation(ctx context.Context, holdings []models.WidgetHolding) (*models.CorrelationResult, error)
	ESG(ctx context.Context, holdings []models.WidgetHolding) (*models.ESGResult, error)
	PerformanceChart(ctx context.Context, result *models.PerformanceResult) ([]byte, error)
}

// NarrativeService produces portfolio commentary. Implementations fall back
// to rule-based text when no generative backend is configured.
type NarrativeService interface {
	Commentary(ctx context.Context, req *models.CommentaryRequest) (string, error)
}
