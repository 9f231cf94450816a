package portfolio

import (
	"context"
	"errors"
	"io"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/models"
)

// ErrNoHoldings is returned when ingestion produced nothing analyzable.
var ErrNoHoldings = errors.New("no valid holdings found")

// Service implements the PortfolioService interface.
type Service struct {
	market interfaces.MarketGateway
	config *common.AnalysisConfig
	logger *common.Logger
}

// NewService creates the portfolio service.
func NewService(market interfaces.MarketGateway, config *common.AnalysisConfig, logger *common.Logger) *Service {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Service{
		market: market,
		config: config,
		logger: logger,
	}
}

// AnalyzeCSV normalizes a brokerage CSV export, enriches the holdings, and
// runs the analytics engine.
func (s *Service) AnalyzeCSV(ctx context.Context, r io.Reader) (*models.PortfolioAnalysis, error) {
	holdings, err := ParseCSV(r)
	if err != nil {
		return nil, err
	}
	if len(holdings) == 0 {
		return nil, ErrNoHoldings
	}

	s.logger.Info().Int("holdings", len(holdings)).Msg("Parsed CSV portfolio")
	s.Enrich(ctx, holdings)
	return s.Analyze(ctx, holdings), nil
}

// AnalyzeManual builds a portfolio from manual entries, enriches it, fills
// prices from enrichment, and runs the analytics engine.
func (s *Service) AnalyzeManual(ctx context.Context, entries []models.ManualEntry) (*models.PortfolioAnalysis, error) {
	holdings := BuildManual(entries)
	if len(holdings) == 0 {
		return nil, ErrNoHoldings
	}

	s.logger.Info().Int("holdings", len(holdings)).Msg("Built manual portfolio")
	s.Enrich(ctx, holdings)
	FillPrices(holdings)
	return s.Analyze(ctx, holdings), nil
}

// Ensure Service implements PortfolioService
var _ interfaces.PortfolioService = (*Service)(nil)
