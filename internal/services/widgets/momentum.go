package widgets

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/bobmcallan/folio/internal/models"
	"github.com/bobmcallan/folio/internal/services/market"
)

// SectorETFs maps the 11 SPDR sector ETF tickers to sector names.
var SectorETFs = map[string]string{
	"XLK":  "Technology",
	"XLF":  "Financial Services",
	"XLV":  "Healthcare",
	"XLY":  "Consumer Cyclical",
	"XLC":  "Communication Services",
	"XLI":  "Industrials",
	"XLP":  "Consumer Defensive",
	"XLE":  "Energy",
	"XLRE": "Real Estate",
	"XLB":  "Basic Materials",
	"XLU":  "Utilities",
}

// Trading-day offsets for trailing return windows.
const (
	weekDays    = 5
	monthDays   = 21
	quarterDays = 63
)

const momentumCacheKey = "sector_momentum:all"

// SectorMomentum returns trailing returns for the fixed sector ETF set,
// annotated with the caller's own sector weights. The ETF data is cached
// in aggregate for 30 minutes; the per-portfolio annotation never is.
func (s *Service) SectorMomentum(ctx context.Context, portfolioSectors map[string]float64) ([]models.SectorMomentum, error) {
	results := s.cachedMomentum(ctx)

	annotated := make([]models.SectorMomentum, len(results))
	for i, r := range results {
		r.PortfolioWeight = portfolioSectors[r.Sector]
		annotated[i] = r
	}
	return annotated, nil
}

func (s *Service) cachedMomentum(ctx context.Context) []models.SectorMomentum {
	// The cache is reached through the gateway's price history; the
	// aggregate list itself is cached separately so eleven fetches happen
	// at most twice an hour.
	if cached, ok := s.momentumFromCache(); ok {
		return cached
	}

	var mu sync.Mutex
	results := []models.SectorMomentum{}

	batchCtx, cancel := context.WithTimeout(ctx, fanoutTimeout)
	defer cancel()

	g, gctx := errgroup.WithContext(batchCtx)
	g.SetLimit(fanoutWorkers)
	for etf, sector := range SectorETFs {
		g.Go(func() error {
			entry, ok := s.fetchETFReturns(gctx, etf, sector)
			if !ok {
				return nil
			}
			mu.Lock()
			results = append(results, entry)
			mu.Unlock()
			return nil
		})
	}
	g.Wait()

	sort.Slice(results, func(i, j int) bool {
		return results[i].Sector < results[j].Sector
	})
	s.momentumToCache(results)
	return results
}

// fetchETFReturns computes 1W/1M/3M trailing returns for one ETF from its
// daily closes, skipping windows with insufficient history.
func (s *Service) fetchETFReturns(ctx context.Context, etf, sector string) (models.SectorMomentum, bool) {
	taskCtx, cancel := context.WithTimeout(ctx, perTaskTimeout)
	defer cancel()

	series, err := s.market.PriceHistory(taskCtx, etf, "3mo")
	if err != nil || len(series.Bars) < 2 {
		return models.SectorMomentum{}, false
	}

	bars := series.Bars
	current := bars[len(bars)-1].Close

	pct := func(nDays int) *float64 {
		if len(bars) <= nDays {
			return nil
		}
		old := bars[len(bars)-1-nDays].Close
		if old == 0 {
			return nil
		}
		return models.Float64Ptr(models.RoundCents((current - old) / old * 100))
	}

	return models.SectorMomentum{
		ETF:      etf,
		Sector:   sector,
		Price:    models.Float64Ptr(models.RoundCents(current)),
		Return1W: pct(weekDays),
		Return1M: pct(monthDays),
		Return3M: pct(quarterDays),
	}, true
}

func (s *Service) momentumFromCache() ([]models.SectorMomentum, bool) {
	if s.cache == nil {
		return nil, false
	}
	data, ok := s.cache.Get(momentumCacheKey)
	if !ok {
		return nil, false
	}
	var results []models.SectorMomentum
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, false
	}
	return results, true
}

func (s *Service) momentumToCache(results []models.SectorMomentum) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(results)
	if err != nil {
		return
	}
	if err := s.cache.Put(momentumCacheKey, data, market.MomentumTTL); err != nil {
		s.logger.Warn().Err(err).Msg("Momentum cache write failed")
	}
}
