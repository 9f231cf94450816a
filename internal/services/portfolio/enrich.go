package portfolio

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/bobmcallan/folio/internal/models"
)

// Enrich populates sector, industry, and analyst fields on each holding.
// One task per unique symbol runs in a bounded pool with per-task and batch
// deadlines; a symbol that fails or misses the deadline gets the fallback
// record instead of failing the batch.
func (s *Service) Enrich(ctx context.Context, holdings []*models.Holding) {
	seen := make(map[string]bool)
	var symbols []string
	for _, h := range holdings {
		if !seen[h.Symbol] {
			seen[h.Symbol] = true
			symbols = append(symbols, h.Symbol)
		}
	}
	if len(symbols) == 0 {
		return
	}

	batchCtx, cancel := context.WithTimeout(ctx, s.config.GetEnrichBatchTimeout())
	defer cancel()

	results := make(map[string]models.EnrichmentResult, len(symbols))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(batchCtx)
	g.SetLimit(s.config.EnrichWorkers)

	for _, symbol := range symbols {
		g.Go(func() error {
			taskCtx, taskCancel := context.WithTimeout(gctx, s.config.GetEnrichTaskTimeout())
			defer taskCancel()

			result := s.enrichOne(taskCtx, symbol)

			mu.Lock()
			results[symbol] = result
			mu.Unlock()
			return nil
		})
	}
	g.Wait()

	for _, h := range holdings {
		result, ok := results[h.Symbol]
		if !ok {
			result = models.EnrichmentResult{Symbol: h.Symbol}
		}
		if result.Failed() {
			s.logger.Debug().Str("symbol", h.Symbol).Msg("Enrichment fell back to default record")
		}
		result.Apply(h)
	}
}

// enrichOne fetches one symbol's enrichment record. A snapshot without a
// sector is treated as a fund and gets sector weightings instead.
func (s *Service) enrichOne(ctx context.Context, symbol string) models.EnrichmentResult {
	snap, err := s.market.Snapshot(ctx, symbol)
	if err != nil {
		return models.EnrichmentResult{Symbol: symbol, Err: err}
	}

	data := &models.Enrichment{
		Name:              snap.Name,
		Sector:            snap.Sector,
		SectorKey:         snap.SectorKey,
		Industry:          snap.Industry,
		IndustryKey:       snap.IndustryKey,
		MarketCap:         snap.MarketCap,
		CurrentPrice:      snap.CurrentPrice,
		TargetMeanPrice:   snap.TargetMeanPrice,
		RecommendationKey: snap.RecommendationKey,
		DividendYield:     snap.DividendYield,
		FiftyTwoWeekHigh:  snap.FiftyTwoWeekHigh,
		FiftyTwoWeekLow:   snap.FiftyTwoWeekLow,
		Beta:              snap.Beta,
		TrailingPE:        snap.TrailingPE,
	}
	if snap.NAnalysts != nil {
		data.NAnalysts = snap.NAnalysts
	}
	if data.Sector == "" {
		data.Sector = "Unknown"
	}
	if data.Industry == "" {
		data.Industry = "Unknown"
	}
	if data.RecommendationKey == "" {
		data.RecommendationKey = "N/A"
	}

	// No sector usually means an ETF or mutual fund. Sector weightings
	// enable look-through analysis; keys arrive snake_case.
	if snap.Sector == "" {
		weights, werr := s.market.FundSectorWeights(ctx, symbol)
		if werr == nil && len(weights) > 0 {
			labeled := make(map[string]float64, len(weights))
			for key, w := range weights {
				labeled[sectorLabel(key)] = models.RoundTo(w, 4)
			}
			data.SectorWeights = labeled
			data.IsFund = true
			data.Sector = "Fund/ETF"
		}
	}

	return models.EnrichmentResult{Symbol: symbol, Data: data}
}

// sectorLabel converts a provider snake_case sector key to its display
// label, title-casing unknown keys.
func sectorLabel(key string) string {
	if label, ok := sectorKeyMap[key]; ok {
		return label
	}
	words := []byte(key)
	upper := true
	for i, b := range words {
		switch {
		case b == '_':
			words[i] = ' '
			upper = true
		case upper && b >= 'a' && b <= 'z':
			words[i] = b - 32
			upper = false
		default:
			upper = false
		}
	}
	return string(words)
}
