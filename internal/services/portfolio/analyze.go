package portfolio

import (
	"context"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/bobmcallan/folio/internal/models"
)

const (
	fundIndustryLabel  = "Fund/ETF (look-through in sector view)"
	industryPickLimit  = 15
	picksPerGap        = 3
	minPickAnalysts    = 5
	upsideSanityFloor  = -80.0
	upsideSanityCap    = 200.0
	compositeUpsideCap = 100.0
)

// Analyze runs the full analytics pass over enriched holdings. Aside from
// the initial stable sort by value the input is not mutated; the result is
// immutable once returned.
func (s *Service) Analyze(ctx context.Context, holdings []*models.Holding) *models.PortfolioAnalysis {
	sort.SliceStable(holdings, func(i, j int) bool {
		if holdings[i].CurrentValue != holdings[j].CurrentValue {
			return holdings[i].CurrentValue > holdings[j].CurrentValue
		}
		return holdings[i].Symbol < holdings[j].Symbol
	})

	totalValue := 0.0
	totalCost := 0.0
	totalGain := 0.0
	for _, h := range holdings {
		totalValue += h.CurrentValue
		if h.CostBasis != nil {
			totalCost += *h.CostBasis
		}
		if h.TotalGainDollar != nil {
			totalGain += *h.TotalGainDollar
		}
	}
	totalGainPct := 0.0
	if totalCost > 0 {
		totalGainPct = models.RoundCents((totalValue - totalCost) / totalCost * 100)
	}

	bySector := buildSectorBuckets(holdings, totalValue)
	byIndustry := buildIndustryBuckets(holdings, totalValue)
	concentration := s.findConcentration(holdings, totalValue)
	gaps := findGaps(holdings)
	opportunities := s.fetchOpportunities(ctx, gaps)
	overview := computeAnalystOverview(holdings)
	taxLoss := s.findTaxLossCandidates(holdings)
	health := s.computeHealthScore(holdings, bySector, concentration, overview, totalValue, totalCost)
	dividends := computeDividends(holdings, totalValue)

	return &models.PortfolioAnalysis{
		Holdings:          holdings,
		TotalValue:        totalValue,
		TotalCost:         totalCost,
		TotalGain:         totalGain,
		TotalGainPct:      totalGainPct,
		BySector:          bySector,
		ByIndustry:        byIndustry,
		Concentration:     concentration,
		Gaps:              gaps,
		Opportunities:     opportunities,
		IndustryLabels:    IndustryLabels,
		AnalystOverview:   overview,
		WidgetMeta:        buildWidgetMeta(holdings, bySector, concentration, overview),
		TaxLossCandidates: taxLoss,
		HealthScore:       health,
		Dividends:         dividends,
	}
}

// buildSectorBuckets aggregates value by sector with fund look-through: a
// fund's value is split across sectors by its weight fractions, and the
// fund is counted once in its largest-weight sector.
func buildSectorBuckets(holdings []*models.Holding, totalValue float64) []models.SectorBucket {
	buckets := make(map[string]*models.SectorBucket)
	bucket := func(sector string) *models.SectorBucket {
		b, ok := buckets[sector]
		if !ok {
			b = &models.SectorBucket{Sector: sector}
			buckets[sector] = b
		}
		return b
	}

	for _, h := range holdings {
		if len(h.SectorWeights) > 0 {
			topSector := ""
			topWeight := 0.0
			for sector, w := range h.SectorWeights {
				bucket(sector).Value += h.CurrentValue * w
				if w > topWeight || (w == topWeight && sector < topSector) {
					topSector, topWeight = sector, w
				}
			}
			bucket(topSector).Count++
			continue
		}

		sector := h.Sector
		if sector == "" || sector == "Fund/ETF" {
			sector = "Unknown"
		}
		b := bucket(sector)
		b.Value += h.CurrentValue
		b.Count++
	}

	result := make([]models.SectorBucket, 0, len(buckets))
	for _, b := range buckets {
		if totalValue > 0 {
			b.Pct = models.RoundTo(b.Value/totalValue*100, 1)
		}
		result = append(result, *b)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Value != result[j].Value {
			return result[i].Value > result[j].Value
		}
		return result[i].Sector < result[j].Sector
	})
	return result
}

// buildIndustryBuckets aggregates value by industry. Funds have no
// industry-level detail so they collapse into a single pseudo-bucket;
// look-through stays sector-level only.
func buildIndustryBuckets(holdings []*models.Holding, totalValue float64) []models.IndustryBucket {
	buckets := make(map[string]*models.IndustryBucket)
	var order []string

	for _, h := range holdings {
		industry := h.Industry
		industryKey := h.IndustryKey
		sector := h.Sector
		if h.IsFund || len(h.SectorWeights) > 0 {
			industry = fundIndustryLabel
			industryKey = ""
			sector = "Fund/ETF"
		} else {
			if industry == "" {
				industry = "Unknown"
			}
			if sector == "" {
				sector = "Unknown"
			}
		}

		b, ok := buckets[industry]
		if !ok {
			b = &models.IndustryBucket{
				Industry:    industry,
				IndustryKey: industryKey,
				Sector:      sector,
			}
			buckets[industry] = b
			order = append(order, industry)
		}
		b.Value += h.CurrentValue
		b.Count++
	}

	result := make([]models.IndustryBucket, 0, len(order))
	for _, industry := range order {
		b := buckets[industry]
		if totalValue > 0 {
			b.Pct = models.RoundTo(b.Value/totalValue*100, 1)
		}
		result = append(result, *b)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Value != result[j].Value {
			return result[i].Value > result[j].Value
		}
		return result[i].Industry < result[j].Industry
	})
	return result
}

// findConcentration flags holdings whose value weight strictly exceeds the
// policy threshold. Funds get a higher bar since they are internally
// diversified.
func (s *Service) findConcentration(holdings []*models.Holding, totalValue float64) []models.ConcentrationRisk {
	risks := []models.ConcentrationRisk{}
	for _, h := range holdings {
		var pct float64
		switch {
		case h.PctOfAccount != nil:
			pct = *h.PctOfAccount
		case totalValue > 0:
			pct = h.CurrentValue / totalValue * 100
		default:
			continue
		}

		threshold := s.config.StockConcentrationPct
		if h.IsFund {
			threshold = s.config.FundConcentrationPct
		}
		if pct > threshold {
			risks = append(risks, models.ConcentrationRisk{
				Symbol:       h.Symbol,
				Name:         h.Name,
				Pct:          models.RoundTo(pct, 1),
				CurrentValue: h.CurrentValue,
				IsFund:       h.IsFund,
			})
		}
	}
	return risks
}

// findGaps lists benchmark industries absent from the portfolio, sorted for
// deterministic output.
func findGaps(holdings []*models.Holding) []string {
	present := make(map[string]bool)
	for _, h := range holdings {
		if h.IndustryKey != "" {
			present[h.IndustryKey] = true
		}
	}

	gaps := []string{}
	for key := range AllowedIndustries {
		if !present[key] {
			gaps = append(gaps, key)
		}
	}
	sort.Strings(gaps)
	return gaps
}

// ratingValue maps a recommendation key onto a 1-5 scale, 5 best.
func ratingValue(recKey string) float64 {
	switch strings.ReplaceAll(strings.ToLower(recKey), " ", "_") {
	case "strong_buy":
		return 5
	case "buy", "overweight":
		return 4
	case "hold", "neutral":
		return 3
	case "underperform", "underweight":
		return 2
	case "sell", "strong_sell":
		return 1
	default:
		return 3
	}
}

// compositeScore blends analyst rating and implied upside, both normalized
// to 0-1. Upside contributions are capped so one outlier target cannot
// dominate the ranking.
func compositeScore(recKey string, upsidePct float64) float64 {
	ratingNorm := (ratingValue(recKey) - 1) / 4
	upside := upsidePct
	if upside > compositeUpsideCap {
		upside = compositeUpsideCap
	}
	if upside < 0 {
		upside = 0
	}
	return models.RoundTo(0.6*ratingNorm+0.4*(upside/compositeUpsideCap), 4)
}

// fetchOpportunities fans out top-pick fetches for each diversification
// gap, capped to bound external calls. Failed industries are simply
// omitted.
func (s *Service) fetchOpportunities(ctx context.Context, gaps []string) []models.OpportunityGroup {
	fetchGaps := gaps
	if len(fetchGaps) > s.config.MaxGapFetches {
		fetchGaps = fetchGaps[:s.config.MaxGapFetches]
	}
	if len(fetchGaps) == 0 {
		return []models.OpportunityGroup{}
	}

	batchCtx, cancel := context.WithTimeout(ctx, s.config.GetOpportunityTimeout())
	defer cancel()

	var mu sync.Mutex
	groups := []models.OpportunityGroup{}

	g, gctx := errgroup.WithContext(batchCtx)
	g.SetLimit(s.config.OpportunityWorkers)

	for _, industryKey := range fetchGaps {
		g.Go(func() error {
			picks := s.fetchIndustryPicks(gctx, industryKey)
			if len(picks) == 0 {
				return nil
			}
			label, ok := IndustryLabels[industryKey]
			if !ok {
				label = industryKey
			}
			mu.Lock()
			groups = append(groups, models.OpportunityGroup{
				IndustryKey:   industryKey,
				IndustryLabel: label,
				Picks:         picks,
			})
			mu.Unlock()
			return nil
		})
	}
	g.Wait()

	sort.Slice(groups, func(i, j int) bool {
		return groups[i].IndustryLabel < groups[j].IndustryLabel
	})
	return groups
}

// fetchIndustryPicks builds scored analyst picks for one industry: top
// companies by market cap, filtered to well-covered names with positive
// implied upside, ranked by composite score.
func (s *Service) fetchIndustryPicks(ctx context.Context, industryKey string) []models.ScoredPick {
	symbols, err := s.market.IndustryCompanies(ctx, industryKey, industryPickLimit)
	if err != nil {
		s.logger.Debug().Err(err).Str("industry", industryKey).Msg("Industry companies fetch failed")
		return nil
	}

	var picks []models.ScoredPick
	for _, symbol := range symbols {
		snap, err := s.market.Snapshot(ctx, symbol)
		if err != nil {
			continue
		}
		if snap.Name == "" || snap.CurrentPrice == nil || snap.TargetMeanPrice == nil {
			continue
		}
		price := *snap.CurrentPrice
		target := *snap.TargetMeanPrice
		if price <= 0 || target <= 0 {
			continue
		}
		nAnalysts := 0
		if snap.NAnalysts != nil {
			nAnalysts = *snap.NAnalysts
		}
		if nAnalysts < minPickAnalysts {
			continue
		}

		upsidePct := (target - price) / price * 100
		if upsidePct <= 0 || upsidePct > upsideSanityCap || upsidePct < upsideSanityFloor {
			continue
		}

		recKey := snap.RecommendationKey
		if recKey == "" {
			recKey = "N/A"
		}

		pick := models.ScoredPick{
			IndustryPick: models.IndustryPick{
				Symbol:       symbol,
				Name:         snap.Name,
				CurrentPrice: price,
				TargetPrice:  target,
				TargetLow:    snap.TargetLowPrice,
				TargetHigh:   snap.TargetHighPrice,
				UpsidePct:    models.RoundTo(upsidePct, 1),
				RecKey:       recKey,
				NAnalysts:    nAnalysts,
				MarketCap:    snap.MarketCap,
				LowCoverage:  nAnalysts < 3,
			},
			Score: compositeScore(recKey, upsidePct),
		}
		picks = append(picks, pick)
	}

	sort.Slice(picks, func(i, j int) bool {
		if picks[i].Score != picks[j].Score {
			return picks[i].Score > picks[j].Score
		}
		return picks[i].Symbol < picks[j].Symbol
	})
	if len(picks) > picksPerGap {
		picks = picks[:picksPerGap]
	}
	return picks
}

// computeAnalystOverview aggregates recommendation data already present on
// the holdings, with no further external calls. Uncovered holdings are
// excluded from the covered count, not treated as holds.
func computeAnalystOverview(holdings []*models.Holding) *models.AnalystOverview {
	overview := &models.AnalystOverview{
		TotalHoldings:    len(holdings),
		HoldingsByUpside: []models.AnalystHoldingView{},
	}

	var covered []models.AnalystHoldingView
	for _, h := range holdings {
		rec := strings.ReplaceAll(strings.ToLower(h.RecommendationKey), " ", "_")
		nAnalysts := 0
		if h.NAnalysts != nil {
			nAnalysts = *h.NAnalysts
		}
		if nAnalysts == 0 || rec == "" || rec == "n/a" {
			continue
		}

		overview.TotalCovered++
		switch rec {
		case "buy", "strong_buy":
			overview.Buys++
		case "hold":
			overview.Holds++
		case "sell", "underperform", "strong_sell":
			overview.Sells++
		}

		current := h.CurrentPrice
		if current == nil {
			current = h.LastPrice
		}
		view := models.AnalystHoldingView{
			Symbol:            h.Symbol,
			Name:              h.Name,
			RecommendationKey: h.RecommendationKey,
			NAnalysts:         nAnalysts,
			TargetMeanPrice:   h.TargetMeanPrice,
			CurrentPrice:      current,
			CurrentValue:      h.CurrentValue,
		}
		if h.PctOfAccount != nil {
			view.PctOfAccount = *h.PctOfAccount
		}
		if h.TargetMeanPrice != nil && current != nil && *current > 0 {
			view.UpsidePct = models.Float64Ptr(models.RoundTo((*h.TargetMeanPrice-*current) / *current * 100, 1))
		}
		covered = append(covered, view)
	}

	if overview.TotalHoldings > 0 {
		overview.CoverageRatio = models.RoundTo(float64(overview.TotalCovered)/float64(overview.TotalHoldings)*100, 0)
	}

	weightedValue := 0.0
	weightedSum := 0.0
	for _, view := range covered {
		if view.UpsidePct == nil {
			continue
		}
		weightedValue += view.CurrentValue
		weightedSum += *view.UpsidePct * view.CurrentValue
		overview.HoldingsByUpside = append(overview.HoldingsByUpside, view)
	}
	if weightedValue > 0 {
		overview.WeightedUpside = models.Float64Ptr(models.RoundTo(weightedSum/weightedValue, 1))
	}

	sort.Slice(overview.HoldingsByUpside, func(i, j int) bool {
		a, b := overview.HoldingsByUpside[i], overview.HoldingsByUpside[j]
		if *a.UpsidePct != *b.UpsidePct {
			return *a.UpsidePct > *b.UpsidePct
		}
		return a.Symbol < b.Symbol
	})

	return overview
}

// buildWidgetMeta assembles the trimmed payload the async widget endpoints
// post back, sanitized so serialization never emits non-finite floats.
func buildWidgetMeta(holdings []*models.Holding, bySector []models.SectorBucket, concentration []models.ConcentrationRisk, overview *models.AnalystOverview) map[string]any {
	widgetHoldings := make([]models.WidgetHolding, 0, len(holdings))
	for _, h := range holdings {
		wh := models.WidgetHolding{
			Symbol:        h.Symbol,
			Name:          h.Name,
			CurrentValue:  h.CurrentValue,
			IsFund:        h.IsFund,
			IndustryKey:   h.IndustryKey,
			Industry:      h.Industry,
			SectorWeights: h.SectorWeights,
		}
		if h.PctOfAccount != nil {
			wh.PctOfAccount = *h.PctOfAccount
		}
		widgetHoldings = append(widgetHoldings, wh)
	}

	portfolioSectors := make(map[string]float64, len(bySector))
	for _, b := range bySector {
		portfolioSectors[b.Sector] = b.Pct
	}

	meta := map[string]any{
		"holdings":         toGeneric(widgetHoldings),
		"portfolioSectors": toGeneric(portfolioSectors),
		"bySector":         toGeneric(bySector),
		"concentration":    toGeneric(concentration),
		"analystOverview":  toGeneric(overview),
	}
	sanitized, _ := SanitizeTree(meta).(map[string]any)
	return sanitized
}
