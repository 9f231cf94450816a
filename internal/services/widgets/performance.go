package widgets

import (
	"context"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bobmcallan/folio/internal/models"
)

// BenchmarkSymbol is the index ETF plotted against the portfolio series.
const BenchmarkSymbol = "SPY"

// periodRange maps a requested performance period to a provider history
// range. One-day requests fetch a few days so the prior close exists.
func periodRange(period string) (string, string) {
	switch period {
	case "1d":
		return "1d", "5d"
	case "1mo", "":
		return "1mo", "1mo"
	case "3mo":
		return "3mo", "3mo"
	case "6mo":
		return "6mo", "6mo"
	case "1y":
		return "1y", "1y"
	default:
		return "1mo", "1mo"
	}
}

// Performance reconstructs a portfolio-level daily value series using the
// price-ratio method: each holding's historical value is its current value
// scaled by historicalClose/currentClose. Dates are the union of all
// holdings' trading days; gaps carry the most recent known price forward.
func (s *Service) Performance(ctx context.Context, holdings []models.WidgetHolding, period string) (*models.PerformanceResult, error) {
	period, rng := periodRange(period)

	result := &models.PerformanceResult{
		Period:          period,
		Series:          []models.PerformancePoint{},
		Benchmark:       []models.PerformancePoint{},
		BenchmarkSymbol: BenchmarkSymbol,
		HoldingReturns:  []models.HoldingReturn{},
	}

	var tracked []models.WidgetHolding
	for _, h := range holdings {
		if h.CurrentValue > 0 {
			tracked = append(tracked, h)
		}
	}
	if len(tracked) == 0 {
		result.MarketClosed = period == "1d"
		return result, nil
	}

	histories := s.fetchHistories(ctx, tracked, rng)

	// Union of trading days across all holdings with history.
	dateSet := make(map[time.Time]bool)
	for _, series := range histories {
		for _, bar := range series.Bars {
			dateSet[bar.Date] = true
		}
	}
	if len(dateSet) == 0 {
		result.MarketClosed = period == "1d"
		return result, nil
	}

	dates := make([]time.Time, 0, len(dateSet))
	for d := range dateSet {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	if period == "1d" && len(dates) > 2 {
		dates = dates[len(dates)-2:]
	}

	for _, date := range dates {
		value := 0.0
		for _, h := range tracked {
			series, ok := histories[h.Symbol]
			if !ok {
				// No history: the holding contributes its current value
				// flat across the window.
				value += h.CurrentValue
				continue
			}
			currentClose, okCurrent := series.Latest()
			histClose, okHist := series.CloseAsOf(date)
			if !okCurrent || !okHist || currentClose == 0 {
				value += h.CurrentValue
				continue
			}
			value += h.CurrentValue * (histClose / currentClose)
		}
		result.Series = append(result.Series, models.PerformancePoint{
			Date:  date.Format("2006-01-02"),
			Value: models.RoundCents(value),
		})
	}

	result.StartValue = result.Series[0].Value
	result.EndValue = result.Series[len(result.Series)-1].Value
	result.ReturnDollar = models.RoundCents(result.EndValue - result.StartValue)
	if result.StartValue > 0 {
		result.ReturnPct = models.RoundCents(result.ReturnDollar / result.StartValue * 100)
	}
	result.MarketClosed = period == "1d" && len(result.Series) < 2

	result.Benchmark = s.benchmarkSeries(ctx, rng, dates, result.StartValue)
	s.rankHoldingReturns(result, tracked, histories)
	return result, nil
}

// fetchHistories fans out history fetches for the tracked holdings.
// Failures simply leave a symbol out of the map.
func (s *Service) fetchHistories(ctx context.Context, holdings []models.WidgetHolding, rng string) map[string]*models.PriceSeries {
	batchCtx, cancel := context.WithTimeout(ctx, fanoutTimeout)
	defer cancel()

	histories := make(map[string]*models.PriceSeries, len(holdings))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(batchCtx)
	g.SetLimit(fanoutWorkers)
	for _, h := range holdings {
		g.Go(func() error {
			taskCtx, taskCancel := context.WithTimeout(gctx, perTaskTimeout)
			defer taskCancel()

			series, err := s.market.PriceHistory(taskCtx, h.Symbol, rng)
			if err != nil || len(series.Bars) == 0 {
				return nil
			}
			mu.Lock()
			histories[h.Symbol] = series
			mu.Unlock()
			return nil
		})
	}
	g.Wait()
	return histories
}

// benchmarkSeries builds the benchmark line normalized to start at the
// portfolio's starting value for visual comparability.
func (s *Service) benchmarkSeries(ctx context.Context, rng string, dates []time.Time, startValue float64) []models.PerformancePoint {
	benchmark := []models.PerformancePoint{}
	if startValue <= 0 || len(dates) == 0 {
		return benchmark
	}

	taskCtx, cancel := context.WithTimeout(ctx, perTaskTimeout)
	defer cancel()

	series, err := s.market.PriceHistory(taskCtx, BenchmarkSymbol, rng)
	if err != nil || len(series.Bars) == 0 {
		return benchmark
	}

	baseClose, ok := series.CloseAsOf(dates[0])
	if !ok || baseClose == 0 {
		return benchmark
	}

	for _, date := range dates {
		close, ok := series.CloseAsOf(date)
		if !ok {
			continue
		}
		benchmark = append(benchmark, models.PerformancePoint{
			Date:  date.Format("2006-01-02"),
			Value: models.RoundCents(startValue * (close / baseClose)),
		})
	}
	return benchmark
}

// rankHoldingReturns computes each holding's window return and records the
// best and worst performers.
func (s *Service) rankHoldingReturns(result *models.PerformanceResult, holdings []models.WidgetHolding, histories map[string]*models.PriceSeries) {
	for _, h := range holdings {
		series, ok := histories[h.Symbol]
		if !ok || len(series.Bars) < 2 {
			continue
		}
		first := series.Bars[0].Close
		last := series.Bars[len(series.Bars)-1].Close
		if first == 0 {
			continue
		}
		result.HoldingReturns = append(result.HoldingReturns, models.HoldingReturn{
			Symbol:    h.Symbol,
			Name:      h.Name,
			ReturnPct: models.Float64Ptr(models.RoundCents((last - first) / first * 100)),
		})
	}

	sort.Slice(result.HoldingReturns, func(i, j int) bool {
		a, b := result.HoldingReturns[i], result.HoldingReturns[j]
		if *a.ReturnPct != *b.ReturnPct {
			return *a.ReturnPct > *b.ReturnPct
		}
		return a.Symbol < b.Symbol
	})

	if len(result.HoldingReturns) > 0 {
		best := result.HoldingReturns[0]
		worst := result.HoldingReturns[len(result.HoldingReturns)-1]
		result.BestPerformer = &best
		result.WorstPerformer = &worst
	}
}
