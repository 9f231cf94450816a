package widgets

import (
	"context"
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/bobmcallan/folio/internal/models"
)

const (
	correlationMaxHoldings = 8
	correlationRange       = "3mo"
	correlationMinPoints   = 3
	highCorrelationBar     = 0.8
)

// Correlation computes a symmetric Pearson correlation matrix of daily
// returns for the largest non-fund holdings over three months. Pairs with
// fewer than three aligned return observations get 0; pairs above the
// high-correlation bar are flagged, sorted by magnitude.
func (s *Service) Correlation(ctx context.Context, holdings []models.WidgetHolding) (*models.CorrelationResult, error) {
	var tracked []models.WidgetHolding
	for _, h := range holdings {
		if h.IsFund {
			continue
		}
		tracked = append(tracked, h)
		if len(tracked) >= correlationMaxHoldings {
			break
		}
	}

	result := &models.CorrelationResult{
		Symbols:   []string{},
		Matrix:    [][]float64{},
		HighPairs: []models.CorrelationPair{},
		Period:    correlationRange,
	}
	if len(tracked) == 0 {
		return result, nil
	}

	histories := s.fetchHistories(ctx, tracked, correlationRange)

	returns := make(map[string]map[time.Time]float64, len(histories))
	for _, h := range tracked {
		series, ok := histories[h.Symbol]
		if !ok || len(series.Bars) < 2 {
			continue
		}
		result.Symbols = append(result.Symbols, h.Symbol)
		returns[h.Symbol] = dailyReturns(series)
	}

	n := len(result.Symbols)
	result.Matrix = make([][]float64, n)
	for i := range result.Matrix {
		result.Matrix[i] = make([]float64, n)
		result.Matrix[i][i] = 1.0
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			r := pairCorrelation(returns[result.Symbols[i]], returns[result.Symbols[j]])
			result.Matrix[i][j] = r
			result.Matrix[j][i] = r
			if math.Abs(r) > highCorrelationBar {
				result.HighPairs = append(result.HighPairs, models.CorrelationPair{
					SymbolA:     result.Symbols[i],
					SymbolB:     result.Symbols[j],
					Correlation: r,
				})
			}
		}
	}

	sort.Slice(result.HighPairs, func(i, j int) bool {
		a, b := result.HighPairs[i], result.HighPairs[j]
		if math.Abs(a.Correlation) != math.Abs(b.Correlation) {
			return math.Abs(a.Correlation) > math.Abs(b.Correlation)
		}
		return a.SymbolA < b.SymbolA
	})
	return result, nil
}

// dailyReturns maps each trading day to its close-over-close return.
func dailyReturns(series *models.PriceSeries) map[time.Time]float64 {
	returns := make(map[time.Time]float64, len(series.Bars))
	for i := 1; i < len(series.Bars); i++ {
		prev := series.Bars[i-1].Close
		if prev == 0 {
			continue
		}
		returns[series.Bars[i].Date] = (series.Bars[i].Close - prev) / prev
	}
	return returns
}

// pairCorrelation aligns two return maps on shared dates and computes the
// Pearson correlation, rounded for stable output. Degenerate inputs (too
// few points, zero variance) yield 0.
func pairCorrelation(a, b map[time.Time]float64) float64 {
	var dates []time.Time
	for date := range a {
		if _, ok := b[date]; ok {
			dates = append(dates, date)
		}
	}
	if len(dates) < correlationMinPoints {
		return 0
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	xs := make([]float64, len(dates))
	ys := make([]float64, len(dates))
	for i, date := range dates {
		xs[i] = a[date]
		ys[i] = b[date]
	}

	r := stat.Correlation(xs, ys, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	return models.RoundTo(r, 4)
}
