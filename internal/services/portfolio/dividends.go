package portfolio

import (
	"sort"

	"github.com/bobmcallan/folio/internal/models"
)

// computeDividends projects annual income from current yields across
// holdings that pay one.
func computeDividends(holdings []*models.Holding, totalValue float64) models.DividendProjection {
	projection := models.DividendProjection{Payers: []models.DividendPayer{}}

	for _, h := range holdings {
		if h.DividendYield == nil || *h.DividendYield <= 0 || h.CurrentValue <= 0 {
			continue
		}
		yield := *h.DividendYield
		// Some feeds report yield as a percentage rather than a fraction.
		if yield > 1 {
			yield = yield / 100
		}
		income := h.CurrentValue * yield
		projection.AnnualIncome += income
		projection.Payers = append(projection.Payers, models.DividendPayer{
			Symbol:       h.Symbol,
			Name:         h.Name,
			YieldPct:     models.RoundCents(yield * 100),
			AnnualIncome: models.RoundCents(income),
		})
	}

	sort.Slice(projection.Payers, func(i, j int) bool {
		if projection.Payers[i].AnnualIncome != projection.Payers[j].AnnualIncome {
			return projection.Payers[i].AnnualIncome > projection.Payers[j].AnnualIncome
		}
		return projection.Payers[i].Symbol < projection.Payers[j].Symbol
	})

	projection.AnnualIncome = models.RoundCents(projection.AnnualIncome)
	projection.MonthlyIncome = models.RoundCents(projection.AnnualIncome / 12)
	if totalValue > 0 {
		projection.PortfolioYieldPct = models.RoundCents(projection.AnnualIncome / totalValue * 100)
	}
	return projection
}
