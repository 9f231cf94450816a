package portfolio

import (
	"math"
	"sort"

	"github.com/bobmcallan/folio/internal/models"
)

// nearLowBandPct marks a holding as near its 52-week low when price is
// within this percentage above the low.
const nearLowBandPct = 10.0

// findTaxLossCandidates selects holdings trading below cost by both the
// dollar and percentage floors, sorted largest loss first. The estimated
// savings applies a flat illustrative rate; it is not tax advice.
func (s *Service) findTaxLossCandidates(holdings []*models.Holding) []models.TaxLossCandidate {
	candidates := []models.TaxLossCandidate{}

	for _, h := range holdings {
		if h.CostBasis == nil || *h.CostBasis <= 0 {
			continue
		}
		cost := *h.CostBasis
		loss := h.CurrentValue - cost
		if loss >= 0 {
			continue
		}
		lossPct := loss / cost * 100
		if math.Abs(loss) < s.config.TaxLossMinDollar || math.Abs(lossPct) < s.config.TaxLossMinPct {
			continue
		}

		candidate := models.TaxLossCandidate{
			Symbol:        h.Symbol,
			Name:          h.Name,
			CostBasis:     cost,
			CurrentValue:  h.CurrentValue,
			LossDollar:    models.RoundCents(loss),
			LossPct:       models.RoundTo(lossPct, 1),
			EstTaxSavings: models.RoundCents(math.Abs(loss) * s.config.TaxRate),
		}

		price := h.CurrentPrice
		if price == nil {
			price = h.LastPrice
		}
		if price != nil && h.FiftyTwoWeekLow != nil && *h.FiftyTwoWeekLow > 0 {
			candidate.NearYearlyLow = *price <= *h.FiftyTwoWeekLow*(1+nearLowBandPct/100)
		}

		candidates = append(candidates, candidate)
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].LossDollar != candidates[j].LossDollar {
			return candidates[i].LossDollar < candidates[j].LossDollar
		}
		return candidates[i].Symbol < candidates[j].Symbol
	})
	return candidates
}
