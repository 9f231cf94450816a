package portfolio

import (
	"strings"

	"github.com/bobmcallan/folio/internal/models"
)

const maxSymbolLen = 10

// validSymbol accepts alphabetic tickers up to ten characters that are not
// cash sentinels.
func validSymbol(symbol string) bool {
	if symbol == "" || len(symbol) > maxSymbolLen {
		return false
	}
	if skipSymbols[symbol] {
		return false
	}
	for _, r := range symbol {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// BuildManual converts user-supplied entries into canonical holdings.
// Invalid entries are dropped, not fatal. Duplicate symbols merge by
// summing shares with a weighted-average cost per share. Current value
// stays at 0 until prices arrive from enrichment.
func BuildManual(entries []models.ManualEntry) []*models.Holding {
	merged := make(map[string]*models.Holding)
	var order []string

	for _, entry := range entries {
		symbol := strings.ToUpper(strings.TrimSpace(entry.Symbol))
		if !validSymbol(symbol) {
			continue
		}
		if entry.Shares <= 0 {
			continue
		}
		if entry.CostPerShare != nil && *entry.CostPerShare < 0 {
			continue
		}

		existing, ok := merged[symbol]
		if !ok {
			h := &models.Holding{
				Symbol:   symbol,
				Quantity: models.Float64Ptr(entry.Shares),
			}
			if entry.CostPerShare != nil {
				h.CostBasisPerShare = models.Float64Ptr(*entry.CostPerShare)
				h.CostBasis = models.Float64Ptr(models.RoundCents(*entry.CostPerShare * entry.Shares))
			}
			merged[symbol] = h
			order = append(order, symbol)
			continue
		}

		oldShares := *existing.Quantity
		totalShares := oldShares + entry.Shares
		existing.Quantity = models.Float64Ptr(totalShares)

		if entry.CostPerShare != nil || existing.CostBasisPerShare != nil {
			oldAvg := 0.0
			if existing.CostBasisPerShare != nil {
				oldAvg = *existing.CostBasisPerShare
			}
			newCost := 0.0
			if entry.CostPerShare != nil {
				newCost = *entry.CostPerShare
			}
			avg := (oldAvg*oldShares + newCost*entry.Shares) / totalShares
			existing.CostBasisPerShare = models.Float64Ptr(models.RoundCents(avg))
			existing.CostBasis = models.Float64Ptr(models.RoundCents(avg * totalShares))
		}
	}

	result := make([]*models.Holding, 0, len(order))
	for _, symbol := range order {
		result = append(result, merged[symbol])
	}
	return result
}

// FillPrices populates price-derived fields on manual holdings from the
// enrichment-supplied current price, then recomputes gain and weight fields
// across the whole set.
func FillPrices(holdings []*models.Holding) {
	totalValue := 0.0
	for _, h := range holdings {
		if h.CurrentPrice != nil && h.Quantity != nil {
			h.LastPrice = models.Float64Ptr(*h.CurrentPrice)
			h.CurrentValue = models.RoundCents(*h.CurrentPrice * *h.Quantity)
			if h.CostBasis != nil {
				h.TotalGainDollar = models.Float64Ptr(models.RoundCents(h.CurrentValue - *h.CostBasis))
			}
		}
		totalValue += h.CurrentValue
	}
	for _, h := range holdings {
		h.RecomputeDerived(totalValue)
	}
}
