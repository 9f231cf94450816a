package widgets

import (
	"context"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/bobmcallan/folio/internal/models"
)

// controversyLabels maps involvement category keys to display labels.
var controversyLabels = map[string]string{
	"adultEntertainment":   "Adult Entertainment",
	"alcohol":              "Alcohol",
	"animalTesting":        "Animal Testing",
	"controversialWeapons": "Controversial Weapons",
	"gambling":             "Gambling",
	"militaryContract":     "Military Contracting",
	"nuclear":              "Nuclear",
	"smallArms":            "Small Arms",
	"tobacco":              "Tobacco",
}

// ESG computes a value-weighted sustainability rollup across non-fund
// holdings. Funds are reported as skipped rather than scored; coverage
// percentages make clear how much of the portfolio the scores represent.
func (s *Service) ESG(ctx context.Context, holdings []models.WidgetHolding) (*models.ESGResult, error) {
	result := &models.ESGResult{
		Holdings:      []models.ESGHolding{},
		Skipped:       []string{},
		Controversies: []models.ControversyExposure{},
	}

	totalValue := 0.0
	var tracked []models.WidgetHolding
	for _, h := range holdings {
		totalValue += h.CurrentValue
		if h.IsFund {
			result.Skipped = append(result.Skipped, h.Symbol)
			continue
		}
		tracked = append(tracked, h)
	}
	if len(tracked) == 0 {
		return result, nil
	}

	batchCtx, cancel := context.WithTimeout(ctx, fanoutTimeout)
	defer cancel()

	scores := make(map[string]*models.Sustainability, len(tracked))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(batchCtx)
	g.SetLimit(fanoutWorkers)
	for _, h := range tracked {
		g.Go(func() error {
			taskCtx, taskCancel := context.WithTimeout(gctx, perTaskTimeout)
			defer taskCancel()

			sus, err := s.market.Sustainability(taskCtx, h.Symbol)
			if err != nil {
				return nil
			}
			mu.Lock()
			scores[h.Symbol] = sus
			mu.Unlock()
			return nil
		})
	}
	g.Wait()

	var weightedTotal, weightedE, weightedS, weightedG float64
	controversySymbols := make(map[string][]string)

	for _, h := range tracked {
		sus, ok := scores[h.Symbol]
		if !ok || sus.TotalESG == nil {
			continue
		}

		result.CoveredValue += h.CurrentValue
		weightedTotal += *sus.TotalESG * h.CurrentValue
		if sus.EnvironmentScore != nil {
			weightedE += *sus.EnvironmentScore * h.CurrentValue
		}
		if sus.SocialScore != nil {
			weightedS += *sus.SocialScore * h.CurrentValue
		}
		if sus.GovernanceScore != nil {
			weightedG += *sus.GovernanceScore * h.CurrentValue
		}

		result.Holdings = append(result.Holdings, models.ESGHolding{
			Symbol:           h.Symbol,
			Name:             h.Name,
			TotalESG:         sus.TotalESG,
			EnvironmentScore: sus.EnvironmentScore,
			SocialScore:      sus.SocialScore,
			GovernanceScore:  sus.GovernanceScore,
			ControversyLevel: sus.ControversyLevel,
			PctOfAccount:     h.PctOfAccount,
		})

		for category, involved := range sus.Involvement {
			if involved {
				controversySymbols[category] = append(controversySymbols[category], h.Symbol)
			}
		}
	}

	if result.CoveredValue > 0 {
		result.PortfolioESG = models.Float64Ptr(models.RoundCents(weightedTotal / result.CoveredValue))
		result.EnvironmentScore = models.Float64Ptr(models.RoundCents(weightedE / result.CoveredValue))
		result.SocialScore = models.Float64Ptr(models.RoundCents(weightedS / result.CoveredValue))
		result.GovernanceScore = models.Float64Ptr(models.RoundCents(weightedG / result.CoveredValue))
	}
	if totalValue > 0 {
		result.CoveredPct = models.RoundTo(result.CoveredValue/totalValue*100, 1)
	}

	sort.Slice(result.Holdings, func(i, j int) bool {
		return result.Holdings[i].Symbol < result.Holdings[j].Symbol
	})

	for category, symbols := range controversySymbols {
		label, ok := controversyLabels[category]
		if !ok {
			label = category
		}
		sort.Strings(symbols)
		result.Controversies = append(result.Controversies, models.ControversyExposure{
			Category: label,
			Symbols:  symbols,
		})
	}
	sort.Slice(result.Controversies, func(i, j int) bool {
		return result.Controversies[i].Category < result.Controversies[j].Category
	})

	return result, nil
}
