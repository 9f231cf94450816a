package portfolio

import (
	"github.com/bobmcallan/folio/internal/models"
)

const (
	subScoreMax          = 25.0
	sectorTarget         = 8.0
	concentrationPenalty = 8.0
	neutralSubScore      = 12.5
	costHealthGainSpan   = 0.25 // +/-25% aggregate gain maps to the score extremes
)

func clampSubScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > subScoreMax {
		return subScoreMax
	}
	return v
}

// computeHealthScore produces the composite 0-100 score from four
// independently capped sub-scores: sector diversification, concentration
// penalty, analyst sentiment, and aggregate cost health.
func (s *Service) computeHealthScore(holdings []*models.Holding, bySector []models.SectorBucket, concentration []models.ConcentrationRisk, overview *models.AnalystOverview, totalValue, totalCost float64) models.HealthScore {
	score := models.HealthScore{}

	// Diversification: distinct real sectors against a target of eight.
	sectors := 0
	for _, b := range bySector {
		if b.Sector != "Unknown" && b.Value > 0 {
			sectors++
		}
	}
	score.Diversification = clampSubScore(float64(sectors) / sectorTarget * subScoreMax)

	// Concentration: start at the cap, lose points per flagged holding.
	score.Concentration = clampSubScore(subScoreMax - concentrationPenalty*float64(len(concentration)))

	// Sentiment: buy ratio plus weighted upside, neutral when nothing is
	// covered.
	if overview == nil || overview.TotalCovered == 0 {
		score.Sentiment = neutralSubScore
	} else {
		buyRatio := float64(overview.Buys) / float64(overview.TotalCovered)
		sentiment := buyRatio * 15

		if overview.WeightedUpside != nil {
			upside := *overview.WeightedUpside
			if upside < 0 {
				upside = 0
			}
			if upside > 20 {
				upside = 20
			}
			sentiment += upside / 20 * 10
		} else {
			sentiment += 5
		}
		score.Sentiment = clampSubScore(sentiment)
	}

	// Cost health: aggregate gain ratio mapped around a neutral midpoint,
	// neutral when no cost data exists.
	if totalCost <= 0 {
		score.CostHealth = neutralSubScore
	} else {
		gainRatio := (totalValue - totalCost) / totalCost
		score.CostHealth = clampSubScore(neutralSubScore + gainRatio/costHealthGainSpan*neutralSubScore)
	}

	score.Diversification = models.RoundTo(score.Diversification, 1)
	score.Concentration = models.RoundTo(score.Concentration, 1)
	score.Sentiment = models.RoundTo(score.Sentiment, 1)
	score.CostHealth = models.RoundTo(score.CostHealth, 1)

	total := score.Diversification + score.Concentration + score.Sentiment + score.CostHealth
	if total > 100 {
		total = 100
	}
	score.Total = models.RoundTo(total, 1)
	return score
}
