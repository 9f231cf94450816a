package portfolio

import (
	"testing"

	"github.com/bobmcallan/folio/internal/models"
)

func TestComputeHealthScoreNeutralBaseline(t *testing.T) {
	svc := newTestService(&mockGateway{})

	score := svc.computeHealthScore(nil, nil, nil, nil, 0, 0)

	if score.Diversification != 0 {
		t.Errorf("no sectors should score 0, got %f", score.Diversification)
	}
	if score.Concentration != 25 {
		t.Errorf("no flagged holdings should score 25, got %f", score.Concentration)
	}
	if score.Sentiment != 12.5 {
		t.Errorf("no coverage should score neutral 12.5, got %f", score.Sentiment)
	}
	if score.CostHealth != 12.5 {
		t.Errorf("no cost data should score neutral 12.5, got %f", score.CostHealth)
	}
	if score.Total != 50 {
		t.Errorf("expected total 50, got %f", score.Total)
	}
}

func TestComputeHealthScorePerfectPortfolio(t *testing.T) {
	svc := newTestService(&mockGateway{})

	bySector := []models.SectorBucket{
		{Sector: "Technology", Value: 1000},
		{Sector: "Healthcare", Value: 1000},
		{Sector: "Financial Services", Value: 1000},
		{Sector: "Energy", Value: 1000},
		{Sector: "Industrials", Value: 1000},
		{Sector: "Utilities", Value: 1000},
		{Sector: "Consumer Cyclical", Value: 1000},
		{Sector: "Real Estate", Value: 1000},
	}
	overview := &models.AnalystOverview{
		Buys:           10,
		TotalCovered:   10,
		WeightedUpside: models.Float64Ptr(25),
	}

	score := svc.computeHealthScore(nil, bySector, nil, overview, 12500, 10000)

	if score.Diversification != 25 {
		t.Errorf("8 sectors should max diversification, got %f", score.Diversification)
	}
	if score.Concentration != 25 {
		t.Errorf("expected concentration 25, got %f", score.Concentration)
	}
	if score.Sentiment != 25 {
		t.Errorf("all buys with capped upside should max sentiment, got %f", score.Sentiment)
	}
	if score.CostHealth != 25 {
		t.Errorf("+25%% aggregate gain should max cost health, got %f", score.CostHealth)
	}
	if score.Total != 100 {
		t.Errorf("expected total 100, got %f", score.Total)
	}
}

func TestComputeHealthScoreBounds(t *testing.T) {
	svc := newTestService(&mockGateway{})

	cases := []struct {
		name          string
		bySector      []models.SectorBucket
		concentration []models.ConcentrationRisk
		overview      *models.AnalystOverview
		totalValue    float64
		totalCost     float64
	}{
		{
			name: "deep losses and heavy concentration",
			bySector: []models.SectorBucket{
				{Sector: "Technology", Value: 5000},
				{Sector: "Unknown", Value: 1000},
			},
			concentration: []models.ConcentrationRisk{
				{Symbol: "A"}, {Symbol: "B"}, {Symbol: "C"}, {Symbol: "D"},
			},
			overview: &models.AnalystOverview{
				Sells:          5,
				TotalCovered:   5,
				WeightedUpside: models.Float64Ptr(-30),
			},
			totalValue: 5000,
			totalCost:  20000,
		},
		{
			name: "many sectors and huge gains",
			bySector: func() []models.SectorBucket {
				var buckets []models.SectorBucket
				for _, s := range []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K"} {
					buckets = append(buckets, models.SectorBucket{Sector: s, Value: 100})
				}
				return buckets
			}(),
			overview: &models.AnalystOverview{
				Buys:           3,
				TotalCovered:   3,
				WeightedUpside: models.Float64Ptr(500),
			},
			totalValue: 50000,
			totalCost:  1000,
		},
	}

	for _, tc := range cases {
		score := svc.computeHealthScore(nil, tc.bySector, tc.concentration, tc.overview, tc.totalValue, tc.totalCost)

		for name, sub := range map[string]float64{
			"diversification": score.Diversification,
			"concentration":   score.Concentration,
			"sentiment":       score.Sentiment,
			"costHealth":      score.CostHealth,
		} {
			if sub < 0 || sub > 25 {
				t.Errorf("%s: %s sub-score out of range: %f", tc.name, name, sub)
			}
		}
		if score.Total < 0 || score.Total > 100 {
			t.Errorf("%s: total out of range: %f", tc.name, score.Total)
		}
	}
}
