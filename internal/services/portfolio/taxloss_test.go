package portfolio

import (
	"testing"

	"github.com/bobmcallan/folio/internal/models"
)

func TestFindTaxLossCandidatesFloors(t *testing.T) {
	svc := newTestService(&mockGateway{})
	holdings := []*models.Holding{
		// -$51 is 5.1% but under the $100 floor.
		{Symbol: "SMALL", CostBasis: models.Float64Ptr(1000), CurrentValue: 949},
		// -$150 is only 1.5%, under the percentage floor.
		{Symbol: "SHALLOW", CostBasis: models.Float64Ptr(10000), CurrentValue: 9850},
		// -$150 and -15%: qualifies.
		{Symbol: "DEEP", CostBasis: models.Float64Ptr(1000), CurrentValue: 850},
		// Gains never qualify.
		{Symbol: "WINNER", CostBasis: models.Float64Ptr(1000), CurrentValue: 1200},
		// No cost basis, nothing to harvest against.
		{Symbol: "NOCOST", CurrentValue: 500},
	}

	candidates := svc.findTaxLossCandidates(holdings)
	if len(candidates) != 1 {
		t.Fatalf("expected only DEEP to qualify, got %d candidates", len(candidates))
	}

	c := candidates[0]
	if c.Symbol != "DEEP" {
		t.Errorf("expected DEEP, got %s", c.Symbol)
	}
	if c.LossDollar != -150 {
		t.Errorf("expected loss -150, got %f", c.LossDollar)
	}
	if c.LossPct != -15.0 {
		t.Errorf("expected loss pct -15.0, got %f", c.LossPct)
	}
	if c.EstTaxSavings != 36.00 {
		t.Errorf("expected estimated savings 36.00 at the 24%% rate, got %f", c.EstTaxSavings)
	}
}

func TestFindTaxLossCandidatesNearYearlyLow(t *testing.T) {
	svc := newTestService(&mockGateway{})
	holdings := []*models.Holding{
		{
			Symbol:          "NEAR",
			CostBasis:       models.Float64Ptr(2000),
			CurrentValue:    1000,
			CurrentPrice:    models.Float64Ptr(105),
			FiftyTwoWeekLow: models.Float64Ptr(100),
		},
		{
			Symbol:          "FAR",
			CostBasis:       models.Float64Ptr(2000),
			CurrentValue:    1000,
			CurrentPrice:    models.Float64Ptr(111),
			FiftyTwoWeekLow: models.Float64Ptr(100),
		},
	}

	candidates := svc.findTaxLossCandidates(holdings)
	if len(candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(candidates))
	}

	bySymbol := map[string]models.TaxLossCandidate{}
	for _, c := range candidates {
		bySymbol[c.Symbol] = c
	}
	if !bySymbol["NEAR"].NearYearlyLow {
		t.Error("price within 10%% of the 52-week low should flag NearYearlyLow")
	}
	if bySymbol["FAR"].NearYearlyLow {
		t.Error("price more than 10%% above the low should not flag NearYearlyLow")
	}
}

func TestFindTaxLossCandidatesSortedByLoss(t *testing.T) {
	svc := newTestService(&mockGateway{})
	holdings := []*models.Holding{
		{Symbol: "MID", CostBasis: models.Float64Ptr(1000), CurrentValue: 700},
		{Symbol: "BIG", CostBasis: models.Float64Ptr(2000), CurrentValue: 1000},
		{Symbol: "TINY", CostBasis: models.Float64Ptr(1000), CurrentValue: 880},
	}

	candidates := svc.findTaxLossCandidates(holdings)
	if len(candidates) != 3 {
		t.Fatalf("expected 3 candidates, got %d", len(candidates))
	}
	want := []string{"BIG", "MID", "TINY"}
	for i, symbol := range want {
		if candidates[i].Symbol != symbol {
			t.Errorf("position %d: expected %s, got %s", i, symbol, candidates[i].Symbol)
		}
	}
}
