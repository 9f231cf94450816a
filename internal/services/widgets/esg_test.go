package widgets

import (
	"context"
	"errors"
	"testing"

	"github.com/bobmcallan/folio/internal/models"
)

func TestESGWeightedRollup(t *testing.T) {
	gw := &mockGateway{
		sustainability: func(ctx context.Context, symbol string) (*models.Sustainability, error) {
			switch symbol {
			case "AAPL":
				return &models.Sustainability{
					Symbol:           "AAPL",
					TotalESG:         models.Float64Ptr(17.2),
					EnvironmentScore: models.Float64Ptr(2),
					SocialScore:      models.Float64Ptr(8),
					GovernanceScore:  models.Float64Ptr(7),
				}, nil
			case "XOM":
				return &models.Sustainability{
					Symbol:           "XOM",
					TotalESG:         models.Float64Ptr(40),
					EnvironmentScore: models.Float64Ptr(20),
					SocialScore:      models.Float64Ptr(10),
					GovernanceScore:  models.Float64Ptr(10),
					Involvement: map[string]bool{
						"militaryContract": true,
						"alcohol":          false,
					},
				}, nil
			default:
				return nil, errors.New("no coverage")
			}
		},
	}
	svc := newTestService(gw)

	holdings := []models.WidgetHolding{
		{Symbol: "AAPL", CurrentValue: 6000, PctOfAccount: 60},
		{Symbol: "XOM", CurrentValue: 3000, PctOfAccount: 30},
		{Symbol: "VTI", CurrentValue: 1000, PctOfAccount: 10, IsFund: true},
	}

	result, err := svc.ESG(context.Background(), holdings)
	if err != nil {
		t.Fatalf("ESG returned error: %v", err)
	}

	if result.CoveredValue != 9000 {
		t.Errorf("expected covered value 9000, got %f", result.CoveredValue)
	}
	if result.CoveredPct != 90.0 {
		t.Errorf("expected covered pct 90, got %f", result.CoveredPct)
	}

	if result.PortfolioESG == nil || *result.PortfolioESG != 24.8 {
		t.Errorf("expected value-weighted ESG 24.8, got %v", result.PortfolioESG)
	}
	if result.EnvironmentScore == nil || *result.EnvironmentScore != 8.0 {
		t.Errorf("expected weighted E 8.0, got %v", result.EnvironmentScore)
	}
	if result.SocialScore == nil || *result.SocialScore != 8.67 {
		t.Errorf("expected weighted S 8.67, got %v", result.SocialScore)
	}
	if result.GovernanceScore == nil || *result.GovernanceScore != 8.0 {
		t.Errorf("expected weighted G 8.0, got %v", result.GovernanceScore)
	}

	if len(result.Skipped) != 1 || result.Skipped[0] != "VTI" {
		t.Errorf("funds should be skipped, got %v", result.Skipped)
	}
	if len(result.Holdings) != 2 || result.Holdings[0].Symbol != "AAPL" {
		t.Errorf("expected holdings sorted by symbol, got %+v", result.Holdings)
	}

	if len(result.Controversies) != 1 {
		t.Fatalf("expected 1 controversy category, got %d", len(result.Controversies))
	}
	cat := result.Controversies[0]
	if cat.Category != "Military Contracting" {
		t.Errorf("expected Military Contracting label, got %q", cat.Category)
	}
	if len(cat.Symbols) != 1 || cat.Symbols[0] != "XOM" {
		t.Errorf("expected XOM involved, got %v", cat.Symbols)
	}
}

func TestESGFundOnlyPortfolio(t *testing.T) {
	svc := newTestService(&mockGateway{})

	result, err := svc.ESG(context.Background(), []models.WidgetHolding{
		{Symbol: "VTI", CurrentValue: 1000, IsFund: true},
	})
	if err != nil {
		t.Fatalf("ESG returned error: %v", err)
	}
	if result.PortfolioESG != nil {
		t.Error("fund-only portfolio has no weighted score")
	}
	if len(result.Skipped) != 1 {
		t.Errorf("expected 1 skipped fund, got %v", result.Skipped)
	}
}
