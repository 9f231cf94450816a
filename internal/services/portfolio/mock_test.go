package portfolio

import (
	"context"
	"errors"
	"math"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/models"
)

var errNotStubbed = errors.New("not stubbed")

// mockGateway implements interfaces.MarketGateway for testing. Unstubbed
// methods return an error so tests fail loudly on unexpected calls.
type mockGateway struct {
	snapshot          func(ctx context.Context, symbol string) (*models.Snapshot, error)
	fundSectorWeights func(ctx context.Context, symbol string) (map[string]float64, error)
	priceHistory      func(ctx context.Context, symbol, rng string) (*models.PriceSeries, error)
	industryCompanies func(ctx context.Context, industryKey string, limit int) ([]string, error)
}

func (m *mockGateway) Snapshot(ctx context.Context, symbol string) (*models.Snapshot, error) {
	if m.snapshot == nil {
		return nil, errNotStubbed
	}
	return m.snapshot(ctx, symbol)
}

func (m *mockGateway) FundSectorWeights(ctx context.Context, symbol string) (map[string]float64, error) {
	if m.fundSectorWeights == nil {
		return nil, errNotStubbed
	}
	return m.fundSectorWeights(ctx, symbol)
}

func (m *mockGateway) PriceHistory(ctx context.Context, symbol, rng string) (*models.PriceSeries, error) {
	if m.priceHistory == nil {
		return nil, errNotStubbed
	}
	return m.priceHistory(ctx, symbol, rng)
}

func (m *mockGateway) IndustryCompanies(ctx context.Context, industryKey string, limit int) ([]string, error) {
	if m.industryCompanies == nil {
		return nil, errNotStubbed
	}
	return m.industryCompanies(ctx, industryKey, limit)
}

func (m *mockGateway) News(ctx context.Context, symbol string, limit int) ([]models.NewsHeadline, error) {
	return nil, errNotStubbed
}

func (m *mockGateway) Sustainability(ctx context.Context, symbol string) (*models.Sustainability, error) {
	return nil, errNotStubbed
}

func (m *mockGateway) Quote(ctx context.Context, symbol string) (*models.Quote, error) {
	return nil, errNotStubbed
}

func (m *mockGateway) QuarterlyIncome(ctx context.Context, symbol string, quarters int) ([]models.QuarterlyIncomeRow, error) {
	return nil, errNotStubbed
}

func newTestService(gw *mockGateway) *Service {
	cfg := common.NewDefaultConfig().Analysis
	return NewService(gw, &cfg, common.NewSilentLogger())
}

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}
