package widgets

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/models"
	"github.com/bobmcallan/folio/internal/storage/cache"
)

var errNotStubbed = errors.New("not stubbed")

// mockGateway implements interfaces.MarketGateway for testing. Unstubbed
// methods return an error so tests fail loudly on unexpected calls.
type mockGateway struct {
	snapshot          func(ctx context.Context, symbol string) (*models.Snapshot, error)
	priceHistory      func(ctx context.Context, symbol, rng string) (*models.PriceSeries, error)
	industryCompanies func(ctx context.Context, industryKey string, limit int) ([]string, error)
	news              func(ctx context.Context, symbol string, limit int) ([]models.NewsHeadline, error)
	sustainability    func(ctx context.Context, symbol string) (*models.Sustainability, error)
}

func (m *mockGateway) Snapshot(ctx context.Context, symbol string) (*models.Snapshot, error) {
	if m.snapshot == nil {
		return nil, errNotStubbed
	}
	return m.snapshot(ctx, symbol)
}

func (m *mockGateway) FundSectorWeights(ctx context.Context, symbol string) (map[string]float64, error) {
	return nil, errNotStubbed
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
	if m.news == nil {
		return nil, errNotStubbed
	}
	return m.news(ctx, symbol, limit)
}

func (m *mockGateway) Sustainability(ctx context.Context, symbol string) (*models.Sustainability, error) {
	if m.sustainability == nil {
		return nil, errNotStubbed
	}
	return m.sustainability(ctx, symbol)
}

func (m *mockGateway) Quote(ctx context.Context, symbol string) (*models.Quote, error) {
	return nil, errNotStubbed
}

func (m *mockGateway) QuarterlyIncome(ctx context.Context, symbol string, quarters int) ([]models.QuarterlyIncomeRow, error) {
	return nil, errNotStubbed
}

func newTestService(gw *mockGateway) *Service {
	return NewService(gw, cache.NewMemory(), common.NewSilentLogger())
}

// series builds a daily price series starting at the given day.
func series(symbol string, start time.Time, closes ...float64) *models.PriceSeries {
	bars := make([]models.PriceBar, len(closes))
	for i, c := range closes {
		bars[i] = models.PriceBar{Date: start.AddDate(0, 0, i), Close: c}
	}
	return &models.PriceSeries{Symbol: symbol, Bars: bars}
}

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}
