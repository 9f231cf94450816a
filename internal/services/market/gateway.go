// Package market provides the cached gateway over the market data provider.
// All service-layer market access goes through here so TTL policy lives in
// one place.
package market

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/models"
)

// Cache TTLs per data family. Quotes go stale in a minute; sector momentum
// and ESG barely move intraday.
const (
	DefaultTTL         = 5 * time.Minute
	PeersTTL           = 10 * time.Minute
	QuoteTTL           = 1 * time.Minute
	MomentumTTL        = 30 * time.Minute
	ESGTTL             = 30 * time.Minute
	HistoryTTL         = 15 * time.Minute
	HistoryIntradayTTL = 5 * time.Minute
)

// Gateway implements the MarketGateway interface.
type Gateway struct {
	client interfaces.MarketDataClient
	cache  interfaces.Cache
	logger *common.Logger
}

// NewGateway creates a caching gateway over the given client.
func NewGateway(client interfaces.MarketDataClient, cache interfaces.Cache, logger *common.Logger) *Gateway {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Gateway{
		client: client,
		cache:  cache,
		logger: logger,
	}
}

// cached runs fetch under a cache key. Cached bytes are decoded into out;
// on a miss the fetched value is encoded and stored for ttl. Cache failures
// are logged, never surfaced.
func (g *Gateway) cached(key string, ttl time.Duration, out any, fetch func() (any, error)) error {
	if data, ok := g.cache.Get(key); ok {
		if err := json.Unmarshal(data, out); err == nil {
			return nil
		}
		g.logger.Warn().Str("key", key).Msg("Discarding undecodable cache entry")
	}

	value, err := fetch()
	if err != nil {
		return err
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode cache value: %w", err)
	}
	if err := g.cache.Put(key, data, ttl); err != nil {
		g.logger.Warn().Err(err).Str("key", key).Msg("Cache write failed")
	}

	return json.Unmarshal(data, out)
}

// Snapshot returns the cached per-ticker summary record.
func (g *Gateway) Snapshot(ctx context.Context, symbol string) (*models.Snapshot, error) {
	var snap models.Snapshot
	err := g.cached("snapshot:"+symbol, DefaultTTL, &snap, func() (any, error) {
		return g.client.GetSnapshot(ctx, symbol)
	})
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

// FundSectorWeights returns the cached sector weightings for a fund.
func (g *Gateway) FundSectorWeights(ctx context.Context, symbol string) (map[string]float64, error) {
	var weights map[string]float64
	err := g.cached("fundweights:"+symbol, DefaultTTL, &weights, func() (any, error) {
		return g.client.GetFundSectorWeights(ctx, symbol)
	})
	if err != nil {
		return nil, err
	}
	return weights, nil
}

// PriceHistory returns cached daily closes for the given range. Intraday
// ranges use a shorter TTL since today's bar is still moving.
func (g *Gateway) PriceHistory(ctx context.Context, symbol, rng string) (*models.PriceSeries, error) {
	ttl := HistoryTTL
	if rng == "1d" || rng == "5d" {
		ttl = HistoryIntradayTTL
	}

	var series models.PriceSeries
	err := g.cached(fmt.Sprintf("history:%s:%s", symbol, rng), ttl, &series, func() (any, error) {
		return g.client.GetPriceHistory(ctx, symbol, rng)
	})
	if err != nil {
		return nil, err
	}
	return &series, nil
}

// IndustryCompanies returns the cached top company symbols for an industry.
func (g *Gateway) IndustryCompanies(ctx context.Context, industryKey string, limit int) ([]string, error) {
	var symbols []string
	err := g.cached(fmt.Sprintf("industry:%s:%d", industryKey, limit), PeersTTL, &symbols, func() (any, error) {
		return g.client.GetIndustryCompanies(ctx, industryKey, limit)
	})
	if err != nil {
		return nil, err
	}
	return symbols, nil
}

// News returns cached recent headlines for a ticker.
func (g *Gateway) News(ctx context.Context, symbol string, limit int) ([]models.NewsHeadline, error) {
	var headlines []models.NewsHeadline
	err := g.cached(fmt.Sprintf("news:%s:%d", symbol, limit), DefaultTTL, &headlines, func() (any, error) {
		return g.client.GetNews(ctx, symbol, limit)
	})
	if err != nil {
		return nil, err
	}
	return headlines, nil
}

// Sustainability returns cached ESG scores for a ticker.
func (g *Gateway) Sustainability(ctx context.Context, symbol string) (*models.Sustainability, error) {
	var sus models.Sustainability
	err := g.cached("esg:"+symbol, ESGTTL, &sus, func() (any, error) {
		return g.client.GetSustainability(ctx, symbol)
	})
	if err != nil {
		return nil, err
	}
	return &sus, nil
}

// Quote returns a quick quote assembled from the snapshot record.
func (g *Gateway) Quote(ctx context.Context, symbol string) (*models.Quote, error) {
	var quote models.Quote
	err := g.cached("quote:"+symbol, QuoteTTL, &quote, func() (any, error) {
		snap, err := g.client.GetSnapshot(ctx, symbol)
		if err != nil {
			return nil, err
		}

		q := &models.Quote{
			Symbol:        snap.Symbol,
			Name:          snap.Name,
			Price:         snap.CurrentPrice,
			PreviousClose: snap.PreviousClose,
			MarketCap:     snap.MarketCap,
		}
		if snap.CurrentPrice != nil && snap.PreviousClose != nil && *snap.PreviousClose != 0 {
			change := *snap.CurrentPrice - *snap.PreviousClose
			changePct := change / *snap.PreviousClose * 100
			q.Change = models.Float64Ptr(models.RoundCents(change))
			q.ChangePct = models.Float64Ptr(models.RoundCents(changePct))
		}
		return q, nil
	})
	if err != nil {
		return nil, err
	}
	return &quote, nil
}

// QuarterlyIncome returns cached quarterly income rows, newest first.
func (g *Gateway) QuarterlyIncome(ctx context.Context, symbol string, quarters int) ([]models.QuarterlyIncomeRow, error) {
	var rows []models.QuarterlyIncomeRow
	err := g.cached(fmt.Sprintf("income:%s:%d", symbol, quarters), PeersTTL, &rows, func() (any, error) {
		return g.client.GetQuarterlyIncome(ctx, symbol, quarters)
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Ensure Gateway implements MarketGateway
var _ interfaces.MarketGateway = (*Gateway)(nil)
