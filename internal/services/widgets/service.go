// Package widgets implements the on-demand dashboard widget analytics.
// Each widget is a pure function of already-enriched holdings posted back
// by the client; none mutate their input.
package widgets

import (
	"time"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/interfaces"
)

const (
	fanoutWorkers  = 4
	fanoutTimeout  = 30 * time.Second
	perTaskTimeout = 10 * time.Second
)

// Service implements the WidgetService interface.
type Service struct {
	market interfaces.MarketGateway
	cache  interfaces.Cache
	logger *common.Logger
}

// NewService creates the widget service. The cache holds the aggregate
// sector momentum list, which is shared across portfolios.
func NewService(market interfaces.MarketGateway, cache interfaces.Cache, logger *common.Logger) *Service {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Service{
		market: market,
		cache:  cache,
		logger: logger,
	}
}

// Ensure Service implements WidgetService
var _ interfaces.WidgetService = (*Service)(nil)
