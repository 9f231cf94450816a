package widgets

import (
	"context"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/bobmcallan/folio/internal/models"
)

const (
	newsMaxStocks = 8
	newsPerStock  = 3
	newsTotalCap  = 20
)

// NewsDigest fetches recent headlines for the top non-fund holdings by
// value and merges them into one timeline. The date sort is a best-effort
// string sort over pre-formatted dates, not true chronological parsing.
func (s *Service) NewsDigest(ctx context.Context, holdings []models.WidgetHolding) ([]models.NewsHeadline, error) {
	var symbols []string
	for _, h := range holdings {
		if h.IsFund {
			continue
		}
		symbols = append(symbols, h.Symbol)
		if len(symbols) >= newsMaxStocks {
			break
		}
	}

	batchCtx, cancel := context.WithTimeout(ctx, fanoutTimeout)
	defer cancel()

	var mu sync.Mutex
	all := []models.NewsHeadline{}

	g, gctx := errgroup.WithContext(batchCtx)
	g.SetLimit(fanoutWorkers)
	for _, symbol := range symbols {
		g.Go(func() error {
			taskCtx, taskCancel := context.WithTimeout(gctx, perTaskTimeout)
			defer taskCancel()

			items, err := s.market.News(taskCtx, symbol, newsPerStock)
			if err != nil {
				s.logger.Debug().Err(err).Str("symbol", symbol).Msg("News fetch failed")
				return nil
			}
			for i := range items {
				items[i].Symbol = symbol
			}
			mu.Lock()
			all = append(all, items...)
			mu.Unlock()
			return nil
		})
	}
	g.Wait()

	sort.Slice(all, func(i, j int) bool {
		if all[i].Date != all[j].Date {
			return all[i].Date > all[j].Date
		}
		return all[i].Symbol < all[j].Symbol
	})
	if len(all) > newsTotalCap {
		all = all[:newsTotalCap]
	}
	return all, nil
}
