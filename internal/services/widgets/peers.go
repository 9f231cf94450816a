package widgets

import (
	"context"
	"fmt"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/bobmcallan/folio/internal/models"
)

const (
	peerMaxHoldings = 3
	peerGroupSize   = 6
	peerListCap     = 5
	peBandPct       = 0.2
)

// PeerComparison compares the top non-fund holdings against their industry
// peer groups on valuation, margins, and growth. Holdings without a known
// industry are skipped.
func (s *Service) PeerComparison(ctx context.Context, holdings []models.WidgetHolding) ([]models.PeerComparison, error) {
	var targets []models.WidgetHolding
	for _, h := range holdings {
		if h.IsFund || len(h.SectorWeights) > 0 || h.IndustryKey == "" {
			continue
		}
		targets = append(targets, h)
		if len(targets) >= peerMaxHoldings {
			break
		}
	}

	results := []models.PeerComparison{}
	for _, h := range targets {
		comparison, ok := s.compareToPeers(ctx, h)
		if ok {
			results = append(results, comparison)
		}
	}
	return results, nil
}

func (s *Service) compareToPeers(ctx context.Context, h models.WidgetHolding) (models.PeerComparison, bool) {
	taskCtx, cancel := context.WithTimeout(ctx, fanoutTimeout)
	defer cancel()

	symbols, err := s.market.IndustryCompanies(taskCtx, h.IndustryKey, peerGroupSize+1)
	if err != nil {
		s.logger.Debug().Err(err).Str("industry", h.IndustryKey).Msg("Peer group fetch failed")
		return models.PeerComparison{}, false
	}

	// The target belongs in the group even when the provider's top list
	// omits it.
	hasTarget := false
	for _, sym := range symbols {
		if sym == h.Symbol {
			hasTarget = true
			break
		}
	}
	if !hasTarget {
		symbols = append([]string{h.Symbol}, symbols...)
	}

	var target *models.PeerMetrics
	var peers []models.PeerMetrics
	for _, sym := range symbols {
		snap, err := s.market.Snapshot(taskCtx, sym)
		if err != nil {
			continue
		}
		metrics := models.PeerMetrics{
			Symbol:             sym,
			Name:               snap.Name,
			MarketCap:          snap.MarketCap,
			TrailingPE:         snap.TrailingPE,
			ForwardPE:          snap.ForwardPE,
			GrossMargins:       snap.GrossMargins,
			ProfitMargins:      snap.ProfitMargins,
			RevenueGrowth:      snap.RevenueGrowth,
			FiftyTwoWeekChange: snap.FiftyTwoWeekChange,
			IsTarget:           sym == h.Symbol,
		}
		if metrics.IsTarget {
			target = &metrics
		} else if len(peers) < peerListCap {
			peers = append(peers, metrics)
		}
	}

	if target == nil || len(peers) == 0 {
		return models.PeerComparison{}, false
	}

	return models.PeerComparison{
		Symbol:       h.Symbol,
		Name:         h.Name,
		Industry:     h.Industry,
		CurrentValue: h.CurrentValue,
		PctOfAccount: h.PctOfAccount,
		Target:       *target,
		Peers:        peers,
		Verdict:      computeVerdict(target, peers),
	}, true
}

// peerMean averages a metric across peers that report it, returning false
// when none do.
func peerMean(peers []models.PeerMetrics, metric func(models.PeerMetrics) *float64) (float64, bool) {
	var values []float64
	for _, p := range peers {
		if v := metric(p); v != nil && *v != 0 {
			values = append(values, *v)
		}
	}
	if len(values) == 0 {
		return 0, false
	}
	return stat.Mean(values, nil), true
}

// computeVerdict builds a one-sentence qualitative comparison: P/E against
// a 20% band around the peer mean, margins and growth as simple
// above/below.
func computeVerdict(target *models.PeerMetrics, peers []models.PeerMetrics) string {
	if target == nil || len(peers) == 0 {
		return "Insufficient peer data for comparison."
	}

	var points []string

	if target.TrailingPE != nil && *target.TrailingPE != 0 {
		if avgPE, ok := peerMean(peers, func(p models.PeerMetrics) *float64 { return p.TrailingPE }); ok {
			switch {
			case *target.TrailingPE < avgPE*(1-peBandPct):
				points = append(points, "trades at a discount to peers on P/E")
			case *target.TrailingPE > avgPE*(1+peBandPct):
				points = append(points, "trades at a premium to peers on P/E")
			default:
				points = append(points, "P/E roughly in line with peers")
			}
		}
	}

	if target.GrossMargins != nil && *target.GrossMargins != 0 {
		if avgMargin, ok := peerMean(peers, func(p models.PeerMetrics) *float64 { return p.GrossMargins }); ok {
			if *target.GrossMargins > avgMargin {
				points = append(points, "higher gross margins than peer average")
			} else {
				points = append(points, "lower gross margins than peer average")
			}
		}
	}

	if target.RevenueGrowth != nil && *target.RevenueGrowth != 0 {
		if avgGrowth, ok := peerMean(peers, func(p models.PeerMetrics) *float64 { return p.RevenueGrowth }); ok {
			if *target.RevenueGrowth > avgGrowth {
				points = append(points, "faster revenue growth")
			} else {
				points = append(points, "slower revenue growth")
			}
		}
	}

	if len(points) == 0 {
		return "Comparable to industry peers on key metrics."
	}
	return fmt.Sprintf("%s %s.", target.Symbol, strings.Join(points, ", "))
}
