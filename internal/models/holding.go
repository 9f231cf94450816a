// Package models defines the data structures used across Folio
package models

import "math"

// Holding is one consolidated position (by ticker) within a portfolio.
// Created by the CSV normalizer or the manual entry builder, enriched in
// place, and discarded at end of request; holdings are never persisted.
type Holding struct {
	Symbol            string   `json:"symbol"`
	Name              string   `json:"name"`
	Quantity          *float64 `json:"quantity"`
	LastPrice         *float64 `json:"lastPrice"`
	CurrentValue      float64  `json:"currentValue"` // defaults to 0, never null, keeps sums well-defined
	CostBasis         *float64 `json:"costBasis"`
	CostBasisPerShare *float64 `json:"costBasisPerShare"`
	TotalGainDollar   *float64 `json:"totalGainDollar"`
	TotalGainPct      *float64 `json:"totalGainPct"`
	PctOfAccount      *float64 `json:"pctOfAccount"`

	// Enrichment fields, populated by the enrichment engine.
	Sector            string             `json:"sector,omitempty"`
	SectorKey         string             `json:"sectorKey,omitempty"`
	Industry          string             `json:"industry,omitempty"`
	IndustryKey       string             `json:"industryKey,omitempty"`
	MarketCap         *float64           `json:"marketCap,omitempty"`
	CurrentPrice      *float64           `json:"currentPrice,omitempty"`
	TargetMeanPrice   *float64           `json:"targetMeanPrice,omitempty"`
	NAnalysts         *int               `json:"nAnalysts,omitempty"`
	RecommendationKey string             `json:"recommendationKey,omitempty"`
	SectorWeights     map[string]float64 `json:"sectorWeights,omitempty"` // sector name -> weight fraction, funds only
	IsFund            bool               `json:"isFund"`
	DividendYield     *float64           `json:"dividendYield,omitempty"`
	FiftyTwoWeekHigh  *float64           `json:"fiftyTwoWeekHigh,omitempty"`
	FiftyTwoWeekLow   *float64           `json:"fiftyTwoWeekLow,omitempty"`
	Beta              *float64           `json:"beta,omitempty"`
	TrailingPE        *float64           `json:"trailingPE,omitempty"`
}

// Float64Ptr returns a pointer to v. Convenience for nullable fields.
func Float64Ptr(v float64) *float64 { return &v }

// IntPtr returns a pointer to v.
func IntPtr(v int) *int { return &v }

// RoundCents rounds v to two decimal places.
func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// RoundTo rounds v to the given number of decimal places.
func RoundTo(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}

// RecomputeDerived recalculates pctOfAccount, totalGainPct, and
// costBasisPerShare from the holding's current totals. Division by zero
// resolves to null (or 0 for pctOfAccount), never NaN.
func (h *Holding) RecomputeDerived(totalValue float64) {
	if totalValue > 0 {
		h.PctOfAccount = Float64Ptr(RoundCents(h.CurrentValue / totalValue * 100))
	} else {
		h.PctOfAccount = Float64Ptr(0)
	}

	if h.CostBasis != nil && *h.CostBasis != 0 {
		h.TotalGainPct = Float64Ptr(RoundCents((h.CurrentValue - *h.CostBasis) / *h.CostBasis * 100))
	} else {
		h.TotalGainPct = nil
	}

	if h.CostBasis != nil && h.Quantity != nil && *h.Quantity != 0 {
		h.CostBasisPerShare = Float64Ptr(RoundCents(*h.CostBasis / *h.Quantity))
	} else {
		h.CostBasisPerShare = nil
	}
}

// Enrichment is the per-symbol record returned by the market data gateway,
// merged onto a Holding after the concurrent fetch completes.
type Enrichment struct {
	Name              string             `json:"name"`
	Sector            string             `json:"sector"`
	SectorKey         string             `json:"sectorKey"`
	Industry          string             `json:"industry"`
	IndustryKey       string             `json:"industryKey"`
	MarketCap         *float64           `json:"marketCap"`
	CurrentPrice      *float64           `json:"currentPrice"`
	TargetMeanPrice   *float64           `json:"targetMeanPrice"`
	NAnalysts         *int               `json:"nAnalysts"`
	RecommendationKey string             `json:"recommendationKey"`
	SectorWeights     map[string]float64 `json:"sectorWeights"`
	IsFund            bool               `json:"isFund"`
	DividendYield     *float64           `json:"dividendYield"`
	FiftyTwoWeekHigh  *float64           `json:"fiftyTwoWeekHigh"`
	FiftyTwoWeekLow   *float64           `json:"fiftyTwoWeekLow"`
	Beta              *float64           `json:"beta"`
	TrailingPE        *float64           `json:"trailingPE"`
}

// FallbackEnrichment returns the documented default record applied when a
// ticker's enrichment fails or times out. Every field is present so no
// holding is left with undefined enrichment state.
func FallbackEnrichment() *Enrichment {
	return &Enrichment{
		Sector:            "Unknown",
		Industry:          "Unknown",
		RecommendationKey: "N/A",
	}
}

// EnrichmentResult is the tagged outcome of one symbol's enrichment fetch.
// A failed fetch carries Err and nil Data; it collapses to the fallback
// record only at the point of merging onto a holding, so failure stays
// observable in tests.
type EnrichmentResult struct {
	Symbol string
	Data   *Enrichment
	Err    error
}

// Failed reports whether this result carries no usable data.
func (r EnrichmentResult) Failed() bool {
	return r.Data == nil
}

// Apply merges the enrichment onto a holding, substituting the fallback
// record for failed results.
func (r EnrichmentResult) Apply(h *Holding) {
	data := r.Data
	if data == nil {
		data = FallbackEnrichment()
	}
	if h.Name == "" && data.Name != "" {
		h.Name = data.Name
	}
	h.Sector = data.Sector
	h.SectorKey = data.SectorKey
	h.Industry = data.Industry
	h.IndustryKey = data.IndustryKey
	h.MarketCap = data.MarketCap
	h.CurrentPrice = data.CurrentPrice
	h.TargetMeanPrice = data.TargetMeanPrice
	h.NAnalysts = data.NAnalysts
	h.RecommendationKey = data.RecommendationKey
	h.SectorWeights = data.SectorWeights
	h.IsFund = data.IsFund
	h.DividendYield = data.DividendYield
	h.FiftyTwoWeekHigh = data.FiftyTwoWeekHigh
	h.FiftyTwoWeekLow = data.FiftyTwoWeekLow
	h.Beta = data.Beta
	h.TrailingPE = data.TrailingPE
}

// ManualEntry is one user-supplied position for the manual entry builder.
type ManualEntry struct {
	Symbol       string   `json:"symbol"`
	Shares       float64  `json:"shares"`
	CostPerShare *float64 `json:"costPerShare,omitempty"`
}
