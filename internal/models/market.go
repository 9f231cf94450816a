package models

import "time"

// Snapshot is the provider's per-ticker summary record. Fields the provider
// may omit are pointers; absence is meaningful downstream.
type Snapshot struct {
	Symbol             string   `json:"symbol"`
	Name               string   `json:"name"`
	Sector             string   `json:"sector"`
	SectorKey          string   `json:"sectorKey"`
	Industry           string   `json:"industry"`
	IndustryKey        string   `json:"industryKey"`
	MarketCap          *float64 `json:"marketCap"`
	CurrentPrice       *float64 `json:"currentPrice"`
	PreviousClose      *float64 `json:"previousClose"`
	TargetMeanPrice    *float64 `json:"targetMeanPrice"`
	TargetLowPrice     *float64 `json:"targetLowPrice"`
	TargetHighPrice    *float64 `json:"targetHighPrice"`
	NAnalysts          *int     `json:"nAnalysts"`
	RecommendationKey  string   `json:"recommendationKey"`
	DividendYield      *float64 `json:"dividendYield"`
	FiftyTwoWeekHigh   *float64 `json:"fiftyTwoWeekHigh"`
	FiftyTwoWeekLow    *float64 `json:"fiftyTwoWeekLow"`
	FiftyTwoWeekChange *float64 `json:"fiftyTwoWeekChange"`
	Beta               *float64 `json:"beta"`
	TrailingPE         *float64 `json:"trailingPE"`
	ForwardPE          *float64 `json:"forwardPE"`
	GrossMargins       *float64 `json:"grossMargins"`
	ProfitMargins      *float64 `json:"profitMargins"`
	RevenueGrowth      *float64 `json:"revenueGrowth"`
}

// PriceBar is one day of close data.
type PriceBar struct {
	Date  time.Time `json:"date"`
	Close float64   `json:"close"`
}

// PriceSeries holds a ticker's daily closes, oldest first.
type PriceSeries struct {
	Symbol string     `json:"symbol"`
	Bars   []PriceBar `json:"bars"`
}

// CloseAsOf returns the most recent close at or before target, carrying the
// last known price forward across non-trading days.
func (s *PriceSeries) CloseAsOf(target time.Time) (float64, bool) {
	var price float64
	found := false
	for _, bar := range s.Bars {
		if bar.Date.After(target) {
			break
		}
		price = bar.Close
		found = true
	}
	return price, found
}

// Latest returns the last close in the series.
func (s *PriceSeries) Latest() (float64, bool) {
	if len(s.Bars) == 0 {
		return 0, false
	}
	return s.Bars[len(s.Bars)-1].Close, true
}

// QuarterlyIncomeRow is one quarter of the provider's income statement.
type QuarterlyIncomeRow struct {
	Quarter   string   `json:"quarter"` // e.g. "2025-09-30"
	Revenue   *float64 `json:"revenue"`
	NetIncome *float64 `json:"netIncome"`
}

// PeerMetrics holds the valuation metrics compared across an industry
// peer group.
type PeerMetrics struct {
	Symbol             string   `json:"symbol"`
	Name               string   `json:"name"`
	MarketCap          *float64 `json:"marketCap"`
	TrailingPE         *float64 `json:"trailingPE"`
	ForwardPE          *float64 `json:"forwardPE"`
	GrossMargins       *float64 `json:"grossMargins"`
	ProfitMargins      *float64 `json:"profitMargins"`
	RevenueGrowth      *float64 `json:"revenueGrowth"`
	FiftyTwoWeekChange *float64 `json:"fiftyTwoWeekChange"`
	IsTarget           bool     `json:"isTarget"`
}

// IndustryPick is one analyst-consensus candidate from an industry's top
// companies list.
type IndustryPick struct {
	Symbol       string   `json:"symbol"`
	Name         string   `json:"name"`
	CurrentPrice float64  `json:"currentPrice"`
	TargetPrice  float64  `json:"targetPrice"`
	TargetLow    *float64 `json:"targetLow"`
	TargetHigh   *float64 `json:"targetHigh"`
	UpsidePct    float64  `json:"upsidePct"`
	RecKey       string   `json:"recKey"`
	NAnalysts    int      `json:"nAnalysts"`
	MarketCap    *float64 `json:"marketCap"`
	LowCoverage  bool     `json:"lowCoverage"`
}

// NewsHeadline is one provider headline, date pre-formatted for display.
type NewsHeadline struct {
	Symbol    string `json:"symbol,omitempty"`
	Title     string `json:"title"`
	Publisher string `json:"publisher"`
	Date      string `json:"date"` // "Jan 02, 2006"
}

// Sustainability holds a ticker's ESG scores and controversial-product
// involvement flags.
type Sustainability struct {
	Symbol           string          `json:"symbol"`
	TotalESG         *float64        `json:"totalEsg"`
	EnvironmentScore *float64        `json:"environmentScore"`
	SocialScore      *float64        `json:"socialScore"`
	GovernanceScore  *float64        `json:"governanceScore"`
	ControversyLevel *float64        `json:"controversyLevel"`
	Involvement      map[string]bool `json:"involvement"` // category key -> involved
}

// Quote is a quick single-ticker quote.
type Quote struct {
	Symbol        string   `json:"symbol"`
	Name          string   `json:"name"`
	Price         *float64 `json:"price"`
	PreviousClose *float64 `json:"previousClose"`
	Change        *float64 `json:"change"`
	ChangePct     *float64 `json:"changePct"`
	MarketCap     *float64 `json:"marketCap"`
}
