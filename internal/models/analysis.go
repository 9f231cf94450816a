package models

// SectorBucket is one row of the sector breakdown. Fund holdings are
// distributed across buckets by their sector weights (look-through); the
// fund itself is counted once in its largest-weight sector.
type SectorBucket struct {
	Sector string  `json:"sector"`
	Value  float64 `json:"value"`
	Count  int     `json:"count"`
	Pct    float64 `json:"pct"`
}

// IndustryBucket is one row of the industry breakdown. Funds collapse into a
// single pseudo-industry bucket; look-through is sector-level only.
type IndustryBucket struct {
	Industry    string  `json:"industry"`
	IndustryKey string  `json:"industryKey"`
	Sector      string  `json:"sector"`
	Value       float64 `json:"value"`
	Count       int     `json:"count"`
	Pct         float64 `json:"pct"`
}

// ConcentrationRisk flags a holding whose value-weight exceeds the policy
// threshold for its kind.
type ConcentrationRisk struct {
	Symbol       string  `json:"symbol"`
	Name         string  `json:"name"`
	Pct          float64 `json:"pct"`
	CurrentValue float64 `json:"currentValue"`
	IsFund       bool    `json:"isFund"`
}

// ScoredPick is an industry pick ranked by the composite score blending
// analyst rating and implied upside.
type ScoredPick struct {
	IndustryPick
	Score float64 `json:"score"`
}

// OpportunityGroup holds the top picks for one diversification gap.
type OpportunityGroup struct {
	IndustryKey   string       `json:"industryKey"`
	IndustryLabel string       `json:"industryLabel"`
	Picks         []ScoredPick `json:"picks"`
}

// AnalystHoldingView is one covered holding's analyst data in the overview.
type AnalystHoldingView struct {
	Symbol            string   `json:"symbol"`
	Name              string   `json:"name"`
	RecommendationKey string   `json:"recommendationKey"`
	NAnalysts         int      `json:"nAnalysts"`
	TargetMeanPrice   *float64 `json:"targetMeanPrice"`
	CurrentPrice      *float64 `json:"currentPrice"`
	UpsidePct         *float64 `json:"upsidePct"`
	CurrentValue      float64  `json:"currentValue"`
	PctOfAccount      float64  `json:"pctOfAccount"`
}

// AnalystOverview aggregates recommendation data across enriched holdings.
// Holdings without analyst coverage are excluded from the denominator.
type AnalystOverview struct {
	Buys             int                  `json:"buys"`
	Holds            int                  `json:"holds"`
	Sells            int                  `json:"sells"`
	TotalCovered     int                  `json:"totalCovered"`
	TotalHoldings    int                  `json:"totalHoldings"`
	CoverageRatio    float64              `json:"coverageRatio"`
	WeightedUpside   *float64             `json:"weightedUpside"`
	HoldingsByUpside []AnalystHoldingView `json:"holdingsByUpside"`
}

// TaxLossCandidate is a holding trading far enough below cost to be a
// harvesting candidate. EstTaxSavings is a flat-rate illustration, not a
// tax determination.
type TaxLossCandidate struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	CostBasis     float64 `json:"costBasis"`
	CurrentValue  float64 `json:"currentValue"`
	LossDollar    float64 `json:"lossDollar"` // negative
	LossPct       float64 `json:"lossPct"`    // negative
	EstTaxSavings float64 `json:"estTaxSavings"`
	NearYearlyLow bool    `json:"nearYearlyLow"` // within 10% of 52-week low
}

// HealthScore is the composite 0-100 portfolio health score. Each sub-score
// is independently capped at 25.
type HealthScore struct {
	Total           float64 `json:"total"`
	Diversification float64 `json:"diversification"`
	Concentration   float64 `json:"concentration"`
	Sentiment       float64 `json:"sentiment"`
	CostHealth      float64 `json:"costHealth"`
}

// DividendPayer is one holding's contribution to projected income.
type DividendPayer struct {
	Symbol       string  `json:"symbol"`
	Name         string  `json:"name"`
	YieldPct     float64 `json:"yieldPct"`
	AnnualIncome float64 `json:"annualIncome"`
}

// DividendProjection estimates annual income from current yields.
type DividendProjection struct {
	AnnualIncome      float64         `json:"annualIncome"`
	MonthlyIncome     float64         `json:"monthlyIncome"`
	PortfolioYieldPct float64         `json:"portfolioYieldPct"` // value-weighted
	Payers            []DividendPayer `json:"payers"`
}

// WidgetHolding is the trimmed holding projection shipped to the async
// widget endpoints, carrying only the fields the widgets need.
type WidgetHolding struct {
	Symbol        string             `json:"symbol"`
	Name          string             `json:"name"`
	CurrentValue  float64            `json:"currentValue"`
	PctOfAccount  float64            `json:"pctOfAccount"`
	IsFund        bool               `json:"isFund"`
	IndustryKey   string             `json:"industryKey"`
	Industry      string             `json:"industry"`
	SectorWeights map[string]float64 `json:"sectorWeights,omitempty"`
}

// PortfolioAnalysis is the engine's output: immutable once constructed,
// owned by the request that produced it.
type PortfolioAnalysis struct {
	Holdings          []*Holding          `json:"holdings"`
	TotalValue        float64             `json:"totalValue"`
	TotalCost         float64             `json:"totalCost"`
	TotalGain         float64             `json:"totalGain"`
	TotalGainPct      float64             `json:"totalGainPct"`
	BySector          []SectorBucket      `json:"bySector"`
	ByIndustry        []IndustryBucket    `json:"byIndustry"`
	Concentration     []ConcentrationRisk `json:"concentration"`
	Gaps              []string            `json:"gaps"`
	Opportunities     []OpportunityGroup  `json:"opportunities"`
	IndustryLabels    map[string]string   `json:"industryLabels"`
	AnalystOverview   *AnalystOverview    `json:"analystOverview"`
	WidgetMeta        map[string]any      `json:"widgetMeta"`
	TaxLossCandidates []TaxLossCandidate  `json:"taxLossCandidates"`
	HealthScore       HealthScore         `json:"healthScore"`
	Dividends         DividendProjection  `json:"dividends"`
}

// CommentaryRequest carries the pre-computed summaries the narrative
// generator consumes. The generator never sees raw provider data.
type CommentaryRequest struct {
	Holdings        []WidgetHolding     `json:"holdings"`
	BySector        []SectorBucket      `json:"bySector"`
	Concentration   []ConcentrationRisk `json:"concentration"`
	AnalystOverview *AnalystOverview    `json:"analystOverview"`
}
