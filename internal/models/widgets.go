package models

// SectorMomentum is one sector ETF's trailing returns, annotated with the
// portfolio's weight in that sector.
type SectorMomentum struct {
	ETF             string   `json:"etf"`
	Sector          string   `json:"sector"`
	Price           *float64 `json:"price"`
	Return1W        *float64 `json:"return1w"`
	Return1M        *float64 `json:"return1m"`
	Return3M        *float64 `json:"return3m"`
	PortfolioWeight float64  `json:"portfolioWeight"`
}

// PeerComparison holds one target holding's valuation against its industry
// peer group.
type PeerComparison struct {
	Symbol       string        `json:"symbol"`
	Name         string        `json:"name"`
	Industry     string        `json:"industry"`
	CurrentValue float64       `json:"currentValue"`
	PctOfAccount float64       `json:"pctOfAccount"`
	Target       PeerMetrics   `json:"target"`
	Peers        []PeerMetrics `json:"peers"`
	Verdict      string        `json:"verdict"` // one-sentence qualitative comparison
}

// PerformancePoint is one day of reconstructed portfolio value.
type PerformancePoint struct {
	Date  string  `json:"date"` // "2006-01-02"
	Value float64 `json:"value"`
}

// HoldingReturn is one holding's contribution over the performance window.
type HoldingReturn struct {
	Symbol    string   `json:"symbol"`
	Name      string   `json:"name"`
	ReturnPct *float64 `json:"returnPct"`
}

// PerformanceResult is the historically reconstructed portfolio value
// series with a benchmark normalized to the same starting value.
type PerformanceResult struct {
	Period          string             `json:"period"`
	StartValue      float64            `json:"startValue"`
	EndValue        float64            `json:"endValue"`
	ReturnDollar    float64            `json:"returnDollar"`
	ReturnPct       float64            `json:"returnPct"`
	Series          []PerformancePoint `json:"series"`
	Benchmark       []PerformancePoint `json:"benchmark"`
	BenchmarkSymbol string             `json:"benchmarkSymbol"`
	BestPerformer   *HoldingReturn     `json:"bestPerformer"`
	WorstPerformer  *HoldingReturn     `json:"worstPerformer"`
	HoldingReturns  []HoldingReturn    `json:"holdingReturns"`
	MarketClosed    bool               `json:"marketClosed"`
}

// CorrelationPair is one strongly correlated symbol pair.
type CorrelationPair struct {
	SymbolA     string  `json:"symbolA"`
	SymbolB     string  `json:"symbolB"`
	Correlation float64 `json:"correlation"`
}

// CorrelationResult is the pairwise daily-return correlation matrix for the
// largest non-fund holdings. Matrix is symmetric with a unit diagonal;
// row/column order follows Symbols.
type CorrelationResult struct {
	Symbols   []string          `json:"symbols"`
	Matrix    [][]float64       `json:"matrix"`
	HighPairs []CorrelationPair `json:"highPairs"`
	Period    string            `json:"period"`
}

// ESGHolding is one holding's sustainability scores weighted into the
// portfolio rollup.
type ESGHolding struct {
	Symbol           string   `json:"symbol"`
	Name             string   `json:"name"`
	TotalESG         *float64 `json:"totalEsg"`
	EnvironmentScore *float64 `json:"environmentScore"`
	SocialScore      *float64 `json:"socialScore"`
	GovernanceScore  *float64 `json:"governanceScore"`
	ControversyLevel *float64 `json:"controversyLevel"`
	PctOfAccount     float64  `json:"pctOfAccount"`
}

// ControversyExposure flags a controversial-product category the portfolio
// touches, with the symbols involved.
type ControversyExposure struct {
	Category string   `json:"category"`
	Symbols  []string `json:"symbols"`
}

// ESGResult is the value-weighted sustainability rollup. Funds are skipped
// rather than scored; CoveredPct reports how much of portfolio value the
// scores actually represent.
type ESGResult struct {
	PortfolioESG     *float64              `json:"portfolioEsg"`
	EnvironmentScore *float64              `json:"environmentScore"`
	SocialScore      *float64              `json:"socialScore"`
	GovernanceScore  *float64              `json:"governanceScore"`
	CoveredValue     float64               `json:"coveredValue"`
	CoveredPct       float64               `json:"coveredPct"`
	Holdings         []ESGHolding          `json:"holdings"`
	Skipped          []string              `json:"skipped"`
	Controversies    []ControversyExposure `json:"controversies"`
}
