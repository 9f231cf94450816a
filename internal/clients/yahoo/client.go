// Package yahoo provides a client for the Yahoo Finance API
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/models"
)

// flexFloat64 handles JSON values that may be either a number or a string.
type flexFloat64 float64

func (f *flexFloat64) UnmarshalJSON(data []byte) error {
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*f = flexFloat64(num)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s == "" || s == "N/A" {
			*f = 0
			return nil
		}
		num, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(num) || math.IsInf(num, 0) {
			*f = 0
			return nil
		}
		*f = flexFloat64(num)
		return nil
	}
	return fmt.Errorf("cannot unmarshal %s into float64", string(data))
}

// yfNum is Yahoo's formatted-value wrapper: {"raw": 1234.5, "fmt": "1,234.50"}.
// Yahoo omits the object entirely when the value is unavailable.
type yfNum struct {
	Raw *flexFloat64 `json:"raw"`
}

func (n *yfNum) ptr() *float64 {
	if n == nil || n.Raw == nil {
		return nil
	}
	v := float64(*n.Raw)
	return &v
}

const (
	DefaultBaseURL   = "https://query2.finance.yahoo.com"
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 10 // requests per second
)

// Client implements the MarketDataClient interface
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new Yahoo Finance client. The API key is optional;
// the public query endpoints accept unauthenticated requests.
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError represents an API error
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Yahoo API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// IsNotFound reports whether err is an APIError with a 404 status.
func IsNotFound(err error) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.StatusCode == http.StatusNotFound
}

// get performs a rate-limited GET request
func (c *Client) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	if params == nil {
		params = url.Values{}
	}

	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; folio/1.0)")
	if c.apiKey != "" {
		req.Header.Set("X-API-KEY", c.apiKey)
	}

	c.logger.Debug().Str("url", c.baseURL+path).Msg("Yahoo API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Endpoint:   path,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []quoteSummaryResult `json:"result"`
		Error  *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

type quoteSummaryResult struct {
	AssetProfile *struct {
		Sector      string `json:"sector"`
		SectorKey   string `json:"sectorKey"`
		Industry    string `json:"industry"`
		IndustryKey string `json:"industryKey"`
	} `json:"assetProfile"`
	Price *struct {
		ShortName          string `json:"shortName"`
		LongName           string `json:"longName"`
		QuoteType          string `json:"quoteType"`
		RegularMarketPrice *yfNum `json:"regularMarketPrice"`
		MarketCap          *yfNum `json:"marketCap"`
	} `json:"price"`
	SummaryDetail *struct {
		PreviousClose    *yfNum `json:"previousClose"`
		DividendYield    *yfNum `json:"dividendYield"`
		FiftyTwoWeekHigh *yfNum `json:"fiftyTwoWeekHigh"`
		FiftyTwoWeekLow  *yfNum `json:"fiftyTwoWeekLow"`
		Beta             *yfNum `json:"beta"`
		TrailingPE       *yfNum `json:"trailingPE"`
		ForwardPE        *yfNum `json:"forwardPE"`
	} `json:"summaryDetail"`
	FinancialData *struct {
		TargetMeanPrice         *yfNum `json:"targetMeanPrice"`
		TargetLowPrice          *yfNum `json:"targetLowPrice"`
		TargetHighPrice         *yfNum `json:"targetHighPrice"`
		NumberOfAnalystOpinions *yfNum `json:"numberOfAnalystOpinions"`
		RecommendationKey       string `json:"recommendationKey"`
		GrossMargins            *yfNum `json:"grossMargins"`
		ProfitMargins           *yfNum `json:"profitMargins"`
		RevenueGrowth           *yfNum `json:"revenueGrowth"`
	} `json:"financialData"`
	DefaultKeyStatistics *struct {
		FiftyTwoWeekChange *yfNum `json:"52WeekChange"`
	} `json:"defaultKeyStatistics"`
	TopHoldings *struct {
		SectorWeightings []map[string]*yfNum `json:"sectorWeightings"`
	} `json:"topHoldings"`
	ESGScores *struct {
		TotalEsg             *yfNum       `json:"totalEsg"`
		EnvironmentScore     *yfNum       `json:"environmentScore"`
		SocialScore          *yfNum       `json:"socialScore"`
		GovernanceScore      *yfNum       `json:"governanceScore"`
		HighestControversy   *flexFloat64 `json:"highestControversy"`
		AdultEntertainment   *bool        `json:"adult"`
		Alcoholic            *bool        `json:"alcoholic"`
		AnimalTesting        *bool        `json:"animalTesting"`
		ControversialWeapons *bool        `json:"controversialWeapons"`
		Gambling             *bool        `json:"gambling"`
		MilitaryContract     *bool        `json:"militaryContract"`
		Nuclear              *bool        `json:"nuclear"`
		SmallArms            *bool        `json:"smallArms"`
		Tobacco              *bool        `json:"tobacco"`
	} `json:"esgScores"`
	IncomeStatementHistoryQuarterly *struct {
		IncomeStatementHistory []struct {
			EndDate *struct {
				Fmt string `json:"fmt"`
			} `json:"endDate"`
			TotalRevenue *yfNum `json:"totalRevenue"`
			NetIncome    *yfNum `json:"netIncome"`
		} `json:"incomeStatementHistory"`
	} `json:"incomeStatementHistoryQuarterly"`
}

// quoteSummary fetches the requested quoteSummary modules for a symbol.
func (c *Client) quoteSummary(ctx context.Context, symbol string, modules ...string) (*quoteSummaryResult, error) {
	params := url.Values{}
	params.Set("modules", strings.Join(modules, ","))

	var resp quoteSummaryResponse
	path := fmt.Sprintf("/v10/finance/quoteSummary/%s", url.PathEscape(symbol))
	if err := c.get(ctx, path, params, &resp); err != nil {
		return nil, err
	}

	if resp.QuoteSummary.Error != nil {
		return nil, &APIError{
			StatusCode: http.StatusNotFound,
			Message:    resp.QuoteSummary.Error.Description,
			Endpoint:   path,
		}
	}
	if len(resp.QuoteSummary.Result) == 0 {
		return nil, &APIError{
			StatusCode: http.StatusNotFound,
			Message:    fmt.Sprintf("no data for symbol %s", symbol),
			Endpoint:   path,
		}
	}

	return &resp.QuoteSummary.Result[0], nil
}

// keyify derives a kebab-case lookup key from a display label, used when the
// provider omits its own key fields.
func keyify(label string) string {
	s := strings.ToLower(strings.TrimSpace(label))
	s = strings.ReplaceAll(s, "&", "")
	s = strings.ReplaceAll(s, "—", "-")
	s = strings.ReplaceAll(s, "–", "-")
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == '-' || r == '/'
	})
	return strings.Join(fields, "-")
}

// GetSnapshot retrieves the per-ticker summary record.
func (c *Client) GetSnapshot(ctx context.Context, symbol string) (*models.Snapshot, error) {
	res, err := c.quoteSummary(ctx, symbol,
		"assetProfile", "price", "summaryDetail", "financialData", "defaultKeyStatistics")
	if err != nil {
		return nil, err
	}

	snap := &models.Snapshot{Symbol: symbol}

	if res.Price != nil {
		snap.Name = res.Price.LongName
		if snap.Name == "" {
			snap.Name = res.Price.ShortName
		}
		snap.CurrentPrice = res.Price.RegularMarketPrice.ptr()
		snap.MarketCap = res.Price.MarketCap.ptr()
	}
	if res.AssetProfile != nil {
		snap.Sector = res.AssetProfile.Sector
		snap.SectorKey = res.AssetProfile.SectorKey
		snap.Industry = res.AssetProfile.Industry
		snap.IndustryKey = res.AssetProfile.IndustryKey
		if snap.SectorKey == "" && snap.Sector != "" {
			snap.SectorKey = keyify(snap.Sector)
		}
		if snap.IndustryKey == "" && snap.Industry != "" {
			snap.IndustryKey = keyify(snap.Industry)
		}
	}
	if res.SummaryDetail != nil {
		snap.PreviousClose = res.SummaryDetail.PreviousClose.ptr()
		snap.DividendYield = res.SummaryDetail.DividendYield.ptr()
		snap.FiftyTwoWeekHigh = res.SummaryDetail.FiftyTwoWeekHigh.ptr()
		snap.FiftyTwoWeekLow = res.SummaryDetail.FiftyTwoWeekLow.ptr()
		snap.Beta = res.SummaryDetail.Beta.ptr()
		snap.TrailingPE = res.SummaryDetail.TrailingPE.ptr()
		snap.ForwardPE = res.SummaryDetail.ForwardPE.ptr()
	}
	if res.FinancialData != nil {
		snap.TargetMeanPrice = res.FinancialData.TargetMeanPrice.ptr()
		snap.TargetLowPrice = res.FinancialData.TargetLowPrice.ptr()
		snap.TargetHighPrice = res.FinancialData.TargetHighPrice.ptr()
		snap.RecommendationKey = res.FinancialData.RecommendationKey
		snap.GrossMargins = res.FinancialData.GrossMargins.ptr()
		snap.ProfitMargins = res.FinancialData.ProfitMargins.ptr()
		snap.RevenueGrowth = res.FinancialData.RevenueGrowth.ptr()
		if n := res.FinancialData.NumberOfAnalystOpinions.ptr(); n != nil {
			count := int(*n)
			snap.NAnalysts = &count
		}
	}
	if res.DefaultKeyStatistics != nil {
		snap.FiftyTwoWeekChange = res.DefaultKeyStatistics.FiftyTwoWeekChange.ptr()
	}

	return snap, nil
}

// GetFundSectorWeights retrieves a fund's sector weightings. The provider
// reports them as a list of single-entry maps keyed by snake_case sector
// names; weights are fractions summing to roughly 1. Non-funds return an
// empty map.
func (c *Client) GetFundSectorWeights(ctx context.Context, symbol string) (map[string]float64, error) {
	res, err := c.quoteSummary(ctx, symbol, "topHoldings")
	if err != nil {
		if IsNotFound(err) {
			return map[string]float64{}, nil
		}
		return nil, err
	}

	weights := make(map[string]float64)
	if res.TopHoldings != nil {
		for _, entry := range res.TopHoldings.SectorWeightings {
			for key, num := range entry {
				if v := num.ptr(); v != nil && *v > 0 {
					weights[key] = *v
				}
			}
		}
	}
	return weights, nil
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol string `json:"symbol"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// GetPriceHistory retrieves daily closes for the given range. Bars with a
// null close (halts, partial sessions) are dropped.
func (c *Client) GetPriceHistory(ctx context.Context, symbol, rng string) (*models.PriceSeries, error) {
	params := url.Values{}
	params.Set("range", rng)
	params.Set("interval", "1d")

	var resp chartResponse
	path := fmt.Sprintf("/v8/finance/chart/%s", url.PathEscape(symbol))
	if err := c.get(ctx, path, params, &resp); err != nil {
		return nil, err
	}

	if resp.Chart.Error != nil {
		return nil, &APIError{
			StatusCode: http.StatusNotFound,
			Message:    resp.Chart.Error.Description,
			Endpoint:   path,
		}
	}
	if len(resp.Chart.Result) == 0 {
		return nil, &APIError{
			StatusCode: http.StatusNotFound,
			Message:    fmt.Sprintf("no chart data for %s", symbol),
			Endpoint:   path,
		}
	}

	result := resp.Chart.Result[0]
	series := &models.PriceSeries{Symbol: symbol}
	if len(result.Indicators.Quote) == 0 {
		return series, nil
	}

	closes := result.Indicators.Quote[0].Close
	for i, ts := range result.Timestamp {
		if i >= len(closes) || closes[i] == nil {
			continue
		}
		series.Bars = append(series.Bars, models.PriceBar{
			Date:  time.Unix(ts, 0).UTC().Truncate(24 * time.Hour),
			Close: *closes[i],
		})
	}

	return series, nil
}

type industryResponse struct {
	Finance struct {
		Result []struct {
			TopCompanies []struct {
				Symbol string `json:"symbol"`
			} `json:"topCompanies"`
		} `json:"result"`
	} `json:"finance"`
}

// GetIndustryCompanies returns an industry's top company symbols by
// market cap.
func (c *Client) GetIndustryCompanies(ctx context.Context, industryKey string, limit int) ([]string, error) {
	params := url.Values{}
	params.Set("count", strconv.Itoa(limit))

	var resp industryResponse
	path := fmt.Sprintf("/v1/finance/industry/%s/top-companies", url.PathEscape(industryKey))
	if err := c.get(ctx, path, params, &resp); err != nil {
		return nil, err
	}

	if len(resp.Finance.Result) == 0 {
		return nil, nil
	}

	var symbols []string
	for _, company := range resp.Finance.Result[0].TopCompanies {
		if company.Symbol == "" {
			continue
		}
		symbols = append(symbols, company.Symbol)
		if len(symbols) >= limit {
			break
		}
	}
	return symbols, nil
}

type searchResponse struct {
	News []struct {
		Title               string `json:"title"`
		Publisher           string `json:"publisher"`
		ProviderPublishTime int64  `json:"providerPublishTime"`
	} `json:"news"`
}

// GetNews retrieves recent headlines for a ticker.
func (c *Client) GetNews(ctx context.Context, symbol string, limit int) ([]models.NewsHeadline, error) {
	params := url.Values{}
	params.Set("q", symbol)
	params.Set("newsCount", strconv.Itoa(limit))
	params.Set("quotesCount", "0")

	var resp searchResponse
	if err := c.get(ctx, "/v1/finance/search", params, &resp); err != nil {
		return nil, err
	}

	headlines := make([]models.NewsHeadline, 0, len(resp.News))
	for _, item := range resp.News {
		if item.Title == "" {
			continue
		}
		headlines = append(headlines, models.NewsHeadline{
			Symbol:    symbol,
			Title:     item.Title,
			Publisher: item.Publisher,
			Date:      time.Unix(item.ProviderPublishTime, 0).UTC().Format("Jan 02, 2006"),
		})
		if len(headlines) >= limit {
			break
		}
	}
	return headlines, nil
}

// GetSustainability retrieves a ticker's ESG scores. Symbols without ESG
// coverage return a not-found APIError.
func (c *Client) GetSustainability(ctx context.Context, symbol string) (*models.Sustainability, error) {
	res, err := c.quoteSummary(ctx, symbol, "esgScores")
	if err != nil {
		return nil, err
	}
	if res.ESGScores == nil {
		return nil, &APIError{
			StatusCode: http.StatusNotFound,
			Message:    fmt.Sprintf("no ESG coverage for %s", symbol),
			Endpoint:   "/v10/finance/quoteSummary/" + symbol,
		}
	}

	esg := res.ESGScores
	sus := &models.Sustainability{
		Symbol:           symbol,
		TotalESG:         esg.TotalEsg.ptr(),
		EnvironmentScore: esg.EnvironmentScore.ptr(),
		SocialScore:      esg.SocialScore.ptr(),
		GovernanceScore:  esg.GovernanceScore.ptr(),
		Involvement:      make(map[string]bool),
	}
	if esg.HighestControversy != nil {
		v := float64(*esg.HighestControversy)
		sus.ControversyLevel = &v
	}

	involvement := map[string]*bool{
		"adultEntertainment":   esg.AdultEntertainment,
		"alcohol":              esg.Alcoholic,
		"animalTesting":        esg.AnimalTesting,
		"controversialWeapons": esg.ControversialWeapons,
		"gambling":             esg.Gambling,
		"militaryContract":     esg.MilitaryContract,
		"nuclear":              esg.Nuclear,
		"smallArms":            esg.SmallArms,
		"tobacco":              esg.Tobacco,
	}
	for category, flag := range involvement {
		if flag != nil && *flag {
			sus.Involvement[category] = true
		}
	}

	return sus, nil
}

// GetQuarterlyIncome retrieves recent quarterly income statement rows,
// newest first.
func (c *Client) GetQuarterlyIncome(ctx context.Context, symbol string, quarters int) ([]models.QuarterlyIncomeRow, error) {
	res, err := c.quoteSummary(ctx, symbol, "incomeStatementHistoryQuarterly")
	if err != nil {
		return nil, err
	}
	if res.IncomeStatementHistoryQuarterly == nil {
		return nil, nil
	}

	var rows []models.QuarterlyIncomeRow
	for _, stmt := range res.IncomeStatementHistoryQuarterly.IncomeStatementHistory {
		row := models.QuarterlyIncomeRow{
			Revenue:   stmt.TotalRevenue.ptr(),
			NetIncome: stmt.NetIncome.ptr(),
		}
		if stmt.EndDate != nil {
			row.Quarter = stmt.EndDate.Fmt
		}
		rows = append(rows, row)
		if len(rows) >= quarters {
			break
		}
	}
	return rows, nil
}
