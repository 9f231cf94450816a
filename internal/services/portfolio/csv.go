// Package portfolio implements portfolio ingestion, enrichment, and the
// analytics engine.
package portfolio

import (
	"bytes"
	"encoding/csv"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/bobmcallan/folio/internal/models"
)

// Canonical column names produced by header normalization.
const (
	colSymbol            = "symbol"
	colName              = "name"
	colQuantity          = "quantity"
	colLastPrice         = "lastPrice"
	colCurrentValue      = "currentValue"
	colCostBasis         = "costBasis"
	colCostBasisPerShare = "costBasisPerShare"
	colTotalGainDollar   = "totalGainDollar"
	colTotalGainPct      = "totalGainPct"
	colPctOfAccount      = "pctOfAccount"
)

// columnAliases maps lowercased header names to canonical columns, covering
// the naming conventions of the major brokerages (Fidelity, Schwab,
// Vanguard, E*TRADE, Robinhood and friends). Resolution is first match
// wins; a canonical target already claimed by an earlier header is not
// reassigned.
var columnAliases = []struct {
	alias     string
	canonical string
}{
	{"symbol", colSymbol},
	{"ticker", colSymbol},
	{"ticker symbol", colSymbol},
	{"symbol/cusip", colSymbol},

	{"description", colName},
	{"name", colName},
	{"security", colName},
	{"security name", colName},
	{"security description", colName},
	{"company name", colName},

	{"quantity", colQuantity},
	{"shares", colQuantity},
	{"qty", colQuantity},
	{"share quantity", colQuantity},

	{"last price", colLastPrice},
	{"price", colLastPrice},
	{"last", colLastPrice},
	{"share price", colLastPrice},
	{"price per share", colLastPrice},

	{"current value", colCurrentValue},
	{"market value", colCurrentValue},
	{"mkt value", colCurrentValue},
	{"value", colCurrentValue},
	{"current market value", colCurrentValue},

	{"cost basis total", colCostBasis},
	{"cost basis", colCostBasis},
	{"total cost", colCostBasis},
	{"total cost basis", colCostBasis},
	{"cost", colCostBasis},

	{"average cost basis", colCostBasisPerShare},
	{"cost basis per share", colCostBasisPerShare},
	{"avg cost", colCostBasisPerShare},
	{"average cost", colCostBasisPerShare},
	{"avg cost basis", colCostBasisPerShare},
	{"unit cost", colCostBasisPerShare},

	{"total gain/loss dollar", colTotalGainDollar},
	{"total gain/loss ($)", colTotalGainDollar},
	{"gain/loss ($)", colTotalGainDollar},
	{"gain/loss dollar", colTotalGainDollar},
	{"unrealized gain/loss", colTotalGainDollar},
	{"total gain/loss", colTotalGainDollar},

	{"total gain/loss percent", colTotalGainPct},
	{"total gain/loss (%)", colTotalGainPct},
	{"gain/loss (%)", colTotalGainPct},
	{"gain/loss percent", colTotalGainPct},
	{"unrealized gain/loss %", colTotalGainPct},

	{"percent of account", colPctOfAccount},
	{"pct of account", colPctOfAccount},
	{"% of account", colPctOfAccount},
	{"weight", colPctOfAccount},
	{"allocation", colPctOfAccount},
	{"portfolio %", colPctOfAccount},
}

// skipSymbols are cash and money-market sweep positions, not investable
// holdings.
var skipSymbols = map[string]bool{
	"FCASH":            true,
	"SPAXX":            true,
	"FDRXX":            true,
	"CASH":             true,
	"PENDING ACTIVITY": true,
}

// decodeExport decodes raw export bytes, tolerating a UTF-8 BOM and falling
// back to Windows-1252 when the bytes are not valid UTF-8.
func decodeExport(raw []byte) string {
	raw = bytes.TrimPrefix(raw, []byte{0xEF, 0xBB, 0xBF})
	if utf8.Valid(raw) {
		return string(raw)
	}
	decoded, err := charmap.Windows1252.NewDecoder().Bytes(raw)
	if err != nil {
		return string(raw)
	}
	return string(decoded)
}

// stripTrailer cuts the disclaimer text brokerages append after the data
// rows. A single blank line inside the data (multi-account exports) is
// tolerated; two consecutive blank lines after at least one data line end
// the data section. Trailing commas are stripped per line since some
// exports leave a dangling empty column.
func stripTrailer(content string) string {
	var kept []string
	dataLines := 0
	blankRun := 0
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			blankRun++
			if blankRun >= 2 && dataLines > 0 {
				break
			}
			continue
		}
		blankRun = 0
		dataLines++
		kept = append(kept, strings.TrimRight(line, ","))
	}
	return strings.Join(kept, "\n")
}

// cleanMoney parses a monetary or percentage cell. Currency symbols,
// percent signs, thousands separators, and a leading "+" are stripped;
// parenthesized values are negative; sentinel placeholders map to nil.
func cleanMoney(val string) *float64 {
	s := strings.TrimSpace(val)
	switch s {
	case "", "--", "n/a", "N/A", "—":
		return nil
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}

	replacer := strings.NewReplacer("$", "", "%", "", ",", "", "+", "")
	s = strings.TrimSpace(replacer.Replace(s))

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	// ParseFloat accepts literal "nan" and "inf" cells; non-finite values
	// can never reach a holding since JSON has no token for them.
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	if negative {
		f = -f
	}
	return &f
}

// resolveColumns maps a header row to canonical column indexes.
func resolveColumns(header []string) map[string]int {
	columns := make(map[string]int)
	for idx, raw := range header {
		name := strings.ToLower(strings.TrimSpace(raw))
		for _, entry := range columnAliases {
			if entry.alias != name {
				continue
			}
			if _, taken := columns[entry.canonical]; !taken {
				columns[entry.canonical] = idx
			}
			break
		}
	}
	return columns
}

func cell(record []string, columns map[string]int, canonical string) string {
	idx, ok := columns[canonical]
	if !ok || idx >= len(record) {
		return ""
	}
	return record[idx]
}

// skipSymbol reports whether a row's symbol marks a cash sweep, pending
// activity, or summary row rather than a holding.
func skipSymbol(symbol string) bool {
	if symbol == "" || skipSymbols[symbol] {
		return true
	}
	if strings.Contains(symbol, "*") {
		return true
	}
	if strings.HasPrefix(symbol, "PENDING") {
		return true
	}
	if strings.Contains(symbol, "TOTAL") || strings.Contains(symbol, "CASH & CASH") {
		return true
	}
	return false
}

// ParseCSV normalizes a brokerage positions export into canonical holdings.
// Malformed rows are dropped, never fatal; an empty or unusable file yields
// an empty list.
func ParseCSV(r io.Reader) ([]*models.Holding, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	content := stripTrailer(decodeExport(raw))
	if content == "" {
		return nil, nil
	}

	reader := csv.NewReader(strings.NewReader(content))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return nil, nil
	}
	columns := resolveColumns(header)
	if _, ok := columns[colSymbol]; !ok {
		return nil, nil
	}

	var holdings []*models.Holding
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}

		symbol := strings.ToUpper(strings.TrimSpace(cell(record, columns, colSymbol)))
		if skipSymbol(symbol) {
			continue
		}

		h := &models.Holding{
			Symbol:            symbol,
			Name:              strings.TrimSpace(cell(record, columns, colName)),
			Quantity:          cleanMoney(cell(record, columns, colQuantity)),
			LastPrice:         cleanMoney(cell(record, columns, colLastPrice)),
			CostBasis:         cleanMoney(cell(record, columns, colCostBasis)),
			CostBasisPerShare: cleanMoney(cell(record, columns, colCostBasisPerShare)),
			TotalGainDollar:   cleanMoney(cell(record, columns, colTotalGainDollar)),
			TotalGainPct:      cleanMoney(cell(record, columns, colTotalGainPct)),
			PctOfAccount:      cleanMoney(cell(record, columns, colPctOfAccount)),
		}

		currentValue := cleanMoney(cell(record, columns, colCurrentValue))
		if currentValue == nil && h.LastPrice != nil && h.Quantity != nil {
			currentValue = models.Float64Ptr(models.RoundCents(*h.LastPrice * *h.Quantity))
		}
		if h.CostBasis == nil && h.CostBasisPerShare != nil && h.Quantity != nil {
			h.CostBasis = models.Float64Ptr(models.RoundCents(*h.CostBasisPerShare * *h.Quantity))
		}

		// Must have at least a value or a quantity to be a real position.
		if currentValue == nil && h.Quantity == nil {
			continue
		}
		if currentValue != nil {
			h.CurrentValue = *currentValue
		}

		holdings = append(holdings, h)
	}

	return consolidate(holdings), nil
}

// consolidate merges duplicate tickers (same stock held across multiple
// accounts), summing additive fields and keeping the first-seen name and
// last price, then recomputes the derived fields from the merged totals.
func consolidate(holdings []*models.Holding) []*models.Holding {
	merged := make(map[string]*models.Holding)
	var order []string

	addOpt := func(dst, src *float64) *float64 {
		if dst == nil && src == nil {
			return nil
		}
		sum := 0.0
		if dst != nil {
			sum += *dst
		}
		if src != nil {
			sum += *src
		}
		return &sum
	}

	for _, h := range holdings {
		existing, ok := merged[h.Symbol]
		if !ok {
			merged[h.Symbol] = h
			order = append(order, h.Symbol)
			continue
		}
		existing.Quantity = addOpt(existing.Quantity, h.Quantity)
		existing.CurrentValue += h.CurrentValue
		existing.CostBasis = addOpt(existing.CostBasis, h.CostBasis)
		existing.TotalGainDollar = addOpt(existing.TotalGainDollar, h.TotalGainDollar)
	}

	result := make([]*models.Holding, 0, len(order))
	totalValue := 0.0
	for _, sym := range order {
		result = append(result, merged[sym])
		totalValue += merged[sym].CurrentValue
	}
	for _, h := range result {
		h.RecomputeDerived(totalValue)
	}
	return result
}
