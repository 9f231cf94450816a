package portfolio

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestParseCSVFidelityExport(t *testing.T) {
	input := strings.Join([]string{
		"Symbol,Description,Quantity,Last Price,Current Value,Cost Basis Total,Total Gain/Loss Dollar",
		`AAPL,APPLE INC,10,$150.00,"$1,500.00","$1,000.00",$500.00`,
		"FCASH,FIDELITY CASH,100,$1.00,$100.00,--,--",
		"Pending Activity,,,,$25.00,,",
		"",
		"",
		`"The data and information in this spreadsheet is for informational purposes only."`,
	}, "\n")

	holdings, err := ParseCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseCSV returned error: %v", err)
	}
	if len(holdings) != 1 {
		t.Fatalf("expected 1 holding, got %d", len(holdings))
	}

	h := holdings[0]
	if h.Symbol != "AAPL" {
		t.Errorf("expected symbol AAPL, got %s", h.Symbol)
	}
	if h.Name != "APPLE INC" {
		t.Errorf("expected name APPLE INC, got %q", h.Name)
	}
	if h.Quantity == nil || *h.Quantity != 10 {
		t.Errorf("expected quantity 10, got %v", h.Quantity)
	}
	if h.CurrentValue != 1500 {
		t.Errorf("expected current value 1500, got %f", h.CurrentValue)
	}
	if h.CostBasis == nil || *h.CostBasis != 1000 {
		t.Errorf("expected cost basis 1000, got %v", h.CostBasis)
	}
	if h.PctOfAccount == nil || *h.PctOfAccount != 100 {
		t.Errorf("expected pct of account 100, got %v", h.PctOfAccount)
	}
	if h.TotalGainPct == nil || *h.TotalGainPct != 50 {
		t.Errorf("expected gain pct 50, got %v", h.TotalGainPct)
	}
}

func TestParseCSVAliasHeaders(t *testing.T) {
	input := "Ticker,Name,Shares,Price,Market Value\nMSFT,Microsoft Corp,5,400.00,2000.00\n"

	holdings, err := ParseCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseCSV returned error: %v", err)
	}
	if len(holdings) != 1 {
		t.Fatalf("expected 1 holding, got %d", len(holdings))
	}

	h := holdings[0]
	if h.Symbol != "MSFT" {
		t.Errorf("expected symbol MSFT, got %s", h.Symbol)
	}
	if h.Quantity == nil || *h.Quantity != 5 {
		t.Errorf("expected quantity 5, got %v", h.Quantity)
	}
	if h.LastPrice == nil || *h.LastPrice != 400 {
		t.Errorf("expected last price 400, got %v", h.LastPrice)
	}
	if h.CurrentValue != 2000 {
		t.Errorf("expected current value 2000, got %f", h.CurrentValue)
	}
}

func TestCleanMoney(t *testing.T) {
	tests := []struct {
		input string
		want  *float64
	}{
		{"$1,234.56", f(1234.56)},
		{"($250.00)", f(-250)},
		{"+5.2%", f(5.2)},
		{"-3.75", f(-3.75)},
		{"  42  ", f(42)},
		{"", nil},
		{"--", nil},
		{"n/a", nil},
		{"N/A", nil},
		{"—", nil},
		{"not a number", nil},
		{"nan", nil},
		{"NaN", nil},
		{"inf", nil},
		{"-Inf", nil},
		{"+Infinity", nil},
	}

	for _, tc := range tests {
		got := cleanMoney(tc.input)
		switch {
		case tc.want == nil && got != nil:
			t.Errorf("cleanMoney(%q) = %v, want nil", tc.input, *got)
		case tc.want != nil && got == nil:
			t.Errorf("cleanMoney(%q) = nil, want %v", tc.input, *tc.want)
		case tc.want != nil && got != nil && *got != *tc.want:
			t.Errorf("cleanMoney(%q) = %v, want %v", tc.input, *got, *tc.want)
		}
	}
}

func f(v float64) *float64 { return &v }

func TestParseCSVNonFiniteCellsTreatedAsMissing(t *testing.T) {
	input := "Symbol,Quantity,Current Value\nAAPL,nan,1000.00\nMSFT,inf,500.00\n"

	holdings, err := ParseCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseCSV returned error: %v", err)
	}
	if len(holdings) != 2 {
		t.Fatalf("expected 2 holdings, got %d", len(holdings))
	}
	for _, h := range holdings {
		if h.Quantity != nil {
			t.Errorf("%s: expected non-finite quantity cell to be nil, got %v", h.Symbol, *h.Quantity)
		}
	}

	// Holdings feed straight into the JSON response, which has no token for
	// NaN or Infinity.
	if _, err := json.Marshal(holdings); err != nil {
		t.Fatalf("holdings must serialize cleanly: %v", err)
	}
}

func TestStripTrailerSingleBlankTolerated(t *testing.T) {
	input := "Symbol,Current Value\nAAPL,100\n\nMSFT,200\n\n\nDisclaimer text here\n"

	holdings, err := ParseCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseCSV returned error: %v", err)
	}
	if len(holdings) != 2 {
		t.Fatalf("expected 2 holdings across the blank line, got %d", len(holdings))
	}
	if holdings[0].Symbol != "AAPL" || holdings[1].Symbol != "MSFT" {
		t.Errorf("unexpected symbols: %s, %s", holdings[0].Symbol, holdings[1].Symbol)
	}
}

func TestParseCSVSkipsNonHoldingRows(t *testing.T) {
	input := strings.Join([]string{
		"Symbol,Current Value",
		"SPAXX,500",
		"FDRXX,100",
		"CASH,50",
		"AAPL**,200",
		"PENDING SETTLEMENT,75",
		"ACCOUNT TOTAL,925",
		"NVDA,1000",
	}, "\n")

	holdings, err := ParseCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseCSV returned error: %v", err)
	}
	if len(holdings) != 1 {
		t.Fatalf("expected only NVDA to survive, got %d holdings", len(holdings))
	}
	if holdings[0].Symbol != "NVDA" {
		t.Errorf("expected NVDA, got %s", holdings[0].Symbol)
	}
}

func TestParseCSVBackfillsDerivedFields(t *testing.T) {
	input := "Symbol,Quantity,Last Price,Average Cost Basis\nTSLA,4,$250.00,$200.00\n"

	holdings, err := ParseCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseCSV returned error: %v", err)
	}
	if len(holdings) != 1 {
		t.Fatalf("expected 1 holding, got %d", len(holdings))
	}

	h := holdings[0]
	if h.CurrentValue != 1000 {
		t.Errorf("expected backfilled current value 1000, got %f", h.CurrentValue)
	}
	if h.CostBasis == nil || *h.CostBasis != 800 {
		t.Errorf("expected backfilled cost basis 800, got %v", h.CostBasis)
	}
}

func TestParseCSVConsolidatesDuplicates(t *testing.T) {
	input := strings.Join([]string{
		"Symbol,Description,Quantity,Current Value,Cost Basis Total",
		"AAPL,APPLE INC,10,1000,900",
		"MSFT,MICROSOFT,5,1500,1200",
		"AAPL,APPLE INC,5,500,450",
	}, "\n")

	holdings, err := ParseCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseCSV returned error: %v", err)
	}
	if len(holdings) != 2 {
		t.Fatalf("expected 2 consolidated holdings, got %d", len(holdings))
	}

	aapl := holdings[0]
	if aapl.Symbol != "AAPL" {
		t.Fatalf("expected first-seen order to keep AAPL first, got %s", aapl.Symbol)
	}
	if aapl.Quantity == nil || *aapl.Quantity != 15 {
		t.Errorf("expected merged quantity 15, got %v", aapl.Quantity)
	}
	if aapl.CurrentValue != 1500 {
		t.Errorf("expected merged value 1500, got %f", aapl.CurrentValue)
	}
	if aapl.CostBasis == nil || *aapl.CostBasis != 1350 {
		t.Errorf("expected merged cost basis 1350, got %v", aapl.CostBasis)
	}

	pctSum := 0.0
	for _, h := range holdings {
		if h.PctOfAccount == nil {
			t.Fatalf("%s missing pctOfAccount", h.Symbol)
		}
		pctSum += *h.PctOfAccount
	}
	if !approxEqual(pctSum, 100, 0.1) {
		t.Errorf("pctOfAccount should sum to ~100, got %f", pctSum)
	}
}

func TestParseCSVPctOfAccountSums(t *testing.T) {
	input := strings.Join([]string{
		"Symbol,Current Value",
		"AAA,333.33",
		"BBB,333.33",
		"CCC,333.34",
	}, "\n")

	holdings, err := ParseCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseCSV returned error: %v", err)
	}

	pctSum := 0.0
	for _, h := range holdings {
		pctSum += *h.PctOfAccount
	}
	if !approxEqual(pctSum, 100, 0.1) {
		t.Errorf("pctOfAccount should sum to ~100, got %f", pctSum)
	}
}

func TestParseCSVWindows1252(t *testing.T) {
	// 0x96 is an en dash in Windows-1252 and invalid as a lone UTF-8 byte.
	raw := []byte("Symbol,Description,Current Value\nKO,Coca\x96Cola,100\n")

	holdings, err := ParseCSV(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("ParseCSV returned error: %v", err)
	}
	if len(holdings) != 1 {
		t.Fatalf("expected 1 holding, got %d", len(holdings))
	}
	if holdings[0].Symbol != "KO" {
		t.Errorf("expected KO, got %s", holdings[0].Symbol)
	}
	if !strings.Contains(holdings[0].Name, "Coca") {
		t.Errorf("name lost in decoding: %q", holdings[0].Name)
	}
}

func TestParseCSVUTF8BOM(t *testing.T) {
	raw := append([]byte{0xEF, 0xBB, 0xBF}, []byte("Symbol,Current Value\nAMD,500\n")...)

	holdings, err := ParseCSV(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("ParseCSV returned error: %v", err)
	}
	if len(holdings) != 1 || holdings[0].Symbol != "AMD" {
		t.Fatalf("BOM broke header resolution: %+v", holdings)
	}
}

func TestParseCSVEmptyAndHeaderless(t *testing.T) {
	holdings, err := ParseCSV(strings.NewReader(""))
	if err != nil {
		t.Fatalf("ParseCSV returned error on empty input: %v", err)
	}
	if len(holdings) != 0 {
		t.Errorf("expected no holdings from empty input, got %d", len(holdings))
	}

	holdings, err = ParseCSV(strings.NewReader("Foo,Bar\n1,2\n"))
	if err != nil {
		t.Fatalf("ParseCSV returned error on headerless input: %v", err)
	}
	if len(holdings) != 0 {
		t.Errorf("expected no holdings without a symbol column, got %d", len(holdings))
	}
}

func TestConsolidateIdempotent(t *testing.T) {
	input := strings.Join([]string{
		"Symbol,Quantity,Current Value",
		"AAPL,10,1000",
		"AAPL,5,500",
		"MSFT,2,800",
	}, "\n")

	holdings, err := ParseCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseCSV returned error: %v", err)
	}

	again := consolidate(holdings)
	if len(again) != len(holdings) {
		t.Fatalf("second consolidation changed count: %d vs %d", len(again), len(holdings))
	}
	for i := range again {
		if again[i].Symbol != holdings[i].Symbol || again[i].CurrentValue != holdings[i].CurrentValue {
			t.Errorf("second consolidation changed %s", holdings[i].Symbol)
		}
	}
}
