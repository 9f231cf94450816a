package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}

	if config.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", config.Server.Port)
	}
	if config.Cache.Store != "memory" {
		t.Errorf("expected default cache store memory, got %q", config.Cache.Store)
	}
	if config.Analysis.StockConcentrationPct != 15 {
		t.Errorf("expected stock concentration 15, got %f", config.Analysis.StockConcentrationPct)
	}
	if config.Analysis.TaxRate != 0.24 {
		t.Errorf("expected tax rate 0.24, got %f", config.Analysis.TaxRate)
	}
}

func TestLoadConfigFileOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "folio.toml")
	content := `
environment = "production"

[server]
port = 9000

[analysis]
tax_loss_min_dollar = 250.0
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}

	if config.Server.Port != 9000 {
		t.Errorf("expected overridden port 9000, got %d", config.Server.Port)
	}
	if config.Analysis.TaxLossMinDollar != 250 {
		t.Errorf("expected overridden floor 250, got %f", config.Analysis.TaxLossMinDollar)
	}
	// Untouched keys keep their defaults.
	if config.Analysis.TaxLossMinPct != 5 {
		t.Errorf("expected default pct floor 5, got %f", config.Analysis.TaxLossMinPct)
	}
	if !config.IsProduction() {
		t.Error("expected production environment")
	}
}

func TestLoadConfigMissingFileSkipped(t *testing.T) {
	config, err := LoadConfig("/nonexistent/folio.toml")
	if err != nil {
		t.Fatalf("missing config file should be skipped, got error: %v", err)
	}
	if config.Server.Port != 8080 {
		t.Errorf("expected defaults, got port %d", config.Server.Port)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("FOLIO_PORT", "9090")
	t.Setenv("FOLIO_CACHE_STORE", "badger")

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if config.Server.Port != 9090 {
		t.Errorf("expected env port 9090, got %d", config.Server.Port)
	}
	if config.Cache.Store != "badger" {
		t.Errorf("expected env cache store badger, got %q", config.Cache.Store)
	}
}

func TestResolveAPIKey(t *testing.T) {
	t.Setenv("YAHOO_API_KEY", "from-env")

	key, err := ResolveAPIKey("yahoo_api_key", "from-config")
	if err != nil {
		t.Fatalf("ResolveAPIKey returned error: %v", err)
	}
	if key != "from-env" {
		t.Errorf("environment should win, got %q", key)
	}

	key, err = ResolveAPIKey("unmapped_key", "fallback")
	if err != nil {
		t.Fatalf("ResolveAPIKey returned error: %v", err)
	}
	if key != "fallback" {
		t.Errorf("expected config fallback, got %q", key)
	}

	if _, err := ResolveAPIKey("unmapped_key", ""); err == nil {
		t.Error("expected error when no key is available")
	}
}

func TestTimeoutParsing(t *testing.T) {
	yahoo := YahooConfig{Timeout: "5s"}
	if got := yahoo.GetTimeout(); got != 5*time.Second {
		t.Errorf("expected 5s, got %v", got)
	}

	yahoo.Timeout = "bogus"
	if got := yahoo.GetTimeout(); got != 30*time.Second {
		t.Errorf("expected 30s default on parse failure, got %v", got)
	}

	analysis := AnalysisConfig{EnrichTaskTimeout: "2s", EnrichBatchTimeout: "", OpportunityTimeout: "1m"}
	if got := analysis.GetEnrichTaskTimeout(); got != 2*time.Second {
		t.Errorf("expected 2s, got %v", got)
	}
	if got := analysis.GetEnrichBatchTimeout(); got != 45*time.Second {
		t.Errorf("expected 45s default, got %v", got)
	}
	if got := analysis.GetOpportunityTimeout(); got != time.Minute {
		t.Errorf("expected 1m, got %v", got)
	}
}
