package config

import (
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.RateLimitDelay != 500*time.Millisecond {
		t.Errorf("RateLimitDelay = %v", cfg.RateLimitDelay)
	}
	if cfg.ScrapeTimeout != 5*time.Second {
		t.Errorf("ScrapeTimeout = %v", cfg.ScrapeTimeout)
	}
	if cfg.StockPeriod != "1y" {
		t.Errorf("StockPeriod = %q", cfg.StockPeriod)
	}
	if cfg.MaxExecutives != 5 {
		t.Errorf("MaxExecutives = %d", cfg.MaxExecutives)
	}
}

func TestEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DATA_DIR", dir)
	t.Setenv("RATE_LIMIT_DELAY", "2s")
	t.Setenv("MAX_EXECUTIVES", "3")
	t.Setenv("ANALYZER_DEBUG", "true")

	cfg := DefaultConfig()

	if cfg.DataDir != dir {
		t.Errorf("DataDir = %q", cfg.DataDir)
	}
	if cfg.DatabasePath != filepath.Join(dir, "company_data.db") {
		t.Errorf("DatabasePath = %q", cfg.DatabasePath)
	}
	if cfg.RateLimitDelay != 2*time.Second {
		t.Errorf("RateLimitDelay = %v", cfg.RateLimitDelay)
	}
	if cfg.MaxExecutives != 3 {
		t.Errorf("MaxExecutives = %d", cfg.MaxExecutives)
	}
	if !cfg.Debug {
		t.Error("Debug not enabled")
	}
}

func TestEnvOverridesIgnoreInvalidValues(t *testing.T) {
	t.Setenv("MAX_EXECUTIVES", "-1")
	t.Setenv("RATE_LIMIT_DELAY", "soon")

	cfg := DefaultConfig()

	if cfg.MaxExecutives != 5 {
		t.Errorf("MaxExecutives = %d", cfg.MaxExecutives)
	}
	if cfg.RateLimitDelay != 500*time.Millisecond {
		t.Errorf("RateLimitDelay = %v", cfg.RateLimitDelay)
	}
}

func TestIndustries(t *testing.T) {
	industries := Industries()
	if len(industries) == 0 {
		t.Fatal("no industries")
	}
	for i := 1; i < len(industries); i++ {
		if industries[i-1] >= industries[i] {
			t.Fatalf("industries not sorted: %v", industries)
		}
	}

	if got := IndustrySymbols("  Technology "); len(got) != 10 {
		t.Errorf("technology universe = %v", got)
	}
	if got := IndustrySymbols("nope"); got != nil {
		t.Errorf("unknown industry = %v", got)
	}
}
