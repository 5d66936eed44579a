package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DataDir      string `json:"data_dir"`
	DataCacheDir string `json:"data_cache_dir"`
	DatabasePath string `json:"database_path"`

	CacheEnabled bool `json:"cache_enabled"`

	// RateLimitDelay is the minimum pause between symbols in a batch.
	RateLimitDelay time.Duration `json:"rate_limit_delay"`
	// RequestTimeout bounds primary-source HTTP calls.
	RequestTimeout time.Duration `json:"request_timeout"`
	// ScrapeTimeout bounds the best-effort quote page scrape.
	ScrapeTimeout time.Duration `json:"scrape_timeout"`

	StockPeriod   string `json:"stock_period"`
	MaxExecutives int    `json:"max_executives"`
	UserAgent     string `json:"user_agent"`
	Debug         bool   `json:"debug"`
}

func DefaultConfig() *Config {
	currentDir, _ := os.Getwd()

	cfg := &Config{
		DataDir:      filepath.Join(currentDir, "data"),
		DataCacheDir: filepath.Join(currentDir, "data", "cache"),
		DatabasePath: filepath.Join(currentDir, "data", "company_data.db"),

		CacheEnabled: true,

		RateLimitDelay: 500 * time.Millisecond,
		RequestTimeout: 10 * time.Second,
		ScrapeTimeout:  5 * time.Second,

		StockPeriod:   "1y",
		MaxExecutives: 5,
		UserAgent:     "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
		Debug:         false,
	}

	// Load environment variables from .env file
	_ = godotenv.Load()

	cfg.loadFromEnv()

	return cfg
}

func (c *Config) loadFromEnv() {
	if val := os.Getenv("DATA_DIR"); val != "" {
		c.DataDir = val
		c.DataCacheDir = filepath.Join(val, "cache")
		c.DatabasePath = filepath.Join(val, "company_data.db")
	}
	if val := os.Getenv("DATA_CACHE_DIR"); val != "" {
		c.DataCacheDir = val
	}
	if val := os.Getenv("DATABASE_PATH"); val != "" {
		c.DatabasePath = val
	}

	if val := os.Getenv("CACHE_ENABLED"); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			c.CacheEnabled = enabled
		}
	}

	if val := os.Getenv("RATE_LIMIT_DELAY"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			c.RateLimitDelay = d
		}
	}
	if val := os.Getenv("REQUEST_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			c.RequestTimeout = d
		}
	}
	if val := os.Getenv("SCRAPE_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			c.ScrapeTimeout = d
		}
	}

	if val := os.Getenv("STOCK_PERIOD"); val != "" {
		c.StockPeriod = val
	}
	if val := os.Getenv("MAX_EXECUTIVES"); val != "" {
		if n, err := strconv.Atoi(val); err == nil && n > 0 {
			c.MaxExecutives = n
		}
	}
	if val := os.Getenv("SCRAPER_USER_AGENT"); val != "" {
		c.UserAgent = val
	}

	if val := os.Getenv("ANALYZER_DEBUG"); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			c.Debug = enabled
		}
	}
}

func (c *Config) EnsureDirectories() error {
	dirs := []string{c.DataDir, c.DataCacheDir, filepath.Dir(c.DatabasePath)}
	for _, dir := range dirs {
		path := strings.TrimSpace(dir)
		if path == "" {
			continue
		}
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", path, err)
		}
	}
	return nil
}

// supportedIndustries maps an industry key to a curated symbol universe.
// These are starting points for batch collection, not an exhaustive list.
var supportedIndustries = map[string][]string{
	"technology": {"AAPL", "MSFT", "GOOGL", "AMZN", "META", "TSLA", "NFLX", "NVDA", "ORCL", "CRM"},
	"finance":    {"JPM", "BAC", "WFC", "GS", "MS", "C", "AXP", "BLK", "SCHW", "USB"},
	"healthcare": {"JNJ", "PFE", "UNH", "ABT", "TMO", "MRK", "CVS", "DHR", "BMY", "MDT"},
	"retail":     {"WMT", "HD", "COST", "TGT", "LOW", "TJX", "SBUX", "NKE", "MCD", "DIS"},
	"energy":     {"XOM", "CVX", "COP", "EOG", "SLB", "PSX", "VLO", "MPC", "OXY", "KMI"},
	"automotive": {"TSLA", "F", "GM", "RIVN", "LCID", "NIO", "XPEV", "LI", "HMC", "TM"},
}

// Industries returns the supported industry keys in stable order.
func Industries() []string {
	keys := make([]string, 0, len(supportedIndustries))
	for k := range supportedIndustries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// IndustrySymbols returns the symbol universe for an industry key, or nil
// when the industry is unknown.
func IndustrySymbols(industry string) []string {
	return supportedIndustries[strings.ToLower(strings.TrimSpace(industry))]
}
