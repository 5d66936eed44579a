package dataflows

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	finance "github.com/piquette/finance-go"
	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"github.com/piquette/finance-go/quote"
	"go.uber.org/zap"

	"github.com/bhilarepratham/strategic-company-analyzer/config"
	"github.com/bhilarepratham/strategic-company-analyzer/internal/normalize"
	"github.com/bhilarepratham/strategic-company-analyzer/models"
)

// ErrUnavailable is returned when the provider has no usable profile for a
// symbol: either no data at all or fewer populated fields than the sparse-
// data heuristic tolerates.
var ErrUnavailable = errors.New("company data unavailable")

const (
	quoteSummaryURL     = "https://query1.finance.yahoo.com/v10/finance/quoteSummary/%s"
	quoteSummaryModules = "assetProfile,summaryDetail,defaultKeyStatistics,financialData,price"

	// minProfileFields is the sparse-data threshold: a field bag with fewer
	// populated entries is treated as unavailable rather than normalized.
	minProfileFields = 5
)

// moduleOrder fixes the flattening order so overlapping keys resolve
// deterministically (later modules win).
var moduleOrder = []string{"assetProfile", "summaryDetail", "defaultKeyStatistics", "financialData", "price"}

// YahooClient fetches company profiles, price history, executives and
// financial ratios from Yahoo Finance. Degraded results come back as
// explicit errors alongside the documented empty/zero values; nothing
// panics past this boundary.
type YahooClient struct {
	client        *resty.Client
	cache         *CacheManager
	logger        *zap.SugaredLogger
	maxExecutives int
	summaryURL    string
	fetchBars     func(symbol string, start, end time.Time) ([]*finance.ChartBar, error)
}

// NewYahooClient creates a new Yahoo Finance client
func NewYahooClient(cfg *config.Config, logger *zap.SugaredLogger) *YahooClient {
	cacheDir := filepath.Join(cfg.DataCacheDir, "yahoo_finance")
	cache := NewCacheManager(cacheDir, 1*time.Hour, cfg.CacheEnabled)

	client := resty.New()
	client.SetTimeout(cfg.RequestTimeout)
	client.SetHeader("User-Agent", cfg.UserAgent)

	return &YahooClient{
		client:        client,
		cache:         cache,
		logger:        logger,
		maxExecutives: cfg.MaxExecutives,
		summaryURL:    quoteSummaryURL,
		fetchBars:     fetchChartBars,
	}
}

// fetchChartBars drains the chart iterator for a symbol's daily bars.
func fetchChartBars(symbol string, start, end time.Time) ([]*finance.ChartBar, error) {
	params := &chart.Params{
		Symbol:   symbol,
		Start:    datetime.New(&start),
		End:      datetime.New(&end),
		Interval: datetime.OneDay,
	}

	iter := chart.Get(params)
	bars := make([]*finance.ChartBar, 0)
	for iter.Next() {
		bars = append(bars, iter.Bar())
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return bars, nil
}

type quoteSummaryEnvelope struct {
	QuoteSummary struct {
		Result []map[string]any `json:"result"`
		Error  *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

// FetchProfile returns the normalized company profile for a symbol, or
// ErrUnavailable when the provider has no usable data.
func (c *YahooClient) FetchProfile(ctx context.Context, symbol string) (*models.CompanyProfile, error) {
	symbol = NormalizeSymbol(symbol)

	bag, err := c.fetchFieldBag(ctx, symbol)
	if err != nil {
		// Transport faults and missing data both surface as unavailable;
		// the batch outcome does not distinguish them for fetch-phase errors.
		c.logger.Warnw("profile fetch failed", "symbol", symbol, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if n := populatedFields(bag); n < minProfileFields {
		c.logger.Infow("sparse provider data", "symbol", symbol, "populated_fields", n)
		return nil, ErrUnavailable
	}

	profile := &models.CompanyProfile{
		Symbol:          symbol,
		Name:            normalize.String(bag, "longName", normalize.String(bag, "shortName", symbol)),
		Sector:          normalize.String(bag, "sector", "unknown"),
		Industry:        normalize.String(bag, "industry", "unknown"),
		MarketCap:       normalize.Number(bag, "marketCap", 0),
		EnterpriseValue: normalize.Number(bag, "enterpriseValue", 0),
		Revenue:         normalize.Number(bag, "totalRevenue", 0),
		Employees:       normalize.Int(bag, "fullTimeEmployees", 0),
		Headquarters: normalize.Location(
			normalize.String(bag, "city", ""),
			normalize.String(bag, "state", ""),
			normalize.String(bag, "country", ""),
		),
		Website:       normalize.String(bag, "website", "N/A"),
		Description:   normalize.Description(bag),
		CurrentPrice:  normalize.Number(bag, "currentPrice", 0),
		PreviousClose: normalize.Number(bag, "previousClose", 0),
		Volume:        normalize.Int(bag, "volume", 0),
		AvgVolume:     normalize.Int(bag, "averageVolume", 0),
		PERatio:       normalize.Number(bag, "trailingPE", 0),
		PBRatio:       normalize.Number(bag, "priceToBook", 0),
		DividendYield: normalize.Number(bag, "dividendYield", 0),
		LastUpdated:   time.Now(),
	}

	c.applyQuote(profile)

	return profile, nil
}

// applyQuote fills price fields the summary left empty from the realtime
// quote endpoint. Quote failures are logged and ignored.
func (c *YahooClient) applyQuote(p *models.CompanyProfile) {
	if p.CurrentPrice != 0 && p.PreviousClose != 0 && p.Volume != 0 && p.AvgVolume != 0 {
		return
	}

	q, err := quote.Get(p.Symbol)
	if err != nil || q == nil {
		c.logger.Debugw("quote fetch skipped", "symbol", p.Symbol, "error", err)
		return
	}

	if p.CurrentPrice == 0 {
		p.CurrentPrice = q.RegularMarketPrice
	}
	if p.PreviousClose == 0 {
		p.PreviousClose = q.RegularMarketPreviousClose
	}
	if p.Volume == 0 {
		p.Volume = int64(q.RegularMarketVolume)
	}
	if p.AvgVolume == 0 {
		p.AvgVolume = int64(q.AverageDailyVolume3Month)
	}
}

// FetchHistory returns daily OHLCV records for the requested period,
// oldest first. An empty slice with an error means the fetch failed; an
// empty slice without one means the symbol has no history.
func (c *YahooClient) FetchHistory(ctx context.Context, symbol, period string) ([]models.PriceHistoryRecord, error) {
	symbol = NormalizeSymbol(symbol)

	end := time.Now()
	start := periodStart(period, end)

	bars, err := c.fetchBars(symbol, start, end)
	if err != nil {
		c.logger.Warnw("history fetch failed", "symbol", symbol, "period", period, "error", err)
		return nil, fmt.Errorf("fetch history for %s: %w", symbol, err)
	}

	records := make([]models.PriceHistoryRecord, 0, len(bars))
	for _, bar := range bars {
		records = append(records, barRecord(symbol, bar))
	}
	return records, nil
}

// barRecord converts a daily chart bar into a history record.
func barRecord(symbol string, bar *finance.ChartBar) models.PriceHistoryRecord {
	return models.PriceHistoryRecord{
		Symbol: symbol,
		Date:   time.Unix(int64(bar.Timestamp), 0).UTC(),
		Open:   bar.Open.InexactFloat64(),
		High:   bar.High.InexactFloat64(),
		Low:    bar.Low.InexactFloat64(),
		Close:  bar.Close.InexactFloat64(),
		Volume: int64(bar.Volume),
	}
}

// FetchExecutives returns up to maxExecutives listed officers for a symbol.
func (c *YahooClient) FetchExecutives(ctx context.Context, symbol string) ([]models.Executive, error) {
	symbol = NormalizeSymbol(symbol)

	bag, err := c.fetchFieldBag(ctx, symbol)
	if err != nil {
		c.logger.Warnw("executives fetch failed", "symbol", symbol, "error", err)
		return nil, fmt.Errorf("fetch executives for %s: %w", symbol, err)
	}

	officers, _ := bag["companyOfficers"].([]any)
	execs := make([]models.Executive, 0, c.maxExecutives)
	for _, o := range officers {
		if len(execs) >= c.maxExecutives {
			break
		}
		m, ok := o.(map[string]any)
		if !ok {
			continue
		}
		execs = append(execs, models.Executive{
			Name:     normalize.String(m, "name", "N/A"),
			Title:    normalize.String(m, "title", "N/A"),
			Age:      normalize.Int(m, "age", 0),
			TotalPay: normalize.Number(m, "totalPay", 0),
		})
	}

	return execs, nil
}

// FetchRatios returns the latest financial ratio snapshot. The returned
// value is never nil; on failure it carries all-zero ratios plus the error.
func (c *YahooClient) FetchRatios(ctx context.Context, symbol string) (*models.FinancialRatios, error) {
	symbol = NormalizeSymbol(symbol)
	ratios := &models.FinancialRatios{Symbol: symbol}

	bag, err := c.fetchFieldBag(ctx, symbol)
	if err != nil {
		c.logger.Warnw("ratios fetch failed", "symbol", symbol, "error", err)
		return ratios, fmt.Errorf("fetch ratios for %s: %w", symbol, err)
	}

	ratios.PERatio = normalize.Number(bag, "trailingPE", 0)
	ratios.ForwardPE = normalize.Number(bag, "forwardPE", 0)
	ratios.PEGRatio = normalize.Number(bag, "pegRatio", 0)
	ratios.PriceToSales = normalize.Number(bag, "priceToSalesTrailing12Months", 0)
	ratios.PriceToBook = normalize.Number(bag, "priceToBook", 0)
	ratios.DebtToEquity = normalize.Number(bag, "debtToEquity", 0)
	ratios.ReturnOnEquity = normalize.Number(bag, "returnOnEquity", 0)
	ratios.ReturnOnAssets = normalize.Number(bag, "returnOnAssets", 0)
	ratios.ProfitMargin = normalize.Number(bag, "profitMargins", 0)
	ratios.OperatingMargin = normalize.Number(bag, "operatingMargins", 0)
	ratios.CurrentRatio = normalize.Number(bag, "currentRatio", 0)
	ratios.QuickRatio = normalize.Number(bag, "quickRatio", 0)

	return ratios, nil
}

// fetchFieldBag fetches the quoteSummary modules for a symbol and flattens
// them into a single loosely-typed field bag, caching the result.
func (c *YahooClient) fetchFieldBag(ctx context.Context, symbol string) (map[string]any, error) {
	var cached map[string]any
	if c.cache.Get("yahoo", "summary", symbol, &cached) {
		return cached, nil
	}

	var envelope quoteSummaryEnvelope
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("modules", quoteSummaryModules).
		SetResult(&envelope).
		Get(fmt.Sprintf(c.summaryURL, url.PathEscape(symbol)))
	if err != nil {
		return nil, fmt.Errorf("fetch summary for %s: %w", symbol, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d fetching summary for %s", resp.StatusCode(), symbol)
	}
	if e := envelope.QuoteSummary.Error; e != nil {
		return nil, fmt.Errorf("provider error for %s: %s", symbol, e.Description)
	}
	if len(envelope.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("no summary data for %s", symbol)
	}

	bag := flattenModules(envelope.QuoteSummary.Result[0])

	c.cache.Set("yahoo", "summary", symbol, bag)

	return bag, nil
}

// flattenModules merges the per-module maps into one bag, mirroring the
// flat field dictionary the rest of the pipeline normalizes against.
func flattenModules(modules map[string]any) map[string]any {
	bag := make(map[string]any)
	for _, name := range moduleOrder {
		mod, ok := modules[name].(map[string]any)
		if !ok {
			continue
		}
		for k, v := range mod {
			bag[k] = v
		}
	}
	return bag
}

// populatedFields counts bag entries carrying an actual value.
func populatedFields(bag map[string]any) int {
	n := 0
	for _, v := range bag {
		switch val := v.(type) {
		case nil:
			continue
		case string:
			if strings.TrimSpace(val) == "" {
				continue
			}
		case map[string]any:
			if len(val) == 0 {
				continue
			}
		case []any:
			if len(val) == 0 {
				continue
			}
		}
		n++
	}
	return n
}

// periodStart maps a yfinance-style period string to a start time.
func periodStart(period string, now time.Time) time.Time {
	switch strings.ToLower(strings.TrimSpace(period)) {
	case "1mo":
		return now.AddDate(0, -1, 0)
	case "3mo":
		return now.AddDate(0, -3, 0)
	case "6mo":
		return now.AddDate(0, -6, 0)
	case "2y":
		return now.AddDate(-2, 0, 0)
	case "5y":
		return now.AddDate(-5, 0, 0)
	case "max":
		return now.AddDate(-30, 0, 0)
	default: // "1y" and anything unrecognized
		return now.AddDate(-1, 0, 0)
	}
}
