package dataflows

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/bhilarepratham/strategic-company-analyzer/config"
	"github.com/bhilarepratham/strategic-company-analyzer/internal/normalize"
)

const quotePageURL = "https://finance.yahoo.com/quote/%s"

// Supplement field keys returned by the scraper.
const (
	SupplementPrice     = "current_price"
	SupplementMarketCap = "market_cap"
)

// QuoteScraper is the best-effort secondary source: it scrapes the public
// quote page for at most two fields. Markup changes make it silently
// return nothing; it never errors.
type QuoteScraper struct {
	client  *resty.Client
	logger  *zap.SugaredLogger
	pageURL string
}

// NewQuoteScraper creates a new quote page scraper
func NewQuoteScraper(cfg *config.Config, logger *zap.SugaredLogger) *QuoteScraper {
	client := resty.New()
	client.SetTimeout(cfg.ScrapeTimeout)
	client.SetHeader("User-Agent", cfg.UserAgent)

	return &QuoteScraper{
		client:  client,
		logger:  logger,
		pageURL: quotePageURL,
	}
}

// FetchSupplement fetches the quote page and extracts current price and
// market cap. Each extraction is guarded independently; any failure just
// leaves its field out of the returned map.
func (s *QuoteScraper) FetchSupplement(ctx context.Context, symbol string) map[string]float64 {
	symbol = NormalizeSymbol(symbol)
	supplement := make(map[string]float64)

	resp, err := s.client.R().
		SetContext(ctx).
		Get(fmt.Sprintf(s.pageURL, symbol))
	if err != nil {
		s.logger.Debugw("quote page fetch skipped", "symbol", symbol, "error", err)
		return supplement
	}
	if resp.StatusCode() != http.StatusOK {
		s.logger.Debugw("quote page fetch skipped", "symbol", symbol, "status", resp.StatusCode())
		return supplement
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(resp.String()))
	if err != nil {
		s.logger.Debugw("quote page parse failed", "symbol", symbol, "error", err)
		return supplement
	}

	if price, ok := extractPrice(doc); ok {
		supplement[SupplementPrice] = price
	}
	if marketCap, ok := extractMarketCap(doc); ok {
		supplement[SupplementMarketCap] = marketCap
	}

	if len(supplement) > 0 {
		s.logger.Debugw("scraped supplement fields", "symbol", symbol, "fields", len(supplement))
	}

	return supplement
}

// extractPrice pulls the regular market price streamer element.
func extractPrice(doc *goquery.Document) (float64, bool) {
	sel := doc.Find(`fin-streamer[data-field="regularMarketPrice"]`).First()

	text := strings.TrimSpace(sel.Text())
	if text == "" {
		// Newer markup carries the number in the data-value attribute.
		text, _ = sel.Attr("data-value")
	}
	if text == "" {
		return 0, false
	}

	price, err := strconv.ParseFloat(strings.ReplaceAll(text, ",", ""), 64)
	if err != nil || price <= 0 {
		return 0, false
	}
	return price, true
}

// extractMarketCap pulls the market cap summary cell and parses its
// suffixed value ("2.5T", "150.3B", ...).
func extractMarketCap(doc *goquery.Document) (float64, bool) {
	var marketCap float64
	doc.Find(`td[data-test="MARKET_CAP-value"]`).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := strings.TrimSpace(sel.Text())
		if text == "" {
			return true
		}
		marketCap = normalize.ParseMarketValue(text)
		return marketCap == 0
	})
	return marketCap, marketCap > 0
}
