// Package collector orchestrates per-symbol collection: primary profile
// fetch, best-effort scrape supplement, merge, and independent persistence
// of each record kind.
package collector

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/bhilarepratham/strategic-company-analyzer/internal/dataflows"
	"github.com/bhilarepratham/strategic-company-analyzer/models"
)

// PrimarySource is the canonical profile provider.
type PrimarySource interface {
	FetchProfile(ctx context.Context, symbol string) (*models.CompanyProfile, error)
	FetchHistory(ctx context.Context, symbol, period string) ([]models.PriceHistoryRecord, error)
	FetchExecutives(ctx context.Context, symbol string) ([]models.Executive, error)
	FetchRatios(ctx context.Context, symbol string) (*models.FinancialRatios, error)
}

// SupplementSource fills gaps the primary source left empty. It is
// best-effort: an empty map is a valid answer.
type SupplementSource interface {
	FetchSupplement(ctx context.Context, symbol string) map[string]float64
}

// Store persists the four record kinds independently.
type Store interface {
	UpsertCompany(p *models.CompanyProfile) error
	ReplaceHistory(symbol string, records []models.PriceHistoryRecord) error
	ReplaceExecutives(symbol string, executives []models.Executive) error
	ReplaceRatios(symbol string, ratios *models.FinancialRatios) error
}

// Status classifies a per-symbol collection outcome.
type Status string

const (
	// StatusCollected means the profile was stored; enrichments may still
	// be partially missing.
	StatusCollected Status = "collected"
	// StatusUnavailable means the provider had no usable profile.
	StatusUnavailable Status = "unavailable"
	// StatusFailed means collection errored, e.g. the profile write failed.
	StatusFailed Status = "failed"
)

// Outcome is the result of collecting one symbol.
type Outcome struct {
	Symbol  string
	Status  Status
	Profile *models.CompanyProfile
	Err     error
}

// BatchResult aggregates a CollectMany run.
type BatchResult struct {
	Succeeded     int
	Failed        int
	FailedSymbols []string
	Outcomes      []Outcome
}

// ProgressFunc is invoked after each symbol with the 1-based index, the
// batch total, and the running success/failure counts.
type ProgressFunc func(index, total int, symbol string, succeeded, failed int)

type Option func(*Collector)

// WithPacing overrides the delay between successive symbols in a batch.
func WithPacing(delay time.Duration) Option {
	return func(c *Collector) { c.delay = delay }
}

// WithPeriod overrides the history period requested per symbol.
func WithPeriod(period string) Option {
	return func(c *Collector) { c.period = period }
}

// Collector runs the collection pipeline. All collaborators are injected;
// it holds no process-wide state.
type Collector struct {
	primary    PrimarySource
	supplement SupplementSource
	store      Store
	logger     *zap.SugaredLogger
	delay      time.Duration
	period     string
}

func New(primary PrimarySource, supplement SupplementSource, store Store, logger *zap.SugaredLogger, opts ...Option) *Collector {
	c := &Collector{
		primary:    primary,
		supplement: supplement,
		store:      store,
		logger:     logger,
		delay:      500 * time.Millisecond,
		period:     "1y",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Collect runs the pipeline for one symbol. The profile write decides
// success; executives, ratios and history are enrichments whose failures
// are logged and skipped.
func (c *Collector) Collect(ctx context.Context, symbol string) Outcome {
	symbol = dataflows.NormalizeSymbol(symbol)
	c.logger.Infow("collecting", "symbol", symbol)

	profile, err := c.primary.FetchProfile(ctx, symbol)
	if err != nil {
		if errors.Is(err, dataflows.ErrUnavailable) {
			c.logger.Infow("no usable data", "symbol", symbol)
			return Outcome{Symbol: symbol, Status: StatusUnavailable, Err: err}
		}
		return Outcome{Symbol: symbol, Status: StatusFailed, Err: err}
	}

	supplement := c.supplement.FetchSupplement(ctx, symbol)
	applySupplement(profile, supplement)

	if err := c.store.UpsertCompany(profile); err != nil {
		c.logger.Errorw("profile write failed", "symbol", symbol, "error", err)
		return Outcome{Symbol: symbol, Status: StatusFailed, Err: err}
	}

	c.collectEnrichments(ctx, symbol)

	return Outcome{Symbol: symbol, Status: StatusCollected, Profile: profile}
}

// collectEnrichments fetches and stores executives, ratios and history.
// Each is independent: a failure is logged and the others proceed.
func (c *Collector) collectEnrichments(ctx context.Context, symbol string) {
	if executives, err := c.primary.FetchExecutives(ctx, symbol); err != nil {
		c.logger.Warnw("executives skipped", "symbol", symbol, "error", err)
	} else if err := c.store.ReplaceExecutives(symbol, executives); err != nil {
		c.logger.Warnw("executives write failed", "symbol", symbol, "error", err)
	}

	if ratios, err := c.primary.FetchRatios(ctx, symbol); err != nil {
		c.logger.Warnw("ratios skipped", "symbol", symbol, "error", err)
	} else if err := c.store.ReplaceRatios(symbol, ratios); err != nil {
		c.logger.Warnw("ratios write failed", "symbol", symbol, "error", err)
	}

	if records, err := c.primary.FetchHistory(ctx, symbol, c.period); err != nil {
		c.logger.Warnw("history skipped", "symbol", symbol, "error", err)
	} else if err := c.store.ReplaceHistory(symbol, records); err != nil {
		c.logger.Warnw("history write failed", "symbol", symbol, "error", err)
	}
}

// applySupplement overwrites a profile field with a scraped value only
// when the scraped value is present and the primary field still carries
// its unset sentinel. Affirmatively collected primary values always win.
func applySupplement(profile *models.CompanyProfile, supplement map[string]float64) {
	for key, value := range supplement {
		if value <= 0 {
			continue
		}
		switch key {
		case dataflows.SupplementPrice:
			if profile.CurrentPrice == 0 {
				profile.CurrentPrice = value
			}
		case dataflows.SupplementMarketCap:
			if profile.MarketCap == 0 {
				profile.MarketCap = value
			}
		}
	}
}

// CollectMany processes symbols sequentially in input order with a pacing
// delay between requests. A cancelled context stops the batch between
// iterations; symbols not reached are counted as failed.
func (c *Collector) CollectMany(ctx context.Context, symbols []string, progress ProgressFunc) BatchResult {
	var result BatchResult
	total := len(symbols)

	for i, symbol := range symbols {
		if i > 0 && c.delay > 0 {
			select {
			case <-ctx.Done():
			case <-time.After(c.delay):
			}
		}
		if err := ctx.Err(); err != nil {
			for _, remaining := range symbols[i:] {
				remaining = dataflows.NormalizeSymbol(remaining)
				result.Failed++
				result.FailedSymbols = append(result.FailedSymbols, remaining)
				result.Outcomes = append(result.Outcomes, Outcome{Symbol: remaining, Status: StatusFailed, Err: err})
			}
			break
		}

		outcome := c.Collect(ctx, symbol)
		result.Outcomes = append(result.Outcomes, outcome)
		if outcome.Status == StatusCollected {
			result.Succeeded++
		} else {
			result.Failed++
			result.FailedSymbols = append(result.FailedSymbols, outcome.Symbol)
		}

		if progress != nil {
			progress(i+1, total, outcome.Symbol, result.Succeeded, result.Failed)
		}
	}

	c.logger.Infow("batch finished", "total", total, "succeeded", result.Succeeded, "failed", result.Failed)
	return result
}
