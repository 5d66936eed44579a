package storage

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/bhilarepratham/strategic-company-analyzer/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "test.db"), zap.NewNop().Sugar())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleProfile(symbol string, marketCap float64) *models.CompanyProfile {
	return &models.CompanyProfile{
		Symbol:       symbol,
		Name:         symbol + " Inc.",
		Sector:       "Technology",
		Industry:     "Software",
		MarketCap:    marketCap,
		Employees:    1000,
		Headquarters: "Austin, USA",
		Website:      "https://example.com",
		Description:  "A company.",
		CurrentPrice: 10,
		LastUpdated:  time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC),
	}
}

func TestUpsertCompanyIdempotent(t *testing.T) {
	store := newTestStore(t)

	first := sampleProfile("AAPL", 1e12)
	if err := store.UpsertCompany(first); err != nil {
		t.Fatalf("UpsertCompany: %v", err)
	}

	second := sampleProfile("AAPL", 2e12)
	second.Name = "Apple Inc."
	if err := store.UpsertCompany(second); err != nil {
		t.Fatalf("UpsertCompany replay: %v", err)
	}

	count, err := store.CompanyCount()
	if err != nil {
		t.Fatalf("CompanyCount: %v", err)
	}
	if count != 1 {
		t.Fatalf("count = %d, want 1", count)
	}

	stored, err := store.CompanyBySymbol("AAPL")
	if err != nil {
		t.Fatalf("CompanyBySymbol: %v", err)
	}
	if stored.Name != "Apple Inc." || stored.MarketCap != 2e12 {
		t.Fatalf("second payload did not win: %+v", stored)
	}
	if !stored.LastUpdated.Equal(second.LastUpdated) {
		t.Errorf("LastUpdated = %v, want %v", stored.LastUpdated, second.LastUpdated)
	}
}

func TestCompanyBySymbolNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.CompanyBySymbol("NOPE")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestAllCompaniesOrderedByMarketCap(t *testing.T) {
	store := newTestStore(t)

	for _, p := range []*models.CompanyProfile{
		sampleProfile("SMALL", 1e9),
		sampleProfile("BIG", 1e12),
		sampleProfile("MID", 1e10),
	} {
		if err := store.UpsertCompany(p); err != nil {
			t.Fatalf("UpsertCompany: %v", err)
		}
	}

	companies, err := store.AllCompanies()
	if err != nil {
		t.Fatalf("AllCompanies: %v", err)
	}
	if len(companies) != 3 {
		t.Fatalf("len = %d, want 3", len(companies))
	}
	want := []string{"BIG", "MID", "SMALL"}
	for i, symbol := range want {
		if companies[i].Symbol != symbol {
			t.Errorf("companies[%d] = %s, want %s", i, companies[i].Symbol, symbol)
		}
	}
}

func TestCompaniesByIndustry(t *testing.T) {
	store := newTestStore(t)

	tech := sampleProfile("TECH", 1e10)
	bank := sampleProfile("BANK", 1e11)
	bank.Sector = "Financial Services"
	bank.Industry = "Banks"
	for _, p := range []*models.CompanyProfile{tech, bank} {
		if err := store.UpsertCompany(p); err != nil {
			t.Fatalf("UpsertCompany: %v", err)
		}
	}

	matches, err := store.CompaniesByIndustry("bank")
	if err != nil {
		t.Fatalf("CompaniesByIndustry: %v", err)
	}
	if len(matches) != 1 || matches[0].Symbol != "BANK" {
		t.Fatalf("matches = %+v", matches)
	}
}

func history(symbol string, days int) []models.PriceHistoryRecord {
	records := make([]models.PriceHistoryRecord, 0, days)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < days; i++ {
		records = append(records, models.PriceHistoryRecord{
			Symbol: symbol,
			Date:   base.AddDate(0, 0, i),
			Open:   100 + float64(i),
			High:   101 + float64(i),
			Low:    99 + float64(i),
			Close:  100.5 + float64(i),
			Volume: 1000,
		})
	}
	return records
}

func TestReplaceHistoryFullReplace(t *testing.T) {
	store := newTestStore(t)

	if err := store.ReplaceHistory("AAPL", history("AAPL", 10)); err != nil {
		t.Fatalf("ReplaceHistory: %v", err)
	}
	if err := store.ReplaceHistory("AAPL", history("AAPL", 3)); err != nil {
		t.Fatalf("ReplaceHistory second batch: %v", err)
	}

	records, err := store.HistoryBySymbol("AAPL")
	if err != nil {
		t.Fatalf("HistoryBySymbol: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("len = %d, want exactly the new batch size", len(records))
	}
	for i := 1; i < len(records); i++ {
		if records[i].Date.Before(records[i-1].Date) {
			t.Fatal("history not ordered by date ascending")
		}
	}
}

func TestReplaceHistoryLeavesOtherSymbolsAlone(t *testing.T) {
	store := newTestStore(t)

	if err := store.ReplaceHistory("AAPL", history("AAPL", 5)); err != nil {
		t.Fatalf("ReplaceHistory: %v", err)
	}
	if err := store.ReplaceHistory("MSFT", history("MSFT", 2)); err != nil {
		t.Fatalf("ReplaceHistory: %v", err)
	}

	records, err := store.HistoryBySymbol("AAPL")
	if err != nil {
		t.Fatalf("HistoryBySymbol: %v", err)
	}
	if len(records) != 5 {
		t.Fatalf("AAPL rows = %d, want 5", len(records))
	}
}

func TestReplaceExecutives(t *testing.T) {
	store := newTestStore(t)

	first := []models.Executive{
		{Name: "Alice", Title: "CEO", Age: 50, TotalPay: 1e6},
		{Name: "Bob", Title: "CFO", Age: 45, TotalPay: 5e5},
	}
	if err := store.ReplaceExecutives("AAPL", first); err != nil {
		t.Fatalf("ReplaceExecutives: %v", err)
	}

	second := []models.Executive{{Name: "Carol", Title: "CEO", Age: 48, TotalPay: 2e6}}
	if err := store.ReplaceExecutives("AAPL", second); err != nil {
		t.Fatalf("ReplaceExecutives replace: %v", err)
	}

	executives, err := store.ExecutivesBySymbol("AAPL")
	if err != nil {
		t.Fatalf("ExecutivesBySymbol: %v", err)
	}
	if len(executives) != 1 || executives[0].Name != "Carol" {
		t.Fatalf("executives = %+v", executives)
	}
}

func TestReplaceRatios(t *testing.T) {
	store := newTestStore(t)

	if err := store.ReplaceRatios("AAPL", &models.FinancialRatios{Symbol: "AAPL", PERatio: 10}); err != nil {
		t.Fatalf("ReplaceRatios: %v", err)
	}
	if err := store.ReplaceRatios("AAPL", &models.FinancialRatios{Symbol: "AAPL", PERatio: 20, QuickRatio: 1.1}); err != nil {
		t.Fatalf("ReplaceRatios replace: %v", err)
	}

	ratios, err := store.RatiosBySymbol("AAPL")
	if err != nil {
		t.Fatalf("RatiosBySymbol: %v", err)
	}
	if ratios.PERatio != 20 || ratios.QuickRatio != 1.1 {
		t.Fatalf("ratios = %+v", ratios)
	}

	if _, err := store.RatiosBySymbol("NOPE"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
