// Package storage owns the four persisted record kinds: company profiles,
// price history, executives and financial ratios. Profiles are upserted on
// the symbol unique constraint; the other three follow a delete-then-insert
// full-replace discipline, each scoped to its own transaction so a fault in
// one kind never aborts a sibling write.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/bhilarepratham/strategic-company-analyzer/internal/storage/sqlite"
	"github.com/bhilarepratham/strategic-company-analyzer/models"
)

// ErrNotFound indicates no row exists for the requested symbol.
var ErrNotFound = errors.New("not found")

const (
	dateLayout = "2006-01-02"
	timeLayout = "2006-01-02 15:04:05"
)

type Store struct {
	db     *sql.DB
	logger *zap.SugaredLogger
}

func NewStore(dbPath string, logger *zap.SugaredLogger) (*Store, error) {
	db, err := sqlite.Open(dbPath)
	if err != nil {
		return nil, err
	}

	s := &Store{db: db, logger: logger}
	if err := s.initSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) initSchema() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS companies (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			symbol TEXT UNIQUE NOT NULL,
			company_name TEXT,
			sector TEXT,
			industry TEXT,
			market_cap REAL,
			enterprise_value REAL,
			revenue REAL,
			employees INTEGER,
			headquarters TEXT,
			website TEXT,
			description TEXT,
			current_price REAL,
			previous_close REAL,
			volume INTEGER,
			avg_volume INTEGER,
			pe_ratio REAL,
			pb_ratio REAL,
			dividend_yield REAL,
			last_updated TEXT,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS stock_history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			symbol TEXT NOT NULL,
			date TEXT NOT NULL,
			open_price REAL,
			high_price REAL,
			low_price REAL,
			close_price REAL,
			volume INTEGER,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE INDEX IF NOT EXISTS idx_stock_history_symbol ON stock_history(symbol);`,
		`CREATE TABLE IF NOT EXISTS executives (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			symbol TEXT NOT NULL,
			name TEXT,
			title TEXT,
			age INTEGER,
			total_pay REAL,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE INDEX IF NOT EXISTS idx_executives_symbol ON executives(symbol);`,
		`CREATE TABLE IF NOT EXISTS financial_ratios (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			symbol TEXT NOT NULL,
			pe_ratio REAL,
			forward_pe REAL,
			peg_ratio REAL,
			price_to_sales REAL,
			price_to_book REAL,
			debt_to_equity REAL,
			roe REAL,
			roa REAL,
			profit_margin REAL,
			operating_margin REAL,
			current_ratio REAL,
			quick_ratio REAL,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE INDEX IF NOT EXISTS idx_financial_ratios_symbol ON financial_ratios(symbol);`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}

// UpsertCompany inserts or replaces the profile row for its symbol.
// Replaying the same payload leaves a single identical row.
func (s *Store) UpsertCompany(p *models.CompanyProfile) error {
	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO companies
		(symbol, company_name, sector, industry, market_cap, enterprise_value, revenue,
		 employees, headquarters, website, description, current_price, previous_close,
		 volume, avg_volume, pe_ratio, pb_ratio, dividend_yield, last_updated)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Symbol, p.Name, p.Sector, p.Industry, p.MarketCap, p.EnterpriseValue, p.Revenue,
		p.Employees, p.Headquarters, p.Website, p.Description, p.CurrentPrice, p.PreviousClose,
		p.Volume, p.AvgVolume, p.PERatio, p.PBRatio, p.DividendYield,
		p.LastUpdated.Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("upsert company %s: %w", p.Symbol, err)
	}
	return nil
}

// ReplaceHistory deletes all history rows for the symbol and inserts the
// new batch in one transaction.
func (s *Store) ReplaceHistory(symbol string, records []models.PriceHistoryRecord) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("replace history %s: %w", symbol, err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM stock_history WHERE symbol = ?`, symbol); err != nil {
		return fmt.Errorf("replace history %s: %w", symbol, err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO stock_history
		(symbol, date, open_price, high_price, low_price, close_price, volume)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("replace history %s: %w", symbol, err)
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.Exec(symbol, r.Date.Format(dateLayout), r.Open, r.High, r.Low, r.Close, r.Volume); err != nil {
			return fmt.Errorf("replace history %s: %w", symbol, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("replace history %s: %w", symbol, err)
	}

	s.logger.Debugw("history replaced", "symbol", symbol, "rows", len(records))
	return nil
}

// ReplaceExecutives deletes and reinserts the officer list for the symbol.
func (s *Store) ReplaceExecutives(symbol string, executives []models.Executive) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("replace executives %s: %w", symbol, err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM executives WHERE symbol = ?`, symbol); err != nil {
		return fmt.Errorf("replace executives %s: %w", symbol, err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO executives (symbol, name, title, age, total_pay)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("replace executives %s: %w", symbol, err)
	}
	defer stmt.Close()

	for _, e := range executives {
		if _, err := stmt.Exec(symbol, e.Name, e.Title, e.Age, e.TotalPay); err != nil {
			return fmt.Errorf("replace executives %s: %w", symbol, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("replace executives %s: %w", symbol, err)
	}

	s.logger.Debugw("executives replaced", "symbol", symbol, "rows", len(executives))
	return nil
}

// ReplaceRatios deletes and reinserts the single ratio snapshot row,
// keeping the same full-replace discipline as the multi-row kinds.
func (s *Store) ReplaceRatios(symbol string, r *models.FinancialRatios) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("replace ratios %s: %w", symbol, err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM financial_ratios WHERE symbol = ?`, symbol); err != nil {
		return fmt.Errorf("replace ratios %s: %w", symbol, err)
	}

	_, err = tx.Exec(`
		INSERT INTO financial_ratios
		(symbol, pe_ratio, forward_pe, peg_ratio, price_to_sales, price_to_book,
		 debt_to_equity, roe, roa, profit_margin, operating_margin, current_ratio, quick_ratio)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		symbol, r.PERatio, r.ForwardPE, r.PEGRatio, r.PriceToSales, r.PriceToBook,
		r.DebtToEquity, r.ReturnOnEquity, r.ReturnOnAssets, r.ProfitMargin,
		r.OperatingMargin, r.CurrentRatio, r.QuickRatio,
	)
	if err != nil {
		return fmt.Errorf("replace ratios %s: %w", symbol, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("replace ratios %s: %w", symbol, err)
	}
	return nil
}

const companyColumns = `symbol, company_name, sector, industry, market_cap, enterprise_value,
	revenue, employees, headquarters, website, description, current_price, previous_close,
	volume, avg_volume, pe_ratio, pb_ratio, dividend_yield, last_updated`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCompany(row rowScanner) (*models.CompanyProfile, error) {
	var p models.CompanyProfile
	var lastUpdated string
	err := row.Scan(
		&p.Symbol, &p.Name, &p.Sector, &p.Industry, &p.MarketCap, &p.EnterpriseValue,
		&p.Revenue, &p.Employees, &p.Headquarters, &p.Website, &p.Description,
		&p.CurrentPrice, &p.PreviousClose, &p.Volume, &p.AvgVolume,
		&p.PERatio, &p.PBRatio, &p.DividendYield, &lastUpdated,
	)
	if err != nil {
		return nil, err
	}
	if t, err := time.Parse(timeLayout, lastUpdated); err == nil {
		p.LastUpdated = t
	}
	return &p, nil
}

// AllCompanies returns every stored profile, largest market cap first.
func (s *Store) AllCompanies() ([]models.CompanyProfile, error) {
	rows, err := s.db.Query(`SELECT ` + companyColumns + ` FROM companies ORDER BY market_cap DESC`)
	if err != nil {
		return nil, fmt.Errorf("query companies: %w", err)
	}
	defer rows.Close()

	var companies []models.CompanyProfile
	for rows.Next() {
		p, err := scanCompany(rows)
		if err != nil {
			return nil, fmt.Errorf("scan company: %w", err)
		}
		companies = append(companies, *p)
	}
	return companies, rows.Err()
}

// CompaniesByIndustry returns profiles whose sector or industry matches the
// term, largest market cap first.
func (s *Store) CompaniesByIndustry(term string) ([]models.CompanyProfile, error) {
	pattern := "%" + term + "%"
	rows, err := s.db.Query(`SELECT `+companyColumns+` FROM companies
		WHERE industry LIKE ? OR sector LIKE ? ORDER BY market_cap DESC`, pattern, pattern)
	if err != nil {
		return nil, fmt.Errorf("query companies by industry: %w", err)
	}
	defer rows.Close()

	var companies []models.CompanyProfile
	for rows.Next() {
		p, err := scanCompany(rows)
		if err != nil {
			return nil, fmt.Errorf("scan company: %w", err)
		}
		companies = append(companies, *p)
	}
	return companies, rows.Err()
}

// CompanyBySymbol returns the stored profile or ErrNotFound.
func (s *Store) CompanyBySymbol(symbol string) (*models.CompanyProfile, error) {
	row := s.db.QueryRow(`SELECT `+companyColumns+` FROM companies WHERE symbol = ?`, symbol)
	p, err := scanCompany(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("company %s: %w", symbol, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query company %s: %w", symbol, err)
	}
	return p, nil
}

// CompanyCount returns the number of stored profiles.
func (s *Store) CompanyCount() (int, error) {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM companies`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count companies: %w", err)
	}
	return count, nil
}

// HistoryBySymbol returns the stored price history, oldest first.
func (s *Store) HistoryBySymbol(symbol string) ([]models.PriceHistoryRecord, error) {
	rows, err := s.db.Query(`
		SELECT symbol, date, open_price, high_price, low_price, close_price, volume
		FROM stock_history WHERE symbol = ? ORDER BY date ASC`, symbol)
	if err != nil {
		return nil, fmt.Errorf("query history %s: %w", symbol, err)
	}
	defer rows.Close()

	var records []models.PriceHistoryRecord
	for rows.Next() {
		var r models.PriceHistoryRecord
		var date string
		if err := rows.Scan(&r.Symbol, &date, &r.Open, &r.High, &r.Low, &r.Close, &r.Volume); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		if t, err := time.Parse(dateLayout, date); err == nil {
			r.Date = t
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// ExecutivesBySymbol returns the stored officer list in insertion order.
func (s *Store) ExecutivesBySymbol(symbol string) ([]models.Executive, error) {
	rows, err := s.db.Query(`
		SELECT name, title, age, total_pay FROM executives
		WHERE symbol = ? ORDER BY id ASC`, symbol)
	if err != nil {
		return nil, fmt.Errorf("query executives %s: %w", symbol, err)
	}
	defer rows.Close()

	var executives []models.Executive
	for rows.Next() {
		var e models.Executive
		if err := rows.Scan(&e.Name, &e.Title, &e.Age, &e.TotalPay); err != nil {
			return nil, fmt.Errorf("scan executive row: %w", err)
		}
		executives = append(executives, e)
	}
	return executives, rows.Err()
}

// RatiosBySymbol returns the stored ratio snapshot or ErrNotFound.
func (s *Store) RatiosBySymbol(symbol string) (*models.FinancialRatios, error) {
	var r models.FinancialRatios
	err := s.db.QueryRow(`
		SELECT symbol, pe_ratio, forward_pe, peg_ratio, price_to_sales, price_to_book,
		       debt_to_equity, roe, roa, profit_margin, operating_margin, current_ratio, quick_ratio
		FROM financial_ratios WHERE symbol = ?`, symbol).Scan(
		&r.Symbol, &r.PERatio, &r.ForwardPE, &r.PEGRatio, &r.PriceToSales, &r.PriceToBook,
		&r.DebtToEquity, &r.ReturnOnEquity, &r.ReturnOnAssets, &r.ProfitMargin,
		&r.OperatingMargin, &r.CurrentRatio, &r.QuickRatio,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("ratios %s: %w", symbol, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query ratios %s: %w", symbol, err)
	}
	return &r, nil
}
