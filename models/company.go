package models

import "time"

// CompanyProfile is the canonical per-symbol company record. A collection
// run replaces the stored row wholesale; there is no field-level merge
// across runs. Zero values ("", 0, "N/A") mean unknown.
type CompanyProfile struct {
	Symbol          string    `json:"symbol"`
	Name            string    `json:"company_name"`
	Sector          string    `json:"sector"`
	Industry        string    `json:"industry"`
	MarketCap       float64   `json:"market_cap"`
	EnterpriseValue float64   `json:"enterprise_value"`
	Revenue         float64   `json:"revenue"`
	Employees       int64     `json:"employees"`
	Headquarters    string    `json:"headquarters"`
	Website         string    `json:"website"`
	Description     string    `json:"description"`
	CurrentPrice    float64   `json:"current_price"`
	PreviousClose   float64   `json:"previous_close"`
	Volume          int64     `json:"volume"`
	AvgVolume       int64     `json:"avg_volume"`
	PERatio         float64   `json:"pe_ratio"`
	PBRatio         float64   `json:"pb_ratio"`
	DividendYield   float64   `json:"dividend_yield"`
	LastUpdated     time.Time `json:"last_updated"`
}

// PriceHistoryRecord is one trading day of OHLCV data. The full history
// set for a symbol is replaced as a batch on every fetch.
type PriceHistoryRecord struct {
	Symbol string    `json:"symbol"`
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// Executive is one listed company officer. Age and TotalPay are 0 when
// the provider does not disclose them.
type Executive struct {
	Name     string  `json:"name"`
	Title    string  `json:"title"`
	Age      int64   `json:"age"`
	TotalPay float64 `json:"total_pay"`
}

// FinancialRatios is the latest ratio snapshot for a symbol, not
// historized. 0 means unknown or unavailable.
type FinancialRatios struct {
	Symbol          string  `json:"symbol"`
	PERatio         float64 `json:"pe_ratio"`
	ForwardPE       float64 `json:"forward_pe"`
	PEGRatio        float64 `json:"peg_ratio"`
	PriceToSales    float64 `json:"price_to_sales"`
	PriceToBook     float64 `json:"price_to_book"`
	DebtToEquity    float64 `json:"debt_to_equity"`
	ReturnOnEquity  float64 `json:"roe"`
	ReturnOnAssets  float64 `json:"roa"`
	ProfitMargin    float64 `json:"profit_margin"`
	OperatingMargin float64 `json:"operating_margin"`
	CurrentRatio    float64 `json:"current_ratio"`
	QuickRatio      float64 `json:"quick_ratio"`
}

// IsZero reports whether no ratio was populated.
func (r FinancialRatios) IsZero() bool {
	return r.PERatio == 0 && r.ForwardPE == 0 && r.PEGRatio == 0 &&
		r.PriceToSales == 0 && r.PriceToBook == 0 && r.DebtToEquity == 0 &&
		r.ReturnOnEquity == 0 && r.ReturnOnAssets == 0 && r.ProfitMargin == 0 &&
		r.OperatingMargin == 0 && r.CurrentRatio == 0 && r.QuickRatio == 0
}
