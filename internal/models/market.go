// Package models defines the data entities shared across rfin
package models

// Dates throughout are calendar-day strings in "2006-01-02" form, matching
// both the persisted store and the provider wire format. Lexicographic order
// on these strings is chronological order, which the range queries rely on.

// MarketCapPoint is one day's observation of IDX total market capitalization.
type MarketCapPoint struct {
	Date              string `json:"date"`
	IDXTotalMarketCap int64  `json:"idx_total_market_cap"`
}

// IndexDailyPoint is one day's closing level for a stock index.
type IndexDailyPoint struct {
	Date      string  `json:"date"`
	IndexCode string  `json:"index_code" badgerhold:"index"`
	Price     float64 `json:"price"`
}

// TickerRecord is the minimal listing entry for a ticker.
type TickerRecord struct {
	Symbol      string `json:"symbol" badgerhold:"key"`
	CompanyName string `json:"company_name"`
}

// TickerDailyBar is one day's OHLCV observation for a ticker.
type TickerDailyBar struct {
	Date   string `json:"date"`
	Symbol string `json:"symbol" badgerhold:"index"`
	Open   int64  `json:"open"`
	High   int64  `json:"high"`
	Low    int64  `json:"low"`
	Close  int64  `json:"close"`
	Volume int64  `json:"volume"`
}

// TickerOverview is immutable reference data per ticker.
type TickerOverview struct {
	Symbol      string `json:"symbol" badgerhold:"key"`
	CompanyName string `json:"company_name"`
	Sector      string `json:"sector"`
	SubSector   string `json:"sub_sector"`
	Industry    string `json:"industry"`
	SubIndustry string `json:"sub_industry"`
	ListingDate string `json:"listing_date"`
	Website     string `json:"website"`
}

// BalanceSheetRow is one (symbol, year) balance sheet record.
// Amounts are pointers: null means unreported, not zero.
type BalanceSheetRow struct {
	Year        string `json:"year"`
	Symbol      string `json:"symbol" badgerhold:"index"`
	Assets      *int64 `json:"assets"`
	Liabilities *int64 `json:"liabilities"`
}

// CashFlowRow is one (symbol, year) cash flow record.
type CashFlowRow struct {
	Year        string `json:"year"`
	Symbol      string `json:"symbol" badgerhold:"index"`
	OperatingCF *int64 `json:"operating_cf"`
	InvestingCF *int64 `json:"investing_cf"`
	FinancingCF *int64 `json:"financing_cf"`
}

// IncomeStatementRow is one (symbol, year) income statement record.
type IncomeStatementRow struct {
	Year         string `json:"year"`
	Symbol       string `json:"symbol" badgerhold:"index"`
	TotalRevenue *int64 `json:"total_revenue"`
	NetIncome    *int64 `json:"net_income"`
}
