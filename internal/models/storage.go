package models

// MarketSnapshot is a bulk import payload of pre-fetched records for the
// persisted store. Any slice may be empty.
type MarketSnapshot struct {
	MarketCap        []MarketCapPoint     `json:"market_cap,omitempty"`
	IndexDaily       []IndexDailyPoint    `json:"index_daily,omitempty"`
	Tickers          []TickerRecord       `json:"tickers,omitempty"`
	TickerDaily      []TickerDailyBar     `json:"ticker_daily,omitempty"`
	BalanceSheets    []BalanceSheetRow    `json:"balance_sheets,omitempty"`
	CashFlows        []CashFlowRow        `json:"cash_flows,omitempty"`
	IncomeStatements []IncomeStatementRow `json:"income_statements,omitempty"`
	TickerOverviews  []TickerOverview     `json:"ticker_overviews,omitempty"`
}
