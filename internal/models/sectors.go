package models

// Response shapes for the external market-data provider. Field names mirror
// the provider's JSON; unexpected shapes fail at decode time.

// SubSectorEntry is one row of the subsectors listing.
type SubSectorEntry struct {
	Sector    string `json:"sector"`
	SubSector string `json:"subsector"`
}

// IndustryEntry is one row of the industries listing.
type IndustryEntry struct {
	SubSector string `json:"subsector"`
	Industry  string `json:"industry"`
}

// SubIndustryEntry is one row of the subindustries listing.
type SubIndustryEntry struct {
	Industry    string `json:"industry"`
	SubIndustry string `json:"sub_industry"`
}

// CompanyEntry is one row of a company listing (by sub-sector, sub-industry,
// or index membership).
type CompanyEntry struct {
	Symbol      string `json:"symbol"`
	CompanyName string `json:"company_name"`
}

// MostTradedEntry is one company's traded volume and price on one date.
// The provider keys the response by date: map[date][]MostTradedEntry.
type MostTradedEntry struct {
	Symbol      string  `json:"symbol"`
	CompanyName string  `json:"company_name"`
	Volume      int64   `json:"volume"`
	Price       float64 `json:"price"`
}

// TopCompanyEntry is one row of a companies/top ranking. Only the field
// matching the requested classification is populated.
type TopCompanyEntry struct {
	Symbol        string  `json:"symbol"`
	CompanyName   string  `json:"company_name"`
	MarketCap     float64 `json:"market_cap"`
	Revenue       float64 `json:"revenue"`
	Earnings      float64 `json:"earnings"`
	DividendYield float64 `json:"dividend_yield"`
	TotalDividend float64 `json:"total_dividend"`
}

// TopChangeEntry is one row of a top-gainers/top-losers ranking.
type TopChangeEntry struct {
	Symbol          string  `json:"symbol"`
	Name            string  `json:"name"`
	PriceChange     float64 `json:"price_change"`
	LastClosePrice  float64 `json:"last_close_price"`
	LatestCloseDate string  `json:"latest_close_date"`
}

// DailyTransaction is one day's close/volume/market-cap for a ticker from
// the provider's daily endpoint.
type DailyTransaction struct {
	Date      string  `json:"date"`
	Close     float64 `json:"close"`
	Volume    int64   `json:"volume"`
	MarketCap int64   `json:"market_cap"`
}

// ListingPerformance is the stock price performance since IPO.
type ListingPerformance struct {
	Symbol       string   `json:"symbol"`
	Chg7d        *float64 `json:"chg_7d"`
	Chg30d       *float64 `json:"chg_30d"`
	Chg90d       *float64 `json:"chg_90d"`
	Chg365d      *float64 `json:"chg_365d"`
	ListingDate  string   `json:"listing_date"`
	LatestPrice  *float64 `json:"latest_price"`
	InitialPrice *float64 `json:"initial_price"`
}
