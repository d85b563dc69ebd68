// Package interfaces defines service contracts for rfin
package interfaces

import (
	"context"
	"time"

	"google.golang.org/genai"

	"github.com/bobmcallan/rfin/internal/models"
)

// SectorsClient is the gateway to the external market-data provider.
// Every method is a pure function of its inputs: no caching, no retries,
// non-2xx responses surface as *models.UpstreamError.
type SectorsClient interface {
	// ListSubSectors retrieves the sub-sector vocabulary with parent sectors
	ListSubSectors(ctx context.Context) ([]models.SubSectorEntry, error)

	// ListIndustries retrieves the industry vocabulary with parent sub-sectors
	ListIndustries(ctx context.Context) ([]models.IndustryEntry, error)

	// ListSubIndustries retrieves the sub-industry vocabulary with parent industries
	ListSubIndustries(ctx context.Context) ([]models.SubIndustryEntry, error)

	// ListCompaniesBySubSector lists companies in a sub-sector (provider form, hyphenated lowercase)
	ListCompaniesBySubSector(ctx context.Context, subSector string) ([]models.CompanyEntry, error)

	// ListCompaniesBySubIndustry lists companies in a sub-industry (provider form)
	ListCompaniesBySubIndustry(ctx context.Context, subIndustry string) ([]models.CompanyEntry, error)

	// ListCompaniesByIndex lists the constituents of a stock index
	ListCompaniesByIndex(ctx context.Context, indexCode string) ([]models.CompanyEntry, error)

	// GetListingPerformance retrieves price performance since IPO
	GetListingPerformance(ctx context.Context, ticker string) (*models.ListingPerformance, error)

	// GetCompanyReport retrieves one report section for a ticker (provider form section)
	GetCompanyReport(ctx context.Context, ticker, section string) (map[string]any, error)

	// GetMostTraded retrieves per-date most-traded companies within a range
	GetMostTraded(ctx context.Context, startDate, endDate string, topN int, subSector string) (map[string][]models.MostTradedEntry, error)

	// GetTopCompanies retrieves a ranking by classification, keyed by classification
	GetTopCompanies(ctx context.Context, classification string, topN, year int, subSector string) (map[string][]models.TopCompanyEntry, error)

	// GetTopChanges retrieves gainers/losers keyed by classification then period
	GetTopChanges(ctx context.Context, classification string, topN int, period, subSector string) (map[string]map[string][]models.TopChangeEntry, error)

	// GetDailyTransactions retrieves close/volume/market-cap per day for a ticker
	GetDailyTransactions(ctx context.Context, ticker, startDate, endDate string) ([]models.DailyTransaction, error)

	// GetTotalMarketCap retrieves IDX total market capitalization per day
	GetTotalMarketCap(ctx context.Context, startDate, endDate string) ([]models.MarketCapPoint, error)

	// GetIndexDaily retrieves daily index levels within a range
	GetIndexDaily(ctx context.Context, indexCode, startDate, endDate string) ([]models.IndexDailyPoint, error)
}

// StoreDataClient queries the internal persisted-store API. Same error
// contract as SectorsClient; no credential header.
type StoreDataClient interface {
	GetMarketCap(ctx context.Context, q models.StoreQuery) ([]models.MarketCapPoint, error)
	GetIndexDaily(ctx context.Context, q models.StoreQuery) ([]models.IndexDailyPoint, error)
	GetTickers(ctx context.Context) ([]models.TickerRecord, error)
	GetTickerDaily(ctx context.Context, q models.StoreQuery) ([]models.TickerDailyBar, error)
	GetBalanceSheet(ctx context.Context, q models.StoreQuery) ([]models.BalanceSheetRow, error)
	GetCashFlow(ctx context.Context, q models.StoreQuery) ([]models.CashFlowRow, error)
	GetIncomeStatement(ctx context.Context, q models.StoreQuery) ([]models.IncomeStatementRow, error)
	GetTickerOverview(ctx context.Context, symbol string) (*models.TickerOverview, error)
}

// HolidayCalendar answers whether a calendar date is a public holiday.
type HolidayCalendar interface {
	IsHoliday(ctx context.Context, date time.Time) (bool, error)
}

// ChatModel is the language-understanding collaborator the orchestrator
// plans against. One call covers one Planning step.
type ChatModel interface {
	GenerateTurn(ctx context.Context, systemInstruction string, history []*genai.Content, tools []*genai.Tool) (*genai.GenerateContentResponse, error)
}

// ChartSink receives rendered chart artifacts as a side channel. Rendering
// failures must never block composing a textual answer.
type ChartSink interface {
	// Render stores a PNG artifact and returns its addressable name
	Render(name string, png []byte) (string, error)
}
