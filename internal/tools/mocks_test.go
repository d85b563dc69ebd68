package tools

import (
	"context"
	"time"

	"github.com/bobmcallan/rfin/internal/common"
	"github.com/bobmcallan/rfin/internal/dates"
	"github.com/bobmcallan/rfin/internal/models"
	"github.com/bobmcallan/rfin/internal/vocab"
)

// mockSectors serves canned provider data and records the arguments of the
// calls that matter to the tests.
type mockSectors struct {
	subSectors    []models.SubSectorEntry
	subIndustries []models.SubIndustryEntry
	industries    []models.IndustryEntry
	companies     []models.CompanyEntry
	mostTraded    map[string][]models.MostTradedEntry
	topCompanies  map[string][]models.TopCompanyEntry
	topChanges    map[string]map[string][]models.TopChangeEntry
	daily         []models.DailyTransaction
	marketCap     []models.MarketCapPoint
	indexDaily    []models.IndexDailyPoint

	companiesCalls  int
	mostTradedCalls int
	lastIndexArg    string
	lastStartArg    string
	lastEndArg      string
	lastSubSector   string
}

func (m *mockSectors) ListSubSectors(context.Context) ([]models.SubSectorEntry, error) {
	return m.subSectors, nil
}

func (m *mockSectors) ListIndustries(context.Context) ([]models.IndustryEntry, error) {
	return m.industries, nil
}

func (m *mockSectors) ListSubIndustries(context.Context) ([]models.SubIndustryEntry, error) {
	return m.subIndustries, nil
}

func (m *mockSectors) ListCompaniesBySubSector(_ context.Context, subSector string) ([]models.CompanyEntry, error) {
	m.companiesCalls++
	m.lastSubSector = subSector
	return m.companies, nil
}

func (m *mockSectors) ListCompaniesBySubIndustry(_ context.Context, subIndustry string) ([]models.CompanyEntry, error) {
	m.companiesCalls++
	return m.companies, nil
}

func (m *mockSectors) ListCompaniesByIndex(_ context.Context, indexCode string) ([]models.CompanyEntry, error) {
	m.companiesCalls++
	m.lastIndexArg = indexCode
	return m.companies, nil
}

func (m *mockSectors) GetListingPerformance(_ context.Context, ticker string) (*models.ListingPerformance, error) {
	return &models.ListingPerformance{Symbol: ticker + ".JK"}, nil
}

func (m *mockSectors) GetCompanyReport(_ context.Context, ticker, section string) (map[string]any, error) {
	return map[string]any{"symbol": ticker, "section": section}, nil
}

func (m *mockSectors) GetMostTraded(_ context.Context, startDate, endDate string, topN int, subSector string) (map[string][]models.MostTradedEntry, error) {
	m.mostTradedCalls++
	m.lastStartArg = startDate
	m.lastEndArg = endDate
	m.lastSubSector = subSector
	return m.mostTraded, nil
}

func (m *mockSectors) GetTopCompanies(_ context.Context, classification string, topN, year int, subSector string) (map[string][]models.TopCompanyEntry, error) {
	m.lastSubSector = subSector
	return m.topCompanies, nil
}

func (m *mockSectors) GetTopChanges(_ context.Context, classification string, topN int, period, subSector string) (map[string]map[string][]models.TopChangeEntry, error) {
	return m.topChanges, nil
}

func (m *mockSectors) GetDailyTransactions(_ context.Context, ticker, startDate, endDate string) ([]models.DailyTransaction, error) {
	m.lastStartArg = startDate
	m.lastEndArg = endDate
	return m.daily, nil
}

func (m *mockSectors) GetTotalMarketCap(_ context.Context, startDate, endDate string) ([]models.MarketCapPoint, error) {
	m.lastStartArg = startDate
	m.lastEndArg = endDate
	return m.marketCap, nil
}

func (m *mockSectors) GetIndexDaily(_ context.Context, indexCode, startDate, endDate string) ([]models.IndexDailyPoint, error) {
	m.lastIndexArg = indexCode
	m.lastStartArg = startDate
	m.lastEndArg = endDate
	return m.indexDaily, nil
}

// mockStore serves canned persisted-store responses.
type mockStore struct {
	balanceSheets    []models.BalanceSheetRow
	cashFlows        []models.CashFlowRow
	incomeStatements []models.IncomeStatementRow
	overview         *models.TickerOverview
	lastQuery        models.StoreQuery
}

func (m *mockStore) GetMarketCap(context.Context, models.StoreQuery) ([]models.MarketCapPoint, error) {
	return nil, nil
}

func (m *mockStore) GetIndexDaily(context.Context, models.StoreQuery) ([]models.IndexDailyPoint, error) {
	return nil, nil
}

func (m *mockStore) GetTickers(context.Context) ([]models.TickerRecord, error) {
	return nil, nil
}

func (m *mockStore) GetTickerDaily(context.Context, models.StoreQuery) ([]models.TickerDailyBar, error) {
	return nil, nil
}

func (m *mockStore) GetBalanceSheet(_ context.Context, q models.StoreQuery) ([]models.BalanceSheetRow, error) {
	m.lastQuery = q
	return m.balanceSheets, nil
}

func (m *mockStore) GetCashFlow(_ context.Context, q models.StoreQuery) ([]models.CashFlowRow, error) {
	m.lastQuery = q
	return m.cashFlows, nil
}

func (m *mockStore) GetIncomeStatement(_ context.Context, q models.StoreQuery) ([]models.IncomeStatementRow, error) {
	m.lastQuery = q
	return m.incomeStatements, nil
}

func (m *mockStore) GetTickerOverview(_ context.Context, symbol string) (*models.TickerOverview, error) {
	return m.overview, nil
}

// noHolidays treats every weekday as a business day.
type noHolidays struct{}

func (noHolidays) IsHoliday(context.Context, time.Time) (bool, error) { return false, nil }

// newTestRegistry wires the full catalog over mocks. Charts go nowhere.
func newTestRegistry(sectors *mockSectors, store *mockStore) (*Registry, *dates.Resolver) {
	logger := common.NewSilentLogger()
	resolver := dates.NewResolver(noHolidays{}, logger)
	validator := vocab.NewValidator(sectors, logger)
	charts := NewChartRenderer(nil, logger)
	return NewRegistry(sectors, store, validator, resolver, charts, logger), resolver
}

// invoke runs a registered tool by name.
func invoke(reg *Registry, name string, args map[string]any) (*Result, error) {
	tool, ok := reg.Lookup(name)
	if !ok {
		panic("unknown tool in test: " + name)
	}
	return tool.Handler(context.Background(), args)
}
