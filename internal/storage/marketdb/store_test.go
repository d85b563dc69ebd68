package marketdb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/rfin/internal/common"
	"github.com/bobmcallan/rfin/internal/models"
)

func int64p(v int64) *int64 { return &v }

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(common.NewSilentLogger(), t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func seedSnapshot() *models.MarketSnapshot {
	return &models.MarketSnapshot{
		MarketCap: []models.MarketCapPoint{
			{Date: "2025-03-10", IDXTotalMarketCap: 11_000_000_000_000_000},
			{Date: "2025-03-11", IDXTotalMarketCap: 11_100_000_000_000_000},
			{Date: "2025-03-12", IDXTotalMarketCap: 11_050_000_000_000_000},
		},
		IndexDaily: []models.IndexDailyPoint{
			{Date: "2025-03-10", IndexCode: "lq45", Price: 980.5},
			{Date: "2025-03-11", IndexCode: "lq45", Price: 985.2},
			{Date: "2025-03-10", IndexCode: "ihsg", Price: 7150.3},
		},
		Tickers: []models.TickerRecord{
			{Symbol: "BBRI.JK", CompanyName: "Bank Rakyat Indonesia"},
			{Symbol: "BBCA.JK", CompanyName: "Bank Central Asia"},
		},
		TickerDaily: []models.TickerDailyBar{
			{Date: "2025-03-10", Symbol: "BBRI.JK", Open: 4200, High: 4260, Low: 4180, Close: 4250, Volume: 98000000},
			{Date: "2025-03-11", Symbol: "BBRI.JK", Open: 4250, High: 4300, Low: 4230, Close: 4280, Volume: 87000000},
			{Date: "2025-03-10", Symbol: "BBCA.JK", Open: 9800, High: 9900, Low: 9750, Close: 9875, Volume: 45000000},
		},
		BalanceSheets: []models.BalanceSheetRow{
			{Year: "2023", Symbol: "BBRI.JK", Assets: int64p(1_835_000_000_000_000), Liabilities: int64p(1_500_000_000_000_000)},
			{Year: "2024", Symbol: "BBRI.JK", Assets: int64p(1_965_000_000_000_000), Liabilities: nil},
			{Year: "2024", Symbol: "BBCA.JK", Assets: int64p(1_450_000_000_000_000), Liabilities: int64p(1_100_000_000_000_000)},
		},
		CashFlows: []models.CashFlowRow{
			{Year: "2024", Symbol: "BBRI.JK", OperatingCF: int64p(60_000_000_000_000), InvestingCF: int64p(-25_000_000_000_000)},
		},
		IncomeStatements: []models.IncomeStatementRow{
			{Year: "2024", Symbol: "BBRI.JK", TotalRevenue: int64p(135_000_000_000_000), NetIncome: int64p(60_000_000_000_000)},
		},
		TickerOverviews: []models.TickerOverview{
			{Symbol: "BBRI.JK", CompanyName: "Bank Rakyat Indonesia", Sector: "Financials", SubSector: "Banks"},
		},
	}
}

func TestImportSnapshotCountsRecords(t *testing.T) {
	store := newTestStore(t)

	count, err := store.ImportSnapshot(context.Background(), seedSnapshot())
	require.NoError(t, err)
	assert.Equal(t, 17, count)

	// Re-importing upserts, never duplicates
	count, err = store.ImportSnapshot(context.Background(), seedSnapshot())
	require.NoError(t, err)
	assert.Equal(t, 17, count)

	tickers, err := store.Tickers(context.Background())
	require.NoError(t, err)
	assert.Len(t, tickers, 2)
}

func TestMarketCapRangeFiltersAndSorts(t *testing.T) {
	store := newTestStore(t)
	_, err := store.ImportSnapshot(context.Background(), seedSnapshot())
	require.NoError(t, err)

	points, err := store.MarketCapRange(context.Background(), models.ResolvedQuery{
		StartDate: "2025-03-11",
		EndDate:   "2025-03-12",
	})
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, "2025-03-11", points[0].Date)
	assert.Equal(t, "2025-03-12", points[1].Date)

	// No bounds: everything, still sorted
	points, err = store.MarketCapRange(context.Background(), models.ResolvedQuery{})
	require.NoError(t, err)
	require.Len(t, points, 3)
	assert.Equal(t, "2025-03-10", points[0].Date)
}

func TestIndexDailyRangeFiltersByCode(t *testing.T) {
	store := newTestStore(t)
	_, err := store.ImportSnapshot(context.Background(), seedSnapshot())
	require.NoError(t, err)

	points, err := store.IndexDailyRange(context.Background(), models.ResolvedQuery{IndexCode: "lq45"})
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, 985.2, points[1].Price)

	points, err = store.IndexDailyRange(context.Background(), models.ResolvedQuery{
		IndexCode: "lq45",
		StartDate: "2025-03-11",
		EndDate:   "2025-03-11",
	})
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Equal(t, "2025-03-11", points[0].Date)

	// No filter at all returns every code
	points, err = store.IndexDailyRange(context.Background(), models.ResolvedQuery{})
	require.NoError(t, err)
	assert.Len(t, points, 3)
}

func TestTickerDailyRangeFiltersBySymbol(t *testing.T) {
	store := newTestStore(t)
	_, err := store.ImportSnapshot(context.Background(), seedSnapshot())
	require.NoError(t, err)

	bars, err := store.TickerDailyRange(context.Background(), models.ResolvedQuery{Symbol: "BBRI.JK"})
	require.NoError(t, err)
	require.Len(t, bars, 2)
	assert.Equal(t, int64(4250), bars[0].Close)
	assert.Equal(t, int64(4280), bars[1].Close)
}

func TestStatementsFilterBySymbolAndYear(t *testing.T) {
	store := newTestStore(t)
	_, err := store.ImportSnapshot(context.Background(), seedSnapshot())
	require.NoError(t, err)

	rows, err := store.BalanceSheets(context.Background(), models.ResolvedQuery{Symbol: "BBRI.JK"})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "2023", rows[0].Year)
	assert.Nil(t, rows[1].Liabilities)

	rows, err = store.BalanceSheets(context.Background(), models.ResolvedQuery{Year: "2024"})
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	rows, err = store.BalanceSheets(context.Background(), models.ResolvedQuery{Symbol: "BBCA.JK", Year: "2024"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "BBCA.JK", rows[0].Symbol)

	cashFlows, err := store.CashFlows(context.Background(), models.ResolvedQuery{Symbol: "BBRI.JK"})
	require.NoError(t, err)
	require.Len(t, cashFlows, 1)
	assert.Nil(t, cashFlows[0].FinancingCF)

	incomes, err := store.IncomeStatements(context.Background(), models.ResolvedQuery{Symbol: "BBRI.JK", Year: "2024"})
	require.NoError(t, err)
	assert.Len(t, incomes, 1)
}

func TestTickerOverviewNilWhenUnknown(t *testing.T) {
	store := newTestStore(t)
	_, err := store.ImportSnapshot(context.Background(), seedSnapshot())
	require.NoError(t, err)

	overview, err := store.TickerOverview(context.Background(), "BBRI.JK")
	require.NoError(t, err)
	require.NotNil(t, overview)
	assert.Equal(t, "Banks", overview.SubSector)

	overview, err = store.TickerOverview(context.Background(), "ZZZZ.JK")
	require.NoError(t, err)
	assert.Nil(t, overview)
}
