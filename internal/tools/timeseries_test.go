package tools

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/rfin/internal/models"
)

func TestDailyTransactionsShiftsWeekendEndDate(t *testing.T) {
	sectors := &mockSectors{daily: []models.DailyTransaction{
		{Date: "2025-03-13", Close: 4210, Volume: 125000000, MarketCap: 512_500_000_000_000},
		{Date: "2025-03-14", Close: 4250.5, Volume: 98000000, MarketCap: 515_000_000_000_000},
	}}
	reg, _ := newTestRegistry(sectors, &mockStore{})

	// 2025-03-15 is a Saturday; the provider must be asked for Monday
	result, err := invoke(reg, "get_daily_trx", map[string]any{
		"stock":      "bbri",
		"start_date": "2025-03-13",
		"end_date":   "2025-03-15",
	})
	require.NoError(t, err)
	assert.Equal(t, "2025-03-17", sectors.lastEndArg)

	lines := strings.Split(result.Text, "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "4210.00")
	assert.Contains(t, lines[1], "125000000")
	assert.Contains(t, lines[1], "512.5000")

	require.Len(t, result.SkippedDates, 2)
	payload := result.Payload()
	assert.Equal(t, result.Text, payload["result"])
	assert.Equal(t, []string{
		"2025-03-15 is either weekend or holiday",
		"2025-03-16 is either weekend or holiday",
	}, payload["skipped_dates"])
}

func TestDailyTransactionsLastNUsesResolvedRange(t *testing.T) {
	sectors := &mockSectors{}
	reg, resolver := newTestRegistry(sectors, &mockStore{})

	expected, err := resolver.LastNBusinessDays(context.Background(), 3)
	require.NoError(t, err)

	result, err := invoke(reg, "get_daily_trx_last_n_dates", map[string]any{
		"stock":        "BBCA",
		"last_n_dates": 3.0,
	})
	require.NoError(t, err)
	assert.Equal(t, expected.StartDate, sectors.lastStartArg)
	assert.Equal(t, expected.EndDate, sectors.lastEndArg)
	assert.Empty(t, result.SkippedDates)
	assert.NotContains(t, result.Payload(), "skipped_dates")
}

func TestHistoricalMarketCapScalesToTrillions(t *testing.T) {
	sectors := &mockSectors{marketCap: []models.MarketCapPoint{
		{Date: "2025-03-13", IDXTotalMarketCap: 12_345_600_000_000_000},
	}}
	reg, _ := newTestRegistry(sectors, &mockStore{})

	result, err := invoke(reg, "get_historical_market_cap", map[string]any{
		"start_date": "2025-03-13",
		"end_date":   "2025-03-13",
	})
	require.NoError(t, err)
	assert.Contains(t, result.Text, "12345.6000")
}

func TestIndexDailyValidatesBeforeFetching(t *testing.T) {
	sectors := &mockSectors{indexDaily: []models.IndexDailyPoint{
		{Date: "2025-03-13", IndexCode: "lq45", Price: 985.12},
	}}
	reg, _ := newTestRegistry(sectors, &mockStore{})

	_, err := invoke(reg, "get_index_daily", map[string]any{
		"index":      "SP500",
		"start_date": "2025-03-13",
		"end_date":   "2025-03-13",
	})
	var domainErr *models.InvalidDomainValueError
	require.ErrorAs(t, err, &domainErr)
	assert.Empty(t, sectors.lastIndexArg)

	result, err := invoke(reg, "get_index_daily", map[string]any{
		"index":      "LQ45",
		"start_date": "2025-03-13",
		"end_date":   "2025-03-13",
	})
	require.NoError(t, err)
	assert.Equal(t, "lq45", sectors.lastIndexArg)
	assert.Contains(t, result.Text, "985.12")
}

func TestIndexDailyAcceptsIHSG(t *testing.T) {
	sectors := &mockSectors{}
	reg, _ := newTestRegistry(sectors, &mockStore{})

	_, err := invoke(reg, "get_index_daily_last_n_dates", map[string]any{
		"index":        "ihsg",
		"last_n_dates": 5.0,
	})
	require.NoError(t, err)
	assert.Equal(t, "ihsg", sectors.lastIndexArg)
}
