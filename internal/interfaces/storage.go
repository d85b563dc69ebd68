package interfaces

import (
	"context"

	"github.com/bobmcallan/rfin/internal/models"
)

// MarketStore is the persisted time-series store behind the query API.
// Queries take resolved parameters only; callers resolve defaults first.
type MarketStore interface {
	// MarketCapRange returns total market cap points within the resolved date range
	MarketCapRange(ctx context.Context, q models.ResolvedQuery) ([]models.MarketCapPoint, error)

	// IndexDailyRange returns index levels filtered by code and/or date range
	IndexDailyRange(ctx context.Context, q models.ResolvedQuery) ([]models.IndexDailyPoint, error)

	// Tickers returns the full listing
	Tickers(ctx context.Context) ([]models.TickerRecord, error)

	// TickerDailyRange returns OHLCV bars filtered by symbol and/or date range
	TickerDailyRange(ctx context.Context, q models.ResolvedQuery) ([]models.TickerDailyBar, error)

	// BalanceSheets returns rows filtered by symbol and/or year
	BalanceSheets(ctx context.Context, q models.ResolvedQuery) ([]models.BalanceSheetRow, error)

	// CashFlows returns rows filtered by symbol and/or year
	CashFlows(ctx context.Context, q models.ResolvedQuery) ([]models.CashFlowRow, error)

	// IncomeStatements returns rows filtered by symbol and/or year
	IncomeStatements(ctx context.Context, q models.ResolvedQuery) ([]models.IncomeStatementRow, error)

	// TickerOverview returns reference data for one symbol, nil when unknown
	TickerOverview(ctx context.Context, symbol string) (*models.TickerOverview, error)

	// ImportSnapshot bulk-loads pre-fetched records
	ImportSnapshot(ctx context.Context, snap *models.MarketSnapshot) (int, error)

	Close() error
}
