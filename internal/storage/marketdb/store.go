// Package marketdb implements the persisted market store using BadgerHold.
// It holds the pre-fetched IDX time series the query API serves.
package marketdb

import (
	"context"
	"fmt"
	"os"

	"github.com/timshannon/badgerhold/v4"

	"github.com/bobmcallan/rfin/internal/common"
	"github.com/bobmcallan/rfin/internal/interfaces"
	"github.com/bobmcallan/rfin/internal/models"
)

// keySep joins composite key parts. A null byte cannot appear in symbols,
// index codes, or dates, so composite keys never collide.
const keySep = "\x00"

// Store implements interfaces.MarketStore backed by BadgerHold.
type Store struct {
	db     *badgerhold.Store
	logger *common.Logger
}

// NewStore opens (creating if needed) the market store at path.
func NewStore(logger *common.Logger, path string) (*Store, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create market db path %s: %w", path, err)
	}
	opts := badgerhold.DefaultOptions
	opts.Dir = path
	opts.ValueDir = path
	opts.Logger = nil
	db, err := badgerhold.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open market db at %s: %w", path, err)
	}
	logger.Info().Str("path", path).Msg("MarketDB opened")
	return &Store{db: db, logger: logger}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// dateRangeQuery builds a Date criteria chain for a resolved range.
// Both bounds set or neither: resolution guarantees that.
func dateRangeQuery(q models.ResolvedQuery) *badgerhold.Query {
	if q.StartDate == "" && q.EndDate == "" {
		return nil
	}
	return badgerhold.Where("Date").Ge(q.StartDate).And("Date").Le(q.EndDate)
}

// orAll substitutes an unrestricted query for a nil criteria chain.
func orAll(q *badgerhold.Query) *badgerhold.Query {
	if q == nil {
		return &badgerhold.Query{}
	}
	return q
}

// MarketCapRange returns total market cap points within the resolved range.
func (s *Store) MarketCapRange(_ context.Context, q models.ResolvedQuery) ([]models.MarketCapPoint, error) {
	var points []models.MarketCapPoint
	if err := s.db.Find(&points, orAll(dateRangeQuery(q)).SortBy("Date")); err != nil {
		return nil, fmt.Errorf("market cap query failed: %w", err)
	}
	return points, nil
}

// IndexDailyRange returns index levels filtered by code and/or date range.
func (s *Store) IndexDailyRange(_ context.Context, q models.ResolvedQuery) ([]models.IndexDailyPoint, error) {
	query := dateRangeQuery(q)
	if q.IndexCode != "" {
		if query == nil {
			query = badgerhold.Where("IndexCode").Eq(q.IndexCode)
		} else {
			query = query.And("IndexCode").Eq(q.IndexCode)
		}
	}

	var points []models.IndexDailyPoint
	if err := s.db.Find(&points, orAll(query).SortBy("Date")); err != nil {
		return nil, fmt.Errorf("index daily query failed: %w", err)
	}
	return points, nil
}

// Tickers returns the full listing sorted by symbol.
func (s *Store) Tickers(_ context.Context) ([]models.TickerRecord, error) {
	var tickers []models.TickerRecord
	if err := s.db.Find(&tickers, (&badgerhold.Query{}).SortBy("Symbol")); err != nil {
		return nil, fmt.Errorf("ticker list query failed: %w", err)
	}
	return tickers, nil
}

// TickerDailyRange returns OHLCV bars filtered by symbol and/or date range.
func (s *Store) TickerDailyRange(_ context.Context, q models.ResolvedQuery) ([]models.TickerDailyBar, error) {
	query := dateRangeQuery(q)
	if q.Symbol != "" {
		if query == nil {
			query = badgerhold.Where("Symbol").Eq(q.Symbol)
		} else {
			query = query.And("Symbol").Eq(q.Symbol)
		}
	}

	var bars []models.TickerDailyBar
	if err := s.db.Find(&bars, orAll(query).SortBy("Date")); err != nil {
		return nil, fmt.Errorf("ticker daily query failed: %w", err)
	}
	return bars, nil
}

// statementQuery builds symbol/year criteria shared by the three statements.
func statementQuery(q models.ResolvedQuery) *badgerhold.Query {
	switch {
	case q.Symbol != "" && q.Year != "":
		return badgerhold.Where("Symbol").Eq(q.Symbol).And("Year").Eq(q.Year)
	case q.Symbol != "":
		return badgerhold.Where("Symbol").Eq(q.Symbol)
	case q.Year != "":
		return badgerhold.Where("Year").Eq(q.Year)
	}
	return nil
}

// BalanceSheets returns rows filtered by symbol and/or year.
func (s *Store) BalanceSheets(_ context.Context, q models.ResolvedQuery) ([]models.BalanceSheetRow, error) {
	var rows []models.BalanceSheetRow
	if err := s.db.Find(&rows, orAll(statementQuery(q)).SortBy("Year")); err != nil {
		return nil, fmt.Errorf("balance sheet query failed: %w", err)
	}
	return rows, nil
}

// CashFlows returns rows filtered by symbol and/or year.
func (s *Store) CashFlows(_ context.Context, q models.ResolvedQuery) ([]models.CashFlowRow, error) {
	var rows []models.CashFlowRow
	if err := s.db.Find(&rows, orAll(statementQuery(q)).SortBy("Year")); err != nil {
		return nil, fmt.Errorf("cash flow query failed: %w", err)
	}
	return rows, nil
}

// IncomeStatements returns rows filtered by symbol and/or year.
func (s *Store) IncomeStatements(_ context.Context, q models.ResolvedQuery) ([]models.IncomeStatementRow, error) {
	var rows []models.IncomeStatementRow
	if err := s.db.Find(&rows, orAll(statementQuery(q)).SortBy("Year")); err != nil {
		return nil, fmt.Errorf("income statement query failed: %w", err)
	}
	return rows, nil
}

// TickerOverview returns reference data for one symbol, nil when unknown.
func (s *Store) TickerOverview(_ context.Context, symbol string) (*models.TickerOverview, error) {
	var overview models.TickerOverview
	if err := s.db.Get(symbol, &overview); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("ticker overview query failed: %w", err)
	}
	return &overview, nil
}

// ImportSnapshot bulk-loads pre-fetched records, upserting by natural key.
// Returns the number of records written.
func (s *Store) ImportSnapshot(_ context.Context, snap *models.MarketSnapshot) (int, error) {
	count := 0

	for _, p := range snap.MarketCap {
		if err := s.db.Upsert(p.Date, &p); err != nil {
			return count, fmt.Errorf("market cap upsert failed: %w", err)
		}
		count++
	}
	for _, p := range snap.IndexDaily {
		if err := s.db.Upsert(p.IndexCode+keySep+p.Date, &p); err != nil {
			return count, fmt.Errorf("index daily upsert failed: %w", err)
		}
		count++
	}
	for _, t := range snap.Tickers {
		if err := s.db.Upsert(t.Symbol, &t); err != nil {
			return count, fmt.Errorf("ticker upsert failed: %w", err)
		}
		count++
	}
	for _, b := range snap.TickerDaily {
		if err := s.db.Upsert(b.Symbol+keySep+b.Date, &b); err != nil {
			return count, fmt.Errorf("ticker daily upsert failed: %w", err)
		}
		count++
	}
	for _, r := range snap.BalanceSheets {
		if err := s.db.Upsert(r.Symbol+keySep+r.Year, &r); err != nil {
			return count, fmt.Errorf("balance sheet upsert failed: %w", err)
		}
		count++
	}
	for _, r := range snap.CashFlows {
		if err := s.db.Upsert(r.Symbol+keySep+r.Year, &r); err != nil {
			return count, fmt.Errorf("cash flow upsert failed: %w", err)
		}
		count++
	}
	for _, r := range snap.IncomeStatements {
		if err := s.db.Upsert(r.Symbol+keySep+r.Year, &r); err != nil {
			return count, fmt.Errorf("income statement upsert failed: %w", err)
		}
		count++
	}
	for _, o := range snap.TickerOverviews {
		if err := s.db.Upsert(o.Symbol, &o); err != nil {
			return count, fmt.Errorf("ticker overview upsert failed: %w", err)
		}
		count++
	}

	s.logger.Info().Int("records", count).Msg("Snapshot imported")
	return count, nil
}

// Ensure Store implements MarketStore
var _ interfaces.MarketStore = (*Store)(nil)
