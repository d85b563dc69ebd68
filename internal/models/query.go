package models

import (
	"strings"
	"time"
)

// EpochStart is the earliest date held by the persisted store. Unspecified
// lower date bounds resolve to it.
const EpochStart = "2024-06-21"

// DateLayout is the calendar-day wire format used throughout.
const DateLayout = "2006-01-02"

// TickerSuffix is appended to bare IDX symbols when absent.
const TickerSuffix = ".JK"

// StoreQuery carries the raw, user-supplied filter values for a
// persisted-store query. Absent keys are empty strings.
type StoreQuery struct {
	Symbol    string
	StartDate string
	EndDate   string
	Year      string
	IndexCode string
}

// ResolvedQuery is a StoreQuery after default resolution and normalization.
// It is the only form that may reach the store or a cache key.
type ResolvedQuery struct {
	Symbol    string
	StartDate string
	EndDate   string
	Year      string
	IndexCode string
}

// Resolve applies default resolution and normalization rules:
// symbols uppercase with the ".JK" suffix appended when absent, index codes
// uppercase, and date bounds defaulting to the epoch start / today whenever
// one end of the range is supplied without the other.
func (q StoreQuery) Resolve(today time.Time) ResolvedQuery {
	r := ResolvedQuery{
		Symbol:    NormalizeSymbol(q.Symbol),
		StartDate: q.StartDate,
		EndDate:   q.EndDate,
		Year:      strings.TrimSpace(q.Year),
		IndexCode: strings.ToUpper(strings.TrimSpace(q.IndexCode)),
	}

	if r.StartDate != "" && r.EndDate == "" {
		r.EndDate = today.Format(DateLayout)
	}
	if r.EndDate != "" && r.StartDate == "" {
		r.StartDate = EpochStart
	}

	return r
}

// Params returns every recognized filter key with its resolved value, absent
// values included as empty strings. Cache keys are built from this, never
// from the raw query, so identical effective queries always collide.
func (r ResolvedQuery) Params() map[string]string {
	return map[string]string{
		"symbol":     r.Symbol,
		"start_date": r.StartDate,
		"end_date":   r.EndDate,
		"year":       r.Year,
		"index_code": r.IndexCode,
	}
}

// NormalizeSymbol uppercases a ticker symbol and appends the ".JK" suffix
// when absent. Empty input stays empty.
func NormalizeSymbol(symbol string) string {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	if s == "" {
		return ""
	}
	if !strings.HasSuffix(s, TickerSuffix) {
		s += TickerSuffix
	}
	return s
}
