// Package common provides shared utilities for rfin
package common

import "time"

// Freshness TTLs for cached data components
const (
	FreshnessQuery      = 60 * time.Second // persisted-store query results
	FreshnessVocabulary = 10 * time.Minute // fetched sub-sector/sub-industry lists
	FreshnessHolidays   = 10 * time.Minute // public-holiday calendar, per year
)

// IsFresh returns true if the given timestamp is within the TTL
func IsFresh(updated time.Time, ttl time.Duration) bool {
	if updated.IsZero() {
		return false
	}
	return time.Since(updated) < ttl
}
