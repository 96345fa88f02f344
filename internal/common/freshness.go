// Package common provides shared utilities for StockGraph
package common

import "time"

// Freshness TTLs for cached components
const (
	// FreshnessCorrelations bounds how long a computed correlation matrix is
	// served from cache before being recomputed.
	FreshnessCorrelations = 24 * time.Hour

	// FreshnessSentiment bounds how long an AI sentiment reading is reused.
	FreshnessSentiment = 6 * time.Hour
)

// IsFresh returns true if the given timestamp is within the TTL
func IsFresh(updated time.Time, ttl time.Duration) bool {
	if updated.IsZero() {
		return false
	}
	return time.Since(updated) < ttl
}
