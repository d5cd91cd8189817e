// Package analytics holds the write-only audit records emitted at the end of
// every search and recommendation call. The engine never reads these back;
// they are appended to the external telemetry stream fire-and-forget.
package analytics

import (
	"time"

	"github.com/makersmarket/discovery/internal/domain/search/query"
)

// SearchEvent audits a single search call.
type SearchEvent struct {
	ID           string
	Query        string
	UserID       string
	SessionID    string
	ResultsCount int
	Duration     time.Duration
	Filters      query.Filters
	At           time.Time
}

// RecommendationEvent audits a single recommendation call.
type RecommendationEvent struct {
	ID       string
	UserID   string
	Context  string
	ItemIDs  []string
	Count    int
	Duration time.Duration
	At       time.Time
}
