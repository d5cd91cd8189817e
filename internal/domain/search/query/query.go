// Package query holds the search request value objects.
package query

import (
	"github.com/makersmarket/discovery/internal/domain/catalog"
)

// SortOption selects the result ordering.
type SortOption string

const (
	// SortRelevance orders by composite score (default).
	SortRelevance SortOption = "relevance"
	// SortPriceAsc orders by ascending price.
	SortPriceAsc SortOption = "price_asc"
	// SortPriceDesc orders by descending price.
	SortPriceDesc SortOption = "price_desc"
	// SortNewest orders by listing creation time, newest first.
	SortNewest SortOption = "newest"
)

// PriceRange bounds an acceptable price interval.
type PriceRange struct {
	min float64
	max float64
}

// NewPriceRange creates a price range. Min and max are not reordered;
// an inverted range simply matches nothing.
func NewPriceRange(min, max float64) PriceRange {
	return PriceRange{min: min, max: max}
}

// Min returns the lower bound.
func (p PriceRange) Min() float64 { return p.min }

// Max returns the upper bound.
func (p PriceRange) Max() float64 { return p.max }

// Contains reports whether price falls inside the range.
func (p PriceRange) Contains(price float64) bool {
	return price >= p.min && price <= p.max
}

// Filters is the optional structured filter set of a search query.
// The zero value matches everything.
type Filters struct {
	category     string
	locality     string
	priceRange   *PriceRange
	tags         []string
	availability catalog.Availability
	sort         SortOption
}

// NewFilters creates a filter set. availability and sort may be empty.
func NewFilters(
	category, locality string, priceRange *PriceRange,
	tags []string, availability catalog.Availability, sort SortOption,
) Filters {
	return Filters{
		category: category, locality: locality, priceRange: priceRange,
		tags: tags, availability: availability, sort: sort,
	}
}

// Category returns the category filter ("" = any).
func (f Filters) Category() string { return f.category }

// Locality returns the locality filter ("" = any).
func (f Filters) Locality() string { return f.locality }

// PriceRange returns the price filter (nil = any).
func (f Filters) PriceRange() *PriceRange { return f.priceRange }

// Tags returns the tag filter set (empty = any).
func (f Filters) Tags() []string { return f.tags }

// Availability returns the availability filter ("" = any).
func (f Filters) Availability() catalog.Availability { return f.availability }

// Sort returns the sort preference ("" = relevance).
func (f Filters) Sort() SortOption {
	if f.sort == "" {
		return SortRelevance
	}
	return f.sort
}

const defaultLimit = 20

// Query is a single search request. Constructed per call, never persisted.
type Query struct {
	text    string
	filters Filters
	limit   int
	offset  int
	userID  string
	session string
}

// New creates a search query. A non-positive limit falls back to the default
// page size; a negative offset is clamped to zero.
func New(text string, filters Filters, limit, offset int, userID, sessionID string) Query {
	if limit <= 0 {
		limit = defaultLimit
	}
	if offset < 0 {
		offset = 0
	}
	return Query{
		text: text, filters: filters,
		limit: limit, offset: offset,
		userID: userID, session: sessionID,
	}
}

// Text returns the raw query text.
func (q Query) Text() string { return q.text }

// Filters returns the structured filter set.
func (q Query) Filters() Filters { return q.filters }

// Limit returns the page size.
func (q Query) Limit() int { return q.limit }

// Offset returns the page offset.
func (q Query) Offset() int { return q.offset }

// UserID returns the requesting user id ("" = anonymous).
func (q Query) UserID() string { return q.userID }

// SessionID returns the caller session id.
func (q Query) SessionID() string { return q.session }
