// Package result holds the scored search hit value object.
package result

import "github.com/makersmarket/discovery/internal/domain/catalog"

// Result is a catalog item scored against a query. Each axis is bounded
// [0,100]; the composite is the weighted blend used for final ordering.
type Result struct {
	item       catalog.Item
	relevance  float64
	popularity float64
	quality    float64
	composite  float64
}

// New creates a scored result.
func New(item catalog.Item, relevance, popularity, quality, composite float64) Result {
	return Result{
		item: item, relevance: relevance, popularity: popularity,
		quality: quality, composite: composite,
	}
}

// Item returns the underlying catalog item.
func (r Result) Item() catalog.Item { return r.item }

// Relevance returns the text-match score.
func (r Result) Relevance() float64 { return r.relevance }

// Popularity returns the popularity score.
func (r Result) Popularity() float64 { return r.popularity }

// Quality returns the listing quality score.
func (r Result) Quality() float64 { return r.quality }

// Composite returns the weighted blend of the three axes.
func (r Result) Composite() float64 { return r.composite }
