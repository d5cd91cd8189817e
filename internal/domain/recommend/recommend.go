// Package recommend holds the recommendation request and result value objects.
package recommend

import (
	"fmt"

	"github.com/makersmarket/discovery/internal/domain/catalog"
)

// Context names the surface a recommendation list is generated for. The
// context selects which strategies contribute and with what weight.
type Context string

const (
	// Homepage is the landing feed.
	Homepage Context = "homepage"
	// ProductPage is the "more like this" rail on an item page.
	ProductPage Context = "product_page"
	// SearchResults is the rail below search results.
	SearchResults Context = "search_results"
	// Cart is the "goes well with" rail in the cart.
	Cart Context = "cart"
	// Checkout is the low-cost add-on rail at checkout.
	Checkout Context = "checkout"
)

// ParseContext validates a raw context string.
func ParseContext(s string) (Context, error) {
	switch Context(s) {
	case Homepage, ProductPage, SearchResults, Cart, Checkout:
		return Context(s), nil
	default:
		return "", fmt.Errorf("unknown recommendation context %q", s)
	}
}

// Strategy names the algorithm that produced a recommendation.
type Strategy string

const (
	// Collaborative surfaces items favored by users with overlapping history.
	Collaborative Strategy = "collaborative"
	// ContentBased surfaces items similar to a source item.
	ContentBased Strategy = "content_based"
	// Trending surfaces currently popular items.
	Trending Strategy = "trending"
	// Personalized surfaces items matching the user's derived preferences.
	Personalized Strategy = "personalized"
	// SimilarUsers surfaces items from behaviorally similar users.
	SimilarUsers Strategy = "similar_users"
)

// Recommendation is a single scored suggestion. Call-scoped, never persisted.
type Recommendation struct {
	item       catalog.Item
	score      float64
	reason     string
	strategy   Strategy
	confidence float64
}

// New creates a recommendation.
func New(item catalog.Item, score float64, reason string, strategy Strategy, confidence float64) Recommendation {
	return Recommendation{
		item: item, score: score, reason: reason,
		strategy: strategy, confidence: confidence,
	}
}

// Item returns the recommended catalog item.
func (r Recommendation) Item() catalog.Item { return r.item }

// Score returns the blending score.
func (r Recommendation) Score() float64 { return r.score }

// Reason returns the human-readable explanation.
func (r Recommendation) Reason() string { return r.reason }

// Strategy returns the producing strategy tag.
func (r Recommendation) Strategy() Strategy { return r.strategy }

// Confidence returns the strategy's confidence in this suggestion.
func (r Recommendation) Confidence() float64 { return r.confidence }

const defaultLimit = 10

// Request is a single recommendation call.
type Request struct {
	userID       string
	context      Context
	itemID       string
	cartItemIDs  []string
	excludeItems []string
	limit        int
}

// NewRequest creates a recommendation request. itemID is the source item for
// product_page contexts; cartItemIDs are the cart line items for cart
// contexts. A non-positive limit falls back to the default.
func NewRequest(
	userID string, context Context, itemID string,
	cartItemIDs, excludeItems []string, limit int,
) Request {
	if limit <= 0 {
		limit = defaultLimit
	}
	return Request{
		userID: userID, context: context, itemID: itemID,
		cartItemIDs: cartItemIDs, excludeItems: excludeItems, limit: limit,
	}
}

// UserID returns the requesting user ("" = anonymous).
func (r Request) UserID() string { return r.userID }

// Context returns the requesting surface.
func (r Request) Context() Context { return r.context }

// ItemID returns the source item id for product_page contexts.
func (r Request) ItemID() string { return r.itemID }

// CartItemIDs returns the cart line item ids for cart contexts.
func (r Request) CartItemIDs() []string { return r.cartItemIDs }

// ExcludeItems returns ids that must never appear in the response.
func (r Request) ExcludeItems() []string { return r.excludeItems }

// Limit returns the maximum number of recommendations to return.
func (r Request) Limit() int { return r.limit }
