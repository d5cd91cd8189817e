package discovery

import "time"

// Seller is the public seller summary attached to an item.
type Seller struct {
	ID     string
	Name   string
	Avatar string
	Rating float64
}

// Item is the public catalog item shape.
type Item struct {
	ID           string
	Title        string
	Description  string
	Price        float64
	Images       []string
	Seller       Seller
	Category     string
	Tags         []string
	Locality     string
	Availability string
	CreatedAt    time.Time
}

// Filters narrows a search. Zero values match everything.
type Filters struct {
	Category     string
	Locality     string
	PriceMin     *float64
	PriceMax     *float64
	Tags         []string
	Availability string
	Sort         string
}

// SearchRequest is a single search call.
type SearchRequest struct {
	Query     string
	Filters   Filters
	Limit     int
	Offset    int
	UserID    string
	SessionID string
}

// SearchResult is one scored hit.
type SearchResult struct {
	Item       Item
	Relevance  float64
	Popularity float64
	Quality    float64
	Composite  float64
}

// SearchResponse is the outcome of a search call.
type SearchResponse struct {
	Results     []SearchResult
	TotalCount  int
	Suggestions []string
}

// RecommendationRequest is a single recommendation call. Context is one of
// homepage, product_page, search_results, cart, checkout.
type RecommendationRequest struct {
	UserID       string
	Context      string
	ItemID       string
	CartItemIDs  []string
	ExcludeItems []string
	Limit        int
}

// Recommendation is one scored suggestion.
type Recommendation struct {
	Item       Item
	Score      float64
	Reason     string
	Strategy   string
	Confidence float64
}

// Interaction kinds accepted by RecordInteraction.
const (
	InteractionView     = "view"
	InteractionPurchase = "purchase"
	InteractionFavorite = "favorite"
)
