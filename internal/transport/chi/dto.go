package chi

import (
	"time"

	domcat "github.com/makersmarket/discovery/internal/domain/catalog"
	"github.com/makersmarket/discovery/internal/domain/recommend"
	"github.com/makersmarket/discovery/internal/domain/search/query"
	"github.com/makersmarket/discovery/internal/domain/search/result"
)

// Error codes returned to clients.
const (
	codeBadRequest       = "bad_request"
	codeValidationFailed = "validation_failed"
	codeItemNotFound     = "item_not_found"
	codeUnauthorized     = "unauthorized"
	codeInternal         = "internal_error"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type filtersRequest struct {
	Category     string   `json:"category,omitempty"`
	Locality     string   `json:"locality,omitempty"`
	PriceMin     *float64 `json:"price_min,omitempty"`
	PriceMax     *float64 `json:"price_max,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	Availability string   `json:"availability,omitempty"`
	Sort         string   `json:"sort,omitempty"`
}

type searchRequest struct {
	Query     string         `json:"query"`
	Filters   filtersRequest `json:"filters"`
	Limit     int            `json:"limit,omitempty"`
	Offset    int            `json:"offset,omitempty"`
	UserID    string         `json:"user_id,omitempty"`
	SessionID string         `json:"session_id,omitempty"`
}

type sellerResponse struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Avatar string  `json:"avatar,omitempty"`
	Rating float64 `json:"rating"`
}

type itemResponse struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Description  string         `json:"description,omitempty"`
	Price        float64        `json:"price"`
	Images       []string       `json:"images,omitempty"`
	Seller       sellerResponse `json:"seller"`
	Category     string         `json:"category,omitempty"`
	Tags         []string       `json:"tags,omitempty"`
	Locality     string         `json:"locality,omitempty"`
	Availability string         `json:"availability"`
	CreatedAt    time.Time      `json:"created_at"`
}

type searchResultResponse struct {
	Item       itemResponse `json:"item"`
	Relevance  float64      `json:"relevance_score"`
	Popularity float64      `json:"popularity_score"`
	Quality    float64      `json:"quality_score"`
	Composite  float64      `json:"composite_score"`
}

type searchResponse struct {
	Results     []searchResultResponse `json:"results"`
	TotalCount  int                    `json:"total_count"`
	Suggestions []string               `json:"suggestions"`
}

type recommendationRequest struct {
	UserID       string   `json:"user_id,omitempty"`
	Context      string   `json:"context"`
	ItemID       string   `json:"item_id,omitempty"`
	CartItemIDs  []string `json:"cart_item_ids,omitempty"`
	ExcludeItems []string `json:"exclude_items,omitempty"`
	Limit        int      `json:"limit,omitempty"`
}

type recommendationResponse struct {
	Item       itemResponse `json:"item"`
	Score      float64      `json:"score"`
	Reason     string       `json:"reason"`
	Strategy   string       `json:"strategy"`
	Confidence float64      `json:"confidence"`
}

type recommendationsResponse struct {
	Recommendations []recommendationResponse `json:"recommendations"`
}

type suggestResponse struct {
	Suggestions []string `json:"suggestions"`
}

type interactionRequest struct {
	UserID string `json:"user_id"`
	ItemID string `json:"item_id"`
	Kind   string `json:"kind"`
}

func filtersFromRequest(req filtersRequest) (query.Filters, error) {
	var availability domcat.Availability
	if req.Availability != "" {
		parsed, err := domcat.ParseAvailability(req.Availability)
		if err != nil {
			return query.Filters{}, err
		}
		availability = parsed
	}
	var priceRange *query.PriceRange
	if req.PriceMin != nil || req.PriceMax != nil {
		min, max := 0.0, maxPrice
		if req.PriceMin != nil {
			min = *req.PriceMin
		}
		if req.PriceMax != nil {
			max = *req.PriceMax
		}
		pr := query.NewPriceRange(min, max)
		priceRange = &pr
	}
	return query.NewFilters(
		req.Category, req.Locality, priceRange,
		req.Tags, availability, query.SortOption(req.Sort),
	), nil
}

// maxPrice is the open upper bound used when only price_min is given.
const maxPrice = 1e9

func itemToResponse(item domcat.Item) itemResponse {
	return itemResponse{
		ID:          item.ID(),
		Title:       item.Title(),
		Description: item.Description(),
		Price:       item.Price(),
		Images:      item.Images(),
		Seller: sellerResponse{
			ID:     item.Seller().ID(),
			Name:   item.Seller().Name(),
			Avatar: item.Seller().Avatar(),
			Rating: item.Seller().Rating(),
		},
		Category:     item.Category(),
		Tags:         item.Tags(),
		Locality:     item.Locality(),
		Availability: string(item.Availability()),
		CreatedAt:    item.CreatedAt(),
	}
}

func resultsToResponse(results []result.Result) []searchResultResponse {
	out := make([]searchResultResponse, 0, len(results))
	for _, r := range results {
		out = append(out, searchResultResponse{
			Item:       itemToResponse(r.Item()),
			Relevance:  r.Relevance(),
			Popularity: r.Popularity(),
			Quality:    r.Quality(),
			Composite:  r.Composite(),
		})
	}
	return out
}

func recommendationsToResponse(recs []recommend.Recommendation) []recommendationResponse {
	out := make([]recommendationResponse, 0, len(recs))
	for _, rec := range recs {
		out = append(out, recommendationResponse{
			Item:       itemToResponse(rec.Item()),
			Score:      rec.Score(),
			Reason:     rec.Reason(),
			Strategy:   string(rec.Strategy()),
			Confidence: rec.Confidence(),
		})
	}
	return out
}
